package health

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/nats-io/nats.go"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type NATSConn interface {
	Status() nats.Status
}

// HealthChecker checks the health of the control surface and the stores
// each agent's store-backed components depend on.
type HealthChecker struct {
	db    Pinger
	redis Pinger
	mongo Pinger
	nats  NATSConn
}

// NewHealthChecker creates a new HealthChecker. Any dependency may be nil
// when the corresponding store is not wired (e.g. a deployment running
// agents entirely in memory).
func NewHealthChecker(db Pinger, redis Pinger, mongo Pinger, nc NATSConn) *HealthChecker {
	return &HealthChecker{
		db:    db,
		redis: redis,
		mongo: mongo,
		nats:  nc,
	}
}

// Check performs the health checks.
func (hc *HealthChecker) Check(ctx context.Context) map[string]string {
	status := make(map[string]string)
	status["status"] = "ok"

	if hc.db != nil {
		ctx, cancel := context.WithTimeout(ctx, 1*time.Second)
		if err := hc.db.Ping(ctx); err != nil {
			status["postgres"] = "unhealthy"
			status["status"] = "degraded"
		} else {
			status["postgres"] = "healthy"
		}
		cancel()
	}

	if hc.redis != nil {
		ctx, cancel := context.WithTimeout(ctx, 1*time.Second)
		if err := hc.redis.Ping(ctx); err != nil {
			status["redis"] = "unhealthy"
			status["status"] = "degraded"
		} else {
			status["redis"] = "healthy"
		}
		cancel()
	}

	if hc.mongo != nil {
		ctx, cancel := context.WithTimeout(ctx, 1*time.Second)
		if err := hc.mongo.Ping(ctx); err != nil {
			status["mongo"] = "unhealthy"
			status["status"] = "degraded"
		} else {
			status["mongo"] = "healthy"
		}
		cancel()
	}

	if hc.nats != nil {
		if hc.nats.Status() != nats.CONNECTED {
			status["nats"] = "unhealthy"
			status["status"] = "degraded"
		} else {
			status["nats"] = "healthy"
		}
	}

	return status
}

// Handler returns an HTTP handler for the health check endpoint.
func (hc *HealthChecker) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := hc.Check(r.Context())

		w.Header().Set("Content-Type", "application/json")

		statusCode := http.StatusOK
		if status["status"] != "ok" {
			statusCode = http.StatusServiceUnavailable
		}

		w.WriteHeader(statusCode)
		json.NewEncoder(w).Encode(status)
	}
}
