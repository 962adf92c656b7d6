package api

import (
	"net/http"
	"time"

	"goap-agent/internal/controlauth"
)

// requestTimeout bounds how long a handler may wait on a store round-trip
// before giving up and returning 503.
const requestTimeout = 5 * time.Second

// AuthMiddleware wraps controlauth.Service.Middleware, the single point
// where this control API's credential check lives.
func AuthMiddleware(authService *controlauth.Service) func(http.Handler) http.Handler {
	return authService.Middleware
}
