// Package store holds the ambient persistence adapters around the goap
// engine: a Postgres-backed cooldown/goal-report archive, a Redis-backed
// WorldState snapshot cache, and a Mongo-backed plan-history archive. None
// of these participate in planning/arbitration/execution semantics; they
// are diagnostic and operational infrastructure around it.
package store

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// CooldownRecord is a persisted goal cooldown, surviving controller
// restarts so an agent does not immediately retry a goal it just failed.
type CooldownRecord struct {
	AgentID  string
	GoalName string
	Until    time.Time
}

// CooldownStore persists per-agent goal cooldowns and archives goal-report
// diagnostics: what goal was chosen, the plan it produced, its cost, and
// why it ended the way it did.
type CooldownStore interface {
	PutCooldown(ctx context.Context, rec CooldownRecord) error
	ActiveCooldowns(ctx context.Context, agentID string, asOf time.Time) ([]CooldownRecord, error)
	PruneExpired(ctx context.Context, asOf time.Time) (int64, error)
	RecordGoalReport(ctx context.Context, report GoalReport) error
}

// GoalReport is the durable form of a planning/execution diagnostic
// record: which goal was attempted, the plan chosen, its cost, and the
// outcome.
type GoalReport struct {
	AgentID   string
	Goal      string
	Plan      []string
	Cost      float64
	Reason    string
	Failures  int
	Timestamp time.Time
}

// PostgresCooldownStore implements CooldownStore against a pgxpool.Pool.
type PostgresCooldownStore struct {
	db *pgxpool.Pool
}

// NewPostgresCooldownStore constructs a PostgresCooldownStore.
func NewPostgresCooldownStore(db *pgxpool.Pool) *PostgresCooldownStore {
	return &PostgresCooldownStore{db: db}
}

func (s *PostgresCooldownStore) PutCooldown(ctx context.Context, rec CooldownRecord) error {
	query := `
		INSERT INTO goal_cooldowns (agent_id, goal_name, until)
		VALUES ($1, $2, $3)
		ON CONFLICT (agent_id, goal_name) DO UPDATE SET until = EXCLUDED.until
	`
	_, err := s.db.Exec(ctx, query, rec.AgentID, rec.GoalName, rec.Until)
	return err
}

func (s *PostgresCooldownStore) ActiveCooldowns(ctx context.Context, agentID string, asOf time.Time) ([]CooldownRecord, error) {
	query := `
		SELECT agent_id, goal_name, until
		FROM goal_cooldowns
		WHERE agent_id = $1 AND until > $2
	`
	rows, err := s.db.Query(ctx, query, agentID, asOf)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []CooldownRecord
	for rows.Next() {
		var rec CooldownRecord
		if err := rows.Scan(&rec.AgentID, &rec.GoalName, &rec.Until); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (s *PostgresCooldownStore) PruneExpired(ctx context.Context, asOf time.Time) (int64, error) {
	tag, err := s.db.Exec(ctx, `DELETE FROM goal_cooldowns WHERE until <= $1`, asOf)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (s *PostgresCooldownStore) RecordGoalReport(ctx context.Context, report GoalReport) error {
	query := `
		INSERT INTO goal_reports (agent_id, goal, plan, cost, reason, failures, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := s.db.Exec(ctx, query,
		report.AgentID, report.Goal, report.Plan, report.Cost,
		report.Reason, report.Failures, report.Timestamp,
	)
	return err
}
