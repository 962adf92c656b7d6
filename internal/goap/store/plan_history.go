package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// PlanRecord is one archived plan outcome: the sequence of action names
// the Planner produced, its path cost, and how the Executor disposed of
// it. Kept separate from GoalReport (store.CooldownStore) because plan
// history is append-only document history rather than a cooldown index,
// and volume favors a document store over relational rows.
type PlanRecord struct {
	AgentID     string    `bson:"agent_id"`
	Goal        string    `bson:"goal"`
	Actions     []string  `bson:"actions"`
	Cost        float64   `bson:"cost"`
	ReplanCount int       `bson:"replan_count"`
	Outcome     string    `bson:"outcome"` // "completed" or "failed"
	CreatedAt   time.Time `bson:"created_at"`
}

// PlanHistoryArchive stores plan outcomes for later inspection (debugging
// a misbehaving agent, auditing why a goal kept failing).
type PlanHistoryArchive interface {
	Append(ctx context.Context, rec PlanRecord) error
	Recent(ctx context.Context, agentID string, limit int64) ([]PlanRecord, error)
}

// MongoPlanHistoryArchive implements PlanHistoryArchive against a single
// Mongo collection.
type MongoPlanHistoryArchive struct {
	collection *mongo.Collection
}

// NewMongoPlanHistoryArchive constructs a MongoPlanHistoryArchive backed
// by the given collection.
func NewMongoPlanHistoryArchive(collection *mongo.Collection) *MongoPlanHistoryArchive {
	return &MongoPlanHistoryArchive{collection: collection}
}

func (a *MongoPlanHistoryArchive) Append(ctx context.Context, rec PlanRecord) error {
	_, err := a.collection.InsertOne(ctx, rec)
	return err
}

func (a *MongoPlanHistoryArchive) Recent(ctx context.Context, agentID string, limit int64) ([]PlanRecord, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit)

	cursor, err := a.collection.Find(ctx, bson.M{"agent_id": agentID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var records []PlanRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}
