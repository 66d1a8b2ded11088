package mongo

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/atelier/storefront/internal/core/domain"
	"github.com/atelier/storefront/internal/core/ports"
)

const (
	collectionSecurityEvents = "security_events"
	securityEventRetention   = 90 * 24 * time.Hour
)

// SecurityEventRepository implements ports.SecurityEventRepository using MongoDB.
type SecurityEventRepository struct {
	col *mongo.Collection
}

func NewSecurityEventRepository(db *mongo.Database) *SecurityEventRepository {
	return &SecurityEventRepository{col: db.Collection(collectionSecurityEvents)}
}

// Insert persists an event to the security_events audit collection.
func (r *SecurityEventRepository) Insert(ctx context.Context, e *domain.SecurityEvent) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}
	e.Timestamp = e.Timestamp.UTC()

	if _, err := r.col.InsertOne(ctx, e); err != nil {
		return fmt.Errorf("insert security event: %w", err)
	}
	return nil
}

// List returns a page of events, newest first.
func (r *SecurityEventRepository) List(ctx context.Context, f ports.SecurityEventFilter) ([]*domain.SecurityEvent, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{}
	if f.Kind != "" {
		filter["kind"] = f.Kind
	}
	if f.Severity != "" {
		filter["severity"] = f.Severity
	}
	if f.UserID != "" {
		filter["user_id"] = f.UserID
	}

	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count security events: %w", err)
	}

	opts := pageOptions(f.Page, f.Limit).SetSort(bson.D{{Key: "timestamp", Value: -1}})
	cursor, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("find security events: %w", err)
	}
	defer cursor.Close(ctx)

	var events []*domain.SecurityEvent
	if err := cursor.All(ctx, &events); err != nil {
		return nil, 0, fmt.Errorf("decode security events: %w", err)
	}
	return events, total, nil
}

// EnsureIndexes creates the lookup indexes and the TTL index that expires
// events after the retention window.
func (r *SecurityEventRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "timestamp", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(int32(securityEventRetention.Seconds())),
		},
		{Keys: bson.D{{Key: "kind", Value: 1}, {Key: "timestamp", Value: -1}}},
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "timestamp", Value: -1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
