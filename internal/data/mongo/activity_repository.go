// Package mongo stores the account activity log in MongoDB.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/bank-accounts-service/internal/domain/activity"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const ActivityCollectionName = "account_activity"

// ActivityRepository implements the activity.Repository interface for MongoDB
type ActivityRepository struct {
	collection *mongo.Collection
	logger     *slog.Logger
}

func NewActivityRepository(logger *slog.Logger, db *mongo.Database) *ActivityRepository {
	return &ActivityRepository{
		collection: db.Collection(ActivityCollectionName),
		logger:     logger,
	}
}

// EnsureIndexes creates the unique event index that makes Record idempotent and the
// per-account listing index.
func (r *ActivityRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "event_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_event_id"),
		},
		{
			Keys:    bson.D{{Key: "account_id", Value: 1}, {Key: "occurred_at", Value: -1}},
			Options: options.Index().SetName("account_occurred_at"),
		},
	})
	if err != nil {
		r.logger.Error("Failed to create activity indexes", "error", err)
		return fmt.Errorf("failed to create activity indexes: %w", err)
	}
	return nil
}

func (r *ActivityRepository) Record(ctx context.Context, entry *activity.Entry) error {
	_, err := r.collection.InsertOne(ctx, entry)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return activity.ErrDuplicateEntry{EventID: entry.EventID}
		}
		r.logger.Error("Failed to record account activity",
			"event_id", entry.EventID.String(),
			"account_id", entry.AccountID.String(),
			"error", err)
		return fmt.Errorf("failed to record account activity: %w", err)
	}
	return nil
}

// ListByAccount returns a page of entries, newest first.
func (r *ActivityRepository) ListByAccount(ctx context.Context, accountID uuid.UUID, limit, offset int) ([]*activity.Entry, error) {
	filter := bson.M{"account_id": accountID}
	opts := options.Find().
		SetSort(bson.D{{Key: "occurred_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		r.logger.Error("Failed to list account activity", "account_id", accountID.String(), "error", err)
		return nil, fmt.Errorf("failed to list account activity: %w", err)
	}
	defer cursor.Close(ctx)

	entries := make([]*activity.Entry, 0)
	if err := cursor.All(ctx, &entries); err != nil {
		r.logger.Error("Failed to decode account activity", "account_id", accountID.String(), "error", err)
		return nil, fmt.Errorf("failed to decode account activity: %w", err)
	}

	return entries, nil
}

func (r *ActivityRepository) CountByAccount(ctx context.Context, accountID uuid.UUID) (int64, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{"account_id": accountID})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			r.logger.Warn("Counting account activity timed out", "account_id", accountID.String())
		} else {
			r.logger.Error("Failed to count account activity", "account_id", accountID.String(), "error", err)
		}
		return 0, fmt.Errorf("failed to count account activity: %w", err)
	}
	return count, nil
}

var _ activity.Repository = (*ActivityRepository)(nil)
