package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/billfold/billfold/internal/models"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type SnapshotRepository struct {
	collection *mongo.Collection
	logger     *logrus.Logger
}

func NewSnapshotRepository(db *mongo.Database, logger *logrus.Logger) *SnapshotRepository {
	return &SnapshotRepository{
		collection: db.Collection("stats_snapshots"),
		logger:     logger,
	}
}

func (r *SnapshotRepository) Save(ctx context.Context, snapshot *models.StatsSnapshot) error {
	snapshot.ID = primitive.NewObjectID()
	if snapshot.CapturedAt.IsZero() {
		snapshot.CapturedAt = time.Now()
	}

	_, err := r.collection.InsertOne(ctx, snapshot)
	if err != nil {
		return fmt.Errorf("failed to insert snapshot: %w", err)
	}

	return nil
}

func (r *SnapshotRepository) FindLatest(ctx context.Context, userID string) (*models.StatsSnapshot, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "captured_at", Value: -1}})

	var snapshot models.StatsSnapshot
	err := r.collection.FindOne(ctx, bson.M{"user_id": userID}, opts).Decode(&snapshot)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find snapshot: %w", err)
	}

	return &snapshot, nil
}

func (r *SnapshotRepository) FindRange(ctx context.Context, userID string, start, end time.Time) ([]models.StatsSnapshot, error) {
	filter := bson.M{
		"user_id": userID,
		"captured_at": bson.M{
			"$gte": start,
			"$lte": end,
		},
	}

	opts := options.Find().SetSort(bson.D{{Key: "captured_at", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find snapshots: %w", err)
	}
	defer cursor.Close(ctx)

	var snapshots []models.StatsSnapshot
	if err := cursor.All(ctx, &snapshots); err != nil {
		return nil, fmt.Errorf("failed to decode snapshots: %w", err)
	}

	return snapshots, nil
}

func (r *SnapshotRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{
		"captured_at": bson.M{"$lt": cutoff},
	})
	if err != nil {
		return fmt.Errorf("failed to delete old snapshots: %w", err)
	}

	return nil
}

func (r *SnapshotRepository) CreateIndex(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "captured_at", Value: -1}},
		},
	}

	_, err := r.collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	return nil
}
