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

type AgreementRepository struct {
	collection *mongo.Collection
	logger     *logrus.Logger
}

func NewAgreementRepository(db *mongo.Database, logger *logrus.Logger) *AgreementRepository {
	return &AgreementRepository{
		collection: db.Collection("agreements"),
		logger:     logger,
	}
}

func (r *AgreementRepository) Create(ctx context.Context, agreement *models.Agreement) error {
	agreement.CreatedAt = time.Now()
	agreement.UpdatedAt = time.Now()

	result, err := r.collection.InsertOne(ctx, agreement)
	if err != nil {
		return fmt.Errorf("failed to insert agreement: %w", err)
	}

	agreement.ID = result.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *AgreementRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Agreement, error) {
	var agreement models.Agreement
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&agreement)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find agreement: %w", err)
	}

	return &agreement, nil
}

func (r *AgreementRepository) FindByUser(ctx context.Context, userID string) ([]models.Agreement, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := r.collection.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find agreements: %w", err)
	}
	defer cursor.Close(ctx)

	var agreements []models.Agreement
	if err := cursor.All(ctx, &agreements); err != nil {
		return nil, fmt.Errorf("failed to decode agreements: %w", err)
	}

	return agreements, nil
}

func (r *AgreementRepository) Update(ctx context.Context, agreement *models.Agreement) error {
	agreement.UpdatedAt = time.Now()

	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": agreement.ID}, bson.M{"$set": agreement})
	if err != nil {
		return fmt.Errorf("failed to update agreement: %w", err)
	}

	return nil
}

// UpdateStatus sets the agreement status and stamps signed_at on the
// transition to signed.
func (r *AgreementRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.AgreementStatus) error {
	set := bson.M{
		"status":     status,
		"updated_at": time.Now(),
	}
	if status == models.AgreementStatusSigned {
		set["signed_at"] = time.Now()
	}

	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("failed to update agreement status: %w", err)
	}

	return nil
}

func (r *AgreementRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete agreement: %w", err)
	}

	return nil
}

func (r *AgreementRepository) CreateIndex(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "status", Value: 1}},
		},
	}

	_, err := r.collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	return nil
}
