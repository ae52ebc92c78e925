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

type TemplateRepository struct {
	collection *mongo.Collection
	logger     *logrus.Logger
}

func NewTemplateRepository(db *mongo.Database, logger *logrus.Logger) *TemplateRepository {
	return &TemplateRepository{
		collection: db.Collection("templates"),
		logger:     logger,
	}
}

func (r *TemplateRepository) Create(ctx context.Context, template *models.Template) error {
	template.CreatedAt = time.Now()
	template.UpdatedAt = time.Now()

	result, err := r.collection.InsertOne(ctx, template)
	if err != nil {
		return fmt.Errorf("failed to insert template: %w", err)
	}

	template.ID = result.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *TemplateRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Template, error) {
	var template models.Template
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&template)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find template: %w", err)
	}

	return &template, nil
}

// FindByUser returns the user's own templates plus the built-in set.
func (r *TemplateRepository) FindByUser(ctx context.Context, userID string) ([]models.Template, error) {
	filter := bson.M{"$or": []bson.M{
		{"user_id": userID},
		{"built_in": true},
	}}

	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find templates: %w", err)
	}
	defer cursor.Close(ctx)

	var templates []models.Template
	if err := cursor.All(ctx, &templates); err != nil {
		return nil, fmt.Errorf("failed to decode templates: %w", err)
	}

	return templates, nil
}

func (r *TemplateRepository) Update(ctx context.Context, template *models.Template) error {
	template.UpdatedAt = time.Now()

	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": template.ID}, bson.M{"$set": template})
	if err != nil {
		return fmt.Errorf("failed to update template: %w", err)
	}

	return nil
}

func (r *TemplateRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete template: %w", err)
	}

	return nil
}

// SeedBuiltins upserts the built-in template set by name, so repeated starts
// are idempotent.
func (r *TemplateRepository) SeedBuiltins(ctx context.Context, templates []models.Template) error {
	for i := range templates {
		t := templates[i]
		t.BuiltIn = true
		t.UserID = ""
		t.UpdatedAt = time.Now()

		filter := bson.M{"name": t.Name, "built_in": true}
		update := bson.M{
			"$set": bson.M{
				"body":             t.Body,
				"default_notes":    t.DefaultNotes,
				"default_tax_rate": t.DefaultTaxRate,
				"built_in":         true,
				"updated_at":       t.UpdatedAt,
			},
			"$setOnInsert": bson.M{
				"name":       t.Name,
				"created_at": time.Now(),
			},
		}

		_, err := r.collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
		if err != nil {
			return fmt.Errorf("failed to seed template %q: %w", t.Name, err)
		}
	}

	r.logger.Infof("Seeded %d built-in templates", len(templates))
	return nil
}
