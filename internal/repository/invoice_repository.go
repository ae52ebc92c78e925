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

type InvoiceRepository struct {
	collection *mongo.Collection
	logger     *logrus.Logger
}

func NewInvoiceRepository(db *mongo.Database, logger *logrus.Logger) *InvoiceRepository {
	return &InvoiceRepository{
		collection: db.Collection("invoices"),
		logger:     logger,
	}
}

func (r *InvoiceRepository) Create(ctx context.Context, invoice *models.Invoice) error {
	invoice.CreatedAt = time.Now()
	invoice.UpdatedAt = time.Now()

	result, err := r.collection.InsertOne(ctx, invoice)
	if err != nil {
		return fmt.Errorf("failed to insert invoice: %w", err)
	}

	invoice.ID = result.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *InvoiceRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Invoice, error) {
	var invoice models.Invoice
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&invoice)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find invoice: %w", err)
	}

	return &invoice, nil
}

// FindByUser returns a user's invoices, newest issue date first. An empty
// status matches all statuses; limit 0 means no limit.
func (r *InvoiceRepository) FindByUser(ctx context.Context, userID string, status models.InvoiceStatus, limit int64) ([]models.Invoice, error) {
	filter := bson.M{"user_id": userID}
	if status != "" {
		filter["status"] = status
	}

	opts := options.Find().SetSort(bson.D{{Key: "issue_date", Value: -1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find invoices: %w", err)
	}
	defer cursor.Close(ctx)

	var invoices []models.Invoice
	if err := cursor.All(ctx, &invoices); err != nil {
		return nil, fmt.Errorf("failed to decode invoices: %w", err)
	}

	return invoices, nil
}

func (r *InvoiceRepository) Update(ctx context.Context, invoice *models.Invoice) error {
	invoice.UpdatedAt = time.Now()

	filter := bson.M{"_id": invoice.ID}
	update := bson.M{"$set": invoice}

	_, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to update invoice: %w", err)
	}

	return nil
}

// UpdateStatus sets the invoice status and stamps paid_at on the transition
// to paid.
func (r *InvoiceRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.InvoiceStatus) error {
	set := bson.M{
		"status":     status,
		"updated_at": time.Now(),
	}
	if status == models.InvoiceStatusPaid {
		set["paid_at"] = time.Now()
	}

	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("failed to update invoice status: %w", err)
	}

	return nil
}

func (r *InvoiceRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete invoice: %w", err)
	}

	return nil
}

func (r *InvoiceRepository) CountByStatus(ctx context.Context, userID string, status models.InvoiceStatus) (int64, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{"user_id": userID, "status": status})
	if err != nil {
		return 0, fmt.Errorf("failed to count invoices: %w", err)
	}

	return count, nil
}

// FindOverdue returns unpaid invoices whose due date lies before the cutoff.
// Paid and cancelled invoices are never reported, even when settled late.
func (r *InvoiceRepository) FindOverdue(ctx context.Context, userID string, cutoff time.Time) ([]models.Invoice, error) {
	filter := bson.M{
		"user_id": userID,
		"status": bson.M{"$nin": []models.InvoiceStatus{
			models.InvoiceStatusPaid,
			models.InvoiceStatusCancelled,
		}},
		"due_date": bson.M{"$lt": cutoff},
	}

	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to find overdue invoices: %w", err)
	}
	defer cursor.Close(ctx)

	var invoices []models.Invoice
	if err := cursor.All(ctx, &invoices); err != nil {
		return nil, fmt.Errorf("failed to decode overdue invoices: %w", err)
	}

	return invoices, nil
}

func (r *InvoiceRepository) CreateIndex(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "number", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "status", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "due_date", Value: 1}},
		},
	}

	_, err := r.collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	return nil
}
