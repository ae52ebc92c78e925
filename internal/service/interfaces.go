package service

import (
	"context"
	"io"
	"time"

	"github.com/billfold/billfold/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Store interfaces are satisfied by the mongo repositories; the services
// depend on them so tests can substitute mocks.

type InvoiceStore interface {
	Create(ctx context.Context, invoice *models.Invoice) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Invoice, error)
	FindByUser(ctx context.Context, userID string, status models.InvoiceStatus, limit int64) ([]models.Invoice, error)
	Update(ctx context.Context, invoice *models.Invoice) error
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.InvoiceStatus) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type AgreementStore interface {
	Create(ctx context.Context, agreement *models.Agreement) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Agreement, error)
	FindByUser(ctx context.Context, userID string) ([]models.Agreement, error)
	Update(ctx context.Context, agreement *models.Agreement) error
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.AgreementStatus) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type TemplateStore interface {
	Create(ctx context.Context, template *models.Template) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Template, error)
	FindByUser(ctx context.Context, userID string) ([]models.Template, error)
	Update(ctx context.Context, template *models.Template) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type UserStore interface {
	Create(ctx context.Context, user *models.User, password string) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateProfile(ctx context.Context, id primitive.ObjectID, req *models.UpdateProfileRequest) error
	SetLogoFile(ctx context.Context, id primitive.ObjectID, fileID string) error
	VerifyPassword(user *models.User, password string) bool
}

type SnapshotStore interface {
	Save(ctx context.Context, snapshot *models.StatsSnapshot) error
	FindRange(ctx context.Context, userID string, start, end time.Time) ([]models.StatsSnapshot, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) error
}

type UserSource interface {
	FindAll(ctx context.Context) ([]models.User, error)
}

type BlobStore interface {
	Upload(ctx context.Context, name, contentType string, content io.Reader) (string, error)
	Download(ctx context.Context, fileID string) (io.ReadCloser, error)
	Delete(ctx context.Context, fileID string) error
}

type EventPublisher interface {
	Publish(routingKey string, message interface{}) error
}
