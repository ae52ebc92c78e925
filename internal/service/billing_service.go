package service

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/billfold/billfold/internal/models"
	"github.com/billfold/billfold/pkg/messaging"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BillingService is the pass-through layer between the HTTP handlers and
// the document store: ownership checks, status bookkeeping, cache
// invalidation and event publishing around plain repository calls.
type BillingService struct {
	invoices   InvoiceStore
	agreements AgreementStore
	templates  TemplateStore
	blobs      BlobStore
	cache      *CacheService
	publisher  EventPublisher
	metrics    *MetricsCollector
	logger     *logrus.Logger
}

func NewBillingService(
	invoices InvoiceStore,
	agreements AgreementStore,
	templates TemplateStore,
	blobs BlobStore,
	cache *CacheService,
	publisher EventPublisher,
	metrics *MetricsCollector,
	logger *logrus.Logger,
) *BillingService {
	return &BillingService{
		invoices:   invoices,
		agreements: agreements,
		templates:  templates,
		blobs:      blobs,
		cache:      cache,
		publisher:  publisher,
		metrics:    metrics,
		logger:     logger,
	}
}

// --- invoices ---

func (s *BillingService) CreateInvoice(ctx context.Context, userID string, invoice *models.Invoice) error {
	invoice.UserID = userID
	if invoice.Status == "" {
		invoice.Status = models.InvoiceStatusDraft
	}
	if !models.ValidInvoiceStatus(invoice.Status) {
		return ErrInvalidStatus
	}
	if invoice.Number == "" {
		invoice.Number = generateInvoiceNumber()
	}
	invoice.Recalculate()

	if invoice.TemplateID != "" {
		if err := s.applyTemplate(ctx, invoice); err != nil {
			return err
		}
	}

	if err := s.invoices.Create(ctx, invoice); err != nil {
		return err
	}

	s.metrics.IncrementInvoicesCreated(string(invoice.Status))
	s.invalidateStats(ctx, userID)
	s.publishEvent(messaging.Event{
		ID:         uuid.NewString(),
		Type:       messaging.EventInvoiceCreated,
		UserID:     userID,
		RecordID:   invoice.ID.Hex(),
		Status:     string(invoice.Status),
		Total:      invoice.Total,
		OccurredAt: time.Now(),
	})

	return nil
}

func (s *BillingService) GetInvoice(ctx context.Context, userID, id string) (*models.Invoice, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	invoice, err := s.invoices.FindByID(ctx, objectID)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, ErrNotFound
	}
	if invoice.UserID != userID {
		return nil, ErrForbidden
	}

	return invoice, nil
}

func (s *BillingService) ListInvoices(ctx context.Context, userID string, status models.InvoiceStatus, limit int64) ([]models.Invoice, error) {
	if status != "" && !models.ValidInvoiceStatus(status) {
		return nil, ErrInvalidStatus
	}
	return s.invoices.FindByUser(ctx, userID, status, limit)
}

func (s *BillingService) UpdateInvoice(ctx context.Context, userID string, invoice *models.Invoice) error {
	existing, err := s.GetInvoice(ctx, userID, invoice.ID.Hex())
	if err != nil {
		return err
	}

	invoice.UserID = existing.UserID
	invoice.CreatedAt = existing.CreatedAt
	if invoice.Status == "" {
		invoice.Status = existing.Status
	}
	if !models.ValidInvoiceStatus(invoice.Status) {
		return ErrInvalidStatus
	}
	invoice.Recalculate()

	if err := s.invoices.Update(ctx, invoice); err != nil {
		return err
	}

	s.invalidateStats(ctx, userID)
	return nil
}

func (s *BillingService) ChangeInvoiceStatus(ctx context.Context, userID, id string, status models.InvoiceStatus) error {
	if !models.ValidInvoiceStatus(status) {
		return ErrInvalidStatus
	}

	invoice, err := s.GetInvoice(ctx, userID, id)
	if err != nil {
		return err
	}

	if err := s.invoices.UpdateStatus(ctx, invoice.ID, status); err != nil {
		return err
	}

	s.metrics.IncrementStatusTransition(string(status))
	s.invalidateStats(ctx, userID)
	s.publishEvent(messaging.Event{
		ID:         uuid.NewString(),
		Type:       messaging.EventInvoiceStatusChanged,
		UserID:     userID,
		RecordID:   id,
		Status:     string(status),
		Total:      invoice.Total,
		OccurredAt: time.Now(),
	})

	return nil
}

func (s *BillingService) DeleteInvoice(ctx context.Context, userID, id string) error {
	invoice, err := s.GetInvoice(ctx, userID, id)
	if err != nil {
		return err
	}

	if err := s.invoices.Delete(ctx, invoice.ID); err != nil {
		return err
	}

	s.invalidateStats(ctx, userID)
	return nil
}

// AttachInvoicePDF uploads a rendered PDF to the blob store and records the
// file ID on the invoice.
func (s *BillingService) AttachInvoicePDF(ctx context.Context, userID, id, contentType string, content io.Reader) (string, error) {
	invoice, err := s.GetInvoice(ctx, userID, id)
	if err != nil {
		return "", err
	}

	fileID, err := s.blobs.Upload(ctx, fmt.Sprintf("invoice-%s.pdf", invoice.Number), contentType, content)
	if err != nil {
		return "", err
	}

	invoice.PDFFileID = fileID
	if err := s.invoices.Update(ctx, invoice); err != nil {
		return "", err
	}

	s.metrics.IncrementBlobUpload("invoice_pdf")
	return fileID, nil
}

// --- agreements ---

func (s *BillingService) CreateAgreement(ctx context.Context, userID string, agreement *models.Agreement) error {
	agreement.UserID = userID
	if agreement.Status == "" {
		agreement.Status = models.AgreementStatusDraft
	}

	return s.agreements.Create(ctx, agreement)
}

func (s *BillingService) GetAgreement(ctx context.Context, userID, id string) (*models.Agreement, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	agreement, err := s.agreements.FindByID(ctx, objectID)
	if err != nil {
		return nil, err
	}
	if agreement == nil {
		return nil, ErrNotFound
	}
	if agreement.UserID != userID {
		return nil, ErrForbidden
	}

	return agreement, nil
}

func (s *BillingService) ListAgreements(ctx context.Context, userID string) ([]models.Agreement, error) {
	return s.agreements.FindByUser(ctx, userID)
}

func (s *BillingService) UpdateAgreement(ctx context.Context, userID string, agreement *models.Agreement) error {
	existing, err := s.GetAgreement(ctx, userID, agreement.ID.Hex())
	if err != nil {
		return err
	}

	agreement.UserID = existing.UserID
	agreement.CreatedAt = existing.CreatedAt
	return s.agreements.Update(ctx, agreement)
}

func (s *BillingService) ChangeAgreementStatus(ctx context.Context, userID, id string, status models.AgreementStatus) error {
	agreement, err := s.GetAgreement(ctx, userID, id)
	if err != nil {
		return err
	}

	if err := s.agreements.UpdateStatus(ctx, agreement.ID, status); err != nil {
		return err
	}

	if status == models.AgreementStatusSigned {
		s.publishEvent(messaging.Event{
			ID:         uuid.NewString(),
			Type:       messaging.EventAgreementSigned,
			UserID:     userID,
			RecordID:   id,
			Status:     string(status),
			OccurredAt: time.Now(),
		})
	}

	return nil
}

func (s *BillingService) DeleteAgreement(ctx context.Context, userID, id string) error {
	agreement, err := s.GetAgreement(ctx, userID, id)
	if err != nil {
		return err
	}

	return s.agreements.Delete(ctx, agreement.ID)
}

// --- templates ---

func (s *BillingService) CreateTemplate(ctx context.Context, userID string, template *models.Template) error {
	template.UserID = userID
	template.BuiltIn = false
	return s.templates.Create(ctx, template)
}

func (s *BillingService) GetTemplate(ctx context.Context, userID, id string) (*models.Template, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	template, err := s.templates.FindByID(ctx, objectID)
	if err != nil {
		return nil, err
	}
	if template == nil {
		return nil, ErrNotFound
	}
	if !template.BuiltIn && template.UserID != userID {
		return nil, ErrForbidden
	}

	return template, nil
}

func (s *BillingService) ListTemplates(ctx context.Context, userID string) ([]models.Template, error) {
	return s.templates.FindByUser(ctx, userID)
}

func (s *BillingService) UpdateTemplate(ctx context.Context, userID string, template *models.Template) error {
	existing, err := s.GetTemplate(ctx, userID, template.ID.Hex())
	if err != nil {
		return err
	}
	if existing.BuiltIn {
		return ErrForbidden
	}

	template.UserID = existing.UserID
	template.BuiltIn = false
	template.CreatedAt = existing.CreatedAt
	return s.templates.Update(ctx, template)
}

func (s *BillingService) DeleteTemplate(ctx context.Context, userID, id string) error {
	existing, err := s.GetTemplate(ctx, userID, id)
	if err != nil {
		return err
	}
	if existing.BuiltIn {
		return ErrForbidden
	}

	return s.templates.Delete(ctx, existing.ID)
}

// --- stats ---

// GetStats serves a user's stats from cache when possible, otherwise loads
// the invoices and folds them.
func (s *BillingService) GetStats(ctx context.Context, userID string) (*models.InvoiceStats, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetStats(ctx, userID); err == nil && cached != nil {
			s.metrics.IncrementStatsCacheHit()
			return cached, nil
		}
		s.metrics.IncrementStatsCacheMiss()
	}

	start := time.Now()
	invoices, err := s.invoices.FindByUser(ctx, userID, "", 0)
	if err != nil {
		return nil, err
	}

	stats := ComputeStats(invoices, time.Now())
	s.metrics.ObserveStatsCompute(time.Since(start).Seconds())

	if s.cache != nil {
		if err := s.cache.SetStats(ctx, userID, &stats); err != nil {
			s.logger.Warnf("Failed to cache stats for %s: %v", userID, err)
		}
	}

	return &stats, nil
}

// --- helpers ---

func (s *BillingService) applyTemplate(ctx context.Context, invoice *models.Invoice) error {
	template, err := s.GetTemplate(ctx, invoice.UserID, invoice.TemplateID)
	if err != nil {
		return err
	}

	if invoice.Notes == "" {
		invoice.Notes = template.DefaultNotes
	}
	if invoice.TaxRate == 0 {
		invoice.TaxRate = template.DefaultTaxRate
		invoice.Recalculate()
	}

	return nil
}

func (s *BillingService) invalidateStats(ctx context.Context, userID string) {
	if s.cache != nil {
		s.cache.InvalidateStats(ctx, userID)
	}
}

// publishEvent is fire and forget: a broker outage must not fail the write.
func (s *BillingService) publishEvent(event messaging.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(event.Type, event); err != nil {
		s.logger.Warnf("Failed to publish %s event: %v", event.Type, err)
		return
	}
	s.metrics.IncrementEventPublished(event.Type)
}

func generateInvoiceNumber() string {
	return "INV-" + strings.ToUpper(uuid.NewString()[:8])
}
