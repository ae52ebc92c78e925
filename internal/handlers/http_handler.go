package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/billfold/billfold/internal/models"
	"github.com/billfold/billfold/internal/service"
	"github.com/billfold/billfold/pkg/middleware"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type HTTPHandler struct {
	billing    *service.BillingService
	users      *service.UserService
	forecaster *service.Forecaster
	auth       *middleware.AuthMiddleware
	logger     *logrus.Logger
}

func NewHTTPHandler(
	billing *service.BillingService,
	users *service.UserService,
	forecaster *service.Forecaster,
	auth *middleware.AuthMiddleware,
	logger *logrus.Logger,
) *HTTPHandler {
	return &HTTPHandler{
		billing:    billing,
		users:      users,
		forecaster: forecaster,
		auth:       auth,
		logger:     logger,
	}
}

func (h *HTTPHandler) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", h.Health)

	api := r.Group("/api/v1")
	api.POST("/auth/register", h.Register)
	api.POST("/auth/login", h.Login)

	authorized := api.Group("", h.auth.Authenticate())
	{
		authorized.POST("/invoices", h.CreateInvoice)
		authorized.GET("/invoices", h.ListInvoices)
		authorized.GET("/invoices/:id", h.GetInvoice)
		authorized.PUT("/invoices/:id", h.UpdateInvoice)
		authorized.PATCH("/invoices/:id/status", h.ChangeInvoiceStatus)
		authorized.DELETE("/invoices/:id", h.DeleteInvoice)
		authorized.POST("/invoices/:id/pdf", h.AttachInvoicePDF)

		authorized.POST("/agreements", h.CreateAgreement)
		authorized.GET("/agreements", h.ListAgreements)
		authorized.GET("/agreements/:id", h.GetAgreement)
		authorized.PUT("/agreements/:id", h.UpdateAgreement)
		authorized.PATCH("/agreements/:id/status", h.ChangeAgreementStatus)
		authorized.DELETE("/agreements/:id", h.DeleteAgreement)

		authorized.POST("/templates", h.CreateTemplate)
		authorized.GET("/templates", h.ListTemplates)
		authorized.GET("/templates/:id", h.GetTemplate)
		authorized.PUT("/templates/:id", h.UpdateTemplate)
		authorized.DELETE("/templates/:id", h.DeleteTemplate)

		authorized.GET("/profile", h.GetProfile)
		authorized.PUT("/profile", h.UpdateProfile)
		authorized.POST("/profile/logo", h.UploadLogo)
		authorized.GET("/profile/logo", h.DownloadLogo)

		authorized.GET("/stats", h.GetStats)
		authorized.GET("/stats/forecast", h.GetForecast)
	}
}

func (h *HTTPHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// --- auth ---

func (h *HTTPHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.users.Register(c.Request.Context(), &req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (h *HTTPHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.users.Login(c.Request.Context(), &req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// --- invoices ---

type invoiceRequest struct {
	Number      string            `json:"number"`
	ClientName  string            `json:"client_name" binding:"required"`
	ClientEmail string            `json:"client_email"`
	Items       []models.LineItem `json:"items" binding:"required"`
	Status      string            `json:"status"`
	TaxRate     float64           `json:"tax_rate"`
	IssueDate   int64             `json:"issue_date" binding:"required"`
	DueDate     int64             `json:"due_date" binding:"required"`
	Notes       string            `json:"notes"`
	TemplateID  string            `json:"template_id"`
}

func (req *invoiceRequest) toModel() *models.Invoice {
	return &models.Invoice{
		Number:      req.Number,
		ClientName:  req.ClientName,
		ClientEmail: req.ClientEmail,
		Items:       req.Items,
		Status:      models.InvoiceStatus(req.Status),
		TaxRate:     req.TaxRate,
		IssueDate:   models.FromUnix(req.IssueDate),
		DueDate:     models.FromUnix(req.DueDate),
		Notes:       req.Notes,
		TemplateID:  req.TemplateID,
	}
}

func (h *HTTPHandler) CreateInvoice(c *gin.Context) {
	var req invoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	invoice := req.toModel()
	if err := h.billing.CreateInvoice(c.Request.Context(), middleware.UserID(c), invoice); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, invoiceResponse(invoice))
}

func (h *HTTPHandler) ListInvoices(c *gin.Context) {
	status := models.InvoiceStatus(c.Query("status"))
	limit, _ := strconv.ParseInt(c.DefaultQuery("limit", "0"), 10, 64)

	invoices, err := h.billing.ListInvoices(c.Request.Context(), middleware.UserID(c), status, limit)
	if err != nil {
		h.respondError(c, err)
		return
	}

	responses := make([]gin.H, 0, len(invoices))
	for i := range invoices {
		responses = append(responses, invoiceResponse(&invoices[i]))
	}

	c.JSON(http.StatusOK, gin.H{"invoices": responses, "count": len(responses)})
}

func (h *HTTPHandler) GetInvoice(c *gin.Context) {
	invoice, err := h.billing.GetInvoice(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, invoiceResponse(invoice))
}

func (h *HTTPHandler) UpdateInvoice(c *gin.Context) {
	invoice, err := h.billing.GetInvoice(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	var req invoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updated := req.toModel()
	updated.ID = invoice.ID
	if updated.Number == "" {
		updated.Number = invoice.Number
	}

	if err := h.billing.UpdateInvoice(c.Request.Context(), middleware.UserID(c), updated); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, invoiceResponse(updated))
}

func (h *HTTPHandler) ChangeInvoiceStatus(c *gin.Context) {
	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.billing.ChangeInvoiceStatus(c.Request.Context(), middleware.UserID(c), c.Param("id"), models.InvoiceStatus(req.Status))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "status": req.Status})
}

func (h *HTTPHandler) DeleteInvoice(c *gin.Context) {
	if err := h.billing.DeleteInvoice(c.Request.Context(), middleware.UserID(c), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *HTTPHandler) AttachInvoicePDF(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/pdf"
	}

	fileID, err := h.billing.AttachInvoicePDF(c.Request.Context(), middleware.UserID(c), c.Param("id"), contentType, file)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"file_id": fileID})
}

// --- agreements ---

type agreementRequest struct {
	ClientName string `json:"client_name" binding:"required"`
	Title      string `json:"title" binding:"required"`
	Body       string `json:"body"`
	Status     string `json:"status"`
}

func (h *HTTPHandler) CreateAgreement(c *gin.Context) {
	var req agreementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	agreement := &models.Agreement{
		ClientName: req.ClientName,
		Title:      req.Title,
		Body:       req.Body,
		Status:     models.AgreementStatus(req.Status),
	}

	if err := h.billing.CreateAgreement(c.Request.Context(), middleware.UserID(c), agreement); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, agreementResponse(agreement))
}

func (h *HTTPHandler) ListAgreements(c *gin.Context) {
	agreements, err := h.billing.ListAgreements(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		h.respondError(c, err)
		return
	}

	responses := make([]gin.H, 0, len(agreements))
	for i := range agreements {
		responses = append(responses, agreementResponse(&agreements[i]))
	}

	c.JSON(http.StatusOK, gin.H{"agreements": responses, "count": len(responses)})
}

func (h *HTTPHandler) GetAgreement(c *gin.Context) {
	agreement, err := h.billing.GetAgreement(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, agreementResponse(agreement))
}

func (h *HTTPHandler) UpdateAgreement(c *gin.Context) {
	agreement, err := h.billing.GetAgreement(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	var req agreementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	agreement.ClientName = req.ClientName
	agreement.Title = req.Title
	agreement.Body = req.Body
	if req.Status != "" {
		agreement.Status = models.AgreementStatus(req.Status)
	}

	if err := h.billing.UpdateAgreement(c.Request.Context(), middleware.UserID(c), agreement); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, agreementResponse(agreement))
}

func (h *HTTPHandler) ChangeAgreementStatus(c *gin.Context) {
	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.billing.ChangeAgreementStatus(c.Request.Context(), middleware.UserID(c), c.Param("id"), models.AgreementStatus(req.Status))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "status": req.Status})
}

func (h *HTTPHandler) DeleteAgreement(c *gin.Context) {
	if err := h.billing.DeleteAgreement(c.Request.Context(), middleware.UserID(c), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// --- templates ---

type templateRequest struct {
	Name           string  `json:"name" binding:"required"`
	Body           string  `json:"body"`
	DefaultNotes   string  `json:"default_notes"`
	DefaultTaxRate float64 `json:"default_tax_rate"`
}

func (h *HTTPHandler) CreateTemplate(c *gin.Context) {
	var req templateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	template := &models.Template{
		Name:           req.Name,
		Body:           req.Body,
		DefaultNotes:   req.DefaultNotes,
		DefaultTaxRate: req.DefaultTaxRate,
	}

	if err := h.billing.CreateTemplate(c.Request.Context(), middleware.UserID(c), template); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, template)
}

func (h *HTTPHandler) ListTemplates(c *gin.Context) {
	templates, err := h.billing.ListTemplates(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"templates": templates, "count": len(templates)})
}

func (h *HTTPHandler) GetTemplate(c *gin.Context) {
	template, err := h.billing.GetTemplate(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, template)
}

func (h *HTTPHandler) UpdateTemplate(c *gin.Context) {
	template, err := h.billing.GetTemplate(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	var req templateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	template.Name = req.Name
	template.Body = req.Body
	template.DefaultNotes = req.DefaultNotes
	template.DefaultTaxRate = req.DefaultTaxRate

	if err := h.billing.UpdateTemplate(c.Request.Context(), middleware.UserID(c), template); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, template)
}

func (h *HTTPHandler) DeleteTemplate(c *gin.Context) {
	if err := h.billing.DeleteTemplate(c.Request.Context(), middleware.UserID(c), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// --- profile ---

func (h *HTTPHandler) GetProfile(c *gin.Context) {
	user, err := h.users.GetProfile(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

func (h *HTTPHandler) UpdateProfile(c *gin.Context) {
	var req models.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.users.UpdateProfile(c.Request.Context(), middleware.UserID(c), &req); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *HTTPHandler) UploadLogo(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	fileID, err := h.users.UploadLogo(c.Request.Context(), middleware.UserID(c), header.Filename, contentType, file)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"file_id": fileID})
}

func (h *HTTPHandler) DownloadLogo(c *gin.Context) {
	content, err := h.users.DownloadLogo(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	defer content.Close()

	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, content); err != nil {
		h.logger.Errorf("Failed to stream logo: %v", err)
	}
}

// --- stats ---

func (h *HTTPHandler) GetStats(c *gin.Context) {
	stats, err := h.billing.GetStats(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

func (h *HTTPHandler) GetForecast(c *gin.Context) {
	forecast, err := h.forecaster.Forecast(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, forecast)
}

// --- helpers ---

// invoiceResponse serializes dates as Unix seconds, matching the request
// format.
func invoiceResponse(invoice *models.Invoice) gin.H {
	resp := gin.H{
		"id":           invoice.ID.Hex(),
		"number":       invoice.Number,
		"client_name":  invoice.ClientName,
		"client_email": invoice.ClientEmail,
		"items":        invoice.Items,
		"status":       invoice.Status,
		"subtotal":     invoice.Subtotal,
		"tax_rate":     invoice.TaxRate,
		"total":        invoice.Total,
		"issue_date":   invoice.IssueDate.Unix(),
		"due_date":     invoice.DueDate.Unix(),
		"notes":        invoice.Notes,
	}

	if invoice.TemplateID != "" {
		resp["template_id"] = invoice.TemplateID
	}
	if invoice.PDFFileID != "" {
		resp["pdf_file_id"] = invoice.PDFFileID
	}
	if invoice.PaidAt != nil {
		resp["paid_at"] = invoice.PaidAt.Unix()
	}

	return resp
}

func agreementResponse(agreement *models.Agreement) gin.H {
	resp := gin.H{
		"id":          agreement.ID.Hex(),
		"client_name": agreement.ClientName,
		"title":       agreement.Title,
		"body":        agreement.Body,
		"status":      agreement.Status,
	}

	if agreement.SignedAt != nil {
		resp["signed_at"] = agreement.SignedAt.Unix()
	}
	if agreement.PDFFileID != "" {
		resp["pdf_file_id"] = agreement.PDFFileID
	}

	return resp
}

func (h *HTTPHandler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound), errors.Is(err, service.ErrNoLogo):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidStatus):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrEmailTaken):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrBadCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNotEnoughPoints):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		h.logger.Errorf("Request failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
