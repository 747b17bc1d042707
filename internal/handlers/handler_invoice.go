package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/Ezzerof/smart-invoice-backend/internal/apperrors"
	"github.com/Ezzerof/smart-invoice-backend/internal/core/ports"
	"github.com/Ezzerof/smart-invoice-backend/internal/dto"
	"github.com/Ezzerof/smart-invoice-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// invoiceHandler handles HTTP requests related to invoices.
type invoiceHandler struct {
	invoiceService ports.InvoiceService
}

func newInvoiceHandler(is ports.InvoiceService) *invoiceHandler {
	return &invoiceHandler{invoiceService: is}
}

// registerInvoiceRoutes registers routes related to invoices.
func registerInvoiceRoutes(rg *gin.RouterGroup, invoiceService ports.InvoiceService) {
	h := newInvoiceHandler(invoiceService)

	invoices := rg.Group("/invoices")
	{
		invoices.POST("", h.createInvoice)
		invoices.GET("", h.listInvoices)
		invoices.GET("/export", h.exportInvoices)
		invoices.GET("/:id", h.getInvoiceByID)
		invoices.DELETE("/:id", h.deleteInvoice)
		invoices.POST("/:id/pay", h.markPaid)
		invoices.GET("/:id/pdf", h.getInvoicePDF)
		invoices.POST("/:id/email", h.emailInvoice)
	}
}

// createInvoice godoc
// @Summary Create a new invoice
// @Description Creates a PENDING invoice; total amount is computed from the products
// @Tags invoices
// @Accept json
// @Produce json
// @Param invoice body dto.CreateInvoiceRequest true "Invoice details"
// @Success 201 {object} dto.InvoiceResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Security BearerAuth
// @Router /invoices [post]
func (h *invoiceHandler) createInvoice(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateInvoice", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	invoice, err := h.invoiceService.CreateInvoice(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		case errors.Is(err, apperrors.ErrDuplicate):
			c.JSON(http.StatusConflict, ErrorResponse{Error: fmt.Sprintf("Invoice number '%s' already used this year", req.InvoiceNumber)})
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Client or product not found"})
		default:
			logger.Error("Failed to create invoice", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to create invoice"})
		}
		return
	}

	logger.Info("Invoice created",
		slog.String("invoice_id", invoice.InvoiceID),
		slog.String("invoice_number", invoice.InvoiceNumber))
	c.JSON(http.StatusCreated, dto.ToInvoiceResponse(invoice))
}

// getInvoiceByID godoc
// @Summary Get an invoice
// @Description Retrieves a single invoice with client and products
// @Tags invoices
// @Produce json
// @Param id path string true "Invoice ID"
// @Success 200 {object} dto.InvoiceResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /invoices/{id} [get]
func (h *invoiceHandler) getInvoiceByID(c *gin.Context) {
	invoiceID := c.Param("id")

	invoice, err := h.invoiceService.GetInvoiceByID(c.Request.Context(), invoiceID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Invoice not found"})
			return
		}
		middleware.GetLoggerFromCtx(c.Request.Context()).Error("Failed to get invoice",
			slog.String("invoice_id", invoiceID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to retrieve invoice"})
		return
	}

	c.JSON(http.StatusOK, dto.ToInvoiceResponse(invoice))
}

// listInvoices godoc
// @Summary List invoices
// @Description Retrieves all invoices
// @Tags invoices
// @Produce json
// @Success 200 {array} dto.InvoiceResponse
// @Security BearerAuth
// @Router /invoices [get]
func (h *invoiceHandler) listInvoices(c *gin.Context) {
	invoices, err := h.invoiceService.ListInvoices(c.Request.Context())
	if err != nil {
		middleware.GetLoggerFromCtx(c.Request.Context()).Error("Failed to list invoices",
			slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to list invoices"})
		return
	}

	c.JSON(http.StatusOK, dto.ToListInvoiceResponse(invoices))
}

// deleteInvoice godoc
// @Summary Delete an invoice
// @Description Removes an invoice
// @Tags invoices
// @Param id path string true "Invoice ID"
// @Success 204
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /invoices/{id} [delete]
func (h *invoiceHandler) deleteInvoice(c *gin.Context) {
	invoiceID := c.Param("id")

	err := h.invoiceService.DeleteInvoice(c.Request.Context(), invoiceID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Invoice not found"})
			return
		}
		middleware.GetLoggerFromCtx(c.Request.Context()).Error("Failed to delete invoice",
			slog.String("invoice_id", invoiceID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to delete invoice"})
		return
	}

	c.Status(http.StatusNoContent)
}

// markPaid godoc
// @Summary Mark an invoice paid
// @Description Moves the invoice to its terminal PAID state; idempotent
// @Tags invoices
// @Produce json
// @Param id path string true "Invoice ID"
// @Success 200 {object} dto.InvoiceResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /invoices/{id}/pay [post]
func (h *invoiceHandler) markPaid(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	invoiceID := c.Param("id")

	invoice, err := h.invoiceService.MarkPaid(c.Request.Context(), invoiceID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Invoice not found"})
			return
		}
		logger.Error("Failed to mark invoice paid",
			slog.String("invoice_id", invoiceID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to mark invoice paid"})
		return
	}

	c.JSON(http.StatusOK, dto.ToInvoiceResponse(invoice))
}

// getInvoicePDF godoc
// @Summary Download an invoice PDF
// @Description Renders the invoice document and returns it as a PDF attachment
// @Tags invoices
// @Produce application/pdf
// @Param id path string true "Invoice ID"
// @Success 200 {file} binary
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /invoices/{id}/pdf [get]
func (h *invoiceHandler) getInvoicePDF(c *gin.Context) {
	invoiceID := c.Param("id")

	pdf, err := h.invoiceService.GetInvoicePDF(c.Request.Context(), invoiceID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Invoice not found"})
			return
		}
		middleware.GetLoggerFromCtx(c.Request.Context()).Error("Failed to render invoice PDF",
			slog.String("invoice_id", invoiceID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to render invoice"})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="Invoice-%s.pdf"`, invoiceID))
	c.Data(http.StatusOK, "application/pdf", pdf)
}

// emailInvoice godoc
// @Summary Email an invoice
// @Description Sends the rendered invoice to the client's email address
// @Tags invoices
// @Param id path string true "Invoice ID"
// @Success 204
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /invoices/{id}/email [post]
func (h *invoiceHandler) emailInvoice(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	invoiceID := c.Param("id")

	err := h.invoiceService.EmailInvoice(c.Request.Context(), invoiceID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Invoice not found"})
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invoice client has no email address"})
		default:
			logger.Error("Failed to email invoice",
				slog.String("invoice_id", invoiceID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to email invoice"})
		}
		return
	}

	c.Status(http.StatusNoContent)
}

// exportInvoices godoc
// @Summary Export invoices as CSV
// @Description Streams invoices matching the filter as a CSV file
// @Tags invoices
// @Produce text/csv
// @Param issueDateFrom query string false "Earliest issue date (YYYY-MM-DD)"
// @Param issueDateTo query string false "Latest issue date (YYYY-MM-DD)"
// @Param clientId query string false "Restrict to one client"
// @Param isPaid query bool false "Restrict by payment state"
// @Success 200 {string} string "CSV content"
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /invoices/export [get]
func (h *invoiceHandler) exportInvoices(c *gin.Context) {
	var filter dto.InvoiceExportFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid filter: " + err.Error()})
		return
	}

	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", `attachment; filename="invoices.csv"`)

	if err := h.invoiceService.WriteInvoicesCSV(c.Request.Context(), c.Writer, filter); err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
			return
		}
		middleware.GetLoggerFromCtx(c.Request.Context()).Error("Failed to export invoices",
			slog.String("error", err.Error()))
		c.Status(http.StatusInternalServerError)
	}
}
