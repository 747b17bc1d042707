package handlers

import (
	"log/slog"
	"net/http"

	"github.com/Ezzerof/smart-invoice-backend/internal/core/ports"
	"github.com/Ezzerof/smart-invoice-backend/internal/dto"
	"github.com/Ezzerof/smart-invoice-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// auditHandler exposes the audit trail, read-only.
type auditHandler struct {
	auditService ports.AuditService
}

func newAuditHandler(as ports.AuditService) *auditHandler {
	return &auditHandler{auditService: as}
}

// registerAuditRoutes registers routes related to the audit trail.
func registerAuditRoutes(rg *gin.RouterGroup, auditService ports.AuditService) {
	h := newAuditHandler(auditService)

	rg.GET("/audit-logs", h.listAuditLogs)
}

// listAuditLogs godoc
// @Summary List audit entries
// @Description Retrieves audit entries, optionally filtered by action and entity, newest first
// @Tags audit
// @Produce json
// @Param action query string false "Action filter (CREATE, UPDATE, DELETE, MARK_PAID, EMAIL_SENT)"
// @Param entity query string false "Entity filter (Invoice, Client, Product)"
// @Success 200 {array} dto.AuditLogResponse
// @Security BearerAuth
// @Router /audit-logs [get]
func (h *auditHandler) listAuditLogs(c *gin.Context) {
	action := c.Query("action")
	entity := c.Query("entity")

	entries, err := h.auditService.ListAuditLogs(c.Request.Context(), action, entity)
	if err != nil {
		middleware.GetLoggerFromCtx(c.Request.Context()).Error("Failed to list audit entries",
			slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to list audit entries"})
		return
	}

	c.JSON(http.StatusOK, dto.ToListAuditLogResponse(entries))
}
