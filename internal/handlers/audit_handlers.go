package handlers

import (
	"net/http"
	"strconv"
	"time"

	"mentorhub_backend/internal/repositories"
	"mentorhub_backend/internal/services"
	"mentorhub_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// AuditHandler holds the audit service.
type AuditHandler struct {
	auditService services.AuditService
}

// NewAuditHandler creates a new AuditHandler.
func NewAuditHandler(as services.AuditService) *AuditHandler {
	return &AuditHandler{auditService: as}
}

// GetEntries handles listing audit log entries (Admin only). The log is
// append-only, so this is the only endpoint.
func (h *AuditHandler) GetEntries(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	filters := repositories.AuditFilters{Page: page, PageSize: pageSize}
	if actorIDStr := c.Query("actor_id"); actorIDStr != "" {
		actorID, err := utils.StrToInt64(actorIDStr)
		if err != nil {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid actor_id format.", err.Error()))
			return
		}
		filters.ActorID = &actorID
	}
	if resource := c.Query("resource"); resource != "" {
		filters.Resource = &resource
	}
	if action := c.Query("action"); action != "" {
		filters.Action = &action
	}
	if fromStr := c.Query("from"); fromStr != "" {
		from, err := time.Parse(time.RFC3339, fromStr)
		if err != nil {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid 'from' timestamp, expected RFC3339.", err.Error()))
			return
		}
		filters.From = &from
	}
	if toStr := c.Query("to"); toStr != "" {
		to, err := time.Parse(time.RFC3339, toStr)
		if err != nil {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid 'to' timestamp, expected RFC3339.", err.Error()))
			return
		}
		filters.To = &to
	}

	entries, totalCount, err := h.auditService.GetEntries(filters)
	if err != nil {
		utils.LogError(err, "GetEntries: Error from auditService.GetEntries")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch audit log.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"data":      entries,
		"total":     totalCount,
		"page":      page,
		"page_size": pageSize,
	})
}
