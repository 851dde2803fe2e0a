package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"mentorhub_backend/internal/repositories"
	"mentorhub_backend/internal/services"
	"mentorhub_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// SessionHandler holds the session service.
type SessionHandler struct {
	sessionService services.SessionService
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(ss services.SessionService) *SessionHandler {
	return &SessionHandler{sessionService: ss}
}

// CreateSession handles scheduling a mentorship session.
func (h *SessionHandler) CreateSession(c *gin.Context) {
	var req services.CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "CreateSession: Failed to bind JSON")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	session, err := h.sessionService.CreateSession(req)
	if err != nil {
		utils.LogError(err, "CreateSession: Error from sessionService.CreateSession")
		if errors.Is(err, services.ErrSessionOverlap) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Session overlaps an existing session for this staff member.", err.Error()))
		} else if errors.Is(err, services.ErrValidation) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Validation failed: "+err.Error(), err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to create session.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusCreated, session)
}

// GetSessions handles listing sessions with filters and pagination.
func (h *SessionHandler) GetSessions(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))

	filters := repositories.SessionFilters{Page: page, PageSize: pageSize}
	if staffIDStr := c.Query("staff_id"); staffIDStr != "" {
		staffID, err := utils.StrToInt64(staffIDStr)
		if err != nil {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid staff_id format.", err.Error()))
			return
		}
		filters.StaffID = &staffID
	}
	if menteeIDStr := c.Query("mentee_id"); menteeIDStr != "" {
		menteeID, err := utils.StrToInt64(menteeIDStr)
		if err != nil {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid mentee_id format.", err.Error()))
			return
		}
		filters.MenteeID = &menteeID
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

	sessions, totalCount, err := h.sessionService.GetSessions(filters)
	if err != nil {
		utils.LogError(err, "GetSessions: Error from sessionService.GetSessions")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch sessions.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"data":      sessions,
		"total":     totalCount,
		"page":      page,
		"page_size": pageSize,
	})
}

// GetSessionByID handles fetching a single session by ID.
func (h *SessionHandler) GetSessionByID(c *gin.Context) {
	sessionID, err := utils.StrToInt64(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid session ID format.", err.Error()))
		return
	}

	session, err := h.sessionService.GetSessionByID(sessionID)
	if err != nil {
		utils.LogError(err, "GetSessionByID: Error from sessionService.GetSessionByID")
		if errors.Is(err, services.ErrSessionNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Session not found.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch session.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, session)
}

// UpdateSession handles rescheduling or editing a session.
func (h *SessionHandler) UpdateSession(c *gin.Context) {
	sessionID, err := utils.StrToInt64(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid session ID format.", err.Error()))
		return
	}

	var req services.UpdateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "UpdateSession: Failed to bind JSON")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	session, err := h.sessionService.UpdateSession(sessionID, req)
	if err != nil {
		utils.LogError(err, "UpdateSession: Error from sessionService.UpdateSession")
		if errors.Is(err, services.ErrSessionNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Session not found.", err.Error()))
		} else if errors.Is(err, services.ErrSessionOverlap) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Session overlaps an existing session for this staff member.", err.Error()))
		} else if errors.Is(err, services.ErrValidation) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Validation failed: "+err.Error(), err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to update session.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, session)
}

// DeleteSession handles removing a session.
func (h *SessionHandler) DeleteSession(c *gin.Context) {
	sessionID, err := utils.StrToInt64(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid session ID format.", err.Error()))
		return
	}

	if err := h.sessionService.DeleteSession(sessionID); err != nil {
		utils.LogError(err, "DeleteSession: Error from sessionService.DeleteSession")
		if errors.Is(err, services.ErrSessionNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Session not found.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to delete session.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Session deleted successfully"})
}
