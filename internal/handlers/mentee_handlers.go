package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"mentorhub_backend/internal/repositories"
	"mentorhub_backend/internal/services"
	"mentorhub_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// MenteeHandler holds the mentee service.
type MenteeHandler struct {
	menteeService services.MenteeService
}

// NewMenteeHandler creates a new MenteeHandler.
func NewMenteeHandler(ms services.MenteeService) *MenteeHandler {
	return &MenteeHandler{menteeService: ms}
}

// CreateMentee handles enrolling a new mentee.
func (h *MenteeHandler) CreateMentee(c *gin.Context) {
	var req services.CreateMenteeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "CreateMentee: Failed to bind JSON")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	mentee, err := h.menteeService.CreateMentee(req)
	if err != nil {
		utils.LogError(err, "CreateMentee: Error from menteeService.CreateMentee")
		if errors.Is(err, services.ErrMentorNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeBadRequest, "Assigned mentor does not exist.", err.Error()))
		} else if errors.Is(err, services.ErrValidation) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Validation failed: "+err.Error(), err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to create mentee.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusCreated, mentee)
}

// GetMentees handles listing mentees with filters and pagination.
func (h *MenteeHandler) GetMentees(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))

	filters := repositories.MenteeFilters{Page: page, PageSize: pageSize}
	if mentorIDStr := c.Query("mentor_id"); mentorIDStr != "" {
		mentorID, err := utils.StrToInt64(mentorIDStr)
		if err != nil {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid mentor_id format.", err.Error()))
			return
		}
		filters.MentorID = &mentorID
	}
	if search := c.Query("search"); search != "" {
		filters.Search = &search
	}

	mentees, totalCount, err := h.menteeService.GetMentees(filters)
	if err != nil {
		utils.LogError(err, "GetMentees: Error from menteeService.GetMentees")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch mentees.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"data":      mentees,
		"total":     totalCount,
		"page":      page,
		"page_size": pageSize,
	})
}

// GetMenteeByID handles fetching a single mentee by ID.
func (h *MenteeHandler) GetMenteeByID(c *gin.Context) {
	menteeID, err := utils.StrToInt64(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid mentee ID format.", err.Error()))
		return
	}

	mentee, err := h.menteeService.GetMenteeByID(menteeID)
	if err != nil {
		utils.LogError(err, "GetMenteeByID: Error from menteeService.GetMenteeByID")
		if errors.Is(err, services.ErrMenteeNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Mentee not found.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch mentee.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, mentee)
}

// UpdateMentee handles updating mentee details.
func (h *MenteeHandler) UpdateMentee(c *gin.Context) {
	menteeID, err := utils.StrToInt64(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid mentee ID format.", err.Error()))
		return
	}

	var req services.UpdateMenteeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "UpdateMentee: Failed to bind JSON")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	mentee, err := h.menteeService.UpdateMentee(menteeID, req)
	if err != nil {
		utils.LogError(err, "UpdateMentee: Error from menteeService.UpdateMentee")
		if errors.Is(err, services.ErrMenteeNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Mentee not found.", err.Error()))
		} else if errors.Is(err, services.ErrMentorNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeBadRequest, "Assigned mentor does not exist.", err.Error()))
		} else if errors.Is(err, services.ErrValidation) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Validation failed: "+err.Error(), err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to update mentee.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, mentee)
}

// AssignMentor handles PATCH /mentees/:id/mentor.
func (h *MenteeHandler) AssignMentor(c *gin.Context) {
	menteeID, err := utils.StrToInt64(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid mentee ID format.", err.Error()))
		return
	}

	var req services.AssignMentorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	mentee, err := h.menteeService.AssignMentor(menteeID, req)
	if err != nil {
		utils.LogError(err, "AssignMentor: Error from menteeService.AssignMentor")
		if errors.Is(err, services.ErrMenteeNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Mentee not found.", err.Error()))
		} else if errors.Is(err, services.ErrMentorNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeBadRequest, "Assigned mentor does not exist.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to assign mentor.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, mentee)
}

// DeleteMentee handles removing a mentee.
func (h *MenteeHandler) DeleteMentee(c *gin.Context) {
	menteeID, err := utils.StrToInt64(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid mentee ID format.", err.Error()))
		return
	}

	if err := h.menteeService.DeleteMentee(menteeID); err != nil {
		utils.LogError(err, "DeleteMentee: Error from menteeService.DeleteMentee")
		if errors.Is(err, services.ErrMenteeNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Mentee not found.", err.Error()))
		} else if errors.Is(err, services.ErrMenteeReferenced) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Mentee is still referenced by sessions or documents.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to delete mentee.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Mentee deleted successfully"})
}
