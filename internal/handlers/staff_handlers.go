package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"mentorhub_backend/internal/services"
	"mentorhub_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// StaffHandler holds the staff service.
type StaffHandler struct {
	staffService services.StaffService
}

// NewStaffHandler creates a new StaffHandler.
func NewStaffHandler(ss services.StaffService) *StaffHandler {
	return &StaffHandler{staffService: ss}
}

// CreateStaffMember handles the creation of a new staff member.
func (h *StaffHandler) CreateStaffMember(c *gin.Context) {
	var req services.CreateStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "CreateStaffMember: Failed to bind JSON")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	staffMember, err := h.staffService.CreateStaffMember(req)
	if err != nil {
		utils.LogError(err, "CreateStaffMember: Error from staffService.CreateStaffMember")
		if errors.Is(err, services.ErrStaffConflict) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "User ID is already linked to another staff member.", err.Error()))
		} else if errors.Is(err, services.ErrValidation) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Validation failed: "+err.Error(), err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to create staff member.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusCreated, staffMember)
}

// GetStaffMembers handles fetching staff members with pagination.
func (h *StaffHandler) GetStaffMembers(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))

	staffMembers, totalCount, err := h.staffService.GetStaffMembers(page, pageSize)
	if err != nil {
		utils.LogError(err, "GetStaffMembers: Error from staffService.GetStaffMembers")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch staff members.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"data":      staffMembers,
		"total":     totalCount,
		"page":      page,
		"page_size": pageSize,
	})
}

// GetStaffMemberByID handles fetching a single staff member by ID.
func (h *StaffHandler) GetStaffMemberByID(c *gin.Context) {
	staffID, err := utils.StrToInt64(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid staff member ID format.", err.Error()))
		return
	}

	staffMember, err := h.staffService.GetStaffMemberByID(staffID)
	if err != nil {
		utils.LogError(err, "GetStaffMemberByID: Error from staffService.GetStaffMemberByID")
		if errors.Is(err, services.ErrStaffNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Staff member not found.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch staff member.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, staffMember)
}

// UpdateStaffMember handles updating a staff member.
func (h *StaffHandler) UpdateStaffMember(c *gin.Context) {
	staffID, err := utils.StrToInt64(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid staff member ID format.", err.Error()))
		return
	}

	var req services.UpdateStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "UpdateStaffMember: Failed to bind JSON")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	staffMember, err := h.staffService.UpdateStaffMember(staffID, req)
	if err != nil {
		utils.LogError(err, "UpdateStaffMember: Error from staffService.UpdateStaffMember")
		if errors.Is(err, services.ErrStaffNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Staff member not found.", err.Error()))
		} else if errors.Is(err, services.ErrValidation) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Validation failed: "+err.Error(), err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to update staff member.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, staffMember)
}

// DeleteStaffMember handles deleting a staff member.
func (h *StaffHandler) DeleteStaffMember(c *gin.Context) {
	staffID, err := utils.StrToInt64(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid staff member ID format.", err.Error()))
		return
	}

	if err := h.staffService.DeleteStaffMember(staffID); err != nil {
		utils.LogError(err, "DeleteStaffMember: Error from staffService.DeleteStaffMember")
		if errors.Is(err, services.ErrStaffNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Staff member not found.", err.Error()))
		} else if errors.Is(err, services.ErrStaffReferenced) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Staff member is still referenced by mentees or sessions.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to delete staff member.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Staff member deleted successfully"})
}
