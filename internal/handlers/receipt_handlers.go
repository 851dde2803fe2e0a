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

// ReceiptHandler holds the receipt service.
type ReceiptHandler struct {
	receiptService services.ReceiptService
}

// NewReceiptHandler creates a new ReceiptHandler.
func NewReceiptHandler(rs services.ReceiptService) *ReceiptHandler {
	return &ReceiptHandler{receiptService: rs}
}

// CreateReceipt handles recording a receipt with its line items.
func (h *ReceiptHandler) CreateReceipt(c *gin.Context) {
	var req services.CreateReceiptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "CreateReceipt: Failed to bind JSON")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	receipt, err := h.receiptService.CreateReceipt(req, currentUserID(c))
	if err != nil {
		utils.LogError(err, "CreateReceipt: Error from receiptService.CreateReceipt")
		if errors.Is(err, services.ErrReceiptNumberConflict) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Receipt number already exists.", err.Error()))
		} else if errors.Is(err, services.ErrValidation) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Validation failed: "+err.Error(), err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to create receipt.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusCreated, receipt)
}

// GetReceipts handles listing receipts with filters and pagination.
func (h *ReceiptHandler) GetReceipts(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))

	filters := repositories.ReceiptFilters{Page: page, PageSize: pageSize}
	if status := c.Query("status"); status != "" {
		filters.Status = &status
	}
	if category := c.Query("category"); category != "" {
		filters.Category = &category
	}

	receipts, totalCount, err := h.receiptService.GetReceipts(filters)
	if err != nil {
		utils.LogError(err, "GetReceipts: Error from receiptService.GetReceipts")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch receipts.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"data":      receipts,
		"total":     totalCount,
		"page":      page,
		"page_size": pageSize,
	})
}

// GetReceiptByID handles fetching a single receipt with line items.
func (h *ReceiptHandler) GetReceiptByID(c *gin.Context) {
	receiptID, err := utils.StrToInt64(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid receipt ID format.", err.Error()))
		return
	}

	receipt, err := h.receiptService.GetReceiptByID(receiptID)
	if err != nil {
		utils.LogError(err, "GetReceiptByID: Error from receiptService.GetReceiptByID")
		if errors.Is(err, services.ErrReceiptNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Receipt not found.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch receipt.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, receipt)
}

// UpdateReceipt handles replacing a pending receipt's details and line items.
func (h *ReceiptHandler) UpdateReceipt(c *gin.Context) {
	receiptID, err := utils.StrToInt64(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid receipt ID format.", err.Error()))
		return
	}

	var req services.UpdateReceiptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "UpdateReceipt: Failed to bind JSON")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	receipt, err := h.receiptService.UpdateReceipt(receiptID, req)
	if err != nil {
		utils.LogError(err, "UpdateReceipt: Error from receiptService.UpdateReceipt")
		if errors.Is(err, services.ErrReceiptNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Receipt not found.", err.Error()))
		} else if errors.Is(err, services.ErrReceiptNotEditable) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Receipt can only be edited while pending.", err.Error()))
		} else if errors.Is(err, services.ErrValidation) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Validation failed: "+err.Error(), err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to update receipt.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, receipt)
}

// DecideReceipt handles PATCH /receipts/:id/status (approve or reject).
func (h *ReceiptHandler) DecideReceipt(c *gin.Context) {
	receiptID, err := utils.StrToInt64(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid receipt ID format.", err.Error()))
		return
	}

	var req services.DecideReceiptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	decidedBy := currentUserID(c)
	if decidedBy == nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Authentication required.", ""))
		return
	}

	receipt, err := h.receiptService.DecideReceipt(receiptID, req, *decidedBy)
	if err != nil {
		utils.LogError(err, "DecideReceipt: Error from receiptService.DecideReceipt")
		if errors.Is(err, services.ErrReceiptNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Receipt not found.", err.Error()))
		} else if errors.Is(err, services.ErrReceiptDecided) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Receipt has already been decided.", err.Error()))
		} else if errors.Is(err, services.ErrValidation) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Validation failed: "+err.Error(), err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to decide receipt.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, receipt)
}

// DeleteReceipt handles deleting a pending receipt.
func (h *ReceiptHandler) DeleteReceipt(c *gin.Context) {
	receiptID, err := utils.StrToInt64(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid receipt ID format.", err.Error()))
		return
	}

	if err := h.receiptService.DeleteReceipt(receiptID); err != nil {
		utils.LogError(err, "DeleteReceipt: Error from receiptService.DeleteReceipt")
		if errors.Is(err, services.ErrReceiptNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Receipt not found.", err.Error()))
		} else if errors.Is(err, services.ErrReceiptNotEditable) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Only pending receipts can be deleted.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to delete receipt.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Receipt deleted successfully"})
}
