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

// InvoiceHandler holds the invoice service.
type InvoiceHandler struct {
	invoiceService services.InvoiceService
}

// NewInvoiceHandler creates a new InvoiceHandler.
func NewInvoiceHandler(is services.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{invoiceService: is}
}

// currentUserID pulls the authenticated user ID from the Gin context.
func currentUserID(c *gin.Context) *int64 {
	if v, ok := c.Get("userID"); ok {
		if id, isInt := v.(int64); isInt {
			return &id
		}
	}
	return nil
}

// CreateInvoice handles creating an invoice with its line items.
func (h *InvoiceHandler) CreateInvoice(c *gin.Context) {
	var req services.CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "CreateInvoice: Failed to bind JSON")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	invoice, err := h.invoiceService.CreateInvoice(req, currentUserID(c))
	if err != nil {
		utils.LogError(err, "CreateInvoice: Error from invoiceService.CreateInvoice")
		if errors.Is(err, services.ErrInvoiceNumberConflict) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Invoice number already exists.", err.Error()))
		} else if errors.Is(err, services.ErrValidation) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Validation failed: "+err.Error(), err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to create invoice.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusCreated, invoice)
}

// GetInvoices handles listing invoices with filters and pagination.
func (h *InvoiceHandler) GetInvoices(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))

	filters := repositories.InvoiceFilters{Page: page, PageSize: pageSize}
	if status := c.Query("status"); status != "" {
		filters.Status = &status
	}
	if vendor := c.Query("vendor"); vendor != "" {
		filters.Vendor = &vendor
	}

	invoices, totalCount, err := h.invoiceService.GetInvoices(filters)
	if err != nil {
		utils.LogError(err, "GetInvoices: Error from invoiceService.GetInvoices")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch invoices.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"data":      invoices,
		"total":     totalCount,
		"page":      page,
		"page_size": pageSize,
	})
}

// GetInvoiceByID handles fetching a single invoice with line items.
func (h *InvoiceHandler) GetInvoiceByID(c *gin.Context) {
	invoiceID, err := utils.StrToInt64(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid invoice ID format.", err.Error()))
		return
	}

	invoice, err := h.invoiceService.GetInvoiceByID(invoiceID)
	if err != nil {
		utils.LogError(err, "GetInvoiceByID: Error from invoiceService.GetInvoiceByID")
		if errors.Is(err, services.ErrInvoiceNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Invoice not found.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch invoice.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, invoice)
}

// UpdateInvoice handles replacing an invoice's details and line items.
func (h *InvoiceHandler) UpdateInvoice(c *gin.Context) {
	invoiceID, err := utils.StrToInt64(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid invoice ID format.", err.Error()))
		return
	}

	var req services.UpdateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "UpdateInvoice: Failed to bind JSON")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	invoice, err := h.invoiceService.UpdateInvoice(invoiceID, req)
	if err != nil {
		utils.LogError(err, "UpdateInvoice: Error from invoiceService.UpdateInvoice")
		if errors.Is(err, services.ErrInvoiceNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Invoice not found.", err.Error()))
		} else if errors.Is(err, services.ErrInvoiceNotEditable) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Invoice can only be edited while pending.", err.Error()))
		} else if errors.Is(err, services.ErrValidation) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Validation failed: "+err.Error(), err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to update invoice.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, invoice)
}

// UpdateInvoiceStatus handles PATCH /invoices/:id/status.
func (h *InvoiceHandler) UpdateInvoiceStatus(c *gin.Context) {
	invoiceID, err := utils.StrToInt64(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid invoice ID format.", err.Error()))
		return
	}

	var req services.UpdateInvoiceStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	invoice, err := h.invoiceService.UpdateInvoiceStatus(invoiceID, req)
	if err != nil {
		utils.LogError(err, "UpdateInvoiceStatus: Error from invoiceService.UpdateInvoiceStatus")
		if errors.Is(err, services.ErrInvoiceNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Invoice not found.", err.Error()))
		} else if errors.Is(err, services.ErrInvalidTransition) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Status transition not allowed.", err.Error()))
		} else if errors.Is(err, services.ErrValidation) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Validation failed: "+err.Error(), err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to update invoice status.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, invoice)
}

// DeleteInvoice handles deleting a pending invoice.
func (h *InvoiceHandler) DeleteInvoice(c *gin.Context) {
	invoiceID, err := utils.StrToInt64(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid invoice ID format.", err.Error()))
		return
	}

	if err := h.invoiceService.DeleteInvoice(invoiceID); err != nil {
		utils.LogError(err, "DeleteInvoice: Error from invoiceService.DeleteInvoice")
		if errors.Is(err, services.ErrInvoiceNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Invoice not found.", err.Error()))
		} else if errors.Is(err, services.ErrInvoiceNotEditable) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Only pending invoices can be deleted.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to delete invoice.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Invoice deleted successfully"})
}
