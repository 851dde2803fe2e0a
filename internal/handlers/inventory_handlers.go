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

// InventoryHandler holds the inventory service.
type InventoryHandler struct {
	inventoryService services.InventoryService
}

// NewInventoryHandler creates a new InventoryHandler.
func NewInventoryHandler(is services.InventoryService) *InventoryHandler {
	return &InventoryHandler{inventoryService: is}
}

// CreateItem handles creating an inventory item.
func (h *InventoryHandler) CreateItem(c *gin.Context) {
	var req services.CreateInventoryItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "CreateItem: Failed to bind JSON")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	item, err := h.inventoryService.CreateItem(req)
	if err != nil {
		utils.LogError(err, "CreateItem: Error from inventoryService.CreateItem")
		if errors.Is(err, services.ErrSKUConflict) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "SKU already exists.", err.Error()))
		} else if errors.Is(err, services.ErrValidation) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Validation failed: "+err.Error(), err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to create inventory item.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusCreated, item)
}

// GetItems handles listing inventory items with filters and pagination.
func (h *InventoryHandler) GetItems(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))

	filters := repositories.InventoryFilters{Page: page, PageSize: pageSize}
	if category := c.Query("category"); category != "" {
		filters.Category = &category
	}
	if search := c.Query("search"); search != "" {
		filters.Search = &search
	}
	if activeStr := c.Query("is_active"); activeStr != "" {
		active, err := strconv.ParseBool(activeStr)
		if err != nil {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid is_active value, expected true or false.", err.Error()))
			return
		}
		filters.Active = &active
	}
	if lowStockStr := c.Query("low_stock"); lowStockStr != "" {
		lowStock, err := strconv.ParseBool(lowStockStr)
		if err != nil {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid low_stock value, expected true or false.", err.Error()))
			return
		}
		filters.LowStock = lowStock
	}

	items, totalCount, err := h.inventoryService.GetItems(filters)
	if err != nil {
		utils.LogError(err, "GetItems: Error from inventoryService.GetItems")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch inventory items.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"data":      items,
		"total":     totalCount,
		"page":      page,
		"page_size": pageSize,
	})
}

// GetItemByID handles fetching a single inventory item.
func (h *InventoryHandler) GetItemByID(c *gin.Context) {
	itemID, err := utils.StrToInt64(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid inventory item ID format.", err.Error()))
		return
	}

	item, err := h.inventoryService.GetItemByID(itemID)
	if err != nil {
		utils.LogError(err, "GetItemByID: Error from inventoryService.GetItemByID")
		if errors.Is(err, services.ErrInventoryItemNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Inventory item not found.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch inventory item.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, item)
}

// UpdateItem handles updating an inventory item's metadata.
func (h *InventoryHandler) UpdateItem(c *gin.Context) {
	itemID, err := utils.StrToInt64(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid inventory item ID format.", err.Error()))
		return
	}

	var req services.UpdateInventoryItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "UpdateItem: Failed to bind JSON")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	item, err := h.inventoryService.UpdateItem(itemID, req)
	if err != nil {
		utils.LogError(err, "UpdateItem: Error from inventoryService.UpdateItem")
		if errors.Is(err, services.ErrInventoryItemNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Inventory item not found.", err.Error()))
		} else if errors.Is(err, services.ErrSKUConflict) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "SKU already exists.", err.Error()))
		} else if errors.Is(err, services.ErrValidation) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Validation failed: "+err.Error(), err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to update inventory item.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, item)
}

// AdjustStock handles PATCH /inventory/:id/stock.
func (h *InventoryHandler) AdjustStock(c *gin.Context) {
	itemID, err := utils.StrToInt64(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid inventory item ID format.", err.Error()))
		return
	}

	var req services.StockChangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	result, err := h.inventoryService.ApplyStockChange(itemID, req)
	if err != nil {
		utils.LogError(err, "AdjustStock: Error from inventoryService.ApplyStockChange")
		if errors.Is(err, services.ErrInventoryItemNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Inventory item not found.", err.Error()))
		} else if errors.Is(err, services.ErrValidation) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Validation failed: "+err.Error(), err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to adjust stock.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, result)
}
