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

// DocumentHandler holds the document service.
type DocumentHandler struct {
	documentService services.DocumentService
}

// NewDocumentHandler creates a new DocumentHandler.
func NewDocumentHandler(ds services.DocumentService) *DocumentHandler {
	return &DocumentHandler{documentService: ds}
}

// CreateDocument handles registering uploaded file metadata.
func (h *DocumentHandler) CreateDocument(c *gin.Context) {
	var req services.CreateDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "CreateDocument: Failed to bind JSON")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	doc, err := h.documentService.CreateDocument(req, currentUserID(c))
	if err != nil {
		utils.LogError(err, "CreateDocument: Error from documentService.CreateDocument")
		if errors.Is(err, services.ErrValidation) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Validation failed: "+err.Error(), err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to create document.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusCreated, doc)
}

// GetDocuments handles listing document metadata with filters and pagination.
func (h *DocumentHandler) GetDocuments(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))

	filters := repositories.DocumentFilters{Page: page, PageSize: pageSize}
	if menteeIDStr := c.Query("mentee_id"); menteeIDStr != "" {
		menteeID, err := utils.StrToInt64(menteeIDStr)
		if err != nil {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid mentee_id format.", err.Error()))
			return
		}
		filters.MenteeID = &menteeID
	}
	if search := c.Query("search"); search != "" {
		filters.Search = &search
	}

	docs, totalCount, err := h.documentService.GetDocuments(filters)
	if err != nil {
		utils.LogError(err, "GetDocuments: Error from documentService.GetDocuments")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch documents.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"data":      docs,
		"total":     totalCount,
		"page":      page,
		"page_size": pageSize,
	})
}

// GetDocumentByID handles fetching a single document's metadata.
func (h *DocumentHandler) GetDocumentByID(c *gin.Context) {
	documentID, err := utils.StrToInt64(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid document ID format.", err.Error()))
		return
	}

	doc, err := h.documentService.GetDocumentByID(documentID)
	if err != nil {
		utils.LogError(err, "GetDocumentByID: Error from documentService.GetDocumentByID")
		if errors.Is(err, services.ErrDocumentNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Document not found.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch document.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, doc)
}

// UpdateDocument handles editing document metadata.
func (h *DocumentHandler) UpdateDocument(c *gin.Context) {
	documentID, err := utils.StrToInt64(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid document ID format.", err.Error()))
		return
	}

	var req services.UpdateDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	doc, err := h.documentService.UpdateDocument(documentID, req)
	if err != nil {
		utils.LogError(err, "UpdateDocument: Error from documentService.UpdateDocument")
		if errors.Is(err, services.ErrDocumentNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Document not found.", err.Error()))
		} else if errors.Is(err, services.ErrValidation) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Validation failed: "+err.Error(), err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to update document.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, doc)
}

// DeleteDocument handles removing document metadata.
func (h *DocumentHandler) DeleteDocument(c *gin.Context) {
	documentID, err := utils.StrToInt64(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid document ID format.", err.Error()))
		return
	}

	if err := h.documentService.DeleteDocument(documentID); err != nil {
		utils.LogError(err, "DeleteDocument: Error from documentService.DeleteDocument")
		if errors.Is(err, services.ErrDocumentNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Document not found.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to delete document.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Document deleted successfully"})
}
