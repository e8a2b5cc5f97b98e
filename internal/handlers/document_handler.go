package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"prd_planner/internal/responses"
	"prd_planner/internal/services"
)

type DocumentHandler struct {
	documentService *services.DocumentService
}

func NewDocumentHandler(documentService *services.DocumentService) *DocumentHandler {
	return &DocumentHandler{
		documentService: documentService,
	}
}

type documentResponse struct {
	Content string `json:"content"`
}

// GenerateDocument handles POST /api/v1/prds/:id/document
func (h *DocumentHandler) GenerateDocument(c *gin.Context) {
	userID, prdID, ok := requestIDs(c)
	if !ok {
		return
	}

	content, err := h.documentService.GenerateDocument(c.Request.Context(), userID, prdID)
	if err != nil {
		fail(c, err, "Failed to generate document")
		return
	}

	responses.Success(c, http.StatusOK, documentResponse{Content: content}, "Document generated successfully")
}

// UpdateDocument handles PUT /api/v1/prds/:id/document
func (h *DocumentHandler) UpdateDocument(c *gin.Context) {
	userID, prdID, ok := requestIDs(c)
	if !ok {
		return
	}

	var req services.UpdateDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.Fail(c, http.StatusBadRequest, err, "Invalid request body")
		return
	}

	content, err := h.documentService.UpdateDocument(c.Request.Context(), userID, prdID, *req.Content)
	if err != nil {
		fail(c, err, "Failed to update document")
		return
	}

	responses.Success(c, http.StatusOK, documentResponse{Content: content}, "Document updated successfully")
}

// CompletePrd handles POST /api/v1/prds/:id/complete
func (h *DocumentHandler) CompletePrd(c *gin.Context) {
	userID, prdID, ok := requestIDs(c)
	if !ok {
		return
	}

	prd, err := h.documentService.Complete(c.Request.Context(), userID, prdID)
	if err != nil {
		fail(c, err, "Failed to complete PRD")
		return
	}

	responses.Success(c, http.StatusOK, prd, "PRD completed successfully")
}
