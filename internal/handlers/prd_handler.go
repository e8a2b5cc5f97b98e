package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"prd_planner/internal/middlewares"
	"prd_planner/internal/responses"
	"prd_planner/internal/services"
	"prd_planner/internal/utils"
)

type PrdHandler struct {
	prdService *services.PrdService
}

func NewPrdHandler(prdService *services.PrdService) *PrdHandler {
	return &PrdHandler{
		prdService: prdService,
	}
}

// CreatePrd handles POST /api/v1/prds
func (h *PrdHandler) CreatePrd(c *gin.Context) {
	userID, ok := middlewares.CurrentUserID(c)
	if !ok {
		responses.Fail(c, http.StatusUnauthorized, nil, "Unauthorized")
		return
	}

	var req services.CreatePrdRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.Fail(c, http.StatusBadRequest, err, "Invalid request body")
		return
	}

	result, err := h.prdService.CreatePrd(c.Request.Context(), userID, req)
	if err != nil {
		fail(c, err, "Failed to create PRD")
		return
	}

	responses.Success(c, http.StatusCreated, result, "PRD created successfully")
}

// ListPrds handles GET /api/v1/prds?page=&page_size=
func (h *PrdHandler) ListPrds(c *gin.Context) {
	userID, ok := middlewares.CurrentUserID(c)
	if !ok {
		responses.Fail(c, http.StatusUnauthorized, nil, "Unauthorized")
		return
	}

	page, err := utils.QueryInt(c.Query("page"), 1)
	if err != nil {
		responses.Fail(c, http.StatusBadRequest, err, "Invalid page")
		return
	}
	pageSize, err := utils.QueryInt(c.Query("page_size"), services.DefaultPageSize)
	if err != nil {
		responses.Fail(c, http.StatusBadRequest, err, "Invalid page_size")
		return
	}

	result, err := h.prdService.ListPrds(c.Request.Context(), userID, page, pageSize)
	if err != nil {
		fail(c, err, "Failed to list PRDs")
		return
	}

	responses.Success(c, http.StatusOK, result, "PRDs retrieved successfully")
}

// GetPrd handles GET /api/v1/prds/:id
func (h *PrdHandler) GetPrd(c *gin.Context) {
	userID, prdID, ok := requestIDs(c)
	if !ok {
		return
	}

	prd, err := h.prdService.GetPrd(c.Request.Context(), userID, prdID)
	if err != nil {
		fail(c, err, "Failed to get PRD")
		return
	}

	responses.Success(c, http.StatusOK, prd, "PRD retrieved successfully")
}

// DeletePrd handles DELETE /api/v1/prds/:id
func (h *PrdHandler) DeletePrd(c *gin.Context) {
	userID, prdID, ok := requestIDs(c)
	if !ok {
		return
	}

	if err := h.prdService.DeletePrd(c.Request.Context(), userID, prdID); err != nil {
		fail(c, err, "Failed to delete PRD")
		return
	}

	responses.Success(c, http.StatusOK, nil, "PRD deleted successfully")
}
