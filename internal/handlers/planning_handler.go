package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"prd_planner/internal/responses"
	"prd_planner/internal/services"
)

type PlanningHandler struct {
	planningService *services.PlanningService
}

func NewPlanningHandler(planningService *services.PlanningService) *PlanningHandler {
	return &PlanningHandler{
		planningService: planningService,
	}
}

// GetQuestions handles GET /api/v1/prds/:id/questions
func (h *PlanningHandler) GetQuestions(c *gin.Context) {
	userID, prdID, ok := requestIDs(c)
	if !ok {
		return
	}

	state, err := h.planningService.GetPlanningState(c.Request.Context(), userID, prdID)
	if err != nil {
		fail(c, err, "Failed to get questions")
		return
	}

	responses.Success(c, http.StatusOK, state, "Questions retrieved successfully")
}

// SubmitAnswers handles PUT /api/v1/prds/:id/answers
func (h *PlanningHandler) SubmitAnswers(c *gin.Context) {
	userID, prdID, ok := requestIDs(c)
	if !ok {
		return
	}

	var req services.SubmitAnswersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.Fail(c, http.StatusBadRequest, err, "Invalid request body")
		return
	}

	state, err := h.planningService.SubmitAnswers(c.Request.Context(), userID, prdID, req)
	if err != nil {
		fail(c, err, "Failed to submit answers")
		return
	}

	responses.Success(c, http.StatusOK, state, "Answers saved successfully")
}

// ContinuePlanning handles POST /api/v1/prds/:id/rounds
func (h *PlanningHandler) ContinuePlanning(c *gin.Context) {
	userID, prdID, ok := requestIDs(c)
	if !ok {
		return
	}

	state, err := h.planningService.ContinuePlanning(c.Request.Context(), userID, prdID)
	if err != nil {
		fail(c, err, "Failed to continue planning")
		return
	}

	responses.Success(c, http.StatusCreated, state, "Next planning round started")
}

// RequestSummary handles POST /api/v1/prds/:id/summary
func (h *PlanningHandler) RequestSummary(c *gin.Context) {
	userID, prdID, ok := requestIDs(c)
	if !ok {
		return
	}

	prd, err := h.planningService.RequestSummary(c.Request.Context(), userID, prdID)
	if err != nil {
		fail(c, err, "Failed to generate summary")
		return
	}

	responses.Success(c, http.StatusOK, prd, "Summary generated successfully")
}
