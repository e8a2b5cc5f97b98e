package routes

import (
	"github.com/gin-gonic/gin"

	"prd_planner/internal/handlers"
)

type PrdRoutes struct {
	prds      *handlers.PrdHandler
	planning  *handlers.PlanningHandler
	documents *handlers.DocumentHandler
	auth      gin.HandlerFunc
}

func NewPrdRoutes(
	prds *handlers.PrdHandler,
	planning *handlers.PlanningHandler,
	documents *handlers.DocumentHandler,
	auth gin.HandlerFunc,
) *PrdRoutes {
	return &PrdRoutes{prds: prds, planning: planning, documents: documents, auth: auth}
}

func (r *PrdRoutes) RegisterRoutes(router *gin.RouterGroup) {
	prds := router.Group("/prds")
	prds.Use(r.auth) // All PRD routes require authentication
	{
		prds.POST("", r.prds.CreatePrd)
		prds.GET("", r.prds.ListPrds)
		prds.GET("/:id", r.prds.GetPrd)
		prds.DELETE("/:id", r.prds.DeletePrd)

		prds.GET("/:id/questions", r.planning.GetQuestions)
		prds.PUT("/:id/answers", r.planning.SubmitAnswers)
		prds.POST("/:id/rounds", r.planning.ContinuePlanning)
		prds.POST("/:id/summary", r.planning.RequestSummary)

		prds.POST("/:id/document", r.documents.GenerateDocument)
		prds.PUT("/:id/document", r.documents.UpdateDocument)
		prds.POST("/:id/complete", r.documents.CompletePrd)
	}
}
