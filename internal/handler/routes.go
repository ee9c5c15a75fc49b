package handler

import (
	"mocktest-engine/internal/dto"
	"mocktest-engine/internal/middleware"
	"mocktest-engine/internal/service"

	"github.com/gofiber/fiber/v2"
)

// Handlers groups everything RegisterRoutes mounts.
type Handlers struct {
	Blueprints  *BlueprintHandler
	Exams       *ExamHandler
	Leaderboard *LeaderboardHandler
	Health      *HealthHandler
}

// RegisterRoutes mounts the API under /api and the health probe at /healthz.
func RegisterRoutes(app *fiber.App, h Handlers, authService service.AuthService) {
	vm := middleware.NewValidationMiddleware()
	protected := middleware.Protected(authService)
	operator := middleware.RequireRole(authService, dto.RoleOperator)
	id := vm.ValidateIDParam("id")

	if h.Health != nil {
		app.Get("/healthz", h.Health.Health)
	}

	api := app.Group("/api")

	api.Post("/blueprints", protected, operator, h.Blueprints.CreateBlueprint)
	api.Get("/blueprints/:id", id, h.Blueprints.GetBlueprint)
	api.Put("/blueprints/:id", protected, operator, id, h.Blueprints.UpdateBlueprint)
	api.Post("/blueprints/:id/generate", protected, operator, id, h.Blueprints.Generate)

	api.Get("/exams/:id", id, h.Exams.GetExam)
	api.Put("/exams/:id/rank-table", protected, operator, id, h.Exams.UploadRankTable)
	api.Get("/exams/:id/rank-table", id, h.Exams.GetRankTable)
	api.Get("/exams/:id/predicted-rank", id, vm.ValidateScoreQuery(), h.Exams.PredictRank)
	api.Post("/exams/:id/attempts", protected, id, h.Exams.RecordAttempt)

	api.Get("/leaderboard", vm.ValidateLeaderboardParams(), h.Leaderboard.GetLeaderboard)
}
