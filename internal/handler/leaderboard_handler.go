package handler

import (
	"mocktest-engine/internal/dto"
	"mocktest-engine/internal/middleware"
	"mocktest-engine/internal/service"

	"github.com/gofiber/fiber/v2"
)

// LeaderboardHandler serves ranked first attempts
type LeaderboardHandler struct {
	service service.LeaderboardService
}

// NewLeaderboardHandler creates a new LeaderboardHandler instance
func NewLeaderboardHandler(service service.LeaderboardService) *LeaderboardHandler {
	return &LeaderboardHandler{service: service}
}

// GetLeaderboard godoc
// @Summary Get a leaderboard
// @Description Ranks first attempts by score desc, elapsed asc, submitted asc. Equal triples share a position. An empty board is returned as an empty list.
// @Tags leaderboard
// @Produce json
// @Param course_id query string true "Course ID"
// @Param subject query string false "Subject"
// @Param tenant_id query string false "Tenant ID"
// @Param limit query int false "Maximum entries, 0 for all"
// @Success 200 {object} dto.LeaderboardResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Router /leaderboard [get]
func (h *LeaderboardHandler) GetLeaderboard(c *fiber.Ctx) error {
	req, ok := c.Locals(middleware.ValidatedLeaderboardKey).(dto.LeaderboardRequest)
	if !ok {
		if err := c.QueryParser(&req); err != nil {
			return err
		}
	}
	res, err := h.service.Rank(c.UserContext(), req)
	if err != nil {
		return err
	}
	return c.JSON(res)
}
