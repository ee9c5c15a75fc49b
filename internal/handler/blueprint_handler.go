package handler

import (
	"mocktest-engine/internal/domain"
	"mocktest-engine/internal/dto"
	"mocktest-engine/internal/logger"
	"mocktest-engine/internal/middleware"
	"mocktest-engine/internal/service"
	"mocktest-engine/internal/validation"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// BlueprintHandler handles blueprint intake and exam generation
type BlueprintHandler struct {
	service   service.ExamService
	validator *validation.Validator
}

// NewBlueprintHandler creates a new BlueprintHandler instance
func NewBlueprintHandler(service service.ExamService) *BlueprintHandler {
	return &BlueprintHandler{
		service:   service,
		validator: validation.NewValidator(),
	}
}

// CreateBlueprint godoc
// @Summary Create a blueprint
// @Description Validates and stores a blueprint of subject/difficulty rules
// @Tags blueprints
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param blueprint body dto.CreateBlueprintRequest true "Blueprint"
// @Success 201 {object} dto.BlueprintResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 403 {object} middleware.ErrorResponse
// @Failure 503 {object} middleware.ErrorResponse
// @Router /blueprints [post]
func (h *BlueprintHandler) CreateBlueprint(c *fiber.Ctx) error {
	var req dto.CreateBlueprintRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("invalid request body")
	}
	if errs := h.validator.ValidateCreateBlueprintRequest(&req); len(errs) > 0 {
		return errs
	}

	res, err := h.service.CreateBlueprint(c.UserContext(), &req)
	if err != nil {
		return err
	}
	logger.Get().Info("Blueprint created",
		zap.String("blueprint_id", res.ID),
		zap.String("course_id", res.CourseID),
		zap.Int("rules", len(res.Rules)),
	)
	return c.Status(fiber.StatusCreated).JSON(res)
}

// GetBlueprint godoc
// @Summary Get a blueprint
// @Tags blueprints
// @Produce json
// @Param id path string true "Blueprint ID"
// @Success 200 {object} dto.BlueprintResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /blueprints/{id} [get]
func (h *BlueprintHandler) GetBlueprint(c *fiber.Ctx) error {
	res, err := h.service.GetBlueprint(c.UserContext(), validatedID(c))
	if err != nil {
		return err
	}
	return c.JSON(res)
}

// UpdateBlueprint godoc
// @Summary Replace a blueprint's rules
// @Description Rejected with 409 once an exam has been generated from the blueprint
// @Tags blueprints
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Blueprint ID"
// @Param blueprint body dto.UpdateBlueprintRequest true "Blueprint"
// @Success 200 {object} dto.BlueprintResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Failure 409 {object} middleware.ErrorResponse
// @Router /blueprints/{id} [put]
func (h *BlueprintHandler) UpdateBlueprint(c *fiber.Ctx) error {
	var req dto.UpdateBlueprintRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("invalid request body")
	}
	if errs := h.validator.ValidateUpdateBlueprintRequest(&req); len(errs) > 0 {
		return errs
	}

	res, err := h.service.UpdateBlueprint(c.UserContext(), validatedID(c), &req)
	if err != nil {
		return err
	}
	return c.JSON(res)
}

// Generate godoc
// @Summary Generate an exam from a blueprint
// @Description Samples questions for every rule and freezes the result as a new exam
// @Tags blueprints
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Blueprint ID"
// @Success 201 {object} dto.GenerateExamResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Failure 422 {object} middleware.ErrorResponse
// @Failure 503 {object} middleware.ErrorResponse
// @Router /blueprints/{id}/generate [post]
func (h *BlueprintHandler) Generate(c *fiber.Ctx) error {
	res, err := h.service.Generate(c.UserContext(), validatedID(c))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(res)
}

// validatedID prefers the id stored by ValidateIDParam and falls back to the raw param.
func validatedID(c *fiber.Ctx) string {
	if id, ok := c.Locals(middleware.ValidatedIDKey).(string); ok {
		return id
	}
	return c.Params("id")
}
