package handler

import (
	"bytes"

	"mocktest-engine/internal/domain"
	"mocktest-engine/internal/dto"
	"mocktest-engine/internal/middleware"
	"mocktest-engine/internal/service"
	"mocktest-engine/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// ExamHandler serves generated exams, their rank tables and attempts
type ExamHandler struct {
	exams     service.ExamService
	ranks     service.RankService
	attempts  service.AttemptService
	validator *validation.Validator
}

// NewExamHandler creates a new ExamHandler instance
func NewExamHandler(exams service.ExamService, ranks service.RankService, attempts service.AttemptService) *ExamHandler {
	return &ExamHandler{
		exams:     exams,
		ranks:     ranks,
		attempts:  attempts,
		validator: validation.NewValidator(),
	}
}

// GetExam godoc
// @Summary Get a generated exam
// @Description Returns the frozen question list and section boundaries
// @Tags exams
// @Produce json
// @Param id path string true "Exam ID"
// @Success 200 {object} dto.ExamResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /exams/{id} [get]
func (h *ExamHandler) GetExam(c *fiber.Ctx) error {
	res, err := h.exams.GetExam(c.UserContext(), validatedID(c))
	if err != nil {
		return err
	}
	return c.JSON(res)
}

// UploadRankTable godoc
// @Summary Upload a marks-to-rank table
// @Description Body is delimited text, one "marks,rank" pair per line. Comma, semicolon, tab or whitespace separated; a header line is allowed. The whole table is rejected if any row is malformed.
// @Tags ranking
// @Accept plain
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Exam ID"
// @Param table body string true "Rank table"
// @Success 200 {object} dto.RankTableUploadResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Failure 503 {object} middleware.ErrorResponse
// @Router /exams/{id}/rank-table [put]
func (h *ExamHandler) UploadRankTable(c *fiber.Ctx) error {
	body := c.Body()
	if len(bytes.TrimSpace(body)) == 0 {
		return domain.ValidationErrors{domain.NewMissingFieldError("body")}
	}
	res, err := h.ranks.Upload(c.UserContext(), validatedID(c), bytes.NewReader(body))
	if err != nil {
		return err
	}
	return c.JSON(res)
}

// GetRankTable godoc
// @Summary Get the current rank table
// @Tags ranking
// @Produce json
// @Param id path string true "Exam ID"
// @Success 200 {object} dto.RankTableResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /exams/{id}/rank-table [get]
func (h *ExamHandler) GetRankTable(c *fiber.Ctx) error {
	res, err := h.ranks.GetRankTable(c.UserContext(), validatedID(c))
	if err != nil {
		return err
	}
	return c.JSON(res)
}

// PredictRank godoc
// @Summary Predict a rank for a score
// @Description Linear interpolation between the neighbouring points of the exam's rank table
// @Tags ranking
// @Produce json
// @Param id path string true "Exam ID"
// @Param score query number true "Score"
// @Success 200 {object} dto.PredictedRankResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /exams/{id}/predicted-rank [get]
func (h *ExamHandler) PredictRank(c *fiber.Ctx) error {
	score, ok := c.Locals(middleware.ValidatedScoreKey).(float64)
	if !ok {
		parsed, errs := h.validator.ParseScore(c.Query("score"))
		if len(errs) > 0 {
			return errs
		}
		score = parsed
	}
	res, err := h.ranks.PredictRank(c.UserContext(), validatedID(c), score)
	if err != nil {
		return err
	}
	return c.JSON(res)
}

// RecordAttempt godoc
// @Summary Record a scored attempt
// @Description Students may only record their own attempts. A second attempt is rejected or versioned depending on the retake policy.
// @Tags attempts
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Exam ID"
// @Param attempt body dto.RecordAttemptRequest true "Attempt"
// @Success 201 {object} dto.AttemptResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 403 {object} middleware.ErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Failure 409 {object} middleware.ErrorResponse
// @Router /exams/{id}/attempts [post]
func (h *ExamHandler) RecordAttempt(c *fiber.Ctx) error {
	var req dto.RecordAttemptRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("invalid request body")
	}

	if claims := middleware.ClaimsFrom(c); claims != nil && claims.Role == dto.RoleStudent {
		if req.StudentID == "" {
			req.StudentID = claims.UserID
		}
		if req.StudentID != claims.UserID {
			return domain.NewForbiddenError("students may only record their own attempts")
		}
		if req.TenantID == "" {
			req.TenantID = claims.TenantID
		}
	}

	if errs := h.validator.ValidateRecordAttemptRequest(&req); len(errs) > 0 {
		return errs
	}
	res, err := h.attempts.Record(c.UserContext(), validatedID(c), &req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(res)
}
