package middleware

import (
	"errors"
	"net/http"

	"mocktest-engine/internal/domain"
	"mocktest-engine/internal/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ErrorResponse is the body of every non-validation error.
type ErrorResponse struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Status  int                    `json:"status"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// ValidationErrorResponse lists every field that failed validation.
type ValidationErrorResponse struct {
	Code    string                   `json:"code"`
	Message string                   `json:"message"`
	Status  int                      `json:"status"`
	Errors  []domain.ValidationError `json:"errors"`
}

// ErrorHandler renders handler errors as JSON. Domain errors keep their code and
// context; anything unrecognised becomes an opaque 500.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var (
			validationErrs domain.ValidationErrors
			domainErr      *domain.DomainError
			fiberErr       *fiber.Error
		)
		switch {
		case errors.As(err, &validationErrs):
			return renderValidation(c, validationErrs)
		case errors.As(err, &domainErr):
			return renderDomain(c, domainErr)
		case errors.As(err, &fiberErr):
			logger.Get().Warn("Fiber error", zap.String("path", c.Path()), zap.Int("status", fiberErr.Code), zap.String("message", fiberErr.Message))
			return c.Status(fiberErr.Code).JSON(ErrorResponse{Code: "HTTP_ERROR", Message: fiberErr.Message, Status: fiberErr.Code})
		}

		logger.Get().Error("Unhandled error", zap.String("path", c.Path()), zap.Error(err))
		return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{
			Code:    string(domain.CodeInternal),
			Message: "Internal server error",
			Status:  http.StatusInternalServerError,
		})
	}
}

func renderValidation(c *fiber.Ctx, errs domain.ValidationErrors) error {
	logger.Get().Info("Validation failed", zap.String("path", c.Path()), zap.Int("error_count", len(errs)))
	return c.Status(http.StatusBadRequest).JSON(ValidationErrorResponse{
		Code:    string(domain.CodeValidation),
		Message: "Request validation failed",
		Status:  http.StatusBadRequest,
		Errors:  errs,
	})
}

func renderDomain(c *fiber.Ctx, de *domain.DomainError) error {
	status := StatusForCode(de.Code)
	fields := []zap.Field{
		zap.String("path", c.Path()),
		zap.String("code", string(de.Code)),
		zap.Int("status", status),
	}
	if de.Cause != nil {
		fields = append(fields, zap.Error(de.Cause))
	}
	if status >= http.StatusInternalServerError {
		logger.Get().Error(de.Message, fields...)
	} else {
		logger.Get().Info(de.Message, fields...)
	}

	resp := ErrorResponse{Code: string(de.Code), Message: de.Message, Status: status}
	if len(de.Context) > 0 {
		resp.Details = de.Context
	}
	return c.Status(status).JSON(resp)
}

// StatusForCode is the single table from domain error codes to HTTP statuses.
func StatusForCode(code domain.ErrorCode) int {
	switch code {
	case domain.CodeNotFound, domain.CodeNoRankTable:
		return http.StatusNotFound
	case domain.CodeInvalidInput, domain.CodeValidation, domain.CodeMissingField,
		domain.CodeInvalidFormat, domain.CodeOutOfRange,
		domain.CodeEmptyBlueprint, domain.CodeInvalidRule,
		domain.CodeMalformedRankTable, domain.CodeInsufficientRankData:
		return http.StatusBadRequest
	case domain.CodeInsufficientPool:
		return http.StatusUnprocessableEntity
	case domain.CodeBlueprintLocked, domain.CodeAttemptExists:
		return http.StatusConflict
	case domain.CodeUnauthorized:
		return http.StatusUnauthorized
	case domain.CodeForbidden:
		return http.StatusForbidden
	case domain.CodePersistenceFailure:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
