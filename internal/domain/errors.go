package domain

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrorCode represents a specific type of error in the domain
type ErrorCode string

const (
	// Common errors
	CodeInternal      ErrorCode = "INTERNAL_ERROR"
	CodeInvalidInput  ErrorCode = "INVALID_INPUT"
	CodeNotFound      ErrorCode = "NOT_FOUND"
	CodeUnauthorized  ErrorCode = "UNAUTHORIZED"
	CodeForbidden     ErrorCode = "FORBIDDEN"
	CodeValidation    ErrorCode = "VALIDATION_ERROR"
	CodeMissingField  ErrorCode = "MISSING_FIELD"
	CodeInvalidFormat ErrorCode = "INVALID_FORMAT"
	CodeOutOfRange    ErrorCode = "OUT_OF_RANGE"

	// Generation errors
	CodeEmptyBlueprint     ErrorCode = "EMPTY_BLUEPRINT"
	CodeInvalidRule        ErrorCode = "INVALID_RULE"
	CodeInsufficientPool   ErrorCode = "INSUFFICIENT_POOL"
	CodePersistenceFailure ErrorCode = "PERSISTENCE_FAILURE"
	CodeBlueprintLocked    ErrorCode = "BLUEPRINT_LOCKED"

	// Rank prediction errors
	CodeMalformedRankTable   ErrorCode = "MALFORMED_RANK_TABLE"
	CodeInsufficientRankData ErrorCode = "INSUFFICIENT_RANK_DATA"
	CodeNoRankTable          ErrorCode = "NO_RANK_TABLE"

	// Attempt errors
	CodeAttemptExists ErrorCode = "ATTEMPT_EXISTS"
)

// DomainError represents a domain-specific error
type DomainError struct {
	Code    ErrorCode              `json:"code"`
	Message string                 `json:"message"`
	Cause   error                  `json:"-"`
	Context map[string]interface{} `json:"context,omitempty"`
}

func (e *DomainError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap exposes the underlying cause to errors.Is / errors.As.
func (e *DomainError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is a DomainError with the same code.
func (e *DomainError) Is(target error) bool {
	var t *DomainError
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// WithContext attaches a key/value pair that is surfaced to API callers.
func (e *DomainError) WithContext(key string, value interface{}) *DomainError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// MarshalJSON implements the json.Marshaler interface
func (e *DomainError) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Code    string                 `json:"code"`
		Message string                 `json:"message"`
		Context map[string]interface{} `json:"context,omitempty"`
	}{
		Code:    string(e.Code),
		Message: e.Message,
		Context: e.Context,
	})
}

// NewError creates a new DomainError
func NewError(code ErrorCode, message string, cause error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// Sentinels for errors.Is checks; only the code is compared.
var (
	ErrEmptyBlueprint       = NewError(CodeEmptyBlueprint, "blueprint is empty", nil)
	ErrInvalidRule          = NewError(CodeInvalidRule, "invalid rule", nil)
	ErrInsufficientPool     = NewError(CodeInsufficientPool, "insufficient pool", nil)
	ErrPersistenceFailure   = NewError(CodePersistenceFailure, "persistence failure", nil)
	ErrBlueprintLocked      = NewError(CodeBlueprintLocked, "blueprint locked", nil)
	ErrMalformedRankTable   = NewError(CodeMalformedRankTable, "malformed rank table", nil)
	ErrInsufficientRankData = NewError(CodeInsufficientRankData, "insufficient rank data", nil)
	ErrNoRankTable          = NewError(CodeNoRankTable, "no rank table", nil)
	ErrAttemptExists        = NewError(CodeAttemptExists, "attempt exists", nil)
	ErrNotFound             = NewError(CodeNotFound, "not found", nil)
)

// Helper functions for common errors
func NewNotFoundError(message string) *DomainError {
	return NewError(CodeNotFound, message, nil)
}

func NewInvalidInputError(message string) *DomainError {
	return NewError(CodeInvalidInput, message, nil)
}

func NewInternalError(message string, err error) *DomainError {
	return NewError(CodeInternal, message, err)
}

func NewUnauthorizedError(message string) *DomainError {
	return NewError(CodeUnauthorized, message, nil)
}

func NewForbiddenError(message string) *DomainError {
	return NewError(CodeForbidden, message, nil)
}

func NewEmptyBlueprintError(message string) *DomainError {
	return NewError(CodeEmptyBlueprint, message, nil)
}

func NewInvalidRuleError(ruleIndex int, message string) *DomainError {
	return NewError(CodeInvalidRule, fmt.Sprintf("rule %d: %s", ruleIndex, message), nil).
		WithContext("rule_index", ruleIndex)
}

// Shortfall describes one rule the pool cannot satisfy.
type Shortfall struct {
	RuleIndex  int        `json:"rule_index"`
	Subject    string     `json:"subject"`
	Difficulty Difficulty `json:"difficulty"`
	Requested  int        `json:"requested"`
	Available  int        `json:"available"`
	Missing    int        `json:"shortfall"`
}

// NewInsufficientPoolError names the first offending rule and lists every shortfall.
func NewInsufficientPoolError(shortfalls []Shortfall) *DomainError {
	first := shortfalls[0]
	msg := fmt.Sprintf("rule %d (%s/%s) requests %d questions but only %d are available (short by %d)",
		first.RuleIndex, first.Subject, first.Difficulty, first.Requested, first.Available, first.Missing)
	return NewError(CodeInsufficientPool, msg, nil).
		WithContext("rule_index", first.RuleIndex).
		WithContext("shortfall", first.Missing).
		WithContext("shortfalls", shortfalls)
}

func NewPersistenceFailureError(message string, err error) *DomainError {
	return NewError(CodePersistenceFailure, message, err)
}

func NewBlueprintLockedError(blueprintID string) *DomainError {
	return NewError(CodeBlueprintLocked, fmt.Sprintf("blueprint %s is referenced by a generated exam and can no longer change", blueprintID), nil)
}

// RowError is a single rejected row of an uploaded rank table.
type RowError struct {
	Line   int    `json:"line"`
	Raw    string `json:"raw"`
	Reason string `json:"reason"`
}

func NewMalformedRankTableError(message string, rows []RowError) *DomainError {
	err := NewError(CodeMalformedRankTable, message, nil)
	if len(rows) > 0 {
		err.WithContext("rows", rows)
	}
	return err
}

func NewInsufficientRankDataError(points int) *DomainError {
	return NewError(CodeInsufficientRankData, fmt.Sprintf("rank table needs at least 2 points, got %d", points), nil)
}

func NewNoRankTableError(examID string) *DomainError {
	return NewError(CodeNoRankTable, fmt.Sprintf("prediction unavailable: exam %s has no rank table", examID), nil)
}

func NewAttemptExistsError(studentID, examID string) *DomainError {
	return NewError(CodeAttemptExists, fmt.Sprintf("student %s already has an attempt for exam %s", studentID, examID), nil)
}

// ValidationError is a field-level intake error.
type ValidationError struct {
	Field   string      `json:"field"`
	Code    ErrorCode   `json:"code"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors collects every field error of one request.
type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return "validation failed"
	}
	return fmt.Sprintf("validation failed: %s (and %d more)", v[0].Error(), len(v)-1)
}

func NewMissingFieldError(field string) ValidationError {
	return ValidationError{Field: field, Code: CodeMissingField, Message: "field is required"}
}

func NewInvalidFormatError(field string, value interface{}) ValidationError {
	return ValidationError{Field: field, Code: CodeInvalidFormat, Message: "invalid format", Value: value}
}

func NewOutOfRangeError(field string, value interface{}, min, max int) ValidationError {
	return ValidationError{
		Field:   field,
		Code:    CodeOutOfRange,
		Message: fmt.Sprintf("must be between %d and %d", min, max),
		Value:   value,
	}
}
