package validation

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"mocktest-engine/internal/domain"
	"mocktest-engine/internal/dto"
	"mocktest-engine/internal/util"
)

const (
	maxNameLength   = 200
	maxRules        = 100
	maxTotal        = 1000
	maxLeaderboard  = 1000
	maxIdentifierLn = 64
)

var identifierPattern = regexp.MustCompile(`^[a-zA-Z0-9_.:-]+$`)

// Validator provides request validation functionality.
// Rule semantics (counts, partitions, sums) are checked by the domain, not here.
type Validator struct{}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateCreateBlueprintRequest validates blueprint intake
func (v *Validator) ValidateCreateBlueprintRequest(req *dto.CreateBlueprintRequest) domain.ValidationErrors {
	var errors domain.ValidationErrors
	errors = append(errors, v.validateIdentifier("course_id", req.CourseID)...)
	errors = append(errors, v.validateBlueprintShape(req.Name, req.TotalQuestions, req.Rules)...)
	return errors
}

// ValidateUpdateBlueprintRequest validates a blueprint replacement
func (v *Validator) ValidateUpdateBlueprintRequest(req *dto.UpdateBlueprintRequest) domain.ValidationErrors {
	return v.validateBlueprintShape(req.Name, req.TotalQuestions, req.Rules)
}

func (v *Validator) validateBlueprintShape(name string, total int, rules []dto.RuleRequest) domain.ValidationErrors {
	var errors domain.ValidationErrors
	if len(name) > maxNameLength {
		errors = append(errors, domain.NewOutOfRangeError("name", len(name), 0, maxNameLength))
	}
	if total < 0 || total > maxTotal {
		errors = append(errors, domain.NewOutOfRangeError("total_questions", total, 0, maxTotal))
	}
	if len(rules) > maxRules {
		errors = append(errors, domain.NewOutOfRangeError("rules", len(rules), 1, maxRules))
	}
	return errors
}

// ValidateID validates a server-issued ULID path parameter
func (v *Validator) ValidateID(field, id string) domain.ValidationErrors {
	if strings.TrimSpace(id) == "" {
		return domain.ValidationErrors{domain.NewMissingFieldError(field)}
	}
	if !util.IsULID(id) {
		return domain.ValidationErrors{domain.NewInvalidFormatError(field, id)}
	}
	return nil
}

// ValidateRecordAttemptRequest validates an attempt submission
func (v *Validator) ValidateRecordAttemptRequest(req *dto.RecordAttemptRequest) domain.ValidationErrors {
	var errors domain.ValidationErrors
	errors = append(errors, v.validateIdentifier("student_id", req.StudentID)...)
	if len(req.StudentName) > maxNameLength {
		errors = append(errors, domain.NewOutOfRangeError("student_name", len(req.StudentName), 0, maxNameLength))
	}
	if req.SubjectID != "" && !isValidIdentifier(req.SubjectID) {
		errors = append(errors, domain.NewInvalidFormatError("subject_id", req.SubjectID))
	}
	if req.TenantID != "" && !isValidIdentifier(req.TenantID) {
		errors = append(errors, domain.NewInvalidFormatError("tenant_id", req.TenantID))
	}
	if req.Score == nil {
		errors = append(errors, domain.NewMissingFieldError("score"))
	} else if math.IsNaN(*req.Score) || math.IsInf(*req.Score, 0) {
		errors = append(errors, domain.NewInvalidFormatError("score", *req.Score))
	}
	if req.ElapsedMs < 0 {
		errors = append(errors, domain.NewOutOfRangeError("elapsed_ms", req.ElapsedMs, 0, math.MaxInt32))
	}
	return errors
}

// ValidateLeaderboardRequest validates leaderboard filters
func (v *Validator) ValidateLeaderboardRequest(req *dto.LeaderboardRequest) domain.ValidationErrors {
	var errors domain.ValidationErrors
	errors = append(errors, v.validateIdentifier("course_id", req.CourseID)...)
	if req.SubjectID != "" && !isValidIdentifier(req.SubjectID) {
		errors = append(errors, domain.NewInvalidFormatError("subject", req.SubjectID))
	}
	if req.TenantID != "" && !isValidIdentifier(req.TenantID) {
		errors = append(errors, domain.NewInvalidFormatError("tenant_id", req.TenantID))
	}
	if req.Limit < 0 || req.Limit > maxLeaderboard {
		errors = append(errors, domain.NewOutOfRangeError("limit", req.Limit, 0, maxLeaderboard))
	}
	return errors
}

// ParseScore parses the score query parameter
func (v *Validator) ParseScore(raw string) (float64, domain.ValidationErrors) {
	if strings.TrimSpace(raw) == "" {
		return 0, domain.ValidationErrors{domain.NewMissingFieldError("score")}
	}
	score, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(score) || math.IsInf(score, 0) {
		return 0, domain.ValidationErrors{domain.NewInvalidFormatError("score", raw)}
	}
	return score, nil
}

func (v *Validator) validateIdentifier(field, value string) domain.ValidationErrors {
	if strings.TrimSpace(value) == "" {
		return domain.ValidationErrors{domain.NewMissingFieldError(field)}
	}
	if !isValidIdentifier(value) {
		return domain.ValidationErrors{domain.NewInvalidFormatError(field, value)}
	}
	return nil
}

// isValidIdentifier accepts external ids such as course, student or tenant codes
func isValidIdentifier(s string) bool {
	if len(s) == 0 || len(s) > maxIdentifierLn {
		return false
	}
	return identifierPattern.MatchString(s)
}
