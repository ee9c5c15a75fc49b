package domain

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// Attempt is one student's scored submission of a generated exam.
// Stored attempts are never modified.
type Attempt struct {
	ID          string
	StudentID   string
	StudentName string
	ExamID      string
	CourseID    string
	SubjectID   string
	TenantID    string
	Score       float64
	Elapsed     time.Duration
	SubmittedAt time.Time
	Version     int
	CreatedAt   time.Time
}

// Validate validates the attempt
func (a *Attempt) Validate() error {
	if a.StudentID == "" {
		return NewInvalidInputError("student id is required")
	}
	if a.ExamID == "" {
		return NewInvalidInputError("exam id is required")
	}
	if a.CourseID == "" {
		return NewInvalidInputError("course id is required")
	}
	if math.IsNaN(a.Score) || math.IsInf(a.Score, 0) {
		return NewInvalidInputError("score must be a finite number")
	}
	if a.Elapsed < 0 {
		return NewInvalidInputError("elapsed time cannot be negative")
	}
	if a.SubmittedAt.IsZero() {
		return NewInvalidInputError("submitted_at is required")
	}
	return nil
}

// RetakePolicy decides what happens when a student submits the same exam twice.
type RetakePolicy string

const (
	// RetakeSingle rejects any second attempt.
	RetakeSingle RetakePolicy = "single"
	// RetakeVersioned stores retakes with an incremented version.
	RetakeVersioned RetakePolicy = "versioned"
)

func ParseRetakePolicy(s string) (RetakePolicy, error) {
	switch RetakePolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", RetakeSingle:
		return RetakeSingle, nil
	case RetakeVersioned:
		return RetakeVersioned, nil
	default:
		return "", fmt.Errorf("unknown retake policy %q", s)
	}
}
