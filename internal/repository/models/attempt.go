package models

import (
	"database/sql"
	"time"
)

// Attempt represents a student's scored attempt of a generated exam.
type Attempt struct {
	ID          string         `db:"id"`           // ULID
	StudentID   string         `db:"student_id"`   // External student identifier
	StudentName sql.NullString `db:"student_name"` // Display name at submission time
	ExamID      string         `db:"exam_id"`      // Generated exam attempted
	CourseID    string         `db:"course_id"`
	SubjectID   sql.NullString `db:"subject_id"`
	TenantID    sql.NullString `db:"tenant_id"`
	Score       float64        `db:"score"`
	ElapsedMs   int64          `db:"elapsed_ms"`   // Time taken, milliseconds
	SubmittedAt time.Time      `db:"submitted_at"` // Client submission time
	Version     int            `db:"version"`      // 1 for the first attempt, incremented on retakes
	CreatedAt   time.Time      `db:"created_at"`
}
