package dto

import "time"

// RecordAttemptRequest represents a scored attempt submission
// @Description Request body for recording an attempt
type RecordAttemptRequest struct {
	StudentID   string     `json:"student_id"`
	StudentName string     `json:"student_name"`
	SubjectID   string     `json:"subject_id,omitempty"`
	TenantID    string     `json:"tenant_id,omitempty"`
	Score       *float64   `json:"score"`
	ElapsedMs   int64      `json:"elapsed_ms"`
	SubmittedAt *time.Time `json:"submitted_at,omitempty"`
}

type AttemptResponse struct {
	ID          string    `json:"id"`
	ExamID      string    `json:"exam_id"`
	StudentID   string    `json:"student_id"`
	Score       float64   `json:"score"`
	ElapsedMs   int64     `json:"elapsed_ms"`
	SubmittedAt time.Time `json:"submitted_at"`
	Version     int       `json:"version"`
}

// LeaderboardRequest selects a leaderboard view. course_id is required.
type LeaderboardRequest struct {
	CourseID  string `query:"course_id"`
	SubjectID string `query:"subject"`
	TenantID  string `query:"tenant_id"`
	Limit     int    `query:"limit"`
}

type LeaderboardEntryResponse struct {
	Position    int       `json:"position"`
	StudentID   string    `json:"student_id"`
	StudentName string    `json:"student_name"`
	AttemptID   string    `json:"attempt_id"`
	Score       float64   `json:"score"`
	ElapsedMs   int64     `json:"elapsed_ms"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// LeaderboardResponse represents a ranked leaderboard
// @Description Ranked first attempts. Equal entries share a position.
type LeaderboardResponse struct {
	CourseID  string                     `json:"course_id"`
	SubjectID string                     `json:"subject,omitempty"`
	TenantID  string                     `json:"tenant_id,omitempty"`
	Entries   []LeaderboardEntryResponse `json:"entries"`
}
