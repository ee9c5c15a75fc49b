package dto

import "time"

// GenerateExamResponse is returned by exam generation
// @Description Result of generating an exam from a blueprint. seed reproduces the draw.
type GenerateExamResponse struct {
	ExamID        string `json:"exam_id"`
	QuestionCount int    `json:"question_count"`
	Seed          string `json:"seed"`
}

type SectionResponse struct {
	Subject    string `json:"subject"`
	Difficulty string `json:"difficulty"`
	Offset     int    `json:"offset"`
	Count      int    `json:"count"`
}

// ExamResponse represents a frozen exam snapshot
// @Description Generated exam snapshot
type ExamResponse struct {
	ID          string            `json:"id"`
	BlueprintID string            `json:"blueprint_id"`
	CourseID    string            `json:"course_id"`
	Subject     string            `json:"subject,omitempty"`
	Seed        string            `json:"seed"`
	QuestionIDs []string          `json:"question_ids"`
	Sections    []SectionResponse `json:"sections"`
	CreatedAt   time.Time         `json:"created_at"`
}
