package dto

import "time"

// RuleRequest is one (subject, difficulty, count) quota of a blueprint
type RuleRequest struct {
	Subject    string `json:"subject"`
	Difficulty string `json:"difficulty" example:"medium"`
	Count      int    `json:"count"`
}

// CreateBlueprintRequest represents blueprint intake
// @Description Request body for creating a blueprint. total_questions defaults to the sum of rule counts.
type CreateBlueprintRequest struct {
	CourseID       string        `json:"course_id"`
	Name           string        `json:"name"`
	TotalQuestions int           `json:"total_questions,omitempty"`
	Rules          []RuleRequest `json:"rules"`
}

// UpdateBlueprintRequest replaces the name and rules of a blueprint not yet used by an exam
type UpdateBlueprintRequest struct {
	Name           string        `json:"name"`
	TotalQuestions int           `json:"total_questions,omitempty"`
	Rules          []RuleRequest `json:"rules"`
}

type RuleResponse struct {
	Subject    string `json:"subject"`
	Difficulty string `json:"difficulty"`
	Count      int    `json:"count"`
}

// BlueprintResponse represents a stored blueprint
// @Description Blueprint information
type BlueprintResponse struct {
	ID             string         `json:"id"`
	CourseID       string         `json:"course_id"`
	Name           string         `json:"name"`
	TotalQuestions int            `json:"total_questions"`
	Rules          []RuleResponse `json:"rules"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}
