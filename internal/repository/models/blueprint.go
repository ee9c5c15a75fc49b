package models

import "time"

// Blueprint is the row model of the blueprints table.
type Blueprint struct {
	ID             string    `db:"id"`
	CourseID       string    `db:"course_id"`
	Name           string    `db:"name"`
	TotalQuestions int       `db:"total_questions"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}

// BlueprintRule is one row of blueprint_rules, ordered by SeqNo.
type BlueprintRule struct {
	BlueprintID   string `db:"blueprint_id"`
	SeqNo         int    `db:"seq_no"`
	Subject       string `db:"subject"`
	Difficulty    int    `db:"difficulty"`
	QuestionCount int    `db:"question_count"`
}
