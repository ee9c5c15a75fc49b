package models

import (
	"database/sql"
	"time"
)

// Exam is the header row of a generated exam.
type Exam struct {
	ID          string         `db:"id"`
	BlueprintID string         `db:"blueprint_id"`
	CourseID    string         `db:"course_id"`
	Subject     sql.NullString `db:"subject"`
	// Seed is kept as text; uint64 seeds do not fit a signed SQL integer.
	Seed      string    `db:"seed"`
	CreatedAt time.Time `db:"created_at"`
}

type ExamSection struct {
	ExamID        string `db:"exam_id"`
	SeqNo         int    `db:"seq_no"`
	Subject       string `db:"subject"`
	Difficulty    int    `db:"difficulty"`
	QuestionCount int    `db:"question_count"`
	StartOffset   int    `db:"start_offset"`
}

type ExamQuestion struct {
	ExamID     string `db:"exam_id"`
	SeqNo      int    `db:"seq_no"`
	QuestionID string `db:"question_id"`
}
