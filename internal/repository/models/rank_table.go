package models

import (
	"database/sql"
	"time"
)

type RankTable struct {
	ExamID     string    `db:"exam_id"`
	Version    int       `db:"version"`
	UploadedAt time.Time `db:"uploaded_at"`
}

type RankPoint struct {
	ExamID    string  `db:"exam_id"`
	Marks     float64 `db:"marks"`
	RankValue int     `db:"rank_value"`
}

// RankTableRow is one row of the header joined with its points. Point columns are
// NULL for a header without points.
type RankTableRow struct {
	ExamID     string          `db:"exam_id"`
	Version    int             `db:"version"`
	UploadedAt time.Time       `db:"uploaded_at"`
	Marks      sql.NullFloat64 `db:"marks"`
	RankValue  sql.NullInt64   `db:"rank_value"`
}
