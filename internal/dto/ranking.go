package dto

import "time"

// RankTableUploadResponse reports an accepted rank table upload
type RankTableUploadResponse struct {
	ExamID  string `json:"exam_id"`
	Points  int    `json:"points"`
	Version int    `json:"version"`
}

type RankPointResponse struct {
	Marks float64 `json:"marks"`
	Rank  int     `json:"rank"`
}

// RankTableResponse represents the current rank table of an exam
type RankTableResponse struct {
	ExamID     string              `json:"exam_id"`
	Version    int                 `json:"version"`
	UploadedAt time.Time           `json:"uploaded_at"`
	Points     []RankPointResponse `json:"points"`
}

// PredictedRankResponse represents an interpolated rank
// @Description Predicted rank for a score
type PredictedRankResponse struct {
	ExamID        string  `json:"exam_id"`
	Score         float64 `json:"score"`
	PredictedRank int     `json:"predicted_rank"`
	TableVersion  int     `json:"table_version"`
}
