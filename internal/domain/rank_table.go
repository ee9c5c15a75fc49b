package domain

import (
	"fmt"
	"math"
	"sort"
	"time"
)

// RankPoint maps a marks value to the rank it earned historically.
type RankPoint struct {
	Marks float64 `json:"marks"`
	Rank  int     `json:"rank"`
}

// RankTable is the validated marks-to-rank table of one exam.
// Points are sorted by marks ascending and strictly monotonic in both columns.
type RankTable struct {
	ExamID     string
	Points     []RankPoint
	UploadedAt time.Time
	Version    int
}

// NewRankTable sorts and validates points. The input slice is not modified.
func NewRankTable(examID string, points []RankPoint) (*RankTable, error) {
	sorted := make([]RankPoint, len(points))
	copy(sorted, points)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Marks < sorted[j].Marks })

	var rows []RowError
	for i, p := range sorted {
		if math.IsNaN(p.Marks) || math.IsInf(p.Marks, 0) {
			rows = append(rows, RowError{Line: i + 1, Raw: fmt.Sprintf("%v,%d", p.Marks, p.Rank), Reason: "marks must be finite"})
		}
		if p.Rank < 1 {
			rows = append(rows, RowError{Line: i + 1, Raw: fmt.Sprintf("%v,%d", p.Marks, p.Rank), Reason: "rank must be at least 1"})
		}
	}
	if len(rows) > 0 {
		return nil, NewMalformedRankTableError("rank table has invalid points", rows)
	}

	for i := 1; i < len(sorted); i++ {
		if sorted[i].Marks == sorted[i-1].Marks {
			return nil, NewMalformedRankTableError(fmt.Sprintf("duplicate marks value %v", sorted[i].Marks), nil).
				WithContext("marks", sorted[i].Marks)
		}
	}

	if len(sorted) < 2 {
		return nil, NewInsufficientRankDataError(len(sorted))
	}

	// Ranks must move in one direction across the whole table.
	increasing := sorted[1].Rank > sorted[0].Rank
	for i := 1; i < len(sorted); i++ {
		prev, cur := sorted[i-1], sorted[i]
		if cur.Rank == prev.Rank || (cur.Rank > prev.Rank) != increasing {
			return nil, NewMalformedRankTableError(
				fmt.Sprintf("ranks are not strictly monotonic between marks %v and %v", prev.Marks, cur.Marks), nil).
				WithContext("marks", cur.Marks)
		}
	}

	return &RankTable{
		ExamID:     examID,
		Points:     sorted,
		UploadedAt: time.Now(),
		Version:    1,
	}, nil
}

// Predict interpolates the expected rank for score.
// Exact hits return the stored rank. Scores outside the table extrapolate along the
// nearest edge segment. Results round to nearest with .5 going to the better (lower)
// rank and are clamped to at least 1.
func (t *RankTable) Predict(score float64) int {
	pts := t.Points
	n := len(pts)
	i := sort.Search(n, func(i int) bool { return pts[i].Marks >= score })
	if i < n && pts[i].Marks == score {
		return pts[i].Rank
	}

	var a, b RankPoint
	switch {
	case i == 0:
		a, b = pts[0], pts[1]
	case i == n:
		a, b = pts[n-2], pts[n-1]
	default:
		a, b = pts[i-1], pts[i]
	}

	r := float64(a.Rank) + (score-a.Marks)/(b.Marks-a.Marks)*float64(b.Rank-a.Rank)
	return clampRank(math.Ceil(r - 0.5))
}

func clampRank(r float64) int {
	if math.IsNaN(r) || r < 1 {
		return 1
	}
	if r >= math.MaxInt32 {
		return math.MaxInt32
	}
	return int(r)
}
