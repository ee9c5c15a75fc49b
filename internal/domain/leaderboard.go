package domain

import (
	"sort"
	"time"
)

// LeaderboardFilter selects the attempts to rank. CourseID is required.
type LeaderboardFilter struct {
	CourseID  string
	SubjectID string
	TenantID  string
	Limit     int
}

// Matches reports whether the attempt falls inside the filter.
func (f LeaderboardFilter) Matches(a *Attempt) bool {
	if a.CourseID != f.CourseID {
		return false
	}
	if f.SubjectID != "" && a.SubjectID != f.SubjectID {
		return false
	}
	if f.TenantID != "" && a.TenantID != f.TenantID {
		return false
	}
	return true
}

// LeaderboardEntry is one ranked row of a leaderboard.
type LeaderboardEntry struct {
	Position      int       `json:"position"`
	StudentID     string    `json:"student_id"`
	StudentName   string    `json:"student_name"`
	AttemptID     string    `json:"attempt_id"`
	Score         float64   `json:"score"`
	ElapsedMillis int64     `json:"elapsed_ms"`
	SubmittedAt   time.Time `json:"submitted_at"`
}

// RankAttempts orders first attempts by score desc, elapsed asc, submitted_at asc and
// assigns competition positions (1,2,2,4). Attempts equal on all three keys share a
// position; the attempt id only fixes their display order. Retakes (Version > 1) are
// ignored. The input slice is not modified.
func RankAttempts(attempts []*Attempt) []LeaderboardEntry {
	firsts := make([]*Attempt, 0, len(attempts))
	for _, a := range attempts {
		if a.Version == 1 {
			firsts = append(firsts, a)
		}
	}

	sort.Slice(firsts, func(i, j int) bool {
		a, b := firsts[i], firsts[j]
		if c := compareStanding(a, b); c != 0 {
			return c < 0
		}
		return a.ID < b.ID
	})

	entries := make([]LeaderboardEntry, len(firsts))
	for i, a := range firsts {
		pos := i + 1
		if i > 0 && compareStanding(firsts[i-1], a) == 0 {
			pos = entries[i-1].Position
		}
		entries[i] = LeaderboardEntry{
			Position:      pos,
			StudentID:     a.StudentID,
			StudentName:   a.StudentName,
			AttemptID:     a.ID,
			Score:         a.Score,
			ElapsedMillis: a.Elapsed.Milliseconds(),
			SubmittedAt:   a.SubmittedAt,
		}
	}
	return entries
}

// compareStanding returns -1 when a ranks ahead of b, 1 when behind, 0 on a dead heat.
func compareStanding(a, b *Attempt) int {
	switch {
	case a.Score != b.Score:
		if a.Score > b.Score {
			return -1
		}
		return 1
	case a.Elapsed != b.Elapsed:
		if a.Elapsed < b.Elapsed {
			return -1
		}
		return 1
	case !a.SubmittedAt.Equal(b.SubmittedAt):
		if a.SubmittedAt.Before(b.SubmittedAt) {
			return -1
		}
		return 1
	}
	return 0
}
