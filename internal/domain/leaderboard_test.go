package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var base = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func attempt(id, student string, score float64, elapsed time.Duration, submitted time.Time) *Attempt {
	return &Attempt{
		ID:          id,
		StudentID:   student,
		StudentName: student,
		CourseID:    "c1",
		Score:       score,
		Elapsed:     elapsed,
		SubmittedAt: submitted,
		Version:     1,
	}
}

func positions(entries []LeaderboardEntry) []int {
	out := make([]int, len(entries))
	for i, e := range entries {
		out[i] = e.Position
	}
	return out
}

func students(entries []LeaderboardEntry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.StudentID
	}
	return out
}

func TestRankAttempts_ScoreThenElapsed(t *testing.T) {
	entries := RankAttempts([]*Attempt{
		attempt("a1", "A", 90, 30*time.Minute, base),
		attempt("a2", "B", 90, 25*time.Minute, base),
		attempt("a3", "C", 85, 10*time.Minute, base),
	})

	assert.Equal(t, []string{"B", "A", "C"}, students(entries))
	assert.Equal(t, []int{1, 2, 3}, positions(entries))
	assert.Equal(t, int64(25*60*1000), entries[0].ElapsedMillis)
}

func TestRankAttempts_SubmittedAtBreaksTie(t *testing.T) {
	entries := RankAttempts([]*Attempt{
		attempt("a1", "late", 70, time.Minute, base.Add(time.Hour)),
		attempt("a2", "early", 70, time.Minute, base),
	})

	assert.Equal(t, []string{"early", "late"}, students(entries))
	assert.Equal(t, []int{1, 2}, positions(entries))
}

func TestRankAttempts_DeadHeatSharesPosition(t *testing.T) {
	entries := RankAttempts([]*Attempt{
		attempt("a4", "D", 50, time.Minute, base),
		attempt("a3", "C", 80, time.Minute, base),
		attempt("a2", "B", 80, time.Minute, base),
		attempt("a1", "A", 99, time.Minute, base),
	})

	assert.Equal(t, []int{1, 2, 2, 4}, positions(entries))
	// attempt id fixes display order inside the tie
	assert.Equal(t, []string{"A", "B", "C", "D"}, students(entries))
}

func TestRankAttempts_IgnoresRetakes(t *testing.T) {
	retake := attempt("a2", "A", 100, time.Second, base.Add(time.Hour))
	retake.Version = 2

	entries := RankAttempts([]*Attempt{
		attempt("a1", "A", 40, time.Minute, base),
		retake,
		attempt("a3", "B", 60, time.Minute, base),
	})

	assert.Equal(t, []string{"B", "A"}, students(entries))
	assert.Equal(t, "a1", entries[1].AttemptID)
}

func TestRankAttempts_Empty(t *testing.T) {
	entries := RankAttempts(nil)
	assert.NotNil(t, entries)
	assert.Empty(t, entries)
}

func TestLeaderboardFilter_Matches(t *testing.T) {
	a := &Attempt{CourseID: "c1", SubjectID: "math", TenantID: "t1"}

	assert.True(t, LeaderboardFilter{CourseID: "c1"}.Matches(a))
	assert.True(t, LeaderboardFilter{CourseID: "c1", SubjectID: "math", TenantID: "t1"}.Matches(a))
	assert.False(t, LeaderboardFilter{CourseID: "c2"}.Matches(a))
	assert.False(t, LeaderboardFilter{CourseID: "c1", SubjectID: "physics"}.Matches(a))
	assert.False(t, LeaderboardFilter{CourseID: "c1", TenantID: "t2"}.Matches(a))
}
