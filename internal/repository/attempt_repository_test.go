package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"mocktest-engine/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Tests for Converter Functions ---

func TestAttemptConverters(t *testing.T) {
	now := time.Now().Truncate(time.Second)
	a := &domain.Attempt{
		ID:          "a1",
		StudentID:   "s1",
		ExamID:      "e1",
		CourseID:    "c1",
		Score:       0,
		Elapsed:     90 * time.Second,
		SubmittedAt: now,
		Version:     1,
	}

	m := fromDomainAttempt(a)
	assert.Equal(t, int64(90000), m.ElapsedMs)
	assert.False(t, m.StudentName.Valid)
	assert.False(t, m.TenantID.Valid)

	back := toDomainAttempt(m)
	assert.Equal(t, a.Elapsed, back.Elapsed)
	assert.Equal(t, "", back.SubjectID)

	assert.Nil(t, toDomainAttempt(nil))
	assert.Nil(t, fromDomainAttempt(nil))
}

func TestBuildLeaderboardQuery(t *testing.T) {
	query, args := buildLeaderboardQuery(domain.LeaderboardFilter{CourseID: "c1"})
	assert.Contains(t, query, "WHERE course_id = ? AND version = 1\n")
	assert.Equal(t, []interface{}{"c1"}, args)

	query, args = buildLeaderboardQuery(domain.LeaderboardFilter{CourseID: "c1", SubjectID: "math", TenantID: "t1"})
	assert.Contains(t, query, "course_id = ? AND version = 1 AND subject_id = ? AND tenant_id = ?")
	assert.Equal(t, []interface{}{"c1", "math", "t1"}, args)
	assert.Contains(t, query, "ORDER BY score DESC, elapsed_ms ASC, submitted_at ASC, id ASC")
}

// --- Tests for Adapter Methods ---

func TestSQLXAttemptRepository_Create_UniqueViolation(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()
	repo := NewSQLXAttemptRepository(db)

	mock.ExpectExec(`INSERT INTO attempts`).
		WillReturnError(errors.New("ORA-00001: unique constraint (UQ_ATTEMPTS_VERSION) violated"))

	err := repo.Create(context.Background(), &domain.Attempt{ID: "a1", StudentID: "s1", ExamID: "e1", Version: 1})
	assert.ErrorIs(t, err, domain.ErrAttemptExists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLXAttemptRepository_LatestVersion_Mock(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()
	repo := NewSQLXAttemptRepository(db)

	mock.ExpectQuery(`SELECT COALESCE\(MAX\(version\), 0\) FROM attempts`).
		WithArgs("e1", "s1").
		WillReturnRows(sqlmock.NewRows([]string{"v"}).AddRow(2))

	v, err := repo.LatestVersion(context.Background(), "e1", "s1")
	require.NoError(t, err)
	assert.Equal(t, 2, v)
}

func TestSQLXAttemptRepository_SQLiteRoundTrip(t *testing.T) {
	db := setupSQLiteDB(t)
	repo := NewSQLXAttemptRepository(db)
	ctx := context.Background()
	at := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)

	mk := func(id, student, subject string, score float64, version int) *domain.Attempt {
		return &domain.Attempt{
			ID: id, StudentID: student, StudentName: student, ExamID: "e1", CourseID: "c1",
			SubjectID: subject, TenantID: "t1", Score: score, Elapsed: time.Minute,
			SubmittedAt: at, Version: version,
		}
	}
	require.NoError(t, repo.Create(ctx, mk("a1", "s1", "math", 70, 1)))
	require.NoError(t, repo.Create(ctx, mk("a2", "s2", "physics", 90, 1)))
	require.NoError(t, repo.Create(ctx, mk("a3", "s1", "math", 99, 2)))

	err := repo.Create(ctx, mk("a4", "s1", "math", 10, 1))
	assert.ErrorIs(t, err, domain.ErrAttemptExists)

	v, err := repo.LatestVersion(ctx, "e1", "s1")
	require.NoError(t, err)
	assert.Equal(t, 2, v)

	v, err = repo.LatestVersion(ctx, "e1", "nobody")
	require.NoError(t, err)
	assert.Equal(t, 0, v)

	all, err := repo.ListFirstAttempts(ctx, domain.LeaderboardFilter{CourseID: "c1"})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "a2", all[0].ID)
	assert.Equal(t, time.Minute, all[0].Elapsed)

	math, err := repo.ListFirstAttempts(ctx, domain.LeaderboardFilter{CourseID: "c1", SubjectID: "math"})
	require.NoError(t, err)
	require.Len(t, math, 1)
	assert.Equal(t, "a1", math[0].ID)
}
