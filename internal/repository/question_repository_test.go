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

func TestSQLXQuestionRepository_ListByCourse_Mock(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()
	repo := NewSQLXQuestionRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "course_id", "subject", "topic", "difficulty", "tags", "content", "created_at", "deleted_at"}).
		AddRow("q1", "c1", "math", "algebra", 1, "linear|quadratic", "What is x?", now, nil).
		AddRow("q2", "c1", "math", nil, 3, "", nil, now, nil)
	mock.ExpectQuery(`SELECT .* FROM questions\s+WHERE course_id = \?\s+AND deleted_at IS NULL`).
		WithArgs("c1").
		WillReturnRows(rows)

	questions, err := repo.ListByCourse(context.Background(), "c1")
	require.NoError(t, err)
	require.Len(t, questions, 2)
	assert.Equal(t, domain.DifficultyEasy, questions[0].Difficulty)
	assert.Equal(t, []string{"linear", "quadratic"}, questions[0].Tags)
	assert.Equal(t, "", questions[1].Topic)
	assert.Equal(t, domain.DifficultyHard, questions[1].Difficulty)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLXQuestionRepository_ListByCourse_BadDifficulty(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()
	repo := NewSQLXQuestionRepository(db)

	rows := sqlmock.NewRows([]string{"id", "course_id", "subject", "topic", "difficulty", "tags", "content", "created_at", "deleted_at"}).
		AddRow("q1", "c1", "math", nil, 9, "", nil, time.Now(), nil)
	mock.ExpectQuery(`SELECT .* FROM questions`).WillReturnRows(rows)

	_, err := repo.ListByCourse(context.Background(), "c1")
	assert.Error(t, err)
}

func TestSQLXQuestionRepository_ListByCourse_QueryError(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()
	repo := NewSQLXQuestionRepository(db)

	mock.ExpectQuery(`SELECT .* FROM questions`).WillReturnError(errors.New("connection reset"))

	_, err := repo.ListByCourse(context.Background(), "c1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection reset")
}

func TestSQLXQuestionRepository_SQLiteRoundTrip(t *testing.T) {
	db := setupSQLiteDB(t)
	repo := NewSQLXQuestionRepository(db)
	ctx := context.Background()

	qs := []*domain.Question{
		{ID: "q1", CourseID: "c1", Subject: "math", Topic: "algebra", Difficulty: domain.DifficultyEasy, Tags: []string{"a", "b"}, Content: "1+1"},
		{ID: "q2", CourseID: "c1", Subject: "math", Difficulty: domain.DifficultyHard},
		{ID: "q3", CourseID: "c2", Subject: "physics", Difficulty: domain.DifficultyMedium},
	}
	require.NoError(t, repo.SaveQuestions(ctx, qs))

	got, err := repo.ListByCourse(ctx, "c1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "algebra", got[0].Topic)
	assert.Equal(t, []string{"a", "b"}, got[0].Tags)

	// replacing keeps a single row
	qs[0].Topic = "geometry"
	require.NoError(t, repo.SaveQuestions(ctx, qs[:1]))
	require.NoError(t, repo.SoftDelete(ctx, "q2"))

	got, err = repo.ListByCourse(ctx, "c1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "geometry", got[0].Topic)
}
