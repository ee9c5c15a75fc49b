package repository

import (
	"context"
	"fmt"
	"time"

	"mocktest-engine/internal/domain"
	"mocktest-engine/internal/repository/models"
	"mocktest-engine/internal/util"

	"github.com/jmoiron/sqlx"
)

// sqlxQuestionRepository implements domain.QuestionRepository using sqlx.
type sqlxQuestionRepository struct {
	db DBTX
}

// NewSQLXQuestionRepository creates a new question repository.
func NewSQLXQuestionRepository(db *sqlx.DB) domain.QuestionRepository {
	return &sqlxQuestionRepository{db: db}
}

func toDomainQuestion(m *models.Question) (*domain.Question, error) {
	difficulty, err := domain.DifficultyFromInt(m.Difficulty)
	if err != nil {
		return nil, fmt.Errorf("question %s: %w", m.ID, err)
	}
	q := &domain.Question{
		ID:         m.ID,
		CourseID:   m.CourseID,
		Subject:    m.Subject,
		Topic:      util.NullStringToString(m.Topic),
		Difficulty: difficulty,
		Tags:       []string(m.Tags),
		Content:    util.NullStringToString(m.Content),
		CreatedAt:  m.CreatedAt,
	}
	if m.DeletedAt.Valid {
		deletedAt := m.DeletedAt.Time
		q.DeletedAt = &deletedAt
	}
	return q, nil
}

func fromDomainQuestion(q *domain.Question) *models.Question {
	m := &models.Question{
		ID:         q.ID,
		CourseID:   q.CourseID,
		Subject:    q.Subject,
		Topic:      util.StringToNullString(q.Topic),
		Difficulty: int(q.Difficulty),
		Tags:       models.StringSlice(q.Tags),
		Content:    util.StringToNullString(q.Content),
		CreatedAt:  q.CreatedAt,
	}
	if q.DeletedAt != nil {
		m.DeletedAt = util.TimeToNullTime(*q.DeletedAt)
	}
	return m
}

// ListByCourse implements domain.QuestionRepository
func (r *sqlxQuestionRepository) ListByCourse(ctx context.Context, courseID string) ([]*domain.Question, error) {
	exec := GetExecutor(ctx, r.db)
	query := exec.Rebind(`SELECT
		id "id",
		course_id "course_id",
		subject "subject",
		topic "topic",
		difficulty "difficulty",
		tags "tags",
		content "content",
		created_at "created_at",
		deleted_at "deleted_at"
	FROM questions
	WHERE course_id = ?
	AND deleted_at IS NULL
	ORDER BY id`)

	var rows []models.Question
	if err := exec.SelectContext(ctx, &rows, query, courseID); err != nil {
		return nil, fmt.Errorf("failed to list questions for course %s: %w", courseID, err)
	}

	questions := make([]*domain.Question, 0, len(rows))
	for i := range rows {
		q, err := toDomainQuestion(&rows[i])
		if err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}
	return questions, nil
}

// SaveQuestions implements domain.QuestionRepository. Existing ids are replaced.
func (r *sqlxQuestionRepository) SaveQuestions(ctx context.Context, questions []*domain.Question) error {
	exec := GetExecutor(ctx, r.db)
	deleteQuery := exec.Rebind(`DELETE FROM questions WHERE id = ?`)
	insertQuery := exec.Rebind(`INSERT INTO questions (
		id, course_id, subject, topic, difficulty, tags, content, created_at, deleted_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)

	for _, q := range questions {
		m := fromDomainQuestion(q)
		if m.CreatedAt.IsZero() {
			m.CreatedAt = time.Now()
		}
		if _, err := exec.ExecContext(ctx, deleteQuery, m.ID); err != nil {
			return fmt.Errorf("failed to replace question %s: %w", m.ID, err)
		}
		if _, err := exec.ExecContext(ctx, insertQuery,
			m.ID, m.CourseID, m.Subject, m.Topic, m.Difficulty, m.Tags, m.Content, m.CreatedAt, m.DeletedAt,
		); err != nil {
			return fmt.Errorf("failed to insert question %s: %w", m.ID, err)
		}
	}
	return nil
}

// SoftDelete implements domain.QuestionRepository
func (r *sqlxQuestionRepository) SoftDelete(ctx context.Context, id string) error {
	exec := GetExecutor(ctx, r.db)
	query := exec.Rebind(`UPDATE questions SET deleted_at = ? WHERE id = ? AND deleted_at IS NULL`)
	if _, err := exec.ExecContext(ctx, query, time.Now(), id); err != nil {
		return fmt.Errorf("failed to soft delete question %s: %w", id, err)
	}
	return nil
}
