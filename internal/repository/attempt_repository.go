package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"mocktest-engine/internal/domain"
	"mocktest-engine/internal/repository/models"
	"mocktest-engine/internal/util"

	"github.com/jmoiron/sqlx"
)

// sqlxAttemptRepository implements domain.AttemptRepository using sqlx.
type sqlxAttemptRepository struct {
	db DBTX
}

// NewSQLXAttemptRepository creates a new instance of sqlxAttemptRepository.
func NewSQLXAttemptRepository(db *sqlx.DB) domain.AttemptRepository {
	return &sqlxAttemptRepository{db: db}
}

func toDomainAttempt(m *models.Attempt) *domain.Attempt {
	if m == nil {
		return nil
	}
	return &domain.Attempt{
		ID:          m.ID,
		StudentID:   m.StudentID,
		StudentName: util.NullStringToString(m.StudentName),
		ExamID:      m.ExamID,
		CourseID:    m.CourseID,
		SubjectID:   util.NullStringToString(m.SubjectID),
		TenantID:    util.NullStringToString(m.TenantID),
		Score:       m.Score,
		Elapsed:     time.Duration(m.ElapsedMs) * time.Millisecond,
		SubmittedAt: m.SubmittedAt,
		Version:     m.Version,
		CreatedAt:   m.CreatedAt,
	}
}

func fromDomainAttempt(a *domain.Attempt) *models.Attempt {
	if a == nil {
		return nil
	}
	return &models.Attempt{
		ID:          a.ID,
		StudentID:   a.StudentID,
		StudentName: util.StringToNullString(a.StudentName),
		ExamID:      a.ExamID,
		CourseID:    a.CourseID,
		SubjectID:   util.StringToNullString(a.SubjectID),
		TenantID:    util.StringToNullString(a.TenantID),
		Score:       a.Score,
		ElapsedMs:   a.Elapsed.Milliseconds(),
		SubmittedAt: a.SubmittedAt,
		Version:     a.Version,
		CreatedAt:   a.CreatedAt,
	}
}

// Create inserts a new attempt. The (exam_id, student_id, version) unique key rejects
// a concurrent duplicate.
func (r *sqlxAttemptRepository) Create(ctx context.Context, attempt *domain.Attempt) error {
	m := fromDomainAttempt(attempt)
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}

	exec := GetExecutor(ctx, r.db)
	query := exec.Rebind(`INSERT INTO attempts (
		id, student_id, student_name, exam_id, course_id, subject_id, tenant_id,
		score, elapsed_ms, submitted_at, version, created_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)

	_, err := exec.ExecContext(ctx, query,
		m.ID,
		m.StudentID,
		m.StudentName,
		m.ExamID,
		m.CourseID,
		m.SubjectID,
		m.TenantID,
		m.Score,
		m.ElapsedMs,
		m.SubmittedAt,
		m.Version,
		m.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.NewAttemptExistsError(m.StudentID, m.ExamID)
		}
		return fmt.Errorf("failed to create attempt: %w", err)
	}
	return nil
}

// LatestVersion returns the highest stored version for the student on the exam, 0 if none.
func (r *sqlxAttemptRepository) LatestVersion(ctx context.Context, examID, studentID string) (int, error) {
	exec := GetExecutor(ctx, r.db)
	var version int
	query := exec.Rebind(`SELECT COALESCE(MAX(version), 0) FROM attempts WHERE exam_id = ? AND student_id = ?`)
	if err := exec.GetContext(ctx, &version, query, examID, studentID); err != nil {
		return 0, fmt.Errorf("failed to read latest attempt version: %w", err)
	}
	return version, nil
}

// buildLeaderboardQuery constructs the SELECT for first attempts matching the filter.
// Optional filters only add a clause when set.
func buildLeaderboardQuery(filter domain.LeaderboardFilter) (string, []interface{}) {
	whereClauses := []string{"course_id = ?", "version = 1"}
	args := []interface{}{filter.CourseID}

	if filter.SubjectID != "" {
		whereClauses = append(whereClauses, "subject_id = ?")
		args = append(args, filter.SubjectID)
	}
	if filter.TenantID != "" {
		whereClauses = append(whereClauses, "tenant_id = ?")
		args = append(args, filter.TenantID)
	}

	query := `SELECT
		id "id",
		student_id "student_id",
		student_name "student_name",
		exam_id "exam_id",
		course_id "course_id",
		subject_id "subject_id",
		tenant_id "tenant_id",
		score "score",
		elapsed_ms "elapsed_ms",
		submitted_at "submitted_at",
		version "version",
		created_at "created_at"
	FROM attempts
	WHERE ` + strings.Join(whereClauses, " AND ") + `
	ORDER BY score DESC, elapsed_ms ASC, submitted_at ASC, id ASC`
	return query, args
}

// ListFirstAttempts implements domain.AttemptRepository
func (r *sqlxAttemptRepository) ListFirstAttempts(ctx context.Context, filter domain.LeaderboardFilter) ([]*domain.Attempt, error) {
	exec := GetExecutor(ctx, r.db)
	query, args := buildLeaderboardQuery(filter)

	var rows []models.Attempt
	if err := exec.SelectContext(ctx, &rows, exec.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to list attempts for course %s: %w", filter.CourseID, err)
	}

	attempts := make([]*domain.Attempt, 0, len(rows))
	for i := range rows {
		attempts = append(attempts, toDomainAttempt(&rows[i]))
	}
	return attempts, nil
}

// isUniqueViolation recognizes the unique-key errors of the supported drivers.
func isUniqueViolation(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "ORA-00001") || strings.Contains(msg, "UNIQUE constraint failed")
}
