package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"mocktest-engine/internal/domain"
	"mocktest-engine/internal/repository/models"
	"mocktest-engine/internal/util"

	"github.com/jmoiron/sqlx"
)

// sqlxExamRepository implements domain.ExamRepository using sqlx.
type sqlxExamRepository struct {
	db DBTX
}

func NewSQLXExamRepository(db *sqlx.DB) domain.ExamRepository {
	return &sqlxExamRepository{db: db}
}

const examColumns = `
		id "id",
		blueprint_id "blueprint_id",
		course_id "course_id",
		subject "subject",
		seed "seed",
		created_at "created_at"`

// Save implements domain.ExamRepository. It writes the header, the sections and
// every question row; run it inside a transaction so readers never see a partial exam.
func (r *sqlxExamRepository) Save(ctx context.Context, exam *domain.GeneratedExam) error {
	exec := GetExecutor(ctx, r.db)

	headerQuery := exec.Rebind(`INSERT INTO exams (
		id, blueprint_id, course_id, subject, seed, created_at
	) VALUES (?, ?, ?, ?, ?, ?)`)
	if _, err := exec.ExecContext(ctx, headerQuery,
		exam.ID, exam.BlueprintID, exam.CourseID, util.StringToNullString(exam.Subject),
		strconv.FormatUint(exam.Seed, 10), exam.CreatedAt,
	); err != nil {
		return fmt.Errorf("failed to insert exam %s: %w", exam.ID, err)
	}

	sectionQuery := exec.Rebind(`INSERT INTO exam_sections (
		exam_id, seq_no, subject, difficulty, question_count, start_offset
	) VALUES (?, ?, ?, ?, ?, ?)`)
	for i, s := range exam.Sections {
		if _, err := exec.ExecContext(ctx, sectionQuery,
			exam.ID, i, s.Rule.Subject, int(s.Rule.Difficulty), s.Count, s.Offset,
		); err != nil {
			return fmt.Errorf("failed to insert section %d of exam %s: %w", i, exam.ID, err)
		}
	}

	questionQuery := exec.Rebind(`INSERT INTO exam_questions (exam_id, seq_no, question_id) VALUES (?, ?, ?)`)
	for i, qid := range exam.QuestionIDs {
		if _, err := exec.ExecContext(ctx, questionQuery, exam.ID, i, qid); err != nil {
			return fmt.Errorf("failed to insert question %d of exam %s: %w", i, exam.ID, err)
		}
	}
	return nil
}

// GetByID implements domain.ExamRepository
func (r *sqlxExamRepository) GetByID(ctx context.Context, id string) (*domain.GeneratedExam, error) {
	exec := GetExecutor(ctx, r.db)
	var header models.Exam
	query := exec.Rebind(`SELECT` + examColumns + `
	FROM exams
	WHERE id = ?`)
	if err := exec.GetContext(ctx, &header, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get exam %s: %w", id, err)
	}
	return r.loadDetails(ctx, exec, &header)
}

// ExistsForBlueprint implements domain.ExamRepository
func (r *sqlxExamRepository) ExistsForBlueprint(ctx context.Context, blueprintID string) (bool, error) {
	exec := GetExecutor(ctx, r.db)
	var count int
	query := exec.Rebind(`SELECT COUNT(*) FROM exams WHERE blueprint_id = ?`)
	if err := exec.GetContext(ctx, &count, query, blueprintID); err != nil {
		return false, fmt.Errorf("failed to count exams of blueprint %s: %w", blueprintID, err)
	}
	return count > 0, nil
}

// ListRecentByCourse implements domain.ExamRepository. Rows past limit are never scanned,
// which keeps the query free of dialect-specific LIMIT syntax.
func (r *sqlxExamRepository) ListRecentByCourse(ctx context.Context, courseID string, limit int) ([]*domain.GeneratedExam, error) {
	if limit <= 0 {
		return []*domain.GeneratedExam{}, nil
	}
	exec := GetExecutor(ctx, r.db)
	query := exec.Rebind(`SELECT` + examColumns + `
	FROM exams
	WHERE course_id = ?
	ORDER BY created_at DESC, id DESC`)

	rows, err := exec.QueryxContext(ctx, query, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent exams for course %s: %w", courseID, err)
	}
	var headers []models.Exam
	for len(headers) < limit && rows.Next() {
		var h models.Exam
		if err := rows.StructScan(&h); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan exam row: %w", err)
		}
		headers = append(headers, h)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("failed to iterate exam rows: %w", err)
	}
	rows.Close()

	exams := make([]*domain.GeneratedExam, 0, len(headers))
	for i := range headers {
		exam, err := r.loadDetails(ctx, exec, &headers[i])
		if err != nil {
			return nil, err
		}
		exams = append(exams, exam)
	}
	return exams, nil
}

func (r *sqlxExamRepository) loadDetails(ctx context.Context, exec DBTX, header *models.Exam) (*domain.GeneratedExam, error) {
	seed, err := strconv.ParseUint(header.Seed, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("exam %s has invalid seed %q: %w", header.ID, header.Seed, err)
	}

	var sections []models.ExamSection
	sectionQuery := exec.Rebind(`SELECT
		exam_id "exam_id",
		seq_no "seq_no",
		subject "subject",
		difficulty "difficulty",
		question_count "question_count",
		start_offset "start_offset"
	FROM exam_sections
	WHERE exam_id = ?
	ORDER BY seq_no`)
	if err := exec.SelectContext(ctx, &sections, sectionQuery, header.ID); err != nil {
		return nil, fmt.Errorf("failed to load sections of exam %s: %w", header.ID, err)
	}

	var questions []models.ExamQuestion
	questionQuery := exec.Rebind(`SELECT
		exam_id "exam_id",
		seq_no "seq_no",
		question_id "question_id"
	FROM exam_questions
	WHERE exam_id = ?
	ORDER BY seq_no`)
	if err := exec.SelectContext(ctx, &questions, questionQuery, header.ID); err != nil {
		return nil, fmt.Errorf("failed to load questions of exam %s: %w", header.ID, err)
	}

	exam := &domain.GeneratedExam{
		ID:          header.ID,
		BlueprintID: header.BlueprintID,
		CourseID:    header.CourseID,
		Subject:     util.NullStringToString(header.Subject),
		Seed:        seed,
		QuestionIDs: make([]string, 0, len(questions)),
		Sections:    make([]domain.Section, 0, len(sections)),
		CreatedAt:   header.CreatedAt,
	}
	for _, s := range sections {
		difficulty, err := domain.DifficultyFromInt(s.Difficulty)
		if err != nil {
			return nil, fmt.Errorf("exam %s section %d: %w", header.ID, s.SeqNo, err)
		}
		exam.Sections = append(exam.Sections, domain.Section{
			Rule:   domain.Rule{Subject: s.Subject, Difficulty: difficulty, Count: s.QuestionCount},
			Offset: s.StartOffset,
			Count:  s.QuestionCount,
		})
	}
	for _, q := range questions {
		exam.QuestionIDs = append(exam.QuestionIDs, q.QuestionID)
	}
	return exam, nil
}
