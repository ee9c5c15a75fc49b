package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"mocktest-engine/internal/domain"
	"mocktest-engine/internal/repository/models"

	"github.com/jmoiron/sqlx"
)

// sqlxBlueprintRepository implements domain.BlueprintRepository using sqlx.
// Header and rule rows are written together; callers wrap writes in a transaction.
type sqlxBlueprintRepository struct {
	db DBTX
}

func NewSQLXBlueprintRepository(db *sqlx.DB) domain.BlueprintRepository {
	return &sqlxBlueprintRepository{db: db}
}

func toDomainBlueprint(m *models.Blueprint, ruleRows []models.BlueprintRule) (*domain.Blueprint, error) {
	rules := make([]domain.Rule, 0, len(ruleRows))
	for _, rr := range ruleRows {
		difficulty, err := domain.DifficultyFromInt(rr.Difficulty)
		if err != nil {
			return nil, fmt.Errorf("blueprint %s rule %d: %w", m.ID, rr.SeqNo, err)
		}
		rules = append(rules, domain.Rule{Subject: rr.Subject, Difficulty: difficulty, Count: rr.QuestionCount})
	}
	return &domain.Blueprint{
		ID:             m.ID,
		CourseID:       m.CourseID,
		Name:           m.Name,
		TotalQuestions: m.TotalQuestions,
		Rules:          rules,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}, nil
}

// Create implements domain.BlueprintRepository
func (r *sqlxBlueprintRepository) Create(ctx context.Context, bp *domain.Blueprint) error {
	exec := GetExecutor(ctx, r.db)
	query := exec.Rebind(`INSERT INTO blueprints (
		id, course_id, name, total_questions, created_at, updated_at
	) VALUES (?, ?, ?, ?, ?, ?)`)

	if _, err := exec.ExecContext(ctx, query,
		bp.ID, bp.CourseID, bp.Name, bp.TotalQuestions, bp.CreatedAt, bp.UpdatedAt,
	); err != nil {
		return fmt.Errorf("failed to create blueprint: %w", err)
	}
	return r.insertRules(ctx, exec, bp)
}

// GetByID implements domain.BlueprintRepository
func (r *sqlxBlueprintRepository) GetByID(ctx context.Context, id string) (*domain.Blueprint, error) {
	exec := GetExecutor(ctx, r.db)
	var header models.Blueprint
	query := exec.Rebind(`SELECT
		id "id",
		course_id "course_id",
		name "name",
		total_questions "total_questions",
		created_at "created_at",
		updated_at "updated_at"
	FROM blueprints
	WHERE id = ?`)
	if err := exec.GetContext(ctx, &header, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get blueprint %s: %w", id, err)
	}

	var rules []models.BlueprintRule
	rulesQuery := exec.Rebind(`SELECT
		blueprint_id "blueprint_id",
		seq_no "seq_no",
		subject "subject",
		difficulty "difficulty",
		question_count "question_count"
	FROM blueprint_rules
	WHERE blueprint_id = ?
	ORDER BY seq_no`)
	if err := exec.SelectContext(ctx, &rules, rulesQuery, id); err != nil {
		return nil, fmt.Errorf("failed to get rules of blueprint %s: %w", id, err)
	}
	return toDomainBlueprint(&header, rules)
}

// GetForUpdate implements domain.BlueprintRepository. A no-op UPDATE takes the row
// lock on Oracle and the write lock on SQLite, neither of which supports the same
// SELECT ... FOR UPDATE form. Callers run it inside a transaction.
func (r *sqlxBlueprintRepository) GetForUpdate(ctx context.Context, id string) (*domain.Blueprint, error) {
	exec := GetExecutor(ctx, r.db)
	if _, err := exec.ExecContext(ctx, exec.Rebind(`UPDATE blueprints SET updated_at = updated_at WHERE id = ?`), id); err != nil {
		return nil, fmt.Errorf("failed to lock blueprint %s: %w", id, err)
	}
	return r.GetByID(ctx, id)
}

// Update implements domain.BlueprintRepository
func (r *sqlxBlueprintRepository) Update(ctx context.Context, bp *domain.Blueprint) error {
	exec := GetExecutor(ctx, r.db)
	query := exec.Rebind(`UPDATE blueprints SET name = ?, total_questions = ?, updated_at = ? WHERE id = ?`)
	if _, err := exec.ExecContext(ctx, query, bp.Name, bp.TotalQuestions, bp.UpdatedAt, bp.ID); err != nil {
		return fmt.Errorf("failed to update blueprint %s: %w", bp.ID, err)
	}
	if _, err := exec.ExecContext(ctx, exec.Rebind(`DELETE FROM blueprint_rules WHERE blueprint_id = ?`), bp.ID); err != nil {
		return fmt.Errorf("failed to clear rules of blueprint %s: %w", bp.ID, err)
	}
	return r.insertRules(ctx, exec, bp)
}

func (r *sqlxBlueprintRepository) insertRules(ctx context.Context, exec DBTX, bp *domain.Blueprint) error {
	query := exec.Rebind(`INSERT INTO blueprint_rules (
		blueprint_id, seq_no, subject, difficulty, question_count
	) VALUES (?, ?, ?, ?, ?)`)
	for i, rule := range bp.Rules {
		if _, err := exec.ExecContext(ctx, query, bp.ID, i, rule.Subject, int(rule.Difficulty), rule.Count); err != nil {
			return fmt.Errorf("failed to insert rule %d of blueprint %s: %w", i, bp.ID, err)
		}
	}
	return nil
}
