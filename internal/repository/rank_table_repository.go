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

// sqlxRankTableRepository implements domain.RankTableRepository using sqlx.
type sqlxRankTableRepository struct {
	db DBTX
}

func NewSQLXRankTableRepository(db *sqlx.DB) domain.RankTableRepository {
	return &sqlxRankTableRepository{db: db}
}

// Replace implements domain.RankTableRepository. It bumps the header version, then
// deletes and re-inserts every point. Callers run it inside a transaction.
func (r *sqlxRankTableRepository) Replace(ctx context.Context, table *domain.RankTable) (int, error) {
	exec := GetExecutor(ctx, r.db)

	var current int
	err := exec.GetContext(ctx, &current, exec.Rebind(`SELECT version FROM rank_tables WHERE exam_id = ?`), table.ExamID)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		if _, err := exec.ExecContext(ctx,
			exec.Rebind(`INSERT INTO rank_tables (exam_id, version, uploaded_at) VALUES (?, ?, ?)`),
			table.ExamID, 1, table.UploadedAt,
		); err != nil {
			return 0, fmt.Errorf("failed to insert rank table header for exam %s: %w", table.ExamID, err)
		}
	case err != nil:
		return 0, fmt.Errorf("failed to read rank table version for exam %s: %w", table.ExamID, err)
	default:
		if _, err := exec.ExecContext(ctx,
			exec.Rebind(`UPDATE rank_tables SET version = ?, uploaded_at = ? WHERE exam_id = ?`),
			current+1, table.UploadedAt, table.ExamID,
		); err != nil {
			return 0, fmt.Errorf("failed to update rank table header for exam %s: %w", table.ExamID, err)
		}
	}
	version := current + 1

	if _, err := exec.ExecContext(ctx, exec.Rebind(`DELETE FROM rank_points WHERE exam_id = ?`), table.ExamID); err != nil {
		return 0, fmt.Errorf("failed to clear rank points for exam %s: %w", table.ExamID, err)
	}
	insert := exec.Rebind(`INSERT INTO rank_points (exam_id, marks, rank_value) VALUES (?, ?, ?)`)
	for _, p := range table.Points {
		if _, err := exec.ExecContext(ctx, insert, table.ExamID, p.Marks, p.Rank); err != nil {
			return 0, fmt.Errorf("failed to insert rank point %v for exam %s: %w", p.Marks, table.ExamID, err)
		}
	}
	return version, nil
}

// Get implements domain.RankTableRepository. Header and points come from one
// statement, so a concurrent Replace can never pair one version's header with
// another version's points.
func (r *sqlxRankTableRepository) Get(ctx context.Context, examID string) (*domain.RankTable, error) {
	exec := GetExecutor(ctx, r.db)

	var rows []models.RankTableRow
	if err := exec.SelectContext(ctx, &rows, exec.Rebind(`SELECT
		h.exam_id "exam_id",
		h.version "version",
		h.uploaded_at "uploaded_at",
		p.marks "marks",
		p.rank_value "rank_value"
	FROM rank_tables h
	LEFT JOIN rank_points p ON p.exam_id = h.exam_id
	WHERE h.exam_id = ?
	ORDER BY p.marks`), examID); err != nil {
		return nil, fmt.Errorf("failed to get rank table for exam %s: %w", examID, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	table := &domain.RankTable{
		ExamID:     rows[0].ExamID,
		Points:     make([]domain.RankPoint, 0, len(rows)),
		UploadedAt: rows[0].UploadedAt,
		Version:    rows[0].Version,
	}
	for _, row := range rows {
		if !row.Marks.Valid || !row.RankValue.Valid {
			continue
		}
		table.Points = append(table.Points, domain.RankPoint{Marks: row.Marks.Float64, Rank: int(row.RankValue.Int64)})
	}
	return table, nil
}
