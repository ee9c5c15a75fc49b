package service

import (
	"context"
	"time"

	"mocktest-engine/internal/domain"
	"mocktest-engine/internal/util"

	"go.uber.org/zap"
)

// SnapshotBuilder freezes a selection into a persisted GeneratedExam.
type SnapshotBuilder struct {
	exams  domain.ExamRepository
	tx     domain.TransactionManager
	logger *zap.Logger
	now    func() time.Time
}

func NewSnapshotBuilder(exams domain.ExamRepository, tx domain.TransactionManager, logger *zap.Logger) *SnapshotBuilder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SnapshotBuilder{exams: exams, tx: tx, logger: logger, now: time.Now}
}

// Build copies the selection, stamps id and time, and writes the exam in one transaction.
// A failed write leaves nothing behind and is reported as PersistenceFailure.
func (b *SnapshotBuilder) Build(ctx context.Context, bp *domain.Blueprint, sel *domain.Selection) (*domain.GeneratedExam, error) {
	exam := &domain.GeneratedExam{
		ID:          util.NewULID(),
		BlueprintID: bp.ID,
		CourseID:    bp.CourseID,
		Subject:     bp.SingleSubject(),
		Seed:        sel.Seed,
		QuestionIDs: append([]string(nil), sel.QuestionIDs...),
		Sections:    append([]domain.Section(nil), sel.Sections...),
		CreatedAt:   b.now().UTC(),
	}
	if err := exam.Verify(bp); err != nil {
		return nil, domain.NewInternalError("generated exam violates blueprint", err)
	}

	err := b.tx.WithTransaction(ctx, func(ctx context.Context) error {
		return b.exams.Save(ctx, exam)
	})
	if err != nil {
		b.logger.Error("Failed to persist generated exam",
			zap.String("exam_id", exam.ID),
			zap.String("blueprint_id", bp.ID),
			zap.Error(err))
		return nil, domain.NewPersistenceFailureError("failed to persist generated exam", err)
	}
	b.logger.Info("Generated exam frozen",
		zap.String("exam_id", exam.ID),
		zap.String("blueprint_id", bp.ID),
		zap.Int("questions", len(exam.QuestionIDs)))
	return exam, nil
}
