package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"mocktest-engine/internal/domain"
	"mocktest-engine/internal/dto"
	"mocktest-engine/internal/util"

	"go.uber.org/zap"
)

// AttemptService records scored attempts.
type AttemptService interface {
	Record(ctx context.Context, examID string, req *dto.RecordAttemptRequest) (*dto.AttemptResponse, error)
}

type attemptService struct {
	attempts    domain.AttemptRepository
	exams       domain.ExamRepository
	tx          domain.TransactionManager
	leaderboard LeaderboardCacheService
	policy      domain.RetakePolicy
	logger      *zap.Logger
	now         func() time.Time
}

// NewAttemptService creates a new instance of attemptService
func NewAttemptService(
	attempts domain.AttemptRepository,
	exams domain.ExamRepository,
	tx domain.TransactionManager,
	leaderboard LeaderboardCacheService,
	policy domain.RetakePolicy,
	logger *zap.Logger,
) AttemptService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if leaderboard == nil {
		leaderboard = &noopLeaderboardCacheService{}
	}
	if policy == "" {
		policy = domain.RetakeSingle
	}
	return &attemptService{
		attempts:    attempts,
		exams:       exams,
		tx:          tx,
		leaderboard: leaderboard,
		policy:      policy,
		logger:      logger,
		now:         time.Now,
	}
}

// Record implements AttemptService. Under RetakeSingle a second attempt by the same
// student fails with ATTEMPT_EXISTS; under RetakeVersioned it is stored as the next version.
func (s *attemptService) Record(ctx context.Context, examID string, req *dto.RecordAttemptRequest) (*dto.AttemptResponse, error) {
	if req.Score == nil {
		return nil, domain.NewInvalidInputError("score is required")
	}
	exam, err := s.exams.GetByID(ctx, examID)
	if err != nil {
		return nil, domain.NewInternalError("failed to load exam", err)
	}
	if exam == nil {
		return nil, domain.NewNotFoundError(fmt.Sprintf("exam %s not found", examID))
	}

	now := s.now().UTC()
	attempt := &domain.Attempt{
		ID:          util.NewULID(),
		StudentID:   strings.TrimSpace(req.StudentID),
		StudentName: strings.TrimSpace(req.StudentName),
		ExamID:      exam.ID,
		CourseID:    exam.CourseID,
		SubjectID:   strings.TrimSpace(req.SubjectID),
		TenantID:    strings.TrimSpace(req.TenantID),
		Score:       *req.Score,
		Elapsed:     time.Duration(req.ElapsedMs) * time.Millisecond,
		SubmittedAt: now,
		CreatedAt:   now,
	}
	if attempt.SubjectID == "" {
		attempt.SubjectID = exam.Subject
	}
	if req.SubmittedAt != nil {
		attempt.SubmittedAt = req.SubmittedAt.UTC()
	}
	if err := attempt.Validate(); err != nil {
		return nil, err
	}

	err = s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		latest, err := s.attempts.LatestVersion(ctx, attempt.ExamID, attempt.StudentID)
		if err != nil {
			return err
		}
		if latest > 0 && s.policy == domain.RetakeSingle {
			return domain.NewAttemptExistsError(attempt.StudentID, attempt.ExamID)
		}
		attempt.Version = latest + 1
		return s.attempts.Create(ctx, attempt)
	})
	if err != nil {
		var de *domain.DomainError
		if errors.As(err, &de) {
			return nil, err
		}
		s.logger.Error("Failed to record attempt",
			zap.String("exam_id", examID),
			zap.String("student_id", attempt.StudentID),
			zap.Error(err))
		return nil, domain.NewPersistenceFailureError("failed to record attempt", err)
	}

	if err := s.leaderboard.Invalidate(ctx, attempt.CourseID, attempt.SubjectID, attempt.TenantID); err != nil {
		s.logger.Warn("Leaderboard views may be stale", zap.String("course_id", attempt.CourseID), zap.Error(err))
	}
	s.logger.Info("Attempt recorded",
		zap.String("attempt_id", attempt.ID),
		zap.String("exam_id", attempt.ExamID),
		zap.String("student_id", attempt.StudentID),
		zap.Int("version", attempt.Version))

	return &dto.AttemptResponse{
		ID:          attempt.ID,
		ExamID:      attempt.ExamID,
		StudentID:   attempt.StudentID,
		Score:       attempt.Score,
		ElapsedMs:   attempt.Elapsed.Milliseconds(),
		SubmittedAt: attempt.SubmittedAt,
		Version:     attempt.Version,
	}, nil
}
