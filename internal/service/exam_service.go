package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"

	"mocktest-engine/internal/config"
	"mocktest-engine/internal/domain"
	"mocktest-engine/internal/dto"
	"mocktest-engine/internal/util"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ExamService defines blueprint management and exam generation.
type ExamService interface {
	CreateBlueprint(ctx context.Context, req *dto.CreateBlueprintRequest) (*dto.BlueprintResponse, error)
	GetBlueprint(ctx context.Context, id string) (*dto.BlueprintResponse, error)
	UpdateBlueprint(ctx context.Context, id string, req *dto.UpdateBlueprintRequest) (*dto.BlueprintResponse, error)
	// Generate samples and freezes a new exam. Every call draws independently.
	Generate(ctx context.Context, blueprintID string) (*dto.GenerateExamResponse, error)
	GetExam(ctx context.Context, id string) (*dto.ExamResponse, error)
}

type examService struct {
	questions  domain.QuestionRepository
	blueprints domain.BlueprintRepository
	exams      domain.ExamRepository
	tx         domain.TransactionManager
	sampler    *Sampler
	snapshots  *SnapshotBuilder
	cfg        config.SamplerConfig
	logger     *zap.Logger
}

// NewExamService creates a new instance of examService
func NewExamService(
	questions domain.QuestionRepository,
	blueprints domain.BlueprintRepository,
	exams domain.ExamRepository,
	tx domain.TransactionManager,
	cfg config.SamplerConfig,
	logger *zap.Logger,
) ExamService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &examService{
		questions:  questions,
		blueprints: blueprints,
		exams:      exams,
		tx:         tx,
		sampler:    NewSampler(logger),
		snapshots:  NewSnapshotBuilder(exams, tx, logger),
		cfg:        cfg,
		logger:     logger,
	}
}

func toDomainRules(reqs []dto.RuleRequest) ([]domain.Rule, error) {
	rules := make([]domain.Rule, 0, len(reqs))
	for i, r := range reqs {
		difficulty, err := domain.ParseDifficulty(r.Difficulty)
		if err != nil {
			return nil, domain.NewInvalidRuleError(i, err.Error())
		}
		rules = append(rules, domain.Rule{
			Subject:    strings.TrimSpace(r.Subject),
			Difficulty: difficulty,
			Count:      r.Count,
		})
	}
	return rules, nil
}

func toBlueprintResponse(bp *domain.Blueprint) *dto.BlueprintResponse {
	rules := make([]dto.RuleResponse, 0, len(bp.Rules))
	for _, r := range bp.Rules {
		rules = append(rules, dto.RuleResponse{Subject: r.Subject, Difficulty: r.Difficulty.String(), Count: r.Count})
	}
	return &dto.BlueprintResponse{
		ID:             bp.ID,
		CourseID:       bp.CourseID,
		Name:           bp.Name,
		TotalQuestions: bp.TotalQuestions,
		Rules:          rules,
		CreatedAt:      bp.CreatedAt,
		UpdatedAt:      bp.UpdatedAt,
	}
}

func toExamResponse(exam *domain.GeneratedExam) *dto.ExamResponse {
	sections := make([]dto.SectionResponse, 0, len(exam.Sections))
	for _, s := range exam.Sections {
		sections = append(sections, dto.SectionResponse{
			Subject:    s.Rule.Subject,
			Difficulty: s.Rule.Difficulty.String(),
			Offset:     s.Offset,
			Count:      s.Count,
		})
	}
	return &dto.ExamResponse{
		ID:          exam.ID,
		BlueprintID: exam.BlueprintID,
		CourseID:    exam.CourseID,
		Subject:     exam.Subject,
		Seed:        strconv.FormatUint(exam.Seed, 10),
		QuestionIDs: append([]string{}, exam.QuestionIDs...),
		Sections:    sections,
		CreatedAt:   exam.CreatedAt,
	}
}

// CreateBlueprint implements ExamService
func (s *examService) CreateBlueprint(ctx context.Context, req *dto.CreateBlueprintRequest) (*dto.BlueprintResponse, error) {
	rules, err := toDomainRules(req.Rules)
	if err != nil {
		return nil, err
	}
	bp := domain.NewBlueprint(strings.TrimSpace(req.CourseID), strings.TrimSpace(req.Name), req.TotalQuestions, rules)
	if bp.CourseID == "" {
		return nil, domain.NewInvalidInputError("course id is required")
	}
	if err := bp.Validate(); err != nil {
		return nil, err
	}
	bp.ID = util.NewULID()

	if err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		return s.blueprints.Create(ctx, bp)
	}); err != nil {
		return nil, domain.NewPersistenceFailureError("failed to store blueprint", err)
	}
	s.logger.Info("Blueprint created",
		zap.String("blueprint_id", bp.ID),
		zap.String("course_id", bp.CourseID),
		zap.Int("rules", len(bp.Rules)),
		zap.Int("total_questions", bp.TotalQuestions))
	return toBlueprintResponse(bp), nil
}

func (s *examService) loadBlueprint(ctx context.Context, id string) (*domain.Blueprint, error) {
	bp, err := s.blueprints.GetByID(ctx, id)
	if err != nil {
		return nil, domain.NewInternalError("failed to load blueprint", err)
	}
	if bp == nil {
		return nil, domain.NewNotFoundError(fmt.Sprintf("blueprint %s not found", id))
	}
	return bp, nil
}

// GetBlueprint implements ExamService
func (s *examService) GetBlueprint(ctx context.Context, id string) (*dto.BlueprintResponse, error) {
	bp, err := s.loadBlueprint(ctx, id)
	if err != nil {
		return nil, err
	}
	return toBlueprintResponse(bp), nil
}

// UpdateBlueprint implements ExamService. A blueprint referenced by any exam is locked.
func (s *examService) UpdateBlueprint(ctx context.Context, id string, req *dto.UpdateBlueprintRequest) (*dto.BlueprintResponse, error) {
	rules, err := toDomainRules(req.Rules)
	if err != nil {
		return nil, err
	}

	var updated *domain.Blueprint
	err = s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		bp, err := s.blueprints.GetForUpdate(ctx, id)
		if err != nil {
			return domain.NewPersistenceFailureError("failed to lock blueprint", err)
		}
		if bp == nil {
			return domain.NewNotFoundError(fmt.Sprintf("blueprint %s not found", id))
		}
		used, err := s.exams.ExistsForBlueprint(ctx, id)
		if err != nil {
			return domain.NewInternalError("failed to check blueprint usage", err)
		}
		if used {
			return domain.NewBlueprintLockedError(id)
		}

		next := domain.NewBlueprint(bp.CourseID, bp.Name, req.TotalQuestions, rules)
		next.ID = bp.ID
		next.CreatedAt = bp.CreatedAt
		if name := strings.TrimSpace(req.Name); name != "" {
			next.Name = name
		}
		if err := next.Validate(); err != nil {
			return err
		}
		if err := s.blueprints.Update(ctx, next); err != nil {
			return domain.NewPersistenceFailureError("failed to update blueprint", err)
		}
		updated = next
		return nil
	})
	if err != nil {
		var de *domain.DomainError
		if !errors.As(err, &de) {
			err = domain.NewPersistenceFailureError("failed to update blueprint", err)
		}
		return nil, err
	}
	s.logger.Info("Blueprint updated", zap.String("blueprint_id", id), zap.Int("rules", len(updated.Rules)))
	return toBlueprintResponse(updated), nil
}

// errBlueprintChanged means the blueprint was updated between sampling and saving.
var errBlueprintChanged = errors.New("blueprint changed during generation")

const generateAttempts = 3

// Generate implements ExamService. The exam is saved while holding the blueprint's
// lock, after checking the blueprint still has the rules that were sampled. If an
// update got in first, the draw is repeated against the new rules.
func (s *examService) Generate(ctx context.Context, blueprintID string) (*dto.GenerateExamResponse, error) {
	for attempt := 1; ; attempt++ {
		resp, err := s.generateOnce(ctx, blueprintID)
		if !errors.Is(err, errBlueprintChanged) {
			return resp, err
		}
		s.logger.Info("Blueprint changed while generating, sampling again",
			zap.String("blueprint_id", blueprintID),
			zap.Int("attempt", attempt))
		if attempt == generateAttempts {
			return nil, domain.NewPersistenceFailureError("blueprint kept changing during generation", err)
		}
	}
}

func (s *examService) generateOnce(ctx context.Context, blueprintID string) (*dto.GenerateExamResponse, error) {
	bp, err := s.loadBlueprint(ctx, blueprintID)
	if err != nil {
		return nil, err
	}
	if err := bp.Validate(); err != nil {
		return nil, err
	}

	var (
		questions []*domain.Question
		exclude   map[string]struct{}
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		qs, err := s.questions.ListByCourse(gctx, bp.CourseID)
		if err != nil {
			return fmt.Errorf("failed to load question pool: %w", err)
		}
		questions = qs
		return nil
	})
	g.Go(func() error {
		ex, err := s.recentQuestionIDs(gctx, bp.CourseID)
		if err != nil {
			return err
		}
		exclude = ex
		return nil
	})
	if err := g.Wait(); err != nil {
		s.logger.Error("Failed to prepare exam generation", zap.String("blueprint_id", bp.ID), zap.Error(err))
		return nil, domain.NewInternalError("failed to prepare exam generation", err)
	}

	pool := NewPoolIndex(questions)
	seed := s.nextSeed()
	sel, err := s.sampler.Sample(pool, bp, exclude, seed)
	if err != nil {
		return nil, err
	}

	var exam *domain.GeneratedExam
	err = s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		current, err := s.blueprints.GetForUpdate(ctx, bp.ID)
		if err != nil {
			return domain.NewPersistenceFailureError("failed to lock blueprint", err)
		}
		if current == nil {
			return domain.NewNotFoundError(fmt.Sprintf("blueprint %s not found", bp.ID))
		}
		if !current.SameRules(bp) {
			return errBlueprintChanged
		}
		exam, err = s.snapshots.Build(ctx, bp, sel)
		return err
	})
	if err != nil {
		var de *domain.DomainError
		if errors.Is(err, errBlueprintChanged) || errors.As(err, &de) {
			return nil, err
		}
		return nil, domain.NewPersistenceFailureError("failed to persist generated exam", err)
	}
	return &dto.GenerateExamResponse{
		ExamID:        exam.ID,
		QuestionCount: len(exam.QuestionIDs),
		Seed:          strconv.FormatUint(exam.Seed, 10),
	}, nil
}

// recentQuestionIDs collects the questions of the course's last RecencyWindow exams.
func (s *examService) recentQuestionIDs(ctx context.Context, courseID string) (map[string]struct{}, error) {
	exclude := make(map[string]struct{})
	if s.cfg.RecencyWindow <= 0 {
		return exclude, nil
	}
	recent, err := s.exams.ListRecentByCourse(ctx, courseID, s.cfg.RecencyWindow)
	if err != nil {
		return nil, fmt.Errorf("failed to load recent exams: %w", err)
	}
	for _, e := range recent {
		for _, id := range e.QuestionIDs {
			exclude[id] = struct{}{}
		}
	}
	return exclude, nil
}

func (s *examService) nextSeed() uint64 {
	if s.cfg.Seed != 0 {
		return s.cfg.Seed
	}
	return rand.Uint64()
}

// GetExam implements ExamService
func (s *examService) GetExam(ctx context.Context, id string) (*dto.ExamResponse, error) {
	exam, err := s.exams.GetByID(ctx, id)
	if err != nil {
		return nil, domain.NewInternalError("failed to load exam", err)
	}
	if exam == nil {
		return nil, domain.NewNotFoundError(fmt.Sprintf("exam %s not found", id))
	}
	return toExamResponse(exam), nil
}
