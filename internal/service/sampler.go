package service

import (
	"math/rand/v2"

	"mocktest-engine/internal/domain"

	"go.uber.org/zap"
)

// Sampler draws quota-constrained question sets from a PoolIndex.
// It never persists anything.
type Sampler struct {
	logger *zap.Logger
}

func NewSampler(logger *zap.Logger) *Sampler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Sampler{logger: logger}
}

// NewRand returns a generator owned by a single request.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Sample draws bp.Rules in order from pool. Questions in exclude are never chosen.
// Availability of every rule is checked before the first draw; on any shortfall
// nothing is returned and the error lists all offending rules.
func (s *Sampler) Sample(pool *PoolIndex, bp *domain.Blueprint, exclude map[string]struct{}, seed uint64) (*domain.Selection, error) {
	if err := bp.Validate(); err != nil {
		return nil, err
	}

	var shortfalls []domain.Shortfall
	for i, rule := range bp.Rules {
		available := len(pool.Candidates(rule.Subject, rule.Difficulty, exclude))
		if available < rule.Count {
			shortfalls = append(shortfalls, domain.Shortfall{
				RuleIndex:  i,
				Subject:    rule.Subject,
				Difficulty: rule.Difficulty,
				Requested:  rule.Count,
				Available:  available,
				Missing:    rule.Count - available,
			})
		}
	}
	if len(shortfalls) > 0 {
		s.logger.Info("Pool cannot satisfy blueprint",
			zap.String("blueprint_id", bp.ID),
			zap.Int("rules_short", len(shortfalls)),
			zap.Int("first_rule", shortfalls[0].RuleIndex),
			zap.Int("first_shortfall", shortfalls[0].Missing))
		return nil, domain.NewInsufficientPoolError(shortfalls)
	}

	s.logger.Info("Sampling exam", zap.String("blueprint_id", bp.ID), zap.Uint64("seed", seed))
	rng := NewRand(seed)

	selected := make(map[string]struct{}, bp.TotalQuestions+len(exclude))
	for id := range exclude {
		selected[id] = struct{}{}
	}

	sel := &domain.Selection{
		Seed:        seed,
		QuestionIDs: make([]string, 0, bp.TotalQuestions),
		Sections:    make([]domain.Section, 0, len(bp.Rules)),
	}
	for i, rule := range bp.Rules {
		ids, err := pool.Sample(rule.Subject, rule.Difficulty, rule.Count, selected, rng)
		if err != nil {
			// partitions are disjoint, so this only happens if the pool changed under us
			return nil, domain.NewInternalError("sampling failed after availability check", err).
				WithContext("rule_index", i)
		}
		sel.Sections = append(sel.Sections, domain.Section{Rule: rule, Offset: len(sel.QuestionIDs), Count: len(ids)})
		for _, id := range ids {
			selected[id] = struct{}{}
		}
		sel.QuestionIDs = append(sel.QuestionIDs, ids...)
	}
	return sel, nil
}
