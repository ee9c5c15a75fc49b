package service

import (
	"context"
	"errors"
	"strings"

	"mocktest-engine/internal/domain"
	"mocktest-engine/internal/dto"

	"go.uber.org/zap"
)

// LeaderboardService computes ranked views over first attempts.
type LeaderboardService interface {
	// Rank returns the leaderboard for the filter. No matching attempts is an empty
	// result, not an error.
	Rank(ctx context.Context, req dto.LeaderboardRequest) (*dto.LeaderboardResponse, error)
}

type leaderboardService struct {
	attempts domain.AttemptRepository
	cache    LeaderboardCacheService
	logger   *zap.Logger
}

// NewLeaderboardService creates a new instance of leaderboardService
func NewLeaderboardService(attempts domain.AttemptRepository, cache LeaderboardCacheService, logger *zap.Logger) LeaderboardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cache == nil {
		cache = &noopLeaderboardCacheService{}
	}
	return &leaderboardService{attempts: attempts, cache: cache, logger: logger}
}

// Rank implements LeaderboardService
func (s *leaderboardService) Rank(ctx context.Context, req dto.LeaderboardRequest) (*dto.LeaderboardResponse, error) {
	req.CourseID = strings.TrimSpace(req.CourseID)
	req.SubjectID = strings.TrimSpace(req.SubjectID)
	req.TenantID = strings.TrimSpace(req.TenantID)
	if req.CourseID == "" {
		return nil, domain.NewInvalidInputError("course_id is required")
	}
	if req.Limit < 0 {
		return nil, domain.NewInvalidInputError("limit cannot be negative")
	}

	// The generation is read before the attempts so a view is never stored under a
	// generation newer than the data it was computed from.
	cached, generation, err := s.cache.Get(ctx, req)
	if err == nil {
		return withLimit(cached, req.Limit), nil
	}
	cacheable := errors.Is(err, ErrLeaderboardNotCached)
	if !cacheable {
		s.logger.Warn("Leaderboard cache unavailable, computing", zap.String("course_id", req.CourseID), zap.Error(err))
	}

	filter := domain.LeaderboardFilter{CourseID: req.CourseID, SubjectID: req.SubjectID, TenantID: req.TenantID}
	attempts, err := s.attempts.ListFirstAttempts(ctx, filter)
	if err != nil {
		return nil, domain.NewInternalError("failed to load attempts", err)
	}

	ranked := domain.RankAttempts(attempts)
	resp := &dto.LeaderboardResponse{
		CourseID:  req.CourseID,
		SubjectID: req.SubjectID,
		TenantID:  req.TenantID,
		Entries:   make([]dto.LeaderboardEntryResponse, 0, len(ranked)),
	}
	for _, e := range ranked {
		resp.Entries = append(resp.Entries, dto.LeaderboardEntryResponse{
			Position:    e.Position,
			StudentID:   e.StudentID,
			StudentName: e.StudentName,
			AttemptID:   e.AttemptID,
			Score:       e.Score,
			ElapsedMs:   e.ElapsedMillis,
			SubmittedAt: e.SubmittedAt,
		})
	}

	if cacheable {
		if err := s.cache.Put(ctx, req, generation, resp); err != nil {
			s.logger.Warn("Failed to cache leaderboard", zap.String("course_id", req.CourseID), zap.Error(err))
		}
	}
	return withLimit(resp, req.Limit), nil
}

func withLimit(resp *dto.LeaderboardResponse, limit int) *dto.LeaderboardResponse {
	if resp.Entries == nil {
		resp.Entries = []dto.LeaderboardEntryResponse{}
	}
	if limit <= 0 || len(resp.Entries) <= limit {
		return resp
	}
	out := *resp
	out.Entries = resp.Entries[:limit]
	return &out
}
