package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"mocktest-engine/internal/cache"
	"mocktest-engine/internal/domain"
	"mocktest-engine/internal/dto"
	"mocktest-engine/internal/logger"

	"go.uber.org/zap"
)

// ErrLeaderboardNotCached is returned when a leaderboard view is not in the cache.
var ErrLeaderboardNotCached = errors.New("leaderboard not found in cache")

// LeaderboardCacheService caches computed leaderboard views.
//
// Every view has a generation counter that Invalidate bumps. Get reports the
// generation it looked under and Put stores the view under that generation, so a
// view computed from attempts read before an invalidation lands on a key no reader
// will ask for again.
type LeaderboardCacheService interface {
	Get(ctx context.Context, req dto.LeaderboardRequest) (*dto.LeaderboardResponse, int64, error)
	Put(ctx context.Context, req dto.LeaderboardRequest, generation int64, result *dto.LeaderboardResponse) error
	// Invalidate retires every view an attempt with these attributes appears in.
	Invalidate(ctx context.Context, courseID, subjectID, tenantID string) error
}

type leaderboardCacheServiceImpl struct {
	cache domain.Cache
	ttl   time.Duration
}

// NewLeaderboardCacheService creates a new leaderboard cache. A nil cache or a zero ttl
// disables caching.
func NewLeaderboardCacheService(c domain.Cache, ttl time.Duration) LeaderboardCacheService {
	if c == nil || ttl <= 0 {
		logger.Get().Info("Leaderboard caching disabled")
		return &noopLeaderboardCacheService{}
	}
	return &leaderboardCacheServiceImpl{cache: c, ttl: ttl}
}

// Full views are cached; the limit is applied after reading.
func viewKey(req dto.LeaderboardRequest) string {
	return cache.LeaderboardKey(req.CourseID, req.SubjectID, req.TenantID)
}

func (s *leaderboardCacheServiceImpl) generation(ctx context.Context, view string) (int64, error) {
	raw, err := s.cache.Get(ctx, cache.LeaderboardGenerationKey(view))
	if errors.Is(err, domain.ErrCacheMiss) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("leaderboard generation %q: %w", raw, err)
	}
	return n, nil
}

// Get looks the view up under its current generation. On ErrLeaderboardNotCached
// the returned generation is the one to pass to Put.
func (s *leaderboardCacheServiceImpl) Get(ctx context.Context, req dto.LeaderboardRequest) (*dto.LeaderboardResponse, int64, error) {
	view := viewKey(req)
	gen, err := s.generation(ctx, view)
	if err != nil {
		logger.Get().Error("Failed to read leaderboard generation", zap.Error(err), zap.String("key", view))
		return nil, 0, domain.NewInternalError(fmt.Sprintf("failed to read leaderboard generation for key %s", view), err)
	}

	key := cache.LeaderboardSnapshotKey(view, gen)
	dataString, err := s.cache.Get(ctx, key)
	if err != nil {
		if errors.Is(err, domain.ErrCacheMiss) {
			logger.Get().Debug("Leaderboard cache miss", zap.String("key", key))
			return nil, gen, ErrLeaderboardNotCached
		}
		logger.Get().Error("Failed to get leaderboard from cache", zap.Error(err), zap.String("key", key))
		return nil, 0, domain.NewInternalError(fmt.Sprintf("failed to get leaderboard from cache for key %s", key), err)
	}
	if dataString == "" {
		return nil, gen, ErrLeaderboardNotCached
	}

	var result dto.LeaderboardResponse
	if err := json.Unmarshal([]byte(dataString), &result); err != nil {
		logger.Get().Error("Failed to unmarshal leaderboard from cache", zap.Error(err), zap.String("key", key))
		return nil, 0, domain.NewInternalError(fmt.Sprintf("failed to unmarshal leaderboard from cache for key %s", key), err)
	}
	return &result, gen, nil
}

// Put stores a view computed under the given generation.
func (s *leaderboardCacheServiceImpl) Put(ctx context.Context, req dto.LeaderboardRequest, generation int64, result *dto.LeaderboardResponse) error {
	if result == nil {
		return domain.NewInvalidInputError("cannot cache nil leaderboard")
	}

	key := cache.LeaderboardSnapshotKey(viewKey(req), generation)
	dataBytes, err := json.Marshal(result)
	if err != nil {
		logger.Get().Error("Failed to marshal leaderboard for caching", zap.Error(err), zap.String("key", key))
		return domain.NewInternalError("failed to marshal leaderboard for caching", err)
	}

	if err := s.cache.Set(ctx, key, string(dataBytes), s.ttl); err != nil {
		logger.Get().Error("Failed to cache leaderboard", zap.Error(err), zap.String("key", key))
		return domain.NewInternalError(fmt.Sprintf("failed to set leaderboard to cache for key %s", key), err)
	}
	logger.Get().Debug("Cached leaderboard", zap.String("key", key), zap.Int("entries", len(result.Entries)))
	return nil
}

// Invalidate bumps the generation of every view that could contain the attempt.
func (s *leaderboardCacheServiceImpl) Invalidate(ctx context.Context, courseID, subjectID, tenantID string) error {
	var errs []error
	for _, view := range cache.LeaderboardKeysFor(courseID, subjectID, tenantID) {
		if _, err := s.cache.Incr(ctx, cache.LeaderboardGenerationKey(view)); err != nil {
			logger.Get().Error("Failed to invalidate leaderboard view", zap.Error(err), zap.String("key", view))
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return domain.NewInternalError("failed to invalidate leaderboard cache", errors.Join(errs...))
	}
	return nil
}

// noopLeaderboardCacheService is used when caching is disabled.
type noopLeaderboardCacheService struct{}

func (s *noopLeaderboardCacheService) Put(ctx context.Context, req dto.LeaderboardRequest, generation int64, result *dto.LeaderboardResponse) error {
	return nil
}

func (s *noopLeaderboardCacheService) Get(ctx context.Context, req dto.LeaderboardRequest) (*dto.LeaderboardResponse, int64, error) {
	return nil, 0, ErrLeaderboardNotCached
}

func (s *noopLeaderboardCacheService) Invalidate(ctx context.Context, courseID, subjectID, tenantID string) error {
	return nil
}
