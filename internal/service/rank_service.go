package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"time"

	"mocktest-engine/internal/cache"
	"mocktest-engine/internal/domain"
	"mocktest-engine/internal/dto"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// RankService defines rank table ingestion and rank prediction.
type RankService interface {
	// Upload parses and validates the payload, then replaces the exam's table wholesale.
	// A rejected upload leaves the previous table in effect.
	Upload(ctx context.Context, examID string, payload io.Reader) (*dto.RankTableUploadResponse, error)
	GetRankTable(ctx context.Context, examID string) (*dto.RankTableResponse, error)
	PredictRank(ctx context.Context, examID string, score float64) (*dto.PredictedRankResponse, error)
}

type rankService struct {
	tables   domain.RankTableRepository
	exams    domain.ExamRepository
	tx       domain.TransactionManager
	cache    domain.Cache
	cacheTTL time.Duration
	loads    singleflight.Group
	logger   *zap.Logger
}

// NewRankService creates a new instance of rankService. cache may be nil.
func NewRankService(
	tables domain.RankTableRepository,
	exams domain.ExamRepository,
	tx domain.TransactionManager,
	cache domain.Cache,
	cacheTTL time.Duration,
	logger *zap.Logger,
) RankService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &rankService{
		tables:   tables,
		exams:    exams,
		tx:       tx,
		cache:    cache,
		cacheTTL: cacheTTL,
		logger:   logger,
	}
}

// cachedRankTable is the serialized form kept under cache.RankTableKey.
type cachedRankTable struct {
	ExamID     string             `json:"exam_id"`
	Version    int                `json:"version"`
	UploadedAt time.Time          `json:"uploaded_at"`
	Points     []domain.RankPoint `json:"points"`
}

// Upload implements RankService
func (s *rankService) Upload(ctx context.Context, examID string, payload io.Reader) (*dto.RankTableUploadResponse, error) {
	exam, err := s.exams.GetByID(ctx, examID)
	if err != nil {
		return nil, domain.NewInternalError("failed to load exam", err)
	}
	if exam == nil {
		return nil, domain.NewNotFoundError(fmt.Sprintf("exam %s not found", examID))
	}

	points, err := ParseRankTable(payload)
	if err != nil {
		s.logger.Info("Rank table upload rejected", zap.String("exam_id", examID), zap.Error(err))
		return nil, err
	}
	table, err := domain.NewRankTable(examID, points)
	if err != nil {
		s.logger.Info("Rank table upload rejected", zap.String("exam_id", examID), zap.Error(err))
		return nil, err
	}

	err = s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		version, err := s.tables.Replace(ctx, table)
		if err != nil {
			return err
		}
		table.Version = version
		return nil
	})
	if err != nil {
		s.logger.Error("Failed to replace rank table", zap.String("exam_id", examID), zap.Error(err))
		return nil, domain.NewPersistenceFailureError("failed to store rank table", err)
	}

	s.storeCached(ctx, table)
	s.logger.Info("Rank table replaced",
		zap.String("exam_id", examID),
		zap.Int("points", len(table.Points)),
		zap.Int("version", table.Version))
	return &dto.RankTableUploadResponse{ExamID: examID, Points: len(table.Points), Version: table.Version}, nil
}

// GetRankTable implements RankService
func (s *rankService) GetRankTable(ctx context.Context, examID string) (*dto.RankTableResponse, error) {
	table, err := s.loadTable(ctx, examID)
	if err != nil {
		return nil, err
	}
	points := make([]dto.RankPointResponse, 0, len(table.Points))
	for _, p := range table.Points {
		points = append(points, dto.RankPointResponse{Marks: p.Marks, Rank: p.Rank})
	}
	return &dto.RankTableResponse{
		ExamID:     table.ExamID,
		Version:    table.Version,
		UploadedAt: table.UploadedAt,
		Points:     points,
	}, nil
}

// PredictRank implements RankService
func (s *rankService) PredictRank(ctx context.Context, examID string, score float64) (*dto.PredictedRankResponse, error) {
	if math.IsNaN(score) || math.IsInf(score, 0) {
		return nil, domain.NewInvalidInputError("score must be a finite number")
	}
	table, err := s.loadTable(ctx, examID)
	if err != nil {
		return nil, err
	}
	return &dto.PredictedRankResponse{
		ExamID:        examID,
		Score:         score,
		PredictedRank: table.Predict(score),
		TableVersion:  table.Version,
	}, nil
}

// loadTable reads the whole table from the cache, falling back to the store.
// Concurrent misses for one exam share a single store read, which outlives the
// cancellation of whichever caller started it.
func (s *rankService) loadTable(ctx context.Context, examID string) (*domain.RankTable, error) {
	if table := s.lookupCached(ctx, examID); table != nil {
		return table, nil
	}

	loadCtx := context.WithoutCancel(ctx)
	ch := s.loads.DoChan(examID, func() (interface{}, error) {
		table, err := s.tables.Get(loadCtx, examID)
		if err != nil {
			return nil, err
		}
		if table != nil {
			s.fillCache(loadCtx, table)
		}
		return table, nil
	})

	var res singleflight.Result
	select {
	case res = <-ch:
	case <-ctx.Done():
		return nil, domain.NewInternalError("rank table load abandoned", ctx.Err())
	}
	if res.Err != nil {
		return nil, domain.NewInternalError("failed to load rank table", res.Err)
	}
	if res.Shared {
		s.logger.Debug("Rank table load shared", zap.String("exam_id", examID))
	}
	table, _ := res.Val.(*domain.RankTable)
	if table == nil {
		return nil, domain.NewNoRankTableError(examID)
	}
	return table, nil
}

func (s *rankService) lookupCached(ctx context.Context, examID string) *domain.RankTable {
	if s.cache == nil {
		return nil
	}
	key := cache.RankTableKey(examID)
	data, err := s.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, domain.ErrCacheMiss) {
			s.logger.Warn("Rank table cache read failed", zap.String("key", key), zap.Error(err))
		}
		return nil
	}
	var cached cachedRankTable
	if err := json.Unmarshal([]byte(data), &cached); err != nil {
		s.logger.Warn("Discarding undecodable cached rank table", zap.String("key", key), zap.Error(err))
		return nil
	}
	if len(cached.Points) < 2 {
		return nil
	}
	return &domain.RankTable{
		ExamID:     cached.ExamID,
		Points:     cached.Points,
		UploadedAt: cached.UploadedAt,
		Version:    cached.Version,
	}
}

func (s *rankService) encodeTable(table *domain.RankTable) (string, bool) {
	data, err := json.Marshal(cachedRankTable{
		ExamID:     table.ExamID,
		Version:    table.Version,
		UploadedAt: table.UploadedAt,
		Points:     table.Points,
	})
	if err != nil {
		s.logger.Error("Failed to marshal rank table for caching", zap.String("exam_id", table.ExamID), zap.Error(err))
		return "", false
	}
	return string(data), true
}

// storeCached publishes a freshly committed table under one key, replacing whatever
// was cached, so readers switch from the old table to the new one in a single step.
func (s *rankService) storeCached(ctx context.Context, table *domain.RankTable) {
	if s.cache == nil {
		return
	}
	key := cache.RankTableKey(table.ExamID)
	data, ok := s.encodeTable(table)
	if !ok {
		return
	}
	if err := s.cache.Set(ctx, key, data, s.cacheTTL); err != nil {
		s.logger.Warn("Failed to cache rank table", zap.String("key", key), zap.Error(err))
		// a stale entry must not outlive a failed refresh
		if delErr := s.cache.Delete(ctx, key); delErr != nil {
			s.logger.Warn("Failed to drop stale rank table", zap.String("key", key), zap.Error(delErr))
		}
	}
}

// fillCache populates the key after a store read only if nothing is cached yet. An
// upload that committed while the read was in flight has already cached its table,
// and the older read must not replace it.
func (s *rankService) fillCache(ctx context.Context, table *domain.RankTable) {
	if s.cache == nil {
		return
	}
	key := cache.RankTableKey(table.ExamID)
	data, ok := s.encodeTable(table)
	if !ok {
		return
	}
	wrote, err := s.cache.SetIfAbsent(ctx, key, data, s.cacheTTL)
	if err != nil {
		s.logger.Warn("Failed to cache rank table", zap.String("key", key), zap.Error(err))
		return
	}
	if !wrote {
		s.logger.Debug("Rank table already cached, keeping newer entry",
			zap.String("key", key), zap.Int("loaded_version", table.Version))
	}
}
