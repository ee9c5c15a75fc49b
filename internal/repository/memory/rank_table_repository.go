package memory

import (
	"context"
	"sync"
	"sync/atomic"

	"mocktest-engine/internal/domain"
)

// RankTableRepository is an in-memory implementation of domain.RankTableRepository.
// Each exam's table sits behind an atomic pointer, so a reader sees either the old
// table or the new one in full.
type RankTableRepository struct {
	mu     sync.Mutex
	tables sync.Map // examID -> *atomic.Pointer[domain.RankTable]
}

func NewRankTableRepository() *RankTableRepository {
	return &RankTableRepository{}
}

func (r *RankTableRepository) slot(examID string) *atomic.Pointer[domain.RankTable] {
	v, _ := r.tables.LoadOrStore(examID, new(atomic.Pointer[domain.RankTable]))
	return v.(*atomic.Pointer[domain.RankTable])
}

func (r *RankTableRepository) Replace(_ context.Context, table *domain.RankTable) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	slot := r.slot(table.ExamID)
	version := 1
	if current := slot.Load(); current != nil {
		version = current.Version + 1
	}
	next := cloneRankTable(table)
	next.Version = version
	slot.Store(next)
	return version, nil
}

func (r *RankTableRepository) Get(_ context.Context, examID string) (*domain.RankTable, error) {
	v, ok := r.tables.Load(examID)
	if !ok {
		return nil, nil
	}
	current := v.(*atomic.Pointer[domain.RankTable]).Load()
	if current == nil {
		return nil, nil
	}
	return cloneRankTable(current), nil
}

func cloneRankTable(t *domain.RankTable) *domain.RankTable {
	c := *t
	c.Points = append([]domain.RankPoint(nil), t.Points...)
	return &c
}
