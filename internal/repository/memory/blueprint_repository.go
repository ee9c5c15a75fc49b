package memory

import (
	"context"
	"fmt"
	"sync"

	"mocktest-engine/internal/domain"
)

// BlueprintRepository is an in-memory implementation of domain.BlueprintRepository.
type BlueprintRepository struct {
	mu         sync.RWMutex
	blueprints map[string]*domain.Blueprint
}

func NewBlueprintRepository() *BlueprintRepository {
	return &BlueprintRepository{blueprints: make(map[string]*domain.Blueprint)}
}

func (r *BlueprintRepository) Create(_ context.Context, bp *domain.Blueprint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.blueprints[bp.ID]; exists {
		return fmt.Errorf("blueprint %s already exists", bp.ID)
	}
	r.blueprints[bp.ID] = cloneBlueprint(bp)
	return nil
}

func (r *BlueprintRepository) GetByID(_ context.Context, id string) (*domain.Blueprint, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	bp, ok := r.blueprints[id]
	if !ok {
		return nil, nil
	}
	return cloneBlueprint(bp), nil
}

// GetForUpdate needs no lock of its own: memory transactions already run one at a time.
func (r *BlueprintRepository) GetForUpdate(ctx context.Context, id string) (*domain.Blueprint, error) {
	return r.GetByID(ctx, id)
}

func (r *BlueprintRepository) Update(_ context.Context, bp *domain.Blueprint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.blueprints[bp.ID]; !exists {
		return fmt.Errorf("blueprint %s not found", bp.ID)
	}
	r.blueprints[bp.ID] = cloneBlueprint(bp)
	return nil
}

func cloneBlueprint(bp *domain.Blueprint) *domain.Blueprint {
	c := *bp
	c.Rules = append([]domain.Rule(nil), bp.Rules...)
	return &c
}
