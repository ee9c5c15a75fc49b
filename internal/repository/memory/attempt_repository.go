package memory

import (
	"context"
	"sync"
	"time"

	"mocktest-engine/internal/domain"
)

type attemptKey struct {
	examID    string
	studentID string
	version   int
}

// AttemptRepository is an in-memory, append-only implementation of domain.AttemptRepository.
type AttemptRepository struct {
	mu       sync.RWMutex
	attempts []*domain.Attempt
	keys     map[attemptKey]struct{}
}

func NewAttemptRepository() *AttemptRepository {
	return &AttemptRepository{keys: make(map[attemptKey]struct{})}
}

func (r *AttemptRepository) Create(_ context.Context, attempt *domain.Attempt) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := attemptKey{attempt.ExamID, attempt.StudentID, attempt.Version}
	if _, dup := r.keys[key]; dup {
		return domain.NewAttemptExistsError(attempt.StudentID, attempt.ExamID)
	}
	c := *attempt
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now()
	}
	r.keys[key] = struct{}{}
	r.attempts = append(r.attempts, &c)
	return nil
}

func (r *AttemptRepository) LatestVersion(_ context.Context, examID, studentID string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	latest := 0
	for _, a := range r.attempts {
		if a.ExamID == examID && a.StudentID == studentID && a.Version > latest {
			latest = a.Version
		}
	}
	return latest, nil
}

func (r *AttemptRepository) ListFirstAttempts(_ context.Context, filter domain.LeaderboardFilter) ([]*domain.Attempt, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domain.Attempt, 0)
	for _, a := range r.attempts {
		if a.Version == 1 && filter.Matches(a) {
			c := *a
			out = append(out, &c)
		}
	}
	return out, nil
}
