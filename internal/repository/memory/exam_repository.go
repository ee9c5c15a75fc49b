package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"mocktest-engine/internal/domain"
)

// ExamRepository is an in-memory implementation of domain.ExamRepository.
// An exam becomes visible in one locked map write.
type ExamRepository struct {
	mu    sync.RWMutex
	exams map[string]*domain.GeneratedExam
}

func NewExamRepository() *ExamRepository {
	return &ExamRepository{exams: make(map[string]*domain.GeneratedExam)}
}

func (r *ExamRepository) Save(_ context.Context, exam *domain.GeneratedExam) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.exams[exam.ID]; exists {
		return fmt.Errorf("exam %s already exists", exam.ID)
	}
	r.exams[exam.ID] = cloneExam(exam)
	return nil
}

func (r *ExamRepository) GetByID(_ context.Context, id string) (*domain.GeneratedExam, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	exam, ok := r.exams[id]
	if !ok {
		return nil, nil
	}
	return cloneExam(exam), nil
}

func (r *ExamRepository) ExistsForBlueprint(_ context.Context, blueprintID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, exam := range r.exams {
		if exam.BlueprintID == blueprintID {
			return true, nil
		}
	}
	return false, nil
}

func (r *ExamRepository) ListRecentByCourse(_ context.Context, courseID string, limit int) ([]*domain.GeneratedExam, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []*domain.GeneratedExam
	for _, exam := range r.exams {
		if exam.CourseID == courseID {
			matched = append(matched, exam)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID > matched[j].ID
	})
	if limit < 0 {
		limit = 0
	}
	if len(matched) > limit {
		matched = matched[:limit]
	}

	out := make([]*domain.GeneratedExam, 0, len(matched))
	for _, exam := range matched {
		out = append(out, cloneExam(exam))
	}
	return out, nil
}

// Count returns the number of stored exams.
func (r *ExamRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.exams)
}

func cloneExam(e *domain.GeneratedExam) *domain.GeneratedExam {
	c := *e
	c.QuestionIDs = append([]string(nil), e.QuestionIDs...)
	c.Sections = append([]domain.Section(nil), e.Sections...)
	return &c
}
