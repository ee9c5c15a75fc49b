package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"mocktest-engine/internal/domain"
)

// QuestionRepository is an in-memory implementation of domain.QuestionRepository.
type QuestionRepository struct {
	mu        sync.RWMutex
	questions map[string]*domain.Question
}

func NewQuestionRepository(questions ...*domain.Question) *QuestionRepository {
	r := &QuestionRepository{questions: make(map[string]*domain.Question)}
	_ = r.SaveQuestions(context.Background(), questions)
	return r
}

func (r *QuestionRepository) ListByCourse(_ context.Context, courseID string) ([]*domain.Question, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.Question, 0)
	for _, q := range r.questions {
		if q.CourseID == courseID && q.DeletedAt == nil {
			out = append(out, cloneQuestion(q))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *QuestionRepository) SaveQuestions(_ context.Context, questions []*domain.Question) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, q := range questions {
		c := cloneQuestion(q)
		if c.CreatedAt.IsZero() {
			c.CreatedAt = time.Now()
		}
		r.questions[c.ID] = c
	}
	return nil
}

func (r *QuestionRepository) SoftDelete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	q, ok := r.questions[id]
	if !ok {
		return fmt.Errorf("question %s not found", id)
	}
	if q.DeletedAt == nil {
		now := time.Now()
		q.DeletedAt = &now
	}
	return nil
}

func cloneQuestion(q *domain.Question) *domain.Question {
	c := *q
	c.Tags = append([]string(nil), q.Tags...)
	if q.DeletedAt != nil {
		t := *q.DeletedAt
		c.DeletedAt = &t
	}
	return &c
}
