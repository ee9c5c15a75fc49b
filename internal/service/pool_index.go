package service

import (
	"fmt"
	"math/rand/v2"
	"sort"

	"mocktest-engine/internal/domain"
)

// PoolIndex is a read-only view of one course's question pool, grouped by
// (subject, difficulty). Questions are held once in an arena; groups refer to
// arena positions. Build a fresh index per request.
type PoolIndex struct {
	arena  []domain.Question
	byID   map[string]int
	groups map[domain.Partition][]int
}

// NewPoolIndex indexes the given questions. Deleted questions and repeated ids are skipped.
// Group members are ordered by id so a seeded draw is reproducible.
func NewPoolIndex(questions []*domain.Question) *PoolIndex {
	idx := &PoolIndex{
		arena:  make([]domain.Question, 0, len(questions)),
		byID:   make(map[string]int, len(questions)),
		groups: make(map[domain.Partition][]int),
	}
	for _, q := range questions {
		if q == nil || q.DeletedAt != nil {
			continue
		}
		if _, dup := idx.byID[q.ID]; dup {
			continue
		}
		pos := len(idx.arena)
		idx.arena = append(idx.arena, *q)
		idx.byID[q.ID] = pos
		idx.groups[q.Partition()] = append(idx.groups[q.Partition()], pos)
	}
	for p, members := range idx.groups {
		sort.Slice(members, func(i, j int) bool { return idx.arena[members[i]].ID < idx.arena[members[j]].ID })
		idx.groups[p] = members
	}
	return idx
}

// Len returns the number of indexed questions.
func (p *PoolIndex) Len() int {
	return len(p.arena)
}

// CountAvailable returns the size of the (subject, difficulty) group.
func (p *PoolIndex) CountAvailable(subject string, difficulty domain.Difficulty) int {
	return len(p.groups[domain.Partition{Subject: subject, Difficulty: difficulty}])
}

// Candidates returns the ids of the group that are not in exclude, in id order.
func (p *PoolIndex) Candidates(subject string, difficulty domain.Difficulty, exclude map[string]struct{}) []string {
	members := p.groups[domain.Partition{Subject: subject, Difficulty: difficulty}]
	ids := make([]string, 0, len(members))
	for _, pos := range members {
		id := p.arena[pos].ID
		if _, skip := exclude[id]; skip {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

// Sample draws n distinct candidate ids uniformly without replacement.
// The returned order is itself random.
func (p *PoolIndex) Sample(subject string, difficulty domain.Difficulty, n int, exclude map[string]struct{}, rng *rand.Rand) ([]string, error) {
	candidates := p.Candidates(subject, difficulty, exclude)
	if n < 0 || n > len(candidates) {
		return nil, fmt.Errorf("cannot draw %d questions from %d candidates of %s/%s", n, len(candidates), subject, difficulty)
	}
	// partial Fisher-Yates: the first n slots end up holding the draw
	for i := 0; i < n; i++ {
		j := i + rng.IntN(len(candidates)-i)
		candidates[i], candidates[j] = candidates[j], candidates[i]
	}
	return candidates[:n:n], nil
}

// Lookup resolves an id to its question.
func (p *PoolIndex) Lookup(id string) (domain.Question, bool) {
	pos, ok := p.byID[id]
	if !ok {
		return domain.Question{}, false
	}
	return p.arena[pos], true
}
