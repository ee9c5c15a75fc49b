package domain

import (
	"fmt"
	"time"
)

// Section records which slice of an exam's question sequence satisfies which rule.
type Section struct {
	Rule   Rule `json:"rule"`
	Offset int  `json:"offset"`
	Count  int  `json:"count"`
}

// Selection is the sampler's output: an ordered question sequence plus its section layout.
type Selection struct {
	Seed        uint64
	QuestionIDs []string
	Sections    []Section
}

// GeneratedExam is an immutable, frozen snapshot of one sampled exam.
type GeneratedExam struct {
	ID          string
	BlueprintID string
	CourseID    string
	Subject     string
	Seed        uint64
	QuestionIDs []string
	Sections    []Section
	CreatedAt   time.Time
}

// Verify re-checks the snapshot invariants against the blueprint it was drawn for.
func (e *GeneratedExam) Verify(bp *Blueprint) error {
	if len(e.QuestionIDs) != bp.TotalQuestions {
		return fmt.Errorf("exam has %d questions, blueprint requires %d", len(e.QuestionIDs), bp.TotalQuestions)
	}
	seen := make(map[string]struct{}, len(e.QuestionIDs))
	for _, id := range e.QuestionIDs {
		if _, dup := seen[id]; dup {
			return fmt.Errorf("question %s appears more than once", id)
		}
		seen[id] = struct{}{}
	}
	if len(e.Sections) != len(bp.Rules) {
		return fmt.Errorf("exam has %d sections, blueprint has %d rules", len(e.Sections), len(bp.Rules))
	}
	offset := 0
	for i, s := range e.Sections {
		if s.Rule != bp.Rules[i] {
			return fmt.Errorf("section %d does not match rule %d", i, i)
		}
		if s.Offset != offset || s.Count != bp.Rules[i].Count {
			return fmt.Errorf("section %d covers [%d,%d), want [%d,%d)", i, s.Offset, s.Offset+s.Count, offset, offset+bp.Rules[i].Count)
		}
		offset += s.Count
	}
	return nil
}

// SectionOf returns the index of the section holding position pos, or -1.
func (e *GeneratedExam) SectionOf(pos int) int {
	for i, s := range e.Sections {
		if pos >= s.Offset && pos < s.Offset+s.Count {
			return i
		}
	}
	return -1
}
