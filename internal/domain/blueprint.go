package domain

import (
	"fmt"
	"strings"
	"time"
)

// Rule asks for Count questions of one (subject, difficulty) partition.
type Rule struct {
	Subject    string     `json:"subject"`
	Difficulty Difficulty `json:"difficulty"`
	Count      int        `json:"count"`
}

func (r Rule) Partition() Partition {
	return Partition{Subject: r.Subject, Difficulty: r.Difficulty}
}

// Blueprint is an operator-defined recipe for generating exams.
type Blueprint struct {
	ID             string
	CourseID       string
	Name           string
	TotalQuestions int
	Rules          []Rule
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// NewBlueprint creates a new Blueprint. A zero total is derived from the rule counts.
func NewBlueprint(courseID, name string, total int, rules []Rule) *Blueprint {
	now := time.Now()
	if total == 0 {
		for _, r := range rules {
			total += r.Count
		}
	}
	return &Blueprint{
		CourseID:       courseID,
		Name:           name,
		TotalQuestions: total,
		Rules:          rules,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// Validate checks the structural invariants of the blueprint.
// It does not look at the pool; availability is the sampler's concern.
func (b *Blueprint) Validate() error {
	if len(b.Rules) == 0 {
		return NewEmptyBlueprintError("blueprint has no rules")
	}
	if b.TotalQuestions <= 0 {
		return NewEmptyBlueprintError(fmt.Sprintf("blueprint total must be positive, got %d", b.TotalQuestions))
	}

	seen := make(map[Partition]int, len(b.Rules))
	sum := 0
	for i, r := range b.Rules {
		if strings.TrimSpace(r.Subject) == "" {
			return NewInvalidRuleError(i, "subject is required")
		}
		if !r.Difficulty.Valid() {
			return NewInvalidRuleError(i, "difficulty must be easy, medium or hard")
		}
		if r.Count <= 0 {
			return NewInvalidRuleError(i, fmt.Sprintf("count must be positive, got %d", r.Count))
		}
		if prev, dup := seen[r.Partition()]; dup {
			return NewInvalidRuleError(i, fmt.Sprintf("partition %s already covered by rule %d", r.Partition(), prev))
		}
		seen[r.Partition()] = i
		sum += r.Count
	}
	if sum != b.TotalQuestions {
		return NewError(CodeInvalidRule,
			fmt.Sprintf("rule counts sum to %d but blueprint total is %d", sum, b.TotalQuestions), nil).
			WithContext("rule_sum", sum).
			WithContext("total_questions", b.TotalQuestions)
	}
	return nil
}

// SingleSubject returns the subject shared by every rule, or "" when rules span subjects.
// SameRules reports whether both blueprints demand the same total and the same
// rules in the same order, which is everything a sampled exam depends on.
func (b *Blueprint) SameRules(other *Blueprint) bool {
	if other == nil || b.TotalQuestions != other.TotalQuestions || len(b.Rules) != len(other.Rules) {
		return false
	}
	for i := range b.Rules {
		if b.Rules[i] != other.Rules[i] {
			return false
		}
	}
	return true
}

func (b *Blueprint) SingleSubject() string {
	if len(b.Rules) == 0 {
		return ""
	}
	subject := b.Rules[0].Subject
	for _, r := range b.Rules[1:] {
		if r.Subject != subject {
			return ""
		}
	}
	return subject
}
