package domain

import (
	"fmt"
	"strings"
	"time"
)

// Difficulty is an ordered difficulty level: easy < medium < hard.
type Difficulty int

const (
	DifficultyEasy   Difficulty = 1
	DifficultyMedium Difficulty = 2
	DifficultyHard   Difficulty = 3
)

// ParseDifficulty parses a difficulty label. Unknown labels are rejected.
func ParseDifficulty(s string) (Difficulty, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "easy":
		return DifficultyEasy, nil
	case "medium":
		return DifficultyMedium, nil
	case "hard":
		return DifficultyHard, nil
	default:
		return 0, fmt.Errorf("unknown difficulty %q", s)
	}
}

// DifficultyFromInt maps a stored level back to a Difficulty.
func DifficultyFromInt(level int) (Difficulty, error) {
	d := Difficulty(level)
	if !d.Valid() {
		return 0, fmt.Errorf("unknown difficulty level %d", level)
	}
	return d, nil
}

func (d Difficulty) Valid() bool {
	return d >= DifficultyEasy && d <= DifficultyHard
}

func (d Difficulty) String() string {
	switch d {
	case DifficultyEasy:
		return "easy"
	case DifficultyMedium:
		return "medium"
	case DifficultyHard:
		return "hard"
	default:
		return fmt.Sprintf("difficulty(%d)", int(d))
	}
}

func (d Difficulty) MarshalText() ([]byte, error) {
	if !d.Valid() {
		return nil, fmt.Errorf("unknown difficulty level %d", int(d))
	}
	return []byte(d.String()), nil
}

func (d *Difficulty) UnmarshalText(text []byte) error {
	parsed, err := ParseDifficulty(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Partition identifies one (subject, difficulty) group of the pool.
type Partition struct {
	Subject    string
	Difficulty Difficulty
}

func (p Partition) String() string {
	return p.Subject + "/" + p.Difficulty.String()
}

// Question is a single item of a course's question pool.
// Content is opaque to the engine.
type Question struct {
	ID         string
	CourseID   string
	Subject    string
	Topic      string
	Difficulty Difficulty
	Tags       []string
	Content    string
	CreatedAt  time.Time
	DeletedAt  *time.Time
}

// Partition returns the pool group the question belongs to.
func (q *Question) Partition() Partition {
	return Partition{Subject: q.Subject, Difficulty: q.Difficulty}
}

// Validate validates the question
func (q *Question) Validate() error {
	if q.ID == "" {
		return NewInvalidInputError("question id is required")
	}
	if q.CourseID == "" {
		return NewInvalidInputError("course id is required")
	}
	if q.Subject == "" {
		return NewInvalidInputError("subject is required")
	}
	if !q.Difficulty.Valid() {
		return NewInvalidInputError("difficulty must be easy, medium or hard")
	}
	return nil
}
