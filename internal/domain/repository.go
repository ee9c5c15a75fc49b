package domain

import "context"

// TransactionManager runs fn inside one store transaction. Repositories called with
// the ctx passed to fn take part in that transaction.
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// QuestionRepository defines the interface for question pool persistence
type QuestionRepository interface {
	// ListByCourse returns every non-deleted question of the course.
	ListByCourse(ctx context.Context, courseID string) ([]*Question, error)

	// SaveQuestions inserts or replaces questions.
	SaveQuestions(ctx context.Context, questions []*Question) error

	// SoftDelete removes a question from the pool without losing its history.
	SoftDelete(ctx context.Context, id string) error
}

// BlueprintRepository defines the interface for blueprint persistence
type BlueprintRepository interface {
	Create(ctx context.Context, bp *Blueprint) error
	// GetByID returns nil, nil when the blueprint does not exist.
	GetByID(ctx context.Context, id string) (*Blueprint, error)
	// GetForUpdate reads the blueprint and holds a write lock on it until the
	// surrounding transaction ends. Generation and update both take it, so an update
	// can never slip between sampling a blueprint and saving the exam that uses it.
	GetForUpdate(ctx context.Context, id string) (*Blueprint, error)
	// Update replaces name, total and rules of an existing blueprint.
	Update(ctx context.Context, bp *Blueprint) error
}

// ExamRepository defines the interface for generated exam persistence
type ExamRepository interface {
	// Save writes the exam header and its question rows.
	Save(ctx context.Context, exam *GeneratedExam) error
	// GetByID returns nil, nil when the exam does not exist.
	GetByID(ctx context.Context, id string) (*GeneratedExam, error)
	// ExistsForBlueprint reports whether any exam references the blueprint.
	ExistsForBlueprint(ctx context.Context, blueprintID string) (bool, error)
	// ListRecentByCourse returns the newest exams of a course, newest first.
	ListRecentByCourse(ctx context.Context, courseID string, limit int) ([]*GeneratedExam, error)
}

// RankTableRepository defines the interface for rank table persistence
type RankTableRepository interface {
	// Replace swaps the whole table of an exam and returns the stored version.
	Replace(ctx context.Context, table *RankTable) (int, error)
	// Get returns nil, nil when the exam has no table.
	Get(ctx context.Context, examID string) (*RankTable, error)
}

// AttemptRepository defines the interface for attempt persistence
type AttemptRepository interface {
	Create(ctx context.Context, attempt *Attempt) error
	// LatestVersion returns 0 when the student has no attempt for the exam.
	LatestVersion(ctx context.Context, examID, studentID string) (int, error)
	// ListFirstAttempts returns the Version 1 attempts matching the filter.
	ListFirstAttempts(ctx context.Context, filter LeaderboardFilter) ([]*Attempt, error)
}
