// Package seed loads question pools from JSON seed files.
package seed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"mocktest-engine/internal/domain"
	"mocktest-engine/internal/util"

	"go.uber.org/zap"
)

// SeedQuestion defines one question in the JSON seed file.
type SeedQuestion struct {
	ID         string   `json:"id"`
	Topic      string   `json:"topic"`
	Difficulty string   `json:"difficulty"`
	Tags       []string `json:"tags"`
	Content    string   `json:"content"`
}

// SeedSubject groups the questions of one subject.
type SeedSubject struct {
	Name      string         `json:"subject"`
	Questions []SeedQuestion `json:"questions"`
}

// SeedCourse is the top level entry of the seed file.
type SeedCourse struct {
	CourseID string        `json:"course_id"`
	Subjects []SeedSubject `json:"subjects"`
}

// Decode reads the seed file and flattens it into pool questions.
// Questions without an id get a fresh ULID.
func Decode(r io.Reader) ([]*domain.Question, error) {
	var courses []SeedCourse
	if err := json.NewDecoder(r).Decode(&courses); err != nil {
		return nil, fmt.Errorf("failed to decode seed data: %w", err)
	}

	now := time.Now().UTC()
	var out []*domain.Question
	for _, c := range courses {
		for _, s := range c.Subjects {
			for i, sq := range s.Questions {
				d, err := domain.ParseDifficulty(sq.Difficulty)
				if err != nil {
					return nil, fmt.Errorf("course %s subject %s question %d: %w", c.CourseID, s.Name, i, err)
				}
				q := &domain.Question{
					ID:         strings.TrimSpace(sq.ID),
					CourseID:   strings.TrimSpace(c.CourseID),
					Subject:    strings.TrimSpace(s.Name),
					Topic:      sq.Topic,
					Difficulty: d,
					Tags:       sq.Tags,
					Content:    sq.Content,
					CreatedAt:  now,
				}
				if q.ID == "" {
					q.ID = util.NewULID()
				}
				if err := q.Validate(); err != nil {
					return nil, fmt.Errorf("course %s subject %s question %d: %w", c.CourseID, s.Name, i, err)
				}
				out = append(out, q)
			}
		}
	}
	return out, nil
}

// Apply saves the questions course by course, one transaction per course.
// It returns the number of questions written.
func Apply(ctx context.Context, repo domain.QuestionRepository, tx domain.TransactionManager, questions []*domain.Question, log *zap.Logger) (int, error) {
	if log == nil {
		log = zap.NewNop()
	}
	byCourse := make(map[string][]*domain.Question)
	var order []string
	for _, q := range questions {
		if _, ok := byCourse[q.CourseID]; !ok {
			order = append(order, q.CourseID)
		}
		byCourse[q.CourseID] = append(byCourse[q.CourseID], q)
	}

	written := 0
	for _, courseID := range order {
		batch := byCourse[courseID]
		err := tx.WithTransaction(ctx, func(txCtx context.Context) error {
			return repo.SaveQuestions(txCtx, batch)
		})
		if err != nil {
			return written, fmt.Errorf("failed to seed course %s: %w", courseID, err)
		}
		written += len(batch)
		log.Info("Seeded course", zap.String("course_id", courseID), zap.Int("questions", len(batch)))
	}
	return written, nil
}
