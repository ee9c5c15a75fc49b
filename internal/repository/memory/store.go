// Package memory provides in-process implementations of the domain repositories.
// They back the CLI's --memory mode and the service tests.
package memory

import (
	"context"
	"sync"
)

type txKey struct{}

// TransactionManager serializes transactional work against the memory store.
// Every memory write is a single locked step, so there is nothing to roll back.
type TransactionManager struct {
	mu sync.Mutex
}

func NewTransactionManager() *TransactionManager {
	return &TransactionManager{}
}

func (tm *TransactionManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(txKey{}) != nil {
		return fn(ctx)
	}
	tm.mu.Lock()
	defer tm.mu.Unlock()
	return fn(context.WithValue(ctx, txKey{}, true))
}

// Store bundles one instance of every memory repository.
type Store struct {
	Questions   *QuestionRepository
	Blueprints  *BlueprintRepository
	Exams       *ExamRepository
	RankTables  *RankTableRepository
	Attempts    *AttemptRepository
	Transaction *TransactionManager
}

func NewStore() *Store {
	return &Store{
		Questions:   NewQuestionRepository(),
		Blueprints:  NewBlueprintRepository(),
		Exams:       NewExamRepository(),
		RankTables:  NewRankTableRepository(),
		Attempts:    NewAttemptRepository(),
		Transaction: NewTransactionManager(),
	}
}
