package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"mocktest-engine/internal/domain"
	"mocktest-engine/internal/dto"
	"mocktest-engine/internal/repository/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)

func firstAttempt(id, student string, score float64, elapsed time.Duration, submitted time.Time) *domain.Attempt {
	return &domain.Attempt{
		ID: id, StudentID: student, StudentName: student, ExamID: "exam-1", CourseID: "c1",
		Score: score, Elapsed: elapsed, SubmittedAt: submitted, Version: 1,
	}
}

func TestLeaderboardService_RankOrdersAndCaches(t *testing.T) {
	ctx := context.Background()
	attempts := new(MockAttemptRepository)
	attempts.On("ListFirstAttempts", mock.Anything, domain.LeaderboardFilter{CourseID: "c1", SubjectID: "physics"}).
		Return([]*domain.Attempt{
			firstAttempt("a1", "A", 90, 120*time.Second, t0),
			firstAttempt("a2", "B", 90, 100*time.Second, t0.Add(time.Minute)),
			firstAttempt("a3", "C", 80, 50*time.Second, t0.Add(2*time.Minute)),
		}, nil)

	lbCache := new(MockLeaderboardCacheService)
	req := dto.LeaderboardRequest{CourseID: "c1", SubjectID: "physics"}
	lbCache.On("Get", mock.Anything, req).Return(nil, int64(2), ErrLeaderboardNotCached)
	lbCache.On("Put", mock.Anything, req, int64(2), mock.AnythingOfType("*dto.LeaderboardResponse")).Return(nil)

	svc := NewLeaderboardService(attempts, lbCache, nil)
	res, err := svc.Rank(ctx, dto.LeaderboardRequest{CourseID: " c1 ", SubjectID: "physics"})
	require.NoError(t, err)

	require.Len(t, res.Entries, 3)
	assert.Equal(t, "B", res.Entries[0].StudentID)
	assert.Equal(t, 1, res.Entries[0].Position)
	assert.Equal(t, int64(100_000), res.Entries[0].ElapsedMs)
	assert.Equal(t, "A", res.Entries[1].StudentID)
	assert.Equal(t, 2, res.Entries[1].Position)
	assert.Equal(t, "C", res.Entries[2].StudentID)
	assert.Equal(t, 3, res.Entries[2].Position)
	lbCache.AssertExpectations(t)
}

func TestLeaderboardService_LimitAppliesAfterRanking(t *testing.T) {
	attempts := new(MockAttemptRepository)
	attempts.On("ListFirstAttempts", mock.Anything, mock.Anything).Return([]*domain.Attempt{
		firstAttempt("a1", "A", 70, time.Second, t0),
		firstAttempt("a2", "B", 95, time.Second, t0),
		firstAttempt("a3", "C", 95, time.Second, t0),
		firstAttempt("a4", "D", 60, time.Second, t0),
	}, nil)

	svc := NewLeaderboardService(attempts, nil, nil)
	res, err := svc.Rank(context.Background(), dto.LeaderboardRequest{CourseID: "c1", Limit: 3})
	require.NoError(t, err)
	require.Len(t, res.Entries, 3)
	assert.Equal(t, []int{1, 1, 3}, []int{res.Entries[0].Position, res.Entries[1].Position, res.Entries[2].Position})
	assert.Equal(t, "A", res.Entries[2].StudentID)
}

func TestLeaderboardService_CacheHitSkipsStore(t *testing.T) {
	attempts := new(MockAttemptRepository)
	lbCache := new(MockLeaderboardCacheService)
	cached := &dto.LeaderboardResponse{CourseID: "c1", Entries: []dto.LeaderboardEntryResponse{
		{Position: 1, StudentID: "B"}, {Position: 2, StudentID: "A"},
	}}
	lbCache.On("Get", mock.Anything, dto.LeaderboardRequest{CourseID: "c1", Limit: 1}).Return(cached, int64(0), nil)

	res, err := NewLeaderboardService(attempts, lbCache, nil).Rank(context.Background(), dto.LeaderboardRequest{CourseID: "c1", Limit: 1})
	require.NoError(t, err)
	assert.Len(t, res.Entries, 1)
	assert.Len(t, cached.Entries, 2, "the cached view is not truncated in place")
	attempts.AssertNotCalled(t, "ListFirstAttempts", mock.Anything, mock.Anything)
}

func TestLeaderboardService_EmptyIsNotAnError(t *testing.T) {
	attempts := new(MockAttemptRepository)
	attempts.On("ListFirstAttempts", mock.Anything, mock.Anything).Return([]*domain.Attempt{}, nil)

	res, err := NewLeaderboardService(attempts, nil, nil).Rank(context.Background(), dto.LeaderboardRequest{CourseID: "c1", TenantID: "school-9"})
	require.NoError(t, err)
	assert.NotNil(t, res.Entries)
	assert.Empty(t, res.Entries)
	assert.Equal(t, "school-9", res.TenantID)
}

func TestLeaderboardService_Errors(t *testing.T) {
	attempts := new(MockAttemptRepository)
	svc := NewLeaderboardService(attempts, nil, nil)

	_, err := svc.Rank(context.Background(), dto.LeaderboardRequest{})
	assert.ErrorIs(t, err, domain.NewInvalidInputError(""))
	_, err = svc.Rank(context.Background(), dto.LeaderboardRequest{CourseID: "c1", Limit: -1})
	assert.ErrorIs(t, err, domain.NewInvalidInputError(""))

	attempts.On("ListFirstAttempts", mock.Anything, mock.Anything).Return(nil, errors.New("ORA-12541: TNS:no listener"))
	_, err = svc.Rank(context.Background(), dto.LeaderboardRequest{CourseID: "c1"})
	var de *domain.DomainError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, domain.CodeInternal, de.Code)
}

// interleavingAttempts runs during once, after the attempts have been read.
type interleavingAttempts struct {
	domain.AttemptRepository
	once   sync.Once
	during func()
}

func (r *interleavingAttempts) ListFirstAttempts(ctx context.Context, filter domain.LeaderboardFilter) ([]*domain.Attempt, error) {
	attempts, err := r.AttemptRepository.ListFirstAttempts(ctx, filter)
	r.once.Do(r.during)
	return attempts, err
}

func TestLeaderboardService_AttemptDuringRankIsNotHiddenByCache(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	seedExam(t, store)
	lbCache := NewLeaderboardCacheService(newMapCache(), time.Hour)

	attempts := NewAttemptService(store.Attempts, store.Exams, store.Transaction, lbCache, domain.RetakeSingle, nil)
	reads := &interleavingAttempts{AttemptRepository: store.Attempts}
	reads.during = func() {
		_, err := attempts.Record(ctx, "exam-1", &dto.RecordAttemptRequest{StudentID: "s1", Score: scorePtr(70)})
		assert.NoError(t, err)
	}
	board := NewLeaderboardService(reads, lbCache, nil)

	// computed from the attempts read before s1 committed
	first, err := board.Rank(ctx, dto.LeaderboardRequest{CourseID: "c1"})
	require.NoError(t, err)
	assert.Empty(t, first.Entries)

	got, err := board.Rank(ctx, dto.LeaderboardRequest{CourseID: "c1"})
	require.NoError(t, err)
	require.Len(t, got.Entries, 1)
	assert.Equal(t, "s1", got.Entries[0].StudentID)

	// and the fresh view is cached for the next reader
	again, err := board.Rank(ctx, dto.LeaderboardRequest{CourseID: "c1"})
	require.NoError(t, err)
	assert.Len(t, again.Entries, 1)
}
