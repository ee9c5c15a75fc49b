package handler_test

import (
	"context"
	"io"

	"mocktest-engine/internal/dto"
)

// --- Manual Mocks ---

type MockExamService struct {
	CreateBlueprintFunc func(ctx context.Context, req *dto.CreateBlueprintRequest) (*dto.BlueprintResponse, error)
	GetBlueprintFunc    func(ctx context.Context, id string) (*dto.BlueprintResponse, error)
	UpdateBlueprintFunc func(ctx context.Context, id string, req *dto.UpdateBlueprintRequest) (*dto.BlueprintResponse, error)
	GenerateFunc        func(ctx context.Context, blueprintID string) (*dto.GenerateExamResponse, error)
	GetExamFunc         func(ctx context.Context, id string) (*dto.ExamResponse, error)
}

func (m *MockExamService) CreateBlueprint(ctx context.Context, req *dto.CreateBlueprintRequest) (*dto.BlueprintResponse, error) {
	if m.CreateBlueprintFunc != nil {
		return m.CreateBlueprintFunc(ctx, req)
	}
	panic("MockExamService.CreateBlueprintFunc not implemented")
}

func (m *MockExamService) GetBlueprint(ctx context.Context, id string) (*dto.BlueprintResponse, error) {
	if m.GetBlueprintFunc != nil {
		return m.GetBlueprintFunc(ctx, id)
	}
	panic("MockExamService.GetBlueprintFunc not implemented")
}

func (m *MockExamService) UpdateBlueprint(ctx context.Context, id string, req *dto.UpdateBlueprintRequest) (*dto.BlueprintResponse, error) {
	if m.UpdateBlueprintFunc != nil {
		return m.UpdateBlueprintFunc(ctx, id, req)
	}
	panic("MockExamService.UpdateBlueprintFunc not implemented")
}

func (m *MockExamService) Generate(ctx context.Context, blueprintID string) (*dto.GenerateExamResponse, error) {
	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, blueprintID)
	}
	panic("MockExamService.GenerateFunc not implemented")
}

func (m *MockExamService) GetExam(ctx context.Context, id string) (*dto.ExamResponse, error) {
	if m.GetExamFunc != nil {
		return m.GetExamFunc(ctx, id)
	}
	panic("MockExamService.GetExamFunc not implemented")
}

type MockRankService struct {
	UploadFunc       func(ctx context.Context, examID string, payload io.Reader) (*dto.RankTableUploadResponse, error)
	GetRankTableFunc func(ctx context.Context, examID string) (*dto.RankTableResponse, error)
	PredictRankFunc  func(ctx context.Context, examID string, score float64) (*dto.PredictedRankResponse, error)
}

func (m *MockRankService) Upload(ctx context.Context, examID string, payload io.Reader) (*dto.RankTableUploadResponse, error) {
	if m.UploadFunc != nil {
		return m.UploadFunc(ctx, examID, payload)
	}
	panic("MockRankService.UploadFunc not implemented")
}

func (m *MockRankService) GetRankTable(ctx context.Context, examID string) (*dto.RankTableResponse, error) {
	if m.GetRankTableFunc != nil {
		return m.GetRankTableFunc(ctx, examID)
	}
	panic("MockRankService.GetRankTableFunc not implemented")
}

func (m *MockRankService) PredictRank(ctx context.Context, examID string, score float64) (*dto.PredictedRankResponse, error) {
	if m.PredictRankFunc != nil {
		return m.PredictRankFunc(ctx, examID, score)
	}
	panic("MockRankService.PredictRankFunc not implemented")
}

type MockAttemptService struct {
	RecordFunc func(ctx context.Context, examID string, req *dto.RecordAttemptRequest) (*dto.AttemptResponse, error)
}

func (m *MockAttemptService) Record(ctx context.Context, examID string, req *dto.RecordAttemptRequest) (*dto.AttemptResponse, error) {
	if m.RecordFunc != nil {
		return m.RecordFunc(ctx, examID, req)
	}
	panic("MockAttemptService.RecordFunc not implemented")
}

type MockLeaderboardService struct {
	RankFunc func(ctx context.Context, req dto.LeaderboardRequest) (*dto.LeaderboardResponse, error)
}

func (m *MockLeaderboardService) Rank(ctx context.Context, req dto.LeaderboardRequest) (*dto.LeaderboardResponse, error) {
	if m.RankFunc != nil {
		return m.RankFunc(ctx, req)
	}
	panic("MockLeaderboardService.RankFunc not implemented")
}

// MockAuthService accepts "operator_token" and "student_token" when enabled.
type MockAuthService struct {
	Disabled bool
}

func (m *MockAuthService) Enabled() bool { return !m.Disabled }

func (m *MockAuthService) ValidateToken(_ context.Context, token string) (*dto.AuthClaims, error) {
	switch token {
	case "operator_token":
		return &dto.AuthClaims{UserID: "op-1", Role: dto.RoleOperator}, nil
	case "student_token":
		return &dto.AuthClaims{UserID: "s1", Role: dto.RoleStudent, TenantID: "school-7"}, nil
	}
	return nil, errInvalidToken
}
