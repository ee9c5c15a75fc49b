package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"mocktest-engine/internal/domain"
	"mocktest-engine/internal/dto"
	"mocktest-engine/internal/handler"
	"mocktest-engine/internal/middleware"
	"mocktest-engine/internal/util"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errInvalidToken = errors.New("token signature is invalid")

type testServices struct {
	exams       *MockExamService
	ranks       *MockRankService
	attempts    *MockAttemptService
	leaderboard *MockLeaderboardService
	auth        *MockAuthService
}

func newTestApp(s testServices) *fiber.App {
	if s.exams == nil {
		s.exams = &MockExamService{}
	}
	if s.ranks == nil {
		s.ranks = &MockRankService{}
	}
	if s.attempts == nil {
		s.attempts = &MockAttemptService{}
	}
	if s.leaderboard == nil {
		s.leaderboard = &MockLeaderboardService{}
	}
	if s.auth == nil {
		s.auth = &MockAuthService{}
	}
	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler()})
	handler.RegisterRoutes(app, handler.Handlers{
		Blueprints:  handler.NewBlueprintHandler(s.exams),
		Exams:       handler.NewExamHandler(s.exams, s.ranks, s.attempts),
		Leaderboard: handler.NewLeaderboardHandler(s.leaderboard),
	}, s.auth)
	return app
}

func doRequest(t *testing.T, app *fiber.App, method, path, token string, body interface{}) *http.Response {
	t.Helper()
	var reader io.Reader
	contentType := ""
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
		contentType = "text/plain"
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
		contentType = "application/json"
	}
	req := httptest.NewRequest(method, path, reader)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func TestCreateBlueprint(t *testing.T) {
	var got *dto.CreateBlueprintRequest
	exams := &MockExamService{
		CreateBlueprintFunc: func(ctx context.Context, req *dto.CreateBlueprintRequest) (*dto.BlueprintResponse, error) {
			got = req
			return &dto.BlueprintResponse{ID: "bp-1", CourseID: req.CourseID, Name: req.Name}, nil
		},
	}
	app := newTestApp(testServices{exams: exams})

	body := dto.CreateBlueprintRequest{
		CourseID: "neet-2026",
		Name:     "Physics drill",
		Rules:    []dto.RuleRequest{{Subject: "physics", Difficulty: "easy", Count: 5}},
	}
	resp := doRequest(t, app, "POST", "/api/blueprints", "operator_token", body)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
	var res dto.BlueprintResponse
	decode(t, resp, &res)
	assert.Equal(t, "bp-1", res.ID)
	require.NotNil(t, got)
	assert.Equal(t, 5, got.Rules[0].Count)
}

func TestCreateBlueprint_RequiresOperator(t *testing.T) {
	app := newTestApp(testServices{})
	body := dto.CreateBlueprintRequest{CourseID: "c1", Rules: []dto.RuleRequest{{Subject: "physics", Difficulty: "easy", Count: 1}}}

	assert.Equal(t, fiber.StatusUnauthorized, doRequest(t, app, "POST", "/api/blueprints", "", body).StatusCode)
	assert.Equal(t, fiber.StatusForbidden, doRequest(t, app, "POST", "/api/blueprints", "student_token", body).StatusCode)
}

func TestCreateBlueprint_ValidationAndDomainErrors(t *testing.T) {
	exams := &MockExamService{
		CreateBlueprintFunc: func(ctx context.Context, req *dto.CreateBlueprintRequest) (*dto.BlueprintResponse, error) {
			return nil, domain.NewEmptyBlueprintError("blueprint has no rules")
		},
	}
	app := newTestApp(testServices{exams: exams})

	resp := doRequest(t, app, "POST", "/api/blueprints", "operator_token", dto.CreateBlueprintRequest{})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	var verr middleware.ValidationErrorResponse
	decode(t, resp, &verr)
	assert.Equal(t, "course_id", verr.Errors[0].Field)

	resp = doRequest(t, app, "POST", "/api/blueprints", "operator_token", dto.CreateBlueprintRequest{CourseID: "c1"})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	var derr middleware.ErrorResponse
	decode(t, resp, &derr)
	assert.Equal(t, string(domain.CodeEmptyBlueprint), derr.Code)

	resp = doRequest(t, app, "POST", "/api/blueprints", "operator_token", "{not json")
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestGenerate(t *testing.T) {
	bpID := util.NewULID()
	exams := &MockExamService{
		GenerateFunc: func(ctx context.Context, blueprintID string) (*dto.GenerateExamResponse, error) {
			assert.Equal(t, bpID, blueprintID)
			return &dto.GenerateExamResponse{ExamID: "exam-1", QuestionCount: 10, Seed: "42"}, nil
		},
	}
	app := newTestApp(testServices{exams: exams})

	resp := doRequest(t, app, "POST", "/api/blueprints/"+bpID+"/generate", "operator_token", nil)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
	var res dto.GenerateExamResponse
	decode(t, resp, &res)
	assert.Equal(t, 10, res.QuestionCount)
	assert.Equal(t, "42", res.Seed)

	resp = doRequest(t, app, "POST", "/api/blueprints/not-an-id/generate", "operator_token", nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestGenerate_InsufficientPool(t *testing.T) {
	exams := &MockExamService{
		GenerateFunc: func(ctx context.Context, blueprintID string) (*dto.GenerateExamResponse, error) {
			return nil, domain.NewInsufficientPoolError([]domain.Shortfall{
				{RuleIndex: 0, Subject: "physics", Difficulty: domain.DifficultyHard, Requested: 8, Available: 3, Missing: 5},
			})
		},
	}
	app := newTestApp(testServices{exams: exams})

	resp := doRequest(t, app, "POST", "/api/blueprints/"+util.NewULID()+"/generate", "operator_token", nil)
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
	var body middleware.ErrorResponse
	decode(t, resp, &body)
	assert.Equal(t, string(domain.CodeInsufficientPool), body.Code)
	assert.EqualValues(t, 5, body.Details["shortfall"])
}

func TestUpdateBlueprint_Locked(t *testing.T) {
	exams := &MockExamService{
		UpdateBlueprintFunc: func(ctx context.Context, id string, req *dto.UpdateBlueprintRequest) (*dto.BlueprintResponse, error) {
			return nil, domain.NewBlueprintLockedError(id)
		},
	}
	app := newTestApp(testServices{exams: exams})
	body := dto.UpdateBlueprintRequest{Rules: []dto.RuleRequest{{Subject: "physics", Difficulty: "easy", Count: 1}}}
	resp := doRequest(t, app, "PUT", "/api/blueprints/"+util.NewULID(), "operator_token", body)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
}

func TestUploadRankTable(t *testing.T) {
	examID := util.NewULID()
	ranks := &MockRankService{
		UploadFunc: func(ctx context.Context, id string, payload io.Reader) (*dto.RankTableUploadResponse, error) {
			raw, err := io.ReadAll(payload)
			require.NoError(t, err)
			assert.Equal(t, "40,5000\n60,2000\n", string(raw))
			return &dto.RankTableUploadResponse{ExamID: id, Points: 2, Version: 1}, nil
		},
	}
	app := newTestApp(testServices{ranks: ranks})

	resp := doRequest(t, app, "PUT", "/api/exams/"+examID+"/rank-table", "operator_token", "40,5000\n60,2000\n")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	var res dto.RankTableUploadResponse
	decode(t, resp, &res)
	assert.Equal(t, 2, res.Points)

	resp = doRequest(t, app, "PUT", "/api/exams/"+examID+"/rank-table", "operator_token", "  ")
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestUploadRankTable_MalformedRowsAreReported(t *testing.T) {
	ranks := &MockRankService{
		UploadFunc: func(ctx context.Context, id string, payload io.Reader) (*dto.RankTableUploadResponse, error) {
			return nil, domain.NewMalformedRankTableError("1 rank table rows are malformed",
				[]domain.RowError{{Line: 2, Raw: "sixty,2000", Reason: "marks is not a number"}})
		},
	}
	app := newTestApp(testServices{ranks: ranks})

	resp := doRequest(t, app, "PUT", "/api/exams/"+util.NewULID()+"/rank-table", "operator_token", "40,5000\nsixty,2000\n")
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	var body middleware.ErrorResponse
	decode(t, resp, &body)
	assert.Equal(t, string(domain.CodeMalformedRankTable), body.Code)
	assert.Len(t, body.Details["rows"], 1)
}

func TestPredictRank(t *testing.T) {
	examID := util.NewULID()
	ranks := &MockRankService{
		PredictRankFunc: func(ctx context.Context, id string, score float64) (*dto.PredictedRankResponse, error) {
			if score == 10 {
				return nil, domain.NewNoRankTableError(id)
			}
			return &dto.PredictedRankResponse{ExamID: id, Score: score, PredictedRank: 3500, TableVersion: 1}, nil
		},
	}
	app := newTestApp(testServices{ranks: ranks})

	resp := doRequest(t, app, "GET", "/api/exams/"+examID+"/predicted-rank?score=50", "", nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	var res dto.PredictedRankResponse
	decode(t, resp, &res)
	assert.Equal(t, 3500, res.PredictedRank)

	resp = doRequest(t, app, "GET", "/api/exams/"+examID+"/predicted-rank?score=10", "", nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp = doRequest(t, app, "GET", "/api/exams/"+examID+"/predicted-rank", "", nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestRecordAttempt_StudentClaims(t *testing.T) {
	examID := util.NewULID()
	var got *dto.RecordAttemptRequest
	attempts := &MockAttemptService{
		RecordFunc: func(ctx context.Context, id string, req *dto.RecordAttemptRequest) (*dto.AttemptResponse, error) {
			got = req
			return &dto.AttemptResponse{ID: "a1", ExamID: id, StudentID: req.StudentID, Score: *req.Score, Version: 1, SubmittedAt: time.Now()}, nil
		},
	}
	app := newTestApp(testServices{attempts: attempts})
	score := 71.0

	resp := doRequest(t, app, "POST", "/api/exams/"+examID+"/attempts", "student_token", dto.RecordAttemptRequest{Score: &score, ElapsedMs: 1000})
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
	require.NotNil(t, got)
	assert.Equal(t, "s1", got.StudentID)
	assert.Equal(t, "school-7", got.TenantID)

	resp = doRequest(t, app, "POST", "/api/exams/"+examID+"/attempts", "student_token", dto.RecordAttemptRequest{StudentID: "s2", Score: &score})
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestRecordAttempt_Conflict(t *testing.T) {
	attempts := &MockAttemptService{
		RecordFunc: func(ctx context.Context, id string, req *dto.RecordAttemptRequest) (*dto.AttemptResponse, error) {
			return nil, domain.NewAttemptExistsError(req.StudentID, id)
		},
	}
	app := newTestApp(testServices{attempts: attempts})
	score := 50.0
	resp := doRequest(t, app, "POST", "/api/exams/"+util.NewULID()+"/attempts", "operator_token", dto.RecordAttemptRequest{StudentID: "s1", Score: &score})
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
}

func TestGetLeaderboard(t *testing.T) {
	var got dto.LeaderboardRequest
	lb := &MockLeaderboardService{
		RankFunc: func(ctx context.Context, req dto.LeaderboardRequest) (*dto.LeaderboardResponse, error) {
			got = req
			return &dto.LeaderboardResponse{CourseID: req.CourseID, Entries: []dto.LeaderboardEntryResponse{}}, nil
		},
	}
	app := newTestApp(testServices{leaderboard: lb})

	resp := doRequest(t, app, "GET", "/api/leaderboard?course_id=c1&subject=physics&limit=10", "", nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	var res dto.LeaderboardResponse
	decode(t, resp, &res)
	assert.NotNil(t, res.Entries)
	assert.Equal(t, dto.LeaderboardRequest{CourseID: "c1", SubjectID: "physics", Limit: 10}, got)

	resp = doRequest(t, app, "GET", "/api/leaderboard", "", nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestHealth(t *testing.T) {
	app := fiber.New()
	healthy := handler.NewHealthHandler(map[string]handler.HealthCheck{
		"store": func(ctx context.Context) error { return nil },
		"cache": nil,
	})
	app.Get("/healthz", healthy.Health)
	resp := doRequest(t, app, "GET", "/healthz", "", nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	var res handler.HealthResponse
	decode(t, resp, &res)
	assert.Equal(t, map[string]string{"store": "ok"}, res.Checks)

	app = fiber.New()
	degraded := handler.NewHealthHandler(map[string]handler.HealthCheck{
		"store": func(ctx context.Context) error { return nil },
		"cache": func(ctx context.Context) error { return errors.New("dial tcp: connection refused") },
	})
	app.Get("/healthz", degraded.Health)
	resp = doRequest(t, app, "GET", "/healthz", "", nil)
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)
	decode(t, resp, &res)
	assert.Equal(t, "degraded", res.Status)
}
