package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"project-tracker/internal/domain"
	"project-tracker/internal/dto"
	"project-tracker/internal/handler"
	"project-tracker/internal/middleware"
	"project-tracker/internal/util"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Manual Mocks ---

// MockFormService
type MockFormService struct {
	StartSessionFunc func(ctx context.Context, workstream int) (*dto.FormViewResponse, error)
	GetFormFunc      func(ctx context.Context, workstream int, sessionID string) (*dto.FormViewResponse, error)
	SaveAnswersFunc  func(ctx context.Context, workstream int, sessionID string, values map[string]interface{}) (*dto.FormViewResponse, error)
	SubmitFunc       func(ctx context.Context, workstream int, sessionID string, userID string, req dto.SubmitRequest) (*dto.SubmitResponse, error)
}

func (m *MockFormService) StartSession(ctx context.Context, workstream int) (*dto.FormViewResponse, error) {
	if m.StartSessionFunc != nil {
		return m.StartSessionFunc(ctx, workstream)
	}
	panic("MockFormService.StartSessionFunc not implemented")
}

func (m *MockFormService) GetForm(ctx context.Context, workstream int, sessionID string) (*dto.FormViewResponse, error) {
	if m.GetFormFunc != nil {
		return m.GetFormFunc(ctx, workstream, sessionID)
	}
	panic("MockFormService.GetFormFunc not implemented")
}

func (m *MockFormService) SaveAnswers(ctx context.Context, workstream int, sessionID string, values map[string]interface{}) (*dto.FormViewResponse, error) {
	if m.SaveAnswersFunc != nil {
		return m.SaveAnswersFunc(ctx, workstream, sessionID, values)
	}
	panic("MockFormService.SaveAnswersFunc not implemented")
}

func (m *MockFormService) Submit(ctx context.Context, workstream int, sessionID string, userID string, req dto.SubmitRequest) (*dto.SubmitResponse, error) {
	if m.SubmitFunc != nil {
		return m.SubmitFunc(ctx, workstream, sessionID, userID, req)
	}
	panic("MockFormService.SubmitFunc not implemented")
}

// newFormApp wires the form routes the way main does, with the auth
// middleware replaced by a stub that injects a fixed user.
func newFormApp(svc *MockFormService) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler()})
	h := handler.NewFormHandler(svc)
	vm := middleware.NewValidationMiddleware()

	auth := func(c *fiber.Ctx) error {
		c.Locals(middleware.UserIDKey, "user-1")
		return c.Next()
	}

	forms := app.Group("/api/forms", auth)
	forms.Post("/:workstream/sessions", vm.ValidateWorkstream(), h.StartSession)
	forms.Get("/:workstream/sessions/:sessionID", vm.ValidateWorkstream(), vm.ValidateSessionID(), h.GetForm)
	forms.Put("/:workstream/sessions/:sessionID", vm.ValidateWorkstream(), vm.ValidateSessionID(), h.SaveAnswers)
	forms.Post("/:workstream/sessions/:sessionID/submit", vm.ValidateWorkstream(), vm.ValidateSessionID(), h.Submit)
	return app
}

func TestFormHandler_StartSession(t *testing.T) {
	svc := &MockFormService{
		StartSessionFunc: func(ctx context.Context, workstream int) (*dto.FormViewResponse, error) {
			assert.Equal(t, 2, workstream)
			return &dto.FormViewResponse{SessionID: "sess-1", Workstream: workstream, Passes: 2}, nil
		},
	}
	app := newFormApp(svc)

	req := httptest.NewRequest("POST", "/api/forms/2/sessions", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var view dto.FormViewResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&view))
	assert.Equal(t, "sess-1", view.SessionID)
}

func TestFormHandler_StartSessionBadWorkstream(t *testing.T) {
	app := newFormApp(&MockFormService{})

	for _, path := range []string{"/api/forms/0/sessions", "/api/forms/9/sessions", "/api/forms/abc/sessions"} {
		req := httptest.NewRequest("POST", path, nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode, path)
	}
}

func TestFormHandler_SaveAnswers(t *testing.T) {
	sessionID := util.NewULID()
	svc := &MockFormService{
		SaveAnswersFunc: func(ctx context.Context, workstream int, sid string, values map[string]interface{}) (*dto.FormViewResponse, error) {
			assert.Equal(t, sessionID, sid)
			assert.Equal(t, "Delayed", values["status"])
			return &dto.FormViewResponse{SessionID: sid, Workstream: workstream}, nil
		},
	}
	app := newFormApp(svc)

	body, _ := json.Marshal(dto.SaveAnswersRequest{Answers: map[string]interface{}{"status": "Delayed"}})
	req := httptest.NewRequest("PUT", "/api/forms/1/sessions/"+sessionID, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestFormHandler_SaveAnswersRejectsBadSessionID(t *testing.T) {
	app := newFormApp(&MockFormService{})

	body, _ := json.Marshal(dto.SaveAnswersRequest{Answers: map[string]interface{}{"status": "x"}})
	req := httptest.NewRequest("PUT", "/api/forms/1/sessions/not-a-ulid", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestFormHandler_SubmitValidationFailure(t *testing.T) {
	sessionID := util.NewULID()
	svc := &MockFormService{
		SubmitFunc: func(ctx context.Context, workstream int, sid string, userID string, req dto.SubmitRequest) (*dto.SubmitResponse, error) {
			assert.Equal(t, "user-1", userID)
			return nil, domain.NewValidationFailedError([]string{"Reason for delay"})
		},
	}
	app := newFormApp(svc)

	body, _ := json.Marshal(dto.SubmitRequest{ProjectID: "b5c2a6d8-1e50-4ab9-98f1-3a7c2d1e0f44"})
	req := httptest.NewRequest("POST", "/api/forms/1/sessions/"+sessionID+"/submit", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	raw, _ := io.ReadAll(resp.Body)
	var errResp middleware.ErrorResponse
	require.NoError(t, json.Unmarshal(raw, &errResp))
	assert.Equal(t, "VALIDATION_FAILED", errResp.Code)
	assert.Contains(t, errResp.Details, "missing_fields")
}

func TestFormHandler_SubmitStorageFailure(t *testing.T) {
	sessionID := util.NewULID()
	svc := &MockFormService{
		SubmitFunc: func(ctx context.Context, workstream int, sid string, userID string, req dto.SubmitRequest) (*dto.SubmitResponse, error) {
			return nil, domain.NewStorageFailureError(errors.New("insert failed"))
		},
	}
	app := newFormApp(svc)

	body, _ := json.Marshal(dto.SubmitRequest{ProjectID: "b5c2a6d8-1e50-4ab9-98f1-3a7c2d1e0f44"})
	req := httptest.NewRequest("POST", "/api/forms/1/sessions/"+sessionID+"/submit", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadGateway, resp.StatusCode)
}
