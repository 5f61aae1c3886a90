package service

import (
	"context"
	"fmt"
	"time"

	"project-tracker/internal/config"
	"project-tracker/internal/domain"
	"project-tracker/internal/dto"
	"project-tracker/internal/engine"
	"project-tracker/internal/logger"
	"project-tracker/internal/repository"
	"project-tracker/internal/repository/models"
	"project-tracker/internal/util"

	"go.uber.org/zap"
)

// FormService drives the dynamic form engine for one workstream variant:
// rendering, answer collection, and the submit flow (validation gate →
// payload builder → storage insert).
type FormService interface {
	// StartSession creates a fresh render session and returns its first
	// rendered view.
	StartSession(ctx context.Context, workstream int) (*dto.FormViewResponse, error)

	// GetForm re-renders an existing session against its stored answers.
	GetForm(ctx context.Context, workstream int, sessionID string) (*dto.FormViewResponse, error)

	// SaveAnswers merges raw answer values into the session, then
	// re-renders. The whole multi-pass loop runs once per interaction.
	SaveAnswers(ctx context.Context, workstream int, sessionID string, values map[string]interface{}) (*dto.FormViewResponse, error)

	// Submit validates the session's converged answers and, if the gate
	// passes, stores one submission row with the caller's project context
	// merged in. The session is cleared on success and preserved on any
	// failure so the user can correct and resubmit.
	Submit(ctx context.Context, workstream int, sessionID string, userID string, req dto.SubmitRequest) (*dto.SubmitResponse, error)
}

type formServiceImpl struct {
	schemas     domain.SchemaSource
	sessions    SessionStore
	submissions repository.SubmissionRepository
	projects    repository.ProjectRepository
	maxPasses   int
}

// NewFormService creates a new instance of FormService.
func NewFormService(
	schemas domain.SchemaSource,
	sessions SessionStore,
	submissions repository.SubmissionRepository,
	projects repository.ProjectRepository,
	cfg *config.Config,
) FormService {
	maxPasses := engine.DefaultMaxPasses
	if cfg != nil && cfg.Form.MaxPasses > 0 {
		maxPasses = cfg.Form.MaxPasses
	}
	return &formServiceImpl{
		schemas:     schemas,
		sessions:    sessions,
		submissions: submissions,
		projects:    projects,
		maxPasses:   maxPasses,
	}
}

// SheetName maps a workstream number to its schema sheet.
func SheetName(workstream int) string {
	return fmt.Sprintf("WS%d", workstream)
}

func (s *formServiceImpl) StartSession(ctx context.Context, workstream int) (*dto.FormViewResponse, error) {
	return s.render(ctx, workstream, util.NewULID())
}

func (s *formServiceImpl) GetForm(ctx context.Context, workstream int, sessionID string) (*dto.FormViewResponse, error) {
	return s.render(ctx, workstream, sessionID)
}

func (s *formServiceImpl) SaveAnswers(ctx context.Context, workstream int, sessionID string, values map[string]interface{}) (*dto.FormViewResponse, error) {
	if len(values) > 0 {
		if err := s.sessions.Merge(ctx, sessionID, values); err != nil {
			return nil, domain.NewInternalError("failed to save session answers", err)
		}
	}
	return s.render(ctx, workstream, sessionID)
}

// render loads the schema, replays the session's stored answers through the
// convergence loop, and maps the result to the view DTO.
func (s *formServiceImpl) render(ctx context.Context, workstream int, sessionID string) (*dto.FormViewResponse, error) {
	schemaID := SheetName(workstream)
	specs, err := s.schemas.Load(ctx, schemaID)
	if err != nil {
		return nil, err
	}

	stored, err := s.sessions.Load(ctx, sessionID)
	if err != nil {
		return nil, domain.NewInternalError("failed to load session answers", err)
	}

	sess := engine.NewSession(sessionID)
	renderer := engine.NewRenderer(newValueRenderer(stored), s.maxPasses)
	fields, passes := renderer.Run(specs, sess)

	title, err := s.schemas.LoadTitle(ctx, schemaID)
	if err != nil {
		// A broken Titles sheet must not block rendering.
		logger.Get().Warn("Failed to load form title",
			zap.String("schema", schemaID), zap.Error(err))
		title = domain.FormTitle{}
	}

	view := &dto.FormViewResponse{
		SessionID:  sessionID,
		Workstream: workstream,
		Title:      title.Title,
		Subtitle:   title.Subtitle,
		Fields:     make([]dto.FormField, 0, len(fields)),
		Passes:     passes,
	}
	pendingSection := ""
	for _, f := range fields {
		if f.Section != "" {
			pendingSection = f.Section
		}
		if !f.Question.InputType.Known() {
			continue // no-op placeholder, but its section still opens here
		}
		section := pendingSection
		pendingSection = ""
		view.Fields = append(view.Fields, dto.FormField{
			QuestionID: f.Question.QuestionID,
			Section:    section,
			Label:      f.Question.Label,
			HelpText:   f.Question.HelpText,
			InputType:  string(f.Question.InputType),
			Options:    f.Question.Options,
			Required:   engine.IsRequiredNow(f.Question, sess.Answers),
			Value:      f.Value,
			MinValue:   f.Question.MinValue,
			MaxValue:   f.Question.MaxValue,
			Step:       f.Question.Step,
		})
	}
	return view, nil
}

func (s *formServiceImpl) Submit(ctx context.Context, workstream int, sessionID string, userID string, req dto.SubmitRequest) (*dto.SubmitResponse, error) {
	appLogger := logger.Get()
	schemaID := SheetName(workstream)

	specs, err := s.schemas.Load(ctx, schemaID)
	if err != nil {
		return nil, err
	}

	project, err := s.projects.GetByID(ctx, req.ProjectID)
	if err != nil {
		return nil, domain.NewInternalError("failed to load project", err)
	}
	if project == nil {
		return nil, domain.NewNotFoundError(fmt.Sprintf("Project not found: %s", req.ProjectID))
	}

	// Fold any last answers into the session before converging.
	if len(req.Answers) > 0 {
		if err := s.sessions.Merge(ctx, sessionID, req.Answers); err != nil {
			return nil, domain.NewInternalError("failed to save session answers", err)
		}
	}
	stored, err := s.sessions.Load(ctx, sessionID)
	if err != nil {
		return nil, domain.NewInternalError("failed to load session answers", err)
	}

	sess := engine.NewSession(sessionID)
	engine.NewRenderer(newValueRenderer(stored), s.maxPasses).Run(specs, sess)

	// The gate and the payload both see the final converged answer set.
	if missing := engine.Validate(specs, sess.Answers); len(missing) > 0 {
		return nil, domain.NewValidationFailedError(missing)
	}
	payload := engine.BuildPayload(specs, sess.Answers)

	title, err := s.schemas.LoadTitle(ctx, schemaID)
	if err != nil {
		title = domain.FormTitle{}
	}

	// Context fields are merged here, outside the engine: the call site owns
	// both the payload and the project context.
	sub := &models.Submission{
		ID:          util.NewULID(),
		ProjectID:   project.ID,
		Workstream:  schemaID,
		FormTitle:   util.StringToNullString(title.Title),
		Answers:     models.AnswersJSON(payload),
		UserID:      util.StringToNullString(userID),
		SubmittedAt: time.Now().UTC(),
	}

	if err := s.submissions.Insert(ctx, workstream, sub); err != nil {
		// Session answers stay put; the user may resubmit.
		appLogger.Error("Submission insert failed",
			zap.String("project_id", project.ID),
			zap.String("workstream", schemaID),
			zap.Error(err))
		return nil, domain.NewStorageFailureError(err)
	}

	if err := s.sessions.Clear(ctx, sessionID); err != nil {
		// The entry is stored; a lingering session is only a nuisance.
		appLogger.Warn("Failed to clear session after submit",
			zap.String("session_id", sessionID), zap.Error(err))
	}

	return &dto.SubmitResponse{
		SubmissionID: sub.ID,
		ProjectID:    sub.ProjectID,
		Workstream:   sub.Workstream,
		SubmittedAt:  sub.SubmittedAt,
	}, nil
}
