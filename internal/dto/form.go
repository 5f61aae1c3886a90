package dto

import "time"

// FormField is one rendered question, in render order.
// @Description One visible form field with its current value
type FormField struct {
	QuestionID string      `json:"question_id"`
	Section    string      `json:"section,omitempty"` // set on the first field of a new section
	Label      string      `json:"label"`
	HelpText   string      `json:"help_text,omitempty"`
	InputType  string      `json:"input_type"`
	Options    []string    `json:"options,omitempty"`
	Required   bool        `json:"required"` // requiredness under the current answers
	Value      interface{} `json:"value"`
	MinValue   string      `json:"min_value,omitempty"`
	MaxValue   string      `json:"max_value,omitempty"`
	Step       string      `json:"step,omitempty"`
}

// FormViewResponse is the rendered state of one form session.
// @Description Rendered form with visible fields and session identity
type FormViewResponse struct {
	SessionID  string      `json:"session_id"`
	Workstream int         `json:"workstream"`
	Title      string      `json:"title,omitempty"`
	Subtitle   string      `json:"subtitle,omitempty"`
	Fields     []FormField `json:"fields"`
	Passes     int         `json:"passes"`
}

// SaveAnswersRequest merges raw answer values into a render session.
// @Description Raw answers keyed by question_id
type SaveAnswersRequest struct {
	Answers map[string]interface{} `json:"answers"`
}

// SubmitRequest triggers validation and storage of a session's answers.
// @Description Submit trigger carrying the project context
type SubmitRequest struct {
	ProjectID string                 `json:"project_id"`
	Answers   map[string]interface{} `json:"answers,omitempty"` // final merge before the gate
}

// SubmitResponse reports a stored submission.
type SubmitResponse struct {
	SubmissionID string    `json:"submission_id"`
	ProjectID    string    `json:"project_id"`
	Workstream   string    `json:"workstream"`
	SubmittedAt  time.Time `json:"submitted_at"`
}
