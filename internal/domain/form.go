package domain

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// InputType tags how a question is presented and answered.
// The set is closed: adding a widget means adding a constant here and a
// branch in the field renderer's dispatch, never subclassing.
type InputType string

const (
	InputSelectbox   InputType = "selectbox"
	InputRadio       InputType = "radio"
	InputMultiselect InputType = "multiselect"
	InputTextInput   InputType = "text_input"
	InputTextArea    InputType = "text_area"
	InputCheckbox    InputType = "checkbox"
	InputNumber      InputType = "number"
	InputNumberFloat InputType = "number_float"
	InputDate        InputType = "date"
)

// Known reports whether the input type is part of the recognized set.
// Unrecognized tags (including the "header" pseudo-rows some schema sheets
// carry) are rendered as a no-op placeholder, not treated as an error.
func (t InputType) Known() bool {
	switch t {
	case InputSelectbox, InputRadio, InputMultiselect, InputTextInput,
		InputTextArea, InputCheckbox, InputNumber, InputNumberFloat, InputDate:
		return true
	}
	return false
}

// QuestionSpec is one row of a form schema. All string fields are trimmed at
// load time; the answer side of condition comparisons is deliberately not
// trimmed (see IsVisible in the engine package).
type QuestionSpec struct {
	QuestionID string
	Section    string
	Label      string
	HelpText   string
	InputType  InputType
	Options    []string

	Required        bool
	ConditionField  string
	ConditionValue  string
	RequiredIfField string
	RequiredIfValue string

	// Numeric bounds are kept as the raw schema strings and parsed per
	// input type on demand; absent or unparsable bounds are omitted, not zero.
	MinValue string
	MaxValue string
	Step     string
}

// MinInt returns the integer lower bound, if one parses.
func (q QuestionSpec) MinInt() (int, bool) { return parseIntBound(q.MinValue) }

// MaxInt returns the integer upper bound, if one parses.
func (q QuestionSpec) MaxInt() (int, bool) { return parseIntBound(q.MaxValue) }

// StepInt returns the integer step, defaulting to 1.
func (q QuestionSpec) StepInt() int {
	if v, ok := parseIntBound(q.Step); ok && v != 0 {
		return v
	}
	return 1
}

// MinFloat returns the float lower bound, if one parses.
func (q QuestionSpec) MinFloat() (float64, bool) { return parseFloatBound(q.MinValue) }

// MaxFloat returns the float upper bound, if one parses.
func (q QuestionSpec) MaxFloat() (float64, bool) { return parseFloatBound(q.MaxValue) }

// StepFloat returns the float step, defaulting to 0.1.
func (q QuestionSpec) StepFloat() float64 {
	if v, ok := parseFloatBound(q.Step); ok && v != 0 {
		return v
	}
	return 0.1
}

func parseIntBound(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	// Schema cells sometimes hold "3.0"; accept the float form too.
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int(f), true
	}
	return 0, false
}

func parseFloatBound(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" || s == "None" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// AnswerSet maps question_id to the raw value collected for it. It grows
// monotonically during a render run and never holds entries for questions
// that have not been rendered yet.
type AnswerSet map[string]interface{}

// StringValue returns the stringified answer for a question id, with missing
// keys and nil values read as the empty string. Conditions compare these
// stringifications exactly; numeric-looking values stay text.
func (a AnswerSet) StringValue(questionID string) string {
	return Stringify(a[questionID])
}

// Stringify converts a raw answer value to the string form used by
// condition comparisons and exports.
func Stringify(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case []string:
		return strings.Join(val, ", ")
	default:
		return fmt.Sprintf("%v", val)
	}
}

// SubmissionPayload is the normalized answer mapping handed to storage.
// Keys are exactly the question_ids visible at submit time; hidden questions
// are absent entirely, never present with a nil value.
type SubmissionPayload map[string]interface{}

// FormTitle carries the display header for one form variant.
type FormTitle struct {
	Title    string
	Subtitle string
}

// SchemaSource is the port for the tabular schema backing a form variant.
type SchemaSource interface {
	// Load returns the ordered question rows for a schema identifier.
	// It fails with a SCHEMA_NOT_FOUND domain error if the schema is absent.
	Load(ctx context.Context, schemaID string) ([]QuestionSpec, error)

	// LoadTitle returns the form header for a schema identifier. A missing
	// header is not an error; the zero FormTitle is returned instead.
	LoadTitle(ctx context.Context, schemaID string) (FormTitle, error)
}

// FieldRenderer is the presentation collaborator. Render is called once per
// question per render run and must be idempotent under repeated identical
// calls: the same session key addresses the same persisted widget state
// across passes and redraws.
type FieldRenderer interface {
	Render(q QuestionSpec, sessionKey string) interface{}
}
