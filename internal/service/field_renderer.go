package service

import (
	"project-tracker/internal/domain"
)

// valueRenderer is the production FieldRenderer: it replays the raw values
// stored for a session, falling back to each widget's default when the
// question has not been answered yet. This is the request/response
// restatement of widget state — the same session key always resolves to the
// same persisted answers, so repeated renders are idempotent.
type valueRenderer struct {
	values domain.AnswerSet
}

func newValueRenderer(values domain.AnswerSet) *valueRenderer {
	if values == nil {
		values = domain.AnswerSet{}
	}
	return &valueRenderer{values: values}
}

func (r *valueRenderer) Render(q domain.QuestionSpec, sessionKey string) interface{} {
	if v, ok := r.values[q.QuestionID]; ok {
		return v
	}
	return defaultValue(q)
}

// defaultValue mirrors widget initialization: select-style inputs default to
// their first option, checkboxes to false, numbers to their lower bound (or
// zero), text and dates to empty. Unrecognized input types are a no-op
// placeholder rendering to nil.
func defaultValue(q domain.QuestionSpec) interface{} {
	switch q.InputType {
	case domain.InputSelectbox, domain.InputRadio:
		if len(q.Options) > 0 {
			return q.Options[0]
		}
		return ""
	case domain.InputMultiselect:
		return []string{}
	case domain.InputTextInput, domain.InputTextArea, domain.InputDate:
		return ""
	case domain.InputCheckbox:
		return false
	case domain.InputNumber:
		if min, ok := q.MinInt(); ok {
			return min
		}
		return 0
	case domain.InputNumberFloat:
		if min, ok := q.MinFloat(); ok {
			return min
		}
		return 0.0
	default:
		return nil
	}
}
