package engine

import (
	"strings"

	"project-tracker/internal/domain"
)

// BuildPayload normalizes the converged answer set into a submission-ready
// mapping. Only questions visible under the final answers contribute a key;
// a question hidden by a later pass leaves no stale entry behind. Visible
// but empty answers are present with a nil value: multiselects join to a
// comma-space string or nil when empty, strings are trimmed with "" becoming
// nil, and every other scalar passes through unchanged (numeric zero is a
// value, not nil).
func BuildPayload(schema []domain.QuestionSpec, answers domain.AnswerSet) domain.SubmissionPayload {
	payload := domain.SubmissionPayload{}
	for _, q := range schema {
		if q.QuestionID == "" {
			continue
		}
		if !IsVisible(q, answers) {
			continue
		}
		payload[q.QuestionID] = normalizeValue(answers[q.QuestionID])
	}
	return payload
}

func normalizeValue(val interface{}) interface{} {
	switch v := val.(type) {
	case []string:
		if len(v) == 0 {
			return nil
		}
		return strings.Join(v, ", ")
	case []interface{}:
		if len(v) == 0 {
			return nil
		}
		parts := make([]string, len(v))
		for i, item := range v {
			parts[i] = domain.Stringify(item)
		}
		return strings.Join(parts, ", ")
	case string:
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			return nil
		}
		return trimmed
	default:
		return v
	}
}
