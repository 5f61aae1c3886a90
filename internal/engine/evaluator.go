// Package engine implements the schema-driven form engine: visibility and
// requiredness evaluation, the convergent multi-pass renderer, the submit
// validation gate, and the payload builder.
package engine

import (
	"strings"

	"project-tracker/internal/domain"
)

// IsVisible reports whether a question is shown under the current answers.
// A question with no condition_field is always visible; otherwise it is
// visible iff the stringified answer for condition_field equals
// condition_value exactly. The spec side is trimmed at load time, the answer
// side is compared as given; that asymmetry comes from the schema contract
// and must not be "fixed" here.
func IsVisible(q domain.QuestionSpec, answers domain.AnswerSet) bool {
	if q.ConditionField == "" {
		return true
	}
	return answers.StringValue(q.ConditionField) == q.ConditionValue
}

// IsRequiredNow reports whether the question is currently mandatory:
// unconditionally when required is set, otherwise when the required_if
// condition matches. Depends only on the answers passed in, never on call
// history.
func IsRequiredNow(q domain.QuestionSpec, answers domain.AnswerSet) bool {
	if q.Required {
		return true
	}
	if q.RequiredIfField != "" {
		return answers.StringValue(q.RequiredIfField) == q.RequiredIfValue
	}
	return false
}

// IsEmpty reports whether a raw answer counts as unanswered: nil, a
// blank-after-trim string, or an empty sequence. Numeric zero and false are
// answers, not absences.
func IsEmpty(val interface{}) bool {
	switch v := val.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(v) == ""
	case []string:
		return len(v) == 0
	case []interface{}:
		return len(v) == 0
	}
	return false
}
