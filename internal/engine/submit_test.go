package engine

import (
	"testing"

	"project-tracker/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildPayloadNormalization(t *testing.T) {
	schema := []domain.QuestionSpec{
		{QuestionID: "multi"},
		{QuestionID: "multi_empty"},
		{QuestionID: "text"},
		{QuestionID: "text_blank"},
		{QuestionID: "num"},
		{QuestionID: "flag"},
	}
	answers := domain.AnswerSet{
		"multi":       []string{"a", "b"},
		"multi_empty": []string{},
		"text":        "  hello  ",
		"text_blank":  "   ",
		"num":         0,
		"flag":        false,
	}

	payload := BuildPayload(schema, answers)

	assert.Equal(t, "a, b", payload["multi"])
	assert.Nil(t, payload["multi_empty"])
	assert.Equal(t, "hello", payload["text"])
	assert.Nil(t, payload["text_blank"])
	assert.Equal(t, 0, payload["num"], "numeric zero is not nil")
	assert.Equal(t, false, payload["flag"])

	// Visible-but-empty questions are present with nil, not absent.
	assert.Contains(t, payload, "multi_empty")
	assert.Contains(t, payload, "text_blank")
}

func TestBuildPayloadExcludesHiddenFields(t *testing.T) {
	schema := []domain.QuestionSpec{
		{QuestionID: "a"},
		{QuestionID: "b", ConditionField: "a", ConditionValue: "Yes"},
	}
	// Stale leftover in b's slot from when it was visible.
	answers := domain.AnswerSet{"a": "No", "b": "stale"}

	payload := BuildPayload(schema, answers)

	assert.Equal(t, "No", payload["a"])
	assert.NotContains(t, payload, "b", "hidden questions leave no key at all")
}

func TestValidateCollectsRequiredVisibleEmpties(t *testing.T) {
	schema := []domain.QuestionSpec{
		{QuestionID: "a", Label: "Question A", Required: true},
		{QuestionID: "b", Label: "Question B"},
		{QuestionID: "c", Label: "Question C", RequiredIfField: "a", RequiredIfValue: "Yes"},
	}

	errs := Validate(schema, domain.AnswerSet{"a": "", "b": "", "c": ""})
	assert.Equal(t, []string{"Question A"}, errs)

	errs = Validate(schema, domain.AnswerSet{"a": "Yes", "b": "", "c": ""})
	assert.Equal(t, []string{"Question C"}, errs)

	errs = Validate(schema, domain.AnswerSet{"a": "Yes", "b": "", "c": "x"})
	assert.Empty(t, errs)
}

func TestValidateIgnoresHiddenRequiredQuestions(t *testing.T) {
	schema := []domain.QuestionSpec{
		{QuestionID: "a", Label: "A"},
		{QuestionID: "b", Label: "B", Required: true, ConditionField: "a", ConditionValue: "Yes"},
	}

	// b was required while visible in an earlier pass, but the final answer
	// set hides it; it must not block the submit.
	errs := Validate(schema, domain.AnswerSet{"a": "No", "b": ""})
	assert.Empty(t, errs)
}

func TestValidateAndPayloadAgreeOnVisibleSet(t *testing.T) {
	schema := []domain.QuestionSpec{
		{QuestionID: "a", Label: "A"},
		{QuestionID: "b", Label: "B", ConditionField: "a", ConditionValue: "Yes"},
		{QuestionID: "c", Label: "C", ConditionField: "b", ConditionValue: "x"},
	}
	answers := domain.AnswerSet{"a": "Yes", "b": "x", "c": ""}

	payload := BuildPayload(schema, answers)

	visible := map[string]bool{}
	for _, q := range schema {
		if IsVisible(q, answers) {
			visible[q.QuestionID] = true
		}
	}
	assert.Len(t, payload, len(visible))
	for id := range visible {
		assert.Contains(t, payload, id)
	}
}

func TestEndToEndSubmitScenario(t *testing.T) {
	schema := []domain.QuestionSpec{
		{QuestionID: "A", Label: "label of A", Required: true},
		{QuestionID: "B", Label: "label of B",
			ConditionField: "A", ConditionValue: "Yes",
			RequiredIfField: "A", RequiredIfValue: "Yes"},
	}

	render := func(values map[string]interface{}) *Session {
		sess := NewSession("e2e")
		NewRenderer(newScriptedRenderer(values), 0).Run(schema, sess)
		return sess
	}

	// A answered Yes, B left blank: submit blocked with B's label.
	sess := render(map[string]interface{}{"A": "Yes", "B": ""})
	errs := Validate(schema, sess.Answers)
	require.Equal(t, []string{"label of B"}, errs)

	// A answered Yes, B filled: payload carries both.
	sess = render(map[string]interface{}{"A": "Yes", "B": "x"})
	require.Empty(t, Validate(schema, sess.Answers))
	payload := BuildPayload(schema, sess.Answers)
	assert.Equal(t, domain.SubmissionPayload{"A": "Yes", "B": "x"}, payload)

	// A answered No: B is hidden, absent from the payload, and not required
	// despite being empty.
	sess = render(map[string]interface{}{"A": "No"})
	require.Empty(t, Validate(schema, sess.Answers))
	payload = BuildPayload(schema, sess.Answers)
	assert.Equal(t, domain.SubmissionPayload{"A": "No"}, payload)
}
