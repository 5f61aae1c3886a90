package engine

import (
	"project-tracker/internal/domain"
)

// Validate runs the submit gate: it collects the label of every question
// that is visible and currently required under the final converged answer
// set but has an empty answer. A non-empty result blocks submission.
// Visibility and requiredness are re-evaluated against the answers passed
// in, never against per-pass snapshots, so a question hidden by a later pass
// cannot block the submit even if it was required while visible earlier. The
// gate and BuildPayload share IsVisible, so both always operate on the same
// visible subset.
func Validate(schema []domain.QuestionSpec, answers domain.AnswerSet) []string {
	var missing []string
	for _, q := range schema {
		if q.QuestionID == "" {
			continue
		}
		if !IsVisible(q, answers) {
			continue
		}
		if IsRequiredNow(q, answers) && IsEmpty(answers[q.QuestionID]) {
			missing = append(missing, q.Label)
		}
	}
	return missing
}
