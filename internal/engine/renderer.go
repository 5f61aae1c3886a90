package engine

import (
	"project-tracker/internal/domain"
)

// DefaultMaxPasses bounds the convergence loop. Chains of visibility
// dependencies deeper than this stop unfolding; the bound keeps interactive
// rendering latency predictable and is configurable via form.max_passes.
const DefaultMaxPasses = 6

// Session owns the mutable state of one render session: the answers
// collected so far and the set of questions already rendered. One session
// belongs to exactly one user interaction context; sessions never share
// state.
type Session struct {
	Key      string
	Answers  domain.AnswerSet
	Rendered map[string]struct{}
}

// NewSession creates an empty session for the given widget-state key.
func NewSession(key string) *Session {
	return &Session{
		Key:      key,
		Answers:  domain.AnswerSet{},
		Rendered: make(map[string]struct{}),
	}
}

// RenderedField is one entry of the rendered form, in render order. Section
// is set only on the field where a new section header begins.
type RenderedField struct {
	Question domain.QuestionSpec
	Value    interface{}
	Section  string
}

// Renderer drives the fixed-point iteration over a question schema.
type Renderer struct {
	fields    domain.FieldRenderer
	maxPasses int
}

// NewRenderer creates a Renderer over the given presentation collaborator.
// A non-positive maxPasses falls back to DefaultMaxPasses.
func NewRenderer(fields domain.FieldRenderer, maxPasses int) *Renderer {
	if maxPasses <= 0 {
		maxPasses = DefaultMaxPasses
	}
	return &Renderer{fields: fields, maxPasses: maxPasses}
}

// Run scans the schema repeatedly, rendering every not-yet-rendered question
// whose visibility condition is satisfied by the answers collected so far,
// until a full pass renders nothing new or the pass ceiling is hit. Because
// the whole list is rescanned each pass, a question may depend on the answer
// to a question declared after it, and chains of dependencies unfold one hop
// per pass. Cyclic schemas do not loop forever: the ceiling silently leaves
// their tail unrendered, which is the documented limitation of the bounded
// policy.
//
// Each question is rendered at most once per run, in first-satisfied
// schema order. Run returns the rendered fields in render order along with
// the number of passes executed.
func (r *Renderer) Run(schema []domain.QuestionSpec, sess *Session) ([]RenderedField, int) {
	var out []RenderedField
	currentSection := ""

	changed := true
	passes := 0
	for changed && passes < r.maxPasses {
		changed = false
		passes++

		for _, q := range schema {
			if q.QuestionID == "" {
				continue // blank rows are never renderable
			}
			if _, done := sess.Rendered[q.QuestionID]; done {
				continue
			}
			if !IsVisible(q, sess.Answers) {
				continue
			}

			section := ""
			if q.Section != "" && q.Section != currentSection {
				section = q.Section
				currentSection = q.Section
			}

			val := r.fields.Render(q, sess.Key)
			sess.Answers[q.QuestionID] = val
			sess.Rendered[q.QuestionID] = struct{}{}
			out = append(out, RenderedField{Question: q, Value: val, Section: section})
			changed = true
		}
	}

	return out, passes
}
