package session

import (
	"context"

	"github.com/quantive/appmatch/internal/extraction"
	"github.com/quantive/appmatch/pkg/models"
)

// Status tags the variants of a session result.
type Status string

const (
	// StatusNeedsMore means the profile is still below the validity
	// thresholds and the Question field carries the next thing to ask.
	StatusNeedsMore Status = "needs_more"
	// StatusReady means the profile is valid and the state can be finalized.
	StatusReady Status = "ready"
)

// Result is the tagged union returned by Start and Continue. Question and
// Missing are populated only for StatusNeedsMore.
type Result struct {
	Status   Status                     `json:"status"`
	State    models.SessionState        `json:"session"`
	Question string                     `json:"question,omitempty"`
	Missing  models.MissingRequirements `json:"missing,omitempty"`
}

// NeedsMore reports whether the session still requires input.
func (r Result) NeedsMore() bool { return r.Status == StatusNeedsMore }

// Machine drives turns through extraction, accumulation and the validity
// gate. It holds no per-session state: SessionState is caller-owned and
// passed by value on every call, so concurrent sessions need no coordination.
// Within one session turns must be applied in submission order.
type Machine struct {
	extractor *extraction.Extractor
	questions *QuestionGenerator
}

// NewMachine creates a session state machine.
func NewMachine(extractor *extraction.Extractor, questions *QuestionGenerator) *Machine {
	return &Machine{extractor: extractor, questions: questions}
}

// Start begins a new session from the user's initial prompt.
func (m *Machine) Start(ctx context.Context, prompt string) Result {
	return m.advance(ctx, models.SessionState{}, prompt)
}

// Continue applies the user's answer to an existing session. The input state
// is not mutated; the updated state is carried in the result.
func (m *Machine) Continue(ctx context.Context, state models.SessionState, answer string) Result {
	return m.advance(ctx, state, answer)
}

// advance is the shared transition function: extract the new turn, merge it
// into the accumulated profile, re-evaluate validity, and either complete or
// generate the next question.
func (m *Machine) advance(ctx context.Context, state models.SessionState, userText string) Result {
	extracted := m.extractor.ExtractTurn(ctx, userText)

	accumulated := Accumulate(state.Accumulated, extracted.Labels, extracted.Tags, extracted.Integrations)
	isValid, missing := Evaluate(accumulated)

	turn := models.Turn{
		UserText:    userText,
		EnglishText: extracted.EnglishText,
		Parsed: models.ParsedTurn{
			EnglishText:  extracted.EnglishText,
			Labels:       accumulated.Labels,
			Tags:         accumulated.Tags,
			Integrations: accumulated.Integrations,
			IsValid:      isValid,
			Missing:      missing,
		},
	}

	updated := models.SessionState{
		Turns:       append(append([]models.Turn{}, state.Turns...), turn),
		Accumulated: accumulated,
		Missing:     missing,
		IsValid:     isValid,
	}

	if isValid {
		return Result{Status: StatusReady, State: updated}
	}

	question, _ := m.questions.Generate(ctx, missing, accumulated)
	return Result{
		Status:   StatusNeedsMore,
		State:    updated,
		Question: question,
		Missing:  missing,
	}
}
