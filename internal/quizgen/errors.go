package quizgen

import (
	"context"
	"errors"
	"fmt"

	"github.com/abhisek/skillcheck/internal/llm"
	"github.com/abhisek/skillcheck/internal/normalize"
)

// ErrInvalidRequest is wrapped by every request validation failure.
var ErrInvalidRequest = errors.New("invalid request")

// ValidationError describes why a generated quiz was rejected.
type ValidationError struct {
	Validator string // Name of the validator that failed
	Question  int    // 1-based question number, 0 for quiz-level checks
	Message   string
}

func (e *ValidationError) Error() string {
	if e.Question > 0 {
		return fmt.Sprintf("validator %q: question %d: %s", e.Validator, e.Question, e.Message)
	}
	return fmt.Sprintf("validator %q: %s", e.Validator, e.Message)
}

// CountMismatchError reports a document with the wrong number of questions.
type CountMismatchError struct {
	Want int
	Got  int
}

func (e *CountMismatchError) Error() string {
	return fmt.Sprintf("expected %d questions, got %d", e.Want, e.Got)
}

// Kind classifies a terminal generation failure.
type Kind string

const (
	KindUpstreamUnavailable Kind = "upstream_unavailable"
	KindMalformedResponse   Kind = "malformed_response"
	KindSchemaViolation     Kind = "schema_violation"
	KindCountMismatch       Kind = "count_mismatch"
	KindCanceled            Kind = "canceled"
)

var kindText = map[Kind]string{
	KindUpstreamUnavailable: "model provider unavailable",
	KindMalformedResponse:   "malformed model response",
	KindSchemaViolation:     "quiz failed validation",
	KindCountMismatch:       "wrong number of questions",
	KindCanceled:            "generation canceled",
}

// GenerationError is the single error returned once all attempts fail.
type GenerationError struct {
	Kind     Kind
	Attempts int
	Err      error // last underlying cause
}

func (e *GenerationError) Error() string {
	msg := fmt.Sprintf("%s after %d attempt(s): %v", kindText[e.Kind], e.Attempts, e.Err)
	if e.Kind == KindUpstreamUnavailable {
		msg += " (check the LLM provider configuration and API key)"
	}
	return msg
}

func (e *GenerationError) Unwrap() error { return e.Err }

// ClassifyError maps an attempt failure onto a Kind.
func ClassifyError(err error) Kind {
	var (
		countErr    *CountMismatchError
		valErr      *ValidationError
		malformed   *normalize.MalformedError
		invalidResp *llm.ErrInvalidResponse
		maxTokens   *llm.ErrMaxTokensExceeded
	)
	switch {
	case errors.Is(err, context.Canceled):
		return KindCanceled
	case errors.As(err, &countErr):
		return KindCountMismatch
	case errors.As(err, &valErr):
		return KindSchemaViolation
	case errors.As(err, &malformed), errors.As(err, &invalidResp), errors.As(err, &maxTokens):
		return KindMalformedResponse
	default:
		// Rate limits, credentials, network failures and timeouts.
		return KindUpstreamUnavailable
	}
}

// retryable reports whether another attempt could succeed.
func retryable(err error) bool {
	var unauth *llm.ErrUnauthorized
	if errors.As(err, &unauth) {
		return false
	}
	return !errors.Is(err, context.Canceled)
}
