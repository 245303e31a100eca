// Package events publishes quiz lifecycle events to a RabbitMQ topic
// exchange.
package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/skillcheck/internal/quizgen"
)

// EventType doubles as the routing key.
type EventType string

const (
	EventQuizGenerated EventType = "quiz.generated"
	EventQuizGraded    EventType = "quiz.graded"
)

// Event is the envelope every message body carries.
type Event struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
}

// QuizGenerated summarises a generated quiz without its questions.
type QuizGenerated struct {
	QuizID           string             `json:"quizId"`
	Skill            string             `json:"skill"`
	Difficulty       quizgen.Difficulty `json:"difficulty"`
	Mode             quizgen.Mode       `json:"mode"`
	Domain           string             `json:"domain"`
	Model            string             `json:"model"`
	QuestionCount    int                `json:"questionCount"`
	TotalTimeSeconds int                `json:"totalTimeSeconds"`
}

// QuizGraded reports the outcome of one attempt.
type QuizGraded struct {
	QuizID       string             `json:"quizId"`
	Skill        string             `json:"skill"`
	Difficulty   quizgen.Difficulty `json:"difficulty"`
	Correct      int                `json:"correct"`
	Total        int                `json:"total"`
	Timeouts     int                `json:"timeouts"`
	ScorePercent int                `json:"scorePercent"`
	Passed       bool               `json:"passed"`
}

func newEvent(t EventType, data any, now time.Time) Event {
	return Event{ID: uuid.NewString(), Type: t, Timestamp: now.UTC(), Data: data}
}

// NewQuizGenerated builds the event for q.
func NewQuizGenerated(q *quizgen.Quiz, now time.Time) Event {
	return newEvent(EventQuizGenerated, QuizGenerated{
		QuizID:           q.ID,
		Skill:            q.Skill,
		Difficulty:       q.Difficulty,
		Mode:             q.Mode,
		Domain:           string(q.Domain),
		Model:            q.Model,
		QuestionCount:    len(q.Questions),
		TotalTimeSeconds: q.TotalTimeSeconds(),
	}, now)
}

// NewQuizGraded builds the event for r.
func NewQuizGraded(r *quizgen.GradeResult, now time.Time) Event {
	return newEvent(EventQuizGraded, QuizGraded{
		QuizID:       r.QuizID,
		Skill:        r.Skill,
		Difficulty:   r.Difficulty,
		Correct:      r.Correct,
		Total:        r.Total,
		Timeouts:     r.Timeouts,
		ScorePercent: r.ScorePercent,
		Passed:       r.Passed,
	}, now)
}
