// Package archive persists generated quizzes and graded attempts in the
// SQLite store so they can be listed, retaken and reviewed later.
package archive

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/abhisek/skillcheck/internal/quizgen"
	"github.com/abhisek/skillcheck/internal/store"
)

// Archive adapts a store.QuizRepo to quiz and grade types. It is also a
// quizgen.Sink, so every freshly generated quiz is recorded.
type Archive struct {
	repo store.QuizRepo
}

func New(repo store.QuizRepo) *Archive {
	return &Archive{repo: repo}
}

// QuizGenerated saves q.
func (a *Archive) QuizGenerated(ctx context.Context, q *quizgen.Quiz) error {
	payload, err := json.Marshal(q)
	if err != nil {
		return fmt.Errorf("encode quiz %s: %w", q.ID, err)
	}
	return a.repo.SaveQuiz(ctx, &store.QuizRecord{
		ID:            q.ID,
		CreatedAt:     q.GeneratedAt,
		Skill:         q.Skill,
		Difficulty:    string(q.Difficulty),
		Mode:          string(q.Mode),
		Domain:        string(q.Domain),
		Model:         q.Model,
		QuestionCount: len(q.Questions),
		Payload:       payload,
	})
}

// Quiz loads a stored quiz, or returns nil if id is unknown.
func (a *Archive) Quiz(ctx context.Context, id string) (*quizgen.Quiz, error) {
	rec, err := a.repo.GetQuiz(ctx, id)
	if err != nil || rec == nil {
		return nil, err
	}
	var q quizgen.Quiz
	if err := json.Unmarshal(rec.Payload, &q); err != nil {
		return nil, fmt.Errorf("decode quiz %s: %w", id, err)
	}
	return &q, nil
}

// Quizzes lists stored quiz summaries, newest first.
func (a *Archive) Quizzes(ctx context.Context, skill string, limit int) ([]store.QuizRecord, error) {
	return a.repo.ListQuizzes(ctx, store.QuizFilter{Skill: skill, Limit: limit})
}

// SaveAttempt records a graded attempt with its per-question outcomes.
func (a *Archive) SaveAttempt(ctx context.Context, r *quizgen.GradeResult) error {
	payload, err := json.Marshal(r.Outcomes)
	if err != nil {
		return fmt.Errorf("encode outcomes: %w", err)
	}
	return a.repo.SaveAttempt(ctx, &store.AttemptRecord{
		QuizID:       r.QuizID,
		Correct:      r.Correct,
		Total:        r.Total,
		Timeouts:     r.Timeouts,
		ScorePercent: r.ScorePercent,
		Passed:       r.Passed,
		Payload:      payload,
	})
}

// Attempts lists attempts for quizID (all quizzes when empty), newest
// first.
func (a *Archive) Attempts(ctx context.Context, quizID string, limit int) ([]store.AttemptRecord, error) {
	return a.repo.ListAttempts(ctx, quizID, limit)
}

var _ quizgen.Sink = (*Archive)(nil)
