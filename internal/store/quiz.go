package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

var (
	quizSelectColumns = []string{
		"id", "sequence", "created_at", "skill", "difficulty", "mode",
		"domain", "model", "question_count", "payload",
	}
	attemptSelectColumns = []string{
		"id", "sequence", "timestamp", "quiz_id", "correct", "total",
		"timeouts", "score_percent", "passed", "payload",
	}
)

// quizRepo implements QuizRepo backed by SQLite.
type quizRepo struct {
	db  *sql.DB
	seq *sequenceCounter
}

func (r *quizRepo) SaveQuiz(ctx context.Context, rec *QuizRecord) error {
	if rec.ID == "" {
		return fmt.Errorf("save quiz: empty id")
	}
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	if rec.Payload == nil {
		rec.Payload = []byte("null")
	}

	query, args := builder().Insert(tableQuizzes).
		Columns(
			"id", "sequence", "created_at", "skill", "difficulty", "mode",
			"domain", "model", "question_count", "payload",
		).
		Values(
			rec.ID, seqNum, rec.CreatedAt.UTC(), rec.Skill, rec.Difficulty, rec.Mode,
			rec.Domain, rec.Model, rec.QuestionCount, rec.Payload,
		).
		Query()

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save quiz %s: %w", rec.ID, err)
	}
	rec.Sequence = seqNum
	return nil
}

func (r *quizRepo) GetQuiz(ctx context.Context, id string) (*QuizRecord, error) {
	b := builder()
	query, args := b.Select(quizSelectColumns...).
		From(b.Table(tableQuizzes)).
		Where(entsql.EQ("id", id)).
		Query()

	var rec QuizRecord
	err := r.db.QueryRowContext(ctx, query, args...).Scan(quizDest(&rec)...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get quiz %s: %w", id, err)
	}
	return &rec, nil
}

func (r *quizRepo) ListQuizzes(ctx context.Context, f QuizFilter) ([]QuizRecord, error) {
	b := builder()
	sel := b.Select(quizSelectColumns...).
		From(b.Table(tableQuizzes)).
		OrderBy(entsql.Desc("sequence"))
	if f.Skill != "" {
		sel.Where(entsql.EqualFold("skill", strings.TrimSpace(f.Skill)))
	}
	if f.Limit > 0 {
		sel.Limit(f.Limit)
	}

	query, args := sel.Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list quizzes: %w", err)
	}
	defer rows.Close()

	var out []QuizRecord
	for rows.Next() {
		var rec QuizRecord
		if err := rows.Scan(quizDest(&rec)...); err != nil {
			return nil, fmt.Errorf("scan quiz: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *quizRepo) SaveAttempt(ctx context.Context, rec *AttemptRecord) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}
	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now()
	}
	if rec.Payload == nil {
		rec.Payload = []byte("null")
	}

	query, args := builder().Insert(tableQuizAttempts).
		Columns(
			"sequence", "timestamp", "quiz_id", "correct", "total",
			"timeouts", "score_percent", "passed", "payload",
		).
		Values(
			seqNum, rec.Timestamp.UTC(), rec.QuizID, rec.Correct, rec.Total,
			rec.Timeouts, rec.ScorePercent, rec.Passed, rec.Payload,
		).
		Query()

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("save attempt: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("attempt id: %w", err)
	}
	rec.ID = int(id)
	rec.Sequence = seqNum
	return nil
}

func (r *quizRepo) ListAttempts(ctx context.Context, quizID string, limit int) ([]AttemptRecord, error) {
	b := builder()
	sel := b.Select(attemptSelectColumns...).
		From(b.Table(tableQuizAttempts)).
		OrderBy(entsql.Desc("sequence"))
	if quizID != "" {
		sel.Where(entsql.EQ("quiz_id", quizID))
	}
	if limit > 0 {
		sel.Limit(limit)
	}

	query, args := sel.Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list attempts: %w", err)
	}
	defer rows.Close()

	var out []AttemptRecord
	for rows.Next() {
		var a AttemptRecord
		if err := rows.Scan(
			&a.ID, &a.Sequence, &a.Timestamp, &a.QuizID, &a.Correct, &a.Total,
			&a.Timeouts, &a.ScorePercent, &a.Passed, &a.Payload,
		); err != nil {
			return nil, fmt.Errorf("scan attempt: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func quizDest(rec *QuizRecord) []any {
	return []any{
		&rec.ID, &rec.Sequence, &rec.CreatedAt, &rec.Skill, &rec.Difficulty, &rec.Mode,
		&rec.Domain, &rec.Model, &rec.QuestionCount, &rec.Payload,
	}
}
