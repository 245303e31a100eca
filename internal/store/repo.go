package store

import (
	"context"
	"time"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit   int       // max results (0 = unlimited)
	After   int64     // sequence > After
	Before  int64     // sequence < Before
	From    time.Time // timestamp >= From
	To      time.Time // timestamp <= To
	Purpose string    // exact match when set
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMRequestEvent is a stored model call.
type LLMRequestEvent struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	LLMRequestEventData
}

// PurposeUsage aggregates calls for one purpose label.
type PurposeUsage struct {
	Purpose      string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// ModelUsage aggregates calls for one model ID.
type ModelUsage struct {
	Model        string
	Calls        int
	InputTokens  int
	OutputTokens int
}

// EventRepo provides append and query access to model call events.
type EventRepo interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// QueryLLMEvents returns events newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMRequestEvent, error)

	// GetLLMEvent returns one event, or nil if it doesn't exist.
	GetLLMEvent(ctx context.Context, id int) (*LLMRequestEvent, error)

	LLMUsageByPurpose(ctx context.Context) ([]PurposeUsage, error)
	LLMUsageByModel(ctx context.Context) ([]ModelUsage, error)
}

// QuizRecord is a generated quiz as persisted. Payload holds the quiz JSON.
type QuizRecord struct {
	ID            string
	Sequence      int64
	CreatedAt     time.Time
	Skill         string
	Difficulty    string
	Mode          string
	Domain        string
	Model         string
	QuestionCount int
	Payload       []byte
}

// AttemptRecord is one graded run through a quiz. Payload holds the
// per-question answers as JSON.
type AttemptRecord struct {
	ID           int
	Sequence     int64
	Timestamp    time.Time
	QuizID       string
	Correct      int
	Total        int
	Timeouts     int
	ScorePercent int
	Passed       bool
	Payload      []byte
}

// QuizFilter narrows ListQuizzes.
type QuizFilter struct {
	Skill string // case-insensitive match when set
	Limit int
}

// QuizRepo stores generated quizzes and the attempts taken against them.
type QuizRepo interface {
	// SaveQuiz inserts rec, filling Sequence and a zero CreatedAt.
	SaveQuiz(ctx context.Context, rec *QuizRecord) error

	// GetQuiz returns the quiz with id, or nil if it doesn't exist.
	GetQuiz(ctx context.Context, id string) (*QuizRecord, error)

	// ListQuizzes returns quizzes newest first.
	ListQuizzes(ctx context.Context, f QuizFilter) ([]QuizRecord, error)

	// SaveAttempt inserts rec, filling ID, Sequence and a zero Timestamp.
	SaveAttempt(ctx context.Context, rec *AttemptRecord) error

	// ListAttempts returns attempts newest first. An empty quizID lists
	// attempts across all quizzes.
	ListAttempts(ctx context.Context, quizID string, limit int) ([]AttemptRecord, error)
}
