package store

import (
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

// Table names.
const (
	tableLLMEvents    = "llm_request_events"
	tableQuizzes      = "quizzes"
	tableQuizAttempts = "quiz_attempts"
)

var (
	llmEventColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "timestamp", Type: field.TypeTime},
		{Name: "provider", Type: field.TypeString},
		{Name: "model", Type: field.TypeString},
		{Name: "purpose", Type: field.TypeString},
		{Name: "input_tokens", Type: field.TypeInt, Default: 0},
		{Name: "output_tokens", Type: field.TypeInt, Default: 0},
		{Name: "latency_ms", Type: field.TypeInt64, Default: 0},
		{Name: "success", Type: field.TypeBool},
		{Name: "error_message", Type: field.TypeString, Default: ""},
		{Name: "request_body", Type: field.TypeString, Size: 2147483647, Default: ""},
		{Name: "response_body", Type: field.TypeString, Size: 2147483647, Default: ""},
	}
	llmEventsTable = &schema.Table{
		Name:       tableLLMEvents,
		Columns:    llmEventColumns,
		PrimaryKey: []*schema.Column{llmEventColumns[0]},
		Indexes: []*schema.Index{
			{Name: "llmrequestevent_provider", Columns: []*schema.Column{llmEventColumns[3]}},
			{Name: "llmrequestevent_purpose", Columns: []*schema.Column{llmEventColumns[5]}},
			{Name: "llmrequestevent_success", Columns: []*schema.Column{llmEventColumns[9]}},
		},
	}

	quizColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "created_at", Type: field.TypeTime},
		{Name: "skill", Type: field.TypeString},
		{Name: "difficulty", Type: field.TypeString},
		{Name: "mode", Type: field.TypeString},
		{Name: "domain", Type: field.TypeString},
		{Name: "model", Type: field.TypeString, Default: ""},
		{Name: "question_count", Type: field.TypeInt},
		{Name: "payload", Type: field.TypeBytes},
	}
	quizzesTable = &schema.Table{
		Name:       tableQuizzes,
		Columns:    quizColumns,
		PrimaryKey: []*schema.Column{quizColumns[0]},
		Indexes: []*schema.Index{
			{Name: "quiz_skill_difficulty", Columns: []*schema.Column{quizColumns[3], quizColumns[4]}},
		},
	}

	attemptColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "timestamp", Type: field.TypeTime},
		{Name: "quiz_id", Type: field.TypeString},
		{Name: "correct", Type: field.TypeInt},
		{Name: "total", Type: field.TypeInt},
		{Name: "timeouts", Type: field.TypeInt, Default: 0},
		{Name: "score_percent", Type: field.TypeInt},
		{Name: "passed", Type: field.TypeBool},
		{Name: "payload", Type: field.TypeBytes},
	}
	quizAttemptsTable = &schema.Table{
		Name:       tableQuizAttempts,
		Columns:    attemptColumns,
		PrimaryKey: []*schema.Column{attemptColumns[0]},
		Indexes: []*schema.Index{
			{Name: "quizattempt_quiz_id", Columns: []*schema.Column{attemptColumns[3]}},
		},
	}

	tables = []*schema.Table{llmEventsTable, quizzesTable, quizAttemptsTable}
)
