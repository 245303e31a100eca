package quizgen

import (
	"fmt"
	"math"
)

// difficultyThresholds are the pass marks for quizzes without explicit
// pass criteria.
var difficultyThresholds = map[Difficulty]float64{
	Beginner:     60,
	Intermediate: 70,
	Advanced:     80,
	Expert:       80,
}

// Answer is one user response. Index is ignored when TimedOut is set.
type Answer struct {
	Index    int  `json:"index"`
	TimedOut bool `json:"timedOut,omitempty"`
}

// QuestionOutcome is the graded result of one question.
type QuestionOutcome struct {
	Correct  bool `json:"correct"`
	TimedOut bool `json:"timedOut,omitempty"`
	Chosen   int  `json:"chosen"`
	Expected int  `json:"expected"`
}

// GradeResult summarises a completed quiz.
type GradeResult struct {
	QuizID       string            `json:"quizId"`
	Skill        string            `json:"skill"`
	Difficulty   Difficulty        `json:"difficulty"`
	Correct      int               `json:"correct"`
	Total        int               `json:"total"`
	Timeouts     int               `json:"timeouts"`
	ScorePercent int               `json:"scorePercent"`
	Threshold    float64           `json:"threshold"`
	Passed       bool              `json:"passed"`
	Outcomes     []QuestionOutcome `json:"outcomes"`
}

// Grade scores answers against q. There must be one answer per question.
func Grade(q *Quiz, answers []Answer) (*GradeResult, error) {
	if len(answers) != len(q.Questions) {
		return nil, fmt.Errorf("expected %d answers, got %d", len(q.Questions), len(answers))
	}

	res := &GradeResult{
		QuizID:     q.ID,
		Skill:      q.Skill,
		Difficulty: q.Difficulty,
		Total:      len(q.Questions),
		Outcomes:   make([]QuestionOutcome, len(answers)),
	}
	for i, a := range answers {
		qq := q.Questions[i]
		out := QuestionOutcome{Chosen: a.Index, Expected: qq.CorrectAnswerIndex, TimedOut: a.TimedOut}
		switch {
		case a.TimedOut:
			out.Chosen = -1
			res.Timeouts++
		case a.Index == qq.CorrectAnswerIndex:
			out.Correct = true
			res.Correct++
		}
		res.Outcomes[i] = out
	}
	if res.Total > 0 {
		res.ScorePercent = int(math.Floor(float64(res.Correct)*100/float64(res.Total) + 0.5))
	}

	if pc := q.PassCriteria; pc != nil {
		res.Threshold = pc.MinScorePercent
		res.Passed = float64(res.ScorePercent) >= pc.MinScorePercent &&
			res.Correct >= pc.MinCorrectAnswers &&
			res.Timeouts <= pc.TimeoutsAllowed
		return res, nil
	}

	threshold, ok := difficultyThresholds[q.Difficulty]
	if !ok {
		threshold = difficultyThresholds[Intermediate]
	}
	res.Threshold = threshold
	res.Passed = float64(res.ScorePercent) >= threshold
	return res, nil
}
