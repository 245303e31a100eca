package quizgen

import "testing"

func gradeQuiz(n int, d Difficulty, pc *PassCriteria) *Quiz {
	q := &Quiz{ID: "q", Skill: "SQL", Difficulty: d, PassCriteria: pc}
	for i := 0; i < n; i++ {
		q.Questions = append(q.Questions, Question{Options: []string{"a", "b", "c", "d"}, CorrectAnswerIndex: 1})
	}
	return q
}

// answers returns n answers with the first correct ones right, then
// timeouts, then wrong ones.
func answers(n, correct, timeouts int) []Answer {
	out := make([]Answer, n)
	for i := range out {
		switch {
		case i < correct:
			out[i] = Answer{Index: 1}
		case i < correct+timeouts:
			out[i] = Answer{TimedOut: true}
		default:
			out[i] = Answer{Index: 0}
		}
	}
	return out
}

func TestGrade_Verification(t *testing.T) {
	pc := VerificationPassCriteria
	tests := []struct {
		name              string
		correct, timeouts int
		wantPass          bool
		wantScore         int
	}{
		{"all correct", 10, 0, true, 100},
		{"eight correct one timeout", 8, 1, true, 80},
		{"eight correct two timeouts", 8, 2, false, 80},
		{"seven correct", 7, 0, false, 70},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Grade(gradeQuiz(10, Beginner, &pc), answers(10, tt.correct, tt.timeouts))
			if err != nil {
				t.Fatalf("Grade: %v", err)
			}
			if res.Passed != tt.wantPass || res.ScorePercent != tt.wantScore {
				t.Errorf("passed=%v score=%d, want %v %d", res.Passed, res.ScorePercent, tt.wantPass, tt.wantScore)
			}
			if res.Timeouts != tt.timeouts || res.Threshold != 80 {
				t.Errorf("timeouts=%d threshold=%v", res.Timeouts, res.Threshold)
			}
		})
	}
}

func TestGrade_DifficultyThreshold(t *testing.T) {
	res, err := Grade(gradeQuiz(5, Beginner, nil), answers(5, 3, 0))
	if err != nil {
		t.Fatal(err)
	}
	if !res.Passed || res.ScorePercent != 60 {
		t.Errorf("beginner 3/5: %+v", res)
	}

	res, _ = Grade(gradeQuiz(5, Expert, nil), answers(5, 3, 0))
	if res.Passed {
		t.Error("expert 3/5 should fail")
	}

	res, _ = Grade(gradeQuiz(3, Intermediate, nil), answers(3, 2, 0))
	if res.ScorePercent != 67 || res.Passed {
		t.Errorf("2/3 = %d%%, passed %v", res.ScorePercent, res.Passed)
	}
}

func TestGrade_Outcomes(t *testing.T) {
	res, _ := Grade(gradeQuiz(3, Beginner, nil), answers(3, 1, 1))
	if !res.Outcomes[0].Correct || res.Outcomes[1].Chosen != -1 || !res.Outcomes[1].TimedOut || res.Outcomes[2].Correct {
		t.Errorf("outcomes = %+v", res.Outcomes)
	}
}

func TestGrade_WrongAnswerCount(t *testing.T) {
	if _, err := Grade(gradeQuiz(3, Beginner, nil), answers(2, 2, 0)); err == nil {
		t.Fatal("expected error")
	}
}
