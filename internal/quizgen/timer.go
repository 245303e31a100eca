package quizgen

import (
	"math/rand/v2"
	"sync"
	"time"
)

// Absolute bounds for any per-question time limit, in seconds.
const (
	MinTimeLimit = 30
	MaxTimeLimit = 300
)

type band struct{ min, max int }

var bands = map[Difficulty]band{
	Beginner:     {45, 60},
	Intermediate: {60, 90},
	Advanced:     {90, 120},
	Expert:       {120, 180},
}

// typeAdjustments is the extra reading time per question type, in seconds.
var typeAdjustments = map[QuestionType]int{
	TypeConceptApplication: 0,
	TypeDebugging:          10,
	TypePerformance:        15,
	TypeRealWorldDecision:  5,
	TypeBestPractices:      0,
	TypeEdgeCase:           20,
	TypeSecurity:           15,
	TypeDataInterpretation: 10,
	TypeToolSelection:      5,
	TypeTradeOff:           25,
}

// Band returns the time-limit band for d. Unknown difficulties use the
// intermediate band.
func Band(d Difficulty) (min, max int) {
	b, ok := bands[d]
	if !ok {
		b = bands[Intermediate]
	}
	return b.min, b.max
}

// TypeAdjustment returns the complexity adjustment for a question type
// label. Labels outside the mandatory set get no adjustment.
func TypeAdjustment(t QuestionType) int {
	if m, ok := MatchQuestionType(string(t)); ok {
		return typeAdjustments[m]
	}
	return 0
}

// TimerDeriver computes per-question time limits. Safe for concurrent use.
type TimerDeriver struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewTimerDeriver returns a deriver drawing from rng. A nil rng seeds a
// generator from the clock.
func NewTimerDeriver(rng *rand.Rand) *TimerDeriver {
	if rng == nil {
		seed := uint64(time.Now().UnixNano())
		rng = rand.New(rand.NewPCG(seed, seed>>17|1))
	}
	return &TimerDeriver{rng: rng}
}

// Derive draws a uniform base in the difficulty band, adds the type
// adjustment and clamps the sum back into the band.
func (t *TimerDeriver) Derive(d Difficulty, qt QuestionType) int {
	lo, hi := Band(d)
	t.mu.Lock()
	base := lo + t.rng.IntN(hi-lo+1)
	t.mu.Unlock()
	return clamp(base+TypeAdjustment(qt), lo, hi)
}

// InBand reports whether seconds is a valid limit for d.
func InBand(d Difficulty, seconds int) bool {
	lo, hi := Band(d)
	return seconds >= lo && seconds <= hi
}

func clamp(v, lo, hi int) int {
	return max(lo, min(hi, v))
}
