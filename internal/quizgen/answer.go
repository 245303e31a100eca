package quizgen

import (
	"regexp"
	"strings"

	"github.com/agext/levenshtein"
)

// MaxAnswerDistance is the largest edit distance the resolver accepts.
const MaxAnswerDistance = 3

// ResolveMethod records which rule resolved a stated answer.
type ResolveMethod string

const (
	ResolveLetter       ResolveMethod = "letter"
	ResolveExact        ResolveMethod = "exact"
	ResolveContains     ResolveMethod = "contains"
	ResolveEditDistance ResolveMethod = "edit-distance"
)

// Resolution is a resolved answer.
type Resolution struct {
	Index  int
	Method ResolveMethod
}

var letterRe = regexp.MustCompile(`(?i)^(?:option\s+)?([A-D])\s*[).:]?$`)

// ResolveAnswer maps a stated correct answer onto an option index. Rules
// apply in order: "Option X" or a bare letter, exact text, case-insensitive
// containment in either direction, then the closest option within
// MaxAnswerDistance edits (ties go to the lower index).
func ResolveAnswer(stated string, options []string) (Resolution, bool) {
	stated = strings.TrimSpace(stated)
	if stated == "" || len(options) == 0 {
		return Resolution{}, false
	}

	if m := letterRe.FindStringSubmatch(stated); m != nil {
		idx := int(strings.ToUpper(m[1])[0] - 'A')
		if idx < len(options) {
			return Resolution{Index: idx, Method: ResolveLetter}, true
		}
	}

	for i, opt := range options {
		if opt == stated {
			return Resolution{Index: i, Method: ResolveExact}, true
		}
	}

	lower := strings.ToLower(stated)
	for i, opt := range options {
		o := strings.ToLower(strings.TrimSpace(opt))
		if o == "" {
			continue
		}
		if strings.Contains(o, lower) || strings.Contains(lower, o) {
			return Resolution{Index: i, Method: ResolveContains}, true
		}
	}

	best, bestDist := -1, MaxAnswerDistance+1
	for i, opt := range options {
		d := levenshtein.Distance(lower, strings.ToLower(strings.TrimSpace(opt)), nil)
		if d < bestDist {
			best, bestDist = i, d
		}
	}
	if best >= 0 {
		return Resolution{Index: best, Method: ResolveEditDistance}, true
	}
	return Resolution{}, false
}
