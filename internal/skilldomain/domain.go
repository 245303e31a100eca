// Package skilldomain maps free-text skill names to a coarse knowledge
// domain. The domain selects prompt templates; it never rejects a skill.
package skilldomain

import (
	"slices"
	"sort"
	"strings"
)

// Domain is a coarse knowledge area.
type Domain string

const (
	Cooking    Domain = "cooking"
	Baking     Domain = "baking"
	Accounting Domain = "accounting"
	Finance    Domain = "finance"
	Marketing  Domain = "marketing"
	Technical  Domain = "technical"
	Creative   Domain = "creative"
	Business   Domain = "business"
	Science    Domain = "science"
	Language   Domain = "language"
	Health     Domain = "health"
	Education  Domain = "education"
	Trades     Domain = "trades"
	Sports     Domain = "sports"
	General    Domain = "general"
)

// Method records which step produced a classification.
type Method string

const (
	MethodAlias   Method = "alias"
	MethodKeyword Method = "keyword"
	MethodDefault Method = "default"
)

// order fixes iteration for scoring so ties always break the same way.
var order = []Domain{
	Cooking, Baking, Accounting, Finance, Marketing, Technical, Creative,
	Business, Science, Language, Health, Education, Trades, Sports,
}

// All returns every domain, General last.
func All() []Domain {
	out := make([]Domain, 0, len(order)+1)
	out = append(out, order...)
	return append(out, General)
}

// Valid reports whether d is a known domain.
func (d Domain) Valid() bool {
	if d == General {
		return true
	}
	for _, o := range order {
		if o == d {
			return true
		}
	}
	return false
}

// aliases are whole-skill names that map straight to a domain.
var aliases = map[Domain][]string{
	Cooking:    {"cooking", "culinary arts", "food preparation", "meal preparation"},
	Baking:     {"baking", "pastry", "bread making", "cake decorating"},
	Accounting: {"accounting", "bookkeeping", "financial accounting", "managerial accounting", "cost accounting", "tax accounting"},
	Finance:    {"finance", "financial analysis", "investment", "portfolio management"},
	Marketing:  {"marketing", "digital marketing", "content marketing", "social media marketing"},
	Technical: {
		"javascript", "js", "ecmascript", "typescript", "ts",
		"python", "python programming", "java", "java programming",
		"react", "reactjs", "react.js", "node", "nodejs", "node.js",
		"go", "golang", "rust", "c", "c++", "c#", "ruby", "php", "kotlin", "swift",
		"sql", "mysql", "postgresql", "postgres", "sqlite", "mongodb", "nosql",
		"html", "css", "docker", "kubernetes", "git", "linux", "aws",
	},
	Health:   {"yoga", "yoga practice", "meditation"},
	Language: {"spanish", "spanish language", "español", "french", "german", "english"},
	Trades:   {"carpentry", "woodworking"},
	Sports:   {"basketball", "b-ball"},
}

// keywords are substrings scored by their length.
var keywords = map[Domain][]string{
	Cooking:    {"chef", "food", "recipe", "kitchen", "grilling", "frying", "roasting", "sous vide", "fermentation", "canning", "preserving", "meal", "cook", "culinary"},
	Baking:     {"bake", "baking", "pastry", "bread", "dough", "cake"},
	Accounting: {"account", "bookkeep", "ledger", "financial statement", "balance sheet", "income statement", "cash flow", "audit", "tax", "costing", "budgeting"},
	Finance:    {"finance", "financial", "invest", "portfolio", "trading", "stock", "banking"},
	Marketing:  {"marketing", "seo", "advertising", "branding", "campaign"},
	Technical:  {"programming", "coding", "software", "development", "algorithm", "data", "system", "network", "security", "database", "api", "frontend", "backend", "fullstack", "web development", "mobile development", "sql", "devops", "cloud", "smart contract", "machine learning", "concurrency"},
	Creative:   {"design", "art", "music", "writing", "content", "creative", "visual", "media", "photography", "video", "illustration", "graphic", "ui", "ux", "animation", "drawing", "painting", "sculpture", "filmmaking"},
	Business:   {"management", "sales", "strategy", "leadership", "project", "business", "entrepreneurship", "economics", "consulting", "negotiation", "public speaking", "presentation"},
	Science:    {"research", "analysis", "experiment", "theory", "scientific", "study", "method", "biology", "chemistry", "physics", "mathematics", "statistics", "psychology", "sociology", "anthropology"},
	Language:   {"language", "translation", "linguistics", "grammar", "writing", "speaking", "listening", "reading"},
	Health:     {"fitness", "meditation", "nutrition", "diet", "exercise", "health", "wellness", "personal training", "physical therapy", "massage", "mental health"},
	Education:  {"teaching", "tutoring", "education", "learning", "academic", "curriculum", "pedagogy", "instruction", "training", "coaching"},
	Trades:     {"plumbing", "electrical", "welding", "mechanic", "automotive", "construction", "repair", "maintenance", "handyman", "craftsmanship", "woodworking"},
	Sports:     {"football", "soccer", "tennis", "golf", "swimming", "running", "cycling", "baseball", "hockey", "volleyball", "athletics", "fitness training"},
}

// words are whole-token keywords, scored like keywords. Language and tool
// names are too short to match safely as substrings ("go", "java").
var words = map[Domain][]string{
	Technical: {
		"javascript", "js", "typescript", "python", "java", "react", "react.js", "reactjs",
		"angular", "vue", "node", "node.js", "nodejs", "go", "golang", "rust", "kotlin",
		"swift", "ruby", "rails", "php", "c++", "c#", ".net", "scala", "haskell",
		"docker", "kubernetes", "k8s", "terraform", "linux", "git", "aws", "azure", "gcp",
		"sql", "mysql", "postgresql", "postgres", "mongodb", "redis", "graphql", "html", "css",
		"django", "flask", "spring", "solidity", "blockchain", "web3",
	},
}

var wordIndex = func() map[string]Domain {
	idx := make(map[string]Domain)
	for d, ws := range words {
		for _, w := range ws {
			idx[w] = d
		}
	}
	return idx
}()

func tokens(norm string) []string {
	return strings.FieldsFunc(norm, func(r rune) bool {
		return r == ' ' || r == '/' || r == ',' || r == '(' || r == ')' || r == ':' || r == ';'
	})
}

var aliasIndex = func() map[string]Domain {
	idx := make(map[string]Domain)
	for d, names := range aliases {
		for _, n := range names {
			idx[n] = d
		}
	}
	return idx
}()

// Score is one domain's keyword score.
type Score struct {
	Domain Domain   `json:"domain"`
	Score  int      `json:"score"`
	Hits   []string `json:"hits,omitempty"`
}

// Classification explains how a skill was classified.
type Classification struct {
	Skill      string  `json:"skill"`
	Normalized string  `json:"normalized"`
	Domain     Domain  `json:"domain"`
	Method     Method  `json:"method"`
	Scores     []Score `json:"scores,omitempty"`
}

// Classify returns the domain for skill. Empty or unrecognised skills
// classify as General.
func Classify(skill string) Domain {
	return Explain(skill).Domain
}

// Explain classifies skill and reports the method and non-zero scores,
// highest first.
func Explain(skill string) Classification {
	norm := Normalize(skill)
	c := Classification{Skill: skill, Normalized: norm, Domain: General, Method: MethodDefault}
	if norm == "" {
		return c
	}

	if d, ok := aliasIndex[norm]; ok {
		c.Domain = d
		c.Method = MethodAlias
		return c
	}

	wordHits := make(map[Domain][]string)
	for _, tok := range tokens(norm) {
		if d, ok := wordIndex[tok]; ok {
			wordHits[d] = append(wordHits[d], tok)
		}
	}

	best := 0
	for _, d := range order {
		s := Score{Domain: d}
		for _, kw := range keywords[d] {
			if strings.Contains(norm, kw) {
				s.Score += len(kw)
				s.Hits = append(s.Hits, kw)
			}
		}
		for _, w := range wordHits[d] {
			if !slices.Contains(s.Hits, w) {
				s.Score += len(w)
				s.Hits = append(s.Hits, w)
			}
		}
		if s.Score == 0 {
			continue
		}
		c.Scores = append(c.Scores, s)
		// Strictly greater keeps the earlier domain on ties.
		if s.Score > best {
			best = s.Score
			c.Domain = d
			c.Method = MethodKeyword
		}
	}

	sort.SliceStable(c.Scores, func(i, j int) bool {
		return c.Scores[i].Score > c.Scores[j].Score
	})
	return c
}

// Normalize lower-cases skill, trims it and collapses inner whitespace.
func Normalize(skill string) string {
	return strings.Join(strings.Fields(strings.ToLower(skill)), " ")
}
