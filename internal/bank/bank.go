// Package bank is an offline question source. It answers quiz generation
// requests from hand-written scenarios and per-type templates so the
// pipeline can run without a model vendor.
package bank

import (
	"embed"
	"fmt"
	"io/fs"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/abhisek/skillcheck/internal/quizgen"
)

//go:embed data/*.yaml
var dataFS embed.FS

// Item is one authored question.
type Item struct {
	Type        string   `yaml:"type"`
	Scenario    string   `yaml:"scenario"`
	Question    string   `yaml:"question"`
	Options     []string `yaml:"options"`
	Answer      int      `yaml:"answer"`
	Explanation string   `yaml:"explanation"`
}

type set struct {
	Skill      string `yaml:"skill"`
	Difficulty string `yaml:"difficulty"`
	Items      []Item `yaml:"items"`
}

// Bank indexes authored items by skill, difficulty and question type.
type Bank struct {
	items map[string]map[quizgen.QuestionType]Item
}

func bankKey(skill string, d quizgen.Difficulty) string {
	return strings.ToLower(strings.TrimSpace(skill)) + "|" + string(d)
}

// Load parses every YAML file under fsys.
func Load(fsys fs.FS) (*Bank, error) {
	b := &Bank{items: map[string]map[quizgen.QuestionType]Item{}}
	err := fs.WalkDir(fsys, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || !strings.HasSuffix(path, ".yaml") {
			return err
		}
		raw, err := fs.ReadFile(fsys, path)
		if err != nil {
			return err
		}
		var s set
		if err := yaml.Unmarshal(raw, &s); err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
		return b.add(path, s)
	})
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (b *Bank) add(path string, s set) error {
	diff, err := quizgen.ParseDifficulty(s.Difficulty)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	key := bankKey(s.Skill, diff)
	if b.items[key] == nil {
		b.items[key] = map[quizgen.QuestionType]Item{}
	}
	for i, it := range s.Items {
		qt, ok := quizgen.MatchQuestionType(it.Type)
		if !ok {
			return fmt.Errorf("%s: item %d: unknown question type %q", path, i+1, it.Type)
		}
		if len(it.Options) != 4 || it.Answer < 0 || it.Answer > 3 {
			return fmt.Errorf("%s: item %d: need 4 options and an answer in 0..3", path, i+1)
		}
		b.items[key][qt] = it
	}
	return nil
}

// Lookup returns the authored item for the given type, if any.
func (b *Bank) Lookup(skill string, d quizgen.Difficulty, qt quizgen.QuestionType) (Item, bool) {
	it, ok := b.items[bankKey(skill, d)][qt]
	return it, ok
}

// Default loads the embedded question sets.
func Default() (*Bank, error) {
	sub, err := fs.Sub(dataFS, "data")
	if err != nil {
		return nil, err
	}
	return Load(sub)
}
