package quizgen

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"
	"text/template"

	"gopkg.in/yaml.v3"

	"github.com/abhisek/skillcheck/internal/skilldomain"
)

// PromptInput is everything the composer needs for one prompt.
type PromptInput struct {
	Skill      string
	Domain     skilldomain.Domain
	Difficulty Difficulty
	Count      int
	Preset     Preset
}

// Prompt is a rendered prompt.
type Prompt struct {
	System string
	User   string
}

type introKey struct {
	domain     skilldomain.Domain
	difficulty Difficulty
}

var funcs = template.FuncMap{
	"inc":   func(i int) int { return i + 1 },
	"upper": strings.ToUpper,
	"json": func(s string) (string, error) {
		b, err := json.Marshal(s)
		return string(b), err
	},
}

var bodies = map[Shape]*template.Template{
	ShapeScenario: template.Must(template.New("scenario").Funcs(funcs).Parse(scenarioTemplate)),
	ShapeLegacy:   template.Must(template.New("legacy").Funcs(funcs).Parse(legacyTemplate)),
}

// Composer renders prompts from per-(domain, difficulty) intros and
// per-shape bodies. Safe for concurrent use.
type Composer struct {
	mu     sync.RWMutex
	intros map[introKey]*template.Template
}

// NewComposer returns a composer loaded with the built-in templates.
func NewComposer() *Composer {
	c := &Composer{intros: make(map[introKey]*template.Template)}
	for d, byDiff := range domainIntros {
		for diff, text := range byDiff {
			c.intros[introKey{d, diff}] = template.Must(parseIntro(d, diff, text))
		}
	}
	return c
}

func parseIntro(d skilldomain.Domain, diff Difficulty, text string) (*template.Template, error) {
	return template.New(string(d) + "/" + string(diff)).Funcs(funcs).Option("missingkey=error").Parse(text)
}

// Compose renders the prompt for in. Domains without their own intro fall
// back to the general domain for the same difficulty.
func (c *Composer) Compose(in PromptInput) (Prompt, error) {
	if !in.Difficulty.Valid() {
		return Prompt{}, fmt.Errorf("compose prompt: unknown difficulty %q", in.Difficulty)
	}
	body, ok := bodies[in.Preset.Shape]
	if !ok {
		return Prompt{}, fmt.Errorf("compose prompt: unknown shape %q", in.Preset.Shape)
	}

	data := c.data(in)

	var intro strings.Builder
	if err := c.intro(in.Domain, in.Difficulty).Execute(&intro, data); err != nil {
		return Prompt{}, fmt.Errorf("render intro: %w", err)
	}
	data.Intro = intro.String()

	var user strings.Builder
	if err := body.Execute(&user, data); err != nil {
		return Prompt{}, fmt.Errorf("render %s prompt: %w", in.Preset.Shape, err)
	}
	return Prompt{System: systemPrompt, User: strings.TrimSpace(user.String())}, nil
}

func (c *Composer) intro(d skilldomain.Domain, diff Difficulty) *template.Template {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if t, ok := c.intros[introKey{d, diff}]; ok {
		return t
	}
	return c.intros[introKey{skilldomain.General, diff}]
}

// templateData is the value templates execute against. Fields are plain
// strings so template functions accept them.
type templateData struct {
	Skill        string
	Difficulty   string
	Count        int
	Intro        string
	Types        []string
	BandMin      int
	BandMax      int
	Behaviour    string
	Verification bool
	Pass         PassCriteria
	Technical    bool
	CodeFocus    bool
	Focus        []string
}

func (c *Composer) data(in PromptInput) templateData {
	lo, hi := Band(in.Difficulty)
	types := make([]string, len(MandatoryTypes))
	for i, t := range MandatoryTypes {
		types[i] = string(t)
	}
	d := templateData{
		Skill:        strings.TrimSpace(in.Skill),
		Difficulty:   string(in.Difficulty),
		Count:        in.Count,
		Types:        types,
		BandMin:      lo,
		BandMax:      hi,
		Behaviour:    difficultyBehaviour[in.Difficulty],
		Verification: in.Preset.Verification(),
		Technical:    in.Domain == skilldomain.Technical,
		CodeFocus:    in.Preset.CodeFocus,
		Focus:        assessmentFocus[in.Difficulty],
	}
	if in.Preset.PassCriteria != nil {
		d.Pass = *in.Preset.PassCriteria
	}
	return d
}

// LoadOverrides replaces intros from YAML of the form
//
//	cooking:
//	  beginner: Write {{.Count}} questions about "{{.Skill}}" ...
//
// Unknown domains or difficulties and unparsable templates are rejected and
// leave the composer unchanged.
func (c *Composer) LoadOverrides(r io.Reader) error {
	var raw map[string]map[string]string
	if err := yaml.NewDecoder(r).Decode(&raw); err != nil {
		if err == io.EOF {
			return nil
		}
		return fmt.Errorf("decode prompt overrides: %w", err)
	}

	parsed := make(map[introKey]*template.Template)
	for dk, byDiff := range raw {
		d := skilldomain.Domain(strings.ToLower(strings.TrimSpace(dk)))
		if !d.Valid() {
			return fmt.Errorf("prompt overrides: unknown domain %q", dk)
		}
		for fk, text := range byDiff {
			diff, err := ParseDifficulty(fk)
			if err != nil {
				return fmt.Errorf("prompt overrides: %s: %w", dk, err)
			}
			t, err := parseIntro(d, diff, text)
			if err != nil {
				return fmt.Errorf("prompt overrides: %s/%s: %w", d, diff, err)
			}
			parsed[introKey{d, diff}] = t
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for k, t := range parsed {
		c.intros[k] = t
	}
	return nil
}
