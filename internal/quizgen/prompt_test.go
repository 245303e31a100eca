package quizgen

import (
	"fmt"
	"strings"
	"testing"

	"github.com/abhisek/skillcheck/internal/skilldomain"
)

func compose(t *testing.T, c *Composer, skill string, d Difficulty, count int, mode string) Prompt {
	t.Helper()
	p, err := LookupPreset(mode)
	if err != nil {
		t.Fatal(err)
	}
	out, err := c.Compose(PromptInput{
		Skill:      skill,
		Domain:     skilldomain.Classify(skill),
		Difficulty: d,
		Count:      count,
		Preset:     p,
	})
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	return out
}

func TestCompose_StrictVerification(t *testing.T) {
	p := compose(t, NewComposer(), "SQL", Beginner, 10, "strict")
	if p.System == "" {
		t.Error("empty system prompt")
	}
	wants := []string{
		`"SQL"`,
		"EXACTLY 10 questions",
		"45-60 seconds",
		`"verification_mode": "strict"`,
		`"minimum_score_percent": 80`,
		`"minimum_correct_answers": 8`,
		`"timeouts_allowed": 1`,
	}
	for i, qt := range MandatoryTypes {
		wants = append(wants, fmt.Sprintf("%d. %s", i+1, qt))
	}
	for _, w := range wants {
		if !strings.Contains(p.User, w) {
			t.Errorf("prompt missing %q", w)
		}
	}
}

func TestCompose_ScenarioHasNoPassCriteria(t *testing.T) {
	p := compose(t, NewComposer(), "Kubernetes", Expert, 10, "scenario")
	if strings.Contains(p.User, "pass_criteria") {
		t.Error("scenario prompt should not ask for pass criteria")
	}
	if !strings.Contains(p.User, "120-180 seconds") {
		t.Error("expert band missing")
	}
}

func TestCompose_DomainIntros(t *testing.T) {
	c := NewComposer()
	cooking := compose(t, c, "Italian Cooking", Intermediate, 5, "legacy")
	if !strings.Contains(cooking.User, "Stay strictly within cooking") {
		t.Errorf("cooking intro missing:\n%s", cooking.User)
	}
	if strings.Contains(cooking.User, "code snippet") {
		t.Error("non-technical prompt asks for code")
	}

	sql := compose(t, c, "SQL", Advanced, 5, "assessment")
	for _, w := range []string{"Include relevant code examples", "FOCUS FOR ADVANCED LEVEL", "questionType"} {
		if !strings.Contains(sql.User, w) {
			t.Errorf("assessment prompt missing %q", w)
		}
	}
}

func TestCompose_FallsBackToGeneral(t *testing.T) {
	p, _ := LookupPreset("legacy")
	out, err := NewComposer().Compose(PromptInput{
		Skill:      "Juggling",
		Domain:     skilldomain.Domain("circus"),
		Difficulty: Beginner,
		Count:      3,
		Preset:     p,
	})
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	if !strings.HasPrefix(out.User, `Write 3 BEGINNER-LEVEL multiple-choice questions about "Juggling". Focus on fundamental concepts`) {
		t.Errorf("general intro not used:\n%s", out.User)
	}
}

func TestCompose_BadInput(t *testing.T) {
	c := NewComposer()
	if _, err := c.Compose(PromptInput{Skill: "SQL", Difficulty: "guru", Count: 1, Preset: Preset{Shape: ShapeLegacy}}); err == nil {
		t.Error("unknown difficulty accepted")
	}
	if _, err := c.Compose(PromptInput{Skill: "SQL", Difficulty: Beginner, Count: 1, Preset: Preset{Shape: "html"}}); err == nil {
		t.Error("unknown shape accepted")
	}
}

func TestLoadOverrides(t *testing.T) {
	c := NewComposer()
	err := c.LoadOverrides(strings.NewReader(`
cooking:
  Beginner: "Ask {{.Count}} kitchen questions about {{.Skill}}."
`))
	if err != nil {
		t.Fatalf("LoadOverrides: %v", err)
	}
	out := compose(t, c, "Cooking", Beginner, 4, "legacy")
	if !strings.HasPrefix(out.User, "Ask 4 kitchen questions about Cooking.") {
		t.Errorf("override not applied:\n%s", out.User)
	}
	// Other levels keep the built-in intro.
	out = compose(t, c, "Cooking", Expert, 4, "legacy")
	if !strings.Contains(out.User, "EXPERT-LEVEL") {
		t.Error("expert intro lost")
	}
}

func TestLoadOverrides_Rejects(t *testing.T) {
	tests := map[string]string{
		"unknown domain":     "astrology:\n  beginner: hi\n",
		"unknown difficulty": "cooking:\n  guru: hi\n",
		"bad template":       "cooking:\n  beginner: \"{{.Count\"\n",
		"bad yaml":           "cooking: [\n",
	}
	for name, in := range tests {
		t.Run(name, func(t *testing.T) {
			c := NewComposer()
			before := compose(t, c, "Cooking", Beginner, 2, "legacy")
			if err := c.LoadOverrides(strings.NewReader(in)); err == nil {
				t.Fatal("expected error")
			}
			if after := compose(t, c, "Cooking", Beginner, 2, "legacy"); after != before {
				t.Error("failed load changed the composer")
			}
		})
	}
}

func TestLoadOverrides_Empty(t *testing.T) {
	if err := NewComposer().LoadOverrides(strings.NewReader("")); err != nil {
		t.Fatalf("empty overrides: %v", err)
	}
}
