package bank

import (
	"fmt"

	"github.com/abhisek/skillcheck/internal/quizgen"
)

// template is a skill-agnostic question for one type. Options[0] is the
// correct one; Generic rotates it into place.
type template struct {
	scenario    string
	question    string
	options     [4]string
	explanation string
}

var templates = map[quizgen.QuestionType]template{
	quizgen.TypeConceptApplication: {
		scenario:    "A new colleague on your %s team keeps applying a rule of thumb from a tutorial to every situation, and the results on real work are inconsistent.",
		question:    "How should the underlying concept be applied here?",
		options:     [4]string{"Identify when the principle applies and adapt it to the situation", "Apply the rule of thumb more strictly", "Drop the principle and rely on trial and error", "Copy whatever the last successful piece of work did"},
		explanation: "Concepts transfer when you understand the conditions they depend on.",
	},
	quizgen.TypeDebugging: {
		scenario:    "A %s deliverable that worked last week now produces a wrong result, and nothing obvious changed in the inputs anyone remembers touching.",
		question:    "What is the best first step to find the fault?",
		options:     [4]string{"Reproduce the failure and compare against the last known good state", "Redo the whole piece of work from scratch", "Change several things at once and see what helps", "Ship it anyway and wait for complaints"},
		explanation: "Reproducing and diffing against a known good state narrows the cause fastest.",
	},
	quizgen.TypePerformance: {
		scenario:    "A routine %s task that used to take minutes now takes an hour, and the team wants it faster without lowering quality.",
		question:    "Which approach to speeding it up is most effective?",
		options:     [4]string{"Measure where the time goes and fix the largest bottleneck", "Speed up every step a little", "Skip the quality checks", "Buy more resources before measuring"},
		explanation: "Optimizing the measured bottleneck gives the biggest gain for the least risk.",
	},
	quizgen.TypeRealWorldDecision: {
		scenario:    "A client asks for a %s change on a tight deadline that conflicts with an agreed plan, and the team lead is out for the week.",
		question:    "What is the most responsible decision to make now?",
		options:     [4]string{"Clarify the impact with the client and agree on a scoped change", "Quietly make the change and hope it works out", "Refuse outright without discussion", "Promise everything and sort it out later"},
		explanation: "Making the trade-off explicit with the stakeholder keeps commitments realistic.",
	},
	quizgen.TypeBestPractices: {
		scenario:    "Your %s group is writing down its working standards after a quarter of rework caused by inconsistent habits across the team.",
		question:    "Which practice should the standards emphasize first?",
		options:     [4]string{"Consistent, reviewable steps that others can follow and check", "Whatever each person prefers", "Speed over everything else", "Only documenting after problems occur"},
		explanation: "Consistency and review catch mistakes early and make work repeatable.",
	},
	quizgen.TypeEdgeCase: {
		scenario:    "A %s process handles typical cases well, but an unusual input arrived today that nobody planned for and the output looks wrong.",
		question:    "How should this edge case be handled going forward?",
		options:     [4]string{"Define the expected behaviour for it and check for it explicitly", "Ignore it because it is rare", "Reject every input that looks unusual", "Handle it manually each time without recording anything"},
		explanation: "Naming the edge case and handling it explicitly prevents silent errors.",
	},
	quizgen.TypeSecurity: {
		scenario:    "While reviewing a %s workflow you notice that sensitive information is shared more widely than anyone intended, including with outside contractors.",
		question:    "What is the most appropriate response to this risk?",
		options:     [4]string{"Restrict access to those who need it and report the exposure", "Leave it since nothing bad has happened yet", "Delete all the information immediately", "Mention it casually at some point"},
		explanation: "Least-privilege access and prompt reporting limit the damage of an exposure.",
	},
	quizgen.TypeDataInterpretation: {
		scenario:    "A %s report shows a sudden 40 percent jump in one metric this month while every related metric stayed flat.",
		question:    "What is the most reasonable interpretation of this result?",
		options:     [4]string{"Check the data source and definitions before drawing conclusions", "Announce the improvement right away", "Assume the other metrics are wrong", "Discard the report entirely"},
		explanation: "An isolated jump is often a data or definition change; verify before acting.",
	},
	quizgen.TypeToolSelection: {
		scenario:    "Your %s team must pick a tool for a recurring task and has narrowed it to several options with different costs and learning curves.",
		question:    "Which criterion should drive the final choice of tool?",
		options:     [4]string{"How well it fits the actual task and the team's constraints", "Which one is newest", "Which one has the most features", "Which one a single team member already likes"},
		explanation: "Fit to the task and constraints matters more than novelty or feature count.",
	},
	quizgen.TypeTradeOff: {
		scenario:    "A %s project can either ship a simple version next week or a more flexible design in two months, and both options have supporters.",
		question:    "Which trade-off decision best serves the project?",
		options:     [4]string{"Ship the simple version and plan the flexible design from real feedback", "Wait two months for the perfect design", "Build both in parallel with the same people", "Pick by coin flip to avoid arguments"},
		explanation: "Delivering early and iterating on feedback balances speed against flexibility.",
	},
}

// Generic returns a templated item for qt. round distinguishes repeats of
// the same type in long quizzes; the correct option's position varies with
// both round and type.
func Generic(skill string, qt quizgen.QuestionType, round int) Item {
	tpl, ok := templates[qt]
	if !ok {
		tpl = templates[quizgen.TypeConceptApplication]
	}
	scenario := fmt.Sprintf(tpl.scenario, skill)
	question := tpl.question
	if round > 0 {
		scenario = fmt.Sprintf("%s (case %d)", scenario, round+1)
		question = fmt.Sprintf("%s (case %d)", question, round+1)
	}

	pos := (round + typeIndex(qt)) % len(tpl.options)
	opts := make([]string, 0, len(tpl.options))
	opts = append(opts, tpl.options[1:]...)
	opts = append(opts[:pos], append([]string{tpl.options[0]}, opts[pos:]...)...)

	return Item{
		Type:        string(qt),
		Scenario:    scenario,
		Question:    question,
		Options:     opts,
		Answer:      pos,
		Explanation: tpl.explanation,
	}
}

func typeIndex(qt quizgen.QuestionType) int {
	for i, m := range quizgen.MandatoryTypes {
		if m == qt {
			return i
		}
	}
	return 0
}
