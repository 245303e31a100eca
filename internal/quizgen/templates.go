package quizgen

import "github.com/abhisek/skillcheck/internal/skilldomain"

const systemPrompt = `You generate skill assessment quizzes for a backend service. ` +
	`Your reply is parsed by a program: output one JSON document and nothing else, ` +
	`with no Markdown fences and no commentary.`

// domainIntros is the opening paragraph per (domain, difficulty). Domains
// without an entry use the general domain's paragraph.
var domainIntros = map[skilldomain.Domain]map[Difficulty]string{
	skilldomain.Cooking: {
		Beginner:     `Write {{.Count}} BEGINNER-LEVEL multiple-choice questions about "{{.Skill}}" ONLY. Stay strictly within cooking: kitchen safety, basic knife work, measuring, heat levels, simple recipes and common beginner mistakes. DO NOT include programming, technology or unrelated topics.`,
		Intermediate: `Write {{.Count}} INTERMEDIATE-LEVEL multiple-choice questions about "{{.Skill}}" ONLY. Stay strictly within cooking: core techniques, kitchen tools, cooking temperatures, ingredient handling, food safety and everyday recipes. DO NOT include programming, technology or unrelated topics.`,
		Advanced:     `Write {{.Count}} ADVANCED-LEVEL multiple-choice questions about "{{.Skill}}" ONLY. Stay strictly within cooking: complex techniques, recipe development, flavour pairing, international cuisines, kitchen management and troubleshooting dishes. DO NOT include programming, technology or unrelated topics.`,
		Expert:       `Write {{.Count}} EXPERT-LEVEL multiple-choice questions about "{{.Skill}}" ONLY. Stay strictly within cooking: food science, professional kitchen operations, regional specialities, ingredient chemistry and gastronomy that only experienced chefs would know. DO NOT include programming, technology or unrelated topics.`,
	},
	skilldomain.Baking: {
		Beginner:     `Write {{.Count}} BEGINNER-LEVEL multiple-choice questions about "{{.Skill}}" ONLY. Stay strictly within baking: measuring by weight, oven temperatures, mixing methods and why simple bakes fail. DO NOT include unrelated topics.`,
		Intermediate: `Write {{.Count}} INTERMEDIATE-LEVEL multiple-choice questions about "{{.Skill}}" ONLY. Stay strictly within baking: doughs and batters, leavening, proofing, lamination basics and fixing common faults. DO NOT include unrelated topics.`,
		Advanced:     `Write {{.Count}} ADVANCED-LEVEL multiple-choice questions about "{{.Skill}}" ONLY. Stay strictly within baking: hydration and gluten development, sourdough management, pastry lamination and recipe scaling. DO NOT include unrelated topics.`,
		Expert:       `Write {{.Count}} EXPERT-LEVEL multiple-choice questions about "{{.Skill}}" ONLY. Stay strictly within baking: ingredient chemistry, enzyme activity, production scheduling and high-volume consistency that only professional bakers would know. DO NOT include unrelated topics.`,
	},
	skilldomain.Accounting: {
		Beginner:     `Write {{.Count}} BEGINNER-LEVEL multiple-choice questions about "{{.Skill}}" ONLY. Stay strictly within accounting: the accounting equation, debits and credits, simple journal entries and reading a basic statement. DO NOT include cooking, programming or unrelated topics.`,
		Intermediate: `Write {{.Count}} INTERMEDIATE-LEVEL multiple-choice questions about "{{.Skill}}" ONLY. Stay strictly within accounting: bookkeeping, financial statements, payroll, payables and receivables, basic tax concepts and accounting principles. DO NOT include cooking, programming or unrelated topics.`,
		Advanced:     `Write {{.Count}} ADVANCED-LEVEL multiple-choice questions about "{{.Skill}}" ONLY. Stay strictly within accounting: managerial accounting, cost analysis, budgeting, statement preparation, tax compliance, internal controls and audit procedures. DO NOT include cooking, programming or unrelated topics.`,
		Expert:       `Write {{.Count}} EXPERT-LEVEL multiple-choice questions about "{{.Skill}}" ONLY. Stay strictly within accounting: IFRS and GAAP reporting, complex tax planning, forensic accounting, audit procedures and regulatory compliance that only senior accountants would know. DO NOT include cooking, programming or unrelated topics.`,
	},
	skilldomain.Finance: {
		Beginner:     `Write {{.Count}} BEGINNER-LEVEL multiple-choice questions about "{{.Skill}}" ONLY. Stay strictly within finance: interest, budgeting, risk and return and reading simple financial figures. DO NOT include unrelated topics.`,
		Intermediate: `Write {{.Count}} INTERMEDIATE-LEVEL multiple-choice questions about "{{.Skill}}" ONLY. Stay strictly within finance: time value of money, ratio analysis, valuation basics and diversification. DO NOT include unrelated topics.`,
		Advanced:     `Write {{.Count}} ADVANCED-LEVEL multiple-choice questions about "{{.Skill}}" ONLY. Stay strictly within finance: discounted cash flow models, capital structure, portfolio construction and hedging. DO NOT include unrelated topics.`,
		Expert:       `Write {{.Count}} EXPERT-LEVEL multiple-choice questions about "{{.Skill}}" ONLY. Stay strictly within finance: derivatives pricing, risk management frameworks, regulatory capital and institutional portfolio strategy. DO NOT include unrelated topics.`,
	},
	skilldomain.Marketing: {
		Beginner:     `Write {{.Count}} BEGINNER-LEVEL multiple-choice questions about "{{.Skill}}" ONLY. Stay strictly within marketing: audiences, channels, basic campaign metrics and common beginner mistakes. DO NOT include unrelated topics.`,
		Intermediate: `Write {{.Count}} INTERMEDIATE-LEVEL multiple-choice questions about "{{.Skill}}" ONLY. Stay strictly within marketing: segmentation, funnel metrics, content planning, SEO basics and A/B testing. DO NOT include unrelated topics.`,
		Advanced:     `Write {{.Count}} ADVANCED-LEVEL multiple-choice questions about "{{.Skill}}" ONLY. Stay strictly within marketing: attribution, budget allocation, lifecycle campaigns and experiment design. DO NOT include unrelated topics.`,
		Expert:       `Write {{.Count}} EXPERT-LEVEL multiple-choice questions about "{{.Skill}}" ONLY. Stay strictly within marketing: brand strategy, market entry, marketing mix modelling and large-scale growth trade-offs. DO NOT include unrelated topics.`,
	},
	skilldomain.Technical: {
		Beginner:     `Write {{.Count}} BEGINNER-LEVEL multiple-choice questions about "{{.Skill}}" ONLY. Stay strictly within "{{.Skill}}": basic syntax, simple programs, reading short snippets and common beginner mistakes. Include short code snippets. DO NOT include cooking, accounting or non-technical topics.`,
		Intermediate: `Write {{.Count}} INTERMEDIATE-LEVEL multiple-choice questions about "{{.Skill}}" ONLY. Stay strictly within "{{.Skill}}": core concepts, basic implementation, common patterns and debugging. Include simple code examples. DO NOT include cooking, accounting or non-technical topics.`,
		Advanced:     `Write {{.Count}} ADVANCED-LEVEL multiple-choice questions about "{{.Skill}}" ONLY. Stay strictly within "{{.Skill}}": practical implementation, performance, real-world problem solving and development patterns. Include relevant code examples. DO NOT include cooking, accounting or non-technical topics.`,
		Expert:       `Write {{.Count}} EXPERT-LEVEL multiple-choice questions about "{{.Skill}}" ONLY. Stay strictly within "{{.Skill}}": performance optimisation, security, architecture, system design and complex problem solving. Include code snippets or technical scenarios. DO NOT include cooking, accounting or non-technical topics.`,
	},
	skilldomain.General: {
		Beginner:     `Write {{.Count}} BEGINNER-LEVEL multiple-choice questions about "{{.Skill}}". Focus on fundamental concepts, everyday use and the mistakes newcomers make.`,
		Intermediate: `Write {{.Count}} INTERMEDIATE-LEVEL multiple-choice questions about "{{.Skill}}". Focus on fundamental knowledge, essential understanding and clear practical examples.`,
		Advanced:     `Write {{.Count}} ADVANCED-LEVEL multiple-choice questions about "{{.Skill}}". Focus on practical application, solid understanding of core concepts and realistic scenarios.`,
		Expert:       `Write {{.Count}} EXPERT-LEVEL multiple-choice questions about "{{.Skill}}". Focus on professional expertise, complex problem solving and industry best practices, with challenging scenarios that test deep understanding.`,
	},
}

// difficultyBehaviour is the one-line difficulty rule for scenario quizzes.
var difficultyBehaviour = map[Difficulty]string{
	Beginner:     "Simple real-world usage and common mistakes",
	Intermediate: "Practical execution, debugging and optimisation",
	Advanced:     "Performance tuning, edge cases and impact analysis",
	Expert:       "Architecture, scalability, security and risk trade-offs",
}

// assessmentFocus is the per-difficulty focus list for assessment quizzes.
var assessmentFocus = map[Difficulty][]string{
	Beginner: {
		"Fundamental usage and simple program structure",
		"Basic tasks and the mistakes beginners make",
		"Reading and predicting the result of short examples",
	},
	Intermediate: {
		"Applied usage, debugging and optimisation",
		"Multi-step problems and common pitfalls",
		"Finding and fixing the bug in a realistic snippet",
	},
	Advanced: {
		"Edge cases, performance and optimisation",
		"Architectural decisions under constraints",
		"Performance-critical code and best practices",
	},
	Expert: {
		"Architecture, scalability and failure handling",
		"Production-level challenges and trade-offs",
		"Mission-critical code and system design",
	},
}

const scenarioTemplate = `{{.Intro}}

This quiz verifies real proficiency. It is not a learning exercise.

INPUT
- skill_name: {{.Skill}}
- difficulty: {{.Difficulty}}
{{- if .Verification}}
- verification_mode: strict
{{- end}}
- question_count: {{.Count}}

RULES
1. Generate EXACTLY {{.Count}} questions.
2. Every question is scenario-based and tests real-world application.
3. No theory, definition or memorisation questions.
4. Every question has exactly 4 realistic options and EXACTLY ONE correct answer.
5. Every question has its own time limit.
6. Output valid JSON only.

MANDATORY QUESTION TYPES (exactly one question of each)
{{- range $i, $t := .Types}}
{{inc $i}}. {{$t}}
{{- end}}

TIME LIMITS (seconds)
- beginner: 45-60
- intermediate: 60-90
- advanced: 90-120
- expert: 120-180
Use {{.BandMin}}-{{.BandMax}} seconds for this quiz.

DIFFICULTY
{{.Behaviour}}

QUESTION DESIGN
- Scenario: 3-5 concise lines, at least 50 characters
- Question: a clear decision, at least 20 characters
- Explanation: a short factual justification
- No repeated scenarios and no vague or obviously wrong options

OUTPUT FORMAT
{"skill": {{json .Skill}}, "difficulty": "{{.Difficulty}}",
{{- if .Verification}} "verification_mode": "strict", "pass_criteria": {"minimum_score_percent": {{.Pass.MinScorePercent}}, "minimum_correct_answers": {{.Pass.MinCorrectAnswers}}, "timeouts_allowed": {{.Pass.TimeoutsAllowed}}},{{end}} "questions": [{"question_type": "<mandatory type>", "scenario": "<real-world scenario>", "question": "<decision-based question>", "time_limit_seconds": <integer>, "options": ["<option>", "<option>", "<option>", "<option>"], "correct_answer": "Option A|Option B|Option C|Option D", "explanation": "<brief justification>"}]}

CONSTRAINTS
- Do not mention AI, quizzes, exams or assessments inside the questions
- Do not include hints
- Do not include more or fewer than {{.Count}} questions
- Every scenario must be strictly about {{.Skill}}`

const legacyTemplate = `{{.Intro}}

CRITICAL REQUIREMENTS:
1. Generate exactly {{.Count}} questions about "{{.Skill}}"
2. Each question must have 4 options (A, B, C, D)
3. Include exactly 1 correct answer per question
4. Questions must be specific to {{.Skill}}, not generic
5. Include relevant context, scenarios or examples where appropriate
{{- if .Technical}}
6. Include a code snippet in a "codeSnippet" field when the question is about code
7. For code-based questions include the expected output in an "expectedOutput" field
{{- else}}
6. Every wrong option must be plausible to someone who half-knows {{.Skill}}
7. No question may be answerable without knowing {{.Skill}}
{{- end}}
8. Test actual knowledge, not trivia
9. Make questions challenging but fair for {{.Difficulty}} level
{{- if .CodeFocus}}

FOCUS FOR {{upper .Difficulty}} LEVEL:
{{- range .Focus}}
- {{.}}
{{- end}}
Give each question a short "questionType" label and a "subSkill" naming the sub-area tested.
{{- end}}

FORMAT REQUIREMENTS:
- Return one JSON object: {"questions": [...]}
- Each question object has: "question", "options" (array of 4 strings), "correctAnswerIndex" (0-3)
- Optional fields: "codeSnippet", "expectedOutput"{{if .CodeFocus}}, "questionType", "subSkill"{{end}}
- Return exactly {{.Count}} question objects`
