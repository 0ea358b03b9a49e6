// Package prompt assembles the instructions sent to an extraction backend.
//
// The system instruction and the JSON shape it demands are identical for every
// backend, so a single validator can check any reply. Backends may only add a
// short phrasing hint at the end of the user instruction.
package prompt

import (
	"fmt"
	"strings"
	"time"
)

// SystemPrompt is the fixed, backend-independent system instruction.
const SystemPrompt = `You are an assistant that turns an unstructured brain dump into structured planning records.

Classify every actionable statement into exactly one of:
- task: a one-off action with a clear end ("call the dentist", "finish the report")
- habit: something to repeat on a schedule ("exercise daily", "read every evening")
- event: something that happens at a specific date and time ("meeting with Sam at 3pm Friday")
- sleep: bedtime and wake-up plans ("in bed by 11, up at 7")

Respond with a single JSON object and nothing else, using exactly this shape:
{
  "tasks": [{
    "title": string,
    "description": string (optional),
    "priority": "high" | "medium" | "low",
    "category": "work" | "personal" | "health" | "communication" | "home" | "other",
    "timeEstimate": "5min" | "10min" | "15min" | "30min" | "45min" | "1h" | "2h" | "3h" | "4h" | "1day",
    "energyLevel": "high" | "medium" | "low",
    "dueDate": "YYYY-MM-DD" (optional)
  }],
  "habits": [{
    "title": string,
    "description": string (optional),
    "frequency": "daily" | "weekly" | "custom",
    "scheduledTime": "HH:MM" (optional)
  }],
  "events": [{
    "title": string,
    "startTime": ISO 8601 date-time,
    "endTime": ISO 8601 date-time, not before startTime,
    "type": "appointment" | "meeting" | "deadline" | "social" | "other",
    "isFixed": boolean
  }],
  "sleep": [{
    "bedtime": "HH:MM",
    "wakeTime": "HH:MM",
    "date": "YYYY-MM-DD",
    "quality": integer 0-10 (optional)
  }]
}

Guidance:
- Always include all four arrays; use [] when nothing fits.
- Use only the listed values for enumerated fields. Never invent new ones.
- Time estimates must be realistic: a phone call is 5min-15min, an errand 30min-1h, deep work 2h-4h. Prefer the smaller estimate when unsure.
- Priority: deadlines within two days, health and obligations to other people are high; routine chores are medium; nice-to-haves are low.
- Energy: creative or focused work is high, communication and errands are medium, quick admin is low.
- Resolve relative dates ("tomorrow", "next Monday") against today's date.
- Event times without an explicit end last one hour.
- Keep titles short and imperative. Do not repeat the same item in two arrays.`

// Categories selects which record kinds the backend should extract.
type Categories struct {
	Tasks  bool `json:"tasks" koanf:"tasks"`
	Habits bool `json:"habits" koanf:"habits"`
	Events bool `json:"events" koanf:"events"`
	Sleep  bool `json:"sleep" koanf:"sleep"`
}

// AllCategories enables every record kind.
func AllCategories() Categories {
	return Categories{Tasks: true, Habits: true, Events: true, Sleep: true}
}

// Any reports whether at least one category is enabled.
func (c Categories) Any() bool {
	return c.Tasks || c.Habits || c.Events || c.Sleep
}

// Request is the input to Build.
type Request struct {
	Text       string
	Categories Categories
	Now        time.Time
	Backend    string
}

// Prompt is the assembled instruction pair.
type Prompt struct {
	System string
	User   string
}

// backendHints holds the optional per-backend fragment appended to the user
// instruction. The required output shape never changes.
var backendHints = map[string]string{
	"anthropic": "Return the JSON object only. Do not wrap it in markdown or add commentary before or after it.",
	"openai":    "Reply in JSON mode with the object described above.",
	"groq":      "Output raw JSON only, starting with { and ending with }.",
}

// BackendHint returns the fragment for backend, or "" if it has none.
func BackendHint(backend string) string {
	return backendHints[backend]
}

// Build assembles the system and user instruction for req. It has no side
// effects; callers supply Now.
func Build(req Request) Prompt {
	var b strings.Builder

	b.WriteString("Extract the following from the text below:\n")
	writeCategory(&b, "tasks", req.Categories.Tasks)
	writeCategory(&b, "habits", req.Categories.Habits)
	writeCategory(&b, "events", req.Categories.Events)
	writeCategory(&b, "sleep", req.Categories.Sleep)

	fmt.Fprintf(&b, "\nToday is %s (%s).\n", req.Now.Format("2006-01-02"), req.Now.Format("Monday, January 2, 2006"))

	b.WriteString("\nText:\n")
	b.WriteString(Preprocess(req.Text))
	b.WriteString("\n")

	if hint := BackendHint(req.Backend); hint != "" {
		b.WriteString("\n")
		b.WriteString(hint)
		b.WriteString("\n")
	}

	return Prompt{System: SystemPrompt, User: b.String()}
}

func writeCategory(b *strings.Builder, name string, enabled bool) {
	if enabled {
		fmt.Fprintf(b, "- %s: yes\n", name)
		return
	}
	fmt.Fprintf(b, "- %s: no (return an empty \"%s\" array)\n", name, name)
}
