package generation

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/waterfall/internal/template"
)

const planDraftSystemPrompt = `You are a planning assistant that writes waterfall project plans.

Given a short description, output ONLY a JSON object with this structure:
{
  "name": "Project name",
  "description": "One sentence summary",
  "phases": [
    {
      "name": "Phase name",
      "description": "What happens in this phase",
      "tasks": [
        {
          "title": "Task title",
          "durationDays": 5,
          "assignee": "Role or team",
          "subtasks": [
            {"title": "Subtask title", "durationDays": 2}
          ]
        }
      ]
    }
  ]
}

Rules:
- Phases are sequential stages; order them as they would be executed.
- durationDays is a whole number of working days, at least 1.
- Use an empty list when a task has no subtasks.
- Do not include comments or any text outside the JSON object.`

// buildPlanDraftPrompt adds the closest builtin template as a reference
// outline so the model keeps a familiar phase structure.
func buildPlanDraftPrompt(prompt string) string {
	ref := template.Lookup(Classify(prompt))

	var b strings.Builder
	fmt.Fprintf(&b, "Project description: %s\n\n", strings.TrimSpace(prompt))
	fmt.Fprintf(&b, "Reference outline (%s):\n", ref.Name)
	for _, p := range ref.Phases {
		fmt.Fprintf(&b, "- %s: %s\n", p.Name, p.Description)
	}
	b.WriteString("\nAdapt the outline to the description. Respond with the JSON object only.")
	return b.String()
}
