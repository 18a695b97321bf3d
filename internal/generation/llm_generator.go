package generation

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/waterfall/internal/llm"
	"github.com/alexanderramin/waterfall/internal/plandoc"
)

// LLMGenerator asks a language model for a plan document.
type LLMGenerator struct {
	client llm.LLMClient
}

func NewLLMGenerator(client llm.LLMClient) *LLMGenerator {
	return &LLMGenerator{client: client}
}

func (g *LLMGenerator) Generate(ctx context.Context, prompt string) (*plandoc.Document, error) {
	resp, err := g.client.Generate(ctx, llm.GenerateRequest{
		Task:         llm.TaskPlanDraft,
		SystemPrompt: planDraftSystemPrompt,
		UserPrompt:   buildPlanDraftPrompt(prompt),
		JSON:         true,
	})
	if err != nil {
		return nil, fmt.Errorf("llm plan draft failed: %w", err)
	}

	doc, err := llm.ExtractJSON[plandoc.Document](resp.Text, validatePlanDraft)
	if err != nil {
		return nil, fmt.Errorf("failed to extract plan draft: %w", err)
	}
	Aggregate(&doc)
	return &doc, nil
}

func validatePlanDraft(doc plandoc.Document) error {
	if strings.TrimSpace(doc.NameOr("")) == "" {
		return fmt.Errorf("name is required")
	}
	if len(doc.Phases) == 0 {
		return fmt.Errorf("at least one phase is required")
	}
	for i, ph := range doc.Phases {
		if ph.Name == nil || strings.TrimSpace(*ph.Name) == "" {
			return fmt.Errorf("phase[%d]: name is required", i)
		}
		for j, td := range ph.Tasks {
			if td.DurationDays != nil && *td.DurationDays < 1 {
				return fmt.Errorf("phase[%d].task[%d]: durationDays must be >= 1", i, j)
			}
			for k, sd := range td.Subtasks {
				if sd.DurationDays != nil && *sd.DurationDays < 1 {
					return fmt.Errorf("phase[%d].task[%d].subtask[%d]: durationDays must be >= 1", i, j, k)
				}
			}
		}
	}
	return nil
}
