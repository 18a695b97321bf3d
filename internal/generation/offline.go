package generation

import (
	"github.com/alexanderramin/waterfall/internal/domain"
	"github.com/alexanderramin/waterfall/internal/plandoc"
	"github.com/alexanderramin/waterfall/internal/template"
)

// Generate builds a plan document for prompt from the matching template.
// The result is deterministic and shares no memory with the catalog.
func Generate(prompt string) *plandoc.Document {
	return FromTemplate(template.Lookup(Classify(prompt)))
}

// FromTemplate copies t into a fresh document. Tasks with subtasks take the
// subtask sum as their duration; the authored value is ignored.
func FromTemplate(t *template.Template) *plandoc.Document {
	doc := &plandoc.Document{
		Name:        plandoc.Ptr(t.Name),
		Description: plandoc.Ptr(t.Description),
		Phases:      make([]plandoc.PhaseDoc, 0, len(t.Phases)),
	}
	for _, ps := range t.Phases {
		pd := plandoc.PhaseDoc{
			Name:        plandoc.Ptr(ps.Name),
			Description: plandoc.Ptr(ps.Description),
			Tasks:       make([]plandoc.TaskDoc, 0, len(ps.Tasks)),
		}
		for _, ts := range ps.Tasks {
			td := plandoc.TaskDoc{
				Title:    plandoc.Ptr(ts.Title),
				Assignee: plandoc.Ptr(ts.Assignee),
				Subtasks: make([]plandoc.SubtaskDoc, 0, len(ts.Subtasks)),
			}
			sum := 0
			for _, ss := range ts.Subtasks {
				td.Subtasks = append(td.Subtasks, plandoc.SubtaskDoc{
					Title:        plandoc.Ptr(ss.Title),
					DurationDays: plandoc.Ptr(ss.DurationDays),
				})
				sum += ss.DurationDays
			}
			if len(ts.Subtasks) > 0 {
				td.DurationDays = plandoc.Ptr(sum)
			} else {
				td.DurationDays = plandoc.Ptr(ts.DurationDays)
			}
			pd.Tasks = append(pd.Tasks, td)
		}
		doc.Phases = append(doc.Phases, pd)
	}
	return doc
}

// Aggregate applies generation-time duration aggregation to a document that
// came from elsewhere: every task with subtasks gets their summed duration.
// Subtask durations that are absent count as one day.
func Aggregate(doc *plandoc.Document) {
	for i := range doc.Phases {
		for j := range doc.Phases[i].Tasks {
			td := &doc.Phases[i].Tasks[j]
			if len(td.Subtasks) == 0 {
				continue
			}
			sum := 0
			for _, sd := range td.Subtasks {
				sum += domain.IntFromPtrWithDefault(domain.DefaultDurationDays, sd.DurationDays, sd.Duration)
			}
			td.DurationDays = plandoc.Ptr(sum)
			td.Duration = nil
		}
	}
}
