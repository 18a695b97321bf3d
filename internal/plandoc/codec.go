package plandoc

import (
	"fmt"

	"github.com/alexanderramin/waterfall/internal/domain"
)

// Encode converts a project into its document form. Every field is written
// and order is preserved at every level.
func Encode(p *domain.Project) *Document {
	doc := &Document{
		Name:        Ptr(p.Name),
		Description: Ptr(p.Description),
		Phases:      make([]PhaseDoc, 0, len(p.Phases)),
	}
	for _, ph := range p.Phases {
		pd := PhaseDoc{
			Name:        Ptr(ph.Name),
			Description: Ptr(ph.Description),
			Tasks:       make([]TaskDoc, 0, len(ph.Tasks)),
		}
		for _, t := range ph.Tasks {
			td := TaskDoc{
				Title:        Ptr(t.Title),
				DurationDays: Ptr(t.DurationDays),
				Assignee:     Ptr(t.Assignee),
				Completed:    Ptr(t.Completed),
				Subtasks:     make([]SubtaskDoc, 0, len(t.Subtasks)),
			}
			for _, s := range t.Subtasks {
				td.Subtasks = append(td.Subtasks, SubtaskDoc{
					Title:        Ptr(s.Title),
					DurationDays: Ptr(s.DurationDays),
					Completed:    Ptr(s.Completed),
				})
			}
			pd.Tasks = append(pd.Tasks, td)
		}
		doc.Phases = append(doc.Phases, pd)
	}
	return doc
}

// Decode builds a project from a document, filling defaults for anything
// missing. Only a nil document is rejected. Stored durations are trusted;
// task durations are not re-derived from subtasks.
func Decode(doc *Document) (*domain.Project, error) {
	if doc == nil {
		return nil, fmt.Errorf("decoding project: %w", domain.ErrMalformedDocument)
	}

	p := &domain.Project{
		Name:        domain.StrFromPtrWithDefault(domain.DefaultProjectName, doc.Name),
		Description: domain.StrFromPtrWithDefault("", doc.Description),
		Phases:      make([]*domain.Phase, 0, len(doc.Phases)),
	}
	for _, pd := range doc.Phases {
		ph := &domain.Phase{
			Name:        domain.StrFromPtrWithDefault("", pd.Name),
			Description: domain.StrFromPtrWithDefault("", pd.Description),
			Tasks:       make([]*domain.Task, 0, len(pd.Tasks)),
		}
		for _, td := range pd.Tasks {
			ph.Tasks = append(ph.Tasks, decodeTask(td))
		}
		p.Phases = append(p.Phases, ph)
	}
	return p, nil
}

func decodeTask(td TaskDoc) *domain.Task {
	t := &domain.Task{
		Title:        domain.StrFromPtrWithDefault(domain.DefaultTaskTitle, td.Title),
		DurationDays: domain.IntFromPtrWithDefault(domain.DefaultDurationDays, td.DurationDays, td.Duration),
		Assignee:     domain.StrFromPtrWithDefault(domain.DefaultAssignee, td.Assignee),
		Completed:    domain.BoolFromPtrWithDefault(false, td.Completed),
		Subtasks:     make([]*domain.Subtask, 0, len(td.Subtasks)),
	}
	for _, sd := range td.Subtasks {
		t.Subtasks = append(t.Subtasks, &domain.Subtask{
			Title:        domain.StrFromPtrWithDefault(domain.DefaultSubtaskTitle, sd.Title),
			DurationDays: domain.IntFromPtrWithDefault(domain.DefaultDurationDays, sd.DurationDays, sd.Duration),
			Completed:    domain.BoolFromPtrWithDefault(false, sd.Completed),
		})
	}
	return t
}
