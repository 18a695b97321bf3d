package template

import "fmt"

// Validate checks a Template for structural errors.
// Returns a slice of errors (empty if valid).
func Validate(t *Template) []error {
	var errs []error

	if t.Key == "" {
		errs = append(errs, fmt.Errorf("template key is required"))
	}
	if t.Name == "" {
		errs = append(errs, fmt.Errorf("template name is required"))
	}
	if len(t.Phases) == 0 {
		errs = append(errs, fmt.Errorf("at least one phase is required"))
	}

	for i, p := range t.Phases {
		if p.Name == "" {
			errs = append(errs, fmt.Errorf("phase[%d]: name is required", i))
		}
		for j, task := range p.Tasks {
			if task.Title == "" {
				errs = append(errs, fmt.Errorf("phase[%d].task[%d]: title is required", i, j))
			}
			if task.DurationDays < 1 {
				errs = append(errs, fmt.Errorf("phase[%d].task[%d]: duration_days must be >= 1, got %d", i, j, task.DurationDays))
			}
			for k, s := range task.Subtasks {
				if s.Title == "" {
					errs = append(errs, fmt.Errorf("phase[%d].task[%d].subtask[%d]: title is required", i, j, k))
				}
				if s.DurationDays < 1 {
					errs = append(errs, fmt.Errorf("phase[%d].task[%d].subtask[%d]: duration_days must be >= 1, got %d", i, j, k, s.DurationDays))
				}
			}
		}
	}

	return errs
}
