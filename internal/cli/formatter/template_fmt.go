package formatter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderramin/waterfall/internal/template"
)

// FormatTemplateList renders the template catalog inside a bordered box.
func FormatTemplateList(templates []*template.Template) string {
	rows := make([][]string, 0, len(templates))
	for _, t := range templates {
		rows = append(rows, []string{
			StyleGreen.Render(t.Key),
			Bold(t.Name),
			strconv.Itoa(len(t.Phases)),
			strconv.Itoa(t.TaskCount()),
		})
	}
	return RenderBox("Templates", RenderTable([]string{"KEY", "NAME", "PHASES", "TASKS"}, rows))
}

// FormatTemplateShow renders a template's phases and tasks.
func FormatTemplateShow(t *template.Template) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s  %s\n", Bold(t.Name), Dim("("+t.Key+")")))
	if t.Description != "" {
		b.WriteString(Dim(t.Description) + "\n")
	}
	b.WriteString("\n")

	var items []TreeItem
	for _, ph := range t.Phases {
		items = append(items, TreeItem{Title: StyleHeader.Render(ph.Name)})
		for ti, task := range ph.Tasks {
			detail := FormatDays(task.DurationDays)
			if len(task.Subtasks) > 0 {
				sum := 0
				for _, s := range task.Subtasks {
					sum += s.DurationDays
				}
				detail = FormatDays(sum)
			}
			items = append(items, TreeItem{
				Title:  task.Title + " " + Dim("@"+task.Assignee),
				Level:  1,
				IsLast: ti == len(ph.Tasks)-1,
				Detail: detail,
			})
			for si, s := range task.Subtasks {
				items = append(items, TreeItem{
					Title:  s.Title,
					Level:  2,
					IsLast: si == len(task.Subtasks)-1,
					Detail: FormatDays(s.DurationDays),
				})
			}
		}
	}
	b.WriteString(RenderTree(items))
	return RenderBox("", b.String())
}

// FormatValidation lists template problems, or a success line when there
// are none.
func FormatValidation(name string, errs []error) string {
	if len(errs) == 0 {
		return Success(fmt.Sprintf("%s is valid", Bold(name))) + "\n"
	}
	var b strings.Builder
	b.WriteString(StyleRed.Render(fmt.Sprintf("%s has %d problem(s):", name, len(errs))) + "\n")
	for _, err := range errs {
		b.WriteString("  • " + err.Error() + "\n")
	}
	return b.String()
}
