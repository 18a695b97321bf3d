package formatter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderramin/waterfall/internal/app"
	"github.com/alexanderramin/waterfall/internal/domain"
	"github.com/alexanderramin/waterfall/internal/projection"
)

// FormatPlan renders a whole project as a phase/task/subtask outline.
func FormatPlan(p *domain.Project) string {
	var b strings.Builder
	b.WriteString(Bold(p.Name) + "\n")
	if p.Description != "" {
		b.WriteString(Dim(p.Description) + "\n")
	}
	b.WriteString(fmt.Sprintf("%s  %s\n\n", StyleBlue.Render(FormatDays(p.TotalDays())), RenderProgress(p.Progress(), 20)))

	if len(p.Phases) == 0 {
		b.WriteString(Dim("No phases yet.") + "\n")
		return b.String()
	}

	var items []TreeItem
	for i, ph := range p.Phases {
		items = append(items, TreeItem{
			Title:  fmt.Sprintf("%d. %s", i+1, StyleHeader.Render(ph.Name)),
			Detail: FormatDays(ph.TotalDays()),
		})
		for ti, t := range ph.Tasks {
			items = append(items, TreeItem{
				Title:  t.Title + " " + Dim("@"+t.Assignee),
				Level:  1,
				IsLast: ti == len(ph.Tasks)-1,
				Done:   t.Completed,
				Detail: FormatDays(t.DurationDays),
			})
			for si, s := range t.Subtasks {
				items = append(items, TreeItem{
					Title:  s.Title,
					Level:  2,
					IsLast: si == len(t.Subtasks)-1,
					Done:   s.Completed,
					Detail: FormatDays(s.DurationDays),
				})
			}
		}
	}
	b.WriteString(RenderTree(items))
	return b.String()
}

// FormatHeader renders the detail-pane header for a phase or the project.
func FormatHeader(h app.Header) string {
	title := StyleHeader.Render(h.Title)
	if !h.IsPhase {
		title = Bold(h.Title)
	}
	var b strings.Builder
	b.WriteString(title + "  " + StyleBlue.Render(FormatDays(h.TotalDays)) + "\n")
	if h.Description != "" {
		b.WriteString(Dim(h.Description) + "\n")
	}
	b.WriteString(RenderProgress(h.Progress, 20))
	return b.String()
}

// FormatRows renders a phase's flat row list as a numbered table. Row
// numbers are 1-based to match the CLI's --row flag.
func FormatRows(rows []projection.Row) string {
	if len(rows) == 0 {
		return Dim("No tasks in this phase.") + "\n"
	}
	table := make([][]string, 0, len(rows))
	for _, r := range rows {
		table = append(table, RowCells(r))
	}
	return RenderTable([]string{"#", "DONE", "TITLE", "DURATION", "ASSIGNEE"}, table)
}

// RowCells renders one row's columns.
func RowCells(r projection.Row) []string {
	label := r.Label()
	if r.Kind == projection.KindSubtask {
		label = Dim(label)
	}
	assignee := r.Assignee()
	if assignee != "" {
		assignee = StylePurple.Render(assignee)
	}
	return []string{
		Dim(strconv.Itoa(r.Index + 1)),
		CheckMark(r.Completed()),
		label,
		FormatDays(r.DurationDays()),
		assignee,
	}
}

// FormatPhaseList renders the phase list with task counts and progress.
func FormatPhaseList(phases []app.PhaseRef) string {
	if len(phases) == 0 {
		return Dim("No phases yet.") + "\n"
	}
	rows := make([][]string, 0, len(phases))
	for _, ph := range phases {
		rows = append(rows, []string{
			Dim(strconv.Itoa(ph.Index + 1)),
			Bold(ph.Name),
			strconv.Itoa(ph.Tasks),
			fmt.Sprintf("%d%%", ph.Progress.Percent()),
		})
	}
	return RenderTable([]string{"#", "PHASE", "TASKS", "DONE"}, rows)
}
