package formatter

import (
	"strconv"

	"github.com/alexanderramin/waterfall/internal/app"
)

// FormatLibraryList renders stored plans, most recently updated first.
func FormatLibraryList(plans []app.PlanSummary) string {
	if len(plans) == 0 {
		return Dim("The plan library is empty.") + "\n"
	}
	rows := make([][]string, 0, len(plans))
	for _, p := range plans {
		rows = append(rows, []string{
			Dim(shortID(p.ID)),
			Bold(p.Name),
			strconv.Itoa(p.Phases),
			strconv.Itoa(p.Revisions),
			Dim(p.UpdatedAt),
		})
	}
	return RenderTable([]string{"ID", "NAME", "PHASES", "REVISIONS", "UPDATED"}, rows)
}

// FormatHistory renders the revisions of one stored plan.
func FormatHistory(name string, revs []app.RevisionSummary) string {
	if len(revs) == 0 {
		return Dim("No revisions for "+name+".") + "\n"
	}
	rows := make([][]string, 0, len(revs))
	for _, r := range revs {
		rows = append(rows, []string{
			StyleGreen.Render("r" + strconv.Itoa(r.Number)),
			Dim(shortID(r.ID)),
			r.CreatedAt,
		})
	}
	return Header(name) + "\n" + RenderTable([]string{"REV", "ID", "SAVED"}, rows)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
