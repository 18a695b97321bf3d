package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/waterfall/internal/domain"
)

const (
	filledBlock = "█"
	emptyBlock  = "░"
)

// RenderProgress renders completion like [████░░░░] 50% (2/4).
// Green above two thirds, yellow above one third, red below.
func RenderProgress(p domain.Progress, width int) string {
	if width < 2 {
		width = 2
	}
	pct := 0.0
	if p.Total > 0 {
		pct = float64(p.Done) / float64(p.Total)
	}
	filled := min(int(pct*float64(width)), width)
	bar := strings.Repeat(filledBlock, filled) + strings.Repeat(emptyBlock, width-filled)

	style := StyleGreen
	if pct < 0.33 {
		style = StyleRed
	} else if pct < 0.66 {
		style = StyleYellow
	}
	return fmt.Sprintf("[%s] %3d%% %s", style.Render(bar), p.Percent(), Dim(fmt.Sprintf("(%d/%d)", p.Done, p.Total)))
}
