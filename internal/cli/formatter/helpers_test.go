package formatter

import (
	"bytes"
	"errors"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/alexanderramin/waterfall/internal/domain"
	"github.com/stretchr/testify/assert"
)

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

func stripANSI(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}

func TestFormatDays(t *testing.T) {
	assert.Equal(t, "0d", FormatDays(0))
	assert.Equal(t, "0d", FormatDays(-2))
	assert.Equal(t, "7d", FormatDays(7))
}

func TestHumanTimestamp(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		name string
		t    time.Time
		want string
	}{
		{"just now", now.Add(-10 * time.Second), "Just now"},
		{"minutes", now.Add(-5 * time.Minute), "5m ago"},
		{"hours", now.Add(-3 * time.Hour), "3h ago"},
		{"older", now.AddDate(0, 0, -3), "Jun 7, 2025"},
		{"future", now.AddDate(0, 0, 1), "Jun 11, 2025"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HumanTimestamp(tt.t, now))
		})
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "abcd…", Truncate("abcdefgh", 5))
	assert.Equal(t, "abc", Truncate("abc", 0))
}

func TestRenderTable_AlignsColumns(t *testing.T) {
	out := stripANSI(RenderTable([]string{"A", "LONGER"}, [][]string{
		{"wide cell", "x"},
		{"n", "y"},
	}))
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	assert.Len(t, lines, 4)
	assert.Equal(t, strings.Index(lines[0], "LONGER"), strings.Index(lines[2], "x"))
	assert.Equal(t, strings.Index(lines[2], "x"), strings.Index(lines[3], "y"))
	assert.Empty(t, RenderTable(nil, nil))
}

func TestRenderProgress(t *testing.T) {
	out := stripANSI(RenderProgress(domain.Progress{Done: 1, Total: 4}, 8))
	assert.Contains(t, out, "25%")
	assert.Contains(t, out, "(1/4)")
	assert.Equal(t, 2, strings.Count(out, filledBlock))

	empty := stripANSI(RenderProgress(domain.Progress{}, 1))
	assert.Contains(t, empty, "0%")
	assert.Equal(t, 2, strings.Count(empty, emptyBlock))
}

func TestRenderTree_Connectors(t *testing.T) {
	out := stripANSI(RenderTree([]TreeItem{
		{Title: "Phase"},
		{Title: "a", Level: 1},
		{Title: "b", Level: 1, IsLast: true, Done: true, Detail: "2d"},
	}))
	assert.Contains(t, out, "├─ a")
	assert.Contains(t, out, "└─ ✔ b")
	assert.Contains(t, out, "[ 2d ]")
	assert.Empty(t, RenderTree(nil))
}

func TestCheckMarkAndError(t *testing.T) {
	assert.Contains(t, stripANSI(CheckMark(true)), "✔")
	assert.Contains(t, stripANSI(CheckMark(false)), "☐")
	assert.Equal(t, "Error: boom", stripANSI(Error(errors.New("boom"))))
}

func TestSpinner_StopClearsLine(t *testing.T) {
	var buf bytes.Buffer
	stop := StartSpinner(&buf, "working")
	stop()
	assert.True(t, strings.HasSuffix(buf.String(), "\r\033[K"))
}
