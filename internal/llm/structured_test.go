package llm

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type draftTask struct {
	Title string  `json:"title"`
	Days  int     `json:"durationDays"`
	Share float64 `json:"share"`
}

func TestExtractJSON_Accepts(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		title string
		days  int
		share float64
	}{
		{"clean", `{"title":"Design","durationDays":3}`, "Design", 3, 0},
		{"fenced", "```json\n{\"title\":\"Build\",\"durationDays\":5}\n```", "Build", 5, 0},
		{"bare fence with prose", "Some text\n```\n{\"title\":\"Build\",\"durationDays\":2}\n```\nMore text", "Build", 2, 0},
		{"surrounding prose", "Here is the task:\n{\"title\":\"Closing\",\"durationDays\":1}\nHope that helps!", "Closing", 1, 0},
		{"braces inside strings", `{"title":"Wire {header} \"quoted\"","durationDays":4}`, `Wire {header} "quoted"`, 4, 0},
		{"line and block comments", "{\n  // task\n  \"title\": \"Design // not a comment\",\n  \"share\": .5 /* half */\n}", "Design // not a comment", 0, 0.5},
		{"negative leading decimal", `{"title":"x","share":-.25}`, "x", 0, -0.25},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractJSON[draftTask](tt.raw, nil)
			require.NoError(t, err)
			assert.Equal(t, tt.title, got.Title)
			assert.Equal(t, tt.days, got.Days)
			assert.InDelta(t, tt.share, got.Share, 1e-9)
		})
	}
}

func TestExtractJSON_NestedObjects(t *testing.T) {
	type phase struct {
		Name  string      `json:"name"`
		Tasks []draftTask `json:"tasks"`
	}
	raw := `Plan: {"name":"Launch","tasks":[{"title":"Ship","durationDays":2}]} trailing {"ignored":true}`
	got, err := ExtractJSON[phase](raw, nil)
	require.NoError(t, err)
	assert.Equal(t, "Launch", got.Name)
	require.Len(t, got.Tasks, 1)
	assert.Equal(t, "Ship", got.Tasks[0].Title)
}

func TestExtractJSON_Rejects(t *testing.T) {
	for name, raw := range map[string]string{
		"no object":  "I don't know what you mean.",
		"unbalanced": `{"title":"Design"`,
		"broken":     `{"title":"Design", broken}`,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := ExtractJSON[draftTask](raw, nil)
			assert.ErrorIs(t, err, ErrInvalidOutput)
		})
	}
}

func TestExtractJSON_Validator(t *testing.T) {
	positive := func(d draftTask) error {
		if d.Days < 1 {
			return fmt.Errorf("durationDays must be >= 1, got %d", d.Days)
		}
		return nil
	}

	_, err := ExtractJSON[draftTask](`{"title":"Design","durationDays":0}`, positive)
	assert.ErrorIs(t, err, ErrInvalidOutput)
	assert.Contains(t, err.Error(), "validation failed")

	got, err := ExtractJSON[draftTask](`{"title":"Design","durationDays":2}`, positive)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Days)
}

func TestRepair_LeavesStringsAlone(t *testing.T) {
	in := `{"a":".5 // /* kept */","b":.5}`
	assert.Equal(t, `{"a":".5 // /* kept */","b":0.5}`, repair(in))
}
