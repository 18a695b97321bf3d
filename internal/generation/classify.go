package generation

import (
	"strings"

	"github.com/alexanderramin/waterfall/internal/template"
)

type rule struct {
	key      string
	keywords []string
}

// rules are checked in order; the first rule with any keyword contained in
// the prompt wins. "software" is checked before "construction", so
// "build a web app" is software.
var rules = []rule{
	{key: "software", keywords: []string{"soft", "app", "web", "code", "program"}},
	{key: "construction", keywords: []string{"build", "house", "construct", "civil"}},
}

// Classify maps a free-text prompt to a template key using case-insensitive
// substring matching.
func Classify(prompt string) string {
	p := strings.ToLower(prompt)
	for _, r := range rules {
		for _, kw := range r.keywords {
			if strings.Contains(p, kw) {
				return r.key
			}
		}
	}
	return template.FallbackKey
}
