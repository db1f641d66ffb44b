package filtering

import (
	"context"
	"strings"

	"github.com/spigell/candidate-sourcing/internal/candidate"
)

type excludeKeywordsFilter struct {
	keywords []string
}

// NewExcludeKeywords drops candidates whose name, headline, current title or
// summary contains any of the keywords.
func NewExcludeKeywords(keywords []string) Filter {
	lowered := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		if kw = strings.ToLower(strings.TrimSpace(kw)); kw != "" {
			lowered = append(lowered, kw)
		}
	}
	return &excludeKeywordsFilter{keywords: lowered}
}

func (f *excludeKeywordsFilter) Name() string { return "exclude_keywords" }

func (f *excludeKeywordsFilter) IsEnabled() bool { return len(f.keywords) > 0 }

func (f *excludeKeywordsFilter) Apply(_ context.Context, candidates []candidate.Candidate) ([]candidate.Candidate, Step) {
	return keep(candidates, func(c *candidate.Candidate) bool {
		text := strings.ToLower(strings.Join([]string{c.FullName, c.HeadlineOrTitle, c.CurrentTitle, c.Summary}, " "))
		for _, kw := range f.keywords {
			if strings.Contains(text, kw) {
				return false
			}
		}
		return true
	})
}
