package filtering

import (
	"context"
	"slices"

	"github.com/spigell/candidate-sourcing/internal/candidate"
)

type seniorityFilter struct {
	levels []candidate.Seniority
}

// NewSeniority keeps candidates whose level is in the set. Candidates without
// a level are kept.
func NewSeniority(levels []candidate.Seniority) Filter {
	return &seniorityFilter{levels: levels}
}

func (f *seniorityFilter) Name() string { return "seniority" }

func (f *seniorityFilter) IsEnabled() bool { return len(f.levels) > 0 }

func (f *seniorityFilter) Apply(_ context.Context, candidates []candidate.Candidate) ([]candidate.Candidate, Step) {
	return keep(candidates, func(c *candidate.Candidate) bool {
		return c.SeniorityLevel == "" || slices.Contains(f.levels, c.SeniorityLevel)
	})
}
