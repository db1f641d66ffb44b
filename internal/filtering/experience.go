package filtering

import (
	"context"

	"github.com/spigell/candidate-sourcing/internal/candidate"
)

type experienceRangeFilter struct {
	min, max *int
}

// NewExperienceRange keeps candidates whose estimated experience lies within
// the bounds. Candidates without an estimate are kept.
func NewExperienceRange(minYears, maxYears *int) Filter {
	return &experienceRangeFilter{min: minYears, max: maxYears}
}

func (f *experienceRangeFilter) Name() string { return "experience_range" }

func (f *experienceRangeFilter) IsEnabled() bool { return f.min != nil || f.max != nil }

func (f *experienceRangeFilter) Apply(_ context.Context, candidates []candidate.Candidate) ([]candidate.Candidate, Step) {
	return keep(candidates, func(c *candidate.Candidate) bool {
		if c.ExperienceYears == nil {
			return true
		}
		years := *c.ExperienceYears
		if f.min != nil && years < *f.min {
			return false
		}
		if f.max != nil && years > *f.max {
			return false
		}
		return true
	})
}
