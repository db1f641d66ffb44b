// Package filtering applies the post-fetch predicates a remote search API
// cannot evaluate itself.
package filtering

import (
	"context"

	"go.uber.org/zap"

	"github.com/spigell/candidate-sourcing/internal/candidate"
)

// Filter represents a single filtering step applied to a fetched page.
type Filter interface {
	Name() string
	IsEnabled() bool
	Apply(ctx context.Context, candidates []candidate.Candidate) ([]candidate.Candidate, Step)
}

// Step describes the result of executing a filtering step.
type Step struct {
	Initial int
	Dropped int
	Left    int
}

// Capabilities lists the filter dimensions a remote API handles natively.
type Capabilities struct {
	ExcludeCompanies bool
	ExcludeKeywords  bool
	ExperienceRange  bool
	Seniority        bool
}

// ForFilters builds the steps needed for the filter set, skipping dimensions
// the remote API already applied.
func ForFilters(f *candidate.SearchFilters, native Capabilities) []Filter {
	if f == nil {
		return nil
	}

	var steps []Filter
	if !native.ExcludeCompanies {
		steps = append(steps, NewExcludeCompanies(f.ExcludeCompanies))
	}
	if !native.ExcludeKeywords {
		steps = append(steps, NewExcludeKeywords(f.ExcludeKeywords))
	}
	if !native.ExperienceRange {
		steps = append(steps, NewExperienceRange(f.MinExperienceYears, f.MaxExperienceYears))
	}
	if !native.Seniority {
		steps = append(steps, NewSeniority(f.SeniorityLevels))
	}

	return steps
}

// Run executes the supplied filters sequentially and returns the survivors in
// their original order.
func Run(ctx context.Context, logger *zap.Logger, steps []Filter, candidates []candidate.Candidate) []candidate.Candidate {
	if logger == nil {
		logger = zap.NewNop()
	}

	for _, step := range steps {
		if !step.IsEnabled() {
			continue
		}

		next, info := step.Apply(ctx, candidates)

		if info.Dropped > 0 {
			logger.Debug("filter step",
				zap.String("name", step.Name()),
				zap.Int("initial", info.Initial),
				zap.Int("dropped", info.Dropped),
				zap.Int("left", info.Left),
			)
		}

		candidates = next
	}

	return candidates
}

// keep is the shared loop of every step. The input slice is never modified.
func keep(candidates []candidate.Candidate, pred func(*candidate.Candidate) bool) ([]candidate.Candidate, Step) {
	initial := len(candidates)
	kept := candidates[:0:0]
	for i := range candidates {
		if pred(&candidates[i]) {
			kept = append(kept, candidates[i])
		}
	}
	return kept, Step{Initial: initial, Dropped: initial - len(kept), Left: len(kept)}
}
