package filtering

import (
	"context"
	"strings"

	"github.com/spigell/candidate-sourcing/internal/candidate"
)

type excludeCompaniesFilter struct {
	companies map[string]struct{}
}

// NewExcludeCompanies drops candidates whose current company matches one of
// the given names, case-insensitively. Candidates without a current company
// are always kept.
func NewExcludeCompanies(companies []string) Filter {
	set := make(map[string]struct{}, len(companies))
	for _, company := range companies {
		if company = strings.ToLower(strings.TrimSpace(company)); company != "" {
			set[company] = struct{}{}
		}
	}
	return &excludeCompaniesFilter{companies: set}
}

func (f *excludeCompaniesFilter) Name() string { return "exclude_companies" }

func (f *excludeCompaniesFilter) IsEnabled() bool { return len(f.companies) > 0 }

func (f *excludeCompaniesFilter) Apply(_ context.Context, candidates []candidate.Candidate) ([]candidate.Candidate, Step) {
	return keep(candidates, func(c *candidate.Candidate) bool {
		if c.CurrentCompany == "" {
			return true
		}
		_, excluded := f.companies[strings.ToLower(strings.TrimSpace(c.CurrentCompany))]
		return !excluded
	})
}
