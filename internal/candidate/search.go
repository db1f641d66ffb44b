package candidate

import (
	"errors"
	"fmt"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 50
)

// SearchFilters is the optional predicate set accepted by every provider.
// No field is required.
type SearchFilters struct {
	Titles             []string    `json:"titles,omitempty"`
	Locations          []string    `json:"locations,omitempty"`
	Skills             []string    `json:"skills,omitempty"`
	MinExperienceYears *int        `json:"minExperienceYears,omitempty"`
	MaxExperienceYears *int        `json:"maxExperienceYears,omitempty"`
	SeniorityLevels    []Seniority `json:"seniorityLevels,omitempty"`
	IncludeCompanies   []string    `json:"includeCompanies,omitempty"`
	ExcludeCompanies   []string    `json:"excludeCompanies,omitempty"`
	Industries         []string    `json:"industries,omitempty"`
	MustHaveKeywords   []string    `json:"mustHaveKeywords,omitempty"`
	ExcludeKeywords    []string    `json:"excludeKeywords,omitempty"`
	// PageSize is an upper bound on returned candidates. Zero means default.
	PageSize int `json:"pageSize,omitempty"`
	// Cursor is an opaque provider token forwarded verbatim.
	Cursor string `json:"cursor,omitempty"`
}

// Validate checks the bounds of the filter set.
func (f *SearchFilters) Validate() error {
	var errs []error

	if f.PageSize != 0 && (f.PageSize < 1 || f.PageSize > MaxPageSize) {
		errs = append(errs, fmt.Errorf("page size must be between 1 and %d, got %d", MaxPageSize, f.PageSize))
	}
	if f.MinExperienceYears != nil && *f.MinExperienceYears < 0 {
		errs = append(errs, fmt.Errorf("minimum experience years must not be negative"))
	}
	if f.MaxExperienceYears != nil && *f.MaxExperienceYears < 0 {
		errs = append(errs, fmt.Errorf("maximum experience years must not be negative"))
	}
	if f.MinExperienceYears != nil && f.MaxExperienceYears != nil && *f.MinExperienceYears > *f.MaxExperienceYears {
		errs = append(errs, fmt.Errorf("minimum experience years (%d) exceeds maximum (%d)", *f.MinExperienceYears, *f.MaxExperienceYears))
	}
	for _, level := range f.SeniorityLevels {
		if !level.Valid() {
			errs = append(errs, fmt.Errorf("unknown seniority level %q", level))
		}
	}

	return errors.Join(errs...)
}

// PageSizeOrDefault returns the effective page size.
func (f *SearchFilters) PageSizeOrDefault() int {
	if f == nil || f.PageSize <= 0 {
		return DefaultPageSize
	}
	return min(f.PageSize, MaxPageSize)
}

// SearchResult keeps candidates in provider relevance order.
type SearchResult struct {
	Candidates []Candidate `json:"candidates"`
	Pagination Pagination  `json:"pagination"`
	Meta       *Meta       `json:"meta,omitempty"`
}

// Pagination counts reflect the provider page before any post-fetch filter ran.
type Pagination struct {
	NextCursor     string `json:"nextCursor,omitempty"`
	HasMore        bool   `json:"hasMore"`
	TotalEstimated *int   `json:"totalEstimated,omitempty"`
}

type Meta struct {
	SearchID           string `json:"searchId,omitempty"`
	RateLimitRemaining *int   `json:"rateLimitRemaining,omitempty"`
	RateLimitReset     string `json:"rateLimitReset,omitempty"`
}

// Len returns the number of candidates in the result.
func (r *SearchResult) Len() int {
	if r == nil {
		return 0
	}
	return len(r.Candidates)
}
