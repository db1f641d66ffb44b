package tools

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/candidate-sourcing/internal/candidate"
	"github.com/spigell/candidate-sourcing/internal/export"
	"github.com/spigell/candidate-sourcing/internal/provider"
)

type SearchInput struct {
	Titles             []string `json:"titles,omitempty"`
	Locations          []string `json:"locations,omitempty"`
	Skills             []string `json:"skills,omitempty"`
	MinExperienceYears *int     `json:"min_experience_years,omitempty"`
	MaxExperienceYears *int     `json:"max_experience_years,omitempty"`
	SeniorityLevels    []string `json:"seniority_levels,omitempty"`
	IncludeCompanies   []string `json:"include_companies,omitempty"`
	ExcludeCompanies   []string `json:"exclude_companies,omitempty"`
	Industries         []string `json:"industries,omitempty"`
	MustHaveKeywords   []string `json:"must_have_keywords,omitempty"`
	ExcludeKeywords    []string `json:"exclude_keywords,omitempty"`
	PageSize           *int     `json:"page_size,omitempty"`
	Cursor             string   `json:"cursor,omitempty"`
}

// Filters validates the input and converts it to provider filters.
func (in *SearchInput) Filters() (*candidate.SearchFilters, error) {
	filters := &candidate.SearchFilters{
		Titles:             in.Titles,
		Locations:          in.Locations,
		Skills:             in.Skills,
		MinExperienceYears: in.MinExperienceYears,
		MaxExperienceYears: in.MaxExperienceYears,
		IncludeCompanies:   in.IncludeCompanies,
		ExcludeCompanies:   in.ExcludeCompanies,
		Industries:         in.Industries,
		MustHaveKeywords:   in.MustHaveKeywords,
		ExcludeKeywords:    in.ExcludeKeywords,
		PageSize:           candidate.DefaultPageSize,
		Cursor:             in.Cursor,
	}

	if in.PageSize != nil {
		if *in.PageSize < 1 || *in.PageSize > candidate.MaxPageSize {
			return nil, provider.InvalidInput("page_size must be between 1 and %d, got %d", candidate.MaxPageSize, *in.PageSize)
		}
		filters.PageSize = *in.PageSize
	}

	for _, raw := range in.SeniorityLevels {
		level, err := candidate.ParseSeniority(raw)
		if err != nil {
			return nil, provider.InvalidInput("%v", err)
		}
		filters.SeniorityLevels = append(filters.SeniorityLevels, level)
	}

	if err := filters.Validate(); err != nil {
		return nil, provider.InvalidInput("%v", err)
	}

	return filters, nil
}

type indexedRecord struct {
	Index int `json:"index"`
	export.Record
	Bookmarked bool `json:"bookmarked"`
}

type paginationOutput struct {
	NextCursor     string `json:"next_cursor,omitempty"`
	HasMore        bool   `json:"has_more"`
	TotalEstimated *int   `json:"total_estimated,omitempty"`
}

type metaOutput struct {
	SearchID           string `json:"search_id"`
	RateLimitRemaining *int   `json:"rate_limit_remaining,omitempty"`
	RateLimitReset     string `json:"rate_limit_reset,omitempty"`
}

type SearchOutput struct {
	Candidates []indexedRecord  `json:"candidates"`
	Pagination paginationOutput `json:"pagination"`
	Meta       metaOutput       `json:"meta"`
}

// SearchCandidates runs a search on the active provider and remembers the
// result for export.
func (h *Handlers) SearchCandidates(ctx context.Context, args map[string]any) (any, error) {
	var in SearchInput
	if err := decode(args, &in); err != nil {
		return nil, err
	}
	return h.Search(ctx, &in)
}

// Search is SearchCandidates for already decoded input.
func (h *Handlers) Search(ctx context.Context, in *SearchInput) (*SearchOutput, error) {
	filters, err := in.Filters()
	if err != nil {
		return nil, err
	}

	p, err := h.selector.Active()
	if err != nil {
		return nil, err
	}

	result, err := p.SearchCandidates(ctx, filters)
	if err != nil {
		return nil, err
	}

	meta := metaOutput{}
	if result.Meta != nil {
		meta = metaOutput{
			SearchID:           result.Meta.SearchID,
			RateLimitRemaining: result.Meta.RateLimitRemaining,
			RateLimitReset:     result.Meta.RateLimitReset,
		}
	}
	if meta.SearchID == "" {
		meta.SearchID = h.newID()
	}

	h.rememberSearch(result.Candidates, meta.SearchID)

	h.logger.Info("search completed",
		zap.String("provider", string(p.Name())),
		zap.String("search_id", meta.SearchID),
		zap.Int("candidates", result.Len()),
		zap.Bool("has_more", result.Pagination.HasMore),
	)

	out := &SearchOutput{
		Candidates: make([]indexedRecord, 0, len(result.Candidates)),
		Pagination: paginationOutput{
			NextCursor:     result.Pagination.NextCursor,
			HasMore:        result.Pagination.HasMore,
			TotalEstimated: result.Pagination.TotalEstimated,
		},
		Meta: meta,
	}
	bookmarked := h.bookmarkedIDs(result.Candidates)
	for i, c := range result.Candidates {
		out.Candidates = append(out.Candidates, indexedRecord{
			Index:      i + 1,
			Record:     export.NewRecord(c),
			Bookmarked: bookmarked[c.SourceID],
		})
	}

	return out, nil
}

type sourceIDInput struct {
	SourceID string `json:"source_id"`
}

func (in *sourceIDInput) validate() error {
	in.SourceID = strings.TrimSpace(in.SourceID)
	if in.SourceID == "" {
		return provider.InvalidInput("source_id is required")
	}
	return nil
}

type experienceOutput struct {
	Title       string `json:"title"`
	Company     string `json:"company"`
	Location    string `json:"location,omitempty"`
	StartDate   string `json:"start_date,omitempty"`
	EndDate     string `json:"end_date,omitempty"`
	Description string `json:"description,omitempty"`
	IsCurrent   bool   `json:"is_current"`
}

type educationOutput struct {
	School       string `json:"school"`
	Degree       string `json:"degree,omitempty"`
	FieldOfStudy string `json:"field_of_study,omitempty"`
	StartDate    string `json:"start_date,omitempty"`
	EndDate      string `json:"end_date,omitempty"`
}

type detailsOutput struct {
	Found bool `json:"found"`
	export.Record
	Summary        string             `json:"summary,omitempty"`
	Experience     []experienceOutput `json:"experience,omitempty"`
	Education      []educationOutput  `json:"education,omitempty"`
	Certifications []string           `json:"certifications,omitempty"`
	Languages      []string           `json:"languages,omitempty"`
}

// GetCandidateDetails fetches the full profile of one candidate.
func (h *Handlers) GetCandidateDetails(ctx context.Context, args map[string]any) (any, error) {
	var in sourceIDInput
	if err := decode(args, &in); err != nil {
		return nil, err
	}
	if err := in.validate(); err != nil {
		return nil, err
	}

	detailed, err := h.details(ctx, in.SourceID)
	if err != nil {
		return nil, err
	}
	if detailed == nil {
		return notFoundOutput{Message: fmt.Sprintf("Candidate %s not found", in.SourceID)}, nil
	}

	out := detailsOutput{
		Found:          true,
		Record:         export.NewRecord(detailed.Candidate),
		Summary:        detailed.Summary,
		Certifications: detailed.Certifications,
		Languages:      detailed.Languages,
	}
	for _, e := range detailed.Experience {
		out.Experience = append(out.Experience, experienceOutput(e))
	}
	for _, e := range detailed.Education {
		out.Education = append(out.Education, educationOutput(e))
	}

	return out, nil
}

type notFoundOutput struct {
	Found   bool   `json:"found"`
	Message string `json:"message"`
}

// details returns nil without an error when the provider has no such
// candidate.
func (h *Handlers) details(ctx context.Context, sourceID string) (*candidate.CandidateDetailed, error) {
	p, err := h.selector.Active()
	if err != nil {
		return nil, err
	}

	return p.GetCandidateDetails(ctx, sourceID)
}

type roleLookupInput struct {
	Role        string `json:"role"`
	CompanyName string `json:"company_name"`
}

type roleLookupOutput struct {
	Found     bool           `json:"found"`
	Message   string         `json:"message,omitempty"`
	Candidate *export.Record `json:"candidate,omitempty"`
}

// LookupByRole finds who holds a role at a company, when the active provider
// supports it.
func (h *Handlers) LookupByRole(ctx context.Context, args map[string]any) (any, error) {
	var in roleLookupInput
	if err := decode(args, &in); err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Role) == "" || strings.TrimSpace(in.CompanyName) == "" {
		return nil, provider.InvalidInput("role and company_name are required")
	}

	p, err := h.selector.Active()
	if err != nil {
		return nil, err
	}

	lookup, ok := p.(provider.RoleLookup)
	if !ok {
		return nil, fmt.Errorf("provider %s does not support role lookup", p.Name())
	}

	found, err := lookup.LookupByRole(ctx, in.Role, in.CompanyName)
	if err != nil {
		return nil, err
	}
	if found == nil {
		return roleLookupOutput{Message: fmt.Sprintf("No %s found at %s", in.Role, in.CompanyName)}, nil
	}

	record := export.NewRecord(*found)
	return roleLookupOutput{Found: true, Candidate: &record}, nil
}

type resolveInput struct {
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name,omitempty"`
	CompanyDomain string `json:"company_domain"`
	Title         string `json:"title,omitempty"`
}

type resolveOutput struct {
	Found      bool   `json:"found"`
	ProfileURL string `json:"profile_url,omitempty"`
}

// ResolveProfileURL turns a name and company domain into a profile URL.
func (h *Handlers) ResolveProfileURL(ctx context.Context, args map[string]any) (any, error) {
	var in resolveInput
	if err := decode(args, &in); err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.FirstName) == "" || strings.TrimSpace(in.CompanyDomain) == "" {
		return nil, provider.InvalidInput("first_name and company_domain are required")
	}

	p, err := h.selector.Active()
	if err != nil {
		return nil, err
	}

	resolver, ok := p.(provider.ProfileResolver)
	if !ok {
		return nil, fmt.Errorf("provider %s does not support profile resolution", p.Name())
	}

	url, err := resolver.ResolveProfileURL(ctx, provider.ResolveQuery{
		FirstName:     in.FirstName,
		LastName:      in.LastName,
		CompanyDomain: in.CompanyDomain,
		Title:         in.Title,
	})
	if err != nil {
		return nil, err
	}

	return resolveOutput{Found: url != "", ProfileURL: url}, nil
}
