package proxycurl

import (
	"context"
	"fmt"
	"net/url"
	"reflect"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/candidate-sourcing/internal/candidate"
	"github.com/spigell/candidate-sourcing/internal/filtering"
)

const SearchPath = "/v2/search/person"

// Proxycurl person search has no exclusion, experience or seniority filters.
var nativeFilters = filtering.Capabilities{}

type searchParams struct {
	// pcparam is custom tag for reflect. Please see buildParams.
	PageSize           int    `pcparam:"page_size"`
	EnrichProfiles     string `pcparam:"enrich_profiles"`
	Country            string `pcparam:"country"`
	City               string `pcparam:"city"`
	CurrentRoleTitle   string `pcparam:"current_role_title"`
	CurrentCompanyName string `pcparam:"current_company_name"`
	Industries         string `pcparam:"industries"`
	Keyword            string `pcparam:"keyword"`
	NextPage           string `pcparam:"next_page"`
}

type searchHit struct {
	LinkedinProfileURL string   `json:"linkedin_profile_url"`
	Profile            *Profile `json:"profile,omitempty"`
}

type searchResponse struct {
	Results          []searchHit `json:"results"`
	NextPage         string      `json:"next_page,omitempty"`
	TotalResultCount *int        `json:"total_result_count,omitempty"`
}

// SearchCandidates runs a person search and applies the filters Proxycurl
// cannot evaluate to the fetched page.
func (c *Client) SearchCandidates(ctx context.Context, filters *candidate.SearchFilters) (*candidate.SearchResult, error) {
	if filters == nil {
		filters = &candidate.SearchFilters{}
	}

	params := newSearchParams(filters)

	var response searchResponse
	if err := c.getJSON(ctx, opSearch, SearchPath, buildParams(params), &response); err != nil {
		return nil, err
	}

	now := c.now()
	candidates := make([]candidate.Candidate, 0, len(response.Results))
	for _, hit := range response.Results {
		// Only hits with enriched profile data are usable.
		if hit.Profile == nil {
			continue
		}
		candidates = append(candidates, transform(hit.Profile, hit.LinkedinProfileURL, now))
	}

	log := c.log(opSearch)
	fetched := len(candidates)
	candidates = filtering.Run(ctx, log, filtering.ForFilters(filters, nativeFilters), candidates)
	if limit := params.PageSize; len(candidates) > limit {
		candidates = candidates[:limit]
	}

	log.Debug("proxycurl search finished",
		zap.Int("fetched", fetched),
		zap.Int("returned", len(candidates)),
		zap.Bool("has_more", response.NextPage != ""),
	)

	return &candidate.SearchResult{
		Candidates: candidates,
		Pagination: candidate.Pagination{
			NextCursor:     response.NextPage,
			HasMore:        response.NextPage != "",
			TotalEstimated: response.TotalResultCount,
		},
	}, nil
}

func newSearchParams(filters *candidate.SearchFilters) *searchParams {
	params := &searchParams{
		PageSize:       filters.PageSizeOrDefault(),
		EnrichProfiles: "enrich",
		NextPage:       filters.Cursor,
	}

	// Proxycurl splits location into separate params; only the first
	// requested location is used.
	if len(filters.Locations) > 0 {
		location := strings.TrimSpace(filters.Locations[0])
		params.Country = countryCode(location)
		if city, _, _ := strings.Cut(location, ","); strings.TrimSpace(city) != "" {
			params.City = strings.TrimSpace(city)
		}
	}

	if len(filters.Titles) > 0 {
		params.CurrentRoleTitle = strings.Join(filters.Titles, " OR ")
	}
	if len(filters.IncludeCompanies) > 0 {
		params.CurrentCompanyName = strings.Join(filters.IncludeCompanies, " OR ")
	}
	if len(filters.Industries) > 0 {
		params.Industries = strings.Join(filters.Industries, " OR ")
	}

	keywords := append(append([]string{}, filters.Skills...), filters.MustHaveKeywords...)
	if len(keywords) > 0 {
		params.Keyword = strings.Join(keywords, " ")
	}

	return params
}

// countries maps lowercase country names and common aliases to ISO codes.
var countries = []struct {
	name string
	code string
}{
	{"india", "IN"},
	{"united states", "US"},
	{"usa", "US"},
	{"united kingdom", "GB"},
	{"uk", "GB"},
	{"canada", "CA"},
	{"germany", "DE"},
	{"france", "FR"},
	{"netherlands", "NL"},
	{"spain", "ES"},
	{"ireland", "IE"},
	{"israel", "IL"},
	{"singapore", "SG"},
	{"australia", "AU"},
	{"brazil", "BR"},
	{"japan", "JP"},
}

// countryCode finds a known country among the comma separated parts of the
// location. It returns "" when nothing matches.
func countryCode(location string) string {
	for _, part := range strings.Split(strings.ToLower(location), ",") {
		part = strings.TrimSpace(part)
		for _, country := range countries {
			if part == country.name {
				return country.code
			}
		}
	}
	return ""
}

func buildParams(params *searchParams) url.Values {
	q := url.Values{}
	value := reflect.ValueOf(params).Elem()

	for _, field := range reflect.VisibleFields(value.Type()) {
		// Our custom tag is using here.
		key := field.Tag.Get("pcparam")
		if key == "" {
			continue
		}

		v := value.FieldByIndex(field.Index)
		switch v.Kind() {
		case reflect.Slice:
			if s, ok := v.Interface().([]string); ok {
				for _, item := range s {
					q.Add(key, item)
				}
			}
		case reflect.Int:
			if v.Int() != 0 {
				q.Set(key, strconv.FormatInt(v.Int(), 10))
			}
		default:
			if s := fmt.Sprintf("%v", v.Interface()); s != "" {
				q.Set(key, s)
			}
		}
	}

	return q
}
