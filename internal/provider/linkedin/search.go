package linkedin

import (
	"context"
	"errors"
	"net/url"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/candidate-sourcing/internal/candidate"
	"github.com/spigell/candidate-sourcing/internal/filtering"
	"github.com/spigell/candidate-sourcing/internal/provider"
)

const SearchPath = "/talent/candidates/search"

// The Talent API filters on seniority itself.
var nativeFilters = filtering.Capabilities{Seniority: true}

type paging struct {
	Total         *int   `json:"total,omitempty"`
	NextPageToken string `json:"nextPageToken,omitempty"`
}

type searchMetadata struct {
	SearchID string `json:"searchId,omitempty"`
}

type searchResponse struct {
	Elements []Member       `json:"elements"`
	Paging   paging         `json:"paging"`
	Metadata searchMetadata `json:"metadata"`
}

// SearchCandidates runs a native candidate search and applies the remaining
// filters to the fetched page.
func (c *Client) SearchCandidates(ctx context.Context, filters *candidate.SearchFilters) (*candidate.SearchResult, error) {
	if filters == nil {
		filters = &candidate.SearchFilters{}
	}

	var response searchResponse
	header, err := c.getJSON(ctx, opSearch, SearchPath, searchQuery(filters), &response)
	if err != nil {
		return nil, err
	}

	now := c.now()
	candidates := make([]candidate.Candidate, 0, len(response.Elements))
	for i := range response.Elements {
		candidates = append(candidates, toCandidate(&response.Elements[i], now))
	}

	log := c.log(opSearch)
	fetched := len(candidates)
	candidates = filtering.Run(ctx, log, filtering.ForFilters(filters, nativeFilters), candidates)
	if limit := filters.PageSizeOrDefault(); len(candidates) > limit {
		candidates = candidates[:limit]
	}

	remaining, reset := parseRateLimit(header)

	log.Debug("linkedin search finished",
		zap.Int("fetched", fetched),
		zap.Int("returned", len(candidates)),
		zap.String("search_id", response.Metadata.SearchID),
	)

	return &candidate.SearchResult{
		Candidates: candidates,
		Pagination: candidate.Pagination{
			NextCursor:     response.Paging.NextPageToken,
			HasMore:        response.Paging.NextPageToken != "",
			TotalEstimated: response.Paging.Total,
		},
		Meta: &candidate.Meta{
			SearchID:           response.Metadata.SearchID,
			RateLimitRemaining: remaining,
			RateLimitReset:     reset,
		},
	}, nil
}

func searchQuery(filters *candidate.SearchFilters) url.Values {
	q := url.Values{}
	q.Set("count", strconv.Itoa(filters.PageSizeOrDefault()))

	keywords := append(append([]string{}, filters.Skills...), filters.MustHaveKeywords...)
	if len(keywords) > 0 {
		q.Set("keywords", strings.Join(keywords, " "))
	}

	addAll(q, "titles", filters.Titles)
	addAll(q, "locations", filters.Locations)
	addAll(q, "currentCompanies", filters.IncludeCompanies)
	addAll(q, "industries", filters.Industries)
	for _, level := range filters.SeniorityLevels {
		q.Add("seniorities", string(level))
	}

	if filters.Cursor != "" {
		q.Set("pageToken", filters.Cursor)
	}

	return q
}

func addAll(q url.Values, key string, values []string) {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			q.Add(key, v)
		}
	}
}

func isNotFound(err error) bool {
	return errors.Is(err, provider.ErrNotFound)
}
