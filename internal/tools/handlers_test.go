package tools

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spigell/candidate-sourcing/internal/ai"
	"github.com/spigell/candidate-sourcing/internal/bookmarks"
	"github.com/spigell/candidate-sourcing/internal/candidate"
	"github.com/spigell/candidate-sourcing/internal/provider"
)

type fakeProvider struct {
	mu       sync.Mutex
	searches []*candidate.SearchFilters
	result   *candidate.SearchResult
	details  map[string]*candidate.CandidateDetailed
	credits  int
	creditsE error
}

func (p *fakeProvider) Name() provider.Type { return provider.TypeProxycurl }

func (p *fakeProvider) SearchCandidates(_ context.Context, filters *candidate.SearchFilters) (*candidate.SearchResult, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.searches = append(p.searches, filters)
	return p.result, nil
}

func (p *fakeProvider) GetCandidateDetails(_ context.Context, sourceID string) (*candidate.CandidateDetailed, error) {
	return p.details[sourceID], nil
}

func (p *fakeProvider) IsConfigured() bool { return true }

func (p *fakeProvider) Status(context.Context) provider.Status {
	return provider.Status{Provider: provider.TypeProxycurl, Configured: true, Message: "Proxycurl API key configured"}
}

func (p *fakeProvider) CreditBalance(context.Context) (int, error) {
	return p.credits, p.creditsE
}

func (p *fakeProvider) calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.searches)
}

type fakeSelector struct {
	p   provider.Provider
	err error
}

func (s *fakeSelector) Active() (provider.Provider, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.p, nil
}

func (s *fakeSelector) ActiveType() (provider.Type, error) { return provider.TypeProxycurl, nil }

func (s *fakeSelector) Statuses(ctx context.Context) ([]provider.Status, error) {
	return []provider.Status{
		{Provider: provider.TypeLinkedIn, Message: "LinkedIn Talent API not configured (requires partnership)"},
		s.p.Status(ctx),
	}, nil
}

type fakeMatcher struct {
	got *candidate.CandidateDetailed
	job string
}

func (m *fakeMatcher) Evaluate(_ context.Context, c *candidate.CandidateDetailed, job string) (*ai.FitAssessment, error) {
	m.got, m.job = c, job
	return &ai.FitAssessment{Fit: true, Score: 0.8, Reason: "strong Go background"}, nil
}

func alice() candidate.Candidate {
	return candidate.Candidate{
		Source:          candidate.SourceLinkedIn,
		SourceID:        "alice",
		FullName:        "Alice Smith",
		HeadlineOrTitle: "Senior Go Engineer at Acme",
		CurrentTitle:    "Senior Go Engineer",
		CurrentCompany:  "Acme",
		Location:        "Berlin, Germany",
		ExperienceYears: candidate.Ptr(9),
		Skills:          []string{"Go", "Kubernetes"},
		ProfileURL:      "https://www.linkedin.com/in/alice",
		SeniorityLevel:  candidate.SenioritySenior,
	}
}

func newTestHandlers(t *testing.T, p *fakeProvider) *Handlers {
	t.Helper()

	store := bookmarks.New(nil, filepath.Join(t.TempDir(), "bookmarks.json"))
	h := New(&fakeSelector{p: p}, store, nil, zap.NewNop())
	h.newID = func() string { return "generated-id" }
	return h
}

func TestSearchRejectsInvalidInputBeforeCallingProvider(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		args map[string]any
	}{
		{name: "page size too small", args: map[string]any{"page_size": float64(0)}},
		{name: "page size too large", args: map[string]any{"page_size": float64(51)}},
		{name: "fractional page size", args: map[string]any{"page_size": 2.5}},
		{name: "unknown seniority", args: map[string]any{"seniority_levels": []any{"wizard"}}},
		{name: "inverted experience range", args: map[string]any{"min_experience_years": float64(10), "max_experience_years": float64(2)}},
		{name: "wrong type", args: map[string]any{"titles": "not a list"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p := &fakeProvider{result: &candidate.SearchResult{}}
			h := newTestHandlers(t, p)

			_, err := h.SearchCandidates(context.Background(), tt.args)
			if !errors.Is(err, provider.ErrInvalidInput) {
				t.Fatalf("expected invalid input, got %v", err)
			}
			if p.calls() != 0 {
				t.Fatalf("provider must not be called on invalid input")
			}
		})
	}
}

func TestSearchRemembersResultsAndStampsID(t *testing.T) {
	t.Parallel()

	p := &fakeProvider{result: &candidate.SearchResult{
		Candidates: []candidate.Candidate{alice()},
		Pagination: candidate.Pagination{NextCursor: "next", HasMore: true},
	}}
	h := newTestHandlers(t, p)

	out, err := h.SearchCandidates(context.Background(), map[string]any{
		"titles":           []any{"Go Engineer"},
		"seniority_levels": []any{"Senior"},
		"page_size":        float64(5),
		"cursor":           "abc",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	res := out.(*SearchOutput)
	if res.Meta.SearchID != "generated-id" {
		t.Fatalf("expected generated search id, got %q", res.Meta.SearchID)
	}
	if len(res.Candidates) != 1 || res.Candidates[0].Index != 1 || res.Candidates[0].SourceID != "alice" {
		t.Fatalf("unexpected candidates: %+v", res.Candidates)
	}
	if res.Pagination.NextCursor != "next" || !res.Pagination.HasMore {
		t.Fatalf("unexpected pagination: %+v", res.Pagination)
	}

	got := p.searches[0]
	want := &candidate.SearchFilters{
		Titles:          []string{"Go Engineer"},
		SeniorityLevels: []candidate.Seniority{candidate.SenioritySenior},
		PageSize:        5,
		Cursor:          "abc",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("filters mismatch (-want +got):\n%s", diff)
	}

	if res.Candidates[0].Bookmarked {
		t.Fatalf("candidate must not be marked as bookmarked yet")
	}

	last, id := h.LastSearch()
	if len(last) != 1 || id != "generated-id" {
		t.Fatalf("expected last search to be remembered, got %d candidates, id %q", len(last), id)
	}
}

func TestSearchKeepsProviderSearchID(t *testing.T) {
	t.Parallel()

	p := &fakeProvider{result: &candidate.SearchResult{Meta: &candidate.Meta{SearchID: "remote-id"}}}
	h := newTestHandlers(t, p)

	out, err := h.SearchCandidates(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := out.(*SearchOutput).Meta.SearchID; got != "remote-id" {
		t.Fatalf("expected provider search id, got %q", got)
	}
	if p.searches[0].PageSize != candidate.DefaultPageSize {
		t.Fatalf("expected default page size, got %d", p.searches[0].PageSize)
	}
}

func TestSearchSurfacesSelectorError(t *testing.T) {
	t.Parallel()

	cfgErr := &provider.ConfigError{Provider: provider.TypeProxycurl, Missing: []string{"PROXYCURL_API_KEY"}}
	h := New(&fakeSelector{err: cfgErr}, nil, nil, nil)

	_, err := h.SearchCandidates(context.Background(), map[string]any{})
	if !errors.Is(err, provider.ErrNotConfigured) {
		t.Fatalf("expected not configured error, got %v", err)
	}
}

func TestGetCandidateDetailsNotFound(t *testing.T) {
	t.Parallel()

	h := newTestHandlers(t, &fakeProvider{})

	out, err := h.GetCandidateDetails(context.Background(), map[string]any{"source_id": "ghost"})
	if err != nil {
		t.Fatalf("a missing candidate is not an error, got %v", err)
	}
	if diff := cmp.Diff(notFoundOutput{Message: "Candidate ghost not found"}, out); diff != "" {
		t.Fatalf("unexpected result (-want +got):\n%s", diff)
	}

	if _, err := h.GetCandidateDetails(context.Background(), map[string]any{"source_id": "  "}); !errors.Is(err, provider.ErrInvalidInput) {
		t.Fatalf("expected invalid input for blank id, got %v", err)
	}
}

func TestBookmarkMergesLastSearchSnapshot(t *testing.T) {
	t.Parallel()

	p := &fakeProvider{result: &candidate.SearchResult{Candidates: []candidate.Candidate{alice()}}}
	h := newTestHandlers(t, p)
	ctx := context.Background()

	if _, err := h.SearchCandidates(ctx, nil); err != nil {
		t.Fatalf("search: %v", err)
	}

	out, err := h.BookmarkCandidate(ctx, map[string]any{
		"candidate": map[string]any{"source_id": "alice", "location": "Munich, Germany"},
		"notes":     "strong match",
		"tags":      []any{"shortlist", " shortlist ", "go"},
	})
	if err != nil {
		t.Fatalf("bookmark: %v", err)
	}

	res := out.(bookmarkResult)
	if !res.Success || res.Message != "Bookmarked Alice Smith" {
		t.Fatalf("unexpected result: %+v", res)
	}

	saved, err := h.store.Get("alice")
	if err != nil || saved == nil {
		t.Fatalf("expected stored bookmark, got %v, %v", saved, err)
	}

	want := alice()
	want.Location = "Munich, Germany"
	if diff := cmp.Diff(want, saved.Candidate); diff != "" {
		t.Fatalf("snapshot mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"shortlist", "go"}, saved.Tags); diff != "" {
		t.Fatalf("tags mismatch (-want +got):\n%s", diff)
	}
}

func TestBookmarkRequiresIdentity(t *testing.T) {
	t.Parallel()

	h := newTestHandlers(t, &fakeProvider{})

	tests := []map[string]any{
		{"candidate": map[string]any{"full_name": "No Id", "profile_url": "https://www.linkedin.com/in/x"}},
		{"candidate": map[string]any{"source_id": "bob", "profile_url": "https://www.linkedin.com/in/bob"}},
		{"candidate": map[string]any{"source_id": "bob", "full_name": "Bob"}},
		{"candidate": map[string]any{"source_id": "bob", "full_name": "Bob", "profile_url": "u", "seniority_level": "wizard"}},
	}

	for _, args := range tests {
		if _, err := h.BookmarkCandidate(context.Background(), args); !errors.Is(err, provider.ErrInvalidInput) {
			t.Fatalf("expected invalid input for %v, got %v", args, err)
		}
	}

	tags, err := h.store.Tags()
	if err != nil || len(tags) != 0 {
		t.Fatalf("expected untouched store, got %v, %v", tags, err)
	}
}

func TestBookmarkLifecycle(t *testing.T) {
	t.Parallel()

	h := newTestHandlers(t, &fakeProvider{})
	ctx := context.Background()

	bookmark := map[string]any{
		"candidate": map[string]any{
			"source_id":   "bob",
			"full_name":   "Bob Jones",
			"profile_url": "https://www.linkedin.com/in/bob",
		},
		"tags": []any{"backend"},
	}
	if _, err := h.BookmarkCandidate(ctx, bookmark); err != nil {
		t.Fatalf("bookmark: %v", err)
	}

	out, err := h.UpdateBookmark(ctx, map[string]any{"source_id": "bob", "notes": "call on monday"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	updated := out.(bookmarkResult)
	if !updated.Success || updated.Bookmark.Notes != "call on monday" || len(updated.Bookmark.Tags) != 1 {
		t.Fatalf("unexpected update result: %+v", updated.Bookmark)
	}

	out, err = h.ListBookmarks(ctx, map[string]any{"search_query": "MONDAY"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	listed := out.(listBookmarksOutput)
	if listed.Count != 1 || listed.Bookmarks[0].Index != 1 || listed.Bookmarks[0].SourceID != "bob" {
		t.Fatalf("unexpected list: %+v", listed)
	}

	out, err = h.BookmarkTags(ctx, nil)
	if err != nil {
		t.Fatalf("tags: %v", err)
	}
	if diff := cmp.Diff(tagsOutput{Tags: []string{"backend"}, Count: 1}, out); diff != "" {
		t.Fatalf("tags mismatch (-want +got):\n%s", diff)
	}

	out, err = h.RemoveBookmark(ctx, map[string]any{"source_id": "bob"})
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if res := out.(bookmarkResult); !res.Success || res.Message != "Candidate removed from bookmarks" {
		t.Fatalf("unexpected remove result: %+v", res)
	}

	out, err = h.RemoveBookmark(ctx, map[string]any{"source_id": "bob"})
	if err != nil {
		t.Fatalf("second remove: %v", err)
	}
	if res := out.(bookmarkResult); res.Success || res.Message != "Candidate was not in bookmarks" {
		t.Fatalf("unexpected second remove result: %+v", res)
	}

	out, err = h.UpdateBookmark(ctx, map[string]any{"source_id": "bob", "notes": "x"})
	if err != nil {
		t.Fatalf("update missing: %v", err)
	}
	if res := out.(bookmarkResult); res.Success || res.Message != "Candidate not found in bookmarks" {
		t.Fatalf("unexpected update result for missing bookmark: %+v", res)
	}
}

func TestExportCandidates(t *testing.T) {
	t.Parallel()

	p := &fakeProvider{result: &candidate.SearchResult{Candidates: []candidate.Candidate{alice()}}}
	h := newTestHandlers(t, p)
	ctx := context.Background()

	if _, err := h.SearchCandidates(ctx, nil); err != nil {
		t.Fatalf("search: %v", err)
	}

	out, err := h.ExportCandidates(ctx, map[string]any{"format": "csv", "source": "last_search"})
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	res := out.(exportOutput)
	if res.Count != 1 || res.Message != "Exported 1 candidates as CSV" {
		t.Fatalf("unexpected export result: %+v", res)
	}
	if !strings.HasPrefix(res.Data, "Full Name,Current Title,") || !strings.Contains(res.Data, "\nAlice Smith,Senior Go Engineer,Acme,\"Berlin, Germany\",9,") {
		t.Fatalf("unexpected csv:\n%s", res.Data)
	}

	for _, id := range []string{"a", "b"} {
		_, err := h.BookmarkCandidate(ctx, map[string]any{
			"candidate": map[string]any{"source_id": id, "full_name": id, "profile_url": "u/" + id},
			"tags":      []any{id},
		})
		if err != nil {
			t.Fatalf("bookmark %s: %v", id, err)
		}
	}

	out, err = h.ExportCandidates(ctx, map[string]any{"format": "json", "source": "bookmarks", "bookmark_tags": []any{"a"}})
	if err != nil {
		t.Fatalf("export bookmarks: %v", err)
	}
	res = out.(exportOutput)
	if res.Count != 1 || strings.Contains(res.Data, `"sourceId": "b"`) || !strings.Contains(res.Data, `"sourceId": "a"`) {
		t.Fatalf("tag filter must apply to data and count: %+v", res)
	}

	if _, err := h.ExportCandidates(ctx, map[string]any{"format": "xml", "source": "bookmarks"}); !errors.Is(err, provider.ErrInvalidInput) {
		t.Fatalf("expected invalid format error, got %v", err)
	}
	if _, err := h.ExportCandidates(ctx, map[string]any{"format": "json", "source": "elsewhere"}); !errors.Is(err, provider.ErrInvalidInput) {
		t.Fatalf("expected invalid source error, got %v", err)
	}
}

func TestProviderStatusDropsCreditFailure(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.WarnLevel)
	p := &fakeProvider{creditsE: errors.New("boom")}
	h := New(&fakeSelector{p: p}, nil, nil, zap.New(core))

	out, err := h.Status(context.Background())
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if out.CreditBalance != nil {
		t.Fatalf("expected credit balance to be dropped, got %d", *out.CreditBalance)
	}
	if logs.FilterMessage("credit balance lookup failed").Len() != 1 {
		t.Fatalf("expected credit failure to be logged")
	}

	want := []providerStatusOutput{
		{Name: provider.TypeLinkedIn, Message: "LinkedIn Talent API not configured (requires partnership)"},
		{Name: provider.TypeProxycurl, Configured: true, IsActive: true, Message: "Proxycurl API key configured"},
	}
	if diff := cmp.Diff(want, out.Providers); diff != "" {
		t.Fatalf("providers mismatch (-want +got):\n%s", diff)
	}

	p.creditsE = nil
	p.credits = 42
	out, err = h.Status(context.Background())
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if out.CreditBalance == nil || *out.CreditBalance != 42 || out.ActiveProvider != provider.TypeProxycurl {
		t.Fatalf("unexpected status: %+v", out)
	}
}

func TestAssessCandidateFit(t *testing.T) {
	t.Parallel()

	detailed := &candidate.CandidateDetailed{Candidate: alice()}
	detailed.Summary = "Builds platforms"
	p := &fakeProvider{details: map[string]*candidate.CandidateDetailed{"alice": detailed}}
	m := &fakeMatcher{}
	h := New(&fakeSelector{p: p}, nil, m, nil)

	out, err := h.AssessCandidateFit(context.Background(), map[string]any{"source_id": "alice", "job_description": "Go platform engineer"})
	if err != nil {
		t.Fatalf("assess: %v", err)
	}

	res := out.(fitOutput)
	if !res.Fit || res.Score != 0.8 || res.FullName != "Alice Smith" {
		t.Fatalf("unexpected assessment: %+v", res)
	}
	if m.got != detailed || m.job != "Go platform engineer" {
		t.Fatalf("matcher got unexpected input")
	}

	if _, err := h.AssessCandidateFit(context.Background(), map[string]any{"source_id": "ghost", "job_description": "x"}); !errors.Is(err, provider.ErrNotFound) {
		t.Fatalf("expected not found for unknown candidate, got %v", err)
	}

	if _, err := h.AssessCandidateFit(context.Background(), map[string]any{"source_id": "alice"}); !errors.Is(err, provider.ErrInvalidInput) {
		t.Fatalf("expected invalid input without job description, got %v", err)
	}

	without := New(&fakeSelector{p: p}, nil, nil, nil)
	if _, err := without.AssessCandidateFit(context.Background(), nil); !errors.Is(err, errNoMatcher) {
		t.Fatalf("expected errNoMatcher, got %v", err)
	}
}

func TestSearchMarksBookmarkedCandidates(t *testing.T) {
	t.Parallel()

	bob := alice()
	bob.SourceID, bob.FullName, bob.ProfileURL = "bob", "Bob Jones", "https://www.linkedin.com/in/bob"

	p := &fakeProvider{result: &candidate.SearchResult{Candidates: []candidate.Candidate{alice(), bob}}}
	h := newTestHandlers(t, p)
	ctx := context.Background()

	if _, err := h.store.Add(bob, "", nil); err != nil {
		t.Fatalf("add bookmark: %v", err)
	}

	out, err := h.SearchCandidates(ctx, nil)
	if err != nil {
		t.Fatalf("search: %v", err)
	}

	got := map[string]bool{}
	for _, c := range out.(*SearchOutput).Candidates {
		got[c.SourceID] = c.Bookmarked
	}
	if diff := cmp.Diff(map[string]bool{"alice": false, "bob": true}, got); diff != "" {
		t.Fatalf("bookmarked flags mismatch (-want +got):\n%s", diff)
	}
}

func TestBookmarkMatchesLastSearchBySource(t *testing.T) {
	t.Parallel()

	p := &fakeProvider{result: &candidate.SearchResult{Candidates: []candidate.Candidate{alice()}}}
	h := newTestHandlers(t, p)
	ctx := context.Background()

	if _, err := h.SearchCandidates(ctx, nil); err != nil {
		t.Fatalf("search: %v", err)
	}

	_, err := h.BookmarkCandidate(ctx, map[string]any{
		"candidate": map[string]any{"source": "other", "source_id": "alice"},
	})
	if !errors.Is(err, provider.ErrInvalidInput) {
		t.Fatalf("a candidate from another source must not reuse the snapshot, got %v", err)
	}
}
