package linkedin

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"

	"github.com/spigell/candidate-sourcing/internal/candidate"
	"github.com/spigell/candidate-sourcing/internal/provider"
)

var fixedNow = time.Date(2025, time.January, 15, 0, 0, 0, 0, time.UTC)

type fakeAPI struct {
	t        *testing.T
	token    string
	search   func(w http.ResponseWriter, r *http.Request)
	details  func(w http.ResponseWriter, r *http.Request)
	tokenErr bool
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path == "/oauth/token" {
		if err := r.ParseForm(); err != nil {
			f.t.Errorf("parse token form: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		if f.tokenErr {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"invalid_grant"}`))
			return
		}
		if got := r.Form.Get("refresh_token"); got != "refresh-1" {
			f.t.Errorf("unexpected refresh token %q", got)
		}
		_, _ = w.Write([]byte(`{"access_token":"fresh-token","token_type":"Bearer","expires_in":3600}`))
		return
	}

	if got, want := r.Header.Get("Authorization"), "Bearer "+f.token; got != want {
		f.t.Errorf("expected authorization %q, got %q", want, got)
	}
	if got := r.Header.Get(restliProtocolHeader); got != restliProtocolVersion {
		f.t.Errorf("unexpected protocol header %q", got)
	}

	if r.URL.Path == "/v2"+SearchPath && f.search != nil {
		f.search(w, r)
		return
	}
	if f.details != nil {
		f.details(w, r)
		return
	}
	http.NotFound(w, r)
}

func newTestClient(t *testing.T, api *fakeAPI, cfg Config) *Client {
	t.Helper()

	api.t = t
	server := httptest.NewServer(api)
	t.Cleanup(server.Close)

	cfg.APIURL = server.URL + "/v2"
	cfg.TokenURL = server.URL + "/oauth/token"
	if cfg.ClientID == "" {
		cfg.ClientID = "client"
	}
	if cfg.ClientSecret == "" {
		cfg.ClientSecret = "secret"
	}

	client := New(context.Background(), zap.NewNop(), cfg)
	client.now = func() time.Time { return fixedNow }
	return client
}

func writeJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		t.Errorf("encode response: %v", err)
	}
}

func TestSearchCandidates(t *testing.T) {
	t.Parallel()

	api := &fakeAPI{token: "access-1"}
	api.search = func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if diff := cmp.Diff([]string{"Data Engineer", "ML Engineer"}, q["titles"]); diff != "" {
			t.Errorf("unexpected titles (-want +got):\n%s", diff)
		}
		if diff := cmp.Diff([]string{"senior", "lead"}, q["seniorities"]); diff != "" {
			t.Errorf("unexpected seniorities (-want +got):\n%s", diff)
		}
		if got := q.Get("keywords"); got != "spark airflow" {
			t.Errorf("unexpected keywords %q", got)
		}
		if got := q.Get("pageToken"); got != "tok==/next" {
			t.Errorf("unexpected page token %q", got)
		}
		if got := q.Get("count"); got != "10" {
			t.Errorf("unexpected count %q", got)
		}

		w.Header().Set(rateLimitRemainingHdr, "97")
		w.Header().Set(rateLimitResetHdr, "2025-01-15T01:00:00Z")
		writeJSON(t, w, searchResponse{
			Elements: []Member{
				{
					ID: "m1", FirstName: "Ana", LastName: "Silva", Seniority: "senior",
					Headline:  "Data person",
					Location:  &location{City: "Lisbon", Country: "Portugal"},
					Positions: []position{{Title: "Data Engineer", CompanyName: "Acme", StartedOn: &yearMonth{Year: 2016, Month: 1}, IsCurrent: true}},
				},
				{
					ID: "m2", FirstName: "Ben", LastName: "Stone", Seniority: "lead",
					Positions: []position{{Title: "Lead Data Engineer", CompanyName: "Initech", StartedOn: &yearMonth{Year: 2015}}},
				},
				{
					ID: "m3", FirstName: "Cy", LastName: "Young", Seniority: "senior",
					Positions: []position{{Title: "Data Engineer", CompanyName: "Acme", StartedOn: &yearMonth{Year: 2023}}},
				},
			},
			Paging:   paging{Total: candidate.Ptr(120), NextPageToken: "tok-2"},
			Metadata: searchMetadata{SearchID: "search-123"},
		})
	}

	client := newTestClient(t, api, Config{AccessToken: "access-1"})

	result, err := client.SearchCandidates(context.Background(), &candidate.SearchFilters{
		Titles:             []string{"Data Engineer", "ML Engineer"},
		Skills:             []string{"spark"},
		MustHaveKeywords:   []string{"airflow"},
		SeniorityLevels:    []candidate.Seniority{candidate.SenioritySenior, candidate.SeniorityLead},
		ExcludeCompanies:   []string{"initech"},
		MinExperienceYears: candidate.Ptr(5),
		PageSize:           10,
		Cursor:             "tok==/next",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Len() != 1 {
		t.Fatalf("expected 1 candidate after filtering, got %d", result.Len())
	}

	got := result.Candidates[0]
	want := candidate.Candidate{
		Source:          candidate.SourceLinkedIn,
		SourceID:        "m1",
		FullName:        "Ana Silva",
		HeadlineOrTitle: "Data person",
		CurrentTitle:    "Data Engineer",
		CurrentCompany:  "Acme",
		Location:        "Lisbon, Portugal",
		ExperienceYears: candidate.Ptr(9),
		ProfileURL:      "https://www.linkedin.com/in/m1",
		SeniorityLevel:  candidate.SenioritySenior,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unexpected candidate (-want +got):\n%s", diff)
	}

	if !result.Pagination.HasMore || result.Pagination.NextCursor != "tok-2" || *result.Pagination.TotalEstimated != 120 {
		t.Fatalf("unexpected pagination %+v", result.Pagination)
	}
	if result.Meta == nil || result.Meta.SearchID != "search-123" || *result.Meta.RateLimitRemaining != 97 {
		t.Fatalf("unexpected meta %+v", result.Meta)
	}

	status := client.Status(context.Background())
	if !status.Configured || status.RateLimitRemaining == nil || *status.RateLimitRemaining != 97 {
		t.Fatalf("expected rate limit in status, got %+v", status)
	}
	if status.RateLimitReset != "2025-01-15T01:00:00Z" {
		t.Fatalf("unexpected rate limit reset %q", status.RateLimitReset)
	}
}

func TestRefreshTokenIsUsedWhenAccessTokenMissing(t *testing.T) {
	t.Parallel()

	api := &fakeAPI{token: "fresh-token"}
	api.search = func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, searchResponse{})
	}

	client := newTestClient(t, api, Config{RefreshToken: "refresh-1"})

	if _, err := client.SearchCandidates(context.Background(), nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestTokenRefreshFailureIsUnauthorized(t *testing.T) {
	t.Parallel()

	api := &fakeAPI{tokenErr: true}
	client := newTestClient(t, api, Config{RefreshToken: "refresh-1"})

	_, err := client.SearchCandidates(context.Background(), nil)
	if !errors.Is(err, provider.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestStatusErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		status int
		kind   error
	}{
		{status: http.StatusUnauthorized, kind: provider.ErrUnauthorized},
		{status: http.StatusForbidden, kind: provider.ErrForbidden},
		{status: http.StatusTooManyRequests, kind: provider.ErrRateLimited},
		{status: http.StatusServiceUnavailable, kind: provider.ErrRemote},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			t.Parallel()

			api := &fakeAPI{token: "access-1"}
			api.search = func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "nope", tt.status)
			}
			client := newTestClient(t, api, Config{AccessToken: "access-1"})

			_, err := client.SearchCandidates(context.Background(), nil)
			if !errors.Is(err, tt.kind) {
				t.Fatalf("expected %v, got %v", tt.kind, err)
			}
		})
	}
}

func TestGetCandidateDetails(t *testing.T) {
	t.Parallel()

	api := &fakeAPI{token: "access-1"}
	api.details = func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v2" + candidatePath + "jane-doe":
			writeJSON(t, w, Member{
				ID:               "jane-doe",
				FirstName:        "Jane",
				LastName:         "Doe",
				Headline:         "VP Engineering",
				PublicProfileURL: "https://www.linkedin.com/in/jane-doe",
				Positions: []position{
					{Title: "VP Engineering", CompanyName: "Acme", StartedOn: &yearMonth{Year: 2021, Month: 1}, IsCurrent: true},
					{CompanyName: "Globex", StartedOn: &yearMonth{Year: 2018, Month: 1}, EndedOn: &yearMonth{Year: 2020, Month: 12}},
				},
				Educations:     []educationEntry{{DegreeName: "MSc"}},
				Certifications: []named{{Name: "PMP"}},
				Languages:      []named{{Name: "English"}, {Name: ""}},
			})
		default:
			http.NotFound(w, r)
		}
	}

	client := newTestClient(t, api, Config{AccessToken: "access-1"})

	got, err := client.GetCandidateDetails(context.Background(), "https://www.linkedin.com/in/jane-doe/")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil {
		t.Fatalf("expected candidate")
	}

	if got.SeniorityLevel != candidate.SeniorityVP {
		t.Fatalf("expected inferred vp seniority, got %q", got.SeniorityLevel)
	}
	wantExperience := []candidate.WorkExperience{
		{Title: "VP Engineering", Company: "Acme", StartDate: "2021-01", IsCurrent: true},
		{Title: "Unknown", Company: "Globex", StartDate: "2018-01", EndDate: "2020-12"},
	}
	if diff := cmp.Diff(wantExperience, got.Experience); diff != "" {
		t.Fatalf("unexpected experience (-want +got):\n%s", diff)
	}
	if got.Education[0].School != candidate.UnknownValue {
		t.Fatalf("expected unknown school, got %q", got.Education[0].School)
	}
	if diff := cmp.Diff([]string{"English"}, got.Languages); diff != "" {
		t.Fatalf("unexpected languages (-want +got):\n%s", diff)
	}

	missing, err := client.GetCandidateDetails(context.Background(), "ghost")
	if err != nil || missing != nil {
		t.Fatalf("expected nil result for 404, got %+v, %v", missing, err)
	}
}

func TestUnconfigured(t *testing.T) {
	t.Parallel()

	client := New(context.Background(), nil, Config{ClientID: "id"})
	if client.IsConfigured() {
		t.Fatalf("expected unconfigured client")
	}

	_, err := client.SearchCandidates(context.Background(), nil)
	var cfgErr *provider.ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigError, got %v", err)
	}
	if diff := cmp.Diff([]string{"LINKEDIN_CLIENT_SECRET", "LINKEDIN_ACCESS_TOKEN"}, cfgErr.Missing); diff != "" {
		t.Fatalf("unexpected missing settings (-want +got):\n%s", diff)
	}

	status := client.Status(context.Background())
	if status.Message != "LinkedIn Talent API not configured (requires partnership)" {
		t.Fatalf("unexpected status message %q", status.Message)
	}
}

func TestConfigMissing(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cfg  Config
		want []string
	}{
		{name: "access token", cfg: Config{ClientID: "a", ClientSecret: "b", AccessToken: "c"}},
		{name: "refresh token only", cfg: Config{ClientID: "a", ClientSecret: "b", RefreshToken: "d"}},
		{name: "empty", want: []string{"LINKEDIN_CLIENT_ID", "LINKEDIN_CLIENT_SECRET", "LINKEDIN_ACCESS_TOKEN"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if diff := cmp.Diff(tt.want, tt.cfg.Missing()); diff != "" {
				t.Fatalf("unexpected missing (-want +got):\n%s", diff)
			}
			if tt.cfg.Configured() != (len(tt.want) == 0) {
				t.Fatalf("Configured disagrees with Missing")
			}
		})
	}
}
