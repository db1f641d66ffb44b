package export

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/spigell/candidate-sourcing/internal/bookmarks"
	"github.com/spigell/candidate-sourcing/internal/candidate"
	"github.com/spigell/candidate-sourcing/internal/provider"
)

func TestEscapeCSV(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{in: `Acme, Inc "East"`, want: `"Acme, Inc ""East"""`},
		{in: "plain", want: "plain"},
		{in: "", want: ""},
		{in: "two\nlines", want: "\"two\nlines\""},
		{in: `say "hi"`, want: `"say ""hi"""`},
		{in: " leading space", want: " leading space"},
		{in: "carriage\rreturn", want: "carriage\rreturn"},
	}

	for _, tt := range tests {
		if got := EscapeCSV(tt.in); got != tt.want {
			t.Fatalf("EscapeCSV(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func sampleCandidate() candidate.Candidate {
	return candidate.Candidate{
		Source:          candidate.SourceLinkedIn,
		SourceID:        "jane",
		FullName:        "Jane Doe",
		HeadlineOrTitle: "Data at scale",
		CurrentTitle:    "Staff Engineer",
		CurrentCompany:  `Acme, Inc "East"`,
		Location:        "Berlin, Germany",
		ExperienceYears: candidate.Ptr(11),
		Skills:          []string{"Go", "Spark"},
		ProfileURL:      "https://www.linkedin.com/in/jane",
		SeniorityLevel:  candidate.SeniorityLead,
		Industries:      []string{"Software", "Fintech"},
	}
}

func TestCandidatesCSV(t *testing.T) {
	t.Parallel()

	noYears := sampleCandidate()
	noYears.SourceID = "anon"
	noYears.FullName = "Anon"
	noYears.ExperienceYears = nil
	noYears.CurrentCompany = ""
	noYears.Industries = nil

	got, err := Candidates(FormatCSV, []candidate.Candidate{sampleCandidate(), noYears})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := strings.Join([]string{
		"Full Name,Current Title,Current Company,Location,Experience Years,Skills,Profile URL,Seniority,Industries",
		`Jane Doe,Staff Engineer,"Acme, Inc ""East""","Berlin, Germany",11,Go; Spark,https://www.linkedin.com/in/jane,lead,Software; Fintech`,
		`Anon,Staff Engineer,,"Berlin, Germany",,Go; Spark,https://www.linkedin.com/in/jane,lead,`,
	}, "\n")

	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unexpected csv (-want +got):\n%s", diff)
	}
}

func TestCandidatesJSONUsesSnakeCase(t *testing.T) {
	t.Parallel()

	got, err := Candidates(FormatJSON, []candidate.Candidate{sampleCandidate()})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var decoded []map[string]any
	if err := json.Unmarshal([]byte(got), &decoded); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(decoded) != 1 {
		t.Fatalf("expected 1 record, got %d", len(decoded))
	}
	for _, key := range []string{"source_id", "full_name", "headline", "current_company", "experience_years", "profile_url", "seniority_level"} {
		if _, ok := decoded[0][key]; !ok {
			t.Fatalf("expected key %q in %v", key, decoded[0])
		}
	}
	if !strings.Contains(got, "\n  {") {
		t.Fatalf("expected two-space indentation:\n%s", got)
	}

	empty, err := Candidates(FormatJSON, nil)
	if err != nil || empty != "[]" {
		t.Fatalf("expected empty array, got %q, %v", empty, err)
	}
}

func TestBookmarksCSV(t *testing.T) {
	t.Parallel()

	list := []bookmarks.Bookmark{{
		Candidate:    sampleCandidate(),
		BookmarkedAt: time.Date(2025, time.March, 1, 12, 30, 0, 0, time.UTC),
		Notes:        "strong, reach out",
		Tags:         []string{"data", "berlin"},
	}}

	got, err := Bookmarks(FormatCSV, list)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	lines := strings.Split(got, "\n")
	if lines[0] != "Full Name,Current Title,Current Company,Location,Experience Years,Skills,Profile URL,Seniority,Notes,Tags,Bookmarked At" {
		t.Fatalf("unexpected header %q", lines[0])
	}
	if !strings.HasSuffix(lines[1], `lead,"strong, reach out",data; berlin,2025-03-01T12:30:00Z`) {
		t.Fatalf("unexpected row %q", lines[1])
	}
}

func TestBookmarksJSONKeepsStoredLayout(t *testing.T) {
	t.Parallel()

	got, err := Bookmarks(FormatJSON, []bookmarks.Bookmark{{Candidate: sampleCandidate(), Notes: "n"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, want := range []string{`"sourceId": "jane"`, `"bookmarkedAt"`, `"notes": "n"`} {
		if !strings.Contains(got, want) {
			t.Fatalf("expected %q in:\n%s", want, got)
		}
	}
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	if f, err := ParseFormat(" CSV "); err != nil || f != FormatCSV {
		t.Fatalf("unexpected %q, %v", f, err)
	}
	if _, err := ParseFormat("xml"); !errors.Is(err, provider.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
