// Package export renders candidates and bookmarks as JSON or CSV text.
package export

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/spigell/candidate-sourcing/internal/bookmarks"
	"github.com/spigell/candidate-sourcing/internal/candidate"
	"github.com/spigell/candidate-sourcing/internal/provider"
)

type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
)

func ParseFormat(raw string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(raw))); f {
	case FormatJSON, FormatCSV:
		return f, nil
	default:
		return "", provider.InvalidInput("unsupported export format %q (use json or csv)", raw)
	}
}

const listSeparator = "; "

var (
	candidateHeader = []string{
		"Full Name", "Current Title", "Current Company", "Location", "Experience Years",
		"Skills", "Profile URL", "Seniority", "Industries",
	}
	bookmarkHeader = []string{
		"Full Name", "Current Title", "Current Company", "Location", "Experience Years",
		"Skills", "Profile URL", "Seniority", "Notes", "Tags", "Bookmarked At",
	}
)

// Record is the snake_case view of a candidate used in tool output and
// JSON exports.
type Record struct {
	Source          candidate.Source    `json:"source"`
	SourceID        string              `json:"source_id"`
	FullName        string              `json:"full_name"`
	Headline        string              `json:"headline,omitempty"`
	CurrentTitle    string              `json:"current_title,omitempty"`
	CurrentCompany  string              `json:"current_company,omitempty"`
	Location        string              `json:"location,omitempty"`
	ExperienceYears *int                `json:"experience_years,omitempty"`
	Skills          []string            `json:"skills,omitempty"`
	ProfileURL      string              `json:"profile_url"`
	SeniorityLevel  candidate.Seniority `json:"seniority_level,omitempty"`
	Industries      []string            `json:"industries,omitempty"`
}

func NewRecord(c candidate.Candidate) Record {
	return Record{
		Source:          c.Source,
		SourceID:        c.SourceID,
		FullName:        c.FullName,
		Headline:        c.HeadlineOrTitle,
		CurrentTitle:    c.CurrentTitle,
		CurrentCompany:  c.CurrentCompany,
		Location:        c.Location,
		ExperienceYears: c.ExperienceYears,
		Skills:          c.Skills,
		ProfileURL:      c.ProfileURL,
		SeniorityLevel:  c.SeniorityLevel,
		Industries:      c.Industries,
	}
}

// Candidates renders search results.
func Candidates(format Format, candidates []candidate.Candidate) (string, error) {
	if format == FormatCSV {
		rows := make([][]string, 0, len(candidates))
		for _, c := range candidates {
			rows = append(rows, append(candidateColumns(c), strings.Join(c.Industries, listSeparator)))
		}
		return CSV(candidateHeader, rows), nil
	}

	records := make([]Record, 0, len(candidates))
	for _, c := range candidates {
		records = append(records, NewRecord(c))
	}
	return indentJSON(records)
}

// Bookmarks renders bookmarks; JSON keeps the stored layout.
func Bookmarks(format Format, list []bookmarks.Bookmark) (string, error) {
	if format == FormatCSV {
		rows := make([][]string, 0, len(list))
		for _, b := range list {
			rows = append(rows, append(candidateColumns(b.Candidate),
				b.Notes,
				strings.Join(b.Tags, listSeparator),
				b.BookmarkedAt.UTC().Format(time.RFC3339),
			))
		}
		return CSV(bookmarkHeader, rows), nil
	}

	if list == nil {
		list = []bookmarks.Bookmark{}
	}
	return indentJSON(list)
}

func candidateColumns(c candidate.Candidate) []string {
	years := ""
	if c.ExperienceYears != nil {
		years = strconv.Itoa(*c.ExperienceYears)
	}

	return []string{
		c.FullName,
		c.CurrentTitle,
		c.CurrentCompany,
		c.Location,
		years,
		strings.Join(c.Skills, listSeparator),
		c.ProfileURL,
		string(c.SeniorityLevel),
	}
}

// CSV joins escaped fields with "," and rows with "\n". There is no
// trailing newline.
func CSV(header []string, rows [][]string) string {
	var b strings.Builder
	writeRow(&b, header)
	for _, row := range rows {
		b.WriteByte('\n')
		writeRow(&b, row)
	}
	return b.String()
}

func writeRow(b *strings.Builder, fields []string) {
	for i, field := range fields {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(EscapeCSV(field))
	}
}

// EscapeCSV quotes field iff it contains a comma, a double quote or a
// newline, doubling embedded quotes.
func EscapeCSV(field string) string {
	if !strings.ContainsAny(field, ",\"\n") {
		return field
	}
	return `"` + strings.ReplaceAll(field, `"`, `""`) + `"`
}

func indentJSON(v any) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}
