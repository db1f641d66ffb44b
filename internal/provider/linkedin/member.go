package linkedin

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spigell/candidate-sourcing/internal/candidate"
)

const candidatePath = "/talent/candidates/"

type yearMonth struct {
	Year  int `json:"year,omitempty"`
	Month int `json:"month,omitempty"`
}

type location struct {
	City    string `json:"city,omitempty"`
	Region  string `json:"region,omitempty"`
	Country string `json:"country,omitempty"`
}

type position struct {
	Title       string     `json:"title,omitempty"`
	CompanyName string     `json:"companyName,omitempty"`
	Location    string     `json:"location,omitempty"`
	StartedOn   *yearMonth `json:"startedOn,omitempty"`
	EndedOn     *yearMonth `json:"endedOn,omitempty"`
	IsCurrent   bool       `json:"isCurrent,omitempty"`
	Description string     `json:"description,omitempty"`
}

type educationEntry struct {
	SchoolName   string     `json:"schoolName,omitempty"`
	DegreeName   string     `json:"degreeName,omitempty"`
	FieldOfStudy string     `json:"fieldOfStudy,omitempty"`
	StartedOn    *yearMonth `json:"startedOn,omitempty"`
	EndedOn      *yearMonth `json:"endedOn,omitempty"`
}

type named struct {
	Name string `json:"name,omitempty"`
}

// Member is a candidate document as returned by the Talent API.
type Member struct {
	ID               string           `json:"id"`
	VanityName       string           `json:"vanityName,omitempty"`
	FirstName        string           `json:"firstName,omitempty"`
	LastName         string           `json:"lastName,omitempty"`
	Headline         string           `json:"headline,omitempty"`
	Summary          string           `json:"summary,omitempty"`
	Location         *location        `json:"location,omitempty"`
	Industry         string           `json:"industry,omitempty"`
	Skills           []string         `json:"skills,omitempty"`
	Seniority        string           `json:"seniority,omitempty"`
	Positions        []position       `json:"positions,omitempty"`
	Educations       []educationEntry `json:"educations,omitempty"`
	Certifications   []named          `json:"certifications,omitempty"`
	Languages        []named          `json:"languages,omitempty"`
	PublicProfileURL string           `json:"publicProfileUrl,omitempty"`
}

// GetCandidateDetails accepts a member id, vanity name or profile URL.
func (c *Client) GetCandidateDetails(ctx context.Context, sourceID string) (*candidate.CandidateDetailed, error) {
	id := strings.TrimSpace(sourceID)
	if slug := candidate.ProfileSlug(id); slug != "" {
		id = slug
	}
	if id == "" {
		return nil, fmt.Errorf("linkedin: empty candidate id")
	}

	var member Member
	if _, err := c.getJSON(ctx, opDetails, candidatePath+url.PathEscape(id), nil, &member); err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, err
	}

	return toDetailed(&member, c.now()), nil
}

func (p position) current() bool {
	return p.IsCurrent || p.EndedOn == nil || p.EndedOn.Year == 0
}

func (m *Member) currentPosition() *position {
	for i := range m.Positions {
		if m.Positions[i].current() {
			return &m.Positions[i]
		}
	}
	return nil
}

func (m *Member) spans() []candidate.Span {
	spans := make([]candidate.Span, 0, len(m.Positions))
	for _, p := range m.Positions {
		var span candidate.Span
		if p.StartedOn != nil {
			span.StartYear, span.StartMonth = p.StartedOn.Year, p.StartedOn.Month
		}
		if p.EndedOn != nil && !p.IsCurrent {
			span.EndYear, span.EndMonth = p.EndedOn.Year, p.EndedOn.Month
		}
		spans = append(spans, span)
	}
	return spans
}

func (m *Member) profileURL() string {
	if m.PublicProfileURL != "" {
		return m.PublicProfileURL
	}
	if m.VanityName != "" {
		return candidate.ProfileURL(m.VanityName)
	}
	return candidate.ProfileURL(m.ID)
}

func toCandidate(m *Member, now time.Time) candidate.Candidate {
	c := candidate.Candidate{
		Source:          candidate.SourceLinkedIn,
		SourceID:        m.ID,
		FullName:        strings.TrimSpace(m.FirstName + " " + m.LastName),
		HeadlineOrTitle: m.Headline,
		Skills:          m.Skills,
		ProfileURL:      m.profileURL(),
		Summary:         m.Summary,
	}

	if c.SourceID == "" {
		c.SourceID = m.VanityName
	}

	if m.Location != nil {
		c.Location = candidate.JoinLocation(m.Location.City, m.Location.Region, m.Location.Country)
	}

	seniorityText := m.Headline
	if pos := m.currentPosition(); pos != nil {
		c.CurrentTitle = pos.Title
		c.CurrentCompany = pos.CompanyName
		if pos.Title != "" {
			seniorityText = pos.Title
		}
	}

	// Prefer the level LinkedIn reports; fall back to inference.
	if level, err := candidate.ParseSeniority(m.Seniority); err == nil && level != "" {
		c.SeniorityLevel = level
	} else {
		c.SeniorityLevel = candidate.InferSeniority(seniorityText)
	}

	if len(m.Positions) > 0 {
		c.ExperienceYears = candidate.EstimateExperienceYears(m.spans(), now)
	}

	if m.Industry != "" {
		c.Industries = []string{m.Industry}
	}

	return c
}

func toDetailed(m *Member, now time.Time) *candidate.CandidateDetailed {
	detailed := &candidate.CandidateDetailed{Candidate: toCandidate(m, now)}

	for _, p := range m.Positions {
		we := candidate.WorkExperience{
			Title:       orUnknown(p.Title),
			Company:     orUnknown(p.CompanyName),
			Location:    p.Location,
			StartDate:   formatDate(p.StartedOn),
			Description: p.Description,
			IsCurrent:   p.current(),
		}
		if !we.IsCurrent {
			we.EndDate = formatDate(p.EndedOn)
		}
		detailed.Experience = append(detailed.Experience, we)
	}

	for _, e := range m.Educations {
		detailed.Education = append(detailed.Education, candidate.Education{
			School:       orUnknown(e.SchoolName),
			Degree:       e.DegreeName,
			FieldOfStudy: e.FieldOfStudy,
			StartDate:    formatDate(e.StartedOn),
			EndDate:      formatDate(e.EndedOn),
		})
	}

	for _, cert := range m.Certifications {
		if cert.Name != "" {
			detailed.Certifications = append(detailed.Certifications, cert.Name)
		}
	}
	for _, lang := range m.Languages {
		if lang.Name != "" {
			detailed.Languages = append(detailed.Languages, lang.Name)
		}
	}

	return detailed
}

func formatDate(d *yearMonth) string {
	if d == nil {
		return ""
	}
	return candidate.FormatYearMonth(d.Year, d.Month)
}

func orUnknown(s string) string {
	if strings.TrimSpace(s) == "" {
		return candidate.UnknownValue
	}
	return s
}
