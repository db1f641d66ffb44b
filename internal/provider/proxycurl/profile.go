package proxycurl

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spigell/candidate-sourcing/internal/candidate"
)

const profilePath = "/v2/linkedin"

type date struct {
	Day   int `json:"day,omitempty"`
	Month int `json:"month,omitempty"`
	Year  int `json:"year,omitempty"`
}

type experience struct {
	StartsAt    *date  `json:"starts_at,omitempty"`
	EndsAt      *date  `json:"ends_at,omitempty"`
	Company     string `json:"company,omitempty"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Location    string `json:"location,omitempty"`
}

type education struct {
	StartsAt     *date  `json:"starts_at,omitempty"`
	EndsAt       *date  `json:"ends_at,omitempty"`
	School       string `json:"school,omitempty"`
	DegreeName   string `json:"degree_name,omitempty"`
	FieldOfStudy string `json:"field_of_study,omitempty"`
}

type certification struct {
	Name string `json:"name,omitempty"`
}

// Profile is the person document returned by the profile and search endpoints.
type Profile struct {
	PublicIdentifier string          `json:"public_identifier,omitempty"`
	FirstName        string          `json:"first_name,omitempty"`
	LastName         string          `json:"last_name,omitempty"`
	FullName         string          `json:"full_name,omitempty"`
	Headline         string          `json:"headline,omitempty"`
	Summary          string          `json:"summary,omitempty"`
	Country          string          `json:"country,omitempty"`
	CountryFullName  string          `json:"country_full_name,omitempty"`
	City             string          `json:"city,omitempty"`
	State            string          `json:"state,omitempty"`
	Occupation       string          `json:"occupation,omitempty"`
	Experiences      []experience    `json:"experiences,omitempty"`
	Education        []education     `json:"education,omitempty"`
	Skills           []string        `json:"skills,omitempty"`
	Certifications   []certification `json:"certifications,omitempty"`
	Languages        []string        `json:"languages,omitempty"`
	Industry         string          `json:"industry,omitempty"`
}

// GetCandidateDetails fetches the full profile. sourceID may be a public
// identifier or a profile URL.
func (c *Client) GetCandidateDetails(ctx context.Context, sourceID string) (*candidate.CandidateDetailed, error) {
	sourceID = strings.TrimSpace(sourceID)
	if sourceID == "" {
		return nil, fmt.Errorf("proxycurl: empty candidate id")
	}

	profileURL := candidate.ProfileURL(sourceID)

	q := url.Values{}
	q.Set("linkedin_profile_url", profileURL)
	q.Set("skills", "include")
	q.Set("inferred_salary", "include")
	q.Set("personal_email", "include")
	q.Set("personal_contact_number", "include")

	var profile Profile
	if err := c.getJSON(ctx, opDetails, profilePath, q, &profile); err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, err
	}

	return transformDetailed(&profile, profileURL, c.now()), nil
}

func (e experience) current() bool {
	return e.EndsAt == nil || e.EndsAt.Year == 0
}

func (p *Profile) currentPosition() *experience {
	for i := range p.Experiences {
		if p.Experiences[i].current() {
			return &p.Experiences[i]
		}
	}
	return nil
}

func (p *Profile) spans() []candidate.Span {
	spans := make([]candidate.Span, 0, len(p.Experiences))
	for _, exp := range p.Experiences {
		var span candidate.Span
		if exp.StartsAt != nil {
			span.StartYear, span.StartMonth = exp.StartsAt.Year, exp.StartsAt.Month
		}
		if exp.EndsAt != nil {
			span.EndYear, span.EndMonth = exp.EndsAt.Year, exp.EndsAt.Month
		}
		spans = append(spans, span)
	}
	return spans
}

func sourceIDFor(p *Profile, profileURL string) string {
	if p.PublicIdentifier != "" {
		return p.PublicIdentifier
	}
	if slug := candidate.ProfileSlug(profileURL); slug != "" {
		return slug
	}
	return profileURL
}

func transform(p *Profile, profileURL string, now time.Time) candidate.Candidate {
	c := candidate.Candidate{
		Source:          candidate.SourceLinkedIn,
		SourceID:        sourceIDFor(p, profileURL),
		FullName:        p.FullName,
		HeadlineOrTitle: p.Headline,
		CurrentTitle:    p.Occupation,
		Location:        candidate.JoinLocation(p.City, p.State, p.CountryFullName),
		Skills:          p.Skills,
		ProfileURL:      profileURL,
		Summary:         p.Summary,
	}

	if c.FullName == "" {
		c.FullName = strings.TrimSpace(p.FirstName + " " + p.LastName)
	}

	seniorityText := p.Headline
	if pos := p.currentPosition(); pos != nil {
		c.CurrentCompany = pos.Company
		if pos.Title != "" {
			c.CurrentTitle = pos.Title
			seniorityText = pos.Title
		}
	}
	c.SeniorityLevel = candidate.InferSeniority(seniorityText)

	if len(p.Experiences) > 0 {
		c.ExperienceYears = candidate.EstimateExperienceYears(p.spans(), now)
	}

	if p.Industry != "" {
		c.Industries = []string{p.Industry}
	}

	return c
}

func transformDetailed(p *Profile, profileURL string, now time.Time) *candidate.CandidateDetailed {
	detailed := &candidate.CandidateDetailed{
		Candidate: transform(p, profileURL, now),
		Languages: p.Languages,
	}

	for _, exp := range p.Experiences {
		detailed.Experience = append(detailed.Experience, candidate.WorkExperience{
			Title:       orUnknown(exp.Title),
			Company:     orUnknown(exp.Company),
			Location:    exp.Location,
			StartDate:   formatDate(exp.StartsAt),
			EndDate:     formatDate(exp.EndsAt),
			Description: exp.Description,
			IsCurrent:   exp.current(),
		})
	}

	for _, edu := range p.Education {
		detailed.Education = append(detailed.Education, candidate.Education{
			School:       orUnknown(edu.School),
			Degree:       edu.DegreeName,
			FieldOfStudy: edu.FieldOfStudy,
			StartDate:    formatDate(edu.StartsAt),
			EndDate:      formatDate(edu.EndsAt),
		})
	}

	for _, cert := range p.Certifications {
		if cert.Name != "" {
			detailed.Certifications = append(detailed.Certifications, cert.Name)
		}
	}

	return detailed
}

func formatDate(d *date) string {
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
