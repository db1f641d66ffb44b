package candidate

import (
	"slices"
)

// Source identifies the network a profile belongs to. Both providers surface
// LinkedIn profiles, so this is the only value produced today.
type Source string

const (
	SourceLinkedIn Source = "linkedin"
)

// Candidate is the canonical profile summary every provider maps into.
type Candidate struct {
	Source          Source    `json:"source"`
	SourceID        string    `json:"sourceId"`
	FullName        string    `json:"fullName"`
	HeadlineOrTitle string    `json:"headlineOrTitle,omitempty"`
	CurrentTitle    string    `json:"currentTitle,omitempty"`
	CurrentCompany  string    `json:"currentCompany,omitempty"`
	Location        string    `json:"location,omitempty"`
	ExperienceYears *int      `json:"experienceYears,omitempty"`
	Skills          []string  `json:"skills,omitempty"`
	ProfileURL      string    `json:"profileUrl"`
	SeniorityLevel  Seniority `json:"seniorityLevel,omitempty"`
	Industries      []string  `json:"industries,omitempty"`
	Summary         string    `json:"summary,omitempty"`
}

// CandidateDetailed is produced only by detail fetches.
type CandidateDetailed struct {
	Candidate
	Experience     []WorkExperience `json:"experience,omitempty"`
	Education      []Education      `json:"education,omitempty"`
	Certifications []string         `json:"certifications,omitempty"`
	Languages      []string         `json:"languages,omitempty"`
}

type WorkExperience struct {
	Title       string `json:"title"`
	Company     string `json:"company"`
	Location    string `json:"location,omitempty"`
	StartDate   string `json:"startDate,omitempty"`
	EndDate     string `json:"endDate,omitempty"`
	Description string `json:"description,omitempty"`
	IsCurrent   bool   `json:"isCurrent"`
}

type Education struct {
	School       string `json:"school"`
	Degree       string `json:"degree,omitempty"`
	FieldOfStudy string `json:"fieldOfStudy,omitempty"`
	StartDate    string `json:"startDate,omitempty"`
	EndDate      string `json:"endDate,omitempty"`
}

// UnknownValue is used for required experience/education fields the source omits.
const UnknownValue = "Unknown"

// Key returns the system-wide identity of the candidate.
func (c *Candidate) Key() string {
	source := c.Source
	if source == "" {
		source = SourceLinkedIn
	}
	return string(source) + ":" + c.SourceID
}

// Merge copies every populated field of other into c. Empty fields of other
// never erase data already present in c.
func (c *Candidate) Merge(other *Candidate) {
	if other == nil {
		return
	}

	mergeString(&c.SourceID, other.SourceID)
	mergeString(&c.FullName, other.FullName)
	mergeString(&c.HeadlineOrTitle, other.HeadlineOrTitle)
	mergeString(&c.CurrentTitle, other.CurrentTitle)
	mergeString(&c.CurrentCompany, other.CurrentCompany)
	mergeString(&c.Location, other.Location)
	mergeString(&c.ProfileURL, other.ProfileURL)
	mergeString(&c.Summary, other.Summary)

	if other.Source != "" {
		c.Source = other.Source
	}
	if other.SeniorityLevel != "" {
		c.SeniorityLevel = other.SeniorityLevel
	}
	if other.ExperienceYears != nil {
		years := *other.ExperienceYears
		c.ExperienceYears = &years
	}
	if len(other.Skills) > 0 {
		c.Skills = slices.Clone(other.Skills)
	}
	if len(other.Industries) > 0 {
		c.Industries = slices.Clone(other.Industries)
	}
}

func mergeString(dst *string, src string) {
	if src != "" {
		*dst = src
	}
}

// Ptr is a small helper for optional numeric fields.
func Ptr[T any](v T) *T {
	return &v
}
