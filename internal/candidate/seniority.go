package candidate

import (
	"fmt"
	"regexp"
	"strings"
)

// Seniority is the fixed ordinal scale used for filtering and inference.
type Seniority string

const (
	SeniorityEntry    Seniority = "entry"
	SeniorityJunior   Seniority = "junior"
	SeniorityMid      Seniority = "mid"
	SenioritySenior   Seniority = "senior"
	SeniorityLead     Seniority = "lead"
	SeniorityManager  Seniority = "manager"
	SeniorityDirector Seniority = "director"
	SeniorityVP       Seniority = "vp"
	SeniorityCLevel   Seniority = "c-level"
	// SeniorityOwner is an out-of-band tag with no ordinal position.
	SeniorityOwner Seniority = "owner"
)

var seniorityRanks = map[Seniority]int{
	SeniorityEntry:    0,
	SeniorityJunior:   1,
	SeniorityMid:      2,
	SenioritySenior:   3,
	SeniorityLead:     4,
	SeniorityManager:  5,
	SeniorityDirector: 6,
	SeniorityVP:       7,
	SeniorityCLevel:   8,
}

// SeniorityLevels lists every accepted value in ordinal order, owner last.
func SeniorityLevels() []Seniority {
	return []Seniority{
		SeniorityEntry, SeniorityJunior, SeniorityMid, SenioritySenior, SeniorityLead,
		SeniorityManager, SeniorityDirector, SeniorityVP, SeniorityCLevel, SeniorityOwner,
	}
}

// Valid reports whether s is one of the known levels.
func (s Seniority) Valid() bool {
	if s == SeniorityOwner {
		return true
	}
	_, ok := seniorityRanks[s]
	return ok
}

// Rank returns the ordinal position of s. Owner and unknown values are unranked.
func (s Seniority) Rank() (int, bool) {
	rank, ok := seniorityRanks[s]
	return rank, ok
}

// ParseSeniority validates a raw level, case-insensitively.
func ParseSeniority(raw string) (Seniority, error) {
	s := Seniority(strings.ToLower(strings.TrimSpace(raw)))
	if !s.Valid() {
		return "", fmt.Errorf("unknown seniority level %q", raw)
	}
	return s, nil
}

type seniorityRule struct {
	level   Seniority
	pattern *regexp.Regexp
}

// Evaluated in order, first match wins. Word boundaries keep short tokens such
// as "cto" from matching inside "director".
var seniorityRules = []seniorityRule{
	{SeniorityCLevel, regexp.MustCompile(`(?i)\b(chief|ceo|cto|cfo|coo|co-?founders?|founders?)\b`)},
	{SeniorityVP, regexp.MustCompile(`(?i)\b(vp|vice president)\b`)},
	{SeniorityDirector, regexp.MustCompile(`(?i)\bdirector\b`)},
	{SeniorityManager, regexp.MustCompile(`(?i)\b(manager|head of)\b`)},
	{SeniorityLead, regexp.MustCompile(`(?i)\b(lead|principal|staff|architect)\b`)},
	{SenioritySenior, regexp.MustCompile(`(?i)\bsenior\b`)},
	{SeniorityJunior, regexp.MustCompile(`(?i)\b(junior|jr|associate)\b`)},
	{SeniorityEntry, regexp.MustCompile(`(?i)\b(intern|trainee|entry|graduate)\b`)},
}

// InferSeniority maps a title or headline to a level. Text with no match
// defaults to mid; empty text leaves the level unset.
func InferSeniority(text string) Seniority {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}

	for _, rule := range seniorityRules {
		if rule.pattern.MatchString(text) {
			return rule.level
		}
	}

	return SeniorityMid
}
