package candidate

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// Span is one employment interval as reported by a provider. Zero values mean
// the component is absent.
type Span struct {
	StartYear  int
	StartMonth int
	EndYear    int
	EndMonth   int
}

// EstimateExperienceYears sums every span with a known start year, in months,
// and rounds the total to whole years. Open spans run until now; a missing
// start month counts as January and a missing end month as December. Spans
// without a start year are skipped. It returns nil when there are no spans.
func EstimateExperienceYears(spans []Span, now time.Time) *int {
	if len(spans) == 0 {
		return nil
	}

	total := 0
	for _, span := range spans {
		if span.StartYear == 0 {
			continue
		}

		startMonth := span.StartMonth
		if startMonth == 0 {
			startMonth = 1
		}

		endYear, endMonth := span.EndYear, span.EndMonth
		if endYear == 0 {
			endYear = now.Year()
			endMonth = int(now.Month())
		} else if endMonth == 0 {
			endMonth = 12
		}

		months := (endYear-span.StartYear)*12 + (endMonth - startMonth)
		total += max(0, months)
	}

	years := int(math.Round(float64(total) / 12))
	return &years
}

// JoinLocation joins the non-empty parts with ", ".
func JoinLocation(parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			kept = append(kept, part)
		}
	}
	return strings.Join(kept, ", ")
}

// FormatYearMonth renders YYYY-MM. The month defaults to January and the
// result is empty when the year is unknown.
func FormatYearMonth(year, month int) string {
	if year == 0 {
		return ""
	}
	if month == 0 {
		month = 1
	}
	return fmt.Sprintf("%d-%02d", year, month)
}

// ProfileSlug extracts the public identifier from a profile URL such as
// https://www.linkedin.com/in/jane-doe/. It returns "" when the URL has no
// /in/ segment.
func ProfileSlug(profileURL string) string {
	_, rest, found := strings.Cut(profileURL, "/in/")
	if !found {
		return ""
	}
	rest, _, _ = strings.Cut(rest, "?")
	return strings.Trim(rest, "/")
}

const profileURLPrefix = "https://www.linkedin.com/in/"

// ProfileURL turns a bare identifier into a public profile URL. Values that
// already look like URLs are returned untouched.
func ProfileURL(sourceID string) string {
	sourceID = strings.TrimSpace(sourceID)
	if strings.HasPrefix(sourceID, "http") {
		return sourceID
	}
	return profileURLPrefix + sourceID
}
