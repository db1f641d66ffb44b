// Package ai defines the optional candidate fit assessment used by the
// assess_candidate_fit tool.
package ai

import (
	"context"

	"github.com/spigell/candidate-sourcing/internal/candidate"
)

type FitAssessment struct {
	Fit     bool    `json:"fit"`
	Score   float64 `json:"score"`
	Reason  string  `json:"reason,omitempty"`
	Message string  `json:"message,omitempty"`
	Raw     string  `json:"-"`
}

// Matcher judges how well a candidate fits a job description.
type Matcher interface {
	Evaluate(ctx context.Context, c *candidate.CandidateDetailed, jobDescription string) (*FitAssessment, error)
}
