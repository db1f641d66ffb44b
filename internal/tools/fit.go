package tools

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/candidate-sourcing/internal/provider"
)

var errNoMatcher = errors.New("fit assessment is not configured (set GEMINI_API_KEY)")

type fitInput struct {
	SourceID       string `json:"source_id"`
	JobDescription string `json:"job_description"`
}

type fitOutput struct {
	SourceID string  `json:"source_id"`
	FullName string  `json:"full_name"`
	Fit      bool    `json:"fit"`
	Score    float64 `json:"score"`
	Reason   string  `json:"reason,omitempty"`
	Message  string  `json:"message,omitempty"`
}

// AssessCandidateFit fetches a candidate's full profile and asks the matcher
// how well it fits the job description.
func (h *Handlers) AssessCandidateFit(ctx context.Context, args map[string]any) (any, error) {
	if h.matcher == nil {
		return nil, errNoMatcher
	}

	var in fitInput
	if err := decode(args, &in); err != nil {
		return nil, err
	}

	id := sourceIDInput{SourceID: in.SourceID}
	if err := id.validate(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.JobDescription) == "" {
		return nil, provider.InvalidInput("job_description is required")
	}

	detailed, err := h.details(ctx, id.SourceID)
	if err != nil {
		return nil, err
	}
	if detailed == nil {
		return nil, fmt.Errorf("candidate %q: %w", id.SourceID, provider.ErrNotFound)
	}

	assessment, err := h.matcher.Evaluate(ctx, detailed, in.JobDescription)
	if err != nil {
		return nil, err
	}

	h.logger.Info("candidate fit assessed",
		zap.String("source_id", detailed.SourceID),
		zap.Bool("fit", assessment.Fit),
		zap.Float64("score", assessment.Score),
	)

	return fitOutput{
		SourceID: detailed.SourceID,
		FullName: detailed.FullName,
		Fit:      assessment.Fit,
		Score:    assessment.Score,
		Reason:   assessment.Reason,
		Message:  assessment.Message,
	}, nil
}
