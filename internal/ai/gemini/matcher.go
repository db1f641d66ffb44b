package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	_ "embed"

	"go.uber.org/zap"

	"github.com/spigell/candidate-sourcing/internal/ai"
	"github.com/spigell/candidate-sourcing/internal/candidate"
	"github.com/spigell/candidate-sourcing/internal/logger"
)

type contentGenerator interface {
	GenerateContent(ctx context.Context, system, message string) (string, error)
}

// PromptOverrides customizes the evaluation criteria rendered into the prompt.
type PromptOverrides struct {
	ExtraCriteria     string
	DealBreakers      string
	CustomKeywords    string
	Tone              string
	RegionConstraints string
	UserInstructions  string
}

type Matcher struct {
	generator contentGenerator
	minScore  float64
	logger    *zap.Logger
	maxLogLen int
	overrides PromptOverrides
}

//go:embed prompt.md
var promptTemplate string

const (
	defaultMaxLogLength     = 200
	defaultTone             = "Friendly"
	noneValue               = "none"
	maxUserInstructionRunes = 500
)

func NewMatcher(generator contentGenerator, minScore float64, maxLogLength int, log *zap.Logger) *Matcher {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}
	if log == nil {
		log = zap.NewNop()
	}

	return &Matcher{
		generator: generator,
		minScore:  minScore,
		logger:    log,
		maxLogLen: maxLogLength,
	}
}

func (m *Matcher) SetPromptOverrides(overrides PromptOverrides) {
	m.overrides = overrides
}

func (m *Matcher) Evaluate(ctx context.Context, c *candidate.CandidateDetailed, jobDescription string) (*ai.FitAssessment, error) {
	if c == nil {
		return nil, fmt.Errorf("candidate is required")
	}
	jobDescription = strings.TrimSpace(jobDescription)
	if jobDescription == "" {
		return nil, fmt.Errorf("job description is required")
	}

	candidateJSON, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal candidate payload: %w", err)
	}

	system := buildPrompt(m.overrides)
	message := fmt.Sprintf("Candidate profile:\n%s\n\nJob description:\n%s", candidateJSON, jobDescription)

	m.logger.Debug("gemini generate content request",
		zap.String("source_id", c.SourceID),
		zap.Int("prompt_length", utf8.RuneCountInString(system)+utf8.RuneCountInString(message)),
		zap.String("message_preview", logger.TruncateForLog(message, m.maxLogLen)),
	)

	raw, err := m.generator.GenerateContent(ctx, system, message)
	if err != nil {
		return nil, err
	}

	m.logger.Debug("gemini generate content response",
		zap.String("source_id", c.SourceID),
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", logger.TruncateForLog(raw, m.maxLogLen)),
	)

	assessment, err := parseResponse(raw)
	if err != nil {
		return nil, err
	}

	if m.minScore > 0 && assessment.Score < m.minScore {
		m.logger.Debug("set fit to false by score threshold",
			zap.String("source_id", c.SourceID),
			zap.Float64("score", assessment.Score),
			zap.Float64("threshold", m.minScore),
		)
		assessment.Fit = false
	}

	assessment.Raw = raw
	return assessment, nil
}

func buildPrompt(o PromptOverrides) string {
	tone := sanitizeLine(o.Tone)
	if tone == "" {
		tone = defaultTone
	}

	replacer := strings.NewReplacer(
		"{{EXTRA_CRITERIA}}", orNone(sanitizeLine(o.ExtraCriteria)),
		"{{DEAL_BREAKERS}}", orNone(sanitizeLine(o.DealBreakers)),
		"{{CUSTOM_KEYWORDS}}", orNone(sanitizeKeywords(o.CustomKeywords)),
		"{{TONE}}", tone,
		"{{REGION_CONSTRAINTS}}", orNone(sanitizeLine(o.RegionConstraints)),
		"{{USER_INSTRUCTIONS}}", userInstructionsBlock(o.UserInstructions),
	)

	return strings.TrimSpace(replacer.Replace(promptTemplate))
}

var bracketReplacer = strings.NewReplacer("[", "(", "]", ")")

// sanitizeLine collapses all whitespace into single spaces and neutralizes
// section markers so a value cannot open a new prompt section.
func sanitizeLine(s string) string {
	return strings.Join(strings.Fields(bracketReplacer.Replace(s)), " ")
}

func sanitizeKeywords(s string) string {
	var keywords []string
	for _, kw := range strings.Split(s, ",") {
		if kw = sanitizeLine(kw); kw != "" {
			keywords = append(keywords, kw)
		}
	}
	return strings.Join(keywords, ", ")
}

func userInstructionsBlock(s string) string {
	s = bracketReplacer.Replace(strings.ReplaceAll(s, "\r\n", "\n"))
	if runes := []rune(strings.TrimSpace(s)); len(runes) > maxUserInstructionRunes {
		s = string(runes[:maxUserInstructionRunes])
	}

	var lines []string
	for _, line := range strings.Split(s, "\n") {
		if line = strings.Join(strings.Fields(line), " "); line != "" {
			lines = append(lines, "  - "+line)
		}
	}

	if len(lines) == 0 {
		return "  - " + noneValue
	}
	return strings.Join(lines, "\n")
}

func orNone(s string) string {
	if s == "" {
		return noneValue
	}
	return s
}

func parseResponse(raw string) (*ai.FitAssessment, error) {
	cleaned := extractJSON(raw)

	var data map[string]any
	if err := json.Unmarshal([]byte(cleaned), &data); err != nil {
		return nil, fmt.Errorf("parse gemini response: %w", err)
	}

	score := coerceFloat(data["score"])
	if math.IsNaN(score) {
		score = 0
	}

	return &ai.FitAssessment{
		Fit:     coerceBool(data["fit"]),
		Score:   score,
		Reason:  coerceString(data["reason"]),
		Message: coerceString(data["message"]),
	}, nil
}

func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	return strings.TrimSpace(raw)
}

func coerceBool(v any) bool {
	switch val := v.(type) {
	case bool:
		return val
	case string:
		lower := strings.ToLower(strings.TrimSpace(val))
		return lower == "true" || lower == "yes"
	case float64:
		return val != 0
	default:
		return false
	}
}

func coerceFloat(v any) float64 {
	switch val := v.(type) {
	case float64:
		return val
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return math.NaN()
		}
		return f
	default:
		return math.NaN()
	}
}

func coerceString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(val)
	default:
		bytes, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(bytes)
	}
}
