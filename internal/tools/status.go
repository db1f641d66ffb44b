package tools

import (
	"context"

	"go.uber.org/zap"

	"github.com/spigell/candidate-sourcing/internal/provider"
	"github.com/spigell/candidate-sourcing/internal/provider/linkedin"
	"github.com/spigell/candidate-sourcing/internal/provider/proxycurl"
)

const switchProviderInstruction = "Set the DATA_PROVIDER environment variable (or the provider config key) to 'linkedin' or 'proxycurl'"

type providerStatusOutput struct {
	Name               provider.Type `json:"name"`
	Configured         bool          `json:"configured"`
	IsActive           bool          `json:"is_active"`
	Message            string        `json:"message,omitempty"`
	RateLimitRemaining *int          `json:"rate_limit_remaining,omitempty"`
	RateLimitReset     string        `json:"rate_limit_reset,omitempty"`
}

type proxycurlNotes struct {
	CostPerSearchResult  string `json:"cost_per_search_result"`
	CostPerProfileDetail string `json:"cost_per_profile_detail"`
	CostPerRoleLookup    string `json:"cost_per_role_lookup"`
	SignupURL            string `json:"signup_url"`
}

type linkedinNotes struct {
	Requirement string `json:"requirement"`
	Note        string `json:"note"`
}

type usageNotes struct {
	Proxycurl proxycurlNotes `json:"proxycurl"`
	LinkedIn  linkedinNotes  `json:"linkedin"`
}

type StatusOutput struct {
	ActiveProvider            provider.Type          `json:"active_provider"`
	CreditBalance             *int                   `json:"credit_balance,omitempty"`
	Providers                 []providerStatusOutput `json:"providers"`
	UsageNotes                usageNotes             `json:"usage_notes"`
	SwitchProviderInstruction string                 `json:"switch_provider_instruction"`
}

var notes = usageNotes{
	Proxycurl: proxycurlNotes{
		CostPerSearchResult:  proxycurl.CostPerSearchResult,
		CostPerProfileDetail: proxycurl.CostPerProfileDetail,
		CostPerRoleLookup:    proxycurl.CostPerRoleLookup,
		SignupURL:            proxycurl.SignupURL,
	},
	LinkedIn: linkedinNotes{
		Requirement: linkedin.PartnerRequirement,
		Note:        "Requires an enterprise agreement with LinkedIn",
	},
}

// ProviderStatus reports both providers and, when the active one keeps a
// credit balance, the current balance.
func (h *Handlers) ProviderStatus(ctx context.Context, _ map[string]any) (any, error) {
	return h.Status(ctx)
}

// Status is ProviderStatus with a typed result.
func (h *Handlers) Status(ctx context.Context) (*StatusOutput, error) {
	active, err := h.selector.ActiveType()
	if err != nil {
		return nil, err
	}

	out := &StatusOutput{
		ActiveProvider:            active,
		CreditBalance:             h.creditBalance(ctx),
		UsageNotes:                notes,
		SwitchProviderInstruction: switchProviderInstruction,
	}

	statuses, err := h.selector.Statuses(ctx)
	if err != nil {
		return nil, err
	}

	for _, s := range statuses {
		out.Providers = append(out.Providers, providerStatusOutput{
			Name:               s.Provider,
			Configured:         s.Configured,
			IsActive:           s.Provider == active,
			Message:            s.Message,
			RateLimitRemaining: s.RateLimitRemaining,
			RateLimitReset:     s.RateLimitReset,
		})
	}

	return out, nil
}

// creditBalance is best effort: any failure leaves the balance out.
func (h *Handlers) creditBalance(ctx context.Context) *int {
	p, err := h.selector.Active()
	if err != nil {
		h.logger.Debug("credit balance skipped", zap.Error(err))
		return nil
	}

	reporter, ok := p.(provider.CreditReporter)
	if !ok {
		return nil
	}

	balance, err := reporter.CreditBalance(ctx)
	if err != nil {
		h.logger.Warn("credit balance lookup failed", zap.String("provider", string(p.Name())), zap.Error(err))
		return nil
	}

	return &balance
}
