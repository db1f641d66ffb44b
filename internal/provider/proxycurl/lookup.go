package proxycurl

import (
	"context"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/candidate-sourcing/internal/candidate"
	"github.com/spigell/candidate-sourcing/internal/provider"
)

const (
	creditBalancePath = "/credit-balance"
	roleLookupPath    = "/find/company/role"
	resolvePath       = "/linkedin/profile/resolve"
)

type creditBalance struct {
	CreditBalance int `json:"credit_balance"`
}

type roleLookupResponse struct {
	LinkedinProfileURL string   `json:"linkedin_profile_url,omitempty"`
	Profile            *Profile `json:"profile,omitempty"`
}

type resolveResponse struct {
	URL string `json:"url,omitempty"`
}

// CreditBalance fetches the remaining credits and keeps them for Status.
func (c *Client) CreditBalance(ctx context.Context) (int, error) {
	var balance creditBalance
	if err := c.getJSON(ctx, opCreditBalance, creditBalancePath, nil, &balance); err != nil {
		return 0, err
	}

	c.mu.Lock()
	c.credits = candidate.Ptr(balance.CreditBalance)
	c.mu.Unlock()

	c.log(opCreditBalance).Debug("proxycurl credit balance", zap.Int("credits", balance.CreditBalance))

	return balance.CreditBalance, nil
}

// LookupByRole finds the person holding role at company.
func (c *Client) LookupByRole(ctx context.Context, role, company string) (*candidate.Candidate, error) {
	role, company = strings.TrimSpace(role), strings.TrimSpace(company)
	if role == "" || company == "" {
		return nil, provider.InvalidInput("role and company are required")
	}

	q := url.Values{}
	q.Set("role", role)
	q.Set("company_name", company)
	q.Set("enrich_profile", "enrich")

	var response roleLookupResponse
	if err := c.getJSON(ctx, opRoleLookup, roleLookupPath, q, &response); err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, err
	}

	if response.Profile == nil {
		return nil, nil
	}

	found := transform(response.Profile, response.LinkedinProfileURL, c.now())
	return &found, nil
}

// ResolveProfileURL returns the profile URL of the described person, or ""
// when Proxycurl finds no match.
func (c *Client) ResolveProfileURL(ctx context.Context, query provider.ResolveQuery) (string, error) {
	if strings.TrimSpace(query.FirstName) == "" || strings.TrimSpace(query.CompanyDomain) == "" {
		return "", provider.InvalidInput("first name and company domain are required")
	}

	q := url.Values{}
	q.Set("first_name", strings.TrimSpace(query.FirstName))
	q.Set("company_domain", strings.TrimSpace(query.CompanyDomain))
	if query.LastName != "" {
		q.Set("last_name", strings.TrimSpace(query.LastName))
	}
	if query.Title != "" {
		q.Set("title", strings.TrimSpace(query.Title))
	}

	var response resolveResponse
	if err := c.getJSON(ctx, opResolveProfile, resolvePath, q, &response); err != nil {
		if isNotFound(err) {
			return "", nil
		}
		return "", err
	}

	return response.URL, nil
}
