// Package proxycurl implements the provider contract on top of the Proxycurl
// enrichment API.
package proxycurl

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/candidate-sourcing/internal/candidate"
	"github.com/spigell/candidate-sourcing/internal/provider"
)

const (
	apiURL    = "https://nubela.co/proxycurl/api"
	userAgent = "spigell/candidate-sourcing"
	SignupURL = "https://nubela.co/proxycurl"

	// Credit costs as published by Proxycurl.
	CostPerSearchResult  = "3 credits"
	CostPerProfileDetail = "1 credit"
	CostPerRoleLookup    = "3 credits"
)

var hints = provider.StatusHints{
	Unauthorized: "Invalid Proxycurl API key. Please check your PROXYCURL_API_KEY.",
	Forbidden:    "Proxycurl API access forbidden. Check your API key permissions.",
	RateLimited:  "Proxycurl rate limit exceeded. Please wait before making more requests.",
}

type Client struct {
	apiKey     string
	logger     *zap.Logger
	now        func() time.Time
	HTTPClient *http.Client
	UserAgent  string
	APIURL     string

	mu      sync.Mutex
	credits *int
}

// New builds a client. An empty key yields a client that reports itself as
// unconfigured and refuses every remote call.
func New(logger *zap.Logger, apiKey string) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		apiKey: strings.TrimSpace(apiKey),
		logger: logger,
		now:    time.Now,
		// Callers bound requests through the context.
		HTTPClient: &http.Client{},
		UserAgent:  userAgent,
		APIURL:     apiURL,
	}
}

func (c *Client) Name() provider.Type {
	return provider.TypeProxycurl
}

func (c *Client) IsConfigured() bool {
	return c.apiKey != ""
}

// Status reports configuration and the last credit balance seen, if any.
func (c *Client) Status(_ context.Context) provider.Status {
	status := provider.Status{
		Provider:   provider.TypeProxycurl,
		Configured: c.IsConfigured(),
	}

	if !status.Configured {
		status.Message = fmt.Sprintf("Proxycurl API key not set (get one at %s)", SignupURL)
		return status
	}

	status.Message = "Proxycurl API key configured"

	c.mu.Lock()
	if c.credits != nil {
		status.CreditsRemaining = candidate.Ptr(*c.credits)
	}
	c.mu.Unlock()

	return status
}

func (c *Client) configError() error {
	return &provider.ConfigError{
		Provider: provider.TypeProxycurl,
		Missing:  []string{"PROXYCURL_API_KEY"},
		Hint:     fmt.Sprintf("Set the PROXYCURL_API_KEY environment variable. Get your API key from %s", SignupURL),
	}
}

var (
	_ provider.Provider        = (*Client)(nil)
	_ provider.CreditReporter  = (*Client)(nil)
	_ provider.RoleLookup      = (*Client)(nil)
	_ provider.ProfileResolver = (*Client)(nil)
)
