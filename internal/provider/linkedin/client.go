// Package linkedin implements the provider contract on top of the LinkedIn
// Talent partner API.
package linkedin

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"github.com/spigell/candidate-sourcing/internal/candidate"
	"github.com/spigell/candidate-sourcing/internal/provider"
)

const (
	apiURL   = "https://api.linkedin.com/v2"
	authURL  = "https://www.linkedin.com/oauth/v2/authorization"
	tokenURL = "https://www.linkedin.com/oauth/v2/accessToken"

	userAgent = "spigell/candidate-sourcing"

	PartnerRequirement = "LinkedIn Talent Solutions partnership"
)

var hints = provider.StatusHints{
	Unauthorized: "LinkedIn access token is invalid or expired. Check LINKEDIN_ACCESS_TOKEN or LINKEDIN_REFRESH_TOKEN.",
	Forbidden:    "LinkedIn API access forbidden. The Talent API requires partner approval.",
	RateLimited:  "LinkedIn rate limit exceeded. Please wait before making more requests.",
}

// Config holds the OAuth2 credentials issued to a LinkedIn partner.
type Config struct {
	ClientID     string
	ClientSecret string
	AccessToken  string
	RefreshToken string
	// APIURL and TokenURL override the public endpoints.
	APIURL   string
	TokenURL string
}

// Configured reports whether the credentials are enough to authenticate:
// the client pair plus at least one token.
func (c Config) Configured() bool {
	return len(c.Missing()) == 0
}

// Missing lists the environment variables that still need a value.
func (c Config) Missing() []string {
	var missing []string
	if strings.TrimSpace(c.ClientID) == "" {
		missing = append(missing, "LINKEDIN_CLIENT_ID")
	}
	if strings.TrimSpace(c.ClientSecret) == "" {
		missing = append(missing, "LINKEDIN_CLIENT_SECRET")
	}
	if strings.TrimSpace(c.AccessToken) == "" && strings.TrimSpace(c.RefreshToken) == "" {
		missing = append(missing, "LINKEDIN_ACCESS_TOKEN")
	}
	return missing
}

type Client struct {
	cfg        Config
	logger     *zap.Logger
	now        func() time.Time
	HTTPClient *http.Client
	UserAgent  string
	APIURL     string

	mu        sync.Mutex
	rateLimit rateLimit
}

type rateLimit struct {
	remaining *int
	reset     string
}

// New builds a client whose transport attaches OAuth2 bearer tokens. ctx is
// used for token refresh requests and may carry an oauth2.HTTPClient.
func New(ctx context.Context, logger *zap.Logger, cfg Config) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}

	base := cfg.APIURL
	if base == "" {
		base = apiURL
	}
	refreshURL := cfg.TokenURL
	if refreshURL == "" {
		refreshURL = tokenURL
	}

	oauthCfg := &oauth2.Config{
		ClientID:     strings.TrimSpace(cfg.ClientID),
		ClientSecret: strings.TrimSpace(cfg.ClientSecret),
		Endpoint: oauth2.Endpoint{
			AuthURL:   authURL,
			TokenURL:  refreshURL,
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}

	source := oauthCfg.TokenSource(ctx, &oauth2.Token{
		AccessToken:  strings.TrimSpace(cfg.AccessToken),
		RefreshToken: strings.TrimSpace(cfg.RefreshToken),
		TokenType:    "Bearer",
	})

	return &Client{
		cfg:        cfg,
		logger:     logger,
		now:        time.Now,
		HTTPClient: oauth2.NewClient(ctx, tokenErrorSource{src: source}),
		UserAgent:  userAgent,
		APIURL:     strings.TrimRight(base, "/"),
	}
}

func (c *Client) Name() provider.Type {
	return provider.TypeLinkedIn
}

func (c *Client) IsConfigured() bool {
	return c.cfg.Configured()
}

// Status reports configuration and the last rate limit hints seen, if any.
func (c *Client) Status(_ context.Context) provider.Status {
	status := provider.Status{
		Provider:   provider.TypeLinkedIn,
		Configured: c.IsConfigured(),
	}

	if !status.Configured {
		status.Message = "LinkedIn Talent API not configured (requires partnership)"
		return status
	}

	status.Message = "LinkedIn Talent API credentials configured"

	c.mu.Lock()
	if c.rateLimit.remaining != nil {
		status.RateLimitRemaining = candidate.Ptr(*c.rateLimit.remaining)
	}
	status.RateLimitReset = c.rateLimit.reset
	c.mu.Unlock()

	return status
}

func (c *Client) configError() error {
	return &provider.ConfigError{
		Provider: provider.TypeLinkedIn,
		Missing:  c.cfg.Missing(),
		Hint:     "Set LINKEDIN_CLIENT_ID, LINKEDIN_CLIENT_SECRET and LINKEDIN_ACCESS_TOKEN or switch to Proxycurl by setting DATA_PROVIDER=proxycurl",
	}
}

// tokenErrorSource marks token acquisition failures so they can be told
// apart from transport errors.
type tokenErrorSource struct {
	src oauth2.TokenSource
}

type tokenError struct {
	err error
}

func (e *tokenError) Error() string { return "linkedin token refresh failed: " + e.err.Error() }
func (e *tokenError) Unwrap() error { return e.err }

func (s tokenErrorSource) Token() (*oauth2.Token, error) {
	token, err := s.src.Token()
	if err != nil {
		return nil, &tokenError{err: err}
	}
	return token, nil
}

var _ provider.Provider = (*Client)(nil)
