// Package selector picks the active provider adapter from configuration.
package selector

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/spigell/candidate-sourcing/internal/provider"
	"github.com/spigell/candidate-sourcing/internal/provider/linkedin"
	"github.com/spigell/candidate-sourcing/internal/provider/proxycurl"
)

// Config is a snapshot of the provider related settings.
type Config struct {
	Provider  string
	Proxycurl ProxycurlConfig
	LinkedIn  linkedin.Config
	UserAgent string
}

type ProxycurlConfig struct {
	APIKey  string
	BaseURL string
}

// ConfigSource returns the current configuration. It is called on every
// selection so configuration changes are picked up without a restart.
type ConfigSource func() (Config, error)

// Factory builds an adapter for an already validated configuration.
type Factory func(ctx context.Context, logger *zap.Logger, cfg Config) provider.Provider

var factories = map[provider.Type]Factory{
	provider.TypeProxycurl: func(_ context.Context, logger *zap.Logger, cfg Config) provider.Provider {
		client := proxycurl.New(logger, cfg.Proxycurl.APIKey)
		if cfg.Proxycurl.BaseURL != "" {
			client.APIURL = strings.TrimRight(cfg.Proxycurl.BaseURL, "/")
		}
		if cfg.UserAgent != "" {
			client.UserAgent = cfg.UserAgent
		}
		return client
	},
	provider.TypeLinkedIn: func(ctx context.Context, logger *zap.Logger, cfg Config) provider.Provider {
		client := linkedin.New(ctx, logger, cfg.LinkedIn)
		if cfg.UserAgent != "" {
			client.UserAgent = cfg.UserAgent
		}
		return client
	},
}

type Selector struct {
	// ctx outlives single requests; adapters use it for token refresh.
	ctx       context.Context
	logger    *zap.Logger
	source    ConfigSource
	factories map[provider.Type]Factory

	mu         sync.Mutex
	active     provider.Provider
	activeType provider.Type
}

func New(ctx context.Context, logger *zap.Logger, source ConfigSource) *Selector {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Selector{
		ctx:       ctx,
		logger:    logger,
		source:    source,
		factories: factories,
	}
}

// ParseType normalizes a configured provider name. Empty selects Proxycurl.
func ParseType(raw string) (provider.Type, error) {
	name := provider.Type(strings.ToLower(strings.TrimSpace(raw)))
	if name == "" {
		return provider.TypeProxycurl, nil
	}

	for _, t := range provider.Types() {
		if t == name {
			return t, nil
		}
	}

	return "", provider.InvalidInput("unknown data provider %q (supported: %s, %s)", raw, provider.TypeProxycurl, provider.TypeLinkedIn)
}

// ActiveType returns the provider type the configuration currently selects.
func (s *Selector) ActiveType() (provider.Type, error) {
	cfg, err := s.source()
	if err != nil {
		return "", fmt.Errorf("loading provider config: %w", err)
	}
	return ParseType(cfg.Provider)
}

// Active returns the adapter for the configured provider. The adapter is
// cached until the configured type changes or Reset is called.
func (s *Selector) Active() (provider.Provider, error) {
	cfg, err := s.source()
	if err != nil {
		return nil, fmt.Errorf("loading provider config: %w", err)
	}

	typ, err := ParseType(cfg.Provider)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active != nil && s.activeType == typ {
		return s.active, nil
	}

	if err := checkConfigured(typ, cfg); err != nil {
		return nil, err
	}

	p := s.factories[typ](s.ctx, s.logger, cfg)

	if s.active != nil {
		s.logger.Info("data provider switched", zap.String("from", string(s.activeType)), zap.String("to", string(typ)))
	} else {
		s.logger.Debug("data provider selected", zap.String("provider", string(typ)))
	}

	s.active, s.activeType = p, typ
	return p, nil
}

// Reset drops the cached adapter.
func (s *Selector) Reset() {
	s.mu.Lock()
	s.active, s.activeType = nil, ""
	s.mu.Unlock()
}

// Statuses reports every supported provider, active or not. The cached
// adapter answers for itself so it can include usage hints it has seen.
func (s *Selector) Statuses(ctx context.Context) ([]provider.Status, error) {
	cfg, err := s.source()
	if err != nil {
		return nil, fmt.Errorf("loading provider config: %w", err)
	}

	s.mu.Lock()
	active, activeType := s.active, s.activeType
	s.mu.Unlock()

	statuses := make([]provider.Status, 0, len(provider.Types()))
	for _, typ := range provider.Types() {
		if active != nil && activeType == typ {
			statuses = append(statuses, active.Status(ctx))
			continue
		}
		statuses = append(statuses, s.factories[typ](s.ctx, s.logger, cfg).Status(ctx))
	}

	return statuses, nil
}

func checkConfigured(typ provider.Type, cfg Config) error {
	switch typ {
	case provider.TypeLinkedIn:
		if missing := cfg.LinkedIn.Missing(); len(missing) > 0 {
			return &provider.ConfigError{
				Provider: typ,
				Missing:  missing,
				Hint: "Set LINKEDIN_CLIENT_ID, LINKEDIN_CLIENT_SECRET and LINKEDIN_ACCESS_TOKEN (or the linkedin.* config keys) " +
					"or switch to Proxycurl by setting DATA_PROVIDER=proxycurl",
			}
		}
	case provider.TypeProxycurl:
		if strings.TrimSpace(cfg.Proxycurl.APIKey) == "" {
			return &provider.ConfigError{
				Provider: typ,
				Missing:  []string{"PROXYCURL_API_KEY"},
				Hint: fmt.Sprintf("Set the PROXYCURL_API_KEY environment variable (or proxycurl.api-key). Get your API key from %s, "+
					"or switch to LinkedIn by setting DATA_PROVIDER=linkedin", proxycurl.SignupURL),
			}
		}
	}
	return nil
}
