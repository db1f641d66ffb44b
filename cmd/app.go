package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/candidate-sourcing/internal/ai"
	"github.com/spigell/candidate-sourcing/internal/ai/gemini"
	"github.com/spigell/candidate-sourcing/internal/bookmarks"
	"github.com/spigell/candidate-sourcing/internal/logger"
	"github.com/spigell/candidate-sourcing/internal/provider/linkedin"
	"github.com/spigell/candidate-sourcing/internal/secrets"
	"github.com/spigell/candidate-sourcing/internal/selector"
	"github.com/spigell/candidate-sourcing/internal/tools"
)

// application bundles the collaborators shared by every command.
type application struct {
	logger   *zap.Logger
	selector *selector.Selector
	store    *bookmarks.Store
	handlers *tools.Handlers
	config   *providerConfig
}

func newApplication(ctx context.Context) (*application, error) {
	log, err := logger.New(logger.Options{JSON: viper.GetBool("json"), Debug: viper.GetBool("debug")})
	if err != nil {
		return nil, fmt.Errorf("creating a logger: %w", err)
	}

	config, err := getConfig()
	if err != nil {
		return nil, fmt.Errorf("getting a config: %w", err)
	}

	path := config.BookmarksFile
	if path == "" {
		if path, err = bookmarks.DefaultPath(); err != nil {
			return nil, err
		}
	}
	store := bookmarks.New(log, path)

	pc := newProviderConfig(viper.GetViper())
	sel := selector.New(ctx, log, pc.Load)

	matcher, err := newAIMatcher(ctx, config.AI, log)
	if err != nil {
		log.Warn("fit assessment disabled", zap.Error(err))
	}

	log.Debug("application ready",
		zap.String("bookmarks_file", store.Path()),
		zap.Bool("fit_assessment", matcher != nil),
	)

	return &application{
		logger:   log,
		selector: sel,
		store:    store,
		handlers: tools.New(sel, store, matcher, log),
		config:   pc,
	}, nil
}

// selectorConfig builds the provider selection settings from v.
func selectorConfig(v *viper.Viper) (selector.Config, error) {
	config, err := decodeConfig(v)
	if err != nil {
		return selector.Config{}, err
	}

	apiKey, err := secrets.LoadOptional(secrets.Source{
		Name:  "proxycurl api key",
		Value: config.Proxycurl.APIKey,
		File:  config.Proxycurl.APIKeyFile,
	})
	if err != nil {
		return selector.Config{}, err
	}

	return selector.Config{
		Provider: config.Provider,
		Proxycurl: selector.ProxycurlConfig{
			APIKey:  apiKey,
			BaseURL: config.Proxycurl.BaseURL,
		},
		LinkedIn: linkedin.Config{
			ClientID:     strings.TrimSpace(config.LinkedIn.ClientID),
			ClientSecret: strings.TrimSpace(config.LinkedIn.ClientSecret),
			AccessToken:  strings.TrimSpace(config.LinkedIn.AccessToken),
			RefreshToken: strings.TrimSpace(config.LinkedIn.RefreshToken),
			APIURL:       config.LinkedIn.BaseURL,
			TokenURL:     config.LinkedIn.TokenURL,
		},
		UserAgent: config.UserAgent,
	}, nil
}

// newAIMatcher returns a nil matcher without error when no Gemini key is set.
func newAIMatcher(ctx context.Context, cfg *AIConfig, log *zap.Logger) (ai.Matcher, error) {
	apiKey, err := secrets.LoadOptional(secrets.Source{
		Name:  "gemini api key",
		Value: cfg.Gemini.APIKey,
		File:  cfg.Gemini.APIKeyFile,
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set ai.gemini.api-key-file or GEMINI_API_KEY_FILE)", err)
	}
	if apiKey == "" {
		return nil, nil
	}

	genLogger := logger.WithFields(log, zap.String(logger.FieldProvider, "gemini"))

	generator, err := gemini.NewGenerator(ctx, genLogger, apiKey, cfg.Gemini.Model)
	if err != nil {
		return nil, err
	}

	minScore := cfg.MinimumFitScore
	if minScore < 0 {
		minScore = 0
	}

	matcher := gemini.NewMatcher(generator, minScore, cfg.Gemini.MaxLogLength,
		genLogger.With(zap.String("model", generator.Model()), zap.Float64("minimum_fit_score", minScore)))

	if p := cfg.Gemini.Prompt; p != nil {
		matcher.SetPromptOverrides(gemini.PromptOverrides{
			ExtraCriteria:     p.ExtraCriteria,
			DealBreakers:      p.DealBreakers,
			CustomKeywords:    p.CustomKeywords,
			Tone:              p.Tone,
			RegionConstraints: p.RegionConstraints,
			UserInstructions:  p.UserInstructions,
		})
	}

	return matcher, nil
}
