package cmd

import (
	"errors"
	"io/fs"
	"log"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	app = "candidate-sourcing"
)

type Config struct {
	Provider      string          `mapstructure:"provider"`
	Proxycurl     ProxycurlConfig `mapstructure:"proxycurl"`
	LinkedIn      LinkedInConfig  `mapstructure:"linkedin"`
	BookmarksFile string          `mapstructure:"bookmarks-file"`
	UserAgent     string          `mapstructure:"user-agent"`
	AI            *AIConfig       `mapstructure:"ai"`
}

type ProxycurlConfig struct {
	APIKey     string `mapstructure:"api-key"`
	APIKeyFile string `mapstructure:"api-key-file"`
	BaseURL    string `mapstructure:"base-url"`
}

type LinkedInConfig struct {
	ClientID     string `mapstructure:"client-id"`
	ClientSecret string `mapstructure:"client-secret"`
	AccessToken  string `mapstructure:"access-token"`
	RefreshToken string `mapstructure:"refresh-token"`
	BaseURL      string `mapstructure:"base-url"`
	TokenURL     string `mapstructure:"token-url"`
}

type AIConfig struct {
	MinimumFitScore float64       `mapstructure:"minimum-fit-score"`
	Gemini          *GeminiConfig `mapstructure:"gemini"`
}

type GeminiConfig struct {
	APIKey       string        `mapstructure:"api-key"`
	APIKeyFile   string        `mapstructure:"api-key-file"`
	Model        string        `mapstructure:"model"`
	MaxLogLength int           `mapstructure:"max-log-length"`
	Prompt       *PromptConfig `mapstructure:"prompt"`
}

type PromptConfig struct {
	ExtraCriteria     string `mapstructure:"extra-criteria"`
	DealBreakers      string `mapstructure:"deal-breakers"`
	CustomKeywords    string `mapstructure:"custom-keywords"`
	Tone              string `mapstructure:"tone"`
	RegionConstraints string `mapstructure:"region-constraints"`
	UserInstructions  string `mapstructure:"user-instructions"`
}

var envBindings = map[string]string{
	"provider":               "DATA_PROVIDER",
	"proxycurl.api-key":      "PROXYCURL_API_KEY",
	"proxycurl.api-key-file": "PROXYCURL_API_KEY_FILE",
	"proxycurl.base-url":     "PROXYCURL_BASE_URL",
	"linkedin.client-id":     "LINKEDIN_CLIENT_ID",
	"linkedin.client-secret": "LINKEDIN_CLIENT_SECRET",
	"linkedin.access-token":  "LINKEDIN_ACCESS_TOKEN",
	"linkedin.refresh-token": "LINKEDIN_REFRESH_TOKEN",
	"linkedin.base-url":      "LINKEDIN_BASE_URL",
	"bookmarks-file":         "CANDIDATE_SOURCING_BOOKMARKS_FILE",
	"ai.gemini.api-key":      "GEMINI_API_KEY",
	"ai.gemini.api-key-file": "GEMINI_API_KEY_FILE",
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "candidate-sourcing searches candidate profiles through Proxycurl or the LinkedIn Talent API and keeps local bookmarks",
		Long: `candidate-sourcing exposes candidate search, profile details, bookmarks and export
as MCP tools (see the serve command) and as plain commands for direct use.`,
		SilenceUsage: true,
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	for key, env := range envBindings {
		if err := viper.BindEnv(key, env); err != nil {
			log.Fatalf("binding %s environment variable: %v", env, err)
		}
	}
	viper.SetDefault("provider", "proxycurl")

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is candidate-sourcing.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")
	rootCmd.PersistentFlags().String("provider", "", "data provider to use: proxycurl or linkedin")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
	viper.BindPFlag("provider", rootCmd.PersistentFlags().Lookup("provider"))
}

func initConfig() {
	// .env only fills variables that are not already set.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatalf("loading .env: %v", err)
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
		viper.SetConfigType("yaml")
	}

	// The config file is optional unless given explicitly, but a broken one is fatal.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			log.Fatal(err)
		}
	}
}

func getConfig() (*Config, error) {
	return decodeConfig(viper.GetViper())
}

func decodeConfig(v *viper.Viper) (*Config, error) {
	var config *Config
	err := v.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	if config.AI == nil {
		config.AI = &AIConfig{}
	}
	if config.AI.Gemini == nil {
		config.AI.Gemini = &GeminiConfig{}
	}

	return config, nil
}
