package cmd

import (
	"errors"
	"log"
	"strings"
	"time"

	"github.com/spigell/resume-coach/internal/logger"
	"github.com/spigell/resume-coach/internal/store"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	app       = "resume-coach"
	envPrefix = "RESUME_COACH"
)

type Config struct {
	Listen   string       `mapstructure:"listen"`
	Database store.Config `mapstructure:"database"`
	Auth     *AuthConfig  `mapstructure:"auth"`
	AI       *AIConfig    `mapstructure:"ai"`
	CORS     *CORSConfig  `mapstructure:"cors"`
}

type AuthConfig struct {
	JWTSecret     string        `mapstructure:"jwt-secret"`
	JWTSecretFile string        `mapstructure:"jwt-secret-file"`
	CookieName    string        `mapstructure:"cookie-name"`
	TokenTTL      time.Duration `mapstructure:"token-ttl"`
}

type AIConfig struct {
	// Mandatory is read once at start. When set, every analysis goes through
	// the AI stage and fails if it is unavailable.
	Mandatory bool          `mapstructure:"mandatory"`
	Provider  string        `mapstructure:"provider"`
	Gemini    *GeminiConfig `mapstructure:"gemini"`
}

type GeminiConfig struct {
	APIKey          string  `mapstructure:"api-key"`
	APIKeyFile      string  `mapstructure:"api-key-file"`
	Model           string  `mapstructure:"model"`
	Temperature     float32 `mapstructure:"temperature"`
	MaxOutputTokens int32   `mapstructure:"max-output-tokens"`
	MaxLogLength    int     `mapstructure:"max-log-length"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed-origins"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "resume-coach scores resumes and tracks achievement badges",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is resume-coach.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))

	setDefaults()
}

// setDefaults registers every key so that environment overrides are seen by Unmarshal.
func setDefaults() {
	viper.SetDefault("listen", ":8080")
	viper.SetDefault("database.driver", store.DriverSQLite)
	viper.SetDefault("database.dsn", app+".db")
	viper.SetDefault("auth.jwt-secret", "")
	viper.SetDefault("auth.jwt-secret-file", "")
	viper.SetDefault("auth.cookie-name", "token")
	viper.SetDefault("auth.token-ttl", "24h")
	viper.SetDefault("ai.mandatory", false)
	viper.SetDefault("ai.provider", "gemini")
	viper.SetDefault("ai.gemini.api-key", "")
	viper.SetDefault("ai.gemini.api-key-file", "")
	viper.SetDefault("ai.gemini.model", "gemini-2.5-flash")
	viper.SetDefault("ai.gemini.temperature", 0.2)
	viper.SetDefault("ai.gemini.max-output-tokens", 2048)
	viper.SetDefault("ai.gemini.max-log-length", 200)
	viper.SetDefault("cors.allowed-origins", []string{})
}

func initConfig() {
	// The version command needs no configuration.
	if versionCmd.CalledAs() != "" {
		return
	}

	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
		viper.SetConfigType("yaml")
	}

	if err := viper.ReadInConfig(); err != nil {
		// Without an explicit --config a missing file means defaults and environment only.
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			log.Fatal(err)
		}
	}
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	if config.Auth == nil {
		config.Auth = &AuthConfig{}
	}
	if config.AI == nil {
		config.AI = &AIConfig{}
	}
	if config.AI.Gemini == nil {
		config.AI.Gemini = &GeminiConfig{}
	}
	if config.CORS == nil {
		config.CORS = &CORSConfig{}
	}

	return config, nil
}

func newLogger() *zap.Logger {
	l, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}
	return l
}

// loadConfig builds the logger and the config, exiting on failure.
func loadConfig() (*zap.Logger, *Config) {
	l := newLogger()

	config, err := getConfig()
	if err != nil {
		l.Fatal("getting a config", zap.Error(err))
	}
	if config == nil {
		l.Fatal("config is required")
	}

	return l, config
}
