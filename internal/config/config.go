package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/ledgerbook/ledgerbook/internal/types"
)

type Configuration struct {
	API     APIConfig     `validate:"required"`
	Cache   CacheConfig   `validate:"required"`
	Logging LoggingConfig `validate:"required"`
}

// APIConfig configures the backend REST collaborator. The token used for the
// Authorization header comes from the injected auth.TokenSource, not from here.
type APIConfig struct {
	BaseURL string `mapstructure:"base_url" validate:"required,url"`
	// Timeout applies to every request made through the transport
	Timeout time.Duration `mapstructure:"timeout"`
	// RetryAttempts is the number of automatic retries after a failed
	// request. It defaults to zero; callers must not assume retries exist
	// unless they configure them.
	RetryAttempts int `mapstructure:"retry_attempts"`
}

type CacheConfig struct {
	Enabled bool `mapstructure:"enabled"`
	// TTL is how long a read stays valid before it is refetched
	TTL time.Duration `mapstructure:"ttl"`
}

type LoggingConfig struct {
	Level types.LogLevel `mapstructure:"level" validate:"required"`
}

func NewConfig() (*Configuration, error) {
	// Local development convenience; missing .env is not an error
	_ = godotenv.Load()

	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./internal/config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/ledgerbook")

	// Set up environment variables support
	v.SetEnvPrefix("LEDGERBOOK")
	v.SetEnvKeyReplacer(strings.NewReplacer(
		".", "_",
		"-", "_",
	))
	v.AutomaticEnv()

	setDefaults(v)

	// Read config file if exists
	if err := v.ReadInConfig(); err != nil {
		if !errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var config Configuration
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api.timeout", 30*time.Second)
	v.SetDefault("api.retry_attempts", 0)
	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.ttl", 5*time.Minute)
	v.SetDefault("logging.level", types.LogLevelInfo)
}

func (c Configuration) Validate() error {
	validate := validator.New()
	return validate.Struct(c)
}

// GetDefaultConfig returns a default configuration for local development
// and tests, without reading any config file.
func GetDefaultConfig() *Configuration {
	return &Configuration{
		API: APIConfig{
			BaseURL: "http://localhost:8080",
			Timeout: 30 * time.Second,
		},
		Cache:   CacheConfig{Enabled: true, TTL: 5 * time.Minute},
		Logging: LoggingConfig{Level: types.LogLevelDebug},
	}
}
