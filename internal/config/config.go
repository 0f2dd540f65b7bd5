package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`
	Server      ServerConfig
	Geolocation GeolocationConfig
	ExchangeAPI ExchangeAPIConfig
}

type ServerConfig struct {
	Host         string        `envconfig:"SERVER_HOST" default:"127.0.0.1"`
	Port         int           `envconfig:"SERVER_PORT" default:"8080"`
	ReadTimeout  time.Duration `envconfig:"SERVER_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"SERVER_WRITE_TIMEOUT" default:"60s"`
	IdleTimeout  time.Duration `envconfig:"SERVER_IDLE_TIMEOUT" default:"120s"`
}

type GeolocationConfig struct {
	BaseURL string `envconfig:"GEO_API_BASE_URL" default:"https://api.country.is"`
}

type ExchangeAPIConfig struct {
	BaseURL string `envconfig:"EXCHANGE_API_BASE_URL" default:"https://v6.exchangerate-api.com/v6"`
	APIKey  string `envconfig:"EXCHANGE_API_KEY" required:"true"`
}

func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// LoadConfig reads the environment, after merging in envFile when it exists.
// Variables already set in the environment win over the file.
func LoadConfig(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	if cfg.ExchangeAPI.APIKey == "" {
		return nil, errors.New("EXCHANGE_API_KEY must not be empty")
	}

	return &cfg, nil
}
