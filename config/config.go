package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/sirupsen/logrus"
)

type Config struct {
	APIBaseURL string `envconfig:"API_BASE_URL" required:"true" validate:"required,url"`
	APIToken   string `envconfig:"API_TOKEN"`

	Port      string `envconfig:"PORT"       default:":3000" validate:"required"`
	APIPrefix string `envconfig:"API_PREFIX" default:"/api"  validate:"required,startswith=/"`
	LogLevel  string `envconfig:"LOG_LEVEL"  default:"info"`

	// Zero keeps the transport default (no client-side timeout).
	UpstreamTimeout time.Duration `envconfig:"UPSTREAM_TIMEOUT" default:"0s" validate:"gte=0"`

	FacadeBaseURL   string        `envconfig:"FACADE_BASE_URL"  default:"http://localhost:3000/api" validate:"required,url"`
	GrpcHealthPort  string        `envconfig:"GRPC_HEALTH_PORT" default:":50051"`
	HealthInterval  time.Duration `envconfig:"HEALTH_INTERVAL"  default:"15s" validate:"gt=0"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s" validate:"gt=0"`
}

var validate = validator.New()

// Load reads an optional .env file, then the process environment.
func Load(logger *logrus.Logger) (*Config, error) {
	err := godotenv.Load()
	if err != nil && !os.IsNotExist(err) {
		logger.Warnf("Error loading .env file (but continuing): %v", err)
	} else if err == nil {
		logger.Info("Loaded configuration from .env file")
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process configuration from environment variables: %w", err)
	}
	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	if cfg.APIToken == "" {
		logger.Warn("Configuration: API_TOKEN is empty, mutating calls will carry an empty bearer token")
	}
	logger.Infof("Configuration loaded: Port=%s, Prefix=%s, Upstream=%s, LogLevel=%s",
		cfg.Port, cfg.APIPrefix, cfg.APIBaseURL, cfg.LogLevel)
	return &cfg, nil
}

// Level returns the configured logrus level, falling back to info.
func (c *Config) Level() logrus.Level {
	lvl, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return logrus.InfoLevel
	}
	return lvl
}
