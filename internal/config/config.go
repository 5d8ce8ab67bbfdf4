// Package config содержит логику чтения конфигурации сервиса Imagine.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Режимы проверки учётных данных администратора.
const (
	AuthModeLocal  = "local"
	AuthModeRemote = "remote"
)

const (
	defaultRunAddress     = "localhost:8080"
	defaultBackendAddress = "https://imagine-sable.vercel.app"
	defaultRewardModel    = "day"
)

// Config содержит параметры конфигурации сервиса Imagine.
type Config struct {
	RunAddress     string `env:"RUN_ADDRESS"`
	DatabaseURI    string `env:"DATABASE_URI"`
	BackendAddress string `env:"BACKEND_ADDRESS"`
	RewardModel    string `env:"REWARD_MODEL"`
	RewardCatalog  string `env:"REWARD_CATALOG"`

	AuthMode      string `env:"AUTH_MODE" envDefault:"local"`
	AdminUsername string `env:"ADMIN_USERNAME" envDefault:"admin"`
	AdminPassword string `env:"ADMIN_PASSWORD" envDefault:"admin"`
	SessionSecret string `env:"SESSION_SECRET"`

	AiSensyAddress   string `env:"AISENSY_ADDRESS" envDefault:"https://apis.aisensy.com"`
	AiSensyProjectID string `env:"AISENSY_PROJECT_ID"`
	AiSensyAPIPwd    string `env:"AISENSY_API_PWD"`
	SupportPhone     string `env:"SUPPORT_PHONE" envDefault:"919321119277"`
}

// Parse считывает конфигурацию из файла .env (если он есть), флагов командной строки
// и переменных окружения. Переменные окружения имеют приоритет над флагами.
func Parse() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	fromEnv := *cfg

	flag.StringVar(&cfg.RunAddress, "a", defaultRunAddress, "address and port for HTTP server")
	flag.StringVar(&cfg.DatabaseURI, "d", "", "database URI, in-memory ledger when empty")
	flag.StringVar(&cfg.BackendAddress, "b", defaultBackendAddress, "campaign backend address")
	flag.StringVar(&cfg.RewardModel, "m", defaultRewardModel, "reward model: day or slot")
	flag.StringVar(&cfg.RewardCatalog, "c", "", "reward catalog YAML file")

	flag.Parse()

	override(&cfg.RunAddress, fromEnv.RunAddress)
	override(&cfg.DatabaseURI, fromEnv.DatabaseURI)
	override(&cfg.BackendAddress, fromEnv.BackendAddress)
	override(&cfg.RewardModel, fromEnv.RewardModel)
	override(&cfg.RewardCatalog, fromEnv.RewardCatalog)

	if cfg.RunAddress == "" {
		cfg.RunAddress = defaultRunAddress
	}
	cfg.AuthMode = strings.ToLower(strings.TrimSpace(cfg.AuthMode))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func override(dst *string, envValue string) {
	if envValue != "" {
		*dst = envValue
	}
}

// Validate проверяет согласованность параметров.
func (c *Config) Validate() error {
	switch c.AuthMode {
	case AuthModeLocal:
		if c.AdminUsername == "" || c.AdminPassword == "" {
			return errors.New("ADMIN_USERNAME and ADMIN_PASSWORD are required in local auth mode")
		}
	case AuthModeRemote:
		if c.BackendAddress == "" {
			return errors.New("BACKEND_ADDRESS is required in remote auth mode")
		}
	default:
		return fmt.Errorf("unknown AUTH_MODE %q", c.AuthMode)
	}
	return nil
}
