package config

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v4"
)

type OIDCProvider struct {
	Id           string   `yaml:"id"`
	Name         string   `yaml:"name"`
	ClientID     string   `yaml:"client_id"`
	ClientSecret string   `yaml:"client_secret"`
	IssuerURL    string   `yaml:"issuer_url"`
	RedirectURL  string   `yaml:"redirect_url"`
	Scopes       []string `yaml:"scopes"`
}

type NudgeConfig struct {
	Email    string `yaml:"email"`
	Timezone string `yaml:"timezone"`
}

type Config struct {
	ListenAddr    string         `yaml:"listen_addr"`
	DBPath        string         `yaml:"db_path"`
	APIBaseURL    string         `yaml:"api_base_url"`
	AuthEnabled   bool           `yaml:"auth_enabled"`
	AuthToken     string         `yaml:"auth_token"`
	LogFormat     string         `yaml:"log_format"`
	OIDCProviders []OIDCProvider `yaml:"oidc_providers"`
	Nudge         NudgeConfig    `yaml:"nudge"`
}

// Load reads the YAML config named by HABITS_CONFIG (default
// config.yaml) and fills in defaults for anything unset.
func Load() (*Config, error) {
	path := os.Getenv("HABITS_CONFIG")
	if path == "" {
		path = "config.yaml"
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	if cfg.ListenAddr == "" {
		cfg.ListenAddr = ":8080"
	}
	if cfg.DBPath == "" {
		cfg.DBPath = "habits.db"
	}
	if cfg.APIBaseURL == "" {
		cfg.APIBaseURL = "http://localhost:8080"
	}
	if cfg.Nudge.Timezone == "" {
		cfg.Nudge.Timezone = "UTC"
	}

	return cfg, nil
}
