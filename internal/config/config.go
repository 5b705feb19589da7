package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		TTL      string `yaml:"ttl"`
	} `yaml:"redis"`
	Postgres struct {
		URL string `yaml:"url"`
	} `yaml:"postgres"`
	Auth struct {
		Secret   string `yaml:"secret"`
		TokenTTL string `yaml:"token_ttl"`
	} `yaml:"auth"`
	Scoring struct {
		Task1Weight float64 `yaml:"task1_weight"`
		Task2Weight float64 `yaml:"task2_weight"`
		IRLWeight   float64 `yaml:"irl_weight"`
	} `yaml:"scoring"`
	Board struct {
		CacheTTL string `yaml:"cache_ttl"`
	} `yaml:"board"`
}

// Load reads YAML config from path.
func Load(path string) (Config, error) {
	cfg := Config{}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	if secret := os.Getenv("AUTH_SECRET"); secret != "" {
		cfg.Auth.Secret = secret
	}
	return cfg, nil
}

// Weights returns the combined-score weights, defaulting to 0.6/0.3/0.1 when unset.
func (c Config) Weights() (task1, task2, irl float64) {
	task1, task2, irl = c.Scoring.Task1Weight, c.Scoring.Task2Weight, c.Scoring.IRLWeight
	if task1 == 0 && task2 == 0 && irl == 0 {
		return 0.6, 0.3, 0.1
	}
	return task1, task2, irl
}

// TTLDuration parses a duration string or returns the fallback if empty.
func TTLDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}
