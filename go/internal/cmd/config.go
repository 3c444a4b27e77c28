package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/mkelleher/rinkdraft/go/internal/auth"
)

// Config is the server configuration, loaded from YAML with environment
// overrides for deployment-specific values.
type Config struct {
	Server struct {
		Port           string   `yaml:"port"`
		AllowedOrigins []string `yaml:"allowed_origins"`
	} `yaml:"server"`

	NATS struct {
		URL           string `yaml:"url"`
		SubjectPrefix string `yaml:"subject_prefix"`
	} `yaml:"nats"`

	Draft struct {
		Rounds          int           `yaml:"rounds"`
		TimePerPick     time.Duration `yaml:"time_per_pick"`
		AdvanceInterval time.Duration `yaml:"advance_interval"`
	} `yaml:"draft"`

	Auth struct {
		Tokens map[string]struct {
			UserID      string `yaml:"user_id"`
			DisplayName string `yaml:"display_name"`
		} `yaml:"tokens"`
	} `yaml:"auth"`
}

func loadConfig(path string) (*Config, error) {
	var config Config

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if config.Server.Port == "" {
		config.Server.Port = getEnv("PORT", "8080")
	}
	if len(config.Server.AllowedOrigins) == 0 {
		config.Server.AllowedOrigins = []string{"*"}
	}
	if config.NATS.URL == "" {
		config.NATS.URL = getEnv("NATS_URL", "nats://localhost:4222")
	}
	if config.NATS.SubjectPrefix == "" {
		config.NATS.SubjectPrefix = "draft.events"
	}
	if config.Draft.Rounds == 0 {
		config.Draft.Rounds = getEnvAsInt("DRAFT_ROUNDS", 10)
	}
	if config.Draft.TimePerPick == 0 {
		config.Draft.TimePerPick = 45 * time.Second
	}
	if config.Draft.AdvanceInterval == 0 {
		config.Draft.AdvanceInterval = 5 * time.Second
	}

	return &config, nil
}

// verifierTokens converts the configured static tokens into the verifier's
// shape.
func (c *Config) verifierTokens() map[string]auth.Identity {
	tokens := make(map[string]auth.Identity, len(c.Auth.Tokens))
	for token, id := range c.Auth.Tokens {
		tokens[token] = auth.Identity{UserID: id.UserID, DisplayName: id.DisplayName}
	}
	return tokens
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
