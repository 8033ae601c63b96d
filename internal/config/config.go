package config

import (
	"fmt"
	"regexp"

	"github.com/caarlos0/env/v11"
)

// ParsePolicy selects how inbound messages are classified as pairing events.
type ParsePolicy string

const (
	// PolicyTwoMention requires exactly two distinct mentions, one of them the bot.
	PolicyTwoMention ParsePolicy = "two-mention"
	// PolicyKeyword requires exactly one mention plus the word "chat" in the text.
	PolicyKeyword ParsePolicy = "keyword"
)

var sha256HexRegex = regexp.MustCompile(`^[0-9a-f]{64}$`)

type Config struct {
	Port             int    `env:"PORT" envDefault:"8080"`
	DatabaseURL      string `env:"DATABASE_URL,required"`
	RedisURL         string `env:"REDIS_URL,required"`
	BotUserID        string `env:"BOT_USER_ID,required"`
	OwnerUserID      string `env:"OWNER_USER_ID"`
	ReportRoleID     string `env:"REPORT_ROLE_ID"`
	ChannelID        string `env:"CHANNEL_ID,required"`
	GatewayTokenHash string `env:"GATEWAY_TOKEN_HASH,required"`
	ParsePolicy      string `env:"PARSE_POLICY" envDefault:"two-mention"`
	RateLimitPerMin  int    `env:"RATE_LIMIT_PER_MIN" envDefault:"120"`
	LogLevel         string `env:"LOG_LEVEL" envDefault:"info"`
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

func (c *Config) Policy() ParsePolicy {
	return ParsePolicy(c.ParsePolicy)
}

func (c *Config) Validate() error {
	switch ParsePolicy(c.ParsePolicy) {
	case PolicyTwoMention, PolicyKeyword:
	default:
		return fmt.Errorf("PARSE_POLICY must be %q or %q, got %q",
			PolicyTwoMention, PolicyKeyword, c.ParsePolicy)
	}

	if !sha256HexRegex.MatchString(c.GatewayTokenHash) {
		return fmt.Errorf("GATEWAY_TOKEN_HASH must be a sha256 hex digest (generate with: go run scripts/gen-token.go)")
	}

	if c.OwnerUserID == "" && c.ReportRoleID == "" {
		return fmt.Errorf("at least one of OWNER_USER_ID or REPORT_ROLE_ID must be set")
	}

	if c.RateLimitPerMin <= 0 {
		return fmt.Errorf("RATE_LIMIT_PER_MIN must be positive, got %d", c.RateLimitPerMin)
	}

	return nil
}

func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}
