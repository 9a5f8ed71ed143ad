// Package config reads runtime settings from the environment.
package config

import (
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/samber/oops"
)

// Config holds every setting the binaries read at startup.
type Config struct {
	Port     string `env:"PORT" envDefault:"8080"`
	Env      string `env:"ENV" envDefault:"development"`
	GinMode  string `env:"GIN_MODE"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	WordListFile      string `env:"WORD_LIST_FILE" envDefault:"data/words.txt"`
	AcceptedWordsFile string `env:"ACCEPTED_WORDS_FILE"`
	MaxTrials         int    `env:"MAX_TRIALS" envDefault:"6"`
	StartCommand      string `env:"START_COMMAND" envDefault:"/wordle"`
	GiveUpCommand     string `env:"GIVE_UP_COMMAND" envDefault:"/giveup"`

	SessionTimeout time.Duration `env:"SESSION_TIMEOUT" envDefault:"0s"`
	SweepInterval  time.Duration `env:"SWEEP_INTERVAL" envDefault:"10m"`

	RateLimitRPS   int `env:"RATE_LIMIT_RPS" envDefault:"5"`
	RateLimitBurst int `env:"RATE_LIMIT_BURST" envDefault:"10"`

	TelegramWebhookSecret string `env:"TELEGRAM_WEBHOOK_SECRET"`
}

// Load parses the environment into a Config.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, oops.In("config").Wrapf(err, "parsing environment")
	}
	if cfg.MaxTrials <= 0 {
		return Config{}, oops.In("config").With("max_trials", cfg.MaxTrials).Errorf("MAX_TRIALS must be positive")
	}
	if cfg.StartCommand == "" {
		return Config{}, oops.In("config").Errorf("START_COMMAND must not be empty")
	}
	return cfg, nil
}

// IsProduction reports whether the process runs in production mode.
func (c Config) IsProduction() bool {
	return c.GinMode == "release" || c.Env == "production"
}
