package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// SlackConfig holds the credentials and endpoints used to talk to Slack.
type SlackConfig struct {
	// VerificationToken validates the token field of incoming payloads.
	// An empty value is not a startup failure: requests are answered with an
	// ephemeral error until the token is configured.
	VerificationToken string `yaml:"verification_token" envconfig:"SLACK_VERIFICATION_TOKEN"`
	// BotToken authorizes outbound Web API calls (chat.postMessage).
	BotToken string `yaml:"bot_token" envconfig:"SLACK_BOT_TOKEN"`
	// APIBaseURL overrides the Slack Web API base, mainly for tests.
	APIBaseURL string `yaml:"api_base_url" envconfig:"SLACK_API_BASE_URL"`
	// DefaultChannel receives the initial prompt when no channel is given.
	DefaultChannel string `yaml:"default_channel" envconfig:"SLACK_DEFAULT_CHANNEL"`
}

// ServerConfig specifies the HTTP listener settings.
type ServerConfig struct {
	Listen string `yaml:"listen" envconfig:"SERVER_LISTEN"`
	Port   int    `yaml:"port" envconfig:"SERVER_PORT"`
	// ShutdownTimeoutSeconds bounds graceful shutdown; 0 -> default
	ShutdownTimeoutSeconds int `yaml:"shutdown_timeout_seconds" envconfig:"SERVER_SHUTDOWN_TIMEOUT_SECONDS"`
}

// LoggingConfig defines logging related configuration.
type LoggingConfig struct {
	Level       string `yaml:"level"`
	Format      string `yaml:"format"`
	KeysOrder   string `yaml:"keys_order"`
	DebugSample string `yaml:"debug_sample"`
	Dir         string `yaml:"dir"`
	BotFile     string `yaml:"bot_file"`
	// Profile indicates environment profile such as "debug" or "prod".
	Profile string `yaml:"profile"`
}

// MenuConfig carries the selectable values for each meal step.
// Empty lists fall back to the built-in menus.
type MenuConfig struct {
	Breakfast []string `yaml:"breakfast"`
	Lunch     []string `yaml:"lunch"`
	Dinner    []string `yaml:"dinner"`
}

// SenderConfig tunes the asynchronous outbound dispatcher.
type SenderConfig struct {
	QueueSize  int `yaml:"queue_size" envconfig:"SENDER_QUEUE_SIZE"`
	Workers    int `yaml:"workers" envconfig:"SENDER_WORKERS"`
	MaxRetries int `yaml:"max_retries" envconfig:"SENDER_MAX_RETRIES"`
}

// Config aggregates the configuration that belongs to the service.
type Config struct {
	Slack   SlackConfig   `yaml:"slack"`
	Server  ServerConfig  `yaml:"server"`
	Logging LoggingConfig `yaml:"logging"`
	Menu    MenuConfig    `yaml:"menu"`
	Sender  SenderConfig  `yaml:"sender"`
}

const (
	// DefaultPort is used when server.port is unset.
	DefaultPort = 8080
	// DefaultAPIBaseURL targets the public Slack Web API.
	DefaultAPIBaseURL = "https://slack.com/api"
)

// Load reads configuration from a YAML file and environment variables.
func Load(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML config: %w", err)
	}
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process env: %w", err)
	}

	if err := Normalize(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadFromEnv builds a configuration from environment variables only,
// used when no config file is provided.
func LoadFromEnv() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process env: %w", err)
	}
	if err := Normalize(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Normalize performs basic validation of required configuration fields and adjusts defaults.
func Normalize(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("nil config")
	}

	if cfg.Server.Port == 0 {
		cfg.Server.Port = DefaultPort
	}
	if cfg.Server.Port < 0 {
		return fmt.Errorf("server.port must be > 0")
	}
	if cfg.Server.ShutdownTimeoutSeconds < 0 {
		return fmt.Errorf("server.shutdown_timeout_seconds must be >= 0")
	}

	if strings.TrimSpace(cfg.Slack.APIBaseURL) == "" {
		cfg.Slack.APIBaseURL = DefaultAPIBaseURL
	}
	cfg.Slack.APIBaseURL = strings.TrimRight(cfg.Slack.APIBaseURL, "/")
	cfg.Slack.VerificationToken = strings.TrimSpace(cfg.Slack.VerificationToken)
	cfg.Slack.BotToken = strings.TrimSpace(cfg.Slack.BotToken)

	if cfg.Sender.QueueSize < 0 || cfg.Sender.Workers < 0 || cfg.Sender.MaxRetries < 0 {
		return fmt.Errorf("sender values must be >= 0")
	}

	return nil
}
