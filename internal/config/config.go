package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the settings of the space-status server.
type Config struct {
	// ListenAddress is the address the HTTP server binds to.
	ListenAddress string `yaml:"listen_addr"`
	// StateFile is the path to the file storing the presence state.
	StateFile string `yaml:"state_file"`
	// LogLevel is the minimum level for log output (debug, info, warn, error).
	LogLevel string `yaml:"log_level"`
	// Auth configures how state-changing requests are authorized.
	Auth AuthConfig `yaml:"auth"`
	// RateLimit configures the request limiter on transition routes.
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	// Space describes the space for the public status document.
	Space SpaceConfig `yaml:"space"`
	// Telegram configures the chat notification publisher.
	Telegram TelegramConfig `yaml:"telegram"`
	// Mastodon configures the social feed publisher.
	Mastodon MastodonConfig `yaml:"mastodon"`
}

// AuthConfig selects and parameterizes the authorization guard.
type AuthConfig struct {
	// Mode is either "static" (fixed API key) or "challenge"
	// (single-use HMAC challenge-response).
	Mode string `yaml:"mode"`
	// Secret is the static API key or the HMAC shared secret,
	// depending on Mode.
	Secret string `yaml:"secret"`
}

// RateLimitConfig bounds how often transition routes may be called.
type RateLimitConfig struct {
	// MaxRequests is the number of requests allowed per window.
	MaxRequests int `yaml:"max_requests"`
	// Window is the sliding window the limit applies to.
	Window time.Duration `yaml:"window"`
}

// SpaceConfig carries the metadata rendered into the status document.
type SpaceConfig struct {
	// Name is the display name of the space.
	Name string `yaml:"name"`
	// URL is the space's homepage.
	URL string `yaml:"url"`
	// Logo is the URL of the space's logo image.
	Logo string `yaml:"logo"`
	// Address is the street address of the space.
	Address string `yaml:"address"`
	// Lat is the latitude of the space location.
	Lat float64 `yaml:"lat"`
	// Lon is the longitude of the space location.
	Lon float64 `yaml:"lon"`
	// Email is the public contact address.
	Email string `yaml:"email"`
	// Mastodon is the space's fediverse handle.
	Mastodon string `yaml:"mastodon"`
	// IssueMail is the address for reports about this status feed.
	IssueMail string `yaml:"issue_mail"`
}

// TelegramConfig configures the Telegram notification consumer.
// An empty Token disables the consumer.
type TelegramConfig struct {
	// Token is the bot API token.
	Token string `yaml:"token"`
	// ChatID is the chat the bot posts state changes to.
	ChatID int64 `yaml:"chat_id"`
	// OpenMessage is sent when the space opens to the public.
	OpenMessage string `yaml:"open_message"`
	// OpenInternMessage is sent when the space opens for members.
	OpenInternMessage string `yaml:"open_intern_message"`
	// CloseMessage is sent when the space closes.
	CloseMessage string `yaml:"close_message"`
}

// MastodonConfig configures the Mastodon publisher consumer.
// An empty Server disables the consumer.
type MastodonConfig struct {
	// Server is the base URL of the Mastodon instance.
	Server string `yaml:"server"`
	// AccessToken authorizes posting on the space's account.
	AccessToken string `yaml:"access_token"`
	// OpenMessage is posted when the space opens to the public.
	OpenMessage string `yaml:"open_message"`
	// CloseMessage is posted when the space closes after a public opening.
	CloseMessage string `yaml:"close_message"`
}

// Auth mode names accepted in AuthConfig.Mode.
const (
	// AuthModeStatic compares a fixed API key in constant time.
	AuthModeStatic = "static"
	// AuthModeChallenge validates single-use HMAC challenge-response tokens.
	AuthModeChallenge = "challenge"
)

const (
	// DefaultConfigFilename is the default filename for server settings.
	DefaultConfigFilename = "space-status-settings.yaml"

	// DefaultStateFilename is the default filename for the presence state.
	DefaultStateFilename = "space-status-state.yaml"

	// DefaultListenAddress is the default HTTP bind address.
	DefaultListenAddress = ":1337"

	// DefaultRateLimitRequests is the default request budget per window.
	DefaultRateLimitRequests = 10

	// DefaultRateLimitWindow is the default limiter window.
	DefaultRateLimitWindow = time.Minute

	// DefaultFilePermissions is the default file permission for config files.
	DefaultFilePermissions = 0o600
)

var (
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
	// errSecretRequired is returned when no auth secret is configured.
	errSecretRequired = errors.New("auth secret must be provided")
	// errUnknownAuthMode is returned for an unrecognized auth mode.
	errUnknownAuthMode = errors.New("auth mode must be \"static\" or \"challenge\"")
)

// Load reads configuration from the provided path and validates essential fields.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigFilename
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(contents, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save writes the configuration to the provided path.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	// Restrict permissions, the file carries the auth secret.
	if err := os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Validate checks the provided configuration for required fields
// and fills in defaults for optional ones.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if cfg.ListenAddress == "" {
		cfg.ListenAddress = DefaultListenAddress
	}

	if _, err := net.ResolveTCPAddr("tcp", cfg.ListenAddress); err != nil {
		return fmt.Errorf("invalid listen address: %w", err)
	}

	if cfg.StateFile == "" {
		cfg.StateFile = DefaultStateFilename
	}

	if cfg.Auth.Mode == "" {
		cfg.Auth.Mode = AuthModeChallenge
	}

	if cfg.Auth.Mode != AuthModeStatic && cfg.Auth.Mode != AuthModeChallenge {
		return fmt.Errorf("%w: %q", errUnknownAuthMode, cfg.Auth.Mode)
	}

	if cfg.Auth.Secret == "" {
		return errSecretRequired
	}

	if cfg.RateLimit.MaxRequests <= 0 {
		cfg.RateLimit.MaxRequests = DefaultRateLimitRequests
	}

	if cfg.RateLimit.Window <= 0 {
		cfg.RateLimit.Window = DefaultRateLimitWindow
	}

	return nil
}
