package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// TestValidate checks required fields, defaults and format validations for Config.
func TestValidate(t *testing.T) {
	t.Parallel()

	// Missing secret.
	cfg := new(Config)

	err := Validate(cfg)
	require.Error(t, err)

	// Bad listen address.
	cfg = &Config{
		ListenAddress: "bad:address",
		Auth:          AuthConfig{Secret: "hunter2"},
	}

	err = Validate(cfg)
	require.Error(t, err)

	// Unknown auth mode.
	cfg = &Config{
		Auth: AuthConfig{Mode: "oauth", Secret: "hunter2"},
	}

	err = Validate(cfg)
	require.Error(t, err)

	// Okay, defaults filled in.
	cfg = &Config{
		Auth: AuthConfig{Secret: "hunter2"},
	}

	err = Validate(cfg)
	require.NoError(t, err)
	require.Equal(t, DefaultListenAddress, cfg.ListenAddress)
	require.Equal(t, DefaultStateFilename, cfg.StateFile)
	require.Equal(t, AuthModeChallenge, cfg.Auth.Mode)
	require.Equal(t, DefaultRateLimitRequests, cfg.RateLimit.MaxRequests)
	require.Equal(t, DefaultRateLimitWindow, cfg.RateLimit.Window)
}

// TestSaveLoadRoundtrip ensures settings are persisted and loaded back correctly.
func TestSaveLoadRoundtrip(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "settings.yaml")

	cfg := &Config{
		ListenAddress: "127.0.0.1:1337",
		Auth: AuthConfig{
			Mode:   AuthModeStatic,
			Secret: "hunter2",
		},
		RateLimit: RateLimitConfig{
			MaxRequests: 5,
			Window:      30 * time.Second,
		},
		Space: SpaceConfig{
			Name: "fNordeingang",
			URL:  "https://fnordeingang.de",
		},
	}

	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, cfg.ListenAddress, loaded.ListenAddress)
	require.Equal(t, cfg.Auth, loaded.Auth)
	require.Equal(t, cfg.RateLimit, loaded.RateLimit)
	require.Equal(t, cfg.Space.Name, loaded.Space.Name)

	// File exists with restricted permissions.
	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(DefaultFilePermissions), info.Mode().Perm())
}
