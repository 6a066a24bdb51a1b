package status

import (
	"context"
	"fmt"
	"sync"

	api "github.com/oshokin/space-status/internal/api/http/status"
	"github.com/oshokin/space-status/internal/auth"
	"github.com/oshokin/space-status/internal/config"
	"github.com/oshokin/space-status/internal/consumer/mastodon"
	"github.com/oshokin/space-status/internal/consumer/telegram"
	"github.com/oshokin/space-status/internal/eventbus"
	"github.com/oshokin/space-status/internal/logger"
	repository "github.com/oshokin/space-status/internal/repository/state"
)

// Options controls the space-status process.
type Options struct {
	// ConfigPath specifies the path to the settings YAML file.
	ConfigPath string
	// ListenAddress provides an optional bind address override.
	ListenAddress string
	// StateFile specifies an optional state file override.
	StateFile string
}

// Run starts the HTTP server and the consumers, and blocks until the
// context is canceled or the server stops.
func Run(ctx context.Context, opts *Options) error {
	ctx = logger.WithName(ctx, "space-status")

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	if level, ok := logger.ParseLogLevel(cfg.LogLevel); ok {
		logger.SetLevel(level)
	}

	stateFile := cfg.StateFile
	if opts.StateFile != "" {
		stateFile = opts.StateFile
	}

	listenAddress := cfg.ListenAddress
	if opts.ListenAddress != "" {
		listenAddress = opts.ListenAddress
	}

	repo := repository.NewFileRepository(stateFile)
	bus := eventbus.New()

	svc, err := newService(ctx, repo, bus)
	if err != nil {
		return fmt.Errorf("initialise service: %w", err)
	}

	guard, issuer := buildGuard(&cfg.Auth)

	var wg sync.WaitGroup

	startConsumers(ctx, cfg, bus, &wg)

	server := api.NewServer(api.Options{
		Service:   svc,
		Guard:     guard,
		Issuer:    issuer,
		Space:     cfg.Space,
		RateLimit: cfg.RateLimit,
	})

	logger.InfoKV(ctx, "Space status server listening",
		"listen_address", listenAddress,
		"state_file", stateFile,
		"auth_mode", cfg.Auth.Mode)

	serveErr := make(chan error, 1)

	go func() {
		serveErr <- server.Listen(listenAddress)
	}()

	select {
	case <-ctx.Done():
		logger.Info(ctx, "Shutting down HTTP server")

		if err := server.Shutdown(context.Background()); err != nil {
			logger.ErrorKV(ctx, "Failed to shut down HTTP server", "error", err)
		}

		err = <-serveErr
	case err = <-serveErr:
	}

	// Closing the bus ends every consumer loop.
	bus.Close()
	wg.Wait()

	if err != nil {
		return fmt.Errorf("serve HTTP: %w", err)
	}

	logger.Info(ctx, "Server stopped")

	return nil
}

// buildGuard picks the guard implementation from the auth settings.
// Only the challenge mode returns an issuer.
func buildGuard(cfg *config.AuthConfig) (auth.Guard, auth.ChallengeIssuer) {
	if cfg.Mode == config.AuthModeStatic {
		return auth.NewStaticGuard(cfg.Secret), nil
	}

	guard := auth.NewChallengeGuard(cfg.Secret)

	return guard, guard
}

// startConsumers subscribes and launches the configured publishers.
// A consumer that cannot be initialised is skipped with an error log,
// the status server must not depend on any downstream service.
func startConsumers(ctx context.Context, cfg *config.Config, bus *eventbus.Bus, wg *sync.WaitGroup) {
	if cfg.Telegram.Token != "" {
		consumer, err := telegram.New(cfg.Telegram)
		if err != nil {
			logger.ErrorKV(ctx, "Skipping Telegram consumer", "error", err)
		} else {
			sub := bus.Subscribe()

			wg.Add(1)

			go func() {
				defer wg.Done()
				consumer.Run(ctx, sub)
			}()
		}
	}

	if cfg.Mastodon.Server != "" {
		consumer := mastodon.New(cfg.Mastodon)
		sub := bus.Subscribe()

		wg.Add(1)

		go func() {
			defer wg.Done()
			consumer.Run(ctx, sub)
		}()
	}
}
