package mastodon

import (
	"context"

	"github.com/mattn/go-mastodon"

	"github.com/oshokin/space-status/internal/config"
	domain "github.com/oshokin/space-status/internal/domain/presence"
	"github.com/oshokin/space-status/internal/eventbus"
	"github.com/oshokin/space-status/internal/logger"
)

// Default posts when the configuration leaves them empty.
const (
	defaultOpenMessage  = "We are open!"
	defaultCloseMessage = "We are closed."
)

// poster is the slice of the Mastodon client the consumer uses,
// extracted so tests can observe posts without a live instance.
type poster interface {
	PostStatus(ctx context.Context, toot *mastodon.Toot) (*mastodon.Status, error)
}

// Consumer posts presence transitions to the space's Mastodon account.
//
// It remembers the last event it observed to phrase closings: a close
// right after a members-only opening is not announced publicly, the
// public never learned the space was open. This bookkeeping is local,
// a missed event at worst suppresses or adds one post.
type Consumer struct {
	// client posts to the Mastodon instance.
	client poster
	// cfg carries the instance and message settings.
	cfg config.MastodonConfig
	// last is the previously observed event, nil right after start.
	last *domain.Event
}

// New creates the consumer for the configured instance.
func New(cfg config.MastodonConfig) *Consumer {
	client := mastodon.NewClient(&mastodon.Config{
		Server:      cfg.Server,
		AccessToken: cfg.AccessToken,
	})

	return &Consumer{
		client: client,
		cfg:    cfg,
	}
}

// Run consumes events until the context is canceled or the bus closes.
func (c *Consumer) Run(ctx context.Context, sub *eventbus.Subscription) {
	ctx = logger.WithName(ctx, "mastodon")
	logger.Info(ctx, "Mastodon consumer started")

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-sub.C:
			if !ok {
				return
			}

			c.observe(ctx, event)
		}
	}
}

// observe decides whether the event warrants a public post and records
// it as the last seen event.
func (c *Consumer) observe(ctx context.Context, event domain.Event) {
	switch {
	case event == domain.EventOpen:
		c.post(ctx, event, c.messageOr(c.cfg.OpenMessage, defaultOpenMessage))
	case event == domain.EventClose && (c.last == nil || *c.last == domain.EventOpen):
		c.post(ctx, event, c.messageOr(c.cfg.CloseMessage, defaultCloseMessage))
	}

	observed := event
	c.last = &observed
}

// post publishes a public status, logging and swallowing failures.
func (c *Consumer) post(ctx context.Context, event domain.Event, message string) {
	_, err := c.client.PostStatus(ctx, &mastodon.Toot{
		Status:     message,
		Visibility: "public",
	})
	if err != nil {
		logger.ErrorKV(ctx, "Failed to post Mastodon status",
			"event", event.String(), "error", err)

		return
	}

	logger.InfoKV(ctx, "Posted Mastodon status", "event", event.String())
}

// messageOr returns the configured text or the fallback.
func (c *Consumer) messageOr(configured, fallback string) string {
	if configured != "" {
		return configured
	}

	return fallback
}
