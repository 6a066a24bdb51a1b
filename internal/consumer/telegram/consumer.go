package telegram

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/oshokin/space-status/internal/config"
	domain "github.com/oshokin/space-status/internal/domain/presence"
	"github.com/oshokin/space-status/internal/eventbus"
	"github.com/oshokin/space-status/internal/logger"
)

// Default announcements when the configuration leaves them empty.
const (
	defaultOpenMessage       = "The space is now open."
	defaultOpenInternMessage = "The space is now open for members."
	defaultCloseMessage      = "The space is now closed."
)

// Consumer announces every observed transition in a Telegram chat.
// It tolerates missed events, each message only reflects the latest
// state anyway.
type Consumer struct {
	// bot is the Telegram API client.
	bot *tgbotapi.BotAPI
	// cfg carries the chat and message settings.
	cfg config.TelegramConfig
}

// New creates the consumer and verifies the bot token against the API.
func New(cfg config.TelegramConfig) (*Consumer, error) {
	bot, err := tgbotapi.NewBotAPI(cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("init telegram bot: %w", err)
	}

	return &Consumer{
		bot: bot,
		cfg: cfg,
	}, nil
}

// Run consumes events until the context is canceled or the bus closes.
// Send failures are logged and swallowed, they must never reach the
// transition path.
func (c *Consumer) Run(ctx context.Context, sub *eventbus.Subscription) {
	ctx = logger.WithName(ctx, "telegram")
	logger.Info(ctx, "Telegram consumer started")

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-sub.C:
			if !ok {
				return
			}

			c.announce(ctx, event)
		}
	}
}

// announce sends the message matching the event to the configured chat.
func (c *Consumer) announce(ctx context.Context, event domain.Event) {
	message := tgbotapi.NewMessage(c.cfg.ChatID, c.messageFor(event))

	if _, err := c.bot.Send(message); err != nil {
		logger.ErrorKV(ctx, "Failed to send Telegram message",
			"event", event.String(), "error", err)

		return
	}

	logger.InfoKV(ctx, "Sent Telegram message", "event", event.String())
}

// messageFor picks the configured text for the event, falling back to
// the defaults.
func (c *Consumer) messageFor(event domain.Event) string {
	switch event {
	case domain.EventOpen:
		if c.cfg.OpenMessage != "" {
			return c.cfg.OpenMessage
		}

		return defaultOpenMessage
	case domain.EventOpenIntern:
		if c.cfg.OpenInternMessage != "" {
			return c.cfg.OpenInternMessage
		}

		return defaultOpenInternMessage
	default:
		if c.cfg.CloseMessage != "" {
			return c.cfg.CloseMessage
		}

		return defaultCloseMessage
	}
}
