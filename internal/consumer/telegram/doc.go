// Package telegram publishes presence transitions to a Telegram chat.
package telegram
