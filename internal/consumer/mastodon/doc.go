// Package mastodon publishes presence transitions to the space's
// Mastodon account, phrasing closings based on the last observed event.
package mastodon
