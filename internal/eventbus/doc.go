// Package eventbus implements a lossy multicast channel for transition
// events.
//
// Publishing is non-blocking and best-effort: a subscriber that lags keeps
// only the latest event, never a growing queue. Consumers are expected to
// re-read the current state instead of relying on complete delivery.
package eventbus
