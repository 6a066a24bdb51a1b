// Package auth guards state-changing requests.
//
// Two guard implementations are available: StaticGuard compares a fixed API
// key in constant time, ChallengeGuard hands out single-use nonces and
// validates HMAC-SHA256 challenge-response tokens. The deployment picks one
// via configuration.
package auth
