package auth

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"
)

// Guard authorizes a single state-changing request.
// A failed check must short-circuit before any state is touched.
type Guard interface {
	Validate(token string) error
}

// ChallengeIssuer is implemented by guards that hand out single-use
// challenges prior to validation.
type ChallengeIssuer interface {
	IssueChallenge() (string, error)
}

var (
	// ErrUnauthorized is returned for a bad or missing credential.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrNoChallengePending is returned when a token is validated
	// while no challenge is outstanding.
	ErrNoChallengePending = errors.New("no challenge pending")
)

// nonceSize is the number of random bytes in a challenge nonce.
const nonceSize = 32

// StaticGuard compares a request-supplied key against a fixed secret.
// It is stateless, the same key authorizes any number of requests.
type StaticGuard struct {
	key []byte
}

// NewStaticGuard creates a guard around the configured API key.
func NewStaticGuard(key string) *StaticGuard {
	return &StaticGuard{
		key: []byte(key),
	}
}

// Validate compares the provided token against the configured key
// in constant time.
func (g *StaticGuard) Validate(token string) error {
	if subtle.ConstantTimeCompare([]byte(token), g.key) != 1 {
		return ErrUnauthorized
	}

	return nil
}

// ChallengeGuard validates single-use HMAC challenge-response tokens.
// At most one challenge is live at a time: issuing a new one supersedes
// the previous, and any validation attempt, successful or not, burns it.
type ChallengeGuard struct {
	// secret is the HMAC shared secret.
	secret []byte
	// mu protects the outstanding expectation.
	mu sync.Mutex
	// expected is the HMAC of the live challenge nonce,
	// nil when no challenge is outstanding.
	expected []byte
}

// NewChallengeGuard creates a guard using the shared secret.
func NewChallengeGuard(secret string) *ChallengeGuard {
	return &ChallengeGuard{
		secret: []byte(secret),
	}
}

// IssueChallenge generates a fresh random nonce, retains the expected
// response token and returns the nonce in hex form.
func (g *ChallengeGuard) IssueChallenge() (string, error) {
	nonce := make([]byte, nonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}

	mac := hmac.New(sha256.New, g.secret)
	mac.Write(nonce)

	g.mu.Lock()
	g.expected = mac.Sum(nil)
	g.mu.Unlock()

	return hex.EncodeToString(nonce), nil
}

// Validate checks the provided hex token against the outstanding
// expectation. The expectation is cleared unconditionally so a token
// can never be replayed.
func (g *ChallengeGuard) Validate(token string) error {
	g.mu.Lock()
	expected := g.expected
	g.expected = nil
	g.mu.Unlock()

	if expected == nil {
		return ErrNoChallengePending
	}

	provided, err := hex.DecodeString(token)
	if err != nil {
		return ErrUnauthorized
	}

	if !hmac.Equal(provided, expected) {
		return ErrUnauthorized
	}

	return nil
}
