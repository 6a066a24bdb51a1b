package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/require"
)

// respond computes the expected client response for a hex nonce.
func respond(t *testing.T, secret, nonce string) string {
	t.Helper()

	raw, err := hex.DecodeString(nonce)
	require.NoError(t, err)

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(raw)

	return hex.EncodeToString(mac.Sum(nil))
}

// TestStaticGuard verifies key comparison outcomes.
func TestStaticGuard(t *testing.T) {
	t.Parallel()

	guard := NewStaticGuard("hunter2")

	require.NoError(t, guard.Validate("hunter2"))
	require.ErrorIs(t, guard.Validate("hunter3"), ErrUnauthorized)
	require.ErrorIs(t, guard.Validate(""), ErrUnauthorized)

	// Stateless: the same key keeps working.
	require.NoError(t, guard.Validate("hunter2"))
}

// TestChallengeGuard_HappyPath issues a challenge and validates the HMAC response.
func TestChallengeGuard_HappyPath(t *testing.T) {
	t.Parallel()

	guard := NewChallengeGuard("shared-secret")

	nonce, err := guard.IssueChallenge()
	require.NoError(t, err)
	require.Len(t, nonce, nonceSize*2)

	require.NoError(t, guard.Validate(respond(t, "shared-secret", nonce)))
}

// TestChallengeGuard_SingleUse proves a validated token can never be replayed.
func TestChallengeGuard_SingleUse(t *testing.T) {
	t.Parallel()

	guard := NewChallengeGuard("shared-secret")

	nonce, err := guard.IssueChallenge()
	require.NoError(t, err)

	token := respond(t, "shared-secret", nonce)
	require.NoError(t, guard.Validate(token))

	// Replay of the very same token.
	require.ErrorIs(t, guard.Validate(token), ErrNoChallengePending)
}

// TestChallengeGuard_FailedAttemptBurnsChallenge shows a wrong token also
// invalidates the outstanding challenge.
func TestChallengeGuard_FailedAttemptBurnsChallenge(t *testing.T) {
	t.Parallel()

	guard := NewChallengeGuard("shared-secret")

	nonce, err := guard.IssueChallenge()
	require.NoError(t, err)

	require.ErrorIs(t, guard.Validate("deadbeef"), ErrUnauthorized)

	// The correct response no longer works either.
	require.ErrorIs(t, guard.Validate(respond(t, "shared-secret", nonce)), ErrNoChallengePending)
}

// TestChallengeGuard_NoChallengePending rejects validation without an issued challenge.
func TestChallengeGuard_NoChallengePending(t *testing.T) {
	t.Parallel()

	guard := NewChallengeGuard("shared-secret")
	require.ErrorIs(t, guard.Validate("anything"), ErrNoChallengePending)
}

// TestChallengeGuard_NewChallengeSupersedes keeps only the latest expectation.
func TestChallengeGuard_NewChallengeSupersedes(t *testing.T) {
	t.Parallel()

	guard := NewChallengeGuard("shared-secret")

	first, err := guard.IssueChallenge()
	require.NoError(t, err)

	second, err := guard.IssueChallenge()
	require.NoError(t, err)
	require.NotEqual(t, first, second)

	// Response to the superseded challenge fails and burns the live one.
	require.ErrorIs(t, guard.Validate(respond(t, "shared-secret", first)), ErrUnauthorized)
	require.ErrorIs(t, guard.Validate(respond(t, "shared-secret", second)), ErrNoChallengePending)
}

// TestChallengeGuard_WrongSecret rejects a response computed with another secret.
func TestChallengeGuard_WrongSecret(t *testing.T) {
	t.Parallel()

	guard := NewChallengeGuard("shared-secret")

	nonce, err := guard.IssueChallenge()
	require.NoError(t, err)

	require.ErrorIs(t, guard.Validate(respond(t, "other-secret", nonce)), ErrUnauthorized)
}
