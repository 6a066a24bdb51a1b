package eventbus

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	domain "github.com/oshokin/space-status/internal/domain/presence"
)

// receive waits briefly for one event on the subscription.
func receive(t *testing.T, sub *Subscription) domain.Event {
	t.Helper()

	select {
	case event, ok := <-sub.C:
		require.True(t, ok)

		return event
	case <-time.After(time.Second):
		t.Fatal("no event received")

		return 0
	}
}

// TestBus_DeliversInOrder checks a fast subscriber sees every event in order.
func TestBus_DeliversInOrder(t *testing.T) {
	t.Parallel()

	bus := New()
	sub := bus.Subscribe()

	bus.Publish(domain.EventOpen)
	require.Equal(t, domain.EventOpen, receive(t, sub))

	bus.Publish(domain.EventClose)
	require.Equal(t, domain.EventClose, receive(t, sub))
}

// TestBus_ReplacesPendingEvent verifies a lagging subscriber keeps only the latest event.
func TestBus_ReplacesPendingEvent(t *testing.T) {
	t.Parallel()

	bus := New()
	sub := bus.Subscribe()

	bus.Publish(domain.EventOpen)
	bus.Publish(domain.EventOpenIntern)
	bus.Publish(domain.EventClose)

	require.Equal(t, domain.EventClose, receive(t, sub))

	select {
	case event := <-sub.C:
		t.Fatalf("unexpected extra event %v", event)
	default:
	}
}

// TestBus_PublishWithoutSubscribers must not block or panic.
func TestBus_PublishWithoutSubscribers(t *testing.T) {
	t.Parallel()

	bus := New()
	bus.Publish(domain.EventOpen)
}

// TestBus_Multicast delivers one publish to every subscriber.
func TestBus_Multicast(t *testing.T) {
	t.Parallel()

	bus := New()
	first := bus.Subscribe()
	second := bus.Subscribe()

	bus.Publish(domain.EventOpenIntern)

	require.Equal(t, domain.EventOpenIntern, receive(t, first))
	require.Equal(t, domain.EventOpenIntern, receive(t, second))
}

// TestBus_Cancel stops delivery and closes the channel.
func TestBus_Cancel(t *testing.T) {
	t.Parallel()

	bus := New()
	sub := bus.Subscribe()

	sub.Cancel()
	sub.Cancel() // Idempotent.

	_, ok := <-sub.C
	require.False(t, ok)

	bus.Publish(domain.EventOpen)
}

// TestBus_Close closes all subscriber channels and ignores later publishes.
func TestBus_Close(t *testing.T) {
	t.Parallel()

	bus := New()
	sub := bus.Subscribe()

	bus.Close()
	bus.Close() // Idempotent.

	_, ok := <-sub.C
	require.False(t, ok)

	bus.Publish(domain.EventOpen)

	// Subscriptions created after shutdown are born closed.
	late := bus.Subscribe()
	_, ok = <-late.C
	require.False(t, ok)
}
