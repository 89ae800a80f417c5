package eventbus

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestPublish_DeliversToSubscriber(t *testing.T) {
	b := New()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, unsub := b.Subscribe(ctx, "ws-1")
	defer unsub()

	b.Publish("ws-1", "document.created", map[string]string{"id": "doc-1"})

	select {
	case ev := <-ch:
		require.Equal(t, "document.created", ev.Type)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
	}
}

func TestPublish_DoesNotCrossWorkspaces(t *testing.T) {
	b := New()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, unsub := b.Subscribe(ctx, "ws-1")
	defer unsub()

	b.Publish("ws-2", "document.created", nil)

	select {
	case <-ch:
		t.Fatal("subscriber to ws-1 should not receive ws-2 events")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestPublish_NeverBlocksOnFullSubscriber(t *testing.T) {
	b := New()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, unsub := b.Subscribe(ctx, "ws-1")
	defer unsub()

	for i := 0; i < subscriberBuffer+5; i++ {
		b.Publish("ws-1", "tick", i)
	}

	drained := 0
	for {
		select {
		case <-ch:
			drained++
		default:
			require.LessOrEqual(t, drained, subscriberBuffer)
			return
		}
	}
}

func TestSubscribe_CancelRemovesListener(t *testing.T) {
	b := New()
	ctx, cancel := context.WithCancel(context.Background())

	_, unsub := b.Subscribe(ctx, "ws-1")
	require.Equal(t, 1, b.SubscriberCount("ws-1"))
	unsub()
	require.Equal(t, 0, b.SubscriberCount("ws-1"))
	cancel()
}

func TestSubscribe_ContextDoneRemovesListener(t *testing.T) {
	b := New()
	ctx, cancel := context.WithCancel(context.Background())

	b.Subscribe(ctx, "ws-1")
	require.Equal(t, 1, b.SubscriberCount("ws-1"))
	cancel()
	require.Eventually(t, func() bool {
		return b.SubscriberCount("ws-1") == 0
	}, time.Second, 10*time.Millisecond)
}
