package ws

import (
	"sync"
	"testing"
)

func TestPublishReachesRoomSubscribersOnly(t *testing.T) {
	h := NewHub()

	a := h.Subscribe("room0001")
	b := h.Subscribe("room0001")
	other := h.Subscribe("room0002")

	h.Publish("room0001", NewEvent("message", map[string]any{"id": 0}))

	for _, sub := range []*Subscriber{a, b} {
		select {
		case ev := <-sub.C:
			if ev.Type != "message" {
				t.Fatalf("event type = %q", ev.Type)
			}
			if ev.ID == "" {
				t.Fatal("event id not set")
			}
		default:
			t.Fatal("subscriber did not receive event")
		}
	}

	select {
	case <-other.C:
		t.Fatal("event leaked to another room")
	default:
	}
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	h := NewHub()
	sub := h.Subscribe("room0001")

	h.Unsubscribe(sub)
	if _, ok := <-sub.C; ok {
		t.Fatal("channel should be closed after unsubscribe")
	}
	if n := h.SubscriberCount("room0001"); n != 0 {
		t.Fatalf("subscriber count = %d after unsubscribe", n)
	}

	// Idempotent
	h.Unsubscribe(sub)

	// Publishing to an empty room is a no-op
	h.Publish("room0001", NewEvent("message", nil))
}

func TestSlowSubscriberIsDropped(t *testing.T) {
	h := NewHub()
	sub := h.Subscribe("room0001")

	// Fill the buffer and then some; the overflowing publish drops the
	// subscriber instead of blocking.
	for i := 0; i < cap(sub.C)+1; i++ {
		h.Publish("room0001", NewEvent("message", i))
	}

	if n := h.SubscriberCount("room0001"); n != 0 {
		t.Fatalf("slow subscriber still registered (count %d)", n)
	}
}

func TestSendToUnsubscribedSubscriberIsSafe(t *testing.T) {
	h := NewHub()
	sub := h.Subscribe("room0001")
	h.Unsubscribe(sub)

	// A publisher that snapshotted the subscriber set before the
	// unsubscribe may still attempt a delivery; it must be a silent drop,
	// never a send on the closed channel.
	sent, full := sub.trySend(NewEvent("message", nil))
	if sent || full {
		t.Fatalf("delivery to gone subscriber: sent=%v full=%v", sent, full)
	}
}

func TestConcurrentPublishAndUnsubscribe(t *testing.T) {
	h := NewHub()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 500; j++ {
				h.Publish("room0001", NewEvent("message", j))
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 500; j++ {
				sub := h.Subscribe("room0001")
				h.Unsubscribe(sub)
			}
		}()
	}
	wg.Wait()

	if n := h.SubscriberCount("room0001"); n != 0 {
		t.Fatalf("subscriber count = %d after all unsubscribes", n)
	}
}

func TestSubscriberIDsAreDistinct(t *testing.T) {
	h := NewHub()
	a := h.Subscribe("room0001")
	b := h.Subscribe("room0001")
	if a.ID == b.ID {
		t.Fatalf("subscriber ids collide: %s", a.ID)
	}
}

func TestEventIDsAreUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		ev := NewEvent("message", nil)
		if seen[ev.ID] {
			t.Fatalf("duplicate event id %q", ev.ID)
		}
		seen[ev.ID] = true
	}
}
