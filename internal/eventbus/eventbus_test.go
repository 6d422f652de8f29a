package eventbus

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishReachesSubscribers(t *testing.T) {
	b := New()
	defer b.Close()

	got := make(chan DomainEvent, 1)
	b.Subscribe(EventQuerySettled, func(e DomainEvent) { got <- e })

	b.Publish(QuerySettledEvent{Keyword: "batman", Count: 3})

	select {
	case e := <-got:
		ev, ok := e.(QuerySettledEvent)
		require.True(t, ok)
		assert.Equal(t, "batman", ev.Keyword)
		assert.Equal(t, 3, ev.Count)
	case <-time.After(2 * time.Second):
		t.Fatal("event was not delivered")
	}
}

func TestSubscribersOnlySeeTheirType(t *testing.T) {
	b := New()
	defer b.Close()

	var cleared, settled atomic.Int32
	b.Subscribe(EventSearchCleared, func(DomainEvent) { cleared.Add(1) })
	b.Subscribe(EventQuerySettled, func(DomainEvent) { settled.Add(1) })

	b.Publish(SearchClearedEvent{})
	b.Publish(SearchClearedEvent{})

	require.Eventually(t, func() bool { return cleared.Load() == 2 }, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, int32(0), settled.Load())
}

func TestUnsubscribe(t *testing.T) {
	b := New()
	defer b.Close()

	var first, second atomic.Int32
	unsubscribe := b.Subscribe(EventSearchCleared, func(DomainEvent) { first.Add(1) })
	b.Subscribe(EventSearchCleared, func(DomainEvent) { second.Add(1) })

	unsubscribe()
	b.Publish(SearchClearedEvent{})

	require.Eventually(t, func() bool { return second.Load() == 1 }, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, int32(0), first.Load())
}

func TestHandlerPanicIsRecovered(t *testing.T) {
	b := New()
	defer b.Close()

	var calls atomic.Int32
	b.Subscribe(EventError, func(DomainEvent) { panic("boom") })
	b.Subscribe(EventError, func(DomainEvent) { calls.Add(1) })

	b.Publish(ErrorEvent{Message: "x"})
	b.Publish(ErrorEvent{Message: "y"})

	require.Eventually(t, func() bool { return calls.Load() == 2 }, 2*time.Second, 10*time.Millisecond)
}

func TestPublishAfterCloseIsIgnored(t *testing.T) {
	b := New()
	b.Close()
	b.Close()

	assert.NotPanics(t, func() { b.Publish(SearchClearedEvent{}) })
}
