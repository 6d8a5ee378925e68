package money

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBusRegisterIdempotent(t *testing.T) {
	t.Parallel()

	b := &Bus{}
	l1 := &recordingListener{name: "one"}
	b.Register(l1)
	b.Register(l1)
	b.Broadcast(Event{Kind: EventFundsAdded, Amount: 100})
	assert.Len(t, l1.events, 1, "double registration must not double deliveries")

	b.Deregister(l1)
	b.Deregister(l1) // second removal is a no-op
	b.Broadcast(Event{Kind: EventFundsAdded, Amount: 100})
	assert.Len(t, l1.events, 1)
}

func TestBusDeliveryOrder(t *testing.T) {
	t.Parallel()

	b := &Bus{}
	got := []string{}
	l1 := &recordingListener{name: "one"}
	l2 := &recordingListener{name: "two"}
	l3 := &recordingListener{name: "three"}
	l1.onEach = func(Event) { got = append(got, l1.name) }
	l2.onEach = func(Event) { got = append(got, l2.name) }
	l3.onEach = func(Event) { got = append(got, l3.name) }
	b.Register(l1)
	b.Register(l2)
	b.Register(l3)
	b.Register(l2) // re-register keeps original position

	for i := 0; i < 3; i++ {
		got = got[:0]
		b.Broadcast(Event{Kind: EventFundsAdded})
		assert.Equal(t, []string{"one", "two", "three"}, got)
	}
}

func TestBusDeregisterDuringBroadcast(t *testing.T) {
	t.Parallel()

	b := &Bus{}
	l1 := &recordingListener{name: "one"}
	l2 := &recordingListener{name: "two"}
	l3 := &recordingListener{name: "three"}
	// one removes itself and two mid-broadcast
	l1.onEach = func(Event) {
		b.Deregister(l1)
		b.Deregister(l2)
	}
	b.Register(l1)
	b.Register(l2)
	b.Register(l3)

	b.Broadcast(Event{Kind: EventStationBlocked})
	assert.Len(t, l1.events, 1)
	assert.Len(t, l2.events, 1, "listener registered before broadcast still gets the current event")
	assert.Len(t, l3.events, 1)

	b.Broadcast(Event{Kind: EventStationBlocked})
	assert.Len(t, l1.events, 1)
	assert.Len(t, l2.events, 1)
	assert.Len(t, l3.events, 2)
}
