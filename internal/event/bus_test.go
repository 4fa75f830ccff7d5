package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryBus_DeliversToEverySubscriber(t *testing.T) {
	bus := NewBus()
	a, unsubA := bus.Subscribe("test")
	b, unsubB := bus.Subscribe("test")
	defer unsubA()
	defer unsubB()

	bus.Publish(Event{Type: TypeRowCreated, Resource: "ideas", RecordID: "1"})

	gotA := <-a
	gotB := <-b
	assert.Equal(t, "1", gotA.RecordID)
	assert.Equal(t, TypeRowCreated, gotB.Type)
}

func TestInMemoryBus_UnsubscribeClosesChannel(t *testing.T) {
	bus := NewBus()
	ch, unsub := bus.Subscribe("test")
	unsub()
	unsub()

	_, open := <-ch
	assert.False(t, open)

	bus.Publish(Event{Type: TypeRowDeleted})
}

func TestInMemoryBus_FullBufferDropsInsteadOfBlocking(t *testing.T) {
	bus := NewBus()
	ch, unsub := bus.Subscribe("test")
	defer unsub()

	for i := 0; i < subscriberBuffer+5; i++ {
		bus.Publish(Event{Type: TypeRowUpdated})
	}

	require.Len(t, ch, subscriberBuffer)
	assert.Equal(t, uint64(5), bus.Dropped())
}

func TestInMemoryBus_Subscribers(t *testing.T) {
	bus := NewBus()
	_, unsubA := bus.Subscribe("activity")
	_, unsubB := bus.Subscribe("stream")
	assert.Equal(t, 2, bus.Subscribers())

	unsubA()
	assert.Equal(t, 1, bus.Subscribers())
	unsubB()
	assert.Zero(t, bus.Subscribers())
}

func TestType_Action(t *testing.T) {
	assert.Equal(t, "created", TypeRowCreated.Action())
	assert.Equal(t, "updated", TypeRowUpdated.Action())
	assert.Equal(t, "deleted", TypeRowDeleted.Action())
}
