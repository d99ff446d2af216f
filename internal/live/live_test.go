package live

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlotKeepsLatest(t *testing.T) {
	t.Parallel()

	s := NewSlot[string]()
	s.Publish("a")
	s.Publish("at")
	s.Publish("att")

	assert.Equal(t, "att", <-s.C())
	select {
	case v := <-s.C():
		t.Fatalf("unexpected second value %q", v)
	default:
	}
}

func TestSlotConcurrentPublishersNeverBlock(t *testing.T) {
	t.Parallel()

	s := NewSlot[int]()
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				s.Publish(i*100 + j)
			}
		}(i)
	}
	wg.Wait()
	assert.Len(t, s.C(), 1)
}

func TestBroadcasterFansOut(t *testing.T) {
	t.Parallel()

	var b Broadcaster[string]
	_, ok := b.Latest()
	assert.False(t, ok)

	first := b.Subscribe()
	second := b.Subscribe()
	b.Publish("graph")
	b.Publish("graph neural")

	assert.Equal(t, "graph neural", <-first.C())
	assert.Equal(t, "graph neural", <-second.C())

	late := b.Subscribe()
	assert.Equal(t, "graph neural", <-late.C())

	latest, ok := b.Latest()
	require.True(t, ok)
	assert.Equal(t, "graph neural", latest)
}
