package message

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnboundedKeepsOrderWithoutReader(t *testing.T) {
	in, out := Unbounded[int]()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 1000; i++ {
			in <- i
		}
		close(in)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("sender blocked on a slow receiver")
	}

	var got []int
	for v := range out {
		got = append(got, v)
	}
	require.Len(t, got, 1000)
	for i, v := range got {
		assert.Equal(t, i, v)
	}
}

func TestUnboundedCloseWithEmptyQueue(t *testing.T) {
	in, out := Unbounded[Message]()
	close(in)
	_, ok := <-out
	assert.False(t, ok)
}
