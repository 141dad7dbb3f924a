package realtime_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marcos-nsantos/presence-socket/internal/adapter/realtime"
	"github.com/marcos-nsantos/presence-socket/internal/domain"
)

func TestRegistry_Register(t *testing.T) {
	t.Run("replaces previous connection", func(t *testing.T) {
		r := realtime.NewRegistry()
		a, b := newFakeConn("a"), newFakeConn("b")

		_, replaced := r.Register("D1", a)
		assert.False(t, replaced)

		previous, replaced := r.Register("D1", b)
		assert.True(t, replaced)
		assert.Equal(t, realtime.Conn(a), previous)

		got, ok := r.Lookup("D1")
		require.True(t, ok)
		assert.Equal(t, realtime.Conn(b), got)
		assert.True(t, a.IsOpen(), "displaced connection stays open")
	})

	t.Run("re-registering the same connection is not a replacement", func(t *testing.T) {
		r := realtime.NewRegistry()
		a := newFakeConn("a")

		r.Register("D1", a)
		_, replaced := r.Register("D1", a)

		assert.False(t, replaced)
		assert.Equal(t, 1, r.Len())
	})
}

func TestRegistry_RemoveConn(t *testing.T) {
	t.Run("closing displaced connection keeps the entry", func(t *testing.T) {
		r := realtime.NewRegistry()
		a, b := newFakeConn("a"), newFakeConn("b")
		r.Register("D1", a)
		r.Register("D1", b)

		removed := r.RemoveConn(a)

		assert.Empty(t, removed)
		got, ok := r.Lookup("D1")
		require.True(t, ok)
		assert.Equal(t, realtime.Conn(b), got)

		removed = r.RemoveConn(b)

		assert.Equal(t, []string{"D1"}, removed)
		_, ok = r.Lookup("D1")
		assert.False(t, ok)
	})

	t.Run("removes every id held by the connection", func(t *testing.T) {
		r := realtime.NewRegistry()
		a, b := newFakeConn("a"), newFakeConn("b")
		r.Register("D1", a)
		r.Register("D2", a)
		r.Register("D3", b)

		removed := r.RemoveConn(a)

		assert.ElementsMatch(t, []string{"D1", "D2"}, removed)
		assert.Equal(t, 1, r.Len())
	})

	t.Run("unregistered connection is a no-op", func(t *testing.T) {
		r := realtime.NewRegistry()

		assert.Empty(t, r.RemoveConn(newFakeConn("x")))
	})
}

func TestRegistry_SendTo(t *testing.T) {
	t.Run("delivers to registered connection", func(t *testing.T) {
		r := realtime.NewRegistry()
		a := newFakeConn("a")
		r.Register("D1", a)

		require.NoError(t, r.SendTo("D1", []byte(`{"x":1}`)))
		assert.Equal(t, [][]byte{[]byte(`{"x":1}`)}, a.Sent())
	})

	t.Run("unknown device is not connected", func(t *testing.T) {
		r := realtime.NewRegistry()

		err := r.SendTo("D1", []byte(`{}`))

		assert.ErrorIs(t, err, domain.ErrDeviceNotConnected)
	})

	t.Run("closed connection is not connected", func(t *testing.T) {
		r := realtime.NewRegistry()
		a := newFakeConn("a")
		r.Register("D1", a)
		a.Close()

		err := r.SendTo("D1", []byte(`{}`))

		assert.ErrorIs(t, err, domain.ErrDeviceNotConnected)
		assert.Empty(t, a.Sent())
	})

	t.Run("wraps send failures", func(t *testing.T) {
		r := realtime.NewRegistry()
		a := newFakeConn("a")
		a.fail = domain.ErrSendBufferFull
		r.Register("D1", a)

		err := r.SendTo("D1", []byte(`{}`))

		assert.ErrorIs(t, err, domain.ErrSendBufferFull)
	})
}

func TestRegistry_Concurrent(t *testing.T) {
	r := realtime.NewRegistry()
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			c := newFakeConn(fmt.Sprintf("c%d", i))
			id := fmt.Sprintf("D%d", i%5)
			r.Register(id, c)
			r.Lookup(id)
			_ = r.SendTo(id, []byte("ping"))
			r.RemoveConn(c)
		}(i)
	}
	wg.Wait()

	assert.LessOrEqual(t, r.Len(), 5)
}
