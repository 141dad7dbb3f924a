package broadcast_test

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/marcos-nsantos/presence-socket/internal/domain/entity"
	"github.com/marcos-nsantos/presence-socket/internal/usecase/broadcast"
)

func TestStateTable_Swap(t *testing.T) {
	t.Run("detects edges", func(t *testing.T) {
		st := broadcast.NewStateTable()

		assert.True(t, st.Swap("D1", entity.StatusActive))
		assert.False(t, st.Swap("D1", entity.StatusActive))
		assert.True(t, st.Swap("D1", entity.StatusInactive))
		assert.False(t, st.Swap("D1", entity.StatusInactive))
	})

	t.Run("unknown device has no entry", func(t *testing.T) {
		st := broadcast.NewStateTable()

		_, ok := st.Get("D1")

		assert.False(t, ok)
	})

	t.Run("overlapping ticks see a single edge", func(t *testing.T) {
		st := broadcast.NewStateTable()
		var changes atomic.Int32
		var wg sync.WaitGroup

		for i := 0; i < 32; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if st.Swap("D1", entity.StatusActive) {
					changes.Add(1)
				}
			}()
		}
		wg.Wait()

		assert.Equal(t, int32(1), changes.Load())
	})
}
