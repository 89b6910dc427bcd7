package pool

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQueueFIFO(t *testing.T) {
	q := NewQueue[string]()
	q.Push("a")
	q.Push("b")
	q.Push("c")
	assert.Equal(t, 3, q.Len())

	item, ok := q.TryPop()
	assert.True(t, ok)
	assert.Equal(t, "a", item)

	item, ok = q.TryPop()
	assert.True(t, ok)
	assert.Equal(t, "b", item)

	item, ok = q.TryPop()
	assert.True(t, ok)
	assert.Equal(t, "c", item)

	_, ok = q.TryPop()
	assert.False(t, ok)
	assert.Equal(t, 0, q.Len())
}

func TestQueueConcurrentPopDeliversEachItemOnce(t *testing.T) {
	const items = 1000
	q := NewQueue[int]()
	for i := 0; i < items; i++ {
		q.Push(i)
	}

	var mu sync.Mutex
	seen := make(map[int]bool)
	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				item, ok := q.TryPop()
				if !ok {
					return
				}
				mu.Lock()
				assert.False(t, seen[item], "item %d delivered twice", item)
				seen[item] = true
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Len(t, seen, items)
}
