package pool

import (
	"errors"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/artiops/artifactory-automation/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	// Initialize a no-op logger for testing to prevent panics
	utils.Logger = zap.NewNop()

	os.Exit(m.Run())
}

func TestNewContractViolations(t *testing.T) {
	q := NewQueue[int]()
	action := func(int) error { return nil }

	t.Run("size below one", func(t *testing.T) {
		_, err := New(0, q, action)
		assert.Error(t, err)
	})

	t.Run("nil queue", func(t *testing.T) {
		_, err := New[int](1, nil, action)
		assert.Error(t, err)
	})

	t.Run("nil action", func(t *testing.T) {
		_, err := New[int](1, q, nil)
		assert.Error(t, err)
	})
}

func TestDrainInvokesActionExactlyOncePerItem(t *testing.T) {
	for _, workers := range []int{1, 2, 3, 8} {
		for _, items := range []int{0, 1, 10, 100} {
			q := NewQueue[int]()
			for i := 0; i < items; i++ {
				q.Push(i)
			}

			var mu sync.Mutex
			seen := make(map[int]int)
			p, err := New(workers, q, func(item int) error {
				mu.Lock()
				seen[item]++
				mu.Unlock()
				return nil
			})
			require.NoError(t, err)

			p.Start()
			p.Wait()

			assert.False(t, p.Running())
			assert.Equal(t, 0, q.Len())
			assert.Len(t, seen, items)
			for item, count := range seen {
				assert.Equal(t, 1, count, "item %d processed more than once", item)
			}
		}
	}
}

func TestMoreWorkersThanItems(t *testing.T) {
	q := NewQueue[string]()
	q.Push("only")

	var calls atomic.Int32
	p, err := New(10, q, func(string) error {
		calls.Add(1)
		return nil
	})
	require.NoError(t, err)

	p.Start()
	p.Wait()

	assert.Equal(t, int32(1), calls.Load())
	assert.False(t, p.Running())
}

func TestFailingActionsAreSwallowed(t *testing.T) {
	q := NewQueue[int]()
	for i := 0; i < 10; i++ {
		q.Push(i)
	}

	var calls atomic.Int32
	p, err := New(3, q, func(item int) error {
		calls.Add(1)
		if item%5 == 0 {
			return errors.New("simulated API failure")
		}
		return nil
	})
	require.NoError(t, err)

	p.Start()
	p.Wait()

	// Failures count as processed; nothing is retried or re-queued.
	assert.Equal(t, int32(10), calls.Load())
	assert.Equal(t, 0, q.Len())
}

func TestPanickingActionDoesNotKillSiblings(t *testing.T) {
	q := NewQueue[int]()
	for i := 0; i < 10; i++ {
		q.Push(i)
	}

	var calls atomic.Int32
	p, err := New(3, q, func(item int) error {
		calls.Add(1)
		if item == 4 {
			panic("boom")
		}
		return nil
	})
	require.NoError(t, err)

	p.Start()
	p.Wait()

	assert.Equal(t, int32(10), calls.Load())
}

func TestRequestStopAbandonsRemainingQueue(t *testing.T) {
	q := NewQueue[int]()
	for i := 0; i < 100; i++ {
		q.Push(i)
	}

	release := make(chan struct{})
	var calls atomic.Int32
	p, err := New(2, q, func(int) error {
		calls.Add(1)
		<-release
		return nil
	})
	require.NoError(t, err)

	p.Start()
	// Let both workers pick up their first item, then stop the pool before
	// releasing them. In-flight items must complete; the rest stay queued.
	for calls.Load() < 2 {
		time.Sleep(time.Millisecond)
	}
	p.RequestStop()
	p.RequestStop() // idempotent
	close(release)
	p.Wait()

	assert.Equal(t, int32(2), calls.Load())
	assert.Equal(t, 98, q.Len())
}

func TestRunningReportsWorkerState(t *testing.T) {
	q := NewQueue[int]()
	q.Push(1)

	release := make(chan struct{})
	p, err := New(1, q, func(int) error {
		<-release
		return nil
	})
	require.NoError(t, err)

	assert.False(t, p.Running())
	p.Start()
	assert.True(t, p.Running())
	close(release)
	p.Wait()
	assert.False(t, p.Running())
}
