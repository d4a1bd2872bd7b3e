package testutil

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDeterministicClock_StartsAtEpoch(t *testing.T) {
	clock := NewDeterministicClock()
	assert.Equal(t, Epoch, clock.Next())
	assert.Equal(t, Epoch.Add(time.Minute), clock.Next())
}

func TestDeterministicClock_NextAdvancesOneMinute(t *testing.T) {
	clock := NewDeterministicClock()

	first := clock.Next()
	second := clock.Next()
	third := clock.Next()

	assert.Equal(t, time.Minute, second.Sub(first))
	assert.Equal(t, time.Minute, third.Sub(second))
	assert.Equal(t, time.UTC, third.Location())
}

func TestDeterministicClock_ThreadSafe(t *testing.T) {
	clock := NewDeterministicClock()
	const numGoroutines = 20
	const callsPerGoroutine = 50

	var wg sync.WaitGroup
	wg.Add(numGoroutines)

	var mu sync.Mutex
	seen := make(map[time.Time]bool)
	for i := 0; i < numGoroutines; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < callsPerGoroutine; j++ {
				v := clock.Next()
				mu.Lock()
				assert.False(t, seen[v], "duplicate value %v", v)
				seen[v] = true
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Len(t, seen, numGoroutines*callsPerGoroutine)
	assert.Equal(t, Epoch.Add(numGoroutines*callsPerGoroutine*time.Minute), clock.Next())
}

func TestDeterministicClock_Deterministic(t *testing.T) {
	clock1 := NewDeterministicClock()
	clock2 := NewDeterministicClock()

	for i := 0; i < 100; i++ {
		assert.Equal(t, clock1.Next(), clock2.Next())
	}
}
