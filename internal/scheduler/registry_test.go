package scheduler

import (
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestRegistryTryAdmitSucceedsOnce(t *testing.T) {
	r := NewRegistry()
	id := uuid.New()

	assert.True(t, r.TryAdmit(id))
	assert.False(t, r.TryAdmit(id), "second admission of the same id must fail")
	assert.Equal(t, 1, r.Size())
}

func TestRegistryReleaseAllowsReadmission(t *testing.T) {
	r := NewRegistry()
	id := uuid.New()

	assert.True(t, r.TryAdmit(id))
	r.Release(id)
	assert.Equal(t, 0, r.Size())
	assert.True(t, r.TryAdmit(id))
}

func TestRegistryReleaseOfAbsentIDIsNoOp(t *testing.T) {
	r := NewRegistry()
	assert.NotPanics(t, func() { r.Release(uuid.New()) })
}

func TestRegistryConcurrentAdmissionAdmitsExactlyOnce(t *testing.T) {
	r := NewRegistry()
	id := uuid.New()

	var wg sync.WaitGroup
	var mu sync.Mutex
	admitted := 0

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if r.TryAdmit(id) {
				mu.Lock()
				admitted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, admitted, "exactly one goroutine should win admission")
}
