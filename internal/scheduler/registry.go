package scheduler

import (
	"sync"

	"github.com/google/uuid"
)

// Registry is the process-local Active-Execution Registry (spec.md section
// 4.2): an admission gate that prevents a schedule from being dispatched by
// two Run Executors at once. It is not a distributed lock - on restart it
// begins empty, and orphan recovery (RunRepository.MarkOrphansOnStartup)
// accounts for anything that was in flight when the process died.
type Registry struct {
	mu    sync.Mutex
	inUse map[uuid.UUID]struct{}
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{inUse: make(map[uuid.UUID]struct{})}
}

// TryAdmit atomically inserts id if absent and reports whether it admitted
// the schedule. A false return means another Run Executor already holds it.
func (r *Registry) TryAdmit(id uuid.UUID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.inUse[id]; ok {
		return false
	}
	r.inUse[id] = struct{}{}
	return true
}

// Release removes id from the registry; a no-op if id is absent.
func (r *Registry) Release(id uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.inUse, id)
}

// Size reports how many schedules are currently admitted, for tests and
// health reporting.
func (r *Registry) Size() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.inUse)
}
