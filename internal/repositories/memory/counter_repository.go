package memory

import (
	"context"
	"fmt"
	"sync"

	"flottapool/internal/repositories/interfaces"
)

// CounterRepository is an in-memory atomic counter. FailNext makes the next
// calls error, to exercise the degraded trip id fallback.
type CounterRepository struct {
	mu       sync.Mutex
	counters map[string]int64
	FailNext int
}

func NewCounterRepository() *CounterRepository {
	return &CounterRepository{counters: make(map[string]int64)}
}

var _ interfaces.CounterRepository = (*CounterRepository)(nil)

func (r *CounterRepository) NextValue(ctx context.Context, name string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.FailNext > 0 {
		r.FailNext--
		return 0, fmt.Errorf("failed to increment counter %s: store unavailable", name)
	}

	r.counters[name]++
	return r.counters[name], nil
}
