// Package dataset holds the shared sequence of integers that commands generate and aggregate.
package dataset

import (
	"fmt"
	"math/rand/v2"
	"sync"
)

// Dataset is an ordered, mutable sequence of integers shared by reference between the caller
// and queued commands. Reads take a copy, writes replace the whole sequence.
//
// The lock removes the data race between a generate and an aggregate running on different
// workers; it does not order them. Callers that need "aggregate what I just generated" must
// wait for the generate command to finish before submitting the aggregate.
type Dataset struct {
	mu     sync.RWMutex
	values []int
}

// New creates a dataset holding a copy of values.
func New(values ...int) *Dataset {
	d := &Dataset{}
	d.Replace(values)
	return d
}

// Snapshot returns a copy of the current values. Later writes do not affect it.
func (d *Dataset) Snapshot() []int {
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := make([]int, len(d.values))
	copy(out, d.values)
	return out
}

// Replace swaps the contents for a copy of values.
func (d *Dataset) Replace(values []int) {
	next := make([]int, len(values))
	copy(next, values)

	d.mu.Lock()
	d.values = next
	d.mu.Unlock()
}

// Len returns the number of values currently held.
func (d *Dataset) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.values)
}

// IsEmpty reports whether the dataset holds no values.
func (d *Dataset) IsEmpty() bool {
	return d.Len() == 0
}

// Generator produces pseudo-random values. A nil source uses the runtime's global generator.
type Generator struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewGenerator creates a generator. Pass a seeded source for reproducible output.
func NewGenerator(src rand.Source) *Generator {
	g := &Generator{}
	if src != nil {
		g.rng = rand.New(src)
	}
	return g
}

// Generate returns count values drawn uniformly from [0, bound).
func (g *Generator) Generate(count, bound int) ([]int, error) {
	if count < 0 {
		return nil, fmt.Errorf("count must not be negative, got %d", count)
	}
	if bound <= 0 {
		return nil, fmt.Errorf("bound must be positive, got %d", bound)
	}

	values := make([]int, count)

	// *rand.Rand is not safe for concurrent use; two workers may share one generator.
	g.mu.Lock()
	defer g.mu.Unlock()
	for i := range values {
		if g.rng != nil {
			values[i] = g.rng.IntN(bound)
		} else {
			values[i] = rand.IntN(bound)
		}
	}
	return values, nil
}
