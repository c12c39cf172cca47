package sds

import (
	"sync"
	"time"
)

// uninitializedSource is the sentinel data_source stamped on a cell that has
// never been written, so reads stay total rather than erroring (§4.1 failure
// semantics: missing-cell reads return a zeroed default).
const uninitializedSource = "uninitialized"

// Cell is a versioned, independently-locked slot in the shared data space.
// Each cell is protected by its own mutex (§4.1: "no cross-cell atomicity");
// readers never block readers of other cells. Generic over the payload type
// so every mandated cell in types.go gets the same envelope without
// duplicating lock plumbing, the way fastview.ViewBuilder[DataModel,
// ViewModel] parameterizes over data/view types in the teacher.
type Cell[T any] struct {
	mu         sync.RWMutex
	value      T
	dataSource string
	timestamp  time.Duration
	written    bool
}

// Snapshot is a cell's value plus its envelope, returned by Get.
type Snapshot[T any] struct {
	Value      T
	DataSource string
	Timestamp  time.Duration
}

// Get returns the cell's current value and envelope. An unwritten cell
// returns its zero value with DataSource == "uninitialized".
func (c *Cell[T]) Get() Snapshot[T] {
	c.mu.RLock()
	defer c.mu.RUnlock()
	ds := c.dataSource
	if !c.written {
		ds = uninitializedSource
	}
	return Snapshot[T]{Value: c.value, DataSource: ds, Timestamp: c.timestamp}
}

// Set overwrites the cell's value, stamping the given source and timestamp.
// Last-writer-wins within a step, per §4.1.
func (c *Cell[T]) Set(value T, dataSource string, timestamp time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.value = value
	c.dataSource = dataSource
	c.timestamp = timestamp
	c.written = true
}
