// Per-device message buffer with flush-time priority resolution.
package buffer

import (
	"sort"
	"sync"

	"devicesim/internal/telemetry"
)

// PriorityBuffer accumulates messages between flushes and resolves overflow
// at flush time. Accumulation is unbounded so that a late-arriving
// high-priority message can still displace an already-buffered low-priority
// one; capacity only limits what leaves the buffer per flush.
//
// Any number of producers may Add concurrently. Flush observes a consistent
// snapshot: an Add either lands entirely before or entirely after it. The
// lock is scoped to one device's buffer, never shared across devices.
type PriorityBuffer struct {
	mu       sync.Mutex
	pending  []telemetry.Message
	capacity int
	policy   telemetry.Policy
}

// New creates an empty buffer. capacity is the maximum number of messages
// released per flush; zero means every accumulated message is dropped.
func New(capacity int, policy telemetry.Policy) *PriorityBuffer {
	if capacity < 0 {
		capacity = 0
	}
	return &PriorityBuffer{capacity: capacity, policy: policy}
}

// Add appends a message to the pending set. It never blocks beyond the
// buffer lock and applies no backpressure to generators.
func (b *PriorityBuffer) Add(msg telemetry.Message) {
	b.mu.Lock()
	b.pending = append(b.pending, msg)
	b.mu.Unlock()
}

// Len returns the number of pending messages.
func (b *PriorityBuffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.pending)
}

// Flush drains the buffer. Pending messages are ordered by priority rank
// with arrival order as the stable tie-break; the first capacity messages
// are retained in that order, the rest are dropped. The pending set is
// cleared unconditionally, so the buffer is empty after every flush.
func (b *PriorityBuffer) Flush() (retained, dropped []telemetry.Message) {
	b.mu.Lock()
	pending := b.pending
	b.pending = nil
	b.mu.Unlock()

	if len(pending) == 0 {
		return nil, nil
	}

	sort.SliceStable(pending, func(i, j int) bool {
		return b.policy.Rank(pending[i]) < b.policy.Rank(pending[j])
	})

	if len(pending) <= b.capacity {
		return pending, nil
	}
	return pending[:b.capacity], pending[b.capacity:]
}
