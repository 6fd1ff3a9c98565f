package terminal

import "sync"

// FlowControl tracks unacked output bytes for one (terminal, subscriber)
// pair and lets the forwarder block once the client falls behind past
// highWater, resuming when a TermOutputAck lowers the count back down
// (spec.md §4.D, grounded on the Rust FlowControl: AtomicU64 unacked +
// tokio::sync::Notify).
type FlowControl struct {
	mu        sync.Mutex
	cond      *sync.Cond
	unacked   int64
	highWater int64
	closed    bool
}

// NewFlowControl creates a FlowControl gated at highWater unacked bytes.
func NewFlowControl(highWater int64) *FlowControl {
	fc := &FlowControl{highWater: highWater}
	fc.cond = sync.NewCond(&fc.mu)
	return fc
}

// Add records n freshly sent bytes as unacked.
func (f *FlowControl) Add(n int64) {
	f.mu.Lock()
	f.unacked += n
	f.mu.Unlock()
}

// Ack records that the subscriber has consumed n bytes, waking any
// forwarder blocked in Wait.
func (f *FlowControl) Ack(n int64) {
	f.mu.Lock()
	f.unacked -= n
	if f.unacked < 0 {
		f.unacked = 0
	}
	f.mu.Unlock()
	f.cond.Broadcast()
}

// Wait blocks the calling forwarder while unacked bytes exceed highWater.
// Returns immediately if the FlowControl has been closed.
func (f *FlowControl) Wait() {
	f.mu.Lock()
	defer f.mu.Unlock()
	for f.unacked > f.highWater && !f.closed {
		f.cond.Wait()
	}
}

// Close releases any forwarder currently blocked in Wait, e.g. when the
// subscriber disconnects.
func (f *FlowControl) Close() {
	f.mu.Lock()
	f.closed = true
	f.mu.Unlock()
	f.cond.Broadcast()
}
