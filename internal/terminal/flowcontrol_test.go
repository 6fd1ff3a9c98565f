package terminal

import (
	"testing"
	"time"
)

func TestFlowControlBlocksUntilAck(t *testing.T) {
	fc := NewFlowControl(10)
	fc.Add(15)

	done := make(chan struct{})
	go func() {
		fc.Wait()
		close(done)
	}()

	select {
	case <-done:
		t.Fatal("Wait returned before ack lowered unacked below high water")
	case <-time.After(50 * time.Millisecond):
	}

	fc.Ack(10)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Wait did not unblock after ack")
	}
}

func TestFlowControlAckNeverGoesNegative(t *testing.T) {
	fc := NewFlowControl(10)
	fc.Add(5)
	fc.Ack(100)
	if fc.unacked != 0 {
		t.Fatalf("expected unacked clamped to 0, got %d", fc.unacked)
	}
}

func TestFlowControlCloseUnblocksWaiters(t *testing.T) {
	fc := NewFlowControl(10)
	fc.Add(100)

	done := make(chan struct{})
	go func() {
		fc.Wait()
		close(done)
	}()

	time.Sleep(20 * time.Millisecond)
	fc.Close()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Wait did not unblock after Close")
	}
}
