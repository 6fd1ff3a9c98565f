// Package handlercontext bundles the shared, process-lifetime state every
// connection's handlers need, plus the per-connection pieces layered on
// top — the Go shape of the "cheaply clonable bundle" spec.md §4.K
// describes (grounded on original_source/core/src/server/context.rs's
// HandlerContext/AppError).
package handlercontext

import (
	"fmt"
	"os/exec"
	"sync"

	"github.com/gitbobobo/tidyflow/internal/fsadapter"
	"github.com/gitbobobo/tidyflow/internal/gitcli"
	"github.com/gitbobobo/tidyflow/internal/integration"
	"github.com/gitbobobo/tidyflow/internal/state"
	"github.com/gitbobobo/tidyflow/internal/terminal"
	"github.com/gitbobobo/tidyflow/internal/watcher"
	"github.com/gitbobobo/tidyflow/internal/ws"
)

// AppError is the handler-boundary error type: a stable code (spec.md §7)
// plus a human-readable message. The dispatcher's sendAppErr turns it
// directly into a ws.ErrorMsg; any other error becomes internal_error.
type AppError struct {
	Code    string
	Message string
}

func (e *AppError) Error() string { return fmt.Sprintf("%s: %s", e.Code, e.Message) }

// NewAppError constructs an AppError from a code and a format string.
func NewAppError(code, format string, args ...any) *AppError {
	return &AppError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Shared is constructed once per daemon process (component M) and handed
// to every connection's Context.
type Shared struct {
	Store       *state.Store
	Saver       *state.Saver
	Registry    *terminal.Registry
	Integration *integration.Manager
	Git         *gitcli.Adapter
	Files       fsadapter.Adapter
	DataDir     string
}

// runningCommand tracks a project command in flight so CancelProjectCommand
// can terminate it (spec.md §3, §5 "Cancellation & timeouts").
type runningCommand struct {
	cmd    *exec.Cmd
	cancel func()
}

// Context is the per-connection handler context (spec.md §4.K): it shares
// the process-wide Shared state plus per-connection subscription and
// running-command tables, and the outbound sender every handler writes
// responses through (spec.md §4.L — handlers never touch the socket
// directly).
type Context struct {
	*Shared

	Send func(v any) error

	Watcher *watcher.Watcher

	mu            sync.Mutex
	subscriptions map[string]func() // term_id -> forwarder-stop
	commands      map[string]*runningCommand
	flowControls  map[string]*terminal.FlowControl // term_id -> outbound flow control
}

// New builds a per-connection Context. send marshals an outbound envelope
// and writes it to the connection's socket; watchEvents is the
// channel the connection's Watcher publishes FileChanged/GitStatusChanged
// events onto.
func New(shared *Shared, send func(v any) error, watchEvents chan<- any) *Context {
	return &Context{
		Shared:        shared,
		Send:          send,
		Watcher:       watcher.New(watchEvents),
		subscriptions: make(map[string]func()),
		commands:      make(map[string]*runningCommand),
		flowControls:  make(map[string]*terminal.FlowControl),
	}
}

// TrackSubscription records termID's forwarder-stop func, replacing any
// prior subscription to the same terminal.
func (c *Context) TrackSubscription(termID string, stop func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if prior, ok := c.subscriptions[termID]; ok {
		prior()
	}
	c.subscriptions[termID] = stop
}

// UntrackSubscription stops and forgets termID's forwarder, if any.
func (c *Context) UntrackSubscription(termID string) {
	c.mu.Lock()
	stop, ok := c.subscriptions[termID]
	if ok {
		delete(c.subscriptions, termID)
	}
	c.mu.Unlock()
	if ok {
		stop()
	}
}

// CloseAllSubscriptions aborts every forwarder task on connection close
// (spec.md §4.L, §5) — it does not kill the underlying terminals.
func (c *Context) CloseAllSubscriptions() {
	c.mu.Lock()
	subs := c.subscriptions
	c.subscriptions = make(map[string]func())
	c.mu.Unlock()
	for _, stop := range subs {
		stop()
	}
	c.Watcher.Unsubscribe()
}

// TrackFlowControl associates a FlowControl with termID so a subsequent
// TermOutputAck can find it and unblock the forwarder.
func (c *Context) TrackFlowControl(termID string, fc *terminal.FlowControl) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.flowControls[termID] = fc
}

// GetFlowControl returns termID's FlowControl, if a forwarder has
// registered one.
func (c *Context) GetFlowControl(termID string) (*terminal.FlowControl, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fc, ok := c.flowControls[termID]
	return fc, ok
}

// UntrackFlowControl removes and closes termID's FlowControl, releasing
// any forwarder currently blocked in Wait.
func (c *Context) UntrackFlowControl(termID string) {
	c.mu.Lock()
	fc, ok := c.flowControls[termID]
	delete(c.flowControls, termID)
	c.mu.Unlock()
	if ok {
		fc.Close()
	}
}

// TrackCommand registers a running project command under taskID.
func (c *Context) TrackCommand(taskID string, cmd *exec.Cmd, cancel func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.commands[taskID] = &runningCommand{cmd: cmd, cancel: cancel}
}

// CancelCommand terminates the running command registered under taskID,
// returning false if none is running.
func (c *Context) CancelCommand(taskID string) bool {
	c.mu.Lock()
	rc, ok := c.commands[taskID]
	if ok {
		delete(c.commands, taskID)
	}
	c.mu.Unlock()
	if !ok {
		return false
	}
	rc.cancel()
	return true
}

// ForgetCommand removes taskID once it has completed on its own.
func (c *Context) ForgetCommand(taskID string) {
	c.mu.Lock()
	delete(c.commands, taskID)
	c.mu.Unlock()
}

// SendError is a convenience for handlers to reply with the standard
// error envelope.
func (c *Context) SendError(code, message string) {
	c.Send(ws.ErrorMsg{Type: ws.TypeError, Code: code, Message: message})
}
