// Package terminal owns the set of live PTY sessions: spawn, subscribe,
// scrollback replay, resize, and teardown (spec.md §4.B, §4.C).
package terminal

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/gitbobobo/tidyflow/internal/ptysession"
)

// ErrTerminalNotFound is returned by operations addressing an unknown term_id.
var ErrTerminalNotFound = errors.New("terminal: not found")

// subscriberBacklog bounds how many chunks a subscriber can fall behind
// before it is dropped; it must then reattach and replay via scrollback.
const subscriberBacklog = 256

// Status reports whether a terminal's child process is still running.
type Status struct {
	Running  bool
	ExitCode int
}

// Info is the read-only snapshot returned by List and Get.
type Info struct {
	TermID    string
	Project   string
	Workspace string
	Cwd       string
	Shell     string
	Status    Status
}

type subscriber struct {
	ch chan []byte
}

type entry struct {
	session    *ptysession.Session
	termID     string
	project    string
	workspace  string
	cwd        string
	shell      string
	status     Status
	mu         sync.Mutex
	subs       map[*subscriber]struct{}
	scrollback *ScrollbackBuffer
}

func (e *entry) broadcast(data []byte) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for s := range e.subs {
		select {
		case s.ch <- data:
		default:
			// subscriber has fallen behind subscriberBacklog chunks; drop
			// it rather than block the PTY reader. It must reattach.
			close(s.ch)
			delete(e.subs, s)
		}
	}
}

func (e *entry) addSubscriber() *subscriber {
	s := &subscriber{ch: make(chan []byte, subscriberBacklog)}
	e.mu.Lock()
	e.subs[s] = struct{}{}
	e.mu.Unlock()
	return s
}

func (e *entry) removeSubscriber(s *subscriber) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.subs[s]; ok {
		delete(e.subs, s)
		close(s.ch)
	}
}

// Registry is the process-lifetime set of live terminals. All methods are
// safe for concurrent use.
type Registry struct {
	mu              sync.Mutex
	terminals       map[string]*entry
	defaultTermID   string
	scrollbackBytes int
}

// NewRegistry creates an empty registry. scrollbackBytes bounds each
// terminal's ScrollbackBuffer (spec.md §4.configuration).
func NewRegistry(scrollbackBytes int) *Registry {
	return &Registry{
		terminals:       make(map[string]*entry),
		scrollbackBytes: scrollbackBytes,
	}
}

// Spawn starts a new PTY session rooted at cwd and begins forwarding its
// output to scrollback and any future subscribers. Returns the new term_id
// and detected shell name.
func (r *Registry) Spawn(cwd, project, workspace string) (termID, shell string, err error) {
	sess, err := ptysession.New(cwd)
	if err != nil {
		return "", "", fmt.Errorf("spawn: %w", err)
	}

	termID = uuid.NewString()
	e := &entry{
		session:    sess,
		termID:     termID,
		project:    project,
		workspace:  workspace,
		cwd:        cwd,
		shell:      sess.Shell(),
		status:     Status{Running: true},
		subs:       make(map[*subscriber]struct{}),
		scrollback: NewScrollbackBuffer(r.scrollbackBytes),
	}

	r.mu.Lock()
	if r.defaultTermID == "" {
		r.defaultTermID = termID
	}
	r.terminals[termID] = e
	r.mu.Unlock()

	go r.readLoop(e)

	return termID, e.shell, nil
}

// readLoop pumps PTY output into scrollback and subscriber fan-out. It
// holds back any tail byte sequence that findIncompleteEscapeSequence
// flags as unterminated, so a publish boundary never splits a CSI/OSC/DCS
// sequence or a multi-byte UTF-8 codepoint (spec.md §4.C).
func (r *Registry) readLoop(e *entry) {
	buf := make([]byte, 8192)
	var pending []byte

	for {
		n, err := e.session.Read(buf)
		if n > 0 {
			data := append(pending, buf[:n]...)
			pending = nil

			if idx := findIncompleteEscapeSequence(data); idx >= 0 {
				pending = append(pending, data[idx:]...)
				data = data[:idx]
			}

			if len(data) > 0 {
				e.scrollback.Push(data)
				e.broadcast(data)
			}
		}
		if err != nil {
			if len(pending) > 0 {
				e.scrollback.Push(pending)
				e.broadcast(pending)
			}
			break
		}
	}

	code := e.session.Wait()
	r.mu.Lock()
	e.mu.Lock()
	e.status = Status{Running: false, ExitCode: code}
	for s := range e.subs {
		close(s.ch)
	}
	e.subs = make(map[*subscriber]struct{})
	e.mu.Unlock()
	r.mu.Unlock()
}

// get returns the entry for termID, if any.
func (r *Registry) get(termID string) (*entry, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.terminals[termID]
	return e, ok
}

// Subscribe returns a channel of output chunks for termID. The channel is
// closed when the subscriber falls too far behind or the terminal exits;
// the caller must then reattach (replaying via GetScrollback) to recover.
func (r *Registry) Subscribe(termID string) (<-chan []byte, func(), error) {
	e, ok := r.get(termID)
	if !ok {
		return nil, nil, ErrTerminalNotFound
	}
	s := e.addSubscriber()
	return s.ch, func() { e.removeSubscriber(s) }, nil
}

// GetScrollback returns the buffered output retained for termID.
func (r *Registry) GetScrollback(termID string) ([]byte, error) {
	e, ok := r.get(termID)
	if !ok {
		return nil, ErrTerminalNotFound
	}
	return e.scrollback.Snapshot(), nil
}

// WriteInput sends data to the terminal's PTY as keyboard input.
func (r *Registry) WriteInput(termID string, data []byte) error {
	e, ok := r.get(termID)
	if !ok {
		return ErrTerminalNotFound
	}
	_, err := e.session.Write(data)
	return err
}

// Resize changes a terminal's PTY dimensions.
func (r *Registry) Resize(termID string, cols, rows int) error {
	e, ok := r.get(termID)
	if !ok {
		return ErrTerminalNotFound
	}
	return e.session.Resize(cols, rows)
}

// GetInfo returns the current snapshot for termID.
func (r *Registry) GetInfo(termID string) (Info, error) {
	e, ok := r.get(termID)
	if !ok {
		return Info{}, ErrTerminalNotFound
	}
	e.mu.Lock()
	status := e.status
	e.mu.Unlock()
	return Info{
		TermID:    e.termID,
		Project:   e.project,
		Workspace: e.workspace,
		Cwd:       e.cwd,
		Shell:     e.shell,
		Status:    status,
	}, nil
}

// Contains reports whether termID is a known terminal.
func (r *Registry) Contains(termID string) bool {
	_, ok := r.get(termID)
	return ok
}

// List returns a snapshot of every known terminal.
func (r *Registry) List() []Info {
	r.mu.Lock()
	ids := make([]string, 0, len(r.terminals))
	for id := range r.terminals {
		ids = append(ids, id)
	}
	r.mu.Unlock()

	out := make([]Info, 0, len(ids))
	for _, id := range ids {
		if info, err := r.GetInfo(id); err == nil {
			out = append(out, info)
		}
	}
	return out
}

// ResolveTermID returns termID unchanged if it names a known terminal, or
// the registry's default terminal if termID is empty. Returns "", false
// when termID is non-empty but unknown, or empty with no default set.
func (r *Registry) ResolveTermID(termID string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if termID == "" {
		if r.defaultTermID == "" {
			return "", false
		}
		return r.defaultTermID, true
	}
	if _, ok := r.terminals[termID]; !ok {
		return "", false
	}
	return termID, true
}

// Close kills and removes one terminal, returning false if it was unknown.
func (r *Registry) Close(termID string) bool {
	r.mu.Lock()
	e, ok := r.terminals[termID]
	if !ok {
		r.mu.Unlock()
		return false
	}
	delete(r.terminals, termID)
	if r.defaultTermID == termID {
		r.defaultTermID = ""
		for id := range r.terminals {
			r.defaultTermID = id
			break
		}
	}
	r.mu.Unlock()

	e.session.Kill()
	return true
}

// CloseAll kills every terminal. Called only during daemon shutdown.
func (r *Registry) CloseAll() {
	r.mu.Lock()
	entries := make([]*entry, 0, len(r.terminals))
	for _, e := range r.terminals {
		entries = append(entries, e)
	}
	r.terminals = make(map[string]*entry)
	r.defaultTermID = ""
	r.mu.Unlock()

	for _, e := range entries {
		e.session.Kill()
	}
}
