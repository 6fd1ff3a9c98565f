package integration

import "sync"

// projectLocks hands out one mutex per project name, so integration
// operations on different projects run concurrently while operations on
// the same project serialize through its own critical section.
type projectLocks struct {
	mu    sync.Mutex
	byKey map[string]*sync.Mutex
}

func newProjectLocks() projectLocks {
	return projectLocks{byKey: make(map[string]*sync.Mutex)}
}

// tryLock attempts to acquire project's critical section without
// blocking. Returns ok=false if another operation already holds it — the
// caller should surface ErrBusy rather than queue behind it, since a
// queued merge/rebase would run against a worktree state the caller no
// longer expects.
func (l *projectLocks) tryLock(project string) (unlock func(), ok bool) {
	l.mu.Lock()
	m, exists := l.byKey[project]
	if !exists {
		m = &sync.Mutex{}
		l.byKey[project] = m
	}
	l.mu.Unlock()

	if !m.TryLock() {
		return nil, false
	}
	return m.Unlock, true
}
