// Package state holds the single persisted document describing every
// project and workspace this daemon manages (spec.md §3, §6).
package state

import (
	"encoding/json"
	"os"
	"sync"
	"time"
)

// WorkspaceStatus mirrors the lifecycle a worktree-backed workspace moves
// through while its setup commands run.
type WorkspaceStatus string

const (
	WorkspaceCreating     WorkspaceStatus = "creating"
	WorkspaceInitializing WorkspaceStatus = "initializing"
	WorkspaceReady        WorkspaceStatus = "ready"
	WorkspaceSetupFailed  WorkspaceStatus = "setup_failed"
	WorkspaceDestroying   WorkspaceStatus = "destroying"
)

// SetupResult summarizes the outcome of a workspace's setup command run.
type SetupResult struct {
	Success        bool       `json:"success"`
	StepsTotal     int        `json:"steps_total"`
	StepsCompleted int        `json:"steps_completed"`
	LastError      string     `json:"last_error,omitempty"`
	CompletedAt    *time.Time `json:"completed_at,omitempty"`
}

// Workspace is one Git-worktree-backed working copy of a Project.
type Workspace struct {
	Name         string          `json:"name"`
	WorktreePath string          `json:"worktree_path"`
	Branch       string          `json:"branch"`
	Status       WorkspaceStatus `json:"status"`
	CreatedAt    time.Time       `json:"created_at"`
	LastAccessed time.Time       `json:"last_accessed"`
	SetupResult  *SetupResult    `json:"setup_result,omitempty"`
}

// ProjectCommand is a user-defined, cancellable shell command shown
// alongside a project's built-in actions (SPEC_FULL.md §3 addendum).
type ProjectCommand struct {
	ID          string `json:"id"`
	Label       string `json:"label"`
	Command     string `json:"command"`
	CwdRelative string `json:"cwd_relative,omitempty"`
}

// Project is one imported Git repository and its workspaces.
type Project struct {
	Name          string                `json:"name"`
	RootPath      string                `json:"root_path"`
	RemoteURL     string                `json:"remote_url,omitempty"`
	DefaultBranch string                `json:"default_branch"`
	CreatedAt     time.Time             `json:"created_at"`
	Workspaces    map[string]*Workspace `json:"workspaces"`
	Commands      []ProjectCommand      `json:"commands,omitempty"`
}

// CustomCommand is a client-defined quick-launch terminal command kept in
// ClientSettings (distinct from a Project's own ProjectCommand list).
type CustomCommand struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Icon    string `json:"icon,omitempty"`
	Command string `json:"command"`
}

// ClientSettings holds UI-side preferences that ride along in the same
// document so a client's shortcuts survive a daemon restart.
type ClientSettings struct {
	CustomCommands     []CustomCommand   `json:"custom_commands,omitempty"`
	WorkspaceShortcuts map[string]string `json:"workspace_shortcuts,omitempty"`
	CommitAIAgent      string            `json:"commit_ai_agent,omitempty"`
	MergeAIAgent       string            `json:"merge_ai_agent,omitempty"`
	SelectedAIAgent    string            `json:"selected_ai_agent,omitempty"`
}

// Document is the full persisted JSON document, version-tagged so future
// releases can migrate it.
type Document struct {
	Version        int                 `json:"version"`
	Projects       map[string]*Project `json:"projects"`
	LastUpdated    *time.Time          `json:"last_updated,omitempty"`
	ClientSettings ClientSettings      `json:"client_settings"`
}

func newDocument() *Document {
	now := time.Now().UTC()
	return &Document{
		Version:  1,
		Projects: make(map[string]*Project),
		LastUpdated: &now,
	}
}

// Store is the single in-memory copy of Document, guarded by an RWMutex so
// many handler goroutines can read concurrently while writes are rare.
type Store struct {
	mu  sync.RWMutex
	doc *Document
}

// Load reads the document at path, or returns a fresh default document if
// the file doesn't exist yet (first run).
func Load(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &Store{doc: newDocument()}, nil
	}
	if err != nil {
		return nil, err
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if doc.Projects == nil {
		doc.Projects = make(map[string]*Project)
	}
	return &Store{doc: &doc}, nil
}

// Snapshot returns a deep-enough copy of the document suitable for
// serialization without holding the store's lock during I/O.
func (s *Store) Snapshot() *Document {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cp := *s.doc
	cp.Projects = make(map[string]*Project, len(s.doc.Projects))
	for name, p := range s.doc.Projects {
		pc := *p
		pc.Workspaces = make(map[string]*Workspace, len(p.Workspaces))
		for wname, w := range p.Workspaces {
			wc := *w
			pc.Workspaces[wname] = &wc
		}
		cp.Projects[name] = &pc
	}
	return &cp
}

// AddProject inserts or replaces a project.
func (s *Store) AddProject(p *Project) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc.Projects[p.Name] = p
}

// GetProject returns a project by name.
func (s *Store) GetProject(name string) (*Project, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.doc.Projects[name]
	return p, ok
}

// RemoveProject deletes a project by name.
func (s *Store) RemoveProject(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.doc.Projects, name)
}

// ListProjects returns every known project name.
func (s *Store) ListProjects() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.doc.Projects))
	for name := range s.doc.Projects {
		names = append(names, name)
	}
	return names
}

// AddWorkspace inserts or replaces a workspace under an existing project.
func (s *Store) AddWorkspace(project string, w *Workspace) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.doc.Projects[project]
	if !ok {
		return false
	}
	if p.Workspaces == nil {
		p.Workspaces = make(map[string]*Workspace)
	}
	p.Workspaces[w.Name] = w
	return true
}

// RemoveWorkspace deletes a workspace under a project.
func (s *Store) RemoveWorkspace(project, workspace string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.doc.Projects[project]
	if !ok {
		return false
	}
	if _, ok := p.Workspaces[workspace]; !ok {
		return false
	}
	delete(p.Workspaces, workspace)
	return true
}

// UpdateWorkspace applies fn to a workspace under lock, returning false if
// the project or workspace doesn't exist.
func (s *Store) UpdateWorkspace(project, workspace string, fn func(*Workspace)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.doc.Projects[project]
	if !ok {
		return false
	}
	w, ok := p.Workspaces[workspace]
	if !ok {
		return false
	}
	fn(w)
	return true
}

// ClientSettings returns a copy of the current client settings.
func (s *Store) ClientSettings() ClientSettings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.doc.ClientSettings
}

// SetClientSettings replaces the stored client settings.
func (s *Store) SetClientSettings(cs ClientSettings) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc.ClientSettings = cs
}
