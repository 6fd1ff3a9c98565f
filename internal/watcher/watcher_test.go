package watcher

import "testing"

func TestShouldIgnore(t *testing.T) {
	cases := map[string]bool{
		"node_modules/foo.js":        true,
		".git/objects/ab/cd1234":     true,
		"target/debug/main":          true,
		"src/main.go":                false,
		".git/index":                 false,
		"packages/app/dist/bundle.js": true,
	}
	for rel, want := range cases {
		if got := shouldIgnore(rel); got != want {
			t.Errorf("shouldIgnore(%q) = %v, want %v", rel, got, want)
		}
	}
}

func TestIsGitStatusFile(t *testing.T) {
	cases := map[string]bool{
		".git/index":             true,
		".git/HEAD":               true,
		".git/refs/heads/main":    true,
		".git/COMMIT_EDITMSG":     true,
		"src/main.go":             false,
		".git/objects/ab/cd":      false,
	}
	for rel, want := range cases {
		if got := isGitStatusFile(rel); got != want {
			t.Errorf("isGitStatusFile(%q) = %v, want %v", rel, got, want)
		}
	}
}
