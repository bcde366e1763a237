// Package testutil holds fixtures shared by package tests.
package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// WriteTree writes files (forward-slash names relative to base) and any parent
// directories they need.
func WriteTree(t *testing.T, base string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		p := filepath.Join(base, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(p), 0o750); err != nil {
			t.Fatalf("failed to create directory for %s: %v", name, err)
		}
		if err := os.WriteFile(p, []byte(content), 0o600); err != nil {
			t.Fatalf("failed to write %s: %v", name, err)
		}
	}
}

// SetupTestGitRepo initializes a temporary git repository for testing.
// Returns the repository, its worktree, and the absolute path to the temporary directory.
func SetupTestGitRepo(t *testing.T) (*git.Repository, *git.Worktree, string) {
	t.Helper()

	tempDir := t.TempDir()

	repo, err := git.PlainInit(tempDir, false)
	if err != nil {
		t.Fatalf("failed to initialize git repo: %v", err)
	}

	w, err := repo.Worktree()
	if err != nil {
		t.Fatalf("failed to get worktree: %v", err)
	}

	return repo, w, tempDir
}

// Commit writes files into the worktree and commits them with author time when.
func Commit(t *testing.T, w *git.Worktree, dir string, when time.Time, files map[string]string) {
	t.Helper()
	WriteTree(t, dir, files)
	for name := range files {
		if _, err := w.Add(name); err != nil {
			t.Fatalf("failed to stage %s: %v", name, err)
		}
	}
	_, err := w.Commit("update "+when.Format(time.DateOnly), &git.CommitOptions{
		Author: &object.Signature{Name: "Test", Email: "test@example.com", When: when},
	})
	if err != nil {
		t.Fatalf("failed to commit: %v", err)
	}
}

// FileAssertions provides utilities for asserting file system state in tests.
type FileAssertions struct {
	t       *testing.T
	baseDir string
}

// NewFileAssertions creates a new file assertions helper.
func NewFileAssertions(t *testing.T, baseDir string) *FileAssertions {
	return &FileAssertions{t: t, baseDir: baseDir}
}

// AssertFileExists validates that a file exists.
func (fa *FileAssertions) AssertFileExists(relativePath string) *FileAssertions {
	fa.t.Helper()
	fullPath := filepath.Join(fa.baseDir, relativePath)
	if info, err := os.Stat(fullPath); err != nil || info.IsDir() {
		fa.t.Errorf("Expected file to exist: %s", fullPath)
	}
	return fa
}

// AssertFileContains validates that a file contains substr.
func (fa *FileAssertions) AssertFileContains(relativePath, substr string) *FileAssertions {
	fa.t.Helper()
	fullPath := filepath.Join(fa.baseDir, relativePath)
	data, err := os.ReadFile(fullPath)
	if err != nil {
		fa.t.Errorf("Failed to read %s: %v", fullPath, err)
		return fa
	}
	if !strings.Contains(string(data), substr) {
		fa.t.Errorf("Expected %s to contain %q", fullPath, substr)
	}
	return fa
}
