// Package testutil provides testing utilities for planpack tests.
//
// Fixtures are built on an in-memory afero filesystem: tests assemble a
// feature directory (tasks.json, kickoff prompts, smoke scripts, gate
// reports) without touching the disk.
package testutil

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
)

// NewPackFS returns an empty in-memory filesystem for pack fixtures.
func NewPackFS(t *testing.T) afero.Fs {
	t.Helper()
	return afero.NewMemMapFs()
}

// WriteTasksJSON marshals doc and writes it to featureDir/tasks.json.
func WriteTasksJSON(t *testing.T, fsys afero.Fs, featureDir string, doc map[string]any) {
	t.Helper()

	data, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("failed to marshal tasks.json fixture: %v", err)
	}
	WriteFile(t, fsys, filepath.Join(featureDir, "tasks.json"), string(data))
}

// WriteRawTasksJSON writes content verbatim to featureDir/tasks.json. Used
// for malformed-document fixtures that cannot round-trip through Marshal.
func WriteRawTasksJSON(t *testing.T, fsys afero.Fs, featureDir, content string) {
	t.Helper()
	WriteFile(t, fsys, filepath.Join(featureDir, "tasks.json"), content)
}

// WriteFile writes content to path, creating parent directories as needed.
func WriteFile(t *testing.T, fsys afero.Fs, path, content string) {
	t.Helper()

	if err := fsys.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("failed to create directory for %s: %v", path, err)
	}
	if err := afero.WriteFile(fsys, path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write file %s: %v", path, err)
	}
}

// MkDir creates a directory and its parents.
func MkDir(t *testing.T, fsys afero.Fs, path string) {
	t.Helper()

	if err := fsys.MkdirAll(path, 0755); err != nil {
		t.Fatalf("failed to create directory %s: %v", path, err)
	}
}

// WriteKickoff creates featureDir/kickoff_prompts/<name> with placeholder
// content and returns its path.
func WriteKickoff(t *testing.T, fsys afero.Fs, featureDir, name string) string {
	t.Helper()

	path := filepath.Join(featureDir, "kickoff_prompts", name)
	WriteFile(t, fsys, path, "# Kickoff\n\n## Start Checklist\n\n- read the plan\n")
	return path
}

// Task builds a raw task object of the given type that satisfies the field
// pass. Worktree task types get a worktree, an integration_task (their own
// id for integration tasks), and a kickoff prompt path under featureDir;
// callers override entries for the case under test and create the kickoff
// file with WriteKickoff.
func Task(featureDir, id, taskType string) map[string]any {
	task := map[string]any{
		"id":                  id,
		"name":                "Task " + id,
		"phase":               "phase-1",
		"description":         "Fixture task " + id,
		"type":                taskType,
		"status":              "pending",
		"references":          []any{},
		"acceptance_criteria": []any{},
		"start_checklist":     []any{},
		"end_checklist":       []any{},
		"worktree":            nil,
		"integration_task":    nil,
		"kickoff_prompt":      nil,
		"depends_on":          []any{},
		"concurrent_with":     []any{},
	}

	switch taskType {
	case "code", "test", "integration":
		task["worktree"] = "wt/" + id
		task["kickoff_prompt"] = filepath.Join(featureDir, "kickoff_prompts", id+".md")
		if taskType == "integration" {
			task["integration_task"] = id
		}
	}
	return task
}

// Pack builds a tasks.json document from the given meta block and tasks. A
// nil meta omits the block entirely.
func Pack(meta map[string]any, tasks ...map[string]any) map[string]any {
	items := make([]any, 0, len(tasks))
	for _, task := range tasks {
		items = append(items, task)
	}
	doc := map[string]any{"tasks": items}
	if meta != nil {
		doc["meta"] = meta
	}
	return doc
}
