package pack

import (
	"strings"
	"testing"
)

// docFromRaw builds a Document directly from raw task objects, bypassing the
// loader, for pass-level tests.
func docFromRaw(meta map[string]any, rawTasks ...map[string]any) *Document {
	doc := &Document{
		Path:       "/packs/feat/tasks.json",
		FeatureDir: "/packs/feat",
		rawMeta:    meta,
		rawTasks:   rawTasks,
		Tasks:      make([]Task, len(rawTasks)),
	}
	for i, raw := range rawTasks {
		doc.Tasks[i] = newTask(i, raw)
	}
	return doc
}

// rawTask builds a raw task object with every required key present and the
// given overrides applied.
func rawTask(id, taskType string, overrides map[string]any) map[string]any {
	task := map[string]any{
		"id":                  id,
		"name":                "Task " + id,
		"phase":               "phase-1",
		"description":         "task " + id,
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
		if taskType == "integration" {
			task["integration_task"] = id
		}
	}
	for key, value := range overrides {
		task[key] = value
	}
	return task
}

// reportHas reports whether any diagnostic line contains substr.
func reportHas(rep *Report, substr string) bool {
	for _, line := range rep.Lines() {
		if strings.Contains(line, substr) {
			return true
		}
	}
	return false
}

// requireHas fails the test when no diagnostic line contains substr.
func requireHas(t *testing.T, rep *Report, substr string) {
	t.Helper()
	if !reportHas(rep, substr) {
		t.Errorf("expected a diagnostic containing %q, got:\n%s", substr, strings.Join(rep.Lines(), "\n"))
	}
}

// requireClean fails the test when the report has any diagnostics.
func requireClean(t *testing.T, rep *Report) {
	t.Helper()
	if !rep.OK() {
		t.Errorf("expected no diagnostics, got:\n%s", strings.Join(rep.Lines(), "\n"))
	}
}
