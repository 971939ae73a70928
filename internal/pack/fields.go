package pack

import (
	"encoding/json"
	"fmt"
	"strings"
)

// requiredTaskKeys are the keys every task object must carry, in the order
// their absence is reported.
var requiredTaskKeys = []string{
	"id", "name", "phase", "description", "type", "status",
	"references", "acceptance_criteria", "start_checklist", "end_checklist",
	"worktree", "integration_task", "kickoff_prompt",
	"depends_on", "concurrent_with",
}

// validateTaskFields checks every task's fields for presence, typing, enum
// membership, and type-conditional requiredness. A task missing required
// keys gets one aggregated diagnostic and is otherwise skipped; all other
// defects accumulate per field. Duplicate ids are reported once at document
// level after the per-task sweep.
func validateTaskFields(doc *Document, rep *Report) {
	var ids []string

	for i := range doc.Tasks {
		task := &doc.Tasks[i]
		raw := doc.rawTasks[i]

		var missing []string
		for _, key := range requiredTaskKeys {
			if _, ok := raw[key]; !ok {
				missing = append(missing, key)
			}
		}
		if len(missing) > 0 {
			rep.taskf(KindField, i, "", "", "missing required keys: %s", strings.Join(missing, ", "))
			continue
		}

		if task.ID == "" {
			rep.taskf(KindField, i, "", "id", "must be a non-empty string")
		} else {
			ids = append(ids, task.ID)
		}

		for _, field := range []struct {
			name  string
			value string
		}{
			{"name", task.Name},
			{"phase", task.Phase},
			{"description", task.Description},
		} {
			if field.value == "" {
				rep.taskf(KindField, i, "", field.name, "must be a non-empty string")
			}
		}

		if !task.Type.IsValid() {
			rep.taskf(KindField, i, "", "type", "must be one of %s, got %s",
				strings.Join(taskTypeNames(), ", "), quoteValue(raw["type"]))
		}
		if !task.Status.IsValid() {
			rep.taskf(KindField, i, "", "status", "must be one of %s, got %s",
				strings.Join(taskStatusNames(), ", "), quoteValue(raw["status"]))
		}

		for _, field := range []string{"references", "acceptance_criteria", "start_checklist", "end_checklist"} {
			if _, ok := stringList(raw[field]); !ok {
				rep.taskf(KindField, i, "", field, "must be an array of strings")
			}
		}

		validateWorktree(task, raw, i, rep)
		validateIntegrationTaskField(task, raw, i, rep)
		validateKickoffPromptField(task, raw, i, rep)

		for _, field := range []string{"depends_on", "concurrent_with"} {
			if _, ok := stringList(raw[field]); !ok {
				rep.taskf(KindField, i, "", field, "must be an array of strings")
			}
		}

		if value := raw["platform"]; value != nil {
			if s, ok := value.(string); !ok || !Platform(s).IsValid() {
				rep.taskf(KindField, i, "", "platform", "must be one of %s when present, got %s",
					strings.Join(platformNames(), ", "), quoteValue(value))
			}
		}
		if value := raw["runner"]; value != nil {
			if s, ok := value.(string); !ok || !Runner(s).IsValid() {
				rep.taskf(KindField, i, "", "runner", "must be one of %s when present, got %s",
					strings.Join(runnerNames(), ", "), quoteValue(value))
			}
		}
	}

	if dupes := duplicates(ids); len(dupes) > 0 {
		rep.docf(KindField, "duplicate task ids: %s", strings.Join(dupes, ", "))
	}
}

// validateWorktree enforces the worktree field's type-conditional shape:
// required non-empty for worktree task types, null-or-non-empty otherwise.
func validateWorktree(task *Task, raw map[string]any, index int, rep *Report) {
	value := raw["worktree"]
	if task.Type.RequiresWorktree() {
		if s, ok := value.(string); !ok || s == "" {
			rep.taskf(KindField, index, "", "worktree", "must be a non-empty string (recommended: starts with `wt/`)")
		}
		return
	}
	if value == nil {
		return
	}
	if s, ok := value.(string); !ok || s == "" {
		rep.taskf(KindField, index, "", "worktree", "must be null or a non-empty string")
	}
}

// validateIntegrationTaskField enforces integration_task requiredness.
// Integration tasks may carry any string or null (the reference pass checks
// self-reference); code and test tasks must name one; other types may carry
// null or a non-empty string.
func validateIntegrationTaskField(task *Task, raw map[string]any, index int, rep *Report) {
	value := raw["integration_task"]
	switch task.Type {
	case TypeIntegration:
		if value != nil {
			if _, ok := value.(string); !ok {
				rep.taskf(KindField, index, "", "integration_task", "must be a string or null for integration tasks")
			}
		}
	case TypeCode, TypeTest:
		if s, ok := value.(string); !ok || s == "" {
			rep.taskf(KindField, index, "", "integration_task", "must be a non-empty string")
		}
	default:
		if value == nil {
			return
		}
		if s, ok := value.(string); !ok || s == "" {
			rep.taskf(KindField, index, "", "integration_task", "must be null or a non-empty string")
		}
	}
}

// validateKickoffPromptField enforces kickoff_prompt requiredness: required
// non-empty path for worktree task types, null-or-non-empty otherwise.
func validateKickoffPromptField(task *Task, raw map[string]any, index int, rep *Report) {
	value := raw["kickoff_prompt"]
	if task.Type.RequiresWorktree() {
		if s, ok := value.(string); !ok || s == "" {
			rep.taskf(KindField, index, "", "kickoff_prompt", "must be a non-empty string path")
		}
		return
	}
	if value == nil {
		return
	}
	if s, ok := value.(string); !ok || s == "" {
		rep.taskf(KindField, index, "", "kickoff_prompt", "must be null or a non-empty string path")
	}
}

// quoteValue renders a decoded JSON value for inclusion in a diagnostic.
func quoteValue(value any) string {
	switch v := value.(type) {
	case nil:
		return "null"
	case string:
		return fmt.Sprintf("%q", v)
	case json.Number:
		return v.String()
	case bool:
		return fmt.Sprintf("%t", v)
	default:
		return fmt.Sprintf("%v", v)
	}
}
