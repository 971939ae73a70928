package pack

import (
	"testing"
)

func automationMeta() Meta {
	return Meta{
		SchemaVersion: AutomationSchemaVersion,
		Feature:       "feat",
		Automation:    Automation{Enabled: true, OrchestrationBranch: "orch/feat"},
	}
}

func runAutomationPass(meta Meta, rawTasks ...map[string]any) *Report {
	doc := docFromRaw(nil, rawTasks...)
	doc.Meta = meta
	rep := NewReport(doc.Path)
	validateAutomation(doc, rep)
	return rep
}

// automationTask layers the structured automation fields over rawTask.
func automationTask(id, taskType, branch string, overrides map[string]any) map[string]any {
	task := rawTask(id, taskType, map[string]any{
		"git_branch":            branch,
		"required_make_targets": []any{},
	})
	if taskType == "integration" {
		task["merge_to_orchestration"] = false
	}
	for key, value := range overrides {
		task[key] = value
	}
	return task
}

func cleanupTask() map[string]any {
	return rawTask(CleanupTaskID, "ops", map[string]any{
		"kickoff_prompt": "/packs/feat/kickoff_prompts/cleanup.md",
	})
}

func TestValidateAutomation_OptInGate(t *testing.T) {
	// Enabled without the schema bump is an invalid opt-in.
	meta := Meta{SchemaVersion: 2, Automation: Automation{Enabled: true}}
	rep := runAutomationPass(meta)
	requireHas(t, rep, "meta.automation.enabled=true requires meta.schema_version >= 3")
	if rep.Count() != 1 {
		t.Errorf("expected 1 diagnostic, got %d:\n%v", rep.Count(), rep.Lines())
	}

	// Schema 3 without automation enabled is equally invalid.
	rep = runAutomationPass(Meta{SchemaVersion: 3})
	requireHas(t, rep, "meta.schema_version >= 3 requires meta.automation.enabled=true")

	// Older packs without automation are untouched.
	rep = runAutomationPass(Meta{SchemaVersion: 1})
	requireClean(t, rep)
}

func TestValidateAutomation_MetaRequirements(t *testing.T) {
	meta := automationMeta()
	meta.Feature = ""
	meta.Automation.OrchestrationBranch = ""
	rep := runAutomationPass(meta, cleanupTask())

	requireHas(t, rep, "requires meta.feature to be a non-empty string")
	requireHas(t, rep, "requires meta.automation.orchestration_branch to be a non-empty string")
}

func TestValidateAutomation_CleanupTask(t *testing.T) {
	rep := runAutomationPass(automationMeta())
	requireHas(t, rep, "requires an ops task with id 'FZ-feature-cleanup'")

	rep = runAutomationPass(automationMeta(), rawTask(CleanupTaskID, "code", map[string]any{
		"integration_task": "x",
		"kickoff_prompt":   "/elsewhere/cleanup.md",
	}))
	requireHas(t, rep, "'FZ-feature-cleanup' must have type='ops'")
	requireHas(t, rep, "'FZ-feature-cleanup' must set worktree=null")
	requireHas(t, rep, "'FZ-feature-cleanup' kickoff_prompt must live under feature_dir/kickoff_prompts")

	rep = runAutomationPass(automationMeta(), rawTask(CleanupTaskID, "ops", nil))
	requireHas(t, rep, "'FZ-feature-cleanup' must have a kickoff_prompt path")

	rep = runAutomationPass(automationMeta(), cleanupTask())
	requireClean(t, rep)
}

func TestValidateAutomation_StructuredFields(t *testing.T) {
	rep := runAutomationPass(automationMeta(),
		cleanupTask(),
		rawTask("a-integ", "integration", nil),
	)
	requireHas(t, rep, ".git_branch: required non-empty string for automation packs")
	requireHas(t, rep, ".required_make_targets: required array of strings (may be empty) for automation packs")
	requireHas(t, rep, ".merge_to_orchestration: required boolean for integration tasks in automation packs")

	rep = runAutomationPass(automationMeta(),
		cleanupTask(),
		automationTask("a-integ", "integration", "feat/a", map[string]any{
			"required_make_targets": []any{"build", 2},
		}),
	)
	requireHas(t, rep, ".required_make_targets: must be an array of strings")
}

func TestValidateAutomation_OpsTasksExempt(t *testing.T) {
	// Ops and investigation tasks carry no automation fields.
	rep := runAutomationPass(automationMeta(),
		cleanupTask(),
		rawTask("inv-1", "investigation", nil),
	)
	requireClean(t, rep)
}

func TestValidateAutomation_DuplicateBranches(t *testing.T) {
	rep := runAutomationPass(automationMeta(),
		cleanupTask(),
		automationTask("a-code", "code", "feat/same", map[string]any{
			"integration_task": "a-integ", "concurrent_with": []any{"a-test"},
		}),
		automationTask("a-test", "test", "feat/same", map[string]any{
			"integration_task": "a-integ", "concurrent_with": []any{"a-code"},
		}),
		automationTask("a-integ", "integration", "feat/integ", nil),
	)
	requireHas(t, rep, "duplicate git_branch values (must be unique): feat/same")
}

func TestValidateAutomation_CodeTestPairing(t *testing.T) {
	// Missing twin.
	rep := runAutomationPass(automationMeta(),
		cleanupTask(),
		automationTask("a-code", "code", "feat/a-code", map[string]any{"integration_task": "x"}),
	)
	requireHas(t, rep, `automation packs require a matching test task "a-test" for code task "a-code"`)

	// Mis-typed pair members.
	rep = runAutomationPass(automationMeta(),
		cleanupTask(),
		automationTask("b-code", "ops", "feat/b-code", nil),
	)
	requireHas(t, rep, `"b-code" ends with '-code' but has type="ops"`)

	// Wiring defects: one-way concurrency and split integration targets.
	rep = runAutomationPass(automationMeta(),
		cleanupTask(),
		automationTask("c-code", "code", "feat/c-code", map[string]any{
			"integration_task": "c-integ", "concurrent_with": []any{},
		}),
		automationTask("c-test", "test", "feat/c-test", map[string]any{
			"integration_task": "other-integ", "concurrent_with": []any{"c-code"},
		}),
	)
	requireHas(t, rep, `"c-code".concurrent_with must include "c-test" (parallel code/test is required)`)
	requireHas(t, rep, `"c-code" and "c-test" must share the same integration_task (got "c-integ" vs "other-integ")`)
	if reportHas(rep, `"c-test".concurrent_with must include`) {
		t.Errorf("test side concurrency is wired, got:\n%v", rep.Lines())
	}
}

func TestValidateAutomation_ValidPack(t *testing.T) {
	rep := runAutomationPass(automationMeta(),
		cleanupTask(),
		automationTask("a-code", "code", "feat/a-code", map[string]any{
			"integration_task": "a-integ", "concurrent_with": []any{"a-test"},
		}),
		automationTask("a-test", "test", "feat/a-test", map[string]any{
			"integration_task": "a-integ", "concurrent_with": []any{"a-code"},
		}),
		automationTask("a-integ", "integration", "feat/a-integ", nil),
	)
	requireClean(t, rep)
}
