package pack

import (
	"path/filepath"
	"strings"
)

// validateAutomation enforces the automation pack shape. The pack opts in
// with meta.schema_version >= 3 together with meta.automation.enabled=true;
// setting either without the other is itself a defect, so existing packs
// cannot drift into the automation contract by accident.
//
// Automation packs promise a machine-drivable graph: every code, test, and
// integration task carries branch and make-target metadata, integration
// tasks declare their merge behavior, a feature cleanup task exists, and
// every X-code task has an X-test twin wired for parallel execution.
func validateAutomation(doc *Document, rep *Report) {
	meta := &doc.Meta

	if meta.SchemaVersion < AutomationSchemaVersion {
		if meta.Automation.Enabled {
			rep.docf(KindStructuralModel, "meta.automation.enabled=true requires meta.schema_version >= %d", AutomationSchemaVersion)
		}
		return
	}
	if !meta.Automation.Enabled {
		rep.docf(KindStructuralModel, "meta.schema_version >= %d requires meta.automation.enabled=true", AutomationSchemaVersion)
		return
	}

	if meta.Feature == "" {
		rep.docf(KindStructuralModel, "meta.schema_version >= %d requires meta.feature to be a non-empty string", AutomationSchemaVersion)
	}
	if meta.Automation.OrchestrationBranch == "" {
		rep.docf(KindStructuralModel,
			"meta.schema_version >= %d requires meta.automation.orchestration_branch to be a non-empty string", AutomationSchemaVersion)
	}

	byID := doc.tasksByID()
	validateCleanupTask(doc, byID, rep)
	validateAutomationFields(doc, rep)
	validateCodeTestPairing(doc, byID, rep)
}

// validateCleanupTask checks the feature-level cleanup task required by the
// worktree retention model.
func validateCleanupTask(doc *Document, byID map[string]*Task, rep *Report) {
	cleanup := byID[CleanupTaskID]
	if cleanup == nil {
		rep.docf(KindStructuralModel, "meta.schema_version >= %d requires an ops task with id '%s'",
			AutomationSchemaVersion, CleanupTaskID)
		return
	}

	if cleanup.Type != TypeOps {
		rep.docf(KindStructuralModel, "'%s' must have type='ops'", CleanupTaskID)
	}
	if cleanup.rawValue("worktree") != nil {
		rep.docf(KindStructuralModel, "'%s' must set worktree=null", CleanupTaskID)
	}
	if cleanup.KickoffPrompt == "" {
		rep.docf(KindStructuralModel, "'%s' must have a kickoff_prompt path", CleanupTaskID)
	} else if !pathWithin(filepath.Join(doc.FeatureDir, "kickoff_prompts"), cleanup.KickoffPrompt) {
		rep.docf(KindStructuralModel, "'%s' kickoff_prompt must live under feature_dir/kickoff_prompts", CleanupTaskID)
	}
}

// validateAutomationFields checks the per-task structured automation fields
// on code, test, and integration tasks, and the global uniqueness of
// git_branch values.
func validateAutomationFields(doc *Document, rep *Report) {
	var branches []string

	for i := range doc.Tasks {
		task := &doc.Tasks[i]
		if task.ID == "" {
			continue
		}
		switch task.Type {
		case TypeCode, TypeTest, TypeIntegration:
		default:
			continue
		}

		if branch, ok := task.rawValue("git_branch").(string); ok && branch != "" {
			branches = append(branches, branch)
		} else {
			rep.taskf(KindStructuralModel, i, task.ID, "git_branch", "required non-empty string for automation packs")
		}

		targets := task.rawValue("required_make_targets")
		if targets == nil {
			rep.taskf(KindStructuralModel, i, task.ID, "required_make_targets",
				"required array of strings (may be empty) for automation packs")
		} else if _, ok := stringList(targets); !ok {
			rep.taskf(KindStructuralModel, i, task.ID, "required_make_targets", "must be an array of strings")
		}

		if task.Type == TypeIntegration {
			if _, ok := task.rawValue("merge_to_orchestration").(bool); !ok {
				rep.taskf(KindStructuralModel, i, task.ID, "merge_to_orchestration",
					"required boolean for integration tasks in automation packs")
			}
		}
	}

	if dupes := duplicates(branches); len(dupes) > 0 {
		rep.docf(KindStructuralModel, "duplicate git_branch values (must be unique): %s", strings.Join(dupes, ", "))
	}
}

// validateCodeTestPairing requires every X-code task to have an X-test twin
// wired for parallel execution against the same integration task, so the
// pair launcher never has to guess.
func validateCodeTestPairing(doc *Document, byID map[string]*Task, rep *Report) {
	seen := make(map[string]bool)

	for i := range doc.Tasks {
		codeID := doc.Tasks[i].ID
		if codeID == "" || !strings.HasSuffix(codeID, "-code") || seen[codeID] {
			continue
		}
		seen[codeID] = true

		codeTask := byID[codeID]
		if codeTask.Type != TypeCode {
			rep.docf(KindStructuralModel, "%q ends with '-code' but has type=%s", codeID, quoteValue(codeTask.rawValue("type")))
			continue
		}

		testID := strings.TrimSuffix(codeID, "-code") + "-test"
		testTask := byID[testID]
		if testTask == nil {
			rep.docf(KindStructuralModel, "automation packs require a matching test task %q for code task %q", testID, codeID)
			continue
		}
		if testTask.Type != TypeTest {
			rep.docf(KindStructuralModel, "%q must have type='test' (paired with %q)", testID, codeID)
		}

		if items, ok := codeTask.rawValue("concurrent_with").([]any); ok && !listContainsString(items, testID) {
			rep.docf(KindStructuralModel, "%q.concurrent_with must include %q (parallel code/test is required)", codeID, testID)
		}
		if items, ok := testTask.rawValue("concurrent_with").([]any); ok && !listContainsString(items, codeID) {
			rep.docf(KindStructuralModel, "%q.concurrent_with must include %q (parallel code/test is required)", testID, codeID)
		}

		if codeTask.IntegrationTask != testTask.IntegrationTask {
			rep.docf(KindStructuralModel, "%q and %q must share the same integration_task (got %s vs %s)",
				codeID, testID, quoteValue(codeTask.rawValue("integration_task")), quoteValue(testTask.rawValue("integration_task")))
		}
	}
}
