package pack

import (
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// validateReferences checks cross-task id references and kickoff prompt
// paths.
//
// depends_on and concurrent_with entries must name a task in this document
// or an id declared in meta.external_task_ids. integration_task wiring is
// checked against the referenced task's type; requiredness of the field
// itself belongs to the field pass, so an empty value is not re-reported
// here. Kickoff prompt paths must exist on the filesystem and resolve under
// the feature directory.
func (v *Validator) validateReferences(doc *Document, rep *Report) {
	byID := doc.tasksByID()

	for i := range doc.Tasks {
		task := &doc.Tasks[i]

		for _, field := range []struct {
			name string
			ids  []string
		}{
			{"depends_on", task.DependsOn},
			{"concurrent_with", task.ConcurrentWith},
		} {
			for _, ref := range field.ids {
				if _, ok := byID[ref]; ok || doc.Meta.IsExternalID(ref) {
					continue
				}
				rep.taskf(KindReference, i, task.ID, field.name,
					"unknown task id %q (if external, add it to tasks.json meta.external_task_ids)", ref)
			}
		}

		switch task.Type {
		case TypeIntegration:
			if task.IntegrationTask != "" && task.IntegrationTask != task.ID {
				rep.taskf(KindReference, i, task.ID, "integration_task",
					"integration tasks should set integration_task to their own id")
			}
		case TypeCode, TypeTest:
			if task.IntegrationTask == "" {
				break
			}
			target, ok := byID[task.IntegrationTask]
			if !ok {
				rep.taskf(KindReference, i, task.ID, "integration_task", "unknown task id %q", task.IntegrationTask)
			} else if target.Type != TypeIntegration {
				rep.taskf(KindReference, i, task.ID, "integration_task",
					"%q must reference a task with type=integration", task.IntegrationTask)
			}
		}

		if task.KickoffPrompt != "" {
			exists, err := afero.Exists(v.fs, task.KickoffPrompt)
			if err != nil || !exists {
				rep.taskf(KindReference, i, task.ID, "kickoff_prompt", "file does not exist: %q", task.KickoffPrompt)
			} else if !pathWithin(doc.FeatureDir, task.KickoffPrompt) {
				rep.taskf(KindReference, i, task.ID, "kickoff_prompt", "must live under feature dir: %q", task.KickoffPrompt)
			}
		}
	}
}

// validateSmokeLinkage requires every integration task to cross-reference
// the feature's smoke scripts once a smoke/ directory exists. The check is
// a substring scan over references and end_checklist; absent smoke/ means
// the pack has no smoke coverage yet and the check is skipped entirely.
func (v *Validator) validateSmokeLinkage(doc *Document, rep *Report) {
	smokeDir := filepath.Join(doc.FeatureDir, "smoke")
	isDir, err := afero.DirExists(v.fs, smokeDir)
	if err != nil || !isDir {
		return
	}

	for i := range doc.Tasks {
		task := &doc.Tasks[i]
		if task.Type != TypeIntegration {
			continue
		}
		linkage := task.linkageText(task.References, task.EndChecklist)
		if !strings.Contains(linkage, "smoke/") {
			rep.taskf(KindLinkage, i, task.ID, "",
				"integration task must reference smoke scripts in references/end_checklist")
		}
	}
}

// pathWithin reports whether path resolves inside dir (or is dir itself).
// Mixed relative/absolute inputs are resolved against the working directory
// first; the comparison itself is lexical, no symlink resolution is
// performed.
func pathWithin(dir, path string) bool {
	if filepath.IsAbs(dir) != filepath.IsAbs(path) {
		var err error
		if dir, err = filepath.Abs(dir); err != nil {
			return false
		}
		if path, err = filepath.Abs(path); err != nil {
			return false
		}
	}
	rel, err := filepath.Rel(filepath.Clean(dir), filepath.Clean(path))
	if err != nil {
		return false
	}
	if rel == "." {
		return true
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return false
	}
	return !filepath.IsAbs(rel)
}
