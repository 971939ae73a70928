package pack

import (
	"path/filepath"
	"sort"
	"strings"
)

// validateExecutionGates enforces the execution gate artifacts when
// meta.execution_gates is true: a preflight report plus an ops task that
// references it, and a closeout report per slice cross-referenced from the
// slice's final integration task.
func (v *Validator) validateExecutionGates(doc *Document, rep *Report) {
	if !doc.Meta.ExecutionGates {
		return
	}

	preflightReport := filepath.Join(doc.FeatureDir, "execution_preflight_report.md")
	if !v.fileExists(preflightReport) {
		rep.docf(KindLinkage, "meta.execution_gates=true requires %q to exist", preflightReport)
	}

	byID := doc.tasksByID()
	preflight := byID[PreflightTaskID]
	if preflight == nil {
		rep.docf(KindStructuralModel, "meta.execution_gates=true requires a task with id '%s'", PreflightTaskID)
	} else {
		if preflight.Type != TypeOps {
			rep.docf(KindStructuralModel, "'%s' must have type='ops'", PreflightTaskID)
		}
		linkage := preflight.linkageText(preflight.References, preflight.StartChecklist, preflight.EndChecklist)
		if !strings.Contains(linkage, "execution_preflight_report.md") {
			rep.docf(KindLinkage, "'%s' must reference execution_preflight_report.md", PreflightTaskID)
		}
	}

	for _, sliceID := range finalIntegrationSlices(byID) {
		closeoutReport := filepath.Join(doc.FeatureDir, sliceID+"-closeout_report.md")
		if !v.fileExists(closeoutReport) {
			rep.docf(KindLinkage, "meta.execution_gates=true requires %q to exist", closeoutReport)
		}

		finalID := sliceID + "-integ"
		final := byID[finalID]
		if final == nil {
			continue
		}
		linkage := final.linkageText(final.References, final.EndChecklist)
		if !strings.Contains(linkage, sliceID+"-closeout_report.md") {
			rep.docf(KindLinkage, "%q must reference %s-closeout_report.md in references/end_checklist",
				finalID, sliceID)
		}
	}
}

// finalIntegrationSlices returns the sorted slice ids that have a final
// aggregator task (id ending in -integ) of type integration.
func finalIntegrationSlices(byID map[string]*Task) []string {
	var sliceIDs []string
	for id, task := range byID {
		if task.Type != TypeIntegration {
			continue
		}
		if strings.HasSuffix(id, "-integ") && !strings.HasSuffix(id, "-integ-core") {
			sliceIDs = append(sliceIDs, strings.TrimSuffix(id, "-integ"))
		}
	}
	sort.Strings(sliceIDs)
	return sliceIDs
}

// fileExists reports whether path exists and is a regular file.
func (v *Validator) fileExists(path string) bool {
	info, err := v.fs.Stat(path)
	return err == nil && !info.IsDir()
}
