package pack

import (
	"sort"
	"strings"
)

// validatePlatformModel enforces the per-slice cross-platform integration
// structure. The pack opts in with meta.schema_version >= 2 plus a non-empty
// meta.platforms_required; older packs skip the pass entirely.
//
// Model, per slice X:
//   - X-integ-core (integration): merges code+tests, primary platform green
//   - X-integ-<platform> (integration, platform set): per-platform fix-up,
//     depends on core
//   - X-integ (integration): final aggregator, depends on core and every
//     platform task
//
// When WSL coverage is bundled, the Linux platform task must carry the WSL
// smoke dispatch and no separate X-integ-wsl task may exist.
func validatePlatformModel(doc *Document, rep *Report) {
	meta := &doc.Meta
	if meta.SchemaVersion < PlatformModelSchemaVersion {
		return
	}
	if len(meta.PlatformsRequired) == 0 {
		return
	}

	effective := uniquePlatforms(meta.EffectivePlatforms())
	byID := doc.tasksByID()
	bundledWSL := meta.WSLRequired && meta.WSLTaskMode == WSLModeBundled

	// Discover slices from the platform integration task ids present.
	slices := make(map[string]map[Platform]bool)
	for id, task := range byID {
		if task.Type != TypeIntegration {
			continue
		}
		for _, platform := range effective {
			suffix := "-integ-" + platform.String()
			if strings.HasSuffix(id, suffix) {
				sliceID := strings.TrimSuffix(id, suffix)
				if slices[sliceID] == nil {
					slices[sliceID] = make(map[Platform]bool)
				}
				slices[sliceID][platform] = true
				break
			}
		}
	}

	if len(slices) == 0 {
		rep.docf(KindStructuralModel,
			"meta.schema_version>=%d and meta.platforms_required set, but no '*-integ-<platform>' integration tasks found",
			PlatformModelSchemaVersion)
		return
	}

	sliceIDs := make([]string, 0, len(slices))
	for sliceID := range slices {
		sliceIDs = append(sliceIDs, sliceID)
	}
	sort.Strings(sliceIDs)

	for _, sliceID := range sliceIDs {
		present := slices[sliceID]
		var missing []string
		for _, platform := range effective {
			if !present[platform] {
				missing = append(missing, platform.String())
			}
		}
		if len(missing) > 0 {
			sort.Strings(missing)
			rep.docf(KindStructuralModel, "slice %q missing required platform integration task(s): %s",
				sliceID, strings.Join(missing, ", "))
		}

		coreID := sliceID + "-integ-core"
		finalID := sliceID + "-integ"

		core := byID[coreID]
		if core == nil {
			rep.docf(KindStructuralModel, "missing required core integration task: %q", coreID)
		} else if core.Type != TypeIntegration {
			rep.docf(KindStructuralModel, "%q must have type=integration", coreID)
		}

		final := byID[finalID]
		if final == nil {
			rep.docf(KindStructuralModel, "missing required final integration task: %q", finalID)
		} else if final.Type != TypeIntegration {
			rep.docf(KindStructuralModel, "%q must have type=integration", finalID)
		}

		// Dependency wiring needs both anchors.
		if core == nil || final == nil {
			continue
		}

		if bundledWSL {
			wslID := sliceID + "-integ-" + PlatformWSL.String()
			if byID[wslID] != nil {
				rep.docf(KindStructuralModel,
					"%q exists but meta.wsl_task_mode='bundled' (remove the task or set meta.wsl_task_mode='separate')", wslID)
			}
		}

		for _, platform := range effective {
			platformID := sliceID + "-integ-" + platform.String()
			platformTask := byID[platformID]
			if platformTask == nil {
				continue
			}
			if platformTask.Type != TypeIntegration {
				rep.docf(KindStructuralModel, "%q must have type=integration", platformID)
				continue
			}
			if platformTask.Platform != platform {
				rep.docf(KindStructuralModel, "%q must set platform=%q", platformID, platform)
			}

			if !rawContainsString(platformTask.rawValue("depends_on"), coreID) {
				rep.docf(KindStructuralModel, "%q depends_on must include %q", platformID, coreID)
			}

			if bundledWSL && platform == PlatformLinux {
				linkage := platformTask.linkageText(platformTask.References, platformTask.EndChecklist)
				if !strings.Contains(linkage, "--run-wsl") && !strings.Contains(linkage, "run_wsl") {
					rep.docf(KindStructuralModel,
						"%q must include WSL smoke dispatch (expected '--run-wsl') because meta.wsl_required=true and meta.wsl_task_mode='bundled'",
						platformID)
				}
			}
		}

		finalDeps, ok := final.rawValue("depends_on").([]any)
		if !ok {
			rep.docf(KindStructuralModel, "%q depends_on must be an array", finalID)
			continue
		}
		if !listContainsString(finalDeps, coreID) {
			rep.docf(KindStructuralModel, "%q depends_on must include %q", finalID, coreID)
		}
		for _, platform := range effective {
			platformID := sliceID + "-integ-" + platform.String()
			if byID[platformID] != nil && !listContainsString(finalDeps, platformID) {
				rep.docf(KindStructuralModel, "%q depends_on must include %q", finalID, platformID)
			}
		}
	}
}

// uniquePlatforms deduplicates while preserving first-seen order. Duplicate
// platforms_required entries are a meta defect already; the structural pass
// must still not double-report per-platform findings.
func uniquePlatforms(platforms []Platform) []Platform {
	seen := make(map[Platform]bool, len(platforms))
	unique := platforms[:0:0]
	for _, platform := range platforms {
		if !seen[platform] {
			seen[platform] = true
			unique = append(unique, platform)
		}
	}
	return unique
}

// listContainsString reports whether a decoded JSON array contains the given
// string. Non-string elements are skipped rather than failing the lookup.
func listContainsString(items []any, s string) bool {
	for _, item := range items {
		if str, ok := item.(string); ok && str == s {
			return true
		}
	}
	return false
}

// rawContainsString is listContainsString over an unasserted raw value;
// non-array values never contain anything.
func rawContainsString(value any, s string) bool {
	items, ok := value.([]any)
	if !ok {
		return false
	}
	return listContainsString(items, s)
}
