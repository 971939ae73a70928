package pack

import (
	"encoding/json"
	"strings"
)

// validateMeta validates the document's optional meta block and returns the
// normalized typed view.
//
// Meta defects are accumulated, never fatal: every field falls back to a
// usable default after being reported so later passes can still run. The
// only value-changing normalization is filling wsl_task_mode=bundled when
// wsl_required is set without an explicit mode.
func validateMeta(doc *Document, rep *Report) Meta {
	meta := Meta{SchemaVersion: DefaultSchemaVersion}
	raw := doc.rawMeta
	if raw == nil {
		return meta
	}

	if value, ok := raw["schema_version"]; ok && value != nil {
		if version, ok := intValue(value); ok && version >= 1 {
			meta.SchemaVersion = version
		} else {
			rep.docf(KindMeta, "meta.schema_version must be an integer >= 1")
		}
	}

	if value, ok := raw["platforms_required"]; ok && value != nil {
		platforms, ok := stringList(value)
		if !ok {
			rep.docf(KindMeta, "meta.platforms_required must be an array of strings")
		} else {
			var unknown []string
			for _, name := range platforms {
				meta.PlatformsRequired = append(meta.PlatformsRequired, Platform(name))
				if !Platform(name).IsRequirable() {
					unknown = append(unknown, name)
				}
			}
			if unknown = sortedUnique(unknown); len(unknown) > 0 {
				rep.docf(KindMeta, "meta.platforms_required contains unknown platform(s): %s", strings.Join(unknown, ", "))
				if containsString(unknown, string(PlatformWSL)) {
					rep.docf(KindMeta, "do not include 'wsl' in meta.platforms_required; use meta.wsl_required=true and meta.wsl_task_mode='bundled'|'separate'")
				}
			}
			if dupes := duplicates(platforms); len(dupes) > 0 {
				rep.docf(KindMeta, "meta.platforms_required contains duplicate platform(s): %s", strings.Join(dupes, ", "))
			}
		}
	}

	if value, ok := raw["wsl_required"]; ok && value != nil {
		if required, ok := value.(bool); ok {
			meta.WSLRequired = required
		} else {
			rep.docf(KindMeta, "meta.wsl_required must be a boolean when present")
		}
	}

	if value, ok := raw["wsl_task_mode"]; ok && value != nil {
		mode, isString := value.(string)
		if !isString || !WSLTaskMode(mode).IsValid() {
			rep.docf(KindMeta, "meta.wsl_task_mode must be one of %s when present", strings.Join(wslTaskModeNames(), ", "))
		} else {
			meta.WSLTaskMode = WSLTaskMode(mode)
		}
		if !meta.WSLRequired {
			rep.docf(KindMeta, "meta.wsl_task_mode requires meta.wsl_required=true")
		}
	}

	// Back-compat convenience: WSL required without an explicit mode means
	// the bundled model.
	if meta.WSLRequired && meta.WSLTaskMode == "" {
		meta.WSLTaskMode = WSLModeBundled
	}

	if meta.WSLRequired {
		hasLinux := false
		for _, platform := range meta.PlatformsRequired {
			if platform == PlatformLinux {
				hasLinux = true
				break
			}
		}
		if !hasLinux {
			rep.docf(KindMeta, "meta.wsl_required=true requires meta.platforms_required to include 'linux'")
		}
	}

	if value, ok := raw["execution_gates"]; ok && value != nil {
		if gates, ok := value.(bool); ok {
			meta.ExecutionGates = gates
		} else {
			rep.docf(KindMeta, "meta.execution_gates must be a boolean when present")
		}
	}

	if feature, ok := raw["feature"].(string); ok {
		meta.Feature = feature
	}

	if automation, ok := raw["automation"].(map[string]any); ok {
		if enabled, ok := automation["enabled"].(bool); ok {
			meta.Automation.Enabled = enabled
		}
		if branch, ok := automation["orchestration_branch"].(string); ok {
			meta.Automation.OrchestrationBranch = branch
		}
	}

	if value, ok := raw["external_task_ids"]; ok && value != nil {
		if ids, ok := stringList(value); ok {
			meta.ExternalTaskIDs = ids
		} else {
			rep.docf(KindMeta, "meta.external_task_ids must be an array of strings")
		}
	}

	return meta
}

// intValue extracts an integer from a decoded JSON value. Fractional
// numbers are rejected, matching the document format's integer fields.
func intValue(value any) (int, bool) {
	number, ok := value.(json.Number)
	if !ok {
		return 0, false
	}
	n, err := number.Int64()
	if err != nil {
		return 0, false
	}
	return int(n), true
}
