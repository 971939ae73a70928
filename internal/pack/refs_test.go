package pack

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"

	"github.com/Iron-Ham/planpack/internal/testutil"
)

func runRefsPass(t *testing.T, fsys afero.Fs, doc *Document) *Report {
	t.Helper()
	rep := NewReport(doc.Path)
	v := NewValidator(fsys, nil)
	v.validateReferences(doc, rep)
	return rep
}

func TestValidateReferences_UnknownIDs(t *testing.T) {
	doc := docFromRaw(nil,
		rawTask("a", "ops", map[string]any{"depends_on": []any{"ghost"}}),
		rawTask("b", "ops", map[string]any{"concurrent_with": []any{"a", "phantom"}}),
	)
	rep := runRefsPass(t, testutil.NewPackFS(t), doc)

	requireHas(t, rep, `.depends_on: unknown task id "ghost" (if external, add it to tasks.json meta.external_task_ids)`)
	requireHas(t, rep, `.concurrent_with: unknown task id "phantom"`)
	if rep.Count() != 2 {
		t.Errorf("expected 2 diagnostics, got %d:\n%v", rep.Count(), rep.Lines())
	}
}

func TestValidateReferences_ExternalIDsResolve(t *testing.T) {
	doc := docFromRaw(nil, rawTask("a", "ops", map[string]any{"depends_on": []any{"EXT-1"}}))
	doc.Meta = Meta{SchemaVersion: 1, ExternalTaskIDs: []string{"EXT-1"}}
	rep := runRefsPass(t, testutil.NewPackFS(t), doc)
	requireClean(t, rep)
}

func TestValidateReferences_IntegrationSelfReference(t *testing.T) {
	doc := docFromRaw(nil, rawTask("a-integ", "integration", map[string]any{"integration_task": "other"}))
	rep := runRefsPass(t, testutil.NewPackFS(t), doc)
	requireHas(t, rep, "integration tasks should set integration_task to their own id")

	doc = docFromRaw(nil, rawTask("a-integ", "integration", nil))
	rep = runRefsPass(t, testutil.NewPackFS(t), doc)
	requireClean(t, rep)
}

func TestValidateReferences_IntegrationTaskTarget(t *testing.T) {
	doc := docFromRaw(nil,
		rawTask("a-code", "code", map[string]any{"integration_task": "ghost"}),
		rawTask("b-test", "test", map[string]any{"integration_task": "ops-1"}),
		rawTask("ops-1", "ops", nil),
	)
	rep := runRefsPass(t, testutil.NewPackFS(t), doc)
	requireHas(t, rep, `.integration_task: unknown task id "ghost"`)
	requireHas(t, rep, `"ops-1" must reference a task with type=integration`)
}

func TestValidateReferences_EmptyIntegrationTaskNotReReported(t *testing.T) {
	// Requiredness of the field belongs to the field pass; the reference
	// pass must not add a second diagnostic for the same omission.
	doc := docFromRaw(nil, rawTask("a-code", "code", nil))
	rep := runRefsPass(t, testutil.NewPackFS(t), doc)
	requireClean(t, rep)
}

func TestValidateReferences_KickoffPrompt(t *testing.T) {
	fsys := testutil.NewPackFS(t)
	inside := testutil.WriteKickoff(t, fsys, "/packs/feat", "a.md")
	testutil.WriteFile(t, fsys, "/elsewhere/b.md", "# Kickoff\n")

	doc := docFromRaw(nil,
		rawTask("a", "ops", map[string]any{"kickoff_prompt": inside}),
		rawTask("b", "ops", map[string]any{"kickoff_prompt": "/elsewhere/b.md"}),
		rawTask("c", "ops", map[string]any{"kickoff_prompt": "/packs/feat/kickoff_prompts/missing.md"}),
	)
	rep := runRefsPass(t, fsys, doc)

	requireHas(t, rep, `.kickoff_prompt: must live under feature dir: "/elsewhere/b.md"`)
	requireHas(t, rep, `.kickoff_prompt: file does not exist: "/packs/feat/kickoff_prompts/missing.md"`)
	if len(rep.ForTask("a")) != 0 {
		t.Errorf("task a should be clean, got %v", rep.ForTask("a"))
	}
}

func TestValidateSmokeLinkage(t *testing.T) {
	fsys := testutil.NewPackFS(t)
	doc := docFromRaw(nil,
		rawTask("a-integ", "integration", map[string]any{"references": []any{"docs/notes.md"}}),
		rawTask("b-integ", "integration", map[string]any{"end_checklist": []any{"run smoke/check.sh"}}),
		rawTask("c", "ops", nil),
	)

	// Without a smoke directory the check is skipped entirely.
	rep := NewReport(doc.Path)
	NewValidator(fsys, nil).validateSmokeLinkage(doc, rep)
	requireClean(t, rep)

	testutil.MkDir(t, fsys, "/packs/feat/smoke")
	rep = NewReport(doc.Path)
	NewValidator(fsys, nil).validateSmokeLinkage(doc, rep)

	requireHas(t, rep, "integration task must reference smoke scripts in references/end_checklist")
	if len(rep.ForTask("a-integ")) != 1 {
		t.Errorf("expected one diagnostic for a-integ, got %v", rep.Lines())
	}
	if len(rep.ForTask("b-integ")) != 0 || len(rep.ForTask("c")) != 0 {
		t.Errorf("unexpected diagnostics: %v", rep.Lines())
	}
}

func TestPathWithin(t *testing.T) {
	tests := []struct {
		dir  string
		path string
		want bool
	}{
		{"/packs/feat", "/packs/feat/kickoff_prompts/a.md", true},
		{"/packs/feat", "/packs/feat", true},
		{"/packs/feat", "/packs/feat/../other/a.md", false},
		{"/packs/feat", "/packs/other/a.md", false},
		{"/packs/feat", "/packs/feature-two/a.md", false},
		{"packs/feat", "packs/feat/a.md", true},
	}
	for _, tt := range tests {
		if got := pathWithin(tt.dir, tt.path); got != tt.want {
			t.Errorf("pathWithin(%q, %q) = %v, want %v", tt.dir, tt.path, got, tt.want)
		}
	}
}

func TestPathWithin_MixedAbsoluteAndRelative(t *testing.T) {
	cwd, err := os.Getwd()
	if err != nil {
		t.Fatalf("failed to get working directory: %v", err)
	}

	// A relative feature dir must still contain an absolute path that
	// resolves under it, and vice versa.
	if !pathWithin("packs/feat", filepath.Join(cwd, "packs/feat/kickoff_prompts/a.md")) {
		t.Error("absolute path under relative dir reported out of scope")
	}
	if !pathWithin(filepath.Join(cwd, "packs/feat"), "packs/feat/a.md") {
		t.Error("relative path under absolute dir reported out of scope")
	}
	if pathWithin("packs/feat", filepath.Join(cwd, "packs/other/a.md")) {
		t.Error("absolute path outside relative dir reported in scope")
	}
}
