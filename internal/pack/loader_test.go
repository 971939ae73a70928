package pack

import (
	"testing"

	"github.com/Iron-Ham/planpack/internal/errors"
	"github.com/Iron-Ham/planpack/internal/testutil"
)

func TestLoad_MissingDocument(t *testing.T) {
	fsys := testutil.NewPackFS(t)

	_, report, err := Load(fsys, "/packs/feat")
	if err == nil {
		t.Fatal("expected error for missing document")
	}
	if !errors.Is(err, errors.ErrDocumentMissing) {
		t.Errorf("expected ErrDocumentMissing, got %v", err)
	}
	if report.Path != "/packs/feat/tasks.json" {
		t.Errorf("unexpected report path %q", report.Path)
	}
}

func TestLoad_DirectoryAsDocument(t *testing.T) {
	fsys := testutil.NewPackFS(t)
	testutil.MkDir(t, fsys, "/packs/feat/tasks.json")

	_, _, err := Load(fsys, "/packs/feat")
	if !errors.Is(err, errors.ErrDocumentMissing) {
		t.Errorf("expected ErrDocumentMissing for directory, got %v", err)
	}
}

func TestLoad_InvalidJSON(t *testing.T) {
	fsys := testutil.NewPackFS(t)
	testutil.WriteRawTasksJSON(t, fsys, "/packs/feat", "{")

	doc, report, err := Load(fsys, "/packs/feat")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if doc != nil {
		t.Error("expected nil document for invalid JSON")
	}
	if !report.Fatal {
		t.Error("expected fatal report")
	}
	if report.CountByKind(KindParse) != 1 {
		t.Errorf("expected 1 parse diagnostic, got %d", report.CountByKind(KindParse))
	}
	requireHas(t, report, "invalid JSON")
}

func TestLoad_TrailingData(t *testing.T) {
	fsys := testutil.NewPackFS(t)
	testutil.WriteRawTasksJSON(t, fsys, "/packs/feat", `{"tasks": []} {}`)

	_, report, err := Load(fsys, "/packs/feat")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !report.Fatal || report.CountByKind(KindParse) != 1 {
		t.Errorf("expected single fatal parse diagnostic, got:\n%v", report.Lines())
	}
}

func TestLoad_ShapeViolations(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"top level array", `[]`, "expected top-level JSON object with a `tasks` array, got array"},
		{"top level string", `"tasks"`, "got string"},
		{"missing tasks key", `{}`, "missing top-level key `tasks`"},
		{"tasks not array", `{"tasks": {}}`, "`tasks` must be an array, got object"},
		{"task entry not object", `{"tasks": [1]}`, "every entry in `tasks` must be an object"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fsys := testutil.NewPackFS(t)
			testutil.WriteRawTasksJSON(t, fsys, "/packs/feat", tt.content)

			doc, report, err := Load(fsys, "/packs/feat")
			if err != nil {
				t.Fatalf("Load returned error: %v", err)
			}
			if doc != nil {
				t.Error("expected nil document")
			}
			if !report.Fatal {
				t.Error("expected fatal report")
			}
			if report.Count() != 1 {
				t.Errorf("expected exactly one diagnostic, got %d", report.Count())
			}
			requireHas(t, report, tt.want)
		})
	}
}

func TestLoad_MetaNotObject(t *testing.T) {
	fsys := testutil.NewPackFS(t)
	testutil.WriteRawTasksJSON(t, fsys, "/packs/feat", `{"tasks": [], "meta": 5}`)

	doc, report, err := Load(fsys, "/packs/feat")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if doc == nil {
		t.Fatal("expected document despite meta defect")
	}
	if report.Fatal {
		t.Error("meta defect must not be fatal")
	}
	requireHas(t, report, "meta must be an object when present")
}

func TestLoad_Valid(t *testing.T) {
	fsys := testutil.NewPackFS(t)
	testutil.WriteRawTasksJSON(t, fsys, "/packs/feat",
		`{"meta": {"schema_version": 2}, "tasks": [{"id": "a", "type": "ops", "depends_on": ["b"]}, {"id": "b"}]}`)

	doc, report, err := Load(fsys, "/packs/feat")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	requireClean(t, report)

	if doc.Path != "/packs/feat/tasks.json" || doc.FeatureDir != "/packs/feat" {
		t.Errorf("unexpected paths: %q %q", doc.Path, doc.FeatureDir)
	}
	if len(doc.Tasks) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(doc.Tasks))
	}
	first := doc.Tasks[0]
	if first.Index != 0 || first.ID != "a" || first.Type != TypeOps {
		t.Errorf("unexpected typed view: %+v", first)
	}
	if len(first.DependsOn) != 1 || first.DependsOn[0] != "b" {
		t.Errorf("unexpected depends_on: %v", first.DependsOn)
	}
	if doc.rawMeta == nil {
		t.Error("expected raw meta to be retained")
	}
}

func TestLoad_TaskByIDLastWins(t *testing.T) {
	fsys := testutil.NewPackFS(t)
	testutil.WriteRawTasksJSON(t, fsys, "/packs/feat",
		`{"tasks": [{"id": "a", "name": "first"}, {"id": "a", "name": "second"}]}`)

	doc, _, err := Load(fsys, "/packs/feat")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	task := doc.TaskByID("a")
	if task == nil || task.Name != "second" {
		t.Errorf("expected last duplicate to win, got %+v", task)
	}
}
