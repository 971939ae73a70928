package pack

import (
	"bytes"
	"encoding/json"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/Iron-Ham/planpack/internal/errors"
)

// Load reads and parses <featureDir>/tasks.json.
//
// A missing document is an invocation-level failure and is returned as an
// error wrapping errors.ErrDocumentMissing; the caller maps it to exit
// status 2. Parse and shape defects are fatal diagnostics: the returned
// report carries exactly one of them, Fatal is set, and the document is
// nil. On success the document has its raw tasks and best-effort typed task
// views populated; Meta is filled later by the meta pass.
func Load(fsys afero.Fs, featureDir string) (*Document, *Report, error) {
	featureDir = filepath.Clean(featureDir)
	path := filepath.Join(featureDir, DocumentName)
	report := NewReport(path)

	info, err := fsys.Stat(path)
	if err != nil || info.IsDir() {
		return nil, report, errors.Wrap(errors.ErrDocumentMissing, path)
	}

	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		return nil, report, errors.NewDocumentError("cannot read document", err).WithPath(path)
	}

	value, err := decodeDocument(data)
	if err != nil {
		report.fatalf(KindParse, "invalid JSON: %v", err)
		return nil, report, nil
	}

	root, ok := value.(map[string]any)
	if !ok {
		report.fatalf(KindShape, "expected top-level JSON object with a `tasks` array, got %s", jsonTypeName(value))
		return nil, report, nil
	}

	rawTasksValue, ok := root["tasks"]
	if !ok {
		report.fatalf(KindShape, "missing top-level key `tasks`")
		return nil, report, nil
	}

	items, ok := rawTasksValue.([]any)
	if !ok {
		report.fatalf(KindShape, "`tasks` must be an array, got %s", jsonTypeName(rawTasksValue))
		return nil, report, nil
	}

	rawTasks := make([]map[string]any, 0, len(items))
	for _, item := range items {
		object, ok := item.(map[string]any)
		if !ok {
			report.fatalf(KindShape, "every entry in `tasks` must be an object")
			return nil, report, nil
		}
		rawTasks = append(rawTasks, object)
	}

	doc := &Document{
		Path:       path,
		FeatureDir: featureDir,
		rawTasks:   rawTasks,
		Tasks:      make([]Task, len(rawTasks)),
	}
	for i, raw := range rawTasks {
		doc.Tasks[i] = newTask(i, raw)
	}

	// The meta block is kept raw here; the meta pass owns its typing.
	if metaValue, ok := root["meta"]; ok && metaValue != nil {
		if metaObject, ok := metaValue.(map[string]any); ok {
			doc.rawMeta = metaObject
		} else {
			report.docf(KindMeta, "meta must be an object when present")
		}
	}

	return doc, report, nil
}

// decodeDocument parses the document bytes. Numbers are decoded as
// json.Number so integer fields can reject fractional values, and trailing
// garbage after the document is treated as a parse failure.
func decodeDocument(data []byte) (any, error) {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()

	var value any
	if err := decoder.Decode(&value); err != nil {
		return nil, err
	}
	if decoder.More() {
		return nil, errors.New("trailing data after JSON document")
	}
	return value, nil
}

// jsonTypeName names a decoded JSON value's type for diagnostics.
func jsonTypeName(value any) string {
	switch value.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case string:
		return "string"
	case json.Number:
		return "number"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return "unknown"
	}
}
