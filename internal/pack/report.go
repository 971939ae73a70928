package pack

import "fmt"

// -----------------------------------------------------------------------------
// Diagnostic Kinds
// -----------------------------------------------------------------------------

// Kind classifies a validation diagnostic by the pass family that produced
// it.
//
// Parse and Shape diagnostics are fatal: the pipeline stops after emitting
// exactly one of them, because every later check assumes a parsed, shaped
// document. All other kinds accumulate; a single run reports every defect
// found.
type Kind string

const (
	// KindParse marks a malformed document (invalid JSON). Fatal.
	KindParse Kind = "parse"

	// KindShape marks a structurally unusable document (no tasks array,
	// non-object task entries). Fatal.
	KindShape Kind = "shape"

	// KindMeta marks meta-block typing or consistency defects.
	KindMeta Kind = "meta"

	// KindField marks per-task field typing, enum, or requiredness defects.
	KindField Kind = "field"

	// KindReference marks dangling ids, mistyped linkage, and missing or
	// out-of-scope file paths.
	KindReference Kind = "reference"

	// KindLinkage marks missing cross-references to smoke scripts or
	// gate report files.
	KindLinkage Kind = "linkage"

	// KindStructuralModel marks platform-triad or automation-triad shape
	// and wiring violations.
	KindStructuralModel Kind = "structural_model"
)

// String returns the string representation of the kind.
func (k Kind) String() string {
	return string(k)
}

// IsFatal returns true if diagnostics of this kind halt the pipeline.
func (k Kind) IsFatal() bool {
	switch k {
	case KindParse, KindShape:
		return true
	case KindMeta, KindField, KindReference, KindLinkage, KindStructuralModel:
		return false
	default:
		return false
	}
}

// -----------------------------------------------------------------------------
// Diagnostic
// -----------------------------------------------------------------------------

// Diagnostic is a single validation finding with a structured location.
//
// Task-scoped diagnostics render as
//
//	<path>:tasks[<index>](<id>).<field>: <message>
//
// with the (<id>) and .<field> parts present only when known. Document
// level diagnostics render as <path>: <message>.
type Diagnostic struct {
	// Kind classifies the diagnostic.
	Kind Kind `json:"kind"`

	// Path is the document path the diagnostic refers to.
	Path string `json:"path"`

	// TaskIndex is the position of the offending task in the tasks array,
	// or -1 for document-level diagnostics.
	TaskIndex int `json:"task_index"`

	// TaskID is the offending task's id, when it has a usable one.
	TaskID string `json:"task_id,omitempty"`

	// Field names the offending field, when the defect is field-scoped.
	Field string `json:"field,omitempty"`

	// Message is the human-readable description of the defect.
	Message string `json:"message"`
}

// Location renders the diagnostic's location prefix.
func (d Diagnostic) Location() string {
	loc := d.Path
	if d.TaskIndex >= 0 {
		if d.TaskID != "" {
			loc = fmt.Sprintf("%s:tasks[%d](%s)", d.Path, d.TaskIndex, d.TaskID)
		} else {
			loc = fmt.Sprintf("%s:tasks[%d]", d.Path, d.TaskIndex)
		}
	}
	if d.Field != "" {
		loc += "." + d.Field
	}
	return loc
}

// String renders the diagnostic as one report line.
func (d Diagnostic) String() string {
	return d.Location() + ": " + d.Message
}

// -----------------------------------------------------------------------------
// Report
// -----------------------------------------------------------------------------

// Report accumulates diagnostics across all validation passes for one
// document. It is the single mutable sink threaded through the pipeline;
// passes append to it and never stop at the first violation.
type Report struct {
	// Path is the document path the report covers.
	Path string `json:"path"`

	// Diagnostics holds every finding in emission order.
	Diagnostics []Diagnostic `json:"diagnostics"`

	// Fatal is true when a parse or shape diagnostic halted the pipeline.
	Fatal bool `json:"fatal"`
}

// NewReport creates an empty report for the document at path.
func NewReport(path string) *Report {
	return &Report{Path: path}
}

// OK returns true when validation found no defects.
func (r *Report) OK() bool {
	return len(r.Diagnostics) == 0
}

// Count returns the total number of diagnostics.
func (r *Report) Count() int {
	return len(r.Diagnostics)
}

// CountByKind returns the number of diagnostics of the given kind.
func (r *Report) CountByKind(kind Kind) int {
	count := 0
	for _, d := range r.Diagnostics {
		if d.Kind == kind {
			count++
		}
	}
	return count
}

// ForTask returns every diagnostic attached to the given task id.
func (r *Report) ForTask(id string) []Diagnostic {
	var matched []Diagnostic
	for _, d := range r.Diagnostics {
		if d.TaskID == id {
			matched = append(matched, d)
		}
	}
	return matched
}

// Lines renders every diagnostic as report lines, in emission order.
func (r *Report) Lines() []string {
	lines := make([]string, 0, len(r.Diagnostics))
	for _, d := range r.Diagnostics {
		lines = append(lines, d.String())
	}
	return lines
}

// docf records a document-level diagnostic.
func (r *Report) docf(kind Kind, format string, args ...any) {
	r.Diagnostics = append(r.Diagnostics, Diagnostic{
		Kind:      kind,
		Path:      r.Path,
		TaskIndex: -1,
		Message:   fmt.Sprintf(format, args...),
	})
}

// taskf records a task-scoped diagnostic. Pass field "" for defects that
// are not attached to a single field.
func (r *Report) taskf(kind Kind, index int, id, field, format string, args ...any) {
	r.Diagnostics = append(r.Diagnostics, Diagnostic{
		Kind:      kind,
		Path:      r.Path,
		TaskIndex: index,
		TaskID:    id,
		Field:     field,
		Message:   fmt.Sprintf(format, args...),
	})
}

// fatalf records a fatal document-level diagnostic and marks the report as
// halted.
func (r *Report) fatalf(kind Kind, format string, args ...any) {
	r.docf(kind, format, args...)
	r.Fatal = true
}
