package pack

import (
	"github.com/spf13/afero"

	"github.com/Iron-Ham/planpack/internal/logging"
)

// Validator runs the full validation pipeline for one Planning Pack.
//
// All filesystem access (document, kickoff prompts, smoke directory, gate
// reports) goes through the injected afero filesystem, so the rule logic
// can be exercised against an in-memory filesystem in tests. A Validator
// holds no per-run state; each ValidatePack call builds a fresh document
// and report.
type Validator struct {
	fs  afero.Fs
	log *logging.Logger
}

// NewValidator creates a Validator over the given filesystem. A nil logger
// disables logging.
func NewValidator(fsys afero.Fs, log *logging.Logger) *Validator {
	if log == nil {
		log = logging.NopLogger()
	}
	return &Validator{fs: fsys, log: log}
}

// ValidatePack validates <featureDir>/tasks.json against the full rule set.
//
// The pass order is fixed: shape, meta, task fields, references, smoke
// linkage, platform integration model, execution gates, automation. A parse
// or shape failure short-circuits with a single fatal diagnostic; every
// other pass always runs to completion and accumulates diagnostics into the
// returned report.
//
// The returned error is non-nil only for invocation-level failures (missing
// document, unreadable file); rule violations are reported through the
// report, never as errors.
func (v *Validator) ValidatePack(featureDir string) (*Report, error) {
	log := v.log.WithPack(featureDir)

	doc, report, err := Load(v.fs, featureDir)
	if err != nil {
		log.Error("cannot load planning pack document", "error", err)
		return report, err
	}
	if report.Fatal {
		log.Warn("document malformed, validation halted", "diagnostics", report.Count())
		return report, nil
	}

	pass := func(name string, run func()) {
		before := report.Count()
		run()
		log.WithPass(name).Debug("pass finished", "diagnostics", report.Count()-before)
	}
	pass("meta", func() { doc.Meta = validateMeta(doc, report) })
	pass("fields", func() { validateTaskFields(doc, report) })
	pass("references", func() { v.validateReferences(doc, report) })
	pass("smoke", func() { v.validateSmokeLinkage(doc, report) })
	pass("platform", func() { validatePlatformModel(doc, report) })
	pass("gates", func() { v.validateExecutionGates(doc, report) })
	pass("automation", func() { validateAutomation(doc, report) })

	log.Debug("validation finished",
		"tasks", len(doc.Tasks),
		"schema_version", doc.Meta.SchemaVersion,
		"diagnostics", report.Count(),
	)
	return report, nil
}
