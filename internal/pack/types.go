// Package pack provides the data model and validation engine for Planning
// Packs.
//
// A Planning Pack is a feature directory containing a tasks.json task-graph
// document plus supporting artifacts (kickoff prompts, smoke scripts,
// preflight and closeout reports). The document describes code, test,
// integration, ops, and investigation work items with dependency and
// concurrency metadata consumed by an external orchestrator.
//
// This package defines the core data types used throughout validation:
//   - Document model: Document, Task, Meta, Automation
//   - Closed enums: TaskType, TaskStatus, Platform, Runner, WSLTaskMode
//   - Reporting: Report, Diagnostic, Kind
//   - Graph: Graph (dependency ordering and cycle detection)
//
// Validation itself is a fixed sequence of accumulating passes; see
// Validator.ValidatePack.
package pack

import (
	"sort"
	"strings"
)

// -----------------------------------------------------------------------------
// Task Type
// -----------------------------------------------------------------------------

// TaskType classifies a task by the kind of work it performs.
//
// The type drives conditional requiredness of several fields: code, test,
// and integration tasks must carry a worktree and a kickoff prompt, and
// code/test tasks must name the integration task that merges their work.
type TaskType string

const (
	// TypeCode is an implementation task executed in its own worktree.
	TypeCode TaskType = "code"

	// TypeTest is a test-authoring task, usually paired with a code task.
	TypeTest TaskType = "test"

	// TypeIntegration merges code and test work and establishes a green
	// baseline. Integration tasks anchor the per-slice platform fan-out.
	TypeIntegration TaskType = "integration"

	// TypeOps is operational work (reports, gates, cleanup) that runs
	// outside any worktree.
	TypeOps TaskType = "ops"

	// TypeInvestigation is exploratory work with no merge obligations.
	TypeInvestigation TaskType = "investigation"
)

// String returns the string representation of the task type.
func (t TaskType) String() string {
	return string(t)
}

// IsValid returns true if this is a recognized task type.
func (t TaskType) IsValid() bool {
	switch t {
	case TypeCode, TypeTest, TypeIntegration, TypeOps, TypeInvestigation:
		return true
	default:
		return false
	}
}

// RequiresWorktree returns true if tasks of this type must declare a
// non-empty worktree and kickoff prompt.
func (t TaskType) RequiresWorktree() bool {
	switch t {
	case TypeCode, TypeTest, TypeIntegration:
		return true
	case TypeOps, TypeInvestigation:
		return false
	default:
		return false
	}
}

// taskTypeNames lists all valid task types, sorted for diagnostics.
func taskTypeNames() []string {
	return sortedNames(string(TypeCode), string(TypeTest), string(TypeIntegration), string(TypeOps), string(TypeInvestigation))
}

// -----------------------------------------------------------------------------
// Task Status
// -----------------------------------------------------------------------------

// TaskStatus represents the lifecycle state of a task as recorded by the
// planning workflow. The validator checks only that the value is recognized;
// status transitions are owned by the orchestrator.
type TaskStatus string

const (
	// StatusPending means the task has not been picked up yet.
	StatusPending TaskStatus = "pending"

	// StatusInProgress means an agent is actively working on the task.
	StatusInProgress TaskStatus = "in_progress"

	// StatusCompleted means the task finished and its exit criteria passed.
	StatusCompleted TaskStatus = "completed"

	// StatusQueued means the task is scheduled behind its dependencies.
	StatusQueued TaskStatus = "queued"

	// StatusBlocked means the task cannot proceed until something external
	// is resolved.
	StatusBlocked TaskStatus = "blocked"

	// StatusCanceled means the task was abandoned.
	StatusCanceled TaskStatus = "canceled"
)

// String returns the string representation of the status.
func (s TaskStatus) String() string {
	return string(s)
}

// IsValid returns true if this is a recognized status value.
func (s TaskStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted, StatusQueued, StatusBlocked, StatusCanceled:
		return true
	default:
		return false
	}
}

func taskStatusNames() []string {
	return sortedNames(string(StatusPending), string(StatusInProgress), string(StatusCompleted),
		string(StatusQueued), string(StatusBlocked), string(StatusCanceled))
}

// -----------------------------------------------------------------------------
// Platform
// -----------------------------------------------------------------------------

// Platform identifies an execution platform for platform-scoped tasks.
//
// Note the asymmetry: tasks may set platform to any of the four values, but
// meta.platforms_required may only contain linux, macos, and windows — WSL
// requirements are expressed through meta.wsl_required and
// meta.wsl_task_mode instead.
type Platform string

const (
	// PlatformLinux is the primary platform in most packs.
	PlatformLinux Platform = "linux"

	// PlatformMacOS covers macOS fix-up tasks.
	PlatformMacOS Platform = "macos"

	// PlatformWindows covers native Windows fix-up tasks.
	PlatformWindows Platform = "windows"

	// PlatformWSL is the synthetic platform used when WSL coverage runs as
	// its own task (meta.wsl_task_mode = "separate").
	PlatformWSL Platform = "wsl"
)

// String returns the string representation of the platform.
func (p Platform) String() string {
	return string(p)
}

// IsValid returns true if this is a recognized platform value.
func (p Platform) IsValid() bool {
	switch p {
	case PlatformLinux, PlatformMacOS, PlatformWindows, PlatformWSL:
		return true
	default:
		return false
	}
}

// IsRequirable returns true if this platform may appear in
// meta.platforms_required.
func (p Platform) IsRequirable() bool {
	switch p {
	case PlatformLinux, PlatformMacOS, PlatformWindows:
		return true
	case PlatformWSL:
		return false
	default:
		return false
	}
}

func platformNames() []string {
	return sortedNames(string(PlatformLinux), string(PlatformMacOS), string(PlatformWindows), string(PlatformWSL))
}

// -----------------------------------------------------------------------------
// Runner
// -----------------------------------------------------------------------------

// Runner identifies where a task's automation is expected to execute.
type Runner string

const (
	// RunnerLocal runs on the orchestrator host.
	RunnerLocal Runner = "local"

	// RunnerGitHubActions runs in CI.
	RunnerGitHubActions Runner = "github-actions"

	// RunnerManual requires a human to perform the steps.
	RunnerManual Runner = "manual"
)

// String returns the string representation of the runner.
func (r Runner) String() string {
	return string(r)
}

// IsValid returns true if this is a recognized runner value.
func (r Runner) IsValid() bool {
	switch r {
	case RunnerLocal, RunnerGitHubActions, RunnerManual:
		return true
	default:
		return false
	}
}

func runnerNames() []string {
	return sortedNames(string(RunnerLocal), string(RunnerGitHubActions), string(RunnerManual))
}

// -----------------------------------------------------------------------------
// WSL Task Mode
// -----------------------------------------------------------------------------

// WSLTaskMode controls how WSL smoke coverage is represented when
// meta.wsl_required is true.
type WSLTaskMode string

const (
	// WSLModeBundled folds WSL smoke dispatch into the Linux platform task.
	// This is the default when wsl_required is set without a mode.
	WSLModeBundled WSLTaskMode = "bundled"

	// WSLModeSeparate adds a standalone wsl platform task to each slice.
	WSLModeSeparate WSLTaskMode = "separate"
)

// String returns the string representation of the mode.
func (m WSLTaskMode) String() string {
	return string(m)
}

// IsValid returns true if this is a recognized mode value.
func (m WSLTaskMode) IsValid() bool {
	switch m {
	case WSLModeBundled, WSLModeSeparate:
		return true
	default:
		return false
	}
}

func wslTaskModeNames() []string {
	return sortedNames(string(WSLModeBundled), string(WSLModeSeparate))
}

// -----------------------------------------------------------------------------
// Schema version gates
// -----------------------------------------------------------------------------

const (
	// DefaultSchemaVersion applies when meta.schema_version is absent.
	DefaultSchemaVersion = 1

	// PlatformModelSchemaVersion is the minimum schema version at which the
	// per-slice platform integration model is enforced.
	PlatformModelSchemaVersion = 2

	// AutomationSchemaVersion is the minimum schema version at which
	// automation packs (branch metadata, code/test pairing) are enforced.
	AutomationSchemaVersion = 3
)

// -----------------------------------------------------------------------------
// Meta
// -----------------------------------------------------------------------------

// Automation holds the meta.automation opt-in block.
type Automation struct {
	// Enabled turns on the automation triad checks (requires schema_version
	// >= AutomationSchemaVersion).
	Enabled bool

	// OrchestrationBranch is the branch integration work merges into.
	OrchestrationBranch string
}

// Meta is the validated, normalized view of the document's optional meta
// block. It is built by the meta pass with best-effort defaults so that
// later passes always have a usable view even when meta itself had errors.
type Meta struct {
	// SchemaVersion gates which conditional validators activate.
	SchemaVersion int

	// Feature names the feature this pack belongs to. Required for
	// automation packs.
	Feature string

	// PlatformsRequired lists the platforms every slice must cover.
	// Entries are carried through even when flagged as unknown so that
	// downstream passes see what the author wrote.
	PlatformsRequired []Platform

	// WSLRequired indicates WSL smoke coverage is mandatory.
	WSLRequired bool

	// WSLTaskMode is how WSL coverage is expressed. Defaults to bundled
	// when WSLRequired is set without an explicit mode; this fill is the
	// only normalization the validator performs.
	WSLTaskMode WSLTaskMode

	// ExecutionGates turns on the preflight/closeout report checks.
	ExecutionGates bool

	// Automation is the automation opt-in block.
	Automation Automation

	// ExternalTaskIDs lists ids that resolve even though they are not
	// defined in this document's tasks array.
	ExternalTaskIDs []string
}

// EffectivePlatforms returns the platform set slices must fan out across:
// PlatformsRequired plus, when WSL runs as its own task, the synthetic wsl
// platform.
func (m *Meta) EffectivePlatforms() []Platform {
	platforms := make([]Platform, len(m.PlatformsRequired))
	copy(platforms, m.PlatformsRequired)
	if m.WSLRequired && m.WSLTaskMode == WSLModeSeparate {
		platforms = append(platforms, PlatformWSL)
	}
	return platforms
}

// IsExternalID returns true if id is declared in ExternalTaskIDs.
func (m *Meta) IsExternalID(id string) bool {
	for _, external := range m.ExternalTaskIDs {
		if external == id {
			return true
		}
	}
	return false
}

// -----------------------------------------------------------------------------
// Task
// -----------------------------------------------------------------------------

// Task is the typed view of one element of the document's tasks array.
//
// The view is best-effort: fields keep their zero value when the underlying
// JSON value is absent, null, or of the wrong type, and the field pass is
// responsible for reporting those defects. Passes that must distinguish
// absent from wrong-typed values (the automation pass, for example) consult
// the retained raw object instead.
type Task struct {
	// Index is the task's position in the tasks array, used in diagnostic
	// locations.
	Index int

	// ID uniquely identifies the task within the pack.
	ID string

	// Name is the short human-readable task name.
	Name string

	// Phase is the planning phase label the task belongs to.
	Phase string

	// Description holds the full task instructions.
	Description string

	// Type classifies the work; see TaskType.
	Type TaskType

	// Status is the task's lifecycle state; see TaskStatus.
	Status TaskStatus

	// References, AcceptanceCriteria, StartChecklist, and EndChecklist are
	// ordered display lists. Several linkage checks look for substrings in
	// their concatenation.
	References         []string
	AcceptanceCriteria []string
	StartChecklist     []string
	EndChecklist       []string

	// Worktree is the task's worktree path. Empty when null or unset.
	Worktree string

	// IntegrationTask names the integration task that merges this task's
	// work. Empty when null or unset.
	IntegrationTask string

	// KickoffPrompt is the path of the task's kickoff prompt file. Empty
	// when null or unset.
	KickoffPrompt string

	// DependsOn and ConcurrentWith reference other task ids (or declared
	// external ids).
	DependsOn      []string
	ConcurrentWith []string

	// Platform scopes the task to one platform. Empty when unset.
	Platform Platform

	// Runner says where the task's automation executes. Empty when unset.
	Runner Runner

	// raw is the original JSON object, retained for passes that must
	// distinguish absent, null, and wrong-typed values.
	raw map[string]any
}

// rawValue returns the raw JSON value for key. Absent keys and JSON nulls
// both yield nil, matching how the checks treat them.
func (t *Task) rawValue(key string) any {
	return t.raw[key]
}

// linkageText concatenates the given checklist fields for substring-based
// linkage checks.
func (t *Task) linkageText(lists ...[]string) string {
	return joinLines(lists...)
}

// newTask builds the typed view of a raw task object.
func newTask(index int, raw map[string]any) Task {
	task := Task{
		Index:              index,
		ID:                 rawString(raw, "id"),
		Name:               rawString(raw, "name"),
		Phase:              rawString(raw, "phase"),
		Description:        rawString(raw, "description"),
		Type:               TaskType(rawString(raw, "type")),
		Status:             TaskStatus(rawString(raw, "status")),
		References:         rawStringList(raw, "references"),
		AcceptanceCriteria: rawStringList(raw, "acceptance_criteria"),
		StartChecklist:     rawStringList(raw, "start_checklist"),
		EndChecklist:       rawStringList(raw, "end_checklist"),
		Worktree:           rawString(raw, "worktree"),
		IntegrationTask:    rawString(raw, "integration_task"),
		KickoffPrompt:      rawString(raw, "kickoff_prompt"),
		DependsOn:          rawStringList(raw, "depends_on"),
		ConcurrentWith:     rawStringList(raw, "concurrent_with"),
		Platform:           Platform(rawString(raw, "platform")),
		Runner:             Runner(rawString(raw, "runner")),
		raw:                raw,
	}
	return task
}

// -----------------------------------------------------------------------------
// Document
// -----------------------------------------------------------------------------

// DocumentName is the task-graph document filename inside a feature
// directory.
const DocumentName = "tasks.json"

// Well-known task ids required by conditional passes.
const (
	// PreflightTaskID is the ops task gated packs must define; it produces
	// the execution preflight report.
	PreflightTaskID = "F0-exec-preflight"

	// CleanupTaskID is the ops task automation packs must define; it tears
	// down worktrees once the feature lands.
	CleanupTaskID = "FZ-feature-cleanup"
)

// Document is a loaded, shape-checked Planning Pack document.
//
// Meta and Tasks are filled by the meta and field passes respectively; the
// raw task objects are retained alongside the typed views. Documents are
// read-only after construction and discarded once the report is produced.
type Document struct {
	// Path is the location of the tasks.json file, used as the diagnostic
	// location prefix.
	Path string

	// FeatureDir is the Planning Pack directory the document belongs to.
	// Kickoff prompt paths must resolve under it.
	FeatureDir string

	// Meta is the normalized meta view.
	Meta Meta

	// Tasks are the typed task views, index-aligned with the document's
	// tasks array.
	Tasks []Task

	// rawMeta is the document's meta object; nil when absent or not an
	// object.
	rawMeta map[string]any

	// rawTasks are the document's task objects, index-aligned with Tasks.
	rawTasks []map[string]any
}

// TaskByID returns the task with the given id, or nil when no task carries
// it. When duplicate ids exist, the last occurrence wins, mirroring a plain
// id-keyed index.
func (d *Document) TaskByID(id string) *Task {
	for i := len(d.Tasks) - 1; i >= 0; i-- {
		if d.Tasks[i].ID == id {
			return &d.Tasks[i]
		}
	}
	return nil
}

// tasksByID builds an id-keyed index of the document's tasks, skipping
// tasks with an empty id. Later duplicates overwrite earlier ones.
func (d *Document) tasksByID() map[string]*Task {
	byID := make(map[string]*Task, len(d.Tasks))
	for i := range d.Tasks {
		if d.Tasks[i].ID != "" {
			byID[d.Tasks[i].ID] = &d.Tasks[i]
		}
	}
	return byID
}

// -----------------------------------------------------------------------------
// Small helpers shared by the passes
// -----------------------------------------------------------------------------

// rawString extracts a string field from a raw object, returning "" for
// absent, null, or non-string values.
func rawString(raw map[string]any, key string) string {
	s, _ := raw[key].(string)
	return s
}

// rawStringList extracts a string-array field from a raw object, returning
// nil unless the value is an array of strings.
func rawStringList(raw map[string]any, key string) []string {
	list, ok := stringList(raw[key])
	if !ok {
		return nil
	}
	return list
}

// stringList converts a decoded JSON value to []string, reporting whether
// the value was an array whose elements are all strings. An empty array
// yields a non-nil empty slice.
func stringList(value any) ([]string, bool) {
	items, ok := value.([]any)
	if !ok {
		return nil, false
	}
	list := make([]string, 0, len(items))
	for _, item := range items {
		s, ok := item.(string)
		if !ok {
			return nil, false
		}
		list = append(list, s)
	}
	return list, true
}

// containsString reports whether list contains s.
func containsString(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}

// joinLines joins the given string lists with newlines, in order.
func joinLines(lists ...[]string) string {
	total := 0
	for _, list := range lists {
		total += len(list)
	}
	joined := make([]string, 0, total)
	for _, list := range lists {
		joined = append(joined, list...)
	}
	return strings.Join(joined, "\n")
}

// sortedNames returns the given names sorted ascending.
func sortedNames(names ...string) []string {
	sort.Strings(names)
	return names
}

// sortedUnique returns the sorted, deduplicated values of list.
func sortedUnique(list []string) []string {
	seen := make(map[string]bool, len(list))
	var unique []string
	for _, item := range list {
		if !seen[item] {
			seen[item] = true
			unique = append(unique, item)
		}
	}
	sort.Strings(unique)
	return unique
}

// duplicates returns the sorted set of values appearing more than once.
func duplicates(list []string) []string {
	counts := make(map[string]int, len(list))
	for _, item := range list {
		counts[item]++
	}
	var dupes []string
	for item, count := range counts {
		if count > 1 {
			dupes = append(dupes, item)
		}
	}
	sort.Strings(dupes)
	return dupes
}
