// Package sentinel stamps kickoff prompt files with the canonical
// no-doc-edits sentinel line.
//
// Kickoff prompts are handed verbatim to agents working inside worktrees;
// the sentinel reminds them that planning documents are owned by the
// planning directory, not the worktree. Stamping is idempotent: a file
// already carrying the sentinel is never rewritten.
package sentinel

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/Iron-Ham/planpack/internal/errors"
	"github.com/Iron-Ham/planpack/internal/logging"
)

// Defaults for sentinel stamping. The config package mirrors these values
// (defined separately to avoid a circular import).
const (
	// DefaultText is the sentinel line inserted into kickoff prompts.
	DefaultText = "Do not edit planning docs inside the worktree."

	// DefaultHeading is the markdown heading the sentinel is inserted after.
	DefaultHeading = "## Start Checklist"

	// DefaultRoot is the planning tree scanned for kickoff prompt
	// directories when no root is given.
	DefaultRoot = "docs/project_management/next"
)

// promptsDirName is the per-feature directory holding kickoff prompts.
const promptsDirName = "kickoff_prompts"

// Stamper inserts the sentinel line into kickoff prompt files.
type Stamper struct {
	fs      afero.Fs
	text    string
	heading string
	log     *logging.Logger
}

// NewStamper creates a Stamper over the given filesystem. Empty text or
// heading fall back to the defaults; a nil logger disables logging.
func NewStamper(fsys afero.Fs, text, heading string, log *logging.Logger) *Stamper {
	if text == "" {
		text = DefaultText
	}
	if heading == "" {
		heading = DefaultHeading
	}
	if log == nil {
		log = logging.NopLogger()
	}
	return &Stamper{fs: fsys, text: text, heading: heading, log: log}
}

// EnsureInFile inserts the sentinel into the file at path unless it is
// already present. The sentinel goes on its own line after the start
// checklist heading, or at the end of the file when the heading is missing.
// Returns true when the file was rewritten.
func (s *Stamper) EnsureInFile(path string) (bool, error) {
	data, err := afero.ReadFile(s.fs, path)
	if err != nil {
		return false, errors.Wrapf(err, "cannot read kickoff prompt %s", path)
	}
	text := string(data)
	if strings.Contains(text, s.text) {
		return false, nil
	}

	updated := s.insert(text)
	if updated == text {
		return false, nil
	}

	mode := os.FileMode(0644)
	if info, err := s.fs.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}
	if err := afero.WriteFile(s.fs, path, []byte(updated), mode); err != nil {
		return false, errors.Wrapf(err, "cannot write kickoff prompt %s", path)
	}
	s.log.Debug("stamped kickoff prompt", "path", path)
	return true, nil
}

// insert places the sentinel after the heading line, or appends it when no
// heading exists. Line endings of the original text are preserved.
func (s *Stamper) insert(text string) string {
	lines := strings.SplitAfter(text, "\n")
	var out strings.Builder
	inserted := false

	for _, line := range lines {
		out.WriteString(line)
		if inserted {
			continue
		}
		if strings.TrimSpace(line) == s.heading {
			out.WriteString("\n" + s.text + "\n\n")
			inserted = true
		}
	}
	if !inserted {
		out.WriteString("\n\n" + s.text + "\n")
	}
	return out.String()
}

// EnsureTree stamps every *.md file directly inside any kickoff_prompts
// directory under root. Returns the number of files rewritten.
func (s *Stamper) EnsureTree(root string) (int, error) {
	exists, err := afero.DirExists(s.fs, root)
	if err != nil {
		return 0, errors.Wrapf(err, "cannot stat root %s", root)
	}
	if !exists {
		return 0, errors.Wrapf(errors.ErrFeatureDirMissing, "root does not exist: %s", root)
	}

	changed := 0
	walkErr := afero.Walk(s.fs, root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		if filepath.Ext(path) != ".md" || filepath.Base(filepath.Dir(path)) != promptsDirName {
			return nil
		}
		updated, err := s.EnsureInFile(path)
		if err != nil {
			return err
		}
		if updated {
			changed++
		}
		return nil
	})
	if walkErr != nil {
		return changed, walkErr
	}

	s.log.Info("sentinel sweep finished", "root", root, "updated", changed)
	return changed, nil
}
