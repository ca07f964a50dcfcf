package galleryindex

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/codecomfy/nextgallery/internal/filereader"
)

// Load maps the on-disk state of a workspace to a LoadResult. It is pure:
// given the same reader contents and the same lastKnownGood, it always
// returns the same result. Load never writes to disk, never repairs the
// index, and never infers artifacts by scanning directories — a malformed
// index is reported, not fixed.
func Load(workspaceRoot string, reader filereader.Reader, lastKnownGood []JobRow) LoadResult {
	if !reader.Exists(workspaceRoot) {
		return fatal(FatalWorkspaceNotFound, fmt.Sprintf("Workspace not found: %s", workspaceRoot))
	}
	if !reader.DirExists(workspaceRoot) {
		return fatal(FatalWorkspaceNotDirectory, fmt.Sprintf("Workspace path is not a directory: %s", workspaceRoot))
	}

	indexPath := filereader.IndexPath(workspaceRoot)
	if !reader.Exists(indexPath) {
		return LoadResult{
			State:         State{Tag: StateEmpty},
			Banner:        Banner{Severity: SeverityNone},
			LastKnownGood: lastKnownGood,
		}
	}

	size, err := reader.Size(indexPath)
	if err != nil {
		return recover_(readErrorMessage(err), lastKnownGood)
	}
	if size == 0 {
		return recover_("Index is empty/corrupt", lastKnownGood)
	}

	raw, err := reader.ReadFile(indexPath)
	if err != nil {
		return recover_(readErrorMessage(err), lastKnownGood)
	}

	var idx rawIndex
	if err := json.Unmarshal(raw, &idx); err != nil {
		return recover_("Index is corrupt", lastKnownGood)
	}

	major, _ := parseSchemaVersion(idx.SchemaVersion)
	if unsupportedMajor(major) {
		return fatal(FatalUnsupportedVersion, fmt.Sprintf("Index schema version %q is not supported by this build", idx.SchemaVersion))
	}

	var valid []JobRow
	skipped := 0
	for _, it := range idx.Items {
		row, ok := validateItem(it)
		if !ok {
			skipped++
			continue
		}
		valid = append(valid, row)
	}

	if len(valid) == 0 && skipped == 0 {
		return LoadResult{
			State:         State{Tag: StateEmpty},
			Banner:        Banner{Severity: SeverityNone},
			LastKnownGood: lastKnownGood,
		}
	}
	if len(valid) == 0 && skipped > 0 {
		return recover_(fmt.Sprintf("All %d entries in index are malformed", skipped), lastKnownGood)
	}

	reverse(valid)

	banner := Banner{Severity: SeverityNone}
	if skipped > 0 {
		banner = Banner{
			Severity:     SeverityInfo,
			Message:      fmt.Sprintf("%d item(s) couldn't be displayed", skipped),
			SkippedCount: skipped,
		}
	}

	return LoadResult{
		State:         State{Tag: StateList, Items: valid},
		Banner:        banner,
		LastKnownGood: valid,
	}
}

func readErrorMessage(err error) string {
	if errors.Is(err, os.ErrPermission) {
		return "Cannot read index: permission denied"
	}
	return fmt.Sprintf("Cannot read index: %v", err)
}

// recover_ implements §4.2's last-known-good recovery path: when the index
// cannot be read, is zero bytes, cannot be parsed, or has no valid entry
// among malformed ones, fall back to the previous successful snapshot
// (List with a Warning banner) or, if there is none, Empty with a Warning
// banner.
func recover_(msg string, lastKnownGood []JobRow) LoadResult {
	if len(lastKnownGood) > 0 {
		return LoadResult{
			State:         State{Tag: StateList, Items: lastKnownGood},
			Banner:        Banner{Severity: SeverityWarning, Message: msg},
			LastKnownGood: lastKnownGood,
		}
	}
	return LoadResult{
		State:         State{Tag: StateEmpty},
		Banner:        Banner{Severity: SeverityWarning, Message: msg},
		LastKnownGood: nil,
	}
}

func fatal(reason FatalReason, msg string) LoadResult {
	return LoadResult{
		State:  State{Tag: StateFatal, FatalReason: reason, FatalMessage: msg},
		Banner: Banner{Severity: SeverityNone},
	}
}

// reverse flips append order into display order in place: the index file
// stores items in the order jobs completed, oldest first; the loader
// reverses so the newest job is shown first. The on-disk file is untouched.
func reverse(rows []JobRow) {
	for i, j := 0, len(rows)-1; i < j; i, j = i+1, j-1 {
		rows[i], rows[j] = rows[j], rows[i]
	}
}
