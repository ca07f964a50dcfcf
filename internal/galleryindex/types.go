// Package galleryindex implements the pure index-loading state machine
// described in spec.md §4.2: it maps the on-disk state of a workspace to
// one of five user-visible presentation states, with a tolerant parser
// that never silently hides corruption.
package galleryindex

import "time"

// Kind is the artifact kind of a job.
type Kind string

const (
	KindImage Kind = "image"
	KindVideo Kind = "video"
)

// FileRef is one produced file belonging to a job.
type FileRef struct {
	RelativePath string `json:"path"`
	SHA256       string `json:"sha256"`
	ContentType  string `json:"content_type,omitempty"`
	Width        int    `json:"width,omitempty"`
	Height       int    `json:"height,omitempty"`
	SizeBytes    int64  `json:"size_bytes,omitempty"`
}

// JobRow is one artifact-generation job projected from the index.
type JobRow struct {
	JobID           string    `json:"job_id"`
	CreatedAt       time.Time `json:"created_at"`
	Kind            Kind      `json:"kind"`
	Files           []FileRef `json:"files"`
	Seed            int64     `json:"seed"`
	Prompt          string    `json:"prompt,omitempty"`
	NegativePrompt  string    `json:"negative_prompt,omitempty"`
	PresetID        string    `json:"preset_id,omitempty"`
	ElapsedSeconds  float64   `json:"elapsed_seconds,omitempty"`
	Tags            []string  `json:"tags,omitempty"`
	Favorite        bool      `json:"favorite,omitempty"`
	Notes           string    `json:"notes,omitempty"`
}

// Fallback values applied to optional JobRow fields, per spec.md §3.
const (
	FallbackPrompt   = "(no prompt)"
	FallbackPresetID = "unknown"
)

// Severity is a banner's urgency level.
type Severity int

const (
	SeverityNone Severity = iota
	SeverityInfo
	SeverityWarning
)

// Banner is the single, deterministic, non-fatal message surfaced
// alongside the list.
type Banner struct {
	Severity     Severity
	Message      string
	SkippedCount int
}

// StateTag discriminates LoadResult.State's variants.
type StateTag int

const (
	StateLoading StateTag = iota
	StateEmpty
	StateList
	StateFatal
)

// FatalReason enumerates why a workspace is unrecoverable.
type FatalReason int

const (
	FatalUnknown FatalReason = iota
	FatalWorkspaceNotFound
	FatalWorkspaceNotDirectory
	FatalUnsupportedVersion
)

// State is the tagged union spec.md §3 describes for LoadResult.State.
// Exactly one of the payload fields is meaningful, selected by Tag.
type State struct {
	Tag          StateTag
	Items        []JobRow    // StateList
	FatalMessage string      // StateFatal
	FatalReason  FatalReason // StateFatal
}

// LoadResult is the pure output of Load: a presentation state, a banner,
// and the last-known-good snapshot the caller should retain for the next
// call (which may be the same items that were just loaded, or unchanged).
type LoadResult struct {
	State          State
	Banner         Banner
	LastKnownGood  []JobRow
}
