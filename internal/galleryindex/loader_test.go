package galleryindex

import (
	"errors"
	"os"
	"testing"
	"time"
)

// fakeReader is an in-memory filereader.Reader for exercising Load without
// touching a real disk.
type fakeReader struct {
	dirs  map[string]bool
	files map[string][]byte
	err   error // if set, ReadFile/Size return this for every path
}

func newFakeReader() *fakeReader {
	return &fakeReader{dirs: map[string]bool{}, files: map[string][]byte{}}
}

func (f *fakeReader) DirExists(path string) bool { return f.dirs[path] }

func (f *fakeReader) Exists(path string) bool {
	if f.dirs[path] {
		return true
	}
	_, ok := f.files[path]
	return ok
}

func (f *fakeReader) ReadFile(path string) ([]byte, error) {
	if f.err != nil {
		return nil, f.err
	}
	b, ok := f.files[path]
	if !ok {
		return nil, os.ErrNotExist
	}
	return b, nil
}

func (f *fakeReader) Size(path string) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	b, ok := f.files[path]
	if !ok {
		return 0, os.ErrNotExist
	}
	return int64(len(b)), nil
}

func (f *fakeReader) ModTime(path string) (time.Time, error) {
	return time.Time{}, nil
}

const workspaceRoot = "/ws"
const indexPath = workspaceRoot + "/.codecomfy/outputs/index.json"

func TestLoad_WorkspaceNotFound(t *testing.T) {
	r := newFakeReader()
	got := Load(workspaceRoot, r, nil)
	if got.State.Tag != StateFatal || got.State.FatalReason != FatalWorkspaceNotFound {
		t.Fatalf("got %+v, want Fatal(WorkspaceNotFound)", got.State)
	}
}

func TestLoad_WorkspaceNotDirectory(t *testing.T) {
	r := newFakeReader()
	r.files[workspaceRoot] = []byte("not a directory")
	got := Load(workspaceRoot, r, nil)
	if got.State.Tag != StateFatal || got.State.FatalReason != FatalWorkspaceNotDirectory {
		t.Fatalf("got %+v, want Fatal(WorkspaceNotDirectory)", got.State)
	}
}

func TestLoad_EmptyWorkspace(t *testing.T) {
	r := newFakeReader()
	r.dirs[workspaceRoot] = true
	got := Load(workspaceRoot, r, nil)
	if got.State.Tag != StateEmpty {
		t.Fatalf("got %+v, want Empty", got.State)
	}
	if got.Banner.Severity != SeverityNone {
		t.Fatalf("got banner %+v, want None", got.Banner)
	}
}

func TestLoad_CorruptIndex_NoLastKnownGood(t *testing.T) {
	r := newFakeReader()
	r.dirs[workspaceRoot] = true
	r.files[indexPath] = []byte("{")

	got := Load(workspaceRoot, r, nil)
	if got.State.Tag != StateEmpty {
		t.Fatalf("got %+v, want Empty", got.State)
	}
	if got.Banner.Severity != SeverityWarning || got.Banner.Message != "Index is corrupt" {
		t.Fatalf("got banner %+v, want Warning(\"Index is corrupt\")", got.Banner)
	}
}

func TestLoad_CorruptIndex_WithLastKnownGood(t *testing.T) {
	r := newFakeReader()
	r.dirs[workspaceRoot] = true
	r.files[indexPath] = []byte("{")

	lkg := []JobRow{{JobID: "a", Kind: KindImage, Seed: 1}}
	got := Load(workspaceRoot, r, lkg)
	if got.State.Tag != StateList {
		t.Fatalf("got %+v, want List", got.State)
	}
	if len(got.State.Items) != 1 || got.State.Items[0].JobID != "a" {
		t.Fatalf("got items %+v, want last known good", got.State.Items)
	}
	if got.Banner.Severity != SeverityWarning || got.Banner.Message != "Index is corrupt" {
		t.Fatalf("got banner %+v, want Warning(\"Index is corrupt\")", got.Banner)
	}
}

func TestLoad_ZeroByteIndex(t *testing.T) {
	r := newFakeReader()
	r.dirs[workspaceRoot] = true
	r.files[indexPath] = []byte{}

	got := Load(workspaceRoot, r, nil)
	if got.Banner.Message != "Index is empty/corrupt" {
		t.Fatalf("got banner %+v, want Warning(\"Index is empty/corrupt\")", got.Banner)
	}
}

func TestLoad_PermissionDenied(t *testing.T) {
	r := newFakeReader()
	r.dirs[workspaceRoot] = true
	r.files[indexPath] = []byte(`{"items":[]}`)
	r.err = os.ErrPermission

	got := Load(workspaceRoot, r, nil)
	if got.Banner.Message != "Cannot read index: permission denied" {
		t.Fatalf("got banner %+v, want permission-denied message", got.Banner)
	}
}

func TestLoad_OtherIOError(t *testing.T) {
	r := newFakeReader()
	r.dirs[workspaceRoot] = true
	r.files[indexPath] = []byte(`{"items":[]}`)
	r.err = errors.New("disk fell off")

	got := Load(workspaceRoot, r, nil)
	if got.State.Tag != StateEmpty || got.Banner.Severity != SeverityWarning {
		t.Fatalf("got %+v / %+v, want Empty/Warning", got.State, got.Banner)
	}
}

func validJobJSON(id string) string {
	return `{"job_id":"` + id + `","created_at":"2026-01-01T00:00:00Z","kind":"image","seed":7,` +
		`"files":[{"path":"out/a.png","sha256":"` + validSHA + `"}]}`
}

const validSHA = "0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef"

func TestLoad_MalformedEntries_ThreeOfFive(t *testing.T) {
	r := newFakeReader()
	r.dirs[workspaceRoot] = true
	r.files[indexPath] = []byte(`{"items":[` +
		validJobJSON("a") + "," +
		`{"job_id":""},` + // missing job_id
		`{"job_id":"b","created_at":"not-a-time","kind":"image","seed":1,"files":[{"path":"x","sha256":"` + validSHA + `"}]},` + // bad timestamp
		validJobJSON("c") + "," +
		`{"job_id":"d","created_at":"2026-01-01T00:00:00Z","kind":"sculpture","seed":1,"files":[{"path":"x","sha256":"` + validSHA + `"}]}` + // bad kind
		`]}`)

	got := Load(workspaceRoot, r, nil)
	if got.State.Tag != StateList {
		t.Fatalf("got %+v, want List", got.State)
	}
	if len(got.State.Items) != 2 {
		t.Fatalf("got %d items, want 2", len(got.State.Items))
	}
	// File order was [a, bad, bad, c, bad]; reversed display order puts c
	// before a.
	if got.State.Items[0].JobID != "c" || got.State.Items[1].JobID != "a" {
		t.Fatalf("got items %+v, want [c, a] (reversed)", got.State.Items)
	}
	if got.Banner.Severity != SeverityInfo || got.Banner.SkippedCount != 3 {
		t.Fatalf("got banner %+v, want Info with skipped_count=3", got.Banner)
	}
	if got.Banner.Message != "3 item(s) couldn't be displayed" {
		t.Fatalf("got banner message %q", got.Banner.Message)
	}
}

func TestLoad_AllEntriesMalformed(t *testing.T) {
	r := newFakeReader()
	r.dirs[workspaceRoot] = true
	r.files[indexPath] = []byte(`{"items":[{"job_id":""},{"job_id":""}]}`)

	got := Load(workspaceRoot, r, nil)
	if got.State.Tag != StateEmpty {
		t.Fatalf("got %+v, want Empty", got.State)
	}
	if got.Banner.Severity != SeverityWarning {
		t.Fatalf("got banner severity %v, want Warning", got.Banner.Severity)
	}
	if got.Banner.Message != "All 2 entries in index are malformed" {
		t.Fatalf("got banner message %q", got.Banner.Message)
	}
}

func TestLoad_VersionFatal(t *testing.T) {
	r := newFakeReader()
	r.dirs[workspaceRoot] = true
	r.files[indexPath] = []byte(`{"schema_version":"2.0","items":[]}`)

	got := Load(workspaceRoot, r, nil)
	if got.State.Tag != StateFatal || got.State.FatalReason != FatalUnsupportedVersion {
		t.Fatalf("got %+v, want Fatal(UnsupportedVersion)", got.State)
	}
}

func TestLoad_EmptyItemsArray(t *testing.T) {
	r := newFakeReader()
	r.dirs[workspaceRoot] = true
	r.files[indexPath] = []byte(`{"schema_version":"0.1","items":[]}`)

	got := Load(workspaceRoot, r, nil)
	if got.State.Tag != StateEmpty || got.Banner.Severity != SeverityNone {
		t.Fatalf("got %+v / %+v, want Empty/None", got.State, got.Banner)
	}
}

func TestLoad_ValidIndex_AppliesFallbacksAndReverses(t *testing.T) {
	r := newFakeReader()
	r.dirs[workspaceRoot] = true
	r.files[indexPath] = []byte(`{"items":[` +
		`{"job_id":"first","created_at":"2026-01-01T00:00:00Z","kind":"image","seed":1,"files":[{"path":"a.png","sha256":"` + validSHA + `"}]},` +
		`{"job_id":"second","created_at":"2026-01-02T00:00:00Z","kind":"video","seed":2,"prompt":"a cat","files":[{"path":"b.mp4","sha256":"` + validSHA + `"}]}` +
		`]}`)

	got := Load(workspaceRoot, r, nil)
	if got.State.Tag != StateList || len(got.State.Items) != 2 {
		t.Fatalf("got %+v, want List of 2", got.State)
	}
	if got.State.Items[0].JobID != "second" || got.State.Items[1].JobID != "first" {
		t.Fatalf("got items %+v, want [second, first]", got.State.Items)
	}
	if got.State.Items[1].Prompt != FallbackPrompt {
		t.Fatalf("got prompt %q, want fallback", got.State.Items[1].Prompt)
	}
	if got.State.Items[1].PresetID != FallbackPresetID {
		t.Fatalf("got preset_id %q, want fallback", got.State.Items[1].PresetID)
	}
	if got.LastKnownGood == nil || len(got.LastKnownGood) != 2 {
		t.Fatalf("got last known good %+v, want the 2 valid rows", got.LastKnownGood)
	}
}

func TestLoad_FileWithDotDotSegmentRejected(t *testing.T) {
	r := newFakeReader()
	r.dirs[workspaceRoot] = true
	r.files[indexPath] = []byte(`{"items":[` +
		`{"job_id":"x","created_at":"2026-01-01T00:00:00Z","kind":"image","seed":1,"files":[{"path":"../escape.png","sha256":"` + validSHA + `"}]}` +
		`]}`)

	got := Load(workspaceRoot, r, nil)
	if got.State.Tag != StateEmpty {
		t.Fatalf("got %+v, want Empty (entry has no valid files)", got.State)
	}
}
