package mcpserver

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/codecomfy/nextgallery/internal/filereader"
)

type fakeReader struct {
	dirs  map[string]bool
	files map[string][]byte
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
	data, ok := f.files[path]
	if !ok {
		return nil, &pathError{path}
	}
	return data, nil
}
func (f *fakeReader) Size(path string) (int64, error) {
	return int64(len(f.files[path])), nil
}
func (f *fakeReader) ModTime(path string) (time.Time, error) {
	return time.Time{}, nil
}

type pathError struct{ path string }

func (e *pathError) Error() string { return "no such file: " + e.path }

const root = "/ws"

func indexJSON() string {
	return `{"schema_version":"0.1","items":[` +
		`{"job_id":"a","created_at":"2024-01-01T00:00:00Z","kind":"image","seed":1,` +
		`"files":[{"path":"a.png","sha256":"` + strings.Repeat("a", 64) + `"}]}` +
		`]}`
}

func newTestServer() (*Server, *fakeReader) {
	r := newFakeReader()
	r.dirs[root] = true
	r.files[root+"/.codecomfy/outputs/index.json"] = []byte(indexJSON())
	return NewServer(r), r
}

func TestHandleListJobs_ReturnsJobs(t *testing.T) {
	s, _ := newTestServer()
	_, out, err := s.handleListJobs(context.Background(), nil, ListJobsInput{Workspace: root})
	if err != nil {
		t.Fatalf("handleListJobs: %v", err)
	}
	if out.State != "list" {
		t.Fatalf("got state %q, want list", out.State)
	}
	if len(out.Jobs) != 1 || out.Jobs[0].JobID != "a" {
		t.Fatalf("got jobs %+v, want one job with id a", out.Jobs)
	}
}

func TestHandleListJobs_RequiresWorkspace(t *testing.T) {
	s, _ := newTestServer()
	_, _, err := s.handleListJobs(context.Background(), nil, ListJobsInput{})
	if err == nil {
		t.Fatalf("expected an error for an empty workspace")
	}
}

func TestHandleListJobs_EmptyWorkspace(t *testing.T) {
	r := newFakeReader()
	r.dirs[root] = true
	s := NewServer(r)
	_, out, err := s.handleListJobs(context.Background(), nil, ListJobsInput{Workspace: root})
	if err != nil {
		t.Fatalf("handleListJobs: %v", err)
	}
	if out.State != "empty" {
		t.Fatalf("got state %q, want empty", out.State)
	}
}

func TestHandleListJobs_FatalWorkspaceNotFound(t *testing.T) {
	s := NewServer(newFakeReader())
	_, out, err := s.handleListJobs(context.Background(), nil, ListJobsInput{Workspace: root})
	if err != nil {
		t.Fatalf("handleListJobs: %v", err)
	}
	if out.State != "fatal" {
		t.Fatalf("got state %q, want fatal", out.State)
	}
	if out.BannerText == "" {
		t.Fatalf("expected a fatal banner message")
	}
}

func TestHandleListJobs_PersistsLastKnownGoodAcrossCalls(t *testing.T) {
	s, r := newTestServer()
	if _, _, err := s.handleListJobs(context.Background(), nil, ListJobsInput{Workspace: root}); err != nil {
		t.Fatalf("first load: %v", err)
	}

	r.files[root+"/.codecomfy/outputs/index.json"] = []byte("not json")
	_, out, err := s.handleListJobs(context.Background(), nil, ListJobsInput{Workspace: root})
	if err != nil {
		t.Fatalf("second load: %v", err)
	}
	if out.State != "list" || len(out.Jobs) != 1 {
		t.Fatalf("got %+v, want the last known good job surfaced on corruption", out)
	}
	if out.BannerText == "" {
		t.Fatalf("expected a recovery banner message")
	}
}

func TestHandleRefreshIndex_UnconditionalReload(t *testing.T) {
	s, _ := newTestServer()
	_, out, err := s.handleRefreshIndex(context.Background(), nil, RefreshIndexInput{Workspace: root})
	if err != nil {
		t.Fatalf("handleRefreshIndex: %v", err)
	}
	if out.State != "list" {
		t.Fatalf("got state %q, want list", out.State)
	}
}

func TestHandleWorkspaceKey_ComputesKeyAndCanonPath(t *testing.T) {
	s := NewServer(filereader.OS{})
	_, out, err := s.handleWorkspaceKey(context.Background(), nil, WorkspaceKeyInput{Path: "/home/user/My Project"})
	if err != nil {
		t.Fatalf("handleWorkspaceKey: %v", err)
	}
	if len(out.Key) != 32 {
		t.Fatalf("got key %q, want 32 hex chars", out.Key)
	}
	if out.CanonPath != "/home/user/my project" {
		t.Fatalf("got canon path %q, want lowercased", out.CanonPath)
	}
}

func TestHandleWorkspaceKey_RequiresPath(t *testing.T) {
	s := NewServer(filereader.OS{})
	_, _, err := s.handleWorkspaceKey(context.Background(), nil, WorkspaceKeyInput{})
	if err == nil {
		t.Fatalf("expected an error for an empty path")
	}
}
