// Package mcpserver exposes a read-only inspection surface for the
// gallery core over the Model Context Protocol: listing jobs, forcing a
// reload, and computing a workspace key, all without touching the UI
// shell or the writer process.
package mcpserver

import (
	"context"
	"fmt"
	"sync"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/codecomfy/nextgallery/internal/filereader"
	"github.com/codecomfy/nextgallery/internal/galleryindex"
	"github.com/codecomfy/nextgallery/internal/workspacekey"
)

const (
	ServerName    = "nextgallery"
	ServerVersion = "0.1.0"
)

// Server is the MCP server fronting the gallery core's read-only tools.
type Server struct {
	mcpServer *mcpsdk.Server
	reader    filereader.Reader

	mu            sync.Mutex
	lastKnownGood map[string][]galleryindex.JobRow
}

// NewServer creates a Server backed by reader (os filereader.OS in
// production, a fake in tests).
func NewServer(reader filereader.Reader) *Server {
	s := &Server{
		reader:        reader,
		lastKnownGood: make(map[string][]galleryindex.JobRow),
	}

	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
		nil,
	)
	s.registerTools()
	return s
}

// Run starts the MCP server on stdio transport, blocking until done.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_jobs",
		Description: "List the artifact-generation jobs recorded in a workspace's index, newest first, along with the current presentation state and any banner.",
	}, s.handleListJobs)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "refresh_index",
		Description: "Force an unconditional reload of a workspace's index, bypassing the poller's mod-time gate and backoff state.",
	}, s.handleRefreshIndex)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "workspace_key",
		Description: "Compute the deterministic 32-hex-char workspace key for a filesystem path, the same key used for activation routing.",
	}, s.handleWorkspaceKey)
}

func (s *Server) loadLocked(workspace string) ListJobsOutput {
	s.mu.Lock()
	lkg := s.lastKnownGood[workspace]
	s.mu.Unlock()

	result := galleryindex.Load(workspace, s.reader, lkg)

	s.mu.Lock()
	s.lastKnownGood[workspace] = result.LastKnownGood
	s.mu.Unlock()

	out := ListJobsOutput{
		BannerText:   result.Banner.Message,
		SkippedCount: result.Banner.SkippedCount,
	}
	switch result.State.Tag {
	case galleryindex.StateEmpty:
		out.State = "empty"
	case galleryindex.StateFatal:
		out.State = "fatal"
		out.BannerText = result.State.FatalMessage
	case galleryindex.StateList:
		out.State = "list"
		out.Jobs = make([]JobSummary, 0, len(result.State.Items))
		for _, item := range result.State.Items {
			out.Jobs = append(out.Jobs, JobSummary{
				JobID:     item.JobID,
				CreatedAt: item.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
				Kind:      string(item.Kind),
				Prompt:    item.Prompt,
				Favorite:  item.Favorite,
			})
		}
	default:
		out.State = "loading"
	}
	return out
}

func (s *Server) handleListJobs(_ context.Context, _ *mcpsdk.CallToolRequest, args ListJobsInput) (*mcpsdk.CallToolResult, ListJobsOutput, error) {
	if args.Workspace == "" {
		return nil, ListJobsOutput{}, fmt.Errorf("workspace is required")
	}
	return nil, s.loadLocked(args.Workspace), nil
}

func (s *Server) handleRefreshIndex(_ context.Context, _ *mcpsdk.CallToolRequest, args RefreshIndexInput) (*mcpsdk.CallToolResult, RefreshIndexOutput, error) {
	if args.Workspace == "" {
		return nil, RefreshIndexOutput{}, fmt.Errorf("workspace is required")
	}
	return nil, s.loadLocked(args.Workspace), nil
}

func (s *Server) handleWorkspaceKey(_ context.Context, _ *mcpsdk.CallToolRequest, args WorkspaceKeyInput) (*mcpsdk.CallToolResult, WorkspaceKeyOutput, error) {
	if args.Path == "" {
		return nil, WorkspaceKeyOutput{}, fmt.Errorf("path is required")
	}
	canon, err := workspacekey.Normalize(args.Path)
	if err != nil {
		return nil, WorkspaceKeyOutput{}, err
	}
	key, err := workspacekey.Compute(args.Path)
	if err != nil {
		return nil, WorkspaceKeyOutput{}, err
	}
	return nil, WorkspaceKeyOutput{Key: key.String(), CanonPath: canon}, nil
}
