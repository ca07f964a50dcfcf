package mcpserver

// ListJobsInput is the input for the list_jobs tool.
type ListJobsInput struct {
	Workspace string `json:"workspace" jsonschema:"required,Absolute path to the workspace directory"`
}

// JobSummary is one row of list_jobs output.
type JobSummary struct {
	JobID     string `json:"job_id"`
	CreatedAt string `json:"created_at"`
	Kind      string `json:"kind"`
	Prompt    string `json:"prompt"`
	Favorite  bool   `json:"favorite"`
}

// ListJobsOutput is the output for the list_jobs tool.
type ListJobsOutput struct {
	State        string       `json:"state"`
	BannerText   string       `json:"banner_text,omitempty"`
	SkippedCount int          `json:"skipped_count,omitempty"`
	Jobs         []JobSummary `json:"jobs,omitempty"`
}

// RefreshIndexInput is the input for the refresh_index tool.
type RefreshIndexInput struct {
	Workspace string `json:"workspace" jsonschema:"required,Absolute path to the workspace directory"`
}

// RefreshIndexOutput is the output for the refresh_index tool; it mirrors
// ListJobsOutput since a refresh is just an unconditional reload.
type RefreshIndexOutput = ListJobsOutput

// WorkspaceKeyInput is the input for the workspace_key tool.
type WorkspaceKeyInput struct {
	Path string `json:"path" jsonschema:"required,Filesystem path to derive the workspace key from"`
}

// WorkspaceKeyOutput is the output for the workspace_key tool.
type WorkspaceKeyOutput struct {
	Key       string `json:"key"`
	CanonPath string `json:"canon_path"`
}
