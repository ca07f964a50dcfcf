package galleryindex

import "encoding/json"

// rawIndex mirrors the on-disk JSON shape documented in spec.md §6.
// Unknown fields are ignored by encoding/json by default, which is the
// forward-compatibility behavior the spec requires.
type rawIndex struct {
	SchemaVersion string    `json:"schema_version"`
	UpdatedAt     string    `json:"updated_at"`
	Items         []rawItem `json:"items"`
}

type rawItem struct {
	JobID          string      `json:"job_id"`
	CreatedAt      string      `json:"created_at"`
	Kind           string      `json:"kind"`
	Files          []rawFile   `json:"files"`
	Seed           json.Number `json:"seed"`
	Prompt         *string     `json:"prompt"`
	NegativePrompt *string     `json:"negative_prompt"`
	PresetID       *string     `json:"preset_id"`
	ElapsedSeconds *float64    `json:"elapsed_seconds"`
	Tags           []string    `json:"tags"`
	Favorite       *bool       `json:"favorite"`
	Notes          *string     `json:"notes"`
}

type rawFile struct {
	Path        string `json:"path"`
	SHA256      string `json:"sha256"`
	ContentType string `json:"content_type"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	SizeBytes   int64  `json:"size_bytes"`
}
