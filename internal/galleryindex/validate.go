package galleryindex

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var sha256Pattern = regexp.MustCompile(`^[0-9a-fA-F]{64}$`)

// validateFile reports whether a raw file reference is well-formed per
// spec.md §4.2's entry-validation rules.
func validateFile(f rawFile) bool {
	path := strings.TrimSpace(f.Path)
	if path == "" {
		return false
	}
	if containsDotDotSegment(path) {
		return false
	}
	if isRootedOrAbsolute(path) {
		return false
	}
	return sha256Pattern.MatchString(f.SHA256)
}

func containsDotDotSegment(path string) bool {
	normalized := strings.ReplaceAll(path, `\`, "/")
	for _, seg := range strings.Split(normalized, "/") {
		if seg == ".." {
			return true
		}
	}
	return false
}

func isRootedOrAbsolute(path string) bool {
	if strings.HasPrefix(path, "/") || strings.HasPrefix(path, `\`) {
		return true
	}
	// Windows drive-letter absolute path, e.g. "C:\..." or "C:/...".
	if len(path) >= 2 && path[1] == ':' {
		return true
	}
	return false
}

// toFileRef converts a validated rawFile into its public FileRef form.
func toFileRef(f rawFile) FileRef {
	return FileRef{
		RelativePath: f.Path,
		SHA256:       strings.ToLower(f.SHA256),
		ContentType:  f.ContentType,
		Width:        f.Width,
		Height:       f.Height,
		SizeBytes:    f.SizeBytes,
	}
}

// validateItem converts and validates one raw item. ok is false when the
// entry is missing/invalid a required field and must be skipped.
func validateItem(it rawItem) (JobRow, bool) {
	jobID := strings.TrimSpace(it.JobID)
	if jobID == "" {
		return JobRow{}, false
	}

	createdAt, err := time.Parse(time.RFC3339, it.CreatedAt)
	if err != nil {
		createdAt, err = time.Parse(time.RFC3339Nano, it.CreatedAt)
		if err != nil {
			return JobRow{}, false
		}
	}

	kind := Kind(strings.ToLower(strings.TrimSpace(it.Kind)))
	if kind != KindImage && kind != KindVideo {
		return JobRow{}, false
	}

	if len(it.Files) == 0 {
		return JobRow{}, false
	}
	var files []FileRef
	for _, rf := range it.Files {
		if validateFile(rf) {
			files = append(files, toFileRef(rf))
		}
	}
	if len(files) == 0 {
		return JobRow{}, false
	}

	seed, err := strconv.ParseInt(strings.TrimSpace(it.Seed.String()), 10, 64)
	if err != nil {
		return JobRow{}, false
	}

	row := JobRow{
		JobID:     jobID,
		CreatedAt: createdAt,
		Kind:      kind,
		Files:     files,
		Seed:      seed,
		PresetID:  FallbackPresetID,
		Prompt:    FallbackPrompt,
	}
	if it.Prompt != nil {
		row.Prompt = *it.Prompt
	}
	if it.NegativePrompt != nil {
		row.NegativePrompt = *it.NegativePrompt
	}
	if it.PresetID != nil {
		row.PresetID = *it.PresetID
	}
	if it.ElapsedSeconds != nil {
		row.ElapsedSeconds = *it.ElapsedSeconds
	}
	if it.Tags != nil {
		row.Tags = it.Tags
	}
	if it.Favorite != nil {
		row.Favorite = *it.Favorite
	}
	if it.Notes != nil {
		row.Notes = *it.Notes
	}
	return row, true
}
