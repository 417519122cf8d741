package generator

import "errors"

// Failure modes of a single generation attempt. Each one is recovered inside
// the Generator; callers of the public methods never see them.
var (
	// ErrCollaborator means the model call failed, timed out or no model
	// is configured.
	ErrCollaborator = errors.New("language model call failed")
	// ErrExtraction means the response held no parseable JSON object.
	ErrExtraction = errors.New("no JSON object in model response")
	// ErrShape means the parsed object does not match the expected schema.
	ErrShape = errors.New("model response has unexpected shape")
)

// reason maps an attempt error to a short label for logs and metrics.
func reason(err error) string {
	switch {
	case errors.Is(err, ErrCollaborator):
		return "collaborator"
	case errors.Is(err, ErrExtraction):
		return "extraction"
	case errors.Is(err, ErrShape):
		return "shape"
	default:
		return "internal"
	}
}
