package model

// FailureKind classifies why a file could not be ingested.
type FailureKind string

const (
	FailureUnrecognized FailureKind = "unrecognized_format"
	FailureMalformed    FailureKind = "malformed"
	FailureIO           FailureKind = "io"
)

// FileFailure records a file whose parse was abandoned. Failures are
// isolated to the file; the rest of the batch continues.
type FileFailure struct {
	Path     string      `json:"path"`
	FileName string      `json:"file_name"`
	Kind     FailureKind `json:"kind"`
	Reason   string      `json:"reason"`
}
