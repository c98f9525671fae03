package marchive

// ProgressEvent represents a progress update during build or unpack.
type ProgressEvent struct {
	// Stage identifies the current phase of the operation.
	Stage ProgressStage

	// Path is the archive path currently being processed, if applicable.
	Path string

	// BytesDone is the number of content bytes processed so far.
	BytesDone uint64

	// FilesDone is the number of files completed.
	FilesDone int

	// FilesTotal is the total number of files.
	// Zero indicates the total is unknown (e.g., while packing).
	FilesTotal int
}

// ProgressStage identifies the current phase of an operation.
type ProgressStage uint8

// Progress stages for build and unpack.
const (
	// StageResolving indicates the descriptor path is being resolved,
	// including decompression of a compressed variant.
	StageResolving ProgressStage = iota

	// StageEnumerating indicates the input directory is being walked.
	StageEnumerating

	// StagePacking indicates a file has been copied into the blob.
	StagePacking

	// StageWritingDescriptor indicates the descriptor is being encoded and written.
	StageWritingDescriptor

	// StageCompressing indicates the descriptor is being compressed.
	StageCompressing

	// StageExtracting indicates a file has been extracted.
	StageExtracting
)

// String returns the string representation of the stage.
func (s ProgressStage) String() string {
	switch s {
	case StageResolving:
		return "resolving"
	case StageEnumerating:
		return "enumerating"
	case StagePacking:
		return "packing"
	case StageWritingDescriptor:
		return "writing descriptor"
	case StageCompressing:
		return "compressing"
	case StageExtracting:
		return "extracting"
	default:
		return "unknown"
	}
}

// ProgressFunc receives progress updates during operations.
// Operations are sequential, so calls never overlap.
type ProgressFunc func(ProgressEvent)
