package constants

const (
	// DefaultCheckpointID is assumed when a request omits a checkpoint.
	DefaultCheckpointID = "main-entrance"

	// EvidenceImageFormat is the on-disk format for captured frames.
	EvidenceImageFormat = "jpeg"

	// Evidence file name prefixes.
	EvidenceFramePrefix = "frame"
	EvidenceFacePrefix  = "face"
)
