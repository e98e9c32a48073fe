package serialization

import "google.golang.org/protobuf/encoding/protowire"

// Format constants.
const (
	MagicBytes   = "MHA1"
	ChecksumSize = 32 // SHA-256
	PreambleSize = len(MagicBytes) + ChecksumSize
)

// Field numbers of the container and Tensor messages.
const (
	fieldTensor protowire.Number = 1 // container: repeated Tensor

	fieldName  protowire.Number = 1
	fieldShape protowire.Number = 2
	fieldData  protowire.Number = 3
)

// Limits applied while decoding untrusted input.
const (
	MaxTensorCount   = 100_000
	MaxTensorNameLen = 4096
	MaxRank          = 16
)
