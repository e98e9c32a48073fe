package serialization

import (
	"fmt"
	"io"
	"math"
	"os"

	"google.golang.org/protobuf/encoding/protowire"

	"github.com/born-ml/mha/internal/tensor"
)

// Unmarshal decodes a checkpoint produced by Marshal.
//
// The magic bytes and checksum are verified before the body is parsed.
// Unknown fields are skipped; both packed and unpacked encodings of shape
// and data are accepted.
func Unmarshal(data []byte) (map[string]*tensor.Tensor, error) {
	if len(data) < len(MagicBytes) || string(data[:len(MagicBytes)]) != MagicBytes {
		return nil, ErrInvalidMagic
	}
	if len(data) < PreambleSize {
		return nil, fmt.Errorf("%w: truncated preamble (%d bytes)", ErrMalformed, len(data))
	}
	stored, body := data[len(MagicBytes):PreambleSize], data[PreambleSize:]
	if err := VerifyChecksum(body, stored); err != nil {
		return nil, err
	}

	tensors := make(map[string]*tensor.Tensor)
	for len(body) > 0 {
		num, typ, n := protowire.ConsumeTag(body)
		if n < 0 {
			return nil, malformed(protowire.ParseError(n))
		}
		body = body[n:]

		if num != fieldTensor || typ != protowire.BytesType {
			n = protowire.ConsumeFieldValue(num, typ, body)
			if n < 0 {
				return nil, malformed(protowire.ParseError(n))
			}
			body = body[n:]
			continue
		}

		msg, n := protowire.ConsumeBytes(body)
		if n < 0 {
			return nil, malformed(protowire.ParseError(n))
		}
		body = body[n:]

		if len(tensors) == MaxTensorCount {
			return nil, fmt.Errorf("%w: more than %d", ErrTooManyTensors, MaxTensorCount)
		}
		name, t, err := parseTensor(msg)
		if err != nil {
			return nil, err
		}
		if _, dup := tensors[name]; dup {
			return nil, &ValidationError{Err: ErrMalformed, Tensor: name, Details: "duplicate tensor"}
		}
		tensors[name] = t
	}
	return tensors, nil
}

// parseTensor decodes a single Tensor message.
func parseTensor(b []byte) (string, *tensor.Tensor, error) {
	var (
		name   string
		shape  tensor.Shape
		values []float32
	)
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return "", nil, malformed(protowire.ParseError(n))
		}
		b = b[n:]

		switch {
		case num == fieldName && typ == protowire.BytesType:
			v, n := protowire.ConsumeString(b)
			if n < 0 {
				return "", nil, malformed(protowire.ParseError(n))
			}
			name, b = v, b[n:]

		case num == fieldShape && typ == protowire.BytesType:
			packed, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return "", nil, malformed(protowire.ParseError(n))
			}
			b = b[n:]
			for len(packed) > 0 {
				d, m := protowire.ConsumeVarint(packed)
				if m < 0 {
					return "", nil, malformed(protowire.ParseError(m))
				}
				if d > math.MaxInt32 {
					return "", nil, fmt.Errorf("%w: dimension %d too large", ErrMalformed, d)
				}
				shape, packed = append(shape, int(d)), packed[m:]
			}

		case num == fieldShape && typ == protowire.VarintType:
			d, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return "", nil, malformed(protowire.ParseError(n))
			}
			if d > math.MaxInt32 {
				return "", nil, fmt.Errorf("%w: dimension %d too large", ErrMalformed, d)
			}
			shape, b = append(shape, int(d)), b[n:]

		case num == fieldData && typ == protowire.BytesType:
			packed, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return "", nil, malformed(protowire.ParseError(n))
			}
			if len(packed)%4 != 0 {
				return "", nil, fmt.Errorf("%w: packed data length %d is not a multiple of 4", ErrMalformed, len(packed))
			}
			b = b[n:]
			if values == nil {
				values = make([]float32, 0, len(packed)/4)
			}
			for len(packed) > 0 {
				bits, m := protowire.ConsumeFixed32(packed)
				if m < 0 {
					return "", nil, malformed(protowire.ParseError(m))
				}
				values, packed = append(values, math.Float32frombits(bits)), packed[m:]
			}

		case num == fieldData && typ == protowire.Fixed32Type:
			bits, n := protowire.ConsumeFixed32(b)
			if n < 0 {
				return "", nil, malformed(protowire.ParseError(n))
			}
			values, b = append(values, math.Float32frombits(bits)), b[n:]

		default:
			n = protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return "", nil, malformed(protowire.ParseError(n))
			}
			b = b[n:]
		}
	}

	if values == nil {
		values = []float32{}
	}
	if err := validateTensor(name, shape, len(values)); err != nil {
		return "", nil, err
	}
	if shape == nil {
		shape = tensor.Shape{}
	}
	t, err := tensor.Wrap(values, shape)
	if err != nil {
		return "", nil, fmt.Errorf("%w: tensor %q: %v", ErrMalformed, name, err)
	}
	return name, t, nil
}

func malformed(err error) error {
	return fmt.Errorf("%w: %v", ErrMalformed, err)
}

// Read reads a whole checkpoint from r and decodes it.
func Read(r io.Reader) (map[string]*tensor.Tensor, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read checkpoint: %w", err)
	}
	return Unmarshal(data)
}

// ReadFile reads and decodes the checkpoint at path.
func ReadFile(path string) (map[string]*tensor.Tensor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read checkpoint: %w", err)
	}
	return Unmarshal(data)
}
