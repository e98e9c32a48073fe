package serialization

import (
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"

	"google.golang.org/protobuf/encoding/protowire"

	"github.com/born-ml/mha/internal/tensor"
)

// Marshal encodes tensors into a checkpoint, names in sorted order.
func Marshal(tensors map[string]*tensor.Tensor) ([]byte, error) {
	if len(tensors) > MaxTensorCount {
		return nil, fmt.Errorf("%w: got %d, max %d", ErrTooManyTensors, len(tensors), MaxTensorCount)
	}

	names := make([]string, 0, len(tensors))
	for name := range tensors {
		names = append(names, name)
	}
	sort.Strings(names)

	var body, msg []byte
	for _, name := range names {
		t := tensors[name]
		if t == nil {
			return nil, &ValidationError{Err: ErrMalformed, Tensor: name, Details: "nil tensor"}
		}
		if err := ValidateTensorName(name); err != nil {
			return nil, err
		}
		msg = appendTensor(msg[:0], name, t)
		body = protowire.AppendTag(body, fieldTensor, protowire.BytesType)
		body = protowire.AppendBytes(body, msg)
	}

	sum := Checksum(body)
	out := make([]byte, 0, PreambleSize+len(body))
	out = append(out, MagicBytes...)
	out = append(out, sum[:]...)
	out = append(out, body...)
	return out, nil
}

// appendTensor appends one Tensor message (without its container tag).
func appendTensor(b []byte, name string, t *tensor.Tensor) []byte {
	b = protowire.AppendTag(b, fieldName, protowire.BytesType)
	b = protowire.AppendString(b, name)

	var shape []byte
	for _, d := range t.Shape() {
		shape = protowire.AppendVarint(shape, uint64(d))
	}
	b = protowire.AppendTag(b, fieldShape, protowire.BytesType)
	b = protowire.AppendBytes(b, shape)

	values := t.View()
	b = protowire.AppendTag(b, fieldData, protowire.BytesType)
	b = protowire.AppendVarint(b, uint64(len(values)*4))
	for _, v := range values {
		b = protowire.AppendFixed32(b, math.Float32bits(v))
	}
	return b
}

// Write encodes tensors and writes the checkpoint to w.
func Write(w io.Writer, tensors map[string]*tensor.Tensor) error {
	data, err := Marshal(tensors)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write checkpoint: %w", err)
	}
	return nil
}

// WriteFile writes a checkpoint to path. The file is written to a temporary
// sibling first and renamed into place, so readers never observe a partial
// checkpoint.
func WriteFile(path string, tensors map[string]*tensor.Tensor) error {
	data, err := Marshal(tensors)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create checkpoint: %w", err)
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck // no-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write checkpoint: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close checkpoint: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename checkpoint: %w", err)
	}
	return nil
}
