package nn

import (
	"fmt"

	"github.com/born-ml/mha/internal/serialization"
	"github.com/born-ml/mha/internal/tensor"
)

// SaveMultiHeadAttention writes the projection weights of m to path.
func SaveMultiHeadAttention(path string, m *MultiHeadAttention) error {
	if err := serialization.WriteFile(path, m.StateDict()); err != nil {
		return fmt.Errorf("save multi-head attention: %w", err)
	}
	return nil
}

// LoadMultiHeadAttention restores a layer saved with SaveMultiHeadAttention.
// The head count is not stored in the checkpoint; d_model is taken from the
// weight shapes.
func LoadMultiHeadAttention(path string, numHeads int, backend tensor.Backend) (*MultiHeadAttention, error) {
	state, err := serialization.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load multi-head attention: %w", err)
	}
	m, err := NewMultiHeadAttentionFromStateDict(numHeads, state, backend)
	if err != nil {
		return nil, fmt.Errorf("load multi-head attention: %w", err)
	}
	return m, nil
}
