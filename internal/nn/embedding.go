package nn

import (
	"fmt"

	"github.com/born-ml/mha/internal/tensor"
)

// Embedding is a lookup table that maps token ids to dense vectors.
//
//   - Weight: [NumEmbed, EmbedDim]
//   - Forward: ids [seq] -> embeddings [1, seq, EmbedDim]
type Embedding struct {
	Weight   *tensor.Tensor
	NumEmbed int
	EmbedDim int
}

// NewEmbedding creates an embedding table with Xavier-initialized rows.
func NewEmbedding(numEmbeddings, embeddingDim int, gen Generator) (*Embedding, error) {
	if gen == nil {
		return nil, ErrNilGenerator
	}
	weight, err := Xavier(numEmbeddings, embeddingDim, tensor.Shape{numEmbeddings, embeddingDim}, gen)
	if err != nil {
		return nil, err
	}
	return &Embedding{Weight: weight, NumEmbed: numEmbeddings, EmbedDim: embeddingDim}, nil
}

// Forward looks up each id and returns a single-batch sequence
// [1, len(ids), EmbedDim], ready to feed into MultiHeadAttention.
//
// Returns ErrIndexOutOfBounds for ids outside [0, NumEmbed).
func (e *Embedding) Forward(ids []int32) (*tensor.Tensor, error) {
	table := e.Weight.View()
	out := make([]float32, 0, len(ids)*e.EmbedDim)
	for pos, id := range ids {
		if id < 0 || int(id) >= e.NumEmbed {
			return nil, fmt.Errorf("%w: token %d at position %d, vocabulary has %d entries",
				tensor.ErrIndexOutOfBounds, id, pos, e.NumEmbed)
		}
		row := int(id) * e.EmbedDim
		out = append(out, table[row:row+e.EmbedDim]...)
	}
	return tensor.Wrap(out, tensor.Shape{1, len(ids), e.EmbedDim})
}
