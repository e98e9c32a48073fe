package nn

import (
	"fmt"
	"math"

	"golang.org/x/sync/errgroup"

	"github.com/born-ml/mha/internal/tensor"
)

// State dict keys of the four projection matrices.
const (
	KeyQuery  = "w_query"
	KeyKey    = "w_key"
	KeyValue  = "w_value"
	KeyOutput = "w_output"
)

// MHAConfig configures a MultiHeadAttention layer.
type MHAConfig struct {
	NumHeads int // Number of attention heads
	DModel   int // Model dimension; must be divisible by NumHeads

	// InitScale > 0 draws weights from U(0, InitScale).
	// Zero selects Xavier initialization. Negative, NaN and infinite
	// values are rejected with ErrInvalidInitScale.
	InitScale float32

	// Workers > 1 runs the independent per-head, per-batch attention
	// computations on up to Workers goroutines.
	Workers int
}

// MultiHeadAttention implements the multi-head attention mechanism.
//
// Architecture:
//
//	MHA(Q, K, V) = Concat(head_1, ..., head_h) * W_O
//	head_i = SDPA(Q*W_Q_i, K*W_K_i, V*W_V_i)
//
// All four weights are [DModel, DModel] and applied as x·W. The layer is
// immutable after construction: Forward only reads the weights, so one
// instance may serve concurrent callers.
//
// Example:
//
//	mha, err := nn.NewMultiHeadAttention(nn.MHAConfig{NumHeads: 2, DModel: 4}, nn.NewGenerator(42), nil)
//	out, err := mha.Forward(x, x, x) // self-attention, x: [batch, seq, 4]
type MultiHeadAttention struct {
	NumHeads int
	HeadDim  int
	DModel   int

	wq, wk, wv, wo *tensor.Tensor
	workers        int
	backend        tensor.Backend
}

// NewMultiHeadAttention creates a multi-head attention layer with weights
// drawn from gen. A nil backend selects the CPU backend.
//
// Returns tensor.ErrIndivisible unless DModel is a positive multiple of
// NumHeads.
func NewMultiHeadAttention(cfg MHAConfig, gen Generator, backend tensor.Backend) (*MultiHeadAttention, error) {
	if err := checkHeads(cfg.NumHeads, cfg.DModel); err != nil {
		return nil, err
	}
	if scale := float64(cfg.InitScale); !(scale >= 0) || math.IsInf(scale, 1) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInitScale, cfg.InitScale)
	}
	if gen == nil {
		return nil, ErrNilGenerator
	}

	shape := tensor.Shape{cfg.DModel, cfg.DModel}
	weights := make([]*tensor.Tensor, 4)
	for i := range weights {
		var err error
		if cfg.InitScale > 0 {
			weights[i], err = Uniform(shape, gen, 0, cfg.InitScale)
		} else {
			weights[i], err = Xavier(cfg.DModel, cfg.DModel, shape, gen)
		}
		if err != nil {
			return nil, err
		}
	}

	return &MultiHeadAttention{
		NumHeads: cfg.NumHeads,
		HeadDim:  cfg.DModel / cfg.NumHeads,
		DModel:   cfg.DModel,
		wq:       weights[0],
		wk:       weights[1],
		wv:       weights[2],
		wo:       weights[3],
		workers:  cfg.Workers,
		backend:  orDefault(backend),
	}, nil
}

// NewMultiHeadAttentionFromWeights builds a layer from explicit projection
// matrices. Each must be [d_model, d_model]; they are copied.
func NewMultiHeadAttentionFromWeights(
	numHeads int,
	wq, wk, wv, wo *tensor.Tensor,
	backend tensor.Backend,
) (*MultiHeadAttention, error) {
	if wq == nil || wk == nil || wv == nil || wo == nil {
		return nil, fmt.Errorf("%w: all four projection weights are required", tensor.ErrEmptyInput)
	}
	if wq.Rank() != 2 {
		return nil, fmt.Errorf("%w: w_query has shape %v, want [d_model, d_model]", tensor.ErrRank, wq.Shape())
	}
	dModel := wq.Dim(0)
	want := tensor.Shape{dModel, dModel}
	for name, w := range map[string]*tensor.Tensor{KeyQuery: wq, KeyKey: wk, KeyValue: wv, KeyOutput: wo} {
		if !w.Shape().Equal(want) {
			return nil, fmt.Errorf("%w: %s has shape %v, want %v", tensor.ErrShapeMismatch, name, w.Shape(), want)
		}
	}
	if err := checkHeads(numHeads, dModel); err != nil {
		return nil, err
	}

	return &MultiHeadAttention{
		NumHeads: numHeads,
		HeadDim:  dModel / numHeads,
		DModel:   dModel,
		wq:       wq.Clone(),
		wk:       wk.Clone(),
		wv:       wv.Clone(),
		wo:       wo.Clone(),
		backend:  orDefault(backend),
	}, nil
}

// NewMultiHeadAttentionFromStateDict builds a layer from a state dict as
// returned by StateDict.
func NewMultiHeadAttentionFromStateDict(
	numHeads int,
	state map[string]*tensor.Tensor,
	backend tensor.Backend,
) (*MultiHeadAttention, error) {
	for _, key := range []string{KeyQuery, KeyKey, KeyValue, KeyOutput} {
		if state[key] == nil {
			return nil, fmt.Errorf("%w: state dict has no %q", tensor.ErrEmptyInput, key)
		}
	}
	return NewMultiHeadAttentionFromWeights(
		numHeads, state[KeyQuery], state[KeyKey], state[KeyValue], state[KeyOutput], backend)
}

// WithWorkers returns a copy of the layer that fans attention out over up to
// n goroutines. Weights are shared; they are never mutated.
func (m *MultiHeadAttention) WithWorkers(n int) *MultiHeadAttention {
	c := *m
	c.workers = n
	return &c
}

// StateDict returns copies of the projection weights keyed by name.
func (m *MultiHeadAttention) StateDict() map[string]*tensor.Tensor {
	return map[string]*tensor.Tensor{
		KeyQuery:  m.wq.Clone(),
		KeyKey:    m.wk.Clone(),
		KeyValue:  m.wv.Clone(),
		KeyOutput: m.wo.Clone(),
	}
}

// Forward computes multi-head attention.
//
// Args:
//   - query: Query tensor [batch, seq_q, d_model]
//   - key: Key tensor [batch, seq_k, d_model]
//   - value: Value tensor [batch, seq_k, d_model]
//
// Returns:
//   - output: [batch, seq_q, d_model]
//
// For self-attention, pass the same tensor for query, key, and value.
func (m *MultiHeadAttention) Forward(query, key, value *tensor.Tensor) (*tensor.Tensor, error) {
	out, _, err := m.forward(query, key, value, nil, false)
	return out, err
}

// ForwardWithWeights computes multi-head attention and returns attention weights.
//
// mask is an optional additive [seq_q, seq_k] mask shared by every head and
// batch element (see CausalMask).
//
// Returns:
//   - output: [batch, seq_q, d_model]
//   - weights: [batch, num_heads, seq_q, seq_k]
func (m *MultiHeadAttention) ForwardWithWeights(query, key, value, mask *tensor.Tensor) (out, weights *tensor.Tensor, err error) {
	return m.forward(query, key, value, mask, true)
}

func (m *MultiHeadAttention) forward(
	query, key, value, mask *tensor.Tensor,
	keepWeights bool,
) (*tensor.Tensor, *tensor.Tensor, error) {
	if err := m.validateInputs(query, key, value, mask); err != nil {
		return nil, nil, err
	}
	batch := query.Dim(0)
	if batch == 0 {
		return m.emptyBatch(query.Dim(1), key.Dim(1), keepWeights)
	}

	// 1. Project Q, K, V
	q, err := m.project(query, m.wq)
	if err != nil {
		return nil, nil, fmt.Errorf("query projection: %w", err)
	}
	k, err := m.project(key, m.wk)
	if err != nil {
		return nil, nil, fmt.Errorf("key projection: %w", err)
	}
	v, err := m.project(value, m.wv)
	if err != nil {
		return nil, nil, fmt.Errorf("value projection: %w", err)
	}

	// 2. Split into heads: NumHeads × [batch, seq, head_dim]
	qHeads, err := q.SplitHeads(m.NumHeads)
	if err != nil {
		return nil, nil, err
	}
	kHeads, err := k.SplitHeads(m.NumHeads)
	if err != nil {
		return nil, nil, err
	}
	vHeads, err := v.SplitHeads(m.NumHeads)
	if err != nil {
		return nil, nil, err
	}

	// 3. Attention per head and batch element. Every task writes only its
	// own slot, so tasks can run in any order.
	outs := make([][]*tensor.Tensor, m.NumHeads) // [head][batch]
	wts := make([][]*tensor.Tensor, batch)       // [batch][head]
	for h := range outs {
		outs[h] = make([]*tensor.Tensor, batch)
	}
	for b := range wts {
		wts[b] = make([]*tensor.Tensor, m.NumHeads)
	}

	task := func(h, b int) error {
		qs, err := qHeads[h].Index(b)
		if err != nil {
			return err
		}
		ks, err := kHeads[h].Index(b)
		if err != nil {
			return err
		}
		vs, err := vHeads[h].Index(b)
		if err != nil {
			return err
		}
		o, w, err := MaskedAttention(m.backend, qs, ks, vs, mask)
		if err != nil {
			return fmt.Errorf("head %d, batch %d: %w", h, b, err)
		}
		outs[h][b] = o
		if keepWeights {
			wts[b][h] = w
		}
		return nil
	}
	if err := m.run(batch, task); err != nil {
		return nil, nil, err
	}

	// 4. Merge heads back into [batch, seq_q, d_model]
	heads := make([]*tensor.Tensor, m.NumHeads)
	for h := range heads {
		if heads[h], err = tensor.Stack(outs[h]); err != nil {
			return nil, nil, err
		}
	}
	merged, err := tensor.ConcatHeads(heads)
	if err != nil {
		return nil, nil, err
	}

	// 5. Output projection
	output, err := m.project(merged, m.wo)
	if err != nil {
		return nil, nil, fmt.Errorf("output projection: %w", err)
	}

	if !keepWeights {
		return output, nil, nil
	}
	perBatch := make([]*tensor.Tensor, batch)
	for b := range perBatch {
		if perBatch[b], err = tensor.Stack(wts[b]); err != nil {
			return nil, nil, err
		}
	}
	weights, err := tensor.Stack(perBatch)
	if err != nil {
		return nil, nil, err
	}
	return output, weights, nil
}

// emptyBatch returns correctly shaped zero-length results for batch == 0.
func (m *MultiHeadAttention) emptyBatch(seqQ, seqK int, keepWeights bool) (*tensor.Tensor, *tensor.Tensor, error) {
	out, err := tensor.Zeros(tensor.Shape{0, seqQ, m.DModel})
	if err != nil || !keepWeights {
		return out, nil, err
	}
	weights, err := tensor.Zeros(tensor.Shape{0, m.NumHeads, seqQ, seqK})
	if err != nil {
		return nil, nil, err
	}
	return out, weights, nil
}

// run executes task for every (head, batch) pair, sequentially or on an
// errgroup bounded by the configured worker count. The first error wins.
func (m *MultiHeadAttention) run(batch int, task func(h, b int) error) error {
	if m.workers <= 1 {
		for h := 0; h < m.NumHeads; h++ {
			for b := 0; b < batch; b++ {
				if err := task(h, b); err != nil {
					return err
				}
			}
		}
		return nil
	}

	var g errgroup.Group
	g.SetLimit(m.workers)
	for h := 0; h < m.NumHeads; h++ {
		for b := 0; b < batch; b++ {
			h, b := h, b
			g.Go(func() error { return task(h, b) })
		}
	}
	return g.Wait()
}

// project applies a [d_model, d_model] weight to every position of a
// [batch, seq, d_model] tensor by flattening batch and seq into rows.
func (m *MultiHeadAttention) project(x, w *tensor.Tensor) (*tensor.Tensor, error) {
	if x.Rank() != 3 {
		return nil, fmt.Errorf("%w: projection input %v, want [batch, seq, d_model]", tensor.ErrRank, x.Shape())
	}
	batch, seq, dIn := x.Dim(0), x.Dim(1), x.Dim(2)

	x2D, err := x.Reshape(batch*seq, dIn)
	if err != nil {
		return nil, err
	}
	y2D, err := m.backend.MatMul(x2D, w)
	if err != nil {
		return nil, err
	}
	return y2D.Reshape(batch, seq, w.Dim(1))
}

// validateInputs checks ranks, model dimension, batch and sequence
// agreement, and the optional mask shape.
func (m *MultiHeadAttention) validateInputs(query, key, value, mask *tensor.Tensor) error {
	for _, in := range []struct {
		name string
		t    *tensor.Tensor
	}{{"query", query}, {"key", key}, {"value", value}} {
		if in.t.Rank() != 3 {
			return fmt.Errorf("%w: %s has shape %v, want [batch, seq, d_model]", tensor.ErrRank, in.name, in.t.Shape())
		}
		if in.t.Dim(2) != m.DModel {
			return fmt.Errorf("%w: %s has d_model %d, layer has %d", tensor.ErrDimensionMismatch, in.name, in.t.Dim(2), m.DModel)
		}
	}
	if key.Dim(0) != query.Dim(0) || value.Dim(0) != query.Dim(0) {
		return fmt.Errorf("%w: batch sizes differ: query %d, key %d, value %d",
			tensor.ErrDimensionMismatch, query.Dim(0), key.Dim(0), value.Dim(0))
	}
	if key.Dim(1) != value.Dim(1) {
		return fmt.Errorf("%w: key has %d positions, value has %d",
			tensor.ErrDimensionMismatch, key.Dim(1), value.Dim(1))
	}
	if mask != nil {
		want := tensor.Shape{query.Dim(1), key.Dim(1)}
		if !mask.Shape().Equal(want) {
			return fmt.Errorf("%w: mask has shape %v, want %v", tensor.ErrShapeMismatch, mask.Shape(), want)
		}
	}
	return nil
}

// checkHeads validates the head configuration.
func checkHeads(numHeads, dModel int) error {
	if numHeads <= 0 || dModel <= 0 || dModel%numHeads != 0 {
		return fmt.Errorf("%w: d_model %d, num_heads %d", tensor.ErrIndivisible, dModel, numHeads)
	}
	return nil
}
