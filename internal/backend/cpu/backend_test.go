package cpu

import (
	"math"
	"testing"

	"github.com/born-ml/mha/internal/parallel"
	"github.com/born-ml/mha/internal/tensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func backends() map[string]*CPUBackend {
	return map[string]*CPUBackend{
		"default":    New(),
		"sequential": NewWithConfig(parallel.Sequential()),
		"forced":     NewWithConfig(parallel.Config{Enabled: true, NumWorkers: 4, MinChunkSize: 1}),
	}
}

func TestMatMul_Identity(t *testing.T) {
	a := tensor.Must(tensor.FromSlice([]float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3}))
	eye := tensor.Must(tensor.Eye(3))

	for name, b := range backends() {
		t.Run(name, func(t *testing.T) {
			c, err := b.MatMul(a, eye)
			require.NoError(t, err)
			assert.True(t, c.Equal(a))
		})
	}
}

func TestMatMul_ColumnVector(t *testing.T) {
	a := tensor.Must(tensor.FromSlice([]float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3}))
	v := tensor.Must(tensor.FromSlice([]float32{2, 3, 4}, tensor.Shape{3, 1}))

	c, err := New().MatMul(a, v)
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{2, 1}, c.Shape())
	assert.Equal(t, []float32{20, 47}, c.Data())
}

func TestMatMul_Rectangular(t *testing.T) {
	// [2,3] @ [3,2]
	a := tensor.Must(tensor.FromSlice([]float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3}))
	b := tensor.Must(tensor.FromSlice([]float32{7, 8, 9, 10, 11, 12}, tensor.Shape{3, 2}))

	c, err := New().MatMul(a, b)
	require.NoError(t, err)
	assert.Equal(t, []float32{58, 64, 139, 154}, c.Data())
}

func TestMatMul_LargeParallelMatchesSequential(t *testing.T) {
	const m, k, n = 67, 31, 45
	a := tensor.Must(tensor.Zeros(tensor.Shape{m, k}))
	b := tensor.Must(tensor.Zeros(tensor.Shape{k, n}))
	for i := 0; i < m; i++ {
		for j := 0; j < k; j++ {
			require.NoError(t, a.Set(float32((i*7+j*3)%11)-5, i, j))
		}
	}
	for i := 0; i < k; i++ {
		for j := 0; j < n; j++ {
			require.NoError(t, b.Set(float32((i*5+j)%13)*0.25, i, j))
		}
	}

	seq, err := NewWithConfig(parallel.Sequential()).MatMul(a, b)
	require.NoError(t, err)
	par, err := NewWithConfig(parallel.Config{Enabled: true, NumWorkers: 8, MinChunkSize: 1}).MatMul(a, b)
	require.NoError(t, err)
	assert.True(t, seq.Equal(par), "row parallelism must not change results")
}

func TestMatMul_Errors(t *testing.T) {
	b := New()
	m2x3 := tensor.Must(tensor.Zeros(tensor.Shape{2, 3}))
	m2x2 := tensor.Must(tensor.Zeros(tensor.Shape{2, 2}))
	v3 := tensor.Must(tensor.Zeros(tensor.Shape{3}))

	_, err := b.MatMul(m2x3, v3)
	require.ErrorIs(t, err, tensor.ErrRank)
	_, err = b.MatMul(m2x3, m2x2)
	require.ErrorIs(t, err, tensor.ErrDimensionMismatch)
}

func TestMatMul_EmptyInner(t *testing.T) {
	a := tensor.Must(tensor.Zeros(tensor.Shape{2, 0}))
	b := tensor.Must(tensor.Zeros(tensor.Shape{0, 3}))
	c, err := New().MatMul(a, b)
	require.NoError(t, err)
	assert.Equal(t, make([]float32, 6), c.Data())
}

func TestBatchMatMul_3D(t *testing.T) {
	a := tensor.Must(tensor.FromSlice([]float32{
		1, 2, 3, 4,
		1, 0, 0, 1,
	}, tensor.Shape{2, 2, 2}))
	b := tensor.Must(tensor.FromSlice([]float32{
		1, 0, 0, 1,
		5, 6, 7, 8,
	}, tensor.Shape{2, 2, 2}))

	c, err := New().BatchMatMul(a, b)
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{2, 2, 2}, c.Shape())
	assert.Equal(t, []float32{1, 2, 3, 4, 5, 6, 7, 8}, c.Data())
}

func TestBatchMatMul_4DScores(t *testing.T) {
	// query [1,1,2,2] @ key^T [1,1,2,2]
	q := tensor.Must(tensor.FromSlice([]float32{1, 2, 3, 4}, tensor.Shape{1, 1, 2, 2}))
	kT := tensor.Must(tensor.FromSlice([]float32{1, 3, 2, 4}, tensor.Shape{1, 1, 2, 2}))

	c, err := New().BatchMatMul(q, kT)
	require.NoError(t, err)
	assert.Equal(t, []float32{7, 10, 15, 22}, c.Data())
}

func TestBatchMatMul_MatchesPerSliceMatMul(t *testing.T) {
	b := New()
	aData := make([]float32, 2*3*4*5)
	for i := range aData {
		aData[i] = float32(i%7) - 3
	}
	wData := make([]float32, 2*3*5*2)
	for i := range wData {
		wData[i] = float32(i%5) * 0.5
	}
	a := tensor.Must(tensor.FromSlice(aData, tensor.Shape{2, 3, 4, 5}))
	w := tensor.Must(tensor.FromSlice(wData, tensor.Shape{2, 3, 5, 2}))

	got, err := b.BatchMatMul(a, w)
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{2, 3, 4, 2}, got.Shape())

	for bi := 0; bi < 2; bi++ {
		ab, _ := a.Index(bi)
		wb, _ := w.Index(bi)
		gb, _ := got.Index(bi)
		for h := 0; h < 3; h++ {
			ah, _ := ab.Index(h)
			wh, _ := wb.Index(h)
			gh, _ := gb.Index(h)
			want, err := b.MatMul(ah, wh)
			require.NoError(t, err)
			assert.True(t, want.Equal(gh), "batch %d head %d", bi, h)
		}
	}
}

func TestBatchMatMul_Errors(t *testing.T) {
	b := New()
	_, err := b.BatchMatMul(tensor.Must(tensor.Zeros(tensor.Shape{2, 2})), tensor.Must(tensor.Zeros(tensor.Shape{2, 2})))
	require.ErrorIs(t, err, tensor.ErrRank)
	_, err = b.BatchMatMul(tensor.Must(tensor.Zeros(tensor.Shape{2, 2, 3})), tensor.Must(tensor.Zeros(tensor.Shape{3, 3, 2})))
	require.ErrorIs(t, err, tensor.ErrDimensionMismatch)
	_, err = b.BatchMatMul(tensor.Must(tensor.Zeros(tensor.Shape{2, 2, 3})), tensor.Must(tensor.Zeros(tensor.Shape{2, 2, 2})))
	require.ErrorIs(t, err, tensor.ErrDimensionMismatch)
}

func TestSoftmax(t *testing.T) {
	x := tensor.Must(tensor.FromSlice([]float32{1, 2, 3}, tensor.Shape{1, 3}))

	y, err := New().Softmax(x)
	require.NoError(t, err)
	got := y.Data()
	assert.InDelta(t, 0.090, got[0], 1e-3)
	assert.InDelta(t, 0.245, got[1], 1e-3)
	assert.InDelta(t, 0.665, got[2], 1e-3)
	assert.InDelta(t, 1.0, got[0]+got[1]+got[2], 1e-3)
}

func TestSoftmax_RowsSumToOneAndShiftInvariant(t *testing.T) {
	x := tensor.Must(tensor.FromSlice([]float32{
		0.5, -1, 2, 7,
		-3, -3, -3, -3,
		100, 0, -100, 50,
	}, tensor.Shape{3, 4}))
	shiftedData := x.Data()
	for i := range shiftedData {
		shiftedData[i] += 1000
	}
	shifted := tensor.Must(tensor.FromSlice(shiftedData, tensor.Shape{3, 4}))

	for name, b := range backends() {
		t.Run(name, func(t *testing.T) {
			y, err := b.Softmax(x)
			require.NoError(t, err)
			ys, err := b.Softmax(shifted)
			require.NoError(t, err)

			for r := 0; r < 3; r++ {
				sum := float32(0)
				for c := 0; c < 4; c++ {
					v, _ := y.Get(r, c)
					assert.GreaterOrEqual(t, v, float32(0))
					assert.LessOrEqual(t, v, float32(1))
					sum += v
				}
				assert.InDelta(t, 1.0, sum, 1e-3, "row %d", r)
			}
			assert.True(t, y.AllClose(ys, 1e-3))
		})
	}
}

func TestSoftmax_LargeValuesDoNotOverflow(t *testing.T) {
	x := tensor.Must(tensor.FromSlice([]float32{1000, 1001, 1002}, tensor.Shape{1, 3}))
	y, err := New().Softmax(x)
	require.NoError(t, err)
	for _, v := range y.Data() {
		assert.False(t, math.IsNaN(float64(v)) || math.IsInf(float64(v), 0))
	}
	assert.InDelta(t, 0.665, y.Data()[2], 1e-3)
}

func TestSoftmax_NegativeInfinityMasked(t *testing.T) {
	negInf := float32(math.Inf(-1))
	x := tensor.Must(tensor.FromSlice([]float32{0, negInf, 0, negInf}, tensor.Shape{1, 4}))
	y, err := New().Softmax(x)
	require.NoError(t, err)
	assert.Equal(t, []float32{0.5, 0, 0.5, 0}, y.Data())
}

func TestSoftmax_RankError(t *testing.T) {
	_, err := New().Softmax(tensor.Must(tensor.Zeros(tensor.Shape{3})))
	require.ErrorIs(t, err, tensor.ErrRank)
	_, err = New().Softmax(tensor.Must(tensor.Zeros(tensor.Shape{1, 2, 3})))
	require.ErrorIs(t, err, tensor.ErrRank)
}
