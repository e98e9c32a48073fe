package tensor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReshape(t *testing.T) {
	x := arange(t, 2, 3)

	y, err := x.Reshape(3, 2)
	require.NoError(t, err)
	assert.Equal(t, Shape{3, 2}, y.Shape())
	assert.Equal(t, x.Data(), y.Data(), "reshape keeps flat order")

	back, err := y.Reshape(2, 3)
	require.NoError(t, err)
	assert.True(t, back.Equal(x))

	// The source is untouched and unaliased.
	require.NoError(t, y.Set(99, 0, 0))
	v, err := x.Get(0, 0)
	require.NoError(t, err)
	assert.Zero(t, v)
}

func TestReshape_SizeMismatch(t *testing.T) {
	x := arange(t, 2, 3)
	_, err := x.Reshape(4, 2)
	require.ErrorIs(t, err, ErrSizeMismatch)
	_, err = x.Reshape(-2, -3)
	require.ErrorIs(t, err, ErrInvalidShape)
}

func TestReshape_RoundTrip(t *testing.T) {
	x := arange(t, 2, 3, 4)
	shapes := [][]int{{24}, {4, 6}, {2, 12}, {1, 24, 1}, {3, 2, 2, 2}}
	for _, s := range shapes {
		y, err := x.Reshape(s...)
		require.NoError(t, err)
		back, err := y.Reshape(2, 3, 4)
		require.NoError(t, err)
		assert.Equal(t, x.Data(), back.Data(), "shape %v", s)
	}
}

func TestTranspose2D(t *testing.T) {
	x := Must(FromSlice([]float32{1, 2, 3, 4, 5, 6}, Shape{2, 3}))

	y, err := x.Transpose2D()
	require.NoError(t, err)
	assert.Equal(t, Shape{3, 2}, y.Shape())
	assert.Equal(t, []float32{1, 4, 2, 5, 3, 6}, y.Data())

	for i := 0; i < 2; i++ {
		for j := 0; j < 3; j++ {
			a, _ := x.Get(i, j)
			b, _ := y.Get(j, i)
			assert.Equal(t, a, b)
		}
	}

	z, err := y.Transpose2D()
	require.NoError(t, err)
	assert.True(t, z.Equal(x))
}

func TestTranspose2D_RankError(t *testing.T) {
	_, err := arange(t, 2, 3, 4).Transpose2D()
	require.ErrorIs(t, err, ErrRank)
	_, err = arange(t, 5).Transpose2D()
	require.ErrorIs(t, err, ErrRank)
}

func TestPermute(t *testing.T) {
	// [batch=1, seq=2, heads=2, d_head=2] -> [batch, heads, seq, d_head]
	x := Must(FromSlice([]float32{1, 2, 3, 4, 5, 6, 7, 8}, Shape{1, 2, 2, 2}))

	y, err := x.Permute(0, 2, 1, 3)
	require.NoError(t, err)
	assert.Equal(t, Shape{1, 2, 2, 2}, y.Shape())
	// Head 0 holds the first half of each row, head 1 the second half.
	assert.Equal(t, []float32{1, 2, 5, 6, 3, 4, 7, 8}, y.Data())

	back, err := y.Permute(0, 2, 1, 3)
	require.NoError(t, err)
	assert.True(t, back.Equal(x))
}

func TestPermute_MatchesTranspose2D(t *testing.T) {
	x := arange(t, 3, 5)
	a, err := x.Permute(1, 0)
	require.NoError(t, err)
	b, err := x.Transpose2D()
	require.NoError(t, err)
	assert.True(t, a.Equal(b))
}

func TestPermute_TransposeLastTwo(t *testing.T) {
	x := Must(FromSlice([]float32{1, 2, 3, 4, 5, 6, 7, 8}, Shape{1, 2, 2, 2}))
	y, err := x.Permute(0, 1, 3, 2)
	require.NoError(t, err)
	assert.Equal(t, []float32{1, 3, 2, 4, 5, 7, 6, 8}, y.Data())
}

func TestPermute_Errors(t *testing.T) {
	x := arange(t, 2, 3, 4)
	_, err := x.Permute(0, 1)
	require.ErrorIs(t, err, ErrRank)
	_, err = x.Permute(0, 1, 1)
	require.ErrorIs(t, err, ErrInvalidAxes)
	_, err = x.Permute(0, 1, 3)
	require.ErrorIs(t, err, ErrInvalidAxes)
}

func TestSplitHeads(t *testing.T) {
	// [1, 2, 4] with values b*8 + s*4 + i.
	x := arange(t, 1, 2, 4)

	heads, err := x.SplitHeads(2)
	require.NoError(t, err)
	require.Len(t, heads, 2)
	for _, h := range heads {
		assert.Equal(t, Shape{1, 2, 2}, h.Shape())
	}
	assert.Equal(t, []float32{0, 1, 4, 5}, heads[0].Data())
	assert.Equal(t, []float32{2, 3, 6, 7}, heads[1].Data())
}

func TestSplitHeads_Mapping(t *testing.T) {
	x := arange(t, 2, 3, 6)
	const numHeads = 3
	heads, err := x.SplitHeads(numHeads)
	require.NoError(t, err)

	dHead := 6 / numHeads
	for h := 0; h < numHeads; h++ {
		for b := 0; b < 2; b++ {
			for s := 0; s < 3; s++ {
				for i := 0; i < dHead; i++ {
					got, err := heads[h].Get(b, s, i)
					require.NoError(t, err)
					want, err := x.Get(b, s, h*dHead+i)
					require.NoError(t, err)
					assert.Equal(t, want, got)
				}
			}
		}
	}
}

func TestSplitHeads_Errors(t *testing.T) {
	_, err := arange(t, 2, 4).SplitHeads(2)
	require.ErrorIs(t, err, ErrRank)
	_, err = arange(t, 1, 2, 10).SplitHeads(3)
	require.ErrorIs(t, err, ErrIndivisible)
	_, err = arange(t, 1, 2, 4).SplitHeads(0)
	require.ErrorIs(t, err, ErrIndivisible)
}

func TestConcatHeads_RoundTrip(t *testing.T) {
	cases := []struct {
		shape    []int
		numHeads int
	}{
		{[]int{1, 2, 4}, 2},
		{[]int{2, 3, 6}, 3},
		{[]int{3, 1, 8}, 8},
		{[]int{2, 5, 12}, 1},
	}
	for _, tc := range cases {
		x := arange(t, tc.shape...)
		heads, err := x.SplitHeads(tc.numHeads)
		require.NoError(t, err)
		merged, err := ConcatHeads(heads)
		require.NoError(t, err)
		assert.True(t, merged.Equal(x), "shape %v heads %d", tc.shape, tc.numHeads)
	}
}

func TestConcatHeads_Errors(t *testing.T) {
	_, err := ConcatHeads(nil)
	require.ErrorIs(t, err, ErrEmptyInput)

	_, err = ConcatHeads([]*Tensor{arange(t, 2, 2)})
	require.ErrorIs(t, err, ErrRank)

	_, err = ConcatHeads([]*Tensor{arange(t, 1, 2, 2), arange(t, 1, 3, 2)})
	require.ErrorIs(t, err, ErrShapeMismatch)
}

func TestIndexStack(t *testing.T) {
	x := arange(t, 3, 2, 2)

	parts := make([]*Tensor, 3)
	for i := range parts {
		p, err := x.Index(i)
		require.NoError(t, err)
		assert.Equal(t, Shape{2, 2}, p.Shape())
		parts[i] = p
	}
	assert.Equal(t, []float32{4, 5, 6, 7}, parts[1].Data())

	stacked, err := Stack(parts)
	require.NoError(t, err)
	assert.True(t, stacked.Equal(x))

	_, err = x.Index(3)
	require.ErrorIs(t, err, ErrIndexOutOfBounds)
	_, err = Stack(nil)
	require.ErrorIs(t, err, ErrEmptyInput)
	_, err = Stack([]*Tensor{arange(t, 2), arange(t, 3)})
	require.ErrorIs(t, err, ErrShapeMismatch)
}
