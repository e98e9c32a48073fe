package nn

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/mha/internal/serialization"
	"github.com/born-ml/mha/internal/tensor"
)

func TestSaveLoadMultiHeadAttention(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mha.ckpt")
	m := newTestMHA(t, 2, 8)
	require.NoError(t, SaveMultiHeadAttention(path, m))

	loaded, err := LoadMultiHeadAttention(path, 2, nil)
	require.NoError(t, err)
	assert.Equal(t, m.DModel, loaded.DModel)
	assert.Equal(t, m.HeadDim, loaded.HeadDim)

	x := randomInput(t, 23, 2, 3, 8)
	want, err := m.Forward(x, x, x)
	require.NoError(t, err)
	got, err := loaded.Forward(x, x, x)
	require.NoError(t, err)
	assert.True(t, want.Equal(got))
}

func TestLoadMultiHeadAttention_Errors(t *testing.T) {
	dir := t.TempDir()
	m := newTestMHA(t, 2, 8)
	path := filepath.Join(dir, "mha.ckpt")
	require.NoError(t, SaveMultiHeadAttention(path, m))

	_, err := LoadMultiHeadAttention(path, 3, nil)
	assert.ErrorIs(t, err, tensor.ErrIndivisible)

	partial := filepath.Join(dir, "partial.ckpt")
	state := m.StateDict()
	delete(state, KeyOutput)
	require.NoError(t, serialization.WriteFile(partial, state))
	_, err = LoadMultiHeadAttention(partial, 2, nil)
	assert.ErrorIs(t, err, tensor.ErrEmptyInput)
}
