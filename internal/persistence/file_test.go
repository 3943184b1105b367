package persistence

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileKVRoundTrip(t *testing.T) {
	ctx := context.Background()
	kv := NewFileKV(filepath.Join(t.TempDir(), "state.json"))

	_, err := kv.Get(ctx, KeyCredential)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, kv.Set(ctx, KeyCredential, "payload"))
	require.NoError(t, kv.Set(ctx, KeyTenant, "acme"))

	val, err := kv.Get(ctx, KeyCredential)
	require.NoError(t, err)
	assert.Equal(t, "payload", val)

	require.NoError(t, kv.Delete(ctx, KeyCredential))
	_, err = kv.Get(ctx, KeyCredential)
	assert.ErrorIs(t, err, ErrNotFound)

	// Other keys are untouched by a delete.
	val, err = kv.Get(ctx, KeyTenant)
	require.NoError(t, err)
	assert.Equal(t, "acme", val)
}

func TestFileKVSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "state.json")

	first := NewFileKV(path)
	require.NoError(t, first.Set(ctx, KeyTenant, "globex"))
	require.NoError(t, first.Close())

	second := NewFileKV(path)
	val, err := second.Get(ctx, KeyTenant)
	require.NoError(t, err)
	assert.Equal(t, "globex", val)
}

func TestFileKVOwnerOnlyPermissions(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "state.json")

	kv := NewFileKV(path)
	require.NoError(t, kv.Set(ctx, KeyCredential, "secret"))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestFileKVDeleteAbsentKey(t *testing.T) {
	kv := NewFileKV(filepath.Join(t.TempDir(), "state.json"))
	assert.NoError(t, kv.Delete(context.Background(), KeyCredential))
}

func TestFileKVCorruptFileTreatedAsEmpty(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	kv := NewFileKV(path)
	_, err := kv.Get(ctx, KeyCredential)
	assert.ErrorIs(t, err, ErrNotFound)

	// Writes recover the file.
	require.NoError(t, kv.Set(ctx, KeyCredential, "fresh"))
	val, err := kv.Get(ctx, KeyCredential)
	require.NoError(t, err)
	assert.Equal(t, "fresh", val)
}
