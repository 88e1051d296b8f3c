package credentials

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTemp(t *testing.T) (*SQLiteRepository, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nested", "session.db")
	r, err := Open(context.Background(), path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = r.Close() })
	return r, path
}

func TestSaveAndLoad(t *testing.T) {
	r, _ := openTemp(t)
	ctx := context.Background()

	require.NoError(t, r.Save(ctx, "credential", "Zm9vOmJhcg=="))

	v, ok, err := r.Load(ctx, "credential")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Zm9vOmJhcg==", v)
}

func TestLoad_Absent(t *testing.T) {
	r, _ := openTemp(t)

	v, ok, err := r.Load(context.Background(), "absent")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, v)
}

func TestSave_Overwrites(t *testing.T) {
	r, _ := openTemp(t)
	ctx := context.Background()

	require.NoError(t, r.Save(ctx, "k", "old"))
	require.NoError(t, r.Save(ctx, "k", "new"))

	v, _, err := r.Load(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "new", v)
}

func TestSaveAll_ThenClear(t *testing.T) {
	r, _ := openTemp(t)
	ctx := context.Background()

	require.NoError(t, r.SaveAll(ctx, map[string]string{"credential": "c", "user": `{"fullName":"Foo"}`}))

	v, ok, err := r.Load(ctx, "user")
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `{"fullName":"Foo"}`, v)

	require.NoError(t, r.Clear(ctx))
	for _, k := range []string{"credential", "user"} {
		_, ok, err := r.Load(ctx, k)
		require.NoError(t, err)
		assert.False(t, ok, k)
	}
}

func TestRemove_Idempotent(t *testing.T) {
	r, _ := openTemp(t)
	ctx := context.Background()

	require.NoError(t, r.Save(ctx, "x", "1"))
	require.NoError(t, r.Remove(ctx, "x"))
	require.NoError(t, r.Remove(ctx, "x"))

	_, ok, err := r.Load(ctx, "x")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestOpen_SurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "session.db")

	r1, err := Open(ctx, path)
	require.NoError(t, err)
	require.NoError(t, r1.Save(ctx, "credential", "persisted"))
	require.NoError(t, r1.Close())

	r2, err := Open(ctx, path)
	require.NoError(t, err)
	defer r2.Close()

	v, ok, err := r2.Load(ctx, "credential")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "persisted", v)
}

func TestOpen_InMemory(t *testing.T) {
	r, err := Open(context.Background(), ":memory:")
	require.NoError(t, err)
	defer r.Close()

	require.NoError(t, r.Save(context.Background(), "k", "v"))
	v, ok, err := r.Load(context.Background(), "k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "v", v)
}

func TestErrorsWrapped_AfterClose(t *testing.T) {
	r, _ := openTemp(t)
	ctx := context.Background()
	require.NoError(t, r.Close())

	_, _, err := r.Load(ctx, "k")
	require.ErrorContains(t, err, "failed to load k")

	require.ErrorContains(t, r.Save(ctx, "k", "v"), "failed to save k")
	require.ErrorContains(t, r.Remove(ctx, "k"), "failed to remove k")
	require.ErrorContains(t, r.Clear(ctx), "failed to clear session")
	require.ErrorContains(t, r.SaveAll(ctx, map[string]string{"k": "v"}), "failed to save session")
}

func TestMemoryRepository(t *testing.T) {
	r := NewMemoryRepository()
	ctx := context.Background()

	require.NoError(t, r.SaveAll(ctx, map[string]string{"a": "1", "b": "2"}))
	assert.Equal(t, 2, r.Len())

	v, ok, err := r.Load(ctx, "a")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "1", v)

	require.NoError(t, r.Remove(ctx, "a"))
	_, ok, _ = r.Load(ctx, "a")
	assert.False(t, ok)

	require.NoError(t, r.Clear(ctx))
	assert.Equal(t, 0, r.Len())
}

var (
	_ Repository = (*SQLiteRepository)(nil)
	_ Repository = (*MemoryRepository)(nil)
)
