package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := OpenDB(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestFindByHashReturnsLatestFound(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, &ExtractionRecord{Filename: "a.pdf", SHA256: "abc", Found: false}))
	require.NoError(t, s.Save(ctx, &ExtractionRecord{Filename: "a.pdf", SHA256: "abc", Found: true, AccessKey: "111", Stage: "proximity", Source: "text"}))
	require.NoError(t, s.Save(ctx, &ExtractionRecord{Filename: "b.pdf", SHA256: "abc", Found: true, AccessKey: "222", Stage: "labeled", Source: "text"}))
	require.NoError(t, s.Save(ctx, &ExtractionRecord{Filename: "c.pdf", SHA256: "other", Found: true, AccessKey: "333"}))

	rec, err := s.FindByHash(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, "222", rec.AccessKey)
	assert.Equal(t, "b.pdf", rec.Filename)
}

func TestFindByHashIgnoresNotFound(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, &ExtractionRecord{Filename: "a.pdf", SHA256: "abc", Found: false}))

	_, err := s.FindByHash(ctx, "abc")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.FindByHash(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestList(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for _, name := range []string{"1.pdf", "2.pdf", "3.pdf"} {
		require.NoError(t, s.Save(ctx, &ExtractionRecord{Filename: name, SHA256: name}))
	}

	recs, err := s.List(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "3.pdf", recs[0].Filename)
	assert.Equal(t, "2.pdf", recs[1].Filename)

	all, err := s.List(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}
