package storage

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorageRoundTrip(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	ctx := context.Background()
	fileID := uuid.New()
	content := "%PDF-1.4 fake police report"

	path, err := store.Upload(ctx, fileID, "report.pdf", strings.NewReader(content))
	require.NoError(t, err)
	require.NotEmpty(t, path)

	reader, err := store.Download(ctx, path)
	require.NoError(t, err)
	defer reader.Close()

	got, err := io.ReadAll(reader)
	require.NoError(t, err)
	assert.Equal(t, content, string(got))

	require.NoError(t, store.Delete(ctx, path))
	_, err = store.Download(ctx, path)
	assert.Error(t, err)
}

func TestLocalStorageDeleteMissing(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	// Deleting a path that never existed is not an error
	assert.NoError(t, store.Delete(context.Background(), "ab/missing.pdf"))
}

func TestGenerateStoragePath(t *testing.T) {
	fileID := uuid.MustParse("3f1d7a52-0000-4000-8000-000000000000")

	path := generateStoragePath(fileID, "FAUSTO CASTILLO [Retainer Agreement].pdf")

	assert.True(t, strings.HasPrefix(path, "3f/"), "path is sharded by id prefix")
	assert.True(t, strings.HasSuffix(path, ".pdf"))
	assert.NotContains(t, path, " ", "spaces must be sanitized out")
	assert.Contains(t, path, fileID.String())
}
