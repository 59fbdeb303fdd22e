package memory

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUploadDownloadRoundTrip(t *testing.T) {
	ctx := context.Background()
	backend := New()

	require.NoError(t, backend.Upload(ctx, "originals/image/pic-1", strings.NewReader("payload")))

	rc, err := backend.Download(ctx, "originals/image/pic-1")
	require.NoError(t, err)
	defer rc.Close()

	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(data))
}

func TestDownloadMissing(t *testing.T) {
	backend := New()
	_, err := backend.Download(context.Background(), "missing")
	assert.Error(t, err)
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	backend := New()

	require.NoError(t, backend.Upload(ctx, "key", strings.NewReader("x")))
	require.NoError(t, backend.Delete(ctx, "key"))

	_, err := backend.Download(ctx, "key")
	assert.Error(t, err)
	assert.Error(t, backend.Delete(ctx, "key"))
}

func TestGetObjectMeta(t *testing.T) {
	ctx := context.Background()
	backend := New()

	require.NoError(t, backend.Upload(ctx, "key", strings.NewReader("hello world")))

	meta, err := backend.GetObjectMeta(ctx, "key")
	require.NoError(t, err)
	assert.Equal(t, "key", meta.Key)
	assert.Equal(t, int64(11), meta.Size)
	assert.NotEmpty(t, meta.ContentType)
	assert.False(t, meta.UpdatedAt.IsZero())
}
