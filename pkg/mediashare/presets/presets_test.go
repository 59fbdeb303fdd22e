package presets

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skypixel/mediashare/pkg/mediashare"
	providermemory "github.com/skypixel/mediashare/pkg/mediashare/provider/memory"
)

func TestNewDevelopment(t *testing.T) {
	t.Setenv("CLOUDINARY_CLOUD_NAME", "")

	svc, cleanup, err := NewDevelopment(WithArchiveDir(t.TempDir() + "/dev-data"))
	require.NoError(t, err)
	require.NotNil(t, svc)
	defer cleanup()

	publicID, err := svc.UploadImage(context.Background(), mediashare.UploadImageRequest{
		Reader:   strings.NewReader("hello development"),
		FileName: "hello.png",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, publicID)
}

func TestNewTesting(t *testing.T) {
	svc := NewTesting(t)

	video, err := svc.UploadVideo(context.Background(), mediashare.UploadVideoRequest{
		Reader: strings.NewReader("video-bytes"),
		Title:  "test clip",
	})
	require.NoError(t, err)
	assert.Equal(t, "test clip", video.Title)

	videos, err := svc.ListVideos(context.Background())
	require.NoError(t, err)
	assert.Len(t, videos, 1)
}

func TestNewTestingWithCustomProvider(t *testing.T) {
	provider := providermemory.New(providermemory.WithoutCredentials())
	svc := NewTesting(t, WithTestProvider(provider))

	_, err := svc.UploadImage(context.Background(), mediashare.UploadImageRequest{
		Reader: strings.NewReader("x"),
	})
	assert.ErrorIs(t, err, mediashare.ErrProviderNotConfigured)
}

func TestNewProductionRequiresPostgres(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("AUTH_SECRET", "s")

	_, err := NewProduction()
	assert.Error(t, err)
}
