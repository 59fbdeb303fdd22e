package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skypixel/mediashare/pkg/mediashare"
	providermemory "github.com/skypixel/mediashare/pkg/mediashare/provider/memory"
	repomemory "github.com/skypixel/mediashare/pkg/mediashare/repo/memory"
)

const testSecret = "test-secret"

type testEnv struct {
	handler  http.Handler
	provider *providermemory.Provider
	repo     *repomemory.Repository
	token    string
}

func newTestEnv(t *testing.T, providerOpts ...providermemory.Option) *testEnv {
	t.Helper()

	provider := providermemory.New(providerOpts...)
	repo := repomemory.New()
	svc, err := mediashare.New(
		mediashare.WithProvider(provider),
		mediashare.WithRepository(repo),
	)
	require.NoError(t, err)

	tokenAuth := NewTokenAuth(testSecret)
	_, token, err := tokenAuth.Encode(map[string]interface{}{"sub": "user-1"})
	require.NoError(t, err)

	handler := NewHandler(svc, tokenAuth, nil, nil)
	return &testEnv{
		handler:  handler.Routes(),
		provider: provider,
		repo:     repo,
		token:    token,
	}
}

func (e *testEnv) do(req *http.Request, authed bool) *httptest.ResponseRecorder {
	if authed {
		req.Header.Set("Authorization", "BEARER "+e.token)
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func multipartBody(t *testing.T, fields map[string]string, fileField, fileName, fileContent string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	form := multipart.NewWriter(body)
	for name, value := range fields {
		require.NoError(t, form.WriteField(name, value))
	}
	if fileField != "" {
		part, err := form.CreateFormFile(fileField, fileName)
		require.NoError(t, err)
		_, err = part.Write([]byte(fileContent))
		require.NoError(t, err)
	}
	require.NoError(t, form.Close())
	return body, form.FormDataContentType()
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var out map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out["error"]
}

func TestUnauthenticatedRequestsAreRejected(t *testing.T) {
	env := newTestEnv(t)

	body, contentType := multipartBody(t, nil, "file", "pic.png", "bytes")
	req := httptest.NewRequest(http.MethodPost, "/image-upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := env.do(req, false)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Unauthorized", decodeError(t, rec))

	body, contentType = multipartBody(t, map[string]string{"title": "t"}, "file", "v.mov", "bytes")
	req = httptest.NewRequest(http.MethodPost, "/video-upload", body)
	req.Header.Set("Content-Type", contentType)
	rec = env.do(req, false)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// No side effects on either path.
	assert.Equal(t, 0, env.provider.Uploads())
	assert.Equal(t, 0, env.repo.Count())
}

func TestUploadImageEndpoint(t *testing.T) {
	t.Run("success returns identifier", func(t *testing.T) {
		env := newTestEnv(t)

		body, contentType := multipartBody(t, nil, "file", "pic.png", "image-bytes")
		req := httptest.NewRequest(http.MethodPost, "/image-upload", body)
		req.Header.Set("Content-Type", contentType)
		rec := env.do(req, true)

		require.Equal(t, http.StatusOK, rec.Code)
		var out ImageUploadResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
		assert.Equal(t, "next-cloudinary-uploads/fake-1", out.PublicID)
	})

	t.Run("missing file is a 400 before any provider call", func(t *testing.T) {
		env := newTestEnv(t)

		body, contentType := multipartBody(t, map[string]string{"other": "x"}, "", "", "")
		req := httptest.NewRequest(http.MethodPost, "/image-upload", body)
		req.Header.Set("Content-Type", contentType)
		rec := env.do(req, true)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "File not found", decodeError(t, rec))
		assert.Equal(t, 0, env.provider.Uploads())
	})

	t.Run("missing credentials surface as 500 with a specific message", func(t *testing.T) {
		env := newTestEnv(t, providermemory.WithoutCredentials())

		body, contentType := multipartBody(t, nil, "file", "pic.png", "image-bytes")
		req := httptest.NewRequest(http.MethodPost, "/image-upload", body)
		req.Header.Set("Content-Type", contentType)
		rec := env.do(req, true)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, "Missing provider credentials", decodeError(t, rec))
		assert.Equal(t, 0, env.provider.Uploads())
	})

	t.Run("provider failure is a generic 500", func(t *testing.T) {
		env := newTestEnv(t, providermemory.WithError(fmt.Errorf("boom")))

		body, contentType := multipartBody(t, nil, "file", "pic.png", "image-bytes")
		req := httptest.NewRequest(http.MethodPost, "/image-upload", body)
		req.Header.Set("Content-Type", contentType)
		rec := env.do(req, true)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, "Upload image failed", decodeError(t, rec))
	})
}

func TestUploadVideoEndpoint(t *testing.T) {
	t.Run("success returns the stored record", func(t *testing.T) {
		env := newTestEnv(t, providermemory.WithResult(&mediashare.UploadResult{
			PublicID: "video-uploads/abc123",
			Bytes:    500000,
			Duration: 42.7,
		}))

		body, contentType := multipartBody(t, map[string]string{
			"title":        "My Clip",
			"description":  "desc",
			"originalSize": "2000000",
		}, "file", "clip.mov", "video-bytes")
		req := httptest.NewRequest(http.MethodPost, "/video-upload", body)
		req.Header.Set("Content-Type", contentType)
		rec := env.do(req, true)

		require.Equal(t, http.StatusOK, rec.Code)
		var out mediashare.Video
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
		assert.Equal(t, "video-uploads/abc123", out.PublicID)
		assert.Equal(t, "My Clip", out.Title)
		assert.Equal(t, "2000000", out.OriginalSize)
		assert.Equal(t, "500000", out.CompressedSize)
		assert.Equal(t, 1, env.repo.Count())
	})

	t.Run("missing title is a 400", func(t *testing.T) {
		env := newTestEnv(t)

		body, contentType := multipartBody(t, nil, "file", "clip.mov", "video-bytes")
		req := httptest.NewRequest(http.MethodPost, "/video-upload", body)
		req.Header.Set("Content-Type", contentType)
		rec := env.do(req, true)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Title is required", decodeError(t, rec))
		assert.Equal(t, 0, env.provider.Uploads())
	})

	t.Run("provider failure writes nothing", func(t *testing.T) {
		env := newTestEnv(t, providermemory.WithError(fmt.Errorf("timeout")))

		body, contentType := multipartBody(t, map[string]string{"title": "t"}, "file", "clip.mov", "video-bytes")
		req := httptest.NewRequest(http.MethodPost, "/video-upload", body)
		req.Header.Set("Content-Type", contentType)
		rec := env.do(req, true)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, "Upload video failed", decodeError(t, rec))
		assert.Equal(t, 0, env.repo.Count())
	})
}

func TestListVideosEndpoint(t *testing.T) {
	env := newTestEnv(t, providermemory.WithResult(&mediashare.UploadResult{
		PublicID: "video-uploads/abc123",
		Bytes:    500000,
		Duration: 42.7,
	}))

	body, contentType := multipartBody(t, map[string]string{
		"title":        "My Clip",
		"originalSize": "2000000",
	}, "file", "clip.mov", "video-bytes")
	req := httptest.NewRequest(http.MethodPost, "/video-upload", body)
	req.Header.Set("Content-Type", contentType)
	require.Equal(t, http.StatusOK, env.do(req, true).Code)

	rec := env.do(httptest.NewRequest(http.MethodGet, "/videos", nil), true)
	require.Equal(t, http.StatusOK, rec.Code)

	var views []*VideoView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &views))
	require.Len(t, views, 1)

	view := views[0]
	assert.Equal(t, "video-uploads/abc123", view.PublicID)
	assert.Equal(t, "https://res.fake.test/dev/video/upload/c_fill,w_400,h_225,g_auto,q_auto,f_jpg/video-uploads/abc123", view.ThumbnailURL)
	assert.Equal(t, "https://res.fake.test/dev/video/upload/w_400,h_225/e_preview:duration_15:max_seg_9:min_seg_dur_1/video-uploads/abc123", view.PreviewURL)
	assert.Equal(t, "https://res.fake.test/dev/video/upload/w_1920,h_1080/video-uploads/abc123", view.FullVideoURL)
	assert.Equal(t, 75, view.CompressionPercent)
	assert.Equal(t, "0:43", view.DurationDisplay)
	assert.NotEmpty(t, view.OriginalDisplay)
	assert.NotEmpty(t, view.CompressedDisplay)
}

func TestSocialFormatsEndpoint(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(httptest.NewRequest(http.MethodGet, "/social-formats", nil), true)
	require.Equal(t, http.StatusOK, rec.Code)

	var formats []map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &formats))
	require.Len(t, formats, 5)
	assert.Equal(t, "Instagram Square (1:1)", formats[0]["name"])
}

func TestDownloadSocialImageEndpoint(t *testing.T) {
	t.Run("unknown format is a 400", func(t *testing.T) {
		env := newTestEnv(t)
		rec := env.do(httptest.NewRequest(http.MethodGet, "/download?publicId=abc&format=Nope", nil), true)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("missing publicId is a 400", func(t *testing.T) {
		env := newTestEnv(t)
		rec := env.do(httptest.NewRequest(http.MethodGet, "/download?format=Instagram+Square+(1:1)", nil), true)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("streams the derived rendition as an attachment", func(t *testing.T) {
		var gotPath string
		delivery := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			w.Write([]byte("png-bytes"))
		}))
		defer delivery.Close()

		env := newTestEnv(t, providermemory.WithDelivery(delivery.URL, "dev"))

		rec := env.do(httptest.NewRequest(http.MethodGet, "/download?publicId=abc123&format=Instagram+Square+(1:1)", nil), true)
		require.Equal(t, http.StatusOK, rec.Code)

		assert.Equal(t, "/dev/image/upload/c_fill,w_1080,h_1080,ar_1:1,g_auto,f_png/abc123", gotPath)
		assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
		assert.Equal(t, `attachment; filename="instagram_square_(1:1).png"`, rec.Header().Get("Content-Disposition"))
		body, err := io.ReadAll(rec.Body)
		require.NoError(t, err)
		assert.Equal(t, "png-bytes", string(body))
	})

	t.Run("truncated delivery body removes the spool file", func(t *testing.T) {
		// Declaring more bytes than are written makes the client's body
		// read fail partway through the spool copy.
		delivery := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Length", "1000")
			w.Write([]byte("short"))
		}))
		defer delivery.Close()

		spoolDir := t.TempDir()
		t.Setenv("TMPDIR", spoolDir)

		env := newTestEnv(t, providermemory.WithDelivery(delivery.URL, "dev"))
		rec := env.do(httptest.NewRequest(http.MethodGet, "/download?publicId=abc123&format=Instagram+Square+(1:1)", nil), true)
		assert.Equal(t, http.StatusBadGateway, rec.Code)

		entries, err := os.ReadDir(spoolDir)
		require.NoError(t, err)
		assert.Empty(t, entries)
	})

	t.Run("provider fetch failure is a 502", func(t *testing.T) {
		delivery := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer delivery.Close()

		env := newTestEnv(t, providermemory.WithDelivery(delivery.URL, "dev"))
		rec := env.do(httptest.NewRequest(http.MethodGet, "/download?publicId=abc123&format=Twitter+Post+(16:9)", nil), true)
		assert.Equal(t, http.StatusBadGateway, rec.Code)
	})
}

func TestDownloadVideoEndpoint(t *testing.T) {
	delivery := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("mp4-bytes"))
	}))
	defer delivery.Close()

	env := newTestEnv(t,
		providermemory.WithDelivery(delivery.URL, "dev"),
		providermemory.WithResult(&mediashare.UploadResult{PublicID: "video-uploads/v1", Bytes: 9}),
	)

	body, contentType := multipartBody(t, map[string]string{"title": "My Great Clip"}, "file", "clip.mov", "video-bytes")
	req := httptest.NewRequest(http.MethodPost, "/video-upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := env.do(req, true)
	require.Equal(t, http.StatusOK, rec.Code)

	var video mediashare.Video
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &video))

	rec = env.do(httptest.NewRequest(http.MethodGet, "/videos/"+video.ID.String()+"/download", nil), true)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `attachment; filename="my_great_clip.mp4"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "mp4-bytes", rec.Body.String())

	t.Run("non-ascii title folds to an ascii filename", func(t *testing.T) {
		body, contentType := multipartBody(t, map[string]string{"title": "Café Clip"}, "file", "clip.mov", "video-bytes")
		req := httptest.NewRequest(http.MethodPost, "/video-upload", body)
		req.Header.Set("Content-Type", contentType)
		rec := env.do(req, true)
		require.Equal(t, http.StatusOK, rec.Code)

		var accented mediashare.Video
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &accented))

		rec = env.do(httptest.NewRequest(http.MethodGet, "/videos/"+accented.ID.String()+"/download", nil), true)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, `attachment; filename="cafe_clip.mp4"`, rec.Header().Get("Content-Disposition"))
	})

	t.Run("unknown id is a 404", func(t *testing.T) {
		rec := env.do(httptest.NewRequest(http.MethodGet, "/videos/11111111-2222-3333-4444-555555555555/download", nil), true)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("malformed id is a 400", func(t *testing.T) {
		rec := env.do(httptest.NewRequest(http.MethodGet, "/videos/not-a-uuid/download", nil), true)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestTokenRoundTrip(t *testing.T) {
	tokenAuth := NewTokenAuth(testSecret)
	_, token, err := tokenAuth.Encode(map[string]interface{}{
		"sub": "user-1",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, token)
}
