package api

import (
	"errors"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth"
	"github.com/go-chi/render"

	"github.com/skypixel/mediashare/pkg/mediashare"
	"github.com/skypixel/mediashare/pkg/mediashare/transform"
	"github.com/skypixel/mediashare/pkg/utils"
)

// maxUploadBytes caps the in-memory portion of multipart parsing.
const maxUploadBytes = 100 << 20

// Handler exposes the upload, listing and download endpoints.
type Handler struct {
	service   mediashare.Service
	tokenAuth *jwtauth.JWTAuth
	client    *http.Client
	logger    *slog.Logger
}

// NewHandler creates the API handler. A nil client falls back to
// http.DefaultClient and a nil logger to slog.Default().
func NewHandler(service mediashare.Service, tokenAuth *jwtauth.JWTAuth, client *http.Client, logger *slog.Logger) *Handler {
	if client == nil {
		client = http.DefaultClient
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		service:   service,
		tokenAuth: tokenAuth,
		client:    client,
		logger:    logger,
	}
}

// Routes returns the router for the /api endpoints. Every route requires a
// valid session.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(jwtauth.Verifier(h.tokenAuth))
	r.Use(Authenticator)

	r.Post("/image-upload", h.UploadImage)
	r.Post("/video-upload", h.UploadVideo)
	r.Get("/videos", h.ListVideos)
	r.Get("/videos/{videoID}/download", h.DownloadVideo)
	r.Get("/social-formats", h.SocialFormats)
	r.Get("/download", h.DownloadSocialImage)
	return r
}

// ImageUploadResponse carries the provider identifier for an uploaded image.
type ImageUploadResponse struct {
	PublicID string `json:"publicId"`
}

// UploadImage handles POST /api/image-upload.
func (h *Handler) UploadImage(w http.ResponseWriter, r *http.Request) {
	file, header, err := h.formFile(r)
	if err != nil {
		h.logger.Error("image upload rejected", "user_id", userID(r), "error", err)
		writeError(w, r, http.StatusBadRequest, "File not found")
		return
	}
	defer file.Close()

	publicID, err := h.service.UploadImage(r.Context(), mediashare.UploadImageRequest{
		Reader:   file,
		FileName: header.Filename,
	})
	if err != nil {
		h.logger.Error("image upload failed", "user_id", userID(r), "error", err)
		writeError(w, r, http.StatusInternalServerError, uploadErrorMessage(err, "Upload image failed"))
		return
	}

	render.JSON(w, r, ImageUploadResponse{PublicID: publicID})
}

// UploadVideo handles POST /api/video-upload.
func (h *Handler) UploadVideo(w http.ResponseWriter, r *http.Request) {
	file, header, err := h.formFile(r)
	if err != nil {
		h.logger.Error("video upload rejected", "user_id", userID(r), "error", err)
		writeError(w, r, http.StatusBadRequest, "File not found")
		return
	}
	defer file.Close()

	title := r.FormValue("title")
	if title == "" {
		writeError(w, r, http.StatusBadRequest, "Title is required")
		return
	}

	video, err := h.service.UploadVideo(r.Context(), mediashare.UploadVideoRequest{
		Reader:       file,
		FileName:     header.Filename,
		Title:        title,
		Description:  r.FormValue("description"),
		OriginalSize: r.FormValue("originalSize"),
	})
	if err != nil {
		h.logger.Error("video upload failed", "user_id", userID(r), "title", title, "error", err)
		writeError(w, r, http.StatusInternalServerError, uploadErrorMessage(err, "Upload video failed"))
		return
	}

	render.JSON(w, r, video)
}

// VideoView is a Video record enriched with the computed display fields the
// card UI needs: derived variant URLs and human-readable sizes.
type VideoView struct {
	*mediashare.Video

	ThumbnailURL       string `json:"thumbnailUrl"`
	PreviewURL         string `json:"previewUrl"`
	FullVideoURL       string `json:"fullVideoUrl"`
	OriginalDisplay    string `json:"originalSizeDisplay"`
	CompressedDisplay  string `json:"compressedSizeDisplay"`
	DurationDisplay    string `json:"durationDisplay"`
	CompressionPercent int    `json:"compressionPercent"`
}

// ListVideos handles GET /api/videos.
func (h *Handler) ListVideos(w http.ResponseWriter, r *http.Request) {
	videos, err := h.service.ListVideos(r.Context())
	if err != nil {
		h.logger.Error("list videos failed", "error", err)
		writeError(w, r, http.StatusInternalServerError, "Failed to list videos")
		return
	}

	views := make([]*VideoView, 0, len(videos))
	for _, video := range videos {
		view, err := h.videoView(video)
		if err != nil {
			h.logger.Error("derive video urls failed", "public_id", video.PublicID, "error", err)
			writeError(w, r, http.StatusInternalServerError, "Failed to list videos")
			return
		}
		views = append(views, view)
	}

	render.JSON(w, r, views)
}

// SocialFormats handles GET /api/social-formats.
func (h *Handler) SocialFormats(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, transform.SocialFormats())
}

func (h *Handler) videoView(video *mediashare.Video) (*VideoView, error) {
	thumbnail, err := h.service.DeriveURL(mediashare.AssetKindVideo, video.PublicID, transform.ThumbnailStill())
	if err != nil {
		return nil, err
	}
	preview, err := h.service.DeriveURL(mediashare.AssetKindVideo, video.PublicID, transform.HoverPreview())
	if err != nil {
		return nil, err
	}
	full, err := h.service.DeriveURL(mediashare.AssetKindVideo, video.PublicID, transform.FullResolution())
	if err != nil {
		return nil, err
	}

	return &VideoView{
		Video:              video,
		ThumbnailURL:       thumbnail,
		PreviewURL:         preview,
		FullVideoURL:       full,
		OriginalDisplay:    humanSize(video.OriginalSize),
		CompressedDisplay:  humanSize(video.CompressedSize),
		DurationDisplay:    utils.FormatDuration(video.Duration),
		CompressionPercent: video.CompressionPercent(),
	}, nil
}

func (h *Handler) formFile(r *http.Request) (multipart.File, *multipart.FileHeader, error) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return nil, nil, err
	}
	return r.FormFile("file")
}

func humanSize(size string) string {
	n, err := strconv.ParseUint(size, 10, 64)
	if err != nil {
		return size
	}
	return humanize.Bytes(n)
}

// uploadErrorMessage keeps caller-visible messages generic while the handler
// logs the detailed cause. Only the fast-fail credential guard gets its own
// message, matching the provider-credentials contract.
func uploadErrorMessage(err error, generic string) string {
	if errors.Is(err, mediashare.ErrProviderNotConfigured) {
		return "Missing provider credentials"
	}
	return generic
}

func writeError(w http.ResponseWriter, r *http.Request, status int, message string) {
	render.Status(r, status)
	render.JSON(w, r, map[string]string{"error": message})
}
