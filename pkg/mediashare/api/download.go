package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/skypixel/mediashare/pkg/mediashare"
	"github.com/skypixel/mediashare/pkg/mediashare/transform"
	"github.com/skypixel/mediashare/pkg/utils"
)

// DownloadSocialImage handles GET /api/download. It resolves the requested
// social format, fetches the transformed rendition from the provider, spools
// it through a temp file and streams it back as an attachment. The temp file
// is removed in all outcomes, including mid-copy failures.
func (h *Handler) DownloadSocialImage(w http.ResponseWriter, r *http.Request) {
	publicID := r.URL.Query().Get("publicId")
	if publicID == "" {
		writeError(w, r, http.StatusBadRequest, "Missing publicId")
		return
	}

	format, err := transform.SocialFormatByName(r.URL.Query().Get("format"))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "Unknown format")
		return
	}

	spec := format.Spec()
	spec.Format = transform.FormatPNG

	url, err := h.service.DeriveURL(mediashare.AssetKindImage, publicID, spec)
	if err != nil {
		h.logger.Error("derive download url failed", "public_id", publicID, "format", format.Name, "error", err)
		writeError(w, r, http.StatusInternalServerError, "Download failed")
		return
	}

	filename := utils.DownloadFilename(format.Name, "png")
	if err := h.streamRemote(w, r, url, filename, "image/png"); err != nil {
		h.logger.Error("social image download failed", "public_id", publicID, "format", format.Name, "error", err)
	}
}

// DownloadVideo handles GET /api/videos/{videoID}/download and streams the
// full-resolution rendition of a stored video.
func (h *Handler) DownloadVideo(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "videoID"))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "Invalid video id")
		return
	}

	video, err := h.service.GetVideo(r.Context(), id)
	if err != nil {
		if errors.Is(err, mediashare.ErrVideoNotFound) {
			writeError(w, r, http.StatusNotFound, "Video not found")
			return
		}
		h.logger.Error("load video for download failed", "video_id", id, "error", err)
		writeError(w, r, http.StatusInternalServerError, "Download failed")
		return
	}

	url, err := h.service.DeriveURL(mediashare.AssetKindVideo, video.PublicID, transform.FullResolution())
	if err != nil {
		h.logger.Error("derive download url failed", "public_id", video.PublicID, "error", err)
		writeError(w, r, http.StatusInternalServerError, "Download failed")
		return
	}

	filename := utils.DownloadFilename(video.Title, "mp4")
	if err := h.streamRemote(w, r, url, filename, "video/mp4"); err != nil {
		h.logger.Error("video download failed", "video_id", id, "error", err)
	}
}

// streamRemote fetches url, spools the body to a temp file and serves it as
// an attachment. The deferred remove runs before headers are written on the
// error paths, so a failed fetch never leaks the spool file.
func (h *Handler) streamRemote(w http.ResponseWriter, r *http.Request, url, filename, contentType string) error {
	req, err := http.NewRequestWithContext(r.Context(), http.MethodGet, url, nil)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "Download failed")
		return err
	}

	resp, err := h.client.Do(req)
	if err != nil {
		writeError(w, r, http.StatusBadGateway, "Download failed")
		return fmt.Errorf("%w: %v", mediashare.ErrDownloadFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		writeError(w, r, http.StatusBadGateway, "Download failed")
		return fmt.Errorf("%w: unexpected status %d", mediashare.ErrDownloadFailed, resp.StatusCode)
	}

	tmp, err := os.CreateTemp("", "mediashare-download-*")
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "Download failed")
		return err
	}
	defer func() {
		tmp.Close()
		os.Remove(tmp.Name())
	}()

	size, err := io.Copy(tmp, resp.Body)
	if err != nil {
		writeError(w, r, http.StatusBadGateway, "Download failed")
		return fmt.Errorf("%w: %v", mediashare.ErrDownloadFailed, err)
	}
	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		writeError(w, r, http.StatusInternalServerError, "Download failed")
		return err
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", fmt.Sprintf("%d", size))
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	if _, err := io.Copy(w, tmp); err != nil {
		// Headers are already out, nothing more to report to the client.
		return fmt.Errorf("%w: %v", mediashare.ErrDownloadFailed, err)
	}
	return nil
}
