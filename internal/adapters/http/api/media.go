package api

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path"

	"github.com/go-chi/chi/v5"

	"github.com/okian/fcleague/internal/domain/model"
	"github.com/okian/fcleague/internal/domain/types"
)

const uploadField = "file"

// MediaDependencies defines the interface for uploads.
type MediaDependencies interface {
	SetPlayerPhoto(ctx context.Context, id, filename, contentType string, body io.Reader) (model.Player, error)
	SetTournamentMedia(ctx context.Context, id string, kind types.MediaKind, filename, contentType string, body io.Reader) (model.Tournament, error)
}

// MediaHandler handles multipart uploads.
type MediaHandler struct {
	deps MediaDependencies
}

// NewMediaHandler creates a new media handler.
func NewMediaHandler(deps MediaDependencies) *MediaHandler {
	return &MediaHandler{deps: deps}
}

// HandlePlayerPhoto handles POST /players/{id}/photo.
func (h *MediaHandler) HandlePlayerPhoto(w http.ResponseWriter, r *http.Request) {
	const op = "api.player_photo"
	upload, err := readUpload(w, r)
	if err != nil {
		respondError(w, r, Wrap(op, err))
		return
	}
	defer upload.Close()

	p, err := h.deps.SetPlayerPhoto(r.Context(), chi.URLParam(r, "id"), upload.name, upload.contentType, upload)
	if err != nil {
		respondError(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// HandleTournamentMedia handles POST /tournaments/{id}/media/{kind}.
func (h *MediaHandler) HandleTournamentMedia(w http.ResponseWriter, r *http.Request) {
	const op = "api.tournament_media"
	upload, err := readUpload(w, r)
	if err != nil {
		respondError(w, r, Wrap(op, err))
		return
	}
	defer upload.Close()

	t, err := h.deps.SetTournamentMedia(r.Context(),
		chi.URLParam(r, "id"),
		types.MediaKind(chi.URLParam(r, "kind")),
		upload.name, upload.contentType, upload)
	if err != nil {
		respondError(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, t)
}

type upload struct {
	io.ReadCloser
	name        string
	contentType string
}

// readUpload extracts the "file" part of a multipart form.
func readUpload(w http.ResponseWriter, r *http.Request) (*upload, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return nil, fmt.Errorf("%w: invalid multipart form: %v", ErrBadRequest, err)
	}
	file, header, err := r.FormFile(uploadField)
	if err != nil {
		return nil, fmt.Errorf(`%w: missing "file" part`, ErrBadRequest)
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = mime.TypeByExtension(path.Ext(header.Filename))
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return &upload{ReadCloser: file, name: header.Filename, contentType: contentType}, nil
}
