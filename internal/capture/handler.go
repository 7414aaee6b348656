package capture

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"math"
	"net/http"
	"strings"

	"github.com/viewfinder/viewfinder/internal/auth"
	"github.com/viewfinder/viewfinder/internal/composite"
	"github.com/viewfinder/viewfinder/internal/engine"
	"github.com/viewfinder/viewfinder/internal/gallery"
	"github.com/viewfinder/viewfinder/internal/typeid"
)

const (
	maxUploadSize = 10 << 20 // 10MB
	maxDimension  = 8192
)

// Recorder stores capture metadata for signed-in users.
type Recorder interface {
	Record(ctx context.Context, c gallery.NewCapture) (*gallery.Capture, error)
}

// UploadResponse is returned from the capture upload endpoint.
type UploadResponse struct {
	ID       string `json:"id"`
	URL      string `json:"url"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Ratio    string `json:"ratio"`
	Recorded bool   `json:"recorded"`
}

// Handler composites camera stills with overlay snapshots.
type Handler struct {
	store     *Store
	recorder  Recorder
	newEngine func() (*engine.Engine, error)
}

// NewHandler creates a capture handler. recorder may be nil.
func NewHandler(store *Store, recorder Recorder, newEngine func() (*engine.Engine, error)) *Handler {
	return &Handler{store: store, recorder: recorder, newEngine: newEngine}
}

type composed struct {
	img      *image.RGBA
	ratio    string
	snapshot []byte
}

// Export handles POST /export/capture and answers with the PNG as a download.
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	c, ok := h.compose(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Disposition", `attachment; filename="viewfinder.png"`)
	w.WriteHeader(http.StatusOK)
	if err := composite.EncodePNG(w, c.img); err != nil {
		slog.Error("write capture", "error", err)
	}
}

// Upload handles POST /captures: the composite is stored and, for signed-in
// users, recorded in their gallery.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	c, ok := h.compose(w, r)
	if !ok {
		return
	}

	captureID := typeid.NewCaptureID()
	filename, err := h.store.Save(captureID, c.img)
	if err != nil {
		slog.Error("save capture", "error", err)
		http.Error(w, "failed to save capture", http.StatusInternalServerError)
		return
	}

	b := c.img.Bounds()
	resp := UploadResponse{
		ID:     captureID,
		URL:    fmt.Sprintf("/captures/%s", filename),
		Width:  b.Dx(),
		Height: b.Dy(),
		Ratio:  c.ratio,
	}

	if userID := auth.UserIDFromContext(r.Context()); userID != "" && h.recorder != nil {
		_, err := h.recorder.Record(r.Context(), gallery.NewCapture{
			ID:       captureID,
			OwnerID:  userID,
			FileName: filename,
			Width:    resp.Width,
			Height:   resp.Height,
			Ratio:    c.ratio,
			Snapshot: c.snapshot,
		})
		if err != nil {
			slog.Error("record capture", "captureId", captureID, "error", err)
		} else {
			resp.Recorded = true
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(resp)
}

// compose reads the multipart "frame" still and "overlay" snapshot and
// renders them together. On failure it has already written the response.
func (h *Handler) compose(w http.ResponseWriter, r *http.Request) (composed, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		http.Error(w, "request too large (max 10MB)", http.StatusBadRequest)
		return composed{}, false
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("frame")
	if err != nil {
		http.Error(w, "missing frame field", http.StatusBadRequest)
		return composed{}, false
	}
	defer file.Close()

	// Validate content type
	contentType := header.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/png") && !strings.HasPrefix(contentType, "image/jpeg") {
		http.Error(w, "only PNG and JPEG images are supported", http.StatusBadRequest)
		return composed{}, false
	}

	still, err := composite.DecodeStill(file)
	if err != nil {
		http.Error(w, "invalid image: "+err.Error(), http.StatusBadRequest)
		return composed{}, false
	}

	overlayJSON := r.FormValue("overlay")
	if overlayJSON == "" {
		http.Error(w, "missing overlay field", http.StatusBadRequest)
		return composed{}, false
	}

	eng, err := h.newEngine()
	if err != nil {
		slog.Error("create engine", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return composed{}, false
	}
	if err := eng.LoadSnapshot([]byte(overlayJSON)); err != nil {
		http.Error(w, "invalid overlay: "+err.Error(), http.StatusBadRequest)
		return composed{}, false
	}

	snap := eng.Snapshot()
	width := int(math.Round(snap.Viewport.Width))
	height := int(math.Round(snap.Viewport.Height))

	if width > maxDimension || height > maxDimension {
		http.Error(w, fmt.Sprintf("overlay viewport exceeds %dpx", maxDimension), http.StatusBadRequest)
		return composed{}, false
	}

	img, err := composite.Render(still, width, height, eng.Commands())
	if err != nil {
		if errors.Is(err, composite.ErrEmptyViewport) {
			http.Error(w, "overlay viewport is empty", http.StatusBadRequest)
			return composed{}, false
		}
		slog.Error("render capture", "error", err)
		http.Error(w, "failed to render capture", http.StatusInternalServerError)
		return composed{}, false
	}

	slog.Info("capture composed", "width", width, "height", height, "ratio", snap.Ratio.Name, "lines", len(snap.Lines))

	return composed{img: img, ratio: snap.Ratio.Name, snapshot: []byte(eng.GetSnapshot())}, true
}
