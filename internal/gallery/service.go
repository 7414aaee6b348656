package gallery

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/viewfinder/viewfinder/internal/db/dbgen"
)

var (
	ErrNotFound  = errors.New("capture not found")
	ErrForbidden = errors.New("forbidden")
)

// Store is the subset of dbgen.Queries the gallery needs.
type Store interface {
	CreateCapture(ctx context.Context, arg dbgen.CreateCaptureParams) (dbgen.Capture, error)
	GetCapture(ctx context.Context, id string) (dbgen.Capture, error)
	ListCapturesByOwner(ctx context.Context, ownerID string) ([]dbgen.Capture, error)
	DeleteCapture(ctx context.Context, id string) error
}

// Files removes stored capture images.
type Files interface {
	Remove(fileName string) error
}

type Service struct {
	queries Store
	files   Files
}

func NewService(queries Store, files Files) *Service {
	return &Service{queries: queries, files: files}
}

type Capture struct {
	ID        string          `json:"id"`
	URL       string          `json:"url"`
	Width     int             `json:"width"`
	Height    int             `json:"height"`
	Ratio     string          `json:"ratio"`
	Snapshot  json.RawMessage `json:"snapshot,omitempty"`
	CreatedAt string          `json:"createdAt"`
}

// NewCapture describes a stored capture image to record for its owner.
type NewCapture struct {
	ID       string
	OwnerID  string
	FileName string
	Width    int
	Height   int
	Ratio    string
	Snapshot []byte
}

func (s *Service) Record(ctx context.Context, c NewCapture) (*Capture, error) {
	snapshot := c.Snapshot
	if len(snapshot) == 0 {
		snapshot = []byte("{}")
	}
	row, err := s.queries.CreateCapture(ctx, dbgen.CreateCaptureParams{
		ID:       c.ID,
		OwnerID:  c.OwnerID,
		FileName: c.FileName,
		Width:    int32(c.Width),
		Height:   int32(c.Height),
		Ratio:    c.Ratio,
		Snapshot: snapshot,
	})
	if err != nil {
		return nil, fmt.Errorf("create capture: %w", err)
	}
	return toCapture(row, true), nil
}

func (s *Service) List(ctx context.Context, ownerID string) ([]Capture, error) {
	rows, err := s.queries.ListCapturesByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list captures: %w", err)
	}

	out := make([]Capture, 0, len(rows))
	for _, row := range rows {
		out = append(out, *toCapture(row, false))
	}
	return out, nil
}

func (s *Service) Get(ctx context.Context, captureID, userID string) (*Capture, error) {
	row, err := s.owned(ctx, captureID, userID)
	if err != nil {
		return nil, err
	}
	return toCapture(row, true), nil
}

// Delete removes the row, then the image. A missing image is only logged.
func (s *Service) Delete(ctx context.Context, captureID, userID string) error {
	row, err := s.owned(ctx, captureID, userID)
	if err != nil {
		return err
	}

	if err := s.queries.DeleteCapture(ctx, row.ID); err != nil {
		return fmt.Errorf("delete capture: %w", err)
	}
	if err := s.files.Remove(row.FileName); err != nil {
		slog.Warn("remove capture file failed", "captureId", row.ID, "file", row.FileName, "error", err)
	}
	return nil
}

func (s *Service) owned(ctx context.Context, captureID, userID string) (dbgen.Capture, error) {
	row, err := s.queries.GetCapture(ctx, captureID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dbgen.Capture{}, ErrNotFound
		}
		return dbgen.Capture{}, fmt.Errorf("get capture: %w", err)
	}
	if row.OwnerID != userID {
		return dbgen.Capture{}, ErrForbidden
	}
	return row, nil
}

func toCapture(row dbgen.Capture, withSnapshot bool) *Capture {
	c := &Capture{
		ID:        row.ID,
		URL:       "/captures/" + row.FileName,
		Width:     int(row.Width),
		Height:    int(row.Height),
		Ratio:     row.Ratio,
		CreatedAt: row.CreatedAt.Format(time.RFC3339),
	}
	if withSnapshot {
		c.Snapshot = json.RawMessage(row.Snapshot)
	}
	return c
}
