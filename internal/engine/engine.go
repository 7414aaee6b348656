package engine

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/viewfinder/viewfinder/internal/document"
	"github.com/viewfinder/viewfinder/internal/overlay"
)

var (
	ErrUnknownMode  = errors.New("unknown mode")
	ErrUnknownRatio = errors.New("unknown ratio")
	ErrNoCamera     = errors.New("no camera attached")
)

// Camera starts the video stream behind the overlay. It is only touched by
// SwitchCamera; the overlay never depends on it.
type Camera interface {
	Start(front bool) error
}

// FrameSizer is implemented by cameras that know the size of the surface the
// overlay is drawn over. After a switch the viewport follows it.
type FrameSizer interface {
	CurrentFrameSize() (w, h float64)
}

// Options configures a new Engine. Zero values fall back to the built-in
// ratios, DefaultRatioName and DefaultStyle.
type Options struct {
	Ratios       *overlay.RatioTable
	DefaultRatio string
	Style        overlay.Style
	Camera       Camera
	Logger       *slog.Logger
	Width        float64
	Height       float64
}

// Engine owns one overlay editing session. It processes commands from the
// frontend and answers queries with JSON strings.
type Engine struct {
	editor *overlay.Editor
	ratios *overlay.RatioTable
	style  overlay.Style
	camera Camera
	front  bool
	log    *slog.Logger

	// Dirty flag - a render is owed to the frontend
	dirty bool
}

// NewEngine creates an engine with an empty session.
func NewEngine(opts Options) (*Engine, error) {
	ratios := opts.Ratios
	if ratios == nil {
		ratios = overlay.BuiltinRatios()
	}
	name := opts.DefaultRatio
	if name == "" {
		name = overlay.DefaultRatioName
	}
	ratio, ok := ratios.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownRatio, name)
	}
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}

	return &Engine{
		editor: overlay.NewEditor(opts.Width, opts.Height, ratio),
		ratios: ratios,
		style:  opts.Style.Merge(overlay.DefaultStyle()),
		camera: opts.Camera,
		log:    log,
		dirty:  true,
	}, nil
}

// --- Commands (frontend → backend) ---

// PointerDown handles a press in viewport coordinates.
func (e *Engine) PointerDown(x, y float64) bool {
	return e.mark(e.editor.PointerDown(overlay.Point{X: x, Y: y}))
}

// PointerMove handles pointer travel. Only an active drag reacts.
func (e *Engine) PointerMove(x, y float64) bool {
	return e.mark(e.editor.PointerMove(overlay.Point{X: x, Y: y}))
}

// PointerUp ends a drag.
func (e *Engine) PointerUp() bool {
	return e.mark(e.editor.PointerUp())
}

// SetMode switches the creation mode by name.
func (e *Engine) SetMode(name string) error {
	m, ok := overlay.ParseMode(name)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownMode, name)
	}
	if e.mark(e.editor.SetMode(m)) {
		e.log.Debug("mode changed", "mode", name)
	}
	return nil
}

// SelectRatio changes the target aspect ratio by name.
func (e *Engine) SelectRatio(name string) error {
	r, ok := e.ratios.Lookup(name)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownRatio, name)
	}
	if e.mark(e.editor.SelectRatio(r)) {
		e.log.Debug("ratio changed", "ratio", name, "frame", e.editor.Frame())
	}
	return nil
}

// DeleteSelected removes the selected line.
func (e *Engine) DeleteSelected() bool {
	return e.mark(e.editor.DeleteSelected())
}

// Resize sets the viewport size.
func (e *Engine) Resize(width, height float64) bool {
	return e.mark(e.editor.Resize(width, height))
}

// SwitchCamera toggles between the rear and front camera. Overlay state is
// left alone; if the camera refuses, the facing is restored.
func (e *Engine) SwitchCamera() error {
	if e.camera == nil {
		return ErrNoCamera
	}
	e.front = !e.front
	if err := e.camera.Start(e.front); err != nil {
		e.front = !e.front
		e.log.Warn("camera switch failed", "error", err)
		return fmt.Errorf("switch camera: %w", err)
	}
	if fs, ok := e.camera.(FrameSizer); ok {
		if w, h := fs.CurrentFrameSize(); w > 0 && h > 0 {
			e.Resize(w, h)
		}
	}
	return nil
}

// Facing returns "user" for the front camera and "environment" otherwise.
func (e *Engine) Facing() string {
	if e.front {
		return "user"
	}
	return "environment"
}

// LoadSnapshot replaces the session with a decoded snapshot.
func (e *Engine) LoadSnapshot(data []byte) error {
	s, err := document.Parse(data)
	if err != nil {
		return err
	}
	ed, err := s.Editor(e.ratios)
	if err != nil {
		return fmt.Errorf("load snapshot: %w", err)
	}
	e.editor = ed
	e.dirty = true
	return nil
}

func (e *Engine) mark(changed bool) bool {
	if changed {
		e.dirty = true
	}
	return changed
}

// Tick is called once per animation frame. It returns draw commands when
// something changed since the last render, or while an angle start point is
// pending so its marker keeps being painted. Otherwise it returns "".
func (e *Engine) Tick() string {
	if _, pending := e.editor.PendingStart(); !e.dirty && !pending {
		return ""
	}
	return e.Render()
}

// --- Queries (frontend ← backend) ---

// Commands returns the current draw commands.
func (e *Engine) Commands() []overlay.DrawCommand {
	return overlay.Project(e.editor.Scene(), e.style)
}

// Paint returns the current draw commands and clears the dirty flag.
func (e *Engine) Paint() []overlay.DrawCommand {
	e.dirty = false
	return e.Commands()
}

// Render returns the current draw commands as JSON and clears the dirty flag.
func (e *Engine) Render() string {
	result, _ := overlay.DrawCommandsToJSON(e.Paint())
	return result
}

// Dirty reports whether a render is owed.
func (e *Engine) Dirty() bool {
	return e.dirty
}

// HitTest returns the hit under (x, y) as JSON, or "" when nothing is hit.
func (e *Engine) HitTest(x, y float64) string {
	hit, ok := e.editor.FindHit(overlay.Point{X: x, Y: y})
	if !ok {
		return ""
	}
	return HitToJSON(hit)
}

// Snapshot returns the session as a document snapshot.
func (e *Engine) Snapshot() document.Snapshot {
	return document.FromEditor(e.editor)
}

// GetSnapshot returns the session snapshot as JSON.
func (e *Engine) GetSnapshot() string {
	data, _ := json.Marshal(e.Snapshot())
	return string(data)
}

// HasSelection reports whether the delete control should be shown.
func (e *Engine) HasSelection() bool {
	return e.editor.HasSelection()
}

// GetRatios returns the selectable ratios as JSON, in display order.
func (e *Engine) GetRatios() string {
	return RatiosToJSON(e.ratios.All(), e.editor.Ratio().Name)
}

// Style returns the projector style in use.
func (e *Engine) Style() overlay.Style {
	return e.style
}

// GetMode returns the current creation mode name.
func (e *Engine) GetMode() string {
	return e.editor.Mode().String()
}

// Ratios returns the selectable ratios in display order.
func (e *Engine) Ratios() []overlay.Ratio {
	return e.ratios.All()
}
