// Package card renders activity share cards to raster and PDF artifacts.
//
// # Overview
//
// A card is composed off-screen on a canvas sized exactly to the target
// platform template, drawn at 2x pixel density for crispness, and encoded
// to the requested format:
//
//   - png: lossless raster
//   - jpg: raster at quality 95
//   - pdf: PNG rasterization embedded as the single page of a PDF document
//     whose page size equals the template's pixel dimensions
//
// All image resources (the backdrop) are decoded before any drawing starts,
// so a capture can never observe a half-loaded resource. A failure at any
// stage surfaces as a RENDER_FAILED error; the renderer never returns
// partial bytes.
//
// # Concurrency
//
// A Renderer owns its drawing canvas exclusively. Renders are serialized
// internally; both export flows call it sequentially by construction, and
// the internal lock keeps a misbehaving caller from corrupting a capture.
package card

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"

	"github.com/charmbracelet/log"
	"github.com/flopp/go-findfont"
)

// Task is one checklist item drawn on the card.
type Task struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
	Priority  string `json:"priority,omitempty"`
}

// RenderRequest carries everything a single card render needs.
// It is constructed per export and never persisted.
type RenderRequest struct {
	ActivityID    string `json:"activity_id"`
	Title         string `json:"title"`
	Category      string `json:"category"`
	CreatorName   string `json:"creator_name,omitempty"`
	CreatorHandle string `json:"creator_handle,omitempty"`
	PlanSummary   string `json:"plan_summary,omitempty"`
	Tasks         []Task `json:"tasks,omitempty"`

	// Backdrop is the decoded-on-demand backdrop image bytes (any format
	// image.Decode understands). Nil means the category gradient backdrop.
	Backdrop []byte `json:"backdrop,omitempty"`
}

// ContentHash returns a stable hash of everything that affects rendered
// bytes. It keys the artifact cache.
func (r RenderRequest) ContentHash() string {
	data, _ := json.Marshal(r)
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// DefaultScale is the device-pixel density multiplier for raster output.
// 2.0 produces a 2x resolution image of the template's nominal dimensions.
const DefaultScale = 2.0

// jpegQuality is the encoder quality for jpg output.
const jpegQuality = 95

// fontCandidates are tried in order when no explicit font is configured.
var fontCandidates = []string{
	"DejaVuSans-Bold.ttf",
	"DejaVuSans.ttf",
	"Arial Bold.ttf",
	"Arial.ttf",
	"Helvetica.ttf",
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithScale sets the raster density multiplier (default 2.0).
func WithScale(s float64) Option {
	return func(r *Renderer) {
		if s > 0 {
			r.scale = s
		}
	}
}

// WithFont sets an explicit TTF font path, bypassing system font discovery.
func WithFont(path string) Option {
	return func(r *Renderer) { r.fontPath = path }
}

// WithLogger sets the renderer's logger.
func WithLogger(l *log.Logger) Option {
	return func(r *Renderer) { r.logger = l }
}

// NewRenderer creates a card renderer.
//
// Font discovery is best-effort: the first matching system font from
// fontCandidates is used for all text. When no font is found the renderer
// falls back to the built-in bitmap face and logs a warning; output stays
// valid, just less pretty.
func NewRenderer(opts ...Option) *Renderer {
	r := &Renderer{
		scale:  DefaultScale,
		logger: log.NewWithOptions(io.Discard, log.Options{}),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.fontPath == "" {
		r.fontPath = discoverFont()
		if r.fontPath == "" {
			r.logger.Warn("no system font found, using built-in bitmap face")
		}
	}
	return r
}

// discoverFont returns the first resolvable candidate font path.
func discoverFont() string {
	for _, name := range fontCandidates {
		if path, err := findfont.Find(name); err == nil {
			return path
		}
	}
	return ""
}
