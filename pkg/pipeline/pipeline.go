// Package pipeline runs the size → layout → render flow shared by the CLI and
// the HTTP API.
//
// # Stages
//
//  1. Sizes: resolve the item size policy (explicit list, size file or the
//     built-in demo) and evaluate it for every index.
//  2. Layout: pack the items into tracks. Cached by a hash of the sizes plus
//     the grid parameters.
//  3. View: run a headless engine over the layout to apply a scroll offset or
//     a jump to an index and report the visible items.
//  4. Render: produce artifacts (SVG, JSON, DOT, PNG, PDF). Cached by a hash
//     of the layout plus the render parameters.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Tracks:  3,
//	    Width:   300,
//	    Height:  600,
//	    Count:   31,
//	    Formats: []string{"svg"},
//	})
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/flowgrid/pkg/cache"
	"github.com/matzehuels/flowgrid/pkg/errors"
	"github.com/matzehuels/flowgrid/pkg/grid"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultTracks is the track count of the demo grid.
	DefaultTracks = 3

	// DefaultWidth is the default viewport width in pixels.
	DefaultWidth = 300

	// DefaultHeight is the default viewport height in pixels.
	DefaultHeight = 600

	// DefaultCount is the number of demo items.
	DefaultCount = 31

	// DefaultOrientation is the default flow direction.
	DefaultOrientation = "vertical"

	// DefaultPNGScale renders PNGs at twice the layout resolution.
	DefaultPNGScale = 2.0
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatJSON = "json"
	FormatDOT  = "dot"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatJSON: true,
	FormatDOT:  true,
	FormatPNG:  true,
	FormatPDF:  true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Grid options
	Tracks      int    `json:"tracks,omitempty"`
	Orientation string `json:"orientation,omitempty"`
	Inset       int    `json:"inset,omitempty"`
	Width       int    `json:"width,omitempty"`
	Height      int    `json:"height,omitempty"`

	// Item options. Sizes lists per-index sizes; indices past its end use
	// DefaultSize. Without Sizes the Policy field (or the demo) is used.
	Count       int                 `json:"count"`
	Sizes       []grid.ItemSizeSpec `json:"sizes,omitempty"`
	DefaultSize *grid.ItemSizeSpec  `json:"default_size,omitempty"`

	// View options. ScrollTo wins over Offset when both are set.
	Offset   int  `json:"offset,omitempty"`
	ScrollTo *int `json:"scroll_to,omitempty"`

	// Render options
	Formats  []string `json:"formats,omitempty"`
	Viewport bool     `json:"viewport,omitempty"` // Draw the viewport overlay
	Labels   bool     `json:"labels,omitempty"`
	Refresh  bool     `json:"refresh,omitempty"`  // Bypass cache reads

	// Runtime options (not serialized)
	Policy grid.SizePolicy `json:"-"`
	Logger *log.Logger     `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// ID identifies the run in logs and API responses.
	ID string

	// Layout is the packed layout.
	Layout *grid.Layout

	// LayoutHash is the content hash of the layout.
	LayoutHash string

	// View is the viewport state after applying Offset or ScrollTo.
	View View

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// View is the scroll state of a headless engine over a layout.
type View struct {
	Offset     int                 `json:"offset"`
	MaxOffset  int                 `json:"max_offset"`
	CanScroll  bool                `json:"can_scroll"`
	Visible    []int               `json:"visible"`
	Placements map[int]grid.Rect   `json:"placements"`
	Insets     map[int]grid.Insets `json:"insets,omitempty"`
}

// Stats contains pipeline execution statistics.
type Stats struct {
	ItemCount   int
	Unplaceable int
	LayoutTime  time.Duration
	RenderTime  time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LayoutHit bool // Whether the layout came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: svg, json, dot, png, pdf)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks every field and applies defaults for the full
// pipeline. It is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// SetLayoutDefaults fills in grid defaults. A zero Count stays zero: an empty
// data set is a valid request.
func (o *Options) SetLayoutDefaults() {
	if o.Tracks == 0 {
		o.Tracks = DefaultTracks
	}
	if o.Orientation == "" {
		o.Orientation = DefaultOrientation
	}
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForLayout validates and sets defaults for layout computation.
func (o *Options) ValidateForLayout() error {
	o.SetLayoutDefaults()
	if err := errors.ValidateTracksInput(o.Tracks); err != nil {
		return err
	}
	if _, err := o.GridConfig(); err != nil {
		return err
	}
	if err := errors.ValidateViewport(o.Width, o.Height); err != nil {
		return err
	}
	if err := errors.ValidateItemCount(o.Count); err != nil {
		return err
	}
	for i, s := range o.Sizes {
		if err := errors.ValidateSizeSpec(s.WidthUnits, s.HeightUnits); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "sizes[%d]", i)
		}
	}
	if d := o.DefaultSize; d != nil {
		if err := errors.ValidateSizeSpec(d.WidthUnits, d.HeightUnits); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "default_size")
		}
	}
	if o.Offset < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "offset must not be negative, got %d", o.Offset)
	}
	return nil
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	return ValidateFormats(o.Formats)
}

// GridConfig converts the grid options into an engine configuration.
func (o *Options) GridConfig() (grid.Config, error) {
	orientation, err := grid.ParseOrientation(o.Orientation)
	if err != nil {
		return grid.Config{}, err
	}
	cfg := grid.Config{Tracks: o.Tracks, Orientation: orientation, BaseInset: o.Inset}
	if err := cfg.Validate(); err != nil {
		return grid.Config{}, fmt.Errorf("grid: %w", err)
	}
	return cfg, nil
}

// LayoutKeyOpts returns cache key options for layout computation. The inset
// is not part of it: insets are applied at render time.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		Tracks:      o.Tracks,
		Orientation: o.Orientation,
		Width:       o.Width,
		Height:      o.Height,
		Count:       o.Count,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string, view View) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{
		Format: format,
		Inset:  o.Inset,
		Labels: o.Labels,
	}
	if o.Viewport {
		k.Viewport = true
		k.Offset = view.Offset
	}
	return k
}
