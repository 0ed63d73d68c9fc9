package errors

import (
	"strings"
	"unicode"
)

// MaxTracks bounds the track count accepted from untrusted input (config files,
// HTTP requests). The engine itself accepts any positive count.
const MaxTracks = 1024

// MaxItems bounds the item count accepted from untrusted input.
const MaxItems = 100_000

// MaxSizeUnits bounds either unit of an item size.
const MaxSizeUnits = 10_000

// MaxViewport bounds either viewport dimension, in pixels.
const MaxViewport = 1 << 20

// ValidateTracks rejects non-positive track counts. A grid needs at least one
// lane to place anything, so this is fatal at engine construction.
func ValidateTracks(n int) error {
	if n < 1 {
		return New(ErrCodeInvalidConfig, "track count must be at least 1, got %d", n)
	}
	return nil
}

// ValidateTracksInput is [ValidateTracks] plus an upper bound for untrusted input.
func ValidateTracksInput(n int) error {
	if err := ValidateTracks(n); err != nil {
		return err
	}
	if n > MaxTracks {
		return New(ErrCodeInvalidInput, "track count too large (max %d), got %d", MaxTracks, n)
	}
	return nil
}

// ValidateInset rejects negative base insets.
func ValidateInset(px int) error {
	if px < 0 {
		return New(ErrCodeInvalidConfig, "inset must not be negative, got %d", px)
	}
	return nil
}

// ValidateOrientation accepts the two flow directions by name.
// Matching is case-insensitive; the empty string is rejected.
func ValidateOrientation(name string) error {
	switch strings.ToLower(name) {
	case "vertical", "horizontal":
		return nil
	case "":
		return New(ErrCodeInvalidOrientation, "orientation cannot be empty")
	}
	return New(ErrCodeInvalidOrientation, "unknown orientation %q (want vertical or horizontal)", name)
}

// ValidateSizeSpec checks a proportional item size. Both units must be
// positive and at most MaxSizeUnits.
func ValidateSizeSpec(widthUnits, heightUnits int) error {
	if widthUnits < 1 || heightUnits < 1 {
		return New(ErrCodeInvalidInput, "item size must be positive, got %dx%d", widthUnits, heightUnits)
	}
	if widthUnits > MaxSizeUnits || heightUnits > MaxSizeUnits {
		return New(ErrCodeInvalidInput, "item size too large (max %d units), got %dx%d", MaxSizeUnits, widthUnits, heightUnits)
	}
	return nil
}

// ValidateViewport rejects negative viewport dimensions and ones above
// MaxViewport. A viewport smaller than one track is allowed; it degrades to
// degenerate placements.
func ValidateViewport(width, height int) error {
	if width < 0 || height < 0 {
		return New(ErrCodeInvalidInput, "viewport must not be negative, got %dx%d", width, height)
	}
	if width > MaxViewport || height > MaxViewport {
		return New(ErrCodeInvalidInput, "viewport too large (max %d px), got %dx%d", MaxViewport, width, height)
	}
	return nil
}

// ValidateItemCount bounds the number of items accepted from untrusted input.
func ValidateItemCount(n int) error {
	if n < 0 {
		return New(ErrCodeInvalidInput, "item count must not be negative, got %d", n)
	}
	if n > MaxItems {
		return New(ErrCodeInvalidInput, "item count too large (max %d), got %d", MaxItems, n)
	}
	return nil
}

// ValidatePath validates an output or input file path given on the command line
// or in a config file.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}
	return nil
}
