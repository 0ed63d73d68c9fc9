package sizing

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/flowgrid/pkg/errors"
	"github.com/matzehuels/flowgrid/pkg/grid"
)

// File is the on-disk form of a size policy.
type File struct {
	Default *grid.ItemSizeSpec  `json:"default,omitempty" toml:"default"`
	Pattern []grid.ItemSizeSpec `json:"pattern,omitempty" toml:"pattern"`
	Repeat  bool                `json:"repeat,omitempty" toml:"repeat"`
	Items   []Entry             `json:"item,omitempty" toml:"item"`
}

// Entry sizes a single index.
type Entry struct {
	Index int `json:"index" toml:"index"`
	W     int `json:"w" toml:"w"`
	H     int `json:"h" toml:"h"`
}

// Format names a size file encoding.
type Format string

const (
	FormatTOML Format = "toml"
	FormatJSON Format = "json"
)

// FormatFor picks the format from a file extension.
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".json":
		return FormatJSON, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "unsupported size file %q (want .toml or .json)", path)
}

// Load reads and validates a size file.
func Load(path string) (*File, error) {
	if err := errors.ValidatePath(path); err != nil {
		return nil, err
	}
	format, err := FormatFor(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "size file %s", path)
	}
	if err != nil {
		return nil, err
	}
	return Decode(bytes.NewReader(data), format)
}

// Decode parses and validates a size file.
func Decode(r io.Reader, format Format) (*File, error) {
	var f File
	switch format {
	case FormatTOML:
		if _, err := toml.NewDecoder(r).Decode(&f); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode toml")
		}
	case FormatJSON:
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&f); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode json")
		}
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown format %q", format)
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// Validate rejects non-positive sizes and negative or duplicate indices.
func (f *File) Validate() error {
	if f.Default != nil {
		if err := errors.ValidateSizeSpec(f.Default.WidthUnits, f.Default.HeightUnits); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "default")
		}
	}
	for i, s := range f.Pattern {
		if err := errors.ValidateSizeSpec(s.WidthUnits, s.HeightUnits); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "pattern[%d]", i)
		}
	}
	seen := make(map[int]bool, len(f.Items))
	for _, e := range f.Items {
		if e.Index < 0 {
			return errors.New(errors.ErrCodeInvalidInput, "item index must not be negative, got %d", e.Index)
		}
		if seen[e.Index] {
			return errors.New(errors.ErrCodeInvalidInput, "item %d listed twice", e.Index)
		}
		seen[e.Index] = true
		if err := errors.ValidateSizeSpec(e.W, e.H); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "item %d", e.Index)
		}
	}
	return nil
}

// Policy builds the size policy the file describes.
func (f *File) Policy() grid.SizePolicy {
	def := Unit
	if f.Default != nil {
		def = *f.Default
	}
	var p grid.SizePolicy = Pattern{Specs: f.Pattern, Default: def, Repeat: f.Repeat}
	if len(f.Items) == 0 {
		return p
	}
	items := make(map[int]grid.ItemSizeSpec, len(f.Items))
	for _, e := range f.Items {
		items[e.Index] = grid.ItemSizeSpec{WidthUnits: e.W, HeightUnits: e.H}
	}
	return Table{Items: items, Fallback: p}
}

// Encode writes f in the given format.
func (f *File) Encode(w io.Writer, format Format) error {
	switch format {
	case FormatTOML:
		return toml.NewEncoder(w).Encode(f)
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(f)
	}
	return errors.New(errors.ErrCodeInvalidFormat, "unknown format %q", format)
}

// FromPattern converts a pattern back into a file, e.g. to print the
// built-in demo sizes.
func FromPattern(p Pattern) *File {
	def := p.Default
	return &File{Default: &def, Pattern: p.Specs, Repeat: p.Repeat}
}
