package flint

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/goregular"
)

// ErrFontNotFound is returned when no face can be produced for a font key.
var ErrFontNotFound = errors.New("flint: font not found")

// Default font used when none is configured.
const (
	DefaultFontFamily = "Arial"
	DefaultFontSize   = 12
)

// FontKey identifies a font face. Family comparison is case-insensitive.
type FontKey struct {
	Family string
	Size   float64
	Weight FontWeight
}

// String returns the cache key "family;size;weight" with a lowercased family.
func (k FontKey) String() string {
	return strings.ToLower(k.Family) + ";" +
		strconv.FormatFloat(k.Size, 'g', -1, 64) + ";" +
		k.Weight.String()
}

// FontFace is a backend-specific loaded face.
type FontFace interface {
	// Measure returns the advance width and line height of s.
	Measure(s string) (width, height float64)
	// Ascent is the distance from the top of a line to its baseline.
	Ascent() float64
}

// FontLoader produces faces for font keys. Every Canvas is a FontLoader.
type FontLoader interface {
	LoadFont(key FontKey) (FontFace, error)
}

// Font is a cached face together with the key it was loaded for.
type Font struct {
	Key  FontKey
	Face FontFace
}

// Measure returns the size of s in this font. A Font without a face
// measures as zero.
func (f *Font) Measure(s string) (width, height float64) {
	if f == nil || f.Face == nil {
		return 0, 0
	}
	return f.Face.Measure(s)
}

// FontCache holds loaded fonts for the lifetime of a Renderer.
type FontCache struct {
	loader FontLoader
	fonts  map[string]*Font
}

// NewFontCache creates an empty cache that loads faces through loader.
func NewFontCache(loader FontLoader) *FontCache {
	return &FontCache{loader: loader, fonts: make(map[string]*Font)}
}

// Get returns the font for the given family, size, and weight, loading it on
// first use.
func (c *FontCache) Get(family string, size float64, weight FontWeight) (*Font, error) {
	if size <= 0 {
		return nil, fmt.Errorf("font %q size %g: %w", family, size, ErrInvalidSize)
	}
	key := FontKey{Family: family, Size: size, Weight: weight}
	id := key.String()
	if f, ok := c.fonts[id]; ok {
		return f, nil
	}
	face, err := c.loader.LoadFont(key)
	if err != nil {
		return nil, fmt.Errorf("load font %s: %w", id, err)
	}
	if face == nil {
		return nil, fmt.Errorf("load font %s: %w", id, ErrFontNotFound)
	}
	f := &Font{Key: key, Face: face}
	c.fonts[id] = f
	Logger().Debug("font loaded", "key", id)
	return f, nil
}

// Len returns the number of cached fonts.
func (c *FontCache) Len() int { return len(c.fonts) }

// Clear drops every cached font.
func (c *FontCache) Clear() {
	clear(c.fonts)
}

// FontFiles maps font families to TrueType data. Families that were never
// registered resolve to the Go fonts.
type FontFiles struct {
	files map[string][]byte
}

// Register associates TrueType or OpenType data with a family and weight.
func (ff *FontFiles) Register(family string, weight FontWeight, data []byte) {
	if ff.files == nil {
		ff.files = make(map[string][]byte)
	}
	ff.files[strings.ToLower(family)+";"+weight.String()] = data
}

// Lookup returns the font data for key, falling back to the Go font of the
// same weight.
func (ff *FontFiles) Lookup(key FontKey) []byte {
	if data, ok := ff.files[strings.ToLower(key.Family)+";"+key.Weight.String()]; ok {
		return data
	}
	switch key.Weight {
	case FontBold:
		return gobold.TTF
	case FontItalic:
		return goitalic.TTF
	default:
		return goregular.TTF
	}
}
