package flint

import (
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"

	// Registered decoders.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// ErrInvalidSize is returned for zero or negative sizes.
var ErrInvalidSize = errors.New("flint: invalid size")

// Image is a decoded bitmap that nodes can use as a background. Backends
// attach their own texture to it on first draw.
type Image struct {
	Path   string
	src    image.Image
	handle any
}

// NewImage wraps an already decoded image.
func NewImage(src image.Image) *Image {
	return &Image{src: src}
}

// Source returns the decoded pixels.
func (img *Image) Source() image.Image { return img.src }

// Size returns the pixel dimensions of the image.
func (img *Image) Size() (width, height int) {
	if img == nil || img.src == nil {
		return 0, 0
	}
	b := img.src.Bounds()
	return b.Dx(), b.Dy()
}

// Handle returns the backend texture attached with SetHandle, or nil.
func (img *Image) Handle() any { return img.handle }

// SetHandle attaches a backend texture to the image.
func (img *Image) SetHandle(h any) { img.handle = h }

// ImageCache decodes images by path once for the lifetime of a Renderer.
type ImageCache struct {
	images map[string]*Image
}

// NewImageCache returns an empty cache.
func NewImageCache() *ImageCache {
	return &ImageCache{images: make(map[string]*Image)}
}

// Load returns the image at path, decoding it on first use. PNG, JPEG, GIF,
// BMP, and WebP are supported.
func (c *ImageCache) Load(path string) (*Image, error) {
	key := filepath.Clean(path)
	if img, ok := c.images[key]; ok {
		return img, nil
	}
	f, err := os.Open(key)
	if err != nil {
		return nil, fmt.Errorf("open image: %w", err)
	}
	defer f.Close()

	src, format, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode image %s: %w", key, err)
	}
	img := &Image{Path: key, src: src}
	c.images[key] = img
	Logger().Debug("image loaded", "path", key, "format", format,
		"width", src.Bounds().Dx(), "height", src.Bounds().Dy())
	return img, nil
}

// Len returns the number of cached images.
func (c *ImageCache) Len() int { return len(c.images) }

// Clear drops every cached image.
func (c *ImageCache) Clear() {
	clear(c.images)
}
