// Package capture saves rendered frames as PNG screenshots.
package capture

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"time"
)

// Capture writes screenshots named <prefix>_<timestamp>.png into Dir.
type Capture struct {
	Dir    string
	Prefix string

	now func() time.Time
}

// New returns a capture writing into dir.
func New(dir, prefix string) *Capture {
	return &Capture{Dir: dir, Prefix: prefix, now: time.Now}
}

// Filename returns the path the next screenshot will be written to.
func (c *Capture) Filename() string {
	name := fmt.Sprintf("%s_%s.png", c.Prefix, c.now().Format("2006-01-02_15-04-05.000"))
	if c.Dir != "" {
		name = filepath.Join(c.Dir, name)
	}
	return name
}

// SavePixels writes bottom-up RGBA rows, as returned by glReadPixels, to a
// new PNG file and returns its path.
func (c *Capture) SavePixels(pixels []byte, width, height int) (string, error) {
	img, err := FromBottomUp(pixels, width, height)
	if err != nil {
		return "", err
	}

	if c.Dir != "" {
		if err := os.MkdirAll(c.Dir, 0755); err != nil {
			return "", fmt.Errorf("creating output dir: %w", err)
		}
	}

	filename := c.Filename()
	file, err := os.Create(filename)
	if err != nil {
		return "", fmt.Errorf("creating file: %w", err)
	}
	defer file.Close()

	if err := png.Encode(file, img); err != nil {
		return "", fmt.Errorf("encoding PNG: %w", err)
	}
	return filename, file.Close()
}

// FromBottomUp builds an image from RGBA rows whose first row is the bottom
// of the picture, the OpenGL framebuffer order.
func FromBottomUp(pixels []byte, width, height int) (*image.RGBA, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid image size %dx%d", width, height)
	}
	if len(pixels) != width*height*4 {
		return nil, fmt.Errorf("pixel data size mismatch: expected %d, got %d", width*height*4, len(pixels))
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	rowSize := width * 4
	for y := 0; y < height; y++ {
		src := (height - 1 - y) * rowSize
		dst := y * img.Stride
		copy(img.Pix[dst:dst+rowSize], pixels[src:src+rowSize])
	}
	return img, nil
}
