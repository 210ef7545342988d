// Package capture writes rendered frames to PNG files.
package capture

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"time"
)

const timeLayout = "2006-01-02_15-04-05"

// Screenshots saves frames read back from the GL framebuffer.
type Screenshots struct {
	dir    string
	prefix string
	now    func() time.Time
	create func(name string) (io.WriteCloser, error)
}

func createFile(name string) (io.WriteCloser, error) {
	return os.Create(name)
}

// New creates a screenshot writer storing files in dir (the working
// directory when empty) named prefix_<timestamp>.png.
func New(dir, prefix string) *Screenshots {
	return &Screenshots{dir: dir, prefix: prefix, now: time.Now, create: createFile}
}

// Filename returns the path the next capture would be written to.
func (s *Screenshots) Filename() string {
	name := fmt.Sprintf("%s_%s.png", s.prefix, s.now().Format(timeLayout))
	if s.dir == "" {
		return name
	}
	return filepath.Join(s.dir, name)
}

// SavePixels writes tightly packed RGBA pixels of a bottom-up framebuffer
// as a top-down PNG and returns the file path.
func (s *Screenshots) SavePixels(pixels []byte, width, height int) (string, error) {
	if width <= 0 || height <= 0 {
		return "", fmt.Errorf("invalid frame size %dx%d", width, height)
	}
	if len(pixels) != width*height*4 {
		return "", fmt.Errorf("pixel data size mismatch: expected %d, got %d", width*height*4, len(pixels))
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	rowLen := width * 4
	for y := 0; y < height; y++ {
		src := (height - 1 - y) * rowLen
		copy(img.Pix[y*img.Stride:y*img.Stride+rowLen], pixels[src:src+rowLen])
	}

	return s.Save(img)
}

// Save encodes img as PNG and returns the file path. The file only counts
// as saved once it has been closed without error.
func (s *Screenshots) Save(img image.Image) (string, error) {
	if s.dir != "" {
		if err := os.MkdirAll(s.dir, 0755); err != nil {
			return "", fmt.Errorf("creating output dir: %w", err)
		}
	}

	filename := s.Filename()
	file, err := s.create(filename)
	if err != nil {
		return "", fmt.Errorf("creating file: %w", err)
	}

	if err := png.Encode(file, img); err != nil {
		file.Close()
		return "", fmt.Errorf("encoding PNG: %w", err)
	}
	if err := file.Close(); err != nil {
		return "", fmt.Errorf("closing file: %w", err)
	}
	return filename, nil
}
