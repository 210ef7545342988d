package capture

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func fixedClock() time.Time {
	return time.Date(2024, 3, 9, 14, 5, 7, 0, time.UTC)
}

func TestFilename(t *testing.T) {
	tests := []struct {
		dir  string
		want string
	}{
		{"", "terrain_2024-03-09_14-05-07.png"},
		{"shots", filepath.Join("shots", "terrain_2024-03-09_14-05-07.png")},
	}

	for _, tt := range tests {
		s := New(tt.dir, "terrain")
		s.now = fixedClock
		if got := s.Filename(); got != tt.want {
			t.Errorf("Filename() = %q, want %q", got, tt.want)
		}
	}
}

func TestSavePixelsFlips(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")
	s := New(dir, "frame")
	s.now = fixedClock

	// Two rows bottom-up: red on the bottom, blue on top
	pixels := []byte{
		255, 0, 0, 255,
		0, 0, 255, 255,
	}

	path, err := s.SavePixels(pixels, 1, 2)
	if err != nil {
		t.Fatalf("SavePixels: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	top := color.RGBAModel.Convert(img.At(0, 0)).(color.RGBA)
	bottom := color.RGBAModel.Convert(img.At(0, 1)).(color.RGBA)
	if top != (color.RGBA{B: 255, A: 255}) {
		t.Errorf("top = %v, want blue", top)
	}
	if bottom != (color.RGBA{R: 255, A: 255}) {
		t.Errorf("bottom = %v, want red", bottom)
	}
}

func TestSavePixelsRejectsBadInput(t *testing.T) {
	s := New(t.TempDir(), "frame")

	if _, err := s.SavePixels(make([]byte, 3), 1, 1); err == nil {
		t.Error("expected size mismatch error")
	}
	if _, err := s.SavePixels(nil, 0, 0); err == nil {
		t.Error("expected invalid size error")
	}
}

func TestSave(t *testing.T) {
	s := New(t.TempDir(), "img")
	path, err := s.Save(image.NewRGBA(image.Rect(0, 0, 4, 4)))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("file not written: %v", err)
	}
}

// failingCloser accepts writes and fails on Close, like a disk that
// rejects the final flush.
type failingCloser struct {
	bytes.Buffer
	closed bool
}

var errFlush = errors.New("flush failed")

func (f *failingCloser) Close() error {
	f.closed = true
	return errFlush
}

func TestSaveReportsCloseError(t *testing.T) {
	w := &failingCloser{}
	s := New(t.TempDir(), "img")
	s.create = func(string) (io.WriteCloser, error) { return w, nil }

	path, err := s.Save(image.NewRGBA(image.Rect(0, 0, 2, 2)))
	if !errors.Is(err, errFlush) {
		t.Fatalf("Save error = %v, want %v", err, errFlush)
	}
	if path != "" {
		t.Errorf("path = %q, want empty on failure", path)
	}
	if !w.closed {
		t.Error("file was not closed")
	}
	if w.Len() == 0 {
		t.Error("no PNG data written before Close")
	}
}
