package assets

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"
	"path"
	"strings"

	_ "golang.org/x/image/bmp" // BMP decoder registration
)

// DecodeImage decodes PNG, JPEG, BMP or TGA data. TGA is selected by the
// extension of name; the other formats are sniffed from their header.
func DecodeImage(data []byte, name string) (image.Image, error) {
	if strings.EqualFold(path.Ext(name), ".tga") {
		img, err := decodeTGA(data)
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", name, err)
		}
		return img, nil
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", name, err)
	}
	return img, nil
}

// LoadImage loads and decodes a texture and returns it flipped vertically,
// so that row 0 is the bottom of the picture as OpenGL expects.
func (m *Manager) LoadImage(name string) (*image.RGBA, error) {
	data, err := m.Load(name)
	if err != nil {
		return nil, err
	}

	img, err := DecodeImage(data, name)
	if err != nil {
		return nil, err
	}

	rgba := ToRGBA(img)
	FlipVertical(rgba)
	return rgba, nil
}

// ToRGBA converts img to an RGBA image with origin (0, 0).
func ToRGBA(img image.Image) *image.RGBA {
	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	return rgba
}

// FlipVertical mirrors img top to bottom in place.
func FlipVertical(img *image.RGBA) {
	h := img.Bounds().Dy()
	rowLen := img.Bounds().Dx() * 4
	tmp := make([]byte, rowLen)

	for top, bottom := 0, h-1; top < bottom; top, bottom = top+1, bottom-1 {
		a := img.Pix[top*img.Stride : top*img.Stride+rowLen]
		b := img.Pix[bottom*img.Stride : bottom*img.Stride+rowLen]
		copy(tmp, a)
		copy(a, b)
		copy(b, tmp)
	}
}
