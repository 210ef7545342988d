package assets

import (
	"errors"
	"fmt"
	"image"
	"image/color"
)

// TGA image types.
const (
	tgaTrueColor    = 2
	tgaTrueColorRLE = 10
)

var errTGATruncated = errors.New("tga: data truncated")

// decodeTGA decodes uncompressed or RLE true-color TGA data (24 or 32 bpp).
// The image package cannot sniff TGA since it has no magic number, so
// DecodeImage dispatches on the file extension.
func decodeTGA(data []byte) (image.Image, error) {
	if len(data) < 18 {
		return nil, errTGATruncated
	}

	idLength := int(data[0])
	colorMapType := data[1]
	imageType := data[2]
	width := int(data[12]) | int(data[13])<<8
	height := int(data[14]) | int(data[15])<<8
	bpp := int(data[16])
	topToBottom := data[17]&0x20 != 0

	switch {
	case colorMapType != 0:
		return nil, errors.New("tga: color-mapped images not supported")
	case imageType != tgaTrueColor && imageType != tgaTrueColorRLE:
		return nil, fmt.Errorf("tga: unsupported image type %d", imageType)
	case bpp != 24 && bpp != 32:
		return nil, fmt.Errorf("tga: unsupported bit depth %d", bpp)
	}

	offset := 18 + idLength
	if offset > len(data) {
		return nil, errTGATruncated
	}
	src := data[offset:]
	bytesPerPixel := bpp / 8

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	total := width * height

	// set writes the n-th pixel in file order, honouring the origin bit
	set := func(n int, px []byte) {
		x, y := n%width, n/width
		if !topToBottom {
			y = height - 1 - y
		}
		c := color.RGBA{R: px[2], G: px[1], B: px[0], A: 255}
		if bytesPerPixel == 4 {
			c.A = px[3]
		}
		img.SetRGBA(x, y, c)
	}

	if imageType == tgaTrueColor {
		if len(src) < total*bytesPerPixel {
			return nil, errTGATruncated
		}
		for n := 0; n < total; n++ {
			set(n, src[n*bytesPerPixel:])
		}
		return img, nil
	}

	n, i := 0, 0
	for n < total {
		if i >= len(src) {
			return nil, errTGATruncated
		}
		packet := src[i]
		i++
		count := int(packet&0x7f) + 1

		if packet&0x80 != 0 {
			// Run-length packet: one pixel repeated
			if i+bytesPerPixel > len(src) {
				return nil, errTGATruncated
			}
			px := src[i : i+bytesPerPixel]
			i += bytesPerPixel
			for k := 0; k < count && n < total; k++ {
				set(n, px)
				n++
			}
			continue
		}

		// Raw packet
		if i+count*bytesPerPixel > len(src) {
			return nil, errTGATruncated
		}
		for k := 0; k < count && n < total; k++ {
			set(n, src[i:])
			i += bytesPerPixel
			n++
		}
	}

	return img, nil
}
