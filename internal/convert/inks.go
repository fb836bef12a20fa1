// Package convert reduces calendar snapshots to the inks of a tri-color
// e-paper frame.
package convert

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
)

// Ink is one of the colors a tri-color panel can show.
type Ink uint8

const (
	White Ink = iota
	Black
	Red
)

// Palette holds the panel inks, indexed by Ink.
var Palette = color.Palette{
	White: color.NRGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF},
	Black: color.NRGBA{A: 0xFF},
	Red:   color.NRGBA{R: 0xFF, A: 0xFF},
}

// Classify decides which ink a pixel is drawn with.
//
// Rules:
//
//   - mostly transparent (alpha < 128) → white
//   - luma Y = 0.299R + 0.587G + 0.114B below 64 → black
//   - R > 128 and R - max(G, B) > 32 → red
//   - everything else → white
func Classify(c color.Color) Ink {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	if n.A < 128 {
		return White
	}
	r, g, b := float64(n.R), float64(n.G), float64(n.B)

	y := 0.299*r + 0.587*g + 0.114*b
	if y < 64 {
		return Black
	}

	maxGB := g
	if b > maxGB {
		maxGB = b
	}
	if r > 128 && r-maxGB > 32 {
		return Red
	}
	return White
}

// Quantize maps every pixel of img to its ink.
func Quantize(img image.Image) *image.Paletted {
	b := img.Bounds()
	out := image.NewPaletted(b, Palette)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			out.SetColorIndex(x, y, uint8(Classify(img.At(x, y))))
		}
	}
	return out
}

// InkPNG decodes a PNG, quantizes it and encodes the result as a paletted
// PNG.
func InkPNG(data []byte) ([]byte, error) {
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("convert: decode png: %w", err)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, Quantize(img)); err != nil {
		return nil, fmt.Errorf("convert: encode png: %w", err)
	}
	return buf.Bytes(), nil
}
