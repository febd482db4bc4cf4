package stream

import (
	"encoding/binary"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// MaxPixels is the largest pixel count the two byte frame header can carry.
const MaxPixels = math.MaxUint16

// Frame represents a frame of RGB pixels to display on an ledrx device.
type Frame struct {
	pixels []colorful.Color
}

// NewFrame creates a Frame of numPixels black pixels. Counts above
// MaxPixels are clamped.
func NewFrame(numPixels int) *Frame {
	numPixels = max(0, min(numPixels, MaxPixels))
	f := new(Frame)
	f.pixels = make([]colorful.Color, numPixels)
	return f
}

// Len returns the number of pixels.
func (f *Frame) Len() int {
	return len(f.pixels)
}

// Pixel returns the colour of pixel i.
func (f *Frame) Pixel(i int) colorful.Color {
	return f.pixels[i]
}

// Fill paints every pixel with c.
func (f *Frame) Fill(c colorful.Color) {
	for i := range f.pixels {
		f.pixels[i] = c
	}
}

// Blend mixes c into pixel i by weight in [0,1]. Out of range pixels are
// ignored.
func (f *Frame) Blend(i int, c colorful.Color, weight float64) {
	if i < 0 || i >= len(f.pixels) || weight <= 0 {
		return
	}
	if weight >= 1 {
		f.pixels[i] = c
		return
	}
	f.pixels[i] = f.pixels[i].BlendRgb(c, weight)
}

// MarshalBinary converts a Frame into binary data: a little endian pixel
// count followed by one RGB triple per pixel.
func (f *Frame) MarshalBinary() (data []byte, err error) {
	data = make([]byte, 2, (len(f.pixels)*3)+2)
	binary.LittleEndian.PutUint16(data, uint16(len(f.pixels)))
	for _, p := range f.pixels {
		r, g, b := p.Clamped().RGB255()
		data = append(data, r, g, b)
	}

	return data, nil
}
