package render

import (
	"fmt"
	"image/color"
)

// Palette holds the colors of every frame element.
type Palette struct {
	Background color.RGBA
	Wall       color.RGBA
	Bridge     color.RGBA
	Start      color.RGBA
	Finish     color.RGBA
	Current    color.RGBA

	Best      color.RGBA
	Open      color.RGBA
	Histories color.RGBA
	Stale     color.RGBA
}

// RGBA converts a 0xRRGGBBAA value to a color.
func RGBA(v uint32) color.RGBA {
	return color.RGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}
}

// DefaultPalette returns the classic stepper colors.
func DefaultPalette() Palette {
	return Palette{
		Background: RGBA(0x2f222222),
		Wall:       RGBA(0x000000ff),
		Bridge:     RGBA(0x555555ff),
		Start:      RGBA(0x3366ccff),
		Finish:     RGBA(0xcc9900ff),
		Current:    RGBA(0xffffffff),
		Best:       RGBA(0xffaaaaff),
		Open:       RGBA(0x009600dd),
		Histories:  RGBA(0xff0000ff),
		Stale:      RGBA(0x9f9f9fff),
	}
}

// svgPaint returns the hex color and opacity attributes for c.
func svgPaint(c color.RGBA) (string, string) {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B), fmt.Sprintf("%.2f", float64(c.A)/255)
}
