// Package display implements the monochrome CHIP-8 framebuffer.
package display

import "strings"

const (
	// Width is the number of pixel columns.
	Width = 64
	// Height is the number of pixel rows.
	Height = 32
)

// Display is a 64x32 grid of pixels that are either 0 or 1.
type Display struct {
	pixels    [Height][Width]uint8
	collision bool
}

// New returns a cleared display.
func New() *Display {
	return &Display{}
}

// Clear turns off all pixels and resets the collision flag.
func (d *Display) Clear() {
	d.pixels = [Height][Width]uint8{}
	d.collision = false
}

// DrawSprite XORs the sprite bytes onto the display starting at column x and
// row y. Each byte is one row of 8 pixels, most significant bit first.
// Columns wrap around the right edge, rows below the bottom edge are clipped.
// It returns whether any pixel that was set got erased.
func (d *Display) DrawSprite(x, y int, sprite []byte) bool {
	d.collision = false

	for i, b := range sprite {
		row := y + i
		if row < 0 || row >= Height {
			continue
		}

		for bit := range 8 {
			if b&(0x80>>bit) == 0 {
				continue
			}

			column := (x + bit) % Width
			if column < 0 {
				column += Width
			}

			if d.pixels[row][column] == 1 {
				d.collision = true
			}
			d.pixels[row][column] ^= 1
		}
	}

	return d.collision
}

// Collision returns whether the last draw erased a pixel.
func (d *Display) Collision() bool {
	return d.collision
}

// Pixel returns the pixel value at column x and row y. Coordinates outside
// of the display return 0.
func (d *Display) Pixel(x, y int) uint8 {
	if x < 0 || x >= Width || y < 0 || y >= Height {
		return 0
	}
	return d.pixels[y][x]
}

// Pixels returns a copy of the pixel grid indexed by row and column.
func (d *Display) Pixels() [Height][Width]uint8 {
	return d.pixels
}

// String renders the display as rows of '0' and '1' characters, each row
// terminated by a newline.
func (d *Display) String() string {
	var sb strings.Builder
	sb.Grow(Height * (Width + 1))

	for row := range Height {
		for column := range Width {
			sb.WriteByte('0' + d.pixels[row][column])
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
