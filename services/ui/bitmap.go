package ui

import "image/color"

// Bitmap is an in-memory Canvas. It backs the simulated panel and counts
// Display calls.
type Bitmap struct {
	pix     [Height][Width]bool
	Flushes int
}

func (b *Bitmap) Size() (x, y int16) { return Width, Height }

func (b *Bitmap) SetPixel(x, y int16, c color.RGBA) {
	if x < 0 || y < 0 || x >= Width || y >= Height {
		return
	}
	b.pix[y][x] = c.R|c.G|c.B != 0
}

func (b *Bitmap) Display() error {
	b.Flushes++
	return nil
}

func (b *Bitmap) ClearBuffer() { b.pix = [Height][Width]bool{} }

// Pixel reports whether (x, y) is lit.
func (b *Bitmap) Pixel(x, y int) bool { return b.pix[y][x] }

// Lit counts lit pixels inside the rectangle [x0,x1) x [y0,y1).
func (b *Bitmap) Lit(x0, y0, x1, y1 int) (n int) {
	for y := y0; y < y1 && y < Height; y++ {
		for x := x0; x < x1 && x < Width; x++ {
			if b.pix[y][x] {
				n++
			}
		}
	}
	return n
}
