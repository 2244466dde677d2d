package cpu

import (
	"image"
	"image/png"
	"os"

	"hackvm/pkg/grid"
)

// Screen geometry: 256 rows of 32 words, bit 0 of each word is the leftmost
// of its 16 pixels.
const (
	ScreenWidth   = 512
	ScreenHeight  = 256
	ScreenWords   = ScreenWidth / 16 * ScreenHeight
	wordsPerRow   = ScreenWidth / 16
	bytesPerPixel = 4
	pixelOnShade  = 0x00
	pixelOffShade = 0xFF
)

// GetFramebufferRGBA decodes the screen memory map into a 512×256 RGBA8888
// byte slice. Set bits are black, clear bits white.
func (c *CPU) GetFramebufferRGBA() []byte {
	pixels := make([]byte, ScreenWidth*ScreenHeight*bytesPerPixel)

	for wordIdx := 0; wordIdx < ScreenWords; wordIdx++ {
		word := c.RAM[int(ScreenBase)+wordIdx]
		col, row := grid.GetGridCoords(wordIdx, wordsPerRow)
		for bit := 0; bit < 16; bit++ {
			shade := byte(pixelOffShade)
			if word&(1<<bit) != 0 {
				shade = pixelOnShade
			}
			i := grid.GetIndex(col*16+bit, row, ScreenWidth) * bytesPerPixel
			pixels[i+0] = shade
			pixels[i+1] = shade
			pixels[i+2] = shade
			pixels[i+3] = 0xFF
		}
	}

	return pixels
}

// GetFramebufferImage returns the screen as an *image.RGBA.
func (c *CPU) GetFramebufferImage() *image.RGBA {
	return &image.RGBA{
		Pix:    c.GetFramebufferRGBA(),
		Stride: ScreenWidth * bytesPerPixel,
		Rect:   image.Rect(0, 0, ScreenWidth, ScreenHeight),
	}
}

// SaveScreenshot encodes the screen as a PNG and writes it to filename.
func (c *CPU) SaveScreenshot(filename string) error {
	img := c.GetFramebufferImage()
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, img)
}
