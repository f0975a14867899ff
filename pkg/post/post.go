// Package post transforms rendered radiance buffers before display: bloom,
// external denoising, and composition of both. Processors consume and
// produce linear radiance so they can be chained in any order.
package post

import (
	"image"

	"github.com/df07/go-pathtrace/pkg/core"
)

// PixelBuffer is a linear radiance image in row-major order, optionally
// carrying albedo and normal planes for processors that use them.
type PixelBuffer struct {
	Width  int
	Height int
	Pixels []core.Vec3
	Albedo []core.Vec3 // Optional auxiliary plane, same layout as Pixels
	Normal []core.Vec3 // Optional auxiliary plane, same layout as Pixels
}

// NewPixelBuffer creates an empty buffer of the given dimensions
func NewPixelBuffer(width, height int) PixelBuffer {
	return PixelBuffer{
		Width:  width,
		Height: height,
		Pixels: make([]core.Vec3, width*height),
	}
}

// HasAuxBuffers reports whether full albedo and normal planes are attached
func (b PixelBuffer) HasAuxBuffers() bool {
	n := b.Width * b.Height
	return len(b.Albedo) == n && len(b.Normal) == n
}

func (b PixelBuffer) validate() error {
	if b.Width <= 0 || b.Height <= 0 {
		return core.NewConfigError("pixelBuffer", "dimensions %dx%d are not positive", b.Width, b.Height)
	}
	if len(b.Pixels) != b.Width*b.Height {
		return core.NewConfigError("pixelBuffer", "pixel count %d does not match %dx%d", len(b.Pixels), b.Width, b.Height)
	}
	return nil
}

// ToRGBA tone maps the buffer to a display image with gamma 2.0
func (b PixelBuffer) ToRGBA() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, b.Width, b.Height))
	for y := 0; y < b.Height; y++ {
		for x := 0; x < b.Width; x++ {
			c := b.Pixels[y*b.Width+x].Clamp(0, 1).GammaCorrect(2.0)
			offset := img.PixOffset(x, y)
			img.Pix[offset] = uint8(255 * c.X)
			img.Pix[offset+1] = uint8(255 * c.Y)
			img.Pix[offset+2] = uint8(255 * c.Z)
			img.Pix[offset+3] = 255
		}
	}
	return img
}

// PostProcessor transforms a rendered buffer into a new one
type PostProcessor interface {
	// Process returns a transformed copy of the buffer. The input is not
	// modified.
	Process(buf PixelBuffer) (PixelBuffer, error)

	// NeedsAuxBuffers reports whether the processor uses the albedo and
	// normal planes
	NeedsAuxBuffers() bool
}

// Chain applies processors in order, feeding each output to the next
type Chain struct {
	processors []PostProcessor
}

// NewChain creates a processing chain from the given processors
func NewChain(processors ...PostProcessor) *Chain {
	return &Chain{processors: processors}
}

// Process runs every processor in order, stopping at the first error
func (c *Chain) Process(buf PixelBuffer) (PixelBuffer, error) {
	out := buf
	for _, p := range c.processors {
		var err error
		out, err = p.Process(out)
		if err != nil {
			return PixelBuffer{}, err
		}
	}
	return out, nil
}

// NeedsAuxBuffers reports whether any processor in the chain uses aux planes
func (c *Chain) NeedsAuxBuffers() bool {
	for _, p := range c.processors {
		if p.NeedsAuxBuffers() {
			return true
		}
	}
	return false
}

// ApplyWithFallback runs the processor and falls back to the unprocessed
// buffer when it fails. A nil processor passes the buffer through.
func ApplyWithFallback(p PostProcessor, buf PixelBuffer, logger core.Logger) PixelBuffer {
	if p == nil {
		return buf
	}
	out, err := p.Process(buf)
	if err != nil {
		if logger != nil {
			logger.Printf("Post-processing failed, keeping the raw image: %v\n", err)
		}
		return buf
	}
	return out
}
