package post

import (
	"math"
	"runtime"
	"sync"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/df07/go-pathtrace/pkg/core"
)

// Bloom spreads a glow around pixels brighter than a threshold. The bright
// pass is blurred with a separable gaussian and added back onto the image.
type Bloom struct {
	kernelFraction float64 // Blur radius as a fraction of image width
	threshold      float64 // Color vector length where glow starts
	maxIntensity   float64 // Cap on the glow contribution of one pixel
}

// NewBloom creates a bloom processor. The kernel fraction sets the blur
// radius relative to image width and must lie in [0, 0.5]. A zero threshold
// defaults to the length of white (sqrt 3), a zero max intensity leaves the
// glow uncapped.
func NewBloom(kernelFraction, threshold, maxIntensity float64) (*Bloom, error) {
	if kernelFraction < 0 || kernelFraction > 0.5 {
		return nil, core.NewConfigError("kernelFraction", "%g is outside [0, 0.5]", kernelFraction)
	}
	if threshold < 0 {
		return nil, core.NewConfigError("threshold", "%g is negative", threshold)
	}
	if maxIntensity < 0 {
		return nil, core.NewConfigError("maxIntensity", "%g is negative", maxIntensity)
	}

	if threshold == 0 {
		threshold = core.NewVec3(1, 1, 1).Length()
	}
	if maxIntensity == 0 {
		maxIntensity = math.Inf(1)
	}

	return &Bloom{
		kernelFraction: kernelFraction,
		threshold:      threshold,
		maxIntensity:   maxIntensity,
	}, nil
}

// NeedsAuxBuffers reports that bloom works on the color plane alone
func (b *Bloom) NeedsAuxBuffers() bool {
	return false
}

// Process extracts pixels over the threshold, blurs them and adds the result
// back onto the input
func (b *Bloom) Process(buf PixelBuffer) (PixelBuffer, error) {
	if err := buf.validate(); err != nil {
		return PixelBuffer{}, err
	}

	kernelSize := int(b.kernelFraction*float64(buf.Width))*2 + 1
	weights := gaussianWeights(kernelSize, float64(kernelSize)/5.0)

	bright := make([]core.Vec3, len(buf.Pixels))
	for i, p := range buf.Pixels {
		length := p.Length()
		if length < b.threshold {
			continue
		}
		if length > b.maxIntensity {
			p = p.Normalize().Multiply(b.maxIntensity)
		}
		bright[i] = p
	}

	blurred := blurPass(bright, buf.Width, buf.Height, weights, 1, 0)
	blurred = blurPass(blurred, buf.Width, buf.Height, weights, 0, 1)

	out := buf
	out.Pixels = make([]core.Vec3, len(buf.Pixels))
	for i, p := range buf.Pixels {
		out.Pixels[i] = p.Add(blurred[i])
	}
	return out, nil
}

// gaussianWeights returns a normalized gaussian kernel centered on the
// middle tap
func gaussianWeights(size int, sigma float64) []float64 {
	dist := distuv.Normal{Mu: float64(size-1) / 2.0, Sigma: sigma}

	weights := make([]float64, size)
	sum := 0.0
	for i := range weights {
		weights[i] = dist.Prob(float64(i))
		sum += weights[i]
	}
	for i := range weights {
		weights[i] /= sum
	}
	return weights
}

// blurPass convolves one axis of the image with the kernel, clamping reads
// at the edges. Rows are split across the available CPUs.
func blurPass(src []core.Vec3, width, height int, weights []float64, dx, dy int) []core.Vec3 {
	dst := make([]core.Vec3, len(src))
	half := len(weights) / 2

	var wg sync.WaitGroup
	bands := runtime.NumCPU()
	rowsPerBand := (height + bands - 1) / bands
	for band := 0; band < bands; band++ {
		y0 := band * rowsPerBand
		y1 := y0 + rowsPerBand
		if y1 > height {
			y1 = height
		}
		if y0 >= y1 {
			break
		}

		wg.Add(1)
		go func(y0, y1 int) {
			defer wg.Done()
			for y := y0; y < y1; y++ {
				for x := 0; x < width; x++ {
					var col core.Vec3
					for i, w := range weights {
						sx := clampIndex(x+(i-half)*dx, width)
						sy := clampIndex(y+(i-half)*dy, height)
						col = col.Add(src[sy*width+sx].Multiply(w))
					}
					dst[y*width+x] = col
				}
			}
		}(y0, y1)
	}
	wg.Wait()
	return dst
}

func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
