package post

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
)

// DefaultDenoiserBinary is the Intel Open Image Denoise command line tool
const DefaultDenoiserBinary = "oidnDenoise"

// Denoiser runs an external denoising binary over the radiance buffer,
// exchanging images as PFM files in a temporary directory. It expects the
// oidnDenoise command line interface and requires albedo and normal planes
// to steer the filter.
type Denoiser struct {
	binary string
}

// NewDenoiser creates a denoiser invoking the given binary. An empty path
// selects DefaultDenoiserBinary from the environment's PATH.
func NewDenoiser(binary string) *Denoiser {
	if binary == "" {
		binary = DefaultDenoiserBinary
	}
	return &Denoiser{binary: binary}
}

// NeedsAuxBuffers reports that denoising uses the albedo and normal planes
func (d *Denoiser) NeedsAuxBuffers() bool {
	return true
}

// Process writes the buffer planes as PFM, runs the denoiser and reads the
// filtered radiance back
func (d *Denoiser) Process(buf PixelBuffer) (PixelBuffer, error) {
	if err := buf.validate(); err != nil {
		return PixelBuffer{}, err
	}
	if !buf.HasAuxBuffers() {
		return PixelBuffer{}, fmt.Errorf("denoiser requires albedo and normal buffers")
	}

	dir, err := os.MkdirTemp("", "denoise-")
	if err != nil {
		return PixelBuffer{}, fmt.Errorf("denoiser workspace: %w", err)
	}
	defer os.RemoveAll(dir)

	colorPath := filepath.Join(dir, "color.pfm")
	albedoPath := filepath.Join(dir, "albedo.pfm")
	normalPath := filepath.Join(dir, "normal.pfm")
	outputPath := filepath.Join(dir, "output.pfm")

	if err := writePFM(colorPath, buf.Pixels, buf.Width, buf.Height); err != nil {
		return PixelBuffer{}, fmt.Errorf("write color plane: %w", err)
	}
	if err := writePFM(albedoPath, buf.Albedo, buf.Width, buf.Height); err != nil {
		return PixelBuffer{}, fmt.Errorf("write albedo plane: %w", err)
	}
	if err := writePFM(normalPath, buf.Normal, buf.Width, buf.Height); err != nil {
		return PixelBuffer{}, fmt.Errorf("write normal plane: %w", err)
	}

	cmd := exec.Command(d.binary,
		"--hdr", colorPath,
		"--alb", albedoPath,
		"--nrm", normalPath,
		"-o", outputPath,
	)
	if output, err := cmd.CombinedOutput(); err != nil {
		return PixelBuffer{}, fmt.Errorf("denoiser %s failed: %w: %s", d.binary, err, output)
	}

	pixels, width, height, err := readPFM(outputPath)
	if err != nil {
		return PixelBuffer{}, fmt.Errorf("read denoised output: %w", err)
	}
	if width != buf.Width || height != buf.Height {
		return PixelBuffer{}, fmt.Errorf("denoiser returned %dx%d for a %dx%d input", width, height, buf.Width, buf.Height)
	}

	out := buf
	out.Pixels = pixels
	return out, nil
}
