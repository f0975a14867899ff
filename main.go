package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	"image/png"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/df07/go-pathtrace/pkg/core"
	"github.com/df07/go-pathtrace/pkg/integrator"
	"github.com/df07/go-pathtrace/pkg/post"
	"github.com/df07/go-pathtrace/pkg/renderer"
	"github.com/df07/go-pathtrace/pkg/scene"
)

func main() {
	sceneName := flag.String("scene", "cornell", "Built-in scene to render (see -list)")
	objPath := flag.String("obj", "", "Render an OBJ file on the display stage instead of a built-in scene")
	listScenes := flag.Bool("list", false, "List the built-in scenes and exit")
	width := flag.Int("width", 0, "Image width in pixels (0 uses the scene default)")
	height := flag.Int("height", 0, "Image height in pixels (0 uses the scene default)")
	samples := flag.Int("samples", 50, "Samples per pixel")
	passes := flag.Int("passes", 7, "Number of progressive passes")
	depth := flag.Int("depth", 50, "Maximum ray bounce depth")
	workers := flag.Int("workers", 0, "Number of render workers (0 uses all CPUs)")
	bloom := flag.Bool("bloom", false, "Apply a bloom pass before saving")
	denoise := flag.Bool("denoise", false, "Run the external denoiser before saving (requires oidnDenoise on PATH)")
	output := flag.String("output", "output", "Root directory for rendered images")
	flag.Parse()

	if *listScenes {
		fmt.Println("Available scenes:")
		for _, info := range scene.List() {
			fmt.Printf("  %-20s %s\n", info.ID, info.Description)
		}
		return
	}

	sc, name, err := buildScene(*sceneName, *objPath)
	if err != nil {
		fmt.Printf("Error building scene: %v\n", err)
		os.Exit(1)
	}
	if err := sc.Preprocess(); err != nil {
		fmt.Printf("Error preparing scene: %v\n", err)
		os.Exit(1)
	}

	cfg := renderer.DefaultRenderConfig()
	cfg.Width, cfg.Height = sceneDimensions(name, *width, *height)
	cfg.SamplesPerPixel = *samples
	cfg.MaxPasses = *passes
	cfg.MaxDepth = *depth
	cfg.WorkerCount = *workers
	if err := cfg.Validate(); err != nil {
		fmt.Printf("Invalid render configuration: %v\n", err)
		os.Exit(1)
	}

	// Ctrl+C stops the render gracefully; the partial image still gets saved
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger := renderer.NewDefaultLogger()
	r := renderer.NewRenderer(sc, cfg, integrator.NewPathTracing(cfg.MaxDepth, cfg.RouletteStartBounce), logger)

	startTime := time.Now()
	result := r.RenderWithSink(ctx, nil)
	renderTime := time.Since(startTime)

	switch result.Outcome {
	case renderer.OutcomeFailed:
		fmt.Printf("Render failed: %v\n", errors.Join(result.Errors...))
		os.Exit(1)
	case renderer.OutcomeCancelled:
		fmt.Printf("Render interrupted after %d passes, saving partial image\n", result.Passes)
	default:
		fmt.Printf("Render completed in %v\n", renderTime)
	}
	fmt.Printf("Samples per pixel: %.1f (range %d - %d)\n",
		result.Stats.AverageSamples, result.Stats.MinSamples, result.Stats.MaxSamplesUsed)

	img := result.Image
	if *bloom || *denoise {
		buf := post.PixelBuffer{Width: cfg.Width, Height: cfg.Height, Pixels: result.Snapshot.Pixels}

		var processors []post.PostProcessor
		if *denoise {
			albedo, normal, err := renderAuxPlanes(ctx, sc, cfg, logger)
			if err != nil {
				fmt.Printf("Error rendering denoiser guide planes: %v\n", err)
			} else {
				buf.Albedo, buf.Normal = albedo, normal
				processors = append(processors, post.NewDenoiser(""))
			}
		}
		if *bloom {
			b, err := post.NewBloom(0.1, 0, 0)
			if err != nil {
				fmt.Printf("Error configuring bloom: %v\n", err)
				os.Exit(1)
			}
			processors = append(processors, b)
		}

		processed := post.ApplyWithFallback(post.NewChain(processors...), buf, logger)
		img = processed.ToRGBA()
	}

	outputDir := filepath.Join(*output, name)
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		fmt.Printf("Error creating output directory: %v\n", err)
		os.Exit(1)
	}

	timestamp := time.Now().Format("20060102_150405")
	filename := filepath.Join(outputDir, fmt.Sprintf("render_%s.png", timestamp))
	if err := writePNG(filename, img); err != nil {
		fmt.Printf("Error saving PNG: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Render saved as %s\n", filename)
}

// buildScene resolves the scene to render and the name used for the output
// directory. A non-empty OBJ path takes precedence over the built-in name.
func buildScene(name, objPath string) (*scene.Scene, string, error) {
	if objPath != "" {
		sc, err := scene.NewObjFileScene(objPath, nil)
		if err != nil {
			return nil, "", err
		}
		base := filepath.Base(objPath)
		return sc, strings.TrimSuffix(base, filepath.Ext(base)), nil
	}
	sc, err := scene.Build(name)
	if err != nil {
		return nil, "", err
	}
	return sc, name, nil
}

// sceneDimensions maps a scene to its default resolution, honoring explicit
// overrides. Setting only one dimension scales the other to keep the scene's
// aspect ratio.
func sceneDimensions(name string, width, height int) (int, int) {
	w, h := 800, 450
	switch name {
	case "cornell", "cornell-spheres", "sphere-directional":
		w, h = 400, 400
	}
	switch {
	case width > 0 && height > 0:
		return width, height
	case width > 0:
		return width, width * h / w
	case height > 0:
		return height * w / h, height
	}
	return w, h
}

// renderAuxPlanes renders the albedo and normal guide planes the denoiser
// uses to preserve texture detail and geometric edges. Guides need far fewer
// samples than the beauty image, just enough to anti-alias.
func renderAuxPlanes(ctx context.Context, sc *scene.Scene, cfg renderer.RenderConfig, logger core.Logger) (albedo, normal []core.Vec3, err error) {
	auxCfg := cfg
	auxCfg.MaxPasses = 1
	auxCfg.InitialSamples = 0
	auxCfg.AdaptiveThreshold = 0
	auxCfg.SamplesPerPixel = 16
	if cfg.SamplesPerPixel < auxCfg.SamplesPerPixel {
		auxCfg.SamplesPerPixel = cfg.SamplesPerPixel
	}

	planes := []struct {
		integ integrator.Integrator
		dst   *[]core.Vec3
	}{
		{integrator.AlbedoIntegrator{}, &albedo},
		{integrator.NormalIntegrator{}, &normal},
	}
	for _, plane := range planes {
		r := renderer.NewRenderer(sc, auxCfg, plane.integ, logger)
		result := r.RenderWithSink(ctx, nil)
		if result.Outcome != renderer.OutcomeCompleted {
			if joined := errors.Join(result.Errors...); joined != nil {
				return nil, nil, joined
			}
			return nil, nil, fmt.Errorf("guide render %s", result.Outcome)
		}
		*plane.dst = result.Snapshot.Pixels
	}
	return albedo, normal, nil
}

func writePNG(path string, img image.Image) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return png.Encode(file, img)
}
