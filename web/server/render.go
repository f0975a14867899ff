package server

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/png"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/df07/go-pathtrace/pkg/integrator"
	"github.com/df07/go-pathtrace/pkg/post"
	"github.com/df07/go-pathtrace/pkg/renderer"
	"github.com/df07/go-pathtrace/pkg/scene"
)

// RenderRequest holds the parsed parameters of a render call
type RenderRequest struct {
	Scene           string
	Width           int
	Height          int
	SamplesPerPixel int
	MaxPasses       int
	MaxDepth        int
	Bloom           bool
}

// ProgressUpdate is one progressive result sent to the client via SSE
type ProgressUpdate struct {
	PassNumber  int    `json:"passNumber"`
	TotalPasses int    `json:"totalPasses"`
	ImageData   string `json:"imageData"` // Base64 encoded PNG
	Stats       Stats  `json:"stats"`
	IsComplete  bool   `json:"isComplete"`
	ElapsedMs   int64  `json:"elapsedMs"`
}

// Stats reports sampling statistics alongside each update
type Stats struct {
	TotalPixels    int     `json:"totalPixels"`
	TotalSamples   int     `json:"totalSamples"`
	AverageSamples float64 `json:"averageSamples"`
	MaxSamples     int     `json:"maxSamples"`
	MinSamples     int     `json:"minSamples"`
	MaxSamplesUsed int     `json:"maxSamplesUsed"`
}

// handleRender runs a progressive render, streaming one SSE progress event
// per completed pass plus any render log lines. The client closing the
// connection cancels the render.
func (s *Server) handleRender(c echo.Context) error {
	req, err := parseRenderRequest(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	sc, err := scene.Build(req.Scene)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := sc.Preprocess(); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	var bloom *post.Bloom
	if req.Bloom {
		if bloom, err = post.NewBloom(0.1, 0, 0); err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}

	res := c.Response()
	res.Header().Set(echo.HeaderContentType, "text/event-stream")
	res.Header().Set(echo.HeaderCacheControl, "no-cache")
	res.Header().Set("Connection", "keep-alive")
	res.WriteHeader(http.StatusOK)

	// All SSE writes happen on this goroutine; after the first failed write
	// the client is gone and the rest of the stream is dropped
	var writeErr error
	sendEvent := func(event, data string) {
		if writeErr != nil {
			return
		}
		if _, writeErr = fmt.Fprintf(res, "event: %s\ndata: %s\n\n", event, data); writeErr == nil {
			res.Flush()
		}
	}
	sendJSON := func(event string, payload interface{}) {
		data, err := json.Marshal(payload)
		if err != nil {
			s.logger.Printf("Error marshaling %s event: %v\n", event, err)
			return
		}
		sendEvent(event, string(data))
	}

	start := time.Now()
	sendPass := func(pass renderer.PassResult) {
		img := pass.Image
		if bloom != nil {
			processed := post.ApplyWithFallback(bloom, snapshotBuffer(pass.Snapshot), s.logger)
			img = processed.ToRGBA()
		}
		encoded, err := encodePNG(img)
		if err != nil {
			s.logger.Printf("Error encoding pass %d: %v\n", pass.PassNumber, err)
			return
		}
		sendJSON("progress", ProgressUpdate{
			PassNumber:  pass.PassNumber,
			TotalPasses: req.MaxPasses,
			ImageData:   encoded,
			Stats:       statsFromRender(pass.Stats),
			IsComplete:  pass.IsLast,
			ElapsedMs:   time.Since(start).Milliseconds(),
		})
	}

	// Render log lines reach the client as console events between passes
	consoleChan := make(chan ConsoleMessage, 50)
	logger := NewWebLogger(s.logger, consoleChan)

	cfg := renderer.RenderConfig{
		Width:               req.Width,
		Height:              req.Height,
		SamplesPerPixel:     req.SamplesPerPixel,
		MaxDepth:            req.MaxDepth,
		RouletteStartBounce: 3,
		MaxPasses:           req.MaxPasses,
	}
	r := renderer.NewRenderer(sc, cfg, integrator.NewPathTracing(cfg.MaxDepth, cfg.RouletteStartBounce), logger)
	passChan, resultChan := r.RenderProgressive(c.Request().Context())

	var result renderer.RenderResult
	haveResult := false
	for !haveResult {
		select {
		case pass, ok := <-passChan:
			if !ok {
				passChan = nil
				continue
			}
			sendPass(pass)
		case msg := <-consoleChan:
			sendJSON("console", msg)
		case result = <-resultChan:
			haveResult = true
		}
	}

	// A pass published just before the terminal result may still be queued
	if passChan != nil {
		for pass := range passChan {
			sendPass(pass)
		}
	}
drain:
	for {
		select {
		case msg := <-consoleChan:
			sendJSON("console", msg)
		default:
			break drain
		}
	}

	switch result.Outcome {
	case renderer.OutcomeCompleted:
		sendEvent("complete", "rendering completed")
	case renderer.OutcomeFailed:
		sendEvent("error", fmt.Sprintf("rendering failed: %v", errors.Join(result.Errors...)))
	}
	// Cancelled means the client went away; there is nobody left to tell
	return nil
}

// parseRenderRequest parses and validates query parameters, applying the
// documented defaults for missing values
func parseRenderRequest(c echo.Context) (*RenderRequest, error) {
	req := &RenderRequest{Scene: c.QueryParam("scene")}
	if req.Scene == "" {
		req.Scene = "cornell"
	}

	var err error
	if req.Width, err = intParam(c, "width", 400, 16, 2000); err != nil {
		return nil, err
	}
	if req.Height, err = intParam(c, "height", 400, 16, 2000); err != nil {
		return nil, err
	}
	if req.SamplesPerPixel, err = intParam(c, "samples", 50, 1, 10000); err != nil {
		return nil, err
	}
	if req.MaxPasses, err = intParam(c, "passes", 7, 1, 100); err != nil {
		return nil, err
	}
	if req.MaxDepth, err = intParam(c, "depth", 50, 1, 200); err != nil {
		return nil, err
	}
	if req.Bloom, err = boolParam(c, "bloom", false); err != nil {
		return nil, err
	}
	return req, nil
}

// intParam reads an integer query parameter with a default and a range check
func intParam(c echo.Context, key string, def, min, max int) (int, error) {
	raw := c.QueryParam(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q", key, raw)
	}
	if v < min || v > max {
		return 0, fmt.Errorf("%s must be between %d and %d, got %d", key, min, max, v)
	}
	return v, nil
}

// boolParam reads a boolean query parameter with a default
func boolParam(c echo.Context, key string, def bool) (bool, error) {
	raw := c.QueryParam(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %q", key, raw)
	}
	return v, nil
}

// snapshotBuffer wraps a linear snapshot for post-processing
func snapshotBuffer(snap renderer.Snapshot) post.PixelBuffer {
	return post.PixelBuffer{Width: snap.Width, Height: snap.Height, Pixels: snap.Pixels}
}

// statsFromRender converts renderer statistics to their wire form
func statsFromRender(stats renderer.RenderStats) Stats {
	return Stats{
		TotalPixels:    stats.TotalPixels,
		TotalSamples:   stats.TotalSamples,
		AverageSamples: stats.AverageSamples,
		MaxSamples:     stats.MaxSamples,
		MinSamples:     stats.MinSamples,
		MaxSamplesUsed: stats.MaxSamplesUsed,
	}
}

// encodePNG converts an image to base64-encoded PNG
func encodePNG(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
