package post

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/df07/go-pathtrace/pkg/core"
)

// recordingLogger implements core.Logger by collecting formatted messages
type recordingLogger struct {
	messages []string
}

var _ core.Logger = (*recordingLogger)(nil)

func (l *recordingLogger) Printf(format string, args ...interface{}) {
	l.messages = append(l.messages, fmt.Sprintf(format, args...))
}

// scaleProcessor multiplies every pixel by a constant, or fails on demand
type scaleProcessor struct {
	factor float64
	err    error
}

func (p *scaleProcessor) NeedsAuxBuffers() bool { return false }

func (p *scaleProcessor) Process(buf PixelBuffer) (PixelBuffer, error) {
	if p.err != nil {
		return PixelBuffer{}, p.err
	}
	out := buf
	out.Pixels = make([]core.Vec3, len(buf.Pixels))
	for i, c := range buf.Pixels {
		out.Pixels[i] = c.Multiply(p.factor)
	}
	return out, nil
}

// auxProcessor passes pixels through but declares an aux requirement
type auxProcessor struct{}

func (auxProcessor) NeedsAuxBuffers() bool { return true }

func (auxProcessor) Process(buf PixelBuffer) (PixelBuffer, error) { return buf, nil }

func grayBuffer(width, height int, value float64) PixelBuffer {
	buf := NewPixelBuffer(width, height)
	for i := range buf.Pixels {
		buf.Pixels[i] = core.NewVec3(value, value, value)
	}
	return buf
}

func TestChainAppliesInOrder(t *testing.T) {
	chain := NewChain(&scaleProcessor{factor: 2}, &scaleProcessor{factor: 3})

	out, err := chain.Process(grayBuffer(2, 2, 0.125))
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	want := core.NewVec3(0.75, 0.75, 0.75)
	for i, c := range out.Pixels {
		if c != want {
			t.Errorf("Pixel %d = %v, want %v", i, c, want)
		}
	}
}

func TestChainStopsAtFirstError(t *testing.T) {
	boom := errors.New("boom")
	chain := NewChain(&scaleProcessor{err: boom}, &scaleProcessor{factor: 2})

	_, err := chain.Process(grayBuffer(1, 1, 1))
	if !errors.Is(err, boom) {
		t.Errorf("Expected the first processor's error, got %v", err)
	}
}

func TestChainNeedsAuxBuffers(t *testing.T) {
	if NewChain(&scaleProcessor{factor: 1}).NeedsAuxBuffers() {
		t.Error("Chain without aux consumers should not need aux buffers")
	}
	if !NewChain(&scaleProcessor{factor: 1}, auxProcessor{}).NeedsAuxBuffers() {
		t.Error("Chain with an aux consumer should need aux buffers")
	}
}

func TestApplyWithFallback(t *testing.T) {
	buf := grayBuffer(2, 1, 0.5)

	// A nil processor passes the buffer through untouched
	out := ApplyWithFallback(nil, buf, nil)
	if out.Pixels[0] != buf.Pixels[0] {
		t.Errorf("Nil processor changed the buffer: %v", out.Pixels[0])
	}

	// Success returns the processed buffer
	logger := &recordingLogger{}
	out = ApplyWithFallback(&scaleProcessor{factor: 2}, buf, logger)
	if out.Pixels[0] != core.NewVec3(1, 1, 1) {
		t.Errorf("Expected processed pixel (1,1,1), got %v", out.Pixels[0])
	}
	if len(logger.messages) != 0 {
		t.Errorf("Success should not log, got %v", logger.messages)
	}

	// Failure logs and returns the raw buffer
	out = ApplyWithFallback(&scaleProcessor{err: errors.New("denoiser missing")}, buf, logger)
	if out.Pixels[0] != buf.Pixels[0] {
		t.Errorf("Fallback should keep the raw pixel, got %v", out.Pixels[0])
	}
	if len(logger.messages) != 1 || !strings.Contains(logger.messages[0], "denoiser missing") {
		t.Errorf("Expected one fallback log mentioning the error, got %v", logger.messages)
	}
}

func TestPixelBufferHasAuxBuffers(t *testing.T) {
	buf := NewPixelBuffer(2, 2)
	if buf.HasAuxBuffers() {
		t.Error("Buffer without planes should not report aux buffers")
	}

	buf.Albedo = make([]core.Vec3, 4)
	if buf.HasAuxBuffers() {
		t.Error("Albedo alone is not enough")
	}

	buf.Normal = make([]core.Vec3, 4)
	if !buf.HasAuxBuffers() {
		t.Error("Buffer with both planes should report aux buffers")
	}
}

func TestPixelBufferToRGBA(t *testing.T) {
	buf := NewPixelBuffer(2, 1)
	buf.Pixels[0] = core.NewVec3(1, 0, 0)
	buf.Pixels[1] = core.NewVec3(0.25, 2.0, -1.0)

	img := buf.ToRGBA()
	if got := img.RGBAAt(0, 0); got.R != 255 || got.G != 0 || got.B != 0 || got.A != 255 {
		t.Errorf("Pixel (0,0) = %v, want opaque red", got)
	}
	// 0.25 linear is 127 after gamma 2.0, overbright clamps to 255,
	// negatives clamp to 0
	if got := img.RGBAAt(1, 0); got.R != 127 || got.G != 255 || got.B != 0 {
		t.Errorf("Pixel (1,0) = %v, want (127,255,0)", got)
	}
}
