package post

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/df07/go-pathtrace/pkg/core"
)

// PFM stores scanlines bottom to top. The sign of the scale header selects
// the byte order; we always write little-endian (-1.0).

// writePFM writes a color PFM file
func writePFM(path string, pixels []core.Vec3, width, height int) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	fmt.Fprintf(w, "PF\n%d %d\n-1.0\n", width, height)

	var scratch [12]byte
	for y := height - 1; y >= 0; y-- {
		for x := 0; x < width; x++ {
			p := pixels[y*width+x]
			binary.LittleEndian.PutUint32(scratch[0:4], math.Float32bits(float32(p.X)))
			binary.LittleEndian.PutUint32(scratch[4:8], math.Float32bits(float32(p.Y)))
			binary.LittleEndian.PutUint32(scratch[8:12], math.Float32bits(float32(p.Z)))
			if _, err := w.Write(scratch[:]); err != nil {
				return err
			}
		}
	}
	return w.Flush()
}

// readPFM reads a color PFM file
func readPFM(path string) ([]core.Vec3, int, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, 0, err
	}
	defer f.Close()

	r := bufio.NewReader(f)
	magic, err := readHeaderLine(r)
	if err != nil {
		return nil, 0, 0, err
	}
	if magic != "PF" {
		return nil, 0, 0, fmt.Errorf("pfm: unsupported format %q", magic)
	}

	dims, err := readHeaderLine(r)
	if err != nil {
		return nil, 0, 0, err
	}
	var width, height int
	if _, err := fmt.Sscanf(dims, "%d %d", &width, &height); err != nil {
		return nil, 0, 0, fmt.Errorf("pfm: bad dimensions %q: %w", dims, err)
	}
	if width <= 0 || height <= 0 {
		return nil, 0, 0, fmt.Errorf("pfm: bad dimensions %dx%d", width, height)
	}

	scaleLine, err := readHeaderLine(r)
	if err != nil {
		return nil, 0, 0, err
	}
	var scale float64
	if _, err := fmt.Sscanf(scaleLine, "%g", &scale); err != nil {
		return nil, 0, 0, fmt.Errorf("pfm: bad scale %q: %w", scaleLine, err)
	}
	byteOrder := binary.ByteOrder(binary.LittleEndian)
	if scale > 0 {
		byteOrder = binary.BigEndian
	}

	data := make([]byte, width*height*12)
	if _, err := io.ReadFull(r, data); err != nil {
		return nil, 0, 0, fmt.Errorf("pfm: truncated pixel data: %w", err)
	}

	pixels := make([]core.Vec3, width*height)
	i := 0
	for y := height - 1; y >= 0; y-- {
		for x := 0; x < width; x++ {
			pixels[y*width+x] = core.NewVec3(
				float64(math.Float32frombits(byteOrder.Uint32(data[i:]))),
				float64(math.Float32frombits(byteOrder.Uint32(data[i+4:]))),
				float64(math.Float32frombits(byteOrder.Uint32(data[i+8:]))),
			)
			i += 12
		}
	}
	return pixels, width, height, nil
}

func readHeaderLine(r *bufio.Reader) (string, error) {
	line, err := r.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("pfm: truncated header: %w", err)
	}
	return strings.TrimSpace(line), nil
}
