package renderer

import (
	"image"
	"testing"
)

func TestNewTileGrid(t *testing.T) {
	// Tile grid generation for a 400x225 image with 64x64 tiles
	width, height, tileSize := 400, 225, 64
	tiles := NewTileGrid(width, height, tileSize, 0)

	expectedTilesX := (width + tileSize - 1) / tileSize   // 7 tiles
	expectedTilesY := (height + tileSize - 1) / tileSize  // 4 tiles
	expectedTotalTiles := expectedTilesX * expectedTilesY // 28 tiles

	if len(tiles) != expectedTotalTiles {
		t.Errorf("Expected %d tiles, got %d", expectedTotalTiles, len(tiles))
	}

	// Tiles must cover the entire image without gaps or overlaps
	covered := make([][]bool, height)
	for y := range covered {
		covered[y] = make([]bool, width)
	}

	for _, tile := range tiles {
		for y := tile.Bounds.Min.Y; y < tile.Bounds.Max.Y; y++ {
			for x := tile.Bounds.Min.X; x < tile.Bounds.Max.X; x++ {
				if x >= width || y >= height {
					t.Errorf("Tile %d extends beyond image bounds at (%d,%d)", tile.ID, x, y)
				}
				if covered[y][x] {
					t.Errorf("Pixel (%d,%d) is covered by multiple tiles", x, y)
				}
				covered[y][x] = true
			}
		}
	}

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if !covered[y][x] {
				t.Errorf("Pixel (%d,%d) is not covered by any tile", x, y)
			}
		}
	}
}

func TestTileDeterministicSampler(t *testing.T) {
	bounds := image.Rect(0, 0, 64, 64)

	// Same ID and seed produce the same sequence
	tile1 := NewTile(42, bounds, 0)
	tile2 := NewTile(42, bounds, 0)

	val1 := tile1.Sampler.Get1D()
	val2 := tile2.Sampler.Get1D()
	if val1 != val2 {
		t.Errorf("Tiles with same ID should produce same random values: %f != %f", val1, val2)
	}

	// Different tile IDs produce different sequences
	tile3 := NewTile(43, bounds, 0)
	if val3 := tile3.Sampler.Get1D(); val1 == val3 {
		t.Error("Tiles with different IDs should produce different random values")
	}

	// Different base seeds produce different sequences
	tile4 := NewTile(42, bounds, 1000)
	if val4 := tile4.Sampler.Get1D(); val1 == val4 {
		t.Error("Tiles with different base seeds should produce different random values")
	}
}
