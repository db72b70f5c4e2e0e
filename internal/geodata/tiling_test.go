package geodata

import (
	"math"
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

func square(minX, minY, side float64) orb.Polygon {
	return orb.Polygon{
		{
			{minX, minY},
			{minX + side, minY},
			{minX + side, minY + side},
			{minX, minY + side},
			{minX, minY},
		},
	}
}

func TestTiles_Point(t *testing.T) {
	p := orb.Point{2.35, 48.85}
	tiles, ok := Tiles(p, DefaultTileOptions)
	if !ok {
		t.Fatal("point should be supported")
	}
	if len(tiles) != 1 {
		t.Fatalf("got %d tiles, want 1", len(tiles))
	}
	if tiles[0].(orb.Point) != p {
		t.Errorf("tile = %v, want %v", tiles[0], p)
	}
}

func TestTiles_SmallPolygonNotSplit(t *testing.T) {
	p := square(10, 45, 0.01)
	tiles, ok := Tiles(p, DefaultTileOptions)
	if !ok || len(tiles) != 1 {
		t.Fatalf("got ok=%v tiles=%d, want one whole tile", ok, len(tiles))
	}
}

func TestTiles_SquareSplit(t *testing.T) {
	p := square(10, 45, 1)
	tiles, ok := Tiles(p, TileOptions{SplitThreshold: 0.02, MaxCells: 2})
	if !ok {
		t.Fatal("polygon should be supported")
	}
	if len(tiles) != 4 {
		t.Fatalf("got %d tiles, want 4", len(tiles))
	}

	var total float64
	for _, tile := range tiles {
		total += planar.Area(tile)
	}
	want := planar.Area(p)
	if math.Abs(total-want) > 1e-9 {
		t.Errorf("tile area sum = %g, want %g", total, want)
	}
}

func TestTiles_MultiPolygon(t *testing.T) {
	mp := orb.MultiPolygon{square(0, 0, 0.01), square(1, 1, 0.01)}
	tiles, ok := Tiles(mp, DefaultTileOptions)
	if !ok {
		t.Fatal("multipolygon should be supported")
	}
	if len(tiles) != 2 {
		t.Fatalf("got %d tiles, want 2", len(tiles))
	}
}

func TestTiles_UnsupportedType(t *testing.T) {
	ls := orb.LineString{{0, 0}, {1, 1}}
	tiles, ok := Tiles(ls, DefaultTileOptions)
	if ok {
		t.Error("line string should not be supported")
	}
	if len(tiles) != 0 {
		t.Errorf("got %d tiles, want 0", len(tiles))
	}
}

func TestTiles_LShapedPolygonFragments(t *testing.T) {
	// An L shape: splitting its bbox 2x2 leaves one empty quadrant.
	l := orb.Polygon{
		{
			{0, 0}, {1, 0}, {1, 0.5}, {0.5, 0.5}, {0.5, 1}, {0, 1}, {0, 0},
		},
	}
	tiles, ok := Tiles(l, TileOptions{SplitThreshold: 0.02, MaxCells: 2})
	if !ok {
		t.Fatal("polygon should be supported")
	}
	if len(tiles) != 3 {
		t.Fatalf("got %d tiles, want 3 non-empty quadrants", len(tiles))
	}

	var total float64
	for _, tile := range tiles {
		total += planar.Area(tile)
	}
	if want := planar.Area(l); math.Abs(total-want) > 1e-9 {
		t.Errorf("tile area sum = %g, want %g", total, want)
	}
}
