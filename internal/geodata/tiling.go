package geodata

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/clip"
	"github.com/paulmach/orb/planar"
)

// TileOptions controls when and how large polygons are split into grid tiles
// before being sent to the remote service. MaxCells trades request count
// against per-request pixel counts.
type TileOptions struct {
	// SplitThreshold is the bbox span in degrees above which a polygon is
	// gridded instead of requested whole.
	SplitThreshold float64
	// MaxCells is the number of grid intervals per axis.
	MaxCells int
}

var DefaultTileOptions = TileOptions{
	SplitThreshold: 0.02,
	MaxCells:       4,
}

// Tiles converts one record's geometry into the tiles requested from the
// remote service. Points map to themselves, polygons are grid-split when
// large, multipolygons contribute one tile per constituent polygon. The
// second return is false for unsupported geometry types.
func Tiles(g orb.Geometry, opts TileOptions) ([]orb.Geometry, bool) {
	if opts.MaxCells <= 0 {
		opts.MaxCells = DefaultTileOptions.MaxCells
	}

	switch g := g.(type) {
	case orb.Point:
		return []orb.Geometry{g}, true
	case orb.Polygon:
		return splitPolygon(g, opts), true
	case orb.MultiPolygon:
		var tiles []orb.Geometry
		for _, p := range g {
			tiles = append(tiles, splitPolygon(p, opts)...)
		}
		return tiles, true
	default:
		return nil, false
	}
}

func splitPolygon(p orb.Polygon, opts TileOptions) []orb.Geometry {
	bound := p.Bound()
	spanX := bound.Max[0] - bound.Min[0]
	spanY := bound.Max[1] - bound.Min[1]
	if spanX <= opts.SplitThreshold && spanY <= opts.SplitThreshold {
		return []orb.Geometry{p}
	}

	stepX := spanX / float64(opts.MaxCells)
	stepY := spanY / float64(opts.MaxCells)

	var tiles []orb.Geometry
	for i := 0; i < opts.MaxCells; i++ {
		for j := 0; j < opts.MaxCells; j++ {
			cell := orb.Bound{
				Min: orb.Point{bound.Min[0] + float64(i)*stepX, bound.Min[1] + float64(j)*stepY},
				Max: orb.Point{bound.Min[0] + float64(i+1)*stepX, bound.Min[1] + float64(j+1)*stepY},
			}
			clipped := clip.Geometry(cell, p.Clone())
			if clipped == nil {
				continue
			}
			switch frag := clipped.(type) {
			case orb.Polygon:
				if planar.Area(frag) > 0 {
					tiles = append(tiles, frag)
				}
			case orb.MultiPolygon:
				// A cell can intersect the polygon in several disconnected
				// fragments; each one becomes its own tile.
				for _, sub := range frag {
					if planar.Area(sub) > 0 {
						tiles = append(tiles, sub)
					}
				}
			}
		}
	}
	return tiles
}
