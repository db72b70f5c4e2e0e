package sentinel

import (
	"context"
	"time"

	"github.com/paulmach/orb"
)

// Sample is one sampled pixel of a composite: the pixel-center coordinates and
// a value per selected band.
type Sample struct {
	Longitude float64
	Latitude  float64
	Bands     map[string]float64
}

// ImageCollection mirrors the catalog's query surface. Filters accumulate on a
// copy, so a partially-built collection can be reused.
type ImageCollection interface {
	FilterBounds(g orb.Geometry) ImageCollection
	FilterDate(start, end time.Time) ImageCollection
	FilterCloudCover(maxPercent float64) ImageCollection
	Select(bands []string) ImageCollection

	// Size reports how many catalog scenes match the accumulated filters.
	Size(ctx context.Context) (int, error)

	// Median reduces the matching scenes to a per-pixel median composite.
	Median() Image
}

// Image is a composite ready to be rescaled and sampled.
type Image interface {
	// UnitScale declares a linear rescale of every band from [lo,hi] to [0,1],
	// applied when the image is sampled.
	UnitScale(lo, hi float64) Image

	// SampleRegions samples the composite at every pixel of g at the given
	// resolution (meters per pixel). A point yields one sample, a polygon one
	// per covered pixel.
	SampleRegions(ctx context.Context, g orb.Geometry, scale float64) ([]Sample, error)
}

// Catalog hands out fresh, unfiltered collections. The orchestration code only
// sees this interface, so tests run against an in-memory catalog.
type Catalog interface {
	Collection() ImageCollection
}
