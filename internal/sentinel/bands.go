package sentinel

import "math"

// Bands are the twelve Sentinel-2 L2A surface-reflectance bands this tool
// samples, in the order they appear in the output.
var Bands = []string{"B01", "B02", "B03", "B04", "B05", "B06", "B07", "B08", "B8A", "B09", "B11", "B12"}

const (
	// ReflectanceMin/Max is the physical range of the L2A product's digital
	// numbers. UnitScale maps it to [0,1].
	ReflectanceMin = 0.0
	ReflectanceMax = 3000.0

	// SampleScale is the sampling resolution in meters per pixel.
	SampleScale = 10.0
)

// UnitScale maps v linearly from [lo,hi] to [0,1]. Values outside the range
// are not clamped.
func UnitScale(v, lo, hi float64) float64 {
	if hi == lo {
		return 0
	}
	return (v - lo) / (hi - lo)
}

// Normalize rescales values to [0,1] by their observed min and max, ignoring
// NaN entries. A constant (or all-NaN) input yields all zeros.
func Normalize(values []float64) []float64 {
	lo, hi := math.NaN(), math.NaN()
	for _, v := range values {
		if math.IsNaN(v) {
			continue
		}
		if math.IsNaN(lo) || v < lo {
			lo = v
		}
		if math.IsNaN(hi) || v > hi {
			hi = v
		}
	}

	out := make([]float64, len(values))
	if math.IsNaN(lo) || hi == lo {
		return out
	}
	for i, v := range values {
		out[i] = (v - lo) / (hi - lo)
	}
	return out
}
