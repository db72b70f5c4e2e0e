package geodata

import (
	"errors"
	"fmt"
	"sync"

	"github.com/airbusgeo/godal"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/rs/zerolog"

	"github.com/terralab/sentinel-sampler/internal/utils"
)

// ErrEmptyInput reports a vector file that parsed fine but holds no features.
var ErrEmptyInput = errors.New("vector file has no features")

// Record is one feature of the input file: its geometry in geographic
// coordinates plus the attribute columns. Label is nil when the configured
// label column is absent (inference mode).
type Record struct {
	Index      int
	Geometry   orb.Geometry
	Attributes map[string]string
	Label      *string
}

var registerDrivers sync.Once

// Load reads a vector file through GDAL's OGR drivers, so anything the
// installed GDAL can open (GeoJSON, shapefile, GPKG, ...) is accepted.
func Load(path, labelColumn string, log zerolog.Logger) ([]Record, error) {
	registerDrivers.Do(godal.RegisterInternalDrivers)

	ds, err := godal.Open(path, godal.ErrLogger(func(ec godal.ErrorCategory, code int, msg string) error {
		if ec == godal.CE_Warning {
			return nil
		}
		return fmt.Errorf("gdal: %s", msg)
	}))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	defer ds.Close()

	layers := ds.Layers()
	if len(layers) == 0 {
		return nil, fmt.Errorf("failed to read %s: no vector layer", path)
	}
	layer := layers[0]

	var records []Record
	columns := map[string]struct{}{}
	for {
		feat := layer.NextFeature()
		if feat == nil {
			break
		}

		geomJSON, err := feat.Geometry().GeoJSON()
		if err != nil {
			feat.Close()
			return nil, fmt.Errorf("failed to export geometry %d: %w", len(records), err)
		}
		g, err := geojson.UnmarshalGeometry([]byte(geomJSON))
		if err != nil {
			feat.Close()
			return nil, fmt.Errorf("failed to parse geometry %d: %w", len(records), err)
		}

		rec := Record{
			Index:      len(records),
			Geometry:   g.Geometry(),
			Attributes: map[string]string{},
		}
		for name, field := range feat.Fields() {
			rec.Attributes[name] = field.String()
			columns[name] = struct{}{}
		}
		feat.Close()
		if v, ok := rec.Attributes[labelColumn]; ok {
			rec.Label = &v
		}
		records = append(records, rec)
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrEmptyInput)
	}

	log.Info().
		Int("records", len(records)).
		Strs("columns", utils.SortedKeys(columns)).
		Str("crs", layerCRS(layer)).
		Str("path", path).
		Msg("loaded vector file")
	return records, nil
}

// layerCRS names the layer's spatial reference by its authority, e.g.
// "EPSG:4326" or "OGC:CRS84", or "unknown" when the file declares none.
func layerCRS(layer godal.Layer) string {
	sr := layer.SpatialRef()
	name := sr.AuthorityName("")
	code := sr.AuthorityCode("")
	if name == "" || code == "" {
		return "unknown"
	}
	return name + ":" + code
}
