package dataset

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/gocarina/gocsv"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/rs/zerolog"

	"github.com/terralab/sentinel-sampler/internal/sentinel"
)

// WriteCSV serializes all sampled rows, in the order they were produced, into
// one CSV. With zero rows no file is written and a warning is logged instead.
func WriteCSV(path string, rows []SampleRow, log zerolog.Logger) error {
	if len(rows) == 0 {
		log.Warn().Msg("no data sampled, CSV not created")
		return nil
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer file.Close()

	if err := gocsv.MarshalFile(&rows, file); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	log.Info().Int("rows", len(rows)).Str("path", path).Msg("export finished")
	return nil
}

// WriteGeoJSON serializes sampled rows as a FeatureCollection of points
// carrying the band values as properties, for the single-window variant.
func WriteGeoJSON(path string, rows []SampleRow, log zerolog.Logger) error {
	if len(rows) == 0 {
		log.Warn().Msg("no data sampled, GeoJSON not created")
		return nil
	}

	fc := geojson.NewFeatureCollection()
	for i := range rows {
		row := &rows[i]
		feature := geojson.NewFeature(orb.Point{row.Longitude, row.Latitude})
		feature.Properties["polygon_idx"] = row.PolygonIdx
		if row.Label != "" {
			feature.Properties["label"] = row.Label
		}
		for _, name := range sentinel.Bands {
			feature.Properties[name] = row.Band(name)
		}
		fc.Append(feature)
	}

	data, err := json.MarshalIndent(fc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode GeoJSON: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	log.Info().Int("features", len(rows)).Str("path", path).Msg("export finished")
	return nil
}
