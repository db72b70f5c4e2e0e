package dataset

import (
	"context"
	"fmt"
	"time"

	"github.com/paulmach/orb"
	"github.com/rs/zerolog"
	"github.com/schollz/progressbar/v3"

	"github.com/terralab/sentinel-sampler/internal/geodata"
	"github.com/terralab/sentinel-sampler/internal/sentinel"
)

// Result distinguishes a complete run (Err == nil) from a partial one. Rows
// accumulated before a failure are kept so callers can still write them out.
type Result struct {
	Rows []SampleRow
	Err  error
}

// Downloader walks records, tiles and monthly windows and issues one remote
// query per (tile, window) pair, strictly sequentially.
type Downloader struct {
	Catalog  sentinel.Catalog
	MaxCloud float64
	Tiling   geodata.TileOptions
	Log      zerolog.Logger
}

// Monthly samples every record's composite for every month in [start, end).
func (d *Downloader) Monthly(ctx context.Context, records []geodata.Record, start, end time.Time) Result {
	windows := MonthlyWindows(start, end)

	var rows []SampleRow
	bar := progressbar.Default(int64(len(records)), "Sampling records")
	defer bar.Finish()

	for _, rec := range records {
		tiles, ok := geodata.Tiles(rec.Geometry, d.Tiling)
		if !ok {
			d.Log.Warn().
				Int("record", rec.Index).
				Str("type", rec.Geometry.GeoJSONType()).
				Msg("unsupported geometry type, skipping")
			bar.Add(1)
			continue
		}

		for _, tile := range tiles {
			for _, window := range windows {
				samples, found, err := d.queryWindow(ctx, tile, window)
				if err != nil {
					return Result{
						Rows: rows,
						Err:  fmt.Errorf("record %d, month %s: %w", rec.Index, window.Month(), err),
					}
				}
				if !found {
					d.Log.Info().
						Int("record", rec.Index).
						Str("month", window.Month()).
						Msg("no images found")
					continue
				}
				rows = append(rows, toRows(rec, window, samples)...)
			}
		}
		bar.Add(1)
	}
	return Result{Rows: rows}
}

// Snapshot samples each record's composite once over the whole [start, end)
// range, for the single-window point variant.
func (d *Downloader) Snapshot(ctx context.Context, records []geodata.Record, start, end time.Time) Result {
	if !start.Before(end) {
		return Result{}
	}

	var rows []SampleRow
	bar := progressbar.Default(int64(len(records)), "Sampling records")
	defer bar.Finish()

	window := Window{Start: start, End: end.AddDate(0, 0, -1)}
	for _, rec := range records {
		tiles, ok := geodata.Tiles(rec.Geometry, d.Tiling)
		if !ok {
			d.Log.Warn().
				Int("record", rec.Index).
				Str("type", rec.Geometry.GeoJSONType()).
				Msg("unsupported geometry type, skipping")
			bar.Add(1)
			continue
		}

		for _, tile := range tiles {
			samples, found, err := d.queryWindow(ctx, tile, window)
			if err != nil {
				return Result{
					Rows: rows,
					Err:  fmt.Errorf("record %d: %w", rec.Index, err),
				}
			}
			if !found {
				d.Log.Info().Int("record", rec.Index).Msg("no images found")
				continue
			}
			rows = append(rows, toRows(rec, window, samples)...)
		}
		bar.Add(1)
	}
	return Result{Rows: rows}
}

func (d *Downloader) queryWindow(ctx context.Context, tile orb.Geometry, window Window) ([]sentinel.Sample, bool, error) {
	collection := d.Catalog.Collection().
		FilterBounds(tile).
		FilterDate(window.Start, window.End).
		FilterCloudCover(d.MaxCloud).
		Select(sentinel.Bands)

	size, err := collection.Size(ctx)
	if err != nil {
		return nil, false, err
	}
	if size == 0 {
		return nil, false, nil
	}

	samples, err := collection.Median().
		UnitScale(sentinel.ReflectanceMin, sentinel.ReflectanceMax).
		SampleRegions(ctx, tile, sentinel.SampleScale)
	if err != nil {
		return nil, false, err
	}
	return samples, true, nil
}

func toRows(rec geodata.Record, window Window, samples []sentinel.Sample) []SampleRow {
	rows := make([]SampleRow, 0, len(samples))
	for _, sample := range samples {
		row := SampleRow{
			PolygonIdx: rec.Index,
			Month:      window.Month(),
			Longitude:  sample.Longitude,
			Latitude:   sample.Latitude,
		}
		if rec.Label != nil {
			row.Label = *rec.Label
		}
		for name, v := range sample.Bands {
			row.SetBand(name, v)
		}
		rows = append(rows, row)
	}
	return rows
}
