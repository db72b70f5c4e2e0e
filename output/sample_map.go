package output

import (
	"fmt"

	"github.com/fogleman/gg"

	"github.com/terralab/sentinel-sampler/internal/dataset"
	"github.com/terralab/sentinel-sampler/internal/sentinel"
	"github.com/terralab/sentinel-sampler/internal/utils"
)

const (
	mapSize      = 800
	mapPadding   = 40
	legendHeight = 24
)

type rgb struct{ r, g, b float64 }

// Fixed palette, cycled when there are more labels than entries.
var palette = []rgb{
	{0.13, 0.55, 0.13},
	{0.85, 0.37, 0.01},
	{0.12, 0.47, 0.71},
	{0.58, 0.40, 0.74},
	{0.89, 0.10, 0.11},
	{0.55, 0.34, 0.29},
}

// CreateSampleMap renders every sampled location as a dot colored by label,
// with marker intensity following the sample's mean reflectance, plus a
// label legend. Meant as a quick visual sanity check of a download run.
func CreateSampleMap(rows []dataset.SampleRow, path string) error {
	if len(rows) == 0 {
		return fmt.Errorf("no samples provided")
	}

	minLon, maxLon := rows[0].Longitude, rows[0].Longitude
	minLat, maxLat := rows[0].Latitude, rows[0].Latitude
	for _, row := range rows {
		if row.Longitude < minLon {
			minLon = row.Longitude
		}
		if row.Longitude > maxLon {
			maxLon = row.Longitude
		}
		if row.Latitude < minLat {
			minLat = row.Latitude
		}
		if row.Latitude > maxLat {
			maxLat = row.Latitude
		}
	}
	spanLon := maxLon - minLon
	spanLat := maxLat - minLat
	if spanLon == 0 {
		spanLon = 1e-6
	}
	if spanLat == 0 {
		spanLat = 1e-6
	}

	labelColors := map[string]rgb{}
	for _, row := range rows {
		if _, ok := labelColors[row.Label]; !ok {
			labelColors[row.Label] = palette[len(labelColors)%len(palette)]
		}
	}
	labels := utils.SortedKeys(labelColors)

	// Mean reflectance per row, normalized across the run, drives the marker
	// intensity.
	means := make([]float64, len(rows))
	for i := range rows {
		total := 0.0
		for _, name := range sentinel.Bands {
			total += rows[i].Band(name)
		}
		means[i] = total / float64(len(sentinel.Bands))
	}
	intensity := sentinel.Normalize(means)

	totalHeight := mapSize + legendHeight*len(labels) + mapPadding
	dc := gg.NewContext(mapSize, totalHeight)
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	for i, row := range rows {
		x := mapPadding + (row.Longitude-minLon)/spanLon*float64(mapSize-2*mapPadding)
		// Flip: north up.
		y := mapPadding + (maxLat-row.Latitude)/spanLat*float64(mapSize-2*mapPadding)

		c := labelColors[row.Label]
		shade := 0.35 + 0.65*intensity[i]
		dc.SetRGB(c.r*shade, c.g*shade, c.b*shade)
		dc.DrawCircle(x, y, 3)
		dc.Fill()
	}

	for i, label := range labels {
		y := float64(mapSize + mapPadding/2 + i*legendHeight)

		c := labelColors[label]
		dc.SetRGB(c.r, c.g, c.b)
		dc.DrawRectangle(10, y, 15, 15)
		dc.Fill()

		dc.SetRGB(0, 0, 0)
		dc.DrawRectangle(10, y, 15, 15)
		dc.SetLineWidth(1)
		dc.Stroke()

		name := label
		if name == "" {
			name = "(unlabeled)"
		}
		dc.DrawStringAnchored(name, 32, y+7, 0, 0.5)
	}

	if err := dc.SavePNG(path); err != nil {
		return fmt.Errorf("failed to save sample map: %w", err)
	}
	return nil
}
