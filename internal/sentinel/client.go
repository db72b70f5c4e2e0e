package sentinel

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/airbusgeo/godal"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/planar"
	"github.com/rs/zerolog"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/terralab/sentinel-sampler/internal/properties"
)

const collectionS2L2A = "sentinel-2-l2a"

// Client talks to the Copernicus Dataspace APIs: the catalog endpoint for
// scene counts and the process endpoint for median-mosaicked GeoTIFF
// composites, which it samples locally.
type Client struct {
	http       *http.Client
	processURL string
	catalogURL string
	log        zerolog.Logger
}

// NewClient builds an authenticated client from the explicit configuration.
// The OAuth2 token is fetched lazily on the first request.
func NewClient(ctx context.Context, cfg properties.Config, log zerolog.Logger) *Client {
	cc := &clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     cfg.TokenURL,
	}
	return &Client{
		http:       cc.Client(ctx),
		processURL: cfg.ProcessURL,
		catalogURL: cfg.CatalogURL,
		log:        log,
	}
}

func (c *Client) Collection() ImageCollection {
	return &collection{client: c, bands: Bands}
}

type collection struct {
	client *Client

	bounds   orb.Geometry
	start    time.Time
	end      time.Time
	maxCloud float64
	hasCloud bool
	bands    []string
}

func (s *collection) FilterBounds(g orb.Geometry) ImageCollection {
	out := *s
	out.bounds = g
	return &out
}

func (s *collection) FilterDate(start, end time.Time) ImageCollection {
	out := *s
	out.start, out.end = start, end
	return &out
}

func (s *collection) FilterCloudCover(maxPercent float64) ImageCollection {
	out := *s
	out.maxCloud = maxPercent
	out.hasCloud = true
	return &out
}

func (s *collection) Select(bands []string) ImageCollection {
	out := *s
	out.bands = bands
	return &out
}

// Size issues a catalog search limited to one result and reads the matched
// count from the response context.
func (s *collection) Size(ctx context.Context) (int, error) {
	bound := s.bounds.Bound()
	payload := map[string]interface{}{
		"collections": []string{collectionS2L2A},
		"bbox":        []float64{bound.Min[0], bound.Min[1], bound.Max[0], bound.Max[1]},
		"datetime":    fmt.Sprintf("%s/%s", s.start.Format(time.RFC3339), s.end.Format(time.RFC3339)),
		"limit":       1,
	}
	if s.hasCloud {
		payload["filter"] = map[string]interface{}{
			"op": "<=",
			"args": []interface{}{
				map[string]string{"property": "eo:cloud_cover"},
				s.maxCloud,
			},
		}
		payload["filter-lang"] = "cql2-json"
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal catalog request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.client.catalogURL, bytes.NewReader(body))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("catalog request failed: %w", err)
	}
	defer resp.Body.Close()

	responseBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("failed to read catalog response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("catalog search returned %s: %s", resp.Status, strings.TrimSpace(string(responseBody)))
	}

	var parsed struct {
		Context struct {
			Matched int `json:"matched"`
		} `json:"context"`
	}
	if err := json.Unmarshal(responseBody, &parsed); err != nil {
		return 0, fmt.Errorf("invalid catalog response: %w", err)
	}
	return parsed.Context.Matched, nil
}

func (s *collection) Median() Image {
	return &composite{coll: s}
}

type composite struct {
	coll   *collection
	scaled bool
	lo, hi float64
}

func (m *composite) UnitScale(lo, hi float64) Image {
	out := *m
	out.scaled = true
	out.lo, out.hi = lo, hi
	return &out
}

// SampleRegions requests the composite as a GeoTIFF covering the geometry's
// bounding box and reads band values for every pixel whose center falls
// inside the geometry.
func (m *composite) SampleRegions(ctx context.Context, g orb.Geometry, scale float64) ([]Sample, error) {
	tiff, err := m.coll.requestComposite(ctx, g, scale)
	if err != nil {
		return nil, err
	}

	tmp, err := os.CreateTemp("", "s2sampler-*.tif")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(tiff); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("failed to write composite: %w", err)
	}
	tmp.Close()

	ds, err := godal.Open(tmp.Name(), godal.ErrLogger(func(ec godal.ErrorCategory, code int, msg string) error {
		if ec == godal.CE_Warning {
			return nil
		}
		return fmt.Errorf("gdal: %s", msg)
	}))
	if err != nil {
		return nil, fmt.Errorf("failed to open composite %s: %w", tmp.Name(), err)
	}
	defer ds.Close()

	width := ds.Structure().SizeX
	height := ds.Structure().SizeY
	rasterBands := ds.Bands()
	if len(rasterBands) < len(m.coll.bands) {
		return nil, fmt.Errorf("composite has %d bands, expected %d", len(rasterBands), len(m.coll.bands))
	}

	values := make(map[string][][]float64, len(m.coll.bands))
	for i, name := range m.coll.bands {
		band := rasterBands[i]
		data := make([][]float64, height)
		for y := 0; y < height; y++ {
			data[y] = make([]float64, width)
			if err := band.Read(0, y, data[y], width, 1); err != nil {
				return nil, fmt.Errorf("failed to read data for band %s: %w", name, err)
			}
		}
		values[name] = data
	}

	gt, err := ds.GeoTransform()
	if err != nil {
		return nil, fmt.Errorf("failed to get GeoTransform: %w", err)
	}

	var samples []Sample
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			// Pixel center; the composite is requested in CRS84, so the
			// geotransform is already in degrees.
			lon := gt[0] + gt[1]*(float64(x)+0.5) + gt[2]*(float64(y)+0.5)
			lat := gt[3] + gt[4]*(float64(x)+0.5) + gt[5]*(float64(y)+0.5)

			if !covers(g, orb.Point{lon, lat}) {
				continue
			}

			bands := make(map[string]float64, len(m.coll.bands))
			for _, name := range m.coll.bands {
				v := values[name][y][x]
				if m.scaled {
					v = UnitScale(v, m.lo, m.hi)
				}
				bands[name] = v
			}
			samples = append(samples, Sample{Longitude: lon, Latitude: lat, Bands: bands})
		}
	}
	return samples, nil
}

// covers reports whether the pixel center belongs to the sampled geometry. A
// point matches its whole (single-pixel) raster.
func covers(g orb.Geometry, p orb.Point) bool {
	switch g := g.(type) {
	case orb.Point:
		return true
	case orb.Polygon:
		return planar.PolygonContains(g, p)
	case orb.MultiPolygon:
		return planar.MultiPolygonContains(g, p)
	default:
		return false
	}
}

// requestComposite asks the process API for a median composite of the
// filtered scenes, rendered as a float32 GeoTIFF over the geometry's bbox.
func (s *collection) requestComposite(ctx context.Context, g orb.Geometry, scale float64) ([]byte, error) {
	bound := g.Bound()
	if _, ok := g.(orb.Point); ok {
		// Degenerate bbox; pad to roughly half a pixel so the service renders
		// one pixel around the point.
		eps := scale / 111_000.0 / 2
		bound = orb.Bound{
			Min: orb.Point{bound.Min[0] - eps, bound.Min[1] - eps},
			Max: orb.Point{bound.Max[0] + eps, bound.Max[1] + eps},
		}
	}

	widthPixels := calculatePixels(bound.Max[0]-bound.Min[0], scale)
	heightPixels := calculatePixels(bound.Max[1]-bound.Min[1], scale)

	bounds := map[string]interface{}{
		"bbox": []float64{bound.Min[0], bound.Min[1], bound.Max[0], bound.Max[1]},
	}
	if _, ok := g.(orb.Point); !ok {
		geometryJSON, err := json.Marshal(geojson.NewGeometry(g))
		if err != nil {
			return nil, fmt.Errorf("failed to export geometry to GeoJSON: %w", err)
		}
		var geometryMap map[string]interface{}
		if err := json.Unmarshal(geometryJSON, &geometryMap); err != nil {
			return nil, fmt.Errorf("failed to parse GeoJSON: %w", err)
		}
		bounds["geometry"] = geometryMap
	}

	dataFilter := map[string]interface{}{
		"timeRange": map[string]string{
			"from": s.start.Format(time.RFC3339),
			"to":   s.end.Format(time.RFC3339),
		},
	}
	if s.hasCloud {
		dataFilter["maxCloudCoverage"] = s.maxCloud
	}

	requestPayload := map[string]interface{}{
		"input": map[string]interface{}{
			"bounds": bounds,
			"data": []map[string]interface{}{
				{
					"dataFilter": dataFilter,
					"type":       collectionS2L2A,
				},
			},
		},
		"output": map[string]interface{}{
			"width":  widthPixels,
			"height": heightPixels,
			"responses": []map[string]interface{}{
				{
					"identifier": "default",
					"format": map[string]string{
						"type": "image/tiff",
					},
				},
			},
		},
		"evalscript": medianEvalscript(s.bands),
	}

	requestBody, err := json.Marshal(requestPayload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal process request: %w", err)
	}

	s.client.log.Debug().
		Int("width", widthPixels).
		Int("height", heightPixels).
		Str("from", s.start.Format(time.RFC3339)).
		Str("to", s.end.Format(time.RFC3339)).
		Msg("requesting composite")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.client.processURL, bytes.NewReader(requestBody))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "image/tiff")

	resp, err := s.client.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("process request failed: %w", err)
	}
	defer resp.Body.Close()

	responseContent, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read process response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("process request returned %s: %s", resp.Status, strings.TrimSpace(string(responseContent)))
	}
	return responseContent, nil
}

// calculatePixels converts a geographic span in degrees to raster pixels at
// the given resolution, clamped to the service's 1-2500 output range.
func calculatePixels(distance float64, resolution float64) int {
	pixels := int(distance * (111_000.0 / resolution))
	if pixels < 1 {
		return 1
	}
	if pixels > 2500 {
		return 2500
	}
	return pixels
}

// medianEvalscript builds an evalscript computing the per-pixel, per-band
// median over every orbit in the time range, skipping nodata samples.
func medianEvalscript(bands []string) string {
	quoted := make([]string, len(bands))
	for i, b := range bands {
		quoted[i] = fmt.Sprintf("%q", b)
	}
	inputs := strings.Join(quoted, ", ")

	perBand := make([]string, len(bands))
	for i, b := range bands {
		perBand[i] = fmt.Sprintf("median(valid.map(s => s.%s))", b)
	}

	return fmt.Sprintf(`//VERSION=3
function setup() {
  return {
    input: [%s, "dataMask"],
    output: { id: "default", bands: %d, sampleType: "FLOAT32" },
    mosaicking: "ORBIT",
  };
}

function median(values) {
  if (values.length === 0) return 0;
  values.sort((a, b) => a - b);
  const mid = Math.floor(values.length / 2);
  return values.length %% 2 === 0 ? (values[mid - 1] + values[mid]) / 2 : values[mid];
}

function evaluatePixel(samples) {
  const valid = samples.filter(s => s.dataMask === 1);
  return [%s];
}
`, inputs, len(bands), strings.Join(perBand, ", "))
}
