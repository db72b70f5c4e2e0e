package geodata

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/paulmach/orb"
	"github.com/rs/zerolog"
)

const twoFeatureGeoJSON = `{
  "type": "FeatureCollection",
  "features": [
    {
      "type": "Feature",
      "geometry": {"type": "Point", "coordinates": [2.35, 48.85]},
      "properties": {"landcover": "forest", "site": "a"}
    },
    {
      "type": "Feature",
      "geometry": {"type": "Polygon", "coordinates": [[[10,45],[10.01,45],[10.01,45.01],[10,45.01],[10,45]]]},
      "properties": {"landcover": "water", "site": "b"}
    }
  ]
}`

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeTemp(t, "input.geojson", twoFeatureGeoJSON)

	records, err := Load(path, "landcover", zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}

	if _, ok := records[0].Geometry.(orb.Point); !ok {
		t.Errorf("record 0 geometry = %T, want orb.Point", records[0].Geometry)
	}
	if records[0].Label == nil || *records[0].Label != "forest" {
		t.Errorf("record 0 label = %v, want forest", records[0].Label)
	}
	if records[1].Attributes["site"] != "b" {
		t.Errorf("record 1 site = %q, want b", records[1].Attributes["site"])
	}
	if records[1].Index != 1 {
		t.Errorf("record 1 index = %d, want 1", records[1].Index)
	}
}

func TestLoad_LogsDeclaredCRS(t *testing.T) {
	path := writeTemp(t, "input.geojson", twoFeatureGeoJSON)

	var buf bytes.Buffer
	if _, err := Load(path, "landcover", zerolog.New(&buf)); err != nil {
		t.Fatal(err)
	}

	// The GeoJSON driver reports WGS84 lon/lat as either authority depending
	// on the GDAL version; what matters is that the logged value comes from
	// the layer, not a constant.
	out := buf.String()
	if !strings.Contains(out, `"crs":"EPSG:4326"`) && !strings.Contains(out, `"crs":"OGC:CRS84"`) {
		t.Errorf("log output %q should name the file's declared spatial reference", out)
	}
}

func TestLoad_MissingLabelColumn(t *testing.T) {
	path := writeTemp(t, "input.geojson", twoFeatureGeoJSON)

	records, err := Load(path, "crop_type", zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}
	for _, rec := range records {
		if rec.Label != nil {
			t.Errorf("record %d: label = %v, want nil in inference mode", rec.Index, *rec.Label)
		}
	}
}

func TestLoad_EmptyFeatures(t *testing.T) {
	path := writeTemp(t, "empty.geojson", `{"type":"FeatureCollection","features":[]}`)

	_, err := Load(path, "landcover", zerolog.Nop())
	if !errors.Is(err, ErrEmptyInput) {
		t.Fatalf("got %v, want ErrEmptyInput", err)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.geojson"), "landcover", zerolog.Nop())
	if err == nil {
		t.Fatal("expected a read error")
	}
	if errors.Is(err, ErrEmptyInput) {
		t.Fatal("a missing file is a read error, not an empty input")
	}
}
