package dataset

// SampleRow is one output record: a sampled pixel of one record's composite
// for one month. The label column stays empty in inference mode.
type SampleRow struct {
	PolygonIdx int     `csv:"polygon_idx"`
	Month      string  `csv:"month"`
	Label      string  `csv:"label"`
	Longitude  float64 `csv:"-"`
	Latitude   float64 `csv:"-"`

	B01 float64 `csv:"B01"`
	B02 float64 `csv:"B02"`
	B03 float64 `csv:"B03"`
	B04 float64 `csv:"B04"`
	B05 float64 `csv:"B05"`
	B06 float64 `csv:"B06"`
	B07 float64 `csv:"B07"`
	B08 float64 `csv:"B08"`
	B8A float64 `csv:"B8A"`
	B09 float64 `csv:"B09"`
	B11 float64 `csv:"B11"`
	B12 float64 `csv:"B12"`
}

// SetBand assigns a band value by its catalog name. Unknown names are
// ignored.
func (r *SampleRow) SetBand(name string, v float64) {
	switch name {
	case "B01":
		r.B01 = v
	case "B02":
		r.B02 = v
	case "B03":
		r.B03 = v
	case "B04":
		r.B04 = v
	case "B05":
		r.B05 = v
	case "B06":
		r.B06 = v
	case "B07":
		r.B07 = v
	case "B08":
		r.B08 = v
	case "B8A":
		r.B8A = v
	case "B09":
		r.B09 = v
	case "B11":
		r.B11 = v
	case "B12":
		r.B12 = v
	}
}

// Band reads a band value back by its catalog name.
func (r *SampleRow) Band(name string) float64 {
	switch name {
	case "B01":
		return r.B01
	case "B02":
		return r.B02
	case "B03":
		return r.B03
	case "B04":
		return r.B04
	case "B05":
		return r.B05
	case "B06":
		return r.B06
	case "B07":
		return r.B07
	case "B08":
		return r.B08
	case "B8A":
		return r.B8A
	case "B09":
		return r.B09
	case "B11":
		return r.B11
	case "B12":
		return r.B12
	}
	return 0
}
