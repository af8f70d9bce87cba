package objects

import (
	"sort"

	"gonum.org/v1/gonum/mat"

	serrors "github.com/user/serpent_analyzer_go/internal/errors"
)

// NumTallyColumns is the fixed column count of a detector tally line:
// value index, nine bin indices, tally value, relative error.
const NumTallyColumns = 12

const (
	// TallyValueColumn is the tally value position in a tally row.
	TallyValueColumn = 10
	// TallyErrorColumn is the relative error position in a tally row.
	TallyErrorColumn = 11
)

// Detector holds the tally data of one detector plus the auxiliary grid
// arrays describing its bin dimensions. The tally array is set exactly
// once; grids attach incrementally as their chunks arrive, in any order.
type Detector struct {
	Name    string
	Tallies *mat.Dense
	Grids   map[string]*mat.Dense
}

// NewDetector creates an empty detector container.
func NewDetector(name string) *Detector {
	return &Detector{
		Name:  name,
		Grids: make(map[string]*mat.Dense),
	}
}

// AddTallyData sets the tally array. Calling it on a detector that already
// has tallies is a precondition error: later chunks for the same base name
// carry grids, never replacement tallies.
func (d *Detector) AddTallyData(data *mat.Dense) error {
	if d.Tallies != nil {
		return serrors.Newf(serrors.TypePrecondition,
			"tally data for detector %q is already set", d.Name)
	}
	d.Tallies = data
	return nil
}

// AddGrid attaches a bin-dimension grid under its one-character label.
func (d *Detector) AddGrid(dimension string, data *mat.Dense) {
	d.Grids[dimension] = data
}

// GridNames lists attached grid dimensions, sorted.
func (d *Detector) GridNames() []string {
	out := make([]string, 0, len(d.Grids))
	for k := range d.Grids {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// BinCount returns the number of tally rows.
func (d *Detector) BinCount() int {
	if d.Tallies == nil {
		return 0
	}
	r, _ := d.Tallies.Dims()
	return r
}

// ValueColumn returns a copy of the tally values, one per bin.
func (d *Detector) ValueColumn() ([]float64, error) {
	return d.column(TallyValueColumn)
}

// ErrorColumn returns a copy of the relative errors, one per bin.
func (d *Detector) ErrorColumn() ([]float64, error) {
	return d.column(TallyErrorColumn)
}

func (d *Detector) column(idx int) ([]float64, error) {
	if d.Tallies == nil {
		return nil, serrors.Newf(serrors.TypePrecondition,
			"tally data for detector %q has not been loaded", d.Name)
	}
	r, c := d.Tallies.Dims()
	if idx >= c {
		return nil, serrors.Newf(serrors.TypePrecondition,
			"detector %q has %d tally columns, need column %d", d.Name, c, idx)
	}
	out := make([]float64, r)
	mat.Col(out, idx, d.Tallies)
	return out, nil
}
