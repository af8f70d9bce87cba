package objects

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"

	serrors "github.com/user/serpent_analyzer_go/internal/errors"
	"github.com/user/serpent_analyzer_go/internal/logging"
)

// axisLabels maps well-known category names to human-readable plot labels.
var axisLabels = map[string]string{
	"days":   "Time [days]",
	"burnup": "Burnup [MWd/kgIHM]",
	"adens":  "Atomic density [#/cc]",
	"mdens":  "Mass density [g/cc]",
}

// AxisLabel returns the plot label for a category, or the raw category
// name when no label is known.
func AxisLabel(unit string) string {
	if label, ok := axisLabels[unit]; ok {
		return label
	}
	return unit
}

// DepletedMaterial stores the time/isotope-indexed data parsed for one
// depleting material. Two-dimensional categories are isotope-major: row
// index follows the metadata isotope order, column index follows the time
// axis. One-dimensional categories (burnup, volume) are stored as a single
// row.
type DepletedMaterial struct {
	Name string

	meta *DepletionMetadata
	data map[string]*mat.Dense

	// Warnings collects non-fatal issues (category overwrites).
	Warnings []string
}

// NewDepletedMaterial creates a material referencing the reader-owned
// metadata.
func NewDepletedMaterial(name string, meta *DepletionMetadata) *DepletedMaterial {
	return &DepletedMaterial{
		Name: name,
		meta: meta,
		data: make(map[string]*mat.Dense),
	}
}

// Metadata returns the shared axis metadata.
func (m *DepletedMaterial) Metadata() *DepletionMetadata { return m.meta }

// CategoryName normalizes a raw file variable (e.g. "ADENS") to the
// canonical category key.
func CategoryName(variable string) string {
	return strings.ToLower(strings.TrimSpace(variable))
}

// AddData parses a raw text block of whitespace-separated floats and
// stores it under the normalized category name. A single data line becomes
// a one-row series; multiple lines become an isotope-major matrix. Storing
// over an existing category is a non-fatal overwrite warning.
func (m *DepletedMaterial) AddData(variable string, rawLines []string) error {
	category := CategoryName(variable)
	logging.Get().Debug("adding material data",
		zap.String("material", m.Name), zap.String("category", category))

	values, err := ParseFloatRows(rawLines, 0)
	if err != nil {
		return serrors.Wrap(err, serrors.TypeMalformedInput,
			"cannot parse data block").WithRecord(m.Name + "/" + category)
	}
	if _, exists := m.data[category]; exists {
		warning := fmt.Sprintf("category %q on material %q will be overwritten", category, m.Name)
		m.Warnings = append(m.Warnings, warning)
		logging.Get().Warn(warning)
	}
	m.data[category] = values
	return nil
}

// Data returns the stored array for a category.
func (m *DepletedMaterial) Data(category string) (*mat.Dense, bool) {
	v, ok := m.data[CategoryName(category)]
	return v, ok
}

// Categories lists the loaded category names, sorted.
func (m *DepletedMaterial) Categories() []string {
	out := make([]string, 0, len(m.data))
	for k := range m.data {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Burnup returns the burnup time series.
func (m *DepletedMaterial) Burnup() (*mat.Dense, error) { return m.require("burnup") }

// Adens returns the atomic density matrix.
func (m *DepletedMaterial) Adens() (*mat.Dense, error) { return m.require("adens") }

// Mdens returns the mass density matrix.
func (m *DepletedMaterial) Mdens() (*mat.Dense, error) { return m.require("mdens") }

func (m *DepletedMaterial) require(category string) (*mat.Dense, error) {
	v, ok := m.data[category]
	if !ok {
		return nil, serrors.Newf(serrors.TypePrecondition,
			"%s for material %q has not been loaded", category, m.Name)
	}
	return v, nil
}

// GetValues slices a stored category along the time axis and, for
// two-dimensional sources, the isotope axis.
//
// xUnits resolves the x axis: the metadata time axis for "days", otherwise
// a stored one-row category of that name. Every requested time point must
// match the axis exactly; a lookup error enumerates all missing points.
// names selects isotope rows by metadata name; nil selects all rows.
// One-row sources ignore names and slice columns only. The returned matrix
// is freshly allocated and never aliases stored data.
func (m *DepletedMaterial) GetValues(xUnits, yUnits string, timePoints []float64, names []string) (*mat.Dense, error) {
	axis, err := m.resolveAxis(xUnits)
	if err != nil {
		return nil, err
	}

	colIndices, err := m.columnIndices(axis, timePoints)
	if err != nil {
		return nil, err
	}

	allY, ok := m.data[CategoryName(yUnits)]
	if !ok {
		return nil, serrors.Newf(serrors.TypeLookup,
			"category %q not found on material %q", yUnits, m.Name)
	}

	rows, cols := allY.Dims()
	for _, c := range colIndices {
		// A tolerated shape mismatch (axis longer than the stored block)
		// must fail the query, not the process.
		if c >= cols {
			return nil, serrors.Newf(serrors.TypeMalformedInput,
				"category %q on material %q has %d columns but the axis resolves index %d",
				yUnits, m.Name, cols, c)
		}
	}
	if rows == 1 {
		// Pure time series: slice columns, ignore isotope selection.
		out := mat.NewDense(1, len(colIndices), nil)
		for i, c := range colIndices {
			out.Set(0, i, allY.At(0, c))
		}
		return out, nil
	}

	rowIndices, err := m.rowIndices(names, rows)
	if err != nil {
		return nil, err
	}

	out := mat.NewDense(len(rowIndices), len(colIndices), nil)
	for i, r := range rowIndices {
		for j, c := range colIndices {
			out.Set(i, j, allY.At(r, c))
		}
	}
	return out, nil
}

// AxisValues returns the x-axis values for a unit, filtered to the
// requested time points (all points when timePoints is nil). The returned
// slice is a copy.
func (m *DepletedMaterial) AxisValues(xUnits string, timePoints []float64) ([]float64, error) {
	axis, err := m.resolveAxis(xUnits)
	if err != nil {
		return nil, err
	}
	indices, err := m.columnIndices(axis, timePoints)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(indices))
	for i, idx := range indices {
		out[i] = axis[idx]
	}
	return out, nil
}

func (m *DepletedMaterial) resolveAxis(xUnits string) ([]float64, error) {
	if CategoryName(xUnits) == "days" {
		if m.meta == nil || len(m.meta.Days) == 0 {
			return nil, serrors.Newf(serrors.TypePrecondition,
				"time axis has not been loaded for material %q", m.Name)
		}
		return m.meta.Days, nil
	}
	stored, ok := m.data[CategoryName(xUnits)]
	if !ok {
		return nil, serrors.Newf(serrors.TypeLookup,
			"x-axis category %q not found on material %q", xUnits, m.Name)
	}
	r, c := stored.Dims()
	if r != 1 {
		return nil, serrors.Newf(serrors.TypePrecondition,
			"x-axis category %q on material %q is not a time series", xUnits, m.Name)
	}
	axis := make([]float64, c)
	mat.Row(axis, 0, stored)
	return axis, nil
}

func (m *DepletedMaterial) columnIndices(axis, timePoints []float64) ([]int, error) {
	if timePoints == nil {
		indices := make([]int, len(axis))
		for i := range axis {
			indices[i] = i
		}
		return indices, nil
	}

	var missing []string
	indices := make([]int, 0, len(timePoints))
	for _, tp := range timePoints {
		found := -1
		for i, x := range axis {
			if x == tp {
				found = i
				break
			}
		}
		if found < 0 {
			missing = append(missing, strconv.FormatFloat(tp, 'g', -1, 64))
			continue
		}
		indices = append(indices, found)
	}
	if len(missing) > 0 {
		return nil, serrors.Newf(serrors.TypeLookup,
			"time points not present for material %q: %s",
			m.Name, strings.Join(missing, ", "))
	}
	return indices, nil
}

func (m *DepletedMaterial) rowIndices(names []string, totalRows int) ([]int, error) {
	if names == nil {
		indices := make([]int, totalRows)
		for i := range indices {
			indices[i] = i
		}
		return indices, nil
	}
	if !m.meta.HasNames() {
		return nil, serrors.Newf(serrors.TypePrecondition,
			"isotope names not stored on material %q", m.Name)
	}

	var missing []string
	indices := make([]int, 0, len(names))
	for _, name := range names {
		found := -1
		for i, known := range m.meta.Names {
			if known == name {
				found = i
				break
			}
		}
		if found < 0 {
			missing = append(missing, name)
			continue
		}
		if found >= totalRows {
			return nil, serrors.Newf(serrors.TypeMalformedInput,
				"material %q stores %d data rows but isotope %q maps to row %d",
				m.Name, totalRows, name, found)
		}
		indices = append(indices, found)
	}
	if len(missing) > 0 {
		return nil, serrors.Newf(serrors.TypeLookup,
			"isotopes not present for material %q: %s",
			m.Name, strings.Join(missing, ", "))
	}
	return indices, nil
}

// PlotNames returns the isotope names plotted by default: everything
// except the bookkeeping entries.
func (m *DepletedMaterial) PlotNames() []string {
	if !m.meta.HasNames() {
		return nil
	}
	out := make([]string, 0, len(m.meta.Names))
	for _, name := range m.meta.Names {
		if name == "lost" || name == "total" {
			continue
		}
		out = append(out, name)
	}
	return out
}
