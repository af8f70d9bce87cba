// Package report renders parsed results into plots and a PDF summary.
package report

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	serrors "github.com/user/serpent_analyzer_go/internal/errors"
	"github.com/user/serpent_analyzer_go/internal/objects"
)

// SeriesSummary holds the summary statistics of one numeric series.
type SeriesSummary struct {
	Name   string
	Count  int
	Mean   float64
	StdDev float64
	Min    float64
	Max    float64
}

// Summarize computes summary statistics over the finite entries of a
// series. NaN entries are dropped before aggregation.
func Summarize(name string, values []float64) SeriesSummary {
	valid := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			valid = append(valid, v)
		}
	}

	s := SeriesSummary{
		Name:   name,
		Count:  len(valid),
		Mean:   math.NaN(),
		StdDev: math.NaN(),
		Min:    math.NaN(),
		Max:    math.NaN(),
	}
	if len(valid) == 0 {
		return s
	}
	s.Mean = stat.Mean(valid, nil)
	s.Min = floats.Min(valid)
	s.Max = floats.Max(valid)
	if len(valid) == 1 {
		s.StdDev = 0
	} else {
		s.StdDev = stat.StdDev(valid, nil)
	}
	return s
}

// SummarizeDetector summarizes a detector's tally value column.
func SummarizeDetector(det *objects.Detector) (SeriesSummary, error) {
	values, err := det.ValueColumn()
	if err != nil {
		return SeriesSummary{}, err
	}
	return Summarize(det.Name, values), nil
}

// SummarizeCategory summarizes one stored category of a material across
// all isotopes and time points.
func SummarizeCategory(material *objects.DepletedMaterial, category string) (SeriesSummary, error) {
	data, ok := material.Data(category)
	if !ok {
		return SeriesSummary{}, serrors.Newf(serrors.TypeLookup,
			"category %q not found on material %q", category, material.Name)
	}
	rows, cols := data.Dims()
	values := make([]float64, 0, rows*cols)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			values = append(values, data.At(r, c))
		}
	}
	return Summarize(material.Name+"/"+category, values), nil
}
