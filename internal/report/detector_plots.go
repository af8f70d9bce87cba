package report

import (
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	serrors "github.com/user/serpent_analyzer_go/internal/errors"
	"github.com/user/serpent_analyzer_go/internal/objects"
)

// CreateSpectrumPlot renders a detector's tally values against its energy
// grid midpoints (bin index when no E grid is attached) and returns PNG
// bytes.
func CreateSpectrumPlot(det *objects.Detector, width, height float64) ([]byte, error) {
	values, err := det.ValueColumn()
	if err != nil {
		return nil, err
	}

	xVals := spectrumAxis(det, len(values))
	xLabel := "Bin"
	if xVals != nil {
		xLabel = "Energy [MeV]"
	} else {
		xVals = make([]float64, len(values))
		for i := range xVals {
			xVals[i] = float64(i + 1)
		}
	}

	pts := make(plotter.XYs, len(values))
	for i := range pts {
		pts[i].X = xVals[i]
		pts[i].Y = values[i]
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Detector %s", det.Name)
	p.X.Label.Text = xLabel
	p.Y.Label.Text = "Tally"
	p.Add(plotter.NewGrid())

	line, err := plotter.NewLine(pts)
	if err != nil {
		return nil, fmt.Errorf("failed to create spectrum line: %w", err)
	}
	line.Color = color.RGBA{B: 255, A: 255}
	line.LineStyle.Width = vg.Points(1.5)
	p.Add(line)
	p.Legend.Add(det.Name, line)
	p.Legend.Top = true

	return renderPNG(p, width, height)
}

// spectrumAxis returns the energy-grid midpoints when an E grid with one
// row per bin is attached, nil otherwise. Serpent energy grids carry
// lower bound, upper bound, and midpoint per row.
func spectrumAxis(det *objects.Detector, bins int) []float64 {
	grid, ok := det.Grids["E"]
	if !ok {
		return nil
	}
	rows, cols := grid.Dims()
	if rows != bins || cols < 3 {
		return nil
	}
	out := make([]float64, rows)
	for i := range out {
		out[i] = grid.At(i, 2)
	}
	return out
}

// meshGrid adapts a detector's tally value column to plotter.GridXYZ over
// its X and Y bin grids. Values are stored x-fastest.
type meshGrid struct {
	nx, ny int
	values []float64
}

func (g *meshGrid) Dims() (c, r int)   { return g.nx, g.ny }
func (g *meshGrid) Z(c, r int) float64 { return g.values[r*g.nx+c] }
func (g *meshGrid) X(c int) float64    { return float64(c) }
func (g *meshGrid) Y(r int) float64    { return float64(r) }

// CreateMeshHeatmap renders the tally values of a mesh detector (one with
// X and Y bin grids) as a heatmap and returns PNG bytes.
func CreateMeshHeatmap(det *objects.Detector, width, height float64) ([]byte, error) {
	values, err := det.ValueColumn()
	if err != nil {
		return nil, err
	}
	xGrid, okX := det.Grids["X"]
	yGrid, okY := det.Grids["Y"]
	if !okX || !okY {
		return nil, serrors.Newf(serrors.TypePrecondition,
			"detector %q has no X/Y grids, cannot draw a mesh heatmap", det.Name)
	}
	nx, _ := xGrid.Dims()
	ny, _ := yGrid.Dims()
	if nx*ny != len(values) {
		return nil, serrors.Newf(serrors.TypePrecondition,
			"detector %q has %d bins but %dx%d mesh grids", det.Name, len(values), nx, ny)
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Detector %s mesh tally", det.Name)
	p.X.Label.Text = "X bin"
	p.Y.Label.Text = "Y bin"

	hm := plotter.NewHeatMap(&meshGrid{nx: nx, ny: ny, values: values}, palette.Heat(12, 1))
	hm.NaN = color.Gray{Y: 200}
	p.Add(hm)

	return renderPNG(p, width, height)
}
