package report

import (
	"bytes"
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/user/serpent_analyzer_go/internal/objects"
)

// plotColors is the series color cycle.
var plotColors = []color.Color{
	color.RGBA{R: 255, A: 255},
	color.RGBA{G: 165, B: 42, A: 255},
	color.RGBA{B: 255, A: 255},
	color.RGBA{R: 255, G: 165, A: 255},
	color.RGBA{R: 128, B: 128, A: 255},
	color.RGBA{G: 128, B: 128, A: 255},
}

// CreateDepletionPlot renders one line per isotope of a material category
// against the chosen x axis and returns the plot as PNG bytes. When names
// is nil the default isotope set is plotted (all names except the
// bookkeeping entries), or every row when no isotope names were loaded.
func CreateDepletionPlot(material *objects.DepletedMaterial, xUnits, yUnits string,
	timePoints []float64, names []string, width, height float64) ([]byte, error) {

	if names == nil {
		names = material.PlotNames()
	}

	xVals, err := material.AxisValues(xUnits, timePoints)
	if err != nil {
		return nil, err
	}
	yVals, err := material.GetValues(xUnits, yUnits, timePoints, names)
	if err != nil {
		return nil, err
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Material %s", material.Name)
	p.X.Label.Text = objects.AxisLabel(objects.CategoryName(xUnits))
	p.Y.Label.Text = objects.AxisLabel(objects.CategoryName(yUnits))
	p.Add(plotter.NewGrid())

	rows, cols := yVals.Dims()
	if cols != len(xVals) {
		return nil, fmt.Errorf("series has %d points but axis has %d", cols, len(xVals))
	}
	for row := 0; row < rows; row++ {
		pts := make(plotter.XYs, cols)
		for i := range pts {
			pts[i].X = xVals[i]
			pts[i].Y = yVals.At(row, i)
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return nil, fmt.Errorf("failed to create series line: %w", err)
		}
		line.Color = plotColors[row%len(plotColors)]
		line.LineStyle.Width = vg.Points(1.5)
		p.Add(line)

		label := fmt.Sprintf("row %d", row+1)
		if row < len(names) {
			label = names[row]
		}
		p.Legend.Add(label, line)
	}
	p.Legend.Top = true
	p.Legend.XOffs = vg.Points(-10)

	return renderPNG(p, width, height)
}

// renderPNG writes a plot into an in-memory PNG.
func renderPNG(p *plot.Plot, width, height float64) ([]byte, error) {
	writer, err := p.WriterTo(vg.Points(width), vg.Points(height), "png")
	if err != nil {
		return nil, fmt.Errorf("failed to create plot writer: %w", err)
	}
	buf := new(bytes.Buffer)
	if _, err := writer.WriteTo(buf); err != nil {
		return nil, fmt.Errorf("failed to write plot: %w", err)
	}
	return buf.Bytes(), nil
}
