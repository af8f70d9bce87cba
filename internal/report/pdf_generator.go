package report

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/user/serpent_analyzer_go/internal/parser"
)

const (
	inchToMm              = 25.4
	pdfPageWidthLandscape = 11 * inchToMm // Letter landscape
	pdfMargin             = 0.5 * inchToMm
	pdfContentWidth       = pdfPageWidthLandscape - (2 * pdfMargin)
	pdfLineHeight         = 6 // mm
)

// NamedPlot pairs a rendered PNG with its report caption.
type NamedPlot struct {
	Title string
	PNG   []byte
}

// SummaryInput collects everything that goes into one summary report.
// Either reader may be nil.
type SummaryInput struct {
	Depletion *parser.DepletionReader
	Detector  *parser.DetectorReader
	Plots     []NamedPlot
}

// pdfStyler holds reusable styling for report generation.
type pdfStyler struct {
	pdf    *gofpdf.Fpdf
	styles map[string]func()
}

func newPDFStyler(pdf *gofpdf.Fpdf) *pdfStyler {
	s := &pdfStyler{pdf: pdf, styles: make(map[string]func())}
	s.styles["h1"] = func() {
		pdf.SetFont("Arial", "B", 16)
		pdf.SetTextColor(0, 0, 0)
	}
	s.styles["h2"] = func() {
		pdf.SetFont("Arial", "B", 13)
		pdf.SetTextColor(0, 0, 0)
	}
	s.styles["normal"] = func() {
		pdf.SetFont("Arial", "", 10)
		pdf.SetTextColor(0, 0, 0)
	}
	s.styles["warning"] = func() {
		pdf.SetFont("Arial", "I", 9)
		pdf.SetTextColor(200, 0, 0)
	}
	s.styles["tableHeader"] = func() {
		pdf.SetFont("Arial", "B", 9)
		pdf.SetFillColor(200, 200, 200)
		pdf.SetTextColor(0, 0, 0)
	}
	s.styles["tableCell"] = func() {
		pdf.SetFont("Arial", "", 9)
		pdf.SetTextColor(50, 50, 50)
	}
	return s
}

func (s *pdfStyler) apply(name string) {
	if fn, ok := s.styles[name]; ok {
		fn()
		return
	}
	s.styles["normal"]()
}

func (s *pdfStyler) paragraph(text, style string) {
	s.apply(style)
	s.pdf.MultiCell(pdfContentWidth, pdfLineHeight, text, "", "L", false)
	s.pdf.Ln(1)
}

func (s *pdfStyler) statsTable(rows []SeriesSummary) {
	headers := []string{"Series", "Count", "Mean", "Std Dev", "Min", "Max"}
	widths := []float64{pdfContentWidth * 0.35, pdfContentWidth * 0.09,
		pdfContentWidth * 0.14, pdfContentWidth * 0.14,
		pdfContentWidth * 0.14, pdfContentWidth * 0.14}

	s.apply("tableHeader")
	for i, h := range headers {
		s.pdf.CellFormat(widths[i], pdfLineHeight, h, "1", 0, "C", true, 0, "")
	}
	s.pdf.Ln(-1)

	s.apply("tableCell")
	for _, row := range rows {
		cells := []string{
			row.Name,
			fmt.Sprintf("%d", row.Count),
			fmt.Sprintf("%.4E", row.Mean),
			fmt.Sprintf("%.4E", row.StdDev),
			fmt.Sprintf("%.4E", row.Min),
			fmt.Sprintf("%.4E", row.Max),
		}
		for i, cell := range cells {
			align := "C"
			if i == 0 {
				align = "L"
			}
			s.pdf.CellFormat(widths[i], pdfLineHeight, cell, "1", 0, align, false, 0, "")
		}
		s.pdf.Ln(-1)
	}
	s.pdf.Ln(2)
}

// BuildSummaryReport writes a landscape PDF summarizing the parsed files:
// per-material and per-detector statistics, collected warnings, and any
// rendered plots, one per page.
func BuildSummaryReport(outPath string, in SummaryInput) error {
	pdf := gofpdf.New("L", "mm", "Letter", "")
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(true, pdfMargin)
	pdf.AddPage()

	s := newPDFStyler(pdf)
	s.paragraph("Serpent Output Summary", "h1")

	if in.Depletion != nil {
		s.writeDepletionSection(in.Depletion)
	}
	if in.Detector != nil {
		s.writeDetectorSection(in.Detector)
	}
	for _, p := range in.Plots {
		if err := s.embedPlot(p); err != nil {
			return err
		}
	}

	if err := pdf.OutputFileAndClose(outPath); err != nil {
		return fmt.Errorf("failed to write PDF report: %w", err)
	}
	return nil
}

func (s *pdfStyler) writeDepletionSection(dep *parser.DepletionReader) {
	s.paragraph("Depletion: "+dep.FilePath, "h2")
	s.paragraph(fmt.Sprintf("%d materials, %d isotopes, %d time points",
		len(dep.Materials), len(dep.Metadata.Names), len(dep.Metadata.Days)), "normal")

	var rows []SeriesSummary
	for _, matName := range dep.MaterialNames() {
		material := dep.Materials[matName]
		for _, category := range material.Categories() {
			summary, err := SummarizeCategory(material, category)
			if err != nil {
				continue
			}
			rows = append(rows, summary)
		}
	}
	if len(rows) > 0 {
		s.statsTable(rows)
	}
	s.writeWarnings(dep.Warnings)
}

func (s *pdfStyler) writeDetectorSection(det *parser.DetectorReader) {
	s.paragraph("Detectors: "+det.FilePath, "h2")

	var rows []SeriesSummary
	for _, name := range det.DetectorNames() {
		d := det.Detectors[name]
		summary, err := SummarizeDetector(d)
		if err != nil {
			continue
		}
		if grids := d.GridNames(); len(grids) > 0 {
			summary.Name = fmt.Sprintf("%s (grids: %s)", name, strings.Join(grids, ","))
		}
		rows = append(rows, summary)
	}
	if len(rows) > 0 {
		s.statsTable(rows)
	}
	s.writeWarnings(det.Warnings)
}

func (s *pdfStyler) writeWarnings(warnings []string) {
	for _, w := range warnings {
		s.paragraph("Warning: "+w, "warning")
	}
}

func (s *pdfStyler) embedPlot(p NamedPlot) error {
	s.pdf.AddPage()
	s.paragraph(p.Title, "h2")

	opts := gofpdf.ImageOptions{ImageType: "PNG", ReadDpi: true}
	s.pdf.RegisterImageOptionsReader(p.Title, opts, bytes.NewReader(p.PNG))
	s.pdf.ImageOptions(p.Title, pdfMargin, s.pdf.GetY(), pdfContentWidth, 0, false, opts, 0, "")
	if s.pdf.Err() {
		return fmt.Errorf("failed to embed plot %q: %v", p.Title, s.pdf.Error())
	}
	return nil
}
