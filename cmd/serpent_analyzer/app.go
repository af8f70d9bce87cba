package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/user/serpent_analyzer_go/internal/objects"
	"github.com/user/serpent_analyzer_go/internal/parser"
	"github.com/user/serpent_analyzer_go/internal/report"
)

func newDepCommand() *cobra.Command {
	var (
		xUnits     string
		yUnits     string
		timePoints []float64
		isotopes   []string
		plotOut    string
	)
	cmd := &cobra.Command{
		Use:   "dep <file>",
		Short: "Parse a depletion (_dep.m) file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reader := parser.NewDepletionReader(args[0], cfg.Depletion.Materials)
			if err := reader.Read(); err != nil {
				return err
			}

			for _, name := range reader.MaterialNames() {
				material := reader.Materials[name]
				fmt.Printf("material %-16s categories: %s\n",
					name, strings.Join(material.Categories(), ", "))
			}
			printWarnings(reader.Warnings)

			if plotOut == "" {
				return nil
			}
			names := reader.MaterialNames()
			if len(names) == 0 {
				return fmt.Errorf("no materials parsed, nothing to plot")
			}
			var tp []float64
			if cmd.Flags().Changed("time") {
				tp = timePoints
			}
			var iso []string
			if cmd.Flags().Changed("isotope") {
				iso = isotopes
			}
			png, err := report.CreateDepletionPlot(reader.Materials[names[0]],
				xUnits, yUnits, tp, iso, cfg.Plot.Width, cfg.Plot.Height)
			if err != nil {
				return err
			}
			return os.WriteFile(plotOut, png, 0o644)
		},
	}
	cmd.Flags().StringVar(&xUnits, "x", "days", "x-axis unit (days, burnup, or a category)")
	cmd.Flags().StringVar(&yUnits, "y", "adens", "y-axis category")
	cmd.Flags().Float64SliceVar(&timePoints, "time", nil, "time points to select")
	cmd.Flags().StringSliceVar(&isotopes, "isotope", nil, "isotope names to select")
	cmd.Flags().StringVar(&plotOut, "plot", "", "write a PNG plot of the first material")
	return cmd
}

func newDetCommand() *cobra.Command {
	var plotOut string
	cmd := &cobra.Command{
		Use:   "det <file>",
		Short: "Parse a detector (_det.m) file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reader := parser.NewDetectorReader(args[0], cfg.Detector.Names)
			if err := reader.Read(); err != nil {
				return err
			}

			for _, name := range reader.DetectorNames() {
				det := reader.Detectors[name]
				fmt.Printf("detector %-16s bins: %-6d grids: %s\n",
					name, det.BinCount(), strings.Join(det.GridNames(), ", "))
			}
			printWarnings(reader.Warnings)

			if plotOut == "" {
				return nil
			}
			names := reader.DetectorNames()
			if len(names) == 0 {
				return fmt.Errorf("no detectors parsed, nothing to plot")
			}
			png, err := report.CreateSpectrumPlot(reader.Detectors[names[0]],
				cfg.Plot.Width, cfg.Plot.Height)
			if err != nil {
				return err
			}
			return os.WriteFile(plotOut, png, 0o644)
		},
	}
	cmd.Flags().StringVar(&plotOut, "plot", "", "write a PNG spectrum plot of the first detector")
	return cmd
}

func newResCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "res <file>",
		Short: "Parse homogenized results (INF/B1 blocks)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reader := parser.NewResultsReader(args[0])
			if err := reader.Read(); err != nil {
				return err
			}
			for _, family := range []objects.VariableFamily{objects.FamilyInf, objects.FamilyB1} {
				for _, variable := range reader.Universe.Variables(family) {
					value, unc, err := reader.Universe.Get(variable, true)
					if err != nil {
						return err
					}
					fmt.Printf("%-24s %v +/- %v\n", variable, value, unc)
				}
			}
			printWarnings(reader.Universe.Warnings)
			return nil
		},
	}
}

// newReportCommand wires the full parse, plot, and PDF pipeline.
func newReportCommand() *cobra.Command {
	var (
		depPath string
		detPath string
		outPath string
	)
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Generate a PDF summary of parsed output files",
		RunE: func(cmd *cobra.Command, args []string) error {
			if depPath == "" && detPath == "" {
				return fmt.Errorf("need at least one of --dep or --det")
			}

			input := report.SummaryInput{}
			if depPath != "" {
				depReader := parser.NewDepletionReader(depPath, cfg.Depletion.Materials)
				if err := depReader.Read(); err != nil {
					return err
				}
				input.Depletion = depReader
				for _, name := range depReader.MaterialNames() {
					material := depReader.Materials[name]
					if _, ok := material.Data("adens"); !ok {
						continue
					}
					png, err := report.CreateDepletionPlot(material, "days", "adens",
						nil, nil, cfg.Plot.Width, cfg.Plot.Height)
					if err != nil {
						fmt.Fprintf(os.Stderr, "skipping plot for material %s: %v\n", name, err)
						continue
					}
					input.Plots = append(input.Plots, report.NamedPlot{
						Title: fmt.Sprintf("Atomic density, material %s", name), PNG: png})
				}
			}
			if detPath != "" {
				detReader := parser.NewDetectorReader(detPath, cfg.Detector.Names)
				if err := detReader.Read(); err != nil {
					return err
				}
				input.Detector = detReader
				for _, name := range detReader.DetectorNames() {
					png, err := report.CreateSpectrumPlot(detReader.Detectors[name],
						cfg.Plot.Width, cfg.Plot.Height)
					if err != nil {
						fmt.Fprintf(os.Stderr, "skipping plot for detector %s: %v\n", name, err)
						continue
					}
					input.Plots = append(input.Plots, report.NamedPlot{
						Title: fmt.Sprintf("Spectrum, detector %s", name), PNG: png})
				}
			}

			if err := report.BuildSummaryReport(outPath, input); err != nil {
				return err
			}
			fmt.Println("report written to", outPath)
			return nil
		},
	}
	cmd.Flags().StringVar(&depPath, "dep", "", "depletion file")
	cmd.Flags().StringVar(&detPath, "det", "", "detector file")
	cmd.Flags().StringVarP(&outPath, "out", "o", "report.pdf", "output PDF path")
	return cmd
}

func printWarnings(warnings []string) {
	for _, w := range warnings {
		fmt.Fprintln(os.Stderr, "warning:", w)
	}
}
