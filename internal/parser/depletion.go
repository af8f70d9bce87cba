// Package parser drives the chunk scan over Serpent output files and
// dispatches each chunk to the matching data container.
package parser

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"

	serrors "github.com/user/serpent_analyzer_go/internal/errors"
	"github.com/user/serpent_analyzer_go/internal/logging"
	"github.com/user/serpent_analyzer_go/internal/objects"
	"github.com/user/serpent_analyzer_go/internal/scanner"
)

var (
	depletionKeys       = []string{"ZAI", "NAMES", "DAYS", "BU", "MAT", "TOT"}
	depletionSeparators = []string{"];"}
)

// DepletionReader parses a Serpent depletion (_dep.m) file into materials
// sharing one metadata instance.
type DepletionReader struct {
	FilePath string

	// Metadata holds the shared axes; materials reference it, never copy.
	Metadata  *objects.DepletionMetadata
	Materials map[string]*objects.DepletedMaterial

	materialFilter map[string]bool
	loadAll        bool

	// Warnings collects non-fatal post-parse consistency findings.
	Warnings []string
}

// NewDepletionReader creates a reader. An empty materials filter loads
// every material in the file.
func NewDepletionReader(filePath string, materials []string) *DepletionReader {
	filter := make(map[string]bool, len(materials))
	for _, m := range materials {
		filter[m] = true
	}
	return &DepletionReader{
		FilePath:       filePath,
		Metadata:       &objects.DepletionMetadata{},
		Materials:      make(map[string]*objects.DepletedMaterial),
		materialFilter: filter,
		loadAll:        len(materials) == 0,
	}
}

// Read scans the file once, populating metadata and materials, then runs
// the shape consistency postcheck. Structural errors abort the parse.
func (r *DepletionReader) Read() error {
	log := logging.Get()
	log.Info("reading depletion file", zap.String("path", r.FilePath))

	sc, err := scanner.Open(r.FilePath, depletionKeys, depletionSeparators)
	if err != nil {
		return err
	}
	defer sc.Close()

	for sc.Scan() {
		if err := r.processChunk(sc.Chunk()); err != nil {
			return err
		}
	}
	if err := sc.Err(); err != nil {
		return err
	}

	r.postcheck()
	log.Info("depletion file read",
		zap.Int("materials", len(r.Materials)),
		zap.Int("isotopes", len(r.Metadata.Names)),
		zap.Int("timePoints", len(r.Metadata.Days)))
	return nil
}

func (r *DepletionReader) processChunk(chunk []string) error {
	name := firstToken(chunk[0])
	switch name {
	case "ZAI":
		return r.readZAI(chunk)
	case "NAMES":
		r.readNames(chunk)
		return nil
	case "DAYS":
		axis, err := r.readAxis(chunk)
		if err != nil {
			return err
		}
		r.Metadata.Days = axis
		return nil
	case "BU":
		axis, err := r.readAxis(chunk)
		if err != nil {
			return err
		}
		r.Metadata.Burnup = axis
		return nil
	}
	return r.readMaterialChunk(name, chunk)
}

func (r *DepletionReader) readZAI(chunk []string) error {
	var zai []int
	for _, line := range dataLines(chunk) {
		for _, tok := range strings.Fields(line) {
			v, err := strconv.Atoi(tok)
			if err != nil {
				return serrors.Newf(serrors.TypeMalformedInput,
					"non-integer isotope code %q", tok).
					WithFile(r.FilePath).WithRecord("ZAI")
			}
			zai = append(zai, v)
		}
	}
	r.Metadata.ZAI = zai
	return nil
}

// readNames strips the quote framing from each isotope name row.
func (r *DepletionReader) readNames(chunk []string) {
	var names []string
	for _, line := range dataLines(chunk) {
		trimmed := strings.TrimSpace(line)
		trimmed = strings.Trim(trimmed, "'\"")
		trimmed = strings.TrimSpace(trimmed)
		if trimmed != "" {
			names = append(names, trimmed)
		}
	}
	r.Metadata.Names = names
}

func (r *DepletionReader) readAxis(chunk []string) ([]float64, error) {
	var axis []float64
	for _, line := range dataLines(chunk) {
		for _, tok := range strings.Fields(line) {
			v, err := strconv.ParseFloat(tok, 64)
			if err != nil {
				return nil, serrors.Newf(serrors.TypeMalformedInput,
					"non-numeric axis token %q", tok).
					WithFile(r.FilePath).WithRecord(firstToken(chunk[0]))
			}
			axis = append(axis, v)
		}
	}
	return axis, nil
}

// readMaterialChunk handles MAT_<material>_<VARIABLE> and TOT_<VARIABLE>
// chunks: leading tag, trailing variable, the middle joined back together
// is the material name ("total" for TOT chunks).
func (r *DepletionReader) readMaterialChunk(name string, chunk []string) error {
	parts := strings.Split(name, "_")
	if len(parts) < 2 {
		return serrors.Newf(serrors.TypeMalformedInput,
			"unrecognized depletion record %q", name).WithFile(r.FilePath)
	}
	variable := parts[len(parts)-1]
	matName := strings.Join(parts[1:len(parts)-1], "_")
	if matName == "" {
		matName = "total"
	}

	if !r.loadAll && !r.materialFilter[matName] {
		return nil
	}

	material, ok := r.Materials[matName]
	if !ok {
		material = objects.NewDepletedMaterial(matName, r.Metadata)
		r.Materials[matName] = material
		logging.Get().Debug("adding material", zap.String("material", matName))
	}
	if err := material.AddData(variable, dataLines(chunk)); err != nil {
		se := serrors.Wrap(err, serrors.TypeMalformedInput, "bad material data block")
		return se.WithFile(r.FilePath).WithRecord(name)
	}
	return nil
}

// postcheck verifies that every populated category agrees with the axis
// metadata: two-dimensional categories must have one row per isotope name
// and one column per time point; one-row series must span the time axis.
// Violations are loud but non-fatal and never discard parsed data.
func (r *DepletionReader) postcheck() {
	numNames := len(r.Metadata.Names)
	numDays := len(r.Metadata.Days)
	if numDays == 0 {
		r.warn("no time axis (DAYS) found in file")
	}

	for _, matName := range r.MaterialNames() {
		material := r.Materials[matName]
		for _, category := range material.Categories() {
			data, _ := material.Data(category)
			rows, cols := data.Dims()
			if numDays > 0 && cols != numDays {
				r.warn(fmt.Sprintf("material %q category %q has %d columns, expected %d time points",
					matName, category, cols, numDays))
			}
			if rows > 1 && numNames > 0 && rows != numNames {
				r.warn(fmt.Sprintf("material %q category %q has %d rows, expected %d isotopes",
					matName, category, rows, numNames))
			}
		}
	}
}

func (r *DepletionReader) warn(msg string) {
	r.Warnings = append(r.Warnings, msg)
	logging.Get().Warn(msg, zap.String("path", r.FilePath))
}

// MaterialNames lists parsed material names, sorted.
func (r *DepletionReader) MaterialNames() []string {
	out := make([]string, 0, len(r.Materials))
	for k := range r.Materials {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
