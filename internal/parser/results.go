package parser

import (
	"strconv"
	"strings"

	"go.uber.org/zap"

	serrors "github.com/user/serpent_analyzer_go/internal/errors"
	"github.com/user/serpent_analyzer_go/internal/logging"
	"github.com/user/serpent_analyzer_go/internal/objects"
	"github.com/user/serpent_analyzer_go/internal/scanner"
)

var (
	resultsKeys       = []string{"INF", "B1"}
	resultsSeparators = []string{"];"}
)

// ResultsReader parses homogenized group-constant blocks (INF_* / B1_*)
// into one HomogUniverse. Block bodies alternate expected value and
// relative uncertainty:
//
//	INF_KINF (idx, [1: 2]) = [ 9.91938E-01 0.00145 ];
type ResultsReader struct {
	FilePath string
	Universe *objects.HomogUniverse
}

// NewResultsReader creates a reader for one universe.
func NewResultsReader(filePath string) *ResultsReader {
	return &ResultsReader{
		FilePath: filePath,
		Universe: objects.NewHomogUniverse("0", 0, 0, 0),
	}
}

// Read scans the file once, storing expected values and uncertainties
// through the universe's classification. An unclassifiable variable name
// aborts the read.
func (r *ResultsReader) Read() error {
	log := logging.Get()
	log.Info("reading results file", zap.String("path", r.FilePath))

	sc, err := scanner.Open(r.FilePath, resultsKeys, resultsSeparators)
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

	log.Info("results file read",
		zap.Int("infVariables", len(r.Universe.Variables(objects.FamilyInf))),
		zap.Int("b1Variables", len(r.Universe.Variables(objects.FamilyB1))))
	return nil
}

func (r *ResultsReader) processChunk(chunk []string) error {
	name := firstToken(chunk[0])

	var tokens []string
	if len(chunk) == 1 {
		tokens = strings.Fields(bracketContent(chunk[0]))
	} else {
		for _, line := range chunk[1:] {
			tokens = append(tokens, strings.Fields(line)...)
		}
	}
	if len(tokens) == 0 {
		return serrors.New(serrors.TypeMalformedInput, "results block has no values").
			WithFile(r.FilePath).WithRecord(name)
	}

	values := make([]float64, len(tokens))
	for i, tok := range tokens {
		v, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			return serrors.Newf(serrors.TypeMalformedInput,
				"non-numeric token %q in results block", tok).
				WithFile(r.FilePath).WithRecord(name)
		}
		values[i] = v
	}

	// Even-length blocks alternate value and uncertainty; odd-length
	// blocks carry expected values only.
	if len(values)%2 != 0 {
		if err := r.Universe.Set(name, values, false); err != nil {
			return serrors.Wrap(err, serrors.TypeClassification, "cannot store results block").
				WithFile(r.FilePath).WithRecord(name)
		}
		return nil
	}

	expected := make([]float64, 0, len(values)/2)
	uncertainty := make([]float64, 0, len(values)/2)
	for i := 0; i < len(values); i += 2 {
		expected = append(expected, values[i])
		uncertainty = append(uncertainty, values[i+1])
	}
	if err := r.Universe.Set(name, expected, false); err != nil {
		return serrors.Wrap(err, serrors.TypeClassification, "cannot store results block").
			WithFile(r.FilePath).WithRecord(name)
	}
	if err := r.Universe.Set(name, uncertainty, true); err != nil {
		return serrors.Wrap(err, serrors.TypeClassification, "cannot store results block").
			WithFile(r.FilePath).WithRecord(name)
	}
	return nil
}
