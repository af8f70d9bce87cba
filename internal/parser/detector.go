package parser

import (
	"fmt"
	"sort"

	"go.uber.org/zap"

	serrors "github.com/user/serpent_analyzer_go/internal/errors"
	"github.com/user/serpent_analyzer_go/internal/logging"
	"github.com/user/serpent_analyzer_go/internal/objects"
	"github.com/user/serpent_analyzer_go/internal/scanner"
)

const detectorKeyword = "DET"

var (
	detectorKeys       = []string{detectorKeyword}
	detectorSeparators = []string{"", "];"}
)

// DetectorReader parses a Serpent detector (_det<n>.m) file. Each record's
// first token is DET plus the detector base name and an optional
// one-character bin-dimension suffix; the defining tally chunk arrives
// before any of its grid chunks.
type DetectorReader struct {
	FilePath string

	Detectors map[string]*objects.Detector

	nameFilter map[string]bool
	loadAll    bool

	// detCount is the precheck count of DET start lines in the file.
	detCount int

	// Warnings collects non-fatal post-parse consistency findings.
	Warnings []string
}

// NewDetectorReader creates a reader. An empty names filter loads every
// detector in the file.
func NewDetectorReader(filePath string, names []string) *DetectorReader {
	filter := make(map[string]bool, len(names))
	for _, n := range names {
		filter[n] = true
	}
	return &DetectorReader{
		FilePath:   filePath,
		Detectors:  make(map[string]*objects.Detector),
		nameFilter: filter,
		loadAll:    len(names) == 0,
	}
}

// Read counts the expected records, scans the file once, and compares the
// two counts. A count mismatch is reported loudly but keeps all parsed
// detectors.
func (r *DetectorReader) Read() error {
	log := logging.Get()
	log.Info("reading detector file", zap.String("path", r.FilePath))

	if err := r.precheck(); err != nil {
		return err
	}

	sc, err := scanner.Open(r.FilePath, detectorKeys, detectorSeparators)
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
	log.Info("detector file read", zap.Int("detectors", len(r.Detectors)))
	return nil
}

// processChunk classifies one chunk. A base name already known (after
// stripping a trailing dimension character) marks a grid chunk; a name
// matching the filter (or all-names mode) marks a defining tally chunk;
// anything else is an unrequested record and is skipped.
func (r *DetectorReader) processChunk(chunk []string) error {
	detString := firstToken(chunk[0])[len(detectorKeyword):]
	if detString == "" {
		return serrors.New(serrors.TypeMalformedInput, "detector record has no name").
			WithFile(r.FilePath)
	}

	base := detString[:len(detString)-1]
	if _, exists := r.Detectors[base]; exists && base != "" {
		return r.addGrid(base, detString[len(detString)-1:], chunk)
	}
	if r.loadAll || r.nameFilter[detString] {
		return r.addTallies(detString, chunk)
	}
	return nil
}

func (r *DetectorReader) addTallies(name string, chunk []string) error {
	if _, exists := r.Detectors[name]; exists {
		// The tally array is set exactly once; a repeat definition must
		// not clobber the container or its attached grids.
		warning := fmt.Sprintf("detector %q is defined more than once, keeping the first record", name)
		r.Warnings = append(r.Warnings, warning)
		logging.Get().Warn(warning, zap.String("path", r.FilePath))
		return nil
	}
	data, err := objects.ParseFloatRows(dataLines(chunk), objects.NumTallyColumns)
	if err != nil {
		se := serrors.Wrap(err, serrors.TypeMalformedInput, "bad tally block")
		return se.WithFile(r.FilePath).WithRecord(name)
	}
	detector := objects.NewDetector(name)
	if err := detector.AddTallyData(data); err != nil {
		return err
	}
	r.Detectors[name] = detector
	logging.Get().Debug("adding detector", zap.String("detector", name))
	return nil
}

// addGrid parses a grid body with its natural column count and attaches
// it under the dimension suffix. The defining tally array stays untouched.
func (r *DetectorReader) addGrid(base, dimension string, chunk []string) error {
	data, err := objects.ParseFloatRows(dataLines(chunk), 0)
	if err != nil {
		se := serrors.Wrap(err, serrors.TypeMalformedInput, "bad grid block")
		return se.WithFile(r.FilePath).WithRecord(base + dimension)
	}
	r.Detectors[base].AddGrid(dimension, data)
	logging.Get().Debug("adding grid to detector",
		zap.String("detector", base), zap.String("dimension", dimension))
	return nil
}

// precheck counts DET start lines with an independent file handle so the
// count pass and the main scan never share state.
func (r *DetectorReader) precheck() error {
	count, err := scanner.CountStarts(r.FilePath, detectorKeys)
	if err != nil {
		return err
	}
	r.detCount = count
	return nil
}

// postcheck compares the precheck count against the containers created.
// A mismatch (format drift, or a name filter excluding records) is a loud
// non-fatal warning; parsed detectors are kept.
func (r *DetectorReader) postcheck() {
	if r.detCount == len(r.Detectors) {
		return
	}
	warning := fmt.Sprintf("expected %d detector records but parsed %d",
		r.detCount, len(r.Detectors))
	r.Warnings = append(r.Warnings, warning)
	logging.Get().Warn(warning, zap.String("path", r.FilePath))
}

// DetectorNames lists parsed detector names, sorted.
func (r *DetectorReader) DetectorNames() []string {
	out := make([]string, 0, len(r.Detectors))
	for k := range r.Detectors {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
