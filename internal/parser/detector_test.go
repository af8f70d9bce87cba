package parser

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	serrors "github.com/user/serpent_analyzer_go/internal/errors"
)

func writeDetFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "case_det0.m")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const detectorFixture = `DETD1 = [
1 1 1 1 1 1 1 1 1 1 1.5E+00 0.010
2 1 1 1 1 1 1 1 1 1 2.5E+00 0.020
];

DETD1E = [
0.0 1.0 0.5
1.0 2.0 1.5
];
`

func TestDetectorReaderTallyThenGrid(t *testing.T) {
	reader := NewDetectorReader(writeDetFile(t, detectorFixture), nil)
	require.NoError(t, reader.Read())

	// One container: the D1E chunk attaches a grid, never a new detector.
	require.Equal(t, []string{"D1"}, reader.DetectorNames())

	d1 := reader.Detectors["D1"]
	values, err := d1.ValueColumn()
	require.NoError(t, err)
	assert.Equal(t, []float64{1.5, 2.5}, values)

	grid, ok := d1.Grids["E"]
	require.True(t, ok)
	r, c := grid.Dims()
	assert.Equal(t, 2, r)
	assert.Equal(t, 3, c)
	assert.Equal(t, 1.5, grid.At(1, 2))
}

func TestDetectorReaderGridLeavesTalliesUntouched(t *testing.T) {
	reader := NewDetectorReader(writeDetFile(t, detectorFixture), nil)
	require.NoError(t, reader.Read())

	tallies := reader.Detectors["D1"].Tallies
	r, c := tallies.Dims()
	assert.Equal(t, 2, r)
	assert.Equal(t, 12, c)
}

func TestDetectorReaderNameFilterSkips(t *testing.T) {
	content := `DETD1 = [
1 1 1 1 1 1 1 1 1 1 1.0 0.01
];

DETD2 = [
1 1 1 1 1 1 1 1 1 1 2.0 0.02
];

DETD3 = [
1 1 1 1 1 1 1 1 1 1 3.0 0.03
];
`
	reader := NewDetectorReader(writeDetFile(t, content), []string{"D1", "D2"})
	require.NoError(t, reader.Read())

	// Three start lines, two containers: loud mismatch, data kept.
	assert.Equal(t, []string{"D1", "D2"}, reader.DetectorNames())
	require.Len(t, reader.Warnings, 1)
	assert.Contains(t, reader.Warnings[0], "3")
	assert.Contains(t, reader.Warnings[0], "2")
}

func TestDetectorReaderDuplicateTallyKeepsFirst(t *testing.T) {
	content := `DETD1 = [
1 1 1 1 1 1 1 1 1 1 1.5 0.01
];

DETD1E = [
0.0 1.0 0.5
];

DETD1 = [
1 1 1 1 1 1 1 1 1 1 9.9 0.09
];
`
	reader := NewDetectorReader(writeDetFile(t, content), nil)
	require.NoError(t, reader.Read())

	d1 := reader.Detectors["D1"]
	values, err := d1.ValueColumn()
	require.NoError(t, err)
	assert.Equal(t, []float64{1.5}, values)

	_, ok := d1.Grids["E"]
	assert.True(t, ok)

	require.NotEmpty(t, reader.Warnings)
	assert.Contains(t, reader.Warnings[0], "more than once")
}

func TestDetectorReaderPostcheckCleanWhenCountsMatch(t *testing.T) {
	content := `DETD1 = [
1 1 1 1 1 1 1 1 1 1 1.0 0.01
];
`
	reader := NewDetectorReader(writeDetFile(t, content), nil)
	require.NoError(t, reader.Read())
	assert.Empty(t, reader.Warnings)
}

func TestDetectorReaderBlankLineTerminator(t *testing.T) {
	content := "DETD1 = [\n1 1 1 1 1 1 1 1 1 1 1.0 0.01\n\nDETD2 = [\n1 1 1 1 1 1 1 1 1 1 2.0 0.02\n];\n"
	reader := NewDetectorReader(writeDetFile(t, content), nil)
	require.NoError(t, reader.Read())
	assert.Equal(t, []string{"D1", "D2"}, reader.DetectorNames())
}

func TestDetectorReaderWrongColumnCount(t *testing.T) {
	content := "DETD1 = [\n1 2 3\n];\n"
	reader := NewDetectorReader(writeDetFile(t, content), nil)
	err := reader.Read()
	require.Error(t, err)
	assert.True(t, serrors.IsType(err, serrors.TypeMalformedInput))
}

func TestDetectorReaderUnterminatedChunk(t *testing.T) {
	content := "DETD1 = [\n1 1 1 1 1 1 1 1 1 1 1.0 0.01"
	reader := NewDetectorReader(writeDetFile(t, content), nil)
	err := reader.Read()
	require.Error(t, err)
	assert.True(t, serrors.IsType(err, serrors.TypeMalformedInput))
}

func TestDetectorReaderMissingFile(t *testing.T) {
	reader := NewDetectorReader(filepath.Join(t.TempDir(), "nope_det0.m"), nil)
	require.Error(t, reader.Read())
}
