package scanner

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	serrors "github.com/user/serpent_analyzer_go/internal/errors"
)

func writeTempFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scan.m")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func collectChunks(t *testing.T, path string, keys, seps []string) ([][]string, error) {
	t.Helper()
	sc, err := Open(path, keys, seps)
	require.NoError(t, err)
	defer sc.Close()

	var chunks [][]string
	for sc.Scan() {
		chunk := make([]string, len(sc.Chunk()))
		copy(chunk, sc.Chunk())
		chunks = append(chunks, chunk)
	}
	return chunks, sc.Err()
}

func TestScanMultiLineChunks(t *testing.T) {
	content := "ZAI = [\n541350\n621490\n];\n\n\nNAMES = [\n'Xe135   '\n];\n"
	path := writeTempFile(t, content)

	chunks, err := collectChunks(t, path, []string{"ZAI", "NAMES"}, []string{"];"})
	require.NoError(t, err)
	require.Len(t, chunks, 2)

	assert.Equal(t, []string{"ZAI = [", "541350", "621490"}, chunks[0])
	assert.Equal(t, "NAMES = [", chunks[1][0])
	assert.Len(t, chunks[1], 2)
}

func TestScanOneLineChunk(t *testing.T) {
	path := writeTempFile(t, "DAYS = [ 0.0 10.0 20.0 ];\nBU = [ 0.0 0.5 1.0 ];\n")

	chunks, err := collectChunks(t, path, []string{"DAYS", "BU"}, []string{"];"})
	require.NoError(t, err)
	require.Len(t, chunks, 2)
	assert.Equal(t, []string{"DAYS = [ 0.0 10.0 20.0 ];"}, chunks[0])
	assert.Equal(t, []string{"BU = [ 0.0 0.5 1.0 ];"}, chunks[1])
}

func TestScanBlankLineSeparator(t *testing.T) {
	content := "DETD1 = [\n1 2 3\n4 5 6\n\nDETD2 = [\n7 8 9\n];\n"
	path := writeTempFile(t, content)

	chunks, err := collectChunks(t, path, []string{"DET"}, []string{"", "];"})
	require.NoError(t, err)
	require.Len(t, chunks, 2)
	assert.Equal(t, []string{"DETD1 = [", "1 2 3", "4 5 6"}, chunks[0])
	assert.Equal(t, []string{"DETD2 = [", "7 8 9"}, chunks[1])
}

func TestScanIgnoresTextBetweenChunks(t *testing.T) {
	content := "% comment header\nZAI = [\n1\n];\nsome trailing noise\n"
	path := writeTempFile(t, content)

	chunks, err := collectChunks(t, path, []string{"ZAI"}, []string{"];"})
	require.NoError(t, err)
	require.Len(t, chunks, 1)
}

func TestScanUnterminatedChunkFails(t *testing.T) {
	path := writeTempFile(t, "ZAI = [\n541350\n621490\n")

	chunks, err := collectChunks(t, path, []string{"ZAI"}, []string{"];"})
	require.Error(t, err)
	assert.True(t, serrors.IsType(err, serrors.TypeMalformedInput))
	assert.Contains(t, err.Error(), "ZAI")
	assert.Empty(t, chunks)
}

func TestScanAfterErrorStays(t *testing.T) {
	path := writeTempFile(t, "ZAI = [\n1\n")

	sc, err := Open(path, []string{"ZAI"}, []string{"];"})
	require.NoError(t, err)
	defer sc.Close()

	assert.False(t, sc.Scan())
	require.Error(t, sc.Err())
	assert.False(t, sc.Scan())
}

func TestCloseIdempotent(t *testing.T) {
	path := writeTempFile(t, "ZAI = [\n1\n];\n")

	sc, err := Open(path, []string{"ZAI"}, []string{"];"})
	require.NoError(t, err)
	require.NoError(t, sc.Close())
	require.NoError(t, sc.Close())
}

func TestCountStarts(t *testing.T) {
	content := "DETD1 = [\n1 2 3\n];\nDETD2 = [\n4 5 6\n];\nDETD1E = [\n0 1 0.5\n];\n"
	path := writeTempFile(t, content)

	count, err := CountStarts(path, []string{"DET"})
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestCountStartsMissingFile(t *testing.T) {
	_, err := CountStarts(filepath.Join(t.TempDir(), "nope.m"), []string{"DET"})
	require.Error(t, err)
}
