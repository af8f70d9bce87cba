// Package scanner groups raw output-file lines into logical record chunks.
//
// A chunk starts at a line whose first token begins with one of the known
// keyword prefixes and runs to the next terminator line. Terminators are
// literal trimmed lines (e.g. "];") or, when the empty string is given as a
// separator, a blank line. The terminator is excluded from the chunk; the
// start line is chunk element zero.
package scanner

import (
	"bufio"
	"os"
	"strings"

	serrors "github.com/user/serpent_analyzer_go/internal/errors"
)

// KeywordScanner streams one file, yielding one chunk at a time. It is
// single-pass and not restartable; the underlying handle is held only
// between Open and Close.
type KeywordScanner struct {
	path  string
	file  *os.File
	lines *bufio.Scanner
	keys  []string
	seps  []string
	chunk []string
	err   error
	done  bool
}

// Open opens the file and prepares a scan for the given start keywords and
// terminator separators. Callers must Close the scanner on all exit paths.
func Open(path string, keys, seps []string) (*KeywordScanner, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, serrors.Wrap(err, serrors.TypeMalformedInput, "cannot open output file").WithFile(path)
	}
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	return &KeywordScanner{
		path:  path,
		file:  f,
		lines: sc,
		keys:  keys,
		seps:  seps,
	}, nil
}

// Scan advances to the next chunk. It returns false at end of input or on
// error; Err distinguishes the two.
func (s *KeywordScanner) Scan() bool {
	if s.done || s.err != nil {
		return false
	}
	s.chunk = nil

	inChunk := false
	for s.lines.Scan() {
		line := s.lines.Text()
		trimmed := strings.TrimSpace(line)

		if !inChunk {
			if trimmed == "" || !s.isStart(trimmed) {
				// Blank lines and unrecognized text between records.
				continue
			}
			s.chunk = append(s.chunk, line)
			if s.startCloses(line) {
				return true
			}
			inChunk = true
			continue
		}

		if s.isTerminator(trimmed) {
			return true
		}
		s.chunk = append(s.chunk, line)
	}

	if err := s.lines.Err(); err != nil {
		s.err = serrors.Wrap(err, serrors.TypeMalformedInput, "read failed mid-scan").WithFile(s.path)
		return false
	}
	if inChunk {
		record := ""
		if fields := strings.Fields(s.chunk[0]); len(fields) > 0 {
			record = fields[0]
		}
		s.err = serrors.New(serrors.TypeMalformedInput,
			"chunk has no terminating marker before end of file").
			WithFile(s.path).WithRecord(record)
		return false
	}
	s.done = true
	return false
}

// Chunk returns the lines of the chunk found by the last successful Scan.
func (s *KeywordScanner) Chunk() []string { return s.chunk }

// Err returns the first error encountered during scanning, if any.
func (s *KeywordScanner) Err() error {
	if s.err != nil {
		return s.err
	}
	return nil
}

// Close releases the file handle. Safe to call more than once.
func (s *KeywordScanner) Close() error {
	if s.file == nil {
		return nil
	}
	err := s.file.Close()
	s.file = nil
	return err
}

func (s *KeywordScanner) isStart(trimmed string) bool {
	fields := strings.Fields(trimmed)
	if len(fields) == 0 {
		return false
	}
	for _, key := range s.keys {
		if strings.HasPrefix(fields[0], key) {
			return true
		}
	}
	return false
}

// startCloses reports whether the start line already carries a non-blank
// terminator, i.e. a one-line record such as "DAYS = [ 0 25 50 ];".
func (s *KeywordScanner) startCloses(line string) bool {
	for _, sep := range s.seps {
		if sep != "" && strings.Contains(line, sep) {
			return true
		}
	}
	return false
}

func (s *KeywordScanner) isTerminator(trimmed string) bool {
	for _, sep := range s.seps {
		if sep == "" {
			if trimmed == "" {
				return true
			}
			continue
		}
		if trimmed == sep {
			return true
		}
	}
	return false
}

// CountStarts counts lines whose first token begins with one of the given
// keywords. It uses its own file handle so a precheck pass never conflicts
// with the main scan.
func CountStarts(path string, keys []string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, serrors.Wrap(err, serrors.TypeMalformedInput, "cannot open output file").WithFile(path)
	}
	defer f.Close()

	count := 0
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		for _, key := range keys {
			if strings.HasPrefix(fields[0], key) {
				count++
				break
			}
		}
	}
	if err := sc.Err(); err != nil {
		return count, serrors.Wrap(err, serrors.TypeMalformedInput, "read failed during precheck").WithFile(path)
	}
	return count, nil
}
