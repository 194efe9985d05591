package openfoodfacts

import (
	"bufio"
	"fmt"
	"io"
	"os"
)

// maxLineBytes bounds a single JSONL line; dump lines can run to several
// hundred kilobytes of nested ingredient data.
const maxLineBytes = 4 * 1024 * 1024

// Source streams a line-delimited JSON dump. The file is opened read-only
// and never mutated.
type Source struct {
	f       *os.File
	scanner *bufio.Scanner
	line    int64
}

func OpenSource(path string) (*Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("openfoodfacts: open dump: %w", err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("openfoodfacts: stat dump: %w", err)
	}
	if info.IsDir() {
		f.Close()
		return nil, fmt.Errorf("openfoodfacts: %s is a directory", path)
	}

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), maxLineBytes)

	return &Source{f: f, scanner: scanner}, nil
}

// Next returns the next raw line and its 1-based line number. io.EOF marks
// the end of the file.
func (s *Source) Next() ([]byte, int64, error) {
	if !s.scanner.Scan() {
		if err := s.scanner.Err(); err != nil {
			return nil, s.line, fmt.Errorf("openfoodfacts: read dump: %w", err)
		}
		return nil, s.line, io.EOF
	}
	s.line++
	return s.scanner.Bytes(), s.line, nil
}

func (s *Source) Close() error {
	return s.f.Close()
}
