package corpus

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// LoadCSV reads a word,weight table with a header row.
func LoadCSV(path string) (*Corpus, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	defer f.Close()

	return ReadCSV(path, f)
}

// ReadCSV parses a word,weight table from r. name is only used in errors.
func ReadCSV(name string, r io.Reader) (*Corpus, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // column count is checked per row to report it precisely
	reader.ReuseRecord = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &LoadError{Path: name, Err: errors.New("file is empty")}
		}
		return nil, &LoadError{Path: name, Line: 1, Err: err}
	}
	start, _ := reader.FieldPos(0)
	lastLine := start + newlines(header)

	b := NewBuilder()
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &LoadError{Path: name, Err: err}
		}
		line, _ := reader.FieldPos(0)
		// encoding/csv drops empty lines; a gap between rows is an empty row.
		if line > lastLine+1 {
			return nil, &LoadError{Path: name, Line: lastLine + 1, Err: errors.New("empty row")}
		}
		lastLine = line + newlines(record)
		if len(record) != 2 {
			return nil, &LoadError{Path: name, Line: line, Err: fmt.Errorf("expected 2 columns, got %d", len(record))}
		}
		weight, err := strconv.ParseFloat(strings.TrimSpace(record[1]), 64)
		if err != nil {
			return nil, &LoadError{Path: name, Line: line, Err: fmt.Errorf("invalid weight %q", record[1])}
		}
		if err := b.Add(record[0], weight); err != nil {
			return nil, &LoadError{Path: name, Line: line, Err: err}
		}
	}

	c, err := b.Build()
	if err != nil {
		return nil, &LoadError{Path: name, Err: err}
	}
	return c, nil
}

// newlines counts the line breaks inside quoted fields of record.
func newlines(record []string) int {
	n := 0
	for _, field := range record {
		n += strings.Count(field, "\n")
	}
	return n
}

// WriteCSV writes c as a word,count table, heaviest words first.
func WriteCSV(w io.Writer, c *Corpus) error {
	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"word", "count"}); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, e := range c.Top(c.Len()) {
		if err := writer.Write([]string{e.Word, strconv.FormatFloat(e.Weight, 'f', -1, 64)}); err != nil {
			return fmt.Errorf("failed to write %q: %w", e.Word, err)
		}
	}
	writer.Flush()
	return writer.Error()
}
