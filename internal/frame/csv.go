package frame

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// missingTokens are cell values read as a missing value.
var missingTokens = map[string]struct{}{
	"": {}, "#N/A": {}, "#N/A N/A": {}, "#NA": {}, "-1.#IND": {}, "-1.#QNAN": {},
	"-NaN": {}, "-nan": {}, "1.#IND": {}, "1.#QNAN": {}, "<NA>": {}, "N/A": {},
	"NA": {}, "NULL": {}, "NaN": {}, "None": {}, "n/a": {}, "nan": {}, "null": {},
}

// IsMissing reports whether a raw CSV field denotes a missing value.
func IsMissing(s string) bool {
	_, ok := missingTokens[s]
	return ok
}

// ReadCSV reads a comma-separated file with a header row.
func ReadCSV(path string) (*Table, error) {
	f, err := os.Open(path) //nolint:gosec // G304: path is supplied by the operator
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	t, err := DecodeCSV(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return t, nil
}

// DecodeCSV decodes CSV with a header row and infers a kind for every column.
// Rows shorter than the header are padded with missing values; longer rows are an error.
// A quote inside an unquoted field is kept as text.
func DecodeCSV(r io.Reader) (*Table, error) {
	reader := csv.NewReader(bufio.NewReader(r))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("no columns to parse from file")
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	names := dedupeNames(header)

	var raw [][]string
	line := 1
	for {
		rec, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", line, err)
		}
		if len(rec) > len(names) {
			return nil, fmt.Errorf("row %d: expected %d fields, saw %d", line, len(names), len(rec))
		}
		raw = append(raw, rec)
	}

	t := &Table{
		Columns: make([]Column, len(names)),
		Rows:    make([][]any, len(raw)),
	}
	for i := range t.Rows {
		t.Rows[i] = make([]any, len(names))
	}
	for c, name := range names {
		kind := inferKind(raw, c)
		t.Columns[c] = Column{Name: name, Kind: kind}
		for i, rec := range raw {
			if c >= len(rec) || IsMissing(rec[c]) {
				continue
			}
			t.Rows[i][c] = convert(rec[c], kind)
		}
	}
	return t, nil
}

// dedupeNames renames repeated header names to name.1, name.2, ...
func dedupeNames(header []string) []string {
	used := make(map[string]bool, len(header))
	counts := make(map[string]int, len(header))
	names := make([]string, len(header))
	for i, h := range header {
		name := h
		for used[name] {
			counts[h]++
			name = h + "." + strconv.Itoa(counts[h])
		}
		used[name] = true
		names[i] = name
	}
	return names
}

// inferKind picks the narrowest kind that every present cell in column c parses as.
func inferKind(raw [][]string, c int) Kind {
	kind := KindInt
	present := false
	for _, rec := range raw {
		if c >= len(rec) || IsMissing(rec[c]) {
			continue
		}
		present = true
		s := rec[c]
		if kind == KindInt {
			if _, err := strconv.ParseInt(s, 10, 64); err == nil {
				continue
			}
			kind = KindFloat
		}
		if _, err := strconv.ParseFloat(s, 64); err != nil {
			return KindText
		}
	}
	if !present {
		return KindText
	}
	return kind
}

func convert(s string, kind Kind) any {
	switch kind {
	case KindInt:
		v, _ := strconv.ParseInt(s, 10, 64)
		return v
	case KindFloat:
		v, _ := strconv.ParseFloat(s, 64)
		return v
	default:
		return s
	}
}
