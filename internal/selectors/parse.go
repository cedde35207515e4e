package selectors

import (
	"bufio"
	"errors"
	"io"
	"strings"
)

const (
	commentMarker = "#"
	fieldSep      = ","
	maxFields     = 4
	maxLineBytes  = 1 << 20
)

var (
	errEmptyKey      = errors.New("empty key")
	errEmptySelector = errors.New("empty selector")
)

// Parse reads a selector table. Blank lines and lines whose first
// non-whitespace character is '#' are skipped. Data lines split on ',' into
// at most four fields (key, selector, type, comment), each trimmed; the
// comment keeps any further commas. A row without a key or selector is a
// *ResourceError carrying its line number.
func Parse(r io.Reader) ([]Record, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 4096), maxLineBytes)

	var records []Record
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, commentMarker) {
			continue
		}

		rec, err := parseLine(line)
		if err != nil {
			return nil, &ResourceError{Line: lineNo, Err: err}
		}
		rec.Line = lineNo
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, &ResourceError{Err: err}
	}
	return records, nil
}

func parseLine(line string) (Record, error) {
	fields := strings.SplitN(line, fieldSep, maxFields)
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}

	var rec Record
	rec.Key = fields[0]
	if len(fields) > 1 {
		rec.Selector = fields[1]
	}
	if len(fields) > 2 {
		rec.Type = fields[2]
	}
	if len(fields) > 3 {
		rec.Comment = fields[3]
	}

	if rec.Key == "" {
		return Record{}, errEmptyKey
	}
	if rec.Selector == "" {
		return Record{}, errEmptySelector
	}
	return rec, nil
}
