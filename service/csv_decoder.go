package service

import (
	"encoding/csv"
	"strings"
)

// Row is one decoded spreadsheet line keyed by header name
type Row map[string]string

// Get returns the first non-empty value among the given column names
func (r Row) Get(columns ...string) string {
	for _, col := range columns {
		if v := r[col]; v != "" {
			return v
		}
	}
	return ""
}

// DecodeCSV decodes a CSV document using its first line as the header.
// Decoding is line oriented: quoted fields may contain commas but not newlines.
// Fewer than two lines yields an empty result. Lines the reader rejects are skipped.
func DecodeCSV(text string) []Row {
	text = strings.TrimSpace(strings.TrimPrefix(text, "\ufeff"))
	lines := strings.Split(text, "\n")
	if len(lines) < 2 {
		return []Row{}
	}

	headerFields, ok := parseLine(lines[0])
	if !ok {
		return []Row{}
	}
	headers := make([]string, len(headerFields))
	for i, h := range headerFields {
		headers[i] = cleanField(h)
	}

	rows := make([]Row, 0, len(lines)-1)
	for _, line := range lines[1:] {
		line = strings.TrimSuffix(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		fields, ok := parseLine(line)
		if !ok {
			continue
		}
		row := make(Row, len(headers))
		for i, h := range headers {
			if i < len(fields) {
				row[h] = cleanField(fields[i])
			} else {
				row[h] = ""
			}
		}
		rows = append(rows, row)
	}
	return rows
}

func parseLine(line string) ([]string, bool) {
	reader := csv.NewReader(strings.NewReader(strings.TrimSuffix(line, "\r")))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	fields, err := reader.Read()
	if err != nil {
		return nil, false
	}
	return fields, true
}

func cleanField(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, `"`)
	s = strings.TrimSuffix(s, `"`)
	return strings.TrimSpace(s)
}
