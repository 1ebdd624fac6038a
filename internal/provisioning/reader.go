// internal/provisioning/reader.go
package provisioning

import (
	"encoding/csv"
	"errors"
	"io"
	"mime"
	"net/url"
	"path"
	"strings"

	"github.com/xuri/excelize/v2"
)

const (
	FormatCSV      = "csv"
	FormatXLSX     = "xlsx"
	FormatPostgres = "postgres"
)

// record is one data row keyed by lowercased header name. line is 1-based and
// counts the header.
type record struct {
	line   int
	fields map[string]string
}

func (r record) blank() bool {
	for _, v := range r.fields {
		if v != "" {
			return false
		}
	}
	return true
}

func readCSV(r io.Reader) ([]record, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var out []record
	line := 1
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return out, err
		}
		out = append(out, record{line: line, fields: toMap(header, row)})
	}
	return out, nil
}

func readXLSXFirstSheet(r io.Reader) ([]record, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("xlsx has no sheets")
	}

	rows, err := f.Rows(sheets[0])
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Error()
	}
	header, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var out []record
	line := 1
	for rows.Next() {
		line++
		cols, err := rows.Columns()
		if err != nil {
			return out, err
		}
		out = append(out, record{line: line, fields: toMap(header, cols)})
	}
	return out, rows.Error()
}

func toMap(header []string, row []string) map[string]string {
	m := make(map[string]string, len(header))
	for i, key := range header {
		val := ""
		if i < len(row) {
			val = row[i]
		}
		m[strings.ToLower(strings.TrimSpace(key))] = strings.TrimSpace(val)
	}
	return m
}

// detectFormat guesses csv or xlsx from the extension, then the content type.
func detectFormat(location, contentType string) string {
	p := location
	if u, err := url.Parse(location); err == nil && u != nil && u.Path != "" {
		p = u.Path
	}
	switch strings.ToLower(strings.TrimPrefix(path.Ext(p), ".")) {
	case FormatXLSX:
		return FormatXLSX
	case FormatCSV:
		return FormatCSV
	}
	med, _, _ := mime.ParseMediaType(contentType)
	switch med {
	case "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet":
		return FormatXLSX
	case "text/csv", "application/csv", "text/plain":
		return FormatCSV
	}
	return ""
}
