// Package dataload reads the CSV sources that feed the coalition builders.
package dataload

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/iwvelando/swing-o-matic/internal/coalition"
)

// ErrEmptyTable is returned when a source has no header row.
var ErrEmptyTable = errors.New("table has no header row")

// ReadTable parses CSV from r into a coalition.Table. The first row is the
// header. Short rows are padded with empty cells; surplus cells are ignored.
func ReadTable(r io.Reader) (coalition.Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return coalition.Table{}, ErrEmptyTable
	}
	if err != nil {
		return coalition.Table{}, fmt.Errorf("failed to read header: %w", err)
	}

	columns := make([]string, len(header))
	seen := make(map[string]struct{}, len(header))
	for i, name := range header {
		if i == 0 {
			name = strings.TrimPrefix(name, "\ufeff")
		}
		name = strings.TrimSpace(name)
		if _, dup := seen[name]; dup {
			return coalition.Table{}, fmt.Errorf("duplicate column %q", name)
		}
		seen[name] = struct{}{}
		columns[i] = name
	}

	table := coalition.Table{Columns: columns}
	line := 1
	for {
		fields, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return coalition.Table{}, fmt.Errorf("failed to read line %d: %w", line, err)
		}
		if blank(fields) {
			continue
		}

		record := make(map[string]string, len(columns))
		for i, column := range columns {
			if i < len(fields) {
				record[column] = strings.TrimSpace(fields[i])
			} else {
				record[column] = ""
			}
		}
		table.Records = append(table.Records, record)
	}

	return table, nil
}

// ReadTableFile opens path and parses it with ReadTable.
func ReadTableFile(path string) (coalition.Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return coalition.Table{}, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() {
		_ = file.Close()
	}()

	table, err := ReadTable(file)
	if err != nil {
		return coalition.Table{}, fmt.Errorf("%s: %w", path, err)
	}
	return table, nil
}

func blank(fields []string) bool {
	for _, field := range fields {
		if strings.TrimSpace(field) != "" {
			return false
		}
	}
	return true
}
