package coalition

import (
	"fmt"
	"strconv"
	"strings"
)

// Table is a raw tabular source: ordered column names plus one map per record.
// Values are kept as strings until a builder parses the fields it needs.
type Table struct {
	Columns []string
	Records []map[string]string
}

// HasColumn reports whether the table carries the named column.
func (t Table) HasColumn(name string) bool {
	for _, column := range t.Columns {
		if column == name {
			return true
		}
	}
	return false
}

// Missing returns the required columns absent from the table, in the order given.
func (t Table) Missing(required []string) []string {
	var missing []string
	for _, name := range required {
		if !t.HasColumn(name) {
			missing = append(missing, name)
		}
	}
	return missing
}

// Rename returns a copy of the table with columns renamed per renames.
// Columns without an entry keep their name.
func (t Table) Rename(renames map[string]string) Table {
	out := Table{
		Columns: make([]string, len(t.Columns)),
		Records: make([]map[string]string, len(t.Records)),
	}
	for i, column := range t.Columns {
		out.Columns[i] = renamed(column, renames)
	}
	for i, record := range t.Records {
		copied := make(map[string]string, len(record))
		for key, value := range record {
			copied[renamed(key, renames)] = value
		}
		out.Records[i] = copied
	}
	return out
}

func renamed(column string, renames map[string]string) string {
	if to, ok := renames[column]; ok {
		return to
	}
	return column
}

// parseFloat reads a numeric cell. Blank cells are reported as absent.
func parseFloat(record map[string]string, column string) (float64, bool, error) {
	raw := strings.TrimSpace(record[column])
	if raw == "" {
		return 0, false, nil
	}
	raw = strings.ReplaceAll(raw, ",", "")
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false, fmt.Errorf("column %s: invalid number %q: %w", column, record[column], err)
	}
	return value, true, nil
}

// requireFloat reads a numeric cell that must be present.
func requireFloat(record map[string]string, column string) (float64, error) {
	value, ok, err := parseFloat(record, column)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, fmt.Errorf("column %s: missing value", column)
	}
	return value, nil
}
