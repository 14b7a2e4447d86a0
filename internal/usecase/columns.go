package usecase

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	FieldName     = "name"
	FieldPhone    = "phone"
	FieldEmail    = "email"
	FieldIDNumber = "id_number"
	FieldCompany  = "company"
	FieldRole     = "role"
	FieldNotes    = "notes"
)

var leadFields = map[string]bool{
	FieldName:     true,
	FieldPhone:    true,
	FieldEmail:    true,
	FieldIDNumber: true,
	FieldCompany:  true,
	FieldRole:     true,
	FieldNotes:    true,
}

//go:embed columns.yaml
var defaultColumnsYAML []byte

// ColumnRule lists the header terms accepted for one lead field.
type ColumnRule struct {
	Field string   `yaml:"field"`
	Terms []string `yaml:"terms"`
}

// ColumnTable is the declarative header-to-field mapping used by the importer.
type ColumnTable struct {
	Fields []ColumnRule `yaml:"fields"`
}

// LoadColumnTable parses a YAML column table and normalizes its terms.
func LoadColumnTable(data []byte) (ColumnTable, error) {
	var t ColumnTable
	if err := yaml.Unmarshal(data, &t); err != nil {
		return ColumnTable{}, fmt.Errorf("columns: parse table: %w", err)
	}
	seen := make(map[string]bool, len(t.Fields))
	for i, rule := range t.Fields {
		if !leadFields[rule.Field] {
			return ColumnTable{}, fmt.Errorf("columns: unknown field %q", rule.Field)
		}
		if seen[rule.Field] {
			return ColumnTable{}, fmt.Errorf("columns: field %q declared twice", rule.Field)
		}
		seen[rule.Field] = true
		if len(rule.Terms) == 0 {
			return ColumnTable{}, fmt.Errorf("columns: field %q has no terms", rule.Field)
		}
		for j, term := range rule.Terms {
			t.Fields[i].Terms[j] = normalizeHeader(term)
		}
	}
	return t, nil
}

// DefaultColumnTable returns the built-in table.
func DefaultColumnTable() ColumnTable {
	t, err := LoadColumnTable(defaultColumnsYAML)
	if err != nil {
		panic(err)
	}
	return t
}

// Cell is one non-empty value of a data row with the header of its column.
type Cell struct {
	Header string
	Value  string
}

// Resolve picks the value of each field from one row. Only non-empty cells
// should be passed, so a blank cell falls through to the next matching
// column. Fields with no matching cell are absent from the result.
//
// Terms are tried in order. Among the cells whose header contains the
// winning term, an exact header match beats a longer header, then the
// shorter header wins, then the lexically smaller header, then the lexically
// smaller value. Column order never changes the outcome.
func (t ColumnTable) Resolve(cells []Cell) map[string]string {
	resolved := make(map[string]string, len(t.Fields))
	for _, rule := range t.Fields {
		for _, term := range rule.Terms {
			if c, ok := bestCell(cells, term); ok {
				resolved[rule.Field] = c.Value
				break
			}
		}
	}
	return resolved
}

func bestCell(cells []Cell, term string) (Cell, bool) {
	var (
		best  Cell
		found bool
	)
	for _, c := range cells {
		if !strings.Contains(normalizeHeader(c.Header), term) {
			continue
		}
		if !found || ranksBefore(c, best, term) {
			best, found = c, true
		}
	}
	return best, found
}

func ranksBefore(a, b Cell, term string) bool {
	ha, hb := normalizeHeader(a.Header), normalizeHeader(b.Header)
	if (ha == term) != (hb == term) {
		return ha == term
	}
	if len(ha) != len(hb) {
		return len(ha) < len(hb)
	}
	if ha != hb {
		return ha < hb
	}
	if a.Header != b.Header {
		return a.Header < b.Header
	}
	return a.Value < b.Value
}

func normalizeHeader(h string) string {
	return strings.ToLower(strings.TrimSpace(h))
}
