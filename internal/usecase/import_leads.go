package usecase

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/xavierca1/calldesk/internal/entity"
)

var (
	zipMagic  = []byte("PK\x03\x04")
	ole2Magic = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}
	utf8BOM   = []byte{0xEF, 0xBB, 0xBF}
)

var errLegacyXLS = errors.New("legacy .xls workbooks are not supported, save the sheet as .xlsx or .csv")

type ImportLeadsInput struct {
	Filename string
	Data     []byte
}

// ImportSummary counts what happened to the data rows of one file.
type ImportSummary struct {
	Processed int `json:"processed"`
	Imported  int `json:"imported"`
	Skipped   int `json:"skipped"`
}

type ImportLeadsOutput struct {
	Leads   []entity.Lead `json:"leads"`
	Summary ImportSummary `json:"summary"`
}

// ImportLeadsUseCase turns a spreadsheet into NEW leads. It never persists
// anything: the caller hands the result to the lead engine.
type ImportLeadsUseCase struct {
	Columns ColumnTable
	Metrics MetricsRecorder
}

func NewImportLeadsUseCase(columns ColumnTable, metrics MetricsRecorder) *ImportLeadsUseCase {
	return &ImportLeadsUseCase{
		Columns: columns,
		Metrics: metrics,
	}
}

func (uc *ImportLeadsUseCase) Execute(ctx context.Context, input ImportLeadsInput) (*ImportLeadsOutput, error) {
	leads, summary, err := ParseLeads(input.Data, uc.Columns)
	if uc.Metrics != nil {
		uc.Metrics.RecordImport(summary.Imported, summary.Skipped)
	}
	if err != nil {
		log.Printf("⚠️ [IMPORT] %s: %v", input.Filename, err)
		return nil, &DomainError{
			Code:    CodeNoValidLeads,
			Message: entity.ErrNoValidLeads.Error(),
			Err:     err,
		}
	}

	log.Printf("📥 [IMPORT] %s: %d leads imported, %d rows skipped", input.Filename, summary.Imported, summary.Skipped)
	return &ImportLeadsOutput{Leads: leads, Summary: summary}, nil
}

// ParseLeads reads the first sheet of an .xlsx or .csv file and builds one
// NEW lead per data row, dropping rows without a name or a contact channel.
// The only error it returns wraps entity.ErrNoValidLeads.
func ParseLeads(data []byte, columns ColumnTable) ([]entity.Lead, ImportSummary, error) {
	var summary ImportSummary

	raw, err := readFirstSheet(data)
	if err != nil {
		return nil, summary, fmt.Errorf("%w: %v", entity.ErrNoValidLeads, err)
	}

	rows := toRows(raw)

	leads := make([]entity.Lead, 0, len(rows))
	for _, row := range rows {
		summary.Processed++
		v := columns.Resolve(row)
		lead := entity.NewLead(
			v[FieldName],
			v[FieldIDNumber],
			v[FieldPhone],
			v[FieldEmail],
			v[FieldCompany],
			v[FieldRole],
			v[FieldNotes],
		)
		if !lead.Callable() {
			summary.Skipped++
			continue
		}
		leads = append(leads, lead)
	}
	summary.Imported = len(leads)

	if len(leads) == 0 {
		return nil, summary, entity.ErrNoValidLeads
	}
	return leads, summary, nil
}

func readFirstSheet(data []byte) ([][]string, error) {
	switch {
	case len(data) == 0:
		return nil, errors.New("empty file")
	case bytes.HasPrefix(data, zipMagic):
		return readXLSX(data)
	case bytes.HasPrefix(data, ole2Magic):
		return nil, errLegacyXLS
	default:
		return readCSV(data)
	}
}

func readXLSX(data []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	return rows, nil
}

func readCSV(data []byte) ([][]string, error) {
	r := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(data, utf8BOM)))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	return rows, nil
}

// toRows uses the first non-blank row as the header and turns every later
// non-blank row into its non-empty cells. Columns with a blank header are
// dropped. Repeated headers are kept as they are; Resolve ranks them by value.
func toRows(raw [][]string) [][]Cell {
	start := 0
	for start < len(raw) && isBlankRow(raw[start]) {
		start++
	}
	if start == len(raw) {
		return nil
	}

	headers := make([]string, len(raw[start]))
	for i, cell := range raw[start] {
		headers[i] = strings.TrimSpace(cell)
	}

	var rows [][]Cell
	for _, row := range raw[start+1:] {
		if isBlankRow(row) {
			continue
		}
		var cells []Cell
		for i, h := range headers {
			if h == "" || i >= len(row) {
				continue
			}
			if v := strings.TrimSpace(row[i]); v != "" {
				cells = append(cells, Cell{Header: h, Value: v})
			}
		}
		rows = append(rows, cells)
	}
	return rows
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
