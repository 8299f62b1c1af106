package ingest

import (
	"context"
	"encoding/csv"
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"autolyze/domain/table"
	"autolyze/ports"
)

// numericThreshold is the share of non-empty cells that must parse as numbers
// for a column to be declared numeric
const numericThreshold = 0.8

// FileReader reads CSV and Excel files into typed tables. It owns all
// format and byte-encoding concerns so the engine never sees them.
type FileReader struct{}

var _ ports.TableReader = (*FileReader)(nil)

// NewFileReader creates a new file reader
func NewFileReader() *FileReader {
	return &FileReader{}
}

// ReadTable reads the file at path into a Table, dispatching on extension
func (r *FileReader) ReadTable(ctx context.Context, path string) (*table.Table, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("input file not found: %s", path)
	}

	var (
		rows [][]string
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		rows, err = r.readCSVRows(path)
	case ".xlsx":
		rows, err = r.readExcelRows(path)
	default:
		return nil, fmt.Errorf("unsupported file type: %s", filepath.Ext(path))
	}
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("input must have at least a header row and one data row")
	}

	t := buildTable(filepath.Base(path), rows)
	log.Printf("[FileReader] %s processed (%d columns, %d rows)", path, t.ColumnCount(), t.RowCount())
	return t, nil
}

// readCSVRows reads a CSV file of unknown byte encoding
func (r *FileReader) readCSVRows(path string) ([][]string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}

	text, encoding, err := decodeToUTF8(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to decode CSV file: %w", err)
	}
	log.Printf("[FileReader] CSV decoded as %s", encoding)

	reader := csv.NewReader(strings.NewReader(text))
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV file: %w", err)
	}
	return rows, nil
}

// readExcelRows reads the first sheet of an Excel workbook
func (r *FileReader) readExcelRows(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("Excel file has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheets[0], err)
	}
	return rows, nil
}

// buildTable types each column by majority numeric parse over the raw cells.
// Header cells come from the first row; short rows pad with missing cells.
func buildTable(source string, rows [][]string) *table.Table {
	headers := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		headers[i] = strings.TrimSpace(h)
	}

	cells := make([][]string, len(headers))
	for col := range headers {
		cells[col] = make([]string, 0, len(rows)-1)
		for _, row := range rows[1:] {
			value := ""
			if col < len(row) {
				value = strings.TrimSpace(row[col])
			}
			cells[col] = append(cells[col], value)
		}
	}

	t := &table.Table{Source: source}
	for col, name := range headers {
		t.Columns = append(t.Columns, buildColumn(name, cells[col]))
	}
	return t
}

// buildColumn infers the column kind and materializes its typed cells
func buildColumn(name string, cells []string) table.Column {
	nonEmpty := 0
	numeric := 0
	for _, cell := range cells {
		if cell == "" {
			continue
		}
		nonEmpty++
		if _, err := strconv.ParseFloat(cell, 64); err == nil {
			numeric++
		}
	}

	if nonEmpty > 0 && float64(numeric)/float64(nonEmpty) >= numericThreshold {
		numbers := make([]float64, len(cells))
		for i, cell := range cells {
			v, err := strconv.ParseFloat(cell, 64)
			if cell == "" || err != nil {
				numbers[i] = math.NaN()
				continue
			}
			numbers[i] = v
		}
		return table.Column{Name: name, Kind: table.KindNumeric, Numbers: numbers}
	}

	labels := make([]string, len(cells))
	copy(labels, cells)
	return table.Column{Name: name, Kind: table.KindCategorical, Labels: labels}
}
