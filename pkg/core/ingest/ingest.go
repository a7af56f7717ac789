// Package ingest reads the raw data-room exports into tables. Every reader
// produces string cells; type coercion is the transformer's job, so a re-read
// of the same file always yields the same table.
package ingest

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/xuri/excelize/v2"

	"practice_sale/pkg/models"
)

// Loader reads raw exports from the filesystem.
type Loader struct {
	log *slog.Logger
}

// NewLoader builds a loader.
func NewLoader(log *slog.Logger) *Loader {
	if log == nil {
		log = slog.Default()
	}
	return &Loader{log: log}
}

// ReadCSV reads one CSV export. The first row is the header; short rows are
// padded with missing cells rather than rejected, since the POS exports
// routinely truncate trailing empty columns.
func (l *Loader) ReadCSV(path string) (*models.RawTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("ingest: open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("ingest: parse %s: %w", path, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("ingest: %s is empty", path)
	}

	table := tableFromStrings(path, rows[0], rows[1:])
	l.log.Info("csv loaded", "file", path, "rows", len(table.Rows), "columns", len(table.Columns))
	return table, nil
}

// ReadXLSX reads one sheet of a spreadsheet export. An empty sheet name
// selects the first sheet.
func (l *Loader) ReadXLSX(path, sheet string) (*models.RawTable, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("ingest: open %s: %w", path, err)
	}
	defer f.Close()

	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("ingest: sheet %q of %s: %w", sheet, path, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("ingest: sheet %q of %s is empty", sheet, path)
	}

	table := tableFromStrings(path, rows[0], rows[1:])
	table.Name = sheet
	l.log.Info("xlsx loaded", "file", path, "sheet", sheet, "rows", len(table.Rows))
	return table, nil
}

// ReadHTMLTables extracts every <table> from an HTML export, in document
// order. The POS system's "print view" reports are the main source of these.
func (l *Loader) ReadHTMLTables(path string) ([]*models.RawTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("ingest: open %s: %w", path, err)
	}
	defer f.Close()

	doc, err := goquery.NewDocumentFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("ingest: parse %s: %w", path, err)
	}

	var tables []*models.RawTable
	doc.Find("table").Each(func(i int, sel *goquery.Selection) {
		var header []string
		var rows [][]string

		sel.Find("tr").Each(func(_ int, tr *goquery.Selection) {
			var cells []string
			tr.Find("th, td").Each(func(_ int, cell *goquery.Selection) {
				cells = append(cells, strings.TrimSpace(cell.Text()))
			})
			if len(cells) == 0 {
				return
			}
			if header == nil {
				header = cells
			} else {
				rows = append(rows, cells)
			}
		})
		if header == nil {
			return
		}
		t := tableFromStrings(fmt.Sprintf("%s#table%d", path, i), header, rows)
		tables = append(tables, t)
	})

	l.log.Info("html loaded", "file", path, "tables", len(tables))
	return tables, nil
}

// tableFromStrings builds a RawTable from a header and string rows. Empty
// strings become missing cells so downstream code has one representation of
// absence.
func tableFromStrings(name string, header []string, raw [][]string) *models.RawTable {
	cols := make([]string, len(header))
	for i, h := range header {
		cols[i] = strings.TrimSpace(h)
	}

	rows := make([]models.Row, 0, len(raw))
	for _, line := range raw {
		row := make(models.Row, len(cols))
		for i, col := range cols {
			if i < len(line) && strings.TrimSpace(line[i]) != "" {
				row[col] = models.Str(line[i])
			} else {
				row[col] = models.Missing()
			}
		}
		rows = append(rows, row)
	}
	return &models.RawTable{Name: name, Columns: cols, Rows: rows}
}
