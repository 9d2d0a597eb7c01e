// Package export writes enriched tables to disk as CSV or XLSX.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/calebhart/enrichflow/internal/csvio"
	"github.com/calebhart/enrichflow/internal/model"
)

const sheetName = "Enriched Contacts"

// WriteCSV writes the table as RFC-4180-style CSV.
func WriteCSV(table *model.ParsedTable, path string) error {
	if err := ensureDir(path); err != nil {
		return err
	}
	text := csvio.ToCSV(table.Columns, table.Rows)
	if err := os.WriteFile(path, []byte(text), 0600); err != nil {
		return fmt.Errorf("failed to write CSV: %w", err)
	}
	return nil
}

// WriteXLSX writes the table as a single-sheet workbook, header row first.
func WriteXLSX(table *model.ParsedTable, path string) error {
	if err := ensureDir(path); err != nil {
		return err
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("failed to drop default sheet: %w", err)
	}

	header := make([]any, len(table.Columns))
	for i, col := range table.Columns {
		header[i] = col
	}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header row: %w", err)
	}

	for i, row := range table.Rows {
		cells := make([]any, len(table.Columns))
		for j, col := range table.Columns {
			cells[j] = row[col]
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("failed to address row %d: %w", i+2, err)
		}
		if err := f.SetSheetRow(sheetName, cell, &cells); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// Write picks the format from the path extension: .xlsx gets a workbook,
// everything else CSV.
func Write(table *model.ParsedTable, path string) error {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return WriteXLSX(table, path)
	}
	return WriteCSV(table, path)
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	return nil
}
