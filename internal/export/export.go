package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/rmoreas/library-admin/internal/domain/book"
)

// Column headers are fixed by the UI contract (Portuguese, like the
// catalog wire format).
var header = []string{"ID", "Título", "Autor", "Gênero", "Categoria"}

const sheetName = "Dados"

// FileName builds biblioteca_dados_YYYYMMDD.<ext>.
func FileName(ext string, now time.Time) string {
	return "biblioteca_dados_" + now.Format("20060102") + "." + ext
}

// CSV renders the full book list as UTF-8 CSV.
func CSV(books []book.Book) ([]byte, error) {
	var buf bytes.Buffer

	w := csv.NewWriter(&buf)

	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}

	for _, b := range books {
		row := []string{
			strconv.Itoa(b.ID),
			b.Title,
			b.Author,
			string(b.Genre),
			string(b.Category),
		}

		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}

	w.Flush()

	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}

	return buf.Bytes(), nil
}

// XLSX renders the book list as a spreadsheet with a single "Dados" sheet.
func XLSX(books []book.Book) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)

	if err != nil {
		return nil, fmt.Errorf("create sheet: %w", err)
	}

	f.SetActiveSheet(index)

	// drop the default sheet so "Dados" is the only one
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("delete default sheet: %w", err)
	}

	for col, h := range header {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, err
		}

		if err := f.SetCellValue(sheetName, cell, h); err != nil {
			return nil, fmt.Errorf("write header: %w", err)
		}
	}

	for i, b := range books {
		values := []any{b.ID, b.Title, b.Author, string(b.Genre), string(b.Category)}

		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return nil, err
			}

			if err := f.SetCellValue(sheetName, cell, v); err != nil {
				return nil, fmt.Errorf("write row %d: %w", i+1, err)
			}
		}
	}

	var buf bytes.Buffer

	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("serialize workbook: %w", err)
	}

	return buf.Bytes(), nil
}
