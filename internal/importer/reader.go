package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ReadCSV decodes an uploaded CSV file into raw rows. The first record
// is taken as the header; headers are matched case-insensitively and a
// leading UTF-8 BOM (Excel exports) is stripped.
func ReadCSV(r io.Reader) ([]RawRow, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	data = bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF})

	cr := csv.NewReader(bytes.NewReader(data))
	cr.FieldsPerRecord = -1 // ragged rows are normal in hand-edited sheets

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	return mapRows(records[0], records[1:]), nil
}

// ReadXLSX decodes the first sheet of an uploaded workbook.
func ReadXLSX(r io.Reader) ([]RawRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil
	}

	records, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	return mapRows(records[0], records[1:]), nil
}

func mapRows(header []string, records [][]string) []RawRow {
	keys := make([]string, len(header))
	for i, h := range header {
		keys[i] = strings.ToLower(strings.TrimSpace(h))
	}

	rows := make([]RawRow, 0, len(records))
	for _, rec := range records {
		if len(rec) == 0 {
			continue
		}
		row := make(RawRow, len(keys))
		for i, k := range keys {
			if k == "" || i >= len(rec) {
				continue
			}
			row[k] = rec[i]
		}
		rows = append(rows, row)
	}
	return rows
}
