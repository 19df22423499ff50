package normalize

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// ParseCSV reads a header-mapped CSV feed into raw records ready for
// FromRecord. Empty cells are omitted so absent optional fields stay absent.
func ParseCSV(r io.Reader) ([]map[string]any, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("csv feed is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	for i := range header {
		header[i] = strings.ToLower(strings.TrimSpace(header[i]))
	}

	var records []map[string]any
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv row %d: %w", len(records)+2, err)
		}

		record := map[string]any{}
		for i, cell := range row {
			if i >= len(header) {
				break
			}
			cell = strings.TrimSpace(cell)
			if cell == "" {
				continue
			}
			record[header[i]] = cell
		}
		if len(record) > 0 {
			records = append(records, record)
		}
	}
	return records, nil
}
