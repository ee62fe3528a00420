package excel

import "fmt"

// RawRowData represents a row of raw sheet data keyed by header
type RawRowData map[string]string

// SheetData is a header row plus the data rows beneath it.
type SheetData struct {
	Headers []string
	Rows    []RawRowData
}

// RowError reports why a data row could not become a labelled sample.
// Row is 1-based and counts the header, matching spreadsheet numbering.
type RowError struct {
	Row int
	Err error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("row %d: %v", e.Row, e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}
