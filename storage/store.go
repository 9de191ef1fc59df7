package storage

import (
	"context"
	"fmt"
)

// Column layout of the record sheet, 1-indexed. Every row is written with
// exactly ColumnCount cells; unused trailing cells hold "".
const (
	ColDate         = 1
	ColName         = 2
	ColForumURL     = 3
	ColWebSearchURL = 4
	ColOfficialURL  = 5
	ColImageURL     = 6
	ColAddress      = 7
	ColLayout       = 8
	ColArea         = 9
	ColAccess       = 10

	ColumnCount = 10
)

// TabularStore is the persistent record sheet. Cell values are literal
// strings; the store performs no type coercion. Rows are never deleted.
type TabularStore interface {
	// ReadColumn returns the data rows of one column in row order,
	// header excluded.
	ReadColumn(ctx context.Context, col int) ([]string, error)
	// AppendRow appends one full row of exactly ColumnCount cells.
	AppendRow(ctx context.Context, row []string) error
	// UpdateCell patches a single cell. rowNum is 1-based over data rows.
	UpdateCell(ctx context.Context, rowNum, col int, value string) error
}

func validCol(col int) error {
	if col < 1 || col > ColumnCount {
		return fmt.Errorf("column %d out of range 1..%d", col, ColumnCount)
	}
	return nil
}
