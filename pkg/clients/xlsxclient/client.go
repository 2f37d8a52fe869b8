package xlsxclient

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/lucabarin/turnario/pkg/db"
)

// Client reads daily activity sheets from local xlsx workbooks, one workbook
// per month named "MM-YYYY.xlsx" with one sheet per day ("1".."31").
// It serves offices that keep the daily register on a shared drive instead
// of Google Sheets.
type Client struct {
	workbookDir string
}

// NewClient creates an xlsx-backed activity source rooted at workbookDir
func NewClient(workbookDir string) *Client {
	return &Client{workbookDir: workbookDir}
}

// DailyRows reads one day's sheet. A missing workbook or missing day sheet
// yields db.ErrSheetNotFound.
func (c *Client) DailyRows(ctx context.Context, day, month, year int) ([][]string, error) {
	path := filepath.Join(c.workbookDir, fmt.Sprintf("%02d-%d.xlsx", month, year))

	f, err := excelize.OpenFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, db.ErrSheetNotFound
		}
		return nil, fmt.Errorf("failed to open workbook %s: %w", path, err)
	}
	defer f.Close()

	sheetName := fmt.Sprintf("%d", day)
	idx, err := f.GetSheetIndex(sheetName)
	if err != nil || idx < 0 {
		return nil, db.ErrSheetNotFound
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheetName, err)
	}

	return rows, nil
}
