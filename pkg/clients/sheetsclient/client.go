package sheetsclient

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/lucabarin/turnario/internal/config"
	"github.com/lucabarin/turnario/pkg/db"
	"github.com/lucabarin/turnario/pkg/utils"
)

// Client reads daily activity sheets from the team's Google Sheets workbook.
// Each day is a tab named "D-M-YYYY"; rows are positional with no header.
type Client struct {
	service       *sheets.Service
	spreadsheetID string
}

// NewClient creates a Sheets-backed activity source, running the OAuth flow
// if no cached token is available
func NewClient(ctx context.Context, oauthCfg *config.OAuthClientConfig, spreadsheetID string) (*Client, error) {
	oauthConfig, err := utils.GetOAuthConfig(oauthCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to get oauth config: %w", err)
	}

	token, err := utils.GetTokenWithFlow(ctx, oauthConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to get oauth token: %w", err)
	}

	httpClient := oauthConfig.Client(ctx, token)

	service, err := sheets.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return &Client{
		service:       service,
		spreadsheetID: spreadsheetID,
	}, nil
}

// DailyRows reads one day's tab. A tab that does not exist yields
// db.ErrSheetNotFound: days with no field activity simply have no tab.
func (c *Client) DailyRows(ctx context.Context, day, month, year int) ([][]string, error) {
	tab := fmt.Sprintf("%d-%d-%d", day, month, year)

	resp, err := c.service.Spreadsheets.Values.Get(c.spreadsheetID, tab).Context(ctx).Do()
	if err != nil {
		var apiErr *googleapi.Error
		// The API reports a missing tab as an unparsable range
		if errors.As(err, &apiErr) && apiErr.Code == 400 {
			return nil, db.ErrSheetNotFound
		}
		return nil, fmt.Errorf("failed to get daily sheet %s: %w", tab, err)
	}

	rows := make([][]string, 0, len(resp.Values))
	for _, raw := range resp.Values {
		row := make([]string, 0, len(raw))
		for _, cell := range raw {
			row = append(row, fmt.Sprint(cell))
		}
		rows = append(rows, row)
	}

	return rows, nil
}
