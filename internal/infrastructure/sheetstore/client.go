// Package sheetstore implements the SheetStore port on the Google Sheets
// API, authenticated with injected service-account JSON key material.
package sheetstore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	sheets "google.golang.org/api/sheets/v4"

	"NewsRadar/internal/ports"
)

// Client wraps one spreadsheet. All operations are scoped to worksheets
// inside it.
type Client struct {
	svc           *sheets.Service
	spreadsheetID string
	maxAttempts   int
	logger        *slog.Logger
}

var _ ports.SheetStore = (*Client)(nil)

// New builds a client for the given spreadsheet from service-account JSON.
func New(ctx context.Context, spreadsheetID string, credentials []byte, maxAttempts int, logger *slog.Logger) (*Client, error) {
	svc, err := sheets.NewService(ctx,
		option.WithCredentialsJSON(credentials),
		option.WithScopes(sheets.SpreadsheetsScope),
	)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	if maxAttempts < 1 {
		maxAttempts = 1
	}

	return &Client{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		maxAttempts:   maxAttempts,
		logger:        logger,
	}, nil
}

// ReadAll returns every row of the worksheet, header included. A worksheet
// that does not exist yet maps to ports.ErrWorksheetNotFound.
func (c *Client) ReadAll(ctx context.Context, worksheet string) ([][]string, error) {
	var resp *sheets.ValueRange
	err := c.withRetry(ctx, "values.get", func() error {
		var callErr error
		resp, callErr = c.svc.Spreadsheets.Values.Get(c.spreadsheetID, worksheet).Context(ctx).Do()
		return callErr
	})
	if err != nil {
		if isMissingWorksheet(err) {
			return nil, ports.ErrWorksheetNotFound
		}
		return nil, fmt.Errorf("read worksheet %s: %w", worksheet, err)
	}

	rows := make([][]string, 0, len(resp.Values))
	for _, raw := range resp.Values {
		rows = append(rows, toStringRow(raw))
	}
	return rows, nil
}

// CreateWorksheet adds a new sheet and writes its header row.
func (c *Client) CreateWorksheet(ctx context.Context, worksheet string, header []string) error {
	req := &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{{
			AddSheet: &sheets.AddSheetRequest{
				Properties: &sheets.SheetProperties{
					Title: worksheet,
					GridProperties: &sheets.GridProperties{
						RowCount:    1,
						ColumnCount: int64(len(header)),
					},
				},
			},
		}},
	}

	err := c.withRetry(ctx, "addSheet", func() error {
		_, callErr := c.svc.Spreadsheets.BatchUpdate(c.spreadsheetID, req).Context(ctx).Do()
		return callErr
	})
	if err != nil {
		return fmt.Errorf("create worksheet %s: %w", worksheet, err)
	}

	return c.UpdateRange(ctx, worksheet, headerRange(len(header)), [][]string{header})
}

// AppendRows appends the rows below the worksheet's current content as a
// single batch write.
func (c *Client) AppendRows(ctx context.Context, worksheet string, rows [][]string) error {
	vr := &sheets.ValueRange{Values: toInterfaceRows(rows)}
	err := c.withRetry(ctx, "values.append", func() error {
		_, callErr := c.svc.Spreadsheets.Values.
			Append(c.spreadsheetID, worksheet+"!A1", vr).
			ValueInputOption("USER_ENTERED").
			InsertDataOption("INSERT_ROWS").
			Context(ctx).Do()
		return callErr
	})
	if err != nil {
		return fmt.Errorf("append %d rows to %s: %w", len(rows), worksheet, err)
	}
	return nil
}

// UpdateRange overwrites one A1-style range.
func (c *Client) UpdateRange(ctx context.Context, worksheet, rangeSpec string, values [][]string) error {
	vr := &sheets.ValueRange{Values: toInterfaceRows(values)}
	err := c.withRetry(ctx, "values.update", func() error {
		_, callErr := c.svc.Spreadsheets.Values.
			Update(c.spreadsheetID, worksheet+"!"+rangeSpec, vr).
			ValueInputOption("USER_ENTERED").
			Context(ctx).Do()
		return callErr
	})
	if err != nil {
		return fmt.Errorf("update range %s!%s: %w", worksheet, rangeSpec, err)
	}
	return nil
}

// BatchGet reads several ranges in one call, preserving request order.
func (c *Client) BatchGet(ctx context.Context, worksheet string, ranges []string) ([][][]string, error) {
	qualified := make([]string, 0, len(ranges))
	for _, r := range ranges {
		qualified = append(qualified, worksheet+"!"+r)
	}

	var resp *sheets.BatchGetValuesResponse
	err := c.withRetry(ctx, "values.batchGet", func() error {
		var callErr error
		resp, callErr = c.svc.Spreadsheets.Values.
			BatchGet(c.spreadsheetID).
			Ranges(qualified...).
			Context(ctx).Do()
		return callErr
	})
	if err != nil {
		return nil, fmt.Errorf("batch get %d ranges from %s: %w", len(ranges), worksheet, err)
	}

	out := make([][][]string, 0, len(resp.ValueRanges))
	for _, vr := range resp.ValueRanges {
		rows := make([][]string, 0, len(vr.Values))
		for _, raw := range vr.Values {
			rows = append(rows, toStringRow(raw))
		}
		out = append(out, rows)
	}
	return out, nil
}

// BatchUpdate applies several range writes in one call.
func (c *Client) BatchUpdate(ctx context.Context, worksheet string, updates []ports.RangeUpdate) error {
	data := make([]*sheets.ValueRange, 0, len(updates))
	for _, u := range updates {
		data = append(data, &sheets.ValueRange{
			Range:  worksheet + "!" + u.Range,
			Values: toInterfaceRows(u.Values),
		})
	}

	req := &sheets.BatchUpdateValuesRequest{
		ValueInputOption: "USER_ENTERED",
		Data:             data,
	}

	err := c.withRetry(ctx, "values.batchUpdate", func() error {
		_, callErr := c.svc.Spreadsheets.Values.BatchUpdate(c.spreadsheetID, req).Context(ctx).Do()
		return callErr
	})
	if err != nil {
		return fmt.Errorf("batch update %d ranges on %s: %w", len(updates), worksheet, err)
	}
	return nil
}

func headerRange(columns int) string {
	end := 'A' + rune(columns-1)
	return fmt.Sprintf("A1:%c1", end)
}

// isMissingWorksheet matches the API's complaint about a range referencing a
// sheet that does not exist.
func isMissingWorksheet(err error) bool {
	var apiErr *googleapi.Error
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.Code == 400 && strings.Contains(apiErr.Message, "Unable to parse range")
}

func toStringRow(raw []interface{}) []string {
	row := make([]string, 0, len(raw))
	for _, cell := range raw {
		row = append(row, fmt.Sprint(cell))
	}
	return row
}

func toInterfaceRows(rows [][]string) [][]interface{} {
	out := make([][]interface{}, 0, len(rows))
	for _, row := range rows {
		cells := make([]interface{}, 0, len(row))
		for _, cell := range row {
			cells = append(cells, cell)
		}
		out = append(out, cells)
	}
	return out
}
