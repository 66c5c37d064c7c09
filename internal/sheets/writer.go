package sheets

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/Veraticus/layoutguide/internal/common"
	"github.com/Veraticus/layoutguide/internal/model"
	"github.com/Veraticus/layoutguide/internal/service"
	"github.com/xuri/excelize/v2"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// Writer implements service.GuideWriter for Google Sheets.
type Writer struct {
	service *sheets.Service
	logger  *slog.Logger
	config  Config
}

// NewWriter creates a new Google Sheets guide writer.
func NewWriter(ctx context.Context, config Config, logger *slog.Logger) (*Writer, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	srv, err := createSheetsService(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	if logger == nil {
		logger = slog.Default()
	}
	return &Writer{
		config:  config,
		service: srv,
		logger:  logger,
	}, nil
}

// Write uploads the sheet and applies header styling, frozen panes and a filter.
// A formatting failure is logged; the data is already written at that point.
func (w *Writer) Write(ctx context.Context, sheet model.Sheet) error {
	return w.write(ctx, sheet, w.config.EnableFormatting)
}

// WritePlain uploads the sheet values without any formatting requests.
func (w *Writer) WritePlain(ctx context.Context, sheet model.Sheet) error {
	return w.write(ctx, sheet, false)
}

func (w *Writer) write(ctx context.Context, sheet model.Sheet, styled bool) error {
	tab := tabTitle(sheet.Output)
	w.logger.Info("starting guide upload",
		"rows", len(sheet.Rows),
		"tab", tab,
		"styled", styled)

	retryOpts := w.retryOptions()

	var spreadsheetID string
	err := common.WithRetry(ctx, func() error {
		var getErr error
		spreadsheetID, getErr = w.getOrCreateSpreadsheet(ctx, tab)
		return classifyAPIError(getErr)
	}, retryOpts)
	if err != nil {
		return fmt.Errorf("failed to get spreadsheet: %w", err)
	}

	sheetID, err := w.ensureTab(ctx, spreadsheetID, tab)
	if err != nil {
		return fmt.Errorf("failed to prepare tab %q: %w", tab, err)
	}

	if clearErr := w.clearSheet(ctx, spreadsheetID, tab); clearErr != nil {
		return fmt.Errorf("failed to clear sheet: %w", clearErr)
	}

	values := sheetValues(sheet)
	err = common.WithRetry(ctx, func() error {
		return classifyAPIError(w.writeData(ctx, spreadsheetID, tab, values))
	}, retryOpts)
	if err != nil {
		return fmt.Errorf("failed to write data: %w", err)
	}

	if styled {
		err = common.WithRetry(ctx, func() error {
			return classifyAPIError(w.applyFormatting(ctx, spreadsheetID, sheetID, sheet))
		}, retryOpts)
		if err != nil {
			w.logger.Warn("failed to apply formatting", "error", err)
		}
	}

	w.logger.Info("guide upload completed",
		"spreadsheet_id", spreadsheetID,
		"rows_written", len(values))
	return nil
}

// classifyAPIError marks Google API failures for WithRetry. Too many requests
// is a rate limit; any other 4xx response will not succeed on retry.
func classifyAPIError(err error) error {
	var apiErr *googleapi.Error
	if !errors.As(err, &apiErr) {
		return err
	}
	switch {
	case apiErr.Code == http.StatusTooManyRequests:
		return fmt.Errorf("%w: %v", common.ErrRateLimit, err)
	case apiErr.Code >= 400 && apiErr.Code < 500:
		return &common.RetryableError{Err: err, Retryable: false}
	default:
		return err
	}
}

func (w *Writer) retryOptions() service.RetryOptions {
	return service.RetryOptions{
		MaxAttempts:  w.config.RetryAttempts,
		InitialDelay: w.config.RetryDelay,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
	}
}

// tokenSource builds the credential source for the configured auth method.
func tokenSource(ctx context.Context, creds Credentials) (oauth2.TokenSource, error) {
	method, err := creds.Method()
	if err != nil {
		return nil, err
	}

	if method == AuthServiceAccount {
		jsonKey, err := os.ReadFile(creds.ServiceAccountPath)
		if err != nil {
			return nil, fmt.Errorf("unable to read service account key file: %w", err)
		}
		jwtConfig, err := google.JWTConfigFromJSON(jsonKey, sheets.SpreadsheetsScope)
		if err != nil {
			return nil, fmt.Errorf("unable to parse service account key: %w", err)
		}
		return jwtConfig.TokenSource(ctx), nil
	}

	token := &oauth2.Token{RefreshToken: creds.RefreshToken, TokenType: "Bearer"}
	return oauthConfig(creds.ClientID, creds.ClientSecret, "").TokenSource(ctx, token), nil
}

// createSheetsService creates a Google Sheets API service.
func createSheetsService(ctx context.Context, config Config) (*sheets.Service, error) {
	ts, err := tokenSource(ctx, config.Credentials)
	if err != nil {
		return nil, err
	}

	httpClient := oauth2.NewClient(ctx, ts)
	srv, err := sheets.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("unable to create sheets service: %w", err)
	}
	return srv, nil
}

// getOrCreateSpreadsheet returns the configured spreadsheet or creates one with a tab.
func (w *Writer) getOrCreateSpreadsheet(ctx context.Context, tab string) (string, error) {
	if w.config.SpreadsheetID != "" {
		_, err := w.service.Spreadsheets.Get(w.config.SpreadsheetID).Context(ctx).Do()
		if err != nil {
			return "", fmt.Errorf("unable to access spreadsheet %s: %w", w.config.SpreadsheetID, err)
		}
		return w.config.SpreadsheetID, nil
	}

	spreadsheet := &sheets.Spreadsheet{
		Properties: &sheets.SpreadsheetProperties{
			Title:    w.config.SpreadsheetName,
			TimeZone: w.config.TimeZone,
		},
		Sheets: []*sheets.Sheet{
			{Properties: &sheets.SheetProperties{Title: tab}},
		},
	}

	created, err := w.service.Spreadsheets.Create(spreadsheet).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("unable to create spreadsheet: %w", err)
	}

	w.logger.Info("created new spreadsheet",
		"id", created.SpreadsheetId,
		"url", created.SpreadsheetUrl)

	// Later writes in this process reuse the same spreadsheet.
	w.config.SpreadsheetID = created.SpreadsheetId
	return created.SpreadsheetId, nil
}

// ensureTab returns the numeric id of the tab, adding it when missing.
func (w *Writer) ensureTab(ctx context.Context, spreadsheetID, tab string) (int64, error) {
	existing, err := w.service.Spreadsheets.Get(spreadsheetID).Context(ctx).Do()
	if err != nil {
		return 0, err
	}
	for _, s := range existing.Sheets {
		if s.Properties != nil && s.Properties.Title == tab {
			return s.Properties.SheetId, nil
		}
	}

	resp, err := w.service.Spreadsheets.BatchUpdate(spreadsheetID, &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{
			{AddSheet: &sheets.AddSheetRequest{Properties: &sheets.SheetProperties{Title: tab}}},
		},
	}).Context(ctx).Do()
	if err != nil {
		return 0, err
	}
	if len(resp.Replies) == 0 || resp.Replies[0].AddSheet == nil {
		return 0, fmt.Errorf("add sheet returned no properties")
	}
	return resp.Replies[0].AddSheet.Properties.SheetId, nil
}

// clearSheet clears all data from the tab.
func (w *Writer) clearSheet(ctx context.Context, spreadsheetID, tab string) error {
	_, err := w.service.Spreadsheets.Values.Clear(spreadsheetID, a1Range(tab, "A:ZZ"), &sheets.ClearValuesRequest{}).Context(ctx).Do()
	return err
}

// writeData writes values in batches to stay under API payload limits.
func (w *Writer) writeData(ctx context.Context, spreadsheetID, tab string, values [][]any) error {
	for i := 0; i < len(values); i += w.config.BatchSize {
		end := min(i+w.config.BatchSize, len(values))
		batch := values[i:end]

		_, err := w.service.Spreadsheets.Values.Update(spreadsheetID, a1Range(tab, fmt.Sprintf("A%d", i+1)), &sheets.ValueRange{Values: batch}).
			ValueInputOption("RAW").
			Context(ctx).
			Do()
		if err != nil {
			return fmt.Errorf("failed to write batch starting at row %d: %w", i+1, err)
		}

		w.logger.Debug("wrote batch", "start_row", i+1, "rows", len(batch))
	}
	return nil
}

// applyFormatting sends the styling requests for the tab.
func (w *Writer) applyFormatting(ctx context.Context, spreadsheetID string, sheetID int64, sheet model.Sheet) error {
	requests := formattingRequests(sheetID, sheet)
	if len(requests) == 0 {
		return nil
	}
	_, err := w.service.Spreadsheets.BatchUpdate(spreadsheetID, &sheets.BatchUpdateSpreadsheetRequest{
		Requests: requests,
	}).Context(ctx).Do()
	return err
}

// sheetValues flattens the header and rows into API values.
func sheetValues(sheet model.Sheet) [][]any {
	values := make([][]any, 0, len(sheet.Rows)+1)

	header := make([]any, len(sheet.Headers))
	for i, h := range sheet.Headers {
		header[i] = h
	}
	values = append(values, header)

	for _, row := range sheet.Rows {
		cells := row.Values()
		out := make([]any, len(cells))
		for i, v := range cells {
			out[i] = v
		}
		values = append(values, out)
	}
	return values
}

// formattingRequests builds the batch update requests for the output settings.
func formattingRequests(sheetID int64, sheet model.Sheet) []*sheets.Request {
	columns := int64(len(sheet.Headers))
	rows := int64(len(sheet.Rows) + 1)
	var requests []*sheets.Request

	if sheet.Output.HeaderFormatting {
		requests = append(requests, &sheets.Request{
			RepeatCell: &sheets.RepeatCellRequest{
				Range: &sheets.GridRange{
					SheetId:          sheetID,
					StartRowIndex:    0,
					EndRowIndex:      1,
					StartColumnIndex: 0,
					EndColumnIndex:   columns,
				},
				Cell: &sheets.CellData{
					UserEnteredFormat: &sheets.CellFormat{
						BackgroundColor:     &sheets.Color{Red: 0.21, Green: 0.38, Blue: 0.57},
						HorizontalAlignment: "CENTER",
						TextFormat: &sheets.TextFormat{
							Bold:            true,
							ForegroundColor: &sheets.Color{Red: 1, Green: 1, Blue: 1},
						},
					},
				},
				Fields: "userEnteredFormat(backgroundColor,textFormat,horizontalAlignment)",
			},
		})
	}

	if frozenRows, frozenCols, ok := freezeCounts(sheet.Output.FreezePanes); ok {
		requests = append(requests, &sheets.Request{
			UpdateSheetProperties: &sheets.UpdateSheetPropertiesRequest{
				Properties: &sheets.SheetProperties{
					SheetId: sheetID,
					GridProperties: &sheets.GridProperties{
						FrozenRowCount:    frozenRows,
						FrozenColumnCount: frozenCols,
					},
				},
				Fields: "gridProperties.frozenRowCount,gridProperties.frozenColumnCount",
			},
		})
	}

	if sheet.Output.AutoFilter && columns > 0 {
		requests = append(requests, &sheets.Request{
			SetBasicFilter: &sheets.SetBasicFilterRequest{
				Filter: &sheets.BasicFilter{
					Range: &sheets.GridRange{
						SheetId:          sheetID,
						StartRowIndex:    0,
						EndRowIndex:      rows,
						StartColumnIndex: 0,
						EndColumnIndex:   columns,
					},
				},
			},
		})
	}

	if sheet.Output.ColumnWidthAuto && columns > 0 {
		requests = append(requests, &sheets.Request{
			AutoResizeDimensions: &sheets.AutoResizeDimensionsRequest{
				Dimensions: &sheets.DimensionRange{
					SheetId:    sheetID,
					Dimension:  "COLUMNS",
					StartIndex: 0,
					EndIndex:   columns,
				},
			},
		})
	}

	return requests
}

// freezeCounts converts a top-left unfrozen cell such as "A2" into frozen row
// and column counts.
func freezeCounts(cell string) (rows, cols int64, ok bool) {
	if cell == "" {
		return 0, 0, false
	}
	col, row, err := excelize.CellNameToCoordinates(cell)
	if err != nil {
		return 0, 0, false
	}
	if row <= 1 && col <= 1 {
		return 0, 0, false
	}
	return int64(row - 1), int64(col - 1), true
}

func tabTitle(output model.OutputSettings) string {
	if strings.TrimSpace(output.SheetName) == "" {
		return model.DefaultOutputSettings().SheetName
	}
	return output.SheetName
}

func a1Range(tab, cells string) string {
	return fmt.Sprintf("'%s'!%s", strings.ReplaceAll(tab, "'", "''"), cells)
}
