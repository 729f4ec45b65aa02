// Пакет sheets — SpreadsheetMirror поверх Google Sheets API v4.
// Первая строка каждого листа — заголовок; ключи строк — нормализованные заголовки.
package sheets

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/Gunvolt24/mesasync/internal/domain"
	"github.com/Gunvolt24/mesasync/internal/ports"
	"github.com/Gunvolt24/mesasync/internal/sheetcodec"
)

var _ ports.SpreadsheetMirror = (*Mirror)(nil)

const valueInput = "USER_ENTERED"

// Mirror — доступ к таблицам ресторанов. Id таблицы берётся из реестра.
type Mirror struct {
	svc      *sheetsapi.Service
	registry ports.RestaurantRegistry
}

// New — клиент Sheets API. opts — option.WithCredentialsFile, option.WithEndpoint и т.п.
func New(ctx context.Context, registry ports.RestaurantRegistry, opts ...option.ClientOption) (*Mirror, error) {
	opts = append([]option.ClientOption{option.WithScopes(sheetsapi.SpreadsheetsScope)}, opts...)
	svc, err := sheetsapi.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("sheets client: %w", err)
	}
	return &Mirror{svc: svc, registry: registry}, nil
}

// ReadRows — все строки листа, кроме заголовка. Пустые строки пропускаются.
func (m *Mirror) ReadRows(ctx context.Context, restaurantID, sheet string) ([]domain.SheetRow, error) {
	spreadsheetID, err := m.spreadsheet(restaurantID)
	if err != nil {
		return nil, err
	}
	values, err := m.values(ctx, spreadsheetID, sheet)
	if err != nil {
		return nil, err
	}
	if len(values) == 0 {
		return nil, nil
	}

	header := headerOf(values[0])
	rows := make([]domain.SheetRow, 0, len(values)-1)
	for _, raw := range values[1:] {
		row := make(domain.SheetRow, len(header))
		empty := true
		for i, h := range header {
			if h == "" {
				continue
			}
			v := cell(raw, i)
			if v != "" {
				empty = false
			}
			row[h] = v
		}
		if !empty {
			rows = append(rows, row)
		}
	}
	return rows, nil
}

// WriteRow — перезаписать строку, у которой ключевая колонка равна rowKey.
// Колонки, которых нет в fields, сохраняют текущее значение.
func (m *Mirror) WriteRow(ctx context.Context, restaurantID, sheet, rowKey string, fields domain.SheetRow) error {
	spreadsheetID, err := m.spreadsheet(restaurantID)
	if err != nil {
		return err
	}
	values, err := m.values(ctx, spreadsheetID, sheet)
	if err != nil {
		return err
	}
	if len(values) == 0 {
		return fmt.Errorf("%w: %s has no header", domain.ErrSheetNotFound, sheet)
	}

	header := headerOf(values[0])
	key := -1
	for i, h := range header {
		if sheetcodec.IsTableKeyColumn(h) {
			key = i
			break
		}
	}
	if key < 0 {
		return fmt.Errorf("%w: %s has no id column", domain.ErrSheetNotFound, sheet)
	}

	for i, raw := range values[1:] {
		if strings.TrimSpace(cell(raw, key)) != rowKey {
			continue
		}
		cells := merge(header, raw, fields)
		rng := fmt.Sprintf("%s!A%d", sheet, i+2)
		_, err := m.svc.Spreadsheets.Values.
			Update(spreadsheetID, rng, &sheetsapi.ValueRange{Values: [][]interface{}{cells}}).
			ValueInputOption(valueInput).
			Context(ctx).
			Do()
		return mapError(err)
	}
	return fmt.Errorf("%w: %s row %s", domain.ErrSheetNotFound, sheet, rowKey)
}

// AppendRow — добавить строку в конец листа в порядке колонок заголовка.
func (m *Mirror) AppendRow(ctx context.Context, restaurantID, sheet string, fields domain.SheetRow) error {
	spreadsheetID, err := m.spreadsheet(restaurantID)
	if err != nil {
		return err
	}
	resp, err := m.svc.Spreadsheets.Values.Get(spreadsheetID, sheet+"!1:1").Context(ctx).Do()
	if err != nil {
		return mapError(err)
	}
	if len(resp.Values) == 0 {
		return fmt.Errorf("%w: %s has no header", domain.ErrSheetNotFound, sheet)
	}

	cells := merge(headerOf(resp.Values[0]), nil, fields)
	_, err = m.svc.Spreadsheets.Values.
		Append(spreadsheetID, sheet, &sheetsapi.ValueRange{Values: [][]interface{}{cells}}).
		ValueInputOption(valueInput).
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	return mapError(err)
}

func (m *Mirror) spreadsheet(restaurantID string) (string, error) {
	settings, ok := m.registry.Settings(restaurantID)
	if !ok || settings.SpreadsheetID == "" {
		return "", fmt.Errorf("%w: %s", domain.ErrUnknownRestaurant, restaurantID)
	}
	return settings.SpreadsheetID, nil
}

func (m *Mirror) values(ctx context.Context, spreadsheetID, sheet string) ([][]interface{}, error) {
	resp, err := m.svc.Spreadsheets.Values.Get(spreadsheetID, sheet).Context(ctx).Do()
	if err != nil {
		return nil, mapError(err)
	}
	return resp.Values, nil
}

func headerOf(raw []interface{}) []string {
	out := make([]string, len(raw))
	for i, v := range raw {
		out[i] = sheetcodec.NormalizeHeader(fmt.Sprint(v))
	}
	return out
}

func cell(raw []interface{}, i int) string {
	if i >= len(raw) || raw[i] == nil {
		return ""
	}
	return strings.TrimSpace(fmt.Sprint(raw[i]))
}

// merge — ячейки строки по заголовку: значение из fields (по имени или синониму),
// иначе текущее значение.
func merge(header []string, current []interface{}, fields domain.SheetRow) []interface{} {
	cells := make([]interface{}, len(header))
	for i, h := range header {
		if v, ok := fields[h]; ok {
			cells[i] = v
			continue
		}
		if v, ok := fields[sheetcodec.CanonicalTableColumn(h)]; ok {
			cells[i] = v
			continue
		}
		cells[i] = cell(current, i)
	}
	return cells
}

// mapError — коды Sheets API → ошибки домена.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		switch {
		case gerr.Code == http.StatusTooManyRequests || rateLimited(gerr):
			return fmt.Errorf("%w: %s", domain.ErrSheetRateLimited, gerr.Message)
		case gerr.Code == http.StatusUnauthorized || gerr.Code == http.StatusForbidden:
			return fmt.Errorf("%w: %s", domain.ErrSheetUnauthorized, gerr.Message)
		case gerr.Code == http.StatusNotFound:
			return fmt.Errorf("%w: %s", domain.ErrSheetNotFound, gerr.Message)
		case gerr.Code == http.StatusBadRequest && strings.Contains(gerr.Message, "Unable to parse range"):
			return fmt.Errorf("%w: %s", domain.ErrSheetNotFound, gerr.Message)
		}
	}
	return fmt.Errorf("%w: %v", domain.ErrUpstreamUnavailable, err)
}

func rateLimited(gerr *googleapi.Error) bool {
	for _, item := range gerr.Errors {
		if item.Reason == "rateLimitExceeded" || item.Reason == "userRateLimitExceeded" {
			return true
		}
	}
	return false
}
