package ports

import (
	"context"

	"github.com/Gunvolt24/mesasync/internal/domain"
)

// SpreadsheetMirror — внешняя таблица ресторана (источник истины, медленный и с лимитами).
// Ошибки реализации различают: domain.ErrSheetRateLimited, domain.ErrSheetUnauthorized,
// domain.ErrSheetNotFound; остальное оборачивается в domain.ErrUpstreamUnavailable.
type SpreadsheetMirror interface {
	// ReadRows — все строки листа (заголовок → значение).
	ReadRows(ctx context.Context, restaurantID, sheet string) ([]domain.SheetRow, error)

	// WriteRow — перезаписать строку с ключом rowKey (первая колонка).
	// Если строки нет — domain.ErrSheetNotFound.
	WriteRow(ctx context.Context, restaurantID, sheet, rowKey string, fields domain.SheetRow) error

	// AppendRow — добавить строку в конец листа.
	AppendRow(ctx context.Context, restaurantID, sheet string, fields domain.SheetRow) error
}
