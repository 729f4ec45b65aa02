package validate

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Gunvolt24/mesasync/internal/domain"
	"github.com/Gunvolt24/mesasync/internal/ports"
)

// Проверка, что RecordValidator удовлетворяет интерфейсу порта.
var _ ports.RecordValidator = (*RecordValidator)(nil)

// ErrInvalidRecord — базовая (sentinel error) ошибка валидации записи листа.
var ErrInvalidRecord = errors.New("record validation failed")

const maxPartySize = 100

// RecordValidator — валидация столов и броней, прочитанных из таблицы.
type RecordValidator struct{}

// NewRecordValidator — конструктор RecordValidator.
// Возвращает ErrInvalidRecord (с обёрнутой причиной) при любой проблеме.
func NewRecordValidator() *RecordValidator { return &RecordValidator{} }

// ValidateTable — проверяет поля стола и согласованность статуса с метками времени.
func (v *RecordValidator) ValidateTable(_ context.Context, table *domain.TableRecord) error {
	if table == nil {
		return fmt.Errorf("%w: стол не может быть nil", ErrInvalidRecord)
	}
	if table.RestaurantID == "" {
		return fmt.Errorf("%w: restaurant_id обязателен", ErrInvalidRecord)
	}
	if table.ID == "" {
		return fmt.Errorf("%w: id стола обязателен", ErrInvalidRecord)
	}
	if !table.Status.Valid() {
		return fmt.Errorf("%w: неизвестный статус стола %q", ErrInvalidRecord, table.Status)
	}
	if table.Capacity < 0 {
		return fmt.Errorf("%w: capacity должен быть неотрицательным", ErrInvalidRecord)
	}
	switch table.Status {
	case domain.TableOccupied, domain.TableOccupiedAllDay:
		if table.OccupiedSince == nil {
			return fmt.Errorf("%w: occupied_since обязателен для статуса %s", ErrInvalidRecord, table.Status)
		}
	case domain.TableReserved:
		if table.ReservedUntil == nil {
			return fmt.Errorf("%w: reserved_until обязателен для статуса reserved", ErrInvalidRecord)
		}
	}
	return nil
}

// ValidateReservation — проверяет поля брони.
func (v *RecordValidator) ValidateReservation(_ context.Context, r *domain.ReservationRecord) error {
	if r == nil {
		return fmt.Errorf("%w: бронь не может быть nil", ErrInvalidRecord)
	}
	if r.RestaurantID == "" {
		return fmt.Errorf("%w: restaurant_id обязателен", ErrInvalidRecord)
	}
	if r.ID == "" {
		return fmt.Errorf("%w: id брони обязателен", ErrInvalidRecord)
	}
	if _, err := time.Parse("2006-01-02", r.Date); err != nil {
		return fmt.Errorf("%w: date должна быть в формате YYYY-MM-DD", ErrInvalidRecord)
	}
	if _, err := time.Parse("15:04", r.Time); err != nil || len(r.Time) != 5 {
		return fmt.Errorf("%w: time должно быть в формате HH:MM", ErrInvalidRecord)
	}
	if r.PartySize <= 0 || r.PartySize > maxPartySize {
		return fmt.Errorf("%w: party_size вне диапазона 1..%d", ErrInvalidRecord, maxPartySize)
	}
	if r.CustomerName == "" && r.Phone == "" {
		return fmt.Errorf("%w: нужен customer_name или phone", ErrInvalidRecord)
	}
	if !r.Status.Valid() {
		return fmt.Errorf("%w: неизвестный статус брони %q", ErrInvalidRecord, r.Status)
	}
	return nil
}
