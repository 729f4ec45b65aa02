package validate

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/Gunvolt24/mesasync/internal/domain"
	"github.com/Gunvolt24/mesasync/internal/ports"
)

// ErrInvalidTrigger — сообщение-триггер синхронизации не разобрано.
var ErrInvalidTrigger = errors.New("invalid sync trigger")

// ValidateReservationFromJSON — строгий разбор брони из JSON и её валидация.
func ValidateReservationFromJSON(ctx context.Context, validator ports.RecordValidator, raw []byte) (*domain.ReservationRecord, error) {
	var r domain.ReservationRecord
	if err := decodeStrict(raw, &r); err != nil {
		return nil, fmt.Errorf("%w: invalid json: %v", ErrInvalidRecord, err)
	}
	if err := validator.ValidateReservation(ctx, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// TriggerFromJSON — разбор {"restaurant_id": "...", "force": bool}.
func TriggerFromJSON(raw []byte) (domain.SyncTrigger, error) {
	var tr domain.SyncTrigger
	if err := decodeStrict(raw, &tr); err != nil {
		return domain.SyncTrigger{}, fmt.Errorf("%w: %v", ErrInvalidTrigger, err)
	}
	tr.RestaurantID = strings.TrimSpace(tr.RestaurantID)
	if tr.RestaurantID == "" {
		return domain.SyncTrigger{}, fmt.Errorf("%w: restaurant_id обязателен", ErrInvalidTrigger)
	}
	return tr, nil
}

// decodeStrict — без неизвестных полей и без данных после объекта.
func decodeStrict(raw []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return err
	}
	// гарантируем отсутствие данных после объекта
	if err := dec.Decode(new(struct{})); err != io.EOF {
		return errors.New("trailing data")
	}
	return nil
}
