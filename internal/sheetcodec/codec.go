package sheetcodec

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Gunvolt24/mesasync/internal/dateparse"
	"github.com/Gunvolt24/mesasync/internal/domain"
	"github.com/Gunvolt24/mesasync/pkg/validate"
)

// reservationNamespace — пространство имён для детерминированных id броней без колонки id.
var reservationNamespace = uuid.MustParse("6f1c2a8e-3b7d-5e4a-9c0f-1d2e3f4a5b6c")

var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"02/01/2006 15:04:05",
	"02/01/2006 15:04",
}

// Codec — кодек строк листов одного ресторана. now — момент чтения,
// нужен для меток вида "20:15" без даты.
type Codec struct {
	restaurantID string
	loc          *time.Location
	now          time.Time
	dates        *dateparse.Resolver
}

// New — кодек для ресторана в часовом поясе loc.
func New(restaurantID string, loc *time.Location, now time.Time) *Codec {
	if loc == nil {
		loc = time.UTC
	}
	return &Codec{
		restaurantID: restaurantID,
		loc:          loc,
		now:          now,
		dates:        dateparse.New(loc),
	}
}

// Table — стол из строки листа Mesas. Ошибки оборачивают validate.ErrInvalidRecord.
func (c *Codec) Table(row domain.SheetRow) (domain.TableRecord, error) {
	t := domain.TableRecord{RestaurantID: c.restaurantID}

	t.ID = pick(row, colTableID...)
	if t.ID == "" {
		return t, fmt.Errorf("%w: пустой id стола", validate.ErrInvalidRecord)
	}
	t.Zone = pick(row, colZone...)

	var err error
	if t.Capacity, err = c.intField(row, colCapacity); err != nil {
		return t, fmt.Errorf("%w: стол %s: capacidad: %v", validate.ErrInvalidRecord, t.ID, err)
	}

	raw := NormalizeHeader(pick(row, colStatus...))
	if raw == "" {
		raw = "libre"
	}
	status, ok := tableStatuses[raw]
	if !ok {
		return t, fmt.Errorf("%w: стол %s: неизвестный estado %q", validate.ErrInvalidRecord, t.ID, raw)
	}
	t.Status = domain.TableStatus(status)

	if t.OccupiedSince, err = c.timeField(row, colOccupiedSince); err != nil {
		return t, fmt.Errorf("%w: стол %s: ocupada_desde: %v", validate.ErrInvalidRecord, t.ID, err)
	}
	if t.ReservedUntil, err = c.timeField(row, colReservedUntil); err != nil {
		return t, fmt.Errorf("%w: стол %s: reservada_hasta: %v", validate.ErrInvalidRecord, t.ID, err)
	}
	updated, err := c.timeField(row, colUpdated)
	if err != nil {
		return t, fmt.Errorf("%w: стол %s: actualizado: %v", validate.ErrInvalidRecord, t.ID, err)
	}
	if updated != nil {
		t.UpdatedAt = *updated
	}

	client := domain.ClientData{
		Name:      pick(row, colClient...),
		Phone:     pick(row, colPhone...),
		SessionID: pick(row, colSession...),
	}
	if client.PartySize, err = c.intField(row, colParty); err != nil {
		return t, fmt.Errorf("%w: стол %s: personas: %v", validate.ErrInvalidRecord, t.ID, err)
	}
	if client != (domain.ClientData{}) {
		t.ClientData = &client
	}
	return t, nil
}

// Reservation — бронь из строки листа Reservas.
// Строка без id получает детерминированный UUIDv5 (ресторан, дата, время, телефон, имя).
func (c *Codec) Reservation(row domain.SheetRow) (domain.ReservationRecord, error) {
	r := domain.ReservationRecord{
		RestaurantID: c.restaurantID,
		ID:           pick(row, colReservationID...),
		CustomerName: pick(row, colName...),
		Phone:        pick(row, colPhone...),
		Zone:         pick(row, colZone...),
	}

	created, err := c.timeField(row, colCreated)
	if err != nil {
		return r, fmt.Errorf("%w: бронь %s: creada: %v", validate.ErrInvalidRecord, r.ID, err)
	}
	if created != nil {
		r.CreatedAt = *created
	}

	anchor := created
	if clockOnly(pick(row, colCreated...)) {
		anchor = nil
	}
	if r.Date, err = c.reservationDate(pick(row, colDate...), anchor); err != nil {
		return r, fmt.Errorf("%w: бронь %s: %v", validate.ErrInvalidRecord, r.ID, err)
	}

	rawTime := pick(row, colTime...)
	hm, err := time.Parse("15:04", strings.ReplaceAll(rawTime, ".", ":"))
	if err != nil {
		return r, fmt.Errorf("%w: бронь %s: hora %q", validate.ErrInvalidRecord, r.ID, rawTime)
	}
	r.Time = hm.Format("15:04")

	if r.PartySize, err = c.intField(row, colParty); err != nil {
		return r, fmt.Errorf("%w: бронь %s: personas: %v", validate.ErrInvalidRecord, r.ID, err)
	}
	if table := pick(row, colTable...); table != "" {
		r.TableID = &table
	}

	raw := NormalizeHeader(pick(row, colStatus...))
	if raw == "" {
		raw = "pendiente"
	}
	status, ok := reservationStatuses[raw]
	if !ok {
		return r, fmt.Errorf("%w: бронь %s: неизвестный estado %q", validate.ErrInvalidRecord, r.ID, raw)
	}
	r.Status = domain.ReservationStatus(status)

	updated, err := c.timeField(row, colUpdated)
	if err != nil {
		return r, fmt.Errorf("%w: бронь %s: actualizada: %v", validate.ErrInvalidRecord, r.ID, err)
	}
	if updated != nil {
		r.UpdatedAt = *updated
	}

	if r.ID == "" {
		r.ID = ReservationID(r.RestaurantID, r.Date, r.Time, r.Phone, r.CustomerName)
	}
	return r, nil
}

// reservationDate — дата брони из ячейки fecha. Год не зависит от момента синхронизации:
// "17/10" и "18 de octubre" отсчитываются от creada, без неё строка отклоняется.
func (c *Codec) reservationDate(raw string, created *time.Time) (string, error) {
	ref := c.now
	if !dateparse.HasYear(raw) {
		if created == nil {
			return "", fmt.Errorf("fecha %q без года и без creada", raw)
		}
		ref = *created
	}
	expr, err := c.dates.Resolve(raw, ref)
	if err != nil || expr.Kind != domain.DateLiteral {
		return "", fmt.Errorf("fecha %q", raw)
	}
	return expr.Date, nil
}

// ReservationID — детерминированный id брони по её естественному ключу.
func ReservationID(restaurantID, date, hhmm, phone, name string) string {
	key := strings.Join([]string{restaurantID, date, hhmm, strings.TrimSpace(phone), fold(name)}, "|")
	return uuid.NewSHA1(reservationNamespace, []byte(key)).String()
}

// EncodeTable — строка листа Mesas для записи состояния стола.
// Очищенные метки и клиент пишутся пустыми ячейками.
func (c *Codec) EncodeTable(t domain.TableRecord) domain.SheetRow {
	row := domain.SheetRow{
		"id":              t.ID,
		"estado":          tableStatusesOut[string(t.Status)],
		"ocupada_desde":   c.formatTime(t.OccupiedSince),
		"reservada_hasta": c.formatTime(t.ReservedUntil),
		"cliente":         "",
		"telefono":        "",
		"personas":        "",
		"actualizado":     c.formatTime(&t.UpdatedAt),
	}
	if t.Zone != "" {
		row["zona"] = t.Zone
	}
	if t.Capacity > 0 {
		row["capacidad"] = strconv.Itoa(t.Capacity)
	}
	if t.ClientData != nil {
		row["cliente"] = t.ClientData.Name
		row["telefono"] = t.ClientData.Phone
		if t.ClientData.PartySize > 0 {
			row["personas"] = strconv.Itoa(t.ClientData.PartySize)
		}
	}
	return row
}

// ClosedDays — даты (YYYY-MM-DD) из листа DiasCerrados → причина.
// Нераспознанные даты пропускаются и возвращаются как ошибка-сводка.
func (c *Codec) ClosedDays(rows []domain.SheetRow) (map[string]string, error) {
	out := make(map[string]string, len(rows))
	var errs []error
	for i, row := range rows {
		raw := pick(row, colDate...)
		expr, err := c.dates.Resolve(raw, c.now)
		if err != nil || expr.Kind != domain.DateLiteral {
			errs = append(errs, fmt.Errorf("%w: DiasCerrados[%d]: fecha %q", validate.ErrInvalidRecord, i, raw))
			continue
		}
		out[expr.Date] = pick(row, colReason...)
	}
	return out, errors.Join(errs...)
}

// Shifts — смены из листа Turnos.
func (c *Codec) Shifts(rows []domain.SheetRow) ([]domain.Shift, error) {
	out := make([]domain.Shift, 0, len(rows))
	var errs []error
	for i, row := range rows {
		start, errStart := time.Parse("15:04", pick(row, colShiftStart...))
		end, errEnd := time.Parse("15:04", pick(row, colShiftEnd...))
		if errStart != nil || errEnd != nil {
			errs = append(errs, fmt.Errorf("%w: Turnos[%d]: inicio/fin", validate.ErrInvalidRecord, i))
			continue
		}
		out = append(out, domain.Shift{
			Name:  pick(row, colShiftName...),
			Start: start.Format("15:04"),
			End:   end.Format("15:04"),
		})
	}
	return out, errors.Join(errs...)
}

func (c *Codec) intField(row domain.SheetRow, keys []string) (int, error) {
	v := pick(row, keys...)
	if v == "" {
		return 0, nil
	}
	return strconv.Atoi(v)
}

// timeField — метка времени в часовом поясе ресторана; "HH:MM" без даты — сегодня.
func (c *Codec) timeField(row domain.SheetRow, keys []string) (*time.Time, error) {
	v := pick(row, keys...)
	if v == "" {
		return nil, nil
	}
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, v, c.loc); err == nil {
			return &t, nil
		}
	}
	if hm, err := time.Parse("15:04", v); err == nil {
		y, m, d := c.now.In(c.loc).Date()
		t := time.Date(y, m, d, hm.Hour(), hm.Minute(), 0, 0, c.loc)
		return &t, nil
	}
	return nil, fmt.Errorf("unrecognized timestamp %q", v)
}

// clockOnly — метка вида "20:15" без даты.
func clockOnly(v string) bool {
	_, err := time.Parse("15:04", v)
	return err == nil
}

func (c *Codec) formatTime(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.In(c.loc).Format(time.RFC3339)
}
