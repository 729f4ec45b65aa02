// Пакет exportcheck — проверка выгрузки листа Reservas перед загрузкой или сверкой.
// Запись выгрузки — либо бронь в каноническом JSON (как её хранит LocalStore),
// либо строка листа с испанскими заголовками ("Fecha", "Hora", "Teléfono", ...).
package exportcheck

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Gunvolt24/mesasync/internal/domain"
	"github.com/Gunvolt24/mesasync/internal/ports"
	"github.com/Gunvolt24/mesasync/internal/sheetcodec"
	"github.com/Gunvolt24/mesasync/pkg/validate"
)

// Format — формат файла выгрузки.
type Format string

const (
	FormatAuto  Format = "auto"
	FormatJSON  Format = "json"  // один объект или массив объектов
	FormatJSONL Format = "jsonl" // объект на строку
)

// ErrNoRestaurant — строке листа не к чему привязать детерминированный id.
var ErrNoRestaurant = errors.New("restaurant id не задан")

// Issue — отклонённая запись. SameAs — номер записи, чей id повторён.
type Issue struct {
	Line   int    `json:"line"`
	ID     string `json:"id,omitempty"`
	Reason string `json:"reason"`
	SameAs int    `json:"same_as,omitempty"`
}

// Report — итог проверки выгрузки.
type Report struct {
	Valid      int
	Invalid    int
	Duplicates int
	Issues     []Issue
}

// OK — ни одной отклонённой записи.
func (r Report) OK() bool { return r.Invalid == 0 && r.Duplicates == 0 }

// Summary — строка для человека.
func (r Report) Summary() string {
	return fmt.Sprintf("%d valid / %d invalid / %d duplicate", r.Valid, r.Invalid, r.Duplicates)
}

// Checker — проверка выгрузки одного ресторана. Не потокобезопасен.
type Checker struct {
	restaurantID string
	codec        *sheetcodec.Codec
	validator    ports.RecordValidator
}

// New — проверка для ресторана restaurantID в часовом поясе loc; now — момент выгрузки.
func New(restaurantID string, loc *time.Location, now time.Time, validator ports.RecordValidator) *Checker {
	return &Checker{
		restaurantID: restaurantID,
		codec:        sheetcodec.New(restaurantID, loc, now),
		validator:    validator,
	}
}

// CheckFile — проверка файла; формат auto выбирается по расширению (.jsonl, иначе JSON).
func (c *Checker) CheckFile(ctx context.Context, path string, format Format, w io.Writer) (Report, error) {
	if format == FormatAuto {
		format = FormatJSON
		if strings.EqualFold(filepath.Ext(path), ".jsonl") {
			format = FormatJSONL
		}
	}
	file, err := os.Open(path)
	if err != nil {
		return Report{}, fmt.Errorf("open file: %w", err)
	}
	defer file.Close()
	return c.Check(ctx, file, format, w)
}

// Check — проверка потока. Валидные брони пишутся в w каноническим JSON, по одной на строку;
// повтор id (в том числе совпадение естественного ключа у строк без id) считается дублем.
func (c *Checker) Check(ctx context.Context, r io.Reader, format Format, w io.Writer) (Report, error) {
	var (
		rep  Report
		seen = make(map[string]int)
	)
	emit := func(line int, raw []byte) error {
		rec, err := c.decode(ctx, raw)
		if err != nil {
			rep.Invalid++
			rep.Issues = append(rep.Issues, Issue{Line: line, ID: rec.ID, Reason: err.Error()})
			return nil
		}
		if first, dup := seen[rec.ID]; dup {
			rep.Duplicates++
			rep.Issues = append(rep.Issues, Issue{Line: line, ID: rec.ID, Reason: "duplicate id", SameAs: first})
			return nil
		}
		seen[rec.ID] = line

		canonical, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("marshal record %d: %w", line, err)
		}
		if _, err := w.Write(append(canonical, '\n')); err != nil {
			return fmt.Errorf("write record %d: %w", line, err)
		}
		rep.Valid++
		return nil
	}

	switch format {
	case FormatJSONL:
		scanner := bufio.NewScanner(r)
		scanner.Buffer(make([]byte, 0, 64*1024), 10*1024*1024)
		for line := 1; scanner.Scan(); line++ {
			raw := bytes.TrimSpace(scanner.Bytes())
			if len(raw) == 0 {
				continue
			}
			if err := emit(line, raw); err != nil {
				return rep, err
			}
		}
		if err := scanner.Err(); err != nil {
			return rep, fmt.Errorf("scan: %w", err)
		}
		return rep, nil

	case FormatJSON:
		body, err := io.ReadAll(r)
		if err != nil {
			return rep, fmt.Errorf("read: %w", err)
		}
		body = bytes.TrimSpace(body)
		if !bytes.HasPrefix(body, []byte("[")) {
			return rep, emit(1, body)
		}
		var items []json.RawMessage
		if err := json.Unmarshal(body, &items); err != nil {
			return rep, fmt.Errorf("%w: invalid json array: %v", validate.ErrInvalidRecord, err)
		}
		for i, raw := range items {
			if err := emit(i+1, raw); err != nil {
				return rep, err
			}
		}
		return rep, nil

	default:
		return rep, fmt.Errorf("unsupported format: %s", format)
	}
}

// decode — бронь из записи выгрузки. Наличие restaurant_id отличает каноническую запись от строки листа.
func (c *Checker) decode(ctx context.Context, raw []byte) (domain.ReservationRecord, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return domain.ReservationRecord{}, fmt.Errorf("%w: invalid json: %v", validate.ErrInvalidRecord, err)
	}

	if _, canonical := fields["restaurant_id"]; canonical {
		rec, err := validate.ValidateReservationFromJSON(ctx, c.validator, raw)
		if err != nil {
			return domain.ReservationRecord{}, err
		}
		if c.restaurantID != "" && rec.RestaurantID != c.restaurantID {
			return *rec, fmt.Errorf("%w: бронь ресторана %q", validate.ErrInvalidRecord, rec.RestaurantID)
		}
		return *rec, nil
	}

	if c.restaurantID == "" {
		return domain.ReservationRecord{}, ErrNoRestaurant
	}
	row := make(domain.SheetRow, len(fields))
	for header, v := range fields {
		row[sheetcodec.NormalizeHeader(header)] = cell(v)
	}
	rec, err := c.codec.Reservation(row)
	if err != nil {
		return rec, err
	}
	if err := c.validator.ValidateReservation(ctx, &rec); err != nil {
		return rec, err
	}
	return rec, nil
}

// cell — значение ячейки как текст: строки без кавычек, числа как есть, null пустой.
func cell(v json.RawMessage) string {
	var s string
	if err := json.Unmarshal(v, &s); err == nil {
		return strings.TrimSpace(s)
	}
	if t := strings.TrimSpace(string(v)); t != "null" {
		return t
	}
	return ""
}
