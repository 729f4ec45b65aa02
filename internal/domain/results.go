package domain

import "time"

// EntityCount — сколько записей реально изменено.
type EntityCount struct {
	Synced int `json:"synced"`
}

// SyncResult — итог синхронизации ресторана.
type SyncResult struct {
	RestaurantID string      `json:"restaurant_id"`
	Synced       bool        `json:"synced"`
	Skipped      bool        `json:"skipped,omitempty"`
	Reservations EntityCount `json:"reservations"`
	Tables       EntityCount `json:"tables"`
	Conflicts    int         `json:"conflicts,omitempty"`
	SyncedAt     *time.Time  `json:"synced_at,omitempty"`
	Error        string      `json:"error,omitempty"`
	ErrorKind    string      `json:"error_kind,omitempty"`
	Err          error       `json:"-"`
}

// Failed — пасс завершился ошибкой.
func (r SyncResult) Failed() bool { return r.Err != nil }

// ReleaseResult — итог прохода авто-освобождения столов.
type ReleaseResult struct {
	RestaurantID       string `json:"restaurant_id"`
	Released           int    `json:"released"`
	PendingSheetWrites int    `json:"pending_sheet_writes"`
	Error              string `json:"error,omitempty"`
	ErrorKind          string `json:"error_kind,omitempty"`
	Err                error  `json:"-"`
}

// Failed — проход завершился ошибкой.
func (r ReleaseResult) Failed() bool { return r.Err != nil }

// WithError — заполняет поля ошибки результата синхронизации.
func (r SyncResult) WithError(err error) SyncResult {
	r.Err = err
	if err != nil {
		r.Error = err.Error()
		r.ErrorKind = ErrorKind(err)
	}
	return r
}

// WithError — заполняет поля ошибки результата освобождения.
func (r ReleaseResult) WithError(err error) ReleaseResult {
	r.Err = err
	if err != nil {
		r.Error = err.Error()
		r.ErrorKind = ErrorKind(err)
	}
	return r
}
