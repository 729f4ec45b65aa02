package domain

// Листы таблицы ресторана.
const (
	SheetTables       = "Mesas"
	SheetReservations = "Reservas"
	SheetClosedDays   = "DiasCerrados"
	SheetShifts       = "Turnos"
)

// Префиксы ключей кэша для листов.
const (
	CachePrefixTables       = "mesas"
	CachePrefixReservations = "reservas"
	CachePrefixClosedDays   = "cerrados"
	CachePrefixShifts       = "turnos"
)

// SheetRow — строка листа: нормализованный заголовок колонки → значение ячейки.
type SheetRow map[string]string

// Clone — глубокая копия строки.
func (r SheetRow) Clone() SheetRow {
	if r == nil {
		return nil
	}
	out := make(SheetRow, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// CloneRows — копия набора строк (кэш отдаёт копии, а не внутренние значения).
func CloneRows(rows []SheetRow) []SheetRow {
	if rows == nil {
		return nil
	}
	out := make([]SheetRow, len(rows))
	for i, r := range rows {
		out[i] = r.Clone()
	}
	return out
}

// CacheKey — ключ кэша для листа ресторана, например "reservas:<id>".
func CacheKey(prefix, restaurantID string) string {
	return prefix + ":" + restaurantID
}

// Shift — смена (интервал работы зала), HH:MM.
type Shift struct {
	Name  string
	Start string
	End   string
}

// Contains — попадает ли время HH:MM в смену. Смена через полночь поддерживается.
func (s Shift) Contains(hhmm string) bool {
	if s.Start <= s.End {
		return hhmm >= s.Start && hhmm <= s.End
	}
	return hhmm >= s.Start || hhmm <= s.End
}
