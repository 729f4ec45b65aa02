package dateparse

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/Gunvolt24/mesasync/internal/domain"
)

const isoLayout = "2006-01-02"

// rule — одно правило разрешения: сопоставление и вычисление даты.
// raw — исходная строка без краевых пробелов, norm — нормализованная.
type rule struct {
	name    string
	kind    domain.DateKind
	resolve func(raw, norm string, ref time.Time) (time.Time, bool)
}

// defaultRules — порядок важен: первое совпадение выигрывает.
var defaultRules = []rule{
	{name: "iso", kind: domain.DateLiteral, resolve: resolveISO},
	{name: "numeric", kind: domain.DateLiteral, resolve: resolveNumeric},
	{name: "day-month-name", kind: domain.DateLiteral, resolve: resolveMonthName},
	{name: "relative", kind: domain.DateRelativeDay, resolve: resolveRelative},
	{name: "weekday", kind: domain.DateWeekdayName, resolve: resolveWeekday},
}

var isoRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

func resolveISO(raw, _ string, ref time.Time) (time.Time, bool) {
	if !isoRe.MatchString(raw) {
		return time.Time{}, false
	}
	d, err := time.ParseInLocation(isoLayout, raw, ref.Location())
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}

var (
	dmyRe = regexp.MustCompile(`^(\d{1,2})[/-](\d{1,2})[/-](\d{4})$`)
	dmRe  = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})$`)
)

// resolveNumeric — DD/MM/YYYY, DD-MM-YYYY и DD/MM (ближайшее наступление, не раньше ref).
func resolveNumeric(raw, _ string, ref time.Time) (time.Time, bool) {
	if m := dmyRe.FindStringSubmatch(raw); m != nil {
		return makeDate(atoi(m[3]), atoi(m[2]), atoi(m[1]), ref.Location())
	}
	if m := dmRe.FindStringSubmatch(raw); m != nil {
		return nextOccurrence(atoi(m[2]), atoi(m[1]), ref)
	}
	return time.Time{}, false
}

var monthNames = map[string]time.Month{
	"enero": time.January, "febrero": time.February, "marzo": time.March,
	"abril": time.April, "mayo": time.May, "junio": time.June,
	"julio": time.July, "agosto": time.August, "septiembre": time.September,
	"setiembre": time.September, "octubre": time.October, "noviembre": time.November,
	"diciembre": time.December,
}

var monthNameRe = regexp.MustCompile(`^(?:el )?(\d{1,2}) de ([a-z]+)(?: de(?:l)? (\d{4}))?$`)

// resolveMonthName — "18 de octubre", "el 3 de mayo de 2026".
func resolveMonthName(_, norm string, ref time.Time) (time.Time, bool) {
	m := monthNameRe.FindStringSubmatch(norm)
	if m == nil {
		return time.Time{}, false
	}
	month, ok := monthNames[m[2]]
	if !ok {
		return time.Time{}, false
	}
	if m[3] != "" {
		return makeDate(atoi(m[3]), int(month), atoi(m[1]), ref.Location())
	}
	return nextOccurrence(int(month), atoi(m[1]), ref)
}

var relativeDays = map[string]int{
	"hoy": 0, "esta noche": 0, "today": 0, "tonight": 0,
	"manana": 1, "tomorrow": 1,
	"pasado manana": 2, "day after tomorrow": 2,
}

func resolveRelative(_, norm string, ref time.Time) (time.Time, bool) {
	if offset, ok := relativeDays[norm]; ok {
		return ref.AddDate(0, 0, offset), true
	}
	// "para hoy", "para manana"
	if len(norm) > 5 && norm[:5] == "para " {
		if offset, ok := relativeDays[norm[5:]]; ok {
			return ref.AddDate(0, 0, offset), true
		}
	}
	return time.Time{}, false
}

var weekdays = map[string]time.Weekday{
	"domingo": time.Sunday, "lunes": time.Monday, "martes": time.Tuesday,
	"miercoles": time.Wednesday, "jueves": time.Thursday, "viernes": time.Friday,
	"sabado": time.Saturday,
	"sunday": time.Sunday, "monday": time.Monday, "tuesday": time.Tuesday,
	"wednesday": time.Wednesday, "thursday": time.Thursday, "friday": time.Friday,
	"saturday": time.Saturday,
}

// resolveWeekday — ближайший такой день строго после ref (тот же день недели → +7).
func resolveWeekday(_, norm string, ref time.Time) (time.Time, bool) {
	target, ok := weekdays[stripFiller(norm)]
	if !ok {
		return time.Time{}, false
	}
	delta := (int(target) - int(ref.Weekday()) + 7) % 7
	if delta == 0 {
		delta = 7
	}
	return ref.AddDate(0, 0, delta), true
}

// makeDate — дата, только если она существует в календаре (без переполнения 30.02 → 02.03).
func makeDate(year, month, day int, loc *time.Location) (time.Time, bool) {
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, false
	}
	d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, loc)
	if d.Day() != day || int(d.Month()) != month {
		return time.Time{}, false
	}
	return d, true
}

// nextOccurrence — ближайшая дата day.month не раньше ref; 29.02 ищется до високосного года.
func nextOccurrence(month, day int, ref time.Time) (time.Time, bool) {
	for year := ref.Year(); year <= ref.Year()+4; year++ {
		if d, ok := makeDate(year, month, day, ref.Location()); ok && !d.Before(ref) {
			return d, true
		}
	}
	return time.Time{}, false
}

// HasYear — выражение само задаёт год (ISO, DD/MM/YYYY, "3 de mayo de 2026").
// Без года дата зависит от момента разрешения.
func HasYear(raw string) bool {
	trimmed := strings.TrimSpace(raw)
	if isoRe.MatchString(trimmed) || dmyRe.MatchString(trimmed) {
		return true
	}
	m := monthNameRe.FindStringSubmatch(normalize(trimmed))
	return m != nil && m[3] != ""
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
