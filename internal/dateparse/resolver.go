// Пакет dateparse — разрешение дат на естественном языке ("mañana", "el viernes",
// "18 de octubre") в календарную дату часового пояса ресторана.
package dateparse

import (
	"strings"
	"time"

	"github.com/Gunvolt24/mesasync/internal/domain"
)

// Resolver — упорядоченный набор правил для одного часового пояса. Чистый, без состояния.
type Resolver struct {
	loc   *time.Location
	rules []rule
}

// New — резолвер для часового пояса loc (nil → UTC).
func New(loc *time.Location) *Resolver {
	if loc == nil {
		loc = time.UTC
	}
	return &Resolver{loc: loc, rules: defaultRules}
}

// Location — часовой пояс резолвера.
func (r *Resolver) Location() *time.Location { return r.loc }

// Resolve — дата для raw относительно reference. Детерминировано по (raw, reference, loc).
// Нераспознанное выражение → *domain.InvalidDateError; "сегодня" по умолчанию не подставляется.
func (r *Resolver) Resolve(raw string, reference time.Time) (domain.DateExpression, error) {
	ref := startOfDay(reference.In(r.loc))
	trimmed := strings.TrimSpace(raw)
	norm := normalize(trimmed)

	if norm != "" {
		for _, rl := range r.rules {
			if d, ok := rl.resolve(trimmed, norm, ref); ok {
				return domain.DateExpression{Raw: raw, Date: d.Format(isoLayout), Kind: rl.kind}, nil
			}
		}
	}
	return domain.DateExpression{Raw: raw, Kind: domain.DateInvalid}, &domain.InvalidDateError{Raw: raw}
}

// Today — дата reference в часовом поясе резолвера, YYYY-MM-DD.
func (r *Resolver) Today(reference time.Time) string {
	return reference.In(r.loc).Format(isoLayout)
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
