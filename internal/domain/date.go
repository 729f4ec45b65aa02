package domain

import "fmt"

// DateKind — как было разрешено выражение даты.
type DateKind string

const (
	DateLiteral     DateKind = "literal"
	DateRelativeDay DateKind = "relative-day"
	DateWeekdayName DateKind = "weekday-name"
	DateInvalid     DateKind = "invalid"
)

// DateExpression — результат разрешения даты.
type DateExpression struct {
	Raw  string   `json:"raw"`
	Date string   `json:"date,omitempty"` // YYYY-MM-DD
	Kind DateKind `json:"kind"`
}

// InvalidDateError — структурированный отказ: выражение не распознано.
type InvalidDateError struct {
	Raw string
}

func (e *InvalidDateError) Error() string {
	return fmt.Sprintf("invalid date expression %q", e.Raw)
}

// Is — позволяет errors.Is(err, ErrInvalidDateExpression).
func (e *InvalidDateError) Is(target error) bool { return target == ErrInvalidDateExpression }
