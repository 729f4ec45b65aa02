package ports

import "time"

// Clock — источник текущего времени (в тестах подменяется).
type Clock interface {
	Now() time.Time
}
