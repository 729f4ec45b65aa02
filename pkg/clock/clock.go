// Пакет clock — источники времени: системный и ручной (для тестов и CLI).
package clock

import (
	"sync"
	"time"
)

// System — текущее время ОС.
type System struct{}

func (System) Now() time.Time { return time.Now() }

// Manual — время, которое двигается только явно.
type Manual struct {
	mu  sync.Mutex
	now time.Time
}

// NewManual — часы, остановленные на start.
func NewManual(start time.Time) *Manual {
	return &Manual{now: start}
}

func (m *Manual) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Advance — сдвинуть часы вперёд на d.
func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	m.now = m.now.Add(d)
	m.mu.Unlock()
}

// Set — выставить конкретный момент.
func (m *Manual) Set(t time.Time) {
	m.mu.Lock()
	m.now = t
	m.mu.Unlock()
}
