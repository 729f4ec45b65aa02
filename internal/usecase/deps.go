package usecase

import (
	"github.com/Gunvolt24/mesasync/internal/ports"
)

// Deps — общие зависимости сервисов ядра.
type Deps struct {
	Mirror    ports.SpreadsheetMirror
	Store     ports.LocalStore
	Registry  ports.RestaurantRegistry
	Publisher ports.EventPublisher
	Validator ports.RecordValidator
	Clock     ports.Clock
	Log       ports.Logger
	Locks     *RestaurantLocks
	Outbox    *Outbox
	Reader    *SheetReader
}
