package usecase

import (
	"sort"
	"sync"
	"time"

	"github.com/Gunvolt24/mesasync/internal/domain"
	"github.com/Gunvolt24/mesasync/pkg/metrics"
)

// PendingWrite — отложенная запись состояния стола в таблицу.
type PendingWrite struct {
	RestaurantID string
	TableID      string
	Row          domain.SheetRow
	QueuedAt     time.Time
	Attempts     int
	LastError    string
	version      uint64
}

// Outbox — очередь записей в таблицу, не прошедших с первого раза.
// На стол хранится только последняя запись: более новое состояние вытесняет старое.
type Outbox struct {
	mu      sync.Mutex
	items   map[string]map[string]*PendingWrite // restaurant → table → запись
	version uint64
}

func NewOutbox() *Outbox {
	return &Outbox{items: make(map[string]map[string]*PendingWrite)}
}

// Enqueue — поставить (или заменить) запись для стола.
func (o *Outbox) Enqueue(restaurantID, tableID string, row domain.SheetRow, at time.Time, cause error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	byTable, ok := o.items[restaurantID]
	if !ok {
		byTable = make(map[string]*PendingWrite)
		o.items[restaurantID] = byTable
	}
	o.version++
	pw := &PendingWrite{
		RestaurantID: restaurantID,
		TableID:      tableID,
		Row:          row.Clone(),
		QueuedAt:     at,
		Attempts:     1,
		version:      o.version,
	}
	if cause != nil {
		pw.LastError = cause.Error()
	}
	byTable[tableID] = pw
	o.updateGauge()
}

// Has — есть ли отложенная запись для стола.
func (o *Outbox) Has(restaurantID, tableID string) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	_, ok := o.items[restaurantID][tableID]
	return ok
}

// Pending — число отложенных записей ресторана.
func (o *Outbox) Pending(restaurantID string) int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.items[restaurantID])
}

// Snapshot — копии отложенных записей ресторана в порядке постановки.
func (o *Outbox) Snapshot(restaurantID string) []PendingWrite {
	o.mu.Lock()
	defer o.mu.Unlock()

	out := make([]PendingWrite, 0, len(o.items[restaurantID]))
	for _, pw := range o.items[restaurantID] {
		cp := *pw
		cp.Row = pw.Row.Clone()
		out = append(out, cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].version < out[j].version })
	return out
}

// Ack — запись доставлена. Если за это время стол поставили в очередь заново,
// новая запись остаётся.
func (o *Outbox) Ack(pw PendingWrite) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if cur, ok := o.items[pw.RestaurantID][pw.TableID]; ok && cur.version == pw.version {
		delete(o.items[pw.RestaurantID], pw.TableID)
		if len(o.items[pw.RestaurantID]) == 0 {
			delete(o.items, pw.RestaurantID)
		}
	}
	o.updateGauge()
}

// Failed — очередная попытка не удалась.
func (o *Outbox) Failed(pw PendingWrite, cause error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if cur, ok := o.items[pw.RestaurantID][pw.TableID]; ok && cur.version == pw.version {
		cur.Attempts++
		if cause != nil {
			cur.LastError = cause.Error()
		}
	}
}

// updateGauge — вызывается под o.mu.
func (o *Outbox) updateGauge() {
	total := 0
	for _, byTable := range o.items {
		total += len(byTable)
	}
	metrics.PendingSheetWrites.Set(float64(total))
}
