package events

import (
	"context"

	"github.com/Gunvolt24/mesasync/internal/domain"
	"github.com/Gunvolt24/mesasync/internal/ports"
)

var _ ports.EventPublisher = (*LogPublisher)(nil)

// LogPublisher — пишет события в лог (CLI и запуск без Kafka).
type LogPublisher struct {
	log ports.Logger
}

func NewLogPublisher(log ports.Logger) *LogPublisher { return &LogPublisher{log: log} }

func (p *LogPublisher) Publish(ctx context.Context, evs []domain.ChangeEvent) error {
	for _, ev := range evs {
		p.log.Infof(ctx, "event type=%s restaurant=%s entity=%s payload=%s",
			ev.Type, ev.RestaurantID, ev.EntityID, ev.Payload)
	}
	return nil
}
