package ports

import (
	"context"

	"github.com/Gunvolt24/mesasync/internal/domain"
)

// EventPublisher — доставка событий об изменениях подписчикам (дашборды).
type EventPublisher interface {
	Publish(ctx context.Context, events []domain.ChangeEvent) error
}
