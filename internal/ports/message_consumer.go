package ports

import "context"

// MessageConsumer — источник внешних триггеров синхронизации; Run блокирует до отмены ctx.
type MessageConsumer interface {
	Run(ctx context.Context) error
	Close() error
}
