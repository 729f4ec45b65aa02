package kafka

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/segmentio/kafka-go"

	"github.com/Gunvolt24/mesasync/internal/domain"
	"github.com/Gunvolt24/mesasync/pkg/ctxmeta"
	"github.com/Gunvolt24/mesasync/pkg/metrics"
	"github.com/Gunvolt24/mesasync/pkg/validate"
)

// handleMessage обрабатывает одно сообщение и определяет нужно ли коммитить оффсет.
// Ключ сообщения — id ресторана; он попадает в контекст для логов.
func (c *Consumer) handleMessage(ctx context.Context, topic string, msg *kafka.Message) bool {
	ctx = ctxmeta.WithRestaurantID(ctx, string(msg.Key))
	ctxTimeout, cancel := context.WithTimeout(ctx, c.processTimeout)
	err := c.service.SyncFromMessage(ctxTimeout, msg.Value)
	cancel()

	switch {
	case err == nil:
		metrics.KafkaMessagesProcessed.WithLabelValues(topic).Inc()
		return true
	case errors.Is(err, validate.ErrInvalidTrigger):
		// Повтор не поможет: коммитим и идём дальше
		metrics.KafkaMessagesFailed.WithLabelValues(topic).Inc()
		c.log.Warnf(ctx, "invalid trigger partition=%d offset=%d: %v (skipped)", msg.Partition, msg.Offset, err)
		return true
	default:
		// Временная ошибка (таблица/БД/таймаут): НЕ коммитим
		metrics.KafkaMessagesFailed.WithLabelValues(topic).Inc()
		c.log.Warnf(ctx, "sync failed partition=%d offset=%d kind=%s: %v (will retry without commit)",
			msg.Partition, msg.Offset, domain.ErrorKind(err), err)
		return false
	}
}

// commitSafely пытается закоммитить оффсет и залогировать ошибку.
func (c *Consumer) commitSafely(ctx context.Context, msg *kafka.Message) {
	if commitErr := c.reader.CommitMessages(ctx, *msg); commitErr != nil {
		c.log.Warnf(ctx, "commit failed offset=%d: %v", msg.Offset, commitErr)
	}
}

// sleepWithBackoff ждет d или останавливается по контексту.
func (c *Consumer) sleepWithBackoff(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// newBackOff — экспоненциальный backoff без ограничения по времени;
// RandomizationFactor 0.5 разносит повторы разных инстансов.
func (c *Consumer) newBackOff() *backoff.ExponentialBackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.retryInitial
	b.MaxInterval = c.retryMax
	b.RandomizationFactor = 0.5
	b.MaxElapsedTime = 0
	b.Reset()
	return b
}

// pauseAfterFailure — короткая пауза с джиттером после временной ошибки обработки.
func (c *Consumer) pauseAfterFailure() time.Duration {
	b := c.newBackOff()
	b.InitialInterval = minDuration(c.retryInitial, 500*time.Millisecond)
	b.Reset()
	return b.NextBackOff()
}

// minDuration возвращает минимальное время из двух.
func minDuration(a, b time.Duration) time.Duration {
	if a < b {
		return a
	}
	return b
}
