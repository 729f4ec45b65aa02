package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/Gunvolt24/mesasync/internal/domain"
	"github.com/Gunvolt24/mesasync/internal/ports"
	"github.com/Gunvolt24/mesasync/pkg/metrics"
)

var _ ports.EventPublisher = (*Producer)(nil)

// writer — контракт над kafka.Writer для подмены в тестах.
type writer interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Producer — публикация событий об изменениях; ключ сообщения — id ресторана,
// поэтому события одного ресторана идут в одну партицию по порядку.
type Producer struct {
	writer    writer
	log       ports.Logger
	closeOnce sync.Once
}

// NewProducer — конструктор поверх kafka.Writer с hash-балансировкой по ключу.
func NewProducer(cfg *ProducerConfig, log ports.Logger) *Producer {
	bt := cfg.BatchTimeout
	if bt <= 0 {
		bt = 50 * time.Millisecond
	}
	wt := cfg.WriteTimeout
	if wt <= 0 {
		wt = 10 * time.Second
	}
	w := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Topic:                  cfg.Topic,
		Balancer:               &kafka.Hash{},
		BatchTimeout:           bt,
		WriteTimeout:           wt,
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
	}
	return &Producer{writer: w, log: log}
}

// Publish — записать пачку событий одним вызовом.
func (p *Producer) Publish(ctx context.Context, events []domain.ChangeEvent) error {
	if len(events) == 0 {
		return nil
	}

	msgs := make([]kafka.Message, 0, len(events))
	for _, e := range events {
		value, err := json.Marshal(e)
		if err != nil {
			return fmt.Errorf("marshal event %s: %w", e.ID, err)
		}
		msgs = append(msgs, kafka.Message{
			Key:   []byte(e.RestaurantID),
			Value: value,
			Time:  e.Timestamp,
			Headers: []kafka.Header{
				{Key: "event_type", Value: []byte(e.Type)},
			},
		})
	}

	if err := p.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("write events: %w", err)
	}
	for _, e := range events {
		metrics.KafkaEventsPublished.WithLabelValues(string(e.Type)).Inc()
	}
	return nil
}

// Close — дождаться отправки буфера и закрыть writer.
func (p *Producer) Close() (retErr error) {
	p.closeOnce.Do(func() {
		retErr = p.writer.Close()
	})
	return retErr
}
