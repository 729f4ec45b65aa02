//go:build integration

package testutil

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

// UniqueTopicAndGroup — топик и группа с общим уникальным суффиксом.
// base="mesa-triggers" → "mesa-triggers-3f2a9c1b", "mesa-triggers-3f2a9c1b-g".
func UniqueTopicAndGroup(base string) (topic, group string) {
	topic = base + "-" + uuid.NewString()[:8]
	return topic, topic + "-g"
}

// EnsureTopics — создаёт топики через контроллер (существующие — не ошибка)
// и ждёт их появления в метаданных.
func EnsureTopics(ctx context.Context, broker string, topics ...string) error {
	broker = strings.TrimPrefix(strings.TrimSpace(strings.Split(broker, ",")[0]), "PLAINTEXT://")

	conn, err := kafka.DialContext(ctx, "tcp", broker)
	if err != nil {
		return err
	}
	defer conn.Close()

	ctrl, err := conn.Controller()
	if err != nil {
		return err
	}
	admin, err := kafka.DialContext(ctx, "tcp", net.JoinHostPort(ctrl.Host, strconv.Itoa(ctrl.Port)))
	if err != nil {
		return err
	}
	defer admin.Close()

	configs := make([]kafka.TopicConfig, 0, len(topics))
	for _, t := range topics {
		configs = append(configs, kafka.TopicConfig{Topic: t, NumPartitions: 1, ReplicationFactor: 1})
	}
	if err := admin.CreateTopics(configs...); err != nil && !strings.Contains(strings.ToLower(err.Error()), "already exists") {
		return err
	}

	for _, t := range topics {
		if err := waitTopicReady(ctx, broker, t); err != nil {
			return err
		}
	}
	return nil
}

func waitTopicReady(ctx context.Context, broker, topic string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tick := time.NewTicker(200 * time.Millisecond)
	defer tick.Stop()
	for {
		c, err := kafka.DialContext(ctx, "tcp", broker)
		if err == nil {
			parts, perr := c.ReadPartitions(topic)
			_ = c.Close()
			if perr == nil && len(parts) > 0 {
				return nil
			}
			err = perr
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("topic %q not ready: %w", topic, err)
		case <-tick.C:
		}
	}
}
