package event

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/khoahotran/devfolio/internal/application/service"
	"github.com/khoahotran/devfolio/internal/config"
	"github.com/khoahotran/devfolio/pkg/logger"
)

const TopicProfileEvents = "profile.events"

type profileAggregatedEvent struct {
	Type         string    `json:"type"`
	Handle       string    `json:"handle"`
	AggregatedAt time.Time `json:"aggregated_at"`
}

type kafkaPublisher struct {
	writer *kafka.Writer
	log    logger.Logger
}

func NewKafkaPublisher(cfg config.Config, log logger.Logger) (service.EventPublisher, error) {
	brokers := cfg.Kafka.Brokers
	if len(brokers) == 0 {
		return nil, fmt.Errorf("config Kafka brokers not found")
	}

	writer := &kafka.Writer{
		Addr:     kafka.TCP(brokers...),
		Topic:    TopicProfileEvents,
		Balancer: &kafka.LeastBytes{},
	}

	log.Info("Initialize Kafka producer successfully.")
	return &kafkaPublisher{writer: writer, log: log}, nil
}

func (p *kafkaPublisher) PublishProfileAggregated(ctx context.Context, handle string) error {
	payload, err := json.Marshal(profileAggregatedEvent{
		Type:         "profile.aggregated",
		Handle:       handle,
		AggregatedAt: time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("marshal profile event: %w", err)
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(handle),
		Value: payload,
	})
	if err != nil {
		return fmt.Errorf("write profile event: %w", err)
	}

	p.log.Debug("published profile.aggregated", zap.String("handle", handle))
	return nil
}

func (p *kafkaPublisher) Close() {
	if p.writer != nil {
		p.writer.Close()
	}
}
