package events

import (
	"context"
	"fmt"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/limitedgamerz39-afk/friendflix/internal/pkg/log"
	platformconfig "github.com/limitedgamerz39-afk/friendflix/internal/platform/config"
)

// KafkaPublisher writes events as JSON messages to a single topic.
type KafkaPublisher struct {
	writer  *kafkago.Writer
	timeout time.Duration
}

func NewKafkaPublisher(cfg platformconfig.EventsConfig) *KafkaPublisher {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireOne,
		WriteTimeout: cfg.WriteTimeout,
	}
	return &KafkaPublisher{writer: w, timeout: cfg.WriteTimeout}
}

func (p *KafkaPublisher) Publish(ctx context.Context, evt *Event) error {
	value, err := evt.ToJSON()
	if err != nil {
		return fmt.Errorf("encode event %s: %w", evt.Type, err)
	}
	msg := kafkago.Message{
		Key:   []byte(evt.Key),
		Value: value,
		Time:  evt.Timestamp,
		Headers: []kafkago.Header{
			{Key: "type", Value: []byte(evt.Type)},
		},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write event %s: %w", evt.Type, err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// NewPublisher returns a Kafka publisher when events are enabled, otherwise a no-op.
func NewPublisher(cfg platformconfig.EventsConfig) Publisher {
	if !cfg.Enabled {
		return NopPublisher{}
	}
	log.Info("Publishing domain events to Kafka topic %s", cfg.Topic)
	return NewKafkaPublisher(cfg)
}

// Emit publishes evt in the background. Failures are logged and never reach the caller.
func Emit(pub Publisher, evt *Event) {
	if pub == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := pub.Publish(ctx, evt); err != nil {
			log.Warn("event %s (%s) not published: %v", evt.Type, evt.Key, err)
		}
	}()
}
