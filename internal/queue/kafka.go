package queue

import (
	"context"
	"encoding/json"
	"time"

	"github.com/confluentinc/confluent-kafka-go/kafka"
	"github.com/sirupsen/logrus"

	"github.com/aivahq/dupwatch/internal/notify"
)

// NewKafkaQueue runs the alert queue over a kafka topic. Used when multiple
// consumers or durable replay of alert events matter more than the simpler
// redis list.
func NewKafkaQueue(brokers, topic, group string) (*KafkaQueue, error) {
	producer, err := kafka.NewProducer(&kafka.ConfigMap{
		"bootstrap.servers": brokers,
	})
	if err != nil {
		return nil, err
	}

	consumer, err := kafka.NewConsumer(&kafka.ConfigMap{
		"bootstrap.servers": brokers,
		"group.id":          group,
		"auto.offset.reset": "earliest",
	})
	if err != nil {
		producer.Close()
		return nil, err
	}

	return &KafkaQueue{
		producer: producer,
		consumer: consumer,
		topic:    topic,
	}, nil
}

var _ AlertQueue = (*KafkaQueue)(nil)

type KafkaQueue struct {
	producer *kafka.Producer
	consumer *kafka.Consumer
	topic    string
}

func (q *KafkaQueue) Publish(ctx context.Context, payload *notify.AlertPayload) error {
	value, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	delivery := make(chan kafka.Event, 1)
	err = q.producer.Produce(&kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &q.topic, Partition: kafka.PartitionAny},
		Key:            []byte(payload.Identifier),
		Value:          value,
	}, delivery)
	if err != nil {
		return err
	}

	select {
	case ev := <-delivery:
		if msg, ok := ev.(*kafka.Message); ok {
			return msg.TopicPartition.Error
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (q *KafkaQueue) Subscribe(ctx context.Context) (<-chan *notify.AlertPayload, error) {
	if err := q.consumer.Subscribe(q.topic, nil); err != nil {
		return nil, err
	}

	out := make(chan *notify.AlertPayload)

	go func() {
		defer close(out)
		for {
			if ctx.Err() != nil {
				return
			}

			msg, err := q.consumer.ReadMessage(time.Second)
			if err != nil {
				if kerr, ok := err.(kafka.Error); ok && kerr.Code() == kafka.ErrTimedOut {
					continue
				}
				logrus.Errorf("alert queue read failed: %v", err)
				continue
			}

			payload := &notify.AlertPayload{}
			if err := json.Unmarshal(msg.Value, payload); err != nil {
				logrus.Errorf("discarding malformed alert event: %v", err)
				continue
			}

			select {
			case out <- payload:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, nil
}

func (q *KafkaQueue) Close() error {
	q.producer.Close()
	return q.consumer.Close()
}
