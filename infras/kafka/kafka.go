package kafka

//go:generate go run go.uber.org/mock/mockgen -source=./kafka.go -destination=./mocks/kafka_mock.go -package=mocks

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"lodge/config"

	"github.com/rs/zerolog/log"
	kafkaGo "github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl/plain"
)

// Message is a JSON-encoded record. Messages sharing a Key land on the same partition, so events
// of one booking are consumed in order.
type Message struct {
	Key     string
	Value   any
	Headers map[string]string
}

func (m *Message) encode(topic string) (kafkaGo.Message, error) {
	value, err := json.Marshal(m.Value)
	if err != nil {
		return kafkaGo.Message{}, fmt.Errorf("failed to encode message %q: %w", m.Key, err)
	}

	keys := make([]string, 0, len(m.Headers))
	for key := range m.Headers {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	headers := make([]kafkaGo.Header, 0, len(keys))
	for _, key := range keys {
		headers = append(headers, kafkaGo.Header{Key: key, Value: []byte(m.Headers[key])})
	}

	return kafkaGo.Message{
		Topic:   topic,
		Key:     []byte(m.Key),
		Value:   value,
		Headers: headers,
	}, nil
}

type Client interface {
	SendMessages(ctx context.Context, topic string, messages ...Message) (err error)
	Close() error
}

type producer struct {
	writer *kafkaGo.Writer
}

// New returns a producer for the configured brokers. When Kafka is disabled the returned client
// drops every message.
func New(cfg *config.Config) Client {
	if !cfg.Kafka.Enable || len(cfg.Kafka.Brokers) == 0 {
		log.Warn().Msg("Kafka disabled, booking events will not be published")

		return discard{}
	}

	transport := &kafkaGo.Transport{}
	if cfg.Kafka.SASL.Username != "" {
		transport.SASL = plain.Mechanism{
			Username: cfg.Kafka.SASL.Username,
			Password: cfg.Kafka.SASL.Password,
		}
	}

	writer := &kafkaGo.Writer{
		Addr:                   kafkaGo.TCP(cfg.Kafka.Brokers...),
		Balancer:               &kafkaGo.Hash{},
		Transport:              transport,
		RequiredAcks:           kafkaGo.RequireOne,
		AllowAutoTopicCreation: true,
		Async:                  true,
		Completion: func(messages []kafkaGo.Message, err error) {
			if err != nil {
				log.Error().Err(err).Int("count", len(messages)).Msg("Kafka delivery failed")
			}
		},
	}

	log.Info().Strs("brokers", cfg.Kafka.Brokers).Msg("Kafka producer initialized")

	return &producer{writer: writer}
}

func (p *producer) SendMessages(ctx context.Context, topic string, messages ...Message) error {
	records := make([]kafkaGo.Message, 0, len(messages))

	for _, message := range messages {
		record, err := message.encode(topic)
		if err != nil {
			return err
		}

		records = append(records, record)
	}

	if err := p.writer.WriteMessages(ctx, records...); err != nil {
		return fmt.Errorf("failed to write %d message(s) to %s: %w", len(records), topic, err)
	}

	log.Debug().Str("topic", topic).Int("count", len(records)).Msg("Queued Kafka messages")

	return nil
}

func (p *producer) Close() error {
	if err := p.writer.Close(); err != nil {
		return fmt.Errorf("failed to close Kafka writer: %w", err)
	}

	return nil
}

type discard struct{}

func (discard) SendMessages(_ context.Context, topic string, messages ...Message) error {
	log.Debug().Str("topic", topic).Int("count", len(messages)).Msg("Kafka disabled, messages dropped")

	return nil
}

func (discard) Close() error {
	return nil
}
