package kafka

//go:generate go run go.uber.org/mock/mockgen -source=./kafka.go -destination=./mocks/kafka_mock.go -package=mocks

import (
	"barber/config"
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"
	kafkaGo "github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl/plain"
)

const defaultTopic = "barber.bookings"

type Message struct {
	Key   string
	Value any
}

func (m *Message) ToKafkaMessage() (kafkaGo.Message, error) {
	jsonValue, err := json.Marshal(m.Value)
	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal message value to JSON")

		return kafkaGo.Message{}, fmt.Errorf("failed to marshal message value to JSON: %w", err)
	}

	return kafkaGo.Message{
		Key:   []byte(m.Key),
		Value: jsonValue,
	}, nil
}

// Producer publishes booking lifecycle messages.
type Producer interface {
	SendMessages(ctx context.Context, messages ...Message) (err error)
	Enabled() bool
	Close(ctx context.Context) error
}

type producerImpl struct {
	writer *kafkaGo.Writer
}

// New returns a producer for the configured topic, or a no-op producer when
// kafka is disabled.
func New(config *config.Config) Producer {
	if !config.Kafka.Enable || len(config.Kafka.Brokers) == 0 {
		log.Info().Msg("Kafka disabled, booking events are not published")

		return noopProducer{}
	}

	transport := &kafkaGo.Transport{}
	if config.Kafka.SASL.Username != "" {
		transport.SASL = plain.Mechanism{
			Username: config.Kafka.SASL.Username,
			Password: config.Kafka.SASL.Password,
		}
	}

	topic := config.Kafka.Topic
	if topic == "" {
		topic = defaultTopic
	}

	log.Info().Str("topic", topic).Strs("brokers", config.Kafka.Brokers).Msg("Kafka producer initialized")

	return &producerImpl{
		writer: &kafkaGo.Writer{
			Addr:                   kafkaGo.TCP(config.Kafka.Brokers...),
			Topic:                  topic,
			Transport:              transport,
			Balancer:               &kafkaGo.Hash{},
			AllowAutoTopicCreation: true,
		},
	}
}

func (k *producerImpl) Enabled() bool {
	return true
}

func (k *producerImpl) SendMessages(ctx context.Context, messages ...Message) (err error) {
	msgs := make([]kafkaGo.Message, 0, len(messages))

	for _, message := range messages {
		msg, err := message.ToKafkaMessage()
		if err != nil {
			log.Error().Err(err).Str("topic", k.writer.Topic).Msg("Failed to convert message to Kafka message.")

			return fmt.Errorf("failed to convert message to Kafka message: %w", err)
		}

		msgs = append(msgs, msg)
	}

	err = k.writer.WriteMessages(ctx, msgs...)
	if err != nil {
		log.Error().Err(err).Str("topic", k.writer.Topic).Msg("Failed to send message to Kafka.")

		return fmt.Errorf("failed to send message to Kafka: %w", err)
	}

	log.Info().Str("topic", k.writer.Topic).Int("count", len(msgs)).Msg("Sent message successfully.")

	return nil
}

// Close flushes pending writes. It gives up when ctx is done.
func (k *producerImpl) Close(ctx context.Context) error {
	done := make(chan error, 1)

	go func() {
		done <- k.writer.Close()
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("failed to close Kafka writer: %w", err)
		}

		log.Info().Str("topic", k.writer.Topic).Msg("Kafka producer closed.")

		return nil
	case <-ctx.Done():
		log.Warn().Str("topic", k.writer.Topic).Msg("Kafka producer did not flush before shutdown deadline.")

		return fmt.Errorf("closing Kafka writer: %w", ctx.Err())
	}
}

type noopProducer struct{}

func (noopProducer) Enabled() bool { return false }

func (noopProducer) SendMessages(context.Context, ...Message) error { return nil }

func (noopProducer) Close(context.Context) error { return nil }
