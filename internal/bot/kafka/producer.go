package kafka

import (
	"log"

	"github.com/segmentio/kafka-go"
)

// NewOutcomeProducer returns a synchronous writer for the outcome topic.
func NewOutcomeProducer(brokers []string, topic string) *kafka.Writer {
	producer := kafka.NewWriter(kafka.WriterConfig{
		Brokers:      brokers,
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: int(kafka.RequireOne),
		Async:        false,
	})
	log.Printf("Herhaalbot Kafka producer configured for topic: %s", topic)
	return producer
}
