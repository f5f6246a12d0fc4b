package events

import (
	"context"
	"fmt"

	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/segmentio/kafka-go"
	"google.golang.org/protobuf/proto"
)

// MessageWriter is the part of *kafka.Writer the publisher needs.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// Publisher writes outcome events to Kafka, keyed by page title.
type Publisher struct {
	writer MessageWriter
}

func NewPublisher(writer MessageWriter) *Publisher {
	return &Publisher{writer: writer}
}

// Publish sends all events in one batch.
func (p *Publisher) Publish(ctx context.Context, evts []OutcomeEvent) error {
	if len(evts) == 0 {
		return nil
	}
	msgs := make([]kafka.Message, 0, len(evts))
	for _, evt := range evts {
		st, err := evt.Struct()
		if err != nil {
			return fmt.Errorf("converting event for %q: %w", evt.Title, err)
		}
		value, err := proto.Marshal(st)
		if err != nil {
			return fmt.Errorf("marshalling event for %q: %w", evt.Title, err)
		}
		msgs = append(msgs, kafka.Message{Key: []byte(evt.Title), Value: value})
	}
	if err := p.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("failed to publish outcome events: %w", err)
	}
	hlog.CtxInfof(ctx, "Published %d outcome events", len(msgs))
	return nil
}
