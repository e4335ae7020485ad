package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"md-export-be/internal/dto"
	"md-export-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishExportEventReachesSubscriber(t *testing.T) {
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	defer pubSub.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	messages, err := pubSub.Subscribe(ctx, "export-events")
	require.NoError(t, err)

	svc := NewPublisherService("export-events", pubSub, nil, noopLogger{})
	sent := &dto.PublishExportEventMessage{
		EventType:    events.TypeExportCompleted,
		ExportId:     "exp-1",
		Format:       FormatDocx,
		SizeBytes:    1024,
		DiagramCount: 2,
		DurationMs:   37,
	}
	require.NoError(t, svc.PublishExportEvent(ctx, sent))

	select {
	case msg := <-messages:
		var got dto.PublishExportEventMessage
		require.NoError(t, json.Unmarshal(msg.Payload, &got))
		assert.Equal(t, *sent, got)
		msg.Ack()
	case <-ctx.Done():
		t.Fatal("published event never reached the subscriber")
	}
}

func TestConsumerAcksMessages(t *testing.T) {
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	defer pubSub.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	consumer := NewConsumerService(pubSub, "export-events", noopLogger{})
	require.NoError(t, consumer.Consume(ctx))

	svc := NewPublisherService("export-events", pubSub, nil, noopLogger{})
	require.NoError(t, svc.PublishExportEvent(ctx, &dto.PublishExportEventMessage{
		EventType: events.TypeExportFailed,
		ExportId:  "exp-2",
		Format:    FormatPdf,
		Reason:    "renderer down",
	}))

	// Publishing blocks until a subscriber takes the message; a second
	// successful publish means the consumer loop is draining the topic.
	require.NoError(t, svc.PublishExportEvent(ctx, &dto.PublishExportEventMessage{
		EventType: events.TypeExportCompleted,
		ExportId:  "exp-3",
		Format:    FormatHtml,
	}))
}
