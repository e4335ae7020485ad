package service

import (
	"context"
	"encoding/json"

	"md-export-be/internal/dto"
	"md-export-be/internal/pkg/logger"
	"md-export-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService drains the export events topic and writes the audit trail.
type consumerService struct {
	pubSub    *gochannel.GoChannel
	topicName string
	sysLogger logger.ILogger
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	sysLogger logger.ILogger,
) IConsumerService {
	return &consumerService{
		pubSub:    pubSub,
		topicName: topicName,
		sysLogger: sysLogger,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(msg *message.Message) {
	var payload dto.PublishExportEventMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.sysLogger.Error("consumer", "Failed to unmarshal export event", map[string]interface{}{
			"error": err.Error(),
		})
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	details := map[string]interface{}{
		"export_id":       payload.ExportId,
		"format":          payload.Format,
		"size_bytes":      payload.SizeBytes,
		"diagram_count":   payload.DiagramCount,
		"failed_diagrams": payload.FailedDiagrams,
		"duration_ms":     payload.DurationMs,
	}

	switch payload.EventType {
	case events.TypeExportFailed:
		details["reason"] = payload.Reason
		cs.sysLogger.Warn("consumer", "Export failed", details)
	default:
		cs.sysLogger.Info("consumer", "Export completed", details)
	}

	msg.Ack()
}
