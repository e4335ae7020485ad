package service

import (
	"context"
	"encoding/json"
	"time"

	"md-export-be/internal/dto"
	"md-export-be/internal/pkg/logger"
	"md-export-be/pkg/events"
	pktNats "md-export-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type IPublisherService interface {
	PublishExportEvent(ctx context.Context, msg *dto.PublishExportEventMessage) error
}

type publisherService struct {
	topicName string
	pubSub    *gochannel.GoChannel
	natsPub   *pktNats.Publisher // optional mirror, nil when NATS is not configured
	sysLogger logger.ILogger
}

func NewPublisherService(
	topicName string,
	pubSub *gochannel.GoChannel,
	natsPub *pktNats.Publisher,
	sysLogger logger.ILogger,
) IPublisherService {
	return &publisherService{
		topicName: topicName,
		pubSub:    pubSub,
		natsPub:   natsPub,
		sysLogger: sysLogger,
	}
}

func (s *publisherService) PublishExportEvent(ctx context.Context, msg *dto.PublishExportEventMessage) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	// 1. In-process bus (audit consumer)
	if err := s.pubSub.Publish(s.topicName, message.NewMessage(watermill.NewUUID(), payload)); err != nil {
		return err
	}

	// 2. Optional NATS mirror for other services
	if s.natsPub != nil {
		var event events.Event
		if msg.EventType == events.TypeExportFailed {
			event = events.NewExportFailed(msg.ExportId, msg.Format, msg.Reason)
		} else {
			event = events.NewExportCompleted(
				msg.ExportId, msg.Format,
				msg.SizeBytes, msg.DiagramCount, msg.FailedDiagrams,
				time.Duration(msg.DurationMs)*time.Millisecond,
			)
		}
		if err := s.natsPub.Publish(ctx, event); err != nil {
			// Mirroring is best-effort; the in-process publish already succeeded.
			s.sysLogger.Warn("publisher", "Failed to mirror export event to NATS", map[string]interface{}{
				"error":     err.Error(),
				"export_id": msg.ExportId,
			})
		}
	}

	return nil
}
