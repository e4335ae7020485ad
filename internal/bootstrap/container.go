package bootstrap

import (
	"log"
	"time"

	"md-export-be/internal/config"
	"md-export-be/internal/controller"
	"md-export-be/internal/pkg/logger"
	"md-export-be/internal/service"
	"md-export-be/pkg/diagram"
	"md-export-be/pkg/htmlpdf"
	"md-export-be/pkg/markdown"

	pktNats "md-export-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type Container struct {
	// Controllers
	ExportController controller.IExportController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService
}

func NewContainer(cfg *config.Config) *Container {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// NATS mirror is optional; the in-process bus works without it.
	var natsPub *pktNats.Publisher
	if cfg.App.NatsURL != "" {
		var err error
		natsPub, err = pktNats.NewPublisher(cfg.App.NatsURL)
		if err != nil {
			log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
			natsPub = nil
		}
	}

	// 3. Rendering Collaborators
	rasterizer := diagram.NewKrokiRasterizer(
		cfg.Renderer.DiagramURL,
		time.Duration(cfg.Renderer.DiagramTimeoutSec)*time.Second,
		time.Duration(cfg.Renderer.DiagramCacheTTLMin)*time.Minute,
	)
	pdfRenderer := htmlpdf.NewGotenbergRenderer(
		cfg.Renderer.PdfURL,
		time.Duration(cfg.Renderer.PdfTimeoutSec)*time.Second,
	)

	// 4. Services
	publisherService := service.NewPublisherService(cfg.Export.TopicName, pubSub, natsPub, sysLogger)
	consumerService := service.NewConsumerService(pubSub, cfg.Export.TopicName, sysLogger)

	exportService := service.NewExportService(
		markdown.NewParserWithLanguage(cfg.Export.DiagramLanguage),
		rasterizer,
		pdfRenderer,
		publisherService,
		sysLogger,
	)

	// 5. Controllers
	return &Container{
		ExportController: controller.NewExportController(exportService),
		ConsumerService:  consumerService,
	}
}
