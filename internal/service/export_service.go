package service

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"sync"
	"time"

	"md-export-be/internal/dto"
	"md-export-be/internal/pkg/logger"
	"md-export-be/pkg/diagram"
	"md-export-be/pkg/document"
	"md-export-be/pkg/events"
	"md-export-be/pkg/flowdoc"
	"md-export-be/pkg/flowdoc/docx"
	"md-export-be/pkg/htmlpdf"
	"md-export-be/pkg/markdown"
	"md-export-be/pkg/markup"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

// ErrEmptyDocument rejects an export before any work happens. It is the one
// fatal input error; per-diagram failures never surface as errors.
var ErrEmptyDocument = errors.New("markdown body is empty")

const (
	FormatDocx     = "docx"
	FormatPdf      = "pdf"
	FormatHtml     = "html"
	FormatMarkdown = "markdown"
)

const docxContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

type IExportService interface {
	ExportDocx(ctx context.Context, req *dto.ExportRequest) (*dto.ExportResult, error)
	ExportPdf(ctx context.Context, req *dto.ExportRequest) (*dto.ExportResult, error)
	ExportHtml(ctx context.Context, req *dto.ExportRequest) (*dto.ExportResult, error)
	ExportMarkdown(ctx context.Context, req *dto.ExportRequest) (*dto.ExportResult, error)
}

type exportService struct {
	parser           *markdown.Parser
	rasterizer       diagram.Rasterizer
	pdfRenderer      htmlpdf.Renderer
	publisherService IPublisherService
	style            document.Style
	sysLogger        logger.ILogger
}

func NewExportService(
	parser *markdown.Parser,
	rasterizer diagram.Rasterizer,
	pdfRenderer htmlpdf.Renderer,
	publisherService IPublisherService,
	sysLogger logger.ILogger,
) IExportService {
	return &exportService{
		parser:           parser,
		rasterizer:       rasterizer,
		pdfRenderer:      pdfRenderer,
		publisherService: publisherService,
		style:            document.Default(),
		sysLogger:        sysLogger,
	}
}

var tracer = otel.Tracer("md-export-be/export")

func (s *exportService) ExportDocx(ctx context.Context, req *dto.ExportRequest) (*dto.ExportResult, error) {
	started := time.Now()
	exportId := uuid.New().String()

	blocks, err := s.parse(ctx, exportId, FormatDocx, req.Markdown)
	if err != nil {
		return nil, err
	}

	// The flow-document path embeds pre-rasterized images, so all diagram
	// placeholders are rendered up front, joined back by ordinal.
	diagrams, failed := s.rasterizeAll(ctx, markdown.DiagramBlocks(blocks))

	ctx, span := tracer.Start(ctx, "export.serialize.docx")
	tree := flowdoc.Serialize(blocks, diagrams, s.style)
	data, err := docx.Pack(tree)
	span.End()
	if err != nil {
		return nil, err
	}

	result := &dto.ExportResult{
		FileName:       fileName(req.Title, "docx"),
		ContentType:    docxContentType,
		Data:           data,
		DiagramCount:   len(diagrams) + failed,
		FailedDiagrams: failed,
	}
	s.publishCompleted(ctx, exportId, FormatDocx, result, started)
	return result, nil
}

func (s *exportService) ExportPdf(ctx context.Context, req *dto.ExportRequest) (*dto.ExportResult, error) {
	started := time.Now()
	exportId := uuid.New().String()

	blocks, err := s.parse(ctx, exportId, FormatPdf, req.Markdown)
	if err != nil {
		return nil, err
	}

	// The markup path keeps diagrams as mermaid markers; the print renderer
	// resolves them as vectors, so no rasterization happens here.
	ctx, span := tracer.Start(ctx, "export.serialize.pdf")
	html := markup.Serialize(blocks, titleOrDefault(req.Title), s.style)
	data, err := s.pdfRenderer.RenderPDF(ctx, html)
	span.End()
	if err != nil {
		s.publishFailed(ctx, exportId, FormatPdf, err.Error())
		return nil, err
	}

	result := &dto.ExportResult{
		FileName:    fileName(req.Title, "pdf"),
		ContentType: "application/pdf",
		Data:        data,
	}
	s.publishCompleted(ctx, exportId, FormatPdf, result, started)
	return result, nil
}

func (s *exportService) ExportHtml(ctx context.Context, req *dto.ExportRequest) (*dto.ExportResult, error) {
	started := time.Now()
	exportId := uuid.New().String()

	blocks, err := s.parse(ctx, exportId, FormatHtml, req.Markdown)
	if err != nil {
		return nil, err
	}

	_, span := tracer.Start(ctx, "export.serialize.html")
	html := markup.Serialize(blocks, titleOrDefault(req.Title), s.style)
	span.End()

	result := &dto.ExportResult{
		FileName:    fileName(req.Title, "html"),
		ContentType: "text/html; charset=utf-8",
		Data:        []byte(html),
	}
	s.publishCompleted(ctx, exportId, FormatHtml, result, started)
	return result, nil
}

func (s *exportService) ExportMarkdown(ctx context.Context, req *dto.ExportRequest) (*dto.ExportResult, error) {
	started := time.Now()
	exportId := uuid.New().String()

	if strings.TrimSpace(req.Markdown) == "" {
		s.publishFailed(ctx, exportId, FormatMarkdown, ErrEmptyDocument.Error())
		return nil, ErrEmptyDocument
	}

	result := &dto.ExportResult{
		FileName:    fileName(req.Title, "md"),
		ContentType: "text/markdown; charset=utf-8",
		Data:        []byte(req.Markdown),
	}
	s.publishCompleted(ctx, exportId, FormatMarkdown, result, started)
	return result, nil
}

// parse rejects empty input (the engine performs no partial work then) and
// runs the block parser under a span.
func (s *exportService) parse(ctx context.Context, exportId, format, source string) ([]markdown.Block, error) {
	if strings.TrimSpace(source) == "" {
		s.publishFailed(ctx, exportId, format, ErrEmptyDocument.Error())
		return nil, ErrEmptyDocument
	}

	_, span := tracer.Start(ctx, "markdown.parse")
	blocks := s.parser.Parse(source)
	span.SetAttributes(attribute.Int("blocks", len(blocks)))
	span.End()
	return blocks, nil
}

// rasterizeAll renders every diagram placeholder concurrently. Results are
// joined by ordinal, so completion order is irrelevant; a failure for one
// ordinal is logged and skipped, never cancelling the others.
func (s *exportService) rasterizeAll(ctx context.Context, placeholders []markdown.Diagram) (map[int]flowdoc.DiagramResult, int) {
	results := make(map[int]flowdoc.DiagramResult)
	if len(placeholders) == 0 {
		return results, 0
	}

	ctx, span := tracer.Start(ctx, "diagram.rasterize")
	defer span.End()
	span.SetAttributes(attribute.Int("diagrams", len(placeholders)))

	var (
		mu     sync.Mutex
		wg     sync.WaitGroup
		failed int
	)
	for _, placeholder := range placeholders {
		wg.Add(1)
		go func(d markdown.Diagram) {
			defer wg.Done()
			res, err := s.rasterizer.Render(ctx, d.Source)
			if err != nil {
				s.sysLogger.Warn("export", "Diagram rasterization failed, using fallback", map[string]interface{}{
					"ordinal": d.Ordinal,
					"error":   err.Error(),
				})
				mu.Lock()
				failed++
				mu.Unlock()
				return
			}
			mu.Lock()
			results[d.Ordinal] = flowdoc.DiagramResult{
				Data:     res.Data,
				WidthPx:  res.WidthPx,
				HeightPx: res.HeightPx,
			}
			mu.Unlock()
		}(placeholder)
	}
	wg.Wait()
	return results, failed
}

func (s *exportService) publishCompleted(ctx context.Context, exportId, format string, result *dto.ExportResult, started time.Time) {
	err := s.publisherService.PublishExportEvent(ctx, &dto.PublishExportEventMessage{
		EventType:      events.TypeExportCompleted,
		ExportId:       exportId,
		Format:         format,
		SizeBytes:      len(result.Data),
		DiagramCount:   result.DiagramCount,
		FailedDiagrams: result.FailedDiagrams,
		DurationMs:     time.Since(started).Milliseconds(),
	})
	if err != nil {
		s.sysLogger.Warn("export", "Failed to publish export event", map[string]interface{}{
			"error":     err.Error(),
			"export_id": exportId,
		})
	}
}

func (s *exportService) publishFailed(ctx context.Context, exportId, format, reason string) {
	err := s.publisherService.PublishExportEvent(ctx, &dto.PublishExportEventMessage{
		EventType: events.TypeExportFailed,
		ExportId:  exportId,
		Format:    format,
		Reason:    reason,
	})
	if err != nil {
		s.sysLogger.Warn("export", "Failed to publish export event", map[string]interface{}{
			"error":     err.Error(),
			"export_id": exportId,
		})
	}
}

var unsafeFileChars = regexp.MustCompile(`[^A-Za-z0-9 _.-]`)

func titleOrDefault(title string) string {
	title = strings.TrimSpace(title)
	if title == "" {
		return "Document"
	}
	return title
}

// fileName derives the download filename from the optional title.
func fileName(title, extension string) string {
	base := unsafeFileChars.ReplaceAllString(titleOrDefault(title), "")
	base = strings.TrimSpace(base)
	if base == "" {
		base = "Document"
	}
	return base + "." + extension
}
