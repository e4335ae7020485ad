package dto

// ExportRequest is the body of every export endpoint. Title is optional and
// only used to derive the download filename.
type ExportRequest struct {
	Markdown string `json:"markdown" validate:"required"`
	Title    string `json:"title" validate:"max=200"`
}

// ExportResult carries the produced file back to the controller.
type ExportResult struct {
	FileName    string
	ContentType string
	Data        []byte

	// Diagram accounting for the completion event / response headers.
	DiagramCount   int
	FailedDiagrams int
}

// PublishExportEventMessage is the payload placed on the export events topic.
type PublishExportEventMessage struct {
	EventType      string `json:"event_type"`
	ExportId       string `json:"export_id"`
	Format         string `json:"format"`
	SizeBytes      int    `json:"size_bytes"`
	DiagramCount   int    `json:"diagram_count"`
	FailedDiagrams int    `json:"failed_diagrams"`
	DurationMs     int64  `json:"duration_ms"`
	Reason         string `json:"reason,omitempty"`
}
