package events

import "time"

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "EXPORT_COMPLETED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// Export lifecycle event types.
const (
	TypeExportCompleted = "EXPORT_COMPLETED"
	TypeExportFailed    = "EXPORT_FAILED"
)

// BaseEvent is a plain implementation of Event.
type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// NewExportCompleted builds the event published after a successful export.
func NewExportCompleted(exportID, format string, sizeBytes, diagramCount, failedDiagrams int, duration time.Duration) Event {
	return BaseEvent{
		Type: TypeExportCompleted,
		Data: map[string]interface{}{
			"export_id":       exportID,
			"format":          format,
			"size_bytes":      sizeBytes,
			"diagram_count":   diagramCount,
			"failed_diagrams": failedDiagrams,
			"duration_ms":     duration.Milliseconds(),
		},
		OccurredAt: time.Now(),
	}
}

// NewExportFailed builds the event published when an export is rejected.
func NewExportFailed(exportID, format, reason string) Event {
	return BaseEvent{
		Type: TypeExportFailed,
		Data: map[string]interface{}{
			"export_id": exportID,
			"format":    format,
			"reason":    reason,
		},
		OccurredAt: time.Now(),
	}
}
