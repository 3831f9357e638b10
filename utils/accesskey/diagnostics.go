package accesskey

import (
	"go.uber.org/zap"
)

// EventKind identifies a trace event emitted while searching.
type EventKind string

const (
	EventSample   EventKind = "sample"
	EventLabel    EventKind = "label_found"
	EventAccepted EventKind = "candidate_accepted"
	EventRejected EventKind = "candidate_rejected"
	EventNotFound EventKind = "not_found"
)

// Event describes one step of a search. Line is -1 when the event is not tied to a line.
type Event struct {
	Kind   EventKind
	Stage  Stage
	Line   int
	Detail string
	Key    string
}

// Diagnostics receives trace events. Implementations must not block for long;
// they are called synchronously from Extract.
type Diagnostics interface {
	Trace(ev Event)
}

// NopDiagnostics discards every event.
type NopDiagnostics struct{}

func (NopDiagnostics) Trace(Event) {}

// ZapDiagnostics writes events to a zap logger at debug level.
type ZapDiagnostics struct {
	logger *zap.Logger
}

func NewZapDiagnostics(logger *zap.Logger) *ZapDiagnostics {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ZapDiagnostics{logger: logger.Named("accesskey")}
}

func (d *ZapDiagnostics) Trace(ev Event) {
	if ce := d.logger.Check(zap.DebugLevel, string(ev.Kind)); ce != nil {
		fields := make([]zap.Field, 0, 4)
		if ev.Stage != "" {
			fields = append(fields, zap.String("stage", string(ev.Stage)))
		}
		if ev.Line >= 0 {
			fields = append(fields, zap.Int("line", ev.Line))
		}
		if ev.Detail != "" {
			fields = append(fields, zap.String("detail", ev.Detail))
		}
		if ev.Key != "" {
			fields = append(fields, zap.String("key", ev.Key))
		}
		ce.Write(fields...)
	}
}
