package api

import (
	"fmt"
	"io"
	"time"
)

// CallEvent records one backend request.
type CallEvent struct {
	Op        string
	Method    string
	Path      string
	RequestID string
	Status    int
	Latency   time.Duration
	Err       error
}

// Observer receives an event after every backend request.
type Observer interface {
	OnCallComplete(event CallEvent)
}

// LogObserver writes call events to an io.Writer, one line each.
type LogObserver struct {
	w io.Writer
}

func NewLogObserver(w io.Writer) *LogObserver {
	return &LogObserver{w: w}
}

func (o *LogObserver) OnCallComplete(event CallEvent) {
	ts := time.Now().UTC().Format(time.RFC3339)
	outcome := "ok"
	if event.Err != nil {
		outcome = "err:" + event.Err.Error()
	}
	fmt.Fprintf(o.w, "[%s] api_call op=%s method=%s path=%s status=%d latency_ms=%d request_id=%s result=%s\n",
		ts, event.Op, event.Method, event.Path, event.Status, event.Latency.Milliseconds(), event.RequestID, outcome)
}

// NoopObserver discards all events.
type NoopObserver struct{}

func (NoopObserver) OnCallComplete(CallEvent) {}
