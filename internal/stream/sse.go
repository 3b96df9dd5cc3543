package stream

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	EventToolMetadata = "tool_metadata"
	EventHeartbeat    = "heartbeat"
	HeartbeatData     = "ping"

	DefaultHeartbeatInterval = 15 * time.Second
)

// ErrStreamingUnsupported is returned when the ResponseWriter cannot flush.
var ErrStreamingUnsupported = errors.New("streaming not supported")

// Event is a single Server-Sent Event.
type Event struct {
	ID   string
	Name string
	Data []byte
}

// WriteEvent writes ev using text/event-stream framing. Multi-line data is split into
// several data lines.
func WriteEvent(w io.Writer, ev Event) error {
	var buf bytes.Buffer
	if ev.ID != "" {
		buf.WriteString("id: " + ev.ID + "\n")
	}
	if ev.Name != "" {
		buf.WriteString("event: " + ev.Name + "\n")
	}
	for _, line := range strings.Split(string(ev.Data), "\n") {
		buf.WriteString("data: " + strings.TrimSuffix(line, "\r") + "\n")
	}
	buf.WriteString("\n")

	_, err := w.Write(buf.Bytes())
	return err
}

// Announcer sends one metadata event and then heartbeats until the client goes away.
type Announcer struct {
	Metadata Event
	Interval time.Duration
}

// Serve streams to w until ctx is done or a write fails. It never sends a closing event and
// never reads from the client. The returned error is nil on a normal disconnect.
func (a Announcer) Serve(ctx context.Context, w http.ResponseWriter) error {
	if _, ok := w.(http.Flusher); !ok {
		return ErrStreamingUnsupported
	}
	rc := http.NewResponseController(w)

	// The server's WriteTimeout would cut long-lived streams.
	_ = rc.SetWriteDeadline(time.Time{}) // nolint:errcheck

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no") // Disable nginx buffering
	w.WriteHeader(http.StatusOK)

	if err := emit(w, rc, a.Metadata); err != nil {
		return err
	}

	interval := a.Interval
	if interval <= 0 {
		interval = DefaultHeartbeatInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	heartbeat := Event{Name: EventHeartbeat, Data: []byte(HeartbeatData)}
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if ctx.Err() != nil {
				return nil
			}
			if err := emit(w, rc, heartbeat); err != nil {
				return err
			}
		}
	}
}

// emit writes ev and flushes it. A failed flush means the client is gone.
func emit(w io.Writer, rc *http.ResponseController, ev Event) error {
	if err := WriteEvent(w, ev); err != nil {
		return err
	}
	return rc.Flush()
}
