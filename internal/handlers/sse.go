package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gi8lino/jirabridge/internal/hash"
	"github.com/gi8lino/jirabridge/internal/stream"
	"github.com/gi8lino/jirabridge/internal/tool"
)

// SSE handles GET /sse. Each connection gets one tool_metadata event and then heartbeats
// until the client disconnects.
func SSE(capability tool.Capability, interval time.Duration, logger *slog.Logger) http.HandlerFunc {
	data, id, err := hash.JSON(capability.Metadata())
	if err != nil {
		logger.Error("failed to encode tool metadata", "err", err)
	}
	announcer := stream.Announcer{
		Metadata: stream.Event{ID: id, Name: stream.EventToolMetadata, Data: data},
		Interval: interval,
	}

	return func(w http.ResponseWriter, r *http.Request) {
		logger.Debug("capability stream opened", "remote", r.RemoteAddr)

		err := announcer.Serve(r.Context(), w)
		switch {
		case errors.Is(err, stream.ErrStreamingUnsupported):
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		case err != nil:
			logger.Debug("capability stream write failed", "remote", r.RemoteAddr, "err", err)
		}

		logger.Debug("capability stream closed", "remote", r.RemoteAddr)
	}
}
