package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/Kerhoff/giftmate/internal/birthdays"
	"github.com/Kerhoff/giftmate/internal/live"
	"github.com/Kerhoff/giftmate/internal/models"
)

type watchFunc[T any] func(ctx context.Context, onChange func([]T)) (*live.Subscription[T], error)

func (s *Server) handleStreamCategories(w http.ResponseWriter, r *http.Request) {
	streamSnapshots(s, w, r, watchFunc[*models.Category](s.svc.WatchCategories))
}

func (s *Server) handleStreamBirthdays(w http.ResponseWriter, r *http.Request) {
	streamSnapshots(s, w, r, watchFunc[birthdays.Entry](s.svc.WatchBirthdays))
}

// streamSnapshots sends the live query as server-sent events: the current
// snapshot first, then one event per change. Slow clients only see the
// latest snapshot.
func streamSnapshots[T any](s *Server, w http.ResponseWriter, r *http.Request, watch watchFunc[T]) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		s.respondError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	updates := make(chan []T, 1)
	// Runs on the serial context, so it must never block.
	push := func(snapshot []T) {
		select {
		case updates <- snapshot:
		default:
			select {
			case <-updates:
			default:
			}
			updates <- snapshot
		}
	}

	sub, err := watch(r.Context(), push)
	if err != nil {
		s.logger.WithError(err).Error("failed to start live query")
		s.respondError(w, http.StatusInternalServerError, "failed to start live query")
		return
	}
	defer sub.Cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	if err := writeEvent(w, sub.Snapshot()); err != nil {
		return
	}
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case snapshot := <-updates:
			if err := writeEvent(w, snapshot); err != nil {
				s.logger.WithError(err).Debug("stream client went away")
				return
			}
			flusher.Flush()
		}
	}
}

func writeEvent(w http.ResponseWriter, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "event: snapshot\ndata: %s\n\n", payload)
	return err
}
