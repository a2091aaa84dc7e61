package http

import (
	"context"
	"net/http"
	"time"
)

// Pinger reports database reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	db        Pinger
	startedAt time.Time
}

func NewHealthHandler(db Pinger, startedAt time.Time) *HealthHandler {
	return &HealthHandler{db: db, startedAt: startedAt}
}

func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	uptime := time.Since(h.startedAt).Truncate(time.Second).String()
	if h.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.db.Ping(ctx); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable", "database": "unreachable", "uptime": uptime})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "uptime": uptime})
}
