package subscriber

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/agriconnect/cloud-intelligence/internal/storage"
)

// healthHandler reports the state of the three external collaborators:
// the MQTT bus, the Influx reading sink and the Postgres alert store.
type healthHandler struct {
	mqtt     paho.Client
	readings *storage.ReadingWriter
	db       *sql.DB
}

func NewHealthHandler(m paho.Client, readings *storage.ReadingWriter, db *sql.DB) http.Handler {
	return &healthHandler{mqtt: m, readings: readings, db: db}
}

func (h *healthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	type status struct {
		Status          string  `json:"status"`
		MQTTConnected   bool    `json:"mqtt_connected"`
		PostgresOK      bool    `json:"postgres_ok"`
		LastWriteErrorS float64 `json:"last_write_error_age_sec"`
		ReadingsWritten int64   `json:"readings_written"`
	}

	st := status{
		MQTTConnected:   h.mqtt != nil && h.mqtt.IsConnectionOpen(),
		PostgresOK:      h.pingDB(r.Context()),
		LastWriteErrorS: h.readings.LastErrorAge().Seconds(),
		ReadingsWritten: h.readings.Written(),
	}

	influxOK := h.readings.LastErrorAge() > 30*time.Second
	switch {
	case st.MQTTConnected && st.PostgresOK && influxOK:
		st.Status = "ok"
	case st.MQTTConnected || st.PostgresOK:
		st.Status = "degraded"
	default:
		st.Status = "down"
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(st)
}

func (h *healthHandler) pingDB(ctx context.Context) bool {
	if h.db == nil {
		return false
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return h.db.PingContext(ctx) == nil
}

// NewReadyHandler returns 200 only when every collaborator is usable.
func NewReadyHandler(m paho.Client, readings *storage.ReadingWriter, db *sql.DB, minErrorAge time.Duration) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := &healthHandler{mqtt: m, readings: readings, db: db}
		ready := m != nil && m.IsConnectionOpen() &&
			h.pingDB(r.Context()) &&
			readings.LastErrorAge() > minErrorAge
		if !ready {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]bool{"ready": ready})
	})
}
