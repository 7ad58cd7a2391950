package subscriber

import (
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/agriconnect/cloud-intelligence/internal/storage"
)

func TestHealthzPayload(t *testing.T) {
	// no broker, no db: everything down, writer idle
	h := NewHealthHandler(nil, &storage.ReadingWriter{}, nil)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/healthz", nil))

	var body struct {
		Status          string  `json:"status"`
		MQTTConnected   bool    `json:"mqtt_connected"`
		PostgresOK      bool    `json:"postgres_ok"`
		LastWriteErrorS float64 `json:"last_write_error_age_sec"`
		ReadingsWritten *int64  `json:"readings_written"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Status != "down" {
		t.Errorf("status = %q, want down", body.Status)
	}
	if body.MQTTConnected || body.PostgresOK {
		t.Errorf("collaborators reported up: %+v", body)
	}
	if body.ReadingsWritten == nil || *body.ReadingsWritten != 0 {
		t.Errorf("readings_written = %v, want 0", body.ReadingsWritten)
	}
}

func TestReadyzUnavailableWithoutCollaborators(t *testing.T) {
	h := NewReadyHandler(nil, &storage.ReadingWriter{}, nil, 30*time.Second)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/readyz", nil))
	if rec.Code != 503 {
		t.Errorf("code = %d, want 503", rec.Code)
	}
}
