package storage

import (
	"log"
	"sync"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"

	"github.com/agriconnect/cloud-intelligence/internal/model"
)

const readingMeasurement = "sensor_reading"

// ReadingWriter persists raw readings to InfluxDB through the async
// write API and tracks the last write error for /healthz and /readyz.
type ReadingWriter struct {
	api     api.WriteAPI
	mu      sync.RWMutex
	lastErr time.Time
	written int64
}

// NewReadingWriter starts the listener for Influx's asynchronous write
// errors. Writes themselves never block the pipeline.
func NewReadingWriter(w api.WriteAPI) *ReadingWriter {
	rw := &ReadingWriter{
		api:     w,
		lastErr: time.Now().Add(-24 * time.Hour),
	}
	go func() {
		for err := range w.Errors() {
			if err != nil {
				rw.mu.Lock()
				rw.lastErr = time.Now()
				rw.mu.Unlock()
				log.Printf("storage: influx write error: %v", err)
			}
		}
	}()
	return rw
}

// Write queues one reading as an Influx point. Identity fields become
// tags, sensor values become fields.
func (w *ReadingWriter) Write(r model.Reading) {
	if w == nil || w.api == nil {
		return
	}
	tags := map[string]string{
		"farm_id":    r.FarmID,
		"gateway_id": r.GatewayID,
		"field_id":   r.FieldID,
		"zone_id":    r.ZoneID,
	}
	fields := make(map[string]interface{}, len(r.Sensors))
	for name, value := range r.Sensors {
		fields[name] = value
	}
	// at least one field so the point is never dropped as empty
	if len(fields) == 0 {
		fields["count"] = int64(1)
	}

	t := r.Timestamp
	if t.IsZero() {
		t = time.Now()
	}
	w.api.WritePoint(influxdb2.NewPoint(readingMeasurement, tags, fields, t))

	w.mu.Lock()
	w.written++
	w.mu.Unlock()
}

// LastErrorAge returns how long ago the last write error occurred.
func (w *ReadingWriter) LastErrorAge() time.Duration {
	if w == nil {
		return 99999 * time.Hour
	}
	w.mu.RLock()
	t := w.lastErr
	w.mu.RUnlock()
	return time.Since(t)
}

// Written returns the number of points queued so far.
func (w *ReadingWriter) Written() int64 {
	if w == nil {
		return 0
	}
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.written
}
