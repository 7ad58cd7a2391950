package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/agriconnect/cloud-intelligence/internal/model"
)

// PostgresStore persists alerts and gateway status rows. It expects the
// alerts table to generate ids and creation timestamps server-side.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// InsertAlerts inserts one batch of alerts inside a single transaction
// and returns the stored confirmation for each, in input order.
func (s *PostgresStore) InsertAlerts(ctx context.Context, alerts []model.Alert) ([]model.StoredAlert, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("alert store: nil db")
	}
	if len(alerts) == 0 {
		return nil, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("alert store: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stored := make([]model.StoredAlert, 0, len(alerts))
	for _, a := range alerts {
		row := tx.QueryRowContext(ctx, `
INSERT INTO alerts (
	farm_id, gateway_id, field_id, zone_id, alert_type, severity, message, acknowledged
) VALUES (
	$1, $2, $3, $4, $5, $6, $7, $8
)
RETURNING id, created_at`,
			a.FarmID,
			a.GatewayID,
			a.FieldID,
			a.ZoneID,
			a.Type,
			string(a.Severity),
			a.Message,
			a.Acknowledged,
		)
		var st model.StoredAlert
		st.Alert = a
		if err := row.Scan(&st.ID, &st.CreatedAt); err != nil {
			return nil, fmt.Errorf("alert store: insert: %w", err)
		}
		stored = append(stored, st)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("alert store: commit: %w", err)
	}
	return stored, nil
}

// UpdateGatewayStatus upserts a gateway's liveness row from a status
// message.
func (s *PostgresStore) UpdateGatewayStatus(ctx context.Context, gatewayID, status, firmware string, lastSeen time.Time) error {
	if s == nil || s.db == nil {
		return errors.New("gateway store: nil db")
	}
	if gatewayID == "" {
		return errors.New("gateway store: empty gateway id")
	}
	_, err := s.db.ExecContext(ctx, `
INSERT INTO gateways (gateway_id, status, firmware_version, last_seen)
VALUES ($1, $2, NULLIF($3, ''), $4)
ON CONFLICT (gateway_id) DO UPDATE
SET status = EXCLUDED.status,
	firmware_version = COALESCE(EXCLUDED.firmware_version, gateways.firmware_version),
	last_seen = EXCLUDED.last_seen`,
		gatewayID, status, firmware, lastSeen.UTC())
	if err != nil {
		return fmt.Errorf("gateway store: upsert: %w", err)
	}
	return nil
}

// Ping checks database reachability within the given timeout.
func (s *PostgresStore) Ping(ctx context.Context, timeout time.Duration) error {
	if s == nil || s.db == nil {
		return errors.New("store: nil db")
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return s.db.PingContext(ctx)
}
