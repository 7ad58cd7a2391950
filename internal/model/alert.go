package model

import "time"

// AlertSeverity is the public three-level severity stored with alerts.
type AlertSeverity string

const (
	AlertCritical AlertSeverity = "critical"
	AlertWarning  AlertSeverity = "warning"
	AlertInfo     AlertSeverity = "info"
)

// Alert is one candidate (or accepted) alert record.
type Alert struct {
	FarmID       string        `json:"farm_id"`
	GatewayID    string        `json:"gateway_id"`
	FieldID      string        `json:"field_id"`
	ZoneID       string        `json:"zone_id"`
	Type         string        `json:"alert_type"`
	Severity     AlertSeverity `json:"severity"`
	Message      string        `json:"message"`
	Acknowledged bool          `json:"acknowledged"`
}

// Key identifies the deduplication bucket for the alert.
func (a Alert) Key() string {
	return a.FarmID + "|" + a.GatewayID + "|" + a.FieldID + "|" + a.ZoneID + "|" + a.Type
}

// StoredAlert is the store's confirmation for one inserted alert.
type StoredAlert struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Alert
}
