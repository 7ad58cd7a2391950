package alerting

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/agriconnect/cloud-intelligence/internal/metrics"
	"github.com/agriconnect/cloud-intelligence/internal/model"
)

// Alert type identifiers for insight-derived candidates. Anomaly
// candidates use the lower-cased anomaly type instead.
const (
	TypeDiseaseRisk = "disease_risk"
	TypeIrrigation  = "irrigation_urgent"
	TypeNutrient    = "nutrient_deficiency"
)

// AlertStore persists one batch of accepted alerts and confirms each
// stored record with its id and creation time.
type AlertStore interface {
	InsertAlerts(ctx context.Context, alerts []model.Alert) ([]model.StoredAlert, error)
}

// Manager turns analyzer insights into non-duplicate, severity-classified
// alert records and hands the surviving batch to the store.
type Manager struct {
	registry *Registry
	store    AlertStore
}

func NewManager(registry *Registry, store AlertStore) *Manager {
	return &Manager{registry: registry, store: store}
}

// Process maps the insights for one reading into alert candidates,
// drops candidates whose key is still inside the cooldown window, stores
// the survivors as one batch and returns them.
//
// A store failure is logged and absorbed here; cooldown state already
// taken for accepted candidates is not rolled back, so an
// accepted-but-unstored alert still counts against the window. Duplicate
// suppression is deliberately favored over guaranteed delivery.
func (m *Manager) Process(ctx context.Context, in model.Insights, origin model.Reading) []model.Alert {
	var accepted []model.Alert

	admit := func(a model.Alert) {
		if m.registry.Acquire(a.Key()) {
			accepted = append(accepted, a)
			metrics.AlertsEmitted.WithLabelValues(a.Type, string(a.Severity)).Inc()
		} else {
			metrics.AlertsSuppressed.Inc()
		}
	}

	for _, d := range in.Diseases {
		admit(model.Alert{
			FarmID:    origin.FarmID,
			GatewayID: origin.GatewayID,
			FieldID:   origin.FieldID,
			ZoneID:    origin.ZoneID,
			Type:      TypeDiseaseRisk,
			Severity:  mapSeverity(d.Severity),
			Message:   fmt.Sprintf("%s detected (%d%% probability). %s", d.Disease, d.Probability, d.Recommendation),
		})
	}

	// Only an urgent classification is alert-worthy; the rest of the
	// advisor output is operational guidance, not an incident.
	if irr := in.Irrigation; irr != nil && irr.Recommendation == model.IrrigationUrgent {
		admit(model.Alert{
			FarmID:    origin.FarmID,
			GatewayID: origin.GatewayID,
			FieldID:   origin.FieldID,
			ZoneID:    origin.ZoneID,
			Type:      TypeIrrigation,
			Severity:  model.AlertCritical,
			Message:   fmt.Sprintf("Urgent irrigation needed: %s. %s", irr.Reason, irr.Action),
		})
	}

	for _, an := range in.Anomalies {
		admit(model.Alert{
			FarmID:    origin.FarmID,
			GatewayID: origin.GatewayID,
			FieldID:   origin.FieldID,
			ZoneID:    origin.ZoneID,
			Type:      strings.ToLower(string(an.Type)),
			Severity:  mapSeverity(an.Severity),
			Message:   fmt.Sprintf("%s. %s", an.Message, an.Action),
		})
	}

	for _, n := range in.Nutrients {
		admit(model.Alert{
			FarmID:    origin.FarmID,
			GatewayID: origin.GatewayID,
			FieldID:   origin.FieldID,
			ZoneID:    origin.ZoneID,
			Type:      TypeNutrient,
			Severity:  mapSeverity(n.Severity),
			Message:   fmt.Sprintf("%s level %s: %g ppm (target: %s)", n.Nutrient, n.Status, n.Current, n.Target),
		})
	}

	if len(accepted) == 0 {
		return nil
	}

	stored, err := m.store.InsertAlerts(ctx, accepted)
	if err != nil {
		metrics.AlertStoreFailures.Inc()
		log.Printf("alerting: failed to store %d alert(s): %v", len(accepted), err)
		return accepted
	}
	for _, st := range stored {
		log.Printf("%s %s", severityPrefix(st.Severity), st.Message)
	}
	return accepted
}

// mapSeverity folds the analyzer severity scale into the three stored
// levels. The mapping is total; anything unrecognized lands on info.
func mapSeverity(s model.Severity) model.AlertSeverity {
	switch s {
	case model.SeverityCritical, model.SeverityHigh:
		return model.AlertCritical
	case model.SeverityMedium, model.SeverityWarning:
		return model.AlertWarning
	case model.SeverityLow, model.SeverityInfo:
		return model.AlertInfo
	default:
		return model.AlertInfo
	}
}

func severityPrefix(s model.AlertSeverity) string {
	switch s {
	case model.AlertCritical:
		return "[CRITICAL]"
	case model.AlertWarning:
		return "[WARNING]"
	default:
		return "[INFO]"
	}
}
