package alerting

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/agriconnect/cloud-intelligence/internal/model"
)

// stubStore records every batch and can be told to fail.
type stubStore struct {
	batches [][]model.Alert
	err     error
}

func (s *stubStore) InsertAlerts(_ context.Context, alerts []model.Alert) ([]model.StoredAlert, error) {
	s.batches = append(s.batches, alerts)
	if s.err != nil {
		return nil, s.err
	}
	stored := make([]model.StoredAlert, len(alerts))
	for i, a := range alerts {
		stored[i] = model.StoredAlert{
			ID:        fmt.Sprintf("id-%d", i),
			CreatedAt: time.Now(),
			Alert:     a,
		}
	}
	return stored, nil
}

func origin() model.Reading {
	return model.Reading{
		FarmID:    "FARM-CM-001",
		GatewayID: "GW-1",
		FieldID:   "1",
		ZoneID:    "2",
	}
}

func TestProcessUrgentIrrigation(t *testing.T) {
	store := &stubStore{}
	m := NewManager(NewRegistry(time.Hour), store)

	in := model.Insights{
		Irrigation: &model.IrrigationRecommendation{
			Recommendation: model.IrrigationUrgent,
			Action:         "Irrigate immediately",
			Reason:         "Soil moisture critically low (320)",
		},
	}

	accepted := m.Process(context.Background(), in, origin())
	if len(accepted) != 1 {
		t.Fatalf("accepted = %d, want 1", len(accepted))
	}
	a := accepted[0]
	if a.Type != TypeIrrigation {
		t.Errorf("type = %s", a.Type)
	}
	if a.Severity != model.AlertCritical {
		t.Errorf("severity = %s, want critical", a.Severity)
	}
	if !strings.HasPrefix(a.Message, "Urgent irrigation needed: ") {
		t.Errorf("message = %q", a.Message)
	}
	if len(store.batches) != 1 || len(store.batches[0]) != 1 {
		t.Errorf("store batches = %+v", store.batches)
	}
}

func TestProcessNonUrgentIrrigationIgnored(t *testing.T) {
	store := &stubStore{}
	m := NewManager(NewRegistry(time.Hour), store)

	for _, rec := range []model.IrrigationAdvice{
		model.IrrigationNeeded, model.IrrigationOptimal, model.IrrigationExcess, model.IrrigationNormal,
	} {
		in := model.Insights{Irrigation: &model.IrrigationRecommendation{Recommendation: rec}}
		if got := m.Process(context.Background(), in, origin()); len(got) != 0 {
			t.Errorf("%s produced alerts: %+v", rec, got)
		}
	}
	if len(store.batches) != 0 {
		t.Errorf("store was called for non-urgent insights: %+v", store.batches)
	}
}

func TestProcessSuppressesDuplicates(t *testing.T) {
	store := &stubStore{}
	m := NewManager(NewRegistry(time.Hour), store)

	in := model.Insights{
		Diseases: []model.RiskFinding{{
			Disease:        "Late Blight (Phytophthora infestans)",
			Severity:       model.SeverityCritical,
			Probability:    100,
			Recommendation: "Apply systemic fungicide immediately.",
		}},
	}

	first := m.Process(context.Background(), in, origin())
	if len(first) != 1 {
		t.Fatalf("first pass accepted = %d, want 1", len(first))
	}
	second := m.Process(context.Background(), in, origin())
	if len(second) != 0 {
		t.Errorf("duplicate accepted inside cooldown: %+v", second)
	}
	if len(store.batches) != 1 {
		t.Errorf("store called %d times, want 1", len(store.batches))
	}

	// another zone is a different key and must pass
	other := origin()
	other.ZoneID = "3"
	if got := m.Process(context.Background(), in, other); len(got) != 1 {
		t.Errorf("different zone suppressed: %+v", got)
	}
}

func TestProcessAnomalyAndNutrientTypes(t *testing.T) {
	store := &stubStore{}
	m := NewManager(NewRegistry(time.Hour), store)

	in := model.Insights{
		Anomalies: []model.AnomalyFinding{{
			Sensor:   "pH",
			Severity: model.SeverityCritical,
			Type:     model.AnomalyOutOfRange,
			Message:  "pH reading 11.2 is outside valid range",
			Action:   "Check pH sensor connections and calibration",
		}},
		Nutrients: []model.NutrientFinding{{
			Nutrient: "Phosphorus",
			Status:   "LOW",
			Current:  28,
			Target:   "40-80",
			Severity: model.SeverityWarning,
		}},
	}

	accepted := m.Process(context.Background(), in, origin())
	if len(accepted) != 2 {
		t.Fatalf("accepted = %d, want 2", len(accepted))
	}
	if accepted[0].Type != "out_of_range" || accepted[0].Severity != model.AlertCritical {
		t.Errorf("anomaly alert = %+v", accepted[0])
	}
	if accepted[1].Type != TypeNutrient || accepted[1].Severity != model.AlertWarning {
		t.Errorf("nutrient alert = %+v", accepted[1])
	}
	if accepted[1].Message != "Phosphorus level LOW: 28 ppm (target: 40-80)" {
		t.Errorf("nutrient message = %q", accepted[1].Message)
	}
}

func TestProcessStoreFailureKeepsCooldown(t *testing.T) {
	store := &stubStore{err: errors.New("connection refused")}
	m := NewManager(NewRegistry(time.Hour), store)

	in := model.Insights{
		Irrigation: &model.IrrigationRecommendation{
			Recommendation: model.IrrigationUrgent,
			Action:         "Irrigate immediately",
			Reason:         "Soil moisture critically low (300)",
		},
	}

	accepted := m.Process(context.Background(), in, origin())
	if len(accepted) != 1 {
		t.Fatalf("store failure must not drop accepted alerts, got %d", len(accepted))
	}

	// cooldown state is not rolled back on store failure
	store.err = nil
	if got := m.Process(context.Background(), in, origin()); len(got) != 0 {
		t.Errorf("retry inside cooldown accepted after store failure: %+v", got)
	}
}

func TestMapSeverity(t *testing.T) {
	cases := []struct {
		in   model.Severity
		want model.AlertSeverity
	}{
		{model.SeverityCritical, model.AlertCritical},
		{model.SeverityHigh, model.AlertCritical},
		{model.SeverityMedium, model.AlertWarning},
		{model.SeverityWarning, model.AlertWarning},
		{model.SeverityLow, model.AlertInfo},
		{model.SeverityInfo, model.AlertInfo},
		{model.Severity("BOGUS"), model.AlertInfo},
	}
	for _, tc := range cases {
		if got := mapSeverity(tc.in); got != tc.want {
			t.Errorf("mapSeverity(%s) = %s, want %s", tc.in, got, tc.want)
		}
	}
}
