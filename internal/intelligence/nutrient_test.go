package intelligence

import (
	"testing"

	"github.com/agriconnect/cloud-intelligence/internal/model"
)

func TestNutrientDeficiencies(t *testing.T) {
	a := NewNutrientAnalyzer()
	issues := a.Analyze(reading(model.SensorValues{
		model.SensorNitrogenPPM:   95,
		model.SensorPhosphorusPPM: 28,
		model.SensorPotassiumPPM:  140,
	}))
	if len(issues) != 3 {
		t.Fatalf("issues = %d, want 3: %+v", len(issues), issues)
	}
	for _, f := range issues {
		if f.Status != "LOW" {
			t.Errorf("%s status = %s, want LOW", f.Nutrient, f.Status)
		}
		if f.Severity != model.SeverityWarning {
			t.Errorf("%s severity = %s, want WARNING", f.Nutrient, f.Severity)
		}
	}
	if issues[0].Nutrient != "Nitrogen" || issues[0].Target != "150-250" {
		t.Errorf("first issue = %+v", issues[0])
	}
}

func TestNitrogenSurplusOnly(t *testing.T) {
	a := NewNutrientAnalyzer()
	issues := a.Analyze(reading(model.SensorValues{
		model.SensorNitrogenPPM:   310,
		model.SensorPhosphorusPPM: 120, // above band, not reported
		model.SensorPotassiumPPM:  550, // above band, not reported
	}))
	if len(issues) != 1 {
		t.Fatalf("issues = %d, want 1: %+v", len(issues), issues)
	}
	f := issues[0]
	if f.Nutrient != "Nitrogen" || f.Status != "HIGH" || f.Severity != model.SeverityInfo {
		t.Errorf("surplus finding = %+v", f)
	}
}

func TestNutrientBandBoundaries(t *testing.T) {
	a := NewNutrientAnalyzer()
	issues := a.Analyze(reading(model.SensorValues{
		model.SensorNitrogenPPM:   150,
		model.SensorPhosphorusPPM: 80,
		model.SensorPotassiumPPM:  400,
	}))
	if len(issues) != 0 {
		t.Errorf("band edges flagged: %+v", issues)
	}
}

func TestNutrientMissingSensorsSkipped(t *testing.T) {
	a := NewNutrientAnalyzer()
	if issues := a.Analyze(reading(model.SensorValues{})); len(issues) != 0 {
		t.Errorf("empty reading produced findings: %+v", issues)
	}
}
