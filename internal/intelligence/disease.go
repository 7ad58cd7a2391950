package intelligence

import (
	"fmt"
	"math"
	"time"

	"github.com/agriconnect/cloud-intelligence/internal/model"
)

// Factor weights for the weighted-probability disease scoring.
const (
	weightTemperature = 0.4
	weightHumidity    = 0.4
	weightLeafWetness = 0.2
	weightMoistureIrr = 0.5 // blossom end rot irregular-watering factor
)

// Soil moisture band outside of which watering counts as irregular.
const (
	irregularMoistureMin = 350
	irregularMoistureMax = 600
)

// DiseaseModel is one immutable catalog entry. The catalog is fixed data
// loaded once at process start, not user-editable at runtime.
type DiseaseModel struct {
	Key      string
	Name     string
	Severity model.Severity

	// Temperature risk band (°C). Present when HasTempBand.
	HasTempBand      bool
	TempMin, TempMax float64

	// Humidity requirement (%). HumidityMax == 0 means minimum-only.
	HasHumidity  bool
	HumidityMin  float64
	HumidityMax  float64

	// Declared leaf wetness duration. Approximated by humidity > 95%
	// regardless of the declared hours; the models never distinguished
	// 2h from 48h and the approximation is kept as-is.
	LeafWetnessHours int

	ActionThreshold float64
}

// diseaseCatalog holds the six tomato disease models. The numbers are the
// test oracle; do not tune them without updating the tables in the tests.
var diseaseCatalog = []DiseaseModel{
	{
		Key: "earlyBlight", Name: "Early Blight (Alternaria solani)",
		Severity:    model.SeverityHigh,
		HasTempBand: true, TempMin: 24, TempMax: 29,
		HasHumidity: true, HumidityMin: 90,
		LeafWetnessHours: 2,
		ActionThreshold:  0.7,
	},
	{
		Key: "lateBlight", Name: "Late Blight (Phytophthora infestans)",
		Severity:    model.SeverityCritical,
		HasTempBand: true, TempMin: 10, TempMax: 25,
		HasHumidity: true, HumidityMin: 90,
		LeafWetnessHours: 10,
		ActionThreshold:  0.6,
	},
	{
		Key: "septoriaLeafSpot", Name: "Septoria Leaf Spot",
		Severity:    model.SeverityMedium,
		HasTempBand: true, TempMin: 15, TempMax: 27,
		HasHumidity: true, HumidityMin: 85,
		LeafWetnessHours: 48,
		ActionThreshold:  0.7,
	},
	{
		Key: "powderyMildew", Name: "Powdery Mildew",
		Severity:    model.SeverityMedium,
		HasTempBand: true, TempMin: 20, TempMax: 30,
		HasHumidity: true, HumidityMin: 50, HumidityMax: 70,
		ActionThreshold: 0.6,
	},
	{
		Key: "bacterialSpot", Name: "Bacterial Spot",
		Severity:    model.SeverityHigh,
		HasTempBand: true, TempMin: 24, TempMax: 30,
		HasHumidity: true, HumidityMin: 85,
		ActionThreshold: 0.7,
	},
	{
		Key: "blossomEndRot", Name: "Blossom End Rot (Physiological)",
		Severity:        model.SeverityMedium,
		ActionThreshold: 0.5,
	},
}

var treatments = map[string]string{
	"earlyBlight":      "Apply copper-based fungicide. Remove affected leaves. Improve air circulation.",
	"lateBlight":       "URGENT: Apply systemic fungicide immediately. Monitor surrounding zones. Consider preventive treatment.",
	"septoriaLeafSpot": "Apply fungicide. Remove lower leaves. Mulch to prevent soil splash.",
	"powderyMildew":    "Apply sulfur or neem oil. Increase air circulation. Reduce humidity if possible.",
	"bacterialSpot":    "Apply copper bactericide. Avoid overhead watering. Remove affected tissue.",
	"blossomEndRot":    "Apply calcium spray. Maintain consistent watering schedule. Check soil pH (target 6.0-6.8).",
}

// treatmentFor is total: catalog keys always resolve, anything else gets a
// generic default so a catalog defect can never fail an evaluation.
func treatmentFor(key string) string {
	if t, ok := treatments[key]; ok {
		return t
	}
	return "Consult agricultural extension for treatment options."
}

// DiseaseAnalyzer evaluates the disease catalog against readings. It is a
// pure function over the catalog; no side effects, no error path.
type DiseaseAnalyzer struct {
	models []DiseaseModel
	now    func() time.Time
}

func NewDiseaseAnalyzer() *DiseaseAnalyzer {
	return &DiseaseAnalyzer{models: diseaseCatalog, now: time.Now}
}

// Evaluate returns one RiskFinding per catalog model whose accumulated
// weighted probability clears that model's action threshold. Missing
// sensor values fail the corresponding factor check, never the call.
func (a *DiseaseAnalyzer) Evaluate(r model.Reading) []model.RiskFinding {
	var risks []model.RiskFinding
	for _, m := range a.models {
		if f, ok := a.evaluateModel(m, r.Sensors); ok {
			risks = append(risks, f)
		}
	}
	return risks
}

func (a *DiseaseAnalyzer) evaluateModel(m DiseaseModel, s model.SensorValues) (model.RiskFinding, bool) {
	temp, hasTemp := s.Get(model.SensorAirTemperature)
	humidity, hasHumidity := s.Get(model.SensorAirHumidity)

	probability := 0.0
	var factorsMet []string

	if m.HasTempBand && hasTemp && temp >= m.TempMin && temp <= m.TempMax {
		factorsMet = append(factorsMet,
			fmt.Sprintf("Temperature %gC in risk range (%g-%gC)", temp, m.TempMin, m.TempMax))
		probability += weightTemperature
	}

	if m.HasHumidity && hasHumidity {
		if m.HumidityMax > 0 {
			// band check (powdery mildew)
			if humidity >= m.HumidityMin && humidity <= m.HumidityMax {
				factorsMet = append(factorsMet,
					fmt.Sprintf("Humidity %g%% in risk range (%g-%g%%)", humidity, m.HumidityMin, m.HumidityMax))
				probability += weightHumidity
			}
		} else if humidity >= m.HumidityMin {
			factorsMet = append(factorsMet,
				fmt.Sprintf("Humidity %g%% above threshold (%g%%)", humidity, m.HumidityMin))
			probability += weightHumidity
		}
	}

	// Leaf wetness proxy: sustained humidity above 95% stands in for
	// directly measured leaf surface moisture.
	if m.LeafWetnessHours > 0 && hasHumidity && humidity > 95 {
		factorsMet = append(factorsMet, "Leaf wetness likely (humidity >95%)")
		probability += weightLeafWetness
	}

	// Blossom end rot is a physiological disorder driven by irregular
	// watering rather than pathogen conditions.
	if m.Key == "blossomEndRot" {
		if moisture, ok := s.Get(model.SensorSoilMoisture); ok {
			if moisture < irregularMoistureMin || moisture > irregularMoistureMax {
				factorsMet = append(factorsMet,
					fmt.Sprintf("Soil moisture irregular (%g)", moisture))
				probability += weightMoistureIrr
			}
		}
	}

	if probability < m.ActionThreshold {
		return model.RiskFinding{}, false
	}

	return model.RiskFinding{
		Disease:        m.Name,
		Severity:       m.Severity,
		Probability:    int(math.Round(probability * 100)),
		FactorsMet:     factorsMet,
		Recommendation: treatmentFor(m.Key),
		Timestamp:      a.now().UTC(),
	}, true
}
