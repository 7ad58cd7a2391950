package intelligence

import (
	"fmt"

	"github.com/agriconnect/cloud-intelligence/internal/model"
)

// nutrientBand is the optimal ppm window for tomato cultivation
// (vegetative/fruiting average).
type nutrientBand struct {
	Key      string
	Name     string
	Min, Max float64
}

var nutrientBands = []nutrientBand{
	{model.SensorNitrogenPPM, "Nitrogen", 150, 250},
	{model.SensorPhosphorusPPM, "Phosphorus", 40, 80},
	{model.SensorPotassiumPPM, "Potassium", 200, 400},
}

// NutrientAnalyzer classifies NPK readings against the crop's optimal
// bands. Deficiencies are warnings; only a nitrogen surplus is reported,
// as informational.
type NutrientAnalyzer struct{}

func NewNutrientAnalyzer() *NutrientAnalyzer { return &NutrientAnalyzer{} }

func (a *NutrientAnalyzer) Analyze(r model.Reading) []model.NutrientFinding {
	var issues []model.NutrientFinding
	for _, b := range nutrientBands {
		value, ok := r.Sensors.Get(b.Key)
		if !ok {
			continue
		}
		target := fmt.Sprintf("%g-%g", b.Min, b.Max)
		switch {
		case value < b.Min:
			issues = append(issues, model.NutrientFinding{
				Nutrient: b.Name,
				Status:   "LOW",
				Current:  value,
				Target:   target,
				Severity: model.SeverityWarning,
			})
		case value > b.Max && b.Key == model.SensorNitrogenPPM:
			// excess nitrogen delays fruiting but is not urgent
			issues = append(issues, model.NutrientFinding{
				Nutrient: b.Name,
				Status:   "HIGH",
				Current:  value,
				Target:   target,
				Severity: model.SeverityInfo,
			})
		}
	}
	return issues
}
