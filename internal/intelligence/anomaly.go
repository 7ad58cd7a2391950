package intelligence

import (
	"fmt"
	"math"

	"github.com/agriconnect/cloud-intelligence/internal/model"
)

// sensorRange is the plausible physical range for one sensor; values
// outside it indicate a malfunctioning or miscalibrated sensor rather
// than a real environmental condition.
type sensorRange struct {
	Key      string
	Name     string
	Min, Max float64
}

// band is a stricter range considered ideal for plant growth.
type band struct {
	Min, Max float64
}

// normalRanges is ordered so detection output is deterministic.
var normalRanges = []sensorRange{
	{model.SensorAirTemperature, "Air Temperature", 5, 45},
	{model.SensorAirHumidity, "Air Humidity", 10, 100},
	{model.SensorSoilMoisture, "Soil Moisture", 100, 900},
	{model.SensorSoilTemperature, "Soil Temperature", 10, 40},
	{model.SensorPHValue, "pH", 3.0, 10.0},
	{model.SensorECValue, "EC", 0.5, 8.0},
	{model.SensorNitrogenPPM, "Nitrogen", 0, 500},
	{model.SensorPhosphorusPPM, "Phosphorus", 0, 200},
	{model.SensorPotassiumPPM, "Potassium", 0, 800},
	{model.SensorLightIntensity, "Light Intensity", 0, 120000},
	{model.SensorPARValue, "PAR", 0, 2000},
	{model.SensorBatteryLevel, "Battery", 0, 100},
}

var optimalRanges = map[string]band{
	model.SensorAirTemperature: {18, 30},
	model.SensorAirHumidity:    {60, 80},
	model.SensorSoilMoisture:   {400, 600},
	model.SensorPHValue:        {6.0, 7.0},
	model.SensorECValue:        {2.0, 3.5},
}

const (
	tempCorrelationMaxDiff = 15.0 // °C between air and soil sensors
	batteryLowPct          = 20.0
	npkPlausibleTotalPPM   = 1000.0
)

// AnomalyDetector runs per-sensor range checks and cross-sensor
// consistency checks over one reading. Both passes are side-effect-free;
// sensors missing from the reading are skipped.
type AnomalyDetector struct{}

func NewAnomalyDetector() *AnomalyDetector { return &AnomalyDetector{} }

// Detect returns the concatenated per-sensor and cross-sensor findings
// for one reading. Order within the result is not significant.
func (d *AnomalyDetector) Detect(r model.Reading) []model.AnomalyFinding {
	var findings []model.AnomalyFinding

	for _, rng := range normalRanges {
		value, ok := r.Sensors.Get(rng.Key)
		if !ok {
			continue
		}

		if value < rng.Min || value > rng.Max {
			findings = append(findings, model.AnomalyFinding{
				Sensor:    rng.Name,
				Value:     fmt.Sprintf("%g", value),
				Expected:  fmt.Sprintf("%g - %g", rng.Min, rng.Max),
				Severity:  model.SeverityCritical,
				Type:      model.AnomalyOutOfRange,
				Message:   fmt.Sprintf("%s reading %g is outside valid range", rng.Name, value),
				Diagnosis: "Possible sensor malfunction or calibration error",
				Action:    fmt.Sprintf("Check %s sensor connections and calibration", rng.Name),
			})
			continue
		}

		if opt, hasOpt := optimalRanges[rng.Key]; hasOpt && (value < opt.Min || value > opt.Max) {
			findings = append(findings, model.AnomalyFinding{
				Sensor:    rng.Name,
				Value:     fmt.Sprintf("%g", value),
				Expected:  fmt.Sprintf("%g - %g (optimal)", opt.Min, opt.Max),
				Severity:  model.SeverityWarning,
				Type:      model.AnomalySuboptimal,
				Message:   fmt.Sprintf("%s reading %g is suboptimal", rng.Name, value),
				Diagnosis: "Within safe range but not ideal for plant growth",
				Action:    optimizationAdvice(rng.Key, value, opt),
			})
		}
	}

	return append(findings, d.crossValidate(r.Sensors)...)
}

// crossValidate runs the four cross-sensor checks. Each is optional on
// missing inputs. The humidity+temperature disease correlation is
// deliberately not duplicated here; that is the disease engine's job.
func (d *AnomalyDetector) crossValidate(s model.SensorValues) []model.AnomalyFinding {
	var issues []model.AnomalyFinding

	// Soil and air temperatures normally track within 10°C.
	if airT, ok := s.Get(model.SensorAirTemperature); ok {
		if soilT, ok := s.Get(model.SensorSoilTemperature); ok {
			if diff := math.Abs(airT - soilT); diff > tempCorrelationMaxDiff {
				issues = append(issues, model.AnomalyFinding{
					Sensor:    "Temperature Correlation",
					Value:     fmt.Sprintf("Air: %gC, Soil: %gC", airT, soilT),
					Severity:  model.SeverityWarning,
					Type:      model.AnomalyCorrelation,
					Message:   fmt.Sprintf("Unusual temperature difference: %.1fC", diff),
					Diagnosis: "Soil and air temperatures normally differ by <10C",
					Action:    "Check both temperature sensors for accuracy",
				})
			}
		}
	}

	if battery, ok := s.Get(model.SensorBatteryLevel); ok && battery < batteryLowPct {
		issues = append(issues, model.AnomalyFinding{
			Sensor:    "Battery",
			Value:     fmt.Sprintf("%g%%", battery),
			Severity:  model.SeverityWarning,
			Type:      model.AnomalyLowBattery,
			Message:   fmt.Sprintf("Battery level critically low: %g%%", battery),
			Diagnosis: "Node may shut down soon",
			Action:    "Replace or recharge battery within 24 hours",
		})
	}

	n, hasN := s.Get(model.SensorNitrogenPPM)
	p, hasP := s.Get(model.SensorPhosphorusPPM)
	k, hasK := s.Get(model.SensorPotassiumPPM)
	if hasN && hasP && hasK {
		if total := n + p + k; total > npkPlausibleTotalPPM {
			issues = append(issues, model.AnomalyFinding{
				Sensor:    "NPK Sensor",
				Value:     fmt.Sprintf("Total: %g ppm", total),
				Severity:  model.SeverityWarning,
				Type:      model.AnomalySuspicious,
				Message:   "Unusually high total NPK reading",
				Diagnosis: "May indicate sensor calibration issue",
				Action:    "Recalibrate NPK sensor or verify with soil test",
			})
		}
	}

	return issues
}

func optimizationAdvice(key string, value float64, opt band) string {
	low := value < opt.Min
	switch key {
	case model.SensorAirTemperature:
		if low {
			return "Consider adding heating or improving insulation"
		}
		return "Improve ventilation or add shading"
	case model.SensorAirHumidity:
		if low {
			return "Increase misting or reduce ventilation"
		}
		return "Improve air circulation or reduce watering frequency"
	case model.SensorSoilMoisture:
		if low {
			return "Increase irrigation frequency or duration"
		}
		return "Reduce watering or improve drainage"
	case model.SensorPHValue:
		if low {
			return "Add lime to raise pH"
		}
		return "Add sulfur to lower pH"
	case model.SensorECValue:
		if low {
			return "Increase fertilizer concentration"
		}
		return "Flush soil with water to reduce salt buildup"
	}
	return "Adjust conditions to reach optimal range"
}
