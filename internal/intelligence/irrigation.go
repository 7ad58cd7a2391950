package intelligence

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/agriconnect/cloud-intelligence/internal/model"
)

// Soil moisture thresholds in raw sensor counts (not percent).
const (
	moistureCritical = 350
	moistureLow      = 400
	moistureOptimal  = 500
	moistureHigh     = 650
)

const (
	tempHigh = 30.0 // °C above which an urgent watering gets extra time
	vpdHigh  = 1.5  // kPa
	vpdLow   = 0.4  // kPa

	maxDurationMinutes = 30
	heatBonusMinutes   = 5

	// Daytime window [6,16] during which a NEEDED watering is deferred
	// to the evening to avoid midday evaporation.
	dayWindowStartHour = 6
	dayWindowEndHour   = 16
)

// IrrigationAdvisor classifies soil moisture and computes vapor pressure
// deficit to produce a timed watering recommendation.
type IrrigationAdvisor struct {
	now func() time.Time
}

func NewIrrigationAdvisor() *IrrigationAdvisor {
	return &IrrigationAdvisor{now: time.Now}
}

// VPD returns the vapor pressure deficit in kPa for the given air
// temperature (°C) and relative humidity (%), using the Tetens formula
// for saturation vapor pressure.
func VPD(temperature, relativeHumidity float64) float64 {
	svp := 0.6108 * math.Exp((17.27*temperature)/(temperature+237.3))
	avp := svp * (relativeHumidity / 100)
	return svp - avp
}

// Advise produces the irrigation recommendation for one reading. A reading
// without a soil moisture value yields a NORMAL recommendation with no
// action. The advisor is side-effect-free.
func (a *IrrigationAdvisor) Advise(r model.Reading) model.IrrigationRecommendation {
	moisture, hasMoisture := r.Sensors.Get(model.SensorSoilMoisture)
	temp, hasTemp := r.Sensors.Get(model.SensorAirTemperature)
	humidity, hasHumidity := r.Sensors.Get(model.SensorAirHumidity)

	var vpd float64
	if hasTemp && hasHumidity {
		vpd = VPD(temp, humidity)
	}

	out := model.IrrigationRecommendation{
		Recommendation:  model.IrrigationNormal,
		VPD:             vpd,
		CurrentMoisture: moisture,
		TargetMoisture:  moistureOptimal,
		Timestamp:       a.now().UTC(),
	}

	var reasons []string

	switch {
	case !hasMoisture:
		// nothing to classify; VPD notes below still apply

	case moisture < moistureCritical:
		out.Recommendation = model.IrrigationUrgent
		out.Action = "Irrigate immediately"
		out.DurationMinutes = wateringDuration(moisture)
		reasons = append(reasons, fmt.Sprintf("Soil moisture critically low (%g)", moisture))
		if hasTemp && temp > tempHigh {
			reasons = append(reasons, fmt.Sprintf("High temperature stress (%gC)", temp))
			out.DurationMinutes = min(out.DurationMinutes+heatBonusMinutes, maxDurationMinutes)
		}

	case moisture < moistureLow:
		out.Recommendation = model.IrrigationNeeded
		reasons = append(reasons, fmt.Sprintf("Soil moisture low (%g)", moisture))
		hour := a.now().Hour()
		if hour >= dayWindowStartHour && hour <= dayWindowEndHour {
			out.Action = "Schedule irrigation for evening (after 5 PM)"
			reasons = append(reasons, "Avoid midday evaporation")
		} else {
			out.Action = "Irrigate now"
		}
		out.DurationMinutes = wateringDuration(moisture)

	case moisture <= moistureHigh:
		out.Recommendation = model.IrrigationOptimal
		out.Action = "No irrigation needed"
		reasons = append(reasons, fmt.Sprintf("Soil moisture optimal (%g)", moisture))

	default:
		out.Recommendation = model.IrrigationExcess
		out.Action = "Do NOT water - risk of root rot"
		reasons = append(reasons, fmt.Sprintf("Soil moisture too high (%g)", moisture))
	}

	// VPD advisories are informational only; they never change the
	// primary classification.
	if hasTemp && hasHumidity {
		if vpd > vpdHigh {
			reasons = append(reasons, fmt.Sprintf("High VPD (%.2f kPa) - plants transpiring heavily", vpd))
		} else if vpd < vpdLow {
			reasons = append(reasons, fmt.Sprintf("Low VPD (%.2f kPa) - reduced water uptake", vpd))
		}
	}

	out.Reason = strings.Join(reasons, ". ")
	return out
}

// wateringDuration estimates minutes of watering to close the deficit to
// the optimal level, roughly one minute per 10 counts, clamped to [0,30].
func wateringDuration(moisture float64) int {
	deficit := moistureOptimal - moisture
	if deficit <= 0 {
		return 0
	}
	minutes := int(math.Ceil(deficit / 10))
	return min(minutes, maxDurationMinutes)
}
