package sensor_simulator

import (
	"math"
	"math/rand"
	"sync"
	"time"
)

// Tunables for the synthetic field environment.
const (
	// moistureDecayPerMin drains soil moisture between waterings,
	// in raw sensor counts per minute.
	moistureDecayPerMin = 0.8

	// diurnal temperature swing around the daily mean (°C).
	tempSwing = 6.0
)

// Environment produces a drifting, plausible sensor suite for one zone.
// Moisture decays over time, air temperature follows a diurnal sine and
// humidity moves inversely to it; the rest jitters around a baseline.
type Environment struct {
	mu       sync.Mutex
	last     time.Time
	moisture float64

	baseTemp float64
	rng      *rand.Rand
}

func NewEnvironment(seedMoisture, baseTemp float64, seed int64) *Environment {
	if seedMoisture <= 0 {
		seedMoisture = 520
	}
	if baseTemp == 0 {
		baseTemp = 25
	}
	return &Environment{
		last:     time.Now().UTC(),
		moisture: seedMoisture,
		baseTemp: baseTemp,
		rng:      rand.New(rand.NewSource(seed)),
	}
}

// Next advances the environment to now and returns the sensor suite.
func (e *Environment) Next() map[string]float64 {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := time.Now().UTC()
	dtMin := now.Sub(e.last).Minutes()
	if dtMin < 0 {
		dtMin = 0
	}
	e.last = now

	e.moisture = clamp(e.moisture-moistureDecayPerMin*dtMin, 120, 880)

	// peak around 14:00 UTC
	hour := float64(now.Hour()) + float64(now.Minute())/60
	temp := e.baseTemp + tempSwing*math.Sin((hour-8)/24*2*math.Pi) + e.jitter(0.6)
	humidity := clamp(95-1.8*(temp-15)+e.jitter(3), 25, 99)

	return map[string]float64{
		"airTemperature":  round1(temp),
		"airHumidity":     round1(humidity),
		"soilMoisture":    math.Round(e.moisture),
		"soilTemperature": round1(temp - 2.5 + e.jitter(0.4)),
		"phValue":         round1(6.5 + e.jitter(0.15)),
		"ecValue":         round1(2.8 + e.jitter(0.2)),
		"nitrogenPPM":     math.Round(200 + e.jitter(15)),
		"phosphorusPPM":   math.Round(60 + e.jitter(6)),
		"potassiumPPM":    math.Round(280 + e.jitter(20)),
		"lightIntensity":  math.Round(clamp(45000+30000*math.Sin((hour-6)/24*2*math.Pi), 0, 110000)),
		"parValue":        math.Round(clamp(850+500*math.Sin((hour-6)/24*2*math.Pi), 0, 1900)),
	}
}

// Irrigate raises moisture as a watering of the given duration would.
func (e *Environment) Irrigate(d time.Duration) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.moisture = clamp(e.moisture+10*d.Minutes(), 120, 880)
}

func (e *Environment) jitter(scale float64) float64 {
	return (e.rng.Float64()*2 - 1) * scale
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, v))
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
