package model

import "time"

// Sensor names as published by field nodes.
const (
	SensorAirTemperature  = "airTemperature"
	SensorAirHumidity     = "airHumidity"
	SensorSoilMoisture    = "soilMoisture"
	SensorSoilTemperature = "soilTemperature"
	SensorPHValue         = "phValue"
	SensorECValue         = "ecValue"
	SensorNitrogenPPM     = "nitrogenPPM"
	SensorPhosphorusPPM   = "phosphorusPPM"
	SensorPotassiumPPM    = "potassiumPPM"
	SensorLightIntensity  = "lightIntensity"
	SensorPARValue        = "parValue"
	SensorBatteryLevel    = "batteryLevel"
)

// SensorValues maps sensor name to sampled value. A missing key means the
// node did not report that sensor; every check that needs it is skipped.
type SensorValues map[string]float64

func (s SensorValues) Get(name string) (float64, bool) {
	v, ok := s[name]
	return v, ok
}

func (s SensorValues) Has(name string) bool {
	_, ok := s[name]
	return ok
}

// Reading is one normalized telemetry sample. Identity fields are always
// present; sensor values may be partially missing. A Reading is read-only
// once it enters the pipeline.
type Reading struct {
	FarmID    string       `json:"farm_id"`
	GatewayID string       `json:"gateway_id"`
	FieldID   string       `json:"field_id"`
	ZoneID    string       `json:"zone_id"`
	Timestamp time.Time    `json:"timestamp"`
	Sensors   SensorValues `json:"sensors"`
}
