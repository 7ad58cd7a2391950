package model

import "time"

// Severity is the analyzer-internal severity scale. The aggregator folds
// it into the three public alert severities.
type Severity string

const (
	SeverityCritical Severity = "CRITICAL"
	SeverityHigh     Severity = "HIGH"
	SeverityMedium   Severity = "MEDIUM"
	SeverityWarning  Severity = "WARNING"
	SeverityLow      Severity = "LOW"
	SeverityInfo     Severity = "INFO"
)

type AnomalyType string

const (
	AnomalyOutOfRange  AnomalyType = "OUT_OF_RANGE"
	AnomalySuboptimal  AnomalyType = "SUBOPTIMAL"
	AnomalyCorrelation AnomalyType = "CORRELATION"
	AnomalyLowBattery  AnomalyType = "LOW_BATTERY"
	AnomalySuspicious  AnomalyType = "SUSPICIOUS"
)

// RiskFinding is one disease risk emitted by the disease engine.
type RiskFinding struct {
	Disease        string    `json:"disease"`
	Severity       Severity  `json:"severity"`
	Probability    int       `json:"probability"` // 0..100
	FactorsMet     []string  `json:"factors_met"`
	Recommendation string    `json:"recommendation"`
	Timestamp      time.Time `json:"timestamp"`
}

// IrrigationAdvice classifies the watering need for a zone.
type IrrigationAdvice string

const (
	IrrigationUrgent  IrrigationAdvice = "URGENT"
	IrrigationNeeded  IrrigationAdvice = "NEEDED"
	IrrigationOptimal IrrigationAdvice = "OPTIMAL"
	IrrigationExcess  IrrigationAdvice = "EXCESS"
	IrrigationNormal  IrrigationAdvice = "NORMAL"
)

// IrrigationRecommendation is the advisor's timed, duration-bounded output.
type IrrigationRecommendation struct {
	Recommendation  IrrigationAdvice `json:"recommendation"`
	Action          string           `json:"action,omitempty"`
	DurationMinutes int              `json:"duration"` // always within [0,30]
	Reason          string           `json:"reason"`
	VPD             float64          `json:"vpd"`
	CurrentMoisture float64          `json:"current_moisture"`
	TargetMoisture  float64          `json:"target_moisture"`
	Timestamp       time.Time        `json:"timestamp"`
}

// AnomalyFinding is one sensor or cross-sensor anomaly.
type AnomalyFinding struct {
	Sensor    string      `json:"sensor"`
	Value     string      `json:"value"` // formatted; cross-checks report value pairs
	Expected  string      `json:"expected"`
	Severity  Severity    `json:"severity"`
	Type      AnomalyType `json:"type"`
	Message   string      `json:"message"`
	Diagnosis string      `json:"diagnosis"`
	Action    string      `json:"action"`
}

// NutrientFinding is one NPK level outside the crop's optimal band.
type NutrientFinding struct {
	Nutrient string   `json:"nutrient"`
	Status   string   `json:"status"` // LOW | HIGH
	Current  float64  `json:"current"`
	Target   string   `json:"target"`
	Severity Severity `json:"severity"`
}

// Insights bundles all analyzer outputs for one reading.
type Insights struct {
	Diseases   []RiskFinding
	Irrigation *IrrigationRecommendation
	Anomalies  []AnomalyFinding
	Nutrients  []NutrientFinding
}
