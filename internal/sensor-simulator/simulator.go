// Package sensor_simulator publishes synthetic field telemetry so the
// intelligence pipeline can be exercised end to end without hardware.
// Besides a drifting "normal" environment it can replay fixed fault
// scenarios (disease weather, drought, sensor failure, depleted soil).
package sensor_simulator

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/agriconnect/cloud-intelligence/pkg/mqtt"
)

// Scenario is a fixed sensor suite published to one zone.
type Scenario struct {
	Name    string
	ZoneID  string
	Sensors map[string]float64
	Battery float64
}

// Scenarios mirror the conditions the analyzers are built to catch.
var Scenarios = []Scenario{
	{
		Name: "late-blight-weather", ZoneID: "1", Battery: 78,
		Sensors: map[string]float64{
			"airTemperature": 18.5, "airHumidity": 95.0, "soilMoisture": 480,
			"soilTemperature": 17.8, "phValue": 6.7, "ecValue": 2.5,
			"nitrogenPPM": 180, "phosphorusPPM": 55, "potassiumPPM": 260,
		},
	},
	{
		Name: "urgent-irrigation", ZoneID: "2", Battery: 74,
		Sensors: map[string]float64{
			"airTemperature": 32.0, "airHumidity": 45.0, "soilMoisture": 320,
			"soilTemperature": 28.5, "phValue": 6.3, "ecValue": 3.2,
		},
	},
	{
		Name: "sensor-fault", ZoneID: "3", Battery: 15,
		Sensors: map[string]float64{
			"airTemperature": 25.0, "airHumidity": 70.0, "soilMoisture": 510,
			"phValue": 11.2, "soilTemperature": 44.0,
		},
	},
	{
		Name: "nutrient-deficiency", ZoneID: "4", Battery: 81,
		Sensors: map[string]float64{
			"airTemperature": 24.0, "airHumidity": 65.0, "soilMoisture": 505,
			"nitrogenPPM": 95, "phosphorusPPM": 28, "potassiumPPM": 140,
		},
	},
}

type Simulator struct {
	publisher mqtt.IPublisher
	gatewayID string
	fieldID   string
	env       *Environment
	interval  time.Duration
}

func New(publisher mqtt.IPublisher, gatewayID, fieldID string, env *Environment, interval time.Duration) *Simulator {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &Simulator{
		publisher: publisher,
		gatewayID: gatewayID,
		fieldID:   fieldID,
		env:       env,
		interval:  interval,
	}
}

// Run publishes the drifting environment for zone 0 plus every fault
// scenario on each tick, until ctx is done.
func (s *Simulator) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.publisher.Close()
			return
		case <-ticker.C:
			s.publishZone("0", s.env.Next(), 85)
			for _, sc := range Scenarios {
				s.publishZone(sc.ZoneID, sc.Sensors, sc.Battery)
			}
		}
	}
}

func (s *Simulator) publishZone(zoneID string, sensors map[string]float64, battery float64) {
	payload := map[string]any{
		"gatewayId": s.gatewayID,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"sensors":   sensors,
		"system": map[string]any{
			"batteryLevel": battery,
			"pumpStatus":   false,
		},
	}
	b, err := json.Marshal(payload)
	if err != nil {
		log.Printf("simulator: marshal: %v", err)
		return
	}
	topic := fmt.Sprintf("agriconnect/data/%s/%s/%s", s.gatewayID, s.fieldID, zoneID)
	if err := s.publisher.PublishTo(topic, b); err != nil {
		log.Printf("simulator: publish %s: %v", topic, err)
	}
}
