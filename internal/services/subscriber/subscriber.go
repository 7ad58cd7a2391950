// Package subscriber consumes field telemetry from the MQTT bus, runs
// the intelligence analyzers over every reading and hands the resulting
// insights to the alert aggregator. One inbound message is one logical
// task; the analyzers share no mutable state and never fail.
package subscriber

import (
	"context"
	"encoding/json"
	"log"
	"strings"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/agriconnect/cloud-intelligence/internal/alerting"
	"github.com/agriconnect/cloud-intelligence/internal/intelligence"
	"github.com/agriconnect/cloud-intelligence/internal/metrics"
	"github.com/agriconnect/cloud-intelligence/internal/model"
	"github.com/agriconnect/cloud-intelligence/pkg/dedup"
	"github.com/agriconnect/cloud-intelligence/pkg/mqtt"
)

// ReadingSink receives every accepted raw reading for persistence.
type ReadingSink interface {
	Write(r model.Reading)
}

// GatewayStore records gateway liveness from status messages.
type GatewayStore interface {
	UpdateGatewayStatus(ctx context.Context, gatewayID, status, firmware string, lastSeen time.Time) error
}

type Config struct {
	FarmID string
}

type Service struct {
	cfg      Config
	consumer mqtt.IConsumer
	readings ReadingSink
	gateways GatewayStore
	alerts   *alerting.Manager
	deduper  *dedup.Deduper

	diseases   *intelligence.DiseaseAnalyzer
	irrigation *intelligence.IrrigationAdvisor
	anomalies  *intelligence.AnomalyDetector
	nutrients  *intelligence.NutrientAnalyzer
}

func New(cfg Config, consumer mqtt.IConsumer, readings ReadingSink, gateways GatewayStore, alerts *alerting.Manager) *Service {
	return &Service{
		cfg:        cfg,
		consumer:   consumer,
		readings:   readings,
		gateways:   gateways,
		alerts:     alerts,
		deduper:    dedup.New(10*time.Minute, 20000),
		diseases:   intelligence.NewDiseaseAnalyzer(),
		irrigation: intelligence.NewIrrigationAdvisor(),
		anomalies:  intelligence.NewAnomalyDetector(),
		nutrients:  intelligence.NewNutrientAnalyzer(),
	}
}

// Start consumes until ctx is cancelled.
func (s *Service) Start(ctx context.Context) {
	s.consumer.SetHandler(func(_ string, msg paho.Message) error {
		return s.handle(ctx, msg.Topic(), msg.Payload())
	})
	s.consumer.ConsumeMessage(ctx)
}

func (s *Service) handle(ctx context.Context, topic string, payload []byte) error {
	// drop QoS1 redeliveries before any unmarshalling
	if s.deduper.Seen(topic, payload) {
		metrics.ReadingsDropped.WithLabelValues("redelivery").Inc()
		return nil
	}

	switch {
	case strings.HasPrefix(topic, dataTopicPrefix):
		return s.handleData(ctx, topic, payload)
	case strings.HasPrefix(topic, statusTopicPrefix):
		return s.handleStatus(ctx, topic, payload)
	}
	return nil
}

// dataPayload is the wire format published by gateways. The battery
// level rides in the system block but is analyzed like any other sensor.
type dataPayload struct {
	GatewayID string             `json:"gatewayId"`
	Timestamp string             `json:"timestamp"`
	Sensors   map[string]float64 `json:"sensors"`
	System    struct {
		BatteryLevel *float64 `json:"batteryLevel"`
		PumpStatus   bool     `json:"pumpStatus"`
		RSSI         *float64 `json:"rssi"`
	} `json:"system"`
}

func (s *Service) handleData(ctx context.Context, topic string, payload []byte) error {
	gatewayID, fieldID, zoneID, err := parseDataTopic(topic)
	if err != nil {
		metrics.ReadingsDropped.WithLabelValues("bad_topic").Inc()
		log.Printf("subscriber: %v", err)
		return nil
	}

	var p dataPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		metrics.ReadingsDropped.WithLabelValues("bad_payload").Inc()
		log.Printf("subscriber: bad payload on %s: %v", topic, err)
		return nil // never stall the stream on one bad reading
	}

	reading := s.normalize(gatewayID, fieldID, zoneID, p)
	if s.readings != nil {
		s.readings.Write(reading)
	}

	start := time.Now()
	insights := s.analyze(reading)
	metrics.AnalysisDuration.Observe(time.Since(start).Seconds())
	metrics.ReadingsProcessed.WithLabelValues(gatewayID).Inc()

	s.alerts.Process(ctx, insights, reading)
	return nil
}

func (s *Service) normalize(gatewayID, fieldID, zoneID string, p dataPayload) model.Reading {
	sensors := make(model.SensorValues, len(p.Sensors)+1)
	for name, value := range p.Sensors {
		sensors[name] = value
	}
	if p.System.BatteryLevel != nil {
		sensors[model.SensorBatteryLevel] = *p.System.BatteryLevel
	}

	ts, err := time.Parse(time.RFC3339, p.Timestamp)
	if err != nil {
		ts = time.Now().UTC()
	}

	return model.Reading{
		FarmID:    s.cfg.FarmID,
		GatewayID: gatewayID,
		FieldID:   fieldID,
		ZoneID:    zoneID,
		Timestamp: ts,
		Sensors:   sensors,
	}
}

// analyze runs the three rule analyzers plus the nutrient supplement.
// They are pure over the reading and could equally run concurrently;
// sequential keeps per-reading ordering trivial and is fast enough.
func (s *Service) analyze(r model.Reading) model.Insights {
	var in model.Insights

	if r.Sensors.Has(model.SensorAirTemperature) && r.Sensors.Has(model.SensorAirHumidity) {
		in.Diseases = s.diseases.Evaluate(r)
		metrics.FindingsDetected.WithLabelValues("disease").Add(float64(len(in.Diseases)))
	}

	if r.Sensors.Has(model.SensorSoilMoisture) {
		rec := s.irrigation.Advise(r)
		in.Irrigation = &rec
		metrics.FindingsDetected.WithLabelValues("irrigation").Inc()
	}

	in.Anomalies = s.anomalies.Detect(r)
	metrics.FindingsDetected.WithLabelValues("anomaly").Add(float64(len(in.Anomalies)))

	in.Nutrients = s.nutrients.Analyze(r)
	metrics.FindingsDetected.WithLabelValues("nutrient").Add(float64(len(in.Nutrients)))

	return in
}

type statusPayload struct {
	GatewayID       string `json:"gatewayId"`
	Status          string `json:"status"`
	FirmwareVersion string `json:"firmwareVersion"`
}

func (s *Service) handleStatus(ctx context.Context, topic string, payload []byte) error {
	gatewayID, err := parseStatusTopic(topic)
	if err != nil {
		log.Printf("subscriber: %v", err)
		return nil
	}

	var p statusPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		log.Printf("subscriber: bad status payload on %s: %v", topic, err)
		return nil
	}
	if p.GatewayID != "" {
		gatewayID = p.GatewayID
	}
	if p.Status == "" {
		p.Status = "unknown"
	}

	if s.gateways == nil {
		return nil
	}
	if err := s.gateways.UpdateGatewayStatus(ctx, gatewayID, p.Status, p.FirmwareVersion, time.Now().UTC()); err != nil {
		log.Printf("subscriber: gateway status update failed: %v", err)
	}
	return nil
}
