package main

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	FarmID string

	MQTTHost     string
	MQTTPort     int
	MQTTUser     string
	MQTTPassword string
	DataTopic    string
	StatusTopic  string

	InfluxURL    string
	InfluxToken  string
	InfluxOrg    string
	InfluxBucket string

	DatabaseURL string

	AlertCooldown time.Duration
	SweepInterval time.Duration

	BreakerFailures uint32
	BreakerOpenFor  time.Duration

	HTTPPort string
}

func getenv(k, d string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return d
}

func getenvInt(k string, d int) int {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return d
}

func loadConfig() Config {
	return Config{
		FarmID: getenv("FARM_ID", "FARM-CM-001"),

		MQTTHost:     getenv("MQTT_HOST", "localhost"),
		MQTTPort:     getenvInt("MQTT_PORT", 1883),
		MQTTUser:     getenv("MQTT_USER", ""),
		MQTTPassword: getenv("MQTT_PASSWORD", ""),
		DataTopic:    getenv("DATA_TOPIC", "agriconnect/data/#"),
		StatusTopic:  getenv("STATUS_TOPIC", "agriconnect/status/#"),

		InfluxURL:    getenv("INFLUX_URL", "http://localhost:8086"),
		InfluxToken:  getenv("INFLUX_TOKEN", ""),
		InfluxOrg:    getenv("INFLUX_ORG", "agriconnect"),
		InfluxBucket: getenv("INFLUX_BUCKET", "telemetry"),

		DatabaseURL: getenv("DATABASE_URL", "postgres://localhost:5432/agriconnect?sslmode=disable"),

		AlertCooldown: time.Duration(getenvInt("ALERT_COOLDOWN_MS", 3600000)) * time.Millisecond,
		SweepInterval: time.Duration(getenvInt("SWEEP_INTERVAL_MS", 600000)) * time.Millisecond,

		BreakerFailures: uint32(getenvInt("BREAKER_FAILURES", 5)),
		BreakerOpenFor:  time.Duration(getenvInt("BREAKER_OPEN_MS", 30000)) * time.Millisecond,

		HTTPPort: getenv("PORT", "8080"),
	}
}
