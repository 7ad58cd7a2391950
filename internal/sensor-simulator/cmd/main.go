package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	simulator "github.com/agriconnect/cloud-intelligence/internal/sensor-simulator"
	"github.com/agriconnect/cloud-intelligence/pkg/mqtt"
)

func main() {
	host := flag.String("mqtt-host", "localhost", "MQTT broker host")
	port := flag.Int("mqtt-port", 1883, "MQTT broker port")
	user := flag.String("mqtt-user", "", "MQTT username")
	pass := flag.String("mqtt-pass", "", "MQTT password")
	gatewayID := flag.String("gateway-id", "GW-CM-BUE-001", "gateway identifier")
	fieldID := flag.String("field-id", "1", "field identifier")
	interval := flag.Duration("interval", 30*time.Second, "publish interval")
	moisture := flag.Float64("seed-moisture", 520, "initial soil moisture (raw counts)")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client, err := mqtt.NewConn(ctx, mqtt.Config{
		Host:     *host,
		Port:     *port,
		User:     *user,
		Password: *pass,
		ClientID: "sensor-sim-" + uuid.NewString()[:8],
	})
	if err != nil {
		log.Fatalf("mqtt connect failed: %v", err)
	}

	env := simulator.NewEnvironment(*moisture, 25, time.Now().UnixNano())
	publisher := mqtt.NewPublisher(client, "")

	log.Printf("simulator publishing for gateway %s field %s every %s", *gatewayID, *fieldID, *interval)
	simulator.New(publisher, *gatewayID, *fieldID, env, *interval).Run(ctx)
}
