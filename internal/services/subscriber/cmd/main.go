package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/agriconnect/cloud-intelligence/internal/alerting"
	"github.com/agriconnect/cloud-intelligence/internal/services/subscriber"
	"github.com/agriconnect/cloud-intelligence/internal/storage"
	"github.com/agriconnect/cloud-intelligence/pkg/mqtt"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := loadConfig()

	// --- MQTT bus ---
	mqClient, err := mqtt.NewConn(ctx, mqtt.Config{
		Host:     cfg.MQTTHost,
		Port:     cfg.MQTTPort,
		User:     cfg.MQTTUser,
		Password: cfg.MQTTPassword,
		ClientID: "cloud-intelligence-" + uuid.NewString()[:8],
	})
	if err != nil {
		log.Fatalf("mqtt connect failed: %v", err)
	}
	consumer := mqtt.NewConsumer(mqClient, []string{cfg.DataTopic, cfg.StatusTopic}, nil)

	// --- InfluxDB reading sink ---
	influxClient := influxdb2.NewClient(cfg.InfluxURL, cfg.InfluxToken)
	defer influxClient.Close()
	readings := storage.NewReadingWriter(influxClient.WriteAPI(cfg.InfluxOrg, cfg.InfluxBucket))

	// --- Postgres alert store ---
	db, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("postgres open failed: %v", err)
	}
	defer db.Close()
	pg := storage.NewPostgresStore(db)
	if err := pg.Ping(ctx, 5*time.Second); err != nil {
		log.Printf("WARN: postgres not reachable at startup: %v", err)
	}
	store := storage.NewBreakerStore(pg, storage.BreakerSettings{
		ConsecutiveFailures: cfg.BreakerFailures,
		OpenFor:             cfg.BreakerOpenFor,
	})

	// --- Alert aggregation ---
	registry := alerting.NewRegistry(cfg.AlertCooldown)
	go registry.Run(ctx, cfg.SweepInterval)
	manager := alerting.NewManager(registry, store)

	svc := subscriber.New(subscriber.Config{FarmID: cfg.FarmID}, consumer, readings, pg, manager)

	// --- HTTP: health + metrics ---
	mux := http.NewServeMux()
	mux.Handle("/healthz", subscriber.NewHealthHandler(mqClient, readings, db))
	mux.Handle("/readyz", subscriber.NewReadyHandler(mqClient, readings, db, 30*time.Second))
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.Printf("subscriber HTTP listening on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("http server error: %v", err)
		}
	}()

	log.Printf("intelligence layer active - farm %s", cfg.FarmID)
	go svc.Start(ctx)

	<-ctx.Done()
	stop()

	shCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(shCtx)
	log.Println("subscriber: shutdown complete")
}
