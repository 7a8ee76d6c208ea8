// Gray Logic Audio - multimedia device instance daemon
//
// This is the main entry point for the Gray Logic Audio daemon. It loads the
// catalogue of audio devices (wave, MIDI, mixer, auxiliary) behind their
// class drivers, journals every instance lifecycle event to SQLite, MQTT and
// (optionally) InfluxDB, and serves a read-only diagnostics API. On shutdown
// it drains every device's open instances before closing infrastructure.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/nerrad567/gray-logic-audio/migrations"

	"github.com/nerrad567/gray-logic-audio/internal/api"
	"github.com/nerrad567/gray-logic-audio/internal/driver"
	"github.com/nerrad567/gray-logic-audio/internal/infrastructure/config"
	"github.com/nerrad567/gray-logic-audio/internal/infrastructure/database"
	"github.com/nerrad567/gray-logic-audio/internal/infrastructure/influxdb"
	"github.com/nerrad567/gray-logic-audio/internal/infrastructure/logging"
	"github.com/nerrad567/gray-logic-audio/internal/infrastructure/mqtt"
	"github.com/nerrad567/gray-logic-audio/internal/journal"
	"github.com/nerrad567/gray-logic-audio/internal/session"
	"github.com/nerrad567/gray-logic-audio/internal/sounddevice"
	"github.com/nerrad567/gray-logic-audio/internal/telemetry"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

const (
	// Default configuration file path
	defaultConfigPath = "configs/config.yaml"

	// pruneInterval is how often old journal rows are removed.
	pruneInterval = 6 * time.Hour
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the application logic, separated from main for testability.
// It returns nil on a clean shutdown.
func run(ctx context.Context) error {
	log := logging.Default()
	log.Info("starting Gray Logic Audio",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log.Info("configuration loaded", "path", configPath)

	log = logging.New(cfg.Logging, version)
	log.Info("logger initialised",
		"level", cfg.Logging.Level,
		"format", cfg.Logging.Format,
	)

	db, err := database.Open(database.Config{
		Path:        cfg.Database.Path,
		WALMode:     cfg.Database.WALMode,
		BusyTimeout: cfg.Database.BusyTimeout,
	})
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() {
		log.Info("closing database")
		if closeErr := db.Close(); closeErr != nil {
			log.Error("error closing database", "error", closeErr)
		}
	}()
	log.Info("database connected", "path", cfg.Database.Path)

	if migrateErr := db.Migrate(ctx); migrateErr != nil {
		return fmt.Errorf("running migrations: %w", migrateErr)
	}
	log.Info("database migrations complete")

	journalRepo := journal.NewSQLiteRepository(db.DB)
	pruneJournal(ctx, journalRepo, cfg.GetJournalRetention(), log)

	health := map[string]api.HealthChecker{"database": db}

	alloc := sounddevice.NewArenaAllocator(cfg.Audio.MaxInstances)
	svc := session.NewService(alloc)
	svc.SetLogger(log.Component("session"))

	recorder := journal.NewRecorder(journalRepo, journal.DefaultWriteTimeout)
	recorder.SetLogger(log.Component("journal"))
	svc.AddObserver(recorder)

	if cfg.MQTT.Enabled() {
		mqttClient, mqttErr := mqtt.Connect(cfg.MQTT)
		if mqttErr != nil {
			return fmt.Errorf("connecting to MQTT: %w", mqttErr)
		}
		defer func() {
			log.Info("disconnecting from MQTT")
			if closeErr := mqttClient.Close(); closeErr != nil {
				log.Error("error closing MQTT", "error", closeErr)
			}
		}()
		mqttClient.SetLogger(log.Component("mqtt"))
		log.Info("MQTT connected",
			"broker", fmt.Sprintf("%s:%d", cfg.MQTT.Broker.Host, cfg.MQTT.Broker.Port),
			"client_id", cfg.MQTT.Broker.ClientID,
		)

		publisher := telemetry.NewPublisher(mqttClient, mqttClient.QoS())
		publisher.SetLogger(log.Component("telemetry"))
		svc.AddObserver(publisher)
		health["mqtt"] = mqttClient
	} else {
		log.Info("MQTT disabled")
	}

	influxClient, err := influxdb.Connect(cfg.InfluxDB)
	switch {
	case errors.Is(err, influxdb.ErrDisabled):
		log.Info("InfluxDB disabled")
	case err != nil:
		return fmt.Errorf("connecting to InfluxDB: %w", err)
	default:
		defer func() {
			log.Info("closing InfluxDB connection")
			if closeErr := influxClient.Close(); closeErr != nil {
				log.Error("error closing InfluxDB", "error", closeErr)
			}
		}()
		influxClient.SetOnError(func(err error) {
			log.Error("InfluxDB write error", "error", err)
		})
		log.Info("InfluxDB connected",
			"url", cfg.InfluxDB.URL,
			"org", cfg.InfluxDB.Org,
			"bucket", cfg.InfluxDB.Bucket,
		)

		svc.AddObserver(telemetry.NewMetrics(influxClient))
		health["influxdb"] = influxClient
	}

	if err := registerDevices(svc, cfg.Audio.Devices); err != nil {
		return err
	}
	log.Info("device catalogue loaded",
		"devices", len(cfg.Audio.Devices),
		"max_instances", cfg.Audio.MaxInstances,
	)

	server, err := api.New(api.Deps{
		Config:  cfg.API,
		Logger:  log.Component("api"),
		Devices: svc,
		Journal: journalRepo,
		Health:  health,
		Version: version,
	})
	if err != nil {
		return fmt.Errorf("creating API server: %w", err)
	}
	if err := server.Start(ctx); err != nil {
		return fmt.Errorf("starting API server: %w", err)
	}

	go pruneLoop(ctx, journalRepo, cfg.GetJournalRetention(), log)

	log.Info("initialisation complete, waiting for shutdown signal")
	<-ctx.Done()
	log.Info("shutdown signal received, cleaning up")

	if err := server.Close(); err != nil {
		log.Error("error closing API server", "error", err)
	}

	// Drain every device while the journal and telemetry sinks are still
	// open; the deferred closes run after this.
	svc.Shutdown()

	log.Info("Gray Logic Audio stopped")
	return nil
}

// getConfigPath returns the configuration file path.
// Uses GRAYLOGIC_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("GRAYLOGIC_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}

// registerDevices catalogues each configured device behind its class driver.
func registerDevices(svc *session.Service, devices []config.AudioDeviceConfig) error {
	for _, d := range devices {
		typ, err := sounddevice.ParseDeviceType(d.Type)
		if err != nil {
			return fmt.Errorf("device %s: %w", d.ID, err)
		}

		hooks, err := driver.New(driver.Spec{
			Type:        typ,
			MaxSessions: d.MaxSessions,
			BufferSize:  d.BufferSize,
		})
		if err != nil {
			return fmt.Errorf("device %s: %w", d.ID, err)
		}

		if err := svc.RegisterDevice(d.ID, d.Name, typ, hooks); err != nil {
			return err
		}
	}
	return nil
}

// pruneJournal removes journal rows older than retention. 0 keeps everything.
func pruneJournal(ctx context.Context, repo journal.Repository, retention time.Duration, log *logging.Logger) {
	if retention <= 0 {
		return
	}

	removed, err := repo.Prune(ctx, retention)
	if err != nil {
		log.Warn("journal prune failed", "error", err)
		return
	}
	if removed > 0 {
		log.Info("journal pruned", "removed", removed, "retention", retention)
	}
}

func pruneLoop(ctx context.Context, repo journal.Repository, retention time.Duration, log *logging.Logger) {
	if retention <= 0 {
		return
	}

	ticker := time.NewTicker(pruneInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			pruneJournal(ctx, repo, retention, log)
		}
	}
}
