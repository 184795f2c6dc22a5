package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"runtime/debug"
	"sync"
	"time"

	"github.com/protomem/attendance-tracker/internal/attendance"
	"github.com/protomem/attendance-tracker/internal/database"
	"github.com/protomem/attendance-tracker/internal/env"
	"github.com/protomem/attendance-tracker/internal/geofence"
	"github.com/protomem/attendance-tracker/internal/memstore"
	"github.com/protomem/attendance-tracker/internal/version"
)

var (
	_cfgFile     = flag.String("cfg", "", "path to config file")
	_showVersion = flag.Bool("version", false, "display version and exit")
)

func main() {
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	err := run(logger)
	if err != nil {
		trace := string(debug.Stack())
		logger.Error(err.Error(), "trace", trace)
		os.Exit(1)
	}
}

const (
	_storagePostgres = "postgres"
	_storageMemory   = "memory"
)

type config struct {
	httpHost string
	httpPort int
	http     struct {
		readTimeout    time.Duration
		writeTimeout   time.Duration
		idleTimeout    time.Duration
		shutdownPeriod time.Duration
	}
	storage string
	db       struct {
		dsn         string
		automigrate bool
	}
	auth struct {
		secret string
	}
	geofence struct {
		officeLat    float64
		officeLng    float64
		radiusMeters float64
		required     bool
		breaks       bool
	}
	regularMinutes       int
	localTZ              string
	reportMaxRows        int
	presenceLookbackDays int
}

type application struct {
	config     config
	tracker    *attendance.Tracker
	logger     *slog.Logger
	baseLogger *slog.Logger
	wg         sync.WaitGroup
}

func run(logger *slog.Logger) error {
	if *_showVersion {
		fmt.Printf("version: %s\n", version.Get())
		return nil
	}

	if *_cfgFile != "" {
		err := env.Load(*_cfgFile)
		if err != nil {
			return err
		}
	}

	cfg := loadConfig()
	if err := checkConfig(cfg); err != nil {
		return err
	}

	loc, err := time.LoadLocation(cfg.localTZ)
	if err != nil {
		return fmt.Errorf("load LOCAL_TZ: %w", err)
	}

	repo, closeRepo, err := openRepository(logger, cfg)
	if err != nil {
		return err
	}
	defer closeRepo()

	fence := geofence.New(geofence.Config{
		Office:       geofence.Point{Lat: cfg.geofence.officeLat, Lng: cfg.geofence.officeLng},
		RadiusMeters: cfg.geofence.radiusMeters,
		Required:     cfg.geofence.required,
	})

	tracker := attendance.NewTracker(logger, repo, fence, attendance.Config{
		Location:       loc,
		RegularMinutes: cfg.regularMinutes,
		UnfencedBreaks: !cfg.geofence.breaks,
		ReportMaxRows:  cfg.reportMaxRows,

		PresenceLookbackDays: cfg.presenceLookbackDays,
	})

	app := newApplication(logger, cfg, tracker)

	return app.serveHTTP()
}

func loadConfig() config {
	var cfg config

	cfg.httpHost = env.GetString("HTTP_HOST", "localhost")
	cfg.httpPort = env.GetInt("HTTP_PORT", 8080)
	cfg.http.readTimeout = env.GetDuration("HTTP_READ_TIMEOUT", _defaultReadTimeout)
	cfg.http.writeTimeout = env.GetDuration("HTTP_WRITE_TIMEOUT", _defaultWriteTimeout)
	cfg.http.idleTimeout = env.GetDuration("HTTP_IDLE_TIMEOUT", _defaultIdleTimeout)
	cfg.http.shutdownPeriod = env.GetDuration("HTTP_SHUTDOWN_PERIOD", _defaultShutdownPeriod)
	cfg.storage = env.GetString("STORAGE", _storagePostgres)
	cfg.db.dsn = env.GetString("DB_DSN", "postgres:postgres@localhost:5432/postgres")
	cfg.db.automigrate = env.GetBool("DB_AUTOMIGRATE", true)
	cfg.auth.secret = env.GetString("AUTH_SECRET", "")
	cfg.geofence.officeLat = env.GetFloat("OFFICE_LAT", 0)
	cfg.geofence.officeLng = env.GetFloat("OFFICE_LNG", 0)
	cfg.geofence.radiusMeters = env.GetFloat("GEOFENCE_RADIUS_METERS", 150)
	cfg.geofence.required = env.GetBool("GEOFENCE_REQUIRED", true)
	cfg.geofence.breaks = env.GetBool("GEOFENCE_BREAKS", true)
	cfg.regularMinutes = env.GetInt("REGULAR_MINUTES", 480)
	cfg.localTZ = env.GetString("LOCAL_TZ", "UTC")
	cfg.reportMaxRows = env.GetInt("REPORT_MAX_ROWS", attendance.DefaultReportMaxRows)
	cfg.presenceLookbackDays = env.GetInt("PRESENCE_LOOKBACK_DAYS", attendance.DefaultPresenceLookbackDays)

	return cfg
}

func openRepository(logger *slog.Logger, cfg config) (attendance.Repository, func(), error) {
	switch cfg.storage {
	case _storageMemory:
		logger.Warn("using in-memory storage, data is lost on restart")
		return memstore.New(), func() {}, nil

	case _storagePostgres:
		db, err := database.New(logger, cfg.db.dsn, cfg.db.automigrate)
		if err != nil {
			return nil, nil, err
		}
		return database.NewAttendanceDAO(logger, db), func() { db.Close() }, nil

	default:
		return nil, nil, fmt.Errorf("unknown STORAGE %q", cfg.storage)
	}
}

func newApplication(logger *slog.Logger, cfg config, tracker *attendance.Tracker) *application {
	return &application{
		config:     cfg,
		tracker:    tracker,
		logger:     logger.With("module", "api"),
		baseLogger: logger,
	}
}
