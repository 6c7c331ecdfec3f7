package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gorilla/mux"
	_ "github.com/joho/godotenv/autoload"

	"street-name-validation/internal/constants"
	"street-name-validation/internal/corpus"
	"street-name-validation/internal/engine"
	"street-name-validation/internal/models"
	"street-name-validation/internal/scanner"
	"street-name-validation/pkg/circuit"
	"street-name-validation/pkg/config"
	"street-name-validation/pkg/database"
	"street-name-validation/pkg/health"
	"street-name-validation/pkg/logging"
)

func main() {
	cfg := config.Load()

	logger, err := logging.NewLogger(logging.LogConfig{
		Level:  logging.ParseLevel(cfg.LogLevel),
		Format: cfg.LogFormat,
		Output: cfg.LogOutput,
	})
	if err != nil {
		log.Fatal("logger init:", err)
	}
	defer logger.Close()

	rules, err := config.LoadRules(cfg.RulesPath)
	if err != nil {
		// Bad overrides fall back to the compiled rules; refusing to start
		// over a tuning file would take validation down entirely.
		logger.Warn("rules file rejected, using compiled defaults", logging.Any("error", err.Error()))
	}

	// The upstream streets database is optional. Without it the engine
	// validates against the snapshot (or bundled seed) corpus and duplicate
	// messages lose their direction/type/jurisdiction detail.
	var db *database.DB
	if cfg.DatabaseURL != "" {
		db, err = database.NewWithConfig(cfg.DatabaseURL, cfg)
		if err != nil {
			log.Fatal("database init:", err)
		}
		defer db.Close()
	} else {
		logger.Warn("DATABASE_URL not set, running from cached corpus only")
	}

	store := corpus.NewDiskStore(cfg.CacheDir)
	corpusSvc := corpus.NewService(store, logger)

	scan := scanner.New(logger, cfg.ScannerQueueSize)
	corpusSvc.OnReplace(scan.ReplaceCorpus)
	scan.Start()
	corpusSvc.Load()

	var lookup engine.Lookup
	var source corpus.Source
	if db != nil {
		brk := circuit.New(circuit.Config{
			Name:              "streets-db",
			OperationTimeout:  constants.LookupOperationTimeout,
			OpenFor:           constants.LookupOpenFor,
			MaxConsecFailures: 5,
			WindowSize:        20,
			FailureRate:       constants.CircuitFailureRate,
			SlowCallThreshold: constants.LookupSlowCallThreshold,
			SlowCallRate:      constants.CircuitSlowCallRate,
		}, logger)
		guarded := &guardedDB{db: db, brk: brk}
		lookup = guarded
		source = guarded
	}

	validator := engine.NewValidator(corpusSvc, lookup, scan, rules, logger)
	app := &App{config: cfg, corpus: corpusSvc, source: source, validator: validator, log: logger.WithComponent("http")}

	// One delta refresh per process, off the startup path.
	if source != nil {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), constants.RefreshOperationTimeout)
			defer cancel()
			if _, err := corpusSvc.Refresh(ctx, source); err != nil {
				logger.Warn("startup corpus refresh failed", logging.Any("error", err.Error()))
			}
		}()
	}

	hm := health.NewManager(constants.HealthTimeoutDefault)
	hm.Register(health.NewCheckFunc("corpus", func(ctx context.Context) health.ComponentHealth {
		n := len(corpusSvc.Names())
		h := health.ComponentHealth{Status: health.StatusHealthy, Message: fmt.Sprintf("%d names, watermark %s", n, corpusSvc.Watermark())}
		if n == 0 {
			h.Status = health.StatusUnhealthy
			h.Message = "corpus empty"
		}
		return h
	}))
	hm.Register(health.NewCheckFunc("scanner", func(ctx context.Context) health.ComponentHealth {
		if _, err := scan.Check(ctx, "health probe"); err != nil {
			return health.ComponentHealth{Status: health.StatusUnhealthy, Message: err.Error()}
		}
		return health.ComponentHealth{Status: health.StatusHealthy}
	}))
	if db != nil {
		hm.Register(health.NewCheckFunc("database", func(ctx context.Context) health.ComponentHealth {
			if err := db.Ping(ctx); err != nil {
				return health.ComponentHealth{Status: health.StatusDegraded, Message: err.Error()}
			}
			return health.ComponentHealth{Status: health.StatusHealthy}
		}))
	}

	router := mux.NewRouter()
	router.HandleFunc("/api/streets/validate", app.validateHandler).Methods("POST")
	router.HandleFunc("/api/corpus/refresh", app.refreshHandler).Methods("POST")
	router.HandleFunc("/api/corpus/stats", app.statsHandler).Methods("GET")
	router.HandleFunc("/healthz", hm.Handler()).Methods("GET")

	server := &http.Server{Addr: ":" + cfg.Port, Handler: router}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan
		log.Println("Received shutdown signal, initiating graceful shutdown...")
		cancel()
	}()

	go func() {
		fmt.Printf("Server starting on port %s\n", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error:", err)
		}
	}()

	<-ctx.Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), constants.GracefulShutdownTimeoutDefault)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}
	if err := scan.Stop(constants.ScannerCheckTimeout); err != nil {
		log.Printf("Scanner shutdown error: %v", err)
	}
	log.Println("Application shutdown complete")
}

type App struct {
	config    *config.Config
	corpus    *corpus.Service
	source    corpus.Source
	validator *engine.Validator
	log       *logging.ComponentLogger
}

type validateRequest struct {
	StreetName string `json:"streetname"`
	StreetType string `json:"streettype"`
}

// validateHandler runs one synchronous validation pass over a proposed name
// and type. Debounce is a client concern; the API validates every call.
func (app *App) validateHandler(w http.ResponseWriter, r *http.Request) {
	var req validateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	result, err := app.validator.Validate(r.Context(), req.StreetName, req.StreetType)
	if err != nil {
		http.Error(w, "validation cancelled", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

// refreshHandler forces a corpus delta refresh. Refresh normally runs once at
// startup; this endpoint exists for retrying after an upstream outage.
func (app *App) refreshHandler(w http.ResponseWriter, r *http.Request) {
	if app.source == nil {
		http.Error(w, "no upstream database configured", http.StatusConflict)
		return
	}
	added, err := app.corpus.Refresh(r.Context(), app.source)
	if err != nil {
		app.log.Error("corpus refresh failed", err)
		http.Error(w, "refresh failed, corpus unchanged", http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"added":     added,
		"names":     len(app.corpus.Names()),
		"watermark": app.corpus.Watermark(),
	})
}

func (app *App) statsHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"names":     len(app.corpus.Names()),
		"watermark": app.corpus.Watermark(),
	})
}

// guardedDB fronts the streets database with a circuit breaker so a slow or
// down upstream degrades validation instead of stalling it.
type guardedDB struct {
	db  *database.DB
	brk *circuit.Breaker
}

func (g *guardedDB) LookupExact(ctx context.Context, name string) (*models.StreetRecord, error) {
	var rec *models.StreetRecord
	err := g.brk.Do(ctx, func(ctx context.Context) error {
		var opErr error
		rec, opErr = g.db.LookupExact(ctx, name)
		return opErr
	}, nil)
	if err != nil {
		return nil, err
	}
	return rec, nil
}

func (g *guardedDB) NamesEnteredSince(ctx context.Context, watermark string) ([]string, error) {
	var names []string
	err := g.brk.Do(ctx, func(ctx context.Context) error {
		var opErr error
		names, opErr = g.db.NamesEnteredSince(ctx, watermark)
		return opErr
	}, nil)
	if err != nil {
		return nil, err
	}
	return names, nil
}
