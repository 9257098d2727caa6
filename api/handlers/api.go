package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/linesmerrill/party-cms-api/api"
	"github.com/linesmerrill/party-cms-api/api/scheduler"
	"github.com/linesmerrill/party-cms-api/blobstore"
	"github.com/linesmerrill/party-cms-api/casenumber"
	"github.com/linesmerrill/party-cms-api/config"
	"github.com/linesmerrill/party-cms-api/databases"
	"github.com/linesmerrill/party-cms-api/evidence"
	"github.com/linesmerrill/party-cms-api/lifecycle"
	"github.com/linesmerrill/party-cms-api/metrics"
	"github.com/linesmerrill/party-cms-api/models"
	"github.com/linesmerrill/party-cms-api/notify"
)

// App stores the router and db connection, so it can be reused
type App struct {
	Router  *mux.Router
	Config  config.Config
	Service *lifecycle.CaseService
	Metrics *metrics.Metrics

	dbHelper  databases.DatabaseHelper
	client    databases.ClientHelper
	registry  *prometheus.Registry
	scheduler *scheduler.Scheduler
}

// New creates a new mux router and all the routes
func (a *App) New() *mux.Router {
	// setup go-guardian for middleware
	m := api.NewAuthenticator(a.Config.JWTSecret)

	r := mux.NewRouter()
	r.Use(api.MetricsMiddleware(a.Metrics), api.TimeoutMiddleware(a.Config.HTTP.RequestTimeout))

	dc := DisciplinaryCase{Service: a.Service}
	cloudinaryHandler := CloudinaryHandler{
		UploadPreset: a.Config.Blob.CloudinaryUploadPreset,
		APISecret:    a.Config.Blob.CloudinaryAPISecret,
	}

	// healthchex
	r.HandleFunc("/health", healthCheckHandler)
	if a.registry != nil {
		r.Handle("/metrics", promhttp.HandlerFor(a.registry, promhttp.HandlerOpts{}))
	}

	apiCreate := r.PathPrefix("/api/v1").Subrouter()

	apiCreate.Handle("/disciplinary-cases", m.Middleware(http.HandlerFunc(dc.ListCasesHandler))).Methods("GET")
	apiCreate.Handle("/disciplinary-cases", m.Middleware(http.HandlerFunc(dc.CreateCaseHandler))).Methods("POST")
	apiCreate.Handle("/disciplinary-cases/{case_id}", m.Middleware(http.HandlerFunc(dc.CaseByIDHandler))).Methods("GET")
	apiCreate.Handle("/disciplinary-cases/{case_id}/status", m.Middleware(http.HandlerFunc(dc.UpdateStatusHandler))).Methods("PUT")
	apiCreate.Handle("/disciplinary-cases/{case_id}/decision", m.Middleware(http.HandlerFunc(dc.RecordDecisionHandler))).Methods("PUT")
	apiCreate.Handle("/disciplinary-cases/{case_id}/visibility", m.Middleware(http.HandlerFunc(dc.UpdateVisibilityHandler))).Methods("PUT")
	apiCreate.Handle("/disciplinary-cases/{case_id}/notes", m.Middleware(http.HandlerFunc(dc.AddNoteHandler))).Methods("POST")
	apiCreate.Handle("/disciplinary-cases/{case_id}/images", m.Middleware(http.HandlerFunc(dc.AddImagesHandler))).Methods("POST")

	apiCreate.Handle("/generate-signature", m.Middleware(http.HandlerFunc(cloudinaryHandler.GenerateSignature))).Methods("POST")

	return r
}

// Initialize is invoked by main to connect with the database and create a router
func (a *App) Initialize() error {
	client, err := databases.NewClient(&a.Config)
	if err != nil {
		// if we fail to create a new database client, then kill the pod
		zap.S().Errorw("failed to create new client", "error", err)
		return err
	}

	ctx, cancel := api.WithQueryTimeout(context.Background())
	defer cancel()

	a.client = client
	a.dbHelper = databases.NewDatabase(&a.Config, client)
	err = client.Connect(ctx)
	if err != nil {
		// if we fail to connect to the database, then kill the pod
		zap.S().Errorw("failed to connect to database", "error", err)
		return err
	}
	zap.S().Info("party-cms-api has connected to the database")

	cases := databases.NewCaseDatabase(a.dbHelper)
	if err := cases.EnsureIndexes(ctx); err != nil {
		zap.S().Errorw("failed to ensure disciplinary case indexes", "error", err)
		return err
	}
	uploads := databases.NewUploadDatabase(a.dbHelper)

	store, err := blobstore.New(ctx, a.Config.Blob)
	if err != nil {
		zap.S().Errorw("failed to set up blob store", "backend", a.Config.Blob.Backend, "error", err)
		return err
	}

	a.Wire(cases, uploads, store)

	a.scheduler = scheduler.NewScheduler(cases, uploads, databases.NewSchedulerLockDatabase(a.dbHelper), store, a.Config.Sweep)
	return a.scheduler.Start()
}

// Wire builds the metrics, the evidence ingestor and the case service on top of the given
// stores and sets up the router
func (a *App) Wire(cases databases.CaseDatabase, uploads databases.UploadDatabase, store blobstore.Store) {
	logger := a.Config.Logger
	if logger == nil {
		logger = zap.S()
	}

	a.registry = prometheus.NewRegistry()
	a.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	a.Metrics = metrics.New(a.registry)

	ingestor := evidence.New(store, uploads, evidence.Options{
		Timeout:     a.Config.Upload.Timeout,
		Concurrency: a.Config.Upload.Concurrency,
		Metrics:     a.Metrics,
		Logger:      logger,
	})

	a.Service = lifecycle.NewCaseService(lifecycle.Dependencies{
		Cases:    cases,
		Uploads:  uploads,
		Ingestor: ingestor,
		Numbers:  casenumber.New(nil, nil),
		Notifier: notify.New(a.Config.Notify, a.Config.BaseURL, logger),
		Limits: lifecycle.Limits{
			MaxImageBytes:    a.Config.Upload.MaxImageBytes,
			MaxDocumentBytes: a.Config.Upload.MaxDocumentBytes,
		},
		Metrics: a.Metrics,
		Logger:  logger,
	})

	a.initializeRoutes()
}

// Shutdown stops the sweep, waits for pending notifications and disconnects from the database
func (a *App) Shutdown(ctx context.Context) error {
	if a.scheduler != nil {
		a.scheduler.Stop()
	}
	if a.Service != nil {
		a.Service.Wait()
	}
	if a.client != nil {
		return a.client.Disconnect(ctx)
	}
	return nil
}

func (a *App) initializeRoutes() {
	a.Router = a.New()
}

func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	b, _ := json.Marshal(models.HealthCheckResponse{
		Alive: true,
	})
	_, _ = io.WriteString(w, string(b))
}
