package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	_ "github.com/danielgtaylor/huma/v2/formats/cbor"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/mapsnap/backend/internal/http/health"
	"github.com/mapsnap/backend/internal/http/v1/routes"
	"github.com/mapsnap/backend/internal/http/v1/watch"
	"github.com/mapsnap/backend/internal/platform/auth"
	"github.com/mapsnap/backend/internal/platform/firebase"
	applog "github.com/mapsnap/backend/internal/platform/logging"
	appmiddleware "github.com/mapsnap/backend/internal/platform/middleware"
	acctsvc "github.com/mapsnap/backend/internal/service/account"
)

// Version can be overridden at build time: -ldflags "-X main.Version=1.2.3"
var Version = "dev"

func main() {
	_ = godotenv.Load()

	defer func() {
		if err := applog.Sync(); err != nil {
			applog.LogError(context.Background(), "logger sync error", err)
		}
	}()
	if err := applog.Err(); err != nil {
		applog.LogError(context.Background(), "logger init error", err)
	}

	ctx := context.Background()

	var (
		verifier       auth.Verifier
		accountService acctsvc.Service
		closeClients   func() error
	)

	projectID := firstNonEmpty(os.Getenv("PROJECT_ID"), os.Getenv("GOOGLE_CLOUD_PROJECT"))
	if projectID != "" {
		clients, err := firebase.InitializeClients(ctx, firebase.Config{
			ProjectID:                    projectID,
			GoogleApplicationCredentials: os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"),
		})
		if err != nil {
			applog.LogFatal(ctx, "firebase initialization failed", err)
		}
		closeClients = clients.Close
		verifier = auth.NewFirebaseVerifier(clients.Auth)
		accountService = acctsvc.NewFirestoreStore(clients.Firestore)
	} else {
		// Local development without a project: in-memory store, fixed
		// test identity.
		applog.LogWarn(ctx, "no project configured, using in-memory account store")
		verifier = &auth.MockVerifier{User: auth.TestUser()}
		accountService = acctsvc.NewMockAccountService()
	}
	if closeClients != nil {
		defer func() { _ = closeClients() }()
	}

	router := newRouter(verifier, accountService)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadTimeout:       5 * time.Second,
		ReadHeaderTimeout: 2 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    64 << 10, // 64 KB
	}

	listenErr := make(chan error, 1)
	go func() {
		applog.LogInfo(context.Background(), "server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			listenErr <- err
		}
	}()

	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-listenErr:
		applog.LogError(context.Background(), "listen failed", err, zap.String("addr", srv.Addr))
		os.Exit(1)
	case <-stop:
		applog.LogInfo(context.Background(), "shutdown signal received")
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		applog.LogError(shutdownCtx, "server shutdown error", err)
	}
	applog.LogInfo(context.Background(), "server exited")
}

// newRouter assembles the middleware stack, the v1 API, and the raw
// WebSocket watch route.
func newRouter(verifier auth.Verifier, accountService acctsvc.Service) chi.Router {
	router := chi.NewRouter()

	// Base middleware stack
	router.Use(
		appmiddleware.Security("/api-docs"),
		appmiddleware.Vary(),
		appmiddleware.CORS(),
		appmiddleware.RequestID(),
		// RealIP extracts client IP from X-Real-IP or X-Forwarded-For headers.
		// SECURITY: Only use behind a trusted reverse proxy (e.g., Cloud Run, nginx).
		chimiddleware.RealIP,
		// RequestSize limits request body size to prevent memory exhaustion from large payloads.
		chimiddleware.RequestSize(1<<20), // 1 MB limit
		applog.RequestLogger(),
		applog.AccessLogger(),
		chimiddleware.Recoverer,
	)

	router.Get("/health", health.Handler)

	// The watch stream is a raw WebSocket upgrade, outside huma's
	// request model.
	router.Get("/v1/account/watch", watch.Handler(verifier, accountService))

	cfg := huma.DefaultConfig("MapSnap API", Version)
	cfg.DocsPath = "/api-docs"
	cfg.Servers = []*huma.Server{{URL: "/v1"}}

	v1 := chi.NewRouter()
	api := humachi.New(v1, cfg)

	// Add CBOR content type to OpenAPI requests and responses
	api.OpenAPI().OnAddOperation = append(api.OpenAPI().OnAddOperation,
		func(_ *huma.OpenAPI, op *huma.Operation) {
			if op.RequestBody != nil && op.RequestBody.Content != nil {
				if jsonContent, ok := op.RequestBody.Content["application/json"]; ok {
					op.RequestBody.Content["application/cbor"] = jsonContent
				}
			}
			for _, resp := range op.Responses {
				if resp.Content == nil {
					continue
				}
				if jsonContent, ok := resp.Content["application/json"]; ok {
					resp.Content["application/cbor"] = jsonContent
				}
			}
		},
	)

	routes.Register(api, verifier, accountService)
	router.Mount("/v1", v1)

	return router
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
