package main

import (
	"context"
	"log"
	"net/http"

	"github.com/joho/godotenv"

	"github.com/amiskov/feed-client/pkg/auth"
	"github.com/amiskov/feed-client/pkg/config"
	"github.com/amiskov/feed-client/pkg/logger"
	"github.com/amiskov/feed-client/pkg/middleware"
	"github.com/amiskov/feed-client/pkg/routes"
	"github.com/amiskov/feed-client/pkg/session"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, going on with flags and environment")
	}
	cfg := config.Parse()
	lg := logger.Run(cfg.LogLevel)

	store, err := makeStore(cfg)
	if err != nil {
		log.Fatalf("can't create session store: %v", err)
	}

	gateway, err := auth.NewGateway(cfg.BackendURL)
	if err != nil {
		log.Fatalf("can't create auth gateway: %v", err)
	}

	manager := session.NewManager(gateway, store, cfg.SessionTTL)
	if err := manager.Rehydrate(context.Background()); err != nil {
		lg.Errorf("session rehydration failed: %v", err)
	}

	gate := routes.NewGate(newScreens(manager), manager.State())
	manager.Subscribe(gate.Apply)

	logMiddleware := middleware.NewLoggingMiddleware(lg)
	sessMiddleware := middleware.NewSessionMiddleware(manager)

	var handler http.Handler = gate
	handler = sessMiddleware.Middleware(handler)
	handler = logMiddleware.AccessLog(handler)
	handler = logMiddleware.SetupLogging(handler)
	handler = logMiddleware.SetupTracing(handler)

	log.Println("Serving at http://" + cfg.RunAddress + "/")
	log.Fatalln(http.ListenAndServe(cfg.RunAddress, handler))
}

func makeStore(cfg *config.Config) (session.Store, error) {
	if cfg.StoreBackend == "sqlite" {
		path := cfg.StorePath
		if path == "" {
			path = "feed-client.db"
		}
		return session.NewSQLiteStore(path)
	}
	return session.NewFileStore(cfg.StorePath)
}
