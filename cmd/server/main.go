package main

import (
	"context"
	"crypto/tls"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"wallpresentation/internal/config"
	"wallpresentation/internal/db"
	"wallpresentation/internal/handlers"
	"wallpresentation/internal/services"
	"wallpresentation/internal/syncnet"
)

func main() {
	// Load configuration
	cfg := config.LoadConfig()

	// Initialize database
	if err := db.InitDatabase(cfg.Storage.DBPath); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// Initialize services
	presentationStore, err := services.NewPresentationStore(cfg.Storage.DataDir)
	if err != nil {
		log.Fatalf("Failed to initialize presentation store: %v", err)
	}
	clientService := services.NewClientService(db.DB)
	analyticsService := services.NewAnalyticsService(db.DB)
	syncStore := syncnet.NewStore(db.DB)
	defer syncStore.Close()

	// Initialize handlers
	presentationHandler := handlers.NewPresentationHandler(presentationStore, clientService)
	analyticsHandler := handlers.NewAnalyticsHandler(analyticsService)
	syncHandler := handlers.NewSyncHandler(syncStore)
	staticHandler := handlers.NewStaticHandler(presentationStore)

	// Setup routes
	router := handlers.SetupRoutes(presentationHandler, analyticsHandler, syncHandler, staticHandler)

	// Configure server
	server := &http.Server{
		Addr:    cfg.Server.Host + ":" + cfg.Server.Port,
		Handler: router,
	}

	// Graceful shutdown
	shutdownChannel := make(chan os.Signal, 1)
	signal.Notify(shutdownChannel, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		// Configure TLS if enabled
		if cfg.TLS.Enabled {
			server.TLSConfig = &tls.Config{
				MinVersion: getTLSVersion(cfg.TLS.MinVersion),
			}

			log.Printf("Starting HTTPS server on %s:%s", cfg.Server.Host, cfg.Server.Port)
			log.Printf("TLS Certificate: %s", cfg.TLS.CertFile)
			log.Printf("TLS Key: %s", cfg.TLS.KeyFile)

			if err := server.ListenAndServeTLS(cfg.TLS.CertFile, cfg.TLS.KeyFile); err != nil && err != http.ErrServerClosed {
				log.Fatalf("Server failed to start: %v", err)
			}
		} else {
			log.Printf("Starting HTTP server on %s:%s", cfg.Server.Host, cfg.Server.Port)
			log.Printf("Warning: HTTP mode is not recommended for production")

			if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Fatalf("Server failed to start: %v", err)
			}
		}
	}()

	<-shutdownChannel
	log.Println("Shutting down server...")

	shutdownContext, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownContext); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}

// getTLSVersion converts string version to tls.Version constant
func getTLSVersion(version string) uint16 {
	switch version {
	case "1.0":
		return tls.VersionTLS10
	case "1.1":
		return tls.VersionTLS11
	case "1.2":
		return tls.VersionTLS12
	case "1.3":
		return tls.VersionTLS13
	default:
		return tls.VersionTLS12
	}
}
