// Command padnet-server runs the padnet experiment HTTP service.
//
// The service exposes the simulation API (POST /api/v1/simulations,
// GET /api/v1/simulations, GET /api/v1/status) together with the standard
// health and drain endpoints. Results are kept in memory unless a Postgres
// database is configured.
//
// # Usage
//
//	go run ./cmd/padnet-server -addr :8080
//	go run ./cmd/padnet-server -addr :8080 -db-host localhost -db-user padnet -db-name padnet
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/ruteri/go-padnet/api/httpserver"
	"github.com/ruteri/go-padnet/services"
)

func main() {
	var (
		addr        = flag.String("addr", ":8080", "HTTP listen address")
		enablePprof = flag.Bool("pprof", false, "Enable pprof debug endpoints")
		enableCORS  = flag.Bool("cors", false, "Allow cross-origin requests from any origin")
		drainSecs   = flag.Int("drain-seconds", 10, "Seconds to wait after /drain before shutdown readiness")
		dbHost      = flag.String("db-host", "", "Postgres host (empty keeps results in memory)")
		dbPort      = flag.Int("db-port", 5432, "Postgres port")
		dbUser      = flag.String("db-user", "", "Postgres user")
		dbPassword  = flag.String("db-password", "", "Postgres password")
		dbName      = flag.String("db-name", "", "Postgres database name")
		dbSSLMode   = flag.String("db-sslmode", "", "Postgres sslmode (default disable)")
	)
	flag.Parse()

	log := slog.New(slog.NewJSONHandler(os.Stderr, nil))

	var store services.ResultStore
	if *dbHost != "" {
		pgStore, err := services.NewPostgresStore(&services.PostgresConfig{
			Host:     *dbHost,
			Port:     *dbPort,
			User:     *dbUser,
			Password: *dbPassword,
			Database: *dbName,
			SSLMode:  *dbSSLMode,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error connecting to database: %v\n", err)
			os.Exit(1)
		}
		store = pgStore
		log.Info("Using Postgres result store", "host", *dbHost, "database", *dbName)
	} else {
		store = services.NewMemoryStore()
		log.Info("Using in-memory result store")
	}
	defer store.Close()

	registrars := []httpserver.RouteRegistrar{}
	if *enableCORS {
		registrars = append(registrars, httpserver.RouteRegistrarFunc(func(r chi.Router) {
			r.Use(cors.Handler(cors.Options{
				AllowedOrigins:   []string{"*"},
				AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
				AllowedHeaders:   []string{"Accept", "Content-Type"},
				AllowCredentials: false,
				MaxAge:           300,
			}))
		}))
	}
	registrars = append(registrars, httpserver.NewSimulationHandler(store, log))

	srv, err := httpserver.New(&httpserver.HTTPServerConfig{
		ListenAddr:               *addr,
		EnablePprof:              *enablePprof,
		Log:                      log,
		DrainDuration:            time.Duration(*drainSecs) * time.Second,
		GracefulShutdownDuration: 30 * time.Second,
		ReadTimeout:              30 * time.Second,
		WriteTimeout:             5 * time.Minute, // Runs execute within the request
	}, registrars...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating server: %v\n", err)
		os.Exit(1)
	}

	srv.RunInBackground()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	log.Info("Shutting down")
	srv.Shutdown()
}
