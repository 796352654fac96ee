package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/hazyhaar/lifewheel/internal/api"
	"github.com/hazyhaar/lifewheel/internal/auth"
	"github.com/hazyhaar/lifewheel/internal/coach"
	"github.com/hazyhaar/lifewheel/internal/config"
	"github.com/hazyhaar/lifewheel/internal/db"
	"github.com/hazyhaar/lifewheel/internal/llm"
	"github.com/hazyhaar/lifewheel/internal/mcp"
	"github.com/hazyhaar/lifewheel/pkg/audit"
)

var version = "dev"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "serve":
		cmdServe(os.Args[2:])
	case "mcp":
		cmdMCP(os.Args[2:])
	case "seed":
		cmdSeed(os.Args[2:])
	case "version":
		fmt.Printf("lifewheel %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`lifewheel — lifestyle medicine wheel-of-life tracker

Usage:
  lifewheel serve [--config config.toml] [--addr :8080]
  lifewheel mcp [--config config.toml]
  lifewheel seed [--config config.toml]
  lifewheel version
  lifewheel help

Commands:
  serve     Start the HTTP server
  mcp       Serve the MCP tools over stdio
  seed      Load the reference catalogs (biomarkers, protocols, lessons, foods)
  version   Print version
  help      Show this help`)
}

func cmdServe(args []string) {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	configPath := fs.String("config", "", "path to config.toml")
	addr := fs.String("addr", "", "listen address (overrides config)")
	fs.Parse(args)

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	if *addr != "" {
		cfg.Server.Addr = *addr
	}

	database, err := db.Open(cfg.Database.Path)
	if err != nil {
		log.Fatalf("opening database: %v", err)
	}
	defer database.Close()

	if err := database.SeedReference(); err != nil {
		log.Fatalf("seeding reference data: %v", err)
	}

	metricsDB, err := db.OpenMetrics(cfg.Database.MetricsPath)
	if err != nil {
		slog.Warn("metrics database unavailable, continuing without", "error", err)
		metricsDB = nil
	} else {
		defer metricsDB.Close()
	}

	auditLog, err := openAuditLog(cfg.Database.AuditPath)
	if err != nil {
		slog.Warn("audit log unavailable, continuing without", "error", err)
		auditLog = nil
	} else {
		defer auditLog.Close()
	}

	a := auth.New(cfg.Auth.JWTSecret, cfg.Auth.TokenExpiryMin)
	apiHandler := api.New(database, a)
	apiHandler.SetMetricsDB(metricsDB)

	llmClient := llm.NewFromConfig(cfg.Coach)
	apiHandler.SetCoach(coach.New(database, metricsDB, llmClient, cfg.Coach.Model, cfg.Coach.MaxTokens))

	mux := http.NewServeMux()
	apiHandler.RegisterRoutes(mux)

	// Serve static files
	staticFS := http.FileServer(http.Dir("static"))
	mux.Handle("GET /static/", http.StripPrefix("/static/", staticFS))

	// SPA: serve index.html for all non-API, non-static routes
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "static/index.html")
	})

	handler := api.SecurityHeaders(api.RequestMetrics(metricsDB, apiHandler.AuditRequests(auditLog, mux)))

	log.Printf("lifewheel %s listening on %s", version, cfg.Server.Addr)
	log.Printf("database: %s", cfg.Database.Path)
	if len(llmClient.Providers()) > 0 {
		log.Printf("coach: enabled (providers: %v)", llmClient.Providers())
	} else {
		log.Printf("coach: disabled (no API key configured)")
	}

	if err := http.ListenAndServe(cfg.Server.Addr, handler); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func cmdMCP(args []string) {
	fs := flag.NewFlagSet("mcp", flag.ExitOnError)
	configPath := fs.String("config", "", "path to config.toml")
	fs.Parse(args)

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	database, err := db.Open(cfg.Database.Path)
	if err != nil {
		log.Fatalf("opening database: %v", err)
	}
	defer database.Close()

	auditLog, err := openAuditLog(cfg.Database.AuditPath)
	if err != nil {
		slog.Warn("audit log unavailable, continuing without", "error", err)
		auditLog = nil
	}

	srv := mcp.NewServer(database, auditLog)
	if err := srv.Run(context.Background(), &sdkmcp.StdioTransport{}); err != nil {
		log.Fatalf("mcp server error: %v", err)
	}
	if auditLog != nil {
		auditLog.Close()
	}
}

func cmdSeed(args []string) {
	fs := flag.NewFlagSet("seed", flag.ExitOnError)
	configPath := fs.String("config", "", "path to config.toml")
	fs.Parse(args)

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	database, err := db.Open(cfg.Database.Path)
	if err != nil {
		log.Fatalf("opening database: %v", err)
	}
	defer database.Close()

	if err := database.SeedReference(); err != nil {
		log.Fatalf("seeding reference data: %v", err)
	}
	log.Printf("reference catalogs seeded into %s", cfg.Database.Path)
}

func openAuditLog(path string) (audit.Logger, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path)
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	logger := audit.NewSQLiteLogger(sqlDB)
	if err := logger.Init(); err != nil {
		sqlDB.Close()
		return nil, err
	}
	return logger, nil
}
