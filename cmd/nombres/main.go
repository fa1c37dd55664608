package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mark3labs/mcp-go/server"
	"gopkg.in/yaml.v3"

	"github.com/ralsina/nombres/pkg/api"
	"github.com/ralsina/nombres/pkg/chassis"
	"github.com/ralsina/nombres/pkg/gender"
	"github.com/ralsina/nombres/pkg/query"
	"github.com/ralsina/nombres/pkg/store"
)

const version = "2.0.0"

type config struct {
	Addr     string          `yaml:"addr"`
	DBPath   string          `yaml:"db_path"`
	CertFile string          `yaml:"cert_file"`
	KeyFile  string          `yaml:"key_file"`
	Gender   genderizeConfig `yaml:"genderize"`
}

type genderizeConfig struct {
	URL            string `yaml:"url"`
	Country        string `yaml:"country"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	ProbeMinutes   int    `yaml:"probe_minutes"`
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "serve":
		cmdServe(os.Args[2:])
	case "ingest":
		cmdIngest(os.Args[2:])
	default:
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: nombres <command>\n\nCommands:\n  serve    Start the HTTP server\n  ingest   Rebuild the name index from the historical dataset\n")
}

func cmdServe(args []string) {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	cfgPath := fs.String("config", "config.yaml", "path to config file")
	fs.Parse(args)

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	cfg := loadConfig(*cfgPath, logger)

	st, err := store.Open(cfg.DBPath)
	if err != nil {
		logger.Error("failed to open store", "path", cfg.DBPath, "error", err)
		os.Exit(1)
	}
	defer st.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if run, err := st.LastIngestRun(ctx); err == nil && run != nil {
		logger.Info("index loaded", "names", run.Names, "rows", run.Rows, "source", run.Source)
	} else {
		logger.Warn("index is empty, run 'nombres ingest' first")
	}

	client := gender.NewClient(cfg.Gender.URL, cfg.Gender.Country,
		time.Duration(cfg.Gender.TimeoutSeconds)*time.Second)
	classifier := gender.NewClassifier(st, client, logger)
	resolver := query.NewResolver(st, classifier, logger)

	probe := gender.NewProbe(cfg.Gender.URL, logger, time.Duration(cfg.Gender.ProbeMinutes)*time.Minute)
	go probe.Start(ctx)

	// MCP tools share the HTTP endpoints, served over streamable HTTP.
	mcpSrv := server.NewMCPServer("nombres", version)
	api.RegisterMCPTools(mcpSrv, resolver, classifier, st)

	mux := http.NewServeMux()
	mux.Handle("/mcp", server.NewStreamableHTTPServer(mcpSrv))
	mux.Handle("/", api.NewRouter(api.Deps{Resolver: resolver, Store: st, Probe: probe}))

	srv, err := chassis.New(chassis.Config{
		Addr:     cfg.Addr,
		CertFile: cfg.CertFile,
		KeyFile:  cfg.KeyFile,
		Handler:  mux,
		Logger:   logger,
	})
	if err != nil {
		logger.Error("failed to build server", "error", err)
		os.Exit(1)
	}

	go func() {
		if err := srv.Start(ctx); err != nil {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	srv.Stop(shutdownCtx)
}

func loadConfig(path string, logger *slog.Logger) config {
	cfg := config{
		Addr:   ":8420",
		DBPath: "nombres.db",
		Gender: genderizeConfig{
			URL:            "https://api.genderize.io",
			Country:        "AR",
			TimeoutSeconds: 10,
			ProbeMinutes:   15,
		},
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Info("no config file, using defaults", "path", path)
			return cfg
		}
		logger.Error("read config", "error", err)
		os.Exit(1)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		logger.Error("parse config", "error", err)
		os.Exit(1)
	}
	return cfg
}
