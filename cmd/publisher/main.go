package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/aqall/publisher/internal/config"
	"github.com/aqall/publisher/internal/logging"
	"github.com/aqall/publisher/internal/server"
)

func main() {
	var (
		configPath = flag.String("config", "", "Path to YAML configuration file (or set PUBLISHER_CONFIG)")
		host       = flag.String("host", "", "Override bind host")
		port       = flag.Int("port", 0, "Override bind port")
		dbPath     = flag.String("db", "", "Override database path")
		staticDir  = flag.String("static", "", "Serve the built editor from this directory")
		jsonLogs   = flag.Bool("json-logs", false, "Enable JSON structured logging")
		debug      = flag.Bool("debug", false, "Enable debug logging")
	)
	flag.Parse()

	cfg, err := config.Load(config.ResolveConfigPath(*configPath))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	if *host != "" {
		cfg.Server.Host = *host
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}
	if *dbPath != "" {
		cfg.Database.Path = *dbPath
	}
	if *staticDir != "" {
		cfg.Server.StaticDir = *staticDir
	}
	if *jsonLogs {
		cfg.Logging.Structured = true
		cfg.Logging.StructuredFormat = "json"
	}
	if *debug {
		cfg.Logging.Level = "DEBUG"
	}

	logger := logging.Configure(logging.FromConfig(cfg.Logging, "publisher"))
	logger.Info("Aqall publisher starting",
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
		"zone", cfg.Registrar.Domain,
		"provider", cfg.Registrar.Provider,
	)

	runner := server.NewRunner(logger)
	if err := runner.Run(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "server exited with error: %v\n", err)
		os.Exit(1)
	}
}
