package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	mcpadapter "plotnav/internal/adapters/mcp"
	"plotnav/internal/adapters/sqlite"
	"plotnav/internal/application/navigation"
	"plotnav/internal/config"
	"plotnav/internal/logger"
)

func main() {
	var overrides config.Overrides
	configPath := flag.String("config", "", "config file (default "+config.FilePath()+")")
	flag.StringVar(&overrides.Catalog, "catalog", "", "path to the plot catalog")
	flag.StringVar(&overrides.Format, "format", "", "default plot output format")
	flag.StringVar(&overrides.PlotDir, "plot-dir", "", "directory plot file names are relative to")
	flag.StringVar(&overrides.LogLevel, "log-level", "", "log level: debug, info, warn or error")
	flag.Parse()

	cfg, err := config.Load(*configPath, overrides)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	level, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	// stdout carries the protocol; logs go to stderr
	log := logger.Get(level)
	defer logger.Sync()

	catalog := sqlite.NewCatalog()
	if err := catalog.OpenReadOnly(cfg.Catalog); err != nil {
		log.Error(err, "opening catalog", "path", cfg.Catalog)
	}
	defer catalog.Close()

	mcpServer := server.NewMCPServer(
		"plotnav-mcp",
		"0.1.0",
		server.WithToolCapabilities(true),
	)

	mcpServer.AddTool(
		mcp.NewTool("ping",
			mcp.WithDescription("Health check, returns pong"),
		),
		func(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return mcp.NewToolResultText("pong"), nil
		},
	)

	defaults := mcpadapter.Defaults{Format: cfg.Format, PlotDir: cfg.PlotDir}
	sessions := mcpadapter.NewSessions(catalog, defaults,
		navigation.WithTimeout(cfg.StartTimeout.Duration),
		navigation.WithKeyMap(navigation.KeyMap{Next: cfg.Keys.Next, Previous: cfg.Keys.Previous}),
		navigation.WithLogger(*log),
	)

	mcpadapter.RegisterReadTools(mcpServer, catalog, defaults)
	mcpadapter.RegisterNavigationTools(mcpServer, sessions)

	log.Info("serving", "catalog", cfg.Catalog, "format", cfg.Format)
	if err := server.ServeStdio(mcpServer); err != nil {
		log.Error(err, "plotnav-mcp stopped")
		logger.Sync()
		os.Exit(1)
	}
}
