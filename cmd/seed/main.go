package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"strings"

	"go-admin-panel/internal/app"
	"go-admin-panel/internal/config"
	"go-admin-panel/internal/logger"
	"go-admin-panel/internal/resource"
	"go-admin-panel/internal/seed"
	"go-admin-panel/internal/service"
)

func main() {
	only := flag.String("only", "", "comma-separated resources to seed (default: all)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	slog.SetDefault(logger.New(os.Stdout, cfg.LogFormat, cfg.LogLevel))

	registry, err := resource.LoadFile(cfg.ResourcesFile)
	if err != nil {
		slog.Error("failed to load resources", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	source, closeSource, err := app.OpenSource(ctx, cfg, registry)
	if err != nil {
		slog.Error("failed to open data source", "error", err)
		os.Exit(1)
	}
	defer closeSource()

	var names []string
	for _, n := range strings.Split(*only, ",") {
		if n = strings.TrimSpace(n); n != "" {
			names = append(names, n)
		}
	}

	records := service.NewRecordService(source, nil, service.NewValidator())
	created, err := seed.New(registry, records).Run(ctx, names...)
	if err != nil {
		slog.Error("seeding failed", "error", err)
		closeSource()
		os.Exit(1)
	}

	for name, n := range created {
		slog.Info("created", "resource", name, "rows", n)
	}
}
