package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/munin-vault/munin/internal"
	"github.com/munin-vault/munin/internal/classifier"
	"github.com/munin-vault/munin/internal/enrich"
	"github.com/munin-vault/munin/internal/mcpserver"
	"github.com/munin-vault/munin/internal/store"
	"github.com/munin-vault/munin/internal/vaultservice"
	pkgconfig "github.com/munin-vault/munin/pkg/config"
)

// loadConfig reads the YAML config on top of the defaults. When the default
// path does not exist and no explicit path was given, the defaults alone are
// used, so the vault runs with zero setup.
func loadConfig(cmd *cli.Command) (*internal.Config, error) {
	cfg := internal.NewDefaultConfig()
	path := cmd.String("config")
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) && !cmd.IsSet("config") {
		return cfg, nil
	}
	if err := pkgconfig.Load(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

func serve(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := internal.Run(ctx, internal.WithConfig(cfg)); err != nil {
		return fmt.Errorf("app run error: %w", err)
	}
	return nil
}

// mcp runs the stdio MCP server against the same store. Logs go to stderr
// so they do not corrupt the protocol stream.
func mcp(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	db, err := store.Open(cfg.SQLite.Path)
	if err != nil {
		return fmt.Errorf("init store: %w", err)
	}
	defer db.Close()

	var extractor enrich.Extractor
	if cfg.Extractor.Enabled() {
		extractor = &enrich.HTTPExtractor{Endpoint: cfg.Extractor.Endpoint}
	}
	cls := &classifier.Classifier{
		Readme:    &enrich.ReadmeFetcher{},
		Video:     &enrich.VideoMeta{},
		Extractor: extractor,
	}
	svc := vaultservice.New(db, cls, nil, nil, logger)

	return mcpserver.New(svc).ServeStdio()
}

func main() {
	configFlag := &cli.StringFlag{
		Name:        "config",
		Aliases:     []string{"c"},
		Usage:       "Path to config file",
		DefaultText: "config/config.yaml",
		Value:       "config/config.yaml",
		Sources:     cli.EnvVars("APP_CONFIG_FILE"),
	}

	cmd := &cli.Command{
		Name:   "munin",
		Usage:  "Local-first personal knowledge vault: capture, classify, store, query",
		Action: serve,
		Flags:  []cli.Flag{configFlag},
		Commands: []*cli.Command{
			{
				Name:   "mcp",
				Usage:  "Run the MCP stdio server for LLM integration",
				Action: mcp,
				Flags:  []cli.Flag{configFlag},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
