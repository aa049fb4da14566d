package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/antonkast-google/ord-editor/internal"
	pkgconfig "github.com/antonkast-google/ord-editor/pkg/config"
)

var version = "dev"

func loadConfig(cmd *cli.Command) (*internal.Config, error) {
	configPath := cmd.String("config")

	cfg := internal.NewDefaultConfig()
	if err := pkgconfig.Load(configPath, cfg, !cmd.IsSet("config")); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

func serve(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	if err := internal.Run(ctx, internal.WithConfig(cfg), internal.WithVersion(version)); err != nil {
		return fmt.Errorf("app run error: %w", err)
	}
	return nil
}

func mcp(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	// stdout carries the protocol.
	opts := []internal.Option{
		internal.WithConfig(cfg),
		internal.WithLogOutput(os.Stderr),
		internal.WithVersion(version),
	}
	if err := internal.RunMCP(ctx, opts...); err != nil {
		return fmt.Errorf("mcp server error: %w", err)
	}
	return nil
}

func check(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if url := cmd.String("server"); url != "" {
		cfg.Editor.ServerURL = url
	}
	dataset := cmd.Args().First()
	if dataset == "" {
		return fmt.Errorf("dataset argument is required")
	}

	report, err := internal.Check(ctx, dataset,
		internal.WithConfig(cfg),
		internal.WithLogOutput(os.Stderr),
	)
	if err != nil {
		return err
	}
	printReport(os.Stdout, report)
	if report.Failed() {
		return fmt.Errorf("check: %s has failing reactions", dataset)
	}
	return nil
}

func printReport(w io.Writer, report *internal.CheckReport) {
	for _, r := range report.Reactions {
		status := "ok"
		if !r.RoundTrip {
			status = "round-trip mismatch"
		} else if len(r.Errors) > 0 {
			status = "invalid"
		}
		fmt.Fprintf(w, "%s[%d] %s: %s\n", report.Dataset, r.Index, r.ReactionID, status)
		for _, e := range r.Errors {
			fmt.Fprintf(w, "  error: %s\n", e)
		}
		for _, warn := range r.Warnings {
			fmt.Fprintf(w, "  warning: %s\n", warn)
		}
	}
}

func main() {
	cmd := &cli.Command{
		Name:    "ord-editor",
		Usage:   "Reaction dataset editor backend with validation, search and MCP tools",
		Version: version,
		Action:  serve,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to config file",
				DefaultText: "config/config.yaml",
				Value:       "config/config.yaml",
				Sources:     cli.EnvVars("APP_CONFIG_FILE"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run the HTTP API, SSE stream and dataset watcher",
				Action: serve,
			},
			{
				Name:   "mcp",
				Usage:  "Serve MCP tools over stdio",
				Action: mcp,
			},
			{
				Name:      "check",
				Usage:     "Round-trip every reaction of a dataset through an editor session and validate it",
				ArgsUsage: "<dataset>",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "server",
						Usage:   "API base URL (overrides editor.server_url)",
						Sources: cli.EnvVars("ORD_SERVER_URL"),
					},
				},
				Action: check,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
