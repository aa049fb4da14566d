package internal

import (
	"context"
	"log/slog"

	"github.com/antonkast-google/ord-editor/internal/mcpserver"
)

// RunMCP serves the MCP tool surface over stdio against the configured
// storage root. It returns when stdin closes.
func RunMCP(_ context.Context, opts ...Option) error {
	app, logger, err := newApplication(opts)
	if err != nil {
		return err
	}

	b, err := openBackend(app.config, logger)
	if err != nil {
		return err
	}
	defer b.Close()

	logger.Info("MCP server starting", slog.String("storage_path", app.config.Storage.Path))
	return mcpserver.New(b.svc, app.version).ServeStdio()
}
