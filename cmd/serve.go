package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/candidate-sourcing/internal/tools"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the candidate sourcing tools over MCP on stdio",
	RunE: func(_ *cobra.Command, _ []string) error {
		return serve()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

// serve runs the MCP stdio server until stdin closes or a signal arrives.
// Logs go to stderr since stdout carries the protocol.
func serve() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApplication(ctx)
	if err != nil {
		return err
	}
	defer a.logger.Sync()

	if viper.ConfigFileUsed() != "" {
		a.config.watch(a.logger, a.selector.Reset)
	}

	if active, err := a.selector.ActiveType(); err == nil {
		a.logger.Info("starting the candidate-sourcing server",
			zap.String("version", version),
			zap.String("provider", string(active)),
			zap.Bool("fit_assessment", a.handlers.HasMatcher()),
		)
	} else {
		a.logger.Warn("invalid provider configuration", zap.Error(err))
	}

	stdio := server.NewStdioServer(tools.NewServer(a.handlers, version))
	stdio.SetErrorLogger(zap.NewStdLog(a.logger))

	if err := stdio.Listen(ctx, os.Stdin, os.Stdout); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	a.logger.Info("server stopped")
	return nil
}
