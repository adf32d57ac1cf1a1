package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/soyoung931014/wanted-preonboarding-tripbtoz/internal/config"
	"github.com/soyoung931014/wanted-preonboarding-tripbtoz/internal/jsondb"
	"github.com/soyoung931014/wanted-preonboarding-tripbtoz/internal/logging"
	"github.com/soyoung931014/wanted-preonboarding-tripbtoz/internal/mockserver"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var serveCmd = LeafCommand{
	Use:   "serve",
	Short: "Serve a JSON document as a mock REST API",
	StrFlags: []StringFlag{
		{Name: "host", Usage: "address to listen on", Default: config.DefaultHost},
		{Name: "db", Usage: "path of the JSON document", Default: config.DefaultDB},
		{Name: "log-level", Usage: "debug, info, warn or error", Default: config.DefaultLogLevel},
	},
	IntFlags: []IntFlag{
		{Name: "port", Usage: "port to listen on (env PORT)", Default: config.DefaultPort},
	},
	BoolFlags: []BoolFlag{
		{Name: "read-only", Usage: "reject POST, PUT, PATCH and DELETE"},
		{Name: "metrics", Usage: "expose Prometheus metrics at " + mockserver.MetricsPath},
		{Name: "yes", Usage: "create a seed document without asking"},
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadServer(cmd.Flags(), ".env")
		if err != nil {
			return err
		}
		yes, _ := cmd.Flags().GetBool("yes")

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return runServe(ctx, cmd, *cfg, confirmFor(yes))
	},
}.Build()

func runServe(ctx context.Context, cmd *cobra.Command, cfg config.ServerConfig, confirm ConfirmFunc) error {
	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	if err := ensureDocument(cmd, cfg.DB, confirm); err != nil {
		return err
	}

	store, err := jsondb.Open(cfg.DB)
	if err != nil {
		return fmt.Errorf("loading %s: %w", cfg.DB, err)
	}

	for _, res := range store.Resources() {
		logger.Debug("resource", zap.String("name", res.Name), zap.Stringer("kind", res.Kind))
	}

	opts := []mockserver.Option{
		mockserver.WithLogger(logger),
		mockserver.WithReadOnly(cfg.ReadOnly),
	}
	if cfg.Metrics {
		opts = append(opts, mockserver.WithMetrics(prometheus.NewRegistry()))
	}
	return mockserver.New(store, opts...).ListenAndServe(ctx, cfg.Addr())
}

// ensureDocument offers to create a seed document when path does not exist.
func ensureDocument(cmd *cobra.Command, path string, confirm ConfirmFunc) error {
	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return err
	}

	ok, err := confirm(fmt.Sprintf("%s does not exist. Create it with sample rooms?", path))
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("aborted: %s does not exist", path)
	}

	if err := jsondb.WriteDocument(path, jsondb.SeedDocument()); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", Primary(path))
	return nil
}
