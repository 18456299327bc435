package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/gridwatch/gridwatch/internal/api"
	"github.com/gridwatch/gridwatch/internal/api/health"
	"github.com/gridwatch/gridwatch/internal/arcgis"
	"github.com/gridwatch/gridwatch/internal/metrics"
	"github.com/gridwatch/gridwatch/internal/storage"
	"github.com/gridwatch/gridwatch/internal/syncer"
	"github.com/gridwatch/gridwatch/pkg/config"
)

var (
	configFile string
	httpAddr   string
	featureURL string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "gridwatch-server",
	Short: "GridWatch Server - Transformer monitoring backend",
	Long: `GridWatch Server synchronizes distribution transformer condition data
from an ArcGIS feature service, derives condition alerts, and serves
a REST API for monitoring dashboards.`,
	RunE: runServer,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("gridwatch-server %s\n", config.Version)
		fmt.Printf("  commit: %s\n", config.Commit)
		fmt.Printf("  built:  %s\n", config.BuildTime)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file path (optional)")
	rootCmd.PersistentFlags().StringVarP(&httpAddr, "address", "a", "", "HTTP listen address")
	rootCmd.PersistentFlags().StringVarP(&featureURL, "feature-url", "u", "", "ArcGIS feature layer URL")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runServer(cmd *cobra.Command, args []string) error {
	var cfg *Config

	// Load configuration from file if provided
	if configFile != "" {
		var err error
		cfg, err = LoadConfig(configFile)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
	} else {
		cfg = DefaultConfig()
	}

	// Override with CLI flags
	if httpAddr != "" {
		cfg.Server.HTTPAddress = httpAddr
	}
	if featureURL != "" {
		cfg.ArcGIS.FeatureURL = featureURL
	}
	cfg.Verbose = verbose

	if cfg.ArcGIS.FeatureURL == "" {
		return fmt.Errorf("ArcGIS feature URL is required (config arcgis.feature_url or --feature-url)")
	}

	// Get JWT secret from environment
	jwtSecret := os.Getenv("GRIDWATCH_JWT_SECRET")
	if jwtSecret == "" {
		return fmt.Errorf("GRIDWATCH_JWT_SECRET environment variable is required")
	}

	// Auto-create data directory
	dbDir := filepath.Dir(cfg.Database.Path)
	if err := os.MkdirAll(dbDir, 0750); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}

	// Initialize storage
	store := storage.NewSQLiteStorage(cfg.Database.Path)
	if err := store.Open(); err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer store.Close()

	if err := store.Migrate(); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}

	// Create default admin user on first run
	if err := store.EnsureAdminUser(); err != nil {
		return fmt.Errorf("ensure admin user: %w", err)
	}

	log.Printf("database initialized at %s", cfg.Database.Path)

	// Feature source and sync pipeline
	client := arcgis.NewClient(cfg.ArcGIS.FeatureURL, cfg.ArcGIS.Timeout)
	sync := syncer.New(client, store)

	// HTTP API server
	srv, err := api.New(&api.Config{
		Address:        cfg.Server.HTTPAddress,
		JWTSecret:      []byte(jwtSecret),
		AccessTokenTTL: cfg.Auth.AccessTokenTTL,
		RateLimitPerIP: cfg.Auth.RateLimitPerIP,
		Verbose:        cfg.Verbose,
	}, store, sync)
	if err != nil {
		return fmt.Errorf("create server: %w", err)
	}

	srv.RegisterHealthChecker(health.NewSQLiteChecker(store.DB()))
	srv.RegisterHealthChecker(health.NewFeatureSourceChecker(client))

	// Metrics server
	metricsSrv := metrics.NewServer(cfg.Server.MetricsAddress)

	// Setup signal handling
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		log.Printf("received signal %v, shutting down...", sig)
		cancel()
	}()

	log.Printf("starting gridwatch-server %s", config.Version)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return srv.Run(gctx)
	})

	g.Go(func() error {
		return metricsSrv.Start()
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return metricsSrv.Shutdown(shutdownCtx)
	})

	g.Go(func() error {
		sync.RunPeriodic(gctx, cfg.Sync.Interval, cfg.Sync.RunOnStart)
		return nil
	})

	if err := g.Wait(); err != nil {
		return fmt.Errorf("run server: %w", err)
	}

	log.Printf("server stopped")
	return nil
}
