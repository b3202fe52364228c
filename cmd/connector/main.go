package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/hive-corporation/loboguara-connector/internal/adapter/handler"
	"github.com/hive-corporation/loboguara-connector/internal/adapter/metrics"
	"github.com/hive-corporation/loboguara-connector/internal/adapter/opencti"
	"github.com/hive-corporation/loboguara-connector/internal/adapter/provider"
	"github.com/hive-corporation/loboguara-connector/internal/config"
	"github.com/hive-corporation/loboguara-connector/internal/core/domain"
	"github.com/hive-corporation/loboguara-connector/internal/core/service"
	"github.com/hive-corporation/loboguara-connector/internal/logging"
)

func main() {
	configPath := flag.String("config", "", "path to an optional YAML config file")
	once := flag.Bool("once", false, "run a single cycle and exit")
	flag.Parse()

	// .env is optional, the process environment is enough
	envErr := godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}

	log := logging.New(cfg.Level(), map[string]string{"connector": cfg.Connector.Name})
	if envErr != nil {
		log.Debug().Msg("no .env file found, using process environment")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, *once, log); err != nil {
		log.Error().Err(err).Msg("connector stopped")
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, once bool, log zerolog.Logger) error {
	recorder := metrics.NewRecorder()

	source := provider.NewLoboGuaraProvider(
		provider.NewHTTPClient(cfg.LoboGuara.VerifySSL),
		provider.LoboGuaraConfig{
			CertificatesURL: cfg.LoboGuara.URL,
			TokenURL:        cfg.LoboGuara.TokenURL,
			Username:        cfg.LoboGuara.Username,
			Password:        cfg.LoboGuara.Password,
		},
	)
	platform := opencti.NewClient(nil, cfg.OpenCTI.URL, cfg.OpenCTI.Token, log)

	connector, err := service.NewConnector(source, platform, service.Options{
		Interval: cfg.Interval(),
		Marking:  cfg.LoboGuara.TLP,
		Score:    cfg.LoboGuara.Score,
		Recorder: recorder,
	}, log)
	if err != nil {
		return err
	}

	if cfg.Connector.MetricsAddr != "" {
		srv := startMetricsServer(cfg, log)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				log.Warn().Err(err).Msg("metrics server forced to shutdown")
			}
		}()
	}

	err = platform.RegisterConnector(ctx, domain.ConnectorRegistration{
		ID:    cfg.Connector.ID,
		Name:  cfg.Connector.Name,
		Type:  opencti.ConnectorTypeExternalImport,
		Scope: []string{cfg.Connector.Scope},
	})
	if err != nil {
		return fmt.Errorf("register connector: %w", err)
	}
	log.Info().Str("connector_id", cfg.Connector.ID).Msg("connector registered")

	org, err := service.ProvisionOrganization(ctx, platform, log)
	if err != nil {
		return err
	}

	if once {
		result := connector.RunOnce(ctx, org)
		return result.Err
	}

	log.Info().
		Dur("interval", cfg.Interval()).
		Str("source", source.Name()).
		Msg("connector started")

	if err := connector.Run(ctx, org); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	log.Info().Msg("connector stopped gracefully")
	return nil
}

func startMetricsServer(cfg *config.Config, log zerolog.Logger) *http.Server {
	router := handler.NewRouter(handler.NewHealthHandler(cfg.Connector.Name, log), cfg.Connector.MetricsToken)

	srv := &http.Server{
		Addr:         cfg.Connector.MetricsAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", cfg.Connector.MetricsAddr).Msg("metrics listener started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("metrics listener failed")
		}
	}()

	return srv
}
