package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"google.golang.org/grpc/health"

	"github.com/yourusername/roster-wins/internal/api"
	"github.com/yourusername/roster-wins/internal/datasource"
	healthsrv "github.com/yourusername/roster-wins/internal/health"
	"github.com/yourusername/roster-wins/internal/metrics"
	"github.com/yourusername/roster-wins/internal/predict"
	"github.com/yourusername/roster-wins/internal/rpc"
	"github.com/yourusername/roster-wins/internal/scheduler"
	"github.com/yourusername/roster-wins/internal/service"
	"github.com/yourusername/roster-wins/internal/tracing"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve predictions over HTTP and gRPC",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return serve(ctx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

// servingRetrainer keeps the gRPC health status in step with the holder
// after each scheduled retrain.
type servingRetrainer struct {
	svc    *service.TrainingService
	holder *predict.Holder
	grpcHS *health.Server
}

func (r servingRetrainer) Retrain(ctx context.Context, trigger string) error {
	err := r.svc.Retrain(ctx, trigger)
	rpc.SetServing(r.grpcHS, r.holder.Ready())
	return err
}

func serve(ctx context.Context) error {
	appLog.WithFields(logrus.Fields{
		"environment": cfg.App.Environment,
		"version":     Version,
	}).Info("Roster wins server starting")

	metrics.InitRegistry()

	if err := tracing.Initialize(tracing.Config{
		ServiceName:  cfg.App.Name,
		Version:      Version,
		Enabled:      cfg.Tracing.Enabled,
		SamplingRate: cfg.Tracing.SamplingRate,
		DaemonAddr:   cfg.Tracing.DaemonAddr,
	}, appLog); err != nil {
		return err
	}
	traceName := ""
	if cfg.Tracing.Enabled {
		traceName = cfg.App.Name
	}

	d, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer d.Close()

	holder := predict.NewHolder(nil)
	trainingSvc := service.NewTrainingService(newTrainer(), d.store, holder, newPredictionCache(), cfg.Training.DataPath, appLog)
	if err := trainingSvc.LoadActive(ctx); err != nil {
		appLog.WithError(err).Warn("No model loaded; readiness stays false until one is trained")
	}

	var lookup datasource.PlayerLookup
	if l, err := newLookup(); err != nil {
		appLog.WithError(err).Warn("Player lookup unavailable; only stat-line requests will be served")
	} else {
		lookup = l
	}
	predictionSvc := service.NewPredictionService(holder, lookup, appLog)

	var metricsHandler http.Handler
	if cfg.Metrics.Enabled {
		metricsHandler = metrics.Handler()
	}

	// HTTP API
	router := api.NewRouter(api.NewHandler(predictionSvc, appLog), api.RouterConfig{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Metrics:        metricsHandler,
		TraceName:      traceName,
	}, appLog)
	httpServer := &http.Server{
		Addr:         ":" + strconv.Itoa(cfg.Server.HTTPPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// gRPC
	grpcServer, grpcHealth := rpc.NewGRPCServer(rpc.NewServer(predictionSvc, appLog), appLog)
	rpc.SetServing(grpcHealth, holder.Ready())
	grpcLis, err := net.Listen("tcp", ":"+strconv.Itoa(cfg.Server.GRPCPort))
	if err != nil {
		return fmt.Errorf("failed to listen for gRPC: %w", err)
	}

	// Health
	healthCfg := healthsrv.Config{
		ServiceName: cfg.App.Name,
		Version:     Version,
		Commit:      GitCommit,
		Port:        cfg.Server.HealthPort,
		Logger:      appLog,
		Model:       holder,
	}
	if d.db != nil {
		healthCfg.DB = d.db
	}
	if cfg.Metrics.Enabled && cfg.Metrics.Port == cfg.Server.HealthPort {
		healthCfg.Metrics = metricsHandler
		healthCfg.MetricsPath = cfg.Metrics.Path
	}
	healthServer := healthsrv.NewServer(healthCfg)
	if err := healthServer.Start(ctx); err != nil {
		return err
	}

	var metricsServer *http.Server
	if cfg.Metrics.Enabled && cfg.Metrics.Port != cfg.Server.HealthPort && cfg.Metrics.Port != cfg.Server.HTTPPort {
		mux := http.NewServeMux()
		mux.Handle(cfg.Metrics.Path, metricsHandler)
		metricsServer = &http.Server{Addr: ":" + strconv.Itoa(cfg.Metrics.Port), Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	}

	// Scheduled retraining
	var sched *scheduler.Scheduler
	if cfg.Training.RetrainCron != "" {
		sched = scheduler.NewScheduler(servingRetrainer{svc: trainingSvc, holder: holder, grpcHS: grpcHealth}, appLog)
		if err := sched.ScheduleRetrain(cfg.Training.RetrainCron); err != nil {
			return err
		}
		if err := sched.Start(); err != nil {
			return err
		}
		appLog.WithField("next_run", sched.GetNextRun()).Info("Retraining scheduled")
	}

	errCh := make(chan error, 3)
	go func() {
		appLog.WithField("addr", httpServer.Addr).Info("HTTP API listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()
	go func() {
		appLog.WithField("addr", grpcLis.Addr().String()).Info("gRPC listening")
		if err := grpcServer.Serve(grpcLis); err != nil {
			errCh <- fmt.Errorf("grpc server: %w", err)
		}
	}()
	if metricsServer != nil {
		go func() {
			appLog.WithField("addr", metricsServer.Addr).Info("Metrics listening")
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- fmt.Errorf("metrics server: %w", err)
			}
		}()
	}

	healthServer.SetReady(true)

	var runErr error
	select {
	case <-ctx.Done():
		appLog.Info("Shutdown signal received")
	case runErr = <-errCh:
		appLog.WithError(runErr).Error("Server failed")
	}

	healthServer.SetReady(false)
	rpc.SetServing(grpcHealth, false)

	if sched != nil {
		if err := sched.Stop(); err != nil {
			appLog.WithError(err).Warn("Scheduler did not stop cleanly")
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		appLog.WithError(err).Warn("HTTP shutdown error")
	}
	if metricsServer != nil {
		_ = metricsServer.Shutdown(shutdownCtx)
	}
	grpcServer.GracefulStop()
	_ = healthServer.Shutdown()

	appLog.Info("Roster wins server stopped")
	return runErr
}
