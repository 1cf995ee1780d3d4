package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cloud.google.com/go/pubsub"
	"golang.org/x/time/rate"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/edulog/plagiarism-check/pkg/httpapi"
	"github.com/edulog/plagiarism-check/pkg/obs"
	"github.com/edulog/plagiarism-check/pkg/plagiarism"
	"github.com/edulog/plagiarism-check/pkg/processing"
	pgstore "github.com/edulog/plagiarism-check/pkg/storage/postgres"
)

const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

func main() {
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "checker terminated with error: %v\n", err)
	}
	os.Exit(code)
}

func run() (int, error) {
	cfg, err := loadConfig()
	if err != nil {
		return exitConfig, err
	}
	log := obs.NewLogger(cfg.LogLevel)
	obs.Init()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := pgstore.NewDB(ctx, cfg.DatabaseURL)
	if err != nil {
		return exitRuntime, fmt.Errorf("db connect: %w", err)
	}
	defer pool.Close()

	if err := pgstore.EnsureSchema(ctx, pool); err != nil {
		return exitRuntime, fmt.Errorf("db schema: %w", err)
	}
	repo := pgstore.NewRepository(pool)

	checker := newChecker(cfg, log)

	client, err := pubsub.NewClient(ctx, cfg.ProjectID)
	if err != nil {
		return exitRuntime, fmt.Errorf("pubsub client: %w", err)
	}
	defer client.Close()

	var dlqPublisher processing.DLQPublisher = &processing.NoopDLQPublisher{}
	if cfg.DLQTopicID != "" {
		topic := client.Topic(cfg.DLQTopicID)
		defer topic.Stop()
		dlqPublisher = processing.NewPubSubDLQPublisher(topic)
	}
	var resultPublisher processing.ResultPublisher = &processing.NoopResultPublisher{}
	if cfg.ResultsTopicID != "" {
		topic := client.Topic(cfg.ResultsTopicID)
		defer topic.Stop()
		resultPublisher = processing.NewPubSubResultPublisher(topic)
	}
	handler := processing.NewHandler(checker, repo, dlqPublisher, resultPublisher, log)

	api := httpapi.NewServer(checker, repo, log, cfg.CheckTimeout)
	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           api.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	grpcListener, err := net.Listen("tcp", cfg.GRPCAddr)
	if err != nil {
		return exitRuntime, fmt.Errorf("failed to listen on %s: %w", cfg.GRPCAddr, err)
	}
	grpcServer := grpc.NewServer()
	healthServer := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthServer)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	errChan := make(chan error, 3)

	go func() {
		log.Info("Starting HTTP server", "address", cfg.HTTPAddr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()
	go func() {
		log.Info("Starting gRPC health server", "address", cfg.GRPCAddr)
		if err := grpcServer.Serve(grpcListener); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			errChan <- fmt.Errorf("gRPC server error: %w", err)
		}
	}()

	sub := client.Subscription(cfg.SubscriptionID)
	sub.ReceiveSettings.NumGoroutines = cfg.WorkerCount
	sub.ReceiveSettings.MaxOutstandingMessages = cfg.MaxOutstanding

	log.Info("Checker started",
		"project", cfg.ProjectID, "subscription", cfg.SubscriptionID,
		"workers", cfg.WorkerCount, "mode", cfg.CheckMode)
	healthServer.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)

	go func() {
		err := sub.Receive(ctx, func(ctx context.Context, msg *pubsub.Message) {
			if handler.HandleMessage(ctx, msg) {
				msg.Ack()
			} else {
				msg.Nack()
			}
		})
		if err != nil {
			errChan <- fmt.Errorf("subscription receive ended: %w", err)
			return
		}
		errChan <- nil
	}()

	code, runErr := exitOK, error(nil)
	select {
	case <-ctx.Done():
		log.Info("Shutting down gracefully...")
	case err := <-errChan:
		if err != nil {
			code, runErr = exitRuntime, err
		}
	}

	cancel()
	healthServer.Shutdown()
	grpcServer.GracefulStop()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Warn("HTTP shutdown error", "error", err)
	}
	log.Info("Checker stopped")
	return code, runErr
}

func newChecker(cfg config, log *slog.Logger) *plagiarism.Checker {
	opts := []plagiarism.Option{
		plagiarism.WithMode(plagiarism.Mode(cfg.CheckMode)),
		plagiarism.WithPolicy(plagiarism.Policy{Threshold: cfg.Threshold}),
		plagiarism.WithPollInterval(cfg.PollInterval),
		plagiarism.WithMaxPolls(cfg.MaxPolls),
		plagiarism.WithFallbackDelay(cfg.FallbackDelay),
		plagiarism.WithLogger(log),
	}
	if plagiarism.Mode(cfg.CheckMode) == plagiarism.ModeSimulation {
		return plagiarism.NewChecker(nil, opts...)
	}

	var clientOpts []plagiarism.ClientOption
	if cfg.UpstreamRPS > 0 {
		clientOpts = append(clientOpts, plagiarism.WithRateLimit(rate.NewLimiter(rate.Limit(cfg.UpstreamRPS), 1)))
	}
	client := plagiarism.NewClient(cfg.APIBaseURL,
		plagiarism.Credentials{Email: cfg.APIEmail, Key: cfg.APIKey}, clientOpts...)
	return plagiarism.NewChecker(client, opts...)
}
