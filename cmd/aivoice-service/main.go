// main package for the aivoice-service
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/book-expert/aivoice-service/aivoice"
	"github.com/book-expert/aivoice-service/aivoice/comhost"
	"github.com/book-expert/aivoice-service/internal/config"
	"github.com/book-expert/aivoice-service/internal/core"
	"github.com/book-expert/aivoice-service/internal/metrics"
	"github.com/book-expert/aivoice-service/internal/objectstore"
	"github.com/book-expert/aivoice-service/internal/tts"
	"github.com/book-expert/aivoice-service/internal/worker"
	"github.com/book-expert/logger"
	"github.com/nats-io/nats.go"
	"golang.org/x/sync/errgroup"
)

const (
	bootstrapLogFile    = "aivoice-service-bootstrap.log"
	serviceLogFile      = "aivoice-service.log"
	metricsPath         = "/metrics"
	readHeaderTimeout   = 5 * time.Second
	shutdownGracePeriod = 10 * time.Second
	hostStatusInterval  = 15 * time.Second
)

func setupLogger(logPath, fileName string) (*logger.Logger, error) {
	log, err := logger.New(logPath, fileName)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	return log, nil
}

func run() error {
	// 1. Create a temporary logger for the bootstrap process
	bootstrapLog, err := setupLogger(os.TempDir(), bootstrapLogFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: Failed to create bootstrap logger: %v\n", err)

		return err
	}

	// 2. Load configuration using the central configurator
	cfg, err := config.Load(bootstrapLog)
	if err != nil {
		bootstrapLog.Error("Failed to load configuration: %v", err)

		return fmt.Errorf("failed to load configuration: %w", err)
	}

	bootstrapLog.Info("Configuration loaded successfully.")

	// 3. Initialize the final logger based on the loaded configuration
	log, err := setupLogger(cfg.Paths.BaseLogsDir, serviceLogFile)
	if err != nil {
		bootstrapLog.Error("Failed to create final logger: %v", err)

		return err
	}

	defer func() {
		closeErr := log.Close()
		if closeErr != nil {
			fmt.Fprintf(os.Stderr, "error closing final logger: %v\n", closeErr)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return serve(ctx, cfg, log)
}

func serve(ctx context.Context, cfg *config.Config, log *logger.Logger) error {
	style, err := cfg.AIVoice.Style()
	if err != nil {
		return err
	}

	// 4. Attach to the host program
	host, err := comhost.New()
	if err != nil {
		log.Error("Failed to create automation object: %v", err)

		return fmt.Errorf("failed to create automation object: %w", err)
	}

	defer func() {
		closeErr := host.Close()
		if closeErr != nil {
			log.Warn("Failed to release automation object: %v", closeErr)
		}
	}()

	client, err := aivoice.New(host, aivoice.Options{
		HostName:     cfg.AIVoice.HostName,
		StartHost:    cfg.AIVoice.StartHost,
		PollInterval: cfg.AIVoice.PollInterval(),
		Logger:       log,
	})
	if err != nil {
		log.Error("Failed to initialize the host client: %v", err)

		return fmt.Errorf("failed to initialize the host client: %w", err)
	}

	processor := tts.New(client, core.TTSConfig{
		Voice:       cfg.AIVoice.DefaultVoice,
		Style:       style,
		WaitTimeout: cfg.AIVoice.WaitTimeout(),
	}, "", log)

	// 5. Connect to NATS and the object store
	natsConnection, err := nats.Connect(cfg.NATS.URL, nats.Name("aivoice-service"))
	if err != nil {
		log.Error("Failed to connect to NATS at %s: %v", cfg.NATS.URL, err)

		return fmt.Errorf("failed to connect to NATS: %w", err)
	}
	defer natsConnection.Close()

	jetstreamContext, err := natsConnection.JetStream()
	if err != nil {
		return fmt.Errorf("failed to create JetStream context: %w", err)
	}

	store, err := objectstore.NewSplit(jetstreamContext, cfg.NATS.TextObjectStoreBucket, cfg.NATS.AudioObjectStoreBucket)
	if err != nil {
		log.Error("Failed to open object stores: %v", err)

		return err
	}

	// 6. Run the worker, the metrics endpoint and the host status poller until a
	// signal arrives
	collector := metrics.NewCollector("")
	jobWorker := worker.NewNatsWorker(natsConnection, worker.Subjects{
		Jobs:      cfg.NATS.TextProcessedSubject,
		Queue:     cfg.NATS.TTSConsumerName,
		Completed: cfg.NATS.AudioChunkCreatedSubject,
	}, store, processor, collector, log)

	log.System("AIVoice-Service initialized on host %s. Listening for jobs on subject: %s",
		client.HostName(), cfg.NATS.TextProcessedSubject)

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error { return jobWorker.Run(groupCtx) })
	group.Go(func() error { return serveMetrics(groupCtx, cfg.Metrics.Address(), collector, log) })
	group.Go(func() error {
		pollHostStatus(groupCtx, processor, collector)

		return nil
	})

	err = group.Wait()
	if err != nil {
		return fmt.Errorf("service stopped: %w", err)
	}

	log.System("AIVoice-Service shut down.")

	return nil
}

// serveMetrics serves /metrics until ctx is done.
func serveMetrics(ctx context.Context, addr string, collector *metrics.Collector, log *logger.Logger) error {
	mux := http.NewServeMux()
	mux.Handle(metricsPath, collector.Handler())

	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	serveErr := make(chan error, 1)

	go func() {
		serveErr <- server.ListenAndServe()
	}()

	log.Info("Serving metrics on %s%s", addr, metricsPath)

	select {
	case err := <-serveErr:
		return fmt.Errorf("metrics server failed: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGracePeriod)
	defer cancel()

	err := server.Shutdown(shutdownCtx)
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("metrics server shutdown failed: %w", err)
	}

	return nil
}

// pollHostStatus refreshes the host status gauge between jobs.
func pollHostStatus(ctx context.Context, processor *tts.Processor, collector *metrics.Collector) {
	ticker := time.NewTicker(hostStatusInterval)
	defer ticker.Stop()

	for {
		collector.SetHostStatus(processor.HostStatus())

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func main() {
	err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Service exited with error: %v\n", err)
		os.Exit(1)
	}
}
