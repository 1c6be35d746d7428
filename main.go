package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ONSdigital/ssdc-rm-form-response-adapter/api"
	"github.com/ONSdigital/ssdc-rm-form-response-adapter/config"
	"github.com/ONSdigital/ssdc-rm-form-response-adapter/logger"
	"github.com/ONSdigital/ssdc-rm-form-response-adapter/processor"
	"github.com/ONSdigital/ssdc-rm-form-response-adapter/readiness"
	"github.com/ONSdigital/ssdc-rm-form-response-adapter/reconciler"
	"github.com/ONSdigital/ssdc-rm-form-response-adapter/source"
	"github.com/ONSdigital/ssdc-rm-form-response-adapter/viewer"
	"github.com/pkg/errors"
	"google.golang.org/api/option"
)

func main() {
	appConfig, err := config.GetConfig()
	if err != nil {
		log.Fatal(errors.Wrap(err, "Error getting config at startup"))
	}
	ctx := context.Background()
	ctx, cancel := context.WithCancel(ctx)

	// Configure the logger
	err = logger.ConfigureLogger(appConfig)
	if err != nil {
		log.Fatal(errors.Wrap(err, "Failed to configure logger at startup"))
	}
	logger.Logger.Infow("Launching Form Response Adapter", "config", appConfig.String())

	formSource, closeSource, err := NewFormSource(ctx, appConfig)
	if err != nil {
		logger.Logger.Fatalw("Error setting up form source", "error", err)
	}
	formViewer := NewViewer(appConfig, formSource)

	// Trap SIGINT and SIGTERM to trigger graceful shutdown
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt, syscall.SIGTERM)

	// Channel for goroutines to notify main of errors
	errChan := make(chan processor.Error)

	ready := readiness.New(ctx, appConfig.ReadinessFilePath)
	server := StartHttpServer(appConfig, formViewer, ready, signals)

	processors, err := StartProcessors(ctx, appConfig, formViewer, errChan)

	// Ensure proper shutdown is attempted
	defer shutdown(cancel, processors, server, closeSource)

	if err != nil {
		logger.Logger.Errorw("Error starting processors", "error", err)
		return
	}

	// Wait for processors to start properly
	if err := waitForStartup(ctx, appConfig, errChan); err != nil {
		logger.Logger.Info("Shutting down due to start up error")
		return
	}

	// Indicate ready
	if err := ready.Ready(); err != nil {
		logger.Logger.Errorw("Error indicating ready", "error", err)
		return
	}

	// Block until we receive OS shutdown signal or error
	RunLoop(ctx, appConfig, signals, errChan)
}

// NewFormSource picks the demo store or the Google Forms API. The returned func releases the source.
func NewFormSource(ctx context.Context, cfg *config.Configuration) (source.FormSource, func() error, error) {
	if cfg.FormSource == config.FormSourceGoogle {
		var opts []option.ClientOption
		if cfg.GoogleCredentialsFile != "" {
			opts = append(opts, option.WithCredentialsFile(cfg.GoogleCredentialsFile))
		}
		google, err := source.NewGoogle(ctx, opts...)
		if err != nil {
			return nil, nil, err
		}
		return google, func() error { return nil }, nil
	}

	demo, err := source.NewDemo(cfg.DemoDbPath)
	if err != nil {
		return nil, nil, err
	}
	demo.Latency = time.Duration(cfg.DemoLatencyMillis) * time.Millisecond
	logger.Logger.Infow("Using demo form source", "demoDbPath", cfg.DemoDbPath)
	return demo, demo.Close, nil
}

func NewViewer(cfg *config.Configuration, formSource source.FormSource) *viewer.Viewer {
	policy := reconciler.NewExpiryPolicy(cfg.ExpiryWindowDays, false)
	return viewer.New(formSource, reconciler.New(policy))
}

// StartHttpServer serves the API in the background, a failure to listen triggers shutdown.
func StartHttpServer(cfg *config.Configuration, v *viewer.Viewer, ready *readiness.Readiness, signals chan os.Signal) *http.Server {
	server := &http.Server{
		Addr:              ":" + cfg.HttpPort,
		Handler:           api.NewRouter(cfg, api.NewHTTPHandler(v, ready)),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Logger.Infow("Starting HTTP API", "port", cfg.HttpPort)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Logger.Errorw("HTTP API exited", "error", err)
			select {
			case signals <- syscall.SIGTERM:
			default:
			}
		}
	}()
	return server
}

func RunLoop(ctx context.Context, cfg *config.Configuration, signals chan os.Signal, errChan chan processor.Error) {
	for {
		select {
		case sig := <-signals:
			logger.Logger.Infow("OS Signal Received", "signal", sig.String())
			return
		case processorErr := <-errChan:
			logger.Logger.Errorw("Processor error received", "error", processorErr.Err, "processor", processorErr.Name)

			processorErr.Restart(ctx)

			// Limit the rate of restarts
			time.Sleep(time.Duration(cfg.ProcessorRestartWaitSeconds) * time.Second)
		}
	}
}

func StartProcessors(ctx context.Context, cfg *config.Configuration, v *viewer.Viewer, errChan chan processor.Error) ([]*processor.Processor, error) {
	processors := make([]*processor.Processor, 0)

	// Initialise forms watch notification processing
	formsWatchProcessor, err := processor.NewFormsWatchProcessor(ctx, cfg, v, errChan)
	if err != nil {
		return nil, errors.Wrap(err, "Error starting forms watch processor")
	}
	processors = append(processors, formsWatchProcessor)

	return processors, nil
}

func waitForStartup(ctx context.Context, cfg *config.Configuration, errChan chan processor.Error) error {
	startupTimer, cancel := context.WithTimeout(ctx, time.Duration(cfg.ProcessorStartUpTimeSeconds)*time.Second)
	defer cancel()
	select {
	case processorError := <-errChan:
		processorError.Logger.Errorw("Processor errored during startup period", "error", processorError.Err)
		return processorError.Err
	case <-startupTimer.Done():
		logger.Logger.Debug("Startup complete")
		return nil
	}
}

func shutdown(cancel context.CancelFunc, processors []*processor.Processor, server *http.Server, closeSource func() error) {
	// cleanup for graceful shutdown
	logger.Logger.Info("Shutting Down")

	// give the app 10 sec to cleanup before being killed
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)

	go func() {
		// this will be called once cleanup completes or when the timeout is reached
		defer shutdownCancel()

		logger.Logger.Info("Stopping HTTP API")
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Logger.Errorw("Error stopping HTTP API", "error", err)
		}

		// send cancel to all consumers
		cancel()

		logger.Logger.Info("Starting rabbit cleanup")
		for _, p := range processors {
			p.CloseRabbit(false)
		}

		if err := closeSource(); err != nil {
			logger.Logger.Errorw("Error closing form source", "error", err)
		}
	}()

	//block until shutdown cancel has been called
	<-shutdownCtx.Done()

	logger.Logger.Info("Shutdown complete")
	os.Exit(1)
}
