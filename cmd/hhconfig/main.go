package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"go.uber.org/zap"

	"github.com/no-hive/solidity-learning/internal/application"
	"github.com/no-hive/solidity-learning/internal/config"
	"github.com/no-hive/solidity-learning/internal/logging"
	"github.com/no-hive/solidity-learning/internal/options"
)

var signalNotify = signal.Notify

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "hhconfig: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout io.Writer) error {
	kingpinApp := kingpin.New("hhconfig", "Composes the Hardhat build configuration for a Solidity project")
	configFile := kingpinApp.Flag("config", "Path to YAML tool settings file").String()
	projectDir := kingpinApp.Flag("project", "Project root holding hardhat/ and docs/ ($PROJECT_DIR)").String()
	format := kingpinApp.Flag("format", "Output format: json or yaml ($OUTPUT_FORMAT)").String()
	output := kingpinApp.Flag("output", "Write the output to a file instead of stdout").Short('o').String()
	logLevel := kingpinApp.Flag("log-level", "Log level ($LOG_LEVEL)").String()

	var strictDocgen, strictDocgenSet bool
	kingpinApp.Flag("strict-docgen", "Fail when documentation options are missing or malformed ($STRICT_DOCGEN)").
		Action(func(*kingpin.ParseContext) error {
			strictDocgenSet = true
			return nil
		}).
		BoolVar(&strictDocgen)

	buildFlags := options.Bind(kingpinApp)

	composeCmd := kingpinApp.Command("compose", "Print the composed build configuration").Default()
	tasksCmd := kingpinApp.Command("tasks", "List the tasks registered by plugins and extensions")
	serveCmd := kingpinApp.Command("serve", "Serve the composed configuration over HTTP")
	port := serveCmd.Flag("port", "HTTP port ($PORT)").String()
	rateLimitRPSFlag := serveCmd.Flag("rate-limit-rps", "Requests per second allowed (set 0 to disable)").Default("-1").Float64()
	rateLimitBurstFlag := serveCmd.Flag("rate-limit-burst", "Burst capacity for rate limiter (set 0 to disable)").Default("-1").Int()

	command, err := kingpinApp.Parse(options.Permissive(kingpinApp, args))
	if err != nil {
		return err
	}

	overrides := &config.CLIOverrides{
		ConfigFile: *configFile,
		ProjectDir: projectDir,
		Format:     format,
		Output:     output,
		LogLevel:   logLevel,
		Port:       port,
	}
	if strictDocgenSet {
		overrides.StrictDocgen = &strictDocgen
	}
	if *rateLimitRPSFlag >= 0 {
		overrides.RateLimitRPS = rateLimitRPSFlag
	}
	if *rateLimitBurstFlag >= 0 {
		overrides.RateLimitBurst = rateLimitBurstFlag
	}

	cfg, err := config.Load(overrides)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	result, err := application.Compose(context.Background(), application.Params{
		Overrides:    buildFlags.Overrides(),
		FS:           os.DirFS(cfg.ProjectDir),
		StrictDocgen: cfg.StrictDocgen,
		Logger:       logger,
	})
	if err != nil {
		logger.Error("failed to compose configuration", zap.Error(err))
		return err
	}

	switch command {
	case composeCmd.FullCommand():
		return writeOutput(stdout, cfg.Output, result.Config, cfg.Format)

	case tasksCmd.FullCommand():
		return writeOutput(stdout, cfg.Output, newTaskListing(result), cfg.Format)

	case serveCmd.FullCommand():
		app, err := application.New(cfg, result, logger)
		if err != nil {
			return fmt.Errorf("failed to initialize application: %w", err)
		}
		if err := app.Start(); err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}
		shutdown(app.Server(), cfg.ShutdownGracePeriod, logger)
	}

	return nil
}

func shutdown(server *http.Server, timeout time.Duration, logger *zap.Logger) {
	quit := make(chan os.Signal, 1)
	signalNotify(quit, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	<-quit
	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Warn("graceful shutdown failed", zap.Error(err))
		if closeErr := server.Close(); closeErr != nil {
			logger.Error("forced close failed", zap.Error(closeErr))
		}
	}
}
