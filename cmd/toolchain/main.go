package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"go.uber.org/zap"

	"github.com/alexjait/AuditBookContract/internal/application"
	"github.com/alexjait/AuditBookContract/internal/config"
	"github.com/alexjait/AuditBookContract/internal/logging"
	"github.com/alexjait/AuditBookContract/internal/probe"
)

var signalNotify = signal.Notify

func main() {
	kingpinApp := kingpin.New("toolchain", "Smart-contract toolchain configuration - resolves compiler version and network endpoints")
	configFile := kingpinApp.Flag("config", "Path to YAML runtime configuration file").String()
	definition := kingpinApp.Flag("definition", "Path to a YAML or TOML network definition (defaults to the built-in networks)").String()
	dotenv := kingpinApp.Flag("dotenv", "Comma-separated dotenv files, earlier files win").String()
	port := kingpinApp.Flag("port", "HTTP port exposed by serve").String()
	logLevel := kingpinApp.Flag("log-level", "Log level").Default(logging.DefaultLevel).Enum("debug", "info", "warn", "error")
	rateLimitRPSFlag := kingpinApp.Flag("rate-limit-rps", "Requests per second allowed (set 0 to disable)").Default("-1").Float64()
	rateLimitBurstFlag := kingpinApp.Flag("rate-limit-burst", "Burst capacity for rate limiter (set 0 to disable)").Default("-1").Int()
	var strictSet bool
	strict := kingpinApp.Flag("strict", "Reject records that fail validation").IsSetByUser(&strictSet).Bool()

	showCmd := kingpinApp.Command("show", "Print the resolved configuration record")
	showFormat := showCmd.Flag("format", "Output format").Default(formatJSON).Enum(formatJSON, formatYAML)
	showReveal := showCmd.Flag("reveal", "Print signing keys instead of their addresses").Bool()

	validateCmd := kingpinApp.Command("validate", "Check URLs, keys and environment placeholders")
	probeCmd := kingpinApp.Command("probe", "Ask every network endpoint for its chain id")
	serveCmd := kingpinApp.Command("serve", "Serve the record over a read-only HTTP API")

	command := kingpin.MustParse(kingpinApp.Parse(os.Args[1:]))

	overrides := &config.CLIOverrides{
		ConfigFile: *configFile,
	}

	if *definition != "" {
		overrides.DefinitionFile = definition
	}

	if *dotenv != "" {
		overrides.DotenvFiles = dotenv
	}

	if *port != "" {
		overrides.Port = port
	}

	if strictSet {
		overrides.Strict = strict
	}

	if *rateLimitRPSFlag >= 0 {
		overrides.RateLimitRPS = rateLimitRPSFlag
	}

	if *rateLimitBurstFlag >= 0 {
		overrides.RateLimitBurst = rateLimitBurstFlag
	}

	cfg, err := config.Load(overrides)
	if err != nil {
		panic(fmt.Sprintf("failed to load configuration: %v", err))
	}

	logger, err := logging.New(*logLevel)
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer func() {
		_ = logger.Sync()
	}()

	exitCode := 0
	switch command {
	case showCmd.FullCommand():
		if err := runShow(os.Stdout, cfg, *showFormat, *showReveal); err != nil {
			logger.Fatal("failed to show configuration", zap.Error(err))
		}

	case validateCmd.FullCommand():
		ok, err := runValidate(os.Stdout, cfg)
		if err != nil {
			logger.Fatal("failed to validate configuration", zap.Error(err))
		}
		if !ok {
			exitCode = 1
		}

	case probeCmd.FullCommand():
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		ok, err := runProbe(ctx, os.Stdout, cfg, probe.New(nil, cfg.ProbeTimeout, logger))
		stop()
		if err != nil {
			logger.Fatal("failed to probe networks", zap.Error(err))
		}
		if !ok {
			exitCode = 1
		}

	case serveCmd.FullCommand():
		app, err := application.New(cfg, logger)
		if err != nil {
			logger.Fatal("failed to initialize application", zap.Error(err))
		}

		if err := app.Start(); err != nil {
			logger.Fatal("failed to start server", zap.Error(err))
		}

		shutdown(app.Server(), cfg.ShutdownGracePeriod, logger)
	}

	if exitCode != 0 {
		_ = logger.Sync()
		os.Exit(exitCode)
	}
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
