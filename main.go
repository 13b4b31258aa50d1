package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ca-srg/tzbridge/domain"
	"github.com/ca-srg/tzbridge/infrastructure/di"
	"github.com/ca-srg/tzbridge/interface/presenter"
)

func main() {
	// Parse command line flags
	var (
		serveMode   = flag.Bool("serve", false, "Run the HTTP server with periodic metrics")
		mcpMode     = flag.Bool("mcp", false, "Run the MCP server on stdio")
		nowMode     = flag.Bool("now", false, "Print the current time in a timezone")
		timezone    = flag.String("tz", "", "Timezone for -now (default: detected system timezone)")
		timeStr     = flag.String("time", "", "Civil time to convert (HH:MM, 24-hour)")
		sourceZone  = flag.String("from", "", "Source IANA timezone for -time")
		targetZone  = flag.String("to", "", "Target IANA timezone for -time")
		jsonOutput  = flag.Bool("json", false, "Print results as JSON")
		verbose     = flag.Bool("verbose", false, "Print both sides of a conversion")
		debugMode   = flag.Bool("debug", false, "Enable debug logging to stderr")
		configPath  = flag.String("config", "", "Config file path (default: ~/.config/tzbridge/config.json)")
		showVersion = flag.Bool("version", false, "Print version and exit")
	)
	flag.Parse()

	if *showVersion {
		presenter.NewConsolePresenter().PrintVersion()
		return
	}

	if *serveMode && *mcpMode {
		fmt.Fprintf(os.Stderr, "-serve and -mcp cannot be combined\n")
		os.Exit(1)
	}

	// Server modes get the full container
	if *serveMode || *mcpMode {
		opts := []di.ContainerOption{}
		if *debugMode {
			opts = append(opts, di.WithDebugLogging(true))
		}
		if *configPath != "" {
			opts = append(opts, di.WithConfigPath(*configPath))
		}

		container, err := di.NewContainer(opts...)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to initialize application: %v\n", err)
			os.Exit(1)
		}

		if *serveMode {
			runServeMode(container)
		} else {
			runMCPMode(container)
		}
		return
	}

	// The one-shot CLI path skips the metrics push and the server controllers
	builder := di.NewContainerBuilder().CLIOnly()
	if *debugMode {
		builder = builder.WithDebugLogging(true)
	}
	if *configPath != "" {
		builder = builder.WithConfigPath(*configPath)
	}

	container, err := builder.Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize application: %v\n", err)
		os.Exit(1)
	}

	runCLIMode(container, cliOptions{
		now:        *nowMode,
		timezone:   *timezone,
		time:       *timeStr,
		sourceZone: *sourceZone,
		targetZone: *targetZone,
		jsonOutput: *jsonOutput,
		verbose:    *verbose,
	})
}

// cliOptions carries the parsed one-shot flags into CLI mode
type cliOptions struct {
	now        bool
	timezone   string
	time       string
	sourceZone string
	targetZone string
	jsonOutput bool
	verbose    bool
}

// runCLIMode executes a single conversion or current-time lookup and exits
func runCLIMode(container *di.Container, opts cliOptions) {
	cliController := container.GetCLIController()
	if cliController == nil {
		fmt.Fprintf(os.Stderr, "CLI controller not available\n")
		os.Exit(1)
	}

	cliController.SetJSONOutput(opts.jsonOutput)
	cliController.SetVerbose(opts.verbose)

	var err error
	switch {
	case opts.now:
		err = cliController.RunCurrentTime(opts.timezone)
	case opts.time != "" || opts.sourceZone != "" || opts.targetZone != "":
		err = cliController.RunConvert(opts.time, opts.sourceZone, opts.targetZone)
	default:
		flag.Usage()
		os.Exit(2)
	}

	container.CloseLogger()

	// The controller already printed the failure through the presenter
	if err != nil {
		os.Exit(1)
	}
}

// runServeMode runs the HTTP server until an interrupt arrives
func runServeMode(container *di.Container) {
	logger := container.CreateLogger("main")
	ctx := context.Background()

	httpController := container.GetHTTPController()
	if httpController == nil {
		fmt.Fprintf(os.Stderr, "HTTP controller not available\n")
		os.Exit(1)
	}

	statusService := container.GetStatusService()
	if err := statusService.SetDaemonStarted(time.Now()); err != nil {
		logger.Warn(ctx, "Failed to record start time", domain.NewField("error", err.Error()))
	}

	// Start metrics push if Prometheus is configured
	metricsService := container.GetMetricsService()
	if err := metricsService.StartPeriodicMetrics(); err != nil {
		// Log error but don't fail application startup
		logger.Warn(ctx, "Failed to start metrics service", domain.NewField("error", err.Error()))
	}

	if err := httpController.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start HTTP server: %v\n", err)
		os.Exit(1)
	}

	// Wait for interrupt
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	// Teardown order matters: stop metrics first so the final snapshot
	// goes out, then drain the HTTP server
	if err := metricsService.StopPeriodicMetrics(); err != nil {
		logger.Error(ctx, "Error stopping metrics service", domain.NewField("error", err.Error()))
	}
	if err := httpController.Stop(); err != nil {
		logger.Error(ctx, "Error stopping HTTP server", domain.NewField("error", err.Error()))
	}
	if err := statusService.SetDaemonStopped(); err != nil {
		logger.Warn(ctx, "Failed to record stop time", domain.NewField("error", err.Error()))
	}

	counts := metricsService.Snapshot()
	logger.Info(ctx, "Shutdown complete",
		domain.NewField("conversions", counts.Succeeded()),
		domain.NewField("failures", counts.TotalFailures()))

	container.CloseLogger()
}

// runMCPMode runs the MCP stdio server until the signal context ends
func runMCPMode(container *di.Container) {
	mcpController := container.GetMCPController()
	if mcpController == nil {
		fmt.Fprintf(os.Stderr, "MCP controller not available\n")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := mcpController.Run(ctx)
	container.CloseLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}
