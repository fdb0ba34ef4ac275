package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"strconv"

	"github.com/spf13/pflag"

	"github.com/Jedsam/ComputerNetworksProject/internal/api"
	"github.com/Jedsam/ComputerNetworksProject/internal/config"
	"github.com/Jedsam/ComputerNetworksProject/internal/logger"
	"github.com/Jedsam/ComputerNetworksProject/internal/origin"
	"github.com/Jedsam/ComputerNetworksProject/internal/service"
)

const usage = "Usage: webserver <port>\n"

// parseArgs returns the listening port, the only positional argument.
func parseArgs(args []string) (int, error) {
	fs := pflag.NewFlagSet("webserver", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	if err := fs.Parse(args); err != nil {
		return 0, err
	}
	if fs.NArg() != 1 {
		return 0, fmt.Errorf("expected exactly one port argument, got %d", fs.NArg())
	}
	port, err := config.ParsePort(fs.Arg(0))
	if err != nil {
		return 0, fmt.Errorf("invalid port %q: %w", fs.Arg(0), err)
	}
	return port, nil
}

func run(ctx context.Context, args []string, stderr io.Writer) int {
	port, err := parseArgs(args)
	if errors.Is(err, pflag.ErrHelp) {
		fmt.Fprint(stderr, usage)
		return 0
	}
	if err != nil {
		fmt.Fprintf(stderr, "%v\n%s", err, usage)
		return 1
	}

	// Load configuration from environment
	cfg, err := config.LoadFromEnv()
	if err != nil {
		fmt.Fprintf(stderr, "Configuration error: %v\n", err)
		return 1
	}

	logger.Init(logger.Options{Service: "webserver", Debug: cfg.Debug})
	logger.Info("Starting web server...", "port", port, "min_size", origin.MinSize, "max_size", origin.MaxSize)

	var healthServer *api.HealthServer
	if cfg.HealthEnabled() {
		healthServer = api.NewHealthServer(":"+cfg.HealthServerPort, "webserver")
		if err := healthServer.Start(); err != nil {
			logger.Error("Failed to start health server", "error", err)
			return 1
		}
	}

	listener, err := net.Listen("tcp", ":"+strconv.Itoa(port))
	if err != nil {
		logger.Error("Failed to start listener", "port", port, "error", err)
		return 1
	}
	logger.Info("Server listening", "port", port)

	err = service.Run(ctx, service.Options{
		Name:        "webserver",
		Listener:    listener,
		Handler:     origin.NewHandler(),
		Health:      healthServer,
		GracePeriod: cfg.ShutdownGracePeriod,
	})
	if err != nil {
		logger.Error("Server error", "error", err)
		return 1
	}
	logger.Info("Server stopped")
	return 0
}

func main() {
	ctx, stop := service.SignalContext(context.Background())
	code := run(ctx, os.Args[1:], os.Stderr)
	stop()
	os.Exit(code)
}
