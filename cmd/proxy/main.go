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
	"github.com/Jedsam/ComputerNetworksProject/internal/forward"
	"github.com/Jedsam/ComputerNetworksProject/internal/logger"
	"github.com/Jedsam/ComputerNetworksProject/internal/service"
)

func usage(w io.Writer) {
	fmt.Fprintf(w, "Usage: proxy\n\nListens on port %d and forwards to %s.\n",
		config.ProxyListenPort, config.Origin)
}

// parseArgs accepts no positional arguments: the port and origin are fixed.
func parseArgs(args []string) error {
	fs := pflag.NewFlagSet("proxy", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 0 {
		return fmt.Errorf("unexpected arguments: %q", fs.Args())
	}
	return nil
}

func run(ctx context.Context, args []string, stderr io.Writer) int {
	if err := parseArgs(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			usage(stderr)
			return 0
		}
		fmt.Fprintf(stderr, "%v\n", err)
		usage(stderr)
		return 1
	}

	// Load configuration from environment
	cfg, err := config.LoadFromEnv()
	if err != nil {
		fmt.Fprintf(stderr, "Configuration error: %v\n", err)
		return 1
	}

	logger.Init(logger.Options{Service: "proxy", Debug: cfg.Debug})
	logger.Info("Starting proxy...",
		"port", config.ProxyListenPort,
		"origin", config.Origin.String(),
		"max_size", forward.MaxSize)

	var healthServer *api.HealthServer
	if cfg.HealthEnabled() {
		healthServer = api.NewHealthServer(":"+cfg.HealthServerPort, "proxy")
		if err := healthServer.Start(); err != nil {
			logger.Error("Failed to start health server", "error", err)
			return 1
		}
	}

	listener, err := net.Listen("tcp", ":"+strconv.Itoa(config.ProxyListenPort))
	if err != nil {
		logger.Error("Failed to start listener", "port", config.ProxyListenPort, "error", err)
		return 1
	}
	logger.Info("Proxy listening", "port", config.ProxyListenPort)

	err = service.Run(ctx, service.Options{
		Name:        "proxy",
		Listener:    listener,
		Handler:     forward.NewProxy(config.Origin),
		Health:      healthServer,
		GracePeriod: cfg.ShutdownGracePeriod,
	})
	if err != nil {
		logger.Error("Server error", "error", err)
		return 1
	}
	logger.Info("Proxy stopped")
	return 0
}

func main() {
	ctx, stop := service.SignalContext(context.Background())
	code := run(ctx, os.Args[1:], os.Stderr)
	stop()
	os.Exit(code)
}
