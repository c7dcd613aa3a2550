package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/skiff-dev/skiff/internal/config"
	"github.com/skiff-dev/skiff/internal/dev"
)

func serveCmd() *cobra.Command {
	var (
		addr         string
		dir          string
		manifestPath string
		noReload     bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the development server",
		Long: `Start the development server for a Skiff app.

The server serves the app directory with SPA fallback to index.html,
so deep links resolve through the client-side router. File changes
trigger a live reload in connected browsers.

Examples:
  skiff serve
  skiff serve --addr=:8080
  skiff serve --dir=dist --no-reload`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(addr, dir, manifestPath, noReload)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "Listen address (default from skiff.yaml)")
	cmd.Flags().StringVarP(&dir, "dir", "d", "", "App directory to serve (default from skiff.yaml)")
	cmd.Flags().StringVarP(&manifestPath, "config", "c", "", "Path to skiff.yaml")
	cmd.Flags().BoolVar(&noReload, "no-reload", false, "Disable live reload")

	return cmd
}

func runServe(addr, dir, manifestPath string, noReload bool) error {
	cfg, err := loadManifest(manifestPath)
	if err != nil {
		return err
	}

	if addr == "" {
		addr = cfg.Dev.Addr
	}
	if dir == "" {
		dir = cfg.AppDir()
	}
	reload := *cfg.Dev.Reload && !noReload

	printBanner()
	fmt.Println("  serve")
	fmt.Println()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	server, err := dev.NewServer(dev.ServerOptions{
		Dir:    dir,
		Addr:   addr,
		Reload: reload,
		Watch:  cfg.Dev.Watch,
		Logger: logger,
		OnReload: func(clients int) {
			success("Reloaded %d browsers", clients)
		},
	})
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		fmt.Println("\n\n  Shutting down...")
		cancel()
		server.Stop()
	}()

	info("Serving %s at http://localhost%s", dir, addr)
	return server.Start(ctx)
}

// loadManifest loads the manifest from an explicit path or by walking up
// from the working directory.
func loadManifest(path string) (*config.Config, error) {
	if path != "" {
		return config.Load(path)
	}

	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	found, err := config.FindManifest(wd)
	if err != nil {
		return nil, err
	}
	return config.Load(found)
}
