package cmd

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/adalundhe/floyd/core/app"
	"github.com/adalundhe/floyd/core/config"
	"github.com/adalundhe/floyd/core/gateway"
)

const shutdownTimeout = 10 * time.Second

var (
	serveAddr  string
	serveWatch bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the dialogue endpoint over HTTP",
	Long: `Serve POST requests of the form {"assistant": ..., "prompt": ...} on the
configured path.

Examples:
  floyd serve
  floyd serve --addr :9000 --watch`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (overrides server.addr)")
	serveCmd.Flags().BoolVar(&serveWatch, "watch", false, "Reload configuration when config files change")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m, err := loadConfig()
	if err != nil {
		return err
	}
	defer m.Close()

	cfg := m.Get()
	current, err := app.New(ctx, cfg)
	if err != nil {
		return err
	}

	backend := gateway.NewBackend(current.Dispatcher, backendOptions(cfg.Server)...)
	server := gateway.NewServer(backend, cfg.Server.Path)

	var mu sync.Mutex
	defer func() {
		mu.Lock()
		defer mu.Unlock()
		current.Close()
	}()

	if serveWatch {
		m.OnChange(func(next *config.Config) {
			rebuilt, err := app.New(ctx, next)
			if err != nil {
				slog.Error("config reload rejected", "error", err)
				return
			}
			mu.Lock()
			defer mu.Unlock()
			backend.Reconfigure(backendOptions(next.Server)...)
			backend.Swap(rebuilt.Dispatcher)
			current.Close()
			current = rebuilt
			warnRestartRequired(cfg.Server, next.Server)
			slog.Info("dispatcher reloaded",
				"debug_errors", next.Server.DebugErrors, "timeout", next.Server.Timeout)
		})
		if err := m.Watch(config.DefaultDebounce); err != nil {
			return err
		}
	}

	addr := cfg.Server.Addr
	if serveAddr != "" {
		addr = serveAddr
	}

	errCh := make(chan error, 1)
	go func() { errCh <- server.Start(addr) }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}

func backendOptions(s config.ServerConfig) []gateway.Option {
	return []gateway.Option{
		gateway.WithDebugErrors(s.DebugErrors),
		gateway.WithTimeout(s.Timeout),
	}
}

// warnRestartRequired logs listener settings that a reload cannot change.
func warnRestartRequired(running, next config.ServerConfig) {
	if next.Path != running.Path {
		slog.Warn("server.path changed; restart to apply", "running", running.Path, "configured", next.Path)
	}
	if next.Addr != running.Addr {
		slog.Warn("server.addr changed; restart to apply", "running", running.Addr, "configured", next.Addr)
	}
}
