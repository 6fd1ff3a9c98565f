// Command tidyflowd is the workspace host daemon: it owns the state
// document, the terminal registry, and the Git/filesystem adapters, and
// serves them to a single local client over a loopback WebSocket (spec.md
// §4.L). Grounded on the teacher's cmd/wtd/main.go (cobra root + signal
// context + graceful http.Server shutdown).
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/gitbobobo/tidyflow/internal/config"
	"github.com/gitbobobo/tidyflow/internal/fsadapter"
	"github.com/gitbobobo/tidyflow/internal/gitcli"
	"github.com/gitbobobo/tidyflow/internal/handlercontext"
	"github.com/gitbobobo/tidyflow/internal/integration"
	"github.com/gitbobobo/tidyflow/internal/logger"
	"github.com/gitbobobo/tidyflow/internal/server"
	"github.com/gitbobobo/tidyflow/internal/state"
	"github.com/gitbobobo/tidyflow/internal/terminal"
)

func main() {
	var port int
	var home string

	root := &cobra.Command{
		Use:   "tidyflowd",
		Short: "tidyflow workspace host daemon",
		RunE: func(cmd *cobra.Command, args []string) error {
			dataDir := home
			if dataDir == "" {
				d, err := config.DataDir()
				if err != nil {
					return fmt.Errorf("resolve data dir: %w", err)
				}
				dataDir = d
			}
			if err := config.EnsureDataDirs(dataDir); err != nil {
				return fmt.Errorf("prepare data dir: %w", err)
			}

			cfg, err := config.Load(config.ConfigFilePath(dataDir))
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if cmd.Flags().Changed("port") {
				cfg.Port = port
			}

			if err := logger.Init(cfg.LogLevel, config.LogsDir(dataDir)); err != nil {
				return fmt.Errorf("init logger: %w", err)
			}

			store, err := state.Load(config.StateFilePath(dataDir))
			if err != nil {
				return fmt.Errorf("load state: %w", err)
			}
			saver := state.StartSaver(store, config.StateFilePath(dataDir), time.Duration(cfg.SaveDebounceMillis)*time.Millisecond)

			shared := &handlercontext.Shared{
				Store:       store,
				Saver:       saver,
				Registry:    terminal.NewRegistry(cfg.ScrollbackCapacityBytes),
				Integration: integration.NewManager(dataDir),
				Git:         gitcli.New(),
				Files:       fsadapter.New(),
				DataDir:     dataDir,
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			addr := fmt.Sprintf("127.0.0.1:%d", cfg.Port)
			srv := &server.Server{Shared: shared}
			logger.Info("tidyflowd starting", "addr", addr, "data_dir", dataDir)
			return srv.Start(ctx, addr)
		},
	}

	root.Flags().IntVar(&port, "port", config.Default().Port, "listen port (127.0.0.1 only)")
	root.Flags().StringVar(&home, "home", "", "data directory (defaults to TIDYFLOW_HOME or ~/.tidyflow)")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
