package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/eyemotion/internal/bridge"
	"github.com/vovakirdan/eyemotion/internal/config"
)

var (
	flagBridgeAddr string
	flagStreamHz   int
	flagDebug      bool
)

var bridgeCmd = &cobra.Command{
	Use:   "bridge",
	Short: "Serve the simulation to a UI shell",
	Long: `Run one simulation and expose it over HTTP and a WebSocket, for a
graphical shell that draws the ball itself.

Endpoints (under /api/v1):
  GET  /health     - Liveness and connected clients
  GET  /state      - Current state
  POST /command    - {"type": "start|toggle_pause|reset|resize|next_stage|
                      prev_stage|go_to_stage|tick", "w", "h", "stage", "dt"}
  GET  /stages     - Stage table
  GET  /theme      - Theme colors
  GET  /language   - Current and supported languages
  PUT  /language   - {"language": "zh-Hans"}, saved to the config file
  GET  /ws         - WebSocket: receives {"type":"update","data":{state,update}},
                     sends {"type":"command","data":{...}}

With --stream-hz 0 the server does not tick on its own; the shell sends
"tick" commands with its measured frame time instead.

Examples:
  eyemotion bridge
  eyemotion bridge --addr :8765
  eyemotion bridge --stream-hz 0`,
	Args: cobra.NoArgs,
	Run:  runBridge,
}

func init() {
	bridgeCmd.Flags().StringVar(&flagBridgeAddr, "addr", "127.0.0.1:8765", "HTTP listen address (host:port)")
	bridgeCmd.Flags().IntVar(&flagStreamHz, "stream-hz", 60, "Server tick rate, 0 to let the shell drive ticks")
	bridgeCmd.Flags().BoolVar(&flagDebug, "debug", false, "Log every request")
}

func runBridge(cmd *cobra.Command, _ []string) {
	settings := loadSettings(cmd)
	if changed(cmd, "addr") {
		settings.Bridge.Address = flagBridgeAddr
	}
	if changed(cmd, "stream-hz") {
		settings.Bridge.StreamHz = flagStreamHz
		if err := settings.Validate(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		}
	}

	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "eyemotion-bridge",
	})
	if flagDebug {
		logger.SetLevel(log.DebugLevel)
	}

	gin.SetMode(gin.ReleaseMode)
	server := bridge.New(bridge.Options{
		Settings: settings,
		Logger:   logger,
		Seed:     flagSeed,
		SaveSettings: func(s config.Settings) error {
			return saveLanguage(s.Language)
		},
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Printf("Starting eyemotion bridge on http://%s/api/v1\n", settings.Bridge.Address)
	fmt.Println("Press Ctrl+C to stop")

	if err := server.Run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}
