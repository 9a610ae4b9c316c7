package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/eyemotion/internal/platform/tui"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagIdleTimeout int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the eyemotion SSH server",
	Long: `Start an SSH server that lets users connect and train remotely.

Each SSH connection gets its own session with a stage picker menu and its
own simulation. Training stats are stored per SSH user in the server's
database.

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.eyemotion/host_key

Examples:
  eyemotion serve                           # Listen on :23234 with auto-generated key
  eyemotion serve --ssh :2222               # Listen on port 2222
  eyemotion serve --host-key ./my_host_key  # Use specific host key
  eyemotion serve --db ./training.db        # Use specific database

Users can connect with:
  ssh localhost -p 23234`,
	Args: cobra.NoArgs,
	Run:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", ":23234", "SSH server address (host:port)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", 30, "Idle timeout in minutes before disconnecting")
}

func runServe(cmd *cobra.Command, _ []string) {
	settings := loadSettings(cmd)
	if changed(cmd, "ssh") {
		settings.SSH.Address = flagSSHAddr
	}
	if changed(cmd, "host-key") {
		settings.SSH.HostKeyPath = flagHostKey
	}
	if changed(cmd, "idle-timeout") {
		settings.SSH.IdleTimeout = time.Duration(flagIdleTimeout) * time.Minute
	}

	server, err := tui.NewSSHServer(settings, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating server: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Starting eyemotion SSH server on %s\n", server.Addr())
	fmt.Println("Connect with: ssh localhost -p 23234")
	fmt.Println("Press Ctrl+C to stop")

	if err := server.ListenAndServe(); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}
