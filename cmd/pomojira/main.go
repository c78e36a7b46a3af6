package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/five82/pomojira/internal/app"
)

var (
	configPath string
	prefsPath  string
	logLevel   string
	withProxy  bool
)

var rootCmd = &cobra.Command{
	Use:   "pomojira",
	Short: "Pomodoro timer that logs work to Jira",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTUI(cmd.Context())
	},
}

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Run the terminal timer (default)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTUI(cmd.Context())
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the Jira proxy",
	RunE: func(cmd *cobra.Command, args []string) error {
		return app.Serve(cmd.Context(), options())
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file path (default ~/.config/pomojira/config.toml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")

	for _, cmd := range []*cobra.Command{rootCmd, tuiCmd} {
		cmd.Flags().StringVar(&prefsPath, "prefs", "", "prefs file path (default ~/.config/pomojira/prefs.toml)")
		cmd.Flags().BoolVar(&withProxy, "with-proxy", false, "run the proxy in-process")
	}

	rootCmd.SilenceUsage = true
	rootCmd.SilenceErrors = true
	rootCmd.AddCommand(tuiCmd, serveCmd)
}

func options() app.Options {
	return app.Options{
		ConfigPath: configPath,
		PrefsPath:  prefsPath,
		LogLevel:   logLevel,
		WithProxy:  withProxy,
	}
}

func runTUI(ctx context.Context) error {
	return app.Run(ctx, options())
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "pomojira: %v\n", err)
		cancel()
		os.Exit(1)
	}
}
