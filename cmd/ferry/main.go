package main

import (
	"bufio"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"ferry/internal/engine"
	"ferry/internal/logging"
)

var (
	flagSpec        string
	flagEvents      string
	flagLogLevel    string
	flagJSONLog     bool
	flagForce       bool
	flagMetricsPort int
)

var rootCmd = &cobra.Command{
	Use:   "ferry",
	Short: "ferry migrates content between origin and destination repositories",
	PersistentPreRun: func(*cobra.Command, []string) {
		logging.InitFromEnv()
		if flagLogLevel != "" || flagJSONLog {
			logging.Configure(logging.Options{Level: flagLogLevel, JSON: flagJSONLog})
		}
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate <workflow> [ref]",
	Short: "Run one migration workflow",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		ref := ""
		if len(args) == 2 {
			ref = args[1]
		}
		cfg := engine.Config{
			SpecPath:     flagSpec,
			Workflow:     args[0],
			Ref:          ref,
			MetricsPort:  flagMetricsPort,
			EventsConfig: flagEvents,
			Confirm:      promptConfirm,
		}
		if flagForce {
			cfg.Confirm = func(string) bool { return true }
		}

		e, err := engine.Bootstrap(ctx, cfg)
		if err != nil {
			return err
		}
		return e.Run(ctx)
	},
}

func promptConfirm(prompt string) bool {
	fmt.Fprintf(os.Stderr, "%s [y/N] ", prompt)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}

func init() {
	migrateCmd.Flags().StringVar(&flagSpec, "spec", "ferry.yml", "workflow spec file")
	migrateCmd.Flags().StringVar(&flagEvents, "events", "", "events config file")
	migrateCmd.Flags().IntVar(&flagMetricsPort, "metrics-port", 0, "expose Prometheus metrics on this port")
	migrateCmd.Flags().BoolVar(&flagForce, "force", false, "answer yes to confirmation prompts")
	migrateCmd.Flags().StringVar(&flagLogLevel, "log-level", "", "debug|info|warn|error")
	migrateCmd.Flags().BoolVar(&flagJSONLog, "json-log", false, "log JSON to stderr")
	rootCmd.AddCommand(migrateCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
