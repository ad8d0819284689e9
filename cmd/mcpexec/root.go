package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vikashloomba/mcp-code-execution-go/pkg/fieldnorm"
	"github.com/vikashloomba/mcp-code-execution-go/pkg/mcpexec"
)

const version = "0.1.0"

var (
	flagConfig        string
	flagNormalization string
	flagTimeout       time.Duration
	flagVerbose       bool
)

var rootCmd = &cobra.Command{
	Use:           "mcpexec",
	Short:         "mcpexec — call MCP server tools and generate typed Go wrappers",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// exitCodeError carries a harness exit code through cobra without printing a
// second error message; the harness already logged the failure.
type exitCodeError struct {
	code int
}

func (e *exitCodeError) Error() string {
	return fmt.Sprintf("exit code %d", e.code)
}

// Execute runs the root command and exits with the harness code on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		var ec *exitCodeError
		if errors.As(err, &ec) {
			os.Exit(ec.code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Version = version
	rootCmd.PersistentFlags().StringVarP(&flagConfig, "config", "c", "mcp-servers.json", "path to the MCP server config file")
	rootCmd.PersistentFlags().StringVar(&flagNormalization, "normalization", "normalization.yaml", "path to the normalization binding file")
	rootCmd.PersistentFlags().DurationVar(&flagTimeout, "timeout", 30*time.Second, "per-server connect timeout")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(toolsCmd)
	rootCmd.AddCommand(callCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(discoverCmd)
}

// loadSetup reads the server config and assembles harness options shared by
// every subcommand.
func loadSetup() (*mcpexec.Config, *mcpexec.Options, error) {
	cfg, err := mcpexec.LoadConfig(flagConfig)
	if err != nil {
		return nil, nil, err
	}

	level := slog.LevelInfo
	if flagVerbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	norms := fieldnorm.NewRegistry()
	if err := norms.LoadBindings(flagNormalization); err != nil {
		return nil, nil, err
	}

	return cfg, &mcpexec.Options{
		ClientName:     "mcpexec",
		ClientVersion:  version,
		ConnectTimeout: flagTimeout,
		Logger:         logger,
		Normalizers:    norms,
	}, nil
}
