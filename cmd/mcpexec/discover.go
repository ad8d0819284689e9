package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vikashloomba/mcp-code-execution-go/pkg/mcpexec"
	"github.com/vikashloomba/mcp-code-execution-go/pkg/wrappergen"
)

var flagDiscoverOut string

var discoverCmd = &cobra.Command{
	Use:   "discover [servers...]",
	Short: "Emit a discovery configuration for server tools",
	Long: `Discover classifies every tool as SAFE, DANGEROUS, or UNKNOWN and, for
safe tools, derives a minimal parameter set from the input schema. The
resulting configuration can drive automated probing of a new server.`,
	RunE: runDiscover,
}

func init() {
	discoverCmd.Flags().StringVarP(&flagDiscoverOut, "out", "o", "", "write the configuration to a file instead of stdout")
}

func runDiscover(cmd *cobra.Command, args []string) error {
	cfg, opts, err := loadSetup()
	if err != nil {
		return err
	}

	code := mcpexec.Run(cmd.Context(), cfg, opts, func(ctx context.Context, rt *mcpexec.Runtime) error {
		servers := args
		if len(servers) == 0 {
			servers = rt.Config().EnabledServerNames()
		}

		config := make(map[string][]wrappergen.DiscoveryEntry, len(servers))
		for _, server := range servers {
			catalog, err := rt.Manager().EnsureConnected(ctx, server)
			if err != nil {
				return err
			}
			config[server] = wrappergen.DiscoveryConfig(server, catalog)
		}

		out, err := json.MarshalIndent(config, "", "  ")
		if err != nil {
			return err
		}
		if flagDiscoverOut == "" {
			fmt.Println(string(out))
			return nil
		}
		return os.WriteFile(flagDiscoverOut, append(out, '\n'), 0o644)
	})
	if code != mcpexec.ExitSuccess {
		return &exitCodeError{code: code}
	}
	return nil
}
