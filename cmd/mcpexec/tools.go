package main

import (
	"context"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/vikashloomba/mcp-code-execution-go/pkg/mcpexec"
	"github.com/vikashloomba/mcp-code-execution-go/pkg/wrappergen"
)

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "List the tools of every enabled server",
	Args:  cobra.NoArgs,
	RunE:  runTools,
}

func runTools(cmd *cobra.Command, _ []string) error {
	cfg, opts, err := loadSetup()
	if err != nil {
		return err
	}

	code := mcpexec.Run(cmd.Context(), cfg, opts, func(ctx context.Context, rt *mcpexec.Runtime) error {
		all := rt.ListAllTools(ctx)
		servers := make([]string, 0, len(all))
		for name := range all {
			servers = append(servers, name)
		}
		sort.Strings(servers)

		for _, server := range servers {
			fmt.Printf("%s:\n", server)
			for _, tool := range all[server] {
				if tool == nil {
					continue
				}
				fmt.Printf("  %-40s [%s] %s\n",
					mcpexec.ToolID(server, tool.Name),
					wrappergen.Classify(tool),
					tool.Description)
			}
		}
		return nil
	})
	if code != mcpexec.ExitSuccess {
		return &exitCodeError{code: code}
	}
	return nil
}
