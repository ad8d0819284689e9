package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vikashloomba/mcp-code-execution-go/pkg/mcpexec"
)

var callCmd = &cobra.Command{
	Use:   "call <server__tool> [json-arguments]",
	Short: "Invoke one tool by qualified identifier",
	Args:  cobra.RangeArgs(1, 2),
	RunE:  runCall,
}

func runCall(cmd *cobra.Command, args []string) error {
	toolID := args[0]
	callArgs := map[string]any{}
	if len(args) == 2 {
		if err := json.Unmarshal([]byte(args[1]), &callArgs); err != nil {
			return fmt.Errorf("arguments must be a JSON object: %w", err)
		}
	}

	cfg, opts, err := loadSetup()
	if err != nil {
		return err
	}

	code := mcpexec.Run(cmd.Context(), cfg, opts, func(ctx context.Context, rt *mcpexec.Runtime) error {
		raw, err := rt.Invoke(ctx, toolID, callArgs)
		if err != nil {
			return err
		}
		server, _, err := mcpexec.ParseToolID(toolID)
		if err != nil {
			return err
		}
		out, err := json.MarshalIndent(rt.Normalize(server, raw), "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	})
	if code != mcpexec.ExitSuccess {
		return &exitCodeError{code: code}
	}
	return nil
}
