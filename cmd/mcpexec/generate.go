package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vikashloomba/mcp-code-execution-go/pkg/mcpexec"
	"github.com/vikashloomba/mcp-code-execution-go/pkg/wrappergen"
)

var flagGenerateOut string

var generateCmd = &cobra.Command{
	Use:   "generate [servers...]",
	Short: "Generate typed Go wrappers for server tools",
	Long: `Generate connects to the named servers (or every enabled server) and
renders one typed Go wrapper per tool under the output directory. Files
carrying the generated marker are refreshed; hand-authored files are left
untouched.`,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().StringVarP(&flagGenerateOut, "out", "o", "servers", "output directory for generated packages")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, opts, err := loadSetup()
	if err != nil {
		return err
	}

	code := mcpexec.Run(cmd.Context(), cfg, opts, func(ctx context.Context, rt *mcpexec.Runtime) error {
		all, err := wrappergen.Synthesize(ctx, rt, args, flagGenerateOut)
		for server, specs := range all {
			skipped := 0
			for _, s := range specs {
				if s.Skipped {
					skipped++
				}
				for _, d := range s.Diagnostics {
					fmt.Printf("note: %s: %s: %s\n", s.ToolID, d.Path, d.Reason)
				}
			}
			fmt.Printf("%s: %d wrappers", server, len(specs))
			if skipped > 0 {
				fmt.Printf(" (%d hand-authored files preserved)", skipped)
			}
			fmt.Println()
		}
		return err
	})
	if code != mcpexec.ExitSuccess {
		return &exitCodeError{code: code}
	}
	return nil
}
