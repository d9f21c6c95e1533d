package main

import (
	"encoding/json"
	"fmt"

	"github.com/Cyclone1070/mentat/internal/tool/file"
	"github.com/spf13/cobra"
)

func (a *app) newToolCommand() *cobra.Command {
	var maxFileSize int64
	cmd := &cobra.Command{
		Use:   "tool [name] [json-args]",
		Short: "Run a workspace file tool rooted at the current directory",
		Long: "With no arguments, prints the tool declarations as JSON.\n" +
			"Otherwise runs the named tool with a JSON object of arguments.",
		Args: cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a.tools.MaxFileSize = maxFileSize
			if err := a.tools.Validate(); err != nil {
				return err
			}

			wd, err := a.deps.Getwd()
			if err != nil {
				return err
			}
			reg, err := file.NewWorkspaceRegistry(wd, a.tools)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(args) == 0 {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(reg.Declarations())
			}

			toolArgs := map[string]any{}
			if len(args) == 2 {
				if err := json.Unmarshal([]byte(args[1]), &toolArgs); err != nil {
					return fmt.Errorf("tool arguments must be a JSON object: %w", err)
				}
			}

			result, err := reg.Execute(cmd.Context(), args[0], toolArgs)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, result)
			return nil
		},
	}
	cmd.Flags().Int64Var(&maxFileSize, "max-file-size", a.tools.MaxFileSize, "largest file the tools will read or write, in bytes")
	return cmd
}
