package main

import (
	"fmt"

	"github.com/Cyclone1070/mentat/internal/config"
	"github.com/spf13/cobra"
)

func (a *app) newConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or create the settings file",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "check",
		Short: "Load and validate settings, printing a redacted summary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := a.loadSettings()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), s.String())
			return nil
		},
	})

	var path string
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a settings template",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			written, err := config.WriteTemplate(a.deps.TemplateFS, path)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s; set env.api_key and env.base_url before running\n", written)
			return nil
		},
	}
	initCmd.Flags().StringVar(&path, "path", config.ProjectSettingsPath, "where to write the template")
	cmd.AddCommand(initCmd)

	return cmd
}
