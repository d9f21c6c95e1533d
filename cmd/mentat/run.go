package main

import (
	"fmt"

	"github.com/Cyclone1070/mentat/internal/config"
	"github.com/Cyclone1070/mentat/internal/installer"
	"github.com/Cyclone1070/mentat/internal/launcher"
	"github.com/spf13/cobra"
)

func (a *app) newRunCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [flags] [-- args...]",
		Short: "Install the assistant if needed and launch it",
		Args:  cobra.ArbitraryArgs,
		RunE:  a.runLaunch,
	}
	addBootstrapFlags(cmd.Flags(), a.bootstrap)
	return cmd
}

func (a *app) newInstallCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "install",
		Short: "Download and verify the assistant without launching it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			settings, err := a.loadSettings()
			if err != nil {
				return err
			}
			art, err := a.install(cmd, settings)
			if err != nil {
				return err
			}
			state := "verified"
			if !art.Verified {
				state = "unverified"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (%s, %s)\n", art.Path, art.Platform, state)
			return nil
		},
	}
	addBootstrapFlags(cmd.Flags(), a.bootstrap)
	return cmd
}

// runLaunch is the default action: settings, install, wait, launch.
// The child's exit code becomes the process exit code.
func (a *app) runLaunch(cmd *cobra.Command, args []string) error {
	settings, err := a.loadSettings()
	if err != nil {
		return err
	}

	art, err := a.install(cmd, settings)
	if err != nil {
		return err
	}

	l := launcher.New(launcher.Options{
		WaitTimeout:  a.bootstrap.WaitTimeout,
		PollInterval: a.bootstrap.PollInterval,
		Env:          launcher.ChildEnv(a.deps.Environ(), *settings),
		Stdin:        cmd.InOrStdin(),
		Stdout:       cmd.OutOrStdout(),
		Stderr:       cmd.ErrOrStderr(),
	}, a.log)

	ctx := cmd.Context()
	l.WaitForBinary(ctx, art.Path)

	code, err := l.Run(ctx, art, args)
	if err != nil {
		return err
	}
	if code != 0 {
		return cliError{code: code}
	}
	return nil
}

func (a *app) install(cmd *cobra.Command, settings *config.Settings) (*installer.InstalledArtifact, error) {
	b := a.bootstrap
	if err := b.Validate(); err != nil {
		return nil, err
	}

	manifest, err := installer.LoadManifest(b.Manifest())
	if err != nil {
		return nil, err
	}
	if manifest == nil {
		a.log.WithField("manifest", b.Manifest()).Debug("no checksum manifest")
	}

	fetcher, err := a.deps.NewFetcher(b, settings)
	if err != nil {
		return nil, err
	}

	inst := installer.New(installer.Options{
		Dir:             b.InstallDir,
		Locator:         installer.Locator{Host: b.ReleaseHost, Repo: b.Repo},
		RequireChecksum: b.RequireChecksum,
		GOOS:            a.deps.GOOS,
		GOARCH:          a.deps.GOARCH,
	}, fetcher, a.log)

	return inst.Install(cmd.Context(), b.ArtifactName, b.Version, manifest)
}
