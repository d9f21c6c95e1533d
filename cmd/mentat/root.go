package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/Cyclone1070/mentat/internal/config"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

type app struct {
	deps Dependencies
	log  *logrus.Logger

	configPath string
	logLevel   string
	debug      bool

	bootstrap *config.Bootstrap
	tools     *config.ToolsConfig
}

func (a *app) newRootCommand() *cobra.Command {
	a.bootstrap = config.DefaultBootstrap()
	a.bootstrap.InstallDir = defaultInstallDir()
	a.tools = config.DefaultTools()

	root := &cobra.Command{
		Use:   "mentat [flags] [-- args...]",
		Short: "Install, verify and launch the mentat assistant",
		Long: "mentat downloads the assistant binary for this platform, verifies it against\n" +
			"the checksum manifest, and runs it with the credentials from settings.json.\n" +
			"Arguments after -- are passed to the assistant unchanged.",
		Args:              cobra.ArbitraryArgs,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setupLogging,
		RunE:              a.runLaunch,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "settings file (default: search .mentat/settings.json, then user locations)")
	pf.StringVar(&a.logLevel, "log-level", "warning", "log level: debug, info, warning, error")
	pf.BoolVar(&a.debug, "debug", false, "shorthand for --log-level=debug")

	addBootstrapFlags(root.Flags(), a.bootstrap)

	root.AddCommand(a.newRunCommand())
	root.AddCommand(a.newInstallCommand())
	root.AddCommand(a.newConfigCommand())
	root.AddCommand(a.newToolCommand())
	return root
}

func addBootstrapFlags(fs *pflag.FlagSet, b *config.Bootstrap) {
	fs.StringVar(&b.ArtifactName, "name", b.ArtifactName, "release artifact name")
	fs.StringVar(&b.Version, "release", b.Version, "release version to install")
	fs.StringVar(&b.ReleaseHost, "release-host", b.ReleaseHost, "release host URL")
	fs.StringVar(&b.Repo, "repo", b.Repo, "release repository (owner/name)")
	fs.StringVar(&b.InstallDir, "install-dir", b.InstallDir, "directory holding installed artifacts")
	fs.StringVar(&b.ManifestPath, "manifest", b.ManifestPath, "checksum manifest (default: <install-dir>/"+config.ManifestFile+")")
	fs.BoolVar(&b.RequireChecksum, "require-checksum", b.RequireChecksum, "fail when the manifest has no checksum for the artifact")
	fs.DurationVar(&b.DownloadTimeout, "download-timeout", b.DownloadTimeout, "timeout for the artifact download")
	fs.DurationVar(&b.WaitTimeout, "wait-timeout", b.WaitTimeout, "how long to wait for the installed binary to appear")
	fs.DurationVar(&b.PollInterval, "poll-interval", b.PollInterval, "poll interval while waiting for the binary")
}

func defaultInstallDir() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, config.ConfigDir, "bin")
}

func (a *app) setupLogging(cmd *cobra.Command, _ []string) error {
	level, err := logrus.ParseLevel(a.logLevel)
	if err != nil {
		return fmt.Errorf("invalid --log-level: %w", err)
	}
	if a.debug {
		level = logrus.DebugLevel
	}
	a.log.SetOutput(a.deps.Stderr)
	a.log.SetLevel(level)
	a.log.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: true,
	})
	return nil
}

func (a *app) loadSettings() (*config.Settings, error) {
	if a.configPath != "" {
		return a.deps.Loader.LoadFrom(a.configPath)
	}
	return a.deps.Loader.Load()
}
