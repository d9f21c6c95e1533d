// Package main is the mentat command: it installs the verified assistant binary,
// launches it with settings from the settings file, and exposes the workspace
// file tools for scripting.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/Cyclone1070/mentat/internal/config"
	"github.com/Cyclone1070/mentat/internal/installer"
	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"
)

// cliError carries the process exit code for an error.
// A nil err means the code is reported without a message.
type cliError struct {
	code int
	err  error
}

func (e cliError) Error() string {
	if e.err == nil {
		return fmt.Sprintf("exit status %d", e.code)
	}
	return e.err.Error()
}

func (e cliError) Unwrap() error { return e.err }

// Dependencies holds the process facing collaborators so commands can run in tests.
type Dependencies struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	Getwd   func() (string, error)
	Environ func() []string

	Loader     *config.Loader
	TemplateFS config.TemplateFS
	NewFetcher func(cfg *config.Bootstrap, s *config.Settings) (installer.Fetcher, error)

	GOOS   string
	GOARCH string
}

func defaultDependencies() Dependencies {
	return Dependencies{
		Stdin:      os.Stdin,
		Stdout:     os.Stdout,
		Stderr:     os.Stderr,
		Getwd:      os.Getwd,
		Environ:    os.Environ,
		Loader:     config.NewLoader(),
		TemplateFS: config.ConfigFileReader{},
		NewFetcher: func(cfg *config.Bootstrap, s *config.Settings) (installer.Fetcher, error) {
			return installer.NewHTTPFetcher(cfg.DownloadTimeout, s.Env.HTTPSProxy)
		},
		GOOS:   runtime.GOOS,
		GOARCH: runtime.GOARCH,
	}
}

func main() {
	os.Exit(execute(context.Background(), os.Args[1:], defaultDependencies()))
}

// execute runs the command line and returns the process exit code.
func execute(ctx context.Context, args []string, deps Dependencies) int {
	app := &app{deps: deps, log: logrus.New()}
	root := app.newRootCommand()
	root.SetArgs(args)
	root.SetIn(deps.Stdin)
	root.SetOut(deps.Stdout)
	root.SetErr(deps.Stderr)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return 0
	}

	code := 1
	var ce cliError
	if errors.As(err, &ce) {
		code = ce.code
		err = ce.err
	}
	if err != nil {
		renderError(deps.Stderr, err)
	}
	return code
}

var errorLabel = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))

func renderError(w io.Writer, err error) {
	fmt.Fprintf(w, "%s %v\n", errorLabel.Render("error:"), err)
}
