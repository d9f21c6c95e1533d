package launcher

import (
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"os/signal"
	"syscall"
	"time"

	"github.com/Cyclone1070/mentat/internal/installer"
	"github.com/siderolabs/go-retry/retry"
	"github.com/sirupsen/logrus"
)

// Options configures a Launcher. Zero values fall back to the process defaults.
type Options struct {
	WaitTimeout  time.Duration // Default: 30s
	PollInterval time.Duration // Default: 250ms

	// Env is the full child environment; nil inherits the parent's.
	Env []string

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// Launcher runs an installed artifact as a child process.
type Launcher struct {
	opts Options
	log  logrus.FieldLogger

	stat   func(name string) (os.FileInfo, error)
	notify func(c chan<- os.Signal, sig ...os.Signal)
	stop   func(c chan<- os.Signal)
}

// New creates a Launcher bound to the process's standard streams unless overridden.
func New(opts Options, log logrus.FieldLogger) *Launcher {
	if opts.WaitTimeout <= 0 {
		opts.WaitTimeout = 30 * time.Second
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = 250 * time.Millisecond
	}
	if opts.Stdin == nil {
		opts.Stdin = os.Stdin
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	return &Launcher{
		opts:   opts,
		log:    log,
		stat:   os.Stat,
		notify: signal.Notify,
		stop:   signal.Stop,
	}
}

// WaitForBinary polls until path exists or the wait timeout passes.
// A timeout is logged as a warning and reported as false; it is not an error
// since the binary may still be runnable.
func (l *Launcher) WaitForBinary(ctx context.Context, path string) bool {
	err := retry.Constant(l.opts.WaitTimeout, retry.WithUnits(l.opts.PollInterval)).
		RetryWithContext(ctx, func(ctx context.Context) error {
			if _, err := l.stat(path); err != nil {
				return retry.ExpectedError(err)
			}
			return nil
		})
	if err != nil {
		l.log.WithField("path", path).WithField("timeout", l.opts.WaitTimeout).
			Warn("binary did not appear in time, continuing")
		return false
	}
	return true
}

// Run executes the artifact with args and waits for it to exit.
// The child's standard streams are the launcher's; its exit status is returned
// as-is. A non-nil error means the child never ran and the code is 1.
// While the child runs SIGINT is ignored here so the child decides how to react.
func (l *Launcher) Run(ctx context.Context, art *installer.InstalledArtifact, args []string) (int, error) {
	if art == nil || art.Path == "" {
		return 1, &BinaryNotFoundError{}
	}
	info, err := l.stat(art.Path)
	if err != nil || info.IsDir() {
		return 1, &BinaryNotFoundError{Path: art.Path}
	}
	if !art.Verified {
		l.log.WithField("path", art.Path).Warn("launching unverified binary")
	}

	cmd := exec.CommandContext(ctx, art.Path, args...)
	cmd.Env = l.opts.Env
	cmd.Stdin = l.opts.Stdin
	cmd.Stdout = l.opts.Stdout
	cmd.Stderr = l.opts.Stderr

	sigs := make(chan os.Signal, 1)
	l.notify(sigs, os.Interrupt)
	defer func() {
		l.stop(sigs)
		close(sigs)
	}()
	go func() {
		for range sigs {
			l.log.Debug("interrupt left to child")
		}
	}()

	if err := cmd.Start(); err != nil {
		return 1, &SpawnError{Path: art.Path, Cause: err}
	}
	l.log.WithField("pid", cmd.Process.Pid).Debug("child started")

	err = cmd.Wait()
	code, ok := exitCode(err)
	if !ok {
		return 1, err
	}
	l.log.WithField("code", code).Debug("child exited")
	return code, nil
}

// exitCode extracts the child's status from a Wait error.
// A child killed by a signal reports 128+signal, as shells do.
func exitCode(err error) (int, bool) {
	if err == nil {
		return 0, true
	}
	type exitCoder interface {
		ExitCode() int
	}
	var ec exitCoder
	if !errors.As(err, &ec) {
		return 0, false
	}
	if code := ec.ExitCode(); code >= 0 {
		return code, true
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if ws, ok := exitErr.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
			return 128 + int(ws.Signal()), true
		}
	}
	return 1, true
}
