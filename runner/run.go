package runner

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"os/signal"
	"syscall"

	"github.com/ardnew/wrapsetup/log"
	"github.com/ardnew/wrapsetup/script"
)

// relayed are the signals forwarded to the child while it runs.
var relayed = []os.Signal{os.Interrupt, syscall.SIGTERM}

// Run executes the patched unit with the given interpreter and waits for it
// to finish. It returns nil if the script exits successfully and an
// [*ExitError] carrying the script's status otherwise; errors of the script
// itself are never translated. Cancelling ctx interrupts the child.
func Run(
	ctx context.Context,
	interpreter string,
	unit *script.Unit,
	rc Context,
) error {
	boot, err := Bootstrap(rc.Bindings)
	if err != nil {
		return err
	}

	args := append([]string{"-c", boot, unit.Filename}, rc.Args...)

	r, w, err := os.Pipe()
	if err != nil {
		return ErrStart.Wrap(err).With(slog.String("interpreter", interpreter))
	}

	defer r.Close()

	cmd := exec.CommandContext(ctx, interpreter, args...)
	cmd.ExtraFiles = []*os.File{r}
	cmd.Cancel = func() error { return cmd.Process.Signal(os.Interrupt) }
	cmd.Env = rc.Env
	cmd.Dir = rc.Dir
	cmd.Stdin = rc.Stdin
	cmd.Stdout = rc.Stdout
	cmd.Stderr = rc.Stderr

	logger := log.With(
		slog.String("interpreter", interpreter),
		slog.String("script", unit.Filename),
	)

	logger.DebugContext(ctx, "run", slog.Any("args", rc.Args))

	if err := cmd.Start(); err != nil {
		w.Close()

		return ErrStart.Wrap(err).With(slog.String("interpreter", interpreter))
	}

	// The child holds its own copy of the read end.
	r.Close()

	written := feed(w, unit.Source)

	stop := relay(logger, cmd.Process)
	err = cmd.Wait()

	stop()

	if werr := <-written; werr != nil {
		logger.DebugContext(ctx, "source not fully read", slog.String("error", werr.Error()))
	}

	err = exitStatus(err)
	if err != nil {
		logger.DebugContext(ctx, "exit", slog.Any("status", err))
	}

	return err
}

// feed writes source to w and closes it. The write runs concurrently with
// the child because the source may exceed the pipe's buffer. A child that
// exits before reading everything leaves an error on the returned channel.
func feed(w *os.File, source string) <-chan error {
	done := make(chan error, 1)

	go func() {
		_, err := io.WriteString(w, source)
		if cerr := w.Close(); err == nil {
			err = cerr
		}

		done <- err
	}()

	return done
}

// relay forwards interrupt and terminate signals to p until the returned
// function is called.
func relay(logger log.Logger, p *os.Process) (stop func()) {
	ch := make(chan os.Signal, 1)
	done := make(chan struct{})

	signal.Notify(ch, relayed...)

	go func() {
		for {
			select {
			case sig := <-ch:
				logger.Debug("relay signal", slog.String("signal", sig.String()))

				_ = p.Signal(sig)
			case <-done:
				return
			}
		}
	}()

	return func() {
		signal.Stop(ch)
		close(done)
	}
}

// exitStatus converts the result of waiting for the child.
func exitStatus(err error) error {
	if err == nil {
		return nil
	}

	var ee *exec.ExitError
	if !errors.As(err, &ee) {
		return err
	}

	if ws, ok := ee.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
		return &ExitError{
			Code:   128 + int(ws.Signal()),
			Signal: ws.Signal().String(),
		}
	}

	if code := ee.ExitCode(); code > 0 {
		return &ExitError{Code: code}
	}

	return &ExitError{Code: 1}
}
