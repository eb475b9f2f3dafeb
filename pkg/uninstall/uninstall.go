// Package uninstall removes packages by running the package manager.
package uninstall

import (
	"context"
	"io"
	"os"
	"os/exec"

	"github.com/matzehuels/autoremove/pkg/errors"
)

// Executor removes installed packages by name.
type Executor interface {
	Uninstall(ctx context.Context, names []string) error
}

// Pip uninstalls through "python -m pip uninstall -y", so the packages are
// removed from the environment of that interpreter.
type Pip struct {
	Python string    // Interpreter (python3 if empty)
	Stdout io.Writer // pip's standard output (os.Stdout if nil)
	Stderr io.Writer // pip's standard error (os.Stderr if nil)
}

// Command returns the command that would uninstall names. Every name is
// validated first so that nothing reaches pip as a flag.
func (p *Pip) Command(ctx context.Context, names []string) (*exec.Cmd, error) {
	for _, n := range names {
		if err := errors.ValidatePythonPackageName(n); err != nil {
			return nil, err
		}
	}

	python := p.Python
	if python == "" {
		python = "python3"
	}
	args := append([]string{"-m", "pip", "uninstall", "-y"}, names...)
	cmd := exec.CommandContext(ctx, python, args...)
	cmd.Stdout = orDefault(p.Stdout, os.Stdout)
	cmd.Stderr = orDefault(p.Stderr, os.Stderr)
	return cmd, nil
}

// Uninstall removes names in a single pip invocation. Removing nothing is
// a no-op.
func (p *Pip) Uninstall(ctx context.Context, names []string) error {
	if len(names) == 0 {
		return nil
	}
	cmd, err := p.Command(ctx, names)
	if err != nil {
		return err
	}
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return errors.Wrap(errors.ErrCodeUninstallFailed, err, "pip uninstall %d packages", len(names))
	}
	return nil
}

func orDefault(w, def io.Writer) io.Writer {
	if w == nil {
		return def
	}
	return w
}
