package uninstall

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/autoremove/pkg/errors"
)

func TestPip_Command(t *testing.T) {
	p := &Pip{Python: "/usr/bin/python3.12"}
	cmd, err := p.Command(context.Background(), []string{"Flask", "Jinja2"})
	if err != nil {
		t.Fatalf("Command() error: %v", err)
	}
	want := []string{"/usr/bin/python3.12", "-m", "pip", "uninstall", "-y", "Flask", "Jinja2"}
	if diff := cmp.Diff(want, cmd.Args); diff != "" {
		t.Errorf("Args mismatch (-want +got):\n%s", diff)
	}
}

func TestPip_CommandRejectsFlags(t *testing.T) {
	for _, name := range []string{"--all", "-r", "", "../etc"} {
		t.Run(name, func(t *testing.T) {
			_, err := (&Pip{}).Command(context.Background(), []string{"ok", name})
			if !errors.Is(err, errors.ErrCodeInvalidPackage) {
				t.Errorf("Command(%q) error = %v, want INVALID_PACKAGE", name, err)
			}
		})
	}
}

func TestPip_UninstallNothing(t *testing.T) {
	p := &Pip{Python: "definitely-not-a-python"}
	if err := p.Uninstall(context.Background(), nil); err != nil {
		t.Errorf("Uninstall(nil) error = %v, want nil", err)
	}
}

func TestPip_UninstallFailure(t *testing.T) {
	p := &Pip{Python: "definitely-not-a-python"}
	err := p.Uninstall(context.Background(), []string{"flask"})
	if !errors.Is(err, errors.ErrCodeUninstallFailed) {
		t.Errorf("Uninstall() error = %v, want UNINSTALL_FAILED", err)
	}
}
