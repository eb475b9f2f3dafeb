package snapshot

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/autoremove/pkg/catalog"
	"github.com/matzehuels/autoremove/pkg/errors"
)

const flaskSnapshot = `
[[package]]
name = "Flask"
version = "3.0.0"
location = "/site"
requires = ["Werkzeug>=3.0", "Jinja2>=3.1.2", "itsdangerous>=2.1.2", "click>=8.1.3"]

[[package]]
name = "Jinja2"
version = "3.1.2"
requires = ["MarkupSafe>=2.0"]

[[package]]
name = "jsonschema"
version = "4.17.3"
extras = ["format"]
requires = ["webcolors; extra == \"format\""]
`

func TestScan_TOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "env.toml")
	if err := os.WriteFile(path, []byte(flaskSnapshot), 0o644); err != nil {
		t.Fatal(err)
	}

	pkgs, err := New(path).Scan(context.Background())
	if err != nil {
		t.Fatalf("Scan() error: %v", err)
	}
	if len(pkgs) != 3 {
		t.Fatalf("Scan() returned %d packages, want 3", len(pkgs))
	}
	if got := len(pkgs[0].Requirements); got != 4 {
		t.Errorf("Flask requirements = %d, want 4", got)
	}
	js := pkgs[2]
	if diff := cmp.Diff([]string{"format"}, js.Extras); diff != "" {
		t.Errorf("Extras mismatch (-want +got):\n%s", diff)
	}
	if js.Requirements[0].ConditionExtra != "format" {
		t.Errorf("ConditionExtra = %q, want format", js.Requirements[0].ConditionExtra)
	}
}

func TestRoundTrip(t *testing.T) {
	pkgs := []catalog.Package{
		{
			Name:         "markupsafe",
			DisplayName:  "MarkupSafe",
			Version:      "2.1.3",
			Location:     "/site",
			Requirements: []catalog.Requirement{},
		},
		{
			Name:        "jinja2",
			DisplayName: "Jinja2",
			Version:     "3.1.2",
			Location:    "/site",
			Extras:      []string{"i18n"},
			Requirements: []catalog.Requirement{
				{Name: "markupsafe", Raw: "MarkupSafe>=2.0"},
				{Name: "babel", ConditionExtra: "i18n", Raw: `Babel>=2.7; extra == "i18n"`},
			},
		},
	}

	for _, ext := range []string{".toml", ".json"} {
		t.Run(ext, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "env"+ext)
			if err := FromPackages(pkgs).Save(path); err != nil {
				t.Fatalf("Save() error: %v", err)
			}
			f, err := Load(path)
			if err != nil {
				t.Fatalf("Load() error: %v", err)
			}
			got := f.Catalog(func(string, ...any) {})
			if len(got) != 2 {
				t.Fatalf("Catalog() returned %d packages, want 2", len(got))
			}
			if got[1].Label() != "Jinja2" || len(got[1].Requirements) != 2 {
				t.Errorf("jinja2 = %+v", got[1])
			}
			if got[1].Requirements[1].Name != "babel" || got[1].Requirements[1].ConditionExtra != "i18n" {
				t.Errorf("babel requirement = %+v", got[1].Requirements[1])
			}
		})
	}
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()
	if _, err := Load(filepath.Join(dir, "missing.toml")); !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("Load(missing) error = %v, want FILE_NOT_FOUND", err)
	}

	bad := filepath.Join(dir, "bad.toml")
	if err := os.WriteFile(bad, []byte("[[package]\nname ="), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(bad); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("Load(bad) error = %v, want INVALID_INPUT", err)
	}
}
