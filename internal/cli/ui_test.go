package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/matzehuels/autoremove/pkg/catalog"
)

func TestPrintPackageTable(t *testing.T) {
	var buf bytes.Buffer
	printPackageTable(&buf, []catalog.Package{
		{Name: "flask", DisplayName: "Flask", Version: "3.0.0", Location: "/site"},
		{Name: "pip", Version: "24.0", Location: "/site"},
	})

	out := buf.String()
	for _, want := range []string{"Package", "Flask", "3.0.0", "pip", "/site", "2 packages"} {
		if !strings.Contains(out, want) {
			t.Errorf("table output missing %q:\n%s", want, out)
		}
	}
}

func TestPrintStats(t *testing.T) {
	tests := []struct {
		name     string
		dead     int
		wantDead bool
	}{
		{name: "no plan", dead: 0, wantDead: false},
		{name: "with plan", dead: 3, wantDead: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			printStats(&buf, 9, 6, tt.dead)
			out := buf.String()
			if !strings.Contains(out, "9 packages") || !strings.Contains(out, "6 requirements") {
				t.Errorf("printStats() = %q", out)
			}
			if got := strings.Contains(out, "removable"); got != tt.wantDead {
				t.Errorf("printStats() mentions removable = %v, want %v", got, tt.wantDead)
			}
		})
	}
}

func TestIsTerminal(t *testing.T) {
	if isTerminal(&bytes.Buffer{}) {
		t.Error("isTerminal(buffer) = true, want false")
	}
}
