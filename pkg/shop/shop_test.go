package shop

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/usawrapco/wrapdoc/pkg/errors"
)

func TestDefault(t *testing.T) {
	p, err := Default()
	if err != nil {
		t.Fatalf("Default() error: %v", err)
	}
	if p.Name != "USA Wrap Co" {
		t.Errorf("Name = %q, want %q", p.Name, "USA Wrap Co")
	}
	if got := len(p.Checklists.Pre); got != 5 {
		t.Errorf("len(Checklists.Pre) = %d, want 5", got)
	}
	if got := len(p.Checklists.Post); got != 6 {
		t.Errorf("len(Checklists.Post) = %d, want 6", got)
	}
	if got := len(p.Process); got != 5 {
		t.Errorf("len(Process) = %d, want 5", got)
	}
	if l, r := len(p.TermColumn(0)), len(p.TermColumn(1)); l != 3 || r != 3 {
		t.Errorf("term columns = %d/%d, want 3/3", l, r)
	}
}

func TestLookupMaterial(t *testing.T) {
	p, err := Default()
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		in       string
		wantName string
		wantOK   bool
	}{
		{"Avery MPI 1105 EZ-RS", "Avery Dennison MPI 1105 EZ-RS Supreme Wrapping Film", true},
		{"avery dol 1060 gloss", "Avery Dennison DOL 1060 High-Gloss Overlaminate", true},
		{"3M 2080", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			m, ok := p.LookupMaterial(tt.in)
			if ok != tt.wantOK || m.Name != tt.wantName {
				t.Errorf("LookupMaterial(%q) = %q, %v, want %q, %v", tt.in, m.Name, ok, tt.wantName, tt.wantOK)
			}
		})
	}
}

func TestChecklistDefaults(t *testing.T) {
	p, err := Default()
	if err != nil {
		t.Fatal(err)
	}
	own := []string{"Remove ladder rack"}
	if diff := cmp.Diff(own, p.PreChecks(own)); diff != "" {
		t.Errorf("PreChecks(own) mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(p.Checklists.Post, p.PostChecks(nil)); diff != "" {
		t.Errorf("PostChecks(nil) mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shop.toml")
	body := `
name = "Tacoma Wrap Works"
reviews = 42

[checklists]
pre = ["Check roll"]
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	p, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if p.Name != "Tacoma Wrap Works" || p.Reviews != 42 {
		t.Errorf("overlay = %q/%d, want Tacoma Wrap Works/42", p.Name, p.Reviews)
	}
	if p.Phone != "(253) 853-0900" {
		t.Errorf("Phone = %q, want the built-in value", p.Phone)
	}
	if len(p.Checklists.Pre) != 1 {
		t.Errorf("Checklists.Pre = %v, want the overlay list", p.Checklists.Pre)
	}

	def, _ := Default()
	if def.Name != "USA Wrap Co" {
		t.Errorf("Load() modified the built-in profile")
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	write := func(name, body string) string {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
		return path
	}

	tests := []struct {
		name string
		path string
		want errors.Code
	}{
		{"missing", filepath.Join(dir, "nope.toml"), errors.ErrCodeFileNotFound},
		{"unknown key", write("typo.toml", `phnoe = "555"`), errors.ErrCodeInvalidConfig},
		{"bad syntax", write("bad.toml", `name = `), errors.ErrCodeInvalidConfig},
		{"blank name", write("blank.toml", `name = ""`), errors.ErrCodeInvalidConfig},
		{"bad email", write("email.toml", `email = "not-an-email"`), errors.ErrCodeInvalidConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(tt.path)
			if !errors.Is(err, tt.want) {
				t.Errorf("Load() error = %v, want %s", err, tt.want)
			}
		})
	}
}
