package descriptor

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSaveLoadRoundtrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, DefaultName)

	want := Default()
	if err := Save(path, want); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Nixpkgs.Ref != want.Nixpkgs.Ref {
		t.Fatalf("ref = %q, want %q", got.Nixpkgs.Ref, want.Nixpkgs.Ref)
	}
	if len(got.Tools) != len(want.Tools) {
		t.Fatalf("tools = %d, want %d", len(got.Tools), len(want.Tools))
	}
	if got.Env[0].Name != "GOROOT" || got.Env[0].Tool != "go" {
		t.Fatalf("env binding = %+v", got.Env[0])
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, DefaultName)
	raw := `{"nixpkgs":{"ref":"github:NixOS/nixpkgs"},"tools":[{"name":"go"}],"toolz":[]}`
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for unknown key, got nil")
	}
}

func TestFindWalksUp(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b", "c")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(root, DefaultName)
	if err := Save(path, Default()); err != nil {
		t.Fatal(err)
	}

	got, err := Find(nested)
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if got != path {
		t.Fatalf("Find = %q, want %q", got, path)
	}
}

func TestFindNotFound(t *testing.T) {
	_, err := Find(t.TempDir())
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestFindStopsAtRepoBoundary(t *testing.T) {
	root := t.TempDir()
	if err := Save(filepath.Join(root, DefaultName), Default()); err != nil {
		t.Fatal(err)
	}
	repo := filepath.Join(root, "repo")
	if err := os.MkdirAll(filepath.Join(repo, ".git"), 0o755); err != nil {
		t.Fatal(err)
	}
	nested := filepath.Join(repo, "pkg")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	if _, err := Find(nested); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound: the ancestor descriptor is outside the repo", err)
	}
}

func TestValidate(t *testing.T) {
	known := func(name string) bool { return name == "go" || name == "gopls" }

	d := Descriptor{
		Nixpkgs: Pin{Ref: "github:NixOS/nixpkgs"},
		Tools:   []Tool{{Name: "go"}, {Name: "go"}, {Name: "mystery"}},
		Env: []Binding{
			{Name: "GOROOT", Tool: "go"},
			{Name: "EXTRA", Tool: "absent"},
		},
	}
	problems := d.Validate(known)
	if len(problems) != 3 {
		t.Fatalf("problems = %v, want 3 entries", problems)
	}
	joined := strings.Join(problems, "\n")
	for _, want := range []string{"declared more than once", "no catalog entry", "undeclared tool"} {
		if !strings.Contains(joined, want) {
			t.Fatalf("problems missing %q:\n%s", want, joined)
		}
	}

	if problems := Default().Validate(nil); len(problems) != 0 {
		t.Fatalf("default descriptor invalid: %v", problems)
	}
}

func TestValidateEmpty(t *testing.T) {
	problems := Descriptor{}.Validate(nil)
	joined := strings.Join(problems, "\n")
	if !strings.Contains(joined, "ref is empty") || !strings.Contains(joined, "tools list is empty") {
		t.Fatalf("problems = %v", problems)
	}
}

func TestFingerprintStableUnderOrder(t *testing.T) {
	a := Descriptor{
		Nixpkgs: Pin{Ref: "github:NixOS/nixpkgs", Commit: "abc123"},
		Tools:   []Tool{{Name: "go"}, {Name: "gopls"}},
	}
	b := Descriptor{
		Nixpkgs: Pin{Ref: "github:NixOS/nixpkgs", Commit: "abc123"},
		Tools:   []Tool{{Name: "gopls"}, {Name: "go"}},
	}
	if a.Fingerprint() != b.Fingerprint() {
		t.Fatal("fingerprint should not depend on tool order")
	}

	c := a
	c.Nixpkgs.Commit = "def456"
	if a.Fingerprint() == c.Fingerprint() {
		t.Fatal("fingerprint should change with the pin")
	}
}

func TestInstallable(t *testing.T) {
	p := Pin{Ref: "github:NixOS/nixpkgs", Commit: "abc123"}
	if got := p.Installable("gopls"); got != "github:NixOS/nixpkgs/abc123#gopls" {
		t.Fatalf("Installable = %q", got)
	}
	p.Commit = ""
	if got := p.Installable("go"); got != "github:NixOS/nixpkgs#go" {
		t.Fatalf("Installable = %q", got)
	}
}

func TestSchemaMarshals(t *testing.T) {
	b, err := MarshalSchema(Schema())
	if err != nil {
		t.Fatalf("MarshalSchema: %v", err)
	}
	for _, want := range []string{"nixpkgs", "tools", "snekctl dev shell descriptor"} {
		if !strings.Contains(string(b), want) {
			t.Fatalf("schema missing %q", want)
		}
	}
}
