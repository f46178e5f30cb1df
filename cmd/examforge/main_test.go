package main

import (
	"bytes"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kingrea/examforge/internal/config"
)

func setupProject(t *testing.T) (projectDir, libDir string) {
	t.Helper()
	t.Setenv(config.LibraryEnv, "")
	root := t.TempDir()
	projectDir = filepath.Join(root, "project")
	libDir = filepath.Join(root, "lib")
	for _, dir := range []string{"algo/1/sort", "algo/3/graph", "rush/1/echo"} {
		if err := os.MkdirAll(filepath.Join(libDir, dir), 0o755); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.WriteFile(filepath.Join(libDir, "algo", "3", "graph", "lib.rs"), []byte("pub fn bfs() {}\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfgDir := filepath.Join(projectDir, config.Dir)
	if err := os.MkdirAll(cfgDir, 0o755); err != nil {
		t.Fatal(err)
	}
	body := `version: 1
generator:
  command: sh
  args: [-c, 'mkdir -p "$1/src" && echo "[package]" > "$1/Cargo.toml"', sh, "{name}"]
`
	if err := os.WriteFile(filepath.Join(cfgDir, "config.yaml"), []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return projectDir, libDir
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestAssembleWithPreselectedExam(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	projectDir, _ := setupProject(t)
	out, err := execute(t, "--project", projectDir, "--exam", "algo", "--yes", "--seed", "7")
	if err != nil {
		t.Fatalf("execute: %v\n%s", err, out)
	}
	for _, want := range []string{"Creating algo ...", "Level 1: ✓ sort", "Level 2: ✓ graph", "Exam structure created successfully!"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
	graph := filepath.Join(projectDir, "exercice", "algo", "2", "graph")
	if _, err := os.Stat(filepath.Join(graph, "Cargo.toml")); err != nil {
		t.Fatalf("graph project not scaffolded: %v", err)
	}
	if _, err := os.Stat(filepath.Join(graph, "src", "lib.rs")); err != nil {
		t.Fatalf("lib.rs not materialized: %v", err)
	}
	if _, err := os.Stat(filepath.Join(projectDir, config.Dir, "logs", "assembly.log")); err != nil {
		t.Fatalf("logbook not written: %v", err)
	}
}

func TestAssembleUnknownExam(t *testing.T) {
	projectDir, _ := setupProject(t)
	_, err := execute(t, "--project", projectDir, "--exam", "ghost", "--yes")
	if err == nil || !strings.Contains(err.Error(), "ghost") {
		t.Fatalf("expected unknown exam error, got %v", err)
	}
}

func TestAssembleMissingLibrary(t *testing.T) {
	projectDir, _ := setupProject(t)
	_, err := execute(t, "--project", projectDir, "--library", "nowhere", "--exam", "algo", "--yes")
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Fatalf("expected discovery error, got %v", err)
	}
}

func TestListCommand(t *testing.T) {
	projectDir, libDir := setupProject(t)
	out, err := execute(t, "list", "--project", projectDir, "--library", libDir)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	for _, want := range []string{"algo", "rush", "1 [1] sort", "2 [3] graph"} {
		if !strings.Contains(out, want) {
			t.Fatalf("list output missing %q:\n%s", want, out)
		}
	}
}

func TestLogCommandShowsRecentRuns(t *testing.T) {
	projectDir, _ := setupProject(t)
	out, err := execute(t, "log", "--project", projectDir)
	if err != nil {
		t.Fatalf("log: %v", err)
	}
	if !strings.Contains(out, "No runs recorded yet.") {
		t.Fatalf("fresh project should have an empty log:\n%s", out)
	}

	if _, err := execute(t, "--project", projectDir, "--exam", "ghost", "--yes"); err == nil {
		t.Fatalf("expected unknown exam error")
	}
	out, err = execute(t, "log", "--project", projectDir, "-n", "2")
	if err != nil {
		t.Fatalf("log: %v", err)
	}
	if !strings.Contains(out, "(last 2 of") || !strings.Contains(out, "Run failed") {
		t.Fatalf("log should show the failed run:\n%s", out)
	}
	if _, err := execute(t, "log", "--project", projectDir, "-n", "0"); err == nil {
		t.Fatalf("expected error for non-positive --lines")
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if strings.TrimSpace(out) != "examforge dev" {
		t.Fatalf("version output = %q", out)
	}
}

func TestTemplatesFromConfig(t *testing.T) {
	got := templatesFromConfig([]config.TemplateRef{{Name: "main.rs", Source: true}, {Name: "README.md"}})
	if len(got) != 2 || got[0].Name != "main.rs" || !got[0].InSource || got[1].InSource {
		t.Fatalf("unexpected templates: %+v", got)
	}
}
