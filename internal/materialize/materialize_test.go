package materialize

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}

func scaffoldProject(t *testing.T) string {
	t.Helper()
	dest := filepath.Join(t.TempDir(), "queens")
	writeFile(t, filepath.Join(dest, "Cargo.toml"), "[package]\nname = \"queens\"\n")
	writeFile(t, filepath.Join(dest, "src", "main.rs"), "fn main() { println!(\"Hello, world!\"); }\n")
	return dest
}

func TestMaterializeAllTemplates(t *testing.T) {
	src := t.TempDir()
	writeFile(t, filepath.Join(src, "main.rs"), "fn main() { queens(); }\n")
	writeFile(t, filepath.Join(src, "lib.rs"), "pub struct Queen;\n")
	writeFile(t, filepath.Join(src, "README.md"), "# Queens\n")
	writeFile(t, filepath.Join(src, "Cargo.toml"), "[package]\nname = \"queens\"\nedition = \"2024\"\n")
	dest := scaffoldProject(t)

	copied, err := New(nil).Materialize(src, dest)
	if err != nil {
		t.Fatalf("materialize: %v", err)
	}
	if want := []string{"main.rs", "lib.rs", "README.md", "Cargo.toml"}; !reflect.DeepEqual(copied, want) {
		t.Fatalf("copied = %v, want %v", copied, want)
	}
	if got := readFile(t, filepath.Join(dest, "src", "main.rs")); got != "fn main() { queens(); }\n" {
		t.Fatalf("main.rs not overwritten: %q", got)
	}
	if got := readFile(t, filepath.Join(dest, "src", "lib.rs")); got != "pub struct Queen;\n" {
		t.Fatalf("lib.rs = %q", got)
	}
	if got := readFile(t, filepath.Join(dest, "README.md")); got != "# Queens\n" {
		t.Fatalf("README.md = %q", got)
	}
	if got := readFile(t, filepath.Join(dest, "Cargo.toml")); got != "[package]\nname = \"queens\"\nedition = \"2024\"\n" {
		t.Fatalf("Cargo.toml not overwritten: %q", got)
	}
}

func TestMaterializeLibOnly(t *testing.T) {
	src := t.TempDir()
	writeFile(t, filepath.Join(src, "lib.rs"), "pub fn solve() {}\n")
	dest := filepath.Join(t.TempDir(), "queens")
	if err := os.MkdirAll(filepath.Join(dest, "src"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	copied, err := New(nil).Materialize(src, dest)
	if err != nil {
		t.Fatalf("lib-only exercise should not error: %v", err)
	}
	if !reflect.DeepEqual(copied, []string{"lib.rs"}) {
		t.Fatalf("copied = %v, want [lib.rs]", copied)
	}
	if _, err := os.Stat(filepath.Join(dest, "src", "main.rs")); !os.IsNotExist(err) {
		t.Fatalf("main.rs should not exist, stat err = %v", err)
	}
	if _, err := os.Stat(filepath.Join(dest, "src", "lib.rs")); err != nil {
		t.Fatalf("lib.rs missing: %v", err)
	}
}

func TestMaterializeNoTemplates(t *testing.T) {
	dest := scaffoldProject(t)
	copied, err := New(nil).Materialize(t.TempDir(), dest)
	if err != nil {
		t.Fatalf("materialize: %v", err)
	}
	if len(copied) != 0 {
		t.Fatalf("copied = %v, want none", copied)
	}
}

func TestMaterializeCustomTemplates(t *testing.T) {
	src := t.TempDir()
	writeFile(t, filepath.Join(src, "solution.py"), "pass\n")
	writeFile(t, filepath.Join(src, "main.rs"), "ignored\n")
	dest := t.TempDir()
	m := New([]Template{{Name: "solution.py", InSource: true}})
	copied, err := m.Materialize(src, dest)
	if err != nil {
		t.Fatalf("materialize: %v", err)
	}
	if !reflect.DeepEqual(copied, []string{"solution.py"}) {
		t.Fatalf("copied = %v", copied)
	}
	if _, err := os.Stat(filepath.Join(dest, "src", "solution.py")); err != nil {
		t.Fatalf("solution.py missing: %v", err)
	}
}

func TestMaterializeCopyFailureNamesFile(t *testing.T) {
	src := t.TempDir()
	// A symlink pointing at itself fails to stat with ELOOP, even for root.
	if err := os.Symlink("README.md", filepath.Join(src, "README.md")); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	_, err := New(nil).Materialize(src, t.TempDir())
	if !errors.Is(err, ErrCopy) {
		t.Fatalf("expected ErrCopy, got %v", err)
	}
	var copyErr *CopyError
	if !errors.As(err, &copyErr) || copyErr.File != "README.md" {
		t.Fatalf("expected CopyError for README.md, got %v", err)
	}
}

func TestMaterializeDestinationUnwritable(t *testing.T) {
	src := t.TempDir()
	writeFile(t, filepath.Join(src, "lib.rs"), "pub fn x() {}\n")
	dest := t.TempDir()
	// A file where the source folder should be blocks the copy.
	writeFile(t, filepath.Join(dest, "src"), "not a dir")

	_, err := New(nil).Materialize(src, dest)
	var copyErr *CopyError
	if !errors.As(err, &copyErr) || copyErr.File != "lib.rs" {
		t.Fatalf("expected CopyError for lib.rs, got %v", err)
	}
}

func TestNewCopiesTemplates(t *testing.T) {
	src := t.TempDir()
	writeFile(t, filepath.Join(src, "a"), "a\n")
	writeFile(t, filepath.Join(src, "b"), "b\n")
	tpls := []Template{{Name: "a"}}
	m := New(tpls)
	tpls[0].Name = "b"
	copied, err := m.Materialize(src, t.TempDir())
	if err != nil {
		t.Fatalf("materialize: %v", err)
	}
	if !reflect.DeepEqual(copied, []string{"a"}) {
		t.Fatalf("materializer shares caller slice: copied %v", copied)
	}
}
