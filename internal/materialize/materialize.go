// internal/materialize/materialize.go
//
// Materializing overlays an exercise's template files onto a freshly
// scaffolded project. Every template is optional; an exercise may ship only
// lib.rs and no entry point. Source templates land in the project's source
// folder, everything else at the project root, replacing scaffold defaults.

package materialize

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/kingrea/examforge/internal/scaffold"
)

// ErrCopy marks a template that exists but could not be copied.
var ErrCopy = errors.New("template copy failed")

// Template is one recognized file name inside an exercise folder.
type Template struct {
	Name     string `yaml:"name"`
	InSource bool   `yaml:"source,omitempty"`
}

// DefaultTemplates is the recognized file set for Rust exercises.
func DefaultTemplates() []Template {
	return []Template{
		{Name: "main.rs", InSource: true},
		{Name: "lib.rs", InSource: true},
		{Name: "README.md"},
		{Name: "Cargo.toml"},
	}
}

// CopyError names the template file that failed to copy.
type CopyError struct {
	File string
	Err  error
}

func (e *CopyError) Error() string {
	return fmt.Sprintf("materialize: copy %s: %v", e.File, e.Err)
}

func (e *CopyError) Unwrap() []error {
	return []error{ErrCopy, e.Err}
}

// Materializer copies recognized templates into scaffolded projects.
type Materializer struct {
	templates []Template
}

// New creates a materializer for the given templates. A nil slice selects
// DefaultTemplates.
func New(templates []Template) *Materializer {
	if templates == nil {
		templates = DefaultTemplates()
	}
	return &Materializer{templates: append([]Template(nil), templates...)}
}

// Materialize copies each template present in exerciseSourcePath into
// destinationProjectPath and returns the names that were copied.
func (m *Materializer) Materialize(exerciseSourcePath, destinationProjectPath string) ([]string, error) {
	var copied []string
	for _, tpl := range m.templates {
		src := filepath.Join(exerciseSourcePath, tpl.Name)
		info, err := os.Stat(src)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return copied, &CopyError{File: tpl.Name, Err: err}
		}
		if info.IsDir() {
			continue
		}
		dst := filepath.Join(destinationProjectPath, tpl.Name)
		if tpl.InSource {
			dst = filepath.Join(destinationProjectPath, scaffold.SourceDir, tpl.Name)
		}
		if err := copyFile(src, dst, info.Mode().Perm()); err != nil {
			return copied, &CopyError{File: tpl.Name, Err: err}
		}
		copied = append(copied, tpl.Name)
	}
	return copied, nil
}

func copyFile(src, dst string, perm fs.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, perm)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
