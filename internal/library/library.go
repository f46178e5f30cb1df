// internal/library/library.go
//
// The library is the read-only content tree exams are drawn from:
//
//	<root>/<exam>/<level>/<exercise>/{main.rs, lib.rs, README.md, Cargo.toml}
//
// Only directories count at every layer. Level folders are ordered by their
// numeric value and renumbered densely from 1, so a library with levels
// "2" and "5" produces output levels 1 and 2.

package library

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

var (
	// ErrDiscovery is the class of every library discovery failure.
	ErrDiscovery = errors.New("library discovery failed")
	// ErrNotFound is returned when the library root (or an exam folder) is
	// missing or unreadable.
	ErrNotFound = fmt.Errorf("%w: not found", ErrDiscovery)
	// ErrEmptyLibrary is returned when the library root holds no exams.
	ErrEmptyLibrary = fmt.Errorf("%w: no exams found", ErrDiscovery)
)

// Level is one difficulty folder of an exam.
type Level struct {
	// Ordinal is the 1-based output level number: the position of the folder
	// in sorted order, not its literal name.
	Ordinal int
	Name    string
	Path    string
}

// Exercise is one candidate folder inside a level.
type Exercise struct {
	Name string
	Path string
}

// Index reads the library tree rooted at an absolute path.
type Index struct {
	root string
}

// NewIndex creates an index over the given library root.
func NewIndex(root string) *Index {
	return &Index{root: filepath.Clean(root)}
}

// Root returns the library root directory.
func (x *Index) Root() string {
	return x.root
}

// ExamPath returns the source folder for an exam.
func (x *Index) ExamPath(exam string) string {
	return filepath.Join(x.root, exam)
}

// ListExams returns the exam names found at the library root, sorted by name.
func (x *Index) ListExams() ([]string, error) {
	entries, err := readDirs(x.root)
	if err != nil {
		return nil, fmt.Errorf("library: read %s: %w", x.root, err)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("library: %s: %w", x.root, ErrEmptyLibrary)
	}
	sort.Strings(entries)
	return entries, nil
}

// ListLevels returns the levels of an exam in output order with dense
// ordinals assigned.
func (x *Index) ListLevels(exam string) ([]Level, error) {
	examPath := x.ExamPath(exam)
	names, err := readDirs(examPath)
	if err != nil {
		return nil, fmt.Errorf("library: read exam %s: %w", exam, err)
	}
	SortLevelNames(names)
	levels := make([]Level, len(names))
	for i, name := range names {
		levels[i] = Level{
			Ordinal: i + 1,
			Name:    name,
			Path:    filepath.Join(examPath, name),
		}
	}
	return levels, nil
}

// ListExercises returns the exercise folders of a level sorted by name. An
// empty level yields an empty slice and no error.
func (x *Index) ListExercises(levelPath string) ([]Exercise, error) {
	names, err := readDirs(levelPath)
	if err != nil {
		return nil, fmt.Errorf("library: read level %s: %w", levelPath, err)
	}
	sort.Strings(names)
	exercises := make([]Exercise, len(names))
	for i, name := range names {
		exercises[i] = Exercise{Name: name, Path: filepath.Join(levelPath, name)}
	}
	return exercises, nil
}

// SortLevelNames orders level folder names by numeric value. Names that are
// not numbers sort after every numeric one; ties break by name. Numbers are
// compared as digit strings so arbitrarily long names keep their order.
func SortLevelNames(names []string) {
	sort.SliceStable(names, func(i, j int) bool {
		return levelLess(names[i], names[j])
	})
}

func levelLess(a, b string) bool {
	da, numA := levelDigits(a)
	db, numB := levelDigits(b)
	switch {
	case numA && !numB:
		return true
	case !numA && numB:
		return false
	case numA && numB:
		if len(da) != len(db) {
			return len(da) < len(db)
		}
		if da != db {
			return da < db
		}
	}
	return a < b
}

// levelDigits reports whether name is a decimal number and returns its
// digits without leading zeros.
func levelDigits(name string) (string, bool) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "", false
	}
	for _, r := range trimmed {
		if r < '0' || r > '9' {
			return "", false
		}
	}
	digits := strings.TrimLeft(trimmed, "0")
	if digits == "" {
		digits = "0"
	}
	return digits, true
}

// readDirs lists the visible subdirectories of dir. Files and dot-folders are
// skipped. A missing or unreadable dir maps to ErrNotFound.
func readDirs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotFound, err)
	}
	var names []string
	for _, entry := range entries {
		if !isDir(dir, entry) {
			continue
		}
		if strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		names = append(names, entry.Name())
	}
	return names, nil
}

// isDir follows symlinks so linked exercise folders still count.
func isDir(parent string, entry fs.DirEntry) bool {
	if entry.IsDir() {
		return true
	}
	if entry.Type()&fs.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(filepath.Join(parent, entry.Name()))
	return err == nil && info.IsDir()
}
