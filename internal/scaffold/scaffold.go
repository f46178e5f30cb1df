// internal/scaffold/scaffold.go
//
// Scaffolding creates an empty buildable project for one exercise. The
// external generator runs inside a throwaway directory next to the final
// destination, then the result is renamed into place. Keeping the temp dir
// on the same filesystem as the destination lets the move be a plain rename.

package scaffold

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// SourceDir is the source folder every generated skeleton contains.
const SourceDir = "src"

var (
	// ErrGenerator marks failures of the external generator.
	ErrGenerator = errors.New("project generator failed")
	// ErrRelocation marks failures moving the generated skeleton into place.
	ErrRelocation = errors.New("project relocation failed")
)

// RelocationError reports a skeleton that could not be moved to its destination.
type RelocationError struct {
	From string
	To   string
	Err  error
}

func (e *RelocationError) Error() string {
	return fmt.Sprintf("scaffold: move %s to %s: %v", e.From, e.To, e.Err)
}

func (e *RelocationError) Unwrap() []error {
	return []error{ErrRelocation, e.Err}
}

// Scaffolder runs a Generator and relocates its output.
type Scaffolder struct {
	gen Generator
}

// New creates a scaffolder around gen.
func New(gen Generator) *Scaffolder {
	return &Scaffolder{gen: gen}
}

// Scaffold creates the skeleton for exerciseName at destinationPath. The
// destination must not exist yet.
func (s *Scaffolder) Scaffold(ctx context.Context, destinationPath, exerciseName string) error {
	if s == nil || s.gen == nil {
		return &GeneratorError{Name: exerciseName, Err: errors.New("no generator configured")}
	}
	parent := filepath.Dir(destinationPath)
	if err := os.MkdirAll(parent, 0o755); err != nil {
		return &RelocationError{From: exerciseName, To: destinationPath, Err: err}
	}
	tmpDir, err := os.MkdirTemp(parent, ".scaffold-*")
	if err != nil {
		return &RelocationError{From: exerciseName, To: destinationPath, Err: err}
	}
	defer os.RemoveAll(tmpDir)

	if err := s.gen.GenerateSkeleton(ctx, exerciseName, tmpDir); err != nil {
		var genErr *GeneratorError
		if errors.As(err, &genErr) {
			return err
		}
		return &GeneratorError{Name: exerciseName, Err: err}
	}

	generated := filepath.Join(tmpDir, exerciseName)
	if err := os.Rename(generated, destinationPath); err != nil {
		return &RelocationError{From: generated, To: destinationPath, Err: err}
	}
	return nil
}
