package scaffold

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// NamePlaceholder is replaced by the project name in generator arguments.
const NamePlaceholder = "{name}"

// Generator creates a buildable project skeleton named name inside parentDir.
// Implementations must leave the skeleton at parentDir/name.
type Generator interface {
	GenerateSkeleton(ctx context.Context, name, parentDir string) error
}

// CommandGenerator shells out to a project generator such as `cargo new`.
type CommandGenerator struct {
	Command string
	Args    []string
}

// NewCargoGenerator returns the default `cargo new --bin <name>` generator.
func NewCargoGenerator() *CommandGenerator {
	return &CommandGenerator{
		Command: "cargo",
		Args:    []string{"new", "--bin", NamePlaceholder},
	}
}

// GenerateSkeleton runs the command with parentDir as its working directory.
// There is no timeout; a hung generator stalls until ctx is cancelled.
func (g *CommandGenerator) GenerateSkeleton(ctx context.Context, name, parentDir string) error {
	if strings.TrimSpace(g.Command) == "" {
		return &GeneratorError{Name: name, Err: errors.New("generator command is empty")}
	}
	args := make([]string, len(g.Args))
	for i, arg := range g.Args {
		args[i] = strings.ReplaceAll(arg, NamePlaceholder, name)
	}
	cmd := exec.CommandContext(ctx, g.Command, args...)
	cmd.Dir = parentDir
	var output bytes.Buffer
	cmd.Stdout = &output
	cmd.Stderr = &output
	if err := cmd.Run(); err != nil {
		return &GeneratorError{
			Name:    name,
			Command: strings.TrimSpace(g.Command + " " + strings.Join(args, " ")),
			Output:  strings.TrimSpace(output.String()),
			Err:     err,
		}
	}
	return nil
}

// GeneratorError reports a generator that failed to start or exited non-zero.
type GeneratorError struct {
	Name    string
	Command string
	Output  string
	Err     error
}

func (e *GeneratorError) Error() string {
	msg := fmt.Sprintf("scaffold: generate %s", e.Name)
	if e.Command != "" {
		msg += fmt.Sprintf(" (%s)", e.Command)
	}
	msg += fmt.Sprintf(": %v", e.Err)
	if e.Output != "" {
		msg += "\n" + e.Output
	}
	return msg
}

func (e *GeneratorError) Unwrap() []error {
	return []error{ErrGenerator, e.Err}
}
