// internal/assembly/assembly.go
//
// The assembler drives one exam assembly run:
//
//	Idle → LibraryDiscovered → ExamChosen → [OverwriteConfirmed | Aborted]
//	     → PerLevel(i) × N → Done
//
// Everything runs sequentially on the calling goroutine. The only waits are
// operator prompts and the project generator. Any scaffold or copy failure
// ends the run; levels already written stay on disk.

package assembly

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/google/uuid"
	"github.com/kingrea/examforge/internal/library"
	"github.com/kingrea/examforge/internal/logbook"
	"github.com/kingrea/examforge/internal/selector"
)

var (
	// ErrCleanup marks a failure removing a previous exam folder.
	ErrCleanup = errors.New("exam cleanup failed")
	// ErrCancelled is returned by prompters when the operator backs out.
	ErrCancelled = errors.New("cancelled by operator")
	// ErrUnknownExam is returned when a preselected exam is not in the library.
	ErrUnknownExam = errors.New("exam not found in library")
)

// CleanupError reports an exam folder that could not be removed.
type CleanupError struct {
	Path string
	Err  error
}

func (e *CleanupError) Error() string {
	return fmt.Sprintf("assembly: remove %s: %v", e.Path, e.Err)
}

func (e *CleanupError) Unwrap() []error {
	return []error{ErrCleanup, e.Err}
}

// Library is the read side of the content library.
type Library interface {
	ListExams() ([]string, error)
	ListLevels(exam string) ([]library.Level, error)
	ListExercises(levelPath string) ([]library.Exercise, error)
}

// Chooser draws one exercise from a non-empty candidate set.
type Chooser interface {
	Choose(candidates []library.Exercise) (library.Exercise, error)
}

// Scaffolder creates a project skeleton at a destination path.
type Scaffolder interface {
	Scaffold(ctx context.Context, destinationPath, exerciseName string) error
}

// Materializer overlays exercise templates onto a project.
type Materializer interface {
	Materialize(exerciseSourcePath, destinationProjectPath string) ([]string, error)
}

// Prompter asks the operator questions.
type Prompter interface {
	SelectExam(exams []string) (string, error)
	ConfirmOverwrite(exam, path string) (bool, error)
}

// Reporter prints per-run progress for the operator.
type Reporter interface {
	Creating(exam string)
	LevelDone(ordinal int, exercise string)
	LevelSkipped(level library.Level)
	Cancelled(exam string)
	Finished(exam string, plan *selector.Plan)
}

// Options wires an Assembler.
type Options struct {
	Library      Library
	Chooser      Chooser
	Scaffolder   Scaffolder
	Materializer Materializer
	Prompter     Prompter
	Reporter     Reporter
	Logbook      *logbook.Logbook

	// WorkDir is the absolute directory exams are generated into.
	WorkDir string
	// Exam preselects an exam instead of prompting.
	Exam string
	// AssumeYes confirms overwriting an existing exam without prompting.
	AssumeYes bool

	// RemoveAll deletes an exam folder before it is rebuilt. Defaults to
	// os.RemoveAll.
	RemoveAll func(path string) error
}

// Result summarizes a finished run.
type Result struct {
	RunID   string
	Exam    string
	ExamDir string
	Plan    *selector.Plan
	Skipped []library.Level
	Aborted bool
	State   State
}

// Assembler runs exam assembly.
type Assembler struct {
	opts  Options
	state State
	log   *logbook.Logbook
}

// New validates opts and returns an Assembler.
func New(opts Options) (*Assembler, error) {
	switch {
	case opts.Library == nil:
		return nil, fmt.Errorf("assembly: library is required")
	case opts.Chooser == nil:
		return nil, fmt.Errorf("assembly: chooser is required")
	case opts.Scaffolder == nil:
		return nil, fmt.Errorf("assembly: scaffolder is required")
	case opts.Materializer == nil:
		return nil, fmt.Errorf("assembly: materializer is required")
	case opts.Prompter == nil && (opts.Exam == "" || !opts.AssumeYes):
		return nil, fmt.Errorf("assembly: prompter is required")
	case !filepath.IsAbs(opts.WorkDir):
		return nil, fmt.Errorf("assembly: work dir must be absolute, got %q", opts.WorkDir)
	}
	if opts.Reporter == nil {
		opts.Reporter = nopReporter{}
	}
	if opts.RemoveAll == nil {
		opts.RemoveAll = os.RemoveAll
	}
	return &Assembler{opts: opts, state: StateIdle}, nil
}

// State returns the current step of the run.
func (a *Assembler) State() State {
	return a.state
}

// Run executes one assembly from discovery to Done or Aborted. Declining the
// overwrite is an Aborted result with a nil error.
func (a *Assembler) Run(ctx context.Context) (Result, error) {
	res := Result{RunID: uuid.NewString(), Plan: selector.NewPlan()}
	a.log = a.opts.Logbook.ForRun(res.RunID)
	a.state = StateIdle
	a.log.Info("Run started · library discovery")

	exams, err := a.opts.Library.ListExams()
	if err != nil {
		return a.fail(res, err)
	}
	a.transition(StateLibraryDiscovered)
	a.log.Info("Found %d exam(s)", len(exams))

	exam, err := a.chooseExam(exams)
	if err != nil {
		if errors.Is(err, ErrCancelled) {
			a.opts.Reporter.Cancelled("")
			return a.abort(res)
		}
		return a.fail(res, err)
	}
	res.Exam = exam
	res.ExamDir = filepath.Join(a.opts.WorkDir, exam)
	a.transition(StateExamChosen)
	a.log.Info("Exam chosen: %s", exam)

	proceed, err := a.clearExisting(exam, res.ExamDir)
	if err != nil {
		return a.fail(res, err)
	}
	if !proceed {
		a.opts.Reporter.Cancelled(exam)
		return a.abort(res)
	}

	a.opts.Reporter.Creating(exam)
	if err := os.MkdirAll(res.ExamDir, 0o755); err != nil {
		return a.fail(res, fmt.Errorf("assembly: create exam folder: %w", err))
	}

	levels, err := a.opts.Library.ListLevels(exam)
	if err != nil {
		return a.fail(res, err)
	}
	for _, level := range levels {
		if err := ctx.Err(); err != nil {
			return a.fail(res, err)
		}
		a.transition(StatePerLevel)
		skipped, err := a.assembleLevel(ctx, res, level)
		if err != nil {
			return a.fail(res, err)
		}
		if skipped {
			res.Skipped = append(res.Skipped, level)
		}
	}

	a.transition(StateDone)
	a.log.Info("Run complete · %d level(s) scaffolded, %d skipped", res.Plan.Len(), len(res.Skipped))
	a.opts.Reporter.Finished(exam, res.Plan)
	res.State = a.state
	return res, nil
}

func (a *Assembler) chooseExam(exams []string) (string, error) {
	if want := a.opts.Exam; want != "" {
		for _, exam := range exams {
			if exam == want {
				return exam, nil
			}
		}
		return "", fmt.Errorf("assembly: %q: %w", want, ErrUnknownExam)
	}
	exam, err := a.opts.Prompter.SelectExam(exams)
	if err != nil {
		return "", err
	}
	for _, candidate := range exams {
		if candidate == exam {
			return exam, nil
		}
	}
	return "", fmt.Errorf("assembly: %q: %w", exam, ErrUnknownExam)
}

// clearExisting asks before replacing an exam folder from an earlier run. It
// reports false when the operator declines; nothing is touched in that case.
func (a *Assembler) clearExisting(exam, examDir string) (bool, error) {
	if _, err := os.Lstat(examDir); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return true, nil
		}
		return false, fmt.Errorf("assembly: stat %s: %w", examDir, err)
	}
	confirmed := a.opts.AssumeYes
	if !confirmed {
		ok, err := a.opts.Prompter.ConfirmOverwrite(exam, examDir)
		if err != nil && !errors.Is(err, ErrCancelled) {
			return false, err
		}
		confirmed = ok && err == nil
	}
	if !confirmed {
		a.log.Info("Overwrite of %s declined", examDir)
		return false, nil
	}
	a.transition(StateOverwriteConfirmed)
	if err := a.opts.RemoveAll(examDir); err != nil {
		return false, &CleanupError{Path: examDir, Err: err}
	}
	a.log.Info("Removed previous exam folder %s", examDir)
	return true, nil
}

func (a *Assembler) assembleLevel(ctx context.Context, res Result, level library.Level) (bool, error) {
	exercises, err := a.opts.Library.ListExercises(level.Path)
	if err != nil {
		return false, err
	}
	if len(exercises) == 0 {
		a.log.Warn("Level %d (%s): no exercises found in %s", level.Ordinal, level.Name, level.Path)
		a.opts.Reporter.LevelSkipped(level)
		return true, nil
	}

	chosen, err := a.opts.Chooser.Choose(exercises)
	if err != nil {
		return false, fmt.Errorf("assembly: level %d: %w", level.Ordinal, err)
	}
	a.log.Info("Level %d (%s): drew %s from %d candidate(s)", level.Ordinal, level.Name, chosen.Name, len(exercises))

	dest := filepath.Join(res.ExamDir, strconv.Itoa(level.Ordinal), chosen.Name)
	if err := a.opts.Scaffolder.Scaffold(ctx, dest, chosen.Name); err != nil {
		return false, err
	}
	copied, err := a.opts.Materializer.Materialize(chosen.Path, dest)
	if err != nil {
		return false, err
	}
	a.log.Info("Level %d: materialized %v into %s", level.Ordinal, copied, dest)

	res.Plan.Set(level.Ordinal, chosen)
	a.opts.Reporter.LevelDone(level.Ordinal, chosen.Name)
	return false, nil
}

func (a *Assembler) transition(next State) {
	if a.state == next {
		return
	}
	a.log.Info("State %s → %s", a.state, next)
	a.state = next
}

func (a *Assembler) abort(res Result) (Result, error) {
	a.transition(StateAborted)
	res.Aborted = true
	res.State = a.state
	return res, nil
}

func (a *Assembler) fail(res Result, err error) (Result, error) {
	a.log.Error("Run failed in state %s: %v", a.state, err)
	res.State = a.state
	return res, err
}

type nopReporter struct{}

func (nopReporter) Creating(string)                 {}
func (nopReporter) LevelDone(int, string)           {}
func (nopReporter) LevelSkipped(library.Level)      {}
func (nopReporter) Cancelled(string)                {}
func (nopReporter) Finished(string, *selector.Plan) {}
