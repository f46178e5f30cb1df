package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/kingrea/examforge/internal/assembly"
	"github.com/kingrea/examforge/internal/config"
	"github.com/kingrea/examforge/internal/library"
	"github.com/kingrea/examforge/internal/logbook"
	"github.com/kingrea/examforge/internal/materialize"
	"github.com/kingrea/examforge/internal/scaffold"
	"github.com/kingrea/examforge/internal/selector"
	"github.com/kingrea/examforge/internal/tui"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "examforge",
		Short: "Assemble a practice exam from the exercise library",
		Long: `Pick an exam from the library, draw one random exercise per level and
scaffold each one as a fresh project under the output folder:

  <output>/<exam>/<level>/<exercise>/

Levels are renumbered 1..N in numeric order of their library folders.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runAssemble,
	}
	root.PersistentFlags().String("project", "", "Project directory holding .examforge/ (default: current directory)")
	root.PersistentFlags().String("library", "", "Exercise library root (overrides config and "+config.LibraryEnv+")")
	root.Flags().String("output", "", "Folder exams are generated into (overrides config)")
	root.Flags().String("exam", "", "Exam to build instead of prompting")
	root.Flags().BoolP("yes", "y", false, "Overwrite an existing exam folder without asking")
	root.Flags().Uint64("seed", 0, "Seed for the exercise draw (0 picks a random seed)")

	root.AddCommand(newListCmd(), newLogCmd(), newVersionCmd())
	return root
}

// loadConfig prepares .examforge/ in the project directory and applies flag
// overrides.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	projectDir, _ := cmd.Flags().GetString("project")
	if projectDir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting working directory: %w", err)
		}
		projectDir = cwd
	}
	if err := config.InitDir(projectDir); err != nil {
		return nil, fmt.Errorf("initializing %s directory: %w", config.Dir, err)
	}
	cfg, err := config.NewConfig(projectDir)
	if err != nil {
		return nil, err
	}
	libraryDir, _ := cmd.Flags().GetString("library")
	var outputDir string
	if cmd.Flags().Lookup("output") != nil {
		outputDir, _ = cmd.Flags().GetString("output")
	}
	if err := cfg.Override(libraryDir, outputDir); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runAssemble(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	exam, _ := cmd.Flags().GetString("exam")
	assumeYes, _ := cmd.Flags().GetBool("yes")
	seed, _ := cmd.Flags().GetUint64("seed")

	book, err := logbook.New(cfg.LogPath())
	if err != nil {
		return err
	}
	book.Info("Session opened · library %s · output %s", cfg.LibraryDir(), cfg.WorkDir())

	index := library.NewIndex(cfg.LibraryDir())
	prompter := tui.NewPrompter(nil, nil)
	if cat, err := index.Catalog(); err == nil {
		prompter.Describe = func(exam string) string { return tui.DescribeExam(cat, exam) }
	}

	gen := cfg.Generator()
	a, err := assembly.New(assembly.Options{
		Library:      index,
		Chooser:      newChooser(seed, book),
		Scaffolder:   scaffold.New(&scaffold.CommandGenerator{Command: gen.Command, Args: gen.Args}),
		Materializer: materialize.New(templatesFromConfig(cfg.Templates())),
		Prompter:     prompter,
		Reporter:     tui.NewReporter(cmd.OutOrStdout()),
		Logbook:      book,
		WorkDir:      cfg.WorkDir(),
		Exam:         exam,
		AssumeYes:    assumeYes,
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if _, err := a.Run(ctx); err != nil {
		return err
	}
	return nil
}

func newChooser(seed uint64, book *logbook.Logbook) *selector.Selector {
	if seed == 0 {
		return selector.NewFromEntropy()
	}
	book.Info("Using fixed draw seed %d", seed)
	return selector.NewSeeded(seed)
}

func templatesFromConfig(refs []config.TemplateRef) []materialize.Template {
	out := make([]materialize.Template, 0, len(refs))
	for _, ref := range refs {
		out = append(out, materialize.Template{Name: ref.Name, InSource: ref.Source})
	}
	return out
}
