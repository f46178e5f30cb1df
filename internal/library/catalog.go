package library

import "fmt"

// LevelEntry pairs a level with the exercises found in it.
type LevelEntry struct {
	Level     Level
	Exercises []Exercise
}

// Catalog maps exam names to their ordered levels.
type Catalog struct {
	Exams  []string
	Levels map[string][]LevelEntry
}

// Catalog walks the whole library. It is only used for listing; assembly
// reads level by level so a broken level surfaces when it is reached.
func (x *Index) Catalog() (Catalog, error) {
	exams, err := x.ListExams()
	if err != nil {
		return Catalog{}, err
	}
	cat := Catalog{
		Exams:  exams,
		Levels: make(map[string][]LevelEntry, len(exams)),
	}
	for _, exam := range exams {
		levels, err := x.ListLevels(exam)
		if err != nil {
			return Catalog{}, err
		}
		entries := make([]LevelEntry, 0, len(levels))
		for _, level := range levels {
			exercises, err := x.ListExercises(level.Path)
			if err != nil {
				return Catalog{}, fmt.Errorf("library: exam %s: %w", exam, err)
			}
			entries = append(entries, LevelEntry{Level: level, Exercises: exercises})
		}
		cat.Levels[exam] = entries
	}
	return cat, nil
}

// ExerciseCount returns the number of exercises across every level of exam.
func (c Catalog) ExerciseCount(exam string) int {
	total := 0
	for _, entry := range c.Levels[exam] {
		total += len(entry.Exercises)
	}
	return total
}
