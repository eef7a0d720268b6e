// Command catalogctl manages the question bank: imports authoring
// spreadsheets into the JSON catalog and validates data files.
//
// Usage:
//
//	catalogctl import  <questions.xlsx> <questions.json>
//	catalogctl validate <questions.json> [levels.json]
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/legends-trivia/trivia/internal/catalog"
	"github.com/legends-trivia/trivia/internal/levels"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "import":
		err = runImport(os.Args[2:])
	case "validate":
		err = runValidate(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}

	if err != nil {
		slog.Error("command failed", "command", os.Args[1], "error", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: catalogctl import <questions.xlsx> <questions.json>")
	fmt.Fprintln(os.Stderr, "       catalogctl validate <questions.json> [levels.json]")
}

func runImport(args []string) error {
	if len(args) != 2 {
		usage()
		return fmt.Errorf("import needs a spreadsheet and an output path")
	}

	questions, err := catalog.ImportXLSX(args[0])
	if err != nil {
		return err
	}
	if err := catalog.WriteJSON(questions, args[1]); err != nil {
		return err
	}

	slog.Info("catalog imported", "questions", len(questions), "output", args[1])
	return nil
}

func runValidate(args []string) error {
	if len(args) < 1 {
		usage()
		return fmt.Errorf("validate needs a catalog path")
	}

	store, err := catalog.Load(args[0])
	if err != nil {
		return err
	}

	if len(args) < 2 {
		return nil
	}

	lvls := levels.Load(args[1], store, levels.DefaultChunkSize)
	for _, n := range lvls.LevelNumbers() {
		for _, qid := range lvls.QuestionsForLevel(n) {
			if _, err := store.Get(qid); err != nil {
				return fmt.Errorf("level %d: %w", n, err)
			}
		}
	}

	slog.Info("data files valid", "questions", store.Len(), "levels", lvls.TotalLevels())
	return nil
}
