package catalog_test

import (
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/legends-trivia/trivia/internal/catalog"
)

func writeSheet(t *testing.T, rows [][]any) string {
	t.Helper()

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("cell name: %v", err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			t.Fatalf("writing row %d: %v", i+1, err)
		}
	}

	path := filepath.Join(t.TempDir(), "questions.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("saving spreadsheet: %v", err)
	}
	return path
}

var header = []any{"ID", "Type", "Question", "Options", "Answer"}

func TestImportXLSX(t *testing.T) {
	path := writeSheet(t, [][]any{
		header,
		{"q1", "mcq", "Capital of France?", "Paris|Lyon|Nice", "0"},
		{"q2", "truefalse", "The sky is green.", "", "false"},
	})

	questions, err := catalog.ImportXLSX(path)
	if err != nil {
		t.Fatalf("ImportXLSX() error = %v", err)
	}
	if len(questions) != 2 {
		t.Fatalf("len(questions) = %d, want 2", len(questions))
	}

	q := questions[0]
	if q.ID != "q1" || q.Type != catalog.MultipleChoice {
		t.Errorf("questions[0] = %+v", q)
	}
	if len(q.Options) != 3 || q.Options[1] != "Lyon" {
		t.Errorf("Options = %v", q.Options)
	}
	if q.AnswerIndex != 0 {
		t.Errorf("AnswerIndex = %d, want 0", q.AnswerIndex)
	}

	q = questions[1]
	if q.Type != catalog.TrueFalse || q.AnswerBool {
		t.Errorf("questions[1] = %+v", q)
	}
}

func TestImportXLSX_SkipsBlankRows(t *testing.T) {
	path := writeSheet(t, [][]any{
		header,
		{"q1", "truefalse", "Go is compiled.", "", "true"},
		{"", "", "", "", ""},
		{"q2", "truefalse", "Go is interpreted.", "", "false"},
	})

	questions, err := catalog.ImportXLSX(path)
	if err != nil {
		t.Fatalf("ImportXLSX() error = %v", err)
	}
	if len(questions) != 2 {
		t.Errorf("len(questions) = %d, want 2", len(questions))
	}
}

func TestImportXLSX_BadRows(t *testing.T) {
	tests := []struct {
		name string
		row  []any
	}{
		{"unknown type", []any{"q1", "essay", "Discuss.", "", ""}},
		{"mcq answer not an index", []any{"q1", "mcq", "?", "a|b", "b"}},
		{"mcq answer out of range", []any{"q1", "mcq", "?", "a|b", "5"}},
		{"tf answer not boolean", []any{"q1", "truefalse", "?", "", "maybe"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeSheet(t, [][]any{header, tt.row})
			if _, err := catalog.ImportXLSX(path); err == nil {
				t.Error("ImportXLSX() should fail")
			}
		})
	}
}

func TestImportRoundTrip(t *testing.T) {
	path := writeSheet(t, [][]any{
		header,
		{"q1", "mcq", "2 + 2?", "3|4", "1"},
		{"q2", "truefalse", "Water is wet.", "", "true"},
	})

	questions, err := catalog.ImportXLSX(path)
	if err != nil {
		t.Fatalf("ImportXLSX() error = %v", err)
	}

	out := filepath.Join(t.TempDir(), "questions.json")
	if err := catalog.WriteJSON(questions, out); err != nil {
		t.Fatalf("WriteJSON() error = %v", err)
	}

	store, err := catalog.Load(out)
	if err != nil {
		t.Fatalf("Load() after import error = %v", err)
	}
	if store.Len() != 2 {
		t.Errorf("Len() = %d, want 2", store.Len())
	}
	q := store.MustGet("q1")
	if q.AnswerIndex != 1 {
		t.Errorf("AnswerIndex = %d, want 1", q.AnswerIndex)
	}
}
