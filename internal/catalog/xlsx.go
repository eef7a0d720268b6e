package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Authoring spreadsheet layout: one sheet, header row, then one row per
// question with columns ID | Type | Question | Options | Answer.
// Options are pipe-separated and only read for mcq rows. Answer is the
// zero-based option index for mcq, or true/false for truefalse rows.

// ImportXLSX reads an authoring spreadsheet and returns the decoded
// questions in row order.
func ImportXLSX(path string) ([]Question, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening spreadsheet: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("reading sheet %s: %w", sheet, err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("sheet %s has no question rows", sheet)
	}

	var questions []Question
	for i, row := range rows[1:] {
		if len(row) == 0 || strings.TrimSpace(cell(row, 0)) == "" {
			continue // blank row
		}
		q, err := questionFromRow(row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		questions = append(questions, q)
	}
	return questions, nil
}

func cell(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}

func questionFromRow(row []string) (Question, error) {
	q := Question{
		ID:     strings.TrimSpace(cell(row, 0)),
		Type:   Type(strings.ToLower(strings.TrimSpace(cell(row, 1)))),
		Prompt: strings.TrimSpace(cell(row, 2)),
	}

	answer := strings.TrimSpace(cell(row, 4))
	switch q.Type {
	case MultipleChoice:
		for _, opt := range strings.Split(cell(row, 3), "|") {
			q.Options = append(q.Options, strings.TrimSpace(opt))
		}
		idx, err := strconv.Atoi(answer)
		if err != nil {
			return Question{}, fmt.Errorf("mcq answer must be an option index: %w", err)
		}
		q.AnswerIndex = idx
	case TrueFalse:
		b, err := strconv.ParseBool(answer)
		if err != nil {
			return Question{}, fmt.Errorf("true/false answer must be a boolean: %w", err)
		}
		q.AnswerBool = b
	default:
		return Question{}, fmt.Errorf("unknown type %q", q.Type)
	}

	if err := q.Validate(); err != nil {
		return Question{}, err
	}
	return q, nil
}

// WriteJSON writes questions to path in the catalog's JSON format.
func WriteJSON(questions []Question, path string) error {
	data, err := json.MarshalIndent(questions, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding catalog: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing catalog: %w", err)
	}
	return nil
}
