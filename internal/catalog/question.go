package catalog

import "fmt"

// Type discriminates the two question kinds in the bank.
type Type string

const (
	MultipleChoice Type = "mcq"
	TrueFalse      Type = "truefalse"
)

// Question is a single immutable entry of the question bank.
// Options and AnswerIndex are meaningful only for MultipleChoice;
// AnswerBool only for TrueFalse.
type Question struct {
	ID          string   `json:"id"`
	Type        Type     `json:"type"`
	Prompt      string   `json:"question"`
	Options     []string `json:"options,omitempty"`
	AnswerIndex int      `json:"answer_index"`
	AnswerBool  bool     `json:"answer_bool"`
}

// Validate checks the per-type field invariants.
func (q Question) Validate() error {
	if q.ID == "" {
		return fmt.Errorf("question has empty id")
	}
	switch q.Type {
	case MultipleChoice:
		if len(q.Options) < 2 {
			return fmt.Errorf("question %s: multiple choice needs at least 2 options, got %d", q.ID, len(q.Options))
		}
		if q.AnswerIndex < 0 || q.AnswerIndex >= len(q.Options) {
			return fmt.Errorf("question %s: answer_index %d out of range [0,%d)", q.ID, q.AnswerIndex, len(q.Options))
		}
	case TrueFalse:
		if len(q.Options) != 0 {
			return fmt.Errorf("question %s: true/false question must not carry options", q.ID)
		}
	default:
		return fmt.Errorf("question %s: unknown type %q", q.ID, q.Type)
	}
	return nil
}
