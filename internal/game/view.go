// Package game drives a single play-through of one level: question
// sequencing, answer scoring, review navigation and progress updates.
package game

import "github.com/legends-trivia/trivia/internal/catalog"

// Review carries the frozen attempt state when an already-answered
// question is re-rendered. Input must stay locked while reviewing.
type Review struct {
	SelectedIndex int
	SelectedBool  bool
	IsCorrect     bool
	Feedback      string
}

// View is the passive rendering target a session pushes to. Every
// method is mandatory; environment-specific extras (sound effects,
// animations) live entirely outside this contract.
type View interface {
	// RenderQuestion shows question content and position. review is
	// nil for a fresh question and non-nil when re-entering an
	// answered one.
	RenderQuestion(q catalog.Question, index, total int, review *Review)
	// SetNextEnabled gates forward navigation.
	SetNextEnabled(enabled bool)
	// MarkChoice flags one option as correct or incorrect. Called a
	// second time on a wrong answer to reveal the correct option.
	MarkChoice(optionIndex int, isCorrect bool)
	// SetFeedback shows the verdict line for the answer just given.
	SetFeedback(text string)
	// DisableChoices locks further option input for the current question.
	DisableChoices()
	// LevelComplete shows the end-of-level summary for a non-final level.
	LevelComplete(stars, score, total int)
}

// Director receives the session's orchestration signals: screen
// switches the session itself cannot perform.
type Director interface {
	// AllLevelsComplete fires instead of View.LevelComplete when the
	// finished level is the catalog's last.
	AllLevelsComplete()
	// ReplayLevel re-enters the given level fresh (retry, next level).
	ReplayLevel(level int)
	// QuitToLevels abandons the session and returns to level selection.
	QuitToLevels()
}
