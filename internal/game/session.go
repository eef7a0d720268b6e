package game

import (
	"fmt"
	"log/slog"

	"github.com/legends-trivia/trivia/internal/catalog"
	"github.com/legends-trivia/trivia/internal/levels"
	"github.com/legends-trivia/trivia/internal/progress"
)

// Star thresholds on the fraction of correct answers.
const (
	threeStarPct = 0.8
	twoStarPct   = 0.6
	oneStarPct   = 0.4
)

const (
	feedbackCorrect   = "Correct!"
	feedbackIncorrect = "Not quite."
)

// attempt is the per-question interaction record. Frozen once answered:
// a question scores at most once per pass.
type attempt struct {
	answered      bool
	qtype         catalog.Type
	selectedIndex int
	selectedBool  bool
	isCorrect     bool
	feedback      string
}

// SessionConfig holds the dependencies of a level session.
type SessionConfig struct {
	Level     int
	Levels    *levels.Catalog
	Questions *catalog.Store
	Progress  progress.Store
	View      View
	Director  Director
	Events    EventLogger // defaults to NopEventLogger
	PlayerID  string      // tag for emitted events, optional
}

// Session drives exactly one level from first question to completion.
// Single-use: Retry resets attempt state for a fresh pass over the same
// instance. All methods must be called from one goroutine; the session
// is driven by discrete user actions, each handled to completion.
type Session struct {
	level     int
	levels    *levels.Catalog
	questions *catalog.Store
	progress  progress.Store
	view      View
	director  Director
	events    EventLogger
	playerID  string

	qids      []string
	attempts  map[string]*attempt
	index     int
	score     int
	completed bool
}

// NewSession starts a session for cfg.Level and renders its first
// question. A level with no questions completes immediately with zero
// stars. Question lookups assume validated content: an unknown ID in
// the level definition panics.
func NewSession(cfg SessionConfig) *Session {
	events := cfg.Events
	if events == nil {
		events = NopEventLogger{}
	}

	s := &Session{
		level:     cfg.Level,
		levels:    cfg.Levels,
		questions: cfg.Questions,
		progress:  cfg.Progress,
		view:      cfg.View,
		director:  cfg.Director,
		events:    events,
		playerID:  cfg.PlayerID,
	}

	s.qids = cfg.Levels.QuestionsForLevel(cfg.Level)
	s.attempts = make(map[string]*attempt, len(s.qids))
	for _, qid := range s.qids {
		s.attempts[qid] = &attempt{qtype: s.questions.MustGet(qid).Type}
	}

	slog.Info("level session started", "level", s.level, "questions", len(s.qids))

	if len(s.qids) == 0 {
		s.complete()
		return s
	}

	s.renderCurrent()
	return s
}

// Level returns the level number being played.
func (s *Session) Level() int { return s.level }

// LevelTitle returns the display title for the level in play.
func (s *Session) LevelTitle() string { return fmt.Sprintf("Level %d", s.level) }

// Score returns the number of correct answers so far.
func (s *Session) Score() int { return s.score }

// Index returns the zero-based position of the current question.
func (s *Session) Index() int { return s.index }

// Total returns the number of questions in the level.
func (s *Session) Total() int { return len(s.qids) }

// Completed reports whether this pass over the level has finished.
// True immediately after construction for a level with no questions.
func (s *Session) Completed() bool { return s.completed }

func (s *Session) currentQID() string {
	return s.qids[s.index]
}

func (s *Session) currentQuestion() catalog.Question {
	return s.questions.MustGet(s.currentQID())
}

// renderCurrent renders the current question, in review mode when it
// was already answered, and gates Next on the answered flag.
func (s *Session) renderCurrent() {
	q := s.currentQuestion()
	st := s.attempts[s.currentQID()]

	var review *Review
	if st.answered {
		review = &Review{
			SelectedIndex: st.selectedIndex,
			SelectedBool:  st.selectedBool,
			IsCorrect:     st.isCorrect,
			Feedback:      st.feedback,
		}
	}

	s.view.RenderQuestion(q, s.index, len(s.qids), review)
	s.view.SetNextEnabled(st.answered)
}

// AnswerMultipleChoice submits the chosen option index for the current
// multiple-choice question. A re-answer of a frozen question is a
// no-op. Calling it on a true/false question is a caller bug.
func (s *Session) AnswerMultipleChoice(choiceIndex int) {
	q := s.currentQuestion()
	if q.Type != catalog.MultipleChoice {
		panic(fmt.Sprintf("game: AnswerMultipleChoice on %s question %s", q.Type, q.ID))
	}

	st := s.attempts[q.ID]
	if st.answered {
		return
	}

	correct := choiceIndex == q.AnswerIndex
	st.answered = true
	st.selectedIndex = choiceIndex
	st.isCorrect = correct
	st.feedback = feedbackText(correct)
	if correct {
		s.score++
	}

	s.view.MarkChoice(choiceIndex, correct)
	if !correct {
		s.view.MarkChoice(q.AnswerIndex, true)
	}
	s.finishAnswer(q.ID, correct)
}

// AnswerTrueFalse submits the player's true/false choice for the
// current question. Choices map to option positions: True is 0,
// False is 1. Calling it on a multiple-choice question is a caller bug.
func (s *Session) AnswerTrueFalse(value bool) {
	q := s.currentQuestion()
	if q.Type != catalog.TrueFalse {
		panic(fmt.Sprintf("game: AnswerTrueFalse on %s question %s", q.Type, q.ID))
	}

	st := s.attempts[q.ID]
	if st.answered {
		return
	}

	correct := value == q.AnswerBool
	st.answered = true
	st.selectedIndex = tfIndex(value)
	st.selectedBool = value
	st.isCorrect = correct
	st.feedback = feedbackText(correct)
	if correct {
		s.score++
	}

	s.view.MarkChoice(tfIndex(value), correct)
	if !correct {
		s.view.MarkChoice(tfIndex(q.AnswerBool), true)
	}
	s.finishAnswer(q.ID, correct)
}

func (s *Session) finishAnswer(qid string, correct bool) {
	s.view.SetFeedback(s.attempts[qid].feedback)
	s.view.DisableChoices()
	s.view.SetNextEnabled(true)

	logEvent(s.events, Event{
		PlayerID:  s.playerID,
		EventType: EventAnswerSubmitted,
		Data: map[string]any{
			"level":       s.level,
			"question_id": qid,
			"correct":     correct,
			"score":       s.score,
		},
	})
}

// NavigatePrevious steps back one question, re-rendered in review mode
// if it was answered. No-op at the first question.
func (s *Session) NavigatePrevious() {
	if s.index == 0 {
		return
	}
	s.index--
	s.renderCurrent()
}

// NavigateNext advances to the next question, or completes the level
// when invoked on the last one. No-op once the level is complete.
func (s *Session) NavigateNext() {
	if s.completed {
		return
	}
	if s.index < len(s.qids)-1 {
		s.index++
		s.renderCurrent()
		return
	}
	s.complete()
}

func (s *Session) complete() {
	s.completed = true

	total := len(s.qids)
	pct := 0.0
	if total > 0 {
		pct = float64(s.score) / float64(total)
	}
	stars := starsFor(pct)

	// Never regress a previous best.
	if prev := s.progress.StarsFor(s.level); prev > stars {
		s.setStars(prev)
	} else {
		s.setStars(stars)
	}
	if err := s.progress.UnlockNext(s.level); err != nil {
		slog.Error("failed to unlock next level", "level", s.level, "error", err)
	}

	slog.Info("level complete",
		"level", s.level,
		"score", s.score,
		"total", total,
		"stars", stars,
	)
	logEvent(s.events, Event{
		PlayerID:  s.playerID,
		EventType: EventLevelCompleted,
		Data: map[string]any{
			"level": s.level,
			"score": s.score,
			"total": total,
			"stars": stars,
		},
	})

	if s.level >= s.levels.TotalLevels() {
		s.director.AllLevelsComplete()
		return
	}
	s.view.LevelComplete(stars, s.score, total)
}

func (s *Session) setStars(stars int) {
	if err := s.progress.SetStars(s.level, stars); err != nil {
		slog.Error("failed to save stars", "level", s.level, "error", err)
	}
}

// Retry resets the pass (index, score, every attempt) and asks the
// director to re-enter this level fresh.
func (s *Session) Retry() {
	s.index = 0
	s.score = 0
	s.completed = false
	for _, st := range s.attempts {
		*st = attempt{qtype: st.qtype}
	}

	logEvent(s.events, Event{
		PlayerID:  s.playerID,
		EventType: EventLevelRetried,
		Data:      map[string]any{"level": s.level},
	})
	s.director.ReplayLevel(s.level)
}

// NextLevel asks the director to enter the level after this one.
func (s *Session) NextLevel() {
	s.director.ReplayLevel(s.level + 1)
}

// Quit abandons the session and returns to level selection. Progress
// already committed by prior completions is untouched.
func (s *Session) Quit() {
	logEvent(s.events, Event{
		PlayerID:  s.playerID,
		EventType: EventLevelQuit,
		Data:      map[string]any{"level": s.level, "index": s.index},
	})
	s.director.QuitToLevels()
}

func starsFor(pct float64) int {
	switch {
	case pct >= threeStarPct:
		return 3
	case pct >= twoStarPct:
		return 2
	case pct >= oneStarPct:
		return 1
	default:
		return 0
	}
}

func feedbackText(correct bool) string {
	if correct {
		return feedbackCorrect
	}
	return feedbackIncorrect
}

func tfIndex(value bool) int {
	if value {
		return 0
	}
	return 1
}
