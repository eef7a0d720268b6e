// Package remote serves the gameplay core to a remote renderer over a
// websocket. Render commands flow out as JSON frames; player intents
// flow back in. One session per connection.
package remote

import "github.com/legends-trivia/trivia/internal/catalog"

// Frame kinds sent to the renderer.
const (
	FrameLevelList         = "level_list"
	FrameRenderQuestion    = "render_question"
	FrameSetNextEnabled    = "set_next_enabled"
	FrameMarkChoice        = "mark_choice"
	FrameSetFeedback       = "set_feedback"
	FrameDisableChoices    = "disable_choices"
	FrameLevelComplete     = "level_complete"
	FrameAllLevelsComplete = "all_levels_complete"
	FrameError             = "error"
)

// Intent kinds received from the renderer.
const (
	IntentStartLevel = "start_level"
	IntentAnswerMCQ  = "answer_mcq"
	IntentAnswerTF   = "answer_tf"
	IntentNavPrev    = "nav_prev"
	IntentNavNext    = "nav_next"
	IntentRetry      = "retry"
	IntentNextLevel  = "next_level"
	IntentQuit       = "quit"
)

// QuestionPayload is the renderable content of one question. The answer
// key stays server-side.
type QuestionPayload struct {
	ID      string       `json:"id"`
	Type    catalog.Type `json:"type"`
	Prompt  string       `json:"question"`
	Options []string     `json:"options,omitempty"`
}

// ReviewPayload mirrors a frozen attempt for review-mode rendering.
type ReviewPayload struct {
	SelectedIndex int    `json:"selected_index"`
	SelectedBool  bool   `json:"selected_bool"`
	IsCorrect     bool   `json:"is_correct"`
	Feedback      string `json:"feedback"`
}

// LevelInfo is one entry of the level-selection list.
type LevelInfo struct {
	Number   int  `json:"number"`
	Unlocked bool `json:"unlocked"`
	Stars    int  `json:"stars"`
}

// Frame is a render command pushed to the renderer.
type Frame struct {
	Kind string `json:"kind"`

	// render_question
	Question *QuestionPayload `json:"question,omitempty"`
	Index    int              `json:"index,omitempty"`
	Total    int              `json:"total,omitempty"`
	Review   *ReviewPayload   `json:"review,omitempty"`

	// set_next_enabled
	Enabled bool `json:"enabled,omitempty"`

	// mark_choice
	OptionIndex int  `json:"option_index,omitempty"`
	IsCorrect   bool `json:"is_correct,omitempty"`

	// set_feedback
	Feedback string `json:"feedback,omitempty"`

	// level_complete
	Stars int `json:"stars,omitempty"`
	Score int `json:"score,omitempty"`

	// level_list
	Levels []LevelInfo `json:"levels,omitempty"`

	// error
	Message string `json:"message,omitempty"`
}

// Intent is a player action received from the renderer.
type Intent struct {
	Kind        string `json:"kind"`
	Level       int    `json:"level,omitempty"`
	ChoiceIndex int    `json:"choice_index,omitempty"`
	Value       bool   `json:"value,omitempty"`
}
