package remote

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/legends-trivia/trivia/internal/catalog"
	"github.com/legends-trivia/trivia/internal/game"
	"github.com/legends-trivia/trivia/internal/levels"
	"github.com/legends-trivia/trivia/internal/progress"
)

const writeTimeout = 10 * time.Second

// Handler accepts websocket connections and runs one gameplay
// conversation per connection. Intents are handled sequentially on the
// connection's read loop; the core stays single-threaded per player.
type Handler struct {
	Questions *catalog.Store
	Levels    *levels.Catalog
	// Progress is the store shared by every connection. Ignored when
	// ProgressFor is set.
	Progress progress.Store
	// ProgressFor scopes progress to the connecting player. Hosted
	// backends use this so players do not share unlock state.
	ProgressFor func(ctx context.Context, playerID string) (progress.Store, error)
	Events      game.EventLogger
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		slog.Warn("websocket accept failed", "error", err)
		return
	}

	playerID := r.URL.Query().Get("player")
	if playerID == "" {
		playerID = "local"
	}

	store := h.Progress
	if h.ProgressFor != nil {
		store, err = h.ProgressFor(r.Context(), playerID)
		if err != nil {
			slog.Error("failed to open player progress", "player", playerID, "error", err)
			conn.Close(websocket.StatusInternalError, "progress unavailable")
			return
		}
	}

	p := &player{
		handler:  h,
		conn:     conn,
		ctx:      r.Context(),
		playerID: playerID,
		progress: store,
	}
	p.run()
}

// player is the per-connection state: the websocket and the session in
// play, if any. It implements game.View and game.Director by encoding
// every callback as an outbound frame.
type player struct {
	handler  *Handler
	conn     *websocket.Conn
	ctx      context.Context
	playerID string
	progress progress.Store
	session  *game.Session
}

func (p *player) run() {
	defer p.conn.Close(websocket.StatusNormalClosure, "")

	p.sendLevelList()

	for {
		var intent Intent
		if err := wsjson.Read(p.ctx, p.conn, &intent); err != nil {
			if !errors.Is(err, context.Canceled) {
				slog.Info("player disconnected", "error", err)
			}
			return
		}
		p.dispatch(intent)
	}
}

func (p *player) dispatch(intent Intent) {
	// A mistyped answer intent is a renderer bug; report it instead of
	// tearing the connection down.
	defer func() {
		if r := recover(); r != nil {
			slog.Error("intent rejected", "kind", intent.Kind, "panic", r)
			p.sendError(fmt.Sprintf("rejected %s: %v", intent.Kind, r))
		}
	}()

	switch intent.Kind {
	case IntentStartLevel:
		p.startLevel(intent.Level)
	case IntentAnswerMCQ:
		if p.session != nil {
			p.session.AnswerMultipleChoice(intent.ChoiceIndex)
		}
	case IntentAnswerTF:
		if p.session != nil {
			p.session.AnswerTrueFalse(intent.Value)
		}
	case IntentNavPrev:
		if p.session != nil {
			p.session.NavigatePrevious()
		}
	case IntentNavNext:
		if p.session != nil {
			p.session.NavigateNext()
		}
	case IntentRetry:
		if p.session != nil {
			p.session.Retry()
		}
	case IntentNextLevel:
		if p.session != nil {
			p.session.NextLevel()
		}
	case IntentQuit:
		if p.session != nil {
			p.session.Quit()
		}
	default:
		p.sendError(fmt.Sprintf("unknown intent: %s", intent.Kind))
	}
}

func (p *player) startLevel(level int) {
	if level < 1 || level > p.progress.Unlocked() {
		p.sendError(fmt.Sprintf("level %d is locked", level))
		return
	}

	s := game.NewSession(game.SessionConfig{
		Level:     level,
		Levels:    p.handler.Levels,
		Questions: p.handler.Questions,
		Progress:  p.progress,
		View:      p,
		Director:  p,
		Events:    p.handler.Events,
		PlayerID:  p.playerID,
	})
	if s.Completed() && level >= p.handler.Levels.TotalLevels() {
		// The final level had no questions: AllLevelsComplete already
		// fired during construction and the player is back at the
		// level list. Keeping the finished session would shadow that.
		return
	}
	p.session = s
}

func (p *player) send(frame Frame) {
	ctx, cancel := context.WithTimeout(p.ctx, writeTimeout)
	defer cancel()

	if err := wsjson.Write(ctx, p.conn, frame); err != nil {
		slog.Warn("failed to send frame", "kind", frame.Kind, "error", err)
	}
}

func (p *player) sendError(msg string) {
	p.send(Frame{Kind: FrameError, Message: msg})
}

func (p *player) sendLevelList() {
	unlocked := p.progress.Unlocked()
	var list []LevelInfo
	for _, n := range p.handler.Levels.LevelNumbers() {
		list = append(list, LevelInfo{
			Number:   n,
			Unlocked: n <= unlocked,
			Stars:    p.progress.StarsFor(n),
		})
	}
	p.send(Frame{Kind: FrameLevelList, Levels: list})
}

// game.View implementation.

func (p *player) RenderQuestion(q catalog.Question, index, total int, review *game.Review) {
	payload := &QuestionPayload{
		ID:      q.ID,
		Type:    q.Type,
		Prompt:  q.Prompt,
		Options: q.Options,
	}
	frame := Frame{
		Kind:     FrameRenderQuestion,
		Question: payload,
		Index:    index,
		Total:    total,
	}
	if review != nil {
		frame.Review = &ReviewPayload{
			SelectedIndex: review.SelectedIndex,
			SelectedBool:  review.SelectedBool,
			IsCorrect:     review.IsCorrect,
			Feedback:      review.Feedback,
		}
	}
	p.send(frame)
}

func (p *player) SetNextEnabled(enabled bool) {
	p.send(Frame{Kind: FrameSetNextEnabled, Enabled: enabled})
}

func (p *player) MarkChoice(optionIndex int, isCorrect bool) {
	p.send(Frame{Kind: FrameMarkChoice, OptionIndex: optionIndex, IsCorrect: isCorrect})
}

func (p *player) SetFeedback(text string) {
	p.send(Frame{Kind: FrameSetFeedback, Feedback: text})
}

func (p *player) DisableChoices() {
	p.send(Frame{Kind: FrameDisableChoices})
}

func (p *player) LevelComplete(stars, score, total int) {
	p.send(Frame{Kind: FrameLevelComplete, Stars: stars, Score: score, Total: total})
}

// game.Director implementation.

func (p *player) AllLevelsComplete() {
	p.session = nil
	p.send(Frame{Kind: FrameAllLevelsComplete})
	p.sendLevelList()
}

func (p *player) ReplayLevel(level int) {
	p.startLevel(level)
}

func (p *player) QuitToLevels() {
	p.session = nil
	p.sendLevelList()
}
