package game_test

import (
	"testing"

	"github.com/legends-trivia/trivia/internal/game"
)

func TestMemoryEventLogger_LogEvent(t *testing.T) {
	logger := game.NewMemoryEventLogger()

	err := logger.LogEvent(game.Event{
		PlayerID:  "p1",
		EventType: game.EventAnswerSubmitted,
		Data: map[string]any{
			"level":   1,
			"correct": true,
		},
	})
	if err != nil {
		t.Fatalf("LogEvent() error = %v", err)
	}

	events := logger.Events()
	if len(events) != 1 {
		t.Fatalf("len(events) = %d, want 1", len(events))
	}
	if events[0].EventType != game.EventAnswerSubmitted {
		t.Errorf("EventType = %q, want %q", events[0].EventType, game.EventAnswerSubmitted)
	}
	if events[0].CreatedAt.IsZero() {
		t.Error("CreatedAt should be set")
	}
}

func TestMemoryEventLogger_RequiresEventType(t *testing.T) {
	logger := game.NewMemoryEventLogger()

	if err := logger.LogEvent(game.Event{PlayerID: "p1"}); err == nil {
		t.Fatal("expected error for missing event type")
	}
}

func TestPostgresEventLogger_LogEvent_NilPool(t *testing.T) {
	logger := game.NewPostgresEventLogger(nil)

	err := logger.LogEvent(game.Event{
		PlayerID:  "p1",
		EventType: game.EventLevelCompleted,
	})
	if err == nil {
		t.Fatal("expected error for nil pool")
	}
}
