package conversation_test

import (
	"errors"
	"reflect"
	"testing"

	conv "docchat/internal/model/conversation"
	conversation "docchat/internal/service/conversation"
)

func TestAppendTurnCreatesStablePair(t *testing.T) {
	h := conversation.NewHistory()

	idx := h.AppendTurn("hello")
	if idx != 0 {
		t.Fatalf("first index: got %d want 0", idx)
	}

	turn, err := h.Turn(idx)
	if err != nil {
		t.Fatalf("Turn err: %v", err)
	}
	if turn.User.Role != conv.RoleUser || turn.User.Content != "hello" {
		t.Fatalf("unexpected user message: %+v", turn.User)
	}
	if turn.Assistant.Role != conv.RoleAssistant || turn.Assistant.Content != "" {
		t.Fatalf("assistant message should start empty: %+v", turn.Assistant)
	}
}

func TestUpdateAssistantContentLeavesOtherTurnsUntouched(t *testing.T) {
	h := conversation.NewHistory()

	first := h.AppendTurn("first question")
	if err := h.UpdateAssistantContent(first, "first answer"); err != nil {
		t.Fatalf("update err: %v", err)
	}
	before, _ := h.Turn(first)

	second := h.AppendTurn("second question")
	for _, snapshot := range []string{"par", "partial", "partial answer"} {
		if err := h.UpdateAssistantContent(second, snapshot); err != nil {
			t.Fatalf("update err: %v", err)
		}
	}

	if h.Len() != 2 {
		t.Fatalf("history length: got %d want 2", h.Len())
	}
	after, _ := h.Turn(first)
	if !reflect.DeepEqual(before, after) {
		t.Fatalf("earlier turn changed: %+v vs %+v", before, after)
	}
	latest, _ := h.Turn(second)
	if latest.Assistant.Content != "partial answer" {
		t.Fatalf("latest snapshot not applied: %q", latest.Assistant.Content)
	}
}

func TestUpdatePreservesChartDataAndViceVersa(t *testing.T) {
	h := conversation.NewHistory()
	idx := h.AppendTurn("show pie chart")

	payload := &conv.ChartData{PieChart: &conv.PieChart{Labels: []string{"A"}, Values: []float64{1}}}
	if err := h.AttachChartData(idx, payload); err != nil {
		t.Fatalf("attach err: %v", err)
	}
	if err := h.UpdateAssistantContent(idx, "late snapshot"); err != nil {
		t.Fatalf("update err: %v", err)
	}

	turn, _ := h.Turn(idx)
	if turn.Assistant.ChartData == nil || turn.Assistant.ChartData.PieChart == nil {
		t.Fatal("chart data lost by content update")
	}
	if turn.Assistant.Content != "late snapshot" {
		t.Fatalf("content lost by chart attach: %q", turn.Assistant.Content)
	}
}

func TestInvalidIndexErrors(t *testing.T) {
	h := conversation.NewHistory()
	h.AppendTurn("only turn")

	if err := h.UpdateAssistantContent(5, "x"); !errors.Is(err, conversation.ErrTurnOutOfRange) {
		t.Fatalf("expected ErrTurnOutOfRange, got %v", err)
	}
	if err := h.AttachChartData(-1, nil); !errors.Is(err, conversation.ErrTurnOutOfRange) {
		t.Fatalf("expected ErrTurnOutOfRange, got %v", err)
	}
	if _, err := h.Turn(1); !errors.Is(err, conversation.ErrTurnOutOfRange) {
		t.Fatalf("expected ErrTurnOutOfRange, got %v", err)
	}
}

func TestTurnsReturnsIndependentSlice(t *testing.T) {
	h := conversation.NewHistory()
	idx := h.AppendTurn("q")
	_ = h.UpdateAssistantContent(idx, "a")

	snapshot := h.Turns()
	snapshot[0].Assistant.Content = "mutated"

	turn, _ := h.Turn(idx)
	if turn.Assistant.Content != "a" {
		t.Fatalf("store mutated through snapshot: %q", turn.Assistant.Content)
	}
}
