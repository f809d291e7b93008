// Package conversation owns the ordered turn history and the orchestration
// of one chat turn from submission to chart merge.
package conversation

import (
	"errors"
	"sync"

	conv "docchat/internal/model/conversation"
)

// ErrTurnOutOfRange flags an index that addresses no stored turn.
var ErrTurnOutOfRange = errors.New("conversation: turn index out of range")

// History is the ordered record of conversation turns. Insertion order is
// submission order; turns are never removed. All mutation goes through the
// three methods below so that a streaming turn can only ever be advanced,
// never reshaped.
type History struct {
	mu    sync.RWMutex
	turns []conv.Turn
}

// NewHistory creates an empty history.
func NewHistory() *History {
	return &History{turns: make([]conv.Turn, 0, 16)}
}

// AppendTurn creates a new turn from the user's text with an empty assistant
// reply and returns its index.
func (h *History) AppendTurn(userText string) int {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.turns = append(h.turns, conv.Turn{
		User:      conv.Message{Role: conv.RoleUser, Content: userText},
		Assistant: conv.Message{Role: conv.RoleAssistant, Content: ""},
	})
	return len(h.turns) - 1
}

// UpdateAssistantContent replaces the assistant content of the addressed
// turn with the full snapshot text. Role and any attached chart data are
// left untouched; no other turn changes.
func (h *History) UpdateAssistantContent(idx int, fullText string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if idx < 0 || idx >= len(h.turns) {
		return ErrTurnOutOfRange
	}
	h.turns[idx].Assistant.Content = fullText
	return nil
}

// AttachChartData sets the chart payload on the addressed turn's assistant
// message, preserving its content.
func (h *History) AttachChartData(idx int, payload *conv.ChartData) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if idx < 0 || idx >= len(h.turns) {
		return ErrTurnOutOfRange
	}
	h.turns[idx].Assistant.ChartData = payload
	return nil
}

// Len returns the number of turns.
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.turns)
}

// Turn returns a copy of the turn at idx.
func (h *History) Turn(idx int) (conv.Turn, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if idx < 0 || idx >= len(h.turns) {
		return conv.Turn{}, ErrTurnOutOfRange
	}
	return h.turns[idx], nil
}

// Turns returns a copy of the full history for rendering. Chart payloads are
// shared by reference; they are immutable once attached.
func (h *History) Turns() []conv.Turn {
	h.mu.RLock()
	defer h.mu.RUnlock()

	copied := make([]conv.Turn, len(h.turns))
	copy(copied, h.turns)
	return copied
}
