package conversation

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"

	"docchat/internal/analysis/trigger"
	"docchat/internal/client"
	conv "docchat/internal/model/conversation"
)

var (
	// ErrEmptyMessage rejects blank input before any turn is created.
	ErrEmptyMessage = errors.New("conversation: message must not be empty")
	// ErrTurnInFlight rejects a submission while a previous reply is
	// still streaming. Turns are strictly serialized.
	ErrTurnInFlight = errors.New("conversation: a turn is already streaming")
)

// Backend is the slice of the API client the orchestrator needs.
type Backend interface {
	StreamChat(ctx context.Context, p client.ChatParams, onChunk func(cumulative string)) (string, error)
	FetchChartData(ctx context.Context, sessionID string) (*conv.ChartData, error)
}

// SessionProvider yields the per-client session identifier. An empty
// identifier with a nil error means "send unattributed".
type SessionProvider func() (string, error)

// Options tune a single Orchestrator.
type Options struct {
	Model    string
	FileType string
	// OnChunk observes every snapshot applied to the history, keyed by
	// turn index. Called synchronously from the consumption loop, so
	// snapshot order matches byte arrival order.
	OnChunk func(turn int, cumulative string)
}

// Result describes one completed turn.
type Result struct {
	TurnIndex int
	Content   string
	ChartData *conv.ChartData
}

// Orchestrator drives one turn at a time: append to history, stream the
// reply while overwriting the assistant snapshot, then fetch and merge chart
// data when the user's wording asked for one.
//
// Exactly one turn streams at any moment. That single-flight rule is what
// makes "attach the chart to the latest turn" race-free, so it is enforced
// here rather than left to UI gating.
type Orchestrator struct {
	backend Backend
	history *History
	session SessionProvider
	opts    Options

	mu       sync.Mutex
	inFlight bool
}

// NewOrchestrator wires the orchestrator. history may be shared with
// read-only renderers.
func NewOrchestrator(backend Backend, history *History, session SessionProvider, opts Options) *Orchestrator {
	return &Orchestrator{
		backend: backend,
		history: history,
		session: session,
		opts:    opts,
	}
}

// History exposes the store for read-only rendering.
func (o *Orchestrator) History() *History {
	return o.history
}

// Submit runs one full turn. It validates the input, appends a turn,
// streams the assistant reply into it and finally merges chart data. On a
// streaming error the turn keeps whatever content was last snapshotted. A
// chart fetch failure is logged and swallowed; the turn still succeeds.
func (o *Orchestrator) Submit(ctx context.Context, userText string) (Result, error) {
	text := strings.TrimSpace(userText)
	if text == "" {
		return Result{}, ErrEmptyMessage
	}

	if !o.begin() {
		return Result{}, ErrTurnInFlight
	}
	defer o.end()

	sessionID, err := o.session()
	if err != nil {
		return Result{}, fmt.Errorf("conversation: resolve session: %w", err)
	}

	idx := o.history.AppendTurn(text)

	final, err := o.backend.StreamChat(ctx, client.ChatParams{
		SessionID: sessionID,
		Message:   text,
		Model:     o.opts.Model,
		FileType:  o.opts.FileType,
	}, func(cumulative string) {
		// Snapshots replace the whole content; applied in arrival
		// order because this callback runs inside the read loop.
		_ = o.history.UpdateAssistantContent(idx, cumulative)
		if o.opts.OnChunk != nil {
			o.opts.OnChunk(idx, cumulative)
		}
	})
	if err != nil {
		// Content stays frozen at the last streamed snapshot.
		return Result{TurnIndex: idx}, err
	}

	// The stream may end without a trailing fragment; settle on the
	// final text either way.
	_ = o.history.UpdateAssistantContent(idx, final)

	result := Result{TurnIndex: idx, Content: final}

	if trigger.MatchesChartRequest(text) {
		payload, err := o.backend.FetchChartData(ctx, sessionID)
		if err != nil {
			log.Printf("[chart] fetch failed for session=%s: %v", sessionID, err)
		} else if !payload.Empty() {
			// Under single-flight, idx is still the latest turn.
			_ = o.history.AttachChartData(idx, payload)
			result.ChartData = payload
		}
	}

	return result, nil
}

func (o *Orchestrator) begin() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.inFlight {
		return false
	}
	o.inFlight = true
	return true
}

func (o *Orchestrator) end() {
	o.mu.Lock()
	o.inFlight = false
	o.mu.Unlock()
}
