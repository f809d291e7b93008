package devserver

import (
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// TrainingState mirrors the status payload of the production backend.
type TrainingState struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// Trainer fakes the document indexing pipeline: one run at a time, with
// progress pushed to every connected websocket client.
type Trainer struct {
	stepDelay time.Duration

	mu      sync.Mutex
	state   TrainingState
	running bool

	connMu sync.Mutex
	conns  map[*websocket.Conn]struct{}

	upgrader websocket.Upgrader
}

// NewTrainer creates an idle trainer. stepDelay spaces out the fake pipeline
// steps; tests pass zero.
func NewTrainer(stepDelay time.Duration) *Trainer {
	return &Trainer{
		stepDelay: stepDelay,
		state:     TrainingState{Status: "idle", Message: ""},
		conns:     make(map[*websocket.Conn]struct{}),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Start kicks off a fake run in the background. It reports whether a new
// run was started.
func (t *Trainer) Start(hasDocuments bool) bool {
	t.mu.Lock()
	if t.running {
		t.mu.Unlock()
		return false
	}
	t.running = true
	t.mu.Unlock()

	go t.run(hasDocuments)
	return true
}

func (t *Trainer) run(hasDocuments bool) {
	t.setState(TrainingState{Status: "running", Message: "Training process is in progress..."})

	if t.stepDelay > 0 {
		time.Sleep(t.stepDelay)
	}

	final := TrainingState{Status: "completed", Message: "Training process completed successfully!"}
	if !hasDocuments {
		final = TrainingState{Status: "empty", Message: "No documents found. Upload files before training."}
	}

	t.mu.Lock()
	t.running = false
	t.mu.Unlock()
	t.setState(final)
}

// State returns the latest status.
func (t *Trainer) State() TrainingState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

func (t *Trainer) setState(state TrainingState) {
	t.mu.Lock()
	t.state = state
	t.mu.Unlock()
	t.broadcast(state)
}

func (t *Trainer) broadcast(state TrainingState) {
	t.connMu.Lock()
	defer t.connMu.Unlock()

	for conn := range t.conns {
		if err := conn.WriteJSON(state); err != nil {
			_ = conn.Close()
			delete(t.conns, conn)
		}
	}
}

// handleFeed upgrades the connection and pushes every status transition
// until the peer hangs up. A run already in progress is reported right away.
func (t *Trainer) handleFeed(w http.ResponseWriter, r *http.Request) {
	conn, err := t.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[train] websocket upgrade failed: %v", err)
		return
	}

	// Replay the current state only while a run is in progress. Finished
	// runs are never replayed: a stale terminal status would end a
	// subscription opened to watch the next run. Send and registration
	// happen under connMu so no transition broadcast between them is lost.
	t.connMu.Lock()
	if state := t.State(); state.Status == "running" {
		if err := conn.WriteJSON(state); err != nil {
			t.connMu.Unlock()
			_ = conn.Close()
			return
		}
	}
	t.conns[conn] = struct{}{}
	t.connMu.Unlock()

	// Drain reads to notice the peer closing.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				t.connMu.Lock()
				delete(t.conns, conn)
				t.connMu.Unlock()
				_ = conn.Close()
				return
			}
		}
	}()
}

func (s *Server) handleStartTraining(w http.ResponseWriter, r *http.Request) {
	if !s.trainer.Start(s.files.HasAny()) {
		respondError(w, http.StatusBadRequest, "Training is already in progress.")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{
		"message": "Training process started in the background!",
	})
}

func (s *Server) handleTrainingStatus(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.trainer.State())
}
