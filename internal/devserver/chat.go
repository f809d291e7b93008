package devserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"
)

type chatRequest struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
	Model     string `json:"model"`
}

// handleChat streams the assistant reply as raw text chunks over a chunked
// response body, matching the production backend's wire contract.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var payload chatRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(payload.Message) == "" {
		respondError(w, http.StatusBadRequest, "message is required")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		respondError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")

	if s.ai != nil {
		s.streamModelReply(w, flusher, r, payload)
		return
	}
	s.streamCannedReply(w, flusher, payload)
}

func (s *Server) streamModelReply(w http.ResponseWriter, flusher http.Flusher, r *http.Request, payload chatRequest) {
	modelStream, err := s.ai.Stream(r.Context(), payload.Message)
	if err != nil {
		log.Printf("[chat] model stream failed for session=%s: %v", payload.SessionID, err)
		respondError(w, http.StatusInternalServerError, "model unavailable")
		return
	}
	defer modelStream.Close()

	for {
		chunk, recvErr := modelStream.Recv()
		if errors.Is(recvErr, io.EOF) {
			return
		}
		if recvErr != nil {
			// Headers are already on the wire; all we can do is stop.
			log.Printf("[chat] model stream interrupted for session=%s: %v", payload.SessionID, recvErr)
			return
		}
		if chunk == nil || chunk.Content == "" {
			continue
		}
		if _, err := fmt.Fprint(w, chunk.Content); err != nil {
			return
		}
		flusher.Flush()
	}
}

// streamCannedReply produces a deterministic word-by-word stream so the CLI
// and the tests can exercise incremental rendering offline.
func (s *Server) streamCannedReply(w http.ResponseWriter, flusher http.Flusher, payload chatRequest) {
	reply := cannedReply(payload.Message, s.files.HasAny())

	words := strings.Split(reply, " ")
	for i, word := range words {
		chunk := word
		if i < len(words)-1 {
			chunk += " "
		}
		if _, err := fmt.Fprint(w, chunk); err != nil {
			return
		}
		flusher.Flush()
		if s.chunkDelay > 0 {
			time.Sleep(s.chunkDelay)
		}
	}
}

func cannedReply(message string, trained bool) string {
	if !trained {
		return "I don't have any context to answer this query. " +
			"Please provide training materials on this topic and try again."
	}
	return fmt.Sprintf("Here is what the documents say about %q: "+
		"this stub backend has no model configured, so treat this text as a placeholder reply.", message)
}
