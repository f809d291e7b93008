package devserver

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

type apiKeyRequest struct {
	APIKey string `json:"api_key"`
}

// handleSetAPIKey stores the submitted model-provider key in the scratch
// env file so a later restart can pick it up.
func (s *Server) handleSetAPIKey(w http.ResponseWriter, r *http.Request) {
	var payload apiKeyRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	key := strings.TrimSpace(payload.APIKey)
	if key == "" {
		respondError(w, http.StatusBadRequest, "api_key is required")
		return
	}

	if err := s.files.SaveAPIKey(key); err != nil {
		respondError(w, http.StatusInternalServerError, fmt.Sprintf("Error writing to .env: %v", err))
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "API key saved successfully!"})
}
