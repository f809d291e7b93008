package devserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	conv "docchat/internal/model/conversation"
)

// handleChartData returns a deterministic sample payload in the production
// wire shape so chart plumbing can be exercised offline.
func (s *Server) handleChartData(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	if sessionID == "" {
		respondError(w, http.StatusNotFound, "chart data not found for session")
		return
	}

	respondJSON(w, http.StatusOK, conv.ChartData{
		PieChart: &conv.PieChart{
			Labels: []string{"Electronics", "Clothing", "Groceries"},
			Values: []float64{4200, 1800, 950},
		},
		BarChart: &conv.BarChart{
			Labels: []string{"Q1", "Q2", "Q3", "Q4"},
			Datasets: []conv.BarDataset{{
				Label:           "Numeric Summary",
				Data:            []float64{120, 340, 220, 510},
				BackgroundColor: "#8884d8",
			}},
		},
	})
}
