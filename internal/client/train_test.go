package client_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"

	"docchat/internal/client"
)

func TestStartTrainingAndStatus(t *testing.T) {
	started := false
	r := chi.NewRouter()
	r.Post("/api/train", func(w http.ResponseWriter, req *http.Request) {
		started = true
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"message": "Training process started in the background!"}`))
	})
	r.Get("/api/train/status", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status": "running", "message": "Training process is in progress..."}`))
	})
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	c, err := client.New(srv.URL)
	require.NoError(t, err)

	require.NoError(t, c.StartTraining(context.Background()))
	require.True(t, started)

	status, err := c.GetTrainingStatus(context.Background())
	require.NoError(t, err)
	require.Equal(t, "running", status.Status)
	require.False(t, status.Terminal())
}

func TestStartTrainingAlreadyRunning(t *testing.T) {
	r := chi.NewRouter()
	r.Post("/api/train", func(w http.ResponseWriter, req *http.Request) {
		http.Error(w, "Training is already in progress.", http.StatusBadRequest)
	})
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	c, err := client.New(srv.URL)
	require.NoError(t, err)

	err = c.StartTraining(context.Background())
	var statusErr *client.HTTPStatusError
	require.ErrorAs(t, err, &statusErr)
	require.Equal(t, http.StatusBadRequest, statusErr.StatusCode)
}

func TestWatchTrainingDeliversUntilTerminal(t *testing.T) {
	upgrader := websocket.Upgrader{}
	r := chi.NewRouter()
	r.Get("/api/train/ws", func(w http.ResponseWriter, req *http.Request) {
		conn, err := upgrader.Upgrade(w, req, nil)
		require.NoError(t, err)
		defer conn.Close()

		updates := []client.TrainingStatus{
			{Status: "running", Message: "Training process is in progress..."},
			{Status: "completed", Message: "Training process completed successfully!"},
			{Status: "running", Message: "should never be seen"},
		}
		for _, u := range updates {
			if err := conn.WriteJSON(u); err != nil {
				return
			}
		}
		// Hold the connection open; the client stops on its own.
		time.Sleep(200 * time.Millisecond)
	})
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	c, err := client.New(srv.URL)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	updates, err := c.WatchTraining(ctx)
	require.NoError(t, err)

	var got []client.TrainingStatus
	for u := range updates {
		got = append(got, u)
	}
	require.Len(t, got, 2)
	require.Equal(t, "running", got[0].Status)
	require.Equal(t, "completed", got[1].Status)
	require.True(t, got[1].Terminal())
}

func TestWatchTrainingStopsOnCancel(t *testing.T) {
	upgrader := websocket.Upgrader{}
	r := chi.NewRouter()
	r.Get("/api/train/ws", func(w http.ResponseWriter, req *http.Request) {
		conn, err := upgrader.Upgrade(w, req, nil)
		require.NoError(t, err)
		defer conn.Close()
		// Send nothing; wait for the client to hang up.
		_, _, _ = conn.ReadMessage()
	})
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	c, err := client.New(srv.URL)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	updates, err := c.WatchTraining(ctx)
	require.NoError(t, err)

	cancel()

	select {
	case _, open := <-updates:
		require.False(t, open, "channel should close after cancellation")
	case <-time.After(5 * time.Second):
		t.Fatal("updates channel did not close after cancellation")
	}
}
