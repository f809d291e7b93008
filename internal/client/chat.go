package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"docchat/internal/stream"
)

// ErrNoStreamBody indicates the chat response carried no streamable body.
// It is fatal for the current turn.
var ErrNoStreamBody = errors.New("client: no streaming body in chat response")

// ChatParams identifies one chat turn. SessionID may be empty when the
// identifier is still unresolved; the backend then treats the request as
// unattributed. Message must be validated non-empty by the caller.
type ChatParams struct {
	SessionID string
	Message   string
	Model     string
	FileType  string
}

type chatRequest struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
	Model     string `json:"model"`
}

// StreamChat issues one chat request and drives the response stream to
// completion. For every decoded fragment it invokes onChunk with the running
// concatenation of all fragments seen so far, never the raw delta, so the
// consumer can simply overwrite its stored content. The final snapshot is
// also returned.
//
// On a mid-stream transport error the text accumulated up to that point is
// returned alongside the error.
func (c *Client) StreamChat(ctx context.Context, p ChatParams, onChunk func(cumulative string)) (string, error) {
	body, err := json.Marshal(chatRequest{
		SessionID: p.SessionID,
		Message:   p.Message,
		Model:     p.Model,
	})
	if err != nil {
		return "", fmt.Errorf("client: marshal chat request: %w", err)
	}

	url := fmt.Sprintf("%s/api/%s/chat", c.baseURL, p.FileType)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("client: create chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.do(req)
	if err != nil {
		return "", fmt.Errorf("client: chat request failed: %w", err)
	}

	if res.Body == nil || res.Body == http.NoBody {
		if res.Body != nil {
			_ = res.Body.Close()
		}
		return "", ErrNoStreamBody
	}

	dec := stream.NewDecoder(res.Body)
	defer dec.Close()

	var full string
	for {
		frag, err := dec.Next()
		if errors.Is(err, io.EOF) {
			return full, nil
		}
		if err != nil {
			return full, fmt.Errorf("client: chat stream interrupted: %w", err)
		}
		full += frag
		if onChunk != nil {
			onChunk(full)
		}
	}
}
