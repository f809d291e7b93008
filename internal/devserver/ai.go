package devserver

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"docchat/internal/config"
)

const stubSystemPrompt = "You are an AI assistant answering questions about the user's uploaded documents. " +
	"Keep answers short; this is a development environment without document retrieval."

// ModelStreamer streams replies from the configured Ark model through a
// prompt-template chain.
type ModelStreamer struct {
	chain compose.Runnable[map[string]any, *schema.Message]
}

// NewModelStreamer builds the chain. It fails when the Ark credentials are
// missing; callers treat that as "run with canned replies".
func NewModelStreamer(ctx context.Context, cfg config.AIConfig) (*ModelStreamer, error) {
	chatModel, err := cfg.NewChatModel(ctx)
	if err != nil {
		return nil, fmt.Errorf("create chat model: %w", err)
	}

	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage("{system}"),
		schema.UserMessage("{query}"),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("compile chat chain: %w", err)
	}

	return &ModelStreamer{chain: runnable}, nil
}

// Stream opens a model stream for one user query.
func (m *ModelStreamer) Stream(ctx context.Context, query string) (*schema.StreamReader[*schema.Message], error) {
	return m.chain.Stream(ctx, map[string]any{
		"system": stubSystemPrompt,
		"query":  query,
	})
}
