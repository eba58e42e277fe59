// Package gemini counts conversation buffer tokens with the Gemini
// tokenizer. It only ever calls the count-tokens endpoint; content
// generation is out of scope for this platform core.
package gemini

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"google.golang.org/genai"

	"github.com/parleylabs/parley/memory"
)

func init() {
	// Load .env file if it exists (not present in production)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}
}

const defaultModel = "gemini-2.0-flash"

// TokenCounter implements memory.TokenCounter against the Gemini API.
type TokenCounter struct {
	client *genai.Client
	Model  string
}

// NewTokenCounter creates a counter for the given model, falling back to a
// default model when empty. Reads GEMINI_API_KEY from the environment.
func NewTokenCounter(ctx context.Context, model string) (*TokenCounter, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is not set")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	if model == "" {
		model = defaultModel
	}
	return &TokenCounter{client: client, Model: model}, nil
}

// CountTokens reports the total token count of the message sequence under
// the model's tokenizer.
func (c *TokenCounter) CountTokens(ctx context.Context, messages []memory.PromptMessage) (int, error) {
	if len(messages) == 0 {
		return 0, nil
	}

	resp, err := c.client.Models.CountTokens(ctx, c.Model, ToContents(messages), nil)
	if err != nil {
		return 0, fmt.Errorf("failed to count tokens: %w", err)
	}
	return int(resp.TotalTokens), nil
}

// ToContents converts buffer messages to the genai content representation;
// assistant messages carry the "model" role.
func ToContents(messages []memory.PromptMessage) []*genai.Content {
	contents := make([]*genai.Content, 0, len(messages))
	for _, msg := range messages {
		role := genai.Role(genai.RoleUser)
		if msg.Role == memory.RoleAssistant {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(msg.Content, role))
	}
	return contents
}
