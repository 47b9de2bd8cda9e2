// ABOUTME: Optional OpenAI narration of scene interpretations
// ABOUTME: Presentation only; composing and listening never depend on it
package llm

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/malbsmeyer/equivocal/internal/models"
	"github.com/malbsmeyer/equivocal/internal/util"
)

// DefaultChatModel is the default model for narration
const DefaultChatModel = "gpt-4o-mini"

// ClientConfig holds configuration for the narration client
type ClientConfig struct {
	APIKey     string
	ChatModel  string
	Timeout    time.Duration
	MaxRetries int
	RetryDelay time.Duration
}

// DefaultConfig returns the default client configuration
func DefaultConfig(apiKey string) *ClientConfig {
	chatModel := os.Getenv("EQUIVOCAL_OPENAI_MODEL")
	if chatModel == "" {
		chatModel = DefaultChatModel
	}

	return &ClientConfig{
		APIKey:     apiKey,
		ChatModel:  chatModel,
		Timeout:    30 * time.Second,
		MaxRetries: 3,
		RetryDelay: time.Second * 2,
	}
}

// Narrator wraps the OpenAI API client with retry logic
type Narrator struct {
	client     *openai.Client
	chatModel  string
	timeout    time.Duration
	maxRetries int
	retryDelay time.Duration
}

// NewNarrator creates a new Narrator with the given API key using default configuration
func NewNarrator(apiKey string) (*Narrator, error) {
	return NewNarratorWithConfig(DefaultConfig(apiKey))
}

// NewNarratorWithConfig creates a new Narrator with custom configuration
func NewNarratorWithConfig(config *ClientConfig) (*Narrator, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	timeout := config.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Narrator{
		client:     openai.NewClient(config.APIKey),
		chatModel:  config.ChatModel,
		timeout:    timeout,
		maxRetries: config.MaxRetries,
		retryDelay: config.RetryDelay,
	}, nil
}

// Narrate turns an interpreted scene into a short prose description.
// The labels themselves stay authoritative; this only rewords them.
func (n *Narrator) Narrate(prompt string, interp models.Interpretation) (string, error) {
	systemPrompt := `You describe imagined soundscapes. Given a request and a set of
acoustic labels, write 2-3 sentences of plain prose describing how the
scene would sound. Stay faithful to the labels; do not invent sound
sources that contradict them. No lists, no headings.`

	var sb strings.Builder
	fmt.Fprintf(&sb, "Request: %s\n\nAcoustic labels:\n", prompt)
	for _, aspect := range interp.Aspects() {
		fmt.Fprintf(&sb, "- %s: %s\n", aspect.Name, aspect.Label)
	}
	userPrompt := sb.String()

	var lastErr error

	for attempt := 0; attempt <= n.maxRetries; attempt++ {
		if attempt > 0 {
			time.Sleep(util.CalculateBackoff(n.retryDelay, attempt))
		}

		ctx, cancel := context.WithTimeout(context.Background(), n.timeout)

		resp, err := n.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model: n.chatModel,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleSystem,
					Content: systemPrompt,
				},
				{
					Role:    openai.ChatMessageRoleUser,
					Content: userPrompt,
				},
			},
			Temperature: 0.7,
		})

		if err != nil {
			cancel()
			lastErr = fmt.Errorf("attempt %d: %w", attempt+1, err)
			continue
		}

		if len(resp.Choices) == 0 {
			cancel()
			lastErr = fmt.Errorf("attempt %d: no completion choices returned", attempt+1)
			continue
		}

		cancel()
		return strings.TrimSpace(resp.Choices[0].Message.Content), nil
	}

	return "", fmt.Errorf("failed to narrate after %d attempts: %w", n.maxRetries+1, lastErr)
}
