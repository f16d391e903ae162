package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sashabaranov/go-openai"

	apperrors "github.com/pvieira/flashdeck/internal/errors"
	"github.com/pvieira/flashdeck/internal/logger"
)

// DraftCard is one generated question/answer candidate.
type DraftCard struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Generator produces flashcard drafts from source material.
type Generator interface {
	GenerateCards(ctx context.Context, topic, material string, maxCards int) ([]DraftCard, error)
}

type openAIGenerator struct {
	client *openai.Client
	model  string
}

// NewGenerator creates a Generator backed by an OpenAI-compatible chat
// endpoint.
func NewGenerator(cfg Config) Generator {
	return &openAIGenerator{
		client: newClient(cfg),
		model:  cfg.Model,
	}
}

const generatorSystemPrompt = `You create flashcards from study material. Each card has a single focused question and a concise answer that stands on its own. Respond with JSON only:

{"cards": [{"question": "...", "answer": "..."}]}

Never exceed the requested number of cards. Skip trivia and filler; prefer the concepts a learner would actually need to recall.`

func (g *openAIGenerator) GenerateCards(ctx context.Context, topic, material string, maxCards int) ([]DraftCard, error) {
	log := logger.FromContext(ctx).WithPrefix("generator")

	ctx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	prompt := fmt.Sprintf("Topic: %s\n\nGenerate at most %d flashcards from this material:\n\n%s",
		topic, maxCards, material)

	req := openai.ChatCompletionRequest{
		Model:       g.model,
		Temperature: 0.3,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: generatorSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	}

	start := time.Now()
	resp, err := g.client.CreateChatCompletion(ctx, req)
	if err != nil {
		log.Error("generation request failed: %v", err)
		return nil, apperrors.NewUpstreamError("generator", err)
	}
	if len(resp.Choices) == 0 {
		return nil, apperrors.NewUpstreamError("generator", fmt.Errorf("empty response"))
	}

	content := stripCodeFence(resp.Choices[0].Message.Content)
	var parsed struct {
		Cards []DraftCard `json:"cards"`
	}
	if err := json.Unmarshal([]byte(content), &parsed); err != nil {
		log.Error("failed to parse generation response: %v", err)
		return nil, apperrors.NewUpstreamError("generator", fmt.Errorf("malformed generation response: %w", err))
	}

	cards := make([]DraftCard, 0, len(parsed.Cards))
	for _, c := range parsed.Cards {
		if c.Question == "" || c.Answer == "" {
			continue
		}
		cards = append(cards, c)
	}
	if len(cards) > maxCards {
		cards = cards[:maxCards]
	}

	log.Debug("generated %d drafts: latency=%dms, tokens=%d",
		len(cards), time.Since(start).Milliseconds(), resp.Usage.TotalTokens)
	return cards, nil
}
