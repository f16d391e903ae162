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

// Message is one turn of the study conversation passed along as grading
// context.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// GradeResult is the model's assessment of a free-form answer. Score is
// clamped to [0, 100].
type GradeResult struct {
	Score          int    `json:"score"`
	Feedback       string `json:"feedback"`
	IdealAnswer    string `json:"ideal_answer"`
	AssistantReply string `json:"assistant_reply"`
}

// Grader scores a user's free-form answer against a card.
type Grader interface {
	GradeAnswer(ctx context.Context, question, expectedAnswer, userAnswer string, history []Message) (*GradeResult, error)
}

type openAIGrader struct {
	client *openai.Client
	model  string
}

// NewGrader creates a Grader backed by an OpenAI-compatible chat endpoint.
func NewGrader(cfg Config) Grader {
	return &openAIGrader{
		client: newClient(cfg),
		model:  cfg.Model,
	}
}

const graderSystemPrompt = `You are a strict but encouraging flashcard tutor. The user is answering a flashcard from memory. Compare their answer to the expected answer and respond with JSON only:

{"score": <integer 0-100>, "feedback": "<one or two sentences on what was right or missing>", "ideal_answer": "<a concise model answer>", "assistant_reply": "<a short conversational reply to the user>"}

Scoring guide: 0-39 the answer is wrong or blank, 40-59 shows partial recall with major gaps, 60-84 is mostly correct with minor gaps, 85-100 is complete and accurate. Judge meaning, not wording.`

func (g *openAIGrader) GradeAnswer(ctx context.Context, question, expectedAnswer, userAnswer string, history []Message) (*GradeResult, error) {
	log := logger.FromContext(ctx).WithPrefix("grader")

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	messages := []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: graderSystemPrompt},
	}
	for _, m := range history {
		messages = append(messages, openai.ChatCompletionMessage{Role: m.Role, Content: m.Content})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role: openai.ChatMessageRoleUser,
		Content: fmt.Sprintf("Question: %s\n\nExpected answer: %s\n\nUser's answer: %s",
			question, expectedAnswer, userAnswer),
	})

	req := openai.ChatCompletionRequest{
		Model:       g.model,
		Temperature: 0,
		Messages:    messages,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	}

	start := time.Now()
	resp, err := g.client.CreateChatCompletion(ctx, req)
	if err != nil {
		log.Error("grading request failed: %v", err)
		return nil, apperrors.NewUpstreamError("grader", err)
	}
	if len(resp.Choices) == 0 {
		return nil, apperrors.NewUpstreamError("grader", fmt.Errorf("empty response"))
	}

	content := stripCodeFence(resp.Choices[0].Message.Content)
	var result GradeResult
	if err := json.Unmarshal([]byte(content), &result); err != nil {
		log.Error("failed to parse grading response: %v", err)
		return nil, apperrors.NewUpstreamError("grader", fmt.Errorf("malformed grading response: %w", err))
	}

	if result.Score < 0 {
		result.Score = 0
	}
	if result.Score > 100 {
		result.Score = 100
	}

	log.Debug("answer graded: score=%d, latency=%dms, tokens=%d",
		result.Score, time.Since(start).Milliseconds(), resp.Usage.TotalTokens)
	return &result, nil
}
