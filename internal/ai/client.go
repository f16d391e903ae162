package ai

import (
	"regexp"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// Config holds the connection settings shared by the grading and
// generation clients. BaseURL lets deployments point at any
// OpenAI-compatible endpoint.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
}

func newClient(cfg Config) *openai.Client {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}
	return openai.NewClientWithConfig(clientConfig)
}

var codeBlockRe = regexp.MustCompile("```(?:json)?\\s*([\\s\\S]*?)\\s*```")

// stripCodeFence unwraps a markdown code block if the model wrapped its
// JSON output in one despite the response format hint.
func stripCodeFence(content string) string {
	content = strings.TrimSpace(content)
	if strings.HasPrefix(content, "```") {
		if matches := codeBlockRe.FindStringSubmatch(content); len(matches) > 1 {
			return matches[1]
		}
	}
	return content
}
