package factory

import (
	"fmt"

	"github.com/molinerisit/wa-bot-sheets/pkg/llm"
	"github.com/molinerisit/wa-bot-sheets/pkg/llm/ollama"
	"github.com/molinerisit/wa-bot-sheets/pkg/llm/openai"
)

// NewLLMProvider builds the chat backend named by providerType.
func NewLLMProvider(providerType, modelName, baseURL, apiKey string) (llm.LLMProvider, error) {
	switch providerType {
	case "ollama":
		return ollama.NewOllamaProvider(baseURL, modelName), nil
	case "openai", "":
		if apiKey == "" {
			return nil, fmt.Errorf("openai provider requires an api key")
		}
		return openai.NewOpenAIProvider(apiKey, baseURL, modelName), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", providerType)
	}
}
