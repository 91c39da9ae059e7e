package embedding

import "fmt"

// NewProvider picks the embedding backend configured by EMBEDDING_PROVIDER.
func NewProvider(providerType, apiKey, baseURL, model string) (EmbeddingProvider, error) {
	switch providerType {
	case "ollama":
		return NewOllamaProvider(baseURL, model), nil
	case "gemini":
		if apiKey == "" {
			return nil, fmt.Errorf("gemini embeddings require an api key")
		}
		return NewGeminiProvider(apiKey), nil
	case "openai", "jina", "":
		if apiKey == "" {
			return nil, fmt.Errorf("%s embeddings require an api key", providerType)
		}
		if providerType == "jina" && baseURL == "" {
			baseURL = "https://api.jina.ai/v1"
		}
		return NewOpenAIProvider(apiKey, baseURL, model), nil
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", providerType)
	}
}
