package seller

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Jamolkhon5/negotiator/internal/models"
)

// ErrUnavailable означает, что внешний генератор реплик недоступен.
// Вызывающий код подставляет FallbackReply и продолжает сессию.
var ErrUnavailable = errors.New("seller generator unavailable")

const mistralEndpoint = "https://api.mistral.ai/v1/chat/completions"

// Generator - узкий контракт генератора реплик продавца. Логика
// валидации и оценки никогда не зависит от того, как получен текст.
type Generator interface {
	Reply(ctx context.Context, params *models.SellerParameters, history []models.ConversationTurn, state models.NegotiationState, userInput string) (string, error)
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// MistralGenerator ходит в Mistral API за репликой продавца.
type MistralGenerator struct {
	apiKey    string
	modelName string
	endpoint  string
	client    *http.Client
}

func NewMistralGenerator(apiKey, modelName string, timeout time.Duration) *MistralGenerator {
	return &MistralGenerator{
		apiKey:    apiKey,
		modelName: modelName,
		endpoint:  mistralEndpoint,
		client:    &http.Client{Timeout: timeout},
	}
}

// Reply строит промпт из закрытых параметров и истории и запрашивает
// следующую реплику продавца. Ответ прогоняется через пост-обработку.
func (g *MistralGenerator) Reply(ctx context.Context, params *models.SellerParameters, history []models.ConversationTurn, state models.NegotiationState, userInput string) (string, error) {
	messages := make([]chatMessage, 0, len(history)+2)
	messages = append(messages, chatMessage{Role: "system", Content: buildSystemPrompt(params, state)})
	for _, turn := range history {
		messages = append(messages, chatMessage{Role: turn.Role, Content: turn.Content})
	}
	messages = append(messages, chatMessage{Role: models.RoleUser, Content: userInput})

	requestBody := map[string]interface{}{
		"model":    g.modelName,
		"messages": messages,
	}

	jsonData, err := json.Marshal(requestBody)
	if err != nil {
		return "", fmt.Errorf("error marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("error creating request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.apiKey)

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: error reading response: %v", ErrUnavailable, err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: status %d, body: %s", ErrUnavailable, resp.StatusCode, string(body))
	}

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}

	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("%w: error unmarshaling response: %v, body: %s", ErrUnavailable, err, string(body))
	}

	if len(result.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices in response, body: %s", ErrUnavailable, string(body))
	}

	reply := CleanReply(result.Choices[0].Message.Content)
	return EnforceConcise(reply, 3), nil
}
