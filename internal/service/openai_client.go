package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"
)

const (
	defaultOpenAIBaseURL = "https://api.openai.com/v1"
	defaultOpenAIModel   = "gpt-4-turbo-preview"
	defaultOpenAITimeout = 30 * time.Second
)

// OpenAIClient реализует QuestionGenerator и FactChecker поверх
// OpenAI chat completions API
type OpenAIClient struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

// NewOpenAIClient создает новый клиент генерации вопросов
func NewOpenAIClient(apiKey, model, baseURL string, timeout time.Duration) *OpenAIClient {
	if model == "" {
		model = defaultOpenAIModel
	}
	if baseURL == "" {
		baseURL = defaultOpenAIBaseURL
	}
	if timeout <= 0 {
		timeout = defaultOpenAITimeout
	}
	return &OpenAIClient{
		apiKey:  apiKey,
		model:   model,
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model          string        `json:"model"`
	Messages       []chatMessage `json:"messages"`
	Temperature    float64       `json:"temperature"`
	ResponseFormat struct {
		Type string `json:"type"`
	} `json:"response_format"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// GenerateQuestions запрашивает у модели count вопросов по заданным
// категориям и сложности. Любая ошибка (сеть, auth, парсинг) возвращается
// вызывающему: обработка отказа - забота банка вопросов.
func (c *OpenAIClient) GenerateQuestions(ctx context.Context, categories []string, difficulty string, count int) ([]GeneratedQuestion, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("openai api key is not configured")
	}

	prompt := fmt.Sprintf(`Generate %d trivia questions for the following categories: %s.
Difficulty level: %s
Format the response as a JSON object {"questions": [...]} where each item has the structure:
{
  "content": "The question text",
  "options": [
    {"id": "a", "text": "Option A"},
    {"id": "b", "text": "Option B"},
    {"id": "c", "text": "Option C"},
    {"id": "d", "text": "Option D"}
  ],
  "correctAnswer": "a",
  "category": "Category Name",
  "explanation": "Brief explanation of the correct answer"
}`, count, strings.Join(categories, ", "), difficulty)

	content, err := c.chatCompletion(ctx, 0.8,
		"You are a trivia question generator. Generate interesting, accurate, and well-balanced trivia questions.",
		prompt)
	if err != nil {
		return nil, err
	}

	var parsed struct {
		Questions []GeneratedQuestion `json:"questions"`
	}
	if err := json.Unmarshal([]byte(content), &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse generated questions: %w", err)
	}
	if len(parsed.Questions) == 0 {
		return nil, fmt.Errorf("generator returned no questions")
	}

	return parsed.Questions, nil
}

// FactCheck запрашивает у модели вердикт о точности вопроса
func (c *OpenAIClient) FactCheck(ctx context.Context, question, answer, explanation string) (*FactCheckVerdict, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("openai api key is not configured")
	}

	prompt := fmt.Sprintf(`Please fact-check this trivia question and answer:
Question: %s
Answer: %s`, question, answer)
	if explanation != "" {
		prompt += fmt.Sprintf("\nExplanation: %s", explanation)
	}
	prompt += `

Provide your assessment in the following JSON format:
{
  "isAccurate": true/false,
  "confidence": 0.0-1.0,
  "details": "Your fact-checking notes",
  "suggestions": "Any corrections if needed"
}`

	content, err := c.chatCompletion(ctx, 0.2,
		"You are a fact-checker. Verify the accuracy of trivia questions and answers.",
		prompt)
	if err != nil {
		return nil, err
	}

	var verdict FactCheckVerdict
	if err := json.Unmarshal([]byte(content), &verdict); err != nil {
		return nil, fmt.Errorf("failed to parse fact-check verdict: %w", err)
	}

	return &verdict, nil
}

// chatCompletion выполняет один запрос к chat completions API и возвращает
// текст первого ответа модели
func (c *OpenAIClient) chatCompletion(ctx context.Context, temperature float64, system, user string) (string, error) {
	reqBody := chatCompletionRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Temperature: temperature,
	}
	reqBody.ResponseFormat.Type = "json_object"

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("openai request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Printf("[OpenAIClient] Запрос завершился со статусом %s", resp.Status)
		return "", fmt.Errorf("openai api error: %s", resp.Status)
	}

	var completion chatCompletionResponse
	if err := json.NewDecoder(resp.Body).Decode(&completion); err != nil {
		return "", fmt.Errorf("failed to decode openai response: %w", err)
	}
	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("openai returned no choices")
	}

	return completion.Choices[0].Message.Content, nil
}
