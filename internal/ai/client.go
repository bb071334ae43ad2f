package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	defaultModel       = "gemini-2.5-flash"
	defaultBaseURL     = "https://generativelanguage.googleapis.com/v1beta/openai"
	defaultTemperature = 0.7
	defaultTimeout     = 60 * time.Second

	// errorBodyLimit caps how much of a failed response is quoted in the error.
	errorBodyLimit = 512
)

// Config selects the chat-completions endpoint used to generate suggestions.
// Zero values fall back to Gemini's OpenAI-compatible API.
type Config struct {
	APIKey      string
	Model       string
	BaseURL     string
	Temperature float64
	Timeout     time.Duration
	HTTPClient  *http.Client
}

// Client is a Generator backed by an OpenAI-compatible chat-completions API.
type Client struct {
	apiKey      string
	model       string
	baseURL     string
	temperature float64
	httpClient  *http.Client
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Temperature float64       `json:"temperature"`
	Messages    []chatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// NewClient validates cfg and applies defaults.
func NewClient(cfg Config) (*Client, error) {
	c := &Client{
		apiKey:      strings.TrimSpace(cfg.APIKey),
		model:       strings.TrimSpace(cfg.Model),
		baseURL:     strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		temperature: cfg.Temperature,
		httpClient:  cfg.HTTPClient,
	}
	if c.apiKey == "" {
		return nil, errors.New("ai: api key must not be empty")
	}
	if c.model == "" {
		c.model = defaultModel
	}
	if c.baseURL == "" {
		c.baseURL = defaultBaseURL
	}
	if c.temperature <= 0 {
		c.temperature = defaultTemperature
	}
	if c.httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		c.httpClient = &http.Client{Timeout: timeout}
	}
	return c, nil
}

// Model reports the model name requests are sent to.
func (c *Client) Model() string {
	return c.model
}

// Generate sends prompt as the only user message and returns the first reply
// exactly as the model wrote it.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", errors.New("ai: prompt must not be empty")
	}

	resp, err := c.complete(ctx, chatRequest{
		Model:       c.model,
		Temperature: c.temperature,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("ai: endpoint returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

func (c *Client) complete(ctx context.Context, request chatRequest) (chatResponse, error) {
	var out chatResponse

	body, err := json.Marshal(request)
	if err != nil {
		return out, fmt.Errorf("ai: encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return out, fmt.Errorf("ai: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return out, fmt.Errorf("ai: call %s: %w", c.model, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyLimit))
		return out, fmt.Errorf("ai: endpoint returned status %s: %s", resp.Status, strings.TrimSpace(string(snippet)))
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return out, fmt.Errorf("ai: decode response: %w", err)
	}
	return out, nil
}
