package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/robinbaebae/sprt/internal/claude/scanner"
)

const (
	anthropicBaseURL = "https://api.anthropic.com/v1"
	anthropicVersion = "2023-06-01"
	anthropicBeta    = "oauth-2025-04-20"

	// Model used for devlog summarization and rate-limit probes
	summaryModel = "claude-sonnet-4-20250514"

	summaryMaxTokens = 2048
)

// AnthropicService is a client for the Anthropic messages API authenticated
// with the local Claude OAuth token.
type AnthropicService struct {
	baseURL         string
	credentialsPath string
	client          *http.Client
}

// AnthropicMessage represents a message in the Anthropic API format
type AnthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// AnthropicRequest represents a request to the Anthropic API
type AnthropicRequest struct {
	Model     string             `json:"model"`
	MaxTokens int                `json:"max_tokens"`
	System    string             `json:"system,omitempty"`
	Messages  []AnthropicMessage `json:"messages"`
}

// AnthropicResponse represents a response from the Anthropic API
type AnthropicResponse struct {
	ID      string `json:"id"`
	Type    string `json:"type"`
	Role    string `json:"role"`
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Model string `json:"model"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// NewAnthropicService creates a client reading the bearer token from the
// given credentials file on every call, so a refreshed token is picked up
// without restarting.
func NewAnthropicService(credentialsPath string) *AnthropicService {
	return &AnthropicService{
		baseURL:         anthropicBaseURL,
		credentialsPath: credentialsPath,
		client: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// createMessage posts a single-turn request and returns the parsed body and
// response headers. The headers are returned even on API-level errors so
// rate-limit probes can read them.
func (s *AnthropicService) createMessage(system, prompt string, maxTokens int) (*AnthropicResponse, http.Header, error) {
	token, err := scanner.AccessToken(s.credentialsPath)
	if err != nil {
		return nil, nil, err
	}

	request := AnthropicRequest{
		Model:     summaryModel,
		MaxTokens: maxTokens,
		System:    system,
		Messages:  []AnthropicMessage{{Role: "user", Content: prompt}},
	}

	requestBody, err := json.Marshal(request)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequest("POST", s.baseURL+"/messages", bytes.NewBuffer(requestBody))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("anthropic-version", anthropicVersion)
	req.Header.Set("anthropic-beta", anthropicBeta)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("API call failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.Header, fmt.Errorf("failed to read response: %w", err)
	}

	var response AnthropicResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, resp.Header, fmt.Errorf("failed to parse response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		errMsg := "Unknown API error"
		if response.Error != nil && response.Error.Message != "" {
			errMsg = response.Error.Message
		}
		return nil, resp.Header, fmt.Errorf("API error (%d): %s", resp.StatusCode, errMsg)
	}

	return &response, resp.Header, nil
}

// Summarize sends a single-turn summarization request and returns the text
// of the first content block. Implements the Summarizer interface used by
// the devlog generator.
func (s *AnthropicService) Summarize(system, prompt string) (string, error) {
	response, _, err := s.createMessage(system, prompt, summaryMaxTokens)
	if err != nil {
		return "", err
	}

	if len(response.Content) == 0 || response.Content[0].Text == "" {
		return "", fmt.Errorf("no text in API response")
	}
	return response.Content[0].Text, nil
}

// ProbeRateLimits issues a minimal request solely to obtain the unified
// rate-limit response headers. API-level rejections still carry the headers
// we need, so only transport failures are errors.
func (s *AnthropicService) ProbeRateLimits() (http.Header, error) {
	_, headers, err := s.createMessage("", ".", 1)
	if headers != nil {
		return headers, nil
	}
	return nil, err
}
