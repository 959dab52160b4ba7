package ai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/genbuddy/GenBuddy/internal/pkg/env"
)

const (
	defaultBaseURL   = "https://api.anthropic.com"
	defaultModel     = "claude-sonnet-4-20250514"
	defaultMaxTokens = 2048
	apiVersion       = "2023-06-01"
)

// ErrUnavailable marks transient provider failures (timeouts, 5xx) after the
// retry budget is exhausted. Callers map it to 502 and must not record usage.
var ErrUnavailable = errors.New("ai: provider unavailable")

// Client talks to the model provider's messages API. All tool routes share a
// single instance.
type Client struct {
	APIKey    string
	BaseURL   string
	Model     string
	MaxTokens int

	HTTPClient *http.Client
}

// NewClientFromEnv builds a client from AI_* environment configuration. The
// request timeout is the per-call budget; a timed-out call counts as failed
// and is never charged to the user.
func NewClientFromEnv() *Client {
	timeout := 60 * time.Second
	if v, err := strconv.Atoi(env.GetEnv("AI_TIMEOUT_SECONDS", "")); err == nil && v > 0 {
		timeout = time.Duration(v) * time.Second
	}
	maxTokens := defaultMaxTokens
	if v, err := strconv.Atoi(env.GetEnv("AI_MAX_TOKENS", "")); err == nil && v > 0 {
		maxTokens = v
	}

	return &Client{
		APIKey:    strings.TrimSpace(env.GetEnv("AI_API_KEY", "")),
		BaseURL:   strings.TrimRight(env.GetEnv("AI_BASE_URL", defaultBaseURL), "/"),
		Model:     strings.TrimSpace(env.GetEnv("AI_MODEL", defaultModel)),
		MaxTokens: maxTokens,
		HTTPClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Complete sends one conversation to the provider. Transient failures
// (timeout, 5xx, 429) are retried exactly once; everything else surfaces
// immediately.
func (c *Client) Complete(ctx context.Context, system string, messages []Message) (*Result, error) {
	if strings.TrimSpace(c.APIKey) == "" {
		return nil, errors.New("AI_API_KEY is not configured")
	}
	if len(messages) == 0 {
		return nil, errors.New("ai: at least one message is required")
	}

	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		result, retryable, err := c.doComplete(ctx, system, messages)
		if err == nil {
			return result, nil
		}
		lastErr = err
		if !retryable || ctx.Err() != nil {
			return nil, err
		}
	}
	return nil, lastErr
}

func (c *Client) doComplete(ctx context.Context, system string, messages []Message) (*Result, bool, error) {
	payload := messagesRequest{
		Model:     c.Model,
		MaxTokens: c.MaxTokens,
		System:    system,
		Messages:  messages,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, false, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/v1/messages", bytes.NewReader(body))
	if err != nil {
		return nil, false, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.APIKey)
	req.Header.Set("anthropic-version", apiVersion)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		// Transport errors and client timeouts are worth one retry.
		return nil, true, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
		return nil, true, fmt.Errorf("%w: status=%d body=%s", ErrUnavailable, resp.StatusCode, truncate(raw, 512))
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, false, fmt.Errorf("ai: request rejected: status=%d body=%s", resp.StatusCode, truncate(raw, 512))
	}

	var out messagesResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, false, fmt.Errorf("ai: invalid response: %w", err)
	}

	var text strings.Builder
	for _, block := range out.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	if text.Len() == 0 {
		return nil, false, errors.New("ai: response contained no text content")
	}

	return &Result{
		Text:       text.String(),
		Model:      out.Model,
		StopReason: out.StopReason,
		Usage:      out.Usage,
	}, false, nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}

const (
	documentSystemPrompt = "You are a genealogy assistant. Transcribe the supplied historical document, then summarize names, dates, places and relationships it mentions."
	dnaSystemPrompt      = "You are a genealogy assistant. Interpret the supplied DNA ethnicity or match data and explain what it suggests about the person's ancestry."
	photoSystemPrompt    = "You are a genealogy assistant. Estimate when the supplied photograph was taken and describe clothing, setting and other context clues."
	researchSystemPrompt = "You are a genealogy research assistant. Answer the question with concrete record types, archives and search strategies."
)

// AnalyzeDocument transcribes and summarizes an uploaded document. Image
// uploads go through the vision endpoint; plain text is sent as-is.
func (c *Client) AnalyzeDocument(ctx context.Context, mimeType string, data []byte, hint string) (*Result, error) {
	instruction := "Transcribe and analyze this document."
	if strings.TrimSpace(hint) != "" {
		instruction += " Context from the user: " + strings.TrimSpace(hint)
	}

	var messages []Message
	if strings.HasPrefix(mimeType, "image/") {
		messages = VisionMessage(mimeType, base64.StdEncoding.EncodeToString(data), instruction)
	} else {
		messages = TextMessage(instruction + "\n\n" + string(data))
	}
	return c.Complete(ctx, documentSystemPrompt, messages)
}

// AnalyzeDNA interprets pasted DNA ethnicity/match text.
func (c *Client) AnalyzeDNA(ctx context.Context, raw string) (*Result, error) {
	return c.Complete(ctx, dnaSystemPrompt, TextMessage(raw))
}

// AnalyzePhoto dates and describes an uploaded photograph.
func (c *Client) AnalyzePhoto(ctx context.Context, mimeType string, data []byte) (*Result, error) {
	messages := VisionMessage(mimeType, base64.StdEncoding.EncodeToString(data), "Analyze this photograph.")
	return c.Complete(ctx, photoSystemPrompt, messages)
}

// Research answers a free-form genealogy research question.
func (c *Client) Research(ctx context.Context, question string) (*Result, error) {
	return c.Complete(ctx, researchSystemPrompt, TextMessage(question))
}
