package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"codex_cli/pkg/config"
	"codex_cli/pkg/logging"
	"codex_cli/pkg/tokens"
	"codex_cli/pkg/version"

	"github.com/google/uuid"
)

// maxErrorBody caps how much of a failed reply is kept for the error message.
const maxErrorBody = 64 << 10

// Client dispatches prompts to an Ollama-compatible generate endpoint.
type Client struct {
	URL       string
	APIKeyEnv string
	// MaxPromptTokens bounds the prompt estimate; zero skips the check.
	MaxPromptTokens int
	HTTPClient      *http.Client
	UserAgent       string
	Retry           Policy

	// Getenv resolves the credential; defaults to os.Getenv.
	Getenv func(string) string
	Logger *slog.Logger
}

// NewClient creates a client from configuration.
// The HTTP client bounds the wait for response headers only, so long
// generations are not cut off mid-stream.
func NewClient(cfg config.Config) *Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.ResponseHeaderTimeout = time.Duration(cfg.API.TimeoutSeconds) * time.Second

	return &Client{
		URL:             cfg.API.URL,
		APIKeyEnv:       cfg.API.APIKeyEnv,
		MaxPromptTokens: cfg.API.MaxPromptTokens,
		HTTPClient:      &http.Client{Transport: transport},
		UserAgent:       "codex/" + version.Summary(),
		Retry: Policy{
			MaxAttempts: cfg.Retry.MaxAttempts,
			Delay:       time.Duration(cfg.Retry.DelaySeconds) * time.Second,
		},
	}
}

// Dispatch validates the prompt, resolves the credential and sends the
// request, retrying transport and API failures per the client's policy.
// Budget and credential failures return before any network call.
func (c *Client) Dispatch(ctx context.Context, req PromptRequest) (*Response, error) {
	logger := c.logger()

	if strings.TrimSpace(req.Text) == "" {
		return nil, ErrEmptyPrompt
	}
	if c.MaxPromptTokens > 0 {
		if _, err := tokens.Validate(req.Text, c.MaxPromptTokens); err != nil {
			logger.Warn("dispatch_budget_exceeded", "error", err)
			return nil, err
		}
	}

	keyVar := c.APIKeyEnv
	if keyVar == "" {
		keyVar = config.DefaultAPIKeyEnv
	}
	apiKey := c.getenv(keyVar)
	if apiKey == "" {
		return nil, &MissingCredentialError{Var: keyVar}
	}

	body, err := json.Marshal(generateRequest{
		Model:  req.Model,
		Prompt: req.Text,
		Stream: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	requestID := uuid.NewString()
	logger = logger.With("request_id", requestID)

	if logger.Enabled(ctx, logging.LevelTrace) {
		logger.Log(ctx, logging.LevelTrace, "dispatch_request_body",
			"api_key", maskKey(apiKey),
			"json", string(body))
	}

	policy := c.Retry
	if policy.MaxAttempts == 0 {
		policy = DefaultPolicy()
	}
	onRetry := policy.OnRetry
	policy.OnRetry = func(attempt int, err error) {
		logger.Warn("dispatch_retry", "attempt", attempt, "delay", policy.Delay, "error", err)
		if onRetry != nil {
			onRetry(attempt, err)
		}
	}

	started := time.Now()
	resp, err := Retry(ctx, policy, IsRetryable, func(ctx context.Context, attempt int) (*Response, error) {
		logger.Debug("dispatch_attempt",
			"attempt", attempt,
			"url", c.URL,
			"model", req.Model,
			"prompt_tokens_estimate", tokens.Estimate(req.Text))

		httpResp, err := c.send(ctx, body, apiKey, requestID)
		if err != nil {
			return nil, err
		}
		return &Response{
			Body:       httpResp.Body,
			StatusCode: httpResp.StatusCode,
			Attempts:   attempt,
			RequestID:  requestID,
		}, nil
	})
	if err != nil {
		logger.Error("dispatch_failed", "error", err, "elapsed", time.Since(started))
		return nil, err
	}

	logger.Debug("dispatch_connected",
		"status_code", resp.StatusCode,
		"attempts", resp.Attempts,
		"elapsed", time.Since(started))
	return resp, nil
}

// send performs a single attempt. The response body is left open for the
// caller on success.
func (c *Client) send(ctx context.Context, body []byte, apiKey, requestID string) (*http.Response, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Authorization", "Bearer "+apiKey)
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/x-ndjson")
	httpReq.Header.Set("X-Request-Id", requestID)
	if c.UserAgent != "" {
		httpReq.Header.Set("User-Agent", c.UserAgent)
	}

	resp, err := c.httpClient().Do(httpReq)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, &TransportError{Op: "failed to send request", Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		data, readErr := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		if readErr != nil && ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(data)),
		}
	}

	return resp, nil
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return http.DefaultClient
}

func (c *Client) getenv(key string) string {
	if c.Getenv != nil {
		return c.Getenv(key)
	}
	return os.Getenv(key)
}

func (c *Client) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}

func maskKey(key string) string {
	if len(key) <= 8 {
		return "***"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
