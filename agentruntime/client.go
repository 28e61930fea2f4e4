package agentruntime

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/EDT-Partners-Tech/oss-lecture-backend-sub000/config"
	"github.com/EDT-Partners-Tech/oss-lecture-backend-sub000/types"
)

// Invoker issues one invoke or resume call against the agent runtime
// and returns the materialized event stream.
type Invoker interface {
	Invoke(ctx context.Context, req *InvokeRequest) (*InvokeResponse, error)
}

// Client is the HTTP implementation of Invoker.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient builds a Client from configuration. A zero timeout leaves
// the request bounded only by the caller's context.
func NewClient(cfg config.AgentRuntimeConfig, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger.With(zap.String("component", "agentruntime")),
	}
}

// Invoke posts the request to the runtime and decodes the completion
// events. The same endpoint serves both fresh invokes and resumes; a
// resume is distinguished purely by the body carrying an invocationId
// and tool results.
func (c *Client) Invoke(ctx context.Context, req *InvokeRequest) (*InvokeResponse, error) {
	if req.AgentID == "" || req.AliasID == "" {
		return nil, types.NewError(types.ErrInvalidRequest, "agent id and alias id are required")
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, types.NewError(types.ErrInternalError, "marshal invoke request").WithCause(err)
	}

	url := fmt.Sprintf("%s/agents/%s/aliases/%s/invoke", c.baseURL, req.AgentID, req.AliasID)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, types.NewError(types.ErrInternalError, "build invoke request").WithCause(err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, types.NewError(types.ErrUpstreamError, "agent runtime request failed").
			WithCause(err).WithRetryable(true)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.statusError(resp)
	}

	var out InvokeResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, types.NewError(types.ErrUpstreamError, "decode agent runtime response").WithCause(err)
	}

	c.logger.Debug("invoke completed",
		zap.String("agent_id", req.AgentID),
		zap.Bool("resume", req.IsResume()),
		zap.Int("events", len(out.Completion)),
		zap.Duration("elapsed", time.Since(start)))

	return &out, nil
}

// statusError maps a non-200 runtime response to a typed error.
func (c *Client) statusError(resp *http.Response) *types.Error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	msg := fmt.Sprintf("agent runtime returned status %d", resp.StatusCode)

	var payload struct {
		Message string `json:"message"`
	}
	if json.Unmarshal(raw, &payload) == nil && payload.Message != "" {
		msg = payload.Message
	}

	c.logger.Warn("invoke failed",
		zap.Int("status", resp.StatusCode),
		zap.String("message", msg))

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return types.NewError(types.ErrNotFound, msg).WithHTTPStatus(resp.StatusCode)
	case resp.StatusCode == http.StatusBadRequest ||
		resp.StatusCode == http.StatusUnauthorized ||
		resp.StatusCode == http.StatusForbidden:
		return types.NewError(types.ErrInvalidRequest, msg).WithHTTPStatus(resp.StatusCode)
	case resp.StatusCode == http.StatusTooManyRequests ||
		resp.StatusCode >= http.StatusInternalServerError:
		return types.NewError(types.ErrUpstreamError, msg).
			WithHTTPStatus(resp.StatusCode).WithRetryable(true)
	default:
		return types.NewError(types.ErrUpstreamError, msg).WithHTTPStatus(resp.StatusCode)
	}
}
