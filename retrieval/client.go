package retrieval

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/EDT-Partners-Tech/oss-lecture-backend-sub000/config"
	"github.com/EDT-Partners-Tech/oss-lecture-backend-sub000/types"
)

// refusalText is the canned answer the collaborator emits when the
// generation model declines to answer from the retrieved material.
const refusalText = "Sorry, I am unable to assist you with this request."

// Retriever performs one retrieve-and-generate round trip.
type Retriever interface {
	RetrieveAndGenerate(ctx context.Context, req *Request) (*types.RetrievalResult, error)
}

// Request describes a single retrieval call.
type Request struct {
	// Prompt is the generation input, already carrying any markers the
	// downstream prompt template expects.
	Prompt string
	// KnowledgeBaseID selects the searched knowledge base.
	KnowledgeBaseID string
	// ModelID overrides the configured generation model when set.
	ModelID string
	// SessionID continues a prior retrieval session when set.
	SessionID string
	// CustomQuery narrows the search by document metadata. Each key must
	// match every listed value to pass (values within a key are OR'd).
	CustomQuery map[string][]string
	// NotBlockError, when set, turns a refusal answer into a typed
	// ErrRetrievalRefusal instead of passing the canned text through.
	NotBlockError bool
}

// Client is the HTTP implementation of Retriever.
type Client struct {
	baseURL    string
	apiKey     string
	modelID    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient builds a Client from configuration.
func NewClient(cfg config.RetrievalConfig, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		modelID:    cfg.ModelID,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger.With(zap.String("component", "retrieval")),
	}
}

type wireRequest struct {
	Input           string              `json:"input"`
	KnowledgeBaseID string              `json:"knowledgeBaseId"`
	ModelID         string              `json:"modelId"`
	SessionID       string              `json:"sessionId,omitempty"`
	Filter          map[string][]string `json:"filter,omitempty"`
}

type wireResponse struct {
	Output struct {
		Text string `json:"text"`
	} `json:"output"`
	SessionID string `json:"sessionId"`
	Citations []struct {
		RetrievedReferences []struct {
			Content struct {
				Text string `json:"text"`
			} `json:"content"`
			Location struct {
				S3Location struct {
					URI string `json:"uri"`
				} `json:"s3Location"`
			} `json:"location"`
			Metadata struct {
				PageNumber int `json:"x-amz-bedrock-kb-document-page-number"`
			} `json:"metadata"`
		} `json:"retrievedReferences"`
	} `json:"citations"`
}

// RetrieveAndGenerate performs the round trip. Transport and upstream
// failures propagate as typed errors; the caller decides how they end
// the wider exchange.
func (c *Client) RetrieveAndGenerate(ctx context.Context, req *Request) (*types.RetrievalResult, error) {
	if req.KnowledgeBaseID == "" {
		return nil, types.NewError(types.ErrInvalidRequest, "knowledge base id is required")
	}

	modelID := req.ModelID
	if modelID == "" {
		modelID = c.modelID
	}

	body, err := json.Marshal(wireRequest{
		Input:           req.Prompt,
		KnowledgeBaseID: req.KnowledgeBaseID,
		ModelID:         modelID,
		SessionID:       req.SessionID,
		Filter:          req.CustomQuery,
	})
	if err != nil {
		return nil, types.NewError(types.ErrInternalError, "marshal retrieval request").WithCause(err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/retrieve-and-generate", bytes.NewReader(body))
	if err != nil {
		return nil, types.NewError(types.ErrInternalError, "build retrieval request").WithCause(err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, types.NewError(types.ErrUpstreamError, "retrieval request failed").
			WithCause(err).WithRetryable(true)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		c.logger.Warn("retrieval failed",
			zap.Int("status", resp.StatusCode),
			zap.String("body", string(raw)))
		e := types.NewError(types.ErrUpstreamError,
			fmt.Sprintf("retrieval returned status %d", resp.StatusCode)).
			WithHTTPStatus(resp.StatusCode)
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError {
			e = e.WithRetryable(true)
		}
		return nil, e
	}

	var wire wireResponse
	if err := json.NewDecoder(resp.Body).Decode(&wire); err != nil {
		return nil, types.NewError(types.ErrUpstreamError, "decode retrieval response").WithCause(err)
	}

	text := wire.Output.Text
	if req.NotBlockError && isRefusal(text) {
		c.logger.Info("retrieval refused to answer",
			zap.String("knowledge_base_id", req.KnowledgeBaseID))
		return nil, types.NewError(types.ErrRetrievalRefusal, "retrieval declined to answer")
	}

	result := &types.RetrievalResult{Text: text, SessionID: wire.SessionID}
	for _, cit := range wire.Citations {
		for _, ref := range cit.RetrievedReferences {
			result.Contexts = append(result.Contexts, types.RetrievalContext{
				Text:         ref.Content.Text,
				DocumentName: documentName(ref.Location.S3Location.URI),
				PageNumber:   ref.Metadata.PageNumber,
			})
		}
	}

	c.logger.Debug("retrieval completed",
		zap.String("knowledge_base_id", req.KnowledgeBaseID),
		zap.Int("contexts", len(result.Contexts)),
		zap.Duration("elapsed", time.Since(start)))

	return result, nil
}

// isRefusal reports whether the generated text is empty or the canned
// refusal answer.
func isRefusal(text string) bool {
	trimmed := strings.TrimSpace(text)
	return trimmed == "" || trimmed == refusalText
}

// documentName extracts the bare file name from an S3 URI.
func documentName(uri string) string {
	if i := strings.LastIndex(uri, "/"); i >= 0 {
		return uri[i+1:]
	}
	return uri
}
