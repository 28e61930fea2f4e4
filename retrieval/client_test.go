package retrieval

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EDT-Partners-Tech/oss-lecture-backend-sub000/config"
	"github.com/EDT-Partners-Tech/oss-lecture-backend-sub000/types"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(config.RetrievalConfig{BaseURL: srv.URL, ModelID: "model-default"}, nil)
}

func TestRetrieveAndGenerate(t *testing.T) {
	t.Run("decodes text and contexts", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/retrieve-and-generate", r.URL.Path)

			var body map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "kb-1", body["knowledgeBaseId"])
			assert.Equal(t, "model-default", body["modelId"])
			filter := body["filter"].(map[string]any)
			assert.Equal(t, []any{"algebra"}, filter["topic"])

			w.Write([]byte(`{
				"output":{"text":"La respuesta."},
				"sessionId":"rs-1",
				"citations":[{"retrievedReferences":[
					{"content":{"text":"fragmento"},
					 "location":{"s3Location":{"uri":"s3://docs/unit1/intro.pdf"}},
					 "metadata":{"x-amz-bedrock-kb-document-page-number":3}}
				]}]
			}`))
		})

		res, err := client.RetrieveAndGenerate(context.Background(), &Request{
			Prompt:          "pregunta",
			KnowledgeBaseID: "kb-1",
			CustomQuery:     map[string][]string{"topic": {"algebra"}},
		})
		require.NoError(t, err)
		assert.Equal(t, "La respuesta.", res.Text)
		assert.Equal(t, "rs-1", res.SessionID)
		require.Len(t, res.Contexts, 1)
		assert.Equal(t, "intro.pdf", res.Contexts[0].DocumentName)
		assert.Equal(t, 3, res.Contexts[0].PageNumber)
	})

	t.Run("refusal becomes typed error when requested", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"output":{"text":"Sorry, I am unable to assist you with this request."}}`))
		})

		_, err := client.RetrieveAndGenerate(context.Background(), &Request{
			Prompt:          "p",
			KnowledgeBaseID: "kb-1",
			NotBlockError:   true,
		})
		assert.Equal(t, types.ErrRetrievalRefusal, types.GetErrorCode(err))
	})

	t.Run("refusal passes through by default", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"output":{"text":"Sorry, I am unable to assist you with this request."}}`))
		})

		res, err := client.RetrieveAndGenerate(context.Background(), &Request{
			Prompt:          "p",
			KnowledgeBaseID: "kb-1",
		})
		require.NoError(t, err)
		assert.Equal(t, "Sorry, I am unable to assist you with this request.", res.Text)
	})

	t.Run("missing knowledge base id is rejected", func(t *testing.T) {
		client := NewClient(config.RetrievalConfig{BaseURL: "http://unused"}, nil)
		_, err := client.RetrieveAndGenerate(context.Background(), &Request{Prompt: "p"})
		assert.Equal(t, types.ErrInvalidRequest, types.GetErrorCode(err))
	})

	t.Run("upstream failure propagates", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		})

		_, err := client.RetrieveAndGenerate(context.Background(), &Request{
			Prompt:          "p",
			KnowledgeBaseID: "kb-1",
		})
		require.Error(t, err)
		assert.Equal(t, types.ErrUpstreamError, types.GetErrorCode(err))
		assert.True(t, types.IsRetryable(err))
	})
}

func TestIsRefusal(t *testing.T) {
	assert.True(t, isRefusal(""))
	assert.True(t, isRefusal("  \n"))
	assert.True(t, isRefusal("Sorry, I am unable to assist you with this request."))
	assert.False(t, isRefusal("Una respuesta real."))
}
