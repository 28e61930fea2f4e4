package types

// RetrievalContext is a single source citation returned by the retrieval
// collaborator.
type RetrievalContext struct {
	Text         string `json:"text"`
	DocumentName string `json:"document_name,omitempty"`
	PageNumber   int    `json:"page_number,omitempty"`
}

// RetrievalResult is the answer produced by the retrieval collaborator.
// It is consumed exactly once to build a tool result.
type RetrievalResult struct {
	Text      string             `json:"text"`
	Contexts  []RetrievalContext `json:"contexts,omitempty"`
	SessionID string             `json:"session_id,omitempty"`
}
