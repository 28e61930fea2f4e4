package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/EDT-Partners-Tech/oss-lecture-backend-sub000/agentruntime"
	"github.com/EDT-Partners-Tech/oss-lecture-backend-sub000/internal/metrics"
	"github.com/EDT-Partners-Tech/oss-lecture-backend-sub000/orchestrator"
	"github.com/EDT-Partners-Tech/oss-lecture-backend-sub000/types"
)

// =============================================================================
// 💬 会话 Handler
// =============================================================================

// MessageRequest 一次会话消息请求
type MessageRequest struct {
	Prompt          string        `json:"prompt"`
	ConversationID  string        `json:"conversation_id"`
	SessionID       string        `json:"session_id,omitempty"`
	MemoryID        string        `json:"memory_id,omitempty"`
	KnowledgeBaseID string        `json:"knowledge_base_id,omitempty"`
	Files           []FilePayload `json:"files,omitempty"`
	PersistTurns    bool          `json:"persist_turns,omitempty"`
}

// FilePayload 随消息附带的 S3 文件引用
type FilePayload struct {
	Name string `json:"name"`
	URI  string `json:"uri"`
}

// MessageResponse 会话消息应答
type MessageResponse struct {
	ConversationID string             `json:"conversation_id"`
	Text           string             `json:"text"`
	Attachments    []types.Attachment `json:"attachments,omitempty"`
	Rounds         int                `json:"rounds"`
}

// ConversationHandler 会话消息处理器
type ConversationHandler struct {
	orch    *orchestrator.Orchestrator
	metrics *metrics.Collector
	logger  *zap.Logger
}

// NewConversationHandler 创建会话消息处理器
func NewConversationHandler(orch *orchestrator.Orchestrator, collector *metrics.Collector, logger *zap.Logger) *ConversationHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConversationHandler{
		orch:    orch,
		metrics: collector,
		logger:  logger.With(zap.String("component", "conversation_handler")),
	}
}

// HandleMessage 处理 POST /v1/conversations/messages
func (h *ConversationHandler) HandleMessage(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	if r.Method != http.MethodPost {
		WriteError(w, types.NewError(types.ErrInvalidRequest, "method not allowed").
			WithHTTPStatus(http.StatusMethodNotAllowed), h.logger)
		return
	}

	var req MessageRequest
	if err := DecodeJSONBody(w, r, &req, h.logger); err != nil {
		h.observe(r, http.StatusBadRequest, start)
		return
	}

	if strings.TrimSpace(req.Prompt) == "" || req.ConversationID == "" {
		WriteError(w, types.NewError(types.ErrInvalidRequest,
			"prompt and conversation_id are required"), h.logger)
		h.observe(r, http.StatusBadRequest, start)
		return
	}

	files := make([]agentruntime.S3File, 0, len(req.Files))
	for _, f := range req.Files {
		files = append(files, agentruntime.NewS3File(f.Name, f.URI))
	}

	result, err := h.orch.Process(r.Context(), &orchestrator.Request{
		Prompt:          req.Prompt,
		ConversationID:  req.ConversationID,
		SessionID:       req.SessionID,
		MemoryID:        req.MemoryID,
		KnowledgeBaseID: req.KnowledgeBaseID,
		Files:           files,
		PersistTurns:    req.PersistTurns,
	})
	if err != nil {
		WriteError(w, err, h.logger)
		h.observe(r, mapErrorStatus(err), start)
		return
	}

	WriteSuccess(w, MessageResponse{
		ConversationID: req.ConversationID,
		Text:           result.Text,
		Attachments:    result.Attachments,
		Rounds:         result.Rounds,
	})
	h.observe(r, http.StatusOK, start)
}

func (h *ConversationHandler) observe(r *http.Request, status int, start time.Time) {
	if h.metrics == nil {
		return
	}
	h.metrics.RecordHTTPRequest(r.Method, r.URL.Path, strconv.Itoa(status), time.Since(start))
}

func mapErrorStatus(err error) int {
	if typed, ok := err.(*types.Error); ok {
		if typed.HTTPStatus != 0 {
			return typed.HTTPStatus
		}
		return mapErrorCodeToHTTPStatus(typed.Code)
	}
	return http.StatusInternalServerError
}
