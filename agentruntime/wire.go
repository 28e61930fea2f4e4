package agentruntime

import "github.com/EDT-Partners-Tech/oss-lecture-backend-sub000/types"

// =============================================================================
// 📡 Agent 运行时线上格式
// =============================================================================

// HistoryContent 历史消息的单个内容块
type HistoryContent struct {
	Text string `json:"text"`
}

// HistoryMessage 交替历史中的一条消息
type HistoryMessage struct {
	Role    string           `json:"role"`
	Content []HistoryContent `json:"content"`
}

// S3File 以 S3 引用形式随调用附带的素材文件
type S3File struct {
	Name   string     `json:"name"`
	Source FileSource `json:"source"`
	// UseCase 固定为 "CHAT"
	UseCase string `json:"useCase"`
}

// FileSource 文件来源
type FileSource struct {
	S3Location S3Location `json:"s3Location"`
	SourceType string     `json:"sourceType"`
}

// S3Location S3 URI
type S3Location struct {
	URI string `json:"uri"`
}

// NewS3File 构造一个 CHAT 用途的 S3 引用文件
func NewS3File(name, uri string) S3File {
	return S3File{
		Name:    name,
		Source:  FileSource{S3Location: S3Location{URI: uri}, SourceType: "S3"},
		UseCase: "CHAT",
	}
}

// ConversationHistory 历史窗口包装
type ConversationHistory struct {
	Messages []HistoryMessage `json:"messages"`
}

// InvokeRequest 一次 agent 调用。InvocationID 非空时表示 resume 调用，
// 此时 InputText 与 ConversationHistory 必须省略，请求只携带工具结果。
type InvokeRequest struct {
	AgentID              string               `json:"-"`
	AliasID              string               `json:"-"`
	InputText            string               `json:"inputText,omitempty"`
	SessionID            string               `json:"sessionId"`
	Files                []S3File             `json:"files,omitempty"`
	MemoryID             string               `json:"memoryId,omitempty"`
	ConversationHistory  *ConversationHistory `json:"conversationHistory,omitempty"`
	InvocationID         string               `json:"invocationId,omitempty"`
	ReturnControlResults []InvocationResult   `json:"returnControlInvocationResults,omitempty"`
}

// IsResume 是否为携带工具结果的恢复调用
func (r *InvokeRequest) IsResume() bool {
	return r.InvocationID != ""
}

// InvokeResponse 运行时返回的完整事件序列
type InvokeResponse struct {
	Completion []Event `json:"completion"`
}

// Event 事件流中的单个事件，三种变体互斥
type Event struct {
	Chunk         *ChunkEvent         `json:"chunk,omitempty"`
	Files         *FilesEvent         `json:"files,omitempty"`
	ReturnControl *ReturnControlEvent `json:"returnControl,omitempty"`
}

// ChunkEvent 文本片段（bytes 经 JSON base64 编解码）
type ChunkEvent struct {
	Bytes []byte `json:"bytes"`
}

// FilesEvent 附件事件
type FilesEvent struct {
	Files []FilePayload `json:"files"`
}

// FilePayload 单个附件
type FilePayload struct {
	Bytes []byte `json:"bytes"`
	Name  string `json:"name"`
	Type  string `json:"type"`
}

// ReturnControlEvent agent 发起的工具调用请求
type ReturnControlEvent struct {
	InvocationID     string            `json:"invocationId"`
	InvocationInputs []InvocationInput `json:"invocationInputs"`
}

// InvocationInput 工具调用输入的包装
type InvocationInput struct {
	FunctionInvocationInput *FunctionInvocationInput `json:"functionInvocationInput,omitempty"`
}

// FunctionInvocationInput 具体的函数调用描述
type FunctionInvocationInput struct {
	ActionGroup string            `json:"actionGroup"`
	Function    string            `json:"function"`
	Parameters  []types.Parameter `json:"parameters,omitempty"`
	AgentID     string            `json:"agentId,omitempty"`
}

// ToToolEvent 转换为领域层的工具调用事件
func (f *FunctionInvocationInput) ToToolEvent(invocationID string) types.ToolInvocationEvent {
	return types.ToolInvocationEvent{
		InvocationID: invocationID,
		ActionGroup:  f.ActionGroup,
		Function:     f.Function,
		Parameters:   f.Parameters,
		AgentID:      f.AgentID,
	}
}

// =============================================================================
// 📦 工具结果信封
// =============================================================================

// InvocationResult resume 调用携带的单个工具结果
type InvocationResult struct {
	FunctionResult *FunctionResult `json:"functionResult,omitempty"`
}

// FunctionResult 工具执行结果
type FunctionResult struct {
	ActionGroup  string       `json:"actionGroup"`
	Function     string       `json:"function"`
	ResponseBody ResponseBody `json:"responseBody"`
}

// ResponseBody 结果体，固定为 TEXT 形式
type ResponseBody struct {
	Text TextBody `json:"TEXT"`
}

// TextBody 文本结果体
type TextBody struct {
	Body string `json:"body"`
}

// NewToolResult 构造发回运行时的工具结果信封
func NewToolResult(actionGroup, function, body string) InvocationResult {
	return InvocationResult{
		FunctionResult: &FunctionResult{
			ActionGroup:  actionGroup,
			Function:     function,
			ResponseBody: ResponseBody{Text: TextBody{Body: body}},
		},
	}
}
