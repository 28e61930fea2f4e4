package orchestrator

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/EDT-Partners-Tech/oss-lecture-backend-sub000/agentruntime"
	"github.com/EDT-Partners-Tech/oss-lecture-backend-sub000/config"
	"github.com/EDT-Partners-Tech/oss-lecture-backend-sub000/internal/metrics"
	"github.com/EDT-Partners-Tech/oss-lecture-backend-sub000/persistence"
	"github.com/EDT-Partners-Tech/oss-lecture-backend-sub000/retrieval"
	"github.com/EDT-Partners-Tech/oss-lecture-backend-sub000/tenant"
	"github.com/EDT-Partners-Tech/oss-lecture-backend-sub000/types"
)

// Spanish product copy surfaced to end users.
const (
	// noAnswerMessage replaces an empty aggregated answer.
	noAnswerMessage = "No se pudo obtener una respuesta del agente"

	// noRelevantInfoMessage answers an exchange whose retrieval declined.
	noRelevantInfoMessage = "No se encontró información relevante para su consulta, por favor intente reformular la pregunta."
)

// Request is one exchange to orchestrate.
type Request struct {
	// Prompt is the user's message.
	Prompt string

	// ConversationID identifies the stored turn log.
	ConversationID string

	// SessionID continues the runtime-side session; usually equal to the
	// conversation id.
	SessionID string

	// MemoryID optionally binds the runtime's long-term memory.
	MemoryID string

	// KnowledgeBaseID binds the conversation to a course knowledge base.
	// Empty selects the variant without knowledge base. A bound course
	// whose settings are non-nil drives the conversation externally.
	KnowledgeBaseID string

	// Files are S3-referenced attachments forwarded to the runtime.
	Files []agentruntime.S3File

	// PersistTurns controls whether the user and assistant turns are
	// appended to the conversation log.
	PersistTurns bool
}

// Result is the outcome of one orchestrated exchange.
type Result struct {
	Text        string
	Attachments []types.Attachment
	Rounds      int
}

// Orchestrator wires the agent runtime, the retrieval collaborator, the
// course catalog and the turn log into the exchange loop.
type Orchestrator struct {
	invoker   agentruntime.Invoker
	retriever retrieval.Retriever
	turns     persistence.TurnStore
	courses   tenant.CourseSource
	registry  *DescriptorRegistry
	metrics   *metrics.Collector
	cfg       config.OrchestratorConfig
	logger    *zap.Logger
}

// New builds an Orchestrator. The metrics collector may be nil.
func New(
	invoker agentruntime.Invoker,
	retriever retrieval.Retriever,
	turns persistence.TurnStore,
	courses tenant.CourseSource,
	registry *DescriptorRegistry,
	collector *metrics.Collector,
	cfg config.OrchestratorConfig,
	logger *zap.Logger,
) *Orchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.MaxRounds <= 0 {
		cfg.MaxRounds = 8
	}
	if cfg.HistoryWindow <= 0 {
		cfg.HistoryWindow = persistence.DefaultRecentLimit
	}
	return &Orchestrator{
		invoker:   invoker,
		retriever: retriever,
		turns:     turns,
		courses:   courses,
		registry:  registry,
		metrics:   collector,
		cfg:       cfg,
		logger:    logger.With(zap.String("component", "orchestrator")),
	}
}

// exchange is the mutable loop state of one Process call.
type exchange struct {
	state  processorState
	course *tenant.Course
	agg    responseAggregator
	queue  []types.ToolInvocationEvent
	rounds int
}

// Process runs one full exchange: invoke, service queued tool calls,
// resume until the runtime stops returning control, then assemble and
// persist the answer.
func (o *Orchestrator) Process(ctx context.Context, req *Request) (*Result, error) {
	if strings.TrimSpace(req.Prompt) == "" {
		return nil, types.NewError(types.ErrInvalidRequest, "prompt is required")
	}
	if req.ConversationID == "" {
		return nil, types.NewError(types.ErrInvalidRequest, "conversation id is required")
	}

	var course *tenant.Course
	if req.KnowledgeBaseID != "" {
		var err error
		course, err = o.courses.ByKnowledgeBaseID(ctx, req.KnowledgeBaseID)
		if err != nil {
			return nil, err
		}
	}

	mode := resolveMode(course, req.KnowledgeBaseID)
	descriptor, err := o.registry.Descriptor(mode)
	if err != nil {
		return nil, err
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = req.ConversationID
	}

	ex := &exchange{
		state: processorState{
			prompt:          req.Prompt,
			conversationID:  req.ConversationID,
			sessionID:       sessionID,
			memoryID:        req.MemoryID,
			mode:            mode,
			descriptor:      descriptor,
			knowledgeBaseID: req.KnowledgeBaseID,
			external:        mode == types.ModeExternal,
			persistTurns:    req.PersistTurns,
		},
		course: course,
	}

	start := time.Now()
	result, err := o.run(ctx, ex, req.Files)
	status := "ok"
	if err != nil {
		status = "error"
	}
	o.recordOrchestration(string(mode), status, ex.rounds, time.Since(start))
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (o *Orchestrator) run(ctx context.Context, ex *exchange, files []agentruntime.S3File) (*Result, error) {
	stored, err := o.turns.RecentTurns(ctx, ex.state.conversationID, o.cfg.HistoryWindow)
	if err != nil {
		return nil, err
	}

	var history *agentruntime.ConversationHistory
	if msgs := BuildHistory(stored); len(msgs) > 0 {
		history = &agentruntime.ConversationHistory{Messages: msgs}
	}

	// The first turn of a persisted conversation is the one with no
	// stored history; the client has no say in it.
	firstTurn := ex.state.persistTurns && len(stored) == 0

	if err := o.saveTurn(ctx, ex, types.RoleUser, ex.state.prompt); err != nil {
		return nil, err
	}

	initial := &agentruntime.InvokeRequest{
		AgentID:             ex.state.descriptor.AgentID,
		AliasID:             ex.state.descriptor.AliasID,
		InputText:           o.inputText(ex, firstTurn),
		SessionID:           ex.state.sessionID,
		MemoryID:            ex.state.memoryID,
		Files:               files,
		ConversationHistory: history,
	}
	if err := o.invoke(ctx, ex, initial); err != nil {
		return nil, err
	}

	for len(ex.queue) > 0 {
		ev := ex.queue[0]
		ex.queue = ex.queue[1:]

		kind := classifyTool(ev)
		o.recordToolCall(kind.String())

		var body string
		switch kind {
		case toolKnowledge:
			var early *Result
			body, early, err = o.serveKnowledge(ctx, ex, ev)
			if err != nil {
				return nil, err
			}
			if early != nil {
				return early, nil
			}
		case toolContext:
			body, err = o.serveContext(ex)
			if err != nil {
				return nil, err
			}
		default:
			// Unknown pairs are dropped: empty result, no resume.
			o.logger.Warn("unknown tool call",
				zap.String("action_group", ev.ActionGroup),
				zap.String("function", ev.Function),
				zap.String("conversation_id", ex.state.conversationID))
			continue
		}

		resume := &agentruntime.InvokeRequest{
			AgentID:      ex.state.descriptor.AgentID,
			AliasID:      ex.state.descriptor.AliasID,
			SessionID:    ex.state.sessionID,
			MemoryID:     ex.state.memoryID,
			InvocationID: ev.InvocationID,
			ReturnControlResults: []agentruntime.InvocationResult{
				agentruntime.NewToolResult(ev.ActionGroup, ev.Function, body),
			},
		}
		if err := o.invoke(ctx, ex, resume); err != nil {
			return nil, err
		}
	}

	text := ex.agg.Text()
	if strings.TrimSpace(text) == "" {
		text = noAnswerMessage
	}

	if err := o.saveTurn(ctx, ex, types.RoleAssistant, text); err != nil {
		return nil, err
	}

	return &Result{Text: text, Attachments: ex.agg.attachments, Rounds: ex.rounds}, nil
}

// invoke issues one runtime call, enforcing the round cap, and drains
// the returned events into the aggregator and the tool queue.
func (o *Orchestrator) invoke(ctx context.Context, ex *exchange, req *agentruntime.InvokeRequest) error {
	if ex.rounds >= o.cfg.MaxRounds {
		return types.NewError(types.ErrRoundLimit, "agent round limit reached").
			WithHTTPStatus(502)
	}
	ex.rounds++

	kind := "invoke"
	if req.IsResume() {
		kind = "resume"
	}

	resp, err := o.invoker.Invoke(ctx, req)
	if err != nil {
		o.recordInvocation(kind, "error")
		return err
	}
	o.recordInvocation(kind, "ok")

	var spawned []types.ToolInvocationEvent
	for _, ev := range resp.Completion {
		switch {
		case ev.Chunk != nil:
			ex.agg.addChunk(ev.Chunk.Bytes)
		case ev.Files != nil:
			ex.agg.addFiles(ev.Files.Files)
		case ev.ReturnControl != nil:
			for _, input := range ev.ReturnControl.InvocationInputs {
				if input.FunctionInvocationInput == nil {
					continue
				}
				spawned = append(spawned,
					input.FunctionInvocationInput.ToToolEvent(ev.ReturnControl.InvocationID))
			}
		}
	}

	// Tool calls spawned by a resume are serviced before the remaining
	// calls of the earlier stream, so chunks concatenate in the same
	// order a depth-first recursion would produce.
	if len(spawned) > 0 {
		ex.queue = append(spawned, ex.queue...)
	}

	return nil
}

// inputText builds the invocation input. Persisted external turns are
// prefixed with the tenant system prompt; the first of them additionally
// wraps the prompt with the conversation id markers so the agent can
// echo the id back through its tools.
func (o *Orchestrator) inputText(ex *exchange, firstTurn bool) string {
	if !ex.state.external || !ex.state.persistTurns {
		return ex.state.prompt
	}

	prompt := ex.state.prompt
	if firstTurn {
		prompt = wrapTag(markerUserPrompt, prompt) + "\n" +
			wrapTag(markerConversationID, ex.state.conversationID)
	}
	if ex.course != nil {
		if sp := ex.course.SystemPrompt(); sp != "" {
			prompt = wrapTag(markerSystemPrompt, sp) + "\n\n" + prompt
		}
	}
	return prompt
}

// serveKnowledge answers a knowledge tool call. A filter validation
// failure skips retrieval and hands the validation message back to the
// agent as the tool result; a retrieval refusal ends the exchange
// conversationally with no resume.
func (o *Orchestrator) serveKnowledge(ctx context.Context, ex *exchange, ev types.ToolInvocationEvent) (string, *Result, error) {
	question, ok := ev.Parameter("query", "prompt", "question")
	if !ok || strings.TrimSpace(question) == "" {
		question = ex.state.prompt
	}
	tagsRaw, _ := ev.Parameter("tags", "filters")

	var schema types.FilterSchema
	if ex.course != nil {
		schema = ex.course.Settings.FilterSchema()
	}

	filters := ParseFilterTags(tagsRaw)
	if len(schema) > 0 {
		validation := ValidateFilters(filters, schema)
		if !validation.OK {
			o.logger.Info("filter validation failed",
				zap.String("conversation_id", ex.state.conversationID),
				zap.String("tags", tagsRaw))
			return wrapTag(markerKBResponseText, validation.Message), nil, nil
		}
		filters = validation.Filters
	}

	// The retrieval prompt carries the original user question ahead of
	// the tool's sub-question.
	prompt := ex.state.prompt + "\n\n" + wrapTag(markerQuestion, question)
	if tagsRaw != "" {
		prompt += "\n" + wrapTag(markerTags, tagsRaw)
	}

	retReq := &retrieval.Request{
		Prompt:          prompt,
		KnowledgeBaseID: ex.state.knowledgeBaseID,
		NotBlockError:   ex.state.external,
	}
	if ex.state.external && filters.Len() > 0 {
		retReq.CustomQuery = filters.ToMap()
	}

	res, err := o.retriever.RetrieveAndGenerate(ctx, retReq)
	if err != nil {
		if types.GetErrorCode(err) == types.ErrRetrievalRefusal {
			o.recordRetrieval("refused")
			early, ferr := o.finishConversational(ctx, ex, noRelevantInfoMessage)
			return "", early, ferr
		}
		o.recordRetrieval("error")
		return "", nil, err
	}
	o.recordRetrieval("ok")

	return formatKnowledgeBody(res, ex.state.prompt), nil, nil
}

// formatKnowledgeBody renders the retrieval answer plus the user prompt
// and zero-indexed citation blocks into the tool result body.
func formatKnowledgeBody(res *types.RetrievalResult, userPrompt string) string {
	var b strings.Builder
	b.WriteString(wrapTag(markerKBResponseText, res.Text))
	if len(res.Contexts) > 0 {
		b.WriteString("\n")
		b.WriteString(wrapTag(markerUserPrompt, userPrompt))
		b.WriteString("\n")
		for i, c := range res.Contexts {
			b.WriteString(wrapTag(citationTag(i), c.Text))
		}
	}
	return b.String()
}

// serveContext answers a course context tool call with the course
// binding as JSON.
func (o *Orchestrator) serveContext(ex *exchange) (string, error) {
	payload := map[string]any{
		"knowledge_base_id": ex.state.knowledgeBaseID,
	}
	if ex.course != nil {
		payload["chatbot_id"] = ex.course.ID
		payload["settings"] = ex.course.Settings
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", types.NewError(types.ErrInternalError, "marshal context payload").WithCause(err)
	}
	return string(body), nil
}

// finishConversational ends the exchange with a user-facing message
// instead of resuming the agent.
func (o *Orchestrator) finishConversational(ctx context.Context, ex *exchange, message string) (*Result, error) {
	if err := o.saveTurn(ctx, ex, types.RoleAssistant, message); err != nil {
		return nil, err
	}
	return &Result{Text: message, Attachments: ex.agg.attachments, Rounds: ex.rounds}, nil
}

func (o *Orchestrator) saveTurn(ctx context.Context, ex *exchange, role types.Role, content string) error {
	if !ex.state.persistTurns {
		return nil
	}
	turn := types.NewTurn(ex.state.conversationID, role, content)
	if err := o.turns.SaveTurn(ctx, &turn); err != nil {
		return err
	}
	o.recordTurnSaved(string(role))
	return nil
}

// Metric hooks, nil-safe so tests can run without a collector.

func (o *Orchestrator) recordOrchestration(mode, status string, rounds int, d time.Duration) {
	if o.metrics != nil {
		o.metrics.RecordOrchestration(mode, status, rounds, d)
	}
}

func (o *Orchestrator) recordInvocation(kind, status string) {
	if o.metrics != nil {
		o.metrics.RecordAgentInvocation(kind, status)
	}
}

func (o *Orchestrator) recordRetrieval(status string) {
	if o.metrics != nil {
		o.metrics.RecordRetrievalCall(status)
	}
}

func (o *Orchestrator) recordToolCall(kind string) {
	if o.metrics != nil {
		o.metrics.RecordToolCall(kind)
	}
}

func (o *Orchestrator) recordTurnSaved(role string) {
	if o.metrics != nil {
		o.metrics.RecordTurnSaved(role)
	}
}
