package orchestrator

import "github.com/EDT-Partners-Tech/oss-lecture-backend-sub000/types"

// toolKind is the closed set of tool calls the orchestrator services.
type toolKind int

const (
	toolUnknown toolKind = iota
	toolKnowledge
	toolContext
)

func (k toolKind) String() string {
	switch k {
	case toolKnowledge:
		return "knowledge"
	case toolContext:
		return "context"
	default:
		return "unknown"
	}
}

// Action group and function names the deployed agents emit. The short
// "ag1" alias is kept for agents deployed before the groups were given
// descriptive names.
const (
	actionGroupKnowledge = "action_group_knowledgebase_call"
	actionGroupContext   = "action_group_chatbot_context"
	actionGroupLegacy    = "ag1"

	functionKnowledgeBase  = "knowledgebase"
	functionKnowledgeQuery = "knowledge_base_question"
	functionChatbotContext = "Chatbot_context"
)

// classifyTool maps an (actionGroup, function) pair to the tool that
// services it. Pairs outside the closed set are unknown: they receive
// an empty result and no resume.
func classifyTool(ev types.ToolInvocationEvent) toolKind {
	switch {
	case (ev.ActionGroup == actionGroupKnowledge || ev.ActionGroup == actionGroupLegacy) &&
		ev.Function == functionKnowledgeBase:
		return toolKnowledge
	case (ev.ActionGroup == actionGroupContext || ev.ActionGroup == actionGroupLegacy) &&
		ev.Function == functionKnowledgeQuery:
		return toolKnowledge
	case (ev.ActionGroup == actionGroupContext || ev.ActionGroup == actionGroupLegacy) &&
		ev.Function == functionChatbotContext:
		return toolContext
	default:
		return toolUnknown
	}
}
