package orchestrator

import (
	"github.com/EDT-Partners-Tech/oss-lecture-backend-sub000/tenant"
	"github.com/EDT-Partners-Tech/oss-lecture-backend-sub000/types"
)

// processorState carries the per-exchange facts resolved once at the
// start of Process. It is never mutated afterwards; everything that
// accumulates during the exchange lives in the response aggregator.
type processorState struct {
	prompt          string
	conversationID  string
	sessionID       string
	memoryID        string
	mode            types.AgentMode
	descriptor      types.AgentDescriptor
	knowledgeBaseID string
	external        bool
	persistTurns    bool
}

// resolveMode picks the agent variant for a request, evaluated once per
// exchange. A bound course carrying tenant settings is external; a bare
// knowledge base binding is not.
func resolveMode(course *tenant.Course, knowledgeBaseID string) types.AgentMode {
	switch {
	case knowledgeBaseID == "":
		return types.ModeNoKnowledgeBase
	case course != nil && course.Settings != nil:
		return types.ModeExternal
	default:
		return types.ModeWithKnowledgeBase
	}
}
