package types

// AgentMode selects which of the three agent variants drives a
// conversation. The mode is evaluated once per orchestration call and
// never changes mid-call.
type AgentMode string

const (
	// ModeNoKnowledgeBase: the conversation has no bound resource.
	ModeNoKnowledgeBase AgentMode = "no_knowledge_base"

	// ModeWithKnowledgeBase: the conversation is bound to a knowledge base
	// without tenant-defined external settings.
	ModeWithKnowledgeBase AgentMode = "with_knowledge_base"

	// ModeExternal: the bound course carries a tenant settings object and
	// the conversation is driven by that external configuration.
	ModeExternal AgentMode = "external"
)

// AgentDescriptor identifies a deployed agent variant. Value object:
// one descriptor is selected per conversation and held for the lifetime
// of a single orchestration call.
type AgentDescriptor struct {
	AgentID string `json:"agent_id"`
	AliasID string `json:"alias_id"`
}

// IsZero reports whether the descriptor is unresolved.
func (d AgentDescriptor) IsZero() bool {
	return d.AgentID == "" || d.AliasID == ""
}
