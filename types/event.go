package types

// Parameter is a single named tool-call argument. Order matters: the
// agent runtime emits parameters as an ordered list, not a map.
type Parameter struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// ToolInvocationEvent is a mid-turn tool-call request produced by the
// agent runtime inside an event stream. It is consumed exactly once by
// the orchestrator.
type ToolInvocationEvent struct {
	InvocationID string      `json:"invocation_id"`
	ActionGroup  string      `json:"action_group"`
	Function     string      `json:"function"`
	Parameters   []Parameter `json:"parameters"`

	// AgentID optionally names the agent that issued the tool call.
	AgentID string `json:"agent_id,omitempty"`
}

// Parameter returns the value of the first parameter matching any of the
// given names, in event order.
func (e ToolInvocationEvent) Parameter(names ...string) (string, bool) {
	for _, p := range e.Parameters {
		for _, n := range names {
			if p.Name == n {
				return p.Value, true
			}
		}
	}
	return "", false
}
