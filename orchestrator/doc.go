// Package orchestrator drives one conversational exchange against the
// agent runtime: it selects the agent variant, rebuilds the alternating
// history window, invokes the agent, services the returned-control tool
// calls (knowledge retrieval and course context) and resumes the agent
// until the event stream carries no further tool requests.
package orchestrator
