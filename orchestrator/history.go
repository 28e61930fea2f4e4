package orchestrator

import (
	"github.com/EDT-Partners-Tech/oss-lecture-backend-sub000/agentruntime"
	"github.com/EDT-Partners-Tech/oss-lecture-backend-sub000/types"
)

// BuildHistory converts stored turns, oldest first, into the strictly
// alternating history the agent runtime accepts:
//
//   - leading assistant turns are dropped so the history starts with a
//     user message,
//   - of consecutive same-role turns only the first is kept,
//   - a trailing user turn is dropped, because the current prompt is
//     sent separately as the invocation input text.
//
// The result is empty or ends with an assistant message.
func BuildHistory(turns []types.ConversationTurn) []agentruntime.HistoryMessage {
	var history []agentruntime.HistoryMessage
	var previousRole types.Role

	for _, turn := range turns {
		if !turn.Role.Valid() {
			continue
		}
		if len(history) == 0 && turn.Role != types.RoleUser {
			previousRole = turn.Role
			continue
		}
		if turn.Role != previousRole {
			history = append(history, agentruntime.HistoryMessage{
				Role:    string(turn.Role),
				Content: []agentruntime.HistoryContent{{Text: turn.Content}},
			})
		}
		previousRole = turn.Role
	}

	if n := len(history); n > 0 && history[n-1].Role == string(types.RoleUser) {
		history = history[:n-1]
	}

	return history
}
