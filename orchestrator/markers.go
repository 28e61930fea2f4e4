package orchestrator

import "fmt"

// Wire markers expected by the downstream prompt templates. These are
// an external contract shared with the deployed agents; renaming them
// breaks live conversations.
const (
	markerQuestion       = "AWS_BEDROCK_AGENT_QUESTION"
	markerTags           = "AWS_BEDROCK_AGENT_TAGS"
	markerKBResponseText = "KNOWLEDGE_BASE_RESPONSE_TEXT"
	markerSystemPrompt   = "SYSTEM_PROMPT"
	markerUserPrompt     = "USER_PROMPT"
	markerConversationID = "ID"
)

func wrapTag(tag, body string) string {
	return fmt.Sprintf("<%s>%s</%s>", tag, body, tag)
}

func citationTag(n int) string {
	return fmt.Sprintf("CITATION_%d", n)
}
