// Package types provides core types used across the lecture backend.
// This package has ZERO dependencies on other project packages to avoid
// circular imports. All other packages should import types from here.
//
// The package contains:
//   - Conversation primitives (Role, ConversationTurn)
//   - Agent routing values (AgentDescriptor, AgentMode)
//   - Tool invocation values produced by the agent runtime
//   - Knowledge-filter schema and parsed filter values
//   - Retrieval collaborator result values
//   - The unified Error type with stable error codes
package types
