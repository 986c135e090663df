// Package llm provides the completion client.
//
// The client wraps a single Messages call to Anthropic Claude: one system
// instruction, one user text block, a token ceiling and a temperature. SDK
// retries are disabled; a failed call is logged and returned to the caller.
package llm
