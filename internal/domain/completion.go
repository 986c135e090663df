// Package domain contains the transient entities of one quote mailing run.
//
// Nothing here outlives a single invocation: requests, responses, quotes and
// composed emails are built, used and discarded within one run.
package domain

// CompletionRequest is one request to the hosted completion endpoint
type CompletionRequest struct {
	System      string
	User        string
	Model       string
	MaxTokens   int64
	Temperature float64
}

// CompletionResponse is the provider's answer to a CompletionRequest
type CompletionResponse struct {
	Text         string
	Model        string
	InputTokens  int64
	OutputTokens int64
}

// ComposedEmail is a subject/body pair ready to be addressed and sent
type ComposedEmail struct {
	Subject string
	Body    string
}
