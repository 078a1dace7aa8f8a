package llm

import "context"

// MockClient is a test double for the Client interface. It can also back
// a dry-run mode.
type MockClient struct {
	Response *Response
	Err      error
	Calls    []string // records user prompts sent
	Systems  []string // records system prompts sent
}

// Complete records the call and returns the mock response.
func (m *MockClient) Complete(ctx context.Context, system, prompt string) (*Response, error) {
	m.Systems = append(m.Systems, system)
	m.Calls = append(m.Calls, prompt)
	return m.Response, m.Err
}
