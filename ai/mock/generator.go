package mock

import "context"

const defaultMessage = "It sounds like you are carrying a lot right now. " +
	"Taking a short pause to breathe and name what you are feeling can help."

// MockGenerator is a test double for ai.MessageGenerator.
// It allows custom behavior injection via function fields.
type MockGenerator struct {
	// GenerateMessageFunc is called by GenerateMessage if set.
	// If nil, returns a canned supportive message.
	GenerateMessageFunc func(ctx context.Context, prompt string) (string, error)

	callCount  int
	lastPrompt string
}

// NewMockGenerator creates a mock generator with default canned behavior.
// Note: Returns concrete type to allow test assertions via GetMockGenerator().
func NewMockGenerator() *MockGenerator {
	return &MockGenerator{}
}

// GenerateMessage returns the injected behavior's result or a canned message.
func (m *MockGenerator) GenerateMessage(ctx context.Context, prompt string) (string, error) {
	m.callCount++
	m.lastPrompt = prompt

	if m.GenerateMessageFunc != nil {
		return m.GenerateMessageFunc(ctx, prompt)
	}

	return defaultMessage, nil
}

// CallCount returns the number of times GenerateMessage was called.
func (m *MockGenerator) CallCount() int {
	return m.callCount
}

// LastPrompt returns the prompt passed to the most recent call.
func (m *MockGenerator) LastPrompt() string {
	return m.lastPrompt
}

// Reset clears the call count, recorded prompt, and injected behavior.
func (m *MockGenerator) Reset() {
	m.callCount = 0
	m.lastPrompt = ""
	m.GenerateMessageFunc = nil
}
