package sink

import (
	"context"

	"github.com/huangsam/storecheck/internal/contract"
	"github.com/huangsam/storecheck/schema"
	"github.com/stretchr/testify/mock"
)

// MockSink is a mock implementation of Sink for testing.
type MockSink struct {
	mock.Mock
}

var _ contract.Sink = &MockSink{} // Compile-time check

// Submit implements the Sink interface.
func (m *MockSink) Submit(ctx context.Context, payload schema.SubmissionPayload) error {
	args := m.Called(ctx, payload)
	return args.Error(0)
}

// Endpoints implements the Sink interface.
func (m *MockSink) Endpoints() []string {
	args := m.Called()
	endpoints, _ := args.Get(0).([]string)
	return endpoints
}
