// Package interprettest provides an in-memory interpret.Context for tests.
package interprettest

import (
	"sync"

	"github.com/keshon/smartcmd/internal/interpret"
)

// MockContext records replies and serves mentions added with With.
type MockContext struct {
	mu       sync.Mutex
	mentions map[interpret.Category][]interpret.Entity
	replies  []string
	replyErr error
}

// Option configures a MockContext.
type Option func(*MockContext)

// WithMention adds an entity to a mention category.
func WithMention(c interpret.Category, id uint64, value any) Option {
	return func(m *MockContext) {
		m.mentions[c] = append(m.mentions[c], interpret.Entity{ID: id, Value: value})
	}
}

// WithReplyError makes Reply record the text and then fail with err.
func WithReplyError(err error) Option {
	return func(m *MockContext) { m.replyErr = err }
}

func NewMockContext(opts ...Option) *MockContext {
	m := &MockContext{mentions: make(map[interpret.Category][]interpret.Entity)}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *MockContext) Mentioned(c interpret.Category) []interpret.Entity {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]interpret.Entity(nil), m.mentions[c]...)
}

func (m *MockContext) Reply(text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.replies = append(m.replies, text)
	return m.replyErr
}

// Replies returns everything passed to Reply so far.
func (m *MockContext) Replies() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.replies...)
}
