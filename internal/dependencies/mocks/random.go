package mocks

import (
	"github.com/mcoot/auctionhouse/internal/dependencies/random"
)

// MockRandom hands out queued tokens in order
type MockRandom struct {
	tokens []string
	next   int
}

// Ensure MockRandom implements Random
var _ random.Random = (*MockRandom)(nil)

// NewMockRandom creates a new MockRandom
func NewMockRandom() *MockRandom {
	return &MockRandom{}
}

// Token returns the next queued token, or an empty string once the queue is used up.
// The requested length is ignored.
func (r *MockRandom) Token(int) string {
	if r.next >= len(r.tokens) {
		return ""
	}
	token := r.tokens[r.next]
	r.next++
	return token
}

// QueueToken adds tokens to the queue
func (r *MockRandom) QueueToken(values ...string) {
	r.tokens = append(r.tokens, values...)
}

// Remaining reports how many queued tokens have not been handed out
func (r *MockRandom) Remaining() int {
	return len(r.tokens) - r.next
}
