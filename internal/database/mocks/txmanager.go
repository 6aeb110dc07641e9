// Package mocks provides test doubles for the database package.
package mocks

import (
	"context"
	"testing"
)

// MockTxManager is a TxManager test double that executes the callback without
// a real transaction. Set Err to simulate a transaction failure.
type MockTxManager struct {
	Err error
}

// NewMockTxManager creates a passthrough transaction manager for tests.
func NewMockTxManager(t *testing.T) *MockTxManager {
	t.Helper()
	return &MockTxManager{}
}

// WithTx runs fn directly with the given context.
func (m *MockTxManager) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if m.Err != nil {
		return m.Err
	}
	return fn(ctx)
}
