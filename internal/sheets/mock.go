package sheets

import (
	"context"
	"sync"

	"github.com/Veraticus/layoutguide/internal/model"
)

// MockWriter is a mock implementation of service.GuideWriter for testing.
type MockWriter struct {
	WriteFunc      func(ctx context.Context, sheet model.Sheet) error
	WritePlainFunc func(ctx context.Context, sheet model.Sheet) error
	LastSheet      *model.Sheet
	WriteCalls     []WriteCall
	mu             sync.Mutex
}

// WriteCall records a single call to Write or WritePlain.
type WriteCall struct {
	Error error
	Sheet model.Sheet
	Plain bool
}

// NewMockWriter creates a new mock writer.
func NewMockWriter() *MockWriter {
	return &MockWriter{
		WriteCalls: make([]WriteCall, 0),
	}
}

// Write implements service.GuideWriter.
func (m *MockWriter) Write(ctx context.Context, sheet model.Sheet) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var err error
	if m.WriteFunc != nil {
		err = m.WriteFunc(ctx, sheet)
	}
	m.record(sheet, false, err)
	return err
}

// WritePlain implements service.GuideWriter.
func (m *MockWriter) WritePlain(ctx context.Context, sheet model.Sheet) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var err error
	if m.WritePlainFunc != nil {
		err = m.WritePlainFunc(ctx, sheet)
	}
	m.record(sheet, true, err)
	return err
}

func (m *MockWriter) record(sheet model.Sheet, plain bool, err error) {
	m.WriteCalls = append(m.WriteCalls, WriteCall{Sheet: sheet, Plain: plain, Error: err})
	if err == nil {
		s := sheet
		m.LastSheet = &s
	}
}

// Reset clears all recorded calls.
func (m *MockWriter) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.WriteCalls = make([]WriteCall, 0)
	m.LastSheet = nil
}

// GetWriteCalls returns a copy of all write calls.
func (m *MockWriter) GetWriteCalls() []WriteCall {
	m.mu.Lock()
	defer m.mu.Unlock()

	calls := make([]WriteCall, len(m.WriteCalls))
	copy(calls, m.WriteCalls)
	return calls
}

// SetWriteError makes styled writes fail with err.
func (m *MockWriter) SetWriteError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.WriteFunc = func(context.Context, model.Sheet) error { return err }
}

// SetPlainWriteError makes plain writes fail with err.
func (m *MockWriter) SetPlainWriteError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.WritePlainFunc = func(context.Context, model.Sheet) error { return err }
}
