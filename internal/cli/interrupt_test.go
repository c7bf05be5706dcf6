package cli

import (
	"bytes"
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

// syncBuffer provides thread-safe access to a bytes.Buffer.
type syncBuffer struct {
	buf bytes.Buffer
	mu  sync.Mutex
}

func (s *syncBuffer) Write(p []byte) (n int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.Write(p)
}

func (s *syncBuffer) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.String()
}

func TestNewInterruptHandler_DefaultsWriter(t *testing.T) {
	handler := NewInterruptHandler(nil)
	assert.NotNil(t, handler.writer)
	assert.False(t, handler.WasInterrupted())
}

func TestInterruptHandler_Messages(t *testing.T) {
	tests := []struct {
		name       string
		wantResume bool
		persisting bool
	}{
		{name: "persisting run", persisting: true, wantResume: true},
		{name: "dry run", persisting: false, wantResume: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output := &syncBuffer{}
			handler := NewInterruptHandler(output)
			handler.persisting = tt.persisting

			handler.interrupt()
			handler.interrupt()

			assert.True(t, handler.WasInterrupted())
			out := output.String()
			assert.Equal(t, 1, bytes.Count([]byte(out), []byte("Ingestion interrupted!")))
			assert.Equal(t, tt.wantResume, bytes.Contains([]byte(out), []byte("partflow run")))
		})
	}
}

func TestInterruptHandler_ParentCancelIsNotAnInterrupt(t *testing.T) {
	output := &syncBuffer{}
	handler := NewInterruptHandler(output)

	parent, cancel := context.WithCancel(context.Background())
	ctx := handler.HandleInterrupts(parent, true)
	cancel()
	<-ctx.Done()

	assert.False(t, handler.WasInterrupted())
	assert.Empty(t, output.String())
}
