package tools

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestStart_ReturnsWhenContextCancelled(t *testing.T) {
	f := newFixture(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan error, 1)
	go func() {
		done <- f.server.Start(ctx)
	}()

	select {
	case err := <-done:
		require.Error(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Start did not return after context cancellation")
	}
}
