package audit

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mintgate/pkg/domain"
)

func testAddr(t *testing.T, s string) domain.Address {
	t.Helper()
	a, err := domain.ParseAddress(s)
	require.NoError(t, err)
	return a
}

func TestWorkerPersistsEmittedEvents(t *testing.T) {
	store := NewMemoryStore()
	inbox := make(chan Event, 8)
	publisher := NewPublisher(inbox, slog.New(slog.NewTextHandler(io.Discard, nil)))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = NewWorker(store, inbox).Run(ctx)
	}()

	caller := testAddr(t, "0x2222222222222222222222222222222222222222")
	id := uint64(3)
	publisher.Emit(ctx, Event{Action: ActionAssetIssued, Caller: caller, Strategy: "voucher", AssetID: &id})
	publisher.Emit(ctx, Event{Action: ActionAdmissionRejected, Caller: caller, Strategy: "proof", Detail: "proof_rejected"})

	require.Eventually(t, func() bool {
		events, err := store.ListByCaller(context.Background(), caller)
		return err == nil && len(events) == 2
	}, time.Second, 10*time.Millisecond)

	events, err := store.ListByCaller(context.Background(), caller)
	require.NoError(t, err)
	assert.Equal(t, ActionAssetIssued, events[0].Action)
	assert.False(t, events[0].Timestamp.IsZero(), "publisher stamps events")
	assert.Equal(t, "proof_rejected", events[1].Detail)

	cancel()
	<-done
}

func TestEmitDropsWhenInboxFull(t *testing.T) {
	inbox := make(chan Event, 1)
	publisher := NewPublisher(inbox, slog.New(slog.NewTextHandler(io.Discard, nil)))
	caller := testAddr(t, "0x2222222222222222222222222222222222222222")

	// No worker draining: the second emit must not block.
	publisher.Emit(context.Background(), Event{Action: ActionConfigChanged, Caller: caller})
	done := make(chan struct{})
	go func() {
		publisher.Emit(context.Background(), Event{Action: ActionConfigChanged, Caller: caller})
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("emit blocked on a full inbox")
	}
	assert.Len(t, inbox, 1)
}

func TestNilPublisherIsSafe(t *testing.T) {
	var p *Publisher
	p.Emit(context.Background(), Event{Action: ActionConfigChanged})
}
