package sse

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talenttrackapp/talenttrack-server/internal/domain"
)

func newTestManager() *Manager {
	return NewManager(slog.New(slog.DiscardHandler))
}

func TestManager_BroadcastReachesAllClients(t *testing.T) {
	m := newTestManager()

	c1 := m.Connect("user-1")
	c2 := m.Connect("user-2")
	defer m.Disconnect(c1.ID)
	defer m.Disconnect(c2.ID)

	m.broadcast(NewNoteCreatedEvent(&domain.Note{ID: "note-1"}))

	for _, c := range []*Client{c1, c2} {
		select {
		case ev := <-c.EventChan:
			assert.Equal(t, EventNoteCreated, ev.Type)
		case <-time.After(time.Second):
			t.Fatal("expected event was not delivered")
		}
	}
}

func TestManager_UserTargetedEventFiltered(t *testing.T) {
	m := newTestManager()

	recipient := m.Connect("user-2")
	other := m.Connect("user-3")
	defer m.Disconnect(recipient.ID)
	defer m.Disconnect(other.ID)

	m.broadcast(NewNotificationCreatedEvent(&domain.Notification{
		ID:              "notif-1",
		RecipientUserID: "user-2",
	}))

	select {
	case ev := <-recipient.EventChan:
		assert.Equal(t, EventNotificationCreated, ev.Type)
	case <-time.After(time.Second):
		t.Fatal("recipient did not receive targeted event")
	}

	select {
	case ev := <-other.EventChan:
		t.Fatalf("unexpected event delivered to other user: %v", ev.Type)
	default:
	}
}

func TestManager_DisconnectRemovesClient(t *testing.T) {
	m := newTestManager()

	c := m.Connect("user-1")
	require.Equal(t, 1, m.ClientCount())

	m.Disconnect(c.ID)
	assert.Equal(t, 0, m.ClientCount())

	select {
	case <-c.Done:
	case <-time.After(time.Second):
		t.Fatal("Done channel not closed on disconnect")
	}
}

func TestManager_EmitAfterShutdownIsNoop(t *testing.T) {
	m := newTestManager()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, m.Shutdown(ctx))

	assert.NotPanics(t, func() {
		m.Emit(NewHeartbeatEvent())
	})
}
