package network

import (
	"os"
	"testing"

	"skirmish-server/internal/domain"
	"skirmish-server/internal/events"
	"skirmish-server/pkg/api"
	"skirmish-server/pkg/logger"
)

func TestMain(m *testing.M) {
	logger.Silence()
	os.Exit(m.Run())
}

func TestPublishWrapsEvent(t *testing.T) {
	b := NewBroadcaster()
	ch := b.Register("session_1")

	if !b.Publish("session_1", events.EntityDeath{EntityID: domain.EntityID(7)}) {
		t.Fatal("publish to registered session failed")
	}

	msg := <-ch
	if msg.Type != "ENTITY_DEATH" || msg.SessionID != "session_1" {
		t.Fatalf("unexpected message: %+v", msg)
	}
	death, ok := msg.Payload.(events.EntityDeath)
	if !ok || death.EntityID != 7 {
		t.Errorf("payload = %#v", msg.Payload)
	}
}

func TestSendToUnknownSession(t *testing.T) {
	b := NewBroadcaster()
	if b.SendTo("nobody", api.ServerMessage{Type: api.TypeError}) {
		t.Error("send to unknown session reported success")
	}
}

func TestFullChannelDropsMessages(t *testing.T) {
	b := NewBroadcaster()
	b.Register("s")

	for i := 0; i < SubscriberBuffer; i++ {
		if !b.SendTo("s", api.ServerMessage{Type: "X"}) {
			t.Fatalf("message %d dropped before buffer was full", i)
		}
	}
	if b.SendTo("s", api.ServerMessage{Type: "X"}) {
		t.Error("expected drop on full channel")
	}
}

func TestRegisterReplacesAndUnregisterCloses(t *testing.T) {
	b := NewBroadcaster()
	old := b.Register("s")
	fresh := b.Register("s")

	if _, ok := <-old; ok {
		t.Error("old channel must be closed on re-register")
	}
	if b.SubscriberCount() != 1 || !b.HasSubscriber("s") {
		t.Fatalf("subscribers = %d", b.SubscriberCount())
	}

	b.Unregister("s")
	if _, ok := <-fresh; ok {
		t.Error("channel must be closed on unregister")
	}
	if b.HasSubscriber("s") {
		t.Error("subscriber still present")
	}
	b.Unregister("s") // повторный вызов безопасен
}
