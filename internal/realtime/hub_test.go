package realtime

import (
	"testing"

	"github.com/driffle/genie-backend/internal/platform/logger"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("init logger: %v", err)
	}
	return log
}

func TestHubBroadcastReachesRoomMembersOnly(t *testing.T) {
	hub := NewHub(testLogger(t))

	inRoom := hub.NewClient()
	alsoInRoom := hub.NewClient()
	elsewhere := hub.NewClient()
	hub.Join(inRoom, "TKT-1")
	hub.Join(alsoInRoom, "TKT-1")
	hub.Join(elsewhere, "TKT-2")

	hub.Broadcast("TKT-1", ServerEvent{Event: EventNewMessage})

	for _, c := range []*Client{inRoom, alsoInRoom} {
		select {
		case ev := <-c.Outbound:
			if ev.Event != EventNewMessage {
				t.Fatalf("event: want=%q got=%q", EventNewMessage, ev.Event)
			}
		default:
			t.Fatalf("room member did not receive broadcast")
		}
	}
	select {
	case ev := <-elsewhere.Outbound:
		t.Fatalf("client outside the room received %q", ev.Event)
	default:
	}
}

func TestHubBroadcastDropsForSlowClient(t *testing.T) {
	hub := NewHub(testLogger(t))
	slow := hub.NewClient()
	hub.Join(slow, "TKT-1")

	// Fill the buffer and then some; the overflow must not block.
	for i := 0; i < cap(slow.Outbound)+5; i++ {
		hub.Broadcast("TKT-1", ServerEvent{Event: EventNewMessage})
	}

	if got := len(slow.Outbound); got != cap(slow.Outbound) {
		t.Fatalf("outbound backlog: want=%d got=%d", cap(slow.Outbound), got)
	}
}

func TestHubRemoveClientTearsDownSessions(t *testing.T) {
	hub := NewHub(testLogger(t))
	client := hub.NewClient()
	hub.Join(client, "TKT-1")
	hub.ResetIntakeStep(client, "TKT-1")
	hub.AdvanceIntakeStep(client, "TKT-1")

	hub.RemoveClient(client)

	// A fresh client for the same ticket starts over at step 0.
	next := hub.NewClient()
	hub.Join(next, "TKT-1")
	if got := hub.IntakeStep(next, "TKT-1"); got != 0 {
		t.Fatalf("intake step for new client: want=0 got=%d", got)
	}

	hub.Broadcast("TKT-1", ServerEvent{Event: EventNewMessage})
	select {
	case <-next.Outbound:
	default:
		t.Fatalf("room should still work after removal of another client")
	}
}

func TestHubDeliveryAfterRemoveClientDoesNotPanic(t *testing.T) {
	hub := NewHub(testLogger(t))
	client := hub.NewClient()
	hub.Join(client, "TKT-1")

	hub.RemoveClient(client)

	// A dispatch that lost the race with disconnect must be dropped, not
	// crash the process.
	defer func() {
		if r := recover(); r != nil {
			t.Fatalf("delivery after removal panicked: %v", r)
		}
	}()
	hub.Send(client, ServerEvent{Event: EventChatHistory})
	hub.Broadcast("TKT-1", ServerEvent{Event: EventNewMessage})

	select {
	case ev := <-client.Outbound:
		t.Fatalf("removed client received %q", ev.Event)
	default:
	}
}

func TestHubIntakeStepIsPerConnection(t *testing.T) {
	hub := NewHub(testLogger(t))
	first := hub.NewClient()
	second := hub.NewClient()
	hub.Join(first, "TKT-1")
	hub.Join(second, "TKT-1")

	hub.ResetIntakeStep(first, "TKT-1")
	hub.AdvanceIntakeStep(first, "TKT-1")
	hub.AdvanceIntakeStep(first, "TKT-1")

	if got := hub.IntakeStep(first, "TKT-1"); got != 2 {
		t.Fatalf("first client step: want=2 got=%d", got)
	}
	if got := hub.IntakeStep(second, "TKT-1"); got != 0 {
		t.Fatalf("second client step: want=0 got=%d", got)
	}
}
