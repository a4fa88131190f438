package room

import (
	"context"
	"testing"
	"time"

	"github.com/davmoren/espiritu/internal/ai"
	"github.com/davmoren/espiritu/internal/conversation"
	"github.com/davmoren/espiritu/internal/protocol"
	"github.com/davmoren/espiritu/internal/spirit"
)

func testSpirit() spirit.Spirit {
	return spirit.Spirit{
		ID:           "morgana",
		Name:         "Morgana la Sabia",
		Personality:  spirit.Wise,
		Backstory:    "Curandera medieval.",
		SystemPrompt: "Eres Morgana la Sabia.",
	}
}

func newTestManager() *Manager {
	// No providers configured: replies come from the emergency templates,
	// which is enough to exercise the room plumbing.
	svc := conversation.NewService(
		ai.NewOrchestrator(nil, "", nil),
		conversation.NewContextBuilder(0, 0, 0),
		nil,
		conversation.NewRepeatTracker(3, true),
		"es",
	)
	return NewManager(svc, 0, time.Hour)
}

func TestCreateAndJoinRoom(t *testing.T) {
	m := newTestManager()
	r := m.Create(testSpirit())
	if len(r.Code) != 6 {
		t.Fatalf("room code = %q, want 6 chars", r.Code)
	}

	_, ana, err := m.Join(r.Code, "Ana")
	if err != nil {
		t.Fatalf("Join() error = %v", err)
	}

	state, ok := (<-ana.Outbound).(protocol.RoomState)
	if !ok {
		t.Fatal("first message after join must be room_state")
	}
	if state.SpiritID != "morgana" || state.RoomCode != r.Code {
		t.Fatalf("unexpected room state: %+v", state)
	}
	if state.Greeting == "" {
		t.Fatal("room state missing greeting")
	}
	if len(state.Participants) != 1 {
		t.Fatalf("participants = %v, want just Ana", state.Participants)
	}
}

func TestJoinAnnouncesToOthers(t *testing.T) {
	m := newTestManager()
	r := m.Create(testSpirit())

	_, ana, _ := m.Join(r.Code, "Ana")
	<-ana.Outbound // room_state

	if _, _, err := m.Join(r.Code, "Bruno"); err != nil {
		t.Fatalf("Join() error = %v", err)
	}

	joined, ok := (<-ana.Outbound).(protocol.ParticipantJoined)
	if !ok || joined.DisplayName != "Bruno" {
		t.Fatalf("want participant_joined for Bruno, got %+v", joined)
	}
}

func TestJoinUnknownRoom(t *testing.T) {
	m := newTestManager()
	if _, _, err := m.Join("NOPE42", "Ana"); err != ErrRoomNotFound {
		t.Fatalf("error = %v, want ErrRoomNotFound", err)
	}
}

func TestJoinFullRoom(t *testing.T) {
	svc := conversation.NewService(ai.NewOrchestrator(nil, "", nil), conversation.NewContextBuilder(0, 0, 0), nil, nil, "es")
	m := NewManager(svc, 1, time.Hour)
	r := m.Create(testSpirit())

	if _, _, err := m.Join(r.Code, "Ana"); err != nil {
		t.Fatalf("Join() error = %v", err)
	}
	if _, _, err := m.Join(r.Code, "Bruno"); err != ErrRoomFull {
		t.Fatalf("error = %v, want ErrRoomFull", err)
	}
}

func TestAskBroadcastsEchoAndReply(t *testing.T) {
	m := newTestManager()
	r := m.Create(testSpirit())

	_, ana, _ := m.Join(r.Code, "Ana")
	_, bruno, _ := m.Join(r.Code, "Bruno")
	<-ana.Outbound   // room_state
	<-ana.Outbound   // participant_joined Bruno
	<-bruno.Outbound // room_state

	if err := m.Ask(context.Background(), r.Code, ana.ID, "¿Hay alguien ahí?", ""); err != nil {
		t.Fatalf("Ask() error = %v", err)
	}

	for _, p := range []*Participant{ana, bruno} {
		echo, ok := (<-p.Outbound).(protocol.QuestionEcho)
		if !ok || echo.Text != "¿Hay alguien ahí?" || echo.DisplayName != "Ana" {
			t.Fatalf("want question_echo from Ana, got %+v", echo)
		}
		reply, ok := (<-p.Outbound).(protocol.SpiritReply)
		if !ok {
			t.Fatal("want spirit_reply after echo")
		}
		if reply.Text == "" || reply.ProviderID != ai.FallbackProviderID {
			t.Fatalf("unexpected reply: %+v", reply)
		}
		if reply.AskedBy != "Ana" {
			t.Fatalf("AskedBy = %q, want Ana", reply.AskedBy)
		}
	}
}

func TestLeaveClosesEmptyRoom(t *testing.T) {
	m := newTestManager()
	r := m.Create(testSpirit())
	_, ana, _ := m.Join(r.Code, "Ana")

	m.Leave(r.Code, ana.ID)
	if m.RoomCount() != 0 {
		t.Fatalf("RoomCount = %d, want 0 after last participant left", m.RoomCount())
	}
	if _, err := m.Get(r.Code); err != ErrRoomNotFound {
		t.Fatalf("Get() error = %v, want ErrRoomNotFound", err)
	}
}

func TestLeaveAnnouncesToOthers(t *testing.T) {
	m := newTestManager()
	r := m.Create(testSpirit())
	_, ana, _ := m.Join(r.Code, "Ana")
	_, bruno, _ := m.Join(r.Code, "Bruno")
	<-ana.Outbound // room_state
	<-ana.Outbound // participant_joined

	m.Leave(r.Code, bruno.ID)
	left, ok := (<-ana.Outbound).(protocol.ParticipantLeft)
	if !ok || left.DisplayName != "Bruno" {
		t.Fatalf("want participant_left for Bruno, got %+v", left)
	}
}

func TestJanitorClosesIdleRooms(t *testing.T) {
	svc := conversation.NewService(ai.NewOrchestrator(nil, "", nil), conversation.NewContextBuilder(0, 0, 0), nil, nil, "es")
	m := NewManager(svc, 0, 20*time.Millisecond)
	m.Create(testSpirit())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	m.StartJanitor(ctx, 10*time.Millisecond)

	deadline := time.After(time.Second)
	for m.RoomCount() > 0 {
		select {
		case <-deadline:
			t.Fatal("janitor never closed the idle room")
		case <-time.After(5 * time.Millisecond):
		}
	}
}
