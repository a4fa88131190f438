package room

import (
	"context"
	"errors"
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/davmoren/espiritu/internal/conversation"
	"github.com/davmoren/espiritu/internal/protocol"
	"github.com/davmoren/espiritu/internal/spirit"
)

var (
	ErrRoomNotFound = errors.New("room not found")
	ErrRoomFull     = errors.New("room full")
)

const (
	// DefaultMaxParticipants caps one séance circle.
	DefaultMaxParticipants = 8

	defaultHistoryWindow = 20
	outboundBuffer       = 64
)

// Participant is one connected member of a room. Outbound carries protocol
// messages toward its websocket writer.
type Participant struct {
	ID          string
	DisplayName string
	Outbound    chan any
}

// Room is a shared channel to one spirit. All participants see every question
// and every reply.
type Room struct {
	Code   string
	Spirit spirit.Spirit

	mu           sync.Mutex
	participants map[string]*Participant
	history      []conversation.Turn
	lastActivity time.Time
}

// Manager creates rooms, routes joins by code and runs the shared reply
// pipeline for each question.
type Manager struct {
	mu    sync.RWMutex
	rooms map[string]*Room

	svc             *conversation.Service
	maxParticipants int
	idleTimeout     time.Duration
}

func NewManager(svc *conversation.Service, maxParticipants int, idleTimeout time.Duration) *Manager {
	if maxParticipants <= 0 {
		maxParticipants = DefaultMaxParticipants
	}
	if idleTimeout <= 0 {
		idleTimeout = time.Hour
	}
	return &Manager{
		rooms:           make(map[string]*Room),
		svc:             svc,
		maxParticipants: maxParticipants,
		idleTimeout:     idleTimeout,
	}
}

// roomCodeAlphabet avoids easily confused glyphs.
const roomCodeAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

func newRoomCode() string {
	buf := make([]byte, 6)
	for i := range buf {
		buf[i] = roomCodeAlphabet[rand.Intn(len(roomCodeAlphabet))]
	}
	return string(buf)
}

// Create opens a room around the given spirit and returns it with its join code.
func (m *Manager) Create(sp spirit.Spirit) *Room {
	m.mu.Lock()
	defer m.mu.Unlock()

	code := newRoomCode()
	for m.rooms[code] != nil {
		code = newRoomCode()
	}

	r := &Room{
		Code:         code,
		Spirit:       sp,
		participants: make(map[string]*Participant),
		lastActivity: time.Now().UTC(),
	}
	m.rooms[code] = r
	log.Printf("room: created %s for spirit %s", code, sp.ID)
	return r
}

func (m *Manager) Get(code string) (*Room, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.rooms[code]
	if !ok {
		return nil, ErrRoomNotFound
	}
	return r, nil
}

// Join registers a participant in a room and announces the arrival. The
// returned participant's Outbound channel already holds the room state message.
func (m *Manager) Join(code, displayName string) (*Room, *Participant, error) {
	r, err := m.Get(code)
	if err != nil {
		return nil, nil, err
	}

	p := &Participant{
		ID:          uuid.NewString(),
		DisplayName: displayName,
		Outbound:    make(chan any, outboundBuffer),
	}

	r.mu.Lock()
	if len(r.participants) >= m.maxParticipants {
		r.mu.Unlock()
		return nil, nil, ErrRoomFull
	}
	r.participants[p.ID] = p
	names := make([]string, 0, len(r.participants))
	for _, other := range r.participants {
		names = append(names, other.DisplayName)
	}
	r.lastActivity = time.Now().UTC()
	r.mu.Unlock()

	p.send(protocol.RoomState{
		Type:         protocol.TypeRoomState,
		RoomCode:     r.Code,
		SpiritID:     r.Spirit.ID,
		SpiritName:   r.Spirit.Name,
		Participants: names,
		Greeting:     spirit.WelcomeMessage(r.Spirit),
	})
	r.broadcastExcept(p.ID, protocol.ParticipantJoined{
		Type:        protocol.TypeParticipantJoined,
		DisplayName: displayName,
	})
	return r, p, nil
}

// Leave removes a participant and announces the departure. Empty rooms are
// dropped immediately.
func (m *Manager) Leave(code, participantID string) {
	r, err := m.Get(code)
	if err != nil {
		return
	}

	r.mu.Lock()
	p, ok := r.participants[participantID]
	if ok {
		delete(r.participants, participantID)
	}
	empty := len(r.participants) == 0
	r.mu.Unlock()
	if !ok {
		return
	}

	r.broadcastExcept(participantID, protocol.ParticipantLeft{
		Type:        protocol.TypeParticipantLeft,
		DisplayName: p.DisplayName,
	})

	if empty {
		m.mu.Lock()
		delete(m.rooms, code)
		m.mu.Unlock()
		m.svc.EndSession(sessionKey(code))
		log.Printf("room: closed %s (empty)", code)
	}
}

// Ask runs one shared question turn: echo the question to everyone, generate
// the reply once against the room's shared history, broadcast the reply.
func (m *Manager) Ask(ctx context.Context, code, participantID, text, engine string) error {
	r, err := m.Get(code)
	if err != nil {
		return err
	}

	r.mu.Lock()
	p, ok := r.participants[participantID]
	if !ok {
		r.mu.Unlock()
		return ErrRoomNotFound
	}
	history := make([]conversation.Turn, len(r.history))
	copy(history, r.history)
	r.lastActivity = time.Now().UTC()
	r.mu.Unlock()

	r.broadcast(protocol.QuestionEcho{
		Type:        protocol.TypeQuestionEcho,
		DisplayName: p.DisplayName,
		Text:        text,
	})

	reply := m.svc.GenerateReplyWithEngine(ctx, r.Spirit, sessionKey(code), history, text, engine)

	r.mu.Lock()
	r.history = append(r.history,
		conversation.Turn{Role: "user", Content: text},
		conversation.Turn{Role: "spirit", Content: reply.Text},
	)
	if len(r.history) > defaultHistoryWindow {
		r.history = r.history[len(r.history)-defaultHistoryWindow:]
	}
	r.mu.Unlock()

	r.broadcast(protocol.SpiritReply{
		Type:       protocol.TypeSpiritReply,
		Text:       reply.Text,
		ProviderID: reply.ProviderID,
		AskedBy:    p.DisplayName,
		Annoyed:    reply.Annoyed,
	})
	return nil
}

// StartJanitor closes rooms idle past the timeout.
func (m *Manager) StartJanitor(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				m.closeIdle()
			}
		}
	}()
}

func (m *Manager) closeIdle() {
	now := time.Now().UTC()

	m.mu.Lock()
	var closed []*Room
	for code, r := range m.rooms {
		r.mu.Lock()
		idle := now.Sub(r.lastActivity) >= m.idleTimeout
		r.mu.Unlock()
		if idle {
			delete(m.rooms, code)
			closed = append(closed, r)
		}
	}
	m.mu.Unlock()

	for _, r := range closed {
		r.broadcast(protocol.SystemEvent{
			Type: protocol.TypeSystemEvent,
			Code: "room_closed",
		})
		m.svc.EndSession(sessionKey(r.Code))
		log.Printf("room: closed %s (idle)", r.Code)
	}
}

func (m *Manager) RoomCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.rooms)
}

func (r *Room) ParticipantCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.participants)
}

func (r *Room) broadcast(msg any) {
	r.broadcastExcept("", msg)
}

func (r *Room) broadcastExcept(skipID string, msg any) {
	r.mu.Lock()
	targets := make([]*Participant, 0, len(r.participants))
	for id, p := range r.participants {
		if id == skipID {
			continue
		}
		targets = append(targets, p)
	}
	r.mu.Unlock()

	for _, p := range targets {
		p.send(msg)
	}
}

// send never blocks; a participant with a saturated outbound queue misses the
// message rather than stalling the room.
func (p *Participant) send(msg any) {
	select {
	case p.Outbound <- msg:
	default:
		log.Printf("room: dropping message for participant %s: queue full", p.ID)
	}
}

// sessionKey scopes the repeat tracker to the room rather than a participant:
// the spirit gets annoyed at the circle as a whole.
func sessionKey(code string) string {
	return "room:" + code
}
