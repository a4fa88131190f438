package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/davmoren/espiritu/internal/protocol"
	"github.com/davmoren/espiritu/internal/room"
)

type createRoomRequest struct {
	SpiritID string `json:"spirit_id"`
}

type createRoomResponse struct {
	Code       string `json:"code"`
	SpiritID   string `json:"spirit_id"`
	SpiritName string `json:"spirit_name"`
}

func (s *Server) handleCreateRoom(w http.ResponseWriter, r *http.Request) {
	var req createRoomRequest
	if err := decodeJSON(r, &req); err != nil && !errors.Is(err, errEmptyBody) {
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	sp, err := s.resolveSpirit(req.SpiritID)
	if err != nil {
		respondError(w, http.StatusNotFound, "spirit_not_found", err.Error())
		return
	}

	rm := s.rooms.Create(sp)
	s.metrics.SessionEvents.WithLabelValues("room_created").Inc()
	respondJSON(w, http.StatusCreated, createRoomResponse{
		Code:       rm.Code,
		SpiritID:   sp.ID,
		SpiritName: sp.Name,
	})
}

// handleRoomWS upgrades the connection and drives one participant's room
// membership. The first client message must be client_join.
func (s *Server) handleRoomWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	s.metrics.SessionEvents.WithLabelValues("ws_connected").Inc()
	defer s.metrics.SessionEvents.WithLabelValues("ws_disconnected").Inc()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	conn.SetReadLimit(64 << 10)
	_ = conn.SetReadDeadline(time.Now().Add(120 * time.Second))
	conn.SetPongHandler(func(string) error {
		_ = conn.SetReadDeadline(time.Now().Add(120 * time.Second))
		return nil
	})

	join, ok := s.readJoin(conn)
	if !ok {
		return
	}

	rm, participant, err := s.rooms.Join(join.RoomCode, strings.TrimSpace(join.DisplayName))
	if err != nil {
		code := "room_not_found"
		if errors.Is(err, room.ErrRoomFull) {
			code = "room_full"
		}
		_ = conn.WriteJSON(protocol.ErrorEvent{
			Type:   protocol.TypeErrorEvent,
			Code:   code,
			Detail: err.Error(),
		})
		return
	}
	defer s.rooms.Leave(rm.Code, participant.ID)

	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-participant.Outbound:
				if !ok {
					return
				}
				_ = conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
				if err := conn.WriteJSON(msg); err != nil {
					cancel()
					return
				}
				if t, ok := messageTypeOf(msg); ok {
					s.metrics.WSMessages.WithLabelValues("outbound", string(t)).Inc()
				}
			}
		}
	}()

readLoop:
	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			break
		}
		if msgType != websocket.TextMessage {
			continue
		}
		parsed, err := protocol.ParseClientMessage(data)
		if err != nil {
			participantSend(participant, protocol.ErrorEvent{
				Type:   protocol.TypeErrorEvent,
				Code:   "invalid_client_message",
				Detail: err.Error(),
			})
			continue
		}
		if t, ok := messageTypeOf(parsed); ok {
			s.metrics.WSMessages.WithLabelValues("inbound", string(t)).Inc()
		}

		switch msg := parsed.(type) {
		case protocol.ClientQuestion:
			if err := s.rooms.Ask(ctx, rm.Code, participant.ID, msg.Text, msg.Engine); err != nil {
				break readLoop
			}
		case protocol.ClientLeave:
			break readLoop
		case protocol.ClientJoin:
			participantSend(participant, protocol.ErrorEvent{
				Type:   protocol.TypeErrorEvent,
				Code:   "already_joined",
				Detail: "this connection already belongs to a room",
			})
		}
	}

	cancel()
	<-writerDone
}

// readJoin waits for the mandatory first client_join message.
func (s *Server) readJoin(conn *websocket.Conn) (protocol.ClientJoin, bool) {
	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			return protocol.ClientJoin{}, false
		}
		if msgType != websocket.TextMessage {
			continue
		}
		parsed, err := protocol.ParseClientMessage(data)
		if err != nil {
			_ = conn.WriteJSON(protocol.ErrorEvent{
				Type:   protocol.TypeErrorEvent,
				Code:   "invalid_client_message",
				Detail: err.Error(),
			})
			continue
		}
		join, ok := parsed.(protocol.ClientJoin)
		if !ok {
			_ = conn.WriteJSON(protocol.ErrorEvent{
				Type:   protocol.TypeErrorEvent,
				Code:   "join_required",
				Detail: "first message must be client_join",
			})
			continue
		}
		return join, true
	}
}

// participantSend mirrors the room's non-blocking fan-out for messages that
// target a single participant.
func participantSend(p *room.Participant, msg any) {
	select {
	case p.Outbound <- msg:
	default:
	}
}

func messageTypeOf(v any) (protocol.MessageType, bool) {
	switch m := v.(type) {
	case protocol.ClientJoin:
		return m.Type, true
	case protocol.ClientQuestion:
		return m.Type, true
	case protocol.ClientLeave:
		return m.Type, true
	case protocol.RoomState:
		return m.Type, true
	case protocol.ParticipantJoined:
		return m.Type, true
	case protocol.ParticipantLeft:
		return m.Type, true
	case protocol.QuestionEcho:
		return m.Type, true
	case protocol.SpiritReply:
		return m.Type, true
	case protocol.SystemEvent:
		return m.Type, true
	case protocol.ErrorEvent:
		return m.Type, true
	default:
		return "", false
	}
}
