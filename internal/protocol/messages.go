package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
)

// MessageType identifies websocket payload variants.
type MessageType string

const (
	TypeClientJoin     MessageType = "client_join"
	TypeClientQuestion MessageType = "client_question"
	TypeClientLeave    MessageType = "client_leave"

	TypeRoomState         MessageType = "room_state"
	TypeParticipantJoined MessageType = "participant_joined"
	TypeParticipantLeft   MessageType = "participant_left"
	TypeQuestionEcho      MessageType = "question_echo"
	TypeSpiritReply       MessageType = "spirit_reply"
	TypeSystemEvent       MessageType = "system_event"
	TypeErrorEvent        MessageType = "error_event"
)

var ErrUnsupportedType = errors.New("unsupported message type")

type Envelope struct {
	Type MessageType `json:"type"`
}

// ClientJoin is the first message each participant sends after the upgrade.
type ClientJoin struct {
	Type        MessageType `json:"type"`
	RoomCode    string      `json:"room_code"`
	DisplayName string      `json:"display_name"`
}

// ClientQuestion asks the room's spirit a question on behalf of a participant.
type ClientQuestion struct {
	Type   MessageType `json:"type"`
	Text   string      `json:"text"`
	Engine string      `json:"engine,omitempty"`
}

type ClientLeave struct {
	Type MessageType `json:"type"`
}

// RoomState is sent to a participant right after a successful join.
type RoomState struct {
	Type         MessageType `json:"type"`
	RoomCode     string      `json:"room_code"`
	SpiritID     string      `json:"spirit_id"`
	SpiritName   string      `json:"spirit_name"`
	Participants []string    `json:"participants"`
	Greeting     string      `json:"greeting,omitempty"`
}

type ParticipantJoined struct {
	Type        MessageType `json:"type"`
	DisplayName string      `json:"display_name"`
}

type ParticipantLeft struct {
	Type        MessageType `json:"type"`
	DisplayName string      `json:"display_name"`
}

// QuestionEcho broadcasts the asked question so every participant sees it.
type QuestionEcho struct {
	Type        MessageType `json:"type"`
	DisplayName string      `json:"display_name"`
	Text        string      `json:"text"`
}

type SpiritReply struct {
	Type       MessageType `json:"type"`
	Text       string      `json:"text"`
	ProviderID string      `json:"provider_id"`
	AskedBy    string      `json:"asked_by"`
	Annoyed    bool        `json:"annoyed,omitempty"`
}

type SystemEvent struct {
	Type   MessageType `json:"type"`
	Code   string      `json:"code"`
	Detail string      `json:"detail,omitempty"`
}

type ErrorEvent struct {
	Type   MessageType `json:"type"`
	Code   string      `json:"code"`
	Detail string      `json:"detail"`
}

func ParseClientMessage(raw []byte) (any, error) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("invalid envelope: %w", err)
	}

	switch env.Type {
	case TypeClientJoin:
		var msg ClientJoin
		if err := json.Unmarshal(raw, &msg); err != nil {
			return nil, err
		}
		if msg.RoomCode == "" || msg.DisplayName == "" {
			return nil, errors.New("invalid client_join")
		}
		return msg, nil
	case TypeClientQuestion:
		var msg ClientQuestion
		if err := json.Unmarshal(raw, &msg); err != nil {
			return nil, err
		}
		if msg.Text == "" {
			return nil, errors.New("invalid client_question")
		}
		return msg, nil
	case TypeClientLeave:
		var msg ClientLeave
		if err := json.Unmarshal(raw, &msg); err != nil {
			return nil, err
		}
		return msg, nil
	default:
		return nil, ErrUnsupportedType
	}
}
