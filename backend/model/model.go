package model

import "encoding/json"

// ConnID is an opaque connection handle assigned by the transport layer.
type ConnID string

// Client to server event types.
const (
	EventLogin              = "login"
	EventJoinRoom           = "join_room"
	EventSendRoomMessage    = "send_room_message"
	EventSendPrivateMessage = "send_private_message"
	EventTypingStart        = "typing_start"
	EventTypingStop         = "typing_stop"
)

// Server to client event types.
const (
	EventInitialData        = "initial_data"
	EventUserListUpdate     = "user_list_update"
	EventFullUserListUpdate = "full_user_list_update"
	EventReceiveMessage     = "receive_message"
	EventReceivePrivate     = "receive_private_message"
	EventMessageAck         = "message_ack"
	EventUserJoined         = "user_joined"
	EventUserLeft           = "user_left"
	EventUserTyping         = "user_typing"
	EventUserStoppedTyping  = "user_stopped_typing"
	EventError              = "error"
)

// Event is an outbound protocol frame.
type Event struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

// RawEvent is an inbound protocol frame. Payload is decoded
// per-type after dispatch on Type.
type RawEvent struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type LoginPayload struct {
	Username string `json:"username"`
}

type JoinRoomPayload struct {
	Room string `json:"room"`
}

type RoomMessagePayload struct {
	Room      string `json:"room"`
	Text      string `json:"text"`
	Timestamp int64  `json:"timestamp"`
}

type PrivateMessagePayload struct {
	Recipient string `json:"recipient"`
	Text      string `json:"text"`
	Timestamp int64  `json:"timestamp"`
}

type TypingPayload struct {
	Context string `json:"context"`
	Direct  bool   `json:"is_private"`
}

// Message is a routed chat message. Exactly one of Room or Recipient is set.
// ID is assigned by the server at send time, never by the client.
type Message struct {
	ID        string `json:"id"`
	Sender    string `json:"sender"`
	Room      string `json:"room,omitempty"`
	Recipient string `json:"recipient,omitempty"`
	Text      string `json:"text"`
	Timestamp int64  `json:"timestamp"`
}

type MessageAck struct {
	ID string `json:"id"`
}

// InitialData is sent once to a connection right after a successful login.
type InitialData struct {
	Rooms          []string `json:"rooms"`
	CurrentRoom    string   `json:"current_room"`
	UsersInRoom    []string `json:"users_in_room"`
	AllOnlineUsers []string `json:"all_online_users"`
}

// RoomNotice announces a membership change to room members.
type RoomNotice struct {
	Room     string `json:"room"`
	Username string `json:"username"`
}

// TypingNotice carries a typing indicator. Context is a room name
// or, for direct conversations, a peer identity.
type TypingNotice struct {
	Username string `json:"username"`
	Context  string `json:"context"`
}

type ErrorPayload struct {
	Error string `json:"error"`
}

// Wire is a pair of event channels bridging one transport connection
// and the core. RX carries client events in, TX carries server events out.
type Wire struct {
	RX chan RawEvent
	TX chan Event
}

// Outbound delivery is fire-and-forget, so TX is buffered; a consumer
// that stops draining loses events instead of stalling the core.
const defaultWireTXBuffer = 64

func NewWire() Wire {
	return Wire{
		RX: make(chan RawEvent),
		TX: make(chan Event, defaultWireTXBuffer),
	}
}
