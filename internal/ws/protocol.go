package ws

import "github.com/argyee/cube-connect/internal/room"

// Inbound messages. Every frame carries a type discriminator; the
// remaining fields depend on it.

type CreateRoomMessage struct {
	Type      string `json:"type"`
	WinLength int    `json:"win_length"`
	Capacity  int    `json:"capacity"`
	Cubes     int    `json:"cubes"`
}

type JoinMessage struct {
	Type string `json:"type"`
	Code string `json:"code"`
	Name string `json:"name"`
}

type ReconnectMessage struct {
	Type string `json:"type"`
	Code string `json:"code"`
	Slot int    `json:"slot"`
}

type ReadyMessage struct {
	Type  string `json:"type"`
	Ready bool   `json:"ready"`
}

// IntentMessage covers place, select and move; pass carries no cell.
type IntentMessage struct {
	Type string `json:"type"`
	X    int    `json:"x"`
	Y    int    `json:"y"`
}

// RelayMessage is pass-through convenience traffic (cursor, emote,
// timer toggling). It never touches game state.
type RelayMessage struct {
	Type    string `json:"type"`
	X       int    `json:"x,omitempty"`
	Y       int    `json:"y,omitempty"`
	Emote   string `json:"emote,omitempty"`
	Enabled bool   `json:"enabled,omitempty"`
}

// Outbound messages.

type RoomCreatedMessage struct {
	Type string `json:"type"`
	Code string `json:"code"`
}

type JoinResultMessage struct {
	Type  string `json:"type"`
	Ok    bool   `json:"ok"`
	Code  string `json:"code,omitempty"`
	Slot  int    `json:"slot"`
	Error string `json:"error,omitempty"`
}

type RoomUpdateMessage struct {
	Type    string          `json:"type"`
	Code    string          `json:"code"`
	Seats   []room.SeatView `json:"seats"`
	Started bool            `json:"started"`
}

type RejectedMessage struct {
	Type   string `json:"type"`
	Intent string `json:"intent"`
	Reason string `json:"reason"`
}

// RelayOutMessage is a relay frame stamped with the sender's slot.
type RelayOutMessage struct {
	Type    string `json:"type"`
	Slot    int    `json:"slot"`
	X       int    `json:"x,omitempty"`
	Y       int    `json:"y,omitempty"`
	Emote   string `json:"emote,omitempty"`
	Enabled bool   `json:"enabled,omitempty"`
}
