package ws

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/argyee/cube-connect/internal/game"
	"github.com/argyee/cube-connect/internal/room"
)

type Client struct {
	id   string
	conn *websocket.Conn
	send chan []byte
}

// Server is the session boundary: it translates socket frames into
// core operations, fans committed snapshots out to every seat, and
// returns rejections to the requester only.
type Server struct {
	core     *room.Store
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[string]*Client
}

func NewServer(core *room.Store, allowAnyOrigin bool) *Server {
	s := &Server{
		core:    core,
		clients: map[string]*Client{},
	}
	if allowAnyOrigin {
		s.upgrader.CheckOrigin = func(*http.Request) bool { return true }
	}
	// Timer-driven updates (grace expiry, room deletion) have no
	// requesting connection; the core hands them to us directly.
	core.SetObserver(s.broadcastRoster)
	return s
}

func (s *Server) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	client := &Client{id: newConnID(), conn: conn, send: make(chan []byte, 16)}

	s.mu.Lock()
	s.clients[client.id] = client
	s.mu.Unlock()

	go s.writeLoop(client)
	s.readLoop(client)
}

func (s *Server) readLoop(c *Client) {
	defer s.unregister(c)

	for {
		_, msg, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		var base struct {
			Type string `json:"type"`
		}
		if err := json.Unmarshal(msg, &base); err != nil {
			continue
		}
		switch base.Type {
		case "create_room":
			var m CreateRoomMessage
			if json.Unmarshal(msg, &m) == nil {
				s.handleCreate(c, m)
			}
		case "join_room":
			var m JoinMessage
			if json.Unmarshal(msg, &m) == nil {
				s.handleJoin(c, m)
			}
		case "reconnect":
			var m ReconnectMessage
			if json.Unmarshal(msg, &m) == nil {
				s.handleReconnect(c, m)
			}
		case "ready":
			var m ReadyMessage
			if json.Unmarshal(msg, &m) == nil {
				s.handleReady(c, m)
			}
		case "start_game":
			s.handleStart(c)
		case "leave":
			if upd := s.core.LeaveSeat(c.id); upd != nil {
				s.broadcastRoster(upd)
			}
		case "place", "select", "move", "pass":
			var m IntentMessage
			if json.Unmarshal(msg, &m) == nil {
				s.handleIntent(c, base.Type, m)
			}
		case "cursor", "emote", "timer":
			var m RelayMessage
			if json.Unmarshal(msg, &m) == nil {
				s.handleRelay(c, m)
			}
		}
	}
}

func (s *Server) writeLoop(c *Client) {
	for msg := range c.send {
		_ = c.conn.WriteMessage(websocket.TextMessage, msg)
	}
	_ = c.conn.Close()
}

func (s *Server) unregister(c *Client) {
	if upd := s.core.LeaveSeat(c.id); upd != nil {
		s.broadcastRoster(upd)
	}
	s.mu.Lock()
	if s.clients[c.id] == c {
		delete(s.clients, c.id)
		close(c.send)
	}
	s.mu.Unlock()
	_ = c.conn.Close()
}

func (s *Server) handleCreate(c *Client, m CreateRoomMessage) {
	code, err := s.core.CreateRoom(m.WinLength, m.Capacity, m.Cubes)
	if err != nil {
		s.sendTo(c.id, RejectedMessage{Type: "rejected", Intent: "create_room", Reason: err.Error()})
		return
	}
	s.sendTo(c.id, RoomCreatedMessage{Type: "room_created", Code: code})
}

func (s *Server) handleJoin(c *Client, m JoinMessage) {
	upd, slot, err := s.core.JoinSeat(m.Code, c.id, m.Name)
	if err != nil {
		s.sendTo(c.id, JoinResultMessage{Type: "join_result", Error: err.Error()})
		return
	}
	s.sendTo(c.id, JoinResultMessage{Type: "join_result", Ok: true, Code: m.Code, Slot: slot})
	s.broadcastRoster(upd)
}

func (s *Server) handleReconnect(c *Client, m ReconnectMessage) {
	upd, err := s.core.ReconnectSeat(m.Code, c.id, m.Slot)
	if err != nil {
		s.sendTo(c.id, JoinResultMessage{Type: "join_result", Error: err.Error()})
		return
	}
	s.sendTo(c.id, JoinResultMessage{Type: "join_result", Ok: true, Code: m.Code, Slot: m.Slot})
	s.broadcastRoster(upd)
	s.broadcastState(upd)
}

func (s *Server) handleReady(c *Client, m ReadyMessage) {
	code, slot, ok := s.core.SeatOf(c.id)
	if !ok {
		s.sendTo(c.id, RejectedMessage{Type: "rejected", Intent: "ready", Reason: room.ErrNotSeated.Error()})
		return
	}
	upd, err := s.core.SetReady(code, slot, m.Ready)
	if err != nil {
		s.sendTo(c.id, RejectedMessage{Type: "rejected", Intent: "ready", Reason: err.Error()})
		return
	}
	s.broadcastRoster(upd)
}

func (s *Server) handleStart(c *Client) {
	code, slot, ok := s.core.SeatOf(c.id)
	if !ok {
		s.sendTo(c.id, RejectedMessage{Type: "rejected", Intent: "start_game", Reason: room.ErrNotSeated.Error()})
		return
	}
	// Slot 0 is the host; starting is a host privilege.
	if slot != 0 {
		s.sendTo(c.id, RejectedMessage{Type: "rejected", Intent: "start_game", Reason: "not_host"})
		return
	}
	upd, err := s.core.StartRoom(code)
	if err != nil {
		s.sendTo(c.id, RejectedMessage{Type: "rejected", Intent: "start_game", Reason: err.Error()})
		return
	}
	s.broadcastRoster(upd)
	s.broadcastState(upd)
}

func (s *Server) handleIntent(c *Client, kind string, m IntentMessage) {
	code, _, ok := s.core.SeatOf(c.id)
	if !ok {
		s.sendTo(c.id, RejectedMessage{Type: "rejected", Intent: kind, Reason: room.ErrNotSeated.Error()})
		return
	}
	in := game.Intent{Type: game.IntentType(kind)}
	if kind != "pass" {
		in.Cell = game.Key(m.X, m.Y)
	}
	upd, err := s.core.SubmitIntent(code, c.id, in)
	if err != nil {
		s.sendTo(c.id, RejectedMessage{Type: "rejected", Intent: kind, Reason: err.Error()})
		return
	}
	s.broadcastState(upd)
}

// handleRelay forwards cursor/emote/timer frames to the other seats of
// the sender's room, stamped with the sender's slot.
func (s *Server) handleRelay(c *Client, m RelayMessage) {
	code, slot, ok := s.core.SeatOf(c.id)
	if !ok {
		return
	}
	out := RelayOutMessage{Type: m.Type, Slot: slot, X: m.X, Y: m.Y, Emote: m.Emote, Enabled: m.Enabled}
	payload, err := json.Marshal(out)
	if err != nil {
		return
	}
	for _, connID := range s.core.Recipients(code) {
		if connID != c.id {
			s.sendRaw(connID, payload)
		}
	}
}

func (s *Server) broadcastRoster(upd *room.Update) {
	if upd == nil {
		return
	}
	msg := RoomUpdateMessage{Type: "room_update", Code: upd.Code, Seats: upd.Seats, Started: upd.Started}
	payload, err := json.Marshal(msg)
	if err != nil {
		return
	}
	for _, connID := range upd.Recipients {
		s.sendRaw(connID, payload)
	}
}

func (s *Server) broadcastState(upd *room.Update) {
	if upd == nil || upd.State == nil {
		return
	}
	payload, err := json.Marshal(upd.State)
	if err != nil {
		return
	}
	for _, connID := range upd.Recipients {
		s.sendRaw(connID, payload)
	}
}

func (s *Server) sendTo(connID string, v any) {
	payload, err := json.Marshal(v)
	if err != nil {
		return
	}
	s.sendRaw(connID, payload)
}

// sendRaw drops the frame if the client's buffer is full; a stalled
// socket must not block the room. The send happens under the client
// map lock so it can never race the channel close in unregister.
func (s *Server) sendRaw(connID string, payload []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.clients[connID]
	if c == nil {
		return
	}
	select {
	case c.send <- payload:
	default:
		log.Warn().Str("conn", connID).Msg("dropping frame for slow client")
	}
}
