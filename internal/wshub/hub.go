package wshub

import (
	"encoding/json"
	"log"

	"triviabuzz/internal/metrics"
)

// Store is the persistence collaborator consumed by the hub.
type Store interface {
	ActiveQuestion(roomCode string) (int64, error)
	SetActiveQuestion(roomCode string, questionID int64) error
	RecordBuzz(roomCode, userID string, questionID int64) (int64, error)
	RecordScore(roomCode, userID string, questionID int64, points int) (int64, error)
	ListParticipants(roomCode string) ([]Participant, error)
	TotalScore(roomCode, userID string) (int, error)
}

// Hub routes inbound room events to the arbitrator and storage, then fans
// the derived events back out through the registry.
type Hub struct {
	Registry *Registry
	Arb      *Arbitrator
	Store    Store
}

func NewHub(store Store) *Hub {
	registry := NewRegistry()
	arb := NewArbitrator()
	// Arbitration state dies with the room, inside the registry's critical
	// section, so a concurrent re-join cannot resume state that is about to
	// be wiped.
	registry.OnEvict = arb.Forget
	return &Hub{
		Registry: registry,
		Arb:      arb,
		Store:    store,
	}
}

// HandleConnect registers the connection, sends it a private room snapshot,
// and announces the join to the room.
func (h *Hub) HandleConnect(c *Client) {
	h.Registry.Join(c.RoomCode, c)
	metrics.ConnectionsActive.Inc()

	snapshot := ServerMessage{
		Type:   TypeRoomSnapshot,
		UserID: c.UserID,
	}
	questionID, err := h.Store.ActiveQuestion(c.RoomCode)
	if err != nil {
		log.Printf("[Hub] ActiveQuestion error: %v\n", err)
	} else {
		snapshot.QuestionID = questionID
	}
	// A persisted question may predate this room's in-memory state.
	snapshot.Generation = h.Arb.Resume(c.RoomCode, snapshot.QuestionID)

	participants, err := h.Store.ListParticipants(c.RoomCode)
	if err != nil {
		log.Printf("[Hub] ListParticipants error: %v\n", err)
	} else {
		snapshot.Participants = participants
	}
	h.Registry.SendTo(c, snapshot)

	h.Registry.Broadcast(c.RoomCode, ServerMessage{
		Type:        TypeParticipantJoined,
		UserID:      c.UserID,
		DisplayName: c.Name,
	})
}

// HandleDisconnect removes the connection and announces the leave. Safe to
// call more than once per connection; only the first call has effect.
func (h *Hub) HandleDisconnect(c *Client) {
	if !c.left.CompareAndSwap(false, true) {
		return
	}

	h.Registry.Leave(c.RoomCode, c)
	metrics.ConnectionsActive.Dec()

	h.Registry.Broadcast(c.RoomCode, ServerMessage{
		Type:        TypeParticipantLeft,
		UserID:      c.UserID,
		DisplayName: c.Name,
	})
}

// HandleMessage dispatches one decoded inbound frame. A malformed payload is
// reported privately and the connection stays open. Frames from a connection
// that already left the room are dropped.
func (h *Hub) HandleMessage(c *Client, raw []byte) {
	if c.left.Load() {
		return
	}

	var msg ClientMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		h.Registry.SendTo(c, ServerMessage{Type: TypeError, Reason: "malformed message"})
		return
	}

	switch msg.Type {
	case TypeSelectQuestion:
		h.handleSelectQuestion(c, msg)
	case TypeBuzz:
		h.handleBuzz(c, msg)
	case TypeAwardPoints:
		h.handleAwardPoints(c, msg)
	case TypeLeave:
		h.HandleDisconnect(c)
		// Closing the connection ends the transport's read loop.
		c.Close()
	default:
		h.Registry.SendTo(c, ServerMessage{Type: TypeError, Reason: "unknown message type"})
	}
}

func (h *Hub) handleSelectQuestion(c *Client, msg ClientMessage) {
	if !c.IsHost {
		h.Registry.SendTo(c, ServerMessage{Type: TypeError, Reason: "host only"})
		return
	}

	// Persist first: if storage fails, nobody else sees a change.
	if err := h.Store.SetActiveQuestion(c.RoomCode, msg.QuestionID); err != nil {
		log.Printf("[Hub] SetActiveQuestion error: %v\n", err)
		h.Registry.SendTo(c, ServerMessage{Type: TypeError, Reason: "could not update question"})
		return
	}

	gen := h.Arb.OpenQuestion(c.RoomCode, msg.QuestionID)
	h.Registry.Broadcast(c.RoomCode, ServerMessage{
		Type:       TypeQuestionChanged,
		QuestionID: msg.QuestionID,
		Generation: gen,
	})
}

func (h *Hub) handleBuzz(c *Client, msg ClientMessage) {
	seq, questionID, err := h.Arb.RegisterBuzz(c.RoomCode, c.UserID, msg.Generation)
	if err != nil {
		metrics.BuzzesTotal.WithLabelValues(err.Error()).Inc()
		h.Registry.SendTo(c, ServerMessage{
			Type:   TypeBuzzRejected,
			UserID: c.UserID,
			Reason: err.Error(),
		})
		return
	}
	metrics.BuzzesTotal.WithLabelValues("accepted").Inc()

	// Audit trail only; arbitration is already committed, so a failed insert
	// must not change the winner.
	if _, err := h.Store.RecordBuzz(c.RoomCode, c.UserID, questionID); err != nil {
		log.Printf("[Hub] RecordBuzz error: %v\n", err)
	}

	h.Registry.Broadcast(c.RoomCode, ServerMessage{
		Type:        TypeBuzzRegistered,
		UserID:      c.UserID,
		DisplayName: c.Name,
		Sequence:    seq,
	})
}

func (h *Hub) handleAwardPoints(c *Client, msg ClientMessage) {
	if !c.IsHost {
		h.Registry.SendTo(c, ServerMessage{Type: TypeError, Reason: "host only"})
		return
	}
	if msg.UserID == "" {
		h.Registry.SendTo(c, ServerMessage{Type: TypeError, Reason: "userId is required"})
		return
	}

	if _, err := h.Store.RecordScore(c.RoomCode, msg.UserID, msg.QuestionID, msg.Points); err != nil {
		log.Printf("[Hub] RecordScore error: %v\n", err)
		h.Registry.SendTo(c, ServerMessage{Type: TypeError, Reason: "could not record score"})
		return
	}

	total, err := h.Store.TotalScore(c.RoomCode, msg.UserID)
	if err != nil {
		log.Printf("[Hub] TotalScore error: %v\n", err)
		total = msg.Points
	}

	h.Registry.Broadcast(c.RoomCode, ServerMessage{
		Type:       TypeScoreUpdated,
		UserID:     msg.UserID,
		Points:     msg.Points,
		TotalScore: total,
	})
}
