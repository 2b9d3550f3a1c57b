package wshub

import (
	"encoding/json"
	"log"
	"sync"

	"triviabuzz/internal/metrics"
)

// roomSet holds one room's live connections behind its own lock, so a busy
// room's broadcasts never block another room.
type roomSet struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
}

// Registry maps room codes to their sets of live connections. Membership
// mutation is serialized by the registry lock; broadcasts iterate over a
// point-in-time snapshot, never the live set.
type Registry struct {
	mu    sync.RWMutex
	rooms map[string]*roomSet

	// OnEvict, when set, runs under the registry lock as an emptied room is
	// removed, so room-scoped state elsewhere is torn down before any
	// concurrent join can recreate the room.
	OnEvict func(roomCode string)
}

func NewRegistry() *Registry {
	return &Registry{
		rooms: make(map[string]*roomSet),
	}
}

// Join adds the connection to the room, creating the room if absent.
// Idempotent: re-joining never produces duplicate fan-out entries.
func (r *Registry) Join(roomCode string, c *Client) {
	r.mu.Lock()
	rs, ok := r.rooms[roomCode]
	if !ok {
		rs = &roomSet{clients: make(map[*Client]struct{})}
		r.rooms[roomCode] = rs
	}
	rs.mu.Lock()
	rs.clients[c] = struct{}{}
	count := len(rs.clients)
	rs.mu.Unlock()
	r.mu.Unlock()

	log.Printf("[Registry] client joined room %s (%d connected)\n", roomCode, count)
}

// Leave removes the connection and returns the number of members left.
// No-op for connections that are not members. The room is evicted when its
// set empties; a later join creates a fresh one.
func (r *Registry) Leave(roomCode string, c *Client) int {
	r.mu.Lock()
	rs, ok := r.rooms[roomCode]
	if !ok {
		r.mu.Unlock()
		return 0
	}
	rs.mu.Lock()
	delete(rs.clients, c)
	count := len(rs.clients)
	rs.mu.Unlock()
	if count == 0 {
		delete(r.rooms, roomCode)
		if r.OnEvict != nil {
			r.OnEvict(roomCode)
		}
		log.Printf("[Registry] room %s removed\n", roomCode)
	}
	r.mu.Unlock()

	return count
}

// Members returns a point-in-time copy of the room's connections, safe to
// iterate while joins and leaves happen concurrently.
func (r *Registry) Members(roomCode string) []*Client {
	r.mu.RLock()
	rs, ok := r.rooms[roomCode]
	r.mu.RUnlock()
	if !ok {
		return nil
	}

	rs.mu.RLock()
	defer rs.mu.RUnlock()
	members := make([]*Client, 0, len(rs.clients))
	for c := range rs.clients {
		members = append(members, c)
	}
	return members
}

// Broadcast sends the message to every member of the room. A dead connection
// is pruned as an implicit leave and never aborts delivery to the rest.
func (r *Registry) Broadcast(roomCode string, msg ServerMessage) {
	msg.RoomCode = roomCode
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("[Registry] Marshal error: %v\n", err)
		return
	}
	metrics.BroadcastsTotal.Inc()

	for _, c := range r.Members(roomCode) {
		if !c.TrySend(data) {
			r.Leave(roomCode, c)
		}
	}
}

// SendTo delivers a message to a single connection, bypassing fan-out.
func (r *Registry) SendTo(c *Client, msg ServerMessage) {
	msg.RoomCode = c.RoomCode
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("[Registry] Marshal error: %v\n", err)
		return
	}
	if !c.TrySend(data) {
		r.Leave(c.RoomCode, c)
	}
}

// Stats reports the number of active rooms and connections.
func (r *Registry) Stats() (rooms, clients int) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rooms = len(r.rooms)
	for _, rs := range r.rooms {
		rs.mu.RLock()
		clients += len(rs.clients)
		rs.mu.RUnlock()
	}
	return rooms, clients
}
