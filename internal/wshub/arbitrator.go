package wshub

import (
	"errors"
	"sync"
)

// Rejection reasons surfaced to the buzzing client.
var (
	ErrStaleGeneration = errors.New("stale-generation")
	ErrDuplicateBuzz   = errors.New("duplicate")
)

// questionState tracks buzz ordering for a room's current generation.
// All fields are guarded by mu, which is the single serialization point for
// sequence assignment: sequences reflect hub arrival order, never client
// timestamps.
type questionState struct {
	mu         sync.Mutex
	generation int64
	questionID int64 // 0 when no question is open
	nextSeq    int
	buzzed     map[string]struct{}
}

// Arbitrator assigns a strict total order to buzzes within each room's
// current generation. The generation advances whenever the active question
// changes, which retires every earlier buzz.
type Arbitrator struct {
	mu    sync.Mutex
	rooms map[string]*questionState
}

func NewArbitrator() *Arbitrator {
	return &Arbitrator{
		rooms: make(map[string]*questionState),
	}
}

func (a *Arbitrator) state(roomCode string) *questionState {
	a.mu.Lock()
	defer a.mu.Unlock()
	st, ok := a.rooms[roomCode]
	if !ok {
		st = &questionState{buzzed: make(map[string]struct{})}
		a.rooms[roomCode] = st
	}
	return st
}

// OpenQuestion advances the room's generation and resets buzz state.
// questionID 0 means the current question was cleared. Returns the new
// generation for stamping into the questionChanged broadcast.
func (a *Arbitrator) OpenQuestion(roomCode string, questionID int64) int64 {
	st := a.state(roomCode)
	st.mu.Lock()
	defer st.mu.Unlock()

	st.generation++
	st.questionID = questionID
	st.nextSeq = 1
	st.buzzed = make(map[string]struct{})
	return st.generation
}

// Resume seeds arbitration for a room whose persisted active question
// predates its in-memory state (first join after a restart or room
// re-creation). No-op if a generation is already open.
func (a *Arbitrator) Resume(roomCode string, questionID int64) int64 {
	st := a.state(roomCode)
	st.mu.Lock()
	defer st.mu.Unlock()

	if st.generation == 0 && questionID != 0 {
		st.generation = 1
		st.questionID = questionID
		st.nextSeq = 1
		st.buzzed = make(map[string]struct{})
	}
	return st.generation
}

// Generation returns the room's current generation, 0 before any question.
func (a *Arbitrator) Generation(roomCode string) int64 {
	st := a.state(roomCode)
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.generation
}

// RegisterBuzz records a buzz against the room's current generation and
// returns its arrival sequence (1 = first) plus the question it belongs to.
// A claimed generation that doesn't match the current one is stale; a second
// buzz from the same participant in one generation is a duplicate.
func (a *Arbitrator) RegisterBuzz(roomCode, userID string, claimedGeneration int64) (int, int64, error) {
	st := a.state(roomCode)
	st.mu.Lock()
	defer st.mu.Unlock()

	if st.questionID == 0 || claimedGeneration != st.generation {
		return 0, 0, ErrStaleGeneration
	}
	if _, ok := st.buzzed[userID]; ok {
		return 0, 0, ErrDuplicateBuzz
	}

	st.buzzed[userID] = struct{}{}
	seq := st.nextSeq
	st.nextSeq++
	return seq, st.questionID, nil
}

// Forget drops a room's arbitration state after its last connection leaves,
// so a re-created room starts fresh.
func (a *Arbitrator) Forget(roomCode string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.rooms, roomCode)
}
