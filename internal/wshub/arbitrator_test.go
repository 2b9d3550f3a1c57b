package wshub

import (
	"errors"
	"fmt"
	"sync"
	"testing"
)

func TestRegisterBuzz_ArrivalOrder(t *testing.T) {
	a := NewArbitrator()
	gen := a.OpenQuestion("ROOM1", 7)
	if gen != 1 {
		t.Fatalf("generation = %d, want 1", gen)
	}

	// Hub arrival order is what counts, regardless of who pressed first
	for i, user := range []string{"alice", "carol", "bob"} {
		seq, questionID, err := a.RegisterBuzz("ROOM1", user, gen)
		if err != nil {
			t.Fatalf("RegisterBuzz(%s) error: %v", user, err)
		}
		if seq != i+1 {
			t.Errorf("%s sequence = %d, want %d", user, seq, i+1)
		}
		if questionID != 7 {
			t.Errorf("%s questionID = %d, want 7", user, questionID)
		}
	}
}

func TestRegisterBuzz_NoOpenQuestion(t *testing.T) {
	a := NewArbitrator()

	_, _, err := a.RegisterBuzz("ROOM1", "alice", 0)
	if !errors.Is(err, ErrStaleGeneration) {
		t.Errorf("err = %v, want ErrStaleGeneration", err)
	}
}

func TestRegisterBuzz_StaleGeneration(t *testing.T) {
	a := NewArbitrator()
	oldGen := a.OpenQuestion("ROOM1", 7)
	newGen := a.OpenQuestion("ROOM1", 8)
	if newGen != oldGen+1 {
		t.Fatalf("generation did not advance: %d -> %d", oldGen, newGen)
	}

	_, _, err := a.RegisterBuzz("ROOM1", "dave", oldGen)
	if !errors.Is(err, ErrStaleGeneration) {
		t.Errorf("err = %v, want ErrStaleGeneration", err)
	}

	// The current generation still accepts
	if _, _, err := a.RegisterBuzz("ROOM1", "dave", newGen); err != nil {
		t.Errorf("RegisterBuzz(current) error: %v", err)
	}
}

func TestRegisterBuzz_Duplicate(t *testing.T) {
	a := NewArbitrator()
	gen := a.OpenQuestion("ROOM1", 7)

	seq, _, err := a.RegisterBuzz("ROOM1", "alice", gen)
	if err != nil {
		t.Fatalf("RegisterBuzz() error: %v", err)
	}

	_, _, err = a.RegisterBuzz("ROOM1", "alice", gen)
	if !errors.Is(err, ErrDuplicateBuzz) {
		t.Errorf("err = %v, want ErrDuplicateBuzz", err)
	}

	// The original sequence is unaffected: the next buzzer gets seq+1
	seq2, _, err := a.RegisterBuzz("ROOM1", "bob", gen)
	if err != nil {
		t.Fatalf("RegisterBuzz(bob) error: %v", err)
	}
	if seq2 != seq+1 {
		t.Errorf("bob sequence = %d, want %d", seq2, seq+1)
	}
}

func TestRegisterBuzz_ConcurrentTotalOrder(t *testing.T) {
	a := NewArbitrator()
	gen := a.OpenQuestion("ROOM1", 7)

	const n = 50
	seqs := make(chan int, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			seq, _, err := a.RegisterBuzz("ROOM1", fmt.Sprintf("user%d", i), gen)
			if err != nil {
				t.Errorf("RegisterBuzz() error: %v", err)
				return
			}
			seqs <- seq
		}(i)
	}
	wg.Wait()
	close(seqs)

	// Accepted sequences must be exactly 1..n with no gaps or duplicates
	seen := make(map[int]bool, n)
	for seq := range seqs {
		if seq < 1 || seq > n {
			t.Errorf("sequence %d out of range 1..%d", seq, n)
		}
		if seen[seq] {
			t.Errorf("duplicate sequence %d", seq)
		}
		seen[seq] = true
	}
	if len(seen) != n {
		t.Errorf("got %d distinct sequences, want %d", len(seen), n)
	}
}

func TestOpenQuestion_ResetsBuzzState(t *testing.T) {
	a := NewArbitrator()
	gen := a.OpenQuestion("ROOM1", 7)
	a.RegisterBuzz("ROOM1", "alice", gen)

	gen2 := a.OpenQuestion("ROOM1", 8)

	// alice may buzz again in the new generation, starting from sequence 1
	seq, questionID, err := a.RegisterBuzz("ROOM1", "alice", gen2)
	if err != nil {
		t.Fatalf("RegisterBuzz() error: %v", err)
	}
	if seq != 1 {
		t.Errorf("sequence = %d, want 1", seq)
	}
	if questionID != 8 {
		t.Errorf("questionID = %d, want 8", questionID)
	}
}

func TestOpenQuestion_ClearRejectsBuzzes(t *testing.T) {
	a := NewArbitrator()
	a.OpenQuestion("ROOM1", 7)
	gen := a.OpenQuestion("ROOM1", 0) // host cleared the question

	_, _, err := a.RegisterBuzz("ROOM1", "alice", gen)
	if !errors.Is(err, ErrStaleGeneration) {
		t.Errorf("err = %v, want ErrStaleGeneration with no open question", err)
	}
}

func TestResume(t *testing.T) {
	a := NewArbitrator()

	if gen := a.Resume("ROOM1", 7); gen != 1 {
		t.Errorf("Resume() = %d, want 1", gen)
	}
	// Already seeded: no-op
	if gen := a.Resume("ROOM1", 9); gen != 1 {
		t.Errorf("second Resume() = %d, want 1", gen)
	}
	// No persisted question: nothing to seed
	if gen := a.Resume("ROOM2", 0); gen != 0 {
		t.Errorf("Resume(0) = %d, want 0", gen)
	}
}

func TestForget(t *testing.T) {
	a := NewArbitrator()
	a.OpenQuestion("ROOM1", 7)

	a.Forget("ROOM1")

	if gen := a.Generation("ROOM1"); gen != 0 {
		t.Errorf("generation after Forget = %d, want 0", gen)
	}
}

func TestBuzzRounds(t *testing.T) {
	a := NewArbitrator()

	if gen := a.Generation("R1"); gen != 0 {
		t.Fatalf("fresh room generation = %d, want 0", gen)
	}

	// Host opens Q1
	gen := a.OpenQuestion("R1", 1)
	if gen != 1 {
		t.Fatalf("generation = %d, want 1", gen)
	}

	// A, C, B arrive in that order at the hub
	for i, user := range []string{"A", "C", "B"} {
		seq, _, err := a.RegisterBuzz("R1", user, gen)
		if err != nil {
			t.Fatalf("RegisterBuzz(%s) error: %v", user, err)
		}
		if seq != i+1 {
			t.Errorf("%s sequence = %d, want %d", user, seq, i+1)
		}
	}

	// A buzzes again
	if _, _, err := a.RegisterBuzz("R1", "A", gen); !errors.Is(err, ErrDuplicateBuzz) {
		t.Errorf("err = %v, want ErrDuplicateBuzz", err)
	}

	// Host opens Q2; a late buzz from D still tagged with the old generation
	gen2 := a.OpenQuestion("R1", 2)
	if gen2 != 2 {
		t.Fatalf("generation = %d, want 2", gen2)
	}
	if _, _, err := a.RegisterBuzz("R1", "D", gen); !errors.Is(err, ErrStaleGeneration) {
		t.Errorf("err = %v, want ErrStaleGeneration", err)
	}
}
