package intention_test

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"pgregory.net/rapid"

	"github.com/moshez/Pomodouroboros/internal/intention"
)

var now = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

// recorder captures listener notifications as "<event>:<description>".
type recorder struct {
	events []string
}

func (r *recorder) IntentionAdded(i intention.Intention) {
	r.events = append(r.events, "added:"+i.Description)
}

func (r *recorder) IntentionAbandoned(i intention.Intention) {
	r.events = append(r.events, "abandoned:"+i.Description)
}

func (r *recorder) IntentionCompleted(i intention.Intention) {
	r.events = append(r.events, "completed:"+i.Description)
}

func TestAddCreatesPendingIntention(t *testing.T) {
	rec := &recorder{}
	reg := intention.NewRegistry(rec)

	est := 3
	in, err := reg.Add("  Write report ", &est, now)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if in.Description != "Write report" {
		t.Errorf("Description = %q, want %q", in.Description, "Write report")
	}
	if in.Status != intention.Pending {
		t.Errorf("Status = %s, want pending", in.Status)
	}
	if !in.Created.Equal(now) {
		t.Errorf("Created = %v, want %v", in.Created, now)
	}
	if in.Estimate == nil || *in.Estimate != 3 {
		t.Errorf("Estimate = %v, want 3", in.Estimate)
	}
	if in.ID == "" {
		t.Error("expected a generated identifier")
	}
	if len(rec.events) != 1 || rec.events[0] != "added:Write report" {
		t.Errorf("events = %v", rec.events)
	}
}

func TestAddRejectsNegativeEstimate(t *testing.T) {
	rec := &recorder{}
	reg := intention.NewRegistry(rec)

	est := -1
	_, err := reg.Add("Write report", &est, now)
	if !errors.Is(err, intention.ErrInvalidEstimate) {
		t.Fatalf("expected ErrInvalidEstimate, got %v", err)
	}
	if errors.Is(err, intention.ErrInvalidState) {
		t.Errorf("a bad estimate is not a lifecycle error: %v", err)
	}
	if reg.Len() != 0 || len(rec.events) != 0 {
		t.Errorf("rejected intention was recorded: len=%d events=%v", reg.Len(), rec.events)
	}
}

func TestAddRejectsBlankDescription(t *testing.T) {
	reg := intention.NewRegistry(nil)
	if _, err := reg.Add("   ", nil, now); !errors.Is(err, intention.ErrEmptyDescription) {
		t.Fatalf("expected ErrEmptyDescription, got %v", err)
	}
	if reg.Len() != 0 {
		t.Errorf("Len = %d, want 0", reg.Len())
	}
}

func TestCompleteAndAbandonAreTerminal(t *testing.T) {
	rec := &recorder{}
	reg := intention.NewRegistry(rec)

	a, _ := reg.Add("a", nil, now)
	b, _ := reg.Add("b", nil, now)

	if _, err := reg.Complete(a.ID); err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if _, err := reg.Abandon(b.ID); err != nil {
		t.Fatalf("Abandon: %v", err)
	}

	for _, id := range []string{a.ID, b.ID} {
		if _, err := reg.Complete(id); !errors.Is(err, intention.ErrInvalidState) {
			t.Errorf("Complete(%s) again: expected ErrInvalidState, got %v", id, err)
		}
		if _, err := reg.Abandon(id); !errors.Is(err, intention.ErrInvalidState) {
			t.Errorf("Abandon(%s) again: expected ErrInvalidState, got %v", id, err)
		}
	}

	want := []string{"added:a", "added:b", "completed:a", "abandoned:b"}
	if fmt.Sprint(rec.events) != fmt.Sprint(want) {
		t.Errorf("events = %v, want %v", rec.events, want)
	}
}

func TestUnknownIdentifier(t *testing.T) {
	reg := intention.NewRegistry(nil)
	if _, err := reg.Complete("nope"); !errors.Is(err, intention.ErrNotFound) {
		t.Errorf("Complete: expected ErrNotFound, got %v", err)
	}
	if _, err := reg.Abandon("nope"); !errors.Is(err, intention.ErrNotFound) {
		t.Errorf("Abandon: expected ErrNotFound, got %v", err)
	}
	if _, err := reg.Get("nope"); !errors.Is(err, intention.ErrNotFound) {
		t.Errorf("Get: expected ErrNotFound, got %v", err)
	}
}

func TestFindByPrefix(t *testing.T) {
	reg := intention.NewRegistry(nil)
	in, _ := reg.Add("only one", nil, now)

	got, err := reg.Find(in.ID[:6])
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if got.ID != in.ID {
		t.Errorf("Find returned %s, want %s", got.ID, in.ID)
	}
	if _, err := reg.Find(""); !errors.Is(err, intention.ErrNotFound) {
		t.Errorf("Find(\"\"): expected ErrNotFound, got %v", err)
	}
}

func TestFindAmbiguousPrefix(t *testing.T) {
	reg := intention.NewRegistry(nil)
	for i := 0; i < 40; i++ {
		reg.Add(fmt.Sprintf("intention %d", i), nil, now)
	}
	// Forty UUIDs share at most sixteen possible leading hex digits, so at
	// least one single-character prefix must be shared.
	counts := map[string]int{}
	for _, in := range reg.All() {
		counts[in.ID[:1]]++
	}
	for prefix, n := range counts {
		if n > 1 {
			if _, err := reg.Find(prefix); !errors.Is(err, intention.ErrAmbiguous) {
				t.Errorf("Find(%q) with %d matches: expected ErrAmbiguous, got %v", prefix, n, err)
			}
			return
		}
	}
	t.Fatal("no shared prefix found")
}

func TestSnapshotsAreCopies(t *testing.T) {
	reg := intention.NewRegistry(nil)
	est := 2
	in, _ := reg.Add("copy", &est, now)
	*in.Estimate = 99
	in.Status = intention.Completed

	got, _ := reg.Get(in.ID)
	if *got.Estimate != 2 || got.Status != intention.Pending {
		t.Errorf("registry state leaked through snapshot: %+v", got)
	}
}

// Property: Selectable returns exactly the pending intentions, in creation order.
func TestSelectableIsPendingInCreationOrder(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		reg := intention.NewRegistry(nil)
		n := rapid.IntRange(0, 20).Draw(t, "n")

		var wantIDs []string
		for i := 0; i < n; i++ {
			in, err := reg.Add(fmt.Sprintf("goal %d", i), nil, now.Add(time.Duration(i)*time.Minute))
			if err != nil {
				t.Fatalf("Add: %v", err)
			}
			switch rapid.IntRange(0, 2).Draw(t, "fate") {
			case 0:
				wantIDs = append(wantIDs, in.ID)
			case 1:
				reg.Complete(in.ID)
			case 2:
				reg.Abandon(in.ID)
			}
		}

		got := reg.Selectable()
		if len(got) != len(wantIDs) {
			t.Fatalf("Selectable returned %d intentions, want %d", len(got), len(wantIDs))
		}
		for i, in := range got {
			if in.ID != wantIDs[i] {
				t.Fatalf("Selectable[%d] = %s, want %s", i, in.ID, wantIDs[i])
			}
			if in.Status != intention.Pending {
				t.Fatalf("Selectable[%d] has status %s", i, in.Status)
			}
		}
	})
}
