// Package intention owns the set of user-declared goals and their
// pending → completed/abandoned lifecycle.
package intention

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned for an identifier no intention carries.
	ErrNotFound = errors.New("intention not found")
	// ErrInvalidState is returned when an operation is illegal for the
	// intention's current status.
	ErrInvalidState = errors.New("invalid state")
	// ErrAmbiguous is returned by Find when a prefix matches several intentions.
	ErrAmbiguous = errors.New("ambiguous intention prefix")
	// ErrEmptyDescription is returned by Add for a blank description.
	ErrEmptyDescription = errors.New("intention description is empty")
	// ErrInvalidEstimate is returned by Add for a negative estimate.
	ErrInvalidEstimate = errors.New("intention estimate is negative")
)

// Registry holds every intention ever added, in creation order. Intentions
// are never removed so past Pomodoros can always resolve their identifier.
//
// A Registry is not safe for concurrent use.
type Registry struct {
	items    []*Intention
	byID     map[string]*Intention
	listener Listener
	newID    func() string
}

// NewRegistry returns an empty Registry notifying l. A nil l is allowed.
func NewRegistry(l Listener) *Registry {
	return &Registry{
		byID:     make(map[string]*Intention),
		listener: l,
		newID:    uuid.NewString,
	}
}

// SetListener replaces the listener notified of lifecycle changes.
func (r *Registry) SetListener(l Listener) {
	r.listener = l
}

// Add creates a pending intention created at now.
func (r *Registry) Add(description string, estimate *int, now time.Time) (Intention, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return Intention{}, ErrEmptyDescription
	}
	if estimate != nil && *estimate < 0 {
		return Intention{}, fmt.Errorf("estimate %d: %w", *estimate, ErrInvalidEstimate)
	}

	in := &Intention{
		ID:          r.newID(),
		Description: description,
		Created:     now,
		Status:      Pending,
	}
	if estimate != nil {
		e := *estimate
		in.Estimate = &e
	}
	r.items = append(r.items, in)
	r.byID[in.ID] = in

	if r.listener != nil {
		r.listener.IntentionAdded(in.snapshot())
	}
	return in.snapshot(), nil
}

// Abandon moves a pending intention to Abandoned.
func (r *Registry) Abandon(id string) (Intention, error) {
	in, err := r.transition(id, Abandoned)
	if err != nil {
		return Intention{}, err
	}
	if r.listener != nil {
		r.listener.IntentionAbandoned(in)
	}
	return in, nil
}

// Complete moves a pending intention to Completed. It can no longer be
// selected for new Pomodoros.
func (r *Registry) Complete(id string) (Intention, error) {
	in, err := r.transition(id, Completed)
	if err != nil {
		return Intention{}, err
	}
	if r.listener != nil {
		r.listener.IntentionCompleted(in)
	}
	return in, nil
}

func (r *Registry) transition(id string, to Status) (Intention, error) {
	in, ok := r.byID[id]
	if !ok {
		return Intention{}, fmt.Errorf("%s: %w", id, ErrNotFound)
	}
	if in.Status != Pending {
		return Intention{}, fmt.Errorf("intention %s is already %s: %w", in.ShortID(), in.Status, ErrInvalidState)
	}
	in.Status = to
	return in.snapshot(), nil
}

// Get returns the intention with exactly this identifier.
func (r *Registry) Get(id string) (Intention, error) {
	in, ok := r.byID[id]
	if !ok {
		return Intention{}, fmt.Errorf("%s: %w", id, ErrNotFound)
	}
	return in.snapshot(), nil
}

// Find resolves an identifier or a unique identifier prefix.
func (r *Registry) Find(prefix string) (Intention, error) {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return Intention{}, fmt.Errorf("empty identifier: %w", ErrNotFound)
	}
	if in, ok := r.byID[prefix]; ok {
		return in.snapshot(), nil
	}

	var match *Intention
	for _, in := range r.items {
		if !strings.HasPrefix(in.ID, prefix) {
			continue
		}
		if match != nil {
			return Intention{}, fmt.Errorf("%s: %w", prefix, ErrAmbiguous)
		}
		match = in
	}
	if match == nil {
		return Intention{}, fmt.Errorf("%s: %w", prefix, ErrNotFound)
	}
	return match.snapshot(), nil
}

// Selectable returns the pending intentions in creation order.
func (r *Registry) Selectable() []Intention {
	var out []Intention
	for _, in := range r.items {
		if in.Selectable() {
			out = append(out, in.snapshot())
		}
	}
	return out
}

// All returns every intention in creation order.
func (r *Registry) All() []Intention {
	out := make([]Intention, 0, len(r.items))
	for _, in := range r.items {
		out = append(out, in.snapshot())
	}
	return out
}

// Len reports how many intentions have been added.
func (r *Registry) Len() int { return len(r.items) }

// snapshot copies in so callers cannot mutate registry state.
func (in *Intention) snapshot() Intention {
	c := *in
	if in.Estimate != nil {
		e := *in.Estimate
		c.Estimate = &e
	}
	return c
}
